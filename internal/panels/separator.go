package panels

// Edge names the side of the container that exposes the width handle.
type Edge string

const (
	EdgeLeft  Edge = "left"
	EdgeRight Edge = "right"
)

// ParseEdge maps a config string to an Edge. Anything but "left" is EdgeRight.
func ParseEdge(s string) Edge {
	if Edge(s) == EdgeLeft {
		return EdgeLeft
	}
	return EdgeRight
}

// Separator is the draggable strip below panel Index, or the container's
// outer edge handle.
type Separator struct {
	c      *Container
	index  int
	edge   bool
	active bool
	node   *Node
}

// createSeparator binds a new strip to the panel at indexAbove.
func (c *Container) createSeparator(indexAbove int) *Separator {
	return &Separator{c: c, index: indexAbove}
}

// Index is the position of the panel above the strip.
func (s *Separator) Index() int { return s.index }

// Edge reports whether this is the outer width handle.
func (s *Separator) Edge() bool { return s.edge }

// Active reports whether a drag started on this separator is in progress.
func (s *Separator) Active() bool { return s.active }

// Node returns the separator's node in the container tree. The edge handle has none.
func (s *Separator) Node() *Node { return s.node }

// PointerDown starts a drag from this separator. It returns false when the
// drag was rejected (another drag is running, or a neighbour cannot resize).
func (s *Separator) PointerDown(x, y int) bool {
	if s.edge {
		return s.c.beginEdgeDrag(s, x)
	}
	return s.c.beginResizeDrag(s, y)
}

func (s *Separator) setActive(on bool) {
	s.active = on
	if s.node != nil {
		s.node.Text = ""
		if on {
			s.node.Text = "active"
		}
	}
}

func (s *Separator) ensureNode() *Node {
	if s.node == nil && !s.edge {
		s.node = NewNode("separator")
		s.node.Height = s.c.opts.SeparatorSize
		s.node.Content = s
	}
	return s.node
}
