package panels

// Node is a retained element in the host tree. Panels, separators and the
// overlay surface are built out of nodes; the host renders whatever tree the
// engine leaves behind.
//
// A node has at most one parent. Every attach operation detaches the node from
// its previous parent first, so moving a node never duplicates it.
type Node struct {
	Name    string
	Text    string // static text (titles, placeholder message)
	Hidden  bool
	Height  int
	Content any // populated by the subsystem that owns the node

	parent   *Node
	children []*Node
}

// NewNode creates a detached node.
func NewNode(name string) *Node {
	return &Node{Name: name}
}

// Parent returns the node's current parent, or nil when detached.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Len returns the number of children.
func (n *Node) Len() int {
	return len(n.children)
}

// IndexOf returns the position of c among n's children, or -1.
func (n *Node) IndexOf(c *Node) int {
	for i, ch := range n.children {
		if ch == c {
			return i
		}
	}
	return -1
}

// Append attaches c as the last child.
func (n *Node) Append(c *Node) {
	n.InsertAt(len(n.children), c)
}

// InsertAt attaches c at position i, clamped to [0, Len()].
func (n *Node) InsertAt(i int, c *Node) {
	if c == nil || c == n {
		return
	}
	c.Detach()
	if i < 0 {
		i = 0
	}
	if i > len(n.children) {
		i = len(n.children)
	}
	n.children = append(n.children, nil)
	copy(n.children[i+1:], n.children[i:])
	n.children[i] = c
	c.parent = n
}

// Remove detaches c if it is a child of n.
func (n *Node) Remove(c *Node) bool {
	i := n.IndexOf(c)
	if i < 0 {
		return false
	}
	n.children = append(n.children[:i], n.children[i+1:]...)
	c.parent = nil
	return true
}

// Replace puts repl in old's position and detaches old.
func (n *Node) Replace(old, repl *Node) bool {
	i := n.IndexOf(old)
	if i < 0 || repl == nil {
		return false
	}
	repl.Detach()
	// Detaching repl may have shifted old if they shared this parent.
	i = n.IndexOf(old)
	n.children[i] = repl
	repl.parent = n
	old.parent = nil
	return true
}

// Detach removes n from its parent, if any.
func (n *Node) Detach() {
	if n.parent != nil {
		n.parent.Remove(n)
	}
}

// Find returns the first descendant (depth-first) with the given name.
func (n *Node) Find(name string) *Node {
	for _, c := range n.children {
		if c.Name == name {
			return c
		}
		if f := c.Find(name); f != nil {
			return f
		}
	}
	return nil
}

// Contains reports whether c is n or one of its descendants.
func (n *Node) Contains(c *Node) bool {
	for p := c; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}
