package panels

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// DragKind identifies what an active drag is resizing.
type DragKind int

const (
	DragNone DragKind = iota
	DragBetween
	DragEdge
	DragReorder
)

func (k DragKind) String() string {
	switch k {
	case DragBetween:
		return "resize-between"
	case DragEdge:
		return "resize-edge"
	case DragReorder:
		return "reorder"
	default:
		return "none"
	}
}

// dragRecord is the single live drag. startPointer is a Y coordinate for
// resize-between and reorder, X for resize-edge.
type dragRecord struct {
	kind         DragKind
	index        int
	panelID      string
	startPointer int
	startAbove   int
	startBelow   int
	sep          *Separator
	span         oteltrace.Span
}

// Dragging returns the kind of the active drag, or DragNone.
func (c *Container) Dragging() DragKind {
	if c.drag == nil {
		return DragNone
	}
	return c.drag.kind
}

func (c *Container) startSpan(kind DragKind, index int) oteltrace.Span {
	_, span := c.tracer.Start(context.Background(), "panels.drag", oteltrace.WithAttributes(
		attribute.String("panels.drag.kind", kind.String()),
		attribute.Int("panels.drag.index", index),
	))
	return span
}

func (c *Container) beginResizeDrag(s *Separator, y int) bool {
	if c.drag != nil {
		return false
	}
	i := s.index
	if i < 0 || i+1 >= len(c.panels) {
		return false
	}
	above, below := c.panels[i], c.panels[i+1]
	if above.minimized || below.minimized {
		c.log.Debug("drag rejected: neighbour minimized")
		return false
	}
	c.drag = &dragRecord{
		kind:         DragBetween,
		index:        i,
		startPointer: y,
		startAbove:   above.height,
		startBelow:   below.height,
		sep:          s,
		span:         c.startSpan(DragBetween, i),
	}
	s.setActive(true)
	return true
}

func (c *Container) beginEdgeDrag(s *Separator, x int) bool {
	if c.drag != nil {
		return false
	}
	c.drag = &dragRecord{
		kind:         DragEdge,
		index:        -1,
		startPointer: x,
		startAbove:   c.width,
		sep:          s,
		span:         c.startSpan(DragEdge, -1),
	}
	s.setActive(true)
	return true
}

// BeginReorder starts dragging the header of panel id.
func (c *Container) BeginReorder(id string, y int) bool {
	if c.drag != nil {
		return false
	}
	i := c.indexOf(id)
	if i < 0 || len(c.panels) < 2 {
		return false
	}
	c.drag = &dragRecord{
		kind:         DragReorder,
		index:        i,
		panelID:      id,
		startPointer: y,
		span:         c.startSpan(DragReorder, i),
	}
	return true
}

// PointerMove applies the active drag for a pointer at (x, y). Coordinates
// are container-relative. It is a no-op while idle.
func (c *Container) PointerMove(x, y int) {
	d := c.drag
	if d == nil {
		return
	}
	switch d.kind {
	case DragBetween:
		above, below := c.resizePair(d.startAbove, d.startBelow, y-d.startPointer)
		c.panels[d.index].SetHeight(above)
		c.panels[d.index+1].SetHeight(below)
	case DragEdge:
		dx := x - d.startPointer
		if c.opts.ResizeEdge == EdgeLeft {
			dx = -dx
		}
		c.width = c.clampWidth(d.startAbove + dx)
	case DragReorder:
		target := c.PanelAt(y)
		if target < 0 {
			return
		}
		from := c.indexOf(d.panelID)
		if from >= 0 && c.movePanel(from, target) {
			d.index = target
		}
	}
}

// resizePair moves dy from below to above, keeping both at or over the
// floor. The pair's total never changes; if the total is too small for two
// floors the pair stays as it was.
func (c *Container) resizePair(above, below, dy int) (int, int) {
	total := above + below
	floor := c.Floor()
	lo, hi := floor, total-floor
	if hi < lo {
		return above, below
	}
	a := above + dy
	if a < lo {
		a = lo
	}
	if a > hi {
		a = hi
	}
	return a, total - a
}

// PointerUp ends the active drag and emits a layout-changed notification.
func (c *Container) PointerUp(x, y int) {
	d := c.drag
	if d == nil {
		return
	}
	c.PointerMove(x, y)
	c.endDrag(d)
	c.notifyLayout()
}

// CancelDrag ends the active drag and puts the geometry back to where it
// started. Nothing is published.
func (c *Container) CancelDrag() {
	d := c.drag
	if d == nil {
		return
	}
	switch d.kind {
	case DragBetween:
		if d.index+1 < len(c.panels) {
			c.panels[d.index].SetHeight(d.startAbove)
			c.panels[d.index+1].SetHeight(d.startBelow)
		}
	case DragEdge:
		c.width = d.startAbove
	}
	c.endDrag(d)
}

func (c *Container) endDrag(d *dragRecord) {
	if d.sep != nil {
		d.sep.setActive(false)
	}
	if d.span != nil {
		if d.kind == DragBetween && d.index+1 < len(c.panels) {
			d.span.SetAttributes(
				attribute.Int("panels.drag.above", c.panels[d.index].height),
				attribute.Int("panels.drag.below", c.panels[d.index+1].height),
			)
		}
		if d.kind == DragEdge {
			d.span.SetAttributes(attribute.Int("panels.drag.width", c.width))
		}
		d.span.End()
	}
	c.drag = nil
}

// Region is a vertical band of the container.
type Region struct {
	Separator bool
	Index     int
	Top       int
	Height    int
}

// Regions returns the vertical layout: panel, separator, panel, ...
func (c *Container) Regions() []Region {
	out := make([]Region, 0, 2*len(c.panels))
	y := 0
	for i, p := range c.panels {
		out = append(out, Region{Index: i, Top: y, Height: p.height})
		y += p.height
		if i < len(c.panels)-1 {
			out = append(out, Region{Separator: true, Index: i, Top: y, Height: c.opts.SeparatorSize})
			y += c.opts.SeparatorSize
		}
	}
	return out
}

// PanelAt returns the index of the panel covering y, or -1.
func (c *Container) PanelAt(y int) int {
	for _, r := range c.Regions() {
		if !r.Separator && y >= r.Top && y < r.Top+r.Height {
			return r.Index
		}
	}
	return -1
}

// SeparatorAt returns the separator covering y, or nil.
func (c *Container) SeparatorAt(y int) *Separator {
	for _, r := range c.Regions() {
		if r.Separator && y >= r.Top && y < r.Top+r.Height {
			return c.separators[r.Index]
		}
	}
	return nil
}
