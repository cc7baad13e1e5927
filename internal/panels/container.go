package panels

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Notification topics published by a container.
const (
	TopicLayoutChanged = "panel-layout-changed"
	TopicPanelClosed   = "panel-closed"
	TopicPanelAdded    = "panel-added"
)

// Defaults in layout units.
const (
	DefaultMinPanelHeight = 80
	DefaultHeaderHeight   = 24
	DefaultSeparatorSize  = 4
	DefaultPanelHeight    = 200
	DefaultMinWidth       = 200
)

// Publisher is the outbound half of the messaging bus.
type Publisher interface {
	Publish(topic string, payload any)
}

// PanelEvent is the payload of panel-closed and panel-added.
type PanelEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// PanelSpec describes a panel to add.
type PanelSpec struct {
	Type   string `json:"type"`
	ID     string `json:"id,omitempty"`
	Title  string `json:"title,omitempty"`
	Height int    `json:"height,omitempty"`
}

// Options configures a Container. Zero values take the package defaults.
type Options struct {
	Width          int
	MinWidth       int
	MaxWidth       int // 0 = unbounded
	Height         int // available height; 0 disables reflow
	ResizeEdge     Edge
	MinPanelHeight int
	HeaderHeight   int
	SeparatorSize  int
	ContentInsets  int
	DefaultHeight  int

	Registry  *Registry
	Layer     *OverlayLayer
	Publisher Publisher
	Log       *slog.Logger
	Tracer    oteltrace.Tracer
}

func (o Options) withDefaults() Options {
	if o.MinPanelHeight <= 0 {
		o.MinPanelHeight = DefaultMinPanelHeight
	}
	if o.HeaderHeight <= 0 {
		o.HeaderHeight = DefaultHeaderHeight
	}
	if o.SeparatorSize < 0 {
		o.SeparatorSize = 0
	}
	if o.DefaultHeight <= 0 {
		o.DefaultHeight = DefaultPanelHeight
	}
	if o.MinWidth <= 0 {
		o.MinWidth = DefaultMinWidth
	}
	if o.ResizeEdge == "" {
		o.ResizeEdge = EdgeRight
	}
	if o.Registry == nil {
		o.Registry = NewRegistry()
	}
	if o.Log == nil {
		o.Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.Tracer == nil {
		o.Tracer = noop.NewTracerProvider().Tracer("panelshell/panels")
	}
	return o
}

// Container stacks panels vertically with a separator between each pair. It
// owns the drag state and keeps the geometry invariants: heights plus
// separators fill the available height, and a non-empty container always has
// at least one panel that is not minimized.
type Container struct {
	opts   Options
	log    *slog.Logger
	tracer oteltrace.Tracer

	panels     []*Panel
	separators []*Separator
	edge       *Separator
	drag       *dragRecord
	root       *Node
	width      int
	height     int
	focus      FocusManager
	seq        map[string]int
	batch      int
	limit      int // host width cap; 0 = none
}

// NewContainer creates an empty container.
func NewContainer(opts Options) *Container {
	opts = opts.withDefaults()
	c := &Container{
		opts:   opts,
		log:    opts.Log,
		tracer: opts.Tracer,
		height: opts.Height,
		seq:    make(map[string]int),
	}
	c.width = c.clampWidth(opts.Width)
	c.edge = &Separator{c: c, index: -1, edge: true}
	c.focus.OnChange = func(from, to string) {
		c.log.Debug("focus changed", slog.String("from", from), slog.String("to", to))
	}
	return c
}

// Panels returns the panels in order.
func (c *Container) Panels() []*Panel {
	out := make([]*Panel, len(c.panels))
	copy(out, c.panels)
	return out
}

// Separators returns the strips between panels; len is Len()-1.
func (c *Container) Separators() []*Separator {
	out := make([]*Separator, len(c.separators))
	copy(out, c.separators)
	return out
}

// EdgeHandle returns the outer width handle.
func (c *Container) EdgeHandle() *Separator { return c.edge }

// ResizeEdge reports which side carries the width handle.
func (c *Container) ResizeEdge() Edge { return c.opts.ResizeEdge }

// Len returns the number of panels.
func (c *Container) Len() int { return len(c.panels) }

// Width returns the container width.
func (c *Container) Width() int { return c.width }

// Height returns the available height (0 when unbounded).
func (c *Container) Height() int { return c.height }

// Root returns the node the container rendered into, or nil.
func (c *Container) Root() *Node { return c.root }

// Layer returns the overlay layer shared with the host.
func (c *Container) Layer() *OverlayLayer { return c.opts.Layer }

// Registry returns the panel type registry.
func (c *Container) Registry() *Registry { return c.opts.Registry }

// Floor is the minimum height of a visible panel.
func (c *Container) Floor() int {
	if c.opts.MinPanelHeight < c.opts.HeaderHeight {
		return c.opts.HeaderHeight
	}
	return c.opts.MinPanelHeight
}

// Panel returns the panel with the given id.
func (c *Container) Panel(id string) *Panel {
	if i := c.indexOf(id); i >= 0 {
		return c.panels[i]
	}
	return nil
}

// Active returns the focused panel, or nil.
func (c *Container) Active() *Panel {
	return c.Panel(c.focus.Current)
}

// Focus makes id the active panel.
func (c *Container) Focus(id string) bool {
	return c.focus.SetFocus(id)
}

// FocusNext rotates focus forward (or backward when back is true).
func (c *Container) FocusNext(back bool) *Panel {
	if back {
		return c.Panel(c.focus.Prev())
	}
	return c.Panel(c.focus.Next())
}

func (c *Container) indexOf(id string) int {
	for i, p := range c.panels {
		if p.id == id {
			return i
		}
	}
	return -1
}

// Render attaches every panel and separator under root. Panels added later
// are rendered incrementally.
func (c *Container) Render(root *Node) error {
	if root == nil {
		return fmt.Errorf("render container: %w", ErrNoAttachment)
	}
	c.root = root
	for i, p := range c.panels {
		if _, err := p.Render(root); err != nil {
			return err
		}
		if i < len(c.separators) {
			root.Append(c.separators[i].ensureNode())
		}
	}
	c.reflow(nil)
	return nil
}

// Resize sets the container's outer dimensions and reflows the panels. An
// active drag is cancelled first.
func (c *Container) Resize(width, height int) {
	c.CancelDrag()
	if width > 0 {
		c.width = c.clampWidth(width)
	}
	if height >= 0 {
		c.height = height
	}
	c.reflow(nil)
}

// SetWidthLimit caps the width from the host side, e.g. to keep room for a
// main area next to the sidebar. 0 removes the cap. The configured minimum
// still wins over the cap.
func (c *Container) SetWidthLimit(w int) {
	if w < 0 {
		w = 0
	}
	c.limit = w
	c.width = c.clampWidth(c.width)
}

func (c *Container) clampWidth(w int) int {
	if c.limit > 0 && w > c.limit {
		w = c.limit
	}
	if w < c.opts.MinWidth {
		w = c.opts.MinWidth
	}
	if c.opts.MaxWidth > 0 && w > c.opts.MaxWidth {
		w = c.opts.MaxWidth
	}
	return w
}

func (c *Container) nextID(typ string) string {
	for {
		c.seq[typ]++
		id := typ + "-" + strconv.Itoa(c.seq[typ])
		if c.indexOf(id) < 0 {
			return id
		}
	}
}

// AddPanel constructs a panel of spec.Type and inserts it at position
// (negative or past the end appends). The panel's Kind is initialised before
// the panel list is touched; callers must serialise concurrent AddPanel calls
// themselves if order matters.
func (c *Container) AddPanel(ctx context.Context, spec PanelSpec, position int) (*Panel, error) {
	kind, title, err := c.opts.Registry.New(spec.Type)
	if err != nil {
		c.log.Warn("add panel failed", slog.String("type", spec.Type), slog.Any("error", err))
		return nil, err
	}
	id := spec.ID
	if id == "" {
		id = c.nextID(spec.Type)
	} else if c.indexOf(id) >= 0 {
		c.log.Warn("add panel failed", slog.String("id", id), slog.Any("error", ErrDuplicateID))
		return nil, fmt.Errorf("add panel %q: %w", id, ErrDuplicateID)
	}
	if spec.Title != "" {
		title = spec.Title
	}
	height := spec.Height
	if height <= 0 {
		height = c.opts.DefaultHeight
	}
	if height < c.Floor() {
		height = c.Floor()
	}

	p := newPanel(c, id, spec.Type, title, height, kind)
	ctx, span := c.tracer.Start(ctx, "panels.add_panel", oteltrace.WithAttributes(
		attribute.String("panels.panel.id", id),
		attribute.String("panels.panel.type", spec.Type),
	))
	err = kind.Init(ctx, p)
	span.End()
	if err != nil {
		c.log.Warn("panel init failed", slog.String("id", id), slog.Any("error", err))
		return nil, fmt.Errorf("init panel %q: %w", id, err)
	}
	// Init may have blocked; recheck the id against whatever was added meanwhile.
	if c.indexOf(id) >= 0 {
		kind.Dispose()
		return nil, fmt.Errorf("add panel %q: %w", id, ErrDuplicateID)
	}

	if position < 0 || position > len(c.panels) {
		position = len(c.panels)
	}
	if c.drag != nil {
		c.CancelDrag()
	}
	c.panels = append(c.panels, nil)
	copy(c.panels[position+1:], c.panels[position:])
	c.panels[position] = p

	var sep *Separator
	sepPos := -1
	if len(c.panels) > 1 {
		sep = c.createSeparator(position)
		sepPos = position
		if position == len(c.panels)-1 {
			sepPos = position - 1
		}
		c.separators = append(c.separators, nil)
		copy(c.separators[sepPos+1:], c.separators[sepPos:])
		c.separators[sepPos] = sep
		c.reindexSeparators()
	}

	if c.root != nil {
		if err := c.renderIncremental(p, position, sep, sepPos); err != nil {
			c.removeAt(position)
			kind.Dispose()
			return nil, err
		}
	}

	c.focus.Sync(c.ids())
	c.reflow(p)
	c.log.Info("panel added", slog.String("id", id), slog.String("type", spec.Type), slog.Int("position", position))
	c.publish(TopicPanelAdded, PanelEvent{ID: id, Type: spec.Type})
	c.notifyLayout()
	return p, nil
}

// renderIncremental renders only p and its new separator. Root children are
// laid out as panel, separator, panel, ... so panel i sits at 2i.
func (c *Container) renderIncremental(p *Panel, position int, sep *Separator, sepPos int) error {
	if _, err := p.Render(c.root); err != nil {
		return err
	}
	if sep == nil {
		c.root.InsertAt(0, p.wrapper)
		return nil
	}
	if sepPos == position {
		c.root.InsertAt(2*position, p.wrapper)
		c.root.InsertAt(2*position+1, sep.ensureNode())
		return nil
	}
	c.root.InsertAt(2*position-1, sep.ensureNode())
	c.root.InsertAt(2*position, p.wrapper)
	return nil
}

// RemovePanel removes and disposes the panel with id.
func (c *Container) RemovePanel(id string) error {
	idx := c.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("remove panel %q: %w", id, ErrNotFound)
	}
	if c.drag != nil {
		c.CancelDrag()
	}
	p := c.panels[idx]
	if p.enlarged && c.opts.Layer != nil {
		c.opts.Layer.Hide()
	}
	c.removeAt(idx)
	if p.kind != nil {
		p.kind.Dispose()
	}

	c.ensureVisible(idx)
	c.focus.Sync(c.ids())
	c.reflow(nil)
	c.log.Info("panel removed", slog.String("id", id))
	c.publish(TopicPanelClosed, PanelEvent{ID: id, Type: p.typ})
	c.notifyLayout()
	return nil
}

func (c *Container) removeAt(idx int) {
	p := c.panels[idx]
	p.Destroy()
	c.panels = append(c.panels[:idx], c.panels[idx+1:]...)
	if len(c.separators) > 0 {
		si := idx
		if si >= len(c.separators) {
			si = len(c.separators) - 1
		}
		if n := c.separators[si].node; n != nil {
			n.Detach()
		}
		c.separators = append(c.separators[:si], c.separators[si+1:]...)
	}
	c.reindexSeparators()
}

// ensureVisible un-minimizes the panel nearest to idx if every panel is minimized.
func (c *Container) ensureVisible(idx int) {
	if len(c.panels) == 0 || c.visibleCount(nil) > 0 {
		return
	}
	if idx >= len(c.panels) {
		idx = len(c.panels) - 1
	}
	c.panels[idx].setMinimized(false)
}

// MovePanel moves the panel with id to position to.
func (c *Container) MovePanel(id string, to int) error {
	from := c.indexOf(id)
	if from < 0 {
		return fmt.Errorf("move panel %q: %w", id, ErrNotFound)
	}
	c.CancelDrag()
	if c.movePanel(from, to) {
		c.notifyLayout()
	}
	return nil
}

func (c *Container) movePanel(from, to int) bool {
	if to < 0 {
		to = 0
	}
	if to >= len(c.panels) {
		to = len(c.panels) - 1
	}
	if from == to {
		return false
	}
	p := c.panels[from]
	c.panels = append(c.panels[:from], c.panels[from+1:]...)
	c.panels = append(c.panels, nil)
	copy(c.panels[to+1:], c.panels[to:])
	c.panels[to] = p
	c.relinkNodes()
	c.focus.Sync(c.ids())
	return true
}

// relinkNodes re-establishes panel/separator order under root without
// re-rendering any panel.
func (c *Container) relinkNodes() {
	if c.root == nil {
		return
	}
	for i, p := range c.panels {
		if p.wrapper != nil {
			c.root.InsertAt(2*i, p.wrapper)
		}
		if i < len(c.separators) {
			c.root.InsertAt(2*i+1, c.separators[i].ensureNode())
		}
	}
}

func (c *Container) reindexSeparators() {
	for i, s := range c.separators {
		s.index = i
	}
}

func (c *Container) ids() []string {
	out := make([]string, len(c.panels))
	for i, p := range c.panels {
		out[i] = p.id
	}
	return out
}

// ResizePanel sets one panel's height and takes the difference from the others.
func (c *Container) ResizePanel(id string, height int) error {
	p := c.Panel(id)
	if p == nil {
		return fmt.Errorf("resize panel %q: %w", id, ErrNotFound)
	}
	c.CancelDrag()
	if height < c.Floor() {
		height = c.Floor()
	}
	p.SetHeight(height)
	c.panelChanged(p)
	return nil
}

func (c *Container) visibleCount(except *Panel) int {
	n := 0
	for _, p := range c.panels {
		if p != except && !p.minimized {
			n++
		}
	}
	return n
}

// canMinimize applies the visibility floor: some other panel must stay visible.
func (c *Container) canMinimize(p *Panel) bool {
	return c.visibleCount(p) > 0
}

func (c *Container) panelChanged(p *Panel) {
	if c.batch > 0 {
		return
	}
	c.reflow(p)
	c.notifyLayout()
}

func (c *Container) available() int {
	n := len(c.panels)
	if n == 0 {
		return c.height
	}
	return c.height - (n-1)*c.opts.SeparatorSize
}

// reflow makes the heights fill the available space. Minimized panels take
// exactly their header height; pinned keeps its height when the others can
// still meet the floor.
func (c *Container) reflow(pinned *Panel) {
	if c.height <= 0 || len(c.panels) == 0 {
		return
	}
	target := c.available()
	var visible []*Panel
	for _, p := range c.panels {
		if p.minimized {
			target -= p.headerHeight
			continue
		}
		visible = append(visible, p)
	}
	if len(visible) == 0 {
		return
	}
	floor := c.Floor()
	others := visible
	if pinned != nil && !pinned.minimized && len(visible) > 1 {
		others = others[:0:0]
		for _, p := range visible {
			if p != pinned {
				others = append(others, p)
			}
		}
		if len(others) < len(visible) {
			h := pinned.height
			if limit := target - len(others)*floor; h > limit {
				h = limit
			}
			if h < floor {
				h = floor
			}
			pinned.SetHeight(h)
			target -= h
		}
	}
	distribute(others, target, floor)
}

// distribute gives every panel the floor, then splits what is left in
// proportion to each panel's height above the floor. The last panel absorbs
// rounding. When total cannot cover a floor each, the panels share it equally.
func distribute(ps []*Panel, total, floor int) {
	n := len(ps)
	if n == 0 {
		return
	}
	if total < n*floor {
		share := total / n
		for i, p := range ps {
			if i == n-1 {
				p.SetHeight(total - share*(n-1))
				break
			}
			p.SetHeight(share)
		}
		return
	}
	excess := total - n*floor
	weight := 0
	for _, p := range ps {
		if p.height > floor {
			weight += p.height - floor
		}
	}
	used := 0
	for i, p := range ps {
		if i == n-1 {
			p.SetHeight(total - used)
			return
		}
		h := floor
		switch {
		case weight > 0 && p.height > floor:
			h += (p.height - floor) * excess / weight
		case weight == 0:
			h += excess / n
		}
		p.SetHeight(h)
		used += h
	}
}

// LayoutInfo returns the persisted layout record.
func (c *Container) LayoutInfo() LayoutInfo {
	info := LayoutInfo{
		ContainerWidth: c.width,
		Windows:        make([]WindowInfo, 0, len(c.panels)),
		ActiveWindow:   c.focus.Current,
	}
	for _, p := range c.panels {
		info.Windows = append(info.Windows, p.LayoutInfo())
	}
	return info
}

// ApplyLayout restores width, order, heights, minimized flags and
// type-specific fields. Windows naming unknown panels are skipped.
func (c *Container) ApplyLayout(info LayoutInfo) {
	if c.drag != nil {
		c.CancelDrag()
	}
	c.batch++
	if info.ContainerWidth > 0 {
		c.width = c.clampWidth(info.ContainerWidth)
	}
	pos := 0
	for _, w := range info.Windows {
		idx := c.indexOf(w.ID)
		if idx < 0 {
			c.log.Debug("layout names unknown panel; skipping", slog.String("id", w.ID))
			continue
		}
		c.movePanel(idx, pos)
		pos++
	}
	// Un-minimize first so the visibility floor never rejects a valid layout
	// because of the order in which flags are applied.
	for _, w := range info.Windows {
		if p := c.Panel(w.ID); p != nil && !w.Minimized {
			p.applyLayout(w)
		}
	}
	for _, w := range info.Windows {
		if p := c.Panel(w.ID); p != nil && w.Minimized {
			p.applyLayout(w)
		}
	}
	c.ensureVisible(0)
	if info.ActiveWindow != "" {
		c.focus.SetFocus(info.ActiveWindow)
	}
	c.batch--
	c.reflow(nil)
	c.notifyLayout()
}

// Restore adds panels named by info that are not present yet, then applies
// info. Windows with unknown types are logged and skipped.
func (c *Container) Restore(ctx context.Context, info LayoutInfo) {
	for _, w := range info.Windows {
		if w.ID == "" || c.indexOf(w.ID) >= 0 {
			continue
		}
		if _, err := c.AddPanel(ctx, PanelSpec{Type: w.Type, ID: w.ID, Height: w.Height}, -1); err != nil {
			c.log.Warn("restore: skipping window", slog.String("id", w.ID), slog.Any("error", err))
		}
	}
	c.ApplyLayout(info)
}

func (c *Container) publish(topic string, payload any) {
	if c.opts.Publisher != nil {
		c.opts.Publisher.Publish(topic, payload)
	}
}

func (c *Container) notifyLayout() {
	if c.batch > 0 {
		return
	}
	c.publish(TopicLayoutChanged, c.LayoutInfo())
}
