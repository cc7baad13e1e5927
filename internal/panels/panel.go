package panels

import (
	"fmt"
	"log/slog"
)

// Built-in header control keys. Custom buttons are always placed before these.
const (
	ButtonEnlarge  = "enlarge"
	ButtonMinimize = "minimize"
	ButtonClose    = "close"
)

// Button is a header control.
type Button struct {
	Key     string
	Label   string
	Icon    string
	Tooltip string
	OnClick func()

	builtin bool
	node    *Node
}

// Click invokes the button's handler.
func (b *Button) Click() {
	if b != nil && b.OnClick != nil {
		b.OnClick()
	}
}

// Builtin reports whether the button is one of the enlarge/minimize/close controls.
func (b *Button) Builtin() bool { return b.builtin }

// SetIcon changes the icon and tooltip and keeps the header node in step.
// Call it from the goroutine that renders the panel.
func (b *Button) SetIcon(icon, tooltip string) {
	b.Icon, b.Tooltip = icon, tooltip
	if b.node != nil {
		b.node.Text = b.Text()
	}
}

// Text is what the header shows for the button.
func (b *Button) Text() string {
	if b.Icon != "" {
		return b.Icon
	}
	return b.Label
}

// Panel is a titled unit in a Container: a header with controls and a content
// slot filled by its Kind. A panel is owned by exactly one container for its
// whole life.
type Panel struct {
	id    string
	typ   string
	title string

	height         int
	originalHeight int
	headerHeight   int
	insets         int

	minimized bool
	enlarged  bool

	kind     Kind
	owner    *Container
	log      *slog.Logger
	custom   []*Button
	builtins []*Button

	wrapper     *Node
	header      *Node
	titleNode   *Node
	slot        *Node
	placeholder *Node
}

func newPanel(owner *Container, id, typ, title string, height int, kind Kind) *Panel {
	p := &Panel{
		id:             id,
		typ:            typ,
		title:          title,
		height:         height,
		originalHeight: height,
		headerHeight:   owner.opts.HeaderHeight,
		insets:         owner.opts.ContentInsets,
		kind:           kind,
		owner:          owner,
		log:            owner.log.With(slog.String("panel", id)),
	}
	p.builtins = []*Button{
		{Key: ButtonEnlarge, Icon: "⤢", Tooltip: "Enlarge", builtin: true, OnClick: func() { _ = p.ToggleEnlarge() }},
		{Key: ButtonMinimize, Icon: "_", Tooltip: "Minimize", builtin: true, OnClick: func() { p.ToggleMinimize() }},
		{Key: ButtonClose, Icon: "×", Tooltip: "Close", builtin: true, OnClick: func() { _ = p.Close() }},
	}
	return p
}

func (p *Panel) ID() string        { return p.id }
func (p *Panel) Type() string      { return p.typ }
func (p *Panel) Title() string     { return p.title }
func (p *Panel) Kind() Kind        { return p.kind }
func (p *Panel) Minimized() bool   { return p.minimized }
func (p *Panel) Enlarged() bool    { return p.enlarged }
func (p *Panel) HeaderHeight() int { return p.headerHeight }

// Height returns the effective height: headerHeight while minimized.
func (p *Panel) Height() int { return p.height }

// OriginalHeight is the last non-minimized height.
func (p *Panel) OriginalHeight() int { return p.originalHeight }

// Slot returns the content slot, or nil before Render.
func (p *Panel) Slot() *Node { return p.slot }

// Wrapper returns the panel's outer node, or nil before Render.
func (p *Panel) Wrapper() *Node { return p.wrapper }

// Placeholder returns the node standing in for the slot while enlarged.
func (p *Panel) Placeholder() *Node { return p.placeholder }

// SetTitle changes the header title.
func (p *Panel) SetTitle(title string) {
	p.title = title
	if p.titleNode != nil {
		p.titleNode.Text = title
	}
}

// Render builds the header and an empty content slot under into and returns
// the slot. Calling Render twice without Destroy is not supported.
func (p *Panel) Render(into *Node) (*Node, error) {
	if into == nil {
		return nil, fmt.Errorf("render panel %q: %w", p.id, ErrNoAttachment)
	}
	p.wrapper = NewNode("panel:" + p.id)
	p.header = NewNode("header")
	p.header.Height = p.headerHeight
	p.titleNode = NewNode("title")
	p.titleNode.Text = p.title
	p.header.Append(p.titleNode)
	for _, b := range p.custom {
		p.header.Append(p.buttonNode(b))
	}
	for _, b := range p.builtins {
		p.header.Append(p.buttonNode(b))
	}
	p.slot = NewNode("content")
	p.wrapper.Append(p.header)
	p.wrapper.Append(p.slot)
	into.Append(p.wrapper)
	p.applyGeometry()
	if p.kind != nil {
		p.kind.Mount(p.slot)
	}
	return p.slot, nil
}

func (p *Panel) buttonNode(b *Button) *Node {
	b.node = NewNode("button:" + b.Key)
	b.node.Text = b.Text()
	b.node.Content = b
	return b.node
}

// Destroy detaches the panel's nodes so it can be rendered again.
func (p *Panel) Destroy() {
	if p.wrapper != nil {
		p.wrapper.Detach()
	}
	if p.slot != nil {
		p.slot.Detach()
	}
	p.wrapper, p.header, p.titleNode, p.slot, p.placeholder = nil, nil, nil, nil, nil
	for _, b := range p.custom {
		b.node = nil
	}
	for _, b := range p.builtins {
		b.node = nil
	}
}

// Buttons returns custom buttons in insertion order followed by the built-ins.
func (p *Panel) Buttons() []*Button {
	out := make([]*Button, 0, len(p.custom)+len(p.builtins))
	out = append(out, p.custom...)
	return append(out, p.builtins...)
}

// Button returns the button registered under key.
func (p *Panel) Button(key string) *Button {
	for _, b := range p.Buttons() {
		if b.Key == key {
			return b
		}
	}
	return nil
}

// AddTextButton adds a labelled custom button. If key already exists the
// existing button is returned unchanged.
func (p *Panel) AddTextButton(key, label string, onClick func()) *Button {
	return p.addButton(&Button{Key: key, Label: label, OnClick: onClick})
}

// AddIconButton adds an icon custom button. Idempotent by key.
func (p *Panel) AddIconButton(key, icon, tooltip string, onClick func()) *Button {
	return p.addButton(&Button{Key: key, Icon: icon, Tooltip: tooltip, OnClick: onClick})
}

func (p *Panel) addButton(b *Button) *Button {
	if existing := p.Button(b.Key); existing != nil {
		return existing
	}
	p.custom = append(p.custom, b)
	if p.header != nil {
		// title, then custom buttons, then built-ins
		p.header.InsertAt(len(p.custom), p.buttonNode(b))
	}
	return b
}

// ToggleMinimize flips the minimized state. Minimizing the only visible panel
// of the container is rejected and returns false.
func (p *Panel) ToggleMinimize() bool {
	if !p.minimized && !p.owner.canMinimize(p) {
		p.log.Debug("minimize rejected: last visible panel")
		return false
	}
	p.owner.CancelDrag()
	p.setMinimized(!p.minimized)
	p.owner.panelChanged(p)
	return true
}

func (p *Panel) setMinimized(min bool) {
	if min == p.minimized {
		return
	}
	if min {
		p.originalHeight = p.height
		p.height = p.headerHeight
		p.minimized = true
	} else {
		p.minimized = false
		p.height = p.originalHeight
	}
	if b := p.Button(ButtonMinimize); b != nil {
		if p.minimized {
			b.SetIcon("▭", "Restore")
		} else {
			b.SetIcon("_", "Minimize")
		}
	}
	p.applyGeometry()
}

// ToggleEnlarge moves the content slot into the overlay, or back.
func (p *Panel) ToggleEnlarge() error {
	layer := p.owner.opts.Layer
	if layer == nil {
		return fmt.Errorf("enlarge panel %q: no overlay layer", p.id)
	}
	if p.enlarged {
		layer.Hide()
		return nil
	}
	return layer.Show(p)
}

// SetHeight sets the allotted height. While minimized the value is kept as
// the height to restore to.
func (p *Panel) SetHeight(px int) {
	if px < p.headerHeight {
		px = p.headerHeight
	}
	if p.minimized {
		p.originalHeight = px
		return
	}
	p.height = px
	p.originalHeight = px
	p.applyGeometry()
}

// ContentHeight is the space left for content below the header.
func (p *Panel) ContentHeight() int {
	h := p.height - p.headerHeight - p.insets
	if h < 0 {
		return 0
	}
	return h
}

func (p *Panel) applyGeometry() {
	if p.wrapper == nil {
		return
	}
	p.wrapper.Height = p.height
	if p.placeholder != nil {
		p.placeholder.Height = p.ContentHeight()
		p.placeholder.Hidden = p.minimized
	}
	if p.enlarged {
		return
	}
	if p.minimized {
		p.slot.Hidden = true
		return
	}
	p.slot.Hidden = false
	p.slot.Height = p.ContentHeight()
}

// Close asks the owning container to remove this panel.
func (p *Panel) Close() error {
	return p.owner.RemovePanel(p.id)
}

// LayoutInfo returns the panel's persisted record.
func (p *Panel) LayoutInfo() WindowInfo {
	h := p.height
	if p.minimized {
		h = p.originalHeight
	}
	var extra map[string]any
	if p.kind != nil {
		extra = p.kind.LayoutFields()
	}
	return WindowInfo{ID: p.id, Type: p.typ, Height: h, Minimized: p.minimized, Extra: extra}
}

// ApplyLayout restores a record produced by LayoutInfo. The minimized flag is
// subject to the container's visibility floor.
func (p *Panel) ApplyLayout(info WindowInfo) {
	p.owner.CancelDrag()
	p.applyLayout(info)
	p.owner.panelChanged(p)
}

func (p *Panel) applyLayout(info WindowInfo) {
	if info.Height > 0 {
		p.SetHeight(info.Height)
	}
	if info.Minimized != p.minimized {
		if !info.Minimized || p.owner.canMinimize(p) {
			p.setMinimized(info.Minimized)
		} else {
			p.log.Warn("layout asks to minimize the last visible panel; keeping it visible")
		}
	}
	if p.kind != nil && info.Extra != nil {
		p.kind.ApplyLayoutFields(info.Extra)
	}
}
