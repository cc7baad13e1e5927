package panels

import (
	"fmt"
	"io"
	"log/slog"
	"time"
)

// DefaultOverlayGrace is how long a hidden overlay stays around for reuse.
const DefaultOverlayGrace = 2 * time.Second

// DefaultPlaceholderText is shown in a panel whose content is enlarged.
const DefaultPlaceholderText = "Shown in enlarged view"

// OverlayOptions configures an OverlayLayer.
type OverlayOptions struct {
	ContentHeight   int // content height when no cached value exists
	Grace           time.Duration
	PlaceholderText string
	Now             func() time.Time
	Log             *slog.Logger
}

// OverlayLayer is the top-most layer of the host. It shows at most one
// Overlay at a time, across every container that shares it.
type OverlayLayer struct {
	root      *Node
	current   *Overlay
	retired   *Overlay
	retiredAt time.Time
	heights   map[string]int
	opts      OverlayOptions
	log       *slog.Logger
}

// NewOverlayLayer creates an empty layer.
func NewOverlayLayer(opts OverlayOptions) *OverlayLayer {
	if opts.Grace <= 0 {
		opts.Grace = DefaultOverlayGrace
	}
	if opts.PlaceholderText == "" {
		opts.PlaceholderText = DefaultPlaceholderText
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Log == nil {
		opts.Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &OverlayLayer{
		root:    NewNode("overlay-layer"),
		heights: make(map[string]int),
		opts:    opts,
		log:     opts.Log,
	}
}

// Root is the layer's node; an active overlay surface is its only child.
func (l *OverlayLayer) Root() *Node { return l.root }

// Current returns the visible overlay, or nil.
func (l *OverlayLayer) Current() *Overlay { return l.current }

// SetContentHeight sets the default content height for overlays without a
// cached height (typically the screen height minus chrome).
func (l *OverlayLayer) SetContentHeight(h int) {
	l.opts.ContentHeight = h
}

// CachedHeight returns the remembered overlay content height for panel id.
func (l *OverlayLayer) CachedHeight(id string) (int, bool) {
	h, ok := l.heights[id]
	return h, ok
}

// Overlay hosts one panel's content slot at full size.
type Overlay struct {
	layer       *OverlayLayer
	panel       *Panel
	surface     *Node
	slotParent  *Node
	placeholder *Node
}

// Panel returns the hosted panel.
func (o *Overlay) Panel() *Panel { return o.panel }

// HostedPanelID returns the id of the hosted panel.
func (o *Overlay) HostedPanelID() string { return o.panel.id }

// Surface returns the overlay's node in the layer.
func (o *Overlay) Surface() *Node { return o.surface }

// ContentHeight returns the hosted slot's current height.
func (o *Overlay) ContentHeight() int {
	if o.panel.slot == nil {
		return 0
	}
	return o.panel.slot.Height
}

// Resize changes the hosted content height.
func (o *Overlay) Resize(h int) {
	if h < 1 {
		h = 1
	}
	if o.panel.slot != nil && o.layer.current == o {
		o.panel.slot.Height = h
	}
}

// Close restores the hosted panel.
func (o *Overlay) Close() {
	if o.layer.current == o {
		o.layer.Hide()
	}
}

// Minimize is the overlay's own minimize control; it restores the panel the
// same way Close does.
func (o *Overlay) Minimize() {
	o.Close()
}

// Show moves p's content slot into an overlay. Any other enlarged panel is
// restored first.
func (l *OverlayLayer) Show(p *Panel) error {
	if p.slot == nil || p.slot.Parent() == nil {
		return fmt.Errorf("enlarge panel %q: %w", p.id, ErrNoAttachment)
	}
	if l.current != nil {
		if l.current.panel == p {
			return nil
		}
		l.Hide()
	}

	var o *Overlay
	if l.retired != nil && l.retired.panel == p && l.opts.Now().Sub(l.retiredAt) < l.opts.Grace {
		o = l.retired
	} else {
		o = &Overlay{layer: l, panel: p, surface: NewNode("overlay:" + p.id)}
		o.surface.Content = o
	}
	l.retired = nil
	o.surface.Text = p.title

	parent := p.slot.Parent()
	o.placeholder = NewNode("placeholder")
	o.placeholder.Text = l.opts.PlaceholderText
	parent.Replace(p.slot, o.placeholder)
	o.slotParent = parent
	p.placeholder = o.placeholder

	o.surface.Append(p.slot)
	p.slot.Hidden = false
	if h, ok := l.heights[p.id]; ok {
		p.slot.Height = h
	} else if l.opts.ContentHeight > 0 {
		p.slot.Height = l.opts.ContentHeight
	}
	l.root.Append(o.surface)

	p.enlarged = true
	p.applyGeometry()
	l.current = o
	l.log.Debug("panel enlarged", slog.String("panel", p.id))
	return nil
}

// Hide moves the hosted slot back to the exact parent it came from and
// removes the surface from the layer.
func (l *OverlayLayer) Hide() {
	o := l.current
	if o == nil {
		return
	}
	p := o.panel
	if p.slot != nil {
		l.heights[p.id] = p.slot.Height
		if o.slotParent != nil && o.slotParent.IndexOf(o.placeholder) >= 0 {
			o.slotParent.Replace(o.placeholder, p.slot)
		} else {
			p.slot.Detach()
		}
	}
	o.placeholder.Detach()
	o.placeholder = nil
	o.slotParent = nil
	p.placeholder = nil
	o.surface.Detach()

	p.enlarged = false
	p.applyGeometry()
	l.current = nil
	l.retired = o
	l.retiredAt = l.opts.Now()
	l.log.Debug("panel restored", slog.String("panel", p.id))
}
