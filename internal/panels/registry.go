package panels

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrUnknownType is returned when a panel spec names a type that was never registered.
	ErrUnknownType = errors.New("unknown panel type")
	// ErrNoAttachment is returned when a panel is rendered without a parent node.
	ErrNoAttachment = errors.New("missing attachment point")
	// ErrNotFound is returned when a panel id is not present in the container.
	ErrNotFound = errors.New("panel not found")
	// ErrDuplicateID is returned when a panel id is already taken.
	ErrDuplicateID = errors.New("duplicate panel id")
)

// Kind supplies the type-specific behaviour of a panel. The container owns the
// chrome and geometry; a Kind only fills the content slot and contributes
// extra fields to the persisted layout.
type Kind interface {
	// Init runs once before the panel is spliced into the container.
	// It may block; the container waits for it.
	Init(ctx context.Context, p *Panel) error
	// Mount is called each time the panel is rendered with its fresh content slot.
	Mount(slot *Node)
	// LayoutFields returns type-specific fields merged into the panel's layout record.
	LayoutFields() map[string]any
	// ApplyLayoutFields restores fields produced by LayoutFields. Unknown keys are ignored.
	ApplyLayoutFields(fields map[string]any)
	// Dispose releases resources when the panel is removed.
	Dispose()
}

// Constructor builds a fresh Kind for one panel instance.
type Constructor func() Kind

// Registry maps panel type keys to constructors. The host application fills
// it; the container never hardwires concrete types.
type Registry struct {
	ctors  map[string]Constructor
	titles map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		ctors:  make(map[string]Constructor),
		titles: make(map[string]string),
	}
}

// Register adds a constructor under key. The default title is used for
// panels whose spec carries no title.
func (r *Registry) Register(key, defaultTitle string, ctor Constructor) error {
	if key == "" {
		return fmt.Errorf("register panel type: empty key")
	}
	if ctor == nil {
		return fmt.Errorf("register panel type %q: nil constructor", key)
	}
	if _, ok := r.ctors[key]; ok {
		return fmt.Errorf("register panel type %q: already registered", key)
	}
	r.ctors[key] = ctor
	r.titles[key] = defaultTitle
	return nil
}

// MustRegister is Register for static setup code; it panics on error.
func (r *Registry) MustRegister(key, defaultTitle string, ctor Constructor) {
	if err := r.Register(key, defaultTitle, ctor); err != nil {
		panic(err)
	}
}

// New constructs a Kind for key.
func (r *Registry) New(key string) (Kind, string, error) {
	ctor, ok := r.ctors[key]
	if !ok {
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownType, key)
	}
	return ctor(), r.titles[key], nil
}

// Has reports whether key is registered.
func (r *Registry) Has(key string) bool {
	_, ok := r.ctors[key]
	return ok
}

// Types returns the registered keys, sorted.
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.ctors))
	for k := range r.ctors {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// BaseKind is an embeddable no-op Kind.
type BaseKind struct{}

func (BaseKind) Init(context.Context, *Panel) error { return nil }
func (BaseKind) Mount(*Node)                        {}
func (BaseKind) LayoutFields() map[string]any       { return nil }
func (BaseKind) ApplyLayoutFields(map[string]any)   {}
func (BaseKind) Dispose()                           {}
