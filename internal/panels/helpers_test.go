package panels

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// stubKind records what the container does to it.
type stubKind struct {
	BaseKind
	initErr  error
	fields   map[string]any
	applied  []map[string]any
	mounts   int
	disposed bool
}

func (k *stubKind) Init(context.Context, *Panel) error { return k.initErr }
func (k *stubKind) LayoutFields() map[string]any       { return k.fields }
func (k *stubKind) Dispose()                           { k.disposed = true }

func (k *stubKind) Mount(slot *Node) {
	k.mounts++
	slot.Content = k
}

func (k *stubKind) ApplyLayoutFields(f map[string]any) {
	k.applied = append(k.applied, f)
	if k.fields == nil {
		k.fields = make(map[string]any)
	}
	for key, v := range f {
		k.fields[key] = v
	}
}

// recorder is a Publisher that keeps every notification.
type recorder struct {
	topics   []string
	payloads []any
}

func (r *recorder) Publish(topic string, payload any) {
	r.topics = append(r.topics, topic)
	r.payloads = append(r.payloads, payload)
}

func (r *recorder) count(topic string) int {
	n := 0
	for _, t := range r.topics {
		if t == topic {
			n++
		}
	}
	return n
}

func (r *recorder) last(topic string) any {
	for i := len(r.topics) - 1; i >= 0; i-- {
		if r.topics[i] == topic {
			return r.payloads[i]
		}
	}
	return nil
}

func (r *recorder) reset() {
	r.topics, r.payloads = nil, nil
}

// fakeClock is a settable time source.
type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fixture struct {
	c     *Container
	root  *Node
	layer *OverlayLayer
	pub   *recorder
	clock *fakeClock
	kinds map[string]*stubKind
}

// newFixture builds a rendered container with types "a", "b", "project" and
// "tv". Options not set by the caller use the package defaults.
func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	f := &fixture{
		pub:   &recorder{},
		clock: &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		kinds: make(map[string]*stubKind),
	}
	reg := NewRegistry()
	for _, typ := range []string{"a", "b", "project", "tv"} {
		typ := typ
		reg.MustRegister(typ, "Title "+typ, func() Kind {
			k := &stubKind{}
			// The most recent instance of each type is what tests inspect.
			f.kinds[typ] = k
			return k
		})
	}
	f.layer = NewOverlayLayer(OverlayOptions{ContentHeight: 500, Now: f.clock.Now})
	opts.Registry = reg
	opts.Layer = f.layer
	opts.Publisher = f.pub
	f.c = NewContainer(opts)
	f.root = NewNode("root")
	require.NoError(t, f.c.Render(f.root))
	return f
}

func (f *fixture) add(t *testing.T, typ, id string, height int) *Panel {
	t.Helper()
	p, err := f.c.AddPanel(context.Background(), PanelSpec{Type: typ, ID: id, Height: height}, -1)
	require.NoError(t, err)
	return p
}

func (f *fixture) heights() []int {
	var out []int
	for _, p := range f.c.Panels() {
		out = append(out, p.Height())
	}
	return out
}

// used is the total height taken by panels and separators.
func (f *fixture) used() int {
	total := 0
	for _, p := range f.c.Panels() {
		total += p.Height()
	}
	if n := f.c.Len(); n > 1 {
		total += (n - 1) * f.c.opts.SeparatorSize
	}
	return total
}

func rootNames(n *Node) []string {
	var out []string
	for _, c := range n.Children() {
		out = append(out, c.Name)
	}
	return out
}
