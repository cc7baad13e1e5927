package panels

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buttonKeys(bs []*Button) []string {
	var out []string
	for _, b := range bs {
		out = append(out, b.Key)
	}
	return out
}

func headerNames(p *Panel) []string {
	return rootNames(p.Wrapper().Children()[0])
}

func TestPanel_RenderBuildsHeaderAndSlot(t *testing.T) {
	f := newFixture(t, Options{})
	p := f.add(t, "project", "p", 200)

	w := p.Wrapper()
	require.Equal(t, 2, w.Len())
	assert.Equal(t, "header", w.Children()[0].Name)
	assert.Same(t, p.Slot(), w.Children()[1])
	assert.Equal(t, []string{"title", "button:enlarge", "button:minimize", "button:close"}, headerNames(p))
	assert.Equal(t, "Title project", w.Find("title").Text)
	assert.Equal(t, 200, w.Height)
	assert.Equal(t, 200-DefaultHeaderHeight, p.Slot().Height)
	assert.Same(t, f.kinds["project"], p.Slot().Content)
}

func TestPanel_RenderWithoutParent(t *testing.T) {
	f := newFixture(t, Options{})
	p := f.add(t, "a", "a", 200)

	_, err := p.Render(nil)

	assert.True(t, errors.Is(err, ErrNoAttachment), "got %v", err)
}

func TestPanel_CustomButtonsPrecedeBuiltins(t *testing.T) {
	f := newFixture(t, Options{})
	p := f.add(t, "a", "a", 200)

	clicks := 0
	refresh := p.AddIconButton("refresh", "↻", "Refresh", func() { clicks++ })
	p.AddTextButton("clear", "clear", nil)

	assert.Equal(t, []string{"refresh", "clear", ButtonEnlarge, ButtonMinimize, ButtonClose}, buttonKeys(p.Buttons()))
	assert.Equal(t, []string{"title", "button:refresh", "button:clear", "button:enlarge", "button:minimize", "button:close"}, headerNames(p))
	assert.False(t, refresh.Builtin())
	assert.True(t, p.Button(ButtonClose).Builtin())
	assert.Equal(t, "clear", p.Button("clear").Text())

	refresh.Click()
	assert.Equal(t, 1, clicks)
	p.Button("clear").Click()
}

func TestPanel_AddButtonIsIdempotent(t *testing.T) {
	f := newFixture(t, Options{})
	p := f.add(t, "a", "a", 200)

	first := p.AddIconButton("play", "▶", "Play", nil)
	second := p.AddTextButton("play", "Play", nil)

	assert.Same(t, first, second)
	assert.Len(t, p.Buttons(), 4)
	assert.Len(t, p.Wrapper().Children()[0].Children(), 5)
}

func TestPanel_SetTitle(t *testing.T) {
	f := newFixture(t, Options{})
	p := f.add(t, "a", "a", 200)

	p.SetTitle("Renamed")

	assert.Equal(t, "Renamed", p.Title())
	assert.Equal(t, "Renamed", p.Wrapper().Find("title").Text)
}

func TestPanel_SetHeightWhileMinimized(t *testing.T) {
	f := newFixture(t, Options{})
	p := f.add(t, "a", "a", 200)
	f.add(t, "b", "b", 200)
	require.True(t, p.ToggleMinimize())

	p.SetHeight(300)

	assert.Equal(t, DefaultHeaderHeight, p.Height())
	assert.Equal(t, 300, p.OriginalHeight())
	require.True(t, p.ToggleMinimize())
	assert.Equal(t, 300, p.Height())
}

func TestPanel_SetHeightNeverBelowHeader(t *testing.T) {
	f := newFixture(t, Options{})
	p := f.add(t, "a", "a", 200)

	p.SetHeight(3)

	assert.Equal(t, DefaultHeaderHeight, p.Height())
	assert.Equal(t, 0, p.ContentHeight())
}

func TestPanel_BuiltinButtons(t *testing.T) {
	f := newFixture(t, Options{})
	p := f.add(t, "a", "a", 200)
	f.add(t, "b", "b", 200)

	p.Button(ButtonMinimize).Click()
	assert.True(t, p.Minimized())
	p.Button(ButtonMinimize).Click()
	assert.False(t, p.Minimized())

	p.Button(ButtonEnlarge).Click()
	assert.True(t, p.Enlarged())
	p.Button(ButtonEnlarge).Click()
	assert.False(t, p.Enlarged())

	p.Button(ButtonClose).Click()
	assert.Nil(t, f.c.Panel("a"))
	assert.Equal(t, 1, f.c.Len())
}

func TestPanel_ApplyLayoutPublishes(t *testing.T) {
	f := newFixture(t, Options{})
	p := f.add(t, "a", "a", 200)
	f.add(t, "b", "b", 200)
	f.pub.reset()

	p.ApplyLayout(WindowInfo{ID: "a", Type: "a", Height: 260, Minimized: true, Extra: map[string]any{"k": "v"}})

	assert.True(t, p.Minimized())
	assert.Equal(t, 260, p.OriginalHeight())
	assert.Equal(t, []map[string]any{{"k": "v"}}, f.kinds["a"].applied)
	assert.Equal(t, 1, f.pub.count(TopicLayoutChanged))
}

func TestPanel_DestroyAllowsRerender(t *testing.T) {
	f := newFixture(t, Options{})
	p := f.add(t, "a", "a", 200)
	p.AddTextButton("x", "x", nil)

	p.Destroy()
	assert.Nil(t, p.Wrapper())
	assert.Empty(t, rootNames(f.root))

	into := NewNode("elsewhere")
	slot, err := p.Render(into)
	require.NoError(t, err)
	assert.Same(t, p.Slot(), slot)
	assert.Equal(t, []string{"title", "button:x", "button:enlarge", "button:minimize", "button:close"}, headerNames(p))
	assert.Equal(t, 2, f.kinds["a"].mounts)
}

func TestButton_SetIconUpdatesHeaderNode(t *testing.T) {
	f := newFixture(t, Options{})
	p := f.add(t, "a", "a", 200)
	b := p.AddIconButton("play", "▶", "Play", nil)

	b.SetIcon("⏸", "Pause")
	assert.Equal(t, "⏸", b.Text())
	assert.Equal(t, "Pause", b.Tooltip)
	assert.Equal(t, "⏸", p.Wrapper().Find("button:play").Text)

	f.add(t, "b", "b", 200)
	require.True(t, p.ToggleMinimize())
	assert.Equal(t, "▭", p.Wrapper().Find("button:minimize").Text)
}
