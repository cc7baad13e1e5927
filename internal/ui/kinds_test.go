package ui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panelshell/internal/bus"
	"panelshell/internal/config"
	"panelshell/internal/panels"
)

func newKindContainer(t *testing.T, deps KindDeps) *panels.Container {
	t.Helper()
	reg := panels.NewRegistry()
	require.NoError(t, RegisterKinds(reg, deps))
	c := panels.NewContainer(panels.Options{Registry: reg, Publisher: deps.Bus})
	require.NoError(t, c.Render(panels.NewNode("root")))
	t.Cleanup(func() {
		for _, p := range c.Panels() {
			_ = p.Close()
		}
	})
	return c
}

func addKind(t *testing.T, c *panels.Container, typ string) *panels.Panel {
	t.Helper()
	p, err := c.AddPanel(context.Background(), panels.PanelSpec{Type: typ}, -1)
	require.NoError(t, err)
	return p
}

func TestRegisterKinds(t *testing.T) {
	reg := panels.NewRegistry()
	require.NoError(t, RegisterKinds(reg, KindDeps{}))
	assert.Equal(t, []string{TypeConsole, TypeProject, TypeTV, TypeVideo}, reg.Types())
	assert.Error(t, RegisterKinds(reg, KindDeps{}), "types register once")
}

func TestWalkTree(t *testing.T) {
	root := filepath.Join(t.TempDir(), "repo")
	for _, d := range []string{"cmd/app", "internal", ".git"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0o755))
	}
	for _, f := range []string{"go.mod", "README.md", "cmd/app/main.go", ".gitignore"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, f), nil, 0o644))
	}

	got, err := walkTree(root, 0, false)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"repo/",
		"  cmd/",
		"    app/",
		"      main.go",
		"  internal/",
		"  README.md",
		"  go.mod",
	}, got)

	withHidden, err := walkTree(root, 0, true)
	require.NoError(t, err)
	assert.Contains(t, withHidden, "  .git/")
	assert.Contains(t, withHidden, "  .gitignore")

	capped, err := walkTree(root, 3, false)
	require.NoError(t, err)
	assert.Len(t, capped, 3)

	_, err = walkTree(filepath.Join(root, "missing"), 0, false)
	assert.Error(t, err)
}

func TestProjectKind(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), nil, 0o644))
	c := newKindContainer(t, KindDeps{Project: config.ProjectConfig{Root: dir}})
	p := addKind(t, c, TypeProject)
	k := p.Kind().(*projectKind)

	assert.Same(t, k, p.Slot().Content)
	assert.Contains(t, k.Render(40, 5), "a.txt")
	assert.NotNil(t, p.Button("refresh"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), nil, 0o644))
	p.Button("refresh").Click()
	assert.Contains(t, k.Render(40, 5), "b.txt")

	k.Scroll(1)
	assert.NotContains(t, k.Render(40, 5), filepath.Base(dir)+"/")
	k.Scroll(-10)
	assert.Contains(t, k.Render(40, 5), filepath.Base(dir)+"/")

	other := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(other, "c.txt"), nil, 0o644))
	p.ApplyLayout(panels.WindowInfo{ID: p.ID(), Type: TypeProject, Height: p.Height(), Extra: map[string]any{"root": other}})
	assert.Equal(t, map[string]any{"root": other}, k.LayoutFields())
	assert.Contains(t, k.Render(40, 5), "c.txt")

	k.ApplyLayoutFields(map[string]any{"root": filepath.Join(other, "missing")})
	assert.Contains(t, k.Render(80, 5), "error:")
}

func TestConsoleKind_MirrorsBus(t *testing.T) {
	b := bus.New(nil)
	c := newKindContainer(t, KindDeps{Bus: b, Console: config.ConsoleConfig{MaxLines: 3}})
	p := addKind(t, c, TypeConsole)
	k := p.Kind().(*consoleKind)
	k.Clear()

	b.Publish("lesson", map[string]any{"step": 2.0})
	lines := k.Lines()
	require.Len(t, lines, 1)
	assert.True(t, strings.HasSuffix(lines[0], "lesson map[step:2]"), "got %q", lines[0])

	for i := 0; i < 5; i++ {
		k.Append("x")
	}
	assert.Len(t, k.Lines(), 3, "scrollback is capped")

	p.Button("clear").Click()
	assert.Empty(t, k.Lines())

	require.NoError(t, p.Close())
	b.Publish("after", nil)
	assert.Empty(t, k.Lines(), "disposed console stops listening")
}

func TestConsoleKind_FollowAndScroll(t *testing.T) {
	c := newKindContainer(t, KindDeps{})
	k := addKind(t, c, TypeConsole).Kind().(*consoleKind)
	for i := 0; i < 20; i++ {
		k.Append(strings.Repeat("l", i+1))
	}

	out := k.Render(30, 4)
	assert.Contains(t, out, strings.Repeat("l", 20), "following shows the tail")

	k.Scroll(-10)
	assert.False(t, k.follow)
	assert.Equal(t, map[string]any{"follow": false}, k.LayoutFields())
	out = k.Render(30, 4)
	assert.NotContains(t, out, strings.Repeat("l", 20))

	k.ApplyLayoutFields(map[string]any{"follow": true})
	assert.Contains(t, k.Render(30, 4), strings.Repeat("l", 20))
}

func TestConsoleKind_StartFailureIsShown(t *testing.T) {
	c := newKindContainer(t, KindDeps{Console: config.ConsoleConfig{Command: []string{"definitely-not-a-command-xyz"}}})
	k := addKind(t, c, TypeConsole).Kind().(*consoleKind)

	lines := k.Lines()
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "failed to start: "), "got %q", lines[0])
}

func TestTVKind(t *testing.T) {
	b := bus.New(nil)
	var playback []any
	b.Subscribe(TopicTVPlayback, func(m bus.Message) { playback = append(playback, m.Payload) })
	c := newKindContainer(t, KindDeps{Bus: b})
	p := addKind(t, c, TypeTV)
	k := p.Kind().(*tvKind)

	assert.Equal(t, "No clip", k.Render(20, 2))
	p.Button("play").Click()
	assert.Empty(t, playback, "nothing to play yet")

	b.Publish(TopicTVClip, map[string]any{"url": "http://clips/1"})
	assert.Equal(t, "http://clips/1\nplaying", k.Render(40, 2))
	assert.Equal(t, "▶", p.Button("play").Text(), "the header is only touched on refresh")
	k.Refresh()
	assert.Equal(t, "⏸", p.Button("play").Text())
	assert.Equal(t, "⏸", p.Wrapper().Find("button:play").Text)

	p.Button("play").Click()
	assert.Contains(t, k.Render(40, 2), "paused")
	assert.Equal(t, "▶", p.Button("play").Text())
	assert.Equal(t, []any{map[string]any{"url": "http://clips/1", "playing": false}}, playback)

	b.Publish(TopicTVClip, []byte(`{"url":"http://clips/2"}`))
	assert.Equal(t, map[string]any{"url": "http://clips/2"}, k.LayoutFields())
	b.Publish(TopicTVClip, 42)
	assert.Equal(t, map[string]any{"url": "http://clips/2"}, k.LayoutFields(), "unusable payloads are ignored")
}

func TestClipURL(t *testing.T) {
	assert.Equal(t, "http://a", clipURL(" http://a "))
	assert.Equal(t, "http://b", clipURL(map[string]any{"url": "http://b"}))
	assert.Equal(t, "http://c", clipURL(struct {
		URL string `json:"url"`
	}{"http://c"}))
	assert.Equal(t, "", clipURL(nil))
}

func TestVideoKind(t *testing.T) {
	b := bus.New(nil)
	var muted []any
	b.Subscribe(TopicVideoMuted, func(m bus.Message) { muted = append(muted, m.Payload) })
	c := newKindContainer(t, KindDeps{Bus: b})
	p := addKind(t, c, TypeVideo)
	k := p.Kind().(*videoKind)

	assert.Equal(t, "Video", p.Title())
	assert.Equal(t, "no room · offline", k.Render(40, 1))

	b.Publish(TopicVideoStatus, map[string]any{"room": "lab", "status": "live"})
	assert.Equal(t, "lab · live", k.Render(40, 1))

	b.Publish(TopicVideoStatus, map[string]any{"room": "other", "status": "offline"})
	assert.Equal(t, "lab · live", k.Render(40, 1), "other rooms are ignored")

	p.Button("mute").Click()
	assert.Equal(t, "lab · live · muted", k.Render(40, 1))
	assert.Equal(t, "∅", p.Button("mute").Text())
	assert.Equal(t, []any{map[string]any{"room": "lab", "muted": true}}, muted)

	k.ApplyLayoutFields(map[string]any{"muted": false})
	assert.Equal(t, "♪", p.Button("mute").Text())
	assert.Equal(t, map[string]any{"room": "lab", "muted": false}, k.LayoutFields())
}

func TestKinds_PersistThroughLayoutInfo(t *testing.T) {
	b := bus.New(nil)
	c := newKindContainer(t, KindDeps{Bus: b})
	addKind(t, c, TypeTV)
	addKind(t, c, TypeVideo)
	b.Publish(TopicTVClip, "http://clips/9")
	b.Publish(TopicVideoStatus, map[string]any{"room": "lab"})

	info := c.LayoutInfo()
	require.Len(t, info.Windows, 2)
	assert.Equal(t, "http://clips/9", info.Windows[0].Extra["url"])
	assert.Equal(t, "lab", info.Windows[1].Extra["room"])

	fresh := newKindContainer(t, KindDeps{Bus: bus.New(nil)})
	fresh.Restore(context.Background(), info)
	assert.Equal(t, map[string]any{"url": "http://clips/9"}, fresh.Panel("tv-1").Kind().LayoutFields())
	assert.Equal(t, map[string]any{"room": "lab", "muted": false}, fresh.Panel("video-1").Kind().LayoutFields())
}
