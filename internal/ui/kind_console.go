package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/viewport"

	"panelshell/internal/bus"
	"panelshell/internal/jsonutil"
	"panelshell/internal/panels"
	"panelshell/internal/pty"
)

const defaultConsoleLines = 500

// consoleKind shows scrollback from a command run under a pty. With no
// command configured it mirrors bus traffic instead.
type consoleKind struct {
	panels.BaseKind
	deps KindDeps

	mu       sync.Mutex
	lines    []string
	max      int
	follow   bool
	vp       viewport.Model
	session  *pty.Session
	unsubBus func()
}

func newConsoleKind(deps KindDeps) *consoleKind {
	max := deps.Console.MaxLines
	if max <= 0 {
		max = defaultConsoleLines
	}
	return &consoleKind{deps: deps, max: max, follow: true, vp: viewport.New(0, 0)}
}

func (k *consoleKind) Init(ctx context.Context, p *panels.Panel) error {
	p.AddTextButton("clear", "clear", k.Clear)
	if len(k.deps.Console.Command) == 0 {
		if k.deps.Bus != nil {
			k.unsubBus = k.deps.Bus.Subscribe("*", k.onMessage)
		}
		return nil
	}
	runner := k.deps.Runner
	if runner == nil {
		runner = &pty.CreackPTY{}
	}
	s, err := pty.StartSession(k.deps.Ctx, runner, k.deps.Console.Command, k.deps.Console.Dir, pty.Size{Rows: 24, Cols: 80}, k.Append)
	if err != nil {
		// A broken command still yields a usable panel showing the failure.
		k.Append("failed to start: " + err.Error())
		if k.deps.Log != nil {
			k.deps.Log.Warn("console start", slog.Any("command", k.deps.Console.Command), slog.Any("error", err))
		}
		return nil
	}
	k.session = s
	return nil
}

func (k *consoleKind) Mount(slot *panels.Node) {
	slot.Content = k
}

func (k *consoleKind) LayoutFields() map[string]any {
	k.mu.Lock()
	defer k.mu.Unlock()
	return map[string]any{"follow": k.follow}
}

func (k *consoleKind) ApplyLayoutFields(fields map[string]any) {
	k.mu.Lock()
	k.follow = jsonutil.GetBool(fields, "follow", k.follow)
	k.mu.Unlock()
}

func (k *consoleKind) Dispose() {
	if k.unsubBus != nil {
		k.unsubBus()
		k.unsubBus = nil
	}
	if k.session != nil {
		_ = k.session.Close()
		k.session = nil
	}
}

func (k *consoleKind) onMessage(msg bus.Message) {
	// Layout notifications carry whole records; one line per topic is enough.
	if msg.Topic == panels.TopicLayoutChanged {
		k.Append(msg.Timestamp.Format("15:04:05") + " " + msg.Topic)
		return
	}
	k.Append(fmt.Sprintf("%s %s %s", msg.Timestamp.Format("15:04:05"), msg.Topic, jsonutil.ToString(msg.Payload)))
}

// Append adds a line, dropping the oldest past the scrollback limit.
func (k *consoleKind) Append(line string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.lines = append(k.lines, line)
	if over := len(k.lines) - k.max; over > 0 {
		k.lines = append([]string(nil), k.lines[over:]...)
	}
}

// Clear empties the scrollback.
func (k *consoleKind) Clear() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.lines = nil
	k.vp.SetYOffset(0)
}

// Scroll moves the view by delta lines. Scrolling up stops following.
func (k *consoleKind) Scroll(delta int) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.vp.SetYOffset(k.vp.YOffset + delta)
	k.follow = k.vp.AtBottom()
}

// Lines returns a copy of the scrollback.
func (k *consoleKind) Lines() []string {
	k.mu.Lock()
	defer k.mu.Unlock()
	return append([]string(nil), k.lines...)
}

func (k *consoleKind) Render(width, height int) string {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.vp.Width != width || k.vp.Height != height {
		k.vp.Width = width
		k.vp.Height = height
		if k.session != nil && width > 0 && height > 0 {
			_ = k.session.Resize(pty.Size{Rows: uint16(height), Cols: uint16(width)})
		}
	}
	k.vp.SetContent(strings.Join(k.lines, "\n"))
	if k.follow {
		k.vp.GotoBottom()
	}
	return k.vp.View()
}
