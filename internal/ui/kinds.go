package ui

import (
	"context"
	"log/slog"
	"time"

	"panelshell/internal/bus"
	"panelshell/internal/config"
	"panelshell/internal/panels"
	"panelshell/internal/pty"
)

// Panel type keys registered by the host.
const (
	TypeProject = "project"
	TypeConsole = "console"
	TypeTV      = "tv"
	TypeVideo   = "video"
)

// Content is what a panel kind draws into its slot. Kinds store themselves
// in the slot node's Content field when mounted.
type Content interface {
	Render(width, height int) string
}

// KindDeps are the shared services handed to every panel kind.
type KindDeps struct {
	// Ctx bounds long-lived work such as console processes.
	Ctx     context.Context
	Bus     *bus.Bus
	Runner  pty.Runner
	Console config.ConsoleConfig
	Project config.ProjectConfig
	Log     *slog.Logger
	Now     func() time.Time
}

// RegisterKinds adds the host's panel types to reg.
func RegisterKinds(reg *panels.Registry, deps KindDeps) error {
	if deps.Ctx == nil {
		deps.Ctx = context.Background()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	kinds := []struct {
		key, title string
		ctor       panels.Constructor
	}{
		{TypeProject, "Project", func() panels.Kind { return newProjectKind(deps) }},
		{TypeConsole, "Console", func() panels.Kind { return newConsoleKind(deps) }},
		{TypeTV, "TV", func() panels.Kind { return newTVKind(deps) }},
		{TypeVideo, "Video", func() panels.Kind { return newVideoKind(deps) }},
	}
	for _, k := range kinds {
		if err := reg.Register(k.key, k.title, k.ctor); err != nil {
			return err
		}
	}
	return nil
}
