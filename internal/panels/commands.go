package panels

import (
	"context"
	"fmt"
	"log/slog"

	"panelshell/internal/jsonutil"
)

// Inbound command names handled by BindCommands.
const (
	CmdAddPanel     = "add-panel"
	CmdRemovePanel  = "remove-panel"
	CmdResizePanel  = "resize-panel"
	CmdTogglePanel  = "toggle-panel"
	CmdEnlargePanel = "enlarge-panel"
	CmdFocusPanel   = "focus-panel"
)

// CommandRegistrar is the inbound half of the messaging bus.
type CommandRegistrar interface {
	OnCommand(name string, handler func(ctx context.Context, payload any) error)
}

// AddPanelCommand is the payload of add-panel.
type AddPanelCommand struct {
	Type     string `json:"type"`
	ID       string `json:"id,omitempty"`
	Title    string `json:"title,omitempty"`
	Height   int    `json:"height,omitempty"`
	Position *int   `json:"position,omitempty"`
}

// PanelCommand is the payload of remove-panel, toggle-panel, enlarge-panel
// and focus-panel. An empty ID targets the active panel where that makes sense.
type PanelCommand struct {
	ID string `json:"id"`
}

// ResizePanelCommand is the payload of resize-panel.
type ResizePanelCommand struct {
	ID     string `json:"id,omitempty"`
	Height int    `json:"height"`
}

// BindCommands registers the container's command handlers on r.
func (c *Container) BindCommands(r CommandRegistrar) {
	r.OnCommand(CmdAddPanel, func(ctx context.Context, payload any) error {
		var cmd AddPanelCommand
		if err := jsonutil.Decode(payload, &cmd, CmdAddPanel); err != nil {
			return err
		}
		if !c.Registry().Has(cmd.Type) {
			return fmt.Errorf("%s %q: %w", CmdAddPanel, cmd.Type, ErrUnknownType)
		}
		pos := -1
		if cmd.Position != nil {
			pos = *cmd.Position
		}
		_, err := c.AddPanel(ctx, PanelSpec{Type: cmd.Type, ID: cmd.ID, Title: cmd.Title, Height: cmd.Height}, pos)
		return err
	})
	r.OnCommand(CmdRemovePanel, func(_ context.Context, payload any) error {
		p, err := c.commandTarget(CmdRemovePanel, payload)
		if err != nil {
			return err
		}
		return c.RemovePanel(p.id)
	})
	r.OnCommand(CmdResizePanel, func(_ context.Context, payload any) error {
		var cmd ResizePanelCommand
		if err := jsonutil.Decode(payload, &cmd, CmdResizePanel); err != nil {
			return err
		}
		id := cmd.ID
		if id == "" {
			id = c.focus.Current
		}
		return c.ResizePanel(id, cmd.Height)
	})
	r.OnCommand(CmdTogglePanel, func(_ context.Context, payload any) error {
		p, err := c.commandTarget(CmdTogglePanel, payload)
		if err != nil {
			return err
		}
		// A rejected toggle is not an error; it is user input racing the floor.
		p.ToggleMinimize()
		return nil
	})
	r.OnCommand(CmdEnlargePanel, func(_ context.Context, payload any) error {
		p, err := c.commandTarget(CmdEnlargePanel, payload)
		if err != nil {
			return err
		}
		return p.ToggleEnlarge()
	})
	r.OnCommand(CmdFocusPanel, func(_ context.Context, payload any) error {
		p, err := c.commandTarget(CmdFocusPanel, payload)
		if err != nil {
			return err
		}
		c.focus.SetFocus(p.id)
		return nil
	})
}

// commandTarget resolves the panel named by a PanelCommand payload. A nil
// payload or empty id means the active panel.
func (c *Container) commandTarget(name string, payload any) (*Panel, error) {
	var cmd PanelCommand
	if payload != nil {
		if err := jsonutil.Decode(payload, &cmd, name); err != nil {
			return nil, err
		}
	}
	id := cmd.ID
	if id == "" {
		id = c.focus.Current
	}
	p := c.Panel(id)
	if p == nil {
		c.log.Debug("command target missing", slog.String("command", name), slog.String("id", id))
		return nil, fmt.Errorf("%s %q: %w", name, id, ErrNotFound)
	}
	return p, nil
}
