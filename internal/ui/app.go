package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	oteltrace "go.opentelemetry.io/otel/trace"

	"panelshell/internal/bus"
	"panelshell/internal/config"
	"panelshell/internal/logging"
	"panelshell/internal/panels"
	"panelshell/internal/pty"
	"panelshell/internal/store"
)

const refreshInterval = 250 * time.Millisecond

// busCommandMsg asks the app to dispatch a command through the bus on the
// UI goroutine.
type busCommandMsg struct {
	Name    string
	Payload any
}

// resizeStepMsg grows or shrinks the active panel (SPC w + / SPC w -).
type resizeStepMsg struct{ Delta int }

// moveStepMsg moves the active panel up or down (SPC w k / SPC w j).
type moveStepMsg struct{ Delta int }

// saveLayoutMsg writes the current layout to the store (SPC l s).
type saveLayoutMsg struct{}

// reloadLayoutMsg re-applies the stored layout (SPC l r).
type reloadLayoutMsg struct{}

// forgetLayoutMsg deletes the stored layout (SPC l d).
type forgetLayoutMsg struct{}

// tickMsg repaints panels whose content changes in the background.
type tickMsg time.Time

// AppDeps are the services the app is built from. Zero fields fall back to
// defaults so tests can build an app from a config alone.
type AppDeps struct {
	Ctx    context.Context
	Config config.Config
	Bus    *bus.Bus
	Store  *store.Store
	Runner pty.Runner
	Log    *slog.Logger
	Tracer oteltrace.Tracer
	Now    func() time.Time
	// SkipRestore starts from the configured panels even when a saved layout exists.
	SkipRestore bool
}

// AppModel is the root model: a sidebar panel container next to a main area
// that hosts the overlay of an enlarged panel.
type AppModel struct {
	Mode       AppMode
	Container  *panels.Container
	Layer      *panels.OverlayLayer
	Registry   *panels.Registry
	KeyHandler *KeyHandler
	Bus        *bus.Bus
	Store      *store.Store
	LayoutName string
	Status     string

	ctx    context.Context
	log    *slog.Logger
	root   *panels.Node
	width  int
	height int
	step   int
}

// Ensure AppModel can be used as tea.Model via adapter.
var _ tea.Model = (*appModelAdapter)(nil)

// appModelAdapter wraps AppModel to implement tea.Model.
type appModelAdapter struct {
	*AppModel
}

// NewAppModel builds the registry, container and overlay layer, restores the
// saved layout (or the configured panels) and binds the container's commands
// on the bus.
func NewAppModel(deps AppDeps) (*AppModel, error) {
	if deps.Ctx == nil {
		deps.Ctx = context.Background()
	}
	if deps.Log == nil {
		deps.Log = logging.Discard()
	}
	if deps.Bus == nil {
		deps.Bus = bus.New(deps.Log)
	}
	cfg := deps.Config
	sb := cfg.Sidebar

	reg := panels.NewRegistry()
	err := RegisterKinds(reg, KindDeps{
		Ctx:     deps.Ctx,
		Bus:     deps.Bus,
		Runner:  deps.Runner,
		Console: cfg.Console,
		Project: cfg.Project,
		Log:     deps.Log.With(slog.String("component", "kinds")),
		Now:     deps.Now,
	})
	if err != nil {
		return nil, fmt.Errorf("register panel kinds: %w", err)
	}

	layer := panels.NewOverlayLayer(panels.OverlayOptions{
		Grace: sb.OverlayGrace,
		Now:   deps.Now,
		Log:   deps.Log.With(slog.String("component", "overlay")),
	})
	c := panels.NewContainer(panels.Options{
		Width:          sb.Width,
		MinWidth:       sb.MinWidth,
		MaxWidth:       sb.MaxWidth,
		ResizeEdge:     panels.ParseEdge(sb.ResizeEdge),
		MinPanelHeight: sb.MinPanelHeight,
		HeaderHeight:   sb.HeaderHeight,
		SeparatorSize:  sb.SeparatorSize,
		DefaultHeight:  sb.MinPanelHeight * 2,
		Registry:       reg,
		Layer:          layer,
		Publisher:      deps.Bus,
		Log:            deps.Log.With(slog.String("component", "panels")),
		Tracer:         deps.Tracer,
	})
	root := panels.NewNode("sidebar")
	if err := c.Render(root); err != nil {
		return nil, err
	}
	c.BindCommands(deps.Bus)

	m := &AppModel{
		Mode:       ModeSidebar,
		Container:  c,
		Layer:      layer,
		Registry:   reg,
		Bus:        deps.Bus,
		Store:      deps.Store,
		LayoutName: cfg.Layout,
		ctx:        deps.Ctx,
		log:        deps.Log,
		root:       root,
		step:       sb.MinPanelHeight,
	}
	if m.LayoutName == "" {
		m.LayoutName = store.DefaultLayoutName
	}
	if m.step <= 0 {
		m.step = 1
	}
	m.KeyHandler = NewKeyHandler(m.bindKeys())
	m.restore(cfg.Panels, deps.SkipRestore)
	return m, nil
}

// restore applies the saved layout, falling back to the configured panels
// when nothing usable is stored.
func (m *AppModel) restore(initial []config.PanelConfig, skipSaved bool) {
	if m.Store != nil && !skipSaved {
		info, ok, err := m.Store.Load(m.LayoutName)
		if err != nil {
			m.log.Warn("load layout", slog.String("layout", m.LayoutName), slog.Any("error", err))
		}
		if ok && len(info.Windows) > 0 {
			m.Container.Restore(m.ctx, info)
			if m.Container.Len() > 0 {
				m.log.Info("layout restored", slog.String("layout", m.LayoutName), slog.Int("panels", m.Container.Len()))
				return
			}
		}
	}
	for _, pc := range initial {
		spec := panels.PanelSpec{Type: pc.Type, ID: pc.ID, Title: pc.Title, Height: pc.Height}
		if _, err := m.Container.AddPanel(m.ctx, spec, -1); err != nil {
			m.log.Warn("initial panel", slog.String("type", pc.Type), slog.Any("error", err))
		}
	}
}

func (m *AppModel) bindKeys() *KeybindRegistry {
	reg := NewKeybindRegistry()
	send := func(msg tea.Msg) tea.Cmd { return func() tea.Msg { return msg } }
	command := func(name string, payload any) tea.Cmd {
		return send(busCommandMsg{Name: name, Payload: payload})
	}

	reg.BindWithDesc("q", tea.Quit, "Quit")
	reg.BindWithDesc("ctrl+c", tea.Quit, "Quit")
	reg.BindWithDesc("SPC q", tea.Quit, "Quit")

	reg.BindWithDesc("SPC w m", command(panels.CmdTogglePanel, nil), "Minimize/restore")
	reg.BindWithDesc("SPC w e", command(panels.CmdEnlargePanel, nil), "Enlarge/restore")
	reg.BindWithDesc("SPC w x", command(panels.CmdRemovePanel, nil), "Close")
	reg.BindWithDescForMode("SPC w +", send(resizeStepMsg{Delta: 1}), "Grow", []AppMode{ModeSidebar})
	reg.BindWithDescForMode("SPC w -", send(resizeStepMsg{Delta: -1}), "Shrink", []AppMode{ModeSidebar})
	reg.BindWithDescForMode("SPC w k", send(moveStepMsg{Delta: -1}), "Move up", []AppMode{ModeSidebar})
	reg.BindWithDescForMode("SPC w j", send(moveStepMsg{Delta: 1}), "Move down", []AppMode{ModeSidebar})

	for _, k := range []struct{ key, typ, desc string }{
		{"p", TypeProject, "Project"},
		{"c", TypeConsole, "Console"},
		{"t", TypeTV, "TV"},
		{"v", TypeVideo, "Video"},
	} {
		reg.BindWithDesc("SPC a "+k.key, command(panels.CmdAddPanel, panels.AddPanelCommand{Type: k.typ}), k.desc)
	}

	reg.BindWithDesc("SPC l s", send(saveLayoutMsg{}), "Save layout")
	reg.BindWithDesc("SPC l r", send(reloadLayoutMsg{}), "Reload layout")
	reg.BindWithDesc("SPC l d", send(forgetLayoutMsg{}), "Forget saved layout")
	return reg
}

// Init implements tea.Model.
func (a *appModelAdapter) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update implements tea.Model.
func (a *appModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetSize(msg.Width, msg.Height)
		return a, nil
	case tickMsg:
		a.refreshKinds()
		return a, tick()
	case tea.MouseMsg:
		a.HandleMouse(msg)
		return a, nil
	case busCommandMsg:
		a.Dispatch(msg.Name, msg.Payload)
		return a, nil
	case resizeStepMsg:
		if p := a.Container.Active(); p != nil {
			a.Dispatch(panels.CmdResizePanel, panels.ResizePanelCommand{ID: p.ID(), Height: p.Height() + msg.Delta*a.step})
		}
		return a, nil
	case moveStepMsg:
		a.moveActive(msg.Delta)
		return a, nil
	case saveLayoutMsg:
		a.SaveLayout()
		return a, nil
	case reloadLayoutMsg:
		a.ReloadLayout()
		return a, nil
	case forgetLayoutMsg:
		a.ForgetLayout()
		return a, nil
	case tea.KeyMsg:
		if a.KeyHandler != nil {
			a.KeyHandler.Mode = a.Mode
			if consumed, keyCmd := a.KeyHandler.Handle(msg); consumed {
				return a, keyCmd
			}
		}
		switch msg.String() {
		case "tab":
			a.Container.FocusNext(false)
		case "shift+tab":
			a.Container.FocusNext(true)
		case "esc":
			if a.Container.Dragging() != panels.DragNone {
				a.Container.CancelDrag()
			} else if a.Layer.Current() != nil {
				a.Layer.Hide()
			}
		case "up", "down", "pgup", "pgdown":
			a.scrollActive(msg.String())
		}
		a.syncMode()
		return a, nil
	}
	return a, nil
}

// View implements tea.Model.
func (a *appModelAdapter) View() string {
	return a.render()
}

// AsTeaModel returns a tea.Model adapter for use with tea.NewProgram.
func (m *AppModel) AsTeaModel() tea.Model {
	return &appModelAdapter{AppModel: m}
}

// SetSize lays the container out for a terminal of w x h cells. The bottom
// row is the status line.
func (m *AppModel) SetSize(w, h int) {
	m.width, m.height = w, h
	body := m.bodyHeight()
	// The cap also bounds edge drags; the configured minimum wins in tiny windows.
	m.Container.SetWidthLimit(max(w-1-minMainWidth, 1))
	m.Container.Resize(0, body)
	// Overlay box: border rows plus the title row.
	m.Layer.SetContentHeight(body - 3)
	if o := m.Layer.Current(); o != nil {
		o.Resize(body - 3)
	}
}

func (m *AppModel) bodyHeight() int {
	if m.height <= 1 {
		return 0
	}
	return m.height - 1
}

// Dispatch sends a command through the bus and reports failures on the
// status line.
func (m *AppModel) Dispatch(name string, payload any) {
	err := m.Bus.Request(m.ctx, name, payload)
	switch {
	case err == nil:
		m.Status = ""
	case errors.Is(err, panels.ErrNotFound) && m.Container.Len() == 0:
		m.Status = "no panels"
	default:
		m.Status = err.Error()
		m.log.Debug("command failed", slog.String("command", name), slog.Any("error", err))
	}
	m.syncMode()
}

// SaveLayout writes the current layout under LayoutName.
func (m *AppModel) SaveLayout() {
	if m.Store == nil {
		m.Status = "no layout store"
		return
	}
	if err := m.Store.Save(m.LayoutName, m.Container.LayoutInfo()); err != nil {
		m.Status = err.Error()
		m.log.Warn("save layout", slog.Any("error", err))
		return
	}
	m.Status = "layout saved"
}

// ReloadLayout re-applies the stored layout, recreating missing panels.
func (m *AppModel) ReloadLayout() {
	if m.Store == nil {
		m.Status = "no layout store"
		return
	}
	info, ok, err := m.Store.Load(m.LayoutName)
	switch {
	case err != nil:
		m.Status = err.Error()
	case !ok:
		m.Status = "no saved layout"
	default:
		m.Container.Restore(m.ctx, info)
		m.Status = "layout restored"
	}
	m.syncMode()
}

// ForgetLayout deletes the stored layout. The next layout change is saved
// again by autosave.
func (m *AppModel) ForgetLayout() {
	if m.Store == nil {
		m.Status = "no layout store"
		return
	}
	if err := m.Store.Delete(m.LayoutName); err != nil {
		m.Status = err.Error()
		m.log.Warn("forget layout", slog.Any("error", err))
		return
	}
	m.Status = "saved layout removed"
}

// refresher is a kind whose header lags state changed off the UI goroutine.
type refresher interface {
	Refresh()
}

func (m *AppModel) refreshKinds() {
	for _, p := range m.Container.Panels() {
		if r, ok := p.Kind().(refresher); ok {
			r.Refresh()
		}
	}
}

func (m *AppModel) moveActive(delta int) {
	p := m.Container.Active()
	if p == nil {
		return
	}
	for i, q := range m.Container.Panels() {
		if q == p {
			_ = m.Container.MovePanel(p.ID(), i+delta)
			return
		}
	}
}

type scroller interface {
	Scroll(delta int)
}

func (m *AppModel) scrollActive(key string) {
	p := m.Container.Active()
	if p == nil || p.Slot() == nil {
		return
	}
	s, ok := p.Slot().Content.(scroller)
	if !ok {
		return
	}
	page := p.ContentHeight()
	if page < 1 {
		page = 1
	}
	switch key {
	case "up":
		s.Scroll(-1)
	case "down":
		s.Scroll(1)
	case "pgup":
		s.Scroll(-page)
	case "pgdown":
		s.Scroll(page)
	}
}

func (m *AppModel) syncMode() {
	if m.Layer.Current() != nil {
		m.Mode = ModeEnlarged
		return
	}
	m.Mode = ModeSidebar
}
