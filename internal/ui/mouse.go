package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"panelshell/internal/panels"
)

const wheelStep = 3

// HandleMouse routes a mouse event to the drag machinery, header controls or
// the overlay. Coordinates are screen cells.
func (m *AppModel) HandleMouse(msg tea.MouseMsg) {
	defer m.syncMode()
	g := m.geometry()
	switch msg.Action {
	case tea.MouseActionMotion:
		// Edge drags work on the screen X delta; the sidebar itself may move.
		m.Container.PointerMove(msg.X, msg.Y)
		return
	case tea.MouseActionRelease:
		m.Container.PointerUp(msg.X, msg.Y)
		return
	}
	if msg.Action != tea.MouseActionPress || msg.Y >= g.bodyH {
		return
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.wheel(g, msg.X, msg.Y, -wheelStep)
	case tea.MouseButtonWheelDown:
		m.wheel(g, msg.X, msg.Y, wheelStep)
	case tea.MouseButtonLeft:
		m.press(g, msg.X, msg.Y)
	}
}

func (m *AppModel) inSidebar(g geometry, x int) bool {
	return x >= g.sidebarX && x < g.sidebarX+g.sidebarW
}

func (m *AppModel) press(g geometry, x, y int) {
	if x == g.handleX {
		m.Container.EdgeHandle().PointerDown(x, y)
		return
	}
	if !m.inSidebar(g, x) {
		m.pressOverlay(g, x, y)
		return
	}
	if sep := m.Container.SeparatorAt(y); sep != nil {
		sep.PointerDown(x, y)
		return
	}
	i := m.Container.PanelAt(y)
	if i < 0 {
		return
	}
	p := m.Container.Panels()[i]
	m.Container.Focus(p.ID())
	top := 0
	for _, r := range m.Container.Regions() {
		if !r.Separator && r.Index == i {
			top = r.Top
			break
		}
	}
	if y-top >= p.HeaderHeight() {
		return
	}
	buttons := p.Buttons()
	_, slots := layoutHeader(buttonLabels(buttons), g.sidebarW)
	lx := x - g.sidebarX
	for _, s := range slots {
		if lx >= s.x0 && lx < s.x1 {
			buttons[s.index].Click()
			return
		}
	}
	m.Container.BeginReorder(p.ID(), y)
}

// pressOverlay handles clicks on the overlay title row: row 0 is the box
// border, row 1 the title with the minimize and close controls.
func (m *AppModel) pressOverlay(g geometry, x, y int) {
	o := m.Layer.Current()
	if o == nil || y != 1 {
		return
	}
	_, slots := layoutHeader(overlayLabels, g.mainW-2)
	lx := x - g.mainX - 1
	for _, s := range slots {
		if lx < s.x0 || lx >= s.x1 {
			continue
		}
		if overlayLabels[s.index] == "_" {
			o.Minimize()
		} else {
			o.Close()
		}
		return
	}
}

func (m *AppModel) wheel(g geometry, x, y, delta int) {
	var target *panels.Node
	if m.inSidebar(g, x) {
		if i := m.Container.PanelAt(y); i >= 0 {
			target = m.Container.Panels()[i].Slot()
		}
	} else if o := m.Layer.Current(); o != nil {
		target = o.Panel().Slot()
	}
	if target == nil {
		return
	}
	if s, ok := target.Content.(scroller); ok {
		s.Scroll(delta)
	}
}
