package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"panelshell/internal/panels"
	"panelshell/internal/ui/textutil"
)

// minMainWidth is the narrowest the main area may get when the sidebar grows.
const minMainWidth = 10

// geometry is the horizontal split of the screen.
type geometry struct {
	sidebarX int
	sidebarW int
	handleX  int
	mainX    int
	mainW    int
	bodyH    int
}

func (m *AppModel) geometry() geometry {
	sw := m.Container.Width()
	mw := m.width - sw - 1
	if mw < 0 {
		mw = 0
	}
	g := geometry{sidebarW: sw, mainW: mw, bodyH: m.bodyHeight()}
	if m.Container.ResizeEdge() == panels.EdgeLeft {
		g.mainX = 0
		g.handleX = mw
		g.sidebarX = mw + 1
	} else {
		g.sidebarX = 0
		g.handleX = sw
		g.mainX = sw + 1
	}
	return g
}

// headerSlot is the column span of one header button.
type headerSlot struct {
	index int
	x0    int
	x1    int
}

// layoutHeader right-aligns labels in a header of width columns, one space
// apart, and returns the width left for the title (which starts at column 1).
// Labels that do not fit are dropped from the left.
func layoutHeader(labels []string, width int) (titleW int, slots []headerSlot) {
	x := width - 1
	for i := len(labels) - 1; i >= 0; i-- {
		w := textutil.VisualWidth(labels[i])
		if x-w < 2 {
			break
		}
		x -= w
		slots = append([]headerSlot{{index: i, x0: x, x1: x + w}}, slots...)
		x--
	}
	titleW = x - 1
	if titleW < 0 {
		titleW = 0
	}
	return titleW, slots
}

func renderHeader(title string, labels []string, width int, focused bool) string {
	if width <= 0 {
		return ""
	}
	titleStyle := Styles.Header
	if focused {
		titleStyle = Styles.HeaderFocused
	}
	titleW, slots := layoutHeader(labels, width)
	var b strings.Builder
	b.WriteString(titleStyle.Render(" " + textutil.PadRightVisual(title, titleW)))
	pos := 1 + titleW
	for _, s := range slots {
		if s.x0 > pos {
			b.WriteString(Styles.Header.Render(strings.Repeat(" ", s.x0-pos)))
		}
		b.WriteString(Styles.Button.Render(labels[s.index]))
		pos = s.x1
	}
	if pos < width {
		b.WriteString(Styles.Header.Render(strings.Repeat(" ", width-pos)))
	}
	return b.String()
}

func buttonLabels(buttons []*panels.Button) []string {
	out := make([]string, len(buttons))
	for i, b := range buttons {
		out[i] = b.Text()
	}
	return out
}

// headerParts reads a rendered panel header back out of the node tree.
func headerParts(header *panels.Node) (title string, buttons []*panels.Button) {
	for _, n := range header.Children() {
		if b, ok := n.Content.(*panels.Button); ok {
			buttons = append(buttons, b)
			continue
		}
		if n.Name == "title" {
			title = n.Text
		}
	}
	return title, buttons
}

func (m *AppModel) render() string {
	g := m.geometry()
	if g.bodyH <= 0 {
		return ""
	}
	sidebar := strings.Join(m.sidebarLines(g), "\n")
	handle := m.handleColumn(g)
	main := m.mainArea(g)

	var body string
	if m.Container.ResizeEdge() == panels.EdgeLeft {
		body = lipgloss.JoinHorizontal(lipgloss.Top, main, handle, sidebar)
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, handle, main)
	}
	return body + "\n" + m.statusLine()
}

// sidebarLines renders the container by walking its node tree: panel
// wrappers and separator strips in order.
func (m *AppModel) sidebarLines(g geometry) []string {
	w := g.sidebarW
	activeName := ""
	if p := m.Container.Active(); p != nil {
		activeName = "panel:" + p.ID()
	}
	var lines []string
	for _, n := range m.root.Children() {
		if sep, ok := n.Content.(*panels.Separator); ok {
			style := Styles.Separator
			if sep.Active() {
				style = Styles.SeparatorDrag
			}
			for i := 0; i < n.Height; i++ {
				lines = append(lines, style.Render(strings.Repeat("─", w)))
			}
			continue
		}
		lines = append(lines, panelLines(n, w, n.Name == activeName)...)
	}
	for len(lines) < g.bodyH {
		lines = append(lines, strings.Repeat(" ", w))
	}
	if len(lines) > g.bodyH {
		lines = lines[:g.bodyH]
	}
	return lines
}

func panelLines(wrapper *panels.Node, width int, focused bool) []string {
	children := wrapper.Children()
	if len(children) == 0 {
		return nil
	}
	header := children[0]
	title, buttons := headerParts(header)
	lines := []string{renderHeader(title, buttonLabels(buttons), width, focused)}
	for i := 1; i < header.Height; i++ {
		lines = append(lines, Styles.Header.Render(strings.Repeat(" ", width)))
	}
	bodyH := wrapper.Height - header.Height
	if len(children) < 2 || bodyH <= 0 {
		return lines
	}
	body := children[1]
	if body.Hidden {
		return lines
	}
	if c, ok := body.Content.(Content); ok {
		return append(lines, textutil.FitBlock(c.Render(width, bodyH), width, bodyH)...)
	}
	for _, l := range textutil.FitBlock(body.Text, width, bodyH) {
		lines = append(lines, Styles.Placeholder.Render(l))
	}
	return lines
}

func (m *AppModel) handleColumn(g geometry) string {
	style, glyph := Styles.Edge, "│"
	if m.Container.EdgeHandle().Active() {
		style, glyph = Styles.SeparatorDrag, "┃"
	}
	rows := make([]string, g.bodyH)
	for i := range rows {
		rows[i] = style.Render(glyph)
	}
	return strings.Join(rows, "\n")
}

// helpBox is the leader-key hint box, or "" when no sequence is pending.
func (m *AppModel) helpBox(width int) string {
	if m.KeyHandler == nil || !m.KeyHandler.LeaderWaiting {
		return ""
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(RenderKeybindHelp(m.KeyHandler, m.Mode))
}

// overlayBoxHeight is the outer height of the overlay box in the main area.
func (m *AppModel) overlayBoxHeight(g geometry) int {
	h := g.bodyH
	if help := m.helpBox(g.mainW); help != "" {
		h -= lipgloss.Height(help)
	}
	if h < 3 {
		h = 3
	}
	return h
}

// overlayLabels are the overlay's own controls, left to right.
var overlayLabels = []string{"_", "×"}

func (m *AppModel) mainArea(g geometry) string {
	if g.mainW <= 0 {
		return ""
	}
	help := m.helpBox(g.mainW)
	topH := g.bodyH
	if help != "" {
		topH = m.overlayBoxHeight(g)
	}

	var top string
	if o := m.Layer.Current(); o != nil && g.mainW > 2 {
		top = m.overlayBox(o, g.mainW, topH)
	} else {
		top = lipgloss.Place(g.mainW, topH, lipgloss.Center, lipgloss.Center, Styles.Main.Render("panelshell"))
	}
	if help == "" {
		return top
	}
	helpBlock := lipgloss.Place(g.mainW, g.bodyH-topH, lipgloss.Left, lipgloss.Bottom, help)
	return lipgloss.JoinVertical(lipgloss.Left, top, helpBlock)
}

func (m *AppModel) overlayBox(o *panels.Overlay, width, height int) string {
	innerW, innerH := width-2, height-2
	surface := o.Surface()
	titleW, slots := layoutHeader(overlayLabels, innerW)
	var head strings.Builder
	head.WriteString(Styles.OverlayTitle.Render(" " + textutil.PadRightVisual(surface.Text, titleW)))
	pos := 1 + titleW
	for _, s := range slots {
		head.WriteString(strings.Repeat(" ", s.x0-pos))
		head.WriteString(Styles.Button.Render(overlayLabels[s.index]))
		pos = s.x1
	}
	if pos < innerW {
		head.WriteString(strings.Repeat(" ", innerW-pos))
	}

	lines := []string{head.String()}
	contentH := innerH - 1
	if h := o.ContentHeight(); h > 0 && h < contentH {
		contentH = h
	}
	var slot *panels.Node
	if children := surface.Children(); len(children) > 0 {
		slot = children[0]
	}
	text := ""
	if slot != nil {
		if c, ok := slot.Content.(Content); ok {
			text = c.Render(innerW, contentH)
		}
	}
	lines = append(lines, textutil.FitBlock(text, innerW, innerH-1)...)
	return Styles.Overlay.Render(strings.Join(lines, "\n"))
}

func (m *AppModel) statusLine() string {
	parts := []string{m.Mode.String()}
	if p := m.Container.Active(); p != nil {
		parts = append(parts, p.ID())
	}
	if d := m.Container.Dragging(); d != panels.DragNone {
		parts = append(parts, d.String())
	}
	left := Styles.Status.Render(strings.Join(parts, " · "))
	hint := Styles.Muted.Render("  SPC for commands")
	if m.Status != "" {
		hint = "  " + Styles.Error.Render(m.Status)
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(left + hint)
}
