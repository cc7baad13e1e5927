package ui

import (
	"sort"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

var helpBoxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color(ColorAccent)).
	Padding(0, 1).
	MarginTop(1)

func newHintHelp() help.Model {
	h := help.New()
	h.Styles.ShortKey = Styles.Button.UnsetBackground().Bold(true)
	h.Styles.ShortDesc = Styles.Muted
	h.Styles.ShortSeparator = Styles.Muted
	return h
}

// hintBindings turns next-key hints into help bindings, sorted by key, with
// esc last.
func hintBindings(hints map[string]string) []key.Binding {
	keys := make([]string, 0, len(hints))
	for k := range hints {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]key.Binding, 0, len(keys)+1)
	for _, k := range keys {
		out = append(out, key.NewBinding(key.WithKeys(k), key.WithHelp(k, hints[k])))
	}
	return append(out, key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")))
}

// RenderKeybindHelp renders the box shown while a leader sequence is
// pending: the buffered prefix followed by the keys that can come next in
// mode. It returns "" when nothing can follow.
func RenderKeybindHelp(keyHandler *KeyHandler, mode AppMode) string {
	if keyHandler == nil {
		return ""
	}
	pending := keyHandler.Pending()
	hints := keyHandler.Registry.LeaderHints(pending, mode)
	if len(hints) == 0 {
		return ""
	}
	if pending == "" {
		pending = "SPC"
	}
	body := newHintHelp().ShortHelpView(hintBindings(hints))
	return helpBoxStyle.Render(Styles.Muted.Render(pending) + " " + body)
}
