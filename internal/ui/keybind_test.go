package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

// recorder returns a command that counts how often it runs.
func recorder(n *int) tea.Cmd {
	return func() tea.Msg {
		*n++
		return nil
	}
}

func TestKeybindRegistry_BindLookup(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("tab", tea.Quit)
	reg.Bind("space w m", tea.Quit)
	reg.Bind("SPC l s", nil)

	if reg.Lookup("tab") == nil {
		t.Error("tab should be bound")
	}
	if reg.Lookup("SPC w m") == nil {
		t.Error("\"space\" should normalize to SPC")
	}
	if reg.Lookup("SPC l s") != nil || reg.Lookup("SPC w") != nil {
		t.Error("nil commands and prefixes are not bindings")
	}
	if reg.HasPrefix("SPC l", ModeSidebar) {
		t.Error("a nil binding should not open a group")
	}
}

func TestKeyHandler_LeaderSequence(t *testing.T) {
	reg := NewKeybindRegistry()
	var runs int
	reg.Bind("SPC w m", recorder(&runs))
	h := NewKeyHandler(reg)

	for _, k := range []string{" ", "w"} {
		consumed, cmd := h.Handle(keyMsg(k))
		if !consumed || cmd != nil {
			t.Fatalf("%q: consumed=%v cmd=%v", k, consumed, cmd != nil)
		}
	}
	if !h.LeaderWaiting {
		t.Fatal("leader should wait for the rest of the sequence")
	}

	consumed, cmd := h.Handle(keyMsg("m"))
	if !consumed || cmd == nil {
		t.Fatalf("m: consumed=%v cmd=%v", consumed, cmd != nil)
	}
	cmd()
	if runs != 1 || h.LeaderWaiting {
		t.Errorf("after sequence: runs=%d waiting=%v", runs, h.LeaderWaiting)
	}
}

func TestKeyHandler_Esc(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("SPC w m", tea.Quit)
	h := NewKeyHandler(reg)

	if consumed, _ := h.Handle(keyMsg("esc")); consumed {
		t.Error("esc outside a sequence belongs to the app")
	}

	h.Handle(keyMsg(" "))
	h.Handle(keyMsg("w"))
	consumed, cmd := h.Handle(keyMsg("esc"))
	if !consumed || cmd != nil || h.LeaderWaiting || h.Pending() != "" {
		t.Errorf("esc in sequence: consumed=%v cmd=%v pending=%q", consumed, cmd != nil, h.Pending())
	}
}

func TestKeyHandler_DirectKeys(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("q", tea.Quit)
	h := NewKeyHandler(reg)

	if consumed, cmd := h.Handle(keyMsg("q")); !consumed || cmd == nil {
		t.Errorf("q: consumed=%v cmd=%v", consumed, cmd != nil)
	}
	if consumed, _ := h.Handle(keyMsg("j")); consumed {
		t.Error("unbound j should fall through to the app")
	}
}

func TestKeyHandler_Pending(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("SPC w m", tea.Quit)
	h := NewKeyHandler(reg)

	if h.Pending() != "" {
		t.Errorf("Pending before leader = %q", h.Pending())
	}
	h.Handle(keyMsg(" "))
	h.Handle(keyMsg("w"))
	if got := h.Pending(); got != "SPC w" {
		t.Errorf("Pending = %q, want %q", got, "SPC w")
	}

	// Unbound continuation drops the whole sequence.
	consumed, cmd := h.Handle(keyMsg("z"))
	if !consumed || cmd != nil || h.LeaderWaiting {
		t.Errorf("unbound: consumed=%v cmd=%v waiting=%v", consumed, cmd != nil, h.LeaderWaiting)
	}
}

func TestKeybindRegistry_LeaderHintsByMode(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.BindWithDesc("SPC w e", tea.Quit, "Enlarge/restore")
	reg.BindWithDescForMode("SPC w +", tea.Quit, "Grow", []AppMode{ModeSidebar})
	reg.BindWithDesc("SPC q", tea.Quit, "Quit")

	top := reg.LeaderHints("", ModeSidebar)
	if top["w"] != "Window" || top["q"] != "Quit" {
		t.Errorf("first level hints = %v", top)
	}

	sidebar := reg.LeaderHints("SPC w", ModeSidebar)
	if sidebar["+"] != "Grow" || sidebar["e"] != "Enlarge/restore" {
		t.Errorf("sidebar hints = %v", sidebar)
	}
	enlarged := reg.LeaderHints("SPC w", ModeEnlarged)
	if _, ok := enlarged["+"]; ok {
		t.Errorf("enlarged hints should not offer sidebar-only keys: %v", enlarged)
	}
}

func TestKeyHandler_ModeFilter(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.BindWithDescForMode("SPC w +", tea.Quit, "Grow", []AppMode{ModeSidebar})
	reg.BindWithDesc("SPC w e", tea.Quit, "Enlarge/restore")
	h := NewKeyHandler(reg)
	h.Mode = ModeEnlarged

	h.Handle(keyMsg(" "))
	h.Handle(keyMsg("w"))
	consumed, cmd := h.Handle(keyMsg("+"))
	if !consumed || cmd != nil {
		t.Errorf("enlarged +: consumed=%v cmd=%v", consumed, cmd != nil)
	}
	if h.LeaderWaiting {
		t.Error("inactive binding should drop the sequence")
	}

	h.Handle(keyMsg(" "))
	h.Handle(keyMsg("w"))
	if _, cmd := h.Handle(keyMsg("e")); cmd == nil {
		t.Error("all-mode binding should fire while enlarged")
	}

	h.Mode = ModeSidebar
	h.Handle(keyMsg(" "))
	h.Handle(keyMsg("w"))
	if _, cmd := h.Handle(keyMsg("+")); cmd == nil {
		t.Error("sidebar binding should fire in sidebar mode")
	}
}

// keyMsg builds the tea.KeyMsg whose String() is s.
func keyMsg(s string) tea.KeyMsg {
	switch s {
	case " ", "space":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
