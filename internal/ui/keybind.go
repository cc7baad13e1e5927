package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// binding is one registered key sequence.
type binding struct {
	cmd   tea.Cmd
	desc  string
	modes []AppMode // empty: every mode
}

func (b binding) appliesTo(mode AppMode) bool {
	if len(b.modes) == 0 {
		return true
	}
	for _, m := range b.modes {
		if m == mode {
			return true
		}
	}
	return false
}

// KeybindRegistry maps key sequences to commands.
// Sequences use spacemacs notation: "SPC w m" is space, then w, then m.
// Single keys: "q", "esc", "ctrl+c", "tab".
type KeybindRegistry struct {
	bindings map[string]binding
}

// NewKeybindRegistry creates an empty registry.
func NewKeybindRegistry() *KeybindRegistry {
	return &KeybindRegistry{bindings: make(map[string]binding)}
}

// Bind registers a key sequence for every mode, replacing any previous binding.
func (r *KeybindRegistry) Bind(seq string, cmd tea.Cmd) {
	r.BindWithDesc(seq, cmd, "")
}

// BindWithDesc is Bind with a description for the help box.
func (r *KeybindRegistry) BindWithDesc(seq string, cmd tea.Cmd, desc string) {
	r.BindWithDescForMode(seq, cmd, desc, nil)
}

// BindWithDescForMode registers a binding that is only active (and only
// hinted) in the given modes. Nil modes means every mode.
func (r *KeybindRegistry) BindWithDescForMode(seq string, cmd tea.Cmd, desc string, modes []AppMode) {
	r.bindings[normalizeSeq(seq)] = binding{cmd: cmd, desc: desc, modes: modes}
}

// Lookup returns the command bound to seq regardless of mode, or nil.
func (r *KeybindRegistry) Lookup(seq string) tea.Cmd {
	return r.bindings[normalizeSeq(seq)].cmd
}

// LookupIn returns the command bound to seq when it is active in mode.
func (r *KeybindRegistry) LookupIn(seq string, mode AppMode) tea.Cmd {
	b, ok := r.bindings[normalizeSeq(seq)]
	if !ok || !b.appliesTo(mode) {
		return nil
	}
	return b.cmd
}

// HasPrefix reports whether a longer binding active in mode continues seq.
func (r *KeybindRegistry) HasPrefix(seq string, mode AppMode) bool {
	prefix := normalizeSeq(seq) + " "
	for k, b := range r.bindings {
		if b.cmd != nil && strings.HasPrefix(k, prefix) && b.appliesTo(mode) {
			return true
		}
	}
	return false
}

// submenuLabel names the first-level keys that open a group.
var submenuLabel = map[string]string{
	"w": "Window",
	"a": "Add panel",
	"l": "Layout",
}

// LeaderHints returns the next keys after currentSeq ("" means just SPC)
// with their descriptions, for bindings active in mode. Keys that open a
// group show the group label.
func (r *KeybindRegistry) LeaderHints(currentSeq string, mode AppMode) map[string]string {
	out := make(map[string]string)
	base := "SPC"
	if currentSeq != "" {
		base = normalizeSeq(currentSeq)
	}
	for seq, b := range r.bindings {
		rest, ok := strings.CutPrefix(seq, base+" ")
		if !ok || b.cmd == nil || !b.appliesTo(mode) {
			continue
		}
		key, _, _ := strings.Cut(rest, " ")
		if r.HasPrefix(base+" "+key, mode) {
			if label, ok := submenuLabel[key]; ok {
				out[key] = label
			} else {
				out[key] = key + "…"
			}
			continue
		}
		if b.desc != "" {
			out[key] = b.desc
		} else {
			out[key] = seq
		}
	}
	return out
}

// normalizeSeq maps tea key names to sequence notation ("space" and " " to SPC).
func normalizeSeq(seq string) string {
	parts := strings.Fields(seq)
	for i, p := range parts {
		parts[i] = keyToSeqPart(p)
	}
	return strings.Join(parts, " ")
}

func keyToSeqPart(s string) string {
	if s == " " || s == "space" {
		return "SPC"
	}
	return s
}

// KeyHandler tracks the pending leader sequence and resolves keys against
// the registry for the current Mode.
type KeyHandler struct {
	Registry      *KeybindRegistry
	Mode          AppMode
	LeaderWaiting bool
	Buffer        []string // pending sequence, starting with "SPC"
}

// NewKeyHandler creates a handler with space as the leader key.
func NewKeyHandler(reg *KeybindRegistry) *KeyHandler {
	return &KeyHandler{Registry: reg}
}

// Handle processes a key. consumed reports that the key belonged to the
// keybind system; cmd is the bound command, if one completed.
func (h *KeyHandler) Handle(msg tea.KeyMsg) (consumed bool, cmd tea.Cmd) {
	// Bubble Tea reports the space bar as " ".
	part := keyToSeqPart(msg.String())

	if part == "esc" {
		if h.LeaderWaiting {
			h.Reset()
			return true, nil
		}
		return false, nil
	}

	if !h.LeaderWaiting {
		if part == "SPC" {
			h.LeaderWaiting = true
			h.Buffer = []string{"SPC"}
			return true, nil
		}
		if c := h.Registry.LookupIn(part, h.Mode); c != nil {
			return true, c
		}
		return false, nil
	}

	h.Buffer = append(h.Buffer, part)
	seq := strings.Join(h.Buffer, " ")
	if c := h.Registry.LookupIn(seq, h.Mode); c != nil {
		h.Reset()
		return true, c
	}
	if !h.Registry.HasPrefix(seq, h.Mode) {
		// Unbound sequence: drop it.
		h.Reset()
	}
	return true, nil
}

// Pending returns the buffered leader sequence, e.g. "SPC w", or "".
func (h *KeyHandler) Pending() string {
	if !h.LeaderWaiting {
		return ""
	}
	return strings.Join(h.Buffer, " ")
}

// Reset leaves leader mode without running anything.
func (h *KeyHandler) Reset() {
	h.LeaderWaiting = false
	h.Buffer = nil
}
