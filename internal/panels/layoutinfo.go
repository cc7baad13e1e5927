package panels

import (
	"encoding/json"
	"fmt"
)

// LayoutInfo is the persisted shape of a container.
type LayoutInfo struct {
	ContainerWidth int          `json:"containerWidth"`
	Windows        []WindowInfo `json:"windows"`
	ActiveWindow   string       `json:"activeWindow,omitempty"`
}

// WindowInfo is the persisted shape of one panel. Extra holds type-specific
// fields; they are flattened into the same JSON object.
type WindowInfo struct {
	ID        string
	Type      string
	Height    int
	Minimized bool
	Extra     map[string]any
}

var windowInfoKeys = map[string]bool{"id": true, "type": true, "height": true, "minimized": true}

// MarshalJSON flattens Extra next to the fixed fields.
func (w WindowInfo) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(w.Extra)+4)
	for k, v := range w.Extra {
		if windowInfoKeys[k] {
			continue
		}
		m[k] = v
	}
	m["id"] = w.ID
	m["type"] = w.Type
	m["height"] = w.Height
	m["minimized"] = w.Minimized
	return json.Marshal(m)
}

// UnmarshalJSON reads the fixed fields and keeps everything else in Extra.
// Missing or mistyped fixed fields fall back to zero values.
func (w *WindowInfo) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("window info: %w", err)
	}
	*w = WindowInfo{}
	if v, ok := m["id"].(string); ok {
		w.ID = v
	}
	if v, ok := m["type"].(string); ok {
		w.Type = v
	}
	if v, ok := m["height"].(float64); ok {
		w.Height = int(v)
	}
	if v, ok := m["minimized"].(bool); ok {
		w.Minimized = v
	}
	for k, v := range m {
		if windowInfoKeys[k] {
			continue
		}
		if w.Extra == nil {
			w.Extra = make(map[string]any)
		}
		w.Extra[k] = v
	}
	return nil
}
