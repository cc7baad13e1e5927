package ui

// AppMode is the top-level interaction mode, used to filter keybind hints.
type AppMode int

const (
	ModeSidebar AppMode = iota
	ModeEnlarged
)

func (m AppMode) String() string {
	switch m {
	case ModeSidebar:
		return "Sidebar"
	case ModeEnlarged:
		return "Enlarged"
	default:
		return "Unknown"
	}
}
