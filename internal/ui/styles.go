package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme colors used throughout the UI
const (
	ColorAccent    = "86"  // Cyan/green - for titles, highlights
	ColorHighlight = "205" // Magenta - for focus, active separators
	ColorDanger    = "196" // Red - for errors
	ColorMuted     = "241" // Gray - for dimmed text, hints
	ColorText      = "252" // Light gray - for normal text
	ColorDim       = "238" // Darker gray - for separators
)

// Styles contains shared style definitions for the sidebar and overlay.
var Styles = struct {
	Header        lipgloss.Style // Panel header (unfocused)
	HeaderFocused lipgloss.Style // Panel header of the active panel
	Button        lipgloss.Style // Header control buttons
	Separator     lipgloss.Style // Idle separator strip
	SeparatorDrag lipgloss.Style // Separator being dragged
	Edge          lipgloss.Style // Outer width handle
	Placeholder   lipgloss.Style // Stand-in for enlarged content
	Overlay       lipgloss.Style // Overlay box
	OverlayTitle  lipgloss.Style // Overlay title
	Main          lipgloss.Style // Main (editor) area
	Muted         lipgloss.Style
	Normal        lipgloss.Style
	Status        lipgloss.Style
	Error         lipgloss.Style
}{
	Header: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorText)).
		Background(lipgloss.Color("236")),
	HeaderFocused: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)).
		Background(lipgloss.Color("236")),
	Button: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Background(lipgloss.Color("236")),
	Separator: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorDim)),
	SeparatorDrag: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true),
	Edge: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorDim)),
	Placeholder: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)).
		Italic(true),
	Overlay: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorHighlight)),
	OverlayTitle: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	Main: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorText)),
	Status: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccent)),
	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorDanger)),
}
