// Package textutil provides unicode-aware text utilities for TUI rendering.
package textutil

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// TruncateEllipsis is the unicode ellipsis character used for truncation.
const TruncateEllipsis = "…"

// VisualWidth returns the number of terminal columns s occupies.
func VisualWidth(s string) int {
	return runewidth.StringWidth(s)
}

// VisualWidthStyled is VisualWidth for strings carrying ANSI escapes.
func VisualWidthStyled(s string) int {
	return lipgloss.Width(s)
}

// Truncate shortens s to at most maxWidth columns, ending in an ellipsis
// when anything was cut.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if VisualWidth(s) <= maxWidth {
		return s
	}
	availableWidth := maxWidth - VisualWidth(TruncateEllipsis)
	if availableWidth < 0 {
		return TruncateEllipsis
	}
	return runewidth.Truncate(s, availableWidth, "") + TruncateEllipsis
}

// PadRightVisual pads s with spaces to exactly targetWidth columns,
// truncating when it is wider.
func PadRightVisual(s string, targetWidth int) string {
	if targetWidth <= 0 {
		return ""
	}
	if VisualWidth(s) > targetWidth {
		s = Truncate(s, targetWidth)
	}
	// A cut wide rune can leave the result one column short.
	return s + strings.Repeat(" ", targetWidth-VisualWidth(s))
}

// FitBlock cuts or pads plain multi-line text to exactly width x height cells.
func FitBlock(s string, width, height int) []string {
	if height <= 0 {
		return nil
	}
	var src []string
	if s != "" {
		src = strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	}
	out := make([]string, height)
	for i := range out {
		line := ""
		if i < len(src) {
			line = strings.ReplaceAll(src[i], "\t", "    ")
		}
		out[i] = PadRightVisual(line, width)
	}
	return out
}
