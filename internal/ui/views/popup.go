package views

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PopupRenderer handles popup/modal rendering
type PopupRenderer struct {
	styles *Styles
}

// NewPopupRenderer creates a new popup renderer
func NewPopupRenderer(styles *Styles) *PopupRenderer {
	return &PopupRenderer{
		styles: styles,
	}
}

// RenderPopup centres a popup on the screen
func (pr *PopupRenderer) RenderPopup(popupContent string, height, width int, popupStyle lipgloss.Style) string {
	if width <= 0 || height <= 0 {
		return popupStyle.Render(popupContent)
	}
	styled := popupStyle.
		MaxWidth(max(20, width-4)).
		MaxHeight(max(5, height-2)).
		Render(popupContent)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, styled)
}

// ANSI escape sequence regex to strip styles/colors
var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripANSI removes color codes
func StripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}

// Truncate cuts plain text to width cells, adding an ellipsis
func Truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	if len(r) > width-1 {
		r = r[:max(0, width-1)]
	}
	return strings.TrimRight(string(r), " ") + "…"
}
