package tui

import (
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
)

// DrawText renders plain text at a position
func DrawText(scr uv.Screen, area uv.Rectangle, text string) {
	uv.NewStyledString(text).Draw(scr, area)
}

// DrawStyled renders lipgloss-styled content at a position
func DrawStyled(scr uv.Screen, area uv.Rectangle, style lipgloss.Style, text string) {
	content := style.Width(area.Dx()).Height(area.Dy()).Render(text)
	uv.NewStyledString(content).Draw(scr, area)
}

// DrawCentered renders content centered in area.
func DrawCentered(scr uv.Screen, area uv.Rectangle, content string) {
	placed := lipgloss.Place(area.Dx(), area.Dy(), lipgloss.Center, lipgloss.Center, content)
	uv.NewStyledString(placed).Draw(scr, area)
}
