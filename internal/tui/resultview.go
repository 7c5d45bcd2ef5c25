package tui

import (
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mark3labs/persona/internal/result"
)

// ResultView shows the rendered result document in a scrollable viewport.
type ResultView struct {
	markdown string
	viewport viewport.Model
	width    int
	height   int
}

// NewResultView creates a view of the markdown result document.
func NewResultView(markdown string) *ResultView {
	r := &ResultView{
		markdown: markdown,
		viewport: viewport.New(
			viewport.WithWidth(80),
			viewport.WithHeight(20),
		),
	}
	r.SetSize(80, 24)
	return r
}

// SetSize re-renders the document for the new width.
func (r *ResultView) SetSize(width, height int) {
	r.width = width
	r.height = height
	docWidth := min(100, max(20, width-4))
	r.viewport.SetWidth(docWidth)
	r.viewport.SetHeight(max(3, height-2))
	r.viewport.SetContent(result.Render(r.markdown, docWidth))
}

// Update scrolls the document.
func (r *ResultView) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	r.viewport, cmd = r.viewport.Update(msg)
	return cmd
}

// Draw renders the document with the result hints below it.
func (r *ResultView) Draw(scr uv.Screen, area uv.Rectangle) *tea.Cursor {
	center := func(s string) string {
		return lipgloss.PlaceHorizontal(area.Dx(), lipgloss.Center, s)
	}
	content := strings.Join([]string{
		center(r.viewport.View()),
		"",
		center(HintResult()),
	}, "\n")
	DrawText(scr, area, content)
	return nil
}

// Markdown returns the unrendered document.
func (r *ResultView) Markdown() string {
	return r.markdown
}
