package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mark3labs/persona/internal/tui/theme"
)

// StatusBar displays session info (left) and quiz and journal status (right).
type StatusBar struct {
	sessionName string
	phase       Phase
	answered    int
	total       int
	journal     Journal
}

// NewStatusBar creates a new StatusBar component.
func NewStatusBar(journal Journal) *StatusBar {
	return &StatusBar{journal: journal}
}

// Draw renders the status bar to the screen.
// Format: persona | session | phase     3/5 answered  ● journal
func (s *StatusBar) Draw(scr uv.Screen, area uv.Rectangle) *tea.Cursor {
	if area.Dx() <= 0 || area.Dy() <= 0 {
		return nil
	}

	left := s.buildLeft()
	right := s.buildRight()

	totalWidth := area.Dx() - 2 // Account for padding
	padding := max(1, totalWidth-lipgloss.Width(left)-lipgloss.Width(right))
	content := left + strings.Repeat(" ", padding) + right

	DrawStyled(scr, area, theme.Current().S().StatusBar, content)
	return nil
}

// buildLeft builds the left side of the status bar with session info.
func (s *StatusBar) buildLeft() string {
	st := theme.Current().S()
	sep := st.Muted.Render(" | ")
	left := st.HeaderTitle.Render("persona")
	if s.sessionName != "" {
		left += sep + st.Muted.Render(truncateString(s.sessionName, 40))
	}
	return left + sep + st.Highlight.Render(s.phase.String())
}

// buildRight shows answer progress during the quiz and the journal health.
func (s *StatusBar) buildRight() string {
	var parts []string
	if s.phase == PhaseQuestions && s.total > 0 {
		parts = append(parts, fmt.Sprintf("%d/%d answered", s.answered, s.total))
	}
	if j := s.journalStatus(); j != "" {
		parts = append(parts, j)
	}
	return strings.Join(parts, "  ")
}

// journalStatus returns the journal indicator.
// ● = every event published, ○ = events were dropped
func (s *StatusBar) journalStatus() string {
	if s.journal == nil {
		return ""
	}
	t := theme.Current()
	if n := s.journal.Failed(); n > 0 {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Error)).Render("○") +
			fmt.Sprintf(" journal (%d dropped)", n)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success)).Render("●") + " journal"
}

// SetSession sets the session name.
func (s *StatusBar) SetSession(name string) {
	s.sessionName = name
}

// SetPhase sets the phase label.
func (s *StatusBar) SetPhase(p Phase) {
	s.phase = p
}

// SetAnswered sets the answer count shown during the quiz.
func (s *StatusBar) SetAnswered(answered, total int) {
	s.answered = answered
	s.total = total
}

// truncateString truncates a string to fit within maxWidth, adding "..." if truncated.
func truncateString(s string, maxWidth int) string {
	if maxWidth <= 3 {
		return "..."
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	runes := []rune(s)
	targetLen := maxWidth - 3 // Reserve space for "..."
	if targetLen >= len(runes) {
		return s
	}
	return string(runes[:targetLen]) + "..."
}
