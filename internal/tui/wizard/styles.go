package wizard

import (
	"strings"

	"github.com/mark3labs/persona/internal/tui/theme"
)

// renderHintBar renders a hint bar with the given key-description pairs.
// Example: renderHintBar("tab", "buttons", "enter", "next", "ctrl+c", "quit")
// Returns: "tab buttons • enter next • ctrl+c quit"
func renderHintBar(pairs ...string) string {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return ""
	}

	s := theme.Current().S()
	var b strings.Builder
	for i := 0; i < len(pairs); i += 2 {
		if i > 0 {
			b.WriteString(" " + s.HintSeparator.Render("•") + " ")
		}
		b.WriteString(s.HintKey.Render(pairs[i]) + " " + s.HintDesc.Render(pairs[i+1]))
	}
	return b.String()
}

// renderStepProgress renders the step indicator, e.g. "●●○ Age 50%".
func renderStepProgress(label string, index, total int, percent float64) string {
	s := theme.Current().S()
	var dots strings.Builder
	for i := 0; i < total; i++ {
		if i <= index {
			dots.WriteString(s.ProgressFilled.Render("●"))
		} else {
			dots.WriteString(s.ProgressEmpty.Render("○"))
		}
	}
	return dots.String() + " " + s.Highlight.Render(label) + " " + s.Muted.Render(formatPercent(percent))
}
