package tui

import (
	"github.com/mark3labs/persona/internal/tui/theme"
)

// Standard key representations for consistent hints across the app.
const (
	KeyUpDown   = "↑/↓"
	KeyTab      = "tab"
	KeyEnter    = "enter"
	KeyDigits   = "1-9"
	KeyRetry    = "r"
	KeyQuit     = "q"
	KeyCtrlC    = "ctrl+c"
	KeyPgUpDown = "pgup/pgdn"
)

// RenderHint renders a single key-description pair.
// Example: RenderHint("enter", "select") -> "enter select"
func RenderHint(key, desc string) string {
	s := theme.Current().S()
	return s.HintKey.Render(key) + " " + s.HintDesc.Render(desc)
}

// RenderHintBar renders a hint bar with multiple key-description pairs.
// Example: RenderHintBar("↑/↓", "questions", "enter", "select")
// Returns: "↑/↓ questions • enter select"
func RenderHintBar(pairs ...string) string {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return ""
	}

	s := theme.Current().S()
	var result string
	for i := 0; i < len(pairs); i += 2 {
		if i > 0 {
			result += " " + s.HintSeparator.Render("•") + " "
		}
		result += s.HintKey.Render(pairs[i]) + " " + s.HintDesc.Render(pairs[i+1])
	}
	return result
}

// HintQuestions returns hints for a question card.
// "↑/↓ questions • tab option • enter select • 1-9 pick • ctrl+c quit"
func HintQuestions() string {
	return RenderHintBar(KeyUpDown, "questions", KeyTab, "option", KeyEnter, "select", KeyDigits, "pick", KeyCtrlC, "quit")
}

// HintSubmit returns hints for the submit card.
func HintSubmit() string {
	return RenderHintBar(KeyUpDown, "questions", KeyEnter, "submit", KeyCtrlC, "quit")
}

// HintResult returns hints for the result screen.
// "↑/↓ scroll • r retake • q quit"
func HintResult() string {
	return RenderHintBar(KeyUpDown, "scroll", KeyRetry, "retake", KeyQuit, "quit")
}
