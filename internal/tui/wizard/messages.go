package wizard

import "github.com/mark3labs/persona/internal/quiz"

// CompleteMsg is sent when the intake form is finished.
type CompleteMsg struct {
	User     quiz.User
	JumpedIn bool // The user skipped ahead with defaults
}

// CancelledMsg is sent when the user quits from the intake form.
type CancelledMsg struct{}

// SettledMsg is delivered when the intake navigator's transition lock
// releases. It arrives through Config.Send from the navigator's timer.
type SettledMsg struct {
	Step int
}

// slideFrameMsg redraws the slide animation.
type slideFrameMsg struct{}
