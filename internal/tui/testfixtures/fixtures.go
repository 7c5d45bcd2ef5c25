package testfixtures

import (
	"time"

	"github.com/mark3labs/persona/internal/quiz"
	"github.com/mark3labs/persona/internal/session"
)

// Fixed test values for consistent output
const (
	FixedSessionName = "ada-test-session"
	FixedName        = "Ada"
)

var (
	FixedTime = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
)

// SampleQuestions returns three questions with option ids unique across the
// whole quiz, like the hosted backend serves them.
func SampleQuestions() []quiz.Question {
	return []quiz.Question{
		{ID: 1, Text: "On a free evening you would rather", Options: []quiz.Option{
			{ID: 11, Text: "Go to a party"},
			{ID: 12, Text: "Read a book"},
			{ID: 13, Text: "Plan next week"},
		}},
		{ID: 2, Text: "When a plan falls apart you", Options: []quiz.Option{
			{ID: 21, Text: "Improvise"},
			{ID: 22, Text: "Make a new plan"},
		}},
		{ID: 3, Text: "Which describes your desk best", Options: []quiz.Option{
			{ID: 31, Text: "Spotless"},
			{ID: 32, Text: "Creative chaos"},
			{ID: 33, Text: "What desk?"},
			{ID: 34, Text: "Covered in plants"},
		}},
	}
}

// SampleUser returns a user that passes every intake validator.
func SampleUser() quiz.User {
	return quiz.User{Name: FixedName, Age: "36", Email: "ada@example.com"}
}

// SampleAnswers answers every sample question.
func SampleAnswers() quiz.Answers {
	return quiz.Answers{1: 12, 2: 22, 3: 31}
}

// ThinkerResult is a scored result with a clear winner.
func ThinkerResult() quiz.Result {
	return quiz.Result{
		TopPersonality: quiz.Personality{
			Name:        "The Thinker",
			Description: "You weigh every option before you move.",
		},
		PersonalityScores: map[string]float64{
			"The Thinker":  7,
			"The Explorer": 3,
			"The Planner":  5,
		},
	}
}

// ExplorerResult is a second result used for attempt comparisons.
func ExplorerResult() quiz.Result {
	return quiz.Result{
		TopPersonality: quiz.Personality{
			Name:        "The Explorer",
			Description: "You would rather find out than plan ahead.",
		},
		PersonalityScores: map[string]float64{
			"The Thinker":  2,
			"The Explorer": 8,
			"The Planner":  4,
		},
	}
}

// EmptyState returns a minimal empty session state
func EmptyState() *session.State {
	return session.NewState(FixedSessionName)
}

// StateWithUser returns a session whose intake is done.
func StateWithUser() *session.State {
	st := EmptyState()
	st.User = SampleUser()
	return st
}

// StateWithAttempts returns a session that finished one attempt per result,
// oldest first, one hour apart.
func StateWithAttempts(results ...quiz.Result) *session.State {
	st := StateWithUser()
	st.Answers = SampleAnswers()
	for i, r := range results {
		st.Attempts = append(st.Attempts, &session.Attempt{
			ID:          "attempt-" + string(rune('a'+i)),
			Personality: r.TopPersonality.Name,
			Description: r.TopPersonality.Description,
			Scores:      r.PersonalityScores,
			CompletedAt: FixedTime.Add(time.Duration(i) * time.Hour),
		})
	}
	return st
}
