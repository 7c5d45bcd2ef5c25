package tui

import (
	"context"

	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/persona/internal/quiz"
	"github.com/mark3labs/persona/internal/quizapi"
)

// User-facing failure messages.
const (
	MsgLoadFailed   = "Failed to load questions. Please check if the API is running."
	MsgSubmitFailed = "Failed to submit quiz. Please check if the API is running and try again."
	MsgAnswerAll    = "Please answer all questions"
)

// QuestionsLoadedMsg carries the result of fetching the questions.
type QuestionsLoadedMsg struct {
	Questions []quiz.Question
	Err       error
}

// SubmittedMsg carries the scoring response.
type SubmittedMsg struct {
	Result quiz.Result
	Err    error
}

func fetchQuestions(ctx context.Context, api quizapi.API) tea.Cmd {
	return func() tea.Msg {
		questions, err := api.Questions(ctx)
		return QuestionsLoadedMsg{Questions: questions, Err: err}
	}
}

func submitQuiz(ctx context.Context, api quizapi.API, s quiz.Submission) tea.Cmd {
	return func() tea.Msg {
		res, err := api.Submit(ctx, s)
		return SubmittedMsg{Result: res, Err: err}
	}
}
