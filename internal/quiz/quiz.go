package quiz

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrIncomplete is returned by BuildSubmission while questions are unanswered.
var ErrIncomplete = errors.New("please answer all questions")

// Option is one selectable answer to a question.
type Option struct {
	ID   int    `json:"id"`
	Text string `json:"option_text"`
}

// Question is a quiz question with its options, as served by the quiz API.
type Question struct {
	ID      int      `json:"id"`
	Text    string   `json:"question_text"`
	Options []Option `json:"options"`
}

// Option returns the option with the given id.
func (q Question) Option(id int) (Option, bool) {
	for _, o := range q.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// Answers maps question id to the chosen option id.
type Answers map[int]int

// Select records optionID for question, replacing any earlier choice.
func (a Answers) Select(questionID, optionID int) {
	a[questionID] = optionID
}

// Chosen returns the option chosen for question.
func (a Answers) Chosen(questionID int) (int, bool) {
	id, ok := a[questionID]
	return id, ok
}

// Count returns how many of questions have an answer.
func (a Answers) Count(questions []Question) int {
	n := 0
	for _, q := range questions {
		if _, ok := a[q.ID]; ok {
			n++
		}
	}
	return n
}

// FirstUnanswered returns the index of the first question without an answer.
func (a Answers) FirstUnanswered(questions []Question) (int, bool) {
	for i, q := range questions {
		if _, ok := a[q.ID]; !ok {
			return i, true
		}
	}
	return 0, false
}

// Clone returns an independent copy.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// AnswerRef identifies a chosen option in a submission.
type AnswerRef struct {
	OptionID int `json:"optionId"`
}

// Submission is the payload posted to the scoring endpoint.
type Submission struct {
	Name    string      `json:"name"`
	Age     int         `json:"age"`
	Email   string      `json:"email"`
	Answers []AnswerRef `json:"answers"`
}

// BuildSubmission assembles the scoring payload. Every question must be
// answered; answers are listed in ascending question id order.
func BuildSubmission(u User, questions []Question, answers Answers) (Submission, error) {
	if len(questions) == 0 {
		return Submission{}, fmt.Errorf("no questions: %w", ErrIncomplete)
	}
	if i, ok := answers.FirstUnanswered(questions); ok {
		return Submission{}, fmt.Errorf("question %d unanswered: %w", questions[i].ID, ErrIncomplete)
	}
	age, err := ValidateAge(u.Age)
	if err != nil {
		return Submission{}, err
	}

	ids := make([]int, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.ID)
	}
	sort.Ints(ids)

	refs := make([]AnswerRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, AnswerRef{OptionID: answers[id]})
	}

	return Submission{
		Name:    u.DisplayName(),
		Age:     age,
		Email:   strings.TrimSpace(u.Email),
		Answers: refs,
	}, nil
}

// Personality is a named personality type.
type Personality struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Result is the scoring endpoint's response.
type Result struct {
	TopPersonality    Personality        `json:"topPersonality"`
	PersonalityScores map[string]float64 `json:"personalityScores"`
}

// Score is one entry of the personality breakdown.
type Score struct {
	Type  string
	Value float64
}

// SortedScores returns the breakdown ordered by score, highest first.
// Equal scores are ordered by type name.
func (r Result) SortedScores() []Score {
	scores := make([]Score, 0, len(r.PersonalityScores))
	for t, v := range r.PersonalityScores {
		scores = append(scores, Score{Type: t, Value: v})
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Value == scores[j].Value {
			return scores[i].Type < scores[j].Type
		}
		return scores[i].Value > scores[j].Value
	})
	return scores
}
