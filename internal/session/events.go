package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/mark3labs/persona/internal/nats"
	"github.com/mark3labs/persona/internal/quiz"
	"github.com/rs/xid"
)

// Event actions
const (
	ActionSet      = "set"      // user: intake details saved
	ActionSelect   = "select"   // answer: option chosen
	ActionClear    = "clear"    // answer: all answers dropped for a retake
	ActionComplete = "complete" // attempt: result received
)

type userMeta struct {
	Age   string `json:"age"`
	Email string `json:"email"`
}

type answerMeta struct {
	QuestionID int `json:"question_id"`
	OptionID   int `json:"option_id"`
}

type attemptMeta struct {
	Description string             `json:"description"`
	Scores      map[string]float64 `json:"scores"`
}

func newEvent(session, eventType, action, data string, meta any) Event {
	raw, _ := json.Marshal(meta)
	return Event{
		ID:        xid.New().String(),
		Timestamp: time.Now(),
		Session:   session,
		Type:      eventType,
		Action:    action,
		Meta:      raw,
		Data:      data,
	}
}

// UserEvent records the intake details.
func UserEvent(session string, u quiz.User) Event {
	return newEvent(session, nats.EventTypeUser, ActionSet, u.Name, userMeta{Age: u.Age, Email: u.Email})
}

// AnswerEvent records the option chosen for a question.
func AnswerEvent(session string, questionID, optionID int) Event {
	return newEvent(session, nats.EventTypeAnswer, ActionSelect, strconv.Itoa(optionID),
		answerMeta{QuestionID: questionID, OptionID: optionID})
}

// ClearAnswersEvent drops every answer so the quiz can be retaken.
func ClearAnswersEvent(session string) Event {
	return newEvent(session, nats.EventTypeAnswer, ActionClear, "", struct{}{})
}

// AttemptEvent records a scored result.
func AttemptEvent(session string, r quiz.Result) Event {
	return newEvent(session, nats.EventTypeAttempt, ActionComplete, r.TopPersonality.Name,
		attemptMeta{Description: r.TopPersonality.Description, Scores: r.PersonalityScores})
}

// SetUser publishes the intake details.
func (s *Store) SetUser(ctx context.Context, session string, u quiz.User) error {
	if _, err := s.PublishEvent(ctx, UserEvent(session, u)); err != nil {
		return fmt.Errorf("record user: %w", err)
	}
	return nil
}

// SelectAnswer publishes a chosen option.
func (s *Store) SelectAnswer(ctx context.Context, session string, questionID, optionID int) error {
	if _, err := s.PublishEvent(ctx, AnswerEvent(session, questionID, optionID)); err != nil {
		return fmt.Errorf("record answer: %w", err)
	}
	return nil
}

// ClearAnswers publishes a retake.
func (s *Store) ClearAnswers(ctx context.Context, session string) error {
	if _, err := s.PublishEvent(ctx, ClearAnswersEvent(session)); err != nil {
		return fmt.Errorf("clear answers: %w", err)
	}
	return nil
}

// RecordAttempt publishes a scored result.
func (s *Store) RecordAttempt(ctx context.Context, session string, r quiz.Result) error {
	if _, err := s.PublishEvent(ctx, AttemptEvent(session, r)); err != nil {
		return fmt.Errorf("record attempt: %w", err)
	}
	return nil
}
