// Package session keeps the in-memory journal of a quiz session. Every user
// action is appended to a JetStream stream as an event and the session state
// is rebuilt by reducing those events.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gosimple/slug"
	"github.com/mark3labs/persona/internal/logger"
	"github.com/mark3labs/persona/internal/nats"
	"github.com/mark3labs/persona/internal/quiz"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/xid"
)

// Event represents one entry of the session journal.
type Event struct {
	ID        string          `json:"id"`        // xid, or the stream sequence when unset
	Timestamp time.Time       `json:"timestamp"` // When the event occurred
	Session   string          `json:"session"`   // Session name
	Type      string          `json:"type"`      // user, answer, attempt
	Action    string          `json:"action"`    // set, select, clear, complete
	Meta      json.RawMessage `json:"meta"`      // Action-specific metadata
	Data      string          `json:"data"`      // Primary content
}

// Publisher appends events to the journal.
type Publisher interface {
	PublishEvent(ctx context.Context, event Event) (*jetstream.PubAck, error)
}

// Store manages session state through JetStream event sourcing.
type Store struct {
	js     jetstream.JetStream
	stream jetstream.Stream
}

// NewStore creates a Store on the given JetStream context and stream.
func NewStore(js jetstream.JetStream, stream jetstream.Stream) *Store {
	return &Store{
		js:     js,
		stream: stream,
	}
}

// NewName derives a session name from the user's display name, for example
// "ada-lovelace-cq0f3j2m8qcs73b0q5rg".
func NewName(displayName string) string {
	base := slug.Make(displayName)
	if base == "" {
		base = slug.Make(quiz.DefaultName)
	}
	return base + "-" + xid.New().String()
}

// PublishEvent appends an event to the journal on persona.{session}.{type}.
func (s *Store) PublishEvent(ctx context.Context, event Event) (*jetstream.PubAck, error) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.ID == "" {
		event.ID = xid.New().String()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := nats.SubjectForEvent(event.Session, event.Type)
	logger.Debug("Publishing event: session=%s type=%s action=%s", event.Session, event.Type, event.Action)

	ack, err := s.js.Publish(ctx, subject, data)
	if err != nil {
		return nil, fmt.Errorf("failed to publish event: %w", err)
	}
	return ack, nil
}

// State is a session rebuilt from its events.
type State struct {
	Session  string       `json:"session"`
	User     quiz.User    `json:"user"`
	Answers  quiz.Answers `json:"answers"`
	Attempts []*Attempt   `json:"attempts"` // Oldest first
}

// Attempt is one scored quiz run.
type Attempt struct {
	ID          string             `json:"id"`
	Personality string             `json:"personality"`
	Description string             `json:"description"`
	Scores      map[string]float64 `json:"scores"`
	CompletedAt time.Time          `json:"completed_at"`
}

// Result converts the attempt back into a quiz result.
func (a *Attempt) Result() quiz.Result {
	return quiz.Result{
		TopPersonality:    quiz.Personality{Name: a.Personality, Description: a.Description},
		PersonalityScores: a.Scores,
	}
}

// NewState returns an empty state for session.
func NewState(session string) *State {
	return &State{
		Session: session,
		Answers: quiz.Answers{},
	}
}

// Latest returns the most recent attempt.
func (st *State) Latest() (*Attempt, bool) {
	if len(st.Attempts) == 0 {
		return nil, false
	}
	return st.Attempts[len(st.Attempts)-1], true
}

// Previous returns the attempt before the most recent one.
func (st *State) Previous() (*Attempt, bool) {
	if len(st.Attempts) < 2 {
		return nil, false
	}
	return st.Attempts[len(st.Attempts)-2], true
}

// Apply reduces one event into the state.
func (st *State) Apply(event Event) {
	switch event.Type {
	case nats.EventTypeUser:
		st.applyUserEvent(event)
	case nats.EventTypeAnswer:
		st.applyAnswerEvent(event)
	case nats.EventTypeAttempt:
		st.applyAttemptEvent(event)
	}
}

func (st *State) applyUserEvent(event Event) {
	if event.Action != ActionSet {
		return
	}
	var meta userMeta
	if err := json.Unmarshal(event.Meta, &meta); err != nil {
		logger.Warn("Skipping user event %s: %v", event.ID, err)
		return
	}
	st.User = quiz.User{Name: event.Data, Age: meta.Age, Email: meta.Email}
}

func (st *State) applyAnswerEvent(event Event) {
	switch event.Action {
	case ActionSelect:
		var meta answerMeta
		if err := json.Unmarshal(event.Meta, &meta); err != nil {
			logger.Warn("Skipping answer event %s: %v", event.ID, err)
			return
		}
		st.Answers.Select(meta.QuestionID, meta.OptionID)
	case ActionClear:
		st.Answers = quiz.Answers{}
	}
}

func (st *State) applyAttemptEvent(event Event) {
	if event.Action != ActionComplete {
		return
	}
	var meta attemptMeta
	if err := json.Unmarshal(event.Meta, &meta); err != nil {
		logger.Warn("Skipping attempt event %s: %v", event.ID, err)
		return
	}
	st.Attempts = append(st.Attempts, &Attempt{
		ID:          event.ID,
		Personality: event.Data,
		Description: meta.Description,
		Scores:      meta.Scores,
		CompletedAt: event.Timestamp,
	})
}

// LoadState rebuilds a session by reading and reducing all of its events.
func (s *Store) LoadState(ctx context.Context, session string) (*State, error) {
	consumer, err := s.stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		FilterSubject:     nats.SubjectForSession(session),
		DeliverPolicy:     jetstream.DeliverAllPolicy,
		AckPolicy:         jetstream.AckExplicitPolicy,
		InactiveThreshold: 30 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}

	state := NewState(session)
	const batchSize = 256
	malformed := 0
	total := 0
	for {
		msgs, err := consumer.FetchNoWait(batchSize)
		if err != nil {
			break
		}

		count := 0
		for msg := range msgs.Messages() {
			count++
			total++

			var event Event
			if err := json.Unmarshal(msg.Data(), &event); err != nil {
				malformed++
				_ = msg.Ack()
				continue
			}
			if event.ID == "" {
				if meta, err := msg.Metadata(); err == nil {
					event.ID = fmt.Sprintf("%d", meta.Sequence.Stream)
				}
			}
			state.Apply(event)
			_ = msg.Ack()
		}
		if count < batchSize {
			break
		}
	}

	if malformed > 0 {
		logger.Warn("Skipped %d malformed events while loading session %s", malformed, session)
	}
	logger.Debug("Session %s loaded: %d events, %d answers, %d attempts",
		session, total, len(state.Answers), len(state.Attempts))
	return state, nil
}
