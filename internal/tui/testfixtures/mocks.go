// Package testfixtures provides mock implementations and test utilities for TUI testing.
//
// This file contains mock implementations for the dependencies of the quiz TUI:
//   - MockAPI: Mock implementation of quizapi.API with controllable questions, results and errors
//   - MockPublisher: Mock implementation of session.Publisher that records journal events
//   - NewQuizServer: httptest server speaking the backend's HTTP contract
//
// All mocks are thread-safe and provide verification methods for assertions in tests.
//
// Example usage:
//
//	func TestMyComponent(t *testing.T) {
//	    api := testfixtures.NewMockAPI()
//	    api.SubmitError = errors.New("boom")
//
//	    // Use mocks in your test...
//	    // Later verify calls:
//	    require.Equal(t, 1, api.SubmitCalls())
//	}
package testfixtures

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/mark3labs/persona/internal/nats"
	"github.com/mark3labs/persona/internal/quiz"
	"github.com/mark3labs/persona/internal/quizapi"
	"github.com/mark3labs/persona/internal/session"
	"github.com/nats-io/nats.go/jetstream"
)

// ErrAPIDown is a canned transport failure.
var ErrAPIDown = errors.New("dial tcp 127.0.0.1:3000: connect: connection refused")

// MockAPI is a mock implementation of quizapi.API for testing.
type MockAPI struct {
	mu sync.Mutex

	// Questions to return from Questions
	QuestionSet []quiz.Question
	// Error to return from Questions
	QuestionsError error

	// Result to return from Submit
	Result quiz.Result
	// Error to return from Submit
	SubmitError error

	questionsCalls int
	submissions    []quiz.Submission
}

var _ quizapi.API = (*MockAPI)(nil)

// NewMockAPI creates a MockAPI serving the sample questions and scoring
// every submission as ThinkerResult.
func NewMockAPI() *MockAPI {
	return &MockAPI{
		QuestionSet: SampleQuestions(),
		Result:      ThinkerResult(),
	}
}

// Questions returns the configured questions or error.
func (m *MockAPI) Questions(ctx context.Context) ([]quiz.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.questionsCalls++
	if m.QuestionsError != nil {
		return nil, m.QuestionsError
	}
	return m.QuestionSet, nil
}

// Submit records the submission and returns the configured result or error.
func (m *MockAPI) Submit(ctx context.Context, s quiz.Submission) (quiz.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.submissions = append(m.submissions, s)
	if m.SubmitError != nil {
		return quiz.Result{}, m.SubmitError
	}
	return m.Result, nil
}

// SetQuestionsError changes the Questions error (thread-safe).
func (m *MockAPI) SetQuestionsError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QuestionsError = err
}

// SetSubmitError changes the Submit error (thread-safe).
func (m *MockAPI) SetSubmitError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SubmitError = err
}

// QuestionsCalls returns how often Questions was called.
func (m *MockAPI) QuestionsCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.questionsCalls
}

// SubmitCalls returns how often Submit was called.
func (m *MockAPI) SubmitCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.submissions)
}

// Submissions returns a copy of every submission received.
func (m *MockAPI) Submissions() []quiz.Submission {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]quiz.Submission, len(m.submissions))
	copy(out, m.submissions)
	return out
}

// MockPublisher is a mock implementation of session.Publisher.
// Events are applied to State as they arrive so tests can inspect the
// journal the same way the result screen does.
type MockPublisher struct {
	mu sync.Mutex

	// Error to return from PublishEvent
	PublishError error

	events []session.Event
	states map[string]*session.State
}

var _ session.Publisher = (*MockPublisher)(nil)

// NewMockPublisher creates an empty MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{states: make(map[string]*session.State)}
}

// PublishEvent records the event and returns the configured error.
func (m *MockPublisher) PublishEvent(ctx context.Context, event session.Event) (*jetstream.PubAck, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.PublishError != nil {
		return nil, m.PublishError
	}
	m.events = append(m.events, event)

	st, ok := m.states[event.Session]
	if !ok {
		st = session.NewState(event.Session)
		m.states[event.Session] = st
	}
	st.Apply(event)

	return &jetstream.PubAck{
		Stream:   nats.StreamName,
		Sequence: uint64(len(m.events)),
	}, nil
}

// LoadState returns the state reduced from every published event of name.
func (m *MockPublisher) LoadState(ctx context.Context, name string) (*session.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if st, ok := m.states[name]; ok {
		return st, nil
	}
	return session.NewState(name), nil
}

// Events returns a copy of published events (thread-safe).
func (m *MockPublisher) Events() []session.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]session.Event, len(m.events))
	copy(out, m.events)
	return out
}

// EventsOfType returns the published events of one type.
func (m *MockPublisher) EventsOfType(eventType string) []session.Event {
	var out []session.Event
	for _, e := range m.Events() {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// NewQuizServer starts an httptest server implementing the backend
// endpoints over api. It is closed when the test ends.
func NewQuizServer(t *testing.T, api quizapi.API) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+quizapi.PathQuestions, func(w http.ResponseWriter, r *http.Request) {
		qs, err := api.Questions(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, qs)
	})
	mux.HandleFunc("POST "+quizapi.PathSubmit, func(w http.ResponseWriter, r *http.Request) {
		var s quiz.Submission
		if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		res, err := api.Submit(r.Context(), s)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, res)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
