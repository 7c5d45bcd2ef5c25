package nats

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
)

const (
	// StreamName is the JetStream stream holding every session event.
	StreamName = "persona_events"

	subjectRoot = "persona"

	// Event types
	EventTypeUser    = "user"
	EventTypeAnswer  = "answer"
	EventTypeAttempt = "attempt"
)

// SubjectForSession returns the wildcard subject for all events in a session.
// Example: "persona.ada-cq0f3.>"
func SubjectForSession(session string) string {
	return fmt.Sprintf("%s.%s.>", subjectRoot, session)
}

// SubjectForEvent returns the subject for one event type in a session.
// Example: "persona.ada-cq0f3.answer"
func SubjectForEvent(session, eventType string) string {
	return fmt.Sprintf("%s.%s.%s", subjectRoot, session, eventType)
}

// SetupStream creates or updates the in-memory session stream.
func SetupStream(ctx context.Context, js jetstream.JetStream) (jetstream.Stream, error) {
	return js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     StreamName,
		Subjects: []string{subjectRoot + ".>"},
		Storage:  jetstream.MemoryStorage,
	})
}
