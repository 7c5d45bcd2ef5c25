package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakePublisher struct {
	mu     sync.Mutex
	events []Event
	fail   func(Event) bool
	delay  time.Duration
}

func (f *fakePublisher) PublishEvent(ctx context.Context, e Event) (*jetstream.PubAck, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.fail != nil && f.fail(e) {
		return nil, errors.New("stream unavailable")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
	return &jetstream.PubAck{Sequence: uint64(len(f.events))}, nil
}

func (f *fakePublisher) published() []Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Event(nil), f.events...)
}

func TestRecorder_PreservesOrder(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	pub := &fakePublisher{delay: time.Millisecond}
	r := NewRecorder(pub)

	var want []string
	for i := 1; i <= 20; i++ {
		e := AnswerEvent("s", i, i*10)
		want = append(want, e.ID)
		require.True(t, r.Record(e))
	}
	require.NoError(t, r.Flush(context.Background()))

	events := pub.published()
	require.Len(t, events, 20)
	st := NewState("s")
	for i, e := range events {
		st.Apply(e)
		assert.Equal(t, want[i], e.ID, "event %d out of order", i)
	}
	assert.Len(t, st.Answers, 20)
	assert.Equal(t, 200, st.Answers[20])

	r.Close()
}

func TestRecorder_CloseDrainsQueue(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	pub := &fakePublisher{delay: 2 * time.Millisecond}
	r := NewRecorder(pub)
	for i := 0; i < 10; i++ {
		r.Record(ClearAnswersEvent("s"))
	}
	r.Close()

	assert.Len(t, pub.published(), 10)
	assert.False(t, r.Record(ClearAnswersEvent("s")), "record after close is refused")
	assert.ErrorIs(t, r.Flush(context.Background()), ErrRecorderClosed)

	// Close is idempotent
	r.Close()
}

func TestRecorder_CountsFailures(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	pub := &fakePublisher{fail: func(e Event) bool { return e.Action == ActionClear }}
	r := NewRecorder(pub)
	defer r.Close()

	r.Record(AnswerEvent("s", 1, 10))
	r.Record(ClearAnswersEvent("s"))
	r.Record(AnswerEvent("s", 2, 20))
	require.NoError(t, r.Flush(context.Background()))

	assert.Equal(t, 1, r.Failed())
	assert.Len(t, pub.published(), 2)
}

func TestRecorder_FlushHonorsContext(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	pub := &fakePublisher{delay: 50 * time.Millisecond}
	r := NewRecorder(pub)
	defer r.Close()

	r.Record(ClearAnswersEvent("s"))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, r.Flush(ctx), context.DeadlineExceeded)
}

// stalledPublisher blocks every publish until release is closed.
type stalledPublisher struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
	count   atomic.Int64
}

func (p *stalledPublisher) PublishEvent(ctx context.Context, e Event) (*jetstream.PubAck, error) {
	p.once.Do(func() { close(p.entered) })
	select {
	case <-p.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &jetstream.PubAck{Sequence: uint64(p.count.Add(1))}, nil
}

func TestRecorder_FullQueueDropsWithoutBlocking(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	pub := &stalledPublisher{entered: make(chan struct{}), release: make(chan struct{})}
	r := NewRecorder(pub)

	// The first event is taken off the queue and stalls in publish.
	require.True(t, r.Record(ClearAnswersEvent("s")))
	<-pub.entered

	for i := 0; i < recorderQueue; i++ {
		require.True(t, r.Record(AnswerEvent("s", i, i)), "event %d fits in the queue", i)
	}

	done := make(chan bool)
	go func() { done <- r.Record(AnswerEvent("s", 99, 99)) }()
	select {
	case ok := <-done:
		assert.False(t, ok, "full queue refuses the event")
	case <-time.After(time.Second):
		t.Fatal("Record blocked on a full queue")
	}
	assert.Equal(t, 1, r.Failed())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, r.Flush(ctx), context.DeadlineExceeded, "flush gives up while the queue stays full")

	close(pub.release)
	require.NoError(t, r.Flush(context.Background()))
	assert.Equal(t, int64(recorderQueue+1), pub.count.Load())

	r.Close()
}
