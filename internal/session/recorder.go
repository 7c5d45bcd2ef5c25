package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mark3labs/persona/internal/logger"
)

// ErrRecorderClosed is returned by Flush after Close.
var ErrRecorderClosed = errors.New("recorder closed")

// recorderQueue is how many events may wait for publishing.
const recorderQueue = 64

// publishTimeout bounds a single publish.
const publishTimeout = 5 * time.Second

type record struct {
	event Event
	done  chan struct{} // Set for flush barriers
}

// Recorder publishes journal events from a single goroutine so the UI never
// blocks on the stream and events keep the order they were recorded in.
// Publish failures and events arriving at a full queue are logged, dropped
// and counted by Failed.
type Recorder struct {
	pub   Publisher
	queue chan record
	wg    sync.WaitGroup

	mu     sync.Mutex // Guards closed and sends on queue
	closed bool
	failed atomic.Int64
}

// NewRecorder starts a recorder publishing to pub.
func NewRecorder(pub Publisher) *Recorder {
	r := &Recorder{
		pub:   pub,
		queue: make(chan record, recorderQueue),
	}
	r.wg.Add(1)
	go r.run()
	return r
}

func (r *Recorder) run() {
	defer r.wg.Done()
	for rec := range r.queue {
		if rec.done != nil {
			close(rec.done)
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		_, err := r.pub.PublishEvent(ctx, rec.event)
		cancel()
		if err != nil {
			logger.Warn("Dropping %s/%s event: %v", rec.event.Type, rec.event.Action, err)
			r.failed.Add(1)
		}
	}
}

// Record queues an event without blocking. It returns false when the
// recorder is closed or the queue is full.
func (r *Recorder) Record(e Event) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	select {
	case r.queue <- record{event: e}:
		return true
	default:
		logger.Warn("Journal queue full; dropping %s/%s event", e.Type, e.Action)
		r.failed.Add(1)
		return false
	}
}

// Flush waits until every event recorded before the call is published.
func (r *Recorder) Flush(ctx context.Context) error {
	done := make(chan struct{})
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrRecorderClosed
	}
	select {
	case r.queue <- record{done: done}:
		r.mu.Unlock()
	case <-ctx.Done():
		r.mu.Unlock()
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Failed returns how many events could not be published.
func (r *Recorder) Failed() int {
	return int(r.failed.Load())
}

// Close publishes everything still queued and stops the goroutine.
func (r *Recorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()

	r.wg.Wait()
}
