// Package navigator implements the step navigator that sequences a fixed
// number of steps. It owns the current step, enforces a single-flight
// transition lock, gates forward movement with per-step validators and
// arbitrates wheel, keyboard, touch and programmatic input.
package navigator

import (
	"errors"
	"sync"
	"time"

	"github.com/mark3labs/persona/internal/logger"
)

// DefaultSettleDuration is how long the navigator stays locked after an
// accepted transition. View layers animate slides and scrolls for exactly
// this long so the logical and rendered step never drift apart.
const DefaultSettleDuration = 600 * time.Millisecond

// Wheel and touch defaults.
const (
	DefaultWheelThreshold = 100.0
	DefaultWheelDebounce  = 50 * time.Millisecond
	DefaultSwipeDistance  = 50.0
)

// ErrNoSteps is returned by New when the step count is below one.
var ErrNoSteps = errors.New("navigator needs at least one step")

// Phase is the state of the transition lock.
type Phase int

const (
	Idle          Phase = iota // Ready to accept a navigation request
	Transitioning              // Locked until the settle duration elapses
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Transitioning:
		return "transitioning"
	default:
		return "unknown"
	}
}

// Outcome describes what happened to a navigation request.
type Outcome int

const (
	Accepted   Outcome = iota // Step changed (or re-entered on a jump) and the lock engaged
	Busy                      // Dropped because a transition is in flight
	OutOfRange                // Already at the boundary in the requested direction
	Rejected                  // The current step's validator returned false
	Closed                    // The navigator was closed
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case Busy:
		return "busy"
	case OutOfRange:
		return "out_of_range"
	case Rejected:
		return "rejected"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Validator reports whether the user may move forward from its step.
// It must answer synchronously.
type Validator func() bool

// Config holds the navigator's fixed parameters.
type Config struct {
	Steps          int           // Total number of steps (N)
	SettleDuration time.Duration // Lock window after an accepted transition
	WheelThreshold float64       // Summed wheel magnitude required to navigate
	WheelDebounce  time.Duration // Idle time after which the wheel sum resets
	SwipeDistance  float64       // Minimum vertical swipe displacement
}

// DefaultConfig returns a config for the given step count with default timings.
func DefaultConfig(steps int) Config {
	return Config{
		Steps:          steps,
		SettleDuration: DefaultSettleDuration,
		WheelThreshold: DefaultWheelThreshold,
		WheelDebounce:  DefaultWheelDebounce,
		SwipeDistance:  DefaultSwipeDistance,
	}
}

// Option customizes a Navigator.
type Option func(*Navigator)

// WithClock replaces the real clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(n *Navigator) {
		n.clock = c
	}
}

// WithOnSettle registers an observer that runs when the lock releases.
// It runs on the clock's goroutine, outside the navigator's lock, so it may
// call back into the navigator, including Close. Close does not wait for an
// observer that was already dispatched; receivers that outlive the
// navigator should check Closed.
func WithOnSettle(fn func(step int)) Option {
	return func(n *Navigator) {
		n.onSettle = fn
	}
}

// WithName labels the navigator in debug logs.
func WithName(name string) Option {
	return func(n *Navigator) {
		n.name = name
	}
}

// Navigator is the single authority for which step is active and whether it
// is safe to move. It is safe for concurrent use.
type Navigator struct {
	mu         sync.Mutex
	cfg        Config
	clock      Clock
	name       string
	current    int
	phase      Phase
	validators map[int]Validator
	settle     Timer
	generation uint64 // Bumped on every accepted transition; stale settle timers compare against it
	wheel      wheelAccumulator
	onSettle   func(step int)
	unsubs     []func()
	closed     bool
}

// New creates a navigator at step 0 in the Idle phase.
// Zero timing fields in cfg fall back to the defaults.
func New(cfg Config, opts ...Option) (*Navigator, error) {
	if cfg.Steps < 1 {
		return nil, ErrNoSteps
	}
	if cfg.SettleDuration <= 0 {
		cfg.SettleDuration = DefaultSettleDuration
	}
	if cfg.WheelThreshold <= 0 {
		cfg.WheelThreshold = DefaultWheelThreshold
	}
	if cfg.WheelDebounce <= 0 {
		cfg.WheelDebounce = DefaultWheelDebounce
	}
	if cfg.SwipeDistance <= 0 {
		cfg.SwipeDistance = DefaultSwipeDistance
	}

	n := &Navigator{
		cfg:        cfg,
		clock:      RealClock{},
		name:       "navigator",
		validators: make(map[int]Validator),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// Steps returns the fixed step count.
func (n *Navigator) Steps() int {
	return n.cfg.Steps
}

// Config returns the navigator's configuration after defaults were applied.
func (n *Navigator) Config() Config {
	return n.cfg
}

// Current returns the active step index.
func (n *Navigator) Current() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Phase returns the lock state.
func (n *Navigator) Phase() Phase {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.phase
}

// Busy reports whether a transition is in flight.
func (n *Navigator) Busy() bool {
	return n.Phase() == Transitioning
}

// SetValidator installs the forward-navigation gate for step, replacing any
// previous one for that step. A nil validator clears it.
func (n *Navigator) SetValidator(step int, v Validator) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if v == nil {
		delete(n.validators, step)
		return
	}
	n.validators[step] = v
}

// ClearValidator removes the gate for step.
func (n *Navigator) ClearValidator(step int) {
	n.SetValidator(step, nil)
}

// Advance moves one step forward. It returns false when the request was
// dropped, out of range or rejected by the current step's validator.
func (n *Navigator) Advance() bool {
	return n.TryAdvance() == Accepted
}

// Retreat moves one step back. Backward movement is never validated.
func (n *Navigator) Retreat() bool {
	return n.TryRetreat() == Accepted
}

// JumpTo moves to target, clamped to the valid range. Jumps skip validators
// so callers can redirect the user to a step that failed late validation.
func (n *Navigator) JumpTo(target int) bool {
	return n.TryJumpTo(target) == Accepted
}

// TryAdvance is Advance with the full outcome.
// The validator runs without the navigator's lock held, so it may read
// navigator state. The request is re-checked afterwards and dropped if
// another transition started in the meantime.
func (n *Navigator) TryAdvance() Outcome {
	n.mu.Lock()
	if o, ok := n.guardLocked(); !ok {
		n.mu.Unlock()
		return o
	}
	if n.current >= n.cfg.Steps-1 {
		n.mu.Unlock()
		return OutOfRange
	}
	from, gen := n.current, n.generation
	// Only the current step's validator is ever consulted
	v := n.validators[from]
	n.mu.Unlock()

	if v != nil && !v() {
		logger.Debug("%s: advance from step %d rejected by validator", n.name, from)
		return Rejected
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if o, ok := n.guardLocked(); !ok {
		return o
	}
	if n.current != from || n.generation != gen {
		return Busy
	}
	n.beginLocked(from + 1)
	return Accepted
}

// TryRetreat is Retreat with the full outcome.
func (n *Navigator) TryRetreat() Outcome {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.retreatLocked()
}

// TryJumpTo is JumpTo with the full outcome.
func (n *Navigator) TryJumpTo(target int) Outcome {
	n.mu.Lock()
	defer n.mu.Unlock()

	if o, ok := n.guardLocked(); !ok {
		return o
	}
	n.beginLocked(clamp(target, 0, n.cfg.Steps-1))
	return Accepted
}

func (n *Navigator) retreatLocked() Outcome {
	if o, ok := n.guardLocked(); !ok {
		return o
	}
	if n.current <= 0 {
		return OutOfRange
	}
	n.beginLocked(n.current - 1)
	return Accepted
}

func (n *Navigator) guardLocked() (Outcome, bool) {
	if n.closed {
		return Closed, false
	}
	if n.phase == Transitioning {
		return Busy, false
	}
	return Accepted, true
}

// beginLocked enters Transitioning at step and schedules the release.
func (n *Navigator) beginLocked(step int) {
	logger.Debug("%s: step %d -> %d", n.name, n.current, step)

	n.current = step
	n.phase = Transitioning
	n.generation++
	gen := n.generation
	n.settle = n.clock.AfterFunc(n.cfg.SettleDuration, func() {
		n.release(gen)
	})
}

// release returns to Idle if gen still names the latest transition.
func (n *Navigator) release(gen uint64) {
	n.mu.Lock()
	if n.closed || gen != n.generation || n.phase != Transitioning {
		n.mu.Unlock()
		return
	}
	n.phase = Idle
	n.settle = nil
	step := n.current
	observer := n.onSettle
	n.mu.Unlock()

	if observer != nil {
		observer(step)
	}
}

// Attach subscribes the navigator to an input source for the navigator's
// lifetime. Close unsubscribes it.
func (n *Navigator) Attach(src InputSource) {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.mu.Unlock()

	unsub := src.Subscribe(n)

	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		unsub()
		return
	}
	n.unsubs = append(n.unsubs, unsub)
	n.mu.Unlock()
}

// Close releases every input subscription and pending timer. After Close
// all navigation requests report Closed and no new settle is dispatched.
// An observer already running when Close is called may still finish.
func (n *Navigator) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	if n.settle != nil {
		n.settle.Stop()
		n.settle = nil
	}
	n.wheel.resetLocked()
	unsubs := n.unsubs
	n.unsubs = nil
	n.mu.Unlock()

	// Unsubscribe in reverse attach order
	for i := len(unsubs) - 1; i >= 0; i-- {
		unsubs[i]()
	}
	logger.Debug("%s: closed", n.name)
}

// Closed reports whether Close has been called.
func (n *Navigator) Closed() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.closed
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
