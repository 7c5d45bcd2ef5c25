package navigator

import (
	"math"
	"sync"
)

// Key names understood by HandleKey. They match Bubble Tea's key strings.
const (
	KeyUp    = "up"
	KeyDown  = "down"
	KeyLeft  = "left"
	KeyRight = "right"
)

// Sink receives raw input events and turns them into navigation.
// Each method reports whether a navigation request was accepted.
type Sink interface {
	HandleWheel(delta float64) bool
	HandleKey(key string, textFocused bool) bool
	HandleTouchDelta(distance float64) bool
}

// InputSource delivers raw input to subscribed sinks until the returned
// unsubscribe function is called.
type InputSource interface {
	Subscribe(s Sink) (unsubscribe func())
}

// wheelAccumulator coalesces wheel deltas from one physical gesture.
type wheelAccumulator struct {
	sum   float64
	timer Timer
	gen   uint64
}

func (w *wheelAccumulator) resetLocked() {
	w.sum = 0
	w.gen++
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// HandleWheel accumulates a signed wheel delta. Once the summed magnitude
// exceeds the threshold inside one debounce window, a single navigation fires
// in the direction of the sum (positive = forward) and the sum resets. The
// sum also resets when no delta arrives for the debounce window and when
// deltas arrive while a transition is in flight.
func (n *Navigator) HandleWheel(delta float64) bool {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return false
	}
	if n.phase == Transitioning {
		n.wheel.resetLocked()
		n.mu.Unlock()
		return false
	}

	n.wheel.sum += delta
	sum := n.wheel.sum
	if math.Abs(sum) <= n.cfg.WheelThreshold {
		n.restartWheelDebounceLocked()
		n.mu.Unlock()
		return false
	}
	n.wheel.resetLocked()
	n.mu.Unlock()

	if sum > 0 {
		return n.Advance()
	}
	return n.Retreat()
}

func (n *Navigator) restartWheelDebounceLocked() {
	if n.wheel.timer != nil {
		n.wheel.timer.Stop()
	}
	n.wheel.gen++
	gen := n.wheel.gen
	n.wheel.timer = n.clock.AfterFunc(n.cfg.WheelDebounce, func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if n.closed || n.wheel.gen != gen {
			return
		}
		n.wheel.sum = 0
		n.wheel.timer = nil
	})
}

// WheelSum returns the pending accumulated wheel delta.
func (n *Navigator) WheelSum() float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.wheel.sum
}

// HandleKey maps arrow keys to navigation: down/right advance, up/left
// retreat. Keys are ignored while a text field has focus so in-field cursor
// movement is never hijacked.
func (n *Navigator) HandleKey(key string, textFocused bool) bool {
	if textFocused {
		return false
	}
	switch key {
	case KeyDown, KeyRight:
		return n.Advance()
	case KeyUp, KeyLeft:
		return n.Retreat()
	}
	return false
}

// HandleTouchDelta resolves a finished swipe. distance is start minus end
// vertical position, so a positive value means the finger moved up and the
// content should move forward.
func (n *Navigator) HandleTouchDelta(distance float64) bool {
	n.mu.Lock()
	minSwipe := n.cfg.SwipeDistance
	n.mu.Unlock()

	if math.Abs(distance) <= minSwipe {
		return false
	}
	if distance > 0 {
		return n.Advance()
	}
	return n.Retreat()
}

// TouchTracker remembers where a swipe started.
type TouchTracker struct {
	startY float64
	active bool
}

// Begin records the start position of a swipe.
func (t *TouchTracker) Begin(y float64) {
	t.startY = y
	t.active = true
}

// End finishes the swipe and returns start minus end. ok is false when no
// swipe was in progress.
func (t *TouchTracker) End(y float64) (distance float64, ok bool) {
	if !t.active {
		return 0, false
	}
	t.active = false
	return t.startY - y, true
}

// Active reports whether a swipe is in progress.
func (t *TouchTracker) Active() bool {
	return t.active
}

// Dispatcher is an InputSource that fans raw input out to its subscribers.
// View layers own one and feed it the events they receive.
type Dispatcher struct {
	mu    sync.Mutex
	next  int
	sinks map[int]Sink
	order []int
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{sinks: make(map[int]Sink)}
}

// Subscribe implements InputSource.
func (d *Dispatcher) Subscribe(s Sink) func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := d.next
	d.next++
	d.sinks[id] = s
	d.order = append(d.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			defer d.mu.Unlock()
			delete(d.sinks, id)
			for i, v := range d.order {
				if v == id {
					d.order = append(d.order[:i], d.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Subscribers returns the number of live subscriptions.
func (d *Dispatcher) Subscribers() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sinks)
}

// Wheel forwards a wheel delta.
func (d *Dispatcher) Wheel(delta float64) bool {
	return d.each(func(s Sink) bool { return s.HandleWheel(delta) })
}

// Key forwards a key press.
func (d *Dispatcher) Key(key string, textFocused bool) bool {
	return d.each(func(s Sink) bool { return s.HandleKey(key, textFocused) })
}

// Touch forwards a finished swipe distance.
func (d *Dispatcher) Touch(distance float64) bool {
	return d.each(func(s Sink) bool { return s.HandleTouchDelta(distance) })
}

// each calls fn for a snapshot of the subscribers so sinks may unsubscribe
// from inside a handler.
func (d *Dispatcher) each(fn func(Sink) bool) bool {
	d.mu.Lock()
	sinks := make([]Sink, 0, len(d.order))
	for _, id := range d.order {
		sinks = append(sinks, d.sinks[id])
	}
	d.mu.Unlock()

	accepted := false
	for _, s := range sinks {
		if fn(s) {
			accepted = true
		}
	}
	return accepted
}
