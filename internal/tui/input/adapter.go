// Package input translates Bubble Tea mouse and key messages into the raw
// wheel, key and swipe input a navigator.Dispatcher understands.
package input

import (
	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/persona/internal/navigator"
)

// Terminal to pixel mapping defaults.
const (
	DefaultTickDelta  = 40.0 // Wheel delta reported per wheel tick
	DefaultCellHeight = 16.0 // Pixels per terminal row for drag swipes
)

// Adapter feeds one dispatcher. Wheel ticks become fixed deltas, a left
// button drag becomes a swipe and arrow keys become navigation keys.
type Adapter struct {
	dispatcher *navigator.Dispatcher
	tickDelta  float64
	cellHeight float64
	touch      navigator.TouchTracker
}

// NewAdapter creates an adapter for d. Non-positive values use the defaults.
func NewAdapter(d *navigator.Dispatcher, tickDelta, cellHeight float64) *Adapter {
	if tickDelta <= 0 {
		tickDelta = DefaultTickDelta
	}
	if cellHeight <= 0 {
		cellHeight = DefaultCellHeight
	}
	return &Adapter{
		dispatcher: d,
		tickDelta:  tickDelta,
		cellHeight: cellHeight,
	}
}

// Dispatcher returns the dispatcher the adapter feeds.
func (a *Adapter) Dispatcher() *navigator.Dispatcher {
	return a.dispatcher
}

// Handle routes msg to the dispatcher. handled reports whether msg was an
// input the adapter consumes; navigated whether a navigation was accepted.
// Arrow keys are always offered to the dispatcher so the navigator can
// decide whether a focused text field suppresses them; they are reported
// as unhandled when nothing navigated so the caller can pass them on.
func (a *Adapter) Handle(msg tea.Msg, textFocused bool) (handled, navigated bool) {
	switch msg := msg.(type) {
	case tea.MouseWheelMsg:
		mouse := msg.Mouse()
		switch mouse.Button {
		case tea.MouseWheelUp:
			return true, a.dispatcher.Wheel(-a.tickDelta)
		case tea.MouseWheelDown:
			return true, a.dispatcher.Wheel(a.tickDelta)
		}
		return false, false

	case tea.MouseClickMsg:
		mouse := msg.Mouse()
		if mouse.Button != tea.MouseLeft {
			return false, false
		}
		a.touch.Begin(float64(mouse.Y) * a.cellHeight)
		return true, false

	case tea.MouseReleaseMsg:
		if !a.touch.Active() {
			return false, false
		}
		mouse := msg.Mouse()
		distance, _ := a.touch.End(float64(mouse.Y) * a.cellHeight)
		return true, a.dispatcher.Touch(distance)

	case tea.KeyPressMsg:
		switch key := msg.String(); key {
		case navigator.KeyUp, navigator.KeyDown, navigator.KeyLeft, navigator.KeyRight:
			navigated = a.dispatcher.Key(key, textFocused)
			return navigated, navigated
		}
	}
	return false, false
}

// Dragging reports whether a left-button drag is in progress.
func (a *Adapter) Dragging() bool {
	return a.touch.Active()
}
