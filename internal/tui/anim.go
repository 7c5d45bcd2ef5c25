package tui

import (
	"fmt"
	"math"
	"strings"
	"sync/atomic"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/persona/internal/tui/theme"
)

// Spinner wraps bubbles spinner with convenience methods
type Spinner struct {
	model spinner.Model
}

// NewSpinner creates a new spinner with the given style
func NewSpinner(style spinner.Spinner) Spinner {
	t := theme.Current()
	s := spinner.New(
		spinner.WithSpinner(style),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(t.Primary))),
	)
	return Spinner{model: s}
}

// NewDefaultSpinner creates a spinner with MiniDot style
func NewDefaultSpinner() Spinner {
	return NewSpinner(spinner.MiniDot)
}

// Update handles spinner tick messages
func (s *Spinner) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	s.model, cmd = s.model.Update(msg)
	return cmd
}

// View renders the current spinner frame
func (s *Spinner) View() string {
	return s.model.View()
}

// Tick returns the tick command to start animation
func (s *Spinner) Tick() tea.Cmd {
	return s.model.Tick
}

// Loader timing. The question loader fills in 1.5s and the result loader
// in 2s; each also holds for its minimum even if data arrives earlier.
const (
	loaderInterval = 30 * time.Millisecond

	questionLoaderStep    = 2.0
	questionLoaderMinimum = 1500 * time.Millisecond
	resultLoaderStep      = 1.5
	resultLoaderMinimum   = 2000 * time.Millisecond
)

var loaderSeq atomic.Int64

// LoaderTickMsg advances a loader bar.
type LoaderTickMsg struct {
	ID int64
}

// Loader is a progress bar that fills at a fixed rate and reports done once
// it is full and its minimum display time has passed.
type Loader struct {
	id      int64
	step    float64 // Percent added per tick
	minimum time.Duration
	start   time.Time
	percent float64
	running bool
}

// NewQuestionLoader returns the loader shown while questions are fetched.
func NewQuestionLoader() Loader {
	return Loader{step: questionLoaderStep, minimum: questionLoaderMinimum}
}

// NewResultLoader returns the loader shown while answers are scored.
func NewResultLoader() Loader {
	return Loader{step: resultLoaderStep, minimum: resultLoaderMinimum}
}

// Start resets the bar and starts ticking. Ticks of earlier runs are ignored.
func (l *Loader) Start(now time.Time) tea.Cmd {
	l.id = loaderSeq.Add(1)
	l.start = now
	l.percent = 0
	l.running = true
	return l.tick()
}

// Stop halts the bar where it is.
func (l *Loader) Stop() {
	l.running = false
}

// Update advances the bar on its own tick messages.
func (l *Loader) Update(msg tea.Msg, now time.Time) tea.Cmd {
	tick, ok := msg.(LoaderTickMsg)
	if !ok || !l.running || tick.ID != l.id {
		return nil
	}
	l.percent = math.Min(100, l.percent+l.step)
	if l.Done(now) {
		l.running = false
		return nil
	}
	return l.tick()
}

func (l *Loader) tick() tea.Cmd {
	id := l.id
	return tea.Tick(loaderInterval, func(time.Time) tea.Msg {
		return LoaderTickMsg{ID: id}
	})
}

// Done reports whether the bar is full and shown for its minimum time.
func (l *Loader) Done(now time.Time) bool {
	return l.percent >= 100 && now.Sub(l.start) >= l.minimum
}

// Percent returns the fill level, 0..100.
func (l *Loader) Percent() float64 {
	return l.percent
}

// Running reports whether the bar is still ticking.
func (l *Loader) Running() bool {
	return l.running
}

// View renders the bar followed by its percentage.
func (l *Loader) View(width int) string {
	return renderBar(width, l.percent) + " " + theme.Current().S().Muted.Render(formatPercent(l.percent))
}

// renderBar draws a width-cell bar filled to percent.
func renderBar(width int, percent float64) string {
	if width <= 0 {
		return ""
	}
	s := theme.Current().S()
	filled := int(math.Round(float64(width) * math.Max(0, math.Min(100, percent)) / 100))
	return s.ProgressFilled.Render(strings.Repeat("█", filled)) +
		s.ProgressEmpty.Render(strings.Repeat("░", width-filled))
}

func formatPercent(p float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(p)))
}
