// Package progress computes scroll-driven progress for the question flow:
// overall completion, per-question section progress, the active question's
// label and step percentages for the intake indicator.
package progress

import (
	"math"
	"time"
)

// LabelMax is the number of characters of a question shown as the active label.
const LabelMax = 40

// Section is a block of content rows inside a scrollable document.
type Section struct {
	Top    int // First row of the section in document coordinates
	Height int
	Label  string
}

// Bottom returns the first row after the section.
func (s Section) Bottom() int {
	return s.Top + s.Height
}

// Viewport describes the visible window over a document.
type Viewport struct {
	Offset        int // First visible document row
	Height        int // Visible rows
	ContentHeight int // Total document rows
}

// MaxOffset returns the largest valid scroll offset.
func (v Viewport) MaxOffset() int {
	return max(0, v.ContentHeight-v.Height)
}

// Snapshot is the progress state for one scroll position.
type Snapshot struct {
	Overall  float64   // Percent of the document scrolled, 0..100
	Active   int       // Index of the section spanning the viewport centre, -1 if none
	Label    string    // Truncated label of the active section
	Sections []float64 // Per-section progress, 0..100
}

// Compute derives a Snapshot. The section spanning the vertical centre of
// the viewport becomes active; sections before it are complete and sections
// after it have not started. When no section spans the centre the previous
// snapshot's section values are kept, so callers pass it as prev.
func Compute(v Viewport, sections []Section, prev Snapshot) Snapshot {
	snap := Snapshot{
		Overall:  Overall(v),
		Active:   prev.Active,
		Label:    prev.Label,
		Sections: make([]float64, len(sections)),
	}
	if len(prev.Sections) == len(sections) {
		copy(snap.Sections, prev.Sections)
	} else {
		snap.Active = -1
		snap.Label = ""
	}

	active := -1
	centre := float64(v.Height) / 2
	for i, s := range sections {
		top := float64(s.Top - v.Offset)
		bottom := top + float64(s.Height)
		if top <= centre && bottom >= centre {
			active = i
		}
	}
	if active < 0 {
		return snap
	}

	snap.Active = active
	snap.Label = TruncateLabel(sections[active].Label)
	for i := range sections {
		switch {
		case i < active:
			snap.Sections[i] = 100
		case i > active:
			snap.Sections[i] = 0
		default:
			snap.Sections[i] = sectionProgress(v, sections[i])
		}
	}
	return snap
}

// Overall returns how far the document is scrolled as a percentage.
// A document that fits the viewport counts as fully scrolled.
func Overall(v Viewport) float64 {
	maxOffset := v.MaxOffset()
	if maxOffset == 0 {
		return 100
	}
	return math.Min(100, math.Max(0, float64(v.Offset)/float64(maxOffset)*100))
}

// sectionProgress measures the scroll window in which any part of the
// section is visible: it starts when the section's top enters at the bottom
// edge and ends when its bottom leaves at the top edge.
func sectionProgress(v Viewport, s Section) float64 {
	start := float64(s.Top - v.Height)
	end := start + float64(s.Height+v.Height)
	if end <= start {
		return 100
	}
	p := (float64(v.Offset) - start) / (end - start) * 100
	return math.Max(0, math.Min(100, p))
}

// TruncateLabel shortens s to LabelMax runes followed by "...".
func TruncateLabel(s string) string {
	r := []rune(s)
	if len(r) <= LabelMax {
		return s
	}
	return string(r[:LabelMax]) + "..."
}

// QuestionOrdinal maps overall progress to a 1-based question number,
// clamped to [1, total].
func QuestionOrdinal(overall float64, total int) int {
	if total <= 0 {
		return 0
	}
	n := int(math.Floor(overall*float64(total)/100)) + 1
	return max(1, min(total, n))
}

// StepPercent returns index/(total-1) as a percentage, or 0 for a single step.
func StepPercent(index, total int) float64 {
	if total <= 1 {
		return 0
	}
	return float64(index) / float64(total-1) * 100
}

// CenterOffset returns the scroll offset that centres s in the viewport,
// clamped to the valid range.
func CenterOffset(v Viewport, s Section) int {
	target := s.Top + s.Height/2 - v.Height/2
	return max(0, min(v.MaxOffset(), target))
}

// Tween eases a scroll offset from one value to another over a duration.
type Tween struct {
	From     int
	To       int
	Start    time.Time
	Duration time.Duration
}

// At returns the offset at now.
func (t Tween) At(now time.Time) int {
	if t.Duration <= 0 || !now.Before(t.Start.Add(t.Duration)) {
		return t.To
	}
	elapsed := now.Sub(t.Start)
	if elapsed <= 0 {
		return t.From
	}
	p := easeInOutCubic(float64(elapsed) / float64(t.Duration))
	return t.From + int(math.Round(float64(t.To-t.From)*p))
}

// Done reports whether the tween has reached its target at now.
func (t Tween) Done(now time.Time) bool {
	return !now.Before(t.Start.Add(t.Duration))
}

func easeInOutCubic(x float64) float64 {
	if x < 0.5 {
		return 4 * x * x * x
	}
	return 1 - math.Pow(-2*x+2, 3)/2
}
