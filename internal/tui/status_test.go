package tui

import (
	"strings"
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mark3labs/persona/internal/session"
	"github.com/mark3labs/persona/internal/tui/testfixtures"
)

type fakeJournal struct{ failed int }

func (j *fakeJournal) Record(e session.Event) bool { return true }
func (j *fakeJournal) Failed() int                 { return j.failed }

func renderStatus(sb *StatusBar) string {
	canvas := uv.NewScreenBuffer(100, 1)
	sb.Draw(canvas, uv.Rect(0, 0, 100, 1))
	return testfixtures.Plain(canvas.Render())
}

func TestStatusBar_Content(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(sb *StatusBar, j *fakeJournal)
		contains []string
		excludes []string
	}{
		{
			name:     "intake",
			setup:    func(sb *StatusBar, j *fakeJournal) {},
			contains: []string{"persona | intake", "● journal"},
			excludes: []string{"answered"},
		},
		{
			name: "answering",
			setup: func(sb *StatusBar, j *fakeJournal) {
				sb.SetSession("ada-d0abc")
				sb.SetPhase(PhaseQuestions)
				sb.SetAnswered(2, 5)
			},
			contains: []string{"persona | ada-d0abc | questions", "2/5 answered"},
		},
		{
			name: "answer count only while answering",
			setup: func(sb *StatusBar, j *fakeJournal) {
				sb.SetPhase(PhaseResult)
				sb.SetAnswered(5, 5)
			},
			contains: []string{"| result"},
			excludes: []string{"answered"},
		},
		{
			name:     "dropped events",
			setup:    func(sb *StatusBar, j *fakeJournal) { j.failed = 3 },
			contains: []string{"○ journal (3 dropped)"},
			excludes: []string{"●"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := &fakeJournal{}
			sb := NewStatusBar(j)
			tt.setup(sb, j)
			content := renderStatus(sb)

			for _, want := range tt.contains {
				if !strings.Contains(content, want) {
					t.Errorf("expected %q in status bar, got: %s", want, content)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(content, unwanted) {
					t.Errorf("did not expect %q in status bar, got: %s", unwanted, content)
				}
			}
		})
	}
}

func TestStatusBar_NoJournal(t *testing.T) {
	content := renderStatus(NewStatusBar(nil))
	if strings.Contains(content, "journal") {
		t.Errorf("expected no journal indicator, got: %s", content)
	}
}

func TestStatusBar_ZeroArea(t *testing.T) {
	sb := NewStatusBar(nil)
	canvas := uv.NewScreenBuffer(10, 1)
	if cursor := sb.Draw(canvas, uv.Rect(0, 0, 0, 0)); cursor != nil {
		t.Errorf("expected nil cursor")
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		input    string
		maxWidth int
		want     string
	}{
		{"short", 10, "short"},
		{"exactly-ten", 11, "exactly-ten"},
		{"a-very-long-session-name", 10, "a-very-..."},
		{"abc", 3, "..."},
	}
	for _, tt := range tests {
		if got := truncateString(tt.input, tt.maxWidth); got != tt.want {
			t.Errorf("truncateString(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.want)
		}
	}
}
