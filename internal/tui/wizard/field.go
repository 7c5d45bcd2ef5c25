package wizard

import (
	"strings"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/persona/internal/tui/theme"
)

// shakeOffsets is the horizontal offset of a shaking field per frame.
var shakeOffsets = []int{3, 0, 2, 0, 1, 0}

const shakeInterval = 40 * time.Millisecond

// ShakeMsg advances a field's shake animation.
type ShakeMsg struct {
	Step int
	ID   int // Shake run; stale frames are ignored
}

// Field is one intake slide: a title and a single text input.
type Field struct {
	step  int
	title string
	input textinput.Model
	err   string

	shakeID    int
	shakeFrame int // Index into shakeOffsets, -1 when still
}

func newField(step int, title string, charLimit int) *Field {
	t := theme.Current()
	input := textinput.New()
	input.Placeholder = "Type here"
	input.Prompt = ""
	input.CharLimit = charLimit
	input.SetStyles(textinput.Styles{
		Focused: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgBase)),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
			Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.Tertiary)),
		},
		Blurred: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(t.BgOverlay)),
			Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.BgOverlay)),
		},
		Cursor: textinput.CursorStyle{
			Color: lipgloss.Color(t.Primary),
			Shape: tea.CursorBar,
			Blink: true,
		},
	})
	input.SetWidth(40)

	return &Field{
		step:       step,
		title:      title,
		input:      input,
		shakeFrame: -1,
	}
}

// Value returns the raw text of the field.
func (f *Field) Value() string {
	return f.input.Value()
}

// SetValue replaces the text of the field.
func (f *Field) SetValue(v string) {
	f.input.SetValue(v)
}

// Error returns the validation message shown under the field.
func (f *Field) Error() string {
	return f.err
}

// Focused reports whether the field takes key input.
func (f *Field) Focused() bool {
	return f.input.Focused()
}

// Shaking reports whether the shake animation is running.
func (f *Field) Shaking() bool {
	return f.shakeFrame >= 0
}

func (f *Field) focus() tea.Cmd {
	return f.input.Focus()
}

func (f *Field) blur() {
	f.input.Blur()
}

func (f *Field) setWidth(w int) {
	f.input.SetWidth(max(10, w))
}

func (f *Field) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return cmd
}

// shake restarts the shake animation.
func (f *Field) shake() tea.Cmd {
	f.shakeID++
	f.shakeFrame = 0
	return f.shakeTick()
}

func (f *Field) shakeTick() tea.Cmd {
	step, id := f.step, f.shakeID
	return tea.Tick(shakeInterval, func(time.Time) tea.Msg {
		return ShakeMsg{Step: step, ID: id}
	})
}

func (f *Field) handleShake(msg ShakeMsg) tea.Cmd {
	if msg.ID != f.shakeID || f.shakeFrame < 0 {
		return nil
	}
	f.shakeFrame++
	if f.shakeFrame >= len(shakeOffsets) {
		f.shakeFrame = -1
		return nil
	}
	return f.shakeTick()
}

// view renders the title, the input and either the error or the jump hint.
func (f *Field) view() string {
	s := theme.Current().S()

	offset := 0
	if f.shakeFrame >= 0 {
		offset = shakeOffsets[f.shakeFrame]
	}
	input := strings.Repeat(" ", offset) + f.input.View()

	var b strings.Builder
	b.WriteString(s.ModalTitle.Render(f.title))
	b.WriteString("\n\n")
	b.WriteString(input)
	b.WriteString("\n\n")
	if f.err != "" {
		b.WriteString(s.Error.Render("✗ " + f.err))
	} else {
		b.WriteString(s.Muted.Render("ctrl+j  Jump right in."))
	}
	return b.String()
}
