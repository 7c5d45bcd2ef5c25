package wizard

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mark3labs/persona/internal/tui/theme"
)

// ButtonState represents the visual state of a button.
type ButtonState int

const (
	ButtonNormal   ButtonState = iota // Normal state (enabled)
	ButtonDisabled                    // Disabled state (grayed out)
	ButtonFocused                     // Focused/highlighted state
)

// Button represents a single button in the button bar.
type Button struct {
	Label string
	State ButtonState
}

// ButtonBar manages a set of buttons with consistent styling.
type ButtonBar struct {
	buttons []Button
	width   int
}

// NewButtonBar creates a new button bar with the given buttons.
func NewButtonBar(buttons []Button) *ButtonBar {
	return &ButtonBar{
		buttons: buttons,
		width:   60,
	}
}

// SetWidth updates the width for the button bar.
func (b *ButtonBar) SetWidth(width int) {
	b.width = width
}

// Render renders the button bar centred in its width.
func (b *ButtonBar) Render() string {
	if len(b.buttons) == 0 {
		return ""
	}

	s := theme.Current().S()
	rendered := make([]string, 0, len(b.buttons))
	for _, btn := range b.buttons {
		switch btn.State {
		case ButtonDisabled:
			rendered = append(rendered, s.ButtonDisabled.Render(btn.Label))
		case ButtonFocused:
			rendered = append(rendered, s.ButtonFocused.Render(btn.Label))
		default:
			rendered = append(rendered, s.ButtonNormal.Render(btn.Label))
		}
	}

	return lipgloss.PlaceHorizontal(b.width, lipgloss.Center, strings.Join(rendered, ""))
}

// Intake button positions.
const (
	buttonBack = iota
	buttonNext
	buttonJump
	buttonCount
)

// CreateIntakeButtons creates the Back / Next / Jump right in set.
// focused is the focused button index, or -1 when the text field has focus.
// On the last step Next reads "Continue".
func CreateIntakeButtons(step, steps, focused int) []Button {
	labels := [buttonCount]string{"← Back", "Next →", "Jump right in"}
	if step == steps-1 {
		labels[buttonNext] = "Continue"
	}

	buttons := make([]Button, 0, buttonCount)
	for i, label := range labels {
		state := ButtonNormal
		if i == buttonBack && step == 0 {
			state = ButtonDisabled
		}
		if i == focused {
			state = ButtonFocused
		}
		buttons = append(buttons, Button{Label: label, State: state})
	}
	return buttons
}
