package tui

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mark3labs/persona/internal/tui/theme"
)

// Dialog represents a modal dialog overlay
type Dialog struct {
	title      string
	message    string
	button     string
	visible    bool
	onClose    func() tea.Cmd
	dialogArea uv.Rectangle // Screen area where dialog is drawn (for mouse hit detection)
}

// NewDialog creates a new dialog
func NewDialog() *Dialog {
	return &Dialog{
		button: "Retry",
	}
}

// Show displays the dialog. onClose runs when the button is pressed.
func (d *Dialog) Show(title, message, button string, onClose func() tea.Cmd) {
	d.title = title
	d.message = message
	d.button = button
	d.visible = true
	d.onClose = onClose
}

// Hide closes the dialog
func (d *Dialog) Hide() {
	d.visible = false
}

// IsVisible returns whether the dialog is visible
func (d *Dialog) IsVisible() bool {
	return d.visible
}

// Message returns the dialog body.
func (d *Dialog) Message() string {
	return d.message
}

// Update handles dialog input. Enter, space and r press the button.
func (d *Dialog) Update(msg tea.Msg) tea.Cmd {
	if !d.visible {
		return nil
	}

	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "enter", "space", "r":
			return d.press()
		}
	case tea.MouseClickMsg:
		m := msg.Mouse()
		if (uv.Position{X: m.X, Y: m.Y}).In(d.dialogArea) {
			return d.press()
		}
	}
	return nil
}

func (d *Dialog) press() tea.Cmd {
	d.Hide()
	if d.onClose != nil {
		return d.onClose()
	}
	return nil
}

// Draw renders the dialog centered on screen
func (d *Dialog) Draw(scr uv.Screen, area uv.Rectangle) *tea.Cursor {
	if !d.visible {
		return nil
	}

	t := theme.Current()
	contentWidth := max(lipgloss.Width(d.title), min(lipgloss.Width(d.message), max(20, area.Dx()-12)))

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Error)).
		Bold(true).
		Width(contentWidth).
		Align(lipgloss.Center)

	messageStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.FgBase)).
		Width(contentWidth).
		Align(lipgloss.Center)

	buttonStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.BgBase)).
		Background(lipgloss.Color(t.Primary)).
		Padding(0, 2)

	buttonLine := lipgloss.NewStyle().
		Width(contentWidth).
		Align(lipgloss.Center).
		Render(buttonStyle.Render(d.button) + "  " + RenderHint(KeyQuit, "quit"))

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		titleStyle.Render(d.title),
		"",
		messageStyle.Render(d.message),
		"",
		buttonLine,
	)

	dialog := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(t.Error)).
		Padding(1, 3).
		Render(content)

	dialogWidth := lipgloss.Width(dialog)
	dialogHeight := lipgloss.Height(dialog)
	x := max(0, (area.Dx()-dialogWidth)/2)
	y := max(0, (area.Dy()-dialogHeight)/2)

	d.dialogArea = uv.Rectangle{
		Min: uv.Position{X: area.Min.X + x, Y: area.Min.Y + y},
		Max: uv.Position{X: area.Min.X + x + dialogWidth, Y: area.Min.Y + y + dialogHeight},
	}
	uv.NewStyledString(dialog).Draw(scr, d.dialogArea)
	return nil
}
