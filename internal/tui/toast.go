package tui

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/persona/internal/tui/theme"
)

const toastDuration = 3 * time.Second

// ToastDismissMsg is sent when a toast should be dismissed.
type ToastDismissMsg struct {
	ID int
}

// ShowToastMsg is sent to show a toast notification.
type ShowToastMsg struct {
	Text string
}

// Toast is a minimal toast notification component.
// Shows a message in the bottom-right corner that auto-dismisses after 3 seconds.
type Toast struct {
	message string
	visible bool
	id      int // Bumped per Show so an older dismissal cannot hide a newer toast
}

// NewToast creates a new Toast component.
func NewToast() *Toast {
	return &Toast{}
}

// Show displays a toast with the given message.
func (t *Toast) Show(msg string) tea.Cmd {
	t.id++
	t.message = msg
	t.visible = true
	id := t.id
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return ToastDismissMsg{ID: id}
	})
}

// Update handles messages for the toast component.
func (t *Toast) Update(msg tea.Msg) tea.Cmd {
	if m, ok := msg.(ToastDismissMsg); ok && m.ID == t.id {
		t.visible = false
		t.message = ""
	}
	return nil
}

// View renders the toast no wider than width.
// Returns empty string if toast is not visible.
func (t *Toast) View(width int) string {
	if !t.visible || t.message == "" {
		return ""
	}

	style := theme.Current().S().Toast
	content := style.Render(t.message)
	if lipgloss.Width(content) > width-2 {
		content = style.Width(max(1, width-2)).Render(t.message)
	}
	return content
}

// IsVisible returns whether the toast is currently visible.
func (t *Toast) IsVisible() bool {
	return t.visible
}

// GetMessage returns the current toast message (empty if not visible).
func (t *Toast) GetMessage() string {
	if !t.visible {
		return ""
	}
	return t.message
}
