package testfixtures

import (
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"
)

// Initialize test environment
func init() {
	// Set Ascii profile to disable color output for consistent output across CI/platforms
	lipgloss.Writer.Profile = colorprofile.Ascii
}

// Canonical terminal size for all tests
const (
	TestTermWidth  = 100
	TestTermHeight = 40
)

// Conservative timeout for eventually-style assertions (CI compatibility)
const (
	DefaultWaitDuration  = 5 * time.Second
	DefaultCheckInterval = 10 * time.Millisecond
)

// Plain strips ANSI sequences so assertions can match on visible text.
func Plain(s string) string {
	return ansi.Strip(s)
}

// RenderCanvas creates a screen buffer of the canonical size, lets drawFn
// paint it and returns the visible text with trailing spaces trimmed from
// every line.
//
//	out := testfixtures.RenderCanvas(func(scr uv.Screen, area uv.Rectangle) {
//	    app.Draw(scr, area)
//	})
func RenderCanvas(drawFn func(scr uv.Screen, area uv.Rectangle)) string {
	canvas := uv.NewScreenBuffer(TestTermWidth, TestTermHeight)
	drawFn(canvas, canvas.Bounds())

	// ScreenBuffer.Render ends lines with \r\n.
	lines := strings.Split(Plain(canvas.Render()), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \r")
	}
	return strings.Join(lines, "\n")
}
