package tui

import (
	tea "charm.land/bubbletea/v2"
	uv "github.com/charmbracelet/ultraviolet"
)

// Drawable components render to a screen rectangle
type Drawable interface {
	Draw(scr uv.Screen, area uv.Rectangle) *tea.Cursor
}

// Updateable components handle messages
type Updateable interface {
	Update(tea.Msg) tea.Cmd
}

// Sizable components track their dimensions
type Sizable interface {
	SetSize(width, height int)
}

// Screen is a full-area phase view.
type Screen interface {
	Drawable
	Updateable
	Sizable
}

var (
	_ Screen   = (*QuestionFlow)(nil)
	_ Screen   = (*ResultView)(nil)
	_ Drawable = (*Dialog)(nil)
	_ Drawable = (*StatusBar)(nil)
)
