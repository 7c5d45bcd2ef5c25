package tui

import uv "github.com/charmbracelet/ultraviolet"

// StatusHeight is the height of the status bar in rows
const StatusHeight = 1

// Layout defines the rectangular regions for all UI components
type Layout struct {
	Area   uv.Rectangle
	Main   uv.Rectangle
	Status uv.Rectangle
}

// CalculateLayout computes the layout rectangles based on terminal dimensions
func CalculateLayout(width, height int) Layout {
	area := uv.Rectangle{
		Max: uv.Position{X: max(0, width), Y: max(0, height)},
	}

	// Split vertically: main | status
	mainRect, statusRect := uv.SplitVertical(area, uv.Fixed(max(0, area.Dy()-StatusHeight)))

	return Layout{
		Area:   area,
		Main:   mainRect,
		Status: statusRect,
	}
}
