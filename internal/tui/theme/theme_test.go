package theme

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Reference: https://github.com/catppuccin/catppuccin
func TestCatppuccinMocha_ColorPalette(t *testing.T) {
	th := NewCatppuccinMocha()
	require.Equal(t, "catppuccin-mocha", th.Name)
	require.True(t, th.IsDark)

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"Primary (Mauve)", th.Primary, "#cba6f7"},
		{"Secondary (Blue)", th.Secondary, "#89b4fa"},
		{"Tertiary (Lavender)", th.Tertiary, "#b4befe"},
		{"BgCrust", th.BgCrust, "#11111b"},
		{"BgBase", th.BgBase, "#1e1e2e"},
		{"BgMantle", th.BgMantle, "#181825"},
		{"BgSurface0", th.BgSurface0, "#313244"},
		{"BgOverlay", th.BgOverlay, "#6c7086"},
		{"FgMuted (Subtext0)", th.FgMuted, "#a6adc8"},
		{"FgBase (Text)", th.FgBase, "#cdd6f4"},
		{"FgBright (Rosewater)", th.FgBright, "#f5e0dc"},
		{"Success (Green)", th.Success, "#a6e3a1"},
		{"Warning (Yellow)", th.Warning, "#f9e2af"},
		{"Error (Red)", th.Error, "#f38ba8"},
		{"Info (Sky)", th.Info, "#89dceb"},
		{"BorderFocused (Mauve)", th.BorderFocused, "#cba6f7"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.got, tt.name)
	}
}

func TestCurrent_DefaultsToMocha(t *testing.T) {
	require.Equal(t, "catppuccin-mocha", Current().Name)
}

func TestSetCurrent(t *testing.T) {
	prev := Current()
	t.Cleanup(func() { SetCurrent(prev) })

	custom := NewCatppuccinMocha()
	custom.Name = "custom"
	SetCurrent(custom)
	assert.Same(t, custom, Current())

	SetCurrent(nil)
	assert.Equal(t, "catppuccin-mocha", Current().Name)
	assert.NotSame(t, custom, Current())
}

func TestStyles_BuiltOnce(t *testing.T) {
	th := NewCatppuccinMocha()
	s := th.S()
	require.NotNil(t, s)
	assert.Same(t, s, th.S())

	for name, render := range map[string]func(...string) string{
		"Base":          s.Base.Render,
		"HeaderTitle":   s.HeaderTitle.Render,
		"ButtonFocused": s.ButtonFocused.Render,
		"Card":          s.Card.Render,
		"Toast":         s.Toast.Render,
	} {
		assert.Contains(t, render("test"), "test", name)
	}
}

func TestHexColorHelpers(t *testing.T) {
	r, g, b := ParseHexColor("#cba6f7")
	assert.Equal(t, [3]uint8{0xcb, 0xa6, 0xf7}, [3]uint8{r, g, b})
	assert.Equal(t, "#cba6f7", FormatHexColor(r, g, b))

	r, g, b = ParseHexColor("bad")
	assert.Equal(t, [3]uint8{}, [3]uint8{r, g, b})

	assert.Equal(t, "#000000", InterpolateColor("#000000", "#ffffff", 0))
	assert.Equal(t, "#ffffff", InterpolateColor("#000000", "#ffffff", 1))
	assert.Equal(t, "#7f7f7f", InterpolateColor("#000000", "#ffffff", 0.5))

	cr, cg, cb, _ := HexToColor("#ff0000").RGBA()
	assert.Equal(t, uint32(0xffff), cr)
	assert.Zero(t, cg)
	assert.Zero(t, cb)
}

func TestApplyGradient(t *testing.T) {
	assert.Empty(t, ApplyGradient("", "#000000", "#ffffff"))

	out := ApplyGradient("ab c", "#000000", "#ffffff")
	assert.Equal(t, "ab c", ansi.Strip(out))
}
