package term

import "github.com/gdamore/tcell/v2"

// Styles for the fixed parts of the display.
var (
	WallStyle    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	FloorStyle   = tcell.StyleDefault.Foreground(tcell.ColorDarkSlateGray)
	HUDStyle     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	MessageStyle = tcell.StyleDefault.Foreground(tcell.ColorSilver)
)

// colorNames maps the color names used by the creature table and glyph
// components to terminal colors.
var colorNames = map[string]tcell.Color{
	"white":   tcell.ColorWhite,
	"gray":    tcell.ColorGray,
	"green":   tcell.ColorGreen,
	"red":     tcell.ColorRed,
	"purple":  tcell.ColorPurple,
	"cyan":    tcell.ColorAqua,
	"magenta": tcell.ColorFuchsia,
	"yellow":  tcell.ColorYellow,
	"orange":  tcell.ColorOrange,
}

// StyleFor returns the style for a named color, defaulting to white for
// names the palette does not know.
func StyleFor(name string) tcell.Style {
	if c, ok := colorNames[name]; ok {
		return tcell.StyleDefault.Foreground(c)
	}
	return tcell.StyleDefault.Foreground(tcell.ColorWhite)
}
