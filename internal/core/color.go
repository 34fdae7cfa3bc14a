package core

// Color represents a foreground or background color for a screen cell.
// Values map to ANSI 256-color codes in the terminal renderer.
type Color uint8

// Palette entries. ColorDefault leaves the terminal color untouched.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightBlue
	ColorBrightWhite
	ColorOrange
	ColorGray
	ColorDarkGray
)

// Semantic colors used by the puzzle renderer.
const (
	ColorPositive  = ColorBrightRed
	ColorNegative  = ColorBrightBlue
	ColorBoard     = ColorGray
	ColorPortal    = ColorMagenta
	ColorSelection = ColorYellow
	ColorHUD       = ColorCyan
)
