package cea608

import "strings"

// Attribute is the style of one screen cell: a Color in the low three bits,
// optionally OR'd with Underline and Italic.
type Attribute uint8

// Color is the foreground colour carried by an Attribute.
type Color uint8

const (
	White Color = iota
	Green
	Blue
	Cyan
	Red
	Yellow
	Magenta
)

const (
	Underline Attribute = 0x10
	Italic    Attribute = 0x20

	colorMask Attribute = 0x07
)

var colorNames = [...]string{"white", "green", "blue", "cyan", "red", "yellow", "magenta", "color7"}

func (c Color) String() string {
	return colorNames[c&7]
}

// Color returns the colour part of the attribute.
func (a Attribute) Color() Color {
	return Color(a & colorMask)
}

// Underline reports whether the underline flag is set.
func (a Attribute) Underline() bool {
	return a&Underline != 0
}

// Italic reports whether the italic flag is set.
func (a Attribute) Italic() bool {
	return a&Italic != 0
}

func (a Attribute) String() string {
	parts := []string{a.Color().String()}
	if a.Underline() {
		parts = append(parts, "underline")
	}
	if a.Italic() {
		parts = append(parts, "italic")
	}
	return strings.Join(parts, "+")
}

func withColor(c Color) Attribute {
	return Attribute(c) & colorMask
}
