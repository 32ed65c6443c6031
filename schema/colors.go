package schema

import "image/color"

// ColorTableSize is the number of entries in a color table: foreground and
// background followed by eight normal and ten intense entries.
const ColorTableSize = 20

const (
	// ColorForeground is the default foreground slot.
	ColorForeground = 0
	// ColorBackground is the default background slot.
	ColorBackground = 1
	// ColorIntenseForeground is the intense foreground slot.
	ColorIntenseForeground = 10
	// ColorIntenseBackground is the intense background slot.
	ColorIntenseBackground = 11
)

// ColorEntry is one slot of a color table.
type ColorEntry struct {
	Color       color.RGBA
	Transparent bool
	Bold        bool
}

// ColorTable is the ordered palette a schema applies to the view.
type ColorTable [ColorTableSize]ColorEntry

// Background returns the default background color.
func (t ColorTable) Background() color.RGBA {
	return t[ColorBackground].Color
}

// Foreground returns the default foreground color.
func (t ColorTable) Foreground() color.RGBA {
	return t[ColorForeground].Color
}

func rgb(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// DefaultColorTable returns the built-in palette used by schema id 0.
func DefaultColorTable() ColorTable {
	return ColorTable{
		{Color: rgb(0x00, 0x00, 0x00)},
		{Color: rgb(0xff, 0xff, 0xff), Transparent: true},
		{Color: rgb(0x00, 0x00, 0x00)},
		{Color: rgb(0xb2, 0x18, 0x18)},
		{Color: rgb(0x18, 0xb2, 0x18)},
		{Color: rgb(0xb2, 0x68, 0x18)},
		{Color: rgb(0x18, 0x18, 0xb2)},
		{Color: rgb(0xb2, 0x18, 0xb2)},
		{Color: rgb(0x18, 0xb2, 0xb2)},
		{Color: rgb(0xb2, 0xb2, 0xb2)},
		{Color: rgb(0x00, 0x00, 0x00), Bold: true},
		{Color: rgb(0xff, 0xff, 0xff), Transparent: true},
		{Color: rgb(0x68, 0x68, 0x68)},
		{Color: rgb(0xff, 0x54, 0x54)},
		{Color: rgb(0x54, 0xff, 0x54)},
		{Color: rgb(0xff, 0xff, 0x54)},
		{Color: rgb(0x54, 0x54, 0xff)},
		{Color: rgb(0xff, 0x54, 0xff)},
		{Color: rgb(0x54, 0xff, 0xff)},
		{Color: rgb(0xff, 0xff, 0xff)},
	}
}
