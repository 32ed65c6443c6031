// Package presentation applies color schemas and background rendering to a
// view.
package presentation

import (
	"image"
	"image/color"

	"pkt.systems/termpart/schema"
)

// Canvas is the part of a view the presentation layer drives. Implementations
// must be safe for concurrent use; the compositor pushes frames from its own
// goroutine.
type Canvas interface {
	SetColorTable(table schema.ColorTable)
	// SetBackgroundImage installs img as the background; tiled repeats it.
	// A nil image removes the background image.
	SetBackgroundImage(img image.Image, tiled bool)
	SetBackgroundColor(c color.RGBA)
	DefaultBackgroundColor() color.RGBA
	Size() (width, height int)
}
