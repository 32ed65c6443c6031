// Package fonts resolves font selectors against the preset table and a font
// catalog.
package fonts

import (
	"sync"

	"pkt.systems/termpart/schema"
)

// Preset is one entry of the built-in font table. Raw is set for entries
// that name a font directly.
type Preset struct {
	PixelSize int
	Raw       string
}

// Descriptor returns the font the preset selects.
func (p Preset) Descriptor() schema.FontDescriptor {
	if p.Raw != "" {
		return schema.FontDescriptor{RawName: p.Raw}
	}
	return schema.FontDescriptor{Family: "fixed", PixelSize: p.PixelSize, FixedPitch: true}
}

var presetTable = sync.OnceValue(func() []Preset {
	return []Preset{
		{PixelSize: 13},
		{PixelSize: 7},
		{PixelSize: 10},
		{PixelSize: 13},
		{PixelSize: 15},
		{PixelSize: 20},
		{Raw: "-misc-console-medium-r-normal--16-160-72-72-c-160-iso10646-1"},
		{Raw: "-misc-fixed-medium-r-normal--15-140-75-75-c-90-iso10646-1"},
	}
})

// Presets returns a copy of the preset table.
func Presets() []Preset {
	table := presetTable()
	out := make([]Preset, len(table))
	copy(out, table)
	return out
}

// PresetAt returns the preset at index.
func PresetAt(index int) (Preset, bool) {
	table := presetTable()
	if index < 0 || index >= len(table) {
		return Preset{}, false
	}
	return table[index], true
}
