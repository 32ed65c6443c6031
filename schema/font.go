package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// CustomFontIndex is the reserved selector index meaning "use the custom font".
// It is one past the last preset.
const CustomFontIndex = 8

// DefaultFontIndex is the preset used when nothing is configured.
const DefaultFontIndex = 3

// FontSelector picks either a preset font or the stored custom descriptor.
type FontSelector struct {
	custom bool
	index  int
}

// PresetFont selects the preset at index. Indexes at or past CustomFontIndex
// select the custom font.
func PresetFont(index int) FontSelector {
	if index >= CustomFontIndex {
		return CustomFont()
	}
	return FontSelector{index: index}
}

// CustomFont selects the stored custom descriptor.
func CustomFont() FontSelector {
	return FontSelector{custom: true, index: CustomFontIndex}
}

// IsCustom reports whether the custom descriptor is selected.
func (s FontSelector) IsCustom() bool {
	return s.custom
}

// Index returns the preset index, or CustomFontIndex for the custom font.
func (s FontSelector) Index() int {
	if s.custom {
		return CustomFontIndex
	}
	return s.index
}

func (s FontSelector) String() string {
	if s.custom {
		return "custom"
	}
	return "preset(" + strconv.Itoa(s.index) + ")"
}

// FontDescriptor describes a concrete font. RawName, when set, is an X logical
// font description and takes precedence over the other fields.
type FontDescriptor struct {
	Family     string
	PixelSize  int
	FixedPitch bool
	RawName    string
}

// DefaultFontDescriptor is the custom font fallback.
func DefaultFontDescriptor() FontDescriptor {
	return FontDescriptor{Family: "fixed"}
}

// IsRaw reports whether the descriptor is a raw font name.
func (d FontDescriptor) IsRaw() bool {
	return d.RawName != ""
}

// Name returns the user-facing font name.
func (d FontDescriptor) Name() string {
	if d.RawName != "" {
		return d.RawName
	}
	if d.PixelSize > 0 {
		return d.Family + " " + strconv.Itoa(d.PixelSize) + "px"
	}
	return d.Family
}

// String encodes the descriptor as "family,pixelSize[,fixed]" or the raw name.
func (d FontDescriptor) String() string {
	if d.RawName != "" {
		return d.RawName
	}
	if d.PixelSize <= 0 && !d.FixedPitch {
		return d.Family
	}
	out := d.Family + "," + strconv.Itoa(d.PixelSize)
	if d.FixedPitch {
		out += ",fixed"
	}
	return out
}

// ParseFontDescriptor decodes the String form.
func ParseFontDescriptor(value string) (FontDescriptor, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return FontDescriptor{}, ErrInvalidFont
	}
	if strings.HasPrefix(trimmed, "-") {
		return FontDescriptor{RawName: trimmed}, nil
	}
	parts := strings.Split(trimmed, ",")
	desc := FontDescriptor{Family: strings.TrimSpace(parts[0])}
	if desc.Family == "" {
		return FontDescriptor{}, ErrInvalidFont
	}
	if len(parts) > 1 {
		size, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil || size < 0 {
			return FontDescriptor{}, fmt.Errorf("%w: pixel size %q", ErrInvalidFont, parts[1])
		}
		desc.PixelSize = size
	}
	for _, flag := range parts[min(len(parts), 2):] {
		switch strings.TrimSpace(flag) {
		case "fixed":
			desc.FixedPitch = true
		case "":
		default:
			return FontDescriptor{}, fmt.Errorf("%w: flag %q", ErrInvalidFont, flag)
		}
	}
	return desc, nil
}
