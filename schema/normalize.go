package schema

// ClampBellMode bounds a stored bell mode to the known range.
func ClampBellMode(v int) BellMode {
	return BellMode(clamp(v, int(BellNone), int(BellVisual)))
}

// ClampScrollbar bounds a stored scrollbar position to the known range.
func ClampScrollbar(v int) ScrollbarPosition {
	return ScrollbarPosition(clamp(v, int(ScrollbarHidden), int(ScrollbarRight)))
}

// ClampFontIndex bounds a stored font index; the upper bound is the custom index.
func ClampFontIndex(v int) int {
	return clamp(v, 0, CustomFontIndex)
}

// ClampLineSpacing bounds a stored line spacing.
func ClampLineSpacing(v int) int {
	return clamp(v, 0, MaxLineSpacing)
}

// NormalizeSnapshot bounds every numeric field of a loaded snapshot.
func NormalizeSnapshot(s Snapshot) Snapshot {
	s.Bell = ClampBellMode(int(s.Bell))
	s.Scrollbar = ClampScrollbar(int(s.Scrollbar))
	s.Font = PresetFont(ClampFontIndex(s.Font.Index()))
	s.LineSpacing = ClampLineSpacing(s.LineSpacing)
	if s.HistorySize < 0 {
		s.HistorySize = 0
	}
	if s.SchemaID < 0 {
		s.SchemaID = DefaultSchemaID
	}
	if s.Keymap < 0 {
		s.Keymap = 0
	}
	if s.CustomFont == (FontDescriptor{}) {
		s.CustomFont = DefaultFontDescriptor()
	}
	return s
}

// ValidateBellMode rejects bell modes outside the known range.
func ValidateBellMode(m BellMode) error {
	if m < BellNone || m > BellVisual {
		return ErrInvalidBellMode
	}
	return nil
}

// ValidateScrollbar rejects scrollbar positions outside the known range.
func ValidateScrollbar(p ScrollbarPosition) error {
	if p < ScrollbarHidden || p > ScrollbarRight {
		return ErrInvalidScrollbar
	}
	return nil
}

// ValidateLineSpacing rejects spacing outside 0..MaxLineSpacing.
func ValidateLineSpacing(v int) error {
	if v < 0 || v > MaxLineSpacing {
		return ErrInvalidLineSpacing
	}
	return nil
}

// ValidateHistorySize rejects negative history sizes.
func ValidateHistorySize(v int) error {
	if v < 0 {
		return ErrInvalidHistorySize
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
