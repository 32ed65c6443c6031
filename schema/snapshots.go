package schema

// Snapshot is the persisted presentation configuration of a part.
type Snapshot struct {
	Font             FontSelector
	CustomFont       FontDescriptor
	HistoryEnabled   bool
	HistorySize      int
	SchemaID         SchemaID
	SchemaPath       string
	Keymap           KeymapID
	Bell             BellMode
	Scrollbar        ScrollbarPosition
	WordSeparators   string
	LineSpacing      int
	BlinkingCursor   bool
	FrameVisible     bool
	TerminalSizeHint bool
}

// DefaultSnapshot returns the configuration used when nothing is stored.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Font:             PresetFont(DefaultFontIndex),
		CustomFont:       DefaultFontDescriptor(),
		HistoryEnabled:   true,
		HistorySize:      DefaultHistorySize,
		SchemaID:         DefaultSchemaID,
		Keymap:           0,
		Bell:             BellSystem,
		Scrollbar:        ScrollbarRight,
		WordSeparators:   DefaultWordSeparators,
		TerminalSizeHint: true,
	}
}

// History returns the scrollback mode described by the snapshot.
func (s Snapshot) History() HistoryMode {
	if !s.HistoryEnabled {
		return DisabledHistory()
	}
	return BoundedHistory(s.HistorySize)
}
