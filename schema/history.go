package schema

import "strconv"

// HistoryKind tags the scrollback retention policy.
type HistoryKind int

const (
	// HistoryDisabled keeps no scrollback.
	HistoryDisabled HistoryKind = iota
	// HistoryBounded keeps a fixed number of lines.
	HistoryBounded
	// HistoryUnbounded spools every line without a fixed size.
	HistoryUnbounded
)

// DefaultHistorySize is the scrollback size used when nothing is configured.
const DefaultHistorySize = 1000

// HistoryMode is the active scrollback policy. The zero value is disabled.
// A bounded mode always has a positive size.
type HistoryMode struct {
	kind HistoryKind
	size int
}

// DisabledHistory returns the mode that keeps no scrollback.
func DisabledHistory() HistoryMode {
	return HistoryMode{kind: HistoryDisabled}
}

// BoundedHistory returns a fixed-size mode. A size of zero or less selects
// the unbounded mode instead.
func BoundedHistory(size int) HistoryMode {
	if size <= 0 {
		return UnboundedHistory()
	}
	return HistoryMode{kind: HistoryBounded, size: size}
}

// UnboundedHistory returns the spooled mode.
func UnboundedHistory() HistoryMode {
	return HistoryMode{kind: HistoryUnbounded}
}

// Kind reports the policy tag.
func (m HistoryMode) Kind() HistoryKind {
	return m.kind
}

// Size reports the line limit; zero for disabled and unbounded modes.
func (m HistoryMode) Size() int {
	return m.size
}

// Enabled reports whether any scrollback is kept.
func (m HistoryMode) Enabled() bool {
	return m.kind != HistoryDisabled
}

func (m HistoryMode) String() string {
	switch m.kind {
	case HistoryBounded:
		return "bounded(" + strconv.Itoa(m.size) + ")"
	case HistoryUnbounded:
		return "unbounded"
	default:
		return "disabled"
	}
}
