// Package history holds the scrollback policy and the stores backing each
// history mode.
package history

import "pkt.systems/termpart/schema"

// Policy tracks the active history mode and the last size the user chose,
// which survives while history is disabled.
type Policy struct {
	mode schema.HistoryMode
	size int
}

// NewPolicy returns a policy initialized from a stored enabled flag and size.
func NewPolicy(enabled bool, size int) *Policy {
	p := &Policy{}
	p.Set(enabled, size)
	return p
}

// Set replaces the active mode. Disabled ignores size but remembers it;
// enabled with size zero selects the unbounded spool.
func (p *Policy) Set(enabled bool, size int) schema.HistoryMode {
	if size < 0 {
		size = 0
	}
	p.size = size
	if !enabled {
		p.mode = schema.DisabledHistory()
		return p.mode
	}
	p.mode = schema.BoundedHistory(size)
	return p.mode
}

// Mode returns the active mode.
func (p *Policy) Mode() schema.HistoryMode {
	return p.mode
}

// Enabled reports whether any history is kept.
func (p *Policy) Enabled() bool {
	return p.mode.Enabled()
}

// Size returns the remembered size, including while disabled.
func (p *Policy) Size() int {
	return p.size
}
