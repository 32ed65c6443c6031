package history

import (
	"fmt"

	"pkt.systems/termpart/schema"
)

// Store keeps lines that scrolled off the top of the screen. Index 0 is the
// oldest retained line.
type Store interface {
	Append(lines ...string)
	Len() int
	Line(index int) (string, bool)
	Clear()
	// MaxLines is zero for stores without a fixed limit.
	MaxLines() int
	Close() error
}

// NewStore returns the store backing mode. Unbounded stores spool to a file
// under dir, or the system temp dir when dir is empty.
func NewStore(mode schema.HistoryMode, dir string) (Store, error) {
	switch mode.Kind() {
	case schema.HistoryDisabled:
		return Discard{}, nil
	case schema.HistoryBounded:
		return NewBuffer(mode.Size()), nil
	case schema.HistoryUnbounded:
		spool, err := NewSpool(dir)
		if err != nil {
			return nil, fmt.Errorf("history spool: %w", err)
		}
		return spool, nil
	default:
		return nil, fmt.Errorf("unknown history mode %v", mode)
	}
}

// Discard keeps nothing.
type Discard struct{}

// Append drops lines.
func (Discard) Append(...string) {}

// Len is always zero.
func (Discard) Len() int { return 0 }

// Line never finds a line.
func (Discard) Line(int) (string, bool) { return "", false }

// Clear does nothing.
func (Discard) Clear() {}

// MaxLines is zero.
func (Discard) MaxLines() int { return 0 }

// Close does nothing.
func (Discard) Close() error { return nil }
