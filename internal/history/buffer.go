package history

import "sync"

// View is a snapshot of a buffer's visible window.
type View struct {
	Lines        []string
	TotalLines   int
	ScrollOffset int
	AtBottom     bool
}

// Buffer is a bounded in-memory line store with a scroll position.
// ScrollOffset is the number of lines from the bottom; 0 means at bottom.
type Buffer struct {
	mu           sync.Mutex
	lines        []string
	scrollOffset int
	maxLines     int
}

// NewBuffer returns a buffer that keeps at most maxLines lines.
func NewBuffer(maxLines int) *Buffer {
	if maxLines <= 0 {
		maxLines = 1
	}
	return &Buffer{maxLines: maxLines}
}

// Append adds lines. A scrolled-up view stays anchored on the same lines.
func (b *Buffer) Append(lines ...string) {
	if len(lines) == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = append(b.lines, lines...)
	if b.scrollOffset > 0 {
		b.scrollOffset += len(lines)
	}
	if len(b.lines) > b.maxLines {
		trim := len(b.lines) - b.maxLines
		kept := make([]string, b.maxLines)
		copy(kept, b.lines[trim:])
		b.lines = kept
		if b.scrollOffset > len(b.lines) {
			b.scrollOffset = len(b.lines)
		}
	}
}

// Len returns the number of retained lines.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.lines)
}

// Line returns the line at index, oldest first.
func (b *Buffer) Line(index int) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if index < 0 || index >= len(b.lines) {
		return "", false
	}
	return b.lines[index], true
}

// Clear drops all lines and returns to the bottom.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = nil
	b.scrollOffset = 0
}

// MaxLines returns the line limit.
func (b *Buffer) MaxLines() int {
	return b.maxLines
}

// Close does nothing.
func (b *Buffer) Close() error { return nil }

// Scroll adjusts the scroll offset by delta. Positive delta scrolls up toward
// older lines. Limit is the viewport height.
func (b *Buffer) Scroll(delta, limit int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.scrollOffset = clampScroll(b.scrollOffset+delta, len(b.lines), limit)
}

// ResetScroll returns the view to the bottom.
func (b *Buffer) ResetScroll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.scrollOffset = 0
}

// Snapshot returns the window of limit lines at the current scroll offset.
func (b *Buffer) Snapshot(limit int) View {
	b.mu.Lock()
	defer b.mu.Unlock()
	total := len(b.lines)
	if limit <= 0 || limit > total {
		limit = total
	}
	if m := maxScroll(total, limit); b.scrollOffset > m {
		b.scrollOffset = m
	}
	end := total - b.scrollOffset
	start := max(end-limit, 0)
	lines := make([]string, end-start)
	copy(lines, b.lines[start:end])
	return View{
		Lines:        lines,
		TotalLines:   total,
		ScrollOffset: b.scrollOffset,
		AtBottom:     b.scrollOffset == 0,
	}
}

func maxScroll(total, limit int) int {
	if total <= 0 || limit <= 0 || total <= limit {
		return 0
	}
	return total - limit
}

func clampScroll(offset, total, limit int) int {
	if offset < 0 {
		return 0
	}
	if m := maxScroll(total, limit); offset > m {
		return m
	}
	return offset
}
