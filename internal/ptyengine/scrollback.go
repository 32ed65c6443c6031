package ptyengine

import (
	"strings"

	headlessterm "github.com/danielgatis/go-headless-term"
	"pkt.systems/termpart/internal/history"
)

// scrollback stores lines leaving the primary screen in a history store.
// Attributes are dropped; only text survives.
type scrollback struct {
	store history.Store
}

func (s scrollback) Push(line []headlessterm.Cell) {
	s.store.Append(cellsText(line))
}

func (s scrollback) Len() int {
	return s.store.Len()
}

func (s scrollback) Line(index int) []headlessterm.Cell {
	text, ok := s.store.Line(index)
	if !ok {
		return nil
	}
	return textCells(text)
}

func (s scrollback) Clear() {
	s.store.Clear()
}

// SetMaxLines is ignored; the store's limit follows the history mode.
func (s scrollback) SetMaxLines(int) {}

func (s scrollback) MaxLines() int {
	return s.store.MaxLines()
}

func cellsText(cells []headlessterm.Cell) string {
	var b strings.Builder
	for _, c := range cells {
		if c.Char == 0 {
			b.WriteByte(' ')
			continue
		}
		b.WriteRune(c.Char)
	}
	return strings.TrimRight(b.String(), " ")
}

func textCells(text string) []headlessterm.Cell {
	cells := make([]headlessterm.Cell, 0, len(text))
	for _, r := range text {
		cells = append(cells, headlessterm.Cell{Char: r})
	}
	return cells
}
