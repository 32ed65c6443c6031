package history

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Spool is an unbounded line store backed by a temporary file. Line offsets
// are kept in memory; line text lives on disk.
type Spool struct {
	mu      sync.Mutex
	file    *os.File
	w       *bufio.Writer
	offsets []int64
	size    int64
	closed  bool
}

// NewSpool creates a spool file in dir. The file is removed on Close.
func NewSpool(dir string) (*Spool, error) {
	file, err := os.CreateTemp(dir, "termpart-history-*.spool")
	if err != nil {
		return nil, err
	}
	return &Spool{file: file, w: bufio.NewWriter(file)}, nil
}

// Path returns the backing file path.
func (s *Spool) Path() string {
	return s.file.Name()
}

// Append writes lines to the spool. Embedded newlines are replaced by spaces.
func (s *Spool) Append(lines ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	for _, line := range lines {
		line = strings.ReplaceAll(line, "\n", " ")
		n, err := s.w.WriteString(line + "\n")
		if err != nil {
			return
		}
		s.offsets = append(s.offsets, s.size)
		s.size += int64(n)
	}
}

// Len returns the number of spooled lines.
func (s *Spool) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.offsets)
}

// Line reads the line at index back from disk.
func (s *Spool) Line(index int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || index < 0 || index >= len(s.offsets) {
		return "", false
	}
	if err := s.w.Flush(); err != nil {
		return "", false
	}
	start := s.offsets[index]
	end := s.size
	if index+1 < len(s.offsets) {
		end = s.offsets[index+1]
	}
	buf := make([]byte, end-start)
	if _, err := s.file.ReadAt(buf, start); err != nil && err != io.EOF {
		return "", false
	}
	return strings.TrimSuffix(string(buf), "\n"), true
}

// Clear truncates the spool.
func (s *Spool) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.w.Reset(s.file)
	if err := s.file.Truncate(0); err != nil {
		return
	}
	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return
	}
	s.offsets = nil
	s.size = 0
}

// MaxLines is zero; the spool has no fixed limit.
func (s *Spool) MaxLines() int { return 0 }

// Close removes the backing file.
func (s *Spool) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	name := s.file.Name()
	closeErr := s.file.Close()
	if err := os.Remove(name); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove spool: %w", err)
	}
	return closeErr
}
