package ptyengine

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	headlessterm "github.com/danielgatis/go-headless-term"
	"pkt.systems/termpart/internal/eventloop"
	"pkt.systems/termpart/internal/history"
	"pkt.systems/termpart/schema"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func startShell(t *testing.T, opts Options, script string) (*Session, *eventloop.Loop, <-chan schema.SessionExit) {
	t.Helper()
	ctx := context.Background()
	cfg := schema.SessionConfig{
		Shell:      "/bin/sh",
		Args:       []string{"-c", script},
		Term:       schema.DefaultTerm,
		WorkingDir: t.TempDir(),
		Columns:    80,
		Rows:       24,
	}
	engine := New(opts)
	view, err := engine.NewView(ctx, cfg)
	if err != nil {
		t.Fatalf("new view: %v", err)
	}
	sess, err := engine.NewSession(ctx, cfg, view)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	loop := eventloop.New(ctx)
	t.Cleanup(loop.Stop)
	exits := make(chan schema.SessionExit, 1)
	sess.Done().Subscribe(loop, func(exit schema.SessionExit) { exits <- exit })
	if err := sess.Run(ctx); err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	s := engine.Session()
	t.Cleanup(s.Destroy)
	return s, loop, exits
}

func waitExit(t *testing.T, exits <-chan schema.SessionExit) schema.SessionExit {
	t.Helper()
	select {
	case exit := <-exits:
		return exit
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for shell exit")
	}
	return schema.SessionExit{}
}

func TestSessionReportsExitAndOutput(t *testing.T) {
	mirror := &syncBuffer{}
	sess, _, exits := startShell(t, Options{Output: mirror}, "printf 'hello world'; exit 3")

	exit := waitExit(t, exits)
	if exit.Status != 3 || exit.Err != nil {
		t.Fatalf("unexpected exit %+v", exit)
	}
	if !strings.Contains(sess.Screen(), "hello world") {
		t.Fatalf("screen missing output: %q", sess.Screen())
	}
	if !strings.Contains(mirror.String(), "hello world") {
		t.Fatalf("mirror missing output: %q", mirror.String())
	}
	if err := sess.SendSignal(schema.SignalINT); !errors.Is(err, schema.ErrSessionGone) {
		t.Fatalf("expected ErrSessionGone, got %v", err)
	}
}

func TestSessionSignalEndsShell(t *testing.T) {
	sess, _, exits := startShell(t, Options{}, "sleep 30")
	if err := sess.SendSignal(schema.SignalTERM); err != nil {
		t.Fatalf("signal: %v", err)
	}
	exit := waitExit(t, exits)
	if exit.Status != 128+int(schema.SignalTERM) {
		t.Fatalf("unexpected status %d", exit.Status)
	}
}

func TestDestroyFiresOnce(t *testing.T) {
	sess, loop, _ := startShell(t, Options{}, "sleep 30")
	var mu sync.Mutex
	count := 0
	fired := make(chan struct{}, 2)
	sess.Destroyed().Subscribe(loop, func(struct{}) {
		mu.Lock()
		count++
		mu.Unlock()
		fired <- struct{}{}
	})
	sess.Terminate()
	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for destroyed")
	}
	sess.Destroy()
	if err := loop.Do(context.Background(), func() error { return nil }); err != nil {
		t.Fatalf("drain loop: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if count != 1 {
		t.Fatalf("destroyed fired %d times", count)
	}
	if err := sess.SendInput("echo\n"); !errors.Is(err, schema.ErrSessionGone) {
		t.Fatalf("expected ErrSessionGone, got %v", err)
	}
}

func TestScrollbackKeepsText(t *testing.T) {
	sb := scrollback{store: history.NewBuffer(2)}
	for _, line := range []string{"one", "two", "three"} {
		sb.Push(textCells(line + "  "))
	}
	if sb.Len() != 2 || sb.MaxLines() != 2 {
		t.Fatalf("unexpected len %d max %d", sb.Len(), sb.MaxLines())
	}
	if got := cellsText(sb.Line(0)); got != "two" {
		t.Fatalf("unexpected oldest line %q", got)
	}
	if sb.Line(5) != nil {
		t.Fatalf("expected nil for missing line")
	}
	blank := []headlessterm.Cell{{Char: 'a'}, {}, {Char: 'b'}}
	if got := cellsText(blank); got != "a b" {
		t.Fatalf("unexpected text %q", got)
	}
	sb.Clear()
	if sb.Len() != 0 {
		t.Fatalf("expected empty after clear")
	}
}

func TestViewSize(t *testing.T) {
	v := NewView(80, 24, 0, 0)
	v.SetFont(schema.FontDescriptor{Family: "fixed", PixelSize: 13, FixedPitch: true})
	if w, h := v.Size(); w != 640 || h != 312 {
		t.Fatalf("unexpected size %dx%d", w, h)
	}
	v.SetLineSpacing(2)
	if _, h := v.Size(); h != 360 {
		t.Fatalf("unexpected height with spacing %d", h)
	}
	v.setGrid(100, 10)
	if cols, rows := v.Grid(); cols != 100 || rows != 10 {
		t.Fatalf("unexpected grid %dx%d", cols, rows)
	}
	pinned := NewView(80, 24, 500, 300)
	if w, h := pinned.Size(); w != 500 || h != 300 {
		t.Fatalf("unexpected pinned size %dx%d", w, h)
	}
}

func TestSetHistorySwapsStore(t *testing.T) {
	cfg := schema.SessionConfig{Shell: "/bin/sh", Term: schema.DefaultTerm, Columns: 80, Rows: 24}
	s := newSession(cfg, NewView(80, 24, 0, 0), Options{SpoolDir: t.TempDir()}, nil)
	if err := s.SetHistory(schema.UnboundedHistory()); err != nil {
		t.Fatalf("unbounded: %v", err)
	}
	spool, ok := s.store.(*history.Spool)
	if !ok {
		t.Fatalf("expected spool store, got %T", s.store)
	}
	if err := s.SetHistory(schema.BoundedHistory(10)); err != nil {
		t.Fatalf("bounded: %v", err)
	}
	if _, ok := s.store.(*history.Buffer); !ok {
		t.Fatalf("expected buffer store, got %T", s.store)
	}
	if _, err := os.Stat(spool.Path()); err == nil {
		t.Fatalf("spool file not removed")
	}
	s.Destroy()
}

func TestSetHistoryAfterDestroy(t *testing.T) {
	spoolDir := t.TempDir()
	cfg := schema.SessionConfig{Shell: "/bin/sh", Term: schema.DefaultTerm, Columns: 80, Rows: 24}
	s := newSession(cfg, NewView(80, 24, 0, 0), Options{SpoolDir: spoolDir}, nil)
	s.Destroy()
	if err := s.SetHistory(schema.UnboundedHistory()); !errors.Is(err, schema.ErrSessionGone) {
		t.Fatalf("expected ErrSessionGone, got %v", err)
	}
	entries, err := os.ReadDir(spoolDir)
	if err != nil {
		t.Fatalf("read spool dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("spool left behind: %v", entries)
	}
	if _, ok := s.store.(history.Discard); !ok {
		t.Fatalf("store replaced after destroy: %T", s.store)
	}
}
