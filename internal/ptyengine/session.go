package ptyengine

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/creack/pty"
	headlessterm "github.com/danielgatis/go-headless-term"
	"golang.org/x/sys/unix"
	"pkt.systems/pslog"
	"pkt.systems/termpart/internal/eventloop"
	"pkt.systems/termpart/internal/history"
	"pkt.systems/termpart/schema"
)

const killGrace = 2 * time.Second

// Session runs a shell on a pty and feeds its output through a headless
// emulator.
type Session struct {
	id       string
	cfg      schema.SessionConfig
	view     *View
	term     *headlessterm.Terminal
	log      pslog.Logger
	spoolDir string
	output   io.Writer
	onTitle  func(string)
	onBell   func()

	done      *eventloop.Signal[schema.SessionExit]
	destroyed *eventloop.Signal[struct{}]

	connected  atomic.Bool
	schemaID   atomic.Int32
	keymap     atomic.Int32
	fontNumber atomic.Int32

	mu       sync.Mutex
	cmd      *exec.Cmd
	ptmx     *os.File
	store    history.Store
	exited   chan struct{}
	released bool

	destroyOnce sync.Once
}

func newSession(cfg schema.SessionConfig, view *View, opts Options, log pslog.Logger) *Session {
	if log == nil {
		log = pslog.Ctx(context.Background())
	}
	s := &Session{
		id:        newSessionID(),
		cfg:       cfg,
		view:      view,
		log:       log,
		spoolDir:  opts.SpoolDir,
		output:    opts.Output,
		onTitle:   opts.OnTitle,
		onBell:    opts.OnBell,
		done:      eventloop.NewSignal[schema.SessionExit](),
		destroyed: eventloop.NewSignal[struct{}](),
		store:     history.Discard{},
	}
	s.connected.Store(true)
	s.term = headlessterm.New(
		headlessterm.WithSize(cfg.Rows, cfg.Columns),
		headlessterm.WithResponse(responder{s}),
		headlessterm.WithTitle(titleTracker{s}),
		headlessterm.WithScrollback(scrollback{store: s.store}),
		headlessterm.WithMiddleware(&headlessterm.Middleware{
			Bell: func(next func()) {
				if s.onBell != nil {
					s.onBell()
				}
				next()
			},
		}),
	)
	return s
}

func newSessionID() string {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "session-unknown"
	}
	return hex.EncodeToString(buf[:])
}

// ID identifies the session in logs.
func (s *Session) ID() string { return s.id }

// Done fires once with the exit status of the shell.
func (s *Session) Done() *eventloop.Signal[schema.SessionExit] { return s.done }

// Destroyed fires once after the pty and process are released.
func (s *Session) Destroyed() *eventloop.Signal[struct{}] { return s.destroyed }

// Run starts the shell.
func (s *Session) Run(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cmd != nil {
		return errors.New("session already running")
	}
	argv := s.cfg.Argv()
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = s.cfg.WorkingDir
	cmd.Env = s.cfg.Env()
	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Cols: uint16(s.cfg.Columns),
		Rows: uint16(s.cfg.Rows),
	})
	if err != nil {
		return fmt.Errorf("start %s: %w", s.cfg.Shell, err)
	}
	s.cmd = cmd
	s.ptmx = ptmx
	s.exited = make(chan struct{})
	s.log.Info("pty started", "pid", cmd.Process.Pid, "shell", s.cfg.Shell)

	readDone := make(chan struct{})
	go s.readLoop(ptmx, readDone)
	go s.wait(cmd, readDone)
	return nil
}

func (s *Session) readLoop(r io.Reader, done chan<- struct{}) {
	defer close(done)
	buf := make([]byte, 32*1024)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			_, _ = s.term.Write(buf[:n])
			if s.output != nil && s.connected.Load() {
				_, _ = s.output.Write(buf[:n])
			}
		}
		if err != nil {
			return
		}
	}
}

// wait reaps the shell once its output is drained and reports the exit.
func (s *Session) wait(cmd *exec.Cmd, readDone <-chan struct{}) {
	err := cmd.Wait()
	select {
	case <-readDone:
	case <-time.After(killGrace):
		s.log.Warn("pty output still open after exit", "pid", cmd.Process.Pid)
	}
	exit := schema.SessionExit{Status: exitStatus(err)}
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		exit.Err = err
	}
	s.log.Info("pty exited", "pid", cmd.Process.Pid, "status", exit.Status)
	close(s.exited)
	s.done.Emit(exit)
}

func exitStatus(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return -1
	}
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return exitErr.ExitCode()
}

// SetConnected gates copying output to the mirror writer.
func (s *Session) SetConnected(connected bool) {
	s.connected.Store(connected)
}

// Terminate releases the session in the background and fires Destroyed.
func (s *Session) Terminate() {
	go s.release()
}

// Destroy releases the session before returning.
func (s *Session) Destroy() {
	s.release()
}

func (s *Session) release() {
	s.destroyOnce.Do(func() {
		s.mu.Lock()
		cmd, ptmx, exited, store := s.cmd, s.ptmx, s.exited, s.store
		s.released = true
		s.mu.Unlock()
		if ptmx != nil {
			_ = ptmx.Close()
		}
		if cmd != nil {
			select {
			case <-exited:
			case <-time.After(killGrace):
				s.log.Warn("pty kill", "pid", cmd.Process.Pid)
				_ = cmd.Process.Kill()
				<-exited
			}
		}
		if err := store.Close(); err != nil {
			s.log.Warn("history close failed", "err", err)
		}
		s.log.Debug("pty released")
		s.destroyed.Emit(struct{}{})
	})
}

func (s *Session) alive() (*exec.Cmd, *os.File, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cmd == nil {
		return nil, nil, false
	}
	select {
	case <-s.exited:
		return nil, nil, false
	default:
	}
	return s.cmd, s.ptmx, true
}

// SendSignal delivers sig to the shell's process group.
func (s *Session) SendSignal(sig schema.Signal) error {
	cmd, _, ok := s.alive()
	if !ok {
		return schema.ErrSessionGone
	}
	if err := unix.Kill(-cmd.Process.Pid, unix.Signal(sig)); err != nil {
		if errors.Is(err, unix.ESRCH) {
			return unix.Kill(cmd.Process.Pid, unix.Signal(sig))
		}
		return err
	}
	return nil
}

// SendInput writes text to the pty.
func (s *Session) SendInput(text string) error {
	_, ptmx, ok := s.alive()
	if !ok {
		return schema.ErrSessionGone
	}
	_, err := io.WriteString(ptmx, text)
	return err
}

// Write forwards raw keyboard input to the pty.
func (s *Session) Write(p []byte) (int, error) {
	_, ptmx, ok := s.alive()
	if !ok {
		return 0, schema.ErrSessionGone
	}
	return ptmx.Write(p)
}

// Resize changes the pty and emulator grid.
func (s *Session) Resize(cols, rows int) error {
	if cols <= 0 || rows <= 0 || cols > 0xffff || rows > 0xffff {
		return fmt.Errorf("invalid terminal size %dx%d", cols, rows)
	}
	_, ptmx, ok := s.alive()
	if ok {
		if err := pty.Setsize(ptmx, &pty.Winsize{Cols: uint16(cols), Rows: uint16(rows)}); err != nil {
			return fmt.Errorf("pty resize: %w", err)
		}
	}
	s.term.Resize(rows, cols)
	s.view.setGrid(cols, rows)
	return nil
}

func (s *Session) SetSchemaID(id schema.SchemaID) {
	s.schemaID.Store(int32(id))
}

func (s *Session) SetKeymap(id schema.KeymapID) {
	s.keymap.Store(int32(id))
}

func (s *Session) SetFontNumber(n int) {
	s.fontNumber.Store(int32(n))
}

// SetHistory swaps the scrollback store. Lines kept by the previous store
// are discarded. A released session has no store to swap.
func (s *Session) SetHistory(mode schema.HistoryMode) error {
	s.mu.Lock()
	released := s.released
	s.mu.Unlock()
	if released {
		return schema.ErrSessionGone
	}
	store, err := history.NewStore(mode, s.spoolDir)
	if err != nil {
		return err
	}
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		_ = store.Close()
		return schema.ErrSessionGone
	}
	old := s.store
	s.store = store
	s.mu.Unlock()
	s.term.SetScrollbackProvider(scrollback{store: store})
	if err := old.Close(); err != nil {
		s.log.Warn("history close failed", "err", err)
	}
	s.log.Debug("history mode", "mode", mode.String())
	return nil
}

// Screen returns the visible text.
func (s *Session) Screen() string {
	return s.term.String()
}

// Title returns the last title the shell set.
func (s *Session) Title() string {
	return s.term.Title()
}

// HistoryLen reports the number of stored scrollback lines.
func (s *Session) HistoryLen() int {
	return s.term.ScrollbackLen()
}

// responder writes emulator replies back to the shell.
type responder struct{ s *Session }

func (r responder) Write(p []byte) (int, error) {
	return r.s.Write(p)
}

// titleTracker forwards title changes.
type titleTracker struct{ s *Session }

func (t titleTracker) SetTitle(title string) {
	if t.s.onTitle != nil {
		t.s.onTitle(title)
	}
}

func (titleTracker) PushTitle() {}

func (titleTracker) PopTitle() {}
