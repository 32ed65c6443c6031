package core

import (
	"context"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"pkt.systems/termpart/internal/eventloop"
	"pkt.systems/termpart/schema"
)

type fakeEngine struct {
	view       *fakeView
	session    *fakeSession
	sessionErr error
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		view:    &fakeView{width: 80, height: 40},
		session: newFakeSession(),
	}
}

func (e *fakeEngine) NewView(context.Context, schema.SessionConfig) (View, error) {
	return e.view, nil
}

func (e *fakeEngine) NewSession(_ context.Context, cfg schema.SessionConfig, _ View) (Session, error) {
	if e.sessionErr != nil {
		return nil, e.sessionErr
	}
	e.session.mu.Lock()
	e.session.cfg = cfg
	e.session.mu.Unlock()
	return e.session, nil
}

type fakeSession struct {
	mu        sync.Mutex
	cfg       schema.SessionConfig
	done      *eventloop.Signal[schema.SessionExit]
	destroyed *eventloop.Signal[struct{}]

	runErr         error
	signalErr      error
	exitOnHUP      bool
	destroyOnTerm  bool
	connected      bool
	running        bool
	terminateCalls int
	destroyCalls   int
	signals        []schema.Signal
	inputs         []string
	schemaID       schema.SchemaID
	keymap         schema.KeymapID
	fontNumber     int
	history        []schema.HistoryMode
	cols, rows     int
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		done:          eventloop.NewSignal[schema.SessionExit](),
		destroyed:     eventloop.NewSignal[struct{}](),
		connected:     true,
		destroyOnTerm: true,
		exitOnHUP:     true,
	}
}

func (s *fakeSession) ID() string { return "fake-1" }

func (s *fakeSession) Run(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runErr != nil {
		return s.runErr
	}
	s.running = true
	return nil
}

func (s *fakeSession) Done() *eventloop.Signal[schema.SessionExit] { return s.done }

func (s *fakeSession) Destroyed() *eventloop.Signal[struct{}] { return s.destroyed }

func (s *fakeSession) SetConnected(connected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = connected
}

func (s *fakeSession) Terminate() {
	s.mu.Lock()
	s.terminateCalls++
	destroy := s.destroyOnTerm
	s.mu.Unlock()
	if destroy {
		s.destroyed.Emit(struct{}{})
	}
}

func (s *fakeSession) Destroy() {
	s.mu.Lock()
	s.destroyCalls++
	s.mu.Unlock()
	s.destroyed.Emit(struct{}{})
}

func (s *fakeSession) SendSignal(sig schema.Signal) error {
	s.mu.Lock()
	if s.signalErr != nil {
		err := s.signalErr
		s.mu.Unlock()
		return err
	}
	s.signals = append(s.signals, sig)
	exit := s.exitOnHUP && sig == schema.SignalHUP
	s.mu.Unlock()
	if exit {
		s.done.Emit(schema.SessionExit{Status: 129})
	}
	return nil
}

func (s *fakeSession) SendInput(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputs = append(s.inputs, text)
	return nil
}

func (s *fakeSession) Resize(cols, rows int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cols, s.rows = cols, rows
	return nil
}

func (s *fakeSession) SetSchemaID(id schema.SchemaID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schemaID = id
}

func (s *fakeSession) SetKeymap(id schema.KeymapID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keymap = id
}

func (s *fakeSession) SetFontNumber(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fontNumber = n
}

func (s *fakeSession) SetHistory(mode schema.HistoryMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, mode)
	return nil
}

func (s *fakeSession) counts() (terminate, destroy int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.terminateCalls, s.destroyCalls
}

type fakeView struct {
	mu            sync.Mutex
	width, height int
	table         schema.ColorTable
	bgImage       image.Image
	bgColor       color.RGBA
	font          schema.FontDescriptor
	frame         bool
	scrollbar     schema.ScrollbarPosition
	bell          schema.BellMode
	lineSpacing   int
	blink         bool
	wordSeps      string
	sizeHint      bool
	closed        int
}

func (v *fakeView) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed++
	return nil
}

func (v *fakeView) SetColorTable(table schema.ColorTable) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.table = table
}

func (v *fakeView) SetBackgroundImage(img image.Image, _ bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.bgImage = img
}

func (v *fakeView) SetBackgroundColor(c color.RGBA) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.bgColor = c
}

func (v *fakeView) DefaultBackgroundColor() color.RGBA {
	return color.RGBA{A: 0xff}
}

func (v *fakeView) Size() (int, int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width, v.height
}

func (v *fakeView) SetFont(font schema.FontDescriptor) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.font = font
}

func (v *fakeView) SetFrameVisible(visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.frame = visible
}

func (v *fakeView) SetScrollbar(pos schema.ScrollbarPosition) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scrollbar = pos
}

func (v *fakeView) SetBellMode(mode schema.BellMode) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.bell = mode
}

func (v *fakeView) SetLineSpacing(pixels int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lineSpacing = pixels
}

func (v *fakeView) SetBlinkingCursor(blink bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.blink = blink
}

func (v *fakeView) SetWordSeparators(seps string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.wordSeps = seps
}

func (v *fakeView) SetTerminalSizeHint(show bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sizeHint = show
}

func (v *fakeView) currentFont() schema.FontDescriptor {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.font
}

type fakeHost struct {
	mu        sync.Mutex
	started   int
	completed int
	destroyed int
	captions  []string
	errors    []string
}

func (h *fakeHost) Started() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.started++
}

func (h *fakeHost) Completed() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.completed++
}

func (h *fakeHost) SetWindowCaption(text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.captions = append(h.captions, text)
}

func (h *fakeHost) ShowError(text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors = append(h.errors, text)
}

func (h *fakeHost) Destroyed() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.destroyed++
}

func (h *fakeHost) destroyedCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.destroyed
}

func waitDone(t *testing.T, ctrl *Controller) {
	t.Helper()
	select {
	case <-ctrl.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for controller teardown, state %v", ctrl.State())
	}
}

func waitState(t *testing.T, ctrl *Controller, want schema.ControllerState) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for ctrl.State() != want {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for state %v, got %v", want, ctrl.State())
		}
		time.Sleep(time.Millisecond)
	}
}
