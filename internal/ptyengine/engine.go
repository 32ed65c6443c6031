// Package ptyengine is the bundled terminal engine: a shell on a pty, a
// headless emulator parsing its output and a headless view.
package ptyengine

import (
	"context"
	"fmt"
	"io"
	"sync"

	"pkt.systems/pslog"
	"pkt.systems/termpart/core"
	"pkt.systems/termpart/internal/logx"
	"pkt.systems/termpart/schema"
)

// Options configures the engine.
type Options struct {
	// Width and Height pin the view's pixel size when both are set.
	Width  int
	Height int
	// SpoolDir holds unbounded history spools; empty uses the temp dir.
	SpoolDir string
	// Output mirrors raw pty output while the session is connected.
	Output io.Writer
	// OnTitle and OnBell run on the reader goroutine.
	OnTitle func(title string)
	OnBell  func()
}

// Engine creates pty sessions and headless views.
type Engine struct {
	opts Options

	mu      sync.Mutex
	session *Session
}

// New returns an engine.
func New(opts Options) *Engine {
	return &Engine{opts: opts}
}

// NewView implements core.Engine.
func (e *Engine) NewView(_ context.Context, cfg schema.SessionConfig) (core.View, error) {
	return NewView(cfg.Columns, cfg.Rows, e.opts.Width, e.opts.Height), nil
}

// NewSession implements core.Engine. view must come from NewView.
func (e *Engine) NewSession(ctx context.Context, cfg schema.SessionConfig, view core.View) (core.Session, error) {
	v, ok := view.(*View)
	if !ok {
		return nil, fmt.Errorf("ptyengine: unsupported view %T", view)
	}
	s := newSession(cfg, v, e.opts, pslog.Ctx(ctx))
	s.log = logx.WithSession(ctx, s.id)
	e.mu.Lock()
	e.session = s
	e.mu.Unlock()
	return s, nil
}

// Session returns the most recently created session.
func (e *Engine) Session() *Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session
}
