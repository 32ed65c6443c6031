package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"pkt.systems/pslog"
	"pkt.systems/termpart/internal/eventloop"
	"pkt.systems/termpart/internal/fonts"
	"pkt.systems/termpart/internal/history"
	"pkt.systems/termpart/internal/logx"
	"pkt.systems/termpart/internal/presentation"
	"pkt.systems/termpart/internal/schemas"
	"pkt.systems/termpart/schema"
)

// Controller owns one terminal session and its presentation settings. All
// state changes run on the controller's event loop.
type Controller struct {
	ctx  context.Context
	log  pslog.Logger
	cfg  schema.SessionConfig
	loop *eventloop.Loop

	host     HostSink
	settings SettingsStore
	fonts    FontResolver
	schemas  *schemas.Collection
	view     View
	present  *presentation.Manager
	history  *history.Policy

	session         Session
	sessionID       string
	cancelDone      func()
	cancelDestroyed func()
	snap            schema.Snapshot

	state    atomic.Int32
	done     chan struct{}
	doneOnce sync.Once
}

// NewController creates the view and session, applies the stored settings
// and starts the shell.
func NewController(ctx context.Context, cfg schema.SessionConfig, deps ControllerDeps) (*Controller, error) {
	if deps.Engine == nil {
		return nil, schema.ErrEngineRequired
	}
	cfg, err := schema.NormalizeSessionConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("session config: %w", err)
	}
	if deps.Logger != nil {
		ctx = pslog.ContextWithLogger(ctx, deps.Logger)
	}
	ctx = context.WithoutCancel(ctx)
	c := &Controller{
		cfg:      cfg,
		host:     deps.Host,
		settings: deps.Settings,
		fonts:    deps.Fonts,
		schemas:  deps.Schemas,
		done:     make(chan struct{}),
	}
	if c.host == nil {
		c.host = nopHost{}
	}
	if c.settings == nil {
		c.settings = &memorySettings{}
	}
	if c.fonts == nil {
		c.fonts = fonts.NewResolver(nil)
	}
	if c.schemas == nil {
		c.schemas = schemas.NewCollection(ctx)
	}
	c.state.Store(int32(schema.StateInitializing))

	view, err := deps.Engine.NewView(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create view: %w", err)
	}
	session, err := deps.Engine.NewSession(ctx, cfg, view)
	if err != nil {
		releaseView(view)
		return nil, fmt.Errorf("create session: %w", err)
	}
	c.sessionID = session.ID()
	ctx = logx.ContextWithSession(ctx, c.sessionID)
	c.ctx = ctx
	c.log = pslog.Ctx(ctx)
	c.loop = eventloop.New(ctx)
	c.view = view
	c.session = session
	c.present = presentation.NewManager(view, c.schemas, presentation.NewCompositor(view, deps.Desktop, deps.Refresh))

	err = c.loop.Do(ctx, func() error {
		c.cancelDone = session.Done().Subscribe(c.loop, c.onDone)
		c.cancelDestroyed = session.Destroyed().Subscribe(c.loop, c.onDestroyed)
		if len(c.schemas.Dirs()) > 0 {
			if _, err := c.schemas.Check(); err != nil {
				c.log.Warn("schema scan failed", "err", err)
			}
		}
		snap, loaded := c.settings.Load()
		c.log.Debug("settings applied", "stored", loaded)
		c.applySnapshot(snap)
		if err := session.Run(ctx); err != nil {
			return err
		}
		c.setState(schema.StateRunning)
		return nil
	})
	if err != nil {
		c.abort()
		return nil, fmt.Errorf("start session: %w", err)
	}
	c.log.Info("session started", "shell", cfg.Shell, "term", cfg.Term, "dir", cfg.WorkingDir)
	return c, nil
}

// abort tears down a controller whose session never started.
func (c *Controller) abort() {
	_ = c.loop.Do(c.ctx, func() error {
		c.unsubscribe()
		if c.session != nil {
			c.session.Destroy()
			c.session = nil
		}
		releaseView(c.view)
		c.finish(false)
		return nil
	})
}

// releaseView closes views that hold resources of their own.
func releaseView(view View) {
	if closer, ok := view.(io.Closer); ok {
		_ = closer.Close()
	}
}

// Done is closed once the controller is destroyed.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// State returns the lifecycle state.
func (c *Controller) State() schema.ControllerState {
	return schema.ControllerState(c.state.Load())
}

// SessionID returns the engine's session id.
func (c *Controller) SessionID() string {
	return c.sessionID
}

func (c *Controller) setState(next schema.ControllerState) {
	prev := schema.ControllerState(c.state.Swap(int32(next)))
	if prev != next {
		c.log.Debug("controller state", "from", prev.String(), "to", next.String())
	}
}

// onDone runs when the child process exits.
func (c *Controller) onDone(exit schema.SessionExit) {
	if c.State() != schema.StateRunning {
		return
	}
	c.setState(schema.StateCompleting)
	c.log.Info("session done", "status", exit.Status, "err", exit.Err)
	c.beginTermination()
}

// beginTermination stops listening for completion, disconnects output and
// asks the engine to tear the session down.
func (c *Controller) beginTermination() {
	if c.cancelDone != nil {
		c.cancelDone()
		c.cancelDone = nil
	}
	c.session.SetConnected(false)
	c.setState(schema.StateTerminating)
	c.session.Terminate()
}

// onDestroyed runs when the engine has released the session.
func (c *Controller) onDestroyed(struct{}) {
	if c.State() == schema.StateDestroyed {
		return
	}
	c.unsubscribe()
	c.session = nil
	c.log.Info("session destroyed")
	c.finish(true)
}

func (c *Controller) unsubscribe() {
	if c.cancelDone != nil {
		c.cancelDone()
		c.cancelDone = nil
	}
	if c.cancelDestroyed != nil {
		c.cancelDestroyed()
		c.cancelDestroyed = nil
	}
}

// finish marks the controller destroyed. Runs on the loop, at most once.
func (c *Controller) finish(notify bool) {
	c.setState(schema.StateDestroyed)
	c.present.Close()
	c.doneOnce.Do(func() {
		if notify {
			c.host.Destroyed()
		}
		close(c.done)
	})
	c.loop.Stop()
}

// Close destroys the session synchronously. It is the host's teardown path
// and is safe to call more than once or after the session ended on its own.
func (c *Controller) Close(ctx context.Context) error {
	if c.State() == schema.StateDestroyed {
		return nil
	}
	err := c.loop.Do(ctx, func() error {
		if c.State() == schema.StateDestroyed {
			return nil
		}
		c.unsubscribe()
		if c.session != nil {
			c.session.Destroy()
			c.session = nil
		}
		c.log.Info("session closed by host")
		c.finish(true)
		return nil
	})
	if errors.Is(err, eventloop.ErrClosed) {
		return nil
	}
	return err
}

// do runs fn on the loop while the controller is alive.
func (c *Controller) do(ctx context.Context, fn func() error) error {
	err := c.loop.Do(ctx, func() error {
		if c.State() == schema.StateDestroyed {
			return schema.ErrControllerDestroyed
		}
		return fn()
	})
	if errors.Is(err, eventloop.ErrClosed) {
		return schema.ErrControllerDestroyed
	}
	return err
}

// SendSignal forwards sig to the session while it is alive.
func (c *Controller) SendSignal(ctx context.Context, sig schema.Signal) error {
	return c.do(ctx, func() error {
		if c.session == nil {
			return nil
		}
		c.log.Debug("session signal", "signal", sig.String())
		if err := c.session.SendSignal(sig); err != nil {
			if errors.Is(err, schema.ErrSessionGone) {
				return nil
			}
			return fmt.Errorf("send %s: %w", sig, err)
		}
		return nil
	})
}

// CloseSession hangs up the session. Teardown continues when the session
// reports completion.
func (c *Controller) CloseSession(ctx context.Context) error {
	return c.SendSignal(ctx, schema.SignalHUP)
}

// Resize changes the terminal grid and rerenders the background.
func (c *Controller) Resize(ctx context.Context, cols, rows int) error {
	return c.do(ctx, func() error {
		if c.session == nil {
			return schema.ErrSessionGone
		}
		if err := c.session.Resize(cols, rows); err != nil {
			return err
		}
		c.present.Reapply(c.ctx)
		return nil
	})
}

// SendInput writes text to the session as if typed.
func (c *Controller) SendInput(ctx context.Context, text string) error {
	return c.do(ctx, func() error {
		if c.session == nil {
			return schema.ErrSessionGone
		}
		return c.session.SendInput(text)
	})
}
