// Package termpart is an embeddable terminal part: a shell session with
// color schemas, fonts, scrollback policy and persisted settings.
package termpart

import (
	"context"
	"io"
	"sync"
	"time"

	"pkt.systems/pslog"
	"pkt.systems/termpart/core"
	"pkt.systems/termpart/internal/appconfig"
	"pkt.systems/termpart/internal/fonts"
	"pkt.systems/termpart/internal/presentation"
	"pkt.systems/termpart/internal/ptyengine"
	"pkt.systems/termpart/internal/schemas"
	"pkt.systems/termpart/internal/settings"
)

// Option customizes a part.
type Option func(*partOptions)

type partOptions struct {
	host   HostSink
	engine core.Engine
	output io.Writer
}

// WithHost receives notifications in addition to the part's own logging.
func WithHost(host HostSink) Option {
	return func(o *partOptions) { o.host = host }
}

// WithEngine replaces the bundled pty engine.
func WithEngine(engine core.Engine) Option {
	return func(o *partOptions) { o.engine = engine }
}

// WithOutput mirrors raw session output to w. Only the bundled engine
// supports it.
func WithOutput(w io.Writer) Option {
	return func(o *partOptions) { o.output = w }
}

// Part is a mounted terminal session.
type Part struct {
	cfg     appconfig.Config
	ctrl    *core.Controller
	engine  *ptyengine.Engine
	watcher *schemas.Watcher
	schemas *schemas.Collection
	caption *logHost
	log     pslog.Logger

	closeOnce sync.Once
	closeErr  error
}

// New mounts a part: it loads settings, schemas and fonts and starts the
// configured shell.
func New(ctx context.Context, cfg appconfig.Config, opts ...Option) (*Part, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var options partOptions
	for _, opt := range opts {
		opt(&options)
	}
	log := pslog.Ctx(ctx)

	store, err := settings.NewStore(cfg.SettingsDir, log)
	if err != nil {
		return nil, err
	}
	collection := schemas.NewCollection(ctx, cfg.Schemas.Dirs...)

	var resolver *fonts.Resolver
	if len(cfg.Fonts.Dirs) > 0 {
		catalog, err := fonts.LoadDirCatalog(ctx, cfg.Fonts.Dirs...)
		switch {
		case err != nil:
			log.Warn("font catalog unavailable", "err", err)
			resolver = fonts.NewResolver(nil)
		case len(catalog.Names()) == 0:
			log.Debug("font catalog empty, fonts unchecked", "dirs", cfg.Fonts.Dirs)
			resolver = fonts.NewResolver(nil)
		default:
			resolver = fonts.NewResolver(catalog)
		}
	} else {
		resolver = fonts.NewResolver(nil)
	}

	var desktop presentation.Desktop
	if cfg.View.DesktopImage != "" {
		desktop = presentation.NewFileDesktop(cfg.View.DesktopImage)
	}

	p := &Part{
		cfg:     cfg,
		schemas: collection,
		caption: &logHost{log: log},
		log:     log,
	}
	var host HostSink = p.caption
	if options.host != nil {
		host = hostFanout{sinks: []HostSink{p.caption, options.host}}
	}

	engine := options.engine
	if engine == nil {
		p.engine = ptyengine.New(ptyengine.Options{
			Width:    cfg.View.Width,
			Height:   cfg.View.Height,
			SpoolDir: cfg.History.SpoolDir,
			Output:   options.output,
			OnTitle:  host.SetWindowCaption,
			OnBell:   func() { log.Debug("bell") },
		})
		engine = p.engine
	} else if options.output != nil {
		log.Warn("output mirror ignored", "reason", "custom engine")
	}

	ctrl, err := core.NewController(ctx, cfg.SessionSpec(), core.ControllerDeps{
		Engine:   engine,
		Host:     host,
		Settings: store,
		Schemas:  collection,
		Fonts:    resolver,
		Desktop:  desktop,
		Refresh:  time.Duration(cfg.View.RefreshMillis) * time.Millisecond,
		Logger:   log,
	})
	if err != nil {
		return nil, err
	}
	p.ctrl = ctrl

	if cfg.Schemas.Watch {
		watcher, err := schemas.Watch(ctx, cfg.Schemas.Dirs, ctrl.NotifySchemaChange)
		if err != nil {
			log.Warn("schema watch unavailable", "err", err)
		} else {
			p.watcher = watcher
		}
	}
	go func() {
		<-ctrl.Done()
		p.stopWatcher()
	}()
	log.Info("part mounted", "session", ctrl.SessionID(), "schemas", collection.Len())
	return p, nil
}

// Controller returns the session controller for commands.
func (p *Part) Controller() *core.Controller {
	return p.ctrl
}

// Session returns the bundled engine's session, or nil with a custom engine.
func (p *Part) Session() *ptyengine.Session {
	if p.engine == nil {
		return nil
	}
	return p.engine.Session()
}

// Caption returns the last window caption.
func (p *Part) Caption() string {
	return p.caption.Caption()
}

// Done is closed once the session is gone.
func (p *Part) Done() <-chan struct{} {
	return p.ctrl.Done()
}

// Wait blocks until the session is gone or ctx ends.
func (p *Part) Wait(ctx context.Context) error {
	select {
	case <-p.ctrl.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Input sends typed bytes to the session.
func (p *Part) Input(ctx context.Context, data []byte) error {
	return p.ctrl.SendInput(ctx, string(data))
}

// Open points the session at location.
func (p *Part) Open(ctx context.Context, location string) (bool, error) {
	return p.ctrl.Open(ctx, location)
}

// Close destroys the session and stops watching schemas.
func (p *Part) Close(ctx context.Context) error {
	p.closeOnce.Do(func() {
		p.stopWatcher()
		if err := p.ctrl.Close(ctx); err != nil {
			p.closeErr = err
			p.log.Warn("part close failed", "err", err)
		}
	})
	return p.closeErr
}

func (p *Part) stopWatcher() {
	if p.watcher == nil {
		return
	}
	if err := p.watcher.Close(); err != nil {
		p.log.Debug("schema watch close", "err", err)
	}
}
