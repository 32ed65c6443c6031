package core

import (
	"context"

	"pkt.systems/termpart/internal/eventloop"
	"pkt.systems/termpart/internal/presentation"
	"pkt.systems/termpart/schema"
)

// Engine creates the view and session objects of a terminal emulation.
type Engine interface {
	NewView(ctx context.Context, cfg schema.SessionConfig) (View, error)
	NewSession(ctx context.Context, cfg schema.SessionConfig, view View) (Session, error)
}

// View renders the character grid.
type View interface {
	presentation.Canvas
	SetFont(font schema.FontDescriptor)
	SetFrameVisible(visible bool)
	SetScrollbar(pos schema.ScrollbarPosition)
	SetBellMode(mode schema.BellMode)
	SetLineSpacing(pixels int)
	SetBlinkingCursor(blink bool)
	SetWordSeparators(seps string)
	SetTerminalSizeHint(show bool)
}

// Session is a running emulation session attached to a view.
//
// Done fires once when the child process exits. Destroyed fires once when
// the session has released its resources, whether after Terminate or
// because it was torn down externally. Destroy releases the session
// synchronously and does not fire Destroyed to subscribers that already
// cancelled.
type Session interface {
	ID() string
	Run(ctx context.Context) error
	Done() *eventloop.Signal[schema.SessionExit]
	Destroyed() *eventloop.Signal[struct{}]
	SetConnected(connected bool)
	Terminate()
	Destroy()
	SendSignal(sig schema.Signal) error
	SendInput(text string) error
	Resize(cols, rows int) error
	SetSchemaID(id schema.SchemaID)
	SetKeymap(id schema.KeymapID)
	SetFontNumber(n int)
	SetHistory(mode schema.HistoryMode) error
}
