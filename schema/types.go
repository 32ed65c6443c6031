package schema

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// SchemaID identifies a loaded color schema. Zero is the built-in default.
type SchemaID int

// DefaultSchemaID is the id of the always-present built-in schema.
const DefaultSchemaID SchemaID = 0

// KeymapID identifies a keyboard translation table known to the engine.
type KeymapID int

// Signal is a process signal number forwarded to the session.
type Signal int

const (
	// SignalHUP hangs up the session; used to close it.
	SignalHUP = Signal(unix.SIGHUP)
	// SignalINT interrupts the foreground task.
	SignalINT = Signal(unix.SIGINT)
	// SignalKILL kills the session process.
	SignalKILL = Signal(unix.SIGKILL)
	// SignalTERM asks the session process to terminate.
	SignalTERM = Signal(unix.SIGTERM)
	// SignalSTOP suspends the session process.
	SignalSTOP = Signal(unix.SIGSTOP)
	// SignalCONT resumes a suspended session process.
	SignalCONT = Signal(unix.SIGCONT)
)

// String returns the conventional signal name.
func (s Signal) String() string {
	return unix.SignalName(syscall.Signal(s))
}

// BellMode selects how the terminal bell is rendered.
type BellMode int

const (
	// BellNone silences the bell.
	BellNone BellMode = iota
	// BellSystem forwards the bell to the system notifier.
	BellSystem
	// BellVisual flashes the view.
	BellVisual
)

// String returns the bell mode name.
func (m BellMode) String() string {
	switch m {
	case BellNone:
		return "none"
	case BellSystem:
		return "system"
	case BellVisual:
		return "visual"
	default:
		return "unknown"
	}
}

// ScrollbarPosition places the scrollbar relative to the view.
type ScrollbarPosition int

const (
	// ScrollbarHidden hides the scrollbar.
	ScrollbarHidden ScrollbarPosition = iota
	// ScrollbarLeft places the scrollbar on the left.
	ScrollbarLeft
	// ScrollbarRight places the scrollbar on the right.
	ScrollbarRight
)

// String returns the scrollbar position name.
func (p ScrollbarPosition) String() string {
	switch p {
	case ScrollbarHidden:
		return "hidden"
	case ScrollbarLeft:
		return "left"
	case ScrollbarRight:
		return "right"
	default:
		return "unknown"
	}
}

// Alignment selects how a schema background image is laid out.
// The numbering follows the schema file format.
type Alignment int

const (
	// AlignNone draws no image.
	AlignNone Alignment = 1
	// AlignTile tiles the image.
	AlignTile Alignment = 2
	// AlignCenter centers the image over the default background color.
	AlignCenter Alignment = 3
	// AlignFull stretches the image to the view size.
	AlignFull Alignment = 4
)

// String returns the alignment keyword used in schema files.
func (a Alignment) String() string {
	switch a {
	case AlignNone:
		return "none"
	case AlignTile:
		return "tile"
	case AlignCenter:
		return "center"
	case AlignFull:
		return "full"
	default:
		return "unknown"
	}
}

// MaxLineSpacing is the largest extra line spacing offered, in pixels.
const MaxLineSpacing = 8

// DefaultWordSeparators are the non-alphanumeric characters treated as part
// of a word on double click.
const DefaultWordSeparators = ":@-./_~"
