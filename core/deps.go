package core

import (
	"time"

	"pkt.systems/pslog"
	"pkt.systems/termpart/internal/presentation"
	"pkt.systems/termpart/internal/schemas"
	"pkt.systems/termpart/schema"
)

// SettingsStore loads and saves the persisted snapshot.
type SettingsStore interface {
	Load() (schema.Snapshot, bool)
	Save(snap schema.Snapshot) error
}

// FontResolver maps a selector to a validated font.
type FontResolver interface {
	Resolve(sel schema.FontSelector, custom schema.FontDescriptor) (schema.FontDescriptor, error)
}

// ControllerDeps captures the collaborators of a controller. Engine is
// required; the rest fall back to in-memory or permissive defaults.
type ControllerDeps struct {
	Engine   Engine
	Host     HostSink
	Settings SettingsStore
	Schemas  *schemas.Collection
	Fonts    FontResolver
	// Desktop is what transparent schemas blend over; nil blends over the
	// view's default background.
	Desktop presentation.Desktop
	Refresh time.Duration
	Logger  pslog.Logger
}

type memorySettings struct {
	snap schema.Snapshot
	ok   bool
}

func (m *memorySettings) Load() (schema.Snapshot, bool) {
	if !m.ok {
		return schema.DefaultSnapshot(), false
	}
	return m.snap, true
}

func (m *memorySettings) Save(snap schema.Snapshot) error {
	m.snap = snap
	m.ok = true
	return nil
}
