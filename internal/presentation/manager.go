package presentation

import (
	"context"

	"pkt.systems/pslog"
	"pkt.systems/termpart/internal/schemas"
	"pkt.systems/termpart/schema"
)

// Manager applies schemas and backgrounds to a canvas. It is driven from a
// single goroutine; only the compositor runs concurrently.
type Manager struct {
	canvas     Canvas
	collection *schemas.Collection
	compositor *Compositor

	current   *schemas.ColorSchema
	imagePath string
	alignment schema.Alignment
}

// NewManager returns a manager for canvas. compositor may be nil, in which
// case transparency falls back to the schema background.
func NewManager(canvas Canvas, collection *schemas.Collection, compositor *Compositor) *Manager {
	return &Manager{
		canvas:     canvas,
		collection: collection,
		compositor: compositor,
		alignment:  schema.AlignNone,
	}
}

// Current returns the applied schema, nil before the first SelectSchema.
func (m *Manager) Current() *schemas.ColorSchema {
	return m.current
}

// Alignment returns the effective background alignment.
func (m *Manager) Alignment() schema.Alignment {
	return m.alignment
}

// ImagePath returns the background image in use, empty when none.
func (m *Manager) ImagePath() string {
	return m.imagePath
}

// SelectSchema applies the schema with id. An unknown id falls back to the
// first schema in the collection. The applied schema is returned.
func (m *Manager) SelectSchema(ctx context.Context, id schema.SchemaID) *schemas.ColorSchema {
	log := pslog.Ctx(ctx)
	s, ok := m.collection.FindByID(id)
	if !ok {
		log.Warn("schema not found, using default", "schema", id)
		s = m.collection.At(0)
	}
	if s.ID != id {
		log.Warn("schema id mismatch", "requested", id, "found", s.ID)
	}
	if s.HasChanged() {
		if err := s.Reread(); err != nil {
			log.Warn("schema reread failed", "schema", s.Path, "err", err)
		}
	}
	m.apply(ctx, s)
	return s
}

// Reapply renders the current schema again, for example after a resize.
func (m *Manager) Reapply(ctx context.Context) {
	if m.current != nil {
		m.apply(ctx, m.current)
	}
}

func (m *Manager) apply(ctx context.Context, s *schemas.ColorSchema) {
	m.current = s
	m.canvas.SetColorTable(s.Colors)
	m.imagePath = s.ImagePath
	if s.Transparency != nil && m.compositor != nil {
		m.compositor.SetFadeEffect(s.Transparency.Fade, s.Transparency.Tint)
		m.compositor.Start(ctx)
		m.compositor.Repaint(ctx)
		pslog.Ctx(ctx).Debug("schema applied", "schema", s.Path, "id", s.ID, "transparent", true)
		return
	}
	if m.compositor != nil {
		m.compositor.Stop()
	}
	effective := m.RenderBackground(ctx, s.Alignment)
	pslog.Ctx(ctx).Debug("schema applied", "schema", s.Path, "id", s.ID, "alignment", effective)
}

// RenderBackground draws the current image with mode and returns the
// alignment actually used. A missing or undecodable image silently falls back
// to the default background color.
func (m *Manager) RenderBackground(ctx context.Context, mode schema.Alignment) schema.Alignment {
	if mode <= schema.AlignNone {
		m.imagePath = ""
	}
	img, err := LoadImage(m.imagePath)
	if err != nil {
		m.imagePath = ""
		m.alignment = schema.AlignNone
		m.canvas.SetBackgroundImage(nil, false)
		m.canvas.SetBackgroundColor(m.canvas.DefaultBackgroundColor())
		return m.alignment
	}
	width, height := m.canvas.Size()
	switch mode {
	case schema.AlignTile:
		m.canvas.SetBackgroundImage(img, true)
	case schema.AlignCenter:
		m.canvas.SetBackgroundImage(Centered(img, width, height, m.canvas.DefaultBackgroundColor()), false)
	case schema.AlignFull:
		m.canvas.SetBackgroundImage(Scaled(img, width, height), false)
	default:
		pslog.Ctx(ctx).Warn("unknown background alignment", "alignment", int(mode))
		m.imagePath = ""
		m.canvas.SetBackgroundImage(nil, false)
		m.canvas.SetBackgroundColor(m.canvas.DefaultBackgroundColor())
		mode = schema.AlignNone
	}
	m.alignment = mode
	return mode
}

// Close stops the compositor.
func (m *Manager) Close() {
	if m.compositor != nil {
		m.compositor.Stop()
	}
}
