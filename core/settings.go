package core

import (
	"context"
	"fmt"

	"pkt.systems/termpart/internal/history"
	"pkt.systems/termpart/internal/logx"
	"pkt.systems/termpart/schema"
)

// applySnapshot pushes a loaded snapshot to the view and session.
func (c *Controller) applySnapshot(snap schema.Snapshot) {
	snap = schema.NormalizeSnapshot(snap)
	c.snap = snap

	id := schema.DefaultSchemaID
	if s, ok := c.schemas.FindByPath(snap.SchemaPath); ok {
		id = s.ID
	} else if snap.SchemaPath != "" {
		c.log.Warn("stored schema missing", "schema_path", snap.SchemaPath)
	}
	c.selectSchema(id)

	c.history = history.NewPolicy(snap.HistoryEnabled, snap.HistorySize)
	if err := c.session.SetHistory(c.history.Mode()); err != nil {
		c.log.Warn("history apply failed", "mode", c.history.Mode().String(), "err", err)
	}
	if err := c.selectFont(snap.Font); err != nil {
		c.log.Warn("stored font unavailable", "font", snap.Font.String(), "err", err)
	}
	c.session.SetKeymap(snap.Keymap)
	c.view.SetFrameVisible(snap.FrameVisible)
	c.view.SetScrollbar(snap.Scrollbar)
	c.view.SetBellMode(snap.Bell)
	c.view.SetLineSpacing(snap.LineSpacing)
	c.view.SetBlinkingCursor(snap.BlinkingCursor)
	c.view.SetWordSeparators(snap.WordSeparators)
	c.view.SetTerminalSizeHint(snap.TerminalSizeHint)
}

func (c *Controller) selectSchema(id schema.SchemaID) {
	s := c.present.SelectSchema(c.ctx, id)
	if c.session != nil {
		c.session.SetSchemaID(s.ID)
	}
	c.snap.SchemaID = s.ID
	c.snap.SchemaPath = s.Path
	logx.WithSchema(c.log, s.ID, s.Path).Debug("schema selected", "title", s.Title)
}

// selectFont resolves sel and applies it. On failure the host is told and
// nothing changes.
func (c *Controller) selectFont(sel schema.FontSelector) error {
	font, err := c.fonts.Resolve(sel, c.snap.CustomFont)
	if err != nil {
		c.host.ShowError(err.Error())
		return err
	}
	c.view.SetFont(font)
	if c.session != nil {
		c.session.SetFontNumber(sel.Index())
	}
	c.snap.Font = sel
	c.log.Debug("font selected", "font", sel.String(), "name", font.Name())
	return nil
}

// SelectSchema applies the schema with id, falling back to the default
// schema, and makes it the stored default.
func (c *Controller) SelectSchema(ctx context.Context, id schema.SchemaID) error {
	return c.do(ctx, func() error {
		c.selectSchema(id)
		return nil
	})
}

// SetHistory switches scrollback. Disabled keeps the size for later;
// enabled with size zero keeps unlimited history.
func (c *Controller) SetHistory(ctx context.Context, enabled bool, size int) error {
	if err := schema.ValidateHistorySize(size); err != nil {
		return err
	}
	return c.do(ctx, func() error {
		mode := c.history.Set(enabled, size)
		if c.session != nil {
			if err := c.session.SetHistory(mode); err != nil {
				return fmt.Errorf("apply history %s: %w", mode, err)
			}
		}
		c.snap.HistoryEnabled = mode.Enabled()
		c.snap.HistorySize = c.history.Size()
		c.log.Debug("history set", "mode", mode.String())
		return nil
	})
}

// SelectFont switches to a preset or the custom font.
func (c *Controller) SelectFont(ctx context.Context, sel schema.FontSelector) error {
	return c.do(ctx, func() error {
		return c.selectFont(sel)
	})
}

// SetCustomFont stores desc as the custom font and selects it.
func (c *Controller) SetCustomFont(ctx context.Context, desc schema.FontDescriptor) error {
	return c.do(ctx, func() error {
		prev := c.snap.CustomFont
		c.snap.CustomFont = desc
		if err := c.selectFont(schema.CustomFont()); err != nil {
			c.snap.CustomFont = prev
			return err
		}
		return nil
	})
}

// SelectKeymap switches the keyboard translation table.
func (c *Controller) SelectKeymap(ctx context.Context, id schema.KeymapID) error {
	return c.do(ctx, func() error {
		if c.session != nil {
			c.session.SetKeymap(id)
		}
		c.snap.Keymap = id
		return nil
	})
}

// SetFrameVisible shows or hides the view frame.
func (c *Controller) SetFrameVisible(ctx context.Context, visible bool) error {
	return c.do(ctx, func() error {
		c.view.SetFrameVisible(visible)
		c.snap.FrameVisible = visible
		return nil
	})
}

// SetScrollbar moves or hides the scrollbar.
func (c *Controller) SetScrollbar(ctx context.Context, pos schema.ScrollbarPosition) error {
	if err := schema.ValidateScrollbar(pos); err != nil {
		return err
	}
	return c.do(ctx, func() error {
		c.view.SetScrollbar(pos)
		c.snap.Scrollbar = pos
		return nil
	})
}

// SetBellMode selects how the bell is rendered.
func (c *Controller) SetBellMode(ctx context.Context, mode schema.BellMode) error {
	if err := schema.ValidateBellMode(mode); err != nil {
		return err
	}
	return c.do(ctx, func() error {
		c.view.SetBellMode(mode)
		c.snap.Bell = mode
		return nil
	})
}

// SetLineSpacing sets extra pixels between rows, 0..MaxLineSpacing.
func (c *Controller) SetLineSpacing(ctx context.Context, pixels int) error {
	if err := schema.ValidateLineSpacing(pixels); err != nil {
		return err
	}
	return c.do(ctx, func() error {
		c.view.SetLineSpacing(pixels)
		c.snap.LineSpacing = pixels
		return nil
	})
}

// SetBlinkingCursor toggles cursor blinking.
func (c *Controller) SetBlinkingCursor(ctx context.Context, blink bool) error {
	return c.do(ctx, func() error {
		c.view.SetBlinkingCursor(blink)
		c.snap.BlinkingCursor = blink
		return nil
	})
}

// SetWordSeparators sets the characters selected as part of a word.
func (c *Controller) SetWordSeparators(ctx context.Context, seps string) error {
	return c.do(ctx, func() error {
		c.view.SetWordSeparators(seps)
		c.snap.WordSeparators = seps
		return nil
	})
}

// RefreshSchemas rescans the schema directories and reports whether the
// list changed.
func (c *Controller) RefreshSchemas(ctx context.Context) (bool, error) {
	var changed bool
	err := c.do(ctx, func() error {
		var err error
		changed, err = c.rescanSchemas()
		return err
	})
	return changed, err
}

// rescanSchemas reloads the schema list. When the active schema is gone the
// default takes its place.
func (c *Controller) rescanSchemas() (bool, error) {
	changed, err := c.schemas.Check()
	if err != nil {
		return false, err
	}
	if _, ok := c.schemas.FindByID(c.snap.SchemaID); !ok {
		c.log.Info("active schema removed", "schema_id", c.snap.SchemaID, "schema_path", c.snap.SchemaPath)
		c.selectSchema(schema.DefaultSchemaID)
	}
	return changed, nil
}

// Schemas lists the loaded schemas.
func (c *Controller) Schemas(ctx context.Context) ([]SchemaInfo, error) {
	var out []SchemaInfo
	err := c.do(ctx, func() error {
		for _, s := range c.schemas.All() {
			out = append(out, SchemaInfo{ID: s.ID, Title: s.Title, Path: s.Path, Active: s.ID == c.snap.SchemaID})
		}
		return nil
	})
	return out, err
}

// SchemaInfo describes a loaded schema for listing.
type SchemaInfo struct {
	ID     schema.SchemaID
	Title  string
	Path   string
	Active bool
}

// SaveSettings persists the current snapshot.
func (c *Controller) SaveSettings(ctx context.Context) error {
	return c.do(ctx, func() error {
		if err := c.settings.Save(c.snap); err != nil {
			return fmt.Errorf("save settings: %w", err)
		}
		return nil
	})
}

// Snapshot returns the current settings.
func (c *Controller) Snapshot(ctx context.Context) (schema.Snapshot, error) {
	var snap schema.Snapshot
	err := c.do(ctx, func() error {
		snap = c.snap
		return nil
	})
	return snap, err
}
