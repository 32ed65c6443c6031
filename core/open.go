package core

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/alessio/shellescape"
	"pkt.systems/termpart/internal/schemas"
	"pkt.systems/termpart/schema"
)

// Open points the session at location. Local paths change the shell's
// working directory: directories as-is, anything else to its parent.
func (c *Controller) Open(ctx context.Context, location string) (bool, error) {
	err := c.do(ctx, func() error {
		dir, local := localDir(location, c.cfg.WorkingDir)
		c.host.SetWindowCaption(prettyLocation(location))
		c.host.Started()
		if local && c.session != nil {
			line := "cd " + shellescape.Quote(dir) + "\n"
			if err := c.session.SendInput(line); err != nil {
				c.log.Warn("open failed", "location", location, "err", err)
			} else {
				c.log.Debug("open", "location", location, "dir", dir)
			}
		}
		c.host.Completed()
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// prettyLocation renders location for a window caption.
func prettyLocation(location string) string {
	u, err := url.Parse(location)
	if err != nil || u.Scheme == "" {
		return location
	}
	if u.Scheme == "file" {
		return u.Path
	}
	u.User = nil
	return u.String()
}

// localDir resolves location to the directory a shell should enter. The
// bool is false for non-local locations.
func localDir(location, base string) (string, bool) {
	path := location
	if u, err := url.Parse(location); err == nil && u.Scheme != "" {
		if u.Scheme != "file" || (u.Host != "" && u.Host != "localhost") {
			return "", false
		}
		path = u.Path
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return "", false
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(base, path)
	}
	path = filepath.Clean(path)
	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		return path, true
	}
	return filepath.Dir(path), true
}

// NotifySchemaChange records a schema file change seen by a watcher. It may
// be called from any goroutine.
func (c *Controller) NotifySchemaChange(change schemas.Change) {
	c.loop.Post(func() {
		if c.State() == schema.StateDestroyed {
			return
		}
		switch change.Op {
		case schemas.OpChanged:
			if c.schemas.MarkStale(change.File) {
				c.log.Debug("schema stale", "file", change.File)
			}
		case schemas.OpAdded, schemas.OpRemoved:
			if _, err := c.rescanSchemas(); err != nil {
				c.log.Warn("schema rescan failed", "err", err)
			}
		}
	})
}
