package schemas

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"pkt.systems/pslog"
	"pkt.systems/termpart/schema"
)

// Extension is the file suffix of schema files.
const Extension = ".schema"

// Collection is the ordered list of loaded schemas. Entry 0 is always the
// built-in default. Ids are assigned once and never reused, so removals can
// leave gaps. A collection is not safe for concurrent use.
type Collection struct {
	dirs   []string
	items  []*ColorSchema
	nextID schema.SchemaID
	log    pslog.Logger
}

// NewCollection returns a collection holding only the built-in schema.
// Call Check to load the schema directories.
func NewCollection(ctx context.Context, dirs ...string) *Collection {
	return &Collection{
		dirs:   append([]string(nil), dirs...),
		items:  []*ColorSchema{DefaultSchema()},
		nextID: schema.DefaultSchemaID + 1,
		log:    pslog.Ctx(ctx),
	}
}

// Dirs returns the scanned directories in precedence order.
func (c *Collection) Dirs() []string {
	return append([]string(nil), c.dirs...)
}

// Len returns the number of schemas including the default.
func (c *Collection) Len() int {
	return len(c.items)
}

// At returns the schema at position i.
func (c *Collection) At(i int) *ColorSchema {
	if i < 0 || i >= len(c.items) {
		return nil
	}
	return c.items[i]
}

// All returns the schemas in order.
func (c *Collection) All() []*ColorSchema {
	return append([]*ColorSchema(nil), c.items...)
}

// FindByID looks up a schema by id.
func (c *Collection) FindByID(id schema.SchemaID) (*ColorSchema, bool) {
	for _, s := range c.items {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// FindByPath looks up a schema by its path relative to a schema directory.
// The empty path names the built-in schema.
func (c *Collection) FindByPath(rel string) (*ColorSchema, bool) {
	for _, s := range c.items {
		if s.Path == rel {
			return s, true
		}
	}
	return nil, false
}

// Check rescans the schema directories, appending new files and dropping
// schemas whose files disappeared. It reports whether the list changed.
func (c *Collection) Check() (bool, error) {
	found, err := c.scan()
	if err != nil {
		return false, err
	}
	changed := false
	kept := c.items[:1]
	for _, s := range c.items[1:] {
		if _, ok := found[s.Path]; ok {
			kept = append(kept, s)
			delete(found, s.Path)
			continue
		}
		c.log.Info("schema removed", "schema", s.Path, "id", s.ID)
		changed = true
	}
	c.items = kept

	paths := make([]string, 0, len(found))
	for rel := range found {
		paths = append(paths, rel)
	}
	sort.Strings(paths)
	for _, rel := range paths {
		s, err := load(found[rel], rel)
		if err != nil {
			c.log.Warn("schema unreadable", "schema", rel, "err", err)
			continue
		}
		s.ID = c.nextID
		c.nextID++
		c.items = append(c.items, s)
		c.log.Debug("schema loaded", "schema", rel, "id", s.ID, "title", s.Title)
		changed = true
	}
	return changed, nil
}

// MarkStale flags the schema backed by file so the next HasChanged reports true.
func (c *Collection) MarkStale(file string) bool {
	for _, s := range c.items {
		if s.file != "" && s.file == file {
			s.stale = true
			return true
		}
	}
	return false
}

// scan maps relative path to absolute file. Earlier directories win.
func (c *Collection) scan() (map[string]string, error) {
	found := make(map[string]string)
	for _, dir := range c.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("scan schema dir %s: %w", dir, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || filepath.Ext(entry.Name()) != Extension {
				continue
			}
			if _, ok := found[entry.Name()]; ok {
				continue
			}
			abs, err := filepath.Abs(filepath.Join(dir, entry.Name()))
			if err != nil {
				return nil, err
			}
			found[entry.Name()] = abs
		}
	}
	return found, nil
}

func load(file, rel string) (*ColorSchema, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	s, err := Parse(f)
	if err != nil {
		return nil, err
	}
	s.Path = rel
	s.file = file
	s.modTime = info.ModTime().UnixNano()
	return s, nil
}

// HasChanged reports whether the backing file was flagged or modified since
// it was read.
func (s *ColorSchema) HasChanged() bool {
	if s.file == "" {
		return false
	}
	if s.stale {
		return true
	}
	info, err := os.Stat(s.file)
	if err != nil {
		return false
	}
	return info.ModTime().UnixNano() != s.modTime
}

// Reread reloads the backing file in place, keeping id and path. On failure
// the previous contents stay.
func (s *ColorSchema) Reread() error {
	if s.file == "" {
		return nil
	}
	fresh, err := load(s.file, s.Path)
	if err != nil {
		return fmt.Errorf("reread schema %s: %w", s.Path, err)
	}
	id := s.ID
	*s = *fresh
	s.ID = id
	return nil
}
