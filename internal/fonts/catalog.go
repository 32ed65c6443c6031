package fonts

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"pkt.systems/pslog"
	"pkt.systems/termpart/schema"
)

// Catalog answers whether a font exists exactly as described.
type Catalog interface {
	Has(desc schema.FontDescriptor) bool
	Names() []string
}

// index is the shared matching core of the catalogs.
type index struct {
	mu      sync.RWMutex
	names   map[string]string
	entries []xlfd
}

func newIndex() *index {
	return &index{names: make(map[string]string)}
}

func (i *index) add(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	key := strings.ToLower(name)
	i.mu.Lock()
	defer i.mu.Unlock()
	if _, ok := i.names[key]; ok {
		return
	}
	i.names[key] = name
	if x, ok := parseXLFD(name); ok {
		i.entries = append(i.entries, x)
	}
}

// Has matches raw names exactly (case-insensitive, as the X server does) and
// structured descriptors on family and pixel size.
func (i *index) Has(desc schema.FontDescriptor) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if desc.IsRaw() {
		_, ok := i.names[strings.ToLower(desc.RawName)]
		return ok
	}
	family := strings.ToLower(desc.Family)
	if desc.PixelSize <= 0 {
		if _, ok := i.names[family]; ok {
			return true
		}
	}
	for _, x := range i.entries {
		if x.family != family {
			continue
		}
		if desc.PixelSize > 0 && x.pixelSize != desc.PixelSize {
			continue
		}
		if desc.FixedPitch && !x.fixedPitch() {
			continue
		}
		return true
	}
	return false
}

// Names returns every known name sorted.
func (i *index) Names() []string {
	i.mu.RLock()
	out := make([]string, 0, len(i.names))
	for _, name := range i.names {
		out = append(out, name)
	}
	i.mu.RUnlock()
	sort.Strings(out)
	return out
}

// StaticCatalog is a fixed list of font names.
type StaticCatalog struct {
	*index
}

// NewStaticCatalog returns a catalog holding names.
func NewStaticCatalog(names ...string) StaticCatalog {
	c := StaticCatalog{index: newIndex()}
	for _, name := range names {
		c.add(name)
	}
	return c
}

// DirCatalog reads X11 font directories (fonts.dir and fonts.alias).
type DirCatalog struct {
	*index
	dirs []string
}

// LoadDirCatalog scans dirs. Missing directories are skipped; unreadable
// index files are logged and skipped.
func LoadDirCatalog(ctx context.Context, dirs ...string) (*DirCatalog, error) {
	log := pslog.Ctx(ctx)
	c := &DirCatalog{index: newIndex(), dirs: append([]string(nil), dirs...)}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		info, err := os.Stat(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				log.Debug("font dir missing", "dir", dir)
				continue
			}
			return nil, fmt.Errorf("font dir %s: %w", dir, err)
		}
		if !info.IsDir() {
			continue
		}
		for _, file := range []string{"fonts.dir", "fonts.alias"} {
			path := filepath.Join(dir, file)
			n, err := c.loadFile(path, file == "fonts.alias")
			if err != nil {
				if !errors.Is(err, fs.ErrNotExist) {
					log.Warn("font index unreadable", "path", path, "err", err)
				}
				continue
			}
			log.Debug("font index loaded", "path", path, "fonts", n)
		}
	}
	return c, nil
}

// Dirs returns the scanned directories.
func (c *DirCatalog) Dirs() []string {
	return append([]string(nil), c.dirs...)
}

func (c *DirCatalog) loadFile(path string, alias bool) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	if alias {
		return c.readAlias(f)
	}
	return c.readDir(f)
}

// readDir parses fonts.dir: a count line followed by "file name" lines.
func (c *DirCatalog) readDir(r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	count := 0
	first := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if first {
			first = false
			if !strings.ContainsAny(line, " \t") {
				continue
			}
		}
		if line == "" {
			continue
		}
		_, name, ok := cutField(line)
		if !ok {
			continue
		}
		c.add(name)
		count++
	}
	return count, scanner.Err()
}

// readAlias parses fonts.alias: "alias name" lines with "!" comments.
func (c *DirCatalog) readAlias(r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	count := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "!") || strings.HasPrefix(line, "FILE_NAMES_ALIASES") {
			continue
		}
		alias, target, ok := cutField(line)
		if !ok {
			continue
		}
		c.add(alias)
		c.add(target)
		count++
	}
	return count, scanner.Err()
}

func cutField(line string) (string, string, bool) {
	idx := strings.IndexAny(line, " \t")
	if idx < 0 {
		return "", "", false
	}
	head := strings.Trim(line[:idx], `"`)
	tail := strings.Trim(strings.TrimSpace(line[idx:]), `"`)
	if head == "" || tail == "" {
		return "", "", false
	}
	return head, tail, true
}
