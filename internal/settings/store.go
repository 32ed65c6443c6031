// Package settings loads and saves the part's presentation settings.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
	"pkt.systems/pslog"
	"pkt.systems/termpart/schema"
)

const (
	// PartFile holds the part namespace, written by Save.
	PartFile = "termpartrc.yaml"
	// TerminalFile holds the shared terminal namespace, read only.
	TerminalFile = "terminalrc.yaml"
)

// partFile is the on-disk form of the part namespace.
type partFile struct {
	HasFrame       bool   `mapstructure:"has frame" yaml:"has frame"`
	HistoryEnabled bool   `mapstructure:"historyenabled" yaml:"historyenabled"`
	BellMode       int    `mapstructure:"bellmode" yaml:"bellmode"`
	Font           int    `mapstructure:"font" yaml:"font"`
	Keytab         int    `mapstructure:"keytab" yaml:"keytab"`
	Scrollbar      int    `mapstructure:"scrollbar" yaml:"scrollbar"`
	History        int    `mapstructure:"history" yaml:"history"`
	WordSeps       string `mapstructure:"wordseps" yaml:"wordseps"`
	DefaultFont    string `mapstructure:"defaultfont" yaml:"defaultfont"`
	Schema         string `mapstructure:"schema" yaml:"schema"`
	BlinkingCursor bool   `mapstructure:"blinkingcursor" yaml:"BlinkingCursor"`
	LineSpacing    int    `mapstructure:"linespacing" yaml:"LineSpacing"`
}

type terminalFile struct {
	TerminalSizeHint bool `mapstructure:"terminalsizehint" yaml:"TerminalSizeHint"`
}

// Store persists snapshots under a settings directory.
type Store struct {
	dir string
	log pslog.Logger
}

// NewStore returns a store rooted at dir, creating it if needed.
func NewStore(dir string, logger pslog.Logger) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("settings directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	if logger != nil {
		logger = logger.With("settings_dir", dir)
	}
	return &Store{dir: dir, log: logger}, nil
}

// Dir returns the settings directory.
func (s *Store) Dir() string {
	return s.dir
}

// Load reads both namespaces. Missing files and keys take defaults; a
// malformed file is logged and defaulted. The bool reports whether the part
// file was read.
func (s *Store) Load() (schema.Snapshot, bool) {
	def := schema.DefaultSnapshot()
	part := partFile{
		HasFrame:       def.FrameVisible,
		HistoryEnabled: def.HistoryEnabled,
		BellMode:       int(def.Bell),
		Font:           def.Font.Index(),
		Keytab:         int(def.Keymap),
		Scrollbar:      int(def.Scrollbar),
		History:        def.HistorySize,
		WordSeps:       def.WordSeparators,
		DefaultFont:    def.CustomFont.String(),
		Schema:         def.SchemaPath,
		BlinkingCursor: def.BlinkingCursor,
		LineSpacing:    def.LineSpacing,
	}
	loaded := s.read(PartFile, &part, map[string]any{
		"has frame":      part.HasFrame,
		"historyenabled": part.HistoryEnabled,
		"bellmode":       part.BellMode,
		"font":           part.Font,
		"keytab":         part.Keytab,
		"scrollbar":      part.Scrollbar,
		"history":        part.History,
		"wordseps":       part.WordSeps,
		"defaultfont":    part.DefaultFont,
		"schema":         part.Schema,
		"blinkingcursor": part.BlinkingCursor,
		"linespacing":    part.LineSpacing,
	})
	term := terminalFile{TerminalSizeHint: def.TerminalSizeHint}
	s.read(TerminalFile, &term, map[string]any{
		"terminalsizehint": term.TerminalSizeHint,
	})

	custom, err := schema.ParseFontDescriptor(part.DefaultFont)
	if err != nil {
		s.warn("settings defaultfont invalid", "value", part.DefaultFont, "err", err)
		custom = schema.DefaultFontDescriptor()
	}
	snap := schema.Snapshot{
		Font:             schema.PresetFont(schema.ClampFontIndex(part.Font)),
		CustomFont:       custom,
		HistoryEnabled:   part.HistoryEnabled,
		HistorySize:      part.History,
		SchemaID:         schema.DefaultSchemaID,
		SchemaPath:       part.Schema,
		Keymap:           schema.KeymapID(part.Keytab),
		Bell:             schema.ClampBellMode(part.BellMode),
		Scrollbar:        schema.ClampScrollbar(part.Scrollbar),
		WordSeparators:   part.WordSeps,
		LineSpacing:      schema.ClampLineSpacing(part.LineSpacing),
		BlinkingCursor:   part.BlinkingCursor,
		FrameVisible:     part.HasFrame,
		TerminalSizeHint: term.TerminalSizeHint,
	}
	return schema.NormalizeSnapshot(snap), loaded
}

func (s *Store) read(name string, out any, defaults map[string]any) bool {
	path := filepath.Join(s.dir, name)
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	loaded := true
	if err := v.ReadInConfig(); err != nil {
		loaded = false
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound), errors.Is(err, fs.ErrNotExist):
			s.debug("settings load miss", "file", name)
		default:
			s.warn("settings load failed", "file", name, "err", err)
			v = viper.New()
			for key, value := range defaults {
				v.SetDefault(key, value)
			}
		}
	}
	if err := v.Unmarshal(out); err != nil {
		s.warn("settings decode failed", "file", name, "err", err)
		return false
	}
	if loaded {
		s.debug("settings load ok", "file", name)
	}
	return loaded
}

// Save writes the part namespace atomically.
func (s *Store) Save(snap schema.Snapshot) error {
	snap = schema.NormalizeSnapshot(snap)
	part := partFile{
		HasFrame:       snap.FrameVisible,
		HistoryEnabled: snap.HistoryEnabled,
		BellMode:       int(snap.Bell),
		Font:           snap.Font.Index(),
		Keytab:         int(snap.Keymap),
		Scrollbar:      int(snap.Scrollbar),
		History:        snap.HistorySize,
		WordSeps:       snap.WordSeparators,
		DefaultFont:    snap.CustomFont.String(),
		Schema:         snap.SchemaPath,
		BlinkingCursor: snap.BlinkingCursor,
		LineSpacing:    snap.LineSpacing,
	}
	data, err := yaml.Marshal(part)
	if err != nil {
		s.warn("settings save failed", "err", err)
		return err
	}
	if err := writeAtomic(filepath.Join(s.dir, PartFile), data); err != nil {
		s.warn("settings save failed", "err", err)
		return err
	}
	s.debug("settings save ok", "file", PartFile)
	return nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "settings-*.yaml")
	if err != nil {
		return err
	}
	cleanup := func() { _ = os.Remove(tmp.Name()) }
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		cleanup()
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

func (s *Store) debug(msg string, kv ...any) {
	if s.log != nil {
		s.log.Debug(msg, kv...)
	}
}

func (s *Store) warn(msg string, kv ...any) {
	if s.log != nil {
		s.log.Warn(msg, kv...)
	}
}
