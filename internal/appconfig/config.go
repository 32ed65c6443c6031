package appconfig

import (
	"os"
	"path/filepath"

	"pkt.systems/termpart/schema"
)

// Config is the top-level application configuration.
type Config struct {
	ConfigVersion int           `mapstructure:"config_version" yaml:"config_version"`
	SettingsDir   string        `mapstructure:"settings_dir" yaml:"settings_dir"`
	Session       SessionConfig `mapstructure:"session" yaml:"session"`
	Schemas       SchemasConfig `mapstructure:"schemas" yaml:"schemas"`
	Fonts         FontsConfig   `mapstructure:"fonts" yaml:"fonts"`
	View          ViewConfig    `mapstructure:"view" yaml:"view"`
	History       HistoryConfig `mapstructure:"history" yaml:"history"`
}

// CurrentConfigVersion marks the supported config version.
const CurrentConfigVersion = 1

// SessionConfig controls the shell the part starts.
type SessionConfig struct {
	Shell      string   `mapstructure:"shell" yaml:"shell"`
	Args       []string `mapstructure:"args" yaml:"args"`
	Term       string   `mapstructure:"term" yaml:"term"`
	WorkingDir string   `mapstructure:"working_dir" yaml:"working_dir"`
	Columns    int      `mapstructure:"columns" yaml:"columns"`
	Rows       int      `mapstructure:"rows" yaml:"rows"`
}

// SchemasConfig lists color schema directories, highest precedence first.
type SchemasConfig struct {
	Dirs  []string `mapstructure:"dirs" yaml:"dirs"`
	Watch bool     `mapstructure:"watch" yaml:"watch"`
}

// FontsConfig lists X11 font directories used to validate preset fonts.
type FontsConfig struct {
	Dirs []string `mapstructure:"dirs" yaml:"dirs"`
}

// ViewConfig describes the rendering surface.
type ViewConfig struct {
	Width         int    `mapstructure:"width" yaml:"width"`
	Height        int    `mapstructure:"height" yaml:"height"`
	DesktopImage  string `mapstructure:"desktop_image" yaml:"desktop_image"`
	RefreshMillis int    `mapstructure:"refresh_ms" yaml:"refresh_ms"`
}

// HistoryConfig controls where unbounded scrollback is spooled.
type HistoryConfig struct {
	SpoolDir string `mapstructure:"spool_dir" yaml:"spool_dir"`
}

// SessionSpec converts the session section to the shared type.
func (c Config) SessionSpec() schema.SessionConfig {
	return schema.SessionConfig{
		Shell:      c.Session.Shell,
		Args:       append([]string(nil), c.Session.Args...),
		Term:       c.Session.Term,
		WorkingDir: c.Session.WorkingDir,
		Columns:    c.Session.Columns,
		Rows:       c.Session.Rows,
	}
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, err
	}
	return Config{
		ConfigVersion: CurrentConfigVersion,
		SettingsDir:   filepath.Join(home, ".termpart", "settings"),
		Session: SessionConfig{
			Shell:      "",
			Args:       []string{},
			Term:       schema.DefaultTerm,
			WorkingDir: "",
			Columns:    schema.DefaultColumns,
			Rows:       schema.DefaultRows,
		},
		Schemas: SchemasConfig{
			Dirs: []string{
				filepath.Join(home, ".termpart", "schemas"),
				"/usr/share/konsole",
				"/usr/share/apps/konsole",
			},
			Watch: true,
		},
		Fonts: FontsConfig{
			Dirs: []string{
				"/usr/share/fonts/X11/misc",
				"/usr/share/X11/fonts/misc",
				"/usr/lib/X11/fonts/misc",
			},
		},
		View: ViewConfig{
			Width:         640,
			Height:        384,
			DesktopImage:  "",
			RefreshMillis: 100,
		},
		History: HistoryConfig{
			SpoolDir: "",
		},
	}, nil
}

// DefaultConfigPath returns the standard config path.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".termpart", "config.yaml"), nil
}
