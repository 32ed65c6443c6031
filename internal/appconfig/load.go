package appconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Load reads configuration from the provided path. If path is empty, uses DefaultConfigPath.
func Load(path string) (Config, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return Config{}, err
		}
		path = defaultPath
	}

	cfg, err := DefaultConfig()
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("config_version", cfg.ConfigVersion)
	v.SetDefault("settings_dir", cfg.SettingsDir)
	v.SetDefault("session.shell", cfg.Session.Shell)
	v.SetDefault("session.args", cfg.Session.Args)
	v.SetDefault("session.term", cfg.Session.Term)
	v.SetDefault("session.working_dir", cfg.Session.WorkingDir)
	v.SetDefault("session.columns", cfg.Session.Columns)
	v.SetDefault("session.rows", cfg.Session.Rows)
	v.SetDefault("schemas.dirs", cfg.Schemas.Dirs)
	v.SetDefault("schemas.watch", cfg.Schemas.Watch)
	v.SetDefault("fonts.dirs", cfg.Fonts.Dirs)
	v.SetDefault("view.width", cfg.View.Width)
	v.SetDefault("view.height", cfg.View.Height)
	v.SetDefault("view.desktop_image", cfg.View.DesktopImage)
	v.SetDefault("view.refresh_ms", cfg.View.RefreshMillis)
	v.SetDefault("history.spool_dir", cfg.History.SpoolDir)

	configLoaded := false
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	} else {
		configLoaded = true
	}

	if configLoaded {
		if !v.IsSet("config_version") {
			return Config{}, fmt.Errorf("config_version is required; expected %d", CurrentConfigVersion)
		}
		if v.GetInt("config_version") != CurrentConfigVersion {
			return Config{}, fmt.Errorf("unsupported config_version %d; expected %d", v.GetInt("config_version"), CurrentConfigVersion)
		}
	}

	var out Config
	if err := v.Unmarshal(&out); err != nil {
		return Config{}, err
	}
	expandConfigEnv(&out)
	if err := validate(out); err != nil {
		return Config{}, err
	}
	return out, nil
}

func validate(cfg Config) error {
	if strings.TrimSpace(cfg.SettingsDir) == "" {
		return fmt.Errorf("settings_dir is required")
	}
	if cfg.Session.Columns < 0 || cfg.Session.Rows < 0 {
		return fmt.Errorf("session.columns and session.rows must not be negative")
	}
	if cfg.View.Width <= 0 || cfg.View.Height <= 0 {
		return fmt.Errorf("view.width and view.height must be positive")
	}
	if cfg.View.RefreshMillis <= 0 {
		return fmt.Errorf("view.refresh_ms must be positive")
	}
	return nil
}

func expandConfigEnv(cfg *Config) {
	if cfg == nil {
		return
	}
	cfg.SettingsDir = expandEnv(cfg.SettingsDir)
	cfg.Session.Shell = expandEnv(cfg.Session.Shell)
	cfg.Session.WorkingDir = expandEnv(cfg.Session.WorkingDir)
	for i, dir := range cfg.Schemas.Dirs {
		cfg.Schemas.Dirs[i] = expandEnv(dir)
	}
	for i, dir := range cfg.Fonts.Dirs {
		cfg.Fonts.Dirs[i] = expandEnv(dir)
	}
	cfg.View.DesktopImage = expandEnv(cfg.View.DesktopImage)
	cfg.History.SpoolDir = expandEnv(cfg.History.SpoolDir)
}

func expandEnv(value string) string {
	if value == "" {
		return value
	}
	return os.Expand(value, func(key string) string {
		if key == "" {
			return ""
		}
		if val, ok := lookupEnv(key); ok {
			return val
		}
		return "$" + key
	})
}

func lookupEnv(key string) (string, bool) {
	if val, ok := os.LookupEnv(key); ok {
		return val, true
	}
	switch key {
	case "UID":
		return fmt.Sprintf("%d", os.Getuid()), true
	case "GID":
		return fmt.Sprintf("%d", os.Getgid()), true
	}
	return "", false
}

// WriteDefault writes the default config to the target path.
func WriteDefault(path string, overwrite bool) (string, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return "", err
		}
		path = defaultPath
	}

	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("config already exists at %s", path)
		}
	}

	cfg, err := DefaultConfig()
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
