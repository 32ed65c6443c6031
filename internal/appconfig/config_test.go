package appconfig

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfigPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	cfg, err := DefaultConfig()
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	if cfg.SettingsDir != filepath.Join(home, ".termpart", "settings") {
		t.Fatalf("unexpected settings dir %q", cfg.SettingsDir)
	}
	if len(cfg.Schemas.Dirs) == 0 || !strings.HasPrefix(cfg.Schemas.Dirs[0], home) {
		t.Fatalf("expected user schema dir first, got %v", cfg.Schemas.Dirs)
	}
	path, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("default path: %v", err)
	}
	if path != filepath.Join(home, ".termpart", "config.yaml") {
		t.Fatalf("unexpected config path %q", path)
	}
}
