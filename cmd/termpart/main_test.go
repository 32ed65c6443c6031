package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"pkt.systems/termpart/internal/appconfig"
	"pkt.systems/termpart/internal/fonts"
	"pkt.systems/termpart/internal/schemas"
	"pkt.systems/termpart/schema"
)

func TestRootCommands(t *testing.T) {
	root := newRootCmd()
	want := []string{"config", "fonts", "run", "schemas", "settings", "version"}
	var got []string
	for _, cmd := range root.Commands() {
		got = append(got, cmd.Name())
	}
	for _, name := range want {
		found := false
		for _, g := range got {
			if g == name {
				found = true
			}
		}
		if !found {
			t.Fatalf("missing command %q in %v", name, got)
		}
	}
}

func TestApplyRunArgs(t *testing.T) {
	cfg := appconfig.Config{Session: appconfig.SessionConfig{Shell: "/bin/bash", Args: []string{"-l"}}}
	applyRunArgs(&cfg, []string{"/bin/zsh", "-i"}, "/tmp")
	if cfg.Session.Shell != "/bin/zsh" || !reflect.DeepEqual(cfg.Session.Args, []string{"-i"}) {
		t.Fatalf("unexpected session %+v", cfg.Session)
	}
	if cfg.Session.WorkingDir != "/tmp" {
		t.Fatalf("unexpected working dir %q", cfg.Session.WorkingDir)
	}

	cfg = appconfig.Config{Session: appconfig.SessionConfig{Shell: "/bin/bash", Args: []string{"-l"}}}
	applyRunArgs(&cfg, nil, "")
	if cfg.Session.Shell != "/bin/bash" || !reflect.DeepEqual(cfg.Session.Args, []string{"-l"}) {
		t.Fatalf("config changed without args: %+v", cfg.Session)
	}
}

func TestWriteSchemas(t *testing.T) {
	var buf bytes.Buffer
	if err := writeSchemas(&buf, []*schemas.ColorSchema{schemas.DefaultSchema()}); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "ID") || !strings.Contains(lines[1], "(built-in)") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestWriteFontsMarksAvailability(t *testing.T) {
	catalog := fonts.NewStaticCatalog("-misc-fixed-medium-r-normal--20-200-75-75-c-100-iso8859-1")
	var buf bytes.Buffer
	if err := writeFonts(&buf, fonts.NewResolver(catalog)); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != len(fonts.Presets())+1 {
		t.Fatalf("unexpected line count %d", len(lines))
	}
	if !strings.HasSuffix(strings.TrimSpace(lines[6]), "yes") {
		t.Fatalf("expected 20px preset available: %q", lines[6])
	}
	if !strings.HasSuffix(strings.TrimSpace(lines[2]), "no") {
		t.Fatalf("expected 7px preset missing: %q", lines[2])
	}
	if !strings.Contains(lines[schema.DefaultFontIndex+1], "(default)") {
		t.Fatalf("default preset not marked: %q", lines[schema.DefaultFontIndex+1])
	}
}

func TestSettingsView(t *testing.T) {
	view := toSettingsView(schema.DefaultSnapshot(), false)
	if view.Stored || view.WordSeparators != schema.DefaultWordSeparators || !view.SizeHint {
		t.Fatalf("unexpected view %+v", view)
	}
}

func TestSchemasListLoadsDirs(t *testing.T) {
	root := t.TempDir()
	schemaDir := filepath.Join(root, "schemas")
	if err := os.MkdirAll(schemaDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(schemaDir, "amber"+schemas.Extension), []byte("title Amber\ncolor 0 255 176 0 0 0\n"), 0o644); err != nil {
		t.Fatalf("write schema: %v", err)
	}
	cfgPath := filepath.Join(root, "config.yaml")
	content := fmt.Sprintf("config_version: 1\nsettings_dir: %s\nschemas:\n  dirs:\n    - %s\n", filepath.Join(root, "settings"), schemaDir)
	if err := os.WriteFile(cfgPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cmd := newSchemasListCmd(&cfgPath)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs(nil)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("schemas list: %v", err)
	}
	if !strings.Contains(buf.String(), "Amber") || !strings.Contains(buf.String(), "amber"+schemas.Extension) {
		t.Fatalf("schema dir not listed: %q", buf.String())
	}
}
