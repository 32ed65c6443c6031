package version

import (
	"runtime/debug"
	"strings"
	"testing"
	"time"
)

func TestCurrentPrefersBuildVersion(t *testing.T) {
	old := buildVersion
	buildVersion = "v1.2.3"
	t.Cleanup(func() { buildVersion = old })

	if got := Current(); got != "v1.2.3" {
		t.Fatalf("expected build version, got %q", got)
	}
}

func TestPseudoVersionFromBuildInfo(t *testing.T) {
	ts := time.Date(2025, time.January, 2, 3, 4, 5, 0, time.UTC)
	info := &debug.BuildInfo{
		Main: debug.Module{Path: "example.com/termpart", Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "1234567890abcdef"},
			{Key: "vcs.time", Value: ts.Format(time.RFC3339)},
			{Key: "vcs.modified", Value: "true"},
		},
	}
	got := fromBuildInfo(info, "")
	if got.Module != "example.com/termpart" {
		t.Fatalf("unexpected module %q", got.Module)
	}
	s := got.String()
	if want := "v0.0.0-20250102030405-1234567890ab"; !strings.HasPrefix(s, want) {
		t.Fatalf("unexpected version prefix: %q", s)
	}
	if !strings.HasSuffix(s, "+dirty") {
		t.Fatalf("expected dirty suffix, got %q", s)
	}
	if fromBuildInfo(nil, "").String() != "v0.0.0-unknown" {
		t.Fatalf("expected unknown version for nil build info")
	}
	if fromBuildInfo(nil, "").Module != defaultModule {
		t.Fatalf("expected default module")
	}
}
