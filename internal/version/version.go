// Package version reports the build version of the termpart binary.
package version

import (
	"runtime/debug"
	"strings"
	"time"
)

const defaultModule = "pkt.systems/termpart"

// buildVersion is set via -ldflags "-X pkt.systems/termpart/internal/version.buildVersion=...".
var buildVersion = ""

// Info describes the running build.
type Info struct {
	Module   string
	Version  string
	Revision string
	Time     time.Time
	Dirty    bool
}

// Read collects build information from the linker flag and the embedded
// build info.
func Read() Info {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		info = nil
	}
	return fromBuildInfo(info, buildVersion)
}

// Current returns the best available version string without the dirty suffix.
func Current() string {
	return strings.TrimSuffix(Read().String(), "+dirty")
}

// Module returns the main module path.
func Module() string {
	return Read().Module
}

// String renders the version, marking modified working trees with "+dirty".
func (i Info) String() string {
	if i.Version != "" {
		return i.Version
	}
	if i.Revision == "" || i.Time.IsZero() {
		return "v0.0.0-unknown"
	}
	rev := i.Revision
	if len(rev) > 12 {
		rev = rev[:12]
	}
	out := "v0.0.0-" + i.Time.UTC().Format("20060102150405") + "-" + rev
	if i.Dirty {
		out += "+dirty"
	}
	return out
}

func fromBuildInfo(info *debug.BuildInfo, linked string) Info {
	out := Info{Module: defaultModule, Version: strings.TrimSpace(linked)}
	if info == nil {
		return out
	}
	if path := strings.TrimSpace(info.Main.Path); path != "" {
		out.Module = path
	}
	if out.Version == "" {
		if v := strings.TrimSpace(info.Main.Version); v != "" && v != "(devel)" {
			out.Version = v
		}
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			out.Revision = setting.Value
		case "vcs.time":
			if parsed, err := time.Parse(time.RFC3339, setting.Value); err == nil {
				out.Time = parsed
			}
		case "vcs.modified":
			out.Dirty = setting.Value == "true"
		}
	}
	return out
}
