package schema

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// SessionConfig describes the shell a controller starts.
type SessionConfig struct {
	Shell      string
	Args       []string
	Term       string
	WorkingDir string
	Columns    int
	Rows       int
}

const (
	// DefaultTerm is the TERM value exported to the session.
	DefaultTerm = "xterm"
	// DefaultColumns is the initial terminal width.
	DefaultColumns = 80
	// DefaultRows is the initial terminal height.
	DefaultRows = 24
)

// NormalizeSessionConfig applies defaults and validates the config.
func NormalizeSessionConfig(cfg SessionConfig) (SessionConfig, error) {
	cfg.Shell = strings.TrimSpace(cfg.Shell)
	if cfg.Shell == "" {
		cfg.Shell = strings.TrimSpace(os.Getenv("SHELL"))
	}
	if cfg.Shell == "" {
		cfg.Shell = "/bin/sh"
	}
	if cfg.Term == "" {
		cfg.Term = DefaultTerm
	}
	if cfg.WorkingDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			home, herr := os.UserHomeDir()
			if herr != nil {
				return SessionConfig{}, errors.Join(err, herr)
			}
			wd = home
		}
		cfg.WorkingDir = wd
	}
	if !filepath.IsAbs(cfg.WorkingDir) {
		abs, err := filepath.Abs(cfg.WorkingDir)
		if err != nil {
			return SessionConfig{}, err
		}
		cfg.WorkingDir = abs
	}
	if cfg.Columns <= 0 {
		cfg.Columns = DefaultColumns
	}
	if cfg.Rows <= 0 {
		cfg.Rows = DefaultRows
	}
	if cfg.Columns > 0xffff || cfg.Rows > 0xffff {
		return SessionConfig{}, errors.New("terminal size out of range")
	}
	return cfg, nil
}

// Argv returns the full command line.
func (c SessionConfig) Argv() []string {
	out := make([]string, 0, len(c.Args)+1)
	out = append(out, c.Shell)
	return append(out, c.Args...)
}

// Env returns the environment for the session process.
func (c SessionConfig) Env() []string {
	env := os.Environ()
	out := make([]string, 0, len(env)+1)
	for _, kv := range env {
		if strings.HasPrefix(kv, "TERM=") {
			continue
		}
		out = append(out, kv)
	}
	return append(out, "TERM="+c.Term)
}
