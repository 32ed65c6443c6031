package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"pkt.systems/termpart/internal/version"
)

func main() {
	var outPath string
	flag.StringVar(&outPath, "o", "", "write the version to this file instead of stdout")
	flag.Parse()

	ver := strings.TrimSpace(version.Current())
	if outPath == "" {
		fmt.Fprintln(os.Stdout, ver)
		return
	}
	if err := writeVersion(outPath, ver); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// writeVersion rewrites path only when the version changed.
func writeVersion(path string, ver string) error {
	data, err := os.ReadFile(path)
	if err == nil && strings.TrimSpace(string(data)) == ver {
		return nil
	}
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read version file: %w", err)
	}
	if err := os.WriteFile(path, []byte(ver+"\n"), 0o644); err != nil {
		return fmt.Errorf("write version file: %w", err)
	}
	return nil
}
