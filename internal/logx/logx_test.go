package logx

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"pkt.systems/pslog"
)

func TestWithSchemaAddsFields(t *testing.T) {
	capture := &logCapture{}
	logger := pslog.NewWithOptions(capture, pslog.Options{
		Mode:          pslog.ModeStructured,
		NoColor:       true,
		MinLevel:      pslog.InfoLevel,
		VerboseFields: true,
	})
	log := WithSchema(logger, 2, "")
	log.Info("hello")

	entry := capture.firstEntry(t)
	if entry["schema"] != float64(2) {
		t.Fatalf("expected schema field, got %+v", entry)
	}
	if _, ok := entry["schema_path"]; ok {
		t.Fatalf("did not expect schema_path for built-in schema")
	}
}

func TestWithSchemaAddsPath(t *testing.T) {
	capture := &logCapture{}
	logger := pslog.NewWithOptions(capture, pslog.Options{
		Mode:          pslog.ModeStructured,
		NoColor:       true,
		MinLevel:      pslog.InfoLevel,
		VerboseFields: true,
	})
	WithSchema(logger, 3, "Linux.schema").Info("hello")

	entry := capture.firstEntry(t)
	if entry["schema_path"] != "Linux.schema" {
		t.Fatalf("expected schema_path field, got %+v", entry)
	}
}

func TestContextWithSessionDoesNotRepeat(t *testing.T) {
	capture := &logCapture{}
	logger := pslog.NewWithOptions(capture, pslog.Options{
		Mode:          pslog.ModeStructured,
		NoColor:       true,
		MinLevel:      pslog.InfoLevel,
		VerboseFields: true,
	})
	ctx := pslog.ContextWithLogger(context.Background(), logger)
	ctx = ContextWithSession(ctx, "pty-1")
	WithSession(ctx, "pty-1").Info("hello")

	line := strings.TrimSpace(capture.buf.String())
	if strings.Count(line, `"session"`) != 1 {
		t.Fatalf("expected one session field, got %s", line)
	}
	entry := capture.firstEntry(t)
	if entry["session"] != "pty-1" {
		t.Fatalf("expected session field, got %+v", entry)
	}
}

type logCapture struct {
	buf bytes.Buffer
}

func (c *logCapture) Write(p []byte) (int, error) {
	return c.buf.Write(p)
}

func (c *logCapture) firstEntry(t *testing.T) map[string]any {
	t.Helper()
	data := c.buf.Bytes()
	idx := bytes.IndexByte(data, '\n')
	if idx == -1 {
		idx = len(data)
	}
	line := bytes.TrimSpace(data[:idx])
	entry := map[string]any{}
	if err := json.Unmarshal(line, &entry); err != nil {
		t.Fatalf("parse log entry: %v", err)
	}
	return entry
}
