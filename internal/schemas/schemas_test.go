package schemas

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"pkt.systems/termpart/schema"
)

const blackOnWhite = `# sample
title Black on White
image tile /usr/share/wallpapers/paper.png
transparency 0.25 10 20 30
color 0 0 0 0 0 0
color 1 255 255 255 1 0
color 10 40 40 40 0 1
`

func TestParseSchema(t *testing.T) {
	s, err := Parse(strings.NewReader(blackOnWhite))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if s.Title != "Black on White" {
		t.Fatalf("unexpected title %q", s.Title)
	}
	if s.Alignment != schema.AlignTile || s.ImagePath != "/usr/share/wallpapers/paper.png" {
		t.Fatalf("unexpected image %v %q", s.Alignment, s.ImagePath)
	}
	want := &Transparency{Fade: 0.25, Tint: color.RGBA{R: 10, G: 20, B: 30, A: 0xff}}
	if !reflect.DeepEqual(s.Transparency, want) {
		t.Fatalf("unexpected transparency %+v", s.Transparency)
	}
	if entry := s.Colors[10]; !entry.Bold || entry.Color.R != 40 {
		t.Fatalf("unexpected slot 10 %+v", entry)
	}
	if !s.Colors[1].Transparent {
		t.Fatalf("expected slot 1 transparent")
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	s, err := Parse(strings.NewReader(blackOnWhite))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, s); err != nil {
		t.Fatalf("encode: %v", err)
	}
	again, err := Parse(&buf)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if !reflect.DeepEqual(s, again) {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", s, again)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	cases := []string{
		"color 0 0 0 0 0 0\n",
		"title x\ncolor 25 0 0 0 0 0\n",
		"title x\ncolor 0 300 0 0 0 0\n",
		"title x\nimage sideways /tmp/a.png\n",
		"title x\ntransparency 1.5 0 0 0\n",
	}
	for _, input := range cases {
		if _, err := Parse(strings.NewReader(input)); !errors.Is(err, schema.ErrInvalidSchema) {
			t.Fatalf("input %q: expected ErrInvalidSchema, got %v", input, err)
		}
	}
}

func writeSchema(t *testing.T, dir, name, title string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("title "+title+"\n"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestCollectionCheck(t *testing.T) {
	dir := t.TempDir()
	writeSchema(t, dir, "b.schema", "B")
	writeSchema(t, dir, "a.schema", "A")
	if err := os.WriteFile(filepath.Join(dir, "broken.schema"), []byte("color 1 2 3\n"), 0o644); err != nil {
		t.Fatalf("write broken: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("title nope\n"), 0o644); err != nil {
		t.Fatalf("write notes: %v", err)
	}

	c := NewCollection(context.Background(), dir, filepath.Join(dir, "missing"))
	if c.Len() != 1 || c.At(0).ID != schema.DefaultSchemaID {
		t.Fatalf("expected only the default schema before check")
	}
	changed, err := c.Check()
	if err != nil || !changed {
		t.Fatalf("check: changed=%v err=%v", changed, err)
	}
	if c.Len() != 3 {
		t.Fatalf("expected 3 schemas, got %d", c.Len())
	}
	a, ok := c.FindByPath("a.schema")
	if !ok || a.ID != 1 || a.Title != "A" {
		t.Fatalf("unexpected a.schema %+v", a)
	}
	if b, ok := c.FindByID(2); !ok || b.Path != "b.schema" {
		t.Fatalf("unexpected id 2 %+v", b)
	}
	if changed, _ := c.Check(); changed {
		t.Fatalf("expected no change on rescan")
	}

	if err := os.Remove(filepath.Join(dir, "a.schema")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	writeSchema(t, dir, "c.schema", "C")
	if changed, _ := c.Check(); !changed {
		t.Fatalf("expected change after add/remove")
	}
	if _, ok := c.FindByID(1); ok {
		t.Fatalf("expected id 1 gone")
	}
	if s, ok := c.FindByPath("c.schema"); !ok || s.ID != 3 {
		t.Fatalf("expected c.schema with fresh id 3, got %+v", s)
	}
	if def, ok := c.FindByPath(""); !ok || def.ID != schema.DefaultSchemaID {
		t.Fatalf("expected default schema under empty path")
	}
}

func TestSchemaReread(t *testing.T) {
	dir := t.TempDir()
	path := writeSchema(t, dir, "x.schema", "Before")
	c := NewCollection(context.Background(), dir)
	if _, err := c.Check(); err != nil {
		t.Fatalf("check: %v", err)
	}
	s, _ := c.FindByPath("x.schema")
	if s.HasChanged() {
		t.Fatalf("expected unchanged after load")
	}
	if err := os.WriteFile(path, []byte("title After\n"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if !c.MarkStale(path) {
		t.Fatalf("expected mark stale to find schema")
	}
	if !s.HasChanged() {
		t.Fatalf("expected changed after mark stale")
	}
	if err := s.Reread(); err != nil {
		t.Fatalf("reread: %v", err)
	}
	if s.Title != "After" || s.ID != 1 || s.HasChanged() {
		t.Fatalf("unexpected schema after reread %+v", s)
	}
}

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	changes := make(chan Change, 16)
	w, err := Watch(context.Background(), []string{dir}, func(c Change) { changes <- c })
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer w.Close()

	path := writeSchema(t, dir, "live.schema", "Live")
	deadline := time.After(5 * time.Second)
	for {
		select {
		case c := <-changes:
			if filepath.Base(c.File) == filepath.Base(path) {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for schema change")
		}
	}
}
