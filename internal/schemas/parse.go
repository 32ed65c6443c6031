// Package schemas loads color schema files into an ordered collection.
package schemas

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"pkt.systems/termpart/schema"
)

// Transparency tints the desktop behind the view.
type Transparency struct {
	Fade float64
	Tint color.RGBA
}

// ColorSchema is a named palette plus background settings.
type ColorSchema struct {
	ID           schema.SchemaID
	Title        string
	Path         string
	Colors       schema.ColorTable
	Alignment    schema.Alignment
	ImagePath    string
	Transparency *Transparency

	file    string
	modTime int64
	stale   bool
}

// DefaultSchema returns the built-in schema with id 0.
func DefaultSchema() *ColorSchema {
	return &ColorSchema{
		ID:        schema.DefaultSchemaID,
		Title:     "Default",
		Colors:    schema.DefaultColorTable(),
		Alignment: schema.AlignNone,
	}
}

// File returns the absolute backing file, empty for the built-in schema.
func (s *ColorSchema) File() string {
	return s.file
}

// Parse reads a schema file. Recognized lines:
//
//	title <text>
//	color <slot> <r> <g> <b> <transparent 0|1> <bold 0|1>
//	image <tile|center|full> <path>
//	transparency <fade 0..1> <r> <g> <b>
//
// Blank lines, "#" comments and unknown keywords are ignored.
func Parse(r io.Reader) (*ColorSchema, error) {
	out := &ColorSchema{
		Colors:    schema.DefaultColorTable(),
		Alignment: schema.AlignNone,
	}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		keyword, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)
		var err error
		switch keyword {
		case "title":
			out.Title = rest
		case "color":
			err = parseColor(out, rest)
		case "image":
			err = parseImage(out, rest)
		case "transparency":
			err = parseTransparency(out, rest)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", schema.ErrInvalidSchema, lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if out.Title == "" {
		return nil, fmt.Errorf("%w: missing title", schema.ErrInvalidSchema)
	}
	return out, nil
}

func parseColor(out *ColorSchema, rest string) error {
	v, err := ints(rest, 6)
	if err != nil {
		return err
	}
	slot := v[0]
	if slot < 0 || slot >= schema.ColorTableSize {
		return fmt.Errorf("color slot %d out of range", slot)
	}
	rgb, err := channels(v[1], v[2], v[3])
	if err != nil {
		return err
	}
	out.Colors[slot] = schema.ColorEntry{Color: rgb, Transparent: v[4] != 0, Bold: v[5] != 0}
	return nil
}

func parseImage(out *ColorSchema, rest string) error {
	mode, path, ok := strings.Cut(rest, " ")
	path = strings.TrimSpace(path)
	if !ok || path == "" {
		return fmt.Errorf("image needs alignment and path")
	}
	align, ok := ParseAlignment(mode)
	if !ok {
		return fmt.Errorf("unknown alignment %q", mode)
	}
	out.Alignment = align
	out.ImagePath = path
	return nil
}

func parseTransparency(out *ColorSchema, rest string) error {
	fields := strings.Fields(rest)
	if len(fields) != 4 {
		return fmt.Errorf("transparency needs 4 fields, got %d", len(fields))
	}
	fade, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || fade < 0 || fade > 1 {
		return fmt.Errorf("fade %q out of range", fields[0])
	}
	v, err := ints(strings.Join(fields[1:], " "), 3)
	if err != nil {
		return err
	}
	tint, err := channels(v[0], v[1], v[2])
	if err != nil {
		return err
	}
	out.Transparency = &Transparency{Fade: fade, Tint: tint}
	return nil
}

// ParseAlignment maps a schema keyword to an alignment.
func ParseAlignment(keyword string) (schema.Alignment, bool) {
	switch strings.ToLower(strings.TrimSpace(keyword)) {
	case "none":
		return schema.AlignNone, true
	case "tile", "tiled":
		return schema.AlignTile, true
	case "center", "centered":
		return schema.AlignCenter, true
	case "full":
		return schema.AlignFull, true
	default:
		return 0, false
	}
}

func ints(s string, n int) ([]int, error) {
	fields := strings.Fields(s)
	if len(fields) != n {
		return nil, fmt.Errorf("expected %d fields, got %d", n, len(fields))
	}
	out := make([]int, n)
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f, err)
		}
		out[i] = v
	}
	return out, nil
}

func channels(r, g, b int) (color.RGBA, error) {
	for _, c := range []int{r, g, b} {
		if c < 0 || c > 255 {
			return color.RGBA{}, fmt.Errorf("channel %d out of range", c)
		}
	}
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 0xff}, nil
}

// Encode writes s in the form Parse reads.
func Encode(w io.Writer, s *ColorSchema) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "title %s\n", s.Title)
	if s.ImagePath != "" && s.Alignment != schema.AlignNone {
		fmt.Fprintf(bw, "image %s %s\n", s.Alignment, s.ImagePath)
	}
	if t := s.Transparency; t != nil {
		fmt.Fprintf(bw, "transparency %s %d %d %d\n", strconv.FormatFloat(t.Fade, 'g', -1, 64), t.Tint.R, t.Tint.G, t.Tint.B)
	}
	for slot, entry := range s.Colors {
		fmt.Fprintf(bw, "color %d %d %d %d %d %d\n", slot, entry.Color.R, entry.Color.G, entry.Color.B, boolInt(entry.Transparent), boolInt(entry.Bold))
	}
	return bw.Flush()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
