package ptyengine

import (
	"image"
	"image/color"
	"sync"

	"pkt.systems/termpart/schema"
)

// View is a headless rendering target. It records what a graphical view
// would draw and reports a pixel size derived from the grid and font.
type View struct {
	mu sync.RWMutex

	cols, rows  int
	fixedW      int
	fixedH      int
	table       schema.ColorTable
	background  image.Image
	tiled       bool
	bgColor     color.RGBA
	font        schema.FontDescriptor
	frame       bool
	scrollbar   schema.ScrollbarPosition
	bell        schema.BellMode
	lineSpacing int
	blink       bool
	wordSeps    string
	sizeHint    bool
}

const defaultCellHeight = 13

// NewView returns a view for a cols x rows grid. A non-zero width and height
// pin the pixel size instead of deriving it from the font.
func NewView(cols, rows, width, height int) *View {
	table := schema.DefaultColorTable()
	return &View{
		cols:     cols,
		rows:     rows,
		fixedW:   width,
		fixedH:   height,
		table:    table,
		bgColor:  table.Background(),
		font:     schema.DefaultFontDescriptor(),
		wordSeps: schema.DefaultWordSeparators,
	}
}

// SetColorTable installs the palette.
func (v *View) SetColorTable(table schema.ColorTable) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.table = table
}

// ColorTable returns the palette.
func (v *View) ColorTable() schema.ColorTable {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.table
}

// SetBackgroundImage installs img; nil removes it.
func (v *View) SetBackgroundImage(img image.Image, tiled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.background = img
	v.tiled = tiled
}

// Background returns the background image, if any.
func (v *View) Background() (image.Image, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.background, v.tiled
}

// SetBackgroundColor sets the solid background.
func (v *View) SetBackgroundColor(c color.RGBA) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.bgColor = c
}

// Close drops the background pixmap.
func (v *View) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.background = nil
	return nil
}

// BackgroundColor returns the solid background.
func (v *View) BackgroundColor() color.RGBA {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.bgColor
}

// DefaultBackgroundColor is the background slot of the active palette.
func (v *View) DefaultBackgroundColor() color.RGBA {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.table.Background()
}

// Size returns the pixel size of the text area.
func (v *View) Size() (int, int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.fixedW > 0 && v.fixedH > 0 {
		return v.fixedW, v.fixedH
	}
	h := v.font.PixelSize
	if h <= 0 {
		h = defaultCellHeight
	}
	w := (h*6 + 9) / 10
	return v.cols * w, v.rows * (h + v.lineSpacing)
}

func (v *View) setGrid(cols, rows int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cols, v.rows = cols, rows
}

// Grid returns the character grid size.
func (v *View) Grid() (cols, rows int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.cols, v.rows
}

// SetFont sets the render font.
func (v *View) SetFont(font schema.FontDescriptor) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.font = font
}

// Font returns the render font.
func (v *View) Font() schema.FontDescriptor {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.font
}

func (v *View) SetFrameVisible(visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.frame = visible
}

func (v *View) SetScrollbar(pos schema.ScrollbarPosition) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scrollbar = pos
}

func (v *View) SetBellMode(mode schema.BellMode) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.bell = mode
}

// BellMode returns how the bell is rendered.
func (v *View) BellMode() schema.BellMode {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.bell
}

func (v *View) SetLineSpacing(pixels int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lineSpacing = pixels
}

func (v *View) SetBlinkingCursor(blink bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.blink = blink
}

func (v *View) SetWordSeparators(seps string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.wordSeps = seps
}

func (v *View) SetTerminalSizeHint(show bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sizeHint = show
}

// Settings is a copy of the view flags.
type Settings struct {
	Frame          bool
	Scrollbar      schema.ScrollbarPosition
	Bell           schema.BellMode
	LineSpacing    int
	BlinkingCursor bool
	WordSeparators string
	SizeHint       bool
}

// Settings returns the current view flags.
func (v *View) Settings() Settings {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return Settings{
		Frame:          v.frame,
		Scrollbar:      v.scrollbar,
		Bell:           v.bell,
		LineSpacing:    v.lineSpacing,
		BlinkingCursor: v.blink,
		WordSeparators: v.wordSeps,
		SizeHint:       v.sizeHint,
	}
}
