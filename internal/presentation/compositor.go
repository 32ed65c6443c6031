package presentation

import (
	"context"
	"image"
	"image/color"
	"sync"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"pkt.systems/pslog"
)

// DefaultRefresh is the compositor refresh interval.
const DefaultRefresh = 100 * time.Millisecond

// Compositor blends the desktop behind the view toward a tint color and
// pushes the result to the canvas until stopped.
type Compositor struct {
	canvas   Canvas
	desktop  Desktop
	interval time.Duration

	mu     sync.Mutex
	fade   float64
	tint   color.RGBA
	cancel context.CancelFunc
	done   chan struct{}
}

// NewCompositor returns a stopped compositor. A nil desktop blends over the
// canvas default background.
func NewCompositor(canvas Canvas, desktop Desktop, interval time.Duration) *Compositor {
	if interval <= 0 {
		interval = DefaultRefresh
	}
	return &Compositor{canvas: canvas, desktop: desktop, interval: interval}
}

// SetFadeEffect sets the blend factor (0..1) and tint.
func (c *Compositor) SetFadeEffect(fade float64, tint color.RGBA) {
	if fade < 0 {
		fade = 0
	}
	if fade > 1 {
		fade = 1
	}
	c.mu.Lock()
	c.fade = fade
	c.tint = tint
	c.mu.Unlock()
}

// Running reports whether the refresh goroutine is active.
func (c *Compositor) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancel != nil
}

// Start begins continuous refresh. Starting a running compositor is a no-op.
func (c *Compositor) Start(ctx context.Context) {
	c.mu.Lock()
	if c.cancel != nil {
		c.mu.Unlock()
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.cancel = cancel
	c.done = done
	c.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				c.Repaint(runCtx)
			}
		}
	}()
}

// Stop ends continuous refresh and waits for the goroutine.
func (c *Compositor) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Repaint renders one frame and pushes it to the canvas.
func (c *Compositor) Repaint(ctx context.Context) {
	width, height := c.canvas.Size()
	if width <= 0 || height <= 0 {
		return
	}
	var base image.Image
	if c.desktop != nil {
		img, err := c.desktop.Capture(ctx, width, height)
		if err != nil {
			pslog.Ctx(ctx).Debug("desktop capture failed", "err", err)
		} else {
			base = img
		}
	}
	if base == nil {
		base = &image.Uniform{C: c.canvas.DefaultBackgroundColor()}
	}
	c.mu.Lock()
	fade, tint := c.fade, c.tint
	c.mu.Unlock()
	c.canvas.SetBackgroundImage(Blend(base, width, height, fade, tint), false)
}

// Blend mixes every pixel of src toward tint by fade.
func Blend(src image.Image, width, height int, fade float64, tint color.RGBA) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	target, _ := colorful.MakeColor(tint)
	origin := src.Bounds().Min
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			px, ok := colorful.MakeColor(src.At(origin.X+x, origin.Y+y))
			if !ok {
				continue
			}
			r, g, b := px.BlendRgb(target, fade).Clamped().RGB255()
			dst.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 0xff})
		}
	}
	return dst
}
