package presentation

import (
	"context"
	"image"
	"sync"
)

// Desktop supplies the pixels behind the view for pseudo transparency.
type Desktop interface {
	Capture(ctx context.Context, width, height int) (image.Image, error)
}

// FileDesktop serves a wallpaper file as the desktop, scaled to the request.
type FileDesktop struct {
	path string

	mu     sync.Mutex
	cached image.Image
	w, h   int
}

// NewFileDesktop returns a desktop backed by the image at path.
func NewFileDesktop(path string) *FileDesktop {
	return &FileDesktop{path: path}
}

// Capture loads the wallpaper on first use and rescales it when the size changes.
func (d *FileDesktop) Capture(_ context.Context, width, height int) (image.Image, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cached != nil && d.w == width && d.h == height {
		return d.cached, nil
	}
	img, err := LoadImage(d.path)
	if err != nil {
		return nil, err
	}
	d.cached = Scaled(img, width, height)
	d.w, d.h = width, height
	return d.cached, nil
}
