package presentation

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var errEmptyPath = errors.New("empty image path")

// LoadImage decodes the image at path.
func LoadImage(path string) (image.Image, error) {
	if path == "" {
		return nil, errEmptyPath
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// Centered returns a width x height canvas filled with bg with img drawn at
// ((width-w)/2, (height-h)/2). Images larger than the canvas are cropped.
func Centered(img image.Image, width, height int, bg color.Color) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)
	src := img.Bounds()
	x := (width - src.Dx()) / 2
	y := (height - src.Dy()) / 2
	target := image.Rect(x, y, x+src.Dx(), y+src.Dy())
	draw.Draw(dst, target, img, src.Min, draw.Over)
	return dst
}

// Scaled returns img stretched to exactly width x height.
func Scaled(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}
