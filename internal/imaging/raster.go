package imaging

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// ErrEmptyImage is returned when a decoded image has no pixels.
var ErrEmptyImage = errors.New("imaging: image has zero width or height")

// Raster is a read-only width × height buffer of Colors.
//
// Pixels are stored non-premultiplied in an *image.NRGBA whose origin is
// (0,0), so ColorAt(x, y) reads Pix[y*Stride + x*4] without going through
// the color.Color interface. Alpha is ignored: province maps are flat,
// opaque images and a transparent pixel is treated as whatever RGB it
// carries.
//
// A Raster is safe for concurrent readers.
type Raster struct {
	img *image.NRGBA
}

// NewRaster wraps a decoded image. Images that are not already *image.NRGBA
// with a zero origin are converted once.
func NewRaster(src image.Image) (*Raster, error) {
	if src == nil {
		return nil, ErrEmptyImage
	}
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, ErrEmptyImage
	}

	if n, ok := src.(*image.NRGBA); ok {
		// Pix[0] always holds Rect.Min, so rebasing only moves the rectangle.
		return &Raster{img: &image.NRGBA{Pix: n.Pix, Stride: n.Stride, Rect: image.Rect(0, 0, b.Dx(), b.Dy())}}, nil
	}
	// Clone un-premultiplies RGBA sources and starts at the origin.
	return &Raster{img: imaging.Clone(src)}, nil
}

// FromColors builds a Raster from row-major colors. It is mainly used to
// construct fixtures and synthetic maps.
func FromColors(width, height int, colors []Color) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyImage
	}
	if len(colors) != width*height {
		return nil, fmt.Errorf("got %d colors for a %dx%d raster", len(colors), width, height)
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i, c := range colors {
		o := (i/width)*img.Stride + (i%width)*4
		img.Pix[o], img.Pix[o+1], img.Pix[o+2], img.Pix[o+3] = c.R, c.G, c.B, 0xff
	}
	return &Raster{img: img}, nil
}

// ReadRaster decodes an image file into a Raster.
//
// Supported formats are those registered by disintegration/imaging: PNG,
// JPEG, GIF, BMP and TIFF. JPEG input is accepted but is a poor fit for
// province maps because compression smears flat colors.
func ReadRaster(path string) (*Raster, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	r, err := NewRaster(img)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return r, nil
}

// Width returns the number of columns.
func (r *Raster) Width() int { return r.img.Rect.Dx() }

// Height returns the number of rows.
func (r *Raster) Height() int { return r.img.Rect.Dy() }

// InBounds reports whether (x, y) lies inside the raster.
func (r *Raster) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < r.Width() && y < r.Height()
}

// ColorAt returns the color of pixel (x, y). It panics if the coordinate is
// outside the raster.
func (r *Raster) ColorAt(x, y int) Color {
	if !r.InBounds(x, y) {
		panic(fmt.Sprintf("imaging: (%d,%d) outside %dx%d raster", x, y, r.Width(), r.Height()))
	}
	o := y*r.img.Stride + x*4
	p := r.img.Pix[o : o+3 : o+3]
	return Color{R: p[0], G: p[1], B: p[2]}
}

// Image returns the underlying image. Callers must treat it as read-only.
func (r *Raster) Image() image.Image { return r.img }

// DistinctColors counts the different colors present in the raster.
func (r *Raster) DistinctColors() int {
	seen := make(map[uint32]struct{})
	w, h := r.Width(), r.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			seen[r.ColorAt(x, y).Packed()] = struct{}{}
		}
	}
	return len(seen)
}
