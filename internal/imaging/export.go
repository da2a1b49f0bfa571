package imaging

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"golang.org/x/image/bmp"

	"github.com/ironsheep/province-map-tools/internal/grid"
)

// GraphicsImage wraps a 3-channel graphics buffer as an *image.NRGBA.
// Cells are copied; the buffer is not retained.
func GraphicsImage(buf *grid.Grid[uint8]) (*image.NRGBA, error) {
	if buf == nil {
		return nil, fmt.Errorf("no graphics buffer")
	}
	if buf.Channels() != 3 {
		return nil, fmt.Errorf("graphics buffer has %d channels, want 3", buf.Channels())
	}

	w, h := buf.Width(), buf.Height()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < w; x++ {
			c := buf.Cell(x, y)
			row[x*4], row[x*4+1], row[x*4+2], row[x*4+3] = c[0], c[1], c[2], 0xff
		}
	}
	return img, nil
}

// SaveGraphics writes a 3-channel graphics buffer to path. The format is
// chosen from the extension (png, bmp, tif, jpg, gif).
func SaveGraphics(buf *grid.Grid[uint8], path string) error {
	img, err := GraphicsImage(buf)
	if err != nil {
		return err
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// EncodeBMP writes img as an uncompressed 24-bit BMP, the format the game
// reads province maps in.
func EncodeBMP(w io.Writer, img image.Image) error {
	return bmp.Encode(w, img)
}

// WriteBMP stores a raster as a BMP file, creating parent directories. The
// image is written to a temporary file next to path and renamed into place,
// so an existing file is either fully replaced or left as it was.
func WriteBMP(r *Raster, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.CreateTemp(dir, ".provinces-*.bmp")
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if err := EncodeBMP(f, opaque(r)); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// opaque drops the alpha channel so the BMP encoder emits 24-bit pixels.
func opaque(r *Raster) image.Image {
	w, h := r.Width(), r.Height()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		copy(img.Pix[y*img.Stride:(y+1)*img.Stride], r.img.Pix[y*r.img.Stride:])
	}
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	return img
}
