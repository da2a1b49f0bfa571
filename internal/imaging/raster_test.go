package imaging

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/ironsheep/province-map-tools/internal/grid"
)

func TestNewRaster_ConvertsAndRebases(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 9, 8))
	src.Set(5, 5, color.NRGBA{1, 2, 3, 255})
	src.Set(8, 7, color.NRGBA{9, 8, 7, 255})

	r, err := NewRaster(src)
	if err != nil {
		t.Fatalf("NewRaster failed: %v", err)
	}
	if r.Width() != 4 || r.Height() != 3 {
		t.Fatalf("dimensions: got %dx%d, want 4x3", r.Width(), r.Height())
	}
	if got := r.ColorAt(0, 0); got != (Color{1, 2, 3}) {
		t.Errorf("ColorAt(0,0): got %v, want (1,2,3)", got)
	}
	if got := r.ColorAt(3, 2); got != (Color{9, 8, 7}) {
		t.Errorf("ColorAt(3,2): got %v, want (9,8,7)", got)
	}
}

func TestNewRaster_SubImage(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 10, 10))
	base.Set(4, 6, color.RGBA{50, 60, 70, 255})
	sub := base.SubImage(image.Rect(3, 5, 8, 9))

	r, err := NewRaster(sub)
	if err != nil {
		t.Fatalf("NewRaster failed: %v", err)
	}
	if got := r.ColorAt(1, 1); got != (Color{50, 60, 70}) {
		t.Errorf("ColorAt(1,1): got %v, want (50,60,70)", got)
	}
}

func TestNewRaster_KeepsRGBOfTranslucentPixels(t *testing.T) {
	tests := []struct {
		name  string
		alpha uint8
	}{
		{"opaque", 255},
		{"half transparent", 128},
		{"fully transparent", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
			src.SetNRGBA(0, 0, color.NRGBA{200, 100, 50, tt.alpha})
			src.SetNRGBA(1, 0, color.NRGBA{200, 100, 50, 255})

			r, err := NewRaster(src)
			if err != nil {
				t.Fatalf("NewRaster failed: %v", err)
			}
			if got := r.ColorAt(0, 0); got != (Color{200, 100, 50}) {
				t.Errorf("ColorAt(0,0): got %v, want (200,100,50)", got)
			}
			if r.ColorAt(0, 0) != r.ColorAt(1, 0) {
				t.Error("alpha split one color into two")
			}
		})
	}
}

func TestNewRaster_UnpremultipliesRGBA(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1, 1))
	// Premultiplied (200,100,50) at alpha 128.
	src.Set(0, 0, color.NRGBA{200, 100, 50, 128})

	r, err := NewRaster(src)
	if err != nil {
		t.Fatalf("NewRaster failed: %v", err)
	}
	got := r.ColorAt(0, 0)
	if got == Black || got.R < 198 || got.G < 98 || got.B < 48 {
		t.Errorf("ColorAt(0,0): got %v, want about (200,100,50)", got)
	}
}

func TestWriteBMP_TransparentSource(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	src.SetNRGBA(0, 0, color.NRGBA{10, 20, 30, 0})
	r, err := NewRaster(src)
	if err != nil {
		t.Fatalf("NewRaster failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "provinces.bmp")
	if err := WriteBMP(r, path); err != nil {
		t.Fatalf("WriteBMP failed: %v", err)
	}
	back, err := ReadRaster(path)
	if err != nil {
		t.Fatalf("ReadRaster failed: %v", err)
	}
	if got := back.ColorAt(0, 0); got != (Color{10, 20, 30}) {
		t.Errorf("ColorAt(0,0): got %v, want (10,20,30)", got)
	}
}

func TestNewRaster_Empty(t *testing.T) {
	if _, err := NewRaster(nil); err == nil {
		t.Error("NewRaster(nil) should fail")
	}
	if _, err := NewRaster(image.NewRGBA(image.Rect(0, 0, 0, 5))); err == nil {
		t.Error("NewRaster should fail for zero width")
	}
}

func TestFromColors(t *testing.T) {
	red, blue := Color{255, 0, 0}, Color{0, 0, 255}
	r, err := FromColors(2, 2, []Color{red, blue, blue, red})
	if err != nil {
		t.Fatalf("FromColors failed: %v", err)
	}
	if r.ColorAt(1, 0) != blue || r.ColorAt(1, 1) != red {
		t.Error("FromColors did not lay colors out row-major")
	}
	if r.DistinctColors() != 2 {
		t.Errorf("DistinctColors: got %d, want 2", r.DistinctColors())
	}

	if _, err := FromColors(2, 2, []Color{red}); err == nil {
		t.Error("FromColors should fail on length mismatch")
	}
}

func TestRaster_ColorAt_OutOfBoundsPanics(t *testing.T) {
	r, _ := FromColors(1, 1, []Color{Black})
	defer func() {
		if recover() == nil {
			t.Error("ColorAt outside the raster did not panic")
		}
	}()
	r.ColorAt(1, 0)
}

func TestReadRaster_PNG(t *testing.T) {
	path := createQuadrantImage(t, 8, 8)

	r, err := ReadRaster(path)
	if err != nil {
		t.Fatalf("ReadRaster failed: %v", err)
	}
	if got := r.ColorAt(7, 7); got != White {
		t.Errorf("ColorAt(7,7): got %v, want white", got)
	}
	if got := r.ColorAt(0, 7); got != (Color{0, 0, 255}) {
		t.Errorf("ColorAt(0,7): got %v, want blue", got)
	}
}

func TestWriteBMP_RoundTrip(t *testing.T) {
	src, _ := FromColors(3, 1, []Color{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})
	path := filepath.Join(t.TempDir(), "inputs", "provinces.bmp")

	if err := WriteBMP(src, path); err != nil {
		t.Fatalf("WriteBMP failed: %v", err)
	}

	r, err := ReadRaster(path)
	if err != nil {
		t.Fatalf("ReadRaster failed: %v", err)
	}
	for x := 0; x < 3; x++ {
		if r.ColorAt(x, 0) != src.ColorAt(x, 0) {
			t.Errorf("pixel %d: got %v, want %v", x, r.ColorAt(x, 0), src.ColorAt(x, 0))
		}
	}
}

func TestEncodeBMP(t *testing.T) {
	src, _ := FromColors(2, 2, []Color{Black, White, White, Black})

	var buf bytes.Buffer
	if err := EncodeBMP(&buf, src.Image()); err != nil {
		t.Fatalf("EncodeBMP failed: %v", err)
	}
	img, err := bmp.Decode(&buf)
	if err != nil {
		t.Fatalf("bmp.Decode failed: %v", err)
	}
	decoded, err := NewRaster(img)
	if err != nil {
		t.Fatalf("NewRaster failed: %v", err)
	}
	if got := decoded.ColorAt(1, 0); got != White {
		t.Errorf("decoded (1,0): got %v, want white", got)
	}
}

func TestSaveGraphics(t *testing.T) {
	buf := grid.New[uint8](2, 1, 3)
	buf.SetCell(0, 0, 10, 20, 30)
	buf.SetCell(1, 0, 40, 50, 60)
	path := filepath.Join(t.TempDir(), "graphics.png")

	if err := SaveGraphics(buf, path); err != nil {
		t.Fatalf("SaveGraphics failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("graphics file missing: %v", err)
	}

	r, err := ReadRaster(path)
	if err != nil {
		t.Fatalf("ReadRaster failed: %v", err)
	}
	if got := r.ColorAt(1, 0); got != (Color{40, 50, 60}) {
		t.Errorf("ColorAt(1,0): got %v, want (40,50,60)", got)
	}
}

func TestGraphicsImage_WrongChannels(t *testing.T) {
	if _, err := GraphicsImage(grid.New[uint8](1, 1, 1)); err == nil {
		t.Error("GraphicsImage should reject a 1-channel buffer")
	}
	if _, err := GraphicsImage(nil); err == nil {
		t.Error("GraphicsImage should reject nil")
	}
}
