package detection

import (
	"fmt"
	"image"
	"strconv"

	"github.com/ironsheep/province-map-tools/internal/grid"
	"github.com/ironsheep/province-map-tools/internal/imaging"
)

// Source is a read-only raster the shape finder can scan.
//
// *imaging.Raster satisfies it. ColorAt is only called for coordinates
// inside [0, Width) × [0, Height).
type Source interface {
	Width() int
	Height() int
	ColorAt(x, y int) imaging.Color
}

// BoundaryColor is the default boundary marker. Pixels of this color never
// join a shape and keep label 0.
var BoundaryColor = imaging.Black

// Connectivity selects which neighbors count as adjacent.
type Connectivity int

const (
	// Conn4 uses the four orthogonal neighbors.
	Conn4 Connectivity = 4
	// Conn8 adds the four diagonal neighbors.
	Conn8 Connectivity = 8
)

// Neighbor offsets in row-major order so traversal is deterministic.
var (
	offsets4 = []image.Point{{0, -1}, {-1, 0}, {1, 0}, {0, 1}}
	offsets8 = []image.Point{
		{-1, -1}, {0, -1}, {1, -1},
		{-1, 0}, {1, 0},
		{-1, 1}, {0, 1}, {1, 1},
	}
)

// Offsets returns the neighbor offsets for c. The slice must not be modified.
func (c Connectivity) Offsets() []image.Point {
	if c == Conn4 {
		return offsets4
	}
	return offsets8
}

// Adjacent reports whether (x, y) is a neighbor of p under c.
// A pixel is never adjacent to itself.
func (c Connectivity) Adjacent(p imaging.Pixel, x, y int) bool {
	dx, dy := abs(x-p.X), abs(y-p.Y)
	if dx > 1 || dy > 1 || dx+dy == 0 {
		return false
	}
	return c != Conn4 || dx+dy == 1
}

func (c Connectivity) String() string {
	return strconv.Itoa(int(c))
}

// Valid reports whether c is Conn4 or Conn8.
func (c Connectivity) Valid() bool {
	return c == Conn4 || c == Conn8
}

// ParseConnectivity accepts "4" or "8".
func ParseConnectivity(s string) (Connectivity, error) {
	n, err := strconv.Atoi(s)
	if err != nil || !Connectivity(n).Valid() {
		return 0, fmt.Errorf("%w: %q", ErrBadConnectivity, s)
	}
	return Connectivity(n), nil
}

// IsAdjacent reports whether (x, y) lies in the 8-connected neighborhood of p.
func IsAdjacent(p imaging.Pixel, x, y int) bool {
	return Conn8.Adjacent(p, x, y)
}

// IsBoundaryPixel reports whether p carries the default boundary color.
func IsBoundaryPixel(p imaging.Pixel) bool {
	return DoColorsMatch(p.Color, BoundaryColor)
}

// DoColorsMatch is the region-matching relation: exact channel equality.
func DoColorsMatch(a, b imaging.Color) bool {
	return a == b
}

// IsInImage reports whether (x, y) addresses a pixel of src.
func IsInImage(src Source, x, y int) bool {
	return x >= 0 && y >= 0 && x < src.Width() && y < src.Height()
}

// XYToIndex returns the row-major index of (x, y) in a one-value-per-pixel
// buffer such as the label matrix.
func XYToIndex(width, x, y int) int {
	return grid.Index(width, 1, x, y)
}

// XYToStridedIndex returns the offset of the first channel of (x, y) in a
// buffer storing channels values per pixel, such as the RGB graphics buffer.
func XYToStridedIndex(width, channels, x, y int) int {
	return grid.Index(width, channels, x, y)
}

// AsPixel returns the pixel at (x, y). It panics outside the image.
func AsPixel(src Source, x, y int) imaging.Pixel {
	if !IsInImage(src, x, y) {
		panic(fmt.Sprintf("detection: (%d,%d) outside %dx%d source", x, y, src.Width(), src.Height()))
	}
	return imaging.Pixel{X: x, Y: y, Color: src.ColorAt(x, y)}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
