// Package grid provides a flat, row-major 2D container shared by every
// per-pixel buffer in the module.
//
// A Grid stores width × height cells, each made of a fixed number of
// channels. The label matrix is a Grid[uint32] with one channel and the
// reconstructed graphics buffer is a Grid[uint8] with three channels; both
// compute offsets with the same Index formula so the two strides can never
// drift apart.
//
// # Bounds
//
// Every accessor checks its coordinates. Out-of-range access is a
// programming error and panics; values are never clamped.
package grid

import (
	"errors"
	"fmt"
)

// Sentinel errors for grid construction.
var (
	// ErrBadDimensions indicates a non-positive width, height or channel count.
	ErrBadDimensions = errors.New("grid: width, height and channels must be positive")
	// ErrDataLength indicates a backing slice that does not match the dimensions.
	ErrDataLength = errors.New("grid: data length does not match dimensions")
)

// Index returns the row-major offset of cell (x, y) in a buffer of the given
// width where every cell holds channels consecutive values.
//
//	index = (y*width + x) * channels
//
// No bounds checking is performed; callers that hold a Grid should use its
// methods instead.
func Index(width, channels, x, y int) int {
	return (y*width + x) * channels
}

// Grid is a width × height array of cells with a fixed channel count.
//
// The zero value is not usable; construct with New or FromSlice.
type Grid[T any] struct {
	width    int
	height   int
	channels int
	data     []T
}

// New allocates a zeroed grid. It panics on non-positive dimensions.
func New[T any](width, height, channels int) *Grid[T] {
	if width <= 0 || height <= 0 || channels <= 0 {
		panic(fmt.Sprintf("grid: invalid dimensions %dx%dx%d", width, height, channels))
	}
	return &Grid[T]{
		width:    width,
		height:   height,
		channels: channels,
		data:     make([]T, width*height*channels),
	}
}

// FromSlice wraps an existing backing slice. The grid takes ownership of
// data; the caller must not keep using it.
func FromSlice[T any](width, height, channels int, data []T) (*Grid[T], error) {
	if width <= 0 || height <= 0 || channels <= 0 {
		return nil, ErrBadDimensions
	}
	if len(data) != width*height*channels {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDataLength, len(data), width*height*channels)
	}
	return &Grid[T]{width: width, height: height, channels: channels, data: data}, nil
}

// Width returns the number of columns.
func (g *Grid[T]) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid[T]) Height() int { return g.height }

// Channels returns the number of values stored per cell.
func (g *Grid[T]) Channels() int { return g.channels }

// Cells returns width × height.
func (g *Grid[T]) Cells() int { return g.width * g.height }

// Len returns the length of the backing slice (Cells × Channels).
func (g *Grid[T]) Len() int { return len(g.data) }

// InBounds reports whether (x, y) addresses a cell of the grid.
func (g *Grid[T]) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// Index returns the offset of the first channel of cell (x, y).
// It panics if the coordinate is outside the grid.
func (g *Grid[T]) Index(x, y int) int {
	if !g.InBounds(x, y) {
		panic(fmt.Sprintf("grid: (%d,%d) outside %dx%d", x, y, g.width, g.height))
	}
	return Index(g.width, g.channels, x, y)
}

// Coordinate converts a cell number (not a channel offset) back to (x, y).
func (g *Grid[T]) Coordinate(cell int) (x, y int) {
	if cell < 0 || cell >= g.Cells() {
		panic(fmt.Sprintf("grid: cell %d outside [0,%d)", cell, g.Cells()))
	}
	return cell % g.width, cell / g.width
}

// At returns the first channel of cell (x, y).
func (g *Grid[T]) At(x, y int) T {
	return g.data[g.Index(x, y)]
}

// Set stores v in the first channel of cell (x, y).
func (g *Grid[T]) Set(x, y int, v T) {
	g.data[g.Index(x, y)] = v
}

// Cell returns the channels of cell (x, y). The returned slice aliases the
// grid's storage.
func (g *Grid[T]) Cell(x, y int) []T {
	i := g.Index(x, y)
	return g.data[i : i+g.channels : i+g.channels]
}

// SetCell copies values into the channels of cell (x, y). It panics if the
// number of values differs from the channel count.
func (g *Grid[T]) SetCell(x, y int, values ...T) {
	if len(values) != g.channels {
		panic(fmt.Sprintf("grid: got %d values for %d channels", len(values), g.channels))
	}
	copy(g.Cell(x, y), values)
}

// Data exposes the backing slice in row-major order.
func (g *Grid[T]) Data() []T { return g.data }
