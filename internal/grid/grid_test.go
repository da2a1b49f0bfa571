package grid

import (
	"errors"
	"testing"
)

func TestIndex_StridesAgree(t *testing.T) {
	labels := New[uint32](7, 5, 1)
	graphics := New[uint8](7, 5, 3)

	for y := 0; y < 5; y++ {
		for x := 0; x < 7; x++ {
			li := labels.Index(x, y)
			gi := graphics.Index(x, y)
			if gi != li*3 {
				t.Fatalf("(%d,%d): graphics index %d, want %d", x, y, gi, li*3)
			}
		}
	}
}

func TestSetAt(t *testing.T) {
	g := New[uint32](3, 2, 1)
	g.Set(2, 1, 42)

	if got := g.At(2, 1); got != 42 {
		t.Errorf("At(2,1): got %d, want 42", got)
	}
	if got := g.Data()[5]; got != 42 {
		t.Errorf("Data()[5]: got %d, want 42", got)
	}
}

func TestCell(t *testing.T) {
	g := New[uint8](2, 2, 3)
	g.SetCell(1, 1, 10, 20, 30)

	cell := g.Cell(1, 1)
	if len(cell) != 3 || cell[0] != 10 || cell[1] != 20 || cell[2] != 30 {
		t.Errorf("Cell(1,1): got %v, want [10 20 30]", cell)
	}
	if got := g.Data()[9:12]; got[0] != 10 || got[2] != 30 {
		t.Errorf("backing data: got %v", got)
	}
}

func TestIndex_OutOfBoundsPanics(t *testing.T) {
	g := New[uint32](4, 4, 1)

	tests := []struct {
		name string
		x, y int
	}{
		{"negative x", -1, 0},
		{"negative y", 0, -1},
		{"x too large", 4, 0},
		{"y too large", 0, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("Index(%d,%d) did not panic", tt.x, tt.y)
				}
			}()
			g.Index(tt.x, tt.y)
		})
	}
}

func TestCoordinate(t *testing.T) {
	g := New[uint32](5, 3, 1)
	x, y := g.Coordinate(13)
	if x != 3 || y != 2 {
		t.Errorf("Coordinate(13): got (%d,%d), want (3,2)", x, y)
	}
}

func TestFromSlice(t *testing.T) {
	if _, err := FromSlice(2, 2, 1, []uint32{1, 2, 3}); !errors.Is(err, ErrDataLength) {
		t.Errorf("short slice: got %v, want ErrDataLength", err)
	}
	if _, err := FromSlice(0, 2, 1, []uint32{}); !errors.Is(err, ErrBadDimensions) {
		t.Errorf("zero width: got %v, want ErrBadDimensions", err)
	}

	g, err := FromSlice(2, 2, 1, []uint32{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	if g.At(1, 1) != 4 {
		t.Errorf("At(1,1): got %d, want 4", g.At(1, 1))
	}
}
