package detection

import (
	"testing"

	"github.com/ironsheep/province-map-tools/internal/imaging"
)

func TestIsAdjacent(t *testing.T) {
	p := imaging.Pixel{X: 5, Y: 5}

	tests := []struct {
		name string
		x, y int
		want bool
	}{
		{"self", 5, 5, false},
		{"left", 4, 5, true},
		{"right", 6, 5, true},
		{"up", 5, 4, true},
		{"down", 5, 6, true},
		{"diagonal", 6, 6, true},
		{"anti-diagonal", 4, 6, true},
		{"two away", 7, 5, false},
		{"knight", 6, 7, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAdjacent(p, tt.x, tt.y); got != tt.want {
				t.Errorf("IsAdjacent(%d,%d): got %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestConnectivity_Adjacent(t *testing.T) {
	p := imaging.Pixel{X: 0, Y: 0}
	if Conn4.Adjacent(p, 1, 1) {
		t.Error("Conn4 should not join diagonals")
	}
	if !Conn4.Adjacent(p, 0, 1) {
		t.Error("Conn4 should join orthogonal neighbors")
	}
	if len(Conn4.Offsets()) != 4 || len(Conn8.Offsets()) != 8 {
		t.Error("unexpected offset counts")
	}
	for _, off := range Conn8.Offsets() {
		if !Conn8.Adjacent(p, off.X, off.Y) {
			t.Errorf("offset %v is not adjacent under Conn8", off)
		}
	}
}

func TestParseConnectivity(t *testing.T) {
	for _, s := range []string{"4", "8"} {
		c, err := ParseConnectivity(s)
		if err != nil || c.String() != s {
			t.Errorf("ParseConnectivity(%s): got %v, %v", s, c, err)
		}
	}
	for _, s := range []string{"", "6", "eight"} {
		if _, err := ParseConnectivity(s); err == nil {
			t.Errorf("ParseConnectivity(%q) should fail", s)
		}
	}
}

func TestDoColorsMatch(t *testing.T) {
	a := imaging.Color{R: 10, G: 20, B: 30}
	b := imaging.Color{R: 10, G: 20, B: 31}

	if !DoColorsMatch(a, a) {
		t.Error("match should be reflexive")
	}
	if DoColorsMatch(a, b) || DoColorsMatch(b, a) {
		t.Error("one channel off should not match")
	}
}

func TestIsBoundaryPixel(t *testing.T) {
	if !IsBoundaryPixel(imaging.Pixel{Color: imaging.Black}) {
		t.Error("black should be boundary")
	}
	if IsBoundaryPixel(imaging.Pixel{Color: imaging.Color{R: 1}}) {
		t.Error("near-black should not be boundary")
	}
}

func TestIndexFormulas(t *testing.T) {
	if got := XYToIndex(10, 3, 2); got != 23 {
		t.Errorf("XYToIndex: got %d, want 23", got)
	}
	if got := XYToStridedIndex(10, 3, 3, 2); got != 69 {
		t.Errorf("XYToStridedIndex: got %d, want 69", got)
	}
	if XYToStridedIndex(10, 3, 3, 2) != 3*XYToIndex(10, 3, 2) {
		t.Error("strided and plain indexes disagree")
	}
}

func TestIsInImageAndAsPixel(t *testing.T) {
	r := createSolidRaster(t, 3, 2, red)

	if !IsInImage(r, 2, 1) || IsInImage(r, 3, 0) || IsInImage(r, -1, 0) || IsInImage(r, 0, 2) {
		t.Error("IsInImage gave wrong bounds")
	}
	if p := AsPixel(r, 2, 1); p.X != 2 || p.Y != 1 || p.Color != red {
		t.Errorf("AsPixel: got %+v", p)
	}

	defer func() {
		if recover() == nil {
			t.Error("AsPixel outside the image did not panic")
		}
	}()
	AsPixel(r, 3, 0)
}
