package mapproject

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/ironsheep/province-map-tools/internal/grid"
)

func sampleLabels(t *testing.T) *grid.Grid[uint32] {
	t.Helper()
	g, err := grid.FromSlice(3, 2, 1, []uint32{1, 1, 0, 2, 2, 0xdeadbeef})
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	return g
}

func encodeLabels(t *testing.T, g *grid.Grid[uint32]) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := WriteLabels(&buf, g); err != nil {
		t.Fatalf("WriteLabels failed: %v", err)
	}
	return buf.Bytes()
}

func TestWriteLabels_Layout(t *testing.T) {
	data := encodeLabels(t, sampleLabels(t))

	if len(data) != 4+8+6*4+1 {
		t.Fatalf("length: got %d, want %d", len(data), 4+8+6*4+1)
	}
	if string(data[:4]) != LabelMagic {
		t.Errorf("magic: got %q, want %q", data[:4], LabelMagic)
	}
	if w := binary.LittleEndian.Uint32(data[4:]); w != 3 {
		t.Errorf("width: got %d, want 3", w)
	}
	if h := binary.LittleEndian.Uint32(data[8:]); h != 2 {
		t.Errorf("height: got %d, want 2", h)
	}
	if v := binary.LittleEndian.Uint32(data[12+3*4:]); v != 2 {
		t.Errorf("label (0,1): got %d, want 2", v)
	}
	if data[len(data)-1] != 0 {
		t.Errorf("terminator: got %d, want 0", data[len(data)-1])
	}
}

func TestDecodeLabels_RoundTrip(t *testing.T) {
	want := sampleLabels(t)
	got, err := DecodeLabels(encodeLabels(t, want))
	if err != nil {
		t.Fatalf("DecodeLabels failed: %v", err)
	}
	if !labelsEqual(want, got) {
		t.Errorf("got %dx%d %v, want %dx%d %v",
			got.Width(), got.Height(), got.Data(), want.Width(), want.Height(), want.Data())
	}
}

func TestDecodeLabels_Errors(t *testing.T) {
	good := encodeLabels(t, sampleLabels(t))

	badMagic := append([]byte("SHPX"), good[4:]...)
	withExtra := append(append([]byte(nil), good...), 0)
	badTerminator := append([]byte(nil), good...)
	badTerminator[len(badTerminator)-1] = 7
	zeroWidth := append([]byte(nil), good...)
	binary.LittleEndian.PutUint32(zeroWidth[4:], 0)

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrBadMagic},
		{"bad magic", badMagic, ErrBadMagic},
		{"header only magic", []byte(LabelMagic), ErrTruncated},
		{"missing terminator", good[:len(good)-1], ErrTruncated},
		{"short body", good[:20], ErrTruncated},
		{"extra byte", withExtra, ErrSizeMismatch},
		{"bad terminator", badTerminator, ErrSizeMismatch},
		{"zero width", zeroWidth, ErrSizeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeLabels(tt.data); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestWriteLabels_Nil(t *testing.T) {
	if err := WriteLabels(&bytes.Buffer{}, nil); !errors.Is(err, ErrNoLabels) {
		t.Errorf("got %v, want ErrNoLabels", err)
	}
}
