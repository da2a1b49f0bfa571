package mapproject

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ironsheep/province-map-tools/internal/grid"
)

// LabelMagic opens every label file.
const LabelMagic = "SHPD"

// labelTerminator closes every label file.
const labelTerminator byte = 0x00

const labelHeaderSize = len(LabelMagic) + 8

// WriteLabels encodes a label matrix:
//
//	[4-byte magic "SHPD"][u32 width][u32 height][width*height u32 labels][0x00]
//
// Integers are little-endian and labels are row-major.
func WriteLabels(w io.Writer, labels *grid.Grid[uint32]) error {
	if labels == nil || labels.Channels() != 1 {
		return ErrNoLabels
	}
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(LabelMagic); err != nil {
		return err
	}

	var buf [4]byte
	for _, v := range []uint32{uint32(labels.Width()), uint32(labels.Height())} {
		binary.LittleEndian.PutUint32(buf[:], v)
		if _, err := bw.Write(buf[:]); err != nil {
			return err
		}
	}
	for _, l := range labels.Data() {
		binary.LittleEndian.PutUint32(buf[:], l)
		if _, err := bw.Write(buf[:]); err != nil {
			return err
		}
	}
	if err := bw.WriteByte(labelTerminator); err != nil {
		return err
	}
	return bw.Flush()
}

// DecodeLabels parses a complete label file.
//
// The magic is checked first, then the byte count against the declared
// dimensions: too few bytes is ErrTruncated, extra bytes or a missing
// terminator is ErrSizeMismatch.
func DecodeLabels(data []byte) (*grid.Grid[uint32], error) {
	if len(data) < len(LabelMagic) || string(data[:len(LabelMagic)]) != LabelMagic {
		return nil, ErrBadMagic
	}
	if len(data) < labelHeaderSize {
		return nil, fmt.Errorf("%w: header needs %d bytes, got %d", ErrTruncated, labelHeaderSize, len(data))
	}

	width := binary.LittleEndian.Uint32(data[4:8])
	height := binary.LittleEndian.Uint32(data[8:12])
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: declared %dx%d", ErrSizeMismatch, width, height)
	}

	cells := uint64(width) * uint64(height)
	want := cells*4 + 1
	have := uint64(len(data) - labelHeaderSize)
	switch {
	case have < want:
		return nil, fmt.Errorf("%w: %dx%d needs %d bytes after the header, got %d", ErrTruncated, width, height, want, have)
	case have > want:
		return nil, fmt.Errorf("%w: %dx%d needs %d bytes after the header, got %d", ErrSizeMismatch, width, height, want, have)
	case data[len(data)-1] != labelTerminator:
		return nil, fmt.Errorf("%w: missing terminator", ErrSizeMismatch)
	}

	body := data[labelHeaderSize : len(data)-1]
	labels := make([]uint32, cells)
	for i := range labels {
		labels[i] = binary.LittleEndian.Uint32(body[i*4:])
	}
	return grid.FromSlice(int(width), int(height), 1, labels)
}
