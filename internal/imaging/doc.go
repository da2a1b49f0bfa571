// Package imaging is the raster source for province map detection.
//
// It decodes image files into Raster values, a read-only width × height
// buffer of 24-bit Colors addressed by (x, y), and writes derived buffers
// back to disk. All operations use a coordinate system where (0,0) is the
// top-left corner, X increases rightward, and Y increases downward.
//
// # Formats
//
// Decoding goes through disintegration/imaging and therefore accepts PNG,
// JPEG, GIF, BMP and TIFF. Province maps are expected to be lossless; JPEG
// input decodes fine but usually produces thousands of spurious regions.
//
// # Color Representation
//
// Colors are plain RGB triples. Decoded pixels are kept non-premultiplied
// and alpha is then ignored, so a transparent pixel keeps the RGB it was
// stored with instead of turning black. Two colors belong to the same region
// only when they are exactly equal.
//
// # Thread Safety
//
// Raster values never change after construction and may be shared. The
// RasterCache type is safe for concurrent use.
package imaging
