package detection

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ironsheep/province-map-tools/internal/grid"
	"github.com/ironsheep/province-map-tools/internal/imaging"
	"github.com/ironsheep/province-map-tools/internal/report"
)

// Sentinel errors returned by FindAllShapes.
var (
	// ErrEmptySource indicates a nil source or one with zero width or height.
	ErrEmptySource = errors.New("detection: source raster is empty")
	// ErrBadConnectivity indicates a connectivity other than 4 or 8.
	ErrBadConnectivity = errors.New("detection: connectivity must be 4 or 8")
)

// Bounds is an inclusive bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge (inclusive)
	Y1 int `json:"y1"` // Top edge (inclusive)
	X2 int `json:"x2"` // Right edge (inclusive)
	Y2 int `json:"y2"` // Bottom edge (inclusive)
}

// Width returns the horizontal extent in pixels.
func (b Bounds) Width() int { return b.X2 - b.X1 + 1 }

// Height returns the vertical extent in pixels.
func (b Bounds) Height() int { return b.Y2 - b.Y1 + 1 }

// Contains reports whether (x, y) lies inside the box.
func (b Bounds) Contains(x, y int) bool {
	return x >= b.X1 && x <= b.X2 && y >= b.Y1 && y <= b.Y2
}

// Point is a 2D coordinate in pixel space.
type Point struct {
	X int `json:"x"` // Horizontal position (0 = leftmost)
	Y int `json:"y"` // Vertical position (0 = topmost)
}

// Shape is one connected single-color region.
type Shape struct {
	// Label is the region's id in the label matrix, starting at 1.
	Label uint32 `json:"label"`

	// Color is the color shared by every pixel of the region.
	Color imaging.Color `json:"color"`

	// Bounds is the smallest box enclosing the region.
	Bounds Bounds `json:"bounds"`

	// Pixels lists the member coordinates sorted row-major.
	Pixels []Point `json:"-"`

	// Size is len(Pixels).
	Size int `json:"size"`
}

// Contains reports whether (x, y) belongs to the shape.
func (s *Shape) Contains(x, y int) bool {
	if !s.Bounds.Contains(x, y) {
		return false
	}
	i := sort.Search(len(s.Pixels), func(i int) bool {
		p := s.Pixels[i]
		return p.Y > y || (p.Y == y && p.X >= x)
	})
	return i < len(s.Pixels) && s.Pixels[i] == Point{X: x, Y: y}
}

// Options configure a detection pass.
//
// The zero value labels with 8-connectivity against a black boundary and
// applies no problem rules. DefaultOptions enables the standard rule set.
type Options struct {
	// Connectivity used for region growth and problem checks. Zero means Conn8.
	Connectivity Connectivity

	// Boundary is the marker color separating regions.
	Boundary imaging.Color

	// Rules selects which problem checks run after labeling.
	Rules Rule

	// MinShapeSize reports every pixel of shapes smaller than this as
	// RuleSmallShape. Zero disables the check.
	MinShapeSize int

	// Reporter receives debug progress. Nil discards.
	Reporter report.Reporter
}

// DefaultOptions returns 8-connectivity, a black boundary and DefaultRules.
func DefaultOptions() Options {
	return Options{
		Connectivity: Conn8,
		Boundary:     BoundaryColor,
		Rules:        DefaultRules,
	}
}

func (o Options) isBoundary(c imaging.Color) bool {
	return DoColorsMatch(c, o.Boundary)
}

// Result is everything a detection pass produces.
type Result struct {
	// Shapes are ordered by label: Shapes[i].Label == i+1.
	Shapes []Shape `json:"shapes"`

	// Labels has one entry per pixel; 0 marks boundary pixels.
	Labels *grid.Grid[uint32] `json:"-"`

	// Report lists pixels that break boundary conventions.
	Report Report `json:"report"`
}

// FindAllShapes labels every connected single-color region of src.
//
// # Algorithm
//
//  1. Scan pixels row-major. Each unlabeled, non-boundary pixel seeds a new
//     region with the next label, starting at 1.
//  2. Grow the region breadth-first: a neighbor joins when it is inside the
//     image, unlabeled, not a boundary pixel and its color matches the seed.
//  3. When the frontier empties, the region becomes a Shape.
//  4. A second row-major sweep over the finished label matrix applies the
//     configured problem rules.
//
// Labels follow discovery order, so the output is identical across runs for
// the same input. Problems never abort the pass; only an empty source or an
// invalid connectivity is an error.
func FindAllShapes(src Source, opts Options) (*Result, error) {
	if src == nil || src.Width() <= 0 || src.Height() <= 0 {
		return nil, ErrEmptySource
	}
	if opts.Connectivity == 0 {
		opts.Connectivity = Conn8
	}
	if !opts.Connectivity.Valid() {
		return nil, fmt.Errorf("%w: got %d", ErrBadConnectivity, opts.Connectivity)
	}
	rep := report.OrDiscard(opts.Reporter)

	width, height := src.Width(), src.Height()
	labels := grid.New[uint32](width, height, 1)
	shapes := make([]Shape, 0)
	boundary := 0
	next := uint32(1)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if labels.At(x, y) != 0 {
				continue
			}
			seed := AsPixel(src, x, y)
			if opts.isBoundary(seed.Color) {
				boundary++
				continue
			}
			shapes = append(shapes, growRegion(src, labels, seed, next, opts.Connectivity, opts.Boundary))
			next++
		}
	}

	report.Debugf(rep, "labeled %dx%d raster: %d shapes, %d boundary pixels", width, height, len(shapes), boundary)

	res := &Result{Shapes: shapes, Labels: labels}
	res.Report = findProblems(src, res, opts)
	if res.Report.Count > 0 {
		report.Debugf(rep, "%d problematic pixels", res.Report.Count)
	}
	return res, nil
}

// growRegion floods one region from seed using a FIFO frontier and returns
// its Shape. Every admitted pixel is labeled before it is queued, so each
// pixel enters the frontier at most once.
func growRegion(src Source, labels *grid.Grid[uint32], seed imaging.Pixel, label uint32, conn Connectivity, boundary imaging.Color) Shape {
	shape := Shape{
		Label:  label,
		Color:  seed.Color,
		Bounds: Bounds{X1: seed.X, Y1: seed.Y, X2: seed.X, Y2: seed.Y},
	}

	labels.Set(seed.X, seed.Y, label)
	// The label matrix has one channel, so its offsets are cell numbers.
	frontier := []int{labels.Index(seed.X, seed.Y)}

	for head := 0; head < len(frontier); head++ {
		px, py := labels.Coordinate(frontier[head])
		shape.Bounds.extend(px, py)

		for _, off := range conn.Offsets() {
			nx, ny := px+off.X, py+off.Y
			if !IsInImage(src, nx, ny) || labels.At(nx, ny) != 0 {
				continue
			}
			c := src.ColorAt(nx, ny)
			if DoColorsMatch(c, boundary) || !DoColorsMatch(c, seed.Color) {
				continue
			}
			labels.Set(nx, ny, label)
			frontier = append(frontier, labels.Index(nx, ny))
		}
	}

	// Cell numbers sort in row-major order.
	sort.Ints(frontier)
	shape.Pixels = make([]Point, len(frontier))
	for i, cell := range frontier {
		x, y := labels.Coordinate(cell)
		shape.Pixels[i] = Point{X: x, Y: y}
	}
	shape.Size = len(frontier)
	return shape
}

func (b *Bounds) extend(x, y int) {
	if x < b.X1 {
		b.X1 = x
	}
	if x > b.X2 {
		b.X2 = x
	}
	if y < b.Y1 {
		b.Y1 = y
	}
	if y > b.Y2 {
		b.Y2 = y
	}
}

// ShapeAt returns the shape covering (x, y), or nil for boundary pixels.
// It panics if (x, y) is outside the label matrix.
func (r *Result) ShapeAt(x, y int) *Shape {
	label := r.Labels.At(x, y)
	if label == 0 || int(label) > len(r.Shapes) {
		return nil
	}
	return &r.Shapes[label-1]
}
