// Package mapproject owns the map state of a project and persists it.
//
// A saved map lives in one directory:
//
//	shapedata.bin   label matrix (see WriteLabels)
//	definition.csv  one province record per line (see FormatProvince)
//
// The source raster is not copied there. It is read back from
// provinces.bmp under the project's inputs root, which ImportFile fills.
//
// A Project is not safe for concurrent use; callers serialize access.
package mapproject

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ironsheep/province-map-tools/internal/detection"
	"github.com/ironsheep/province-map-tools/internal/grid"
	"github.com/ironsheep/province-map-tools/internal/imaging"
	"github.com/ironsheep/province-map-tools/internal/province"
	"github.com/ironsheep/province-map-tools/internal/report"
)

// File names inside a map directory and the inputs root.
const (
	ShapeDataFilename        = "shapedata.bin"
	ProvinceDataFilename     = "definition.csv"
	InputProvinceMapFilename = "provinces.bmp"
)

// Sentinel errors.
var (
	ErrNoMapData          = errors.New("mapproject: map directory does not exist")
	ErrMissingSourceImage = errors.New("mapproject: source province image does not exist")
	ErrBadMagic           = errors.New("mapproject: label file has a bad magic marker")
	ErrTruncated          = errors.New("mapproject: label file is truncated")
	ErrSizeMismatch       = errors.New("mapproject: label data size mismatch")
	ErrNoLabels           = errors.New("mapproject: no label matrix")
	ErrNoGraphics         = errors.New("mapproject: no graphics data")
	ErrOutOfBounds        = errors.New("mapproject: coordinate outside the map")
	ErrUnknownProvince    = errors.New("mapproject: no such province")
)

// InputsRoot locates the directory holding the imported source files.
type InputsRoot interface {
	InputsRoot() string
}

// Dir is an InputsRoot backed by a fixed path.
type Dir string

// InputsRoot implements InputsRoot.
func (d Dir) InputsRoot() string { return string(d) }

// Project holds one map and the collaborators needed to persist it.
type Project struct {
	info   Info
	inputs InputsRoot
	rep    report.Reporter
}

// New creates an empty project. A nil reporter discards messages.
func New(inputs InputsRoot, rep report.Reporter) *Project {
	return &Project{inputs: inputs, rep: report.OrDiscard(rep)}
}

// Info returns the current map state.
func (p *Project) Info() *Info { return &p.info }

// SourceImagePath is where the source raster is kept.
func (p *Project) SourceImagePath() string {
	return filepath.Join(p.inputs.InputsRoot(), InputProvinceMapFilename)
}

// Import runs shape detection on r, builds the province list, and replaces
// the project state with the result. The detection result carries the
// shapes and the problem report; problems are not errors. On error the
// current state is left untouched.
func (p *Project) Import(r *imaging.Raster, opts detection.Options, build ...province.BuildOption) (*detection.Result, error) {
	info, res, err := p.detect(r, opts, build...)
	if err != nil {
		return nil, err
	}
	p.commit(info)
	return res, nil
}

// ImportFile reads a source image, imports it, and stores a BMP copy under
// the inputs root so Load can find it later. The copy is written only after
// detection succeeds, so a failed import keeps the previous source image.
func (p *Project) ImportFile(path string, opts detection.Options, build ...province.BuildOption) (*detection.Result, error) {
	r, err := imaging.ReadRaster(path)
	if err != nil {
		return nil, err
	}
	info, res, err := p.detect(r, opts, build...)
	if err != nil {
		return nil, err
	}

	dst := p.SourceImagePath()
	if !samePath(path, dst) {
		if err := imaging.WriteBMP(r, dst); err != nil {
			return nil, fmt.Errorf("failed to copy source image: %w", err)
		}
		report.Debugf(p.rep, "copied %s to %s", path, dst)
	}
	p.commit(info)
	return res, nil
}

func (p *Project) detect(r *imaging.Raster, opts detection.Options, build ...province.BuildOption) (Info, *detection.Result, error) {
	if r == nil {
		return Info{}, nil, fmt.Errorf("failed to detect shapes: %w", detection.ErrEmptySource)
	}
	if opts.Reporter == nil {
		opts.Reporter = p.rep
	}
	res, err := detection.FindAllShapes(r, opts)
	if err != nil {
		return Info{}, nil, fmt.Errorf("failed to detect shapes: %w", err)
	}
	provinces, err := province.Build(res.Shapes, build...)
	if err != nil {
		return Info{}, nil, fmt.Errorf("failed to build provinces: %w", err)
	}

	// Boundary pixels are expected here, so they are left black silently.
	graphics := buildGraphics(res.Labels, provinces, report.Discard)

	info := Info{raster: r, labels: res.Labels, graphics: graphics}
	info.SetProvinces(provinces)
	return info, res, nil
}

func (p *Project) commit(info Info) {
	p.info = info
	report.Debugf(p.rep, "imported %d provinces", info.ProvinceCount())
}

func samePath(a, b string) bool {
	ai, errA := os.Stat(a)
	bi, errB := os.Stat(b)
	return errA == nil && errB == nil && os.SameFile(ai, bi)
}

// Save writes the label and province files into dir, creating it if needed.
// A project without provinces writes nothing and succeeds.
func (p *Project) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	if p.info.ProvinceCount() == 0 {
		report.Debugf(p.rep, "nothing to write to %s", dir)
		return nil
	}
	if p.info.labels == nil {
		return ErrNoLabels
	}

	var labels bytes.Buffer
	if err := WriteLabels(&labels, p.info.labels); err != nil {
		return fmt.Errorf("failed to encode labels: %w", err)
	}
	if err := writeFile(filepath.Join(dir, ShapeDataFilename), labels.Bytes()); err != nil {
		return err
	}

	var provinces bytes.Buffer
	if err := WriteProvinces(&provinces, p.info.provinces); err != nil {
		return fmt.Errorf("failed to encode provinces: %w", err)
	}
	if err := writeFile(filepath.Join(dir, ProvinceDataFilename), provinces.Bytes()); err != nil {
		return err
	}

	report.Debugf(p.rep, "saved %d provinces to %s", p.info.ProvinceCount(), dir)
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Load replaces the project state with the map saved in dir.
//
// The source raster is read from the inputs root, then the province and
// label files. The label matrix must match the raster's dimensions. The
// graphics buffer is rebuilt from labels and province colors; pixels whose
// label is outside [1, N] are reported as warnings and left black.
//
// On any error the current state is left untouched.
func (p *Project) Load(dir string) error {
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNoMapData, dir)
		}
		return fmt.Errorf("failed to stat %s: %w", dir, err)
	}

	src := p.SourceImagePath()
	if _, err := os.Stat(src); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			p.rep.Warning("source import image does not exist, unable to finish loading data")
			return fmt.Errorf("%w: %s", ErrMissingSourceImage, src)
		}
		return fmt.Errorf("failed to stat %s: %w", src, err)
	}
	r, err := imaging.ReadRaster(src)
	if err != nil {
		p.rep.Warning("failed to read imported image")
		return err
	}

	provinces, err := p.loadProvinces(filepath.Join(dir, ProvinceDataFilename))
	if err != nil {
		return err
	}
	labels, err := p.loadLabels(filepath.Join(dir, ShapeDataFilename))
	if err != nil {
		return err
	}
	if labels.Width() != r.Width() || labels.Height() != r.Height() {
		return fmt.Errorf("%w: labels are %dx%d, source image is %dx%d",
			ErrSizeMismatch, labels.Width(), labels.Height(), r.Width(), r.Height())
	}
	if err := province.Validate(provinces); err != nil {
		report.Warningf(p.rep, "province data is inconsistent: %v", err)
	}

	graphics := buildGraphics(labels, provinces, p.rep)

	p.info = Info{raster: r, labels: labels, provinces: provinces, graphics: graphics}
	report.Debugf(p.rep, "loaded %d provinces from %s", len(provinces), dir)
	return nil
}

func (p *Project) loadProvinces(path string) ([]province.Province, error) {
	f, err := os.Open(path)
	if err != nil {
		report.Errorf(p.rep, "failed to open file %s: %v", path, err)
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	list, err := ReadProvinces(f, path)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			report.Errorf(p.rep, "failed to parse line #%d: '%s'", pe.Line, pe.Content)
		}
		return nil, err
	}
	report.Debugf(p.rep, "loaded information for %d provinces", len(list))
	return list, nil
}

func (p *Project) loadLabels(path string) (*grid.Grid[uint32], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		report.Errorf(p.rep, "failed to open file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	labels, err := DecodeLabels(data)
	if err != nil {
		report.Errorf(p.rep, "failed to read label matrix: %v", err)
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return labels, nil
}

// buildGraphics paints every pixel with the color of the province its label
// names. Labels outside [1, len(provinces)] are reported per pixel and left
// zero.
func buildGraphics(labels *grid.Grid[uint32], provinces []province.Province, rep report.Reporter) *grid.Grid[uint8] {
	g := grid.New[uint8](labels.Width(), labels.Height(), 3)
	n := uint32(len(provinces))
	for y := 0; y < labels.Height(); y++ {
		for x := 0; x < labels.Width(); x++ {
			label := labels.At(x, y)
			if label < 1 || label > n {
				report.Warningf(rep, "label matrix has label %d at position (%d,%d), which is out of the range of valid labels [1,%d]", label, x, y, n)
				continue
			}
			c := provinces[label-1].Color
			g.SetCell(x, y, c.R, c.G, c.B)
		}
	}
	return g
}

// ExportGraphics writes the graphics buffer as an image; the format follows
// the file extension.
func (p *Project) ExportGraphics(path string) error {
	if p.info.graphics == nil {
		return ErrNoGraphics
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	return imaging.SaveGraphics(p.info.graphics, path)
}

// ProvinceAt returns the province covering (x, y). The bool is false for
// boundary pixels and labels without a province.
func (p *Project) ProvinceAt(x, y int) (province.Province, bool, error) {
	labels := p.info.labels
	if labels == nil {
		return province.Province{}, false, ErrNoLabels
	}
	if !labels.InBounds(x, y) {
		return province.Province{}, false, fmt.Errorf("%w: (%d,%d) in a %dx%d map", ErrOutOfBounds, x, y, labels.Width(), labels.Height())
	}
	label := labels.At(x, y)
	if label == 0 || int(label) > len(p.info.provinces) {
		return province.Province{}, false, nil
	}
	return p.info.provinces[label-1], true, nil
}

// Province returns the province with the given id.
func (p *Project) Province(id uint32) (province.Province, error) {
	if id == 0 || int(id) > len(p.info.provinces) {
		return province.Province{}, fmt.Errorf("%w: %d", ErrUnknownProvince, id)
	}
	return p.info.provinces[id-1], nil
}

// UpdateProvince applies a patch to one province and returns the result.
func (p *Project) UpdateProvince(id uint32, patch province.Patch) (province.Province, error) {
	if _, err := p.Province(id); err != nil {
		return province.Province{}, err
	}
	prov := &p.info.provinces[id-1]
	prov.Update(patch)
	return *prov, nil
}
