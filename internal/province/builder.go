package province

import (
	"fmt"

	"github.com/ironsheep/province-map-tools/internal/detection"
	"github.com/ironsheep/province-map-tools/internal/imaging"
)

// Classifier derives the classification fields of a province.
type Classifier interface {
	ProvinceType(c imaging.Color) Type
	Terrain(c imaging.Color) Terrain
	Continent(c imaging.Color) uint32
	IsCoastal(s *detection.Shape) bool
}

// PlaceholderClassifier assigns fixed values: unknown type and terrain,
// continent 1, not coastal. Real heuristics plug in through Classifier.
type PlaceholderClassifier struct{}

// ProvinceType implements Classifier.
func (PlaceholderClassifier) ProvinceType(imaging.Color) Type { return TypeUnknown }

// Terrain implements Classifier.
func (PlaceholderClassifier) Terrain(imaging.Color) Terrain { return TerrainUnknown }

// Continent implements Classifier.
func (PlaceholderClassifier) Continent(imaging.Color) uint32 { return 1 }

// IsCoastal implements Classifier.
func (PlaceholderClassifier) IsCoastal(*detection.Shape) bool { return false }

type buildConfig struct {
	classifier Classifier
	colors     ColorGenerator
}

// BuildOption customizes Build.
type BuildOption func(*buildConfig)

// WithClassifier replaces the PlaceholderClassifier.
func WithClassifier(c Classifier) BuildOption {
	return func(cfg *buildConfig) { cfg.classifier = c }
}

// WithColorGenerator replaces the default UniqueColorGenerator.
func WithColorGenerator(g ColorGenerator) BuildOption {
	return func(cfg *buildConfig) { cfg.colors = g }
}

// Build creates one province per shape. Province i gets ID i+1, which must
// equal shapes[i].Label. Classification reads the shape's source color and
// the display color comes from the generator; a generator that repeats a
// color makes Build fail.
func Build(shapes []detection.Shape, opts ...BuildOption) ([]Province, error) {
	cfg := buildConfig{classifier: PlaceholderClassifier{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.colors == nil {
		cfg.colors = NewUniqueColorGenerator(detection.BoundaryColor)
	}

	provinces := make([]Province, len(shapes))
	seen := make(map[uint32]uint32, len(shapes))
	for i := range shapes {
		s := &shapes[i]
		id := uint32(i + 1)
		if s.Label != id {
			return nil, fmt.Errorf("%w: shape %d has label %d", ErrLabelMismatch, i, s.Label)
		}

		c := cfg.colors.Generate(i)
		if other, ok := seen[c.Packed()]; ok {
			return nil, fmt.Errorf("%w: %s generated for provinces %d and %d", ErrDuplicateColor, c.Hex(), other, id)
		}
		seen[c.Packed()] = id

		provinces[i] = Province{
			ID:        id,
			Color:     c,
			Type:      cfg.classifier.ProvinceType(s.Color),
			Coastal:   cfg.classifier.IsCoastal(s),
			Terrain:   cfg.classifier.Terrain(s.Color),
			Continent: cfg.classifier.Continent(s.Color),
		}
	}
	return provinces, nil
}
