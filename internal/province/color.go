package province

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/province-map-tools/internal/imaging"
)

// ColorGenerator hands out display colors, one per province index.
type ColorGenerator interface {
	Generate(i int) imaging.Color
}

// goldenAngle spreads consecutive hues as far apart as possible.
const goldenAngle = 137.50776405003785

// walkLimit bounds the HSV walk before falling back to a linear scan of the
// packed color space.
const walkLimit = 1 << 20

// UniqueColorGenerator walks HSV space along the golden angle and never
// returns the same color twice or a reserved color.
//
// Results are memoized per index, so Generate(i) is stable for the lifetime
// of the generator. The sequence of colors depends only on the order in
// which new indexes are requested. A generator is not safe for concurrent
// use.
type UniqueColorGenerator struct {
	reserved map[uint32]bool
	used     map[uint32]bool
	byIndex  map[int]imaging.Color
	step     int
	scan     uint32
}

// NewUniqueColorGenerator returns a generator that never yields any of the
// reserved colors. Pass the boundary color so provinces never look like
// borders.
func NewUniqueColorGenerator(reserved ...imaging.Color) *UniqueColorGenerator {
	g := &UniqueColorGenerator{
		reserved: make(map[uint32]bool, len(reserved)),
		used:     make(map[uint32]bool),
		byIndex:  make(map[int]imaging.Color),
	}
	for _, c := range reserved {
		g.reserved[c.Packed()] = true
	}
	return g
}

// Generate returns the color for province index i.
func (g *UniqueColorGenerator) Generate(i int) imaging.Color {
	if c, ok := g.byIndex[i]; ok {
		return c
	}
	c := g.next()
	g.used[c.Packed()] = true
	g.byIndex[i] = c
	return c
}

func (g *UniqueColorGenerator) taken(c imaging.Color) bool {
	return g.used[c.Packed()] || g.reserved[c.Packed()]
}

func (g *UniqueColorGenerator) next() imaging.Color {
	for g.step < walkLimit {
		c := hsvAt(g.step)
		g.step++
		if !g.taken(c) {
			return c
		}
	}
	// The walk is exhausted; every remaining free color is still reachable.
	for n := 0; n < 1<<24; n++ {
		c := imaging.ColorFromPacked(g.scan)
		g.scan = (g.scan + 1) & 0xffffff
		if !g.taken(c) {
			return c
		}
	}
	panic("province: color space exhausted")
}

// hsvAt maps a walk position to a color. Hue follows the golden angle while
// saturation and value cycle through a few bands so that neighbors in the
// sequence stay easy to tell apart.
func hsvAt(step int) imaging.Color {
	h := math.Mod(float64(step)*goldenAngle, 360)
	s := 0.45 + 0.5*math.Mod(float64(step)*0.618033988749895, 1)
	v := 0.55 + 0.4*math.Mod(float64(step/7)*0.381966011250105, 1)
	r, gr, b := colorful.Hsv(h, s, v).Clamped().RGB255()
	return imaging.Color{R: r, G: gr, B: b}
}
