package detection

import (
	"fmt"
	"image"
	"strings"

	"github.com/ironsheep/province-map-tools/internal/imaging"
)

// Rule identifies one problem check. Rules combine as a bit set.
type Rule uint8

const (
	// RuleTouchingRegions flags a non-boundary pixel with a neighbor from a
	// different region, meaning two regions meet without a boundary between
	// them. Anti-aliased edges and missing borders trip it.
	RuleTouchingRegions Rule = 1 << iota
	// RuleStrayBoundary flags a boundary pixel that has no boundary
	// neighbor and is surrounded by a single region.
	RuleStrayBoundary
	// RuleSmallShape flags the pixels of shapes below Options.MinShapeSize.
	RuleSmallShape
)

// DefaultRules is the rule set enabled by DefaultOptions.
const DefaultRules = RuleTouchingRegions | RuleStrayBoundary

var ruleNames = []struct {
	rule Rule
	name string
}{
	{RuleTouchingRegions, "touching-regions"},
	{RuleStrayBoundary, "stray-boundary"},
	{RuleSmallShape, "small-shape"},
}

// String returns the rule names joined with '|'.
func (r Rule) String() string {
	var names []string
	for _, rn := range ruleNames {
		if r&rn.rule != 0 {
			names = append(names, rn.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// MarshalText implements encoding.TextMarshaler.
func (r Rule) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// ParseRules parses a comma or '|' separated list of rule names. "none"
// and the empty string yield no rules.
func ParseRules(s string) (Rule, error) {
	var out Rule
	for _, name := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '|' }) {
		name = strings.TrimSpace(strings.ToLower(name))
		if name == "" || name == "none" {
			continue
		}
		found := false
		for _, rn := range ruleNames {
			if rn.name == name {
				out |= rn.rule
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown problem rule %q", name)
		}
	}
	return out, nil
}

// Problem is one pixel flagged during detection.
type Problem struct {
	Pixel imaging.Pixel `json:"pixel"`
	Rule  Rule          `json:"rule"`
}

// Report holds the problems of one detection pass in row-major order.
type Report struct {
	Problems []Problem `json:"problems"`
	Count    int       `json:"count"`
}

// ByRule counts problems per rule name.
func (r Report) ByRule() map[string]int {
	out := make(map[string]int)
	for _, p := range r.Problems {
		out[p.Rule.String()]++
	}
	return out
}

// findProblems sweeps the finished label matrix row-major. Rules are tried
// in declaration order and a pixel is reported under the first that matches.
func findProblems(src Source, res *Result, opts Options) Report {
	rep := Report{Problems: make([]Problem, 0)}
	if opts.Rules == 0 {
		return rep
	}

	labels := res.Labels
	offsets := opts.Connectivity.Offsets()
	width, height := labels.Width(), labels.Height()

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			label := labels.At(x, y)
			var rule Rule
			switch {
			case label != 0 && opts.Rules&RuleTouchingRegions != 0 && touchesOtherRegion(res, offsets, x, y, label):
				rule = RuleTouchingRegions
			case label == 0 && opts.Rules&RuleStrayBoundary != 0 && isStrayBoundary(res, offsets, x, y):
				rule = RuleStrayBoundary
			case label != 0 && opts.Rules&RuleSmallShape != 0 && opts.MinShapeSize > 0 &&
				res.Shapes[label-1].Size < opts.MinShapeSize:
				rule = RuleSmallShape
			default:
				continue
			}
			rep.Problems = append(rep.Problems, Problem{Pixel: AsPixel(src, x, y), Rule: rule})
		}
	}
	rep.Count = len(rep.Problems)
	return rep
}

func touchesOtherRegion(res *Result, offsets []image.Point, x, y int, label uint32) bool {
	for _, off := range offsets {
		nx, ny := x+off.X, y+off.Y
		if !res.Labels.InBounds(nx, ny) {
			continue
		}
		if n := res.Labels.At(nx, ny); n != 0 && n != label {
			return true
		}
	}
	return false
}

func isStrayBoundary(res *Result, offsets []image.Point, x, y int) bool {
	var region uint32
	for _, off := range offsets {
		nx, ny := x+off.X, y+off.Y
		if !res.Labels.InBounds(nx, ny) {
			continue
		}
		n := res.Labels.At(nx, ny)
		if n == 0 {
			return false
		}
		if region == 0 {
			region = n
		} else if n != region {
			return false
		}
	}
	return region != 0
}
