// Package province turns detected shapes into province records.
//
// Every shape becomes exactly one Province whose ID equals the shape's
// label. Each province gets a display color that no other province in the
// same list shares, plus classification fields (type, terrain, continent,
// coastal) supplied by a Classifier.
package province

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ironsheep/province-map-tools/internal/imaging"
)

// Sentinel errors for province lists.
var (
	// ErrLabelMismatch indicates a shape whose label is not its position + 1.
	ErrLabelMismatch = errors.New("province: shape label does not match its position")
	// ErrNonDenseIDs indicates a list whose ids are not exactly 1..N in order.
	ErrNonDenseIDs = errors.New("province: ids are not dense")
	// ErrDuplicateColor indicates two provinces sharing a display color.
	ErrDuplicateColor = errors.New("province: duplicate province color")
	// ErrUnknownType indicates an unrecognized province type name.
	ErrUnknownType = errors.New("province: unknown province type")
	// ErrUnknownTerrain indicates an unrecognized terrain name.
	ErrUnknownTerrain = errors.New("province: unknown terrain")
)

// Type is the broad category of a province.
type Type uint8

// Province types.
const (
	TypeUnknown Type = iota
	TypeLand
	TypeSea
	TypeLake
)

var typeNames = [...]string{
	TypeUnknown: "UNKNOWN",
	TypeLand:    "LAND",
	TypeSea:     "SEA",
	TypeLake:    "LAKE",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// ParseType accepts a type name in any letter case.
func ParseType(s string) (Type, error) {
	for i, name := range typeNames {
		if strings.EqualFold(s, name) {
			return Type(i), nil
		}
	}
	return TypeUnknown, fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(b []byte) error {
	v, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Terrain is the terrain class of a province.
type Terrain uint8

// Terrain classes.
const (
	TerrainUnknown Terrain = iota
	TerrainPlains
	TerrainForest
	TerrainHills
	TerrainMountain
	TerrainDesert
	TerrainMarsh
	TerrainJungle
	TerrainUrban
	TerrainOcean
	TerrainLakes
)

var terrainNames = [...]string{
	TerrainUnknown:  "UNKNOWN",
	TerrainPlains:   "PLAINS",
	TerrainForest:   "FOREST",
	TerrainHills:    "HILLS",
	TerrainMountain: "MOUNTAIN",
	TerrainDesert:   "DESERT",
	TerrainMarsh:    "MARSH",
	TerrainJungle:   "JUNGLE",
	TerrainUrban:    "URBAN",
	TerrainOcean:    "OCEAN",
	TerrainLakes:    "LAKES",
}

func (t Terrain) String() string {
	if int(t) < len(terrainNames) {
		return terrainNames[t]
	}
	return fmt.Sprintf("Terrain(%d)", uint8(t))
}

// ParseTerrain accepts a terrain name in any letter case.
func ParseTerrain(s string) (Terrain, error) {
	for i, name := range terrainNames {
		if strings.EqualFold(s, name) {
			return Terrain(i), nil
		}
	}
	return TerrainUnknown, fmt.Errorf("%w: %q", ErrUnknownTerrain, s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Terrain) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Terrain) UnmarshalText(b []byte) error {
	v, err := ParseTerrain(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Province is the record derived from one detected shape.
type Province struct {
	// ID matches the shape label, starting at 1.
	ID uint32 `json:"id"`

	// Color is the unique display color.
	Color imaging.Color `json:"color"`

	Type      Type    `json:"type"`
	Coastal   bool    `json:"coastal"`
	Terrain   Terrain `json:"terrain"`
	Continent uint32  `json:"continent"`
}

// Patch is a partial edit of the classification fields. Nil fields are
// left unchanged.
type Patch struct {
	Type      *Type    `json:"type,omitempty"`
	Coastal   *bool    `json:"coastal,omitempty"`
	Terrain   *Terrain `json:"terrain,omitempty"`
	Continent *uint32  `json:"continent,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Type == nil && p.Coastal == nil && p.Terrain == nil && p.Continent == nil
}

// Update applies a patch. ID and color are never edited.
func (p *Province) Update(patch Patch) {
	if patch.Type != nil {
		p.Type = *patch.Type
	}
	if patch.Coastal != nil {
		p.Coastal = *patch.Coastal
	}
	if patch.Terrain != nil {
		p.Terrain = *patch.Terrain
	}
	if patch.Continent != nil {
		p.Continent = *patch.Continent
	}
}

// Validate checks that ids run 1..N in order and that colors are unique.
func Validate(list []Province) error {
	seen := make(map[uint32]uint32, len(list))
	for i, p := range list {
		if p.ID != uint32(i+1) {
			return fmt.Errorf("%w: position %d has id %d", ErrNonDenseIDs, i, p.ID)
		}
		if other, ok := seen[p.Color.Packed()]; ok {
			return fmt.Errorf("%w: %s used by provinces %d and %d", ErrDuplicateColor, p.Color.Hex(), other, p.ID)
		}
		seen[p.Color.Packed()] = p.ID
	}
	return nil
}
