package mapproject

import (
	"github.com/ironsheep/province-map-tools/internal/grid"
	"github.com/ironsheep/province-map-tools/internal/imaging"
	"github.com/ironsheep/province-map-tools/internal/province"
)

// Info is the in-memory map state: the source raster, its label matrix, one
// province per label and the graphics buffer derived from them.
//
// Each setter replaces the previous value outright; nothing is merged.
type Info struct {
	raster    *imaging.Raster
	labels    *grid.Grid[uint32]
	provinces []province.Province
	graphics  *grid.Grid[uint8]
}

// Raster returns the source raster, or nil.
func (i *Info) Raster() *imaging.Raster { return i.raster }

// SetRaster replaces the source raster.
func (i *Info) SetRaster(r *imaging.Raster) { i.raster = r }

// Labels returns the label matrix, or nil.
func (i *Info) Labels() *grid.Grid[uint32] { return i.labels }

// SetLabels replaces the label matrix.
func (i *Info) SetLabels(l *grid.Grid[uint32]) { i.labels = l }

// Provinces returns a copy of the province list.
func (i *Info) Provinces() []province.Province {
	return append([]province.Province(nil), i.provinces...)
}

// SetProvinces replaces the province list. The list is copied.
func (i *Info) SetProvinces(list []province.Province) {
	i.provinces = append([]province.Province(nil), list...)
}

// ProvinceCount returns the number of provinces.
func (i *Info) ProvinceCount() int { return len(i.provinces) }

// Graphics returns the RGB graphics buffer, or nil.
func (i *Info) Graphics() *grid.Grid[uint8] { return i.graphics }

// SetGraphics replaces the graphics buffer.
func (i *Info) SetGraphics(g *grid.Grid[uint8]) { i.graphics = g }

// Empty reports whether no map has been imported or loaded.
func (i *Info) Empty() bool {
	return i.labels == nil && len(i.provinces) == 0
}
