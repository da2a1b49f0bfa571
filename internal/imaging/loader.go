package imaging

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// RasterCache provides thread-safe caching of decoded rasters to avoid
// redundant disk reads.
//
// The cache stores Raster values keyed by their file path. Once a raster is
// loaded, subsequent Load() calls for the same path return the cached copy
// without disk I/O. Rasters are read-only, so sharing them is safe.
//
// # Memory Management
//
// A full-size province map is several hundred megabytes once decoded.
// Cached rasters remain in memory until explicitly removed via Evict() or
// Clear().
type RasterCache struct {
	mu      sync.RWMutex
	rasters map[string]*Raster
}

// NewRasterCache creates and initializes a new empty raster cache.
func NewRasterCache() *RasterCache {
	return &RasterCache{
		rasters: make(map[string]*Raster),
	}
}

// Load retrieves a raster from the cache or decodes it from disk.
//
// The raster is cached using the exact path string provided. Different
// paths to the same file (e.g., relative vs absolute) will result in
// separate cache entries.
func (c *RasterCache) Load(path string) (*Raster, error) {
	c.mu.RLock()
	if r, ok := c.rasters[path]; ok {
		c.mu.RUnlock()
		return r, nil
	}
	c.mu.RUnlock()

	r, err := ReadRaster(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.rasters[path] = r
	c.mu.Unlock()

	return r, nil
}

// Clear removes all rasters from the cache.
func (c *RasterCache) Clear() {
	c.mu.Lock()
	c.rasters = make(map[string]*Raster)
	c.mu.Unlock()
}

// Evict removes a specific raster from the cache by its path.
// If the path is not in the cache, this method does nothing.
func (c *RasterCache) Evict(path string) {
	c.mu.Lock()
	delete(c.rasters, path)
	c.mu.Unlock()
}

// RasterInfo contains metadata about a province map file.
type RasterInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the detected image format: "png", "bmp", "jpeg", "gif",
	// "tiff" or "unknown". Detection is based on file extension.
	Format string `json:"format"`

	// ColorDepth indicates the bit depth per channel: "8-bit" or "16-bit".
	ColorDepth string `json:"color_depth"`

	// HasAlpha indicates whether the decoded image carries an alpha channel.
	HasAlpha bool `json:"has_alpha"`

	// DistinctColors is the number of different RGB colors in the image,
	// an upper bound on the number of provinces that can be detected.
	DistinctColors int `json:"distinct_colors"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadRasterInfo loads a raster through the cache and returns metadata
// about it.
func LoadRasterInfo(cache *RasterCache, path string) (*RasterInfo, error) {
	r, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	hasAlpha := false
	colorDepth := "8-bit"
	// The raster is normalized to RGBA; only the source file tells us more.
	if f, err := os.Open(path); err == nil {
		cfg, _, cerr := image.DecodeConfig(f)
		f.Close()
		if cerr == nil {
			hasAlpha, colorDepth = describeModel(cfg)
		}
	}

	return &RasterInfo{
		Width:          r.Width(),
		Height:         r.Height(),
		Format:         FormatOf(path),
		ColorDepth:     colorDepth,
		HasAlpha:       hasAlpha,
		DistinctColors: r.DistinctColors(),
		FileSizeBytes:  stat.Size(),
	}, nil
}

// FormatOf maps a file extension to a format name.
func FormatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".bmp":
		return "bmp"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".tif", ".tiff":
		return "tiff"
	}
	return "unknown"
}

func describeModel(cfg image.Config) (hasAlpha bool, depth string) {
	switch cfg.ColorModel {
	case color.RGBAModel, color.NRGBAModel:
		return true, "8-bit"
	case color.RGBA64Model, color.NRGBA64Model:
		return true, "16-bit"
	case color.Gray16Model:
		return false, "16-bit"
	}
	return false, "8-bit"
}
