// Package detection partitions a province map raster into connected
// single-color regions.
//
// A province map paints every province in one flat color and separates
// provinces with a reserved boundary color (black by default). FindAllShapes
// labels each connected region with a positive integer, leaves boundary
// pixels at 0, and reports pixels that break those conventions.
//
// # Labels
//
// Regions are discovered in row-major scan order, so label 1 is the region
// containing the first non-boundary pixel of the top row, and so on. The
// labeling is deterministic for a given input; persisted label files rely on
// that.
//
// # Problem Rules
//
// After labeling, a second sweep applies the configured Rules:
//
//   - RuleTouchingRegions: two regions meet with no boundary between them
//   - RuleStrayBoundary: an isolated boundary pixel inside one region
//   - RuleSmallShape: a region smaller than Options.MinShapeSize
//
// Problems are diagnostics. They never stop the pass and each pixel is
// reported at most once.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//
// Shape bounds are inclusive on both ends.
package detection
