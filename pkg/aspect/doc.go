// Package aspect parses and normalizes media aspect descriptors.
//
// An aspect descriptor is the textual "width-height" form media items carry
// in their front matter, e.g. "1600-1000". Every consumer of media geometry
// (the column packer, the carousel, the row grid, the SVG sink) goes through
// this package so that rounding, orientation and fallback behavior are
// identical everywhere.
//
// # Strict and fail-soft parsing
//
// [Parse] is strict and returns an INVALID_ASPECT error for a missing dash,
// a non-numeric component or a non-positive component.
//
// [Model.Normalize] is fail-soft: a single bad asset must not break a whole
// grid, so on any parse error it returns [Default] (1600x1000, ratio 1.6)
// and reports the anomaly to the model's warning hook instead of failing.
//
// # Orientation
//
// [Model.Classify] treats ratios within a tolerance band around 1 as square
// (default ±17.5%, see [DefaultTolerance]). Portrait means taller than wide
// and not square; everything else is landscape.
package aspect
