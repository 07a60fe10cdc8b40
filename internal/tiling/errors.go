package tiling

import "errors"

// Input errors. Any of these fails the whole cook before a tile is touched.
var (
	ErrEmptyPattern    = errors.New("empty pattern geometry")
	ErrEmptyTemplate   = errors.New("no primitives in template input")
	ErrMissingUV       = errors.New("no uv attribute on template points")
	ErrInvalidMode     = errors.New("invalid tiling mode")
	ErrTooManyTiles    = errors.New("tile grid is not finite or exceeds MaxTiles")
	ErrNotPreprocessed = errors.New("pattern is missing bboxuv/point_dist attributes")
)
