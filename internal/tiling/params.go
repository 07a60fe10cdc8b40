// Package tiling replicates a pattern point set across a grid of tiles laid
// over a template primitive's (u,v) domain, projecting every point onto the
// surface and displacing it along the surface normal.
package tiling

import (
	"fmt"
	stdmath "math"
	"strings"

	"github.com/Faultbox/gpattern/pkg/math"
)

// SeamLimit is the upper bound of the surface parameters handed to a
// primitive. Closed surfaces are not evaluated exactly on their seam.
const SeamLimit float32 = 0.99999

// MaxTiles bounds the number of tiles one cook may produce.
const MaxTiles = 1 << 20

// Params is the immutable per-cook tiling configuration. It is passed by
// value to every task.
type Params struct {
	MaxU, MaxV float32 // tile counts along U and V, possibly fractional
	Scale      float32 // multiplier on the normal displacement
	NumTiles   int
}

// NewParams derives the tile count from the grid dimensions.
func NewParams(maxU, maxV, scale float32) Params {
	return Params{
		MaxU:     maxU,
		MaxV:     maxV,
		Scale:    scale,
		NumTiles: NumTiles(maxU, maxV),
	}
}

// UTiles returns the number of whole tiles along U, never less than one.
func (p Params) UTiles() int {
	return max(1, math.Ceil(p.MaxU))
}

// VTiles returns the number of whole tiles along V, never less than one.
func (p Params) VTiles() int {
	return max(1, math.Ceil(p.MaxV))
}

// CheckGrid reports whether maxU x maxV tiles is a finite grid of at most
// MaxTiles tiles.
func CheckGrid(maxU, maxV float32) error {
	u, v := float64(maxU), float64(maxV)
	if stdmath.IsNaN(u) || stdmath.IsNaN(v) || stdmath.IsInf(u, 0) || stdmath.IsInf(v, 0) {
		return fmt.Errorf("%w: %gx%g", ErrTooManyTiles, maxU, maxV)
	}
	if n := stdmath.Max(1, stdmath.Ceil(u)) * stdmath.Max(1, stdmath.Ceil(v)); n > MaxTiles {
		return fmt.Errorf("%w: %gx%g is %.0f tiles, limit %d", ErrTooManyTiles, maxU, maxV, n, MaxTiles)
	}
	return nil
}

// String implements fmt.Stringer.
func (p Params) String() string {
	return fmt.Sprintf("%gx%g tiles (%d), scale %g", p.MaxU, p.MaxV, p.NumTiles, p.Scale)
}

// Mode selects how tiles are produced.
type Mode uint8

// Tiling modes.
const (
	ModeEager    Mode = iota // project every tile now and merge into one container
	ModeDeferred             // return lazily evaluated tiles with bounds
)

// String returns the mode name used in configuration files.
func (m Mode) String() string {
	switch m {
	case ModeEager:
		return "eager"
	case ModeDeferred:
		return "deferred"
	default:
		return fmt.Sprintf("Mode(%d)", m)
	}
}

// ParseMode converts a configuration string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "eager", "merge":
		return ModeEager, nil
	case "deferred", "lazy":
		return ModeDeferred, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}
