package tiling

import "github.com/Faultbox/gpattern/pkg/math"

// NumTiles returns ceil(maxU)*ceil(maxV), and at least one.
func NumTiles(maxU, maxV float32) int {
	return max(1, math.Ceil(maxU)*math.Ceil(maxV))
}

// TileOffset decomposes a linear tile index into its grid offset, with
// uTiles tiles per row. Tile 0 is (0,0).
func TileOffset(index, uTiles int) (du, dv int) {
	if uTiles < 1 {
		uTiles = 1
	}
	return index % uTiles, index / uTiles
}

// TileCenterUV returns the surface parameters of the middle of a tile.
func TileCenterUV(index int, p Params) (s, t float32) {
	du, dv := TileOffset(index, p.UTiles())
	s = math.Fit(float32(du)+0.5, 0, p.MaxU, 0, SeamLimit)
	t = math.Fit(float32(dv)+0.5, 0, p.MaxV, 0, SeamLimit)
	return s, t
}
