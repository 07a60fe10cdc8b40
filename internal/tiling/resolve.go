package tiling

import "github.com/Faultbox/gpattern/pkg/geo"

// ResolveTileCounts decides the tile grid dimensions. With useUV the
// largest u and v found in the template's point uv attribute are used;
// otherwise the user values, floored at one tile each.
func ResolveTileCounts(useUV bool, tmpl *geo.Template, userU, userV float32) (maxU, maxV float32, err error) {
	if !useUV {
		return max(1, userU), max(1, userV), nil
	}

	if tmpl == nil || tmpl.Points == nil {
		return 0, 0, ErrMissingUV
	}
	uvs, ok := tmpl.Points.FindVec2Attrib(geo.AttrUV)
	if !ok {
		return 0, 0, ErrMissingUV
	}
	// Comparisons skip NaN components.
	for _, uv := range uvs {
		if uv.X > maxU {
			maxU = uv.X
		}
		if uv.Y > maxV {
			maxV = uv.Y
		}
	}
	return maxU, maxV, nil
}
