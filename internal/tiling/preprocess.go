package tiling

import (
	"github.com/Faultbox/gpattern/pkg/geo"
	"github.com/Faultbox/gpattern/pkg/math"
)

// PreprocessStats reports degenerate pattern extents. A flat axis maps
// every point to 0 along that axis.
type PreprocessStats struct {
	Bounds      math.AABB
	DegenerateU bool // pattern has no extent along X
	DegenerateV bool // pattern has no extent along Y
}

// Preprocess adds the bboxuv and point_dist attributes to every pattern
// point. bboxuv is the point's XY position normalised to the pattern
// bounds; point_dist is its distance to the z=0 plane. Positions are left
// untouched.
func Preprocess(pattern *geo.Detail) (PreprocessStats, error) {
	if pattern == nil || pattern.NumPoints() == 0 {
		return PreprocessStats{}, ErrEmptyPattern
	}

	bbox := pattern.BBox()
	stats := PreprocessStats{
		Bounds:      bbox,
		DegenerateU: bbox.Min.X == bbox.Max.X,
		DegenerateV: bbox.Min.Y == bbox.Max.Y,
	}

	bboxUV := pattern.AddVec2Attrib(geo.AttrBBoxUV)
	dist := pattern.AddFloatAttrib(geo.AttrPointDist)
	for i, p := range pattern.P {
		bboxUV[i] = math.Vec2{
			X: math.Fit(p.X, bbox.Min.X, bbox.Max.X, 0, 1),
			Y: math.Fit(p.Y, bbox.Min.Y, bbox.Max.Y, 0, 1),
		}
		dist[i] = p.Distance(p.Flatten())
	}
	return stats, nil
}
