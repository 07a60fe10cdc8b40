package tiling

import (
	"github.com/Faultbox/gpattern/pkg/geo"
	"github.com/Faultbox/gpattern/pkg/math"
)

// ProjectStats counts what happened while projecting tiles.
type ProjectStats struct {
	Tiles             int
	Points            int
	DegenerateNormals int // points left undisplaced because the normal was zero
}

// Add accumulates other into s.
func (s *ProjectStats) Add(other ProjectStats) {
	s.Tiles += other.Tiles
	s.Points += other.Points
	s.DegenerateNormals += other.DegenerateNormals
}

// ProjectTile moves every point of a preprocessed pattern copy onto the
// tile (du,dv) of prim. The tile copy is modified in place and gains the
// unit surface normal in its N attribute.
//
// The offset is added before the parameters are remapped and clamped, so
// the last tile in each direction never reaches the seam.
func ProjectTile(tile *geo.Detail, prim geo.Primitive, du, dv int, p Params) (ProjectStats, error) {
	bboxUV, ok := tile.FindVec2Attrib(geo.AttrBBoxUV)
	if !ok {
		return ProjectStats{}, ErrNotPreprocessed
	}
	dist, ok := tile.FindFloatAttrib(geo.AttrPointDist)
	if !ok {
		return ProjectStats{}, ErrNotPreprocessed
	}
	normals := tile.AddVec3Attrib(geo.AttrNormal)

	stats := ProjectStats{Tiles: 1, Points: tile.NumPoints()}
	for i := range tile.P {
		ru := bboxUV[i].X + float32(du)
		rv := bboxUV[i].Y + float32(dv)
		s := math.Fit(ru, 0, p.MaxU, 0, SeamLimit)
		t := math.Fit(rv, 0, p.MaxV, 0, SeamLimit)

		pos := prim.EvaluatePosition(s, t)
		n, ok := prim.EvaluateNormal(s, t).TryNormalize()
		if !ok {
			stats.DegenerateNormals++
		}

		tile.P[i] = pos.Add(n.Scale(dist[i] * p.Scale))
		normals[i] = n
	}
	return stats, nil
}
