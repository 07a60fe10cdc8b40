package tiling

import (
	"github.com/Faultbox/gpattern/pkg/geo"
	"github.com/Faultbox/gpattern/pkg/math"
)

// DeferredTile is one tile whose projection is postponed until the host
// renders it. It only references read-only cook state, so Render may be
// called at any time, from any goroutine, any number of times.
type DeferredTile struct {
	Index  int
	Bounds math.AABB

	job *job
}

// Render projects the tile into a freshly allocated container.
func (t DeferredTile) Render() (*geo.Detail, ProjectStats, error) {
	out := geo.NewDetail()
	stats, err := t.job.renderTile(out, t.Index)
	if err != nil {
		return nil, stats, err
	}
	observeProjection(ModeDeferred, stats)
	return out, stats, nil
}

// Deferred is the ordered list of deferred tiles produced by one cook.
type Deferred struct {
	tiles  []DeferredTile
	bounds math.AABB
}

// Tiles returns the tiles in index order.
func (d *Deferred) Tiles() []DeferredTile {
	return d.tiles
}

// Len returns the number of tiles.
func (d *Deferred) Len() int {
	return len(d.tiles)
}

// Bounds returns the union of all tile bounds.
func (d *Deferred) Bounds() math.AABB {
	return d.bounds
}

// Cull returns the tiles whose bounds overlap box, in index order.
func (d *Deferred) Cull(box math.AABB) []DeferredTile {
	var visible []DeferredTile
	for _, t := range d.tiles {
		if t.Bounds.Overlaps(box) {
			visible = append(visible, t)
		}
	}
	return visible
}

func (d *Deferred) add(t DeferredTile) {
	if len(d.tiles) == 0 {
		d.bounds = math.EmptyAABB()
	}
	d.tiles = append(d.tiles, t)
	d.bounds = d.bounds.Union(t.Bounds)
}

// deferTile builds the deferred unit for a task. Its bounds are the
// surface point at the middle of the tile padded by the engine's
// BBoxExpand.
func (e *Engine) deferTile(j *job, t Task) DeferredTile {
	s, tv := TileCenterUV(t.Index, j.params)
	center := j.prim.EvaluatePosition(s, tv)
	return DeferredTile{
		Index:  t.Index,
		Bounds: math.PointAABB(center).Expand(e.opts.BBoxExpand),
		job:    j,
	}
}
