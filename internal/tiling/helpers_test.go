package tiling

import (
	"sort"

	"github.com/Faultbox/gpattern/pkg/geo"
	"github.com/Faultbox/gpattern/pkg/math"
)

func unitSquare() geo.Patch {
	return geo.Patch{
		P00: math.Vec3{},
		P10: math.Vec3{X: 1},
		P01: math.Vec3{Y: 1},
		P11: math.Vec3{X: 1, Y: 1},
	}
}

// squarePattern is a unit square at z=0 plus a raised centre point.
func squarePattern() *geo.Detail {
	return geo.NewDetail(
		math.Vec3{X: 0, Y: 0},
		math.Vec3{X: 1, Y: 0},
		math.Vec3{X: 0, Y: 1},
		math.Vec3{X: 1, Y: 1},
		math.Vec3{X: 0.5, Y: 0.5, Z: 1},
	)
}

func preprocessed(d *geo.Detail) *geo.Detail {
	if _, err := Preprocess(d); err != nil {
		panic(err)
	}
	return d
}

// zeroNormal is a flat surface whose normal is always degenerate.
type zeroNormal struct{}

func (zeroNormal) EvaluatePosition(u, v float32) math.Vec3 { return math.Vec3{X: u, Y: v} }
func (zeroNormal) EvaluateNormal(u, v float32) math.Vec3   { return math.Vec3{} }

// recorder remembers the parameters it was evaluated at.
type recorder struct {
	geo.Primitive
	s, t []float32
}

func (r *recorder) EvaluatePosition(u, v float32) math.Vec3 {
	r.s = append(r.s, u)
	r.t = append(r.t, v)
	return r.Primitive.EvaluatePosition(u, v)
}

type tilePoint struct {
	Tile float32
	P    math.Vec3
}

// pointSet flattens a container into a canonical order so containers merged
// in different orders compare equal.
func pointSet(d *geo.Detail) []tilePoint {
	tiles, _ := d.FindFloatAttrib(geo.AttrTile)
	out := make([]tilePoint, d.NumPoints())
	for i, p := range d.P {
		out[i] = tilePoint{Tile: tiles[i], P: p}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Tile != b.Tile {
			return a.Tile < b.Tile
		}
		if a.P.X != b.P.X {
			return a.P.X < b.P.X
		}
		if a.P.Y != b.P.Y {
			return a.P.Y < b.P.Y
		}
		return a.P.Z < b.P.Z
	})
	return out
}

func approxEqual(a, b math.Vec3, tol float32) bool {
	d := a.Sub(b)
	return max(d.X, -d.X) <= tol && max(d.Y, -d.Y) <= tol && max(d.Z, -d.Z) <= tol
}
