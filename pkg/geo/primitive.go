package geo

import (
	stdmath "math"

	"github.com/Faultbox/gpattern/pkg/math"
)

// Primitive is a parametric surface patch evaluated over (u,v) in [0,1]².
//
// EvaluateNormal returns the (not necessarily unit) surface normal, which
// may be zero where the parameterisation degenerates. Implementations must
// be safe for concurrent use.
type Primitive interface {
	EvaluatePosition(u, v float32) math.Vec3
	EvaluateNormal(u, v float32) math.Vec3
}

// Patch is a bilinear patch through four corners. P00 sits at (u,v)=(0,0),
// P10 at (1,0), P01 at (0,1) and P11 at (1,1).
type Patch struct {
	P00, P10, P01, P11 math.Vec3
}

// NewPlane returns a flat w×h patch in the XY plane centred on the origin,
// facing +Z.
func NewPlane(w, h float32) Patch {
	hw, hh := w/2, h/2
	return Patch{
		P00: math.Vec3{X: -hw, Y: -hh},
		P10: math.Vec3{X: hw, Y: -hh},
		P01: math.Vec3{X: -hw, Y: hh},
		P11: math.Vec3{X: hw, Y: hh},
	}
}

// EvaluatePosition returns the bilinear interpolation of the corners.
func (p Patch) EvaluatePosition(u, v float32) math.Vec3 {
	bottom := p.P00.Scale(1 - u).Add(p.P10.Scale(u))
	top := p.P01.Scale(1 - u).Add(p.P11.Scale(u))
	return bottom.Scale(1 - v).Add(top.Scale(v))
}

// EvaluateNormal returns ∂P/∂u × ∂P/∂v.
func (p Patch) EvaluateNormal(u, v float32) math.Vec3 {
	du := p.P10.Sub(p.P00).Scale(1 - v).Add(p.P11.Sub(p.P01).Scale(v))
	dv := p.P01.Sub(p.P00).Scale(1 - u).Add(p.P11.Sub(p.P10).Scale(u))
	return du.Cross(dv)
}

// Cylinder is an open tube around the Z axis starting at z=0. U wraps
// around the circumference, so the surface is closed along U.
type Cylinder struct {
	Radius float32
	Height float32
}

// EvaluatePosition implements Primitive.
func (c Cylinder) EvaluatePosition(u, v float32) math.Vec3 {
	s, co := stdmath.Sincos(2 * stdmath.Pi * float64(u))
	return math.Vec3{
		X: c.Radius * float32(co),
		Y: c.Radius * float32(s),
		Z: c.Height * v,
	}
}

// EvaluateNormal implements Primitive. The normal points outwards.
func (c Cylinder) EvaluateNormal(u, v float32) math.Vec3 {
	s, co := stdmath.Sincos(2 * stdmath.Pi * float64(u))
	k := 2 * stdmath.Pi * float64(c.Radius) * float64(c.Height)
	return math.Vec3{X: float32(k * co), Y: float32(k * s)}
}

// Sphere is centred on the origin. U is longitude, V runs from the south
// pole (v=0) to the north pole (v=1); the normal vanishes at both poles.
type Sphere struct {
	Radius float32
}

// EvaluatePosition implements Primitive.
func (s Sphere) EvaluatePosition(u, v float32) math.Vec3 {
	sp, cp := stdmath.Sincos(2 * stdmath.Pi * float64(u))
	st, ct := sincosLatitude(v)
	r := float64(s.Radius)
	return math.Vec3{
		X: float32(r * ct * cp),
		Y: float32(r * ct * sp),
		Z: float32(r * st),
	}
}

// EvaluateNormal implements Primitive.
func (s Sphere) EvaluateNormal(u, v float32) math.Vec3 {
	sp, cp := stdmath.Sincos(2 * stdmath.Pi * float64(u))
	st, ct := sincosLatitude(v)
	r := float64(s.Radius)
	k := 2 * stdmath.Pi * stdmath.Pi * r * r * ct
	return math.Vec3{
		X: float32(k * ct * cp),
		Y: float32(k * ct * sp),
		Z: float32(k * st),
	}
}

// sincosLatitude returns sin and cos of the latitude for v, snapping the
// cosine to zero at the poles.
func sincosLatitude(v float32) (sin, cos float64) {
	switch {
	case v <= 0:
		return -1, 0
	case v >= 1:
		return 1, 0
	}
	return stdmath.Sincos(stdmath.Pi * (float64(v) - 0.5))
}

// Transformed places a primitive in space with an affine transform.
type Transformed struct {
	Prim   Primitive
	M      math.Mat4
	normal math.Mat4
}

// NewTransformed wraps prim with the transform m. A mirroring transform
// reverses the parameterisation's orientation, so the normal matrix is
// negated to keep EvaluateNormal equal to ∂P/∂u × ∂P/∂v.
func NewTransformed(prim Primitive, m math.Mat4) *Transformed {
	normal := m.NormalMatrix()
	if m.Det3() < 0 {
		normal = math.Scale(math.Vec3{X: -1, Y: -1, Z: -1}).Mul(normal)
	}
	return &Transformed{Prim: prim, M: m, normal: normal}
}

// EvaluatePosition implements Primitive.
func (t *Transformed) EvaluatePosition(u, v float32) math.Vec3 {
	return t.M.TransformPoint(t.Prim.EvaluatePosition(u, v))
}

// EvaluateNormal implements Primitive. Normals go through the inverse
// transpose so they stay perpendicular under non-uniform scale.
func (t *Transformed) EvaluateNormal(u, v float32) math.Vec3 {
	return t.normal.TransformDirection(t.Prim.EvaluateNormal(u, v))
}
