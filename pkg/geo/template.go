package geo

import "github.com/Faultbox/gpattern/pkg/math"

// Template is the surface geometry a pattern is tiled over: a list of
// primitives and an optional point container carrying attributes such as
// uv.
type Template struct {
	Prims  []Primitive
	Points *Detail
}

// NewTemplate creates a template from primitives.
func NewTemplate(prims ...Primitive) *Template {
	return &Template{Prims: prims, Points: NewDetail()}
}

// NumPrimitives returns the number of primitives.
func (t *Template) NumPrimitives() int {
	if t == nil {
		return 0
	}
	return len(t.Prims)
}

// Primitive returns the i-th primitive.
func (t *Template) Primitive(i int) Primitive {
	return t.Prims[i]
}

// SetUVs replaces the template points with one point per uv pair, placed
// on the first primitive, and stores the pairs in the uv attribute.
func (t *Template) SetUVs(uvs []math.Vec2) {
	d := NewDetail()
	for _, uv := range uvs {
		var p math.Vec3
		if len(t.Prims) > 0 {
			p = t.Prims[0].EvaluatePosition(math.Clamp(uv.X, 0, 1), math.Clamp(uv.Y, 0, 1))
		}
		d.AddPoint(p)
	}
	copy(d.AddVec2Attrib(AttrUV), uvs)
	t.Points = d
}
