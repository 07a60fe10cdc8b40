// Package geo provides the geometry container and parametric primitives the
// tiling engine reads and writes.
package geo

import (
	"sort"

	"github.com/Faultbox/gpattern/pkg/math"
)

// Standard point attribute names.
const (
	AttrBBoxUV    = "bboxuv"     // Vec2, position inside the pattern bbox
	AttrPointDist = "point_dist" // float, distance to the z=0 plane
	AttrNormal    = "N"          // Vec3, unit surface normal
	AttrTile      = "tile"       // float, index of the tile a point came from
	AttrUV        = "uv"         // Vec2, texture coordinates
)

// Detail is a point container with named per-point attributes.
//
// Attribute slices returned by the Add/Find methods alias the container's
// storage and are invalidated by AddPoint, Merge and CopyFrom.
// A Detail is not safe for concurrent mutation.
type Detail struct {
	P []math.Vec3

	vec2  map[string][]math.Vec2
	vec3  map[string][]math.Vec3
	float map[string][]float32
}

// NewDetail creates a container holding the given points.
func NewDetail(points ...math.Vec3) *Detail {
	d := &Detail{}
	d.P = append(d.P, points...)
	return d
}

// NumPoints returns the number of points.
func (d *Detail) NumPoints() int {
	return len(d.P)
}

// AddPoint appends a point, zero-filling every attribute, and returns its
// index.
func (d *Detail) AddPoint(p math.Vec3) int {
	d.P = append(d.P, p)
	for name, a := range d.vec2 {
		d.vec2[name] = append(a, math.Vec2{})
	}
	for name, a := range d.vec3 {
		d.vec3[name] = append(a, math.Vec3{})
	}
	for name, a := range d.float {
		d.float[name] = append(a, 0)
	}
	return len(d.P) - 1
}

// AddVec2Attrib returns the Vec2 attribute with the given name, creating
// a zero-filled one if needed.
func (d *Detail) AddVec2Attrib(name string) []math.Vec2 {
	if a, ok := d.vec2[name]; ok {
		return a
	}
	if d.vec2 == nil {
		d.vec2 = make(map[string][]math.Vec2)
	}
	a := make([]math.Vec2, len(d.P))
	d.vec2[name] = a
	return a
}

// FindVec2Attrib looks up a Vec2 attribute.
func (d *Detail) FindVec2Attrib(name string) ([]math.Vec2, bool) {
	a, ok := d.vec2[name]
	return a, ok
}

// AddVec3Attrib returns the Vec3 attribute with the given name, creating
// a zero-filled one if needed.
func (d *Detail) AddVec3Attrib(name string) []math.Vec3 {
	if a, ok := d.vec3[name]; ok {
		return a
	}
	if d.vec3 == nil {
		d.vec3 = make(map[string][]math.Vec3)
	}
	a := make([]math.Vec3, len(d.P))
	d.vec3[name] = a
	return a
}

// FindVec3Attrib looks up a Vec3 attribute.
func (d *Detail) FindVec3Attrib(name string) ([]math.Vec3, bool) {
	a, ok := d.vec3[name]
	return a, ok
}

// AddFloatAttrib returns the scalar attribute with the given name, creating
// a zero-filled one if needed.
func (d *Detail) AddFloatAttrib(name string) []float32 {
	if a, ok := d.float[name]; ok {
		return a
	}
	if d.float == nil {
		d.float = make(map[string][]float32)
	}
	a := make([]float32, len(d.P))
	d.float[name] = a
	return a
}

// FindFloatAttrib looks up a scalar attribute.
func (d *Detail) FindFloatAttrib(name string) ([]float32, bool) {
	a, ok := d.float[name]
	return a, ok
}

// AttribNames returns the sorted names of all attributes.
func (d *Detail) AttribNames() []string {
	names := make([]string, 0, len(d.vec2)+len(d.vec3)+len(d.float))
	for name := range d.vec2 {
		names = append(names, name)
	}
	for name := range d.vec3 {
		names = append(names, name)
	}
	for name := range d.float {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BBox returns the bounds of all points. An empty container yields an
// empty box.
func (d *Detail) BBox() math.AABB {
	b := math.EmptyAABB()
	for _, p := range d.P {
		b = b.Extend(p)
	}
	return b
}

// Clone returns a deep copy.
func (d *Detail) Clone() *Detail {
	c := &Detail{}
	c.CopyFrom(d)
	return c
}

// CopyFrom replaces the contents of d with a copy of src, reusing d's
// buffers where their capacity allows.
func (d *Detail) CopyFrom(src *Detail) {
	d.P = append(d.P[:0], src.P...)

	d.vec2 = copyAttribs(d.vec2, src.vec2)
	d.vec3 = copyAttribs(d.vec3, src.vec3)
	d.float = copyAttribs(d.float, src.float)
}

// Merge appends the points of other. Attributes present on only one side
// are zero-filled for the points of the other side.
func (d *Detail) Merge(other *Detail) {
	n := len(d.P)
	d.P = append(d.P, other.P...)

	d.vec2 = mergeAttribs(d.vec2, other.vec2, n, len(other.P))
	d.vec3 = mergeAttribs(d.vec3, other.vec3, n, len(other.P))
	d.float = mergeAttribs(d.float, other.float, n, len(other.P))
}

func copyAttribs[T any](dst, src map[string][]T) map[string][]T {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string][]T, len(src))
	for name, a := range src {
		out[name] = append(dst[name][:0], a...)
	}
	return out
}

func mergeAttribs[T any](dst, src map[string][]T, dstLen, srcLen int) map[string][]T {
	if len(dst) == 0 && len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string][]T, len(src))
	}
	for name, a := range dst {
		if b, ok := src[name]; ok {
			dst[name] = append(a, b...)
		} else {
			dst[name] = append(a, make([]T, srcLen)...)
		}
	}
	for name, b := range src {
		if _, ok := dst[name]; ok {
			continue
		}
		a := make([]T, dstLen, dstLen+srcLen)
		dst[name] = append(a, b...)
	}
	return dst
}
