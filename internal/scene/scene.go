// Package scene reads the YAML description of a pattern and the template
// surface it is tiled over.
package scene

import (
	"errors"
	"fmt"
	stdmath "math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/gpattern/pkg/geo"
	"github.com/Faultbox/gpattern/pkg/math"
)

// Parse errors
var (
	ErrNoPatternPoints = errors.New("scene has no pattern points")
	ErrUnknownSurface  = errors.New("unknown surface type")
	ErrBadSurface      = errors.New("invalid surface parameters")
)

// Surface types accepted in template.type.
const (
	SurfacePatch    = "patch"
	SurfacePlane    = "plane"
	SurfaceCylinder = "cylinder"
	SurfaceSphere   = "sphere"
	SurfaceHeight   = "heightfield"
)

// Scene is a parsed scene: the pattern and its template.
type Scene struct {
	Pattern  *geo.Detail
	Template *geo.Template
}

// File mirrors the YAML layout of a scene file.
type File struct {
	Pattern  PatternDesc  `yaml:"pattern"`
	Template TemplateDesc `yaml:"template"`
}

// PatternDesc lists the pattern points.
type PatternDesc struct {
	Points [][3]float32 `yaml:"points"`
}

// TemplateDesc describes the single template surface.
type TemplateDesc struct {
	Type      string         `yaml:"type"`
	Corners   [][3]float32   `yaml:"corners"` // patch: p00, p10, p01, p11
	Size      [2]float32     `yaml:"size"`    // plane
	Radius    float32        `yaml:"radius"`  // cylinder, sphere
	Height    float32        `yaml:"height"`  // cylinder
	Heights   [][]float32    `yaml:"heights"` // heightfield, indexed [x][y]
	CellSize  float32        `yaml:"cell_size"`
	Transform *TransformDesc `yaml:"transform"`
	UV        [][2]float32   `yaml:"uv"`
}

// TransformDesc is applied as scale, then rotation, then translation.
type TransformDesc struct {
	Translate [3]float32  `yaml:"translate"`
	Rotate    *RotateDesc `yaml:"rotate"`
	Scale     *[3]float32 `yaml:"scale"`
}

// RotateDesc is an axis-angle rotation in degrees.
type RotateDesc struct {
	Axis  [3]float32 `yaml:"axis"`
	Angle float32    `yaml:"angle"`
}

// Load reads and parses a scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse parses a scene from YAML.
func Parse(data []byte) (*Scene, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return f.Build()
}

// Build converts the description into geometry.
func (f *File) Build() (*Scene, error) {
	if len(f.Pattern.Points) == 0 {
		return nil, ErrNoPatternPoints
	}
	pattern := geo.NewDetail()
	for _, p := range f.Pattern.Points {
		pattern.AddPoint(vec3(p))
	}

	prim, err := f.Template.primitive()
	if err != nil {
		return nil, err
	}
	tmpl := geo.NewTemplate(prim)
	if len(f.Template.UV) > 0 {
		uvs := make([]math.Vec2, len(f.Template.UV))
		for i, uv := range f.Template.UV {
			uvs[i] = math.Vec2{X: uv[0], Y: uv[1]}
		}
		tmpl.SetUVs(uvs)
	}

	return &Scene{Pattern: pattern, Template: tmpl}, nil
}

func (t *TemplateDesc) primitive() (geo.Primitive, error) {
	var prim geo.Primitive
	switch strings.ToLower(t.Type) {
	case SurfacePatch:
		if len(t.Corners) != 4 {
			return nil, fmt.Errorf("%w: patch needs 4 corners, got %d", ErrBadSurface, len(t.Corners))
		}
		prim = geo.Patch{
			P00: vec3(t.Corners[0]),
			P10: vec3(t.Corners[1]),
			P01: vec3(t.Corners[2]),
			P11: vec3(t.Corners[3]),
		}
	case SurfacePlane, "":
		w, h := t.Size[0], t.Size[1]
		if w == 0 && h == 0 {
			w, h = 1, 1
		}
		if w <= 0 || h <= 0 {
			return nil, fmt.Errorf("%w: plane size %gx%g", ErrBadSurface, w, h)
		}
		prim = geo.NewPlane(w, h)
	case SurfaceCylinder:
		if t.Radius <= 0 || t.Height <= 0 {
			return nil, fmt.Errorf("%w: cylinder radius %g height %g", ErrBadSurface, t.Radius, t.Height)
		}
		prim = geo.Cylinder{Radius: t.Radius, Height: t.Height}
	case SurfaceSphere:
		if t.Radius <= 0 {
			return nil, fmt.Errorf("%w: sphere radius %g", ErrBadSurface, t.Radius)
		}
		prim = geo.Sphere{Radius: t.Radius}
	case SurfaceHeight:
		cell := t.CellSize
		if cell == 0 {
			cell = 1
		}
		h, ok := geo.NewHeightfield(t.Heights, cell)
		if !ok {
			return nil, fmt.Errorf("%w: heightfield needs a regular grid of at least 2x2 samples", ErrBadSurface)
		}
		prim = h
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSurface, t.Type)
	}

	if t.Transform != nil {
		prim = geo.NewTransformed(prim, t.Transform.Matrix())
	}
	return prim, nil
}

// Matrix returns the combined transform T * R * S.
func (t *TransformDesc) Matrix() math.Mat4 {
	m := math.Translate(vec3(t.Translate))
	if t.Rotate != nil {
		rad := t.Rotate.Angle * stdmath.Pi / 180
		m = m.Mul(math.RotateAxis(vec3(t.Rotate.Axis), rad))
	}
	if t.Scale != nil {
		m = m.Mul(math.Scale(vec3(*t.Scale)))
	}
	return m
}

func vec3(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}
