package tiling

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Faultbox/gpattern/pkg/geo"
	"github.com/Faultbox/gpattern/pkg/math"
)

func TestPreprocess(t *testing.T) {
	pattern := geo.NewDetail(
		math.Vec3{X: -2, Y: 1, Z: 0},
		math.Vec3{X: 2, Y: 3, Z: -0.5},
		math.Vec3{X: 0, Y: 2, Z: 2},
	)
	before := append([]math.Vec3(nil), pattern.P...)

	stats, err := Preprocess(pattern)
	require.NoError(t, err)
	require.False(t, stats.DegenerateU)
	require.False(t, stats.DegenerateV)
	require.Equal(t, before, pattern.P, "positions must not change")

	uv, ok := pattern.FindVec2Attrib(geo.AttrBBoxUV)
	require.True(t, ok)
	require.Equal(t, []math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 0.5, Y: 0.5}}, uv)

	dist, ok := pattern.FindFloatAttrib(geo.AttrPointDist)
	require.True(t, ok)
	require.Equal(t, []float32{0, 0.5, 2}, dist)
}

func TestPreprocessBBoxUVRange(t *testing.T) {
	pattern := squarePattern()
	pattern.AddPoint(math.Vec3{X: 0.3, Y: 0.7, Z: -4})

	_, err := Preprocess(pattern)
	require.NoError(t, err)

	uv, _ := pattern.FindVec2Attrib(geo.AttrBBoxUV)
	dist, _ := pattern.FindFloatAttrib(geo.AttrPointDist)
	for i, p := range pattern.P {
		require.GreaterOrEqual(t, uv[i].X, float32(0))
		require.LessOrEqual(t, uv[i].X, float32(1))
		require.GreaterOrEqual(t, uv[i].Y, float32(0))
		require.LessOrEqual(t, uv[i].Y, float32(1))

		require.GreaterOrEqual(t, dist[i], float32(0))
		if p.Z == 0 {
			require.Zero(t, dist[i])
		}
	}

	// The max corner lands exactly on (1,1).
	require.Equal(t, math.Vec2{X: 1, Y: 1}, uv[3])
	require.Equal(t, float32(4), dist[5])
}

func TestPreprocessFlatPattern(t *testing.T) {
	pattern := geo.NewDetail(math.Vec3{X: 1, Y: 0}, math.Vec3{X: 1, Y: 2})

	stats, err := Preprocess(pattern)
	require.NoError(t, err)
	require.True(t, stats.DegenerateU)
	require.False(t, stats.DegenerateV)

	uv, _ := pattern.FindVec2Attrib(geo.AttrBBoxUV)
	require.Equal(t, []math.Vec2{{X: 0, Y: 0}, {X: 0, Y: 1}}, uv)
}

func TestPreprocessEmpty(t *testing.T) {
	_, err := Preprocess(geo.NewDetail())
	require.ErrorIs(t, err, ErrEmptyPattern)

	_, err = Preprocess(nil)
	require.ErrorIs(t, err, ErrEmptyPattern)
}
