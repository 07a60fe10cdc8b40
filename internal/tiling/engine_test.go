package tiling

import (
	stdmath "math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Faultbox/gpattern/pkg/geo"
	"github.com/Faultbox/gpattern/pkg/math"
)

func newTestEngine(t *testing.T, workers int) *Engine {
	return New(Options{
		Workers:    workers,
		BBoxExpand: 0.5,
		Logger:     zaptest.NewLogger(t),
	})
}

func squareRequest(mode Mode, u, v float32) Request {
	return Request{
		Pattern:  squarePattern(),
		Template: geo.NewTemplate(unitSquare()),
		Mode:     mode,
		Tiles:    math.Vec2{X: u, Y: v},
		Scale:    1,
	}
}

func TestCookEagerScenario(t *testing.T) {
	res, err := newTestEngine(t, 4).Cook(squareRequest(ModeEager, 2, 1))
	require.NoError(t, err)
	require.NotEmpty(t, res.ID)
	require.Nil(t, res.Deferred)
	require.Equal(t, 2, res.Params.NumTiles)
	require.Equal(t, ProjectStats{Tiles: 2, Points: 10}, res.Stats)
	require.Equal(t, 10, res.Geometry.NumPoints())

	raised := 0
	for _, tp := range pointSet(res.Geometry) {
		if tp.P.Z > 0.5 {
			raised++
			require.InDelta(t, 1, tp.P.Z, eps)
		}
		if tp.Tile == 1 {
			require.GreaterOrEqual(t, tp.P.X, float32(0.5)-eps)
		} else {
			require.LessOrEqual(t, tp.P.X, float32(0.5))
		}
	}
	require.Equal(t, 2, raised)
}

func TestCookDoesNotModifyRequest(t *testing.T) {
	req := squareRequest(ModeEager, 3, 3)
	before := append([]math.Vec3(nil), req.Pattern.P...)

	_, err := newTestEngine(t, 2).Cook(req)
	require.NoError(t, err)
	require.Equal(t, before, req.Pattern.P)
	require.Empty(t, req.Pattern.AttribNames())
}

func TestCookEagerMergeOrderIndependent(t *testing.T) {
	req := squareRequest(ModeEager, 6, 5)
	req.Template = geo.NewTemplate(geo.Cylinder{Radius: 1, Height: 4})

	inline, err := newTestEngine(t, 1).Cook(req)
	require.NoError(t, err)
	require.Equal(t, 30, inline.Params.NumTiles)

	for _, workers := range []int{2, 7, 16, 64} {
		parallel, err := newTestEngine(t, workers).Cook(req)
		require.NoError(t, err)
		require.Equal(t, inline.Stats, parallel.Stats)
		require.Equal(t, pointSet(inline.Geometry), pointSet(parallel.Geometry), "workers %d", workers)
	}
}

func TestCookUsesTemplateUVs(t *testing.T) {
	req := squareRequest(ModeEager, 1, 1)
	req.UseUV = true
	req.Template.SetUVs([]math.Vec2{{X: 0, Y: 0}, {X: 3, Y: 2}})

	res, err := newTestEngine(t, 0).Cook(req)
	require.NoError(t, err)
	require.Equal(t, 6, res.Params.NumTiles)
	require.Equal(t, 30, res.Geometry.NumPoints())
}

func TestCookErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Request)
		want   error
	}{
		{"nil pattern", func(r *Request) { r.Pattern = nil }, ErrEmptyPattern},
		{"empty pattern", func(r *Request) { r.Pattern = geo.NewDetail() }, ErrEmptyPattern},
		{"nil template", func(r *Request) { r.Template = nil }, ErrEmptyTemplate},
		{"no primitives", func(r *Request) { r.Template = geo.NewTemplate() }, ErrEmptyTemplate},
		{"missing uv", func(r *Request) { r.UseUV = true }, ErrMissingUV},
		{"bad mode", func(r *Request) { r.Mode = Mode(9) }, ErrInvalidMode},
		{"huge grid", func(r *Request) { r.Tiles = math.Vec2{X: 1e12, Y: 1} }, ErrTooManyTiles},
		{"infinite grid", func(r *Request) { r.Tiles.X = float32(stdmath.Inf(1)) }, ErrTooManyTiles},
		{"NaN grid", func(r *Request) { r.Tiles.Y = float32(stdmath.NaN()) }, ErrTooManyTiles},
		{"infinite uv", func(r *Request) {
			r.UseUV = true
			r.Template.SetUVs([]math.Vec2{{X: float32(stdmath.Inf(1)), Y: 1}})
		}, ErrTooManyTiles},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := squareRequest(ModeEager, 2, 2)
			tt.modify(&req)

			res, err := newTestEngine(t, 2).Cook(req)
			require.ErrorIs(t, err, tt.want)
			require.Nil(t, res)
		})
	}
}

func TestCookDeferred(t *testing.T) {
	res, err := newTestEngine(t, 4).Cook(squareRequest(ModeDeferred, 2, 1))
	require.NoError(t, err)
	require.Nil(t, res.Geometry)
	require.Equal(t, 2, res.Deferred.Len())

	tiles := res.Deferred.Tiles()
	require.Equal(t, 0, tiles[0].Index)
	require.Equal(t, 1, tiles[1].Index)

	// Bounds are the tile midpoint on the surface padded by BBoxExpand.
	require.True(t, approxEqual(tiles[0].Bounds.Center(), math.Vec3{X: 0.25, Y: 0.5}, 1e-4), "%v", tiles[0].Bounds)
	require.True(t, approxEqual(tiles[1].Bounds.Center(), math.Vec3{X: 0.75, Y: 0.5}, 1e-4), "%v", tiles[1].Bounds)
	require.InDelta(t, 1, tiles[0].Bounds.Max.X-tiles[0].Bounds.Min.X, eps)

	all := res.Deferred.Bounds()
	require.InDelta(t, -0.25, all.Min.X, 1e-4)
	require.InDelta(t, 1.25, all.Max.X, 1e-4)
}

func TestDeferredCull(t *testing.T) {
	res, err := newTestEngine(t, 1).Cook(squareRequest(ModeDeferred, 2, 1))
	require.NoError(t, err)

	right := math.PointAABB(math.Vec3{X: 0.9, Y: 0.5}).Expand(0.01)
	visible := res.Deferred.Cull(right)
	require.Len(t, visible, 1)
	require.Equal(t, 1, visible[0].Index)

	middle := math.PointAABB(math.Vec3{X: 0.5, Y: 0.5})
	require.Len(t, res.Deferred.Cull(middle), 2)

	far := math.PointAABB(math.Vec3{Z: 10})
	require.Empty(t, res.Deferred.Cull(far))
}

func TestDeferredMatchesEager(t *testing.T) {
	eagerReq := squareRequest(ModeEager, 4, 3)
	eagerReq.Template = geo.NewTemplate(geo.Sphere{Radius: 2})
	eager, err := newTestEngine(t, 3).Cook(eagerReq)
	require.NoError(t, err)

	deferredReq := eagerReq
	deferredReq.Mode = ModeDeferred
	deferred, err := newTestEngine(t, 3).Cook(deferredReq)
	require.NoError(t, err)

	// Render every tile concurrently, as a host would.
	tiles := deferred.Deferred.Tiles()
	rendered := make([]*geo.Detail, len(tiles))
	errs := make([]error, len(tiles))
	var wg sync.WaitGroup
	for i, tile := range tiles {
		i, tile := i, tile
		wg.Add(1)
		go func() {
			defer wg.Done()
			rendered[i], _, errs[i] = tile.Render()
		}()
	}
	wg.Wait()

	merged := geo.NewDetail()
	for i, d := range rendered {
		require.NoError(t, errs[i])
		merged.Merge(d)
	}
	require.Equal(t, pointSet(eager.Geometry), pointSet(merged))
}

func TestDeferredRenderIsRepeatable(t *testing.T) {
	res, err := newTestEngine(t, 1).Cook(squareRequest(ModeDeferred, 2, 2))
	require.NoError(t, err)

	tile := res.Deferred.Tiles()[3]
	a, stats, err := tile.Render()
	require.NoError(t, err)
	require.Equal(t, ProjectStats{Tiles: 1, Points: 5}, stats)

	b, _, err := tile.Render()
	require.NoError(t, err)
	require.Equal(t, a.P, b.P)
	require.NotSame(t, &a.P[0], &b.P[0])
}

func TestCookMetrics(t *testing.T) {
	eagerBefore := testutil.ToFloat64(tilesProjected.WithLabelValues(ModeEager.String()))
	plannedBefore := testutil.ToFloat64(deferredTilesPlanned)
	degenerateBefore := testutil.ToFloat64(degenerateNormals)
	missingUVBefore := testutil.ToFloat64(cookErrors.WithLabelValues("missing_uv"))

	e := newTestEngine(t, 2)

	_, err := e.Cook(squareRequest(ModeEager, 3, 2))
	require.NoError(t, err)
	require.Equal(t, eagerBefore+6, testutil.ToFloat64(tilesProjected.WithLabelValues(ModeEager.String())))

	_, err = e.Cook(squareRequest(ModeDeferred, 2, 2))
	require.NoError(t, err)
	require.Equal(t, plannedBefore+4, testutil.ToFloat64(deferredTilesPlanned))

	req := squareRequest(ModeEager, 1, 1)
	req.Template = geo.NewTemplate(zeroNormal{})
	_, err = e.Cook(req)
	require.NoError(t, err)
	require.Equal(t, degenerateBefore+5, testutil.ToFloat64(degenerateNormals))

	req = squareRequest(ModeEager, 1, 1)
	req.UseUV = true
	_, err = e.Cook(req)
	require.ErrorIs(t, err, ErrMissingUV)
	require.Equal(t, missingUVBefore+1, testutil.ToFloat64(cookErrors.WithLabelValues("missing_uv")))
}

func TestDivideWork(t *testing.T) {
	for _, n := range []int{1, 5, 16, 31} {
		for parts := 1; parts <= n; parts++ {
			next := 0
			for part := 0; part < parts; part++ {
				start, end := divideWork(n, part, parts)
				require.Equal(t, next, start)
				require.Greater(t, end, start)
				next = end
			}
			require.Equal(t, n, next)
		}
	}
}

func TestWriteMetricsAfterCook(t *testing.T) {
	_, err := newTestEngine(t, 2).Cook(squareRequest(ModeEager, 2, 2))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "gpattern.prom")
	require.NoError(t, WriteMetrics(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `gpattern_tiles_projected{mode="eager"}`)
	require.Contains(t, string(data), "gpattern_cook_duration_seconds")
}
