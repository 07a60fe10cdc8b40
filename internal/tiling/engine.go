package tiling

import (
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/gpattern/pkg/geo"
	"github.com/Faultbox/gpattern/pkg/math"
)

// Options configures an Engine.
type Options struct {
	// Workers caps the number of goroutines used by eager cooks.
	// Zero or less uses GOMAXPROCS.
	Workers int

	// BBoxExpand pads the bounds of deferred tiles on every side.
	BBoxExpand float32

	// Logger receives cook diagnostics. Nil disables logging.
	Logger *zap.Logger
}

// Request holds the inputs of one cook.
type Request struct {
	Pattern  *geo.Detail
	Template *geo.Template
	Mode     Mode

	// UseUV takes the grid size from the template's uv attribute instead
	// of Tiles.
	UseUV bool
	Tiles math.Vec2

	// Scale multiplies the normal displacement; 1 keeps the pattern's
	// original height.
	Scale float32
}

// Result is the output of one cook. Exactly one of Geometry and Deferred
// is set, depending on the requested mode.
type Result struct {
	ID       string
	Mode     Mode
	Params   Params
	Pattern  PreprocessStats
	Geometry *geo.Detail
	Deferred *Deferred
	Stats    ProjectStats
	Elapsed  time.Duration
}

// Engine cooks tiling requests. It holds no per-cook state and is safe for
// concurrent use.
type Engine struct {
	opts Options
	log  *zap.Logger
}

// New creates an engine.
func New(opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{opts: opts, log: log}
}

func (e *Engine) workers() int {
	if e.opts.Workers > 0 {
		return e.opts.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Cook validates the inputs, resolves the tile grid, preprocesses a private
// copy of the pattern and produces the tiles. Invalid input fails the whole
// cook with no partial output. The request's geometry is never modified.
func (e *Engine) Cook(req Request) (*Result, error) {
	start := time.Now()
	res, err := e.cook(req)
	if err != nil {
		observeCookError(err)
		e.log.Error("cook failed", zap.Error(err))
		return nil, err
	}
	res.Elapsed = time.Since(start)
	cookDuration.WithLabelValues(res.Mode.String()).Observe(res.Elapsed.Seconds())

	e.log.Info("cook finished",
		zap.String("cook_id", res.ID),
		zap.Stringer("mode", res.Mode),
		zap.Int("tiles", res.Params.NumTiles),
		zap.Int("points", res.Stats.Points),
		zap.Duration("elapsed", res.Elapsed))
	if res.Stats.DegenerateNormals > 0 {
		e.log.Warn("zero-length surface normals, points left undisplaced",
			zap.String("cook_id", res.ID),
			zap.Int("count", res.Stats.DegenerateNormals))
	}
	return res, nil
}

func (e *Engine) cook(req Request) (*Result, error) {
	if req.Mode > ModeDeferred {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMode, req.Mode)
	}
	if req.Pattern == nil || req.Pattern.NumPoints() == 0 {
		return nil, ErrEmptyPattern
	}
	if req.Template.NumPrimitives() == 0 {
		return nil, ErrEmptyTemplate
	}

	maxU, maxV, err := ResolveTileCounts(req.UseUV, req.Template, req.Tiles.X, req.Tiles.Y)
	if err != nil {
		return nil, err
	}
	if err := CheckGrid(maxU, maxV); err != nil {
		return nil, err
	}
	params := NewParams(maxU, maxV, req.Scale)

	pattern := req.Pattern.Clone()
	pstats, err := Preprocess(pattern)
	if err != nil {
		return nil, err
	}

	j := &job{
		id:      uuid.NewString(),
		mode:    req.Mode,
		pattern: pattern,
		prim:    req.Template.Primitive(0),
		params:  params,
	}

	e.log.Debug("cook started",
		zap.String("cook_id", j.id),
		zap.Stringer("mode", j.mode),
		zap.Stringer("params", params),
		zap.Bool("use_uv", req.UseUV),
		zap.Int("pattern_points", pattern.NumPoints()),
		zap.Strings("pattern_attribs", req.Pattern.AttribNames()))
	if pstats.DegenerateU || pstats.DegenerateV {
		e.log.Warn("pattern bounds are flat, bboxuv collapses to 0",
			zap.String("cook_id", j.id),
			zap.Bool("flat_u", pstats.DegenerateU),
			zap.Bool("flat_v", pstats.DegenerateV))
	}

	res, err := e.schedule(j, planTasks(req.Mode, params.NumTiles))
	if err != nil {
		return nil, err
	}
	res.Pattern = pstats
	return res, nil
}

// schedule dispatches every task by kind. Eager tasks are cooked and merged
// before it returns; deferred tasks only get their bounds computed.
func (e *Engine) schedule(j *job, tasks []Task) (*Result, error) {
	res := &Result{ID: j.id, Mode: j.mode, Params: j.params}

	var eager []Task
	for _, t := range tasks {
		switch t.Kind {
		case TaskEager:
			eager = append(eager, t)
		case TaskDeferred:
			if res.Deferred == nil {
				res.Deferred = &Deferred{}
			}
			res.Deferred.add(e.deferTile(j, t))
			deferredTilesPlanned.Inc()
		}
	}

	if len(eager) > 0 {
		out, stats, err := e.runEager(j, eager)
		if err != nil {
			return nil, err
		}
		observeProjection(ModeEager, stats)
		res.Geometry = out
		res.Stats = stats
	}
	return res, nil
}
