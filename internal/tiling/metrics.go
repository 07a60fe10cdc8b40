package tiling

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	modeLabel    = "mode"
	errTypeLabel = "error_type"
)

var (
	tilesProjected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gpattern_tiles_projected",
		Help: "The number of tiles projected onto a template surface.",
	}, []string{
		modeLabel,
	})

	pointsProjected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gpattern_points_projected",
		Help: "The number of pattern points projected onto a template surface.",
	}, []string{
		modeLabel,
	})

	degenerateNormals = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gpattern_degenerate_normals",
		Help: "The number of points left undisplaced because the surface normal was zero.",
	})

	deferredTilesPlanned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gpattern_deferred_tiles_planned",
		Help: "The number of deferred tiles handed to the host.",
	})

	cookErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gpattern_cook_errors",
		Help: "The cooks rejected because of invalid input.",
	}, []string{
		errTypeLabel,
	})

	cookDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gpattern_cook_duration_seconds",
		Help:    "The time spent cooking, by mode.",
		Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
	}, []string{
		modeLabel,
	})
)

func observeProjection(mode Mode, stats ProjectStats) {
	tilesProjected.With(prometheus.Labels{modeLabel: mode.String()}).Add(float64(stats.Tiles))
	pointsProjected.With(prometheus.Labels{modeLabel: mode.String()}).Add(float64(stats.Points))
	degenerateNormals.Add(float64(stats.DegenerateNormals))
}

func observeCookError(err error) {
	errType := "other"
	switch {
	case errors.Is(err, ErrEmptyPattern):
		errType = "empty_pattern"
	case errors.Is(err, ErrEmptyTemplate):
		errType = "empty_template"
	case errors.Is(err, ErrMissingUV):
		errType = "missing_uv"
	case errors.Is(err, ErrInvalidMode):
		errType = "invalid_mode"
	case errors.Is(err, ErrTooManyTiles):
		errType = "too_many_tiles"
	}
	cookErrors.With(prometheus.Labels{errTypeLabel: errType}).Inc()
}

// WriteMetrics writes every metric of the default registry to path in the
// Prometheus text format, for the node exporter textfile collector.
func WriteMetrics(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
