// Package config handles loading and validation of tiling settings.
package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/Faultbox/gpattern/internal/tiling"
)

// Config holds all gpattern settings.
type Config struct {
	Tiling  TilingConfig  `yaml:"tiling"`
	Scene   SceneConfig   `yaml:"scene"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// TilingConfig holds the tiling parameters.
type TilingConfig struct {
	UseUVAttr  bool       `yaml:"use_uv_attr"` // take the grid from the template uv attribute
	Tiles      [2]float32 `yaml:"tiles"`       // tiles along U and V, ignored with use_uv_attr
	Scale      float32    `yaml:"scale"`       // normal displacement multiplier
	BBoxExpand float32    `yaml:"bbox_expand"` // padding of deferred tile bounds
	Mode       string     `yaml:"mode"`        // eager or deferred
	Workers    int        `yaml:"workers"`     // 0 = one per CPU
}

// SceneConfig points at the scene description.
type SceneConfig struct {
	Path string `yaml:"path"`
}

// OutputConfig holds output settings.
type OutputConfig struct {
	Path      string `yaml:"path"` // empty writes to stdout
	Precision int    `yaml:"precision"`
	Metrics   string `yaml:"metrics"` // Prometheus textfile written after a cook
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Tiling: TilingConfig{
			UseUVAttr:  false,
			Tiles:      [2]float32{1, 1},
			Scale:      1,
			BBoxExpand: 1,
			Mode:       "eager",
			Workers:    0,
		},
		Output: OutputConfig{
			Precision: 6,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports settings that cannot be cooked.
func (c *Config) Validate() error {
	var errs []error
	if _, err := tiling.ParseMode(c.Tiling.Mode); err != nil {
		errs = append(errs, fmt.Errorf("tiling.mode: %w", err))
	}
	if !c.Tiling.UseUVAttr {
		if err := tiling.CheckGrid(c.Tiling.Tiles[0], c.Tiling.Tiles[1]); err != nil {
			errs = append(errs, fmt.Errorf("tiling.tiles: %w", err))
		}
	}
	if !finite(c.Tiling.Scale) {
		errs = append(errs, fmt.Errorf("tiling.scale: must be finite, got %g", c.Tiling.Scale))
	}
	if c.Tiling.Workers < 0 {
		errs = append(errs, fmt.Errorf("tiling.workers: must not be negative, got %d", c.Tiling.Workers))
	}
	if !finite(c.Tiling.BBoxExpand) || c.Tiling.BBoxExpand < 0 {
		errs = append(errs, fmt.Errorf("tiling.bbox_expand: must be finite and not negative, got %g", c.Tiling.BBoxExpand))
	}
	if c.Output.Precision < 0 || c.Output.Precision > 9 {
		errs = append(errs, fmt.Errorf("output.precision: must be between 0 and 9, got %d", c.Output.Precision))
	}
	return errors.Join(errs...)
}

func finite(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}

// Warnings reports settings that are accepted but have no effect.
func (c *Config) Warnings() []string {
	var w []string
	if c.Tiling.UseUVAttr && c.Tiling.Tiles != [2]float32{1, 1} {
		w = append(w, "tiling.tiles is ignored when tiling.use_uv_attr is set")
	}
	if c.Tiling.Tiles[0] < 1 || c.Tiling.Tiles[1] < 1 {
		w = append(w, "tiling.tiles below 1 are raised to 1")
	}
	return w
}
