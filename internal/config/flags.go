package config

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

// Flags holds command-line overrides. Only flags that were explicitly set
// override the configuration.
type Flags struct {
	fs *flag.FlagSet

	Config  string
	Debug   bool
	Mode    string
	Tiles   string
	UseUV   bool
	Scale   float64
	Expand  float64
	Workers int
	Scene   string
	Output  string
	Metrics string
}

// RegisterFlags adds the configuration flags to fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.Mode, "mode", "", "Tiling mode: eager or deferred")
	fs.StringVar(&f.Tiles, "tiles", "", "Tiles along U and V, e.g. 4,2")
	fs.BoolVar(&f.UseUV, "use-uv", false, "Take the tile grid from the template uv attribute")
	fs.Float64Var(&f.Scale, "scale", 1, "Normal displacement multiplier")
	fs.Float64Var(&f.Expand, "bbox-expand", 1, "Padding of deferred tile bounds")
	fs.IntVar(&f.Workers, "workers", 0, "Worker goroutines (0 = one per CPU)")
	fs.StringVar(&f.Scene, "scene", "", "Path to scene description")
	fs.StringVar(&f.Output, "o", "", "Output file (default stdout)")
	fs.StringVar(&f.Metrics, "metrics", "", "Write Prometheus metrics to this file after cooking")
	return f
}

// ConfigPath returns the explicit config path if provided via -config.
func (f *Flags) ConfigPath() string {
	if f == nil {
		return ""
	}
	return f.Config
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) error {
	if f == nil {
		return nil
	}

	var err error
	f.fs.Visit(func(fl *flag.Flag) {
		if err != nil {
			return
		}
		switch fl.Name {
		case "debug":
			if f.Debug {
				cfg.Logging.Level = "debug"
			}
		case "mode":
			cfg.Tiling.Mode = f.Mode
		case "tiles":
			cfg.Tiling.Tiles, err = parseTiles(f.Tiles)
		case "use-uv":
			cfg.Tiling.UseUVAttr = f.UseUV
		case "scale":
			cfg.Tiling.Scale = float32(f.Scale)
		case "bbox-expand":
			cfg.Tiling.BBoxExpand = float32(f.Expand)
		case "workers":
			cfg.Tiling.Workers = f.Workers
		case "scene":
			cfg.Scene.Path = f.Scene
		case "o":
			cfg.Output.Path = f.Output
		case "metrics":
			cfg.Output.Metrics = f.Metrics
		}
	})
	return err
}

// parseTiles parses "u,v" or a single number used for both directions.
func parseTiles(s string) ([2]float32, error) {
	parts := strings.Split(s, ",")
	if len(parts) == 1 {
		parts = append(parts, parts[0])
	}
	if len(parts) != 2 {
		return [2]float32{}, fmt.Errorf("-tiles: expected u,v, got %q", s)
	}

	var tiles [2]float32
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return [2]float32{}, fmt.Errorf("-tiles: %w", err)
		}
		tiles[i] = float32(v)
	}
	return tiles, nil
}
