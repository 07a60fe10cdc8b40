// gpattern tiles a pattern point set over a template surface.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/gpattern/internal/config"
	"github.com/Faultbox/gpattern/internal/logger"
	"github.com/Faultbox/gpattern/internal/scene"
	"github.com/Faultbox/gpattern/internal/tiling"
	"github.com/Faultbox/gpattern/pkg/geo"
	"github.com/Faultbox/gpattern/pkg/math"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "cook":
		err = cmdCook(args)
	case "tiles", "grid":
		err = cmdTiles(args)
	case "config":
		err = cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	logger.Sync()
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`gpattern - pattern tiling over parametric surfaces

Usage:
  gpattern <command> [options] [scene.yaml]

Commands:
  cook  [scene.yaml]   Tile the pattern and write "x y z tile" lines
  tiles [scene.yaml]   Show the resolved tile grid and deferred bounds
  config               Print the effective configuration
  help                 Show this help

Common options:
  -config <file>       Config file (default ./gpattern.yaml or user config dir)
  -mode eager|deferred Tiling mode
  -tiles u,v           Tiles along U and V
  -use-uv              Take the grid from the template uv attribute
  -scale <f>           Normal displacement multiplier
  -bbox-expand <f>     Padding of deferred tile bounds
  -workers <n>         Worker goroutines (0 = one per CPU)
  -o <file>            Output file (default stdout)
  -metrics <file>      cook: write Prometheus metrics to a textfile
  -normals             cook: append "nx ny nz" to every line
  -debug               Debug logging

Examples:
  gpattern cook -tiles 4,2 bricks.yaml
  gpattern cook -mode deferred -cull -1,-1,0,0,0,2 bricks.yaml
  gpattern tiles -use-uv column.yaml
  gpattern config -tiles 3 -save gpattern.yaml`)
}

// session holds what every cooking command needs.
type session struct {
	cfg   *config.Config
	scene *scene.Scene
	eng   *tiling.Engine
	log   *zap.Logger
}

// open loads config and scene after fs has been parsed. A positional
// argument overrides scene.path.
func open(fs *flag.FlagSet, flags *config.Flags) (*session, error) {
	cfg, err := config.Load(flags)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if fs.NArg() > 0 {
		cfg.Scene.Path = fs.Arg(0)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	log := logger.Named("gpattern")
	logger.Sugar.Debugf("config: %+v", cfg)
	for _, w := range cfg.Warnings() {
		log.Warn(w)
	}

	if cfg.Scene.Path == "" {
		return nil, errors.New("no scene given, pass a scene file or set scene.path")
	}
	sc, err := scene.Load(cfg.Scene.Path)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	log.Debug("scene loaded",
		zap.String("path", cfg.Scene.Path),
		zap.Int("pattern_points", sc.Pattern.NumPoints()),
		zap.Int("template_points", sc.Template.Points.NumPoints()))

	eng := tiling.New(tiling.Options{
		Workers:    cfg.Tiling.Workers,
		BBoxExpand: cfg.Tiling.BBoxExpand,
		Logger:     logger.Named("tiling"),
	})
	return &session{cfg: cfg, scene: sc, eng: eng, log: log}, nil
}

func (s *session) request(mode tiling.Mode) tiling.Request {
	return tiling.Request{
		Pattern:  s.scene.Pattern,
		Template: s.scene.Template,
		Mode:     mode,
		UseUV:    s.cfg.Tiling.UseUVAttr,
		Tiles:    math.Vec2{X: s.cfg.Tiling.Tiles[0], Y: s.cfg.Tiling.Tiles[1]},
		Scale:    s.cfg.Tiling.Scale,
	}
}

func cmdCook(args []string) error {
	fs := flag.NewFlagSet("cook", flag.ContinueOnError)
	flags := config.RegisterFlags(fs)
	cull := fs.String("cull", "", "Deferred mode: render only tiles overlapping minx,miny,minz,maxx,maxy,maxz")
	normals := fs.Bool("normals", false, "Append the unit surface normal to every line")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := open(fs, flags)
	if err != nil {
		return err
	}
	mode, err := tiling.ParseMode(s.cfg.Tiling.Mode)
	if err != nil {
		return err
	}

	var box *math.AABB
	if *cull != "" {
		b, err := parseBox(*cull)
		if err != nil {
			return err
		}
		if mode != tiling.ModeDeferred {
			s.log.Warn("-cull only applies to deferred cooks, ignoring it")
		} else {
			box = &b
		}
	}

	res, err := s.eng.Cook(s.request(mode))
	if err != nil {
		return err
	}

	err = withOutput(s.cfg.Output.Path, func(w io.Writer) error {
		prec := s.cfg.Output.Precision
		if res.Geometry != nil {
			return writePoints(w, res.Geometry, prec, *normals)
		}

		tiles := res.Deferred.Tiles()
		if box != nil {
			tiles = res.Deferred.Cull(*box)
			s.log.Info("culled deferred tiles",
				zap.String("cook_id", res.ID),
				zap.Int("visible", len(tiles)),
				zap.Int("total", res.Deferred.Len()))
		}
		for _, t := range tiles {
			d, _, err := t.Render()
			if err != nil {
				return fmt.Errorf("tile %d: %w", t.Index, err)
			}
			if err := writePoints(w, d, prec, *normals); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if path := s.cfg.Output.Metrics; path != "" {
		if err := tiling.WriteMetrics(path); err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		s.log.Debug("metrics written", zap.String("path", path))
	}
	return nil
}

func cmdTiles(args []string) error {
	fs := flag.NewFlagSet("tiles", flag.ContinueOnError)
	flags := config.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := open(fs, flags)
	if err != nil {
		return err
	}

	// A deferred cook computes every tile's bounds without projecting.
	res, err := s.eng.Cook(s.request(tiling.ModeDeferred))
	if err != nil {
		return err
	}

	return withOutput(s.cfg.Output.Path, func(w io.Writer) error {
		return writeGrid(w, res)
	})
}

func cmdConfig(args []string) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	flags := config.RegisterFlags(fs)
	save := fs.String("save", "", "Write the effective config to this path instead of printing it")
	user := fs.Bool("user", false, "Write the effective config to the user config directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}

	switch {
	case *save != "":
		if err := cfg.SaveTo(*save); err != nil {
			return err
		}
		fmt.Printf("Saved %s\n", *save)
	case *user:
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Printf("Saved %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
	default:
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		os.Stdout.Write(data)
	}
	return nil
}

// withOutput runs fn against a buffered stdout or file writer.
func withOutput(path string, fn func(io.Writer) error) error {
	var f *os.File
	if path == "" {
		f = os.Stdout
	} else {
		var err error
		f, err = os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
	}

	bw := bufio.NewWriter(f)
	if err := fn(bw); err != nil {
		return err
	}
	return bw.Flush()
}

// writePoints writes one "x y z tile" line per point, followed by
// "nx ny nz" when withNormals is set and the points carry normals.
func writePoints(w io.Writer, d *geo.Detail, prec int, withNormals bool) error {
	tiles, hasTile := d.FindFloatAttrib(geo.AttrTile)
	var normals []math.Vec3
	if withNormals {
		normals, withNormals = d.FindVec3Attrib(geo.AttrNormal)
	}

	var buf []byte
	for i, p := range d.P {
		buf = buf[:0]
		buf = strconv.AppendFloat(buf, float64(p.X), 'f', prec, 32)
		buf = append(buf, ' ')
		buf = strconv.AppendFloat(buf, float64(p.Y), 'f', prec, 32)
		buf = append(buf, ' ')
		buf = strconv.AppendFloat(buf, float64(p.Z), 'f', prec, 32)
		if hasTile {
			buf = append(buf, ' ')
			buf = strconv.AppendInt(buf, int64(tiles[i]), 10)
		}
		if withNormals {
			n := normals[i]
			for _, c := range [3]float32{n.X, n.Y, n.Z} {
				buf = append(buf, ' ')
				buf = strconv.AppendFloat(buf, float64(c), 'f', prec, 32)
			}
		}
		buf = append(buf, '\n')
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

func writeGrid(w io.Writer, res *tiling.Result) error {
	p := res.Params
	fmt.Fprintf(w, "Grid:    %d x %d (%s)\n", p.UTiles(), p.VTiles(), p)
	fmt.Fprintf(w, "Tiles:   %d\n", p.NumTiles)
	fmt.Fprintf(w, "Bounds:  %s\n", formatBox(res.Deferred.Bounds()))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%6s %4s %4s %9s %9s  %-27s %s\n", "tile", "du", "dv", "s", "t", "center", "bounds")

	for _, t := range res.Deferred.Tiles() {
		du, dv := tiling.TileOffset(t.Index, p.UTiles())
		s, tv := tiling.TileCenterUV(t.Index, p)
		c := t.Bounds.Center()
		center := fmt.Sprintf("(%.3f, %.3f, %.3f)", c.X, c.Y, c.Z)
		_, err := fmt.Fprintf(w, "%6d %4d %4d %9.5f %9.5f  %-27s %s\n", t.Index, du, dv, s, tv, center, formatBox(t.Bounds))
		if err != nil {
			return err
		}
	}
	return nil
}

func formatBox(b math.AABB) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f) - (%.3f, %.3f, %.3f)",
		b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z)
}

// parseBox parses "minx,miny,minz,maxx,maxy,maxz".
func parseBox(s string) (math.AABB, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 6 {
		return math.AABB{}, fmt.Errorf("-cull: expected 6 comma separated values, got %d", len(parts))
	}

	var v [6]float32
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return math.AABB{}, fmt.Errorf("-cull: %w", err)
		}
		v[i] = float32(f)
	}

	box := math.AABB{
		Min: math.Vec3{X: v[0], Y: v[1], Z: v[2]},
		Max: math.Vec3{X: v[3], Y: v[4], Z: v[5]},
	}
	if box.IsEmpty() {
		return math.AABB{}, fmt.Errorf("-cull: min exceeds max in %q", s)
	}
	return box, nil
}
