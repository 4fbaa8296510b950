package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/zmapmesh/internal/config"
	"github.com/Faultbox/zmapmesh/internal/debug"
	"github.com/Faultbox/zmapmesh/internal/logger"
	"github.com/Faultbox/zmapmesh/internal/streaming"
	"github.com/Faultbox/zmapmesh/internal/terrain"
	"github.com/Faultbox/zmapmesh/pkg/formats"
)

func cmdInfo(_ *config.Config, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: zmaptool info <file.zmap>", errUsage)
	}

	z, err := formats.ParseZMapFile(args[0])
	if err != nil {
		return err
	}

	cols, rows := z.GridSize()
	zMin, zMax := z.HeightRange()

	fmt.Printf("File:     %s\n", args[0])
	fmt.Printf("Version:  %s\n", z.Version)
	fmt.Printf("Tile:     %dx%d samples, %.2fx%.2f units\n", z.WidthSamples, z.HeightSamples, z.TileWidth, z.TileHeight)
	fmt.Printf("Halo:     %d samples (%dx%d grid)\n", z.Padding, cols, rows)
	fmt.Printf("Heights:  %.3f .. %.3f\n", zMin, zMax)
	return nil
}

func cmdGen(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("gen", flag.ContinueOnError)
	width := fs.Int("w", 100, "Tile width in samples")
	height := fs.Int("h", 100, "Tile height in samples")
	seed := fs.Uint64("seed", 1, "Random seed")
	writeConfig := fs.String("write-config", "", "Also save the effective config to this path")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("%w: zmaptool gen [-w N] [-h N] [-seed N] <kind> <out.zmap>", errUsage)
	}

	gen, ok := generators[fs.Arg(0)]
	if !ok {
		return fmt.Errorf("%w: unknown grid kind %q", errUsage, fs.Arg(0))
	}

	padding := cfg.Mesh.Padding
	cols, rows := *width+2*padding, *height+2*padding
	samples := gen(cols, rows, *seed)

	z, err := formats.NewZMap(*width, *height, padding, cfg.Tile.Width, cfg.Tile.Height, samples)
	if err != nil {
		return err
	}
	if err := z.WriteFile(fs.Arg(1)); err != nil {
		return err
	}
	logger.Info("grid written",
		zap.String("kind", fs.Arg(0)),
		zap.String("path", fs.Arg(1)),
		zap.Int("width", *width),
		zap.Int("height", *height))

	if *writeConfig != "" {
		if err := cfg.SaveTo(*writeConfig); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
	}
	return nil
}

func cmdBuild(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: zmaptool build <file.zmap>", errUsage)
	}

	start := time.Now()
	mesh, err := buildFile(cfg, args[0])
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	printStats(args[0], mesh, elapsed)
	return nil
}

func printStats(path string, mesh *terrain.Mesh, elapsed time.Duration) {
	s := mesh.Stats()
	size := mesh.Bounds.Size()

	fmt.Printf("File:       %s\n", path)
	fmt.Printf("Vertices:   %d\n", s.Vertices)
	fmt.Printf("Triangles:  %d (full grid: %d, %.1f%% fewer)\n", s.Triangles, 2*s.Cells, 100*s.Reduction)
	fmt.Printf("Blocks:     %d (%d merged)\n", s.Blocks, s.MergedBlocks)
	fmt.Printf("Bounds:     %.2f x %.2f x %.2f\n", size.X(), size.Y(), size.Z())
	fmt.Printf("Build time: %v\n", elapsed.Round(time.Microsecond))
}

func cmdExport(cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: zmaptool export <file.zmap> <out.obj>", errUsage)
	}

	mesh, err := buildFile(cfg, args[0])
	if err != nil {
		return err
	}

	if dir := filepath.Dir(args[1]); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.Create(args[1])
	if err != nil {
		return err
	}
	if err := formats.WriteOBJ(f, mesh.Positions, mesh.Normals, mesh.Indices); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	logger.Info("mesh exported",
		zap.String("path", args[1]),
		zap.Int("vertices", len(mesh.Positions)),
		zap.Int("triangles", mesh.TriangleCount()))
	return nil
}

func cmdPreview(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	blocks := fs.Bool("blocks", false, "Render merge blocks instead of shaded relief")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("%w: zmaptool preview [-blocks] <file.zmap> [out.png|out.bmp]", errUsage)
	}

	mesh, err := buildFile(cfg, fs.Arg(0))
	if err != nil {
		return err
	}

	kind := "relief"
	var img image.Image
	if *blocks {
		kind = "blocks"
		img = debug.BlockOverlay(mesh)
	} else {
		img = debug.ShadedRelief(mesh, debug.DefaultLight)
	}

	out := fs.Arg(1)
	if out == "" {
		base := strings.TrimSuffix(filepath.Base(fs.Arg(0)), filepath.Ext(fs.Arg(0)))
		out = debug.TimestampedName(filepath.Dir(fs.Arg(0)), base+"_"+kind, "png")
	}
	if err := debug.SaveImage(img, out); err != nil {
		return err
	}
	logger.Info("preview written", zap.String("kind", kind), zap.String("path", out))
	return nil
}

func cmdHeight(cfg *config.Config, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("%w: zmaptool height <file.zmap> <x> <y>", errUsage)
	}

	var coords [2]float32
	for i, arg := range args[1:3] {
		v, err := strconv.ParseFloat(arg, 32)
		if err != nil {
			return fmt.Errorf("%w: bad coordinate %q", errUsage, arg)
		}
		coords[i] = float32(v)
	}

	h, err := groundHeight(cfg, args[0], coords[0], coords[1])
	if err != nil {
		return err
	}
	fmt.Printf("%.3f\n", h)
	return nil
}

func cmdBatch(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("batch", flag.ContinueOnError)
	stream := fs.Bool("stream", false, "Use the worker pool and keep going past failed tiles")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("%w: zmaptool batch [-stream] <file.zmap>...", errUsage)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	paths := fs.Args()
	tiles := make([]*terrain.Tile, len(paths))
	var opts terrain.Options
	for i, path := range paths {
		ph, o, err := loadPlaceholder(cfg, path)
		if err != nil {
			return err
		}
		if i > 0 && o != opts {
			return fmt.Errorf("%s: mesh options differ from %s", path, paths[0])
		}
		opts = o
		tiles[i] = terrain.NewTile(ph)
	}

	start := time.Now()
	var err error
	if *stream {
		err = streamTiles(ctx, cfg, opts, paths, tiles)
	} else {
		err = streaming.BuildAll(ctx, tiles, opts, cfg.Build.Workers)
	}

	triangles := 0
	for _, tile := range tiles {
		if !tile.IsPlaceholder() {
			triangles += tile.Mesh().TriangleCount()
		}
	}
	fmt.Printf("Built %d tiles, %d triangles in %v\n", len(tiles), triangles, time.Since(start).Round(time.Millisecond))
	return err
}

// streamTiles feeds tiles through a worker pool and reports every result.
func streamTiles(ctx context.Context, cfg *config.Config, opts terrain.Options, paths []string, tiles []*terrain.Tile) error {
	pool := streaming.NewPool(cfg.Build.Workers, cfg.Build.QueueSize, opts)
	defer pool.Shutdown()

	results := make(chan streaming.Result, len(tiles))
	queued := 0
	for i, tile := range tiles {
		if !pool.SubmitBlocking(ctx, streaming.Job{Name: paths[i], Tile: tile, ResultChan: results}) {
			break
		}
		queued++
	}

	failed := 0
	for range queued {
		select {
		case r := <-results:
			if r.Err != nil {
				failed++
				fmt.Fprintf(os.Stderr, "%s: %v\n", r.Name, r.Err)
				continue
			}
			fmt.Printf("%s: %d triangles in %v\n", r.Name, r.Tile.Mesh().TriangleCount(), r.Elapsed.Round(time.Microsecond))
		case <-ctx.Done():
			logger.Warn("batch interrupted", zap.Int("queued", queued), zap.Int("tiles", len(tiles)))
			return ctx.Err()
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d tiles failed", failed, len(tiles))
	}
	if queued < len(tiles) {
		return fmt.Errorf("interrupted after %d of %d tiles: %w", queued, len(tiles), ctx.Err())
	}
	return nil
}
