// zmaptool builds simplified terrain meshes from ZMAP height grids.
package main

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/zmapmesh/internal/config"
	"github.com/Faultbox/zmapmesh/internal/logger"
)

var errUsage = errors.New("usage")

func main() {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg, args[0], args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
		} else {
			logger.Error("command failed", zap.String("command", args[0]), zap.Error(err))
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, command string, args []string) error {
	switch command {
	case "info":
		return cmdInfo(cfg, args)
	case "gen":
		return cmdGen(cfg, args)
	case "build":
		return cmdBuild(cfg, args)
	case "export":
		return cmdExport(cfg, args)
	case "preview":
		return cmdPreview(cfg, args)
	case "height":
		return cmdHeight(cfg, args)
	case "batch":
		return cmdBatch(cfg, args)
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

func printUsage() {
	fmt.Println(`zmaptool - terrain mesh builder for ZMAP height grids

Usage:
  zmaptool [global options] <command> [options]

Commands:
  info <file.zmap>                       Show grid header and height range
  gen [-w N] [-h N] [-seed N] <kind> <out.zmap>
                                         Write a synthetic grid (flat, terrace, checker, ridge)
  build <file.zmap>                      Build the mesh and print statistics
  export <file.zmap> <out.obj>           Build the mesh and write Wavefront OBJ
  preview [-blocks] <file.zmap> [out.png|out.bmp]
                                         Render shaded relief or merge blocks
                                         (default: timestamped PNG next to the grid)
  height <file.zmap> <x> <y>             Ground height at a tile-local position
  batch [-stream] <file.zmap>...         Build many tiles concurrently

Global options:
  -config <path>       Config file (default ./zmapmesh.yaml)
  -debug               Debug logging
  -workers N           Concurrent tile builds
  -padding N           Halo width for generated grids
  -chunk-period N      Merge chunk period
  -no-normalize        Keep raw accumulated normals
  -fallback-normals    Plain triangle accumulation, no border correction

Examples:
  zmaptool gen -w 128 -h 128 terrace hills.zmap
  zmaptool build hills.zmap
  zmaptool preview -blocks hills.zmap blocks.png
  zmaptool -workers 8 batch tiles/*.zmap`)
}
