package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/zmapmesh/internal/config"
	"github.com/Faultbox/zmapmesh/internal/logger"
	"github.com/Faultbox/zmapmesh/internal/terrain"
	"github.com/Faultbox/zmapmesh/pkg/formats"
)

// loadPlaceholder reads a ZMAP file into a placeholder tile. The halo width
// stored in the file wins over the configured one.
func loadPlaceholder(cfg *config.Config, path string) (*terrain.Placeholder, terrain.Options, error) {
	opts := cfg.MeshOptions()

	z, err := formats.ParseZMapFile(path)
	if err != nil {
		return nil, opts, err
	}

	if p := int(z.Padding); p != opts.Padding {
		logger.Warn("file padding overrides config",
			zap.String("file", path),
			zap.Int("file_padding", p),
			zap.Int("config_padding", opts.Padding))
		opts.Padding = p
	}

	cols, rows := z.GridSize()
	grid, err := terrain.NewHeightGridFromSamples(cols, rows, z.Samples)
	if err != nil {
		return nil, opts, fmt.Errorf("%s: %w", path, err)
	}

	ph, err := terrain.NewPlaceholder(grid, z.TileWidth, z.TileHeight, int(z.WidthSamples), int(z.HeightSamples), opts)
	if err != nil {
		return nil, opts, fmt.Errorf("%s: %w", path, err)
	}
	return ph, opts, nil
}

// buildFile loads and builds one tile.
func buildFile(cfg *config.Config, path string) (*terrain.Mesh, error) {
	ph, opts, err := loadPlaceholder(cfg, path)
	if err != nil {
		return nil, err
	}
	return ph.Build(opts)
}

// groundHeight returns the interpolated ground height of a tile at a
// tile-local world position.
func groundHeight(cfg *config.Config, path string, x, y float32) (float32, error) {
	ph, _, err := loadPlaceholder(cfg, path)
	if err != nil {
		return 0, err
	}
	return ph.HeightAt(x, y), nil
}
