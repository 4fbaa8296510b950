package streaming

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/zmapmesh/internal/logger"
	"github.com/Faultbox/zmapmesh/internal/terrain"
)

// BuildAll resolves every tile with at most limit builds in flight.
// It returns the first build error, after which no new builds start.
// Tiles that were not built keep their placeholder.
func BuildAll(ctx context.Context, tiles []*terrain.Tile, opts terrain.Options, limit int) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	log := logger.Named("streaming")
	log.Debug("batch started", zap.Int("tiles", len(tiles)), zap.Int("limit", limit))

	for i, tile := range tiles {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := tile.Resolve(opts); err != nil {
				return fmt.Errorf("tile %d: %w", i, err)
			}
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		log.Warn("batch stopped", zap.Error(err))
	}
	return err
}
