package usecases

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samirrijal/geokit/internal/core/domain"
	"github.com/samirrijal/geokit/internal/core/ports"
	"github.com/samirrijal/geokit/internal/pkg/metrics"
)

// GridIndexer keeps the grid index in step with region events.
type GridIndexer struct {
	grid ports.GridIndex
}

// NewGridIndexer creates a new GridIndexer.
func NewGridIndexer(grid ports.GridIndex) *GridIndexer {
	return &GridIndexer{grid: grid}
}

// HandleRegionEvent files created regions under their grid key and removes
// deleted ones. Events of unknown type are ignored.
func (g *GridIndexer) HandleRegionEvent(ctx context.Context, ev *domain.RegionEvent) error {
	r := ev.Region
	if r.ID == "" || r.GridKey == "" {
		slog.WarnContext(ctx, "region event without id or grid key", "type", ev.Type)
		return nil
	}

	switch ev.Type {
	case domain.RegionCreated:
		if err := g.grid.AddToCell(ctx, r.GridKey, r.ID); err != nil {
			return fmt.Errorf("index region %s: %w", r.ID, err)
		}
		metrics.GridIndexUpdates.WithLabelValues("add").Inc()
	case domain.RegionDeleted:
		if err := g.grid.RemoveFromCell(ctx, r.GridKey, r.ID); err != nil {
			return fmt.Errorf("unindex region %s: %w", r.ID, err)
		}
		metrics.GridIndexUpdates.WithLabelValues("remove").Inc()
	default:
		slog.DebugContext(ctx, "ignoring region event", "type", ev.Type)
		return nil
	}

	slog.DebugContext(ctx, "grid index updated", "type", ev.Type, "region_id", r.ID, "grid_key", r.GridKey)
	return nil
}
