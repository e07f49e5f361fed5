package ports

import (
	"context"

	"github.com/samirrijal/geokit/internal/core/domain"
)

// RegionRepository persists regions.
type RegionRepository interface {
	// Create stores a new region and fills in its ID and CreatedAt.
	Create(ctx context.Context, region *domain.Region) error
	// UpsertBatch stores many regions keyed by name. A name that already
	// exists keeps its stored ID, and that ID replaces regions[i].ID.
	UpsertBatch(ctx context.Context, regions []domain.Region) error
	// GetByID returns domain.ErrNotFound when no region has the ID.
	GetByID(ctx context.Context, id string) (*domain.Region, error)
	List(ctx context.Context, offset, limit int) ([]domain.Region, int, error)
	// ListByLatRange returns every region whose latitude span meets the band.
	ListByLatRange(ctx context.Context, band domain.LatRange) ([]domain.Region, error)
	// Delete returns domain.ErrNotFound when no region has the ID.
	Delete(ctx context.Context, id string) error
}
