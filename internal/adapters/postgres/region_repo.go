package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/geokit/internal/core/domain"
	"github.com/samirrijal/geokit/internal/pkg/geospatial"
)

const regionColumns = `id, name, south, west, north, east, grid_key, created_at`

// RegionRepo implements ports.RegionRepository with pgx.
type RegionRepo struct {
	db *DB
}

// NewRegionRepo creates a new RegionRepo.
func NewRegionRepo(db *DB) *RegionRepo {
	return &RegionRepo{db: db}
}

// Create inserts a region. An empty ID lets the database assign one.
func (r *RegionRepo) Create(ctx context.Context, region *domain.Region) error {
	b := region.Box
	var id any
	if region.ID != "" {
		id = region.ID
	}
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO regions (id, name, south, west, north, east, grid_key)
		VALUES (COALESCE($1::uuid, gen_random_uuid()), $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, id, region.Name, b.South(), b.West(), b.North(), b.East(), region.GridKey,
	).Scan(&region.ID, &region.CreatedAt)
}

// UpsertBatch inserts many regions using pgx.Batch. Existing names are
// overwritten in place and keep their ID, which is written back into
// regions[i].ID.
func (r *RegionRepo) UpsertBatch(ctx context.Context, regions []domain.Region) error {
	batch := &pgx.Batch{}
	for _, region := range regions {
		b := region.Box
		batch.Queue(`
			INSERT INTO regions (id, name, south, west, north, east, grid_key)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (name) DO UPDATE
			SET south = EXCLUDED.south, west = EXCLUDED.west,
			    north = EXCLUDED.north, east = EXCLUDED.east,
			    grid_key = EXCLUDED.grid_key
			RETURNING id
		`, region.ID, region.Name, b.South(), b.West(), b.North(), b.East(), region.GridKey)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for i := range regions {
		if err := br.QueryRow().Scan(&regions[i].ID); err != nil {
			return fmt.Errorf("batch upsert %q: %w", regions[i].Name, err)
		}
	}
	return nil
}

// GetByID returns a region by UUID.
func (r *RegionRepo) GetByID(ctx context.Context, id string) (*domain.Region, error) {
	row := r.db.Pool.QueryRow(ctx, `SELECT `+regionColumns+` FROM regions WHERE id = $1`, id)
	region, err := scanRegion(row)
	if err != nil {
		return nil, notFound(err)
	}
	return region, nil
}

// List returns a page of regions ordered by name, plus the total count.
func (r *RegionRepo) List(ctx context.Context, offset, limit int) ([]domain.Region, int, error) {
	var total int
	if err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM regions`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+regionColumns+` FROM regions
		ORDER BY name
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	regions, err := collectRegions(rows)
	return regions, total, err
}

// ListByLatRange returns regions whose latitude span meets the band.
func (r *RegionRepo) ListByLatRange(ctx context.Context, band domain.LatRange) ([]domain.Region, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+regionColumns+` FROM regions
		WHERE south <= $2 AND north >= $1
		ORDER BY name
	`, band.Min, band.Max)
	if err != nil {
		return nil, err
	}
	return collectRegions(rows)
}

// Delete removes a region by UUID.
func (r *RegionRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM regions WHERE id = $1`, id)
	if err != nil {
		return notFound(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func collectRegions(rows pgx.Rows) ([]domain.Region, error) {
	defer rows.Close()
	var regions []domain.Region
	for rows.Next() {
		region, err := scanRegion(rows)
		if err != nil {
			return nil, err
		}
		regions = append(regions, *region)
	}
	return regions, rows.Err()
}

func scanRegion(row pgx.Row) (*domain.Region, error) {
	var (
		region                   domain.Region
		south, west, north, east float64
	)
	if err := row.Scan(&region.ID, &region.Name, &south, &west, &north, &east, &region.GridKey, &region.CreatedAt); err != nil {
		return nil, err
	}
	box, err := geospatial.NewBoundingBox(geospatial.FromDegrees(south, west), geospatial.FromDegrees(north, east))
	if err != nil {
		return nil, fmt.Errorf("region %s: %w", region.ID, err)
	}
	region.Box = box
	return &region, nil
}
