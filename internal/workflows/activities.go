package workflows

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/samirrijal/geokit/internal/core/domain"
	"github.com/samirrijal/geokit/internal/core/ports"
	"github.com/samirrijal/geokit/internal/core/usecases"
	"github.com/samirrijal/geokit/internal/pkg/geospatial"
	"github.com/samirrijal/geokit/internal/pkg/metrics"
)

// RegionActivities holds the activity implementations for the region ingest workflow.
type RegionActivities struct {
	Service *usecases.RegionService
	Regions ports.RegionRepository
}

// nonRetryable marks input errors so Temporal does not retry them.
func nonRetryable(err error) error {
	if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrUnparseable) {
		return temporal.NewNonRetryableApplicationError(err.Error(), "InvalidInput", err)
	}
	return err
}

// ParsePoints reads free-text coordinate pairs into points.
func (a *RegionActivities) ParsePoints(ctx context.Context, texts []string) ([]domain.GeoPoint, error) {
	pts, err := usecases.ParsePoints(texts)
	if err != nil {
		return nil, nonRetryable(err)
	}
	out := make([]domain.GeoPoint, len(pts))
	for i, p := range pts {
		out[i] = domain.PointOf(p)
	}
	return out, nil
}

// ComputeBoundingBox builds the region box. With corners set the two points
// are lower-left and upper-right; otherwise the minimum bounding box of all
// points is used.
func (a *RegionActivities) ComputeBoundingBox(ctx context.Context, points []domain.GeoPoint, corners bool) (geospatial.GeographicBoundingBox, error) {
	if corners {
		if len(points) != 2 {
			return geospatial.GeographicBoundingBox{}, nonRetryable(fmt.Errorf("%w: corners needs exactly two coordinates", domain.ErrInvalidInput))
		}
		box, err := geospatial.NewBoundingBox(points[0].LatLonAlt(), points[1].LatLonAlt())
		if err != nil {
			return box, nonRetryable(fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
		}
		return box, nil
	}
	pos := make([]geospatial.LatLonAlt, len(points))
	for i, p := range points {
		pos[i] = p.LatLonAlt()
	}
	box, err := geospatial.MinimumBoundingBox(pos)
	if err != nil {
		return box, nonRetryable(fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
	}
	return box, nil
}

// SaveRegion stores a new region built from name and box.
func (a *RegionActivities) SaveRegion(ctx context.Context, name string, box geospatial.GeographicBoundingBox) (*domain.Region, error) {
	region, err := a.Service.NewRegion(domain.RegionInput{Name: name, Box: &box})
	if err != nil {
		return nil, nonRetryable(err)
	}
	if err := a.Regions.Create(ctx, region); err != nil {
		return nil, fmt.Errorf("save region: %w", err)
	}
	metrics.RegionsIngested.WithLabelValues("workflow").Inc()
	activity.GetLogger(ctx).Info("region saved", "region_id", region.ID, "grid_key", region.GridKey)
	return region, nil
}

// PublishRegion announces a stored region.
func (a *RegionActivities) PublishRegion(ctx context.Context, region domain.Region) error {
	return a.Service.Publish(ctx, domain.RegionCreated, region)
}

// DeleteRegion removes a region (saga compensation / rollback).
func (a *RegionActivities) DeleteRegion(ctx context.Context, id string) error {
	err := a.Regions.Delete(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete region %s: %w", id, err)
	}
	slog.InfoContext(ctx, "region deleted (saga compensation)", "region_id", id)
	return nil
}
