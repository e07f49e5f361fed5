package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/samirrijal/geokit/internal/core/domain"
	"github.com/samirrijal/geokit/internal/core/ports"
	"github.com/samirrijal/geokit/internal/pkg/geospatial"
	"github.com/samirrijal/geokit/internal/pkg/metrics"
	"github.com/samirrijal/geokit/internal/pkg/telemetry"
)

const importWorkers = 4

// RegionService handles region business logic.
type RegionService struct {
	regions   ports.RegionRepository
	publisher ports.EventPublisher
	grid      ports.GridIndex
	cellSize  float64
}

// NewRegionService creates a new RegionService. publisher and grid may be nil.
func NewRegionService(regions ports.RegionRepository, publisher ports.EventPublisher, grid ports.GridIndex, cellSize float64) *RegionService {
	return &RegionService{regions: regions, publisher: publisher, grid: grid, cellSize: cellSize}
}

// ParsePoints reads each text as a latitude/longitude pair.
func ParsePoints(texts []string) ([]geospatial.LatLonAlt, error) {
	out := make([]geospatial.LatLonAlt, 0, len(texts))
	for _, t := range texts {
		p, ok := geospatial.ParseLatLon(t)
		if !ok {
			metrics.ParseTotal.WithLabelValues(AxisPair, metrics.ParseResult(false)).Inc()
			return nil, fmt.Errorf("%w: %q", domain.ErrUnparseable, t)
		}
		metrics.ParseTotal.WithLabelValues(AxisPair, metrics.ParseResult(true)).Inc()
		out = append(out, p)
	}
	return out, nil
}

// Resolve turns a region input into its bounding box. Corners are read as
// lower-left then upper-right, so a west corner east of the east corner
// describes a box across the antimeridian. Points are reduced to their
// minimum bounding box.
func Resolve(in domain.RegionInput) (geospatial.GeographicBoundingBox, error) {
	set := 0
	if in.Box != nil {
		set++
	}
	if len(in.Corners) > 0 {
		set++
	}
	if len(in.Points) > 0 {
		set++
	}
	if set != 1 {
		return geospatial.GeographicBoundingBox{}, fmt.Errorf("%w: exactly one of box, corners or points is required", domain.ErrInvalidInput)
	}

	switch {
	case in.Box != nil:
		return *in.Box, nil
	case len(in.Corners) > 0:
		if len(in.Corners) != 2 {
			return geospatial.GeographicBoundingBox{}, fmt.Errorf("%w: corners needs exactly two coordinates", domain.ErrInvalidInput)
		}
		pts, err := ParsePoints(in.Corners)
		if err != nil {
			return geospatial.GeographicBoundingBox{}, err
		}
		box, err := geospatial.NewBoundingBox(pts[0], pts[1])
		if err != nil {
			return box, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return box, nil
	default:
		pts, err := ParsePoints(in.Points)
		if err != nil {
			return geospatial.GeographicBoundingBox{}, err
		}
		return geospatial.MinimumBoundingBox(pts)
	}
}

// NewRegion validates in and builds the region to store, without saving it.
func (s *RegionService) NewRegion(in domain.RegionInput) (*domain.Region, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	box, err := Resolve(in)
	if err != nil {
		return nil, err
	}
	return &domain.Region{
		ID:        uuid.NewString(),
		Name:      name,
		Box:       box,
		GridKey:   box.ToGridString(s.cellSize),
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Create validates, stores and announces a new region.
func (s *RegionService) Create(ctx context.Context, in domain.RegionInput) (*domain.Region, error) {
	ctx, span := telemetry.Tracer("geokit/usecases").Start(ctx, "RegionService.Create")
	defer span.End()

	region, err := s.NewRegion(in)
	if err != nil {
		return nil, err
	}
	if err := s.regions.Create(ctx, region); err != nil {
		return nil, fmt.Errorf("create region: %w", err)
	}
	span.SetAttributes(
		attribute.String(telemetry.AttrRegionID, region.ID),
		attribute.String(telemetry.AttrGridKey, region.GridKey),
	)
	metrics.RegionsIngested.WithLabelValues("api").Inc()

	s.publish(ctx, domain.RegionCreated, *region)
	return region, nil
}

// Publish announces a region event. Failures are returned, unlike the
// best-effort publishing done by Create and Delete.
func (s *RegionService) Publish(ctx context.Context, typ domain.RegionEventType, region domain.Region) error {
	if s.publisher == nil {
		return nil
	}
	ev := &domain.RegionEvent{Type: typ, Region: region, Time: time.Now().UTC()}
	if err := s.publisher.PublishRegionEvent(ctx, ev); err != nil {
		return fmt.Errorf("publish %s: %w", typ, err)
	}
	metrics.RegionEventsPublished.WithLabelValues(string(typ)).Inc()
	return nil
}

func (s *RegionService) publish(ctx context.Context, typ domain.RegionEventType, region domain.Region) {
	if err := s.Publish(ctx, typ, region); err != nil {
		slog.WarnContext(ctx, "region event not published", "type", typ, "region_id", region.ID, "error", err)
	}
}

// Get returns a single region.
func (s *RegionService) Get(ctx context.Context, id string) (*domain.Region, error) {
	return s.regions.GetByID(ctx, id)
}

// List returns a page of regions and the total count.
func (s *RegionService) List(ctx context.Context, offset, limit int) ([]domain.Region, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.regions.List(ctx, offset, limit)
}

// Delete removes a region and announces it.
func (s *RegionService) Delete(ctx context.Context, id string) error {
	region, err := s.regions.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.regions.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, domain.RegionDeleted, *region)
	return nil
}

// FindContaining returns the regions containing p within tolerance degrees.
func (s *RegionService) FindContaining(ctx context.Context, p domain.GeoPoint, tolerance float64) ([]domain.Region, error) {
	if tolerance < 0 || math.IsNaN(tolerance) {
		return nil, fmt.Errorf("%w: tolerance must be non-negative", domain.ErrInvalidInput)
	}
	pos := p.LatLonAlt()
	band := domain.LatRange{Min: pos.Lat() - tolerance, Max: pos.Lat() + tolerance}
	candidates, err := s.regions.ListByLatRange(ctx, band)
	if err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}

	out := make([]domain.Region, 0, len(candidates))
	for _, r := range candidates {
		if r.Box.Contains(pos, tolerance) {
			out = append(out, r)
		}
	}
	metrics.BoxOps.WithLabelValues("contains").Add(float64(len(candidates)))
	return out, nil
}

// FindOverlapping returns the regions that overlap box when both are grown
// by buffer degrees.
func (s *RegionService) FindOverlapping(ctx context.Context, box geospatial.GeographicBoundingBox, buffer float64) ([]domain.Region, error) {
	if buffer < 0 {
		buffer = 0
	}
	// Both boxes grow, so a region edge may sit up to 2*buffer away.
	band := domain.LatRange{Min: box.South() - 2*buffer, Max: box.North() + 2*buffer}
	candidates, err := s.regions.ListByLatRange(ctx, band)
	if err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}

	out := make([]domain.Region, 0, len(candidates))
	for _, r := range candidates {
		if box.Overlaps(r.Box, buffer) {
			out = append(out, r)
		}
	}
	metrics.BoxOps.WithLabelValues("overlaps").Add(float64(len(candidates)))
	return out, nil
}

// InCell returns the regions the grid index files under gridKey. Index
// entries pointing at deleted regions are skipped.
func (s *RegionService) InCell(ctx context.Context, gridKey string) ([]domain.Region, error) {
	if s.grid == nil {
		return nil, fmt.Errorf("%w: grid index not configured", domain.ErrUnavailable)
	}
	ids, err := s.grid.RegionsInCell(ctx, gridKey)
	if err != nil {
		return nil, fmt.Errorf("read grid cell: %w", err)
	}
	out := make([]domain.Region, 0, len(ids))
	for _, id := range ids {
		r, err := s.regions.GetByID(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, nil
}

// ImportBatch resolves many inputs concurrently and stores the valid ones
// in a single batch. Invalid entries are reported and skipped.
func (s *RegionService) ImportBatch(ctx context.Context, inputs []domain.RegionInput, source string) (*domain.IngestReport, error) {
	ctx, span := telemetry.Tracer("geokit/usecases").Start(ctx, "RegionService.ImportBatch")
	defer span.End()
	span.SetAttributes(attribute.String(telemetry.AttrSource, source), attribute.Int("geokit.batch.size", len(inputs)))

	resolved := make([]*domain.Region, len(inputs))
	problems := make([]error, len(inputs))

	var g errgroup.Group
	g.SetLimit(importWorkers)
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			resolved[i], problems[i] = s.NewRegion(in)
			return nil
		})
	}
	_ = g.Wait()

	report := &domain.IngestReport{}
	batch := make([]domain.Region, 0, len(inputs))
	for i, r := range resolved {
		if problems[i] != nil {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", inputs[i].Name, problems[i]))
			continue
		}
		batch = append(batch, *r)
	}
	if len(batch) == 0 {
		return report, nil
	}

	if err := s.regions.UpsertBatch(ctx, batch); err != nil {
		return report, fmt.Errorf("upsert regions: %w", err)
	}
	report.Stored = len(batch)
	metrics.RegionsIngested.WithLabelValues(source).Add(float64(len(batch)))

	// Re-imported names carry their stored ID after the upsert.
	for _, r := range batch {
		s.publish(ctx, domain.RegionCreated, r)
	}
	slog.InfoContext(ctx, "regions imported", "stored", report.Stored, "skipped", report.Skipped, "source", source)
	return report, nil
}
