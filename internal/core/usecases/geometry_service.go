package usecases

import (
	"errors"
	"fmt"
	"math"

	"github.com/samirrijal/geokit/internal/core/domain"
	"github.com/samirrijal/geokit/internal/pkg/geospatial"
	"github.com/samirrijal/geokit/internal/pkg/metrics"
)

// GeometryService exposes the bounding box algebra and point operations.
// It holds no state beyond configured defaults.
type GeometryService struct {
	defaultCellSize float64
}

// NewGeometryService creates a new GeometryService. defaultCellSize is used
// by GridString when the caller passes zero.
func NewGeometryService(defaultCellSize float64) *GeometryService {
	return &GeometryService{defaultCellSize: defaultCellSize}
}

func (s *GeometryService) count(op string) {
	metrics.BoxOps.WithLabelValues(op).Inc()
}

// Intersection returns the overlap of a and b, or nil when they are disjoint.
func (s *GeometryService) Intersection(a, b geospatial.GeographicBoundingBox) *geospatial.GeographicBoundingBox {
	s.count("intersection")
	out, ok := a.Intersection(b)
	if !ok {
		return nil
	}
	return &out
}

// Merge returns the smallest box covering both inputs, wrapping if needed.
func (s *GeometryService) Merge(a, b geospatial.GeographicBoundingBox) geospatial.GeographicBoundingBox {
	s.count("merge")
	return geospatial.Merge(a, b)
}

// Union returns the corner-wise min/max of a and b. It never wraps.
func (s *GeometryService) Union(a, b geospatial.GeographicBoundingBox) geospatial.GeographicBoundingBox {
	s.count("union")
	return geospatial.Union(a, b)
}

// Contains reports whether p lies in box, widened by tolerance degrees.
func (s *GeometryService) Contains(box geospatial.GeographicBoundingBox, p domain.GeoPoint, tolerance float64) (bool, error) {
	if tolerance < 0 || math.IsNaN(tolerance) {
		return false, fmt.Errorf("%w: tolerance must be non-negative", domain.ErrInvalidInput)
	}
	s.count("contains")
	return box.Contains(p.LatLonAlt(), tolerance), nil
}

// Overlaps reports whether a and b overlap once each is grown by buffer
// degrees on every side.
func (s *GeometryService) Overlaps(a, b geospatial.GeographicBoundingBox, buffer float64) bool {
	s.count("overlaps")
	return a.Overlaps(b, buffer)
}

// Minimum returns the smallest box around the given points.
func (s *GeometryService) Minimum(points []domain.GeoPoint) (geospatial.GeographicBoundingBox, error) {
	s.count("minimum")
	box, err := geospatial.MinimumBoundingBox(toPositions(points))
	if errors.Is(err, geospatial.ErrNoPoints) {
		return box, fmt.Errorf("%w: at least one point is required", domain.ErrInvalidInput)
	}
	return box, err
}

// QuadSplit splits box into four quadrants ordered SW, NW, SE, NE.
func (s *GeometryService) QuadSplit(box geospatial.GeographicBoundingBox) [4]geospatial.GeographicBoundingBox {
	s.count("quadsplit")
	return box.QuadSplit()
}

// GridString returns the hierarchical grid address of box.
func (s *GeometryService) GridString(box geospatial.GeographicBoundingBox, cellSize float64) (string, error) {
	if cellSize == 0 {
		cellSize = s.defaultCellSize
	}
	if !(cellSize > 0) || math.IsInf(cellSize, 0) {
		return "", fmt.Errorf("%w: cell_size must be a positive number", domain.ErrInvalidInput)
	}
	s.count("grid")
	return box.ToGridString(cellSize), nil
}

// Centroid returns the mean position of points, antimeridian aware.
func (s *GeometryService) Centroid(points []domain.GeoPoint) (domain.GeoPoint, error) {
	c, err := geospatial.FindCentroid(toPositions(points))
	if errors.Is(err, geospatial.ErrNoPoints) {
		return domain.GeoPoint{}, fmt.Errorf("%w: at least one point is required", domain.ErrInvalidInput)
	}
	if err != nil {
		return domain.GeoPoint{}, err
	}
	return domain.PointOf(c), nil
}

// Interpolate returns the position fraction of the way from a to b.
func (s *GeometryService) Interpolate(a, b domain.GeoPoint, fraction float64, longway bool) (domain.GeoPoint, error) {
	if math.IsNaN(fraction) || math.IsInf(fraction, 0) {
		return domain.GeoPoint{}, fmt.Errorf("%w: fraction must be finite", domain.ErrInvalidInput)
	}
	return domain.PointOf(geospatial.Interpolate(a.LatLonAlt(), b.LatLonAlt(), fraction, longway)), nil
}

func toPositions(points []domain.GeoPoint) []geospatial.LatLonAlt {
	out := make([]geospatial.LatLonAlt, len(points))
	for i, p := range points {
		out[i] = p.LatLonAlt()
	}
	return out
}
