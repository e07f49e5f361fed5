package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/geokit/internal/core/domain"
	"github.com/samirrijal/geokit/internal/core/ports"
	"github.com/samirrijal/geokit/internal/pkg/geospatial"
	"github.com/samirrijal/geokit/internal/pkg/metrics"
	"github.com/samirrijal/geokit/internal/pkg/telemetry"
)

// Parse axes accepted by CoordinateService.Parse.
const (
	AxisLat  = "lat"
	AxisLon  = "lon"
	AxisPair = "pair"
)

const maxInputLen = 200

// CoordinateService parses, formats and normalizes coordinates.
type CoordinateService struct {
	cache      ports.CacheService
	ttlSeconds int
}

// NewCoordinateService creates a new CoordinateService. cache may be nil.
func NewCoordinateService(cache ports.CacheService, ttlSeconds int) *CoordinateService {
	return &CoordinateService{cache: cache, ttlSeconds: ttlSeconds}
}

// Parse reads free-text coordinate input along the given axis. It returns
// domain.ErrInvalidInput for bad arguments and domain.ErrUnparseable when
// the text is not a coordinate.
func (s *CoordinateService) Parse(ctx context.Context, input, axis string, format geospatial.Format) (*domain.ParsedCoordinate, error) {
	ctx, span := telemetry.Tracer("geokit/usecases").Start(ctx, "CoordinateService.Parse")
	defer span.End()

	input = strings.TrimSpace(input)
	if axis == "" {
		axis = AxisPair
	}
	span.SetAttributes(attribute.String(telemetry.AttrAxis, axis))

	if input == "" {
		return nil, fmt.Errorf("%w: coordinate text is required", domain.ErrInvalidInput)
	}
	if len(input) > maxInputLen {
		return nil, fmt.Errorf("%w: coordinate text too long (max %d characters)", domain.ErrInvalidInput, maxInputLen)
	}
	if axis != AxisLat && axis != AxisLon && axis != AxisPair {
		return nil, fmt.Errorf("%w: axis must be lat, lon or pair", domain.ErrInvalidInput)
	}

	cacheKey := fmt.Sprintf("geo:parse:%s:%s:%s", axis, format, input)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var out domain.ParsedCoordinate
			if err := json.Unmarshal(data, &out); err == nil {
				metrics.CacheHits.WithLabelValues("parse").Inc()
				return &out, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("parse").Inc()
	}

	out := &domain.ParsedCoordinate{Input: input, Axis: axis, Format: format.String()}
	ok := true
	switch axis {
	case AxisLat:
		v := geospatial.ParseLat(input, format)
		if ok = !math.IsNaN(v); ok {
			out.Lat = &v
			out.DMS = geospatial.LatToDMSString(v, 2)
		}
	case AxisLon:
		v := geospatial.ParseLon(input, format)
		if ok = !math.IsNaN(v); ok {
			out.Lon = &v
			// Longitude is not magnitude-bounded; DMS text would show the
			// wrapped value, so it is left out.
			if math.Abs(v) <= 180 {
				out.DMS = geospatial.LonToDMSString(v, 2)
			}
		}
	default:
		var p geospatial.LatLonAlt
		if p, ok = geospatial.ParseLatLon(input); ok {
			lat, lon := p.Lat(), p.Lon()
			out.Lat, out.Lon = &lat, &lon
			out.DMS = p.DMSString(2)
		}
	}
	metrics.ParseTotal.WithLabelValues(axis, metrics.ParseResult(ok)).Inc()
	if !ok {
		slog.DebugContext(ctx, "coordinate not parsed", "axis", axis, "input", input)
		return nil, fmt.Errorf("%w: %q", domain.ErrUnparseable, input)
	}

	if s.cache != nil && s.ttlSeconds > 0 {
		if data, err := json.Marshal(out); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, s.ttlSeconds)
		}
	}
	return out, nil
}

// DMS holds both axes of a position in degrees-minutes-seconds.
type DMS struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// FormatDMS renders a position as DMS text with precision second digits.
func (s *CoordinateService) FormatDMS(lat, lon float64, precision int) (DMS, error) {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return DMS{}, fmt.Errorf("%w: lat and lon must be numbers", domain.ErrInvalidInput)
	}
	if precision < 0 || precision > 9 {
		return DMS{}, fmt.Errorf("%w: precision must be 0-9", domain.ErrInvalidInput)
	}
	return DMS{
		Lat: geospatial.LatToDMSString(lat, precision),
		Lon: geospatial.LonToDMSString(lon, precision),
	}, nil
}

// Normalize folds any latitude and longitude into canonical range.
func (s *CoordinateService) Normalize(lat, lon float64) domain.GeoPoint {
	return domain.PointOf(geospatial.FromDegrees(lat, lon))
}
