package domain

import (
	"time"

	"github.com/samirrijal/geokit/internal/pkg/geospatial"
)

// Region is a named bounding box stored by the service.
type Region struct {
	ID        string                           `json:"id"`
	Name      string                           `json:"name"`
	Box       geospatial.GeographicBoundingBox `json:"box"`
	GridKey   string                           `json:"grid_key"`
	CreatedAt time.Time                        `json:"created_at"`
}

// RegionInput describes a region to create. Exactly one of Box, Corners or
// Points must be set. Corners and Points hold free-text coordinate pairs.
type RegionInput struct {
	Name    string                            `json:"name"`
	Box     *geospatial.GeographicBoundingBox `json:"box,omitempty"`
	Corners []string                          `json:"corners,omitempty"`
	Points  []string                          `json:"points,omitempty"`
}

// RegionEventType names a region lifecycle change.
type RegionEventType string

const (
	RegionCreated RegionEventType = "region.created"
	RegionDeleted RegionEventType = "region.deleted"
)

// RegionEvent is published whenever a region is created or deleted.
type RegionEvent struct {
	Type   RegionEventType `json:"type"`
	Region Region          `json:"region"`
	Time   time.Time       `json:"time"`
}

// ParsedCoordinate is the result of parsing free-text coordinate input.
type ParsedCoordinate struct {
	Input  string   `json:"input"`
	Axis   string   `json:"axis"`
	Format string   `json:"format"`
	Lat    *float64 `json:"lat,omitempty"`
	Lon    *float64 `json:"lon,omitempty"`
	DMS    string   `json:"dms,omitempty"`
}

// IngestReport summarizes a batch region import.
type IngestReport struct {
	Stored  int      `json:"stored"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}
