package http

import (
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/geokit/internal/adapters/postgres"
	"github.com/samirrijal/geokit/internal/adapters/valkey"
	"github.com/samirrijal/geokit/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Coordinates *usecases.CoordinateService
	Geometry    *usecases.GeometryService
	Regions     *usecases.RegionService
	NATS        *nats.Conn
	DB          *postgres.DB
	Cache       *valkey.Cache
	// DefaultTolerance applies to containment queries that give none.
	DefaultTolerance float64
	// DocsPath is the OpenAPI document served at /docs/openapi.yaml.
	DocsPath string
}
