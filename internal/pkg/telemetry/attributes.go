package telemetry

// Span attribute keys shared by services.
const (
	AttrRegionID = "geokit.region.id"
	AttrGridKey  = "geokit.region.grid_key"
	AttrAxis     = "geokit.parse.axis"
	AttrSource   = "geokit.region.source"
)
