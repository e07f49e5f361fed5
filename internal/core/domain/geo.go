package domain

import "github.com/samirrijal/geokit/internal/pkg/geospatial"

// GeoPoint is a plain latitude/longitude pair as it appears on the wire.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// LatLonAlt converts the point into a normalized position.
func (p GeoPoint) LatLonAlt() geospatial.LatLonAlt {
	return geospatial.FromDegrees(p.Lat, p.Lon)
}

// PointOf is the inverse of GeoPoint.LatLonAlt.
func PointOf(p geospatial.LatLonAlt) GeoPoint {
	return GeoPoint{Lat: p.Lat(), Lon: p.Lon()}
}

// LatRange is a latitude band used to prefilter regions in storage. Longitude
// filtering happens in memory because it has to respect wrapping boxes.
type LatRange struct {
	Min float64
	Max float64
}
