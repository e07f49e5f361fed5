// Package geospatial implements the geodetic coordinate model: angle
// normalization, the LatLonAlt value type, an antimeridian-aware bounding box
// algebra, centroids and a lenient coordinate-string parser.
//
// Every type in this package is an immutable value and every function is pure,
// so values may be shared freely between goroutines.
package geospatial

import "math"

// NormalizeLatitude folds an arbitrary degree value into [-90, 90].
// Values beyond a pole reflect back, e.g. 91 -> 89, 180 -> 0, 270 -> -90.
func NormalizeLatitude(lat float64) float64 {
	if lat >= -90 && lat <= 90 {
		return lat
	}
	// math.Remainder(lat, 360) returns in the range [-180, 180].
	lat = math.Remainder(lat, 360)
	if lat > 90 {
		return 180 - lat
	}
	if lat < -90 {
		return -180 - lat
	}
	return lat
}

// NormalizeLongitude wraps an arbitrary degree value into (-180, 180].
// An input of exactly -180 is left alone so that a box edge sitting on the
// antimeridian keeps the side it was given.
func NormalizeLongitude(lon float64) float64 {
	if lon >= -180 && lon <= 180 {
		return lon
	}
	lon = math.Mod(lon, 360)
	if lon > 180 {
		lon -= 360
	} else if lon <= -180 {
		lon += 360
	}
	return lon
}

// LongitudeDifference returns the unsigned circular distance between two
// longitudes, always in [0, 180].
func LongitudeDifference(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	if d > 180 {
		return 360 - d
	}
	return d
}

// wrap360 maps a degree offset into [0, 360).
func wrap360(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	if d >= 360 {
		d = 0
	}
	return d
}
