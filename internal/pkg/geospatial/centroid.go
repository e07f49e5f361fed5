package geospatial

import (
	"errors"
	"math"
)

// ErrNoPoints is returned by operations that need at least one position.
var ErrNoPoints = errors.New("geospatial: no points")

// FindCentroid returns the mean position of points. Latitude and altitude
// are plain means. Longitude is averaged either as given or with western
// values shifted east by 360, whichever grouping has the smaller spread, so
// a set straddling the antimeridian averages to a point near ±180.
func FindCentroid(points []LatLonAlt) (LatLonAlt, error) {
	switch len(points) {
	case 0:
		return LatLonAlt{}, ErrNoPoints
	case 1:
		return points[0], nil
	}

	var latSum, altSum, lonSum, shiftedSum float64
	minLon, maxLon := math.Inf(1), math.Inf(-1)
	minShifted, maxShifted := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		latSum += p.lat
		altSum += p.alt.Meters

		lonSum += p.lon
		minLon = math.Min(minLon, p.lon)
		maxLon = math.Max(maxLon, p.lon)

		s := p.lon
		if s < 0 {
			s += 360
		}
		shiftedSum += s
		minShifted = math.Min(minShifted, s)
		maxShifted = math.Max(maxShifted, s)
	}

	if maxShifted-minShifted < maxLon-minLon {
		lonSum = shiftedSum
	}
	n := float64(len(points))
	return FromDegreesMeters(latSum/n, lonSum/n, altSum/n, points[0].alt.Reference), nil
}
