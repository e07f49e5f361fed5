package geospatial

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// ReferenceLevel tags what an altitude is measured from. It is carried as an
// opaque label; no conversion between levels is performed.
type ReferenceLevel int

const (
	Terrain ReferenceLevel = iota
	Ellipsoid
	Origin
)

var referenceLevelNames = [...]string{
	Terrain:   "TERRAIN",
	Ellipsoid: "ELLIPSOID",
	Origin:    "ORIGIN",
}

func (r ReferenceLevel) String() string {
	if r < 0 || int(r) >= len(referenceLevelNames) {
		return fmt.Sprintf("ReferenceLevel(%d)", int(r))
	}
	return referenceLevelNames[r]
}

// ParseReferenceLevel maps a case-insensitive name to a ReferenceLevel.
// An empty name means Terrain.
func ParseReferenceLevel(s string) (ReferenceLevel, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Terrain, nil
	}
	for i, name := range referenceLevelNames {
		if strings.EqualFold(s, name) {
			return ReferenceLevel(i), nil
		}
	}
	return Terrain, fmt.Errorf("unknown reference level %q", s)
}

// Altitude is a height in meters above the given reference level.
type Altitude struct {
	Meters    float64
	Reference ReferenceLevel
}

// LatLonAlt is an immutable geodetic position. Latitude and longitude are
// normalized at construction, so two values describing the same place compare
// equal with == and may be used as map keys.
type LatLonAlt struct {
	lat float64
	lon float64
	alt Altitude
}

// FromDegrees returns a position at zero altitude above terrain.
func FromDegrees(lat, lon float64) LatLonAlt {
	return LatLonAlt{lat: NormalizeLatitude(lat), lon: NormalizeLongitude(lon)}
}

// FromDegreesMeters returns a position with an altitude.
func FromDegreesMeters(lat, lon, meters float64, ref ReferenceLevel) LatLonAlt {
	return LatLonAlt{
		lat: NormalizeLatitude(lat),
		lon: NormalizeLongitude(lon),
		alt: Altitude{Meters: meters, Reference: ref},
	}
}

// Lat returns the latitude in degrees, in [-90, 90].
func (p LatLonAlt) Lat() float64 { return p.lat }

// Lon returns the longitude in degrees, in (-180, 180].
func (p LatLonAlt) Lon() float64 { return p.lon }

func (p LatLonAlt) Alt() Altitude { return p.alt }

func (p LatLonAlt) AltMeters() float64 { return p.alt.Meters }

// Equal reports whether both positions carry the same normalized values.
func (p LatLonAlt) Equal(o LatLonAlt) bool { return p == o }

// Plus adds the components of o to p. The altitude keeps p's reference level.
func (p LatLonAlt) Plus(o LatLonAlt) LatLonAlt {
	return FromDegreesMeters(p.lat+o.lat, p.lon+o.lon, p.alt.Meters+o.alt.Meters, p.alt.Reference)
}

// Minus subtracts the components of o from p. The altitude keeps p's
// reference level.
func (p LatLonAlt) Minus(o LatLonAlt) LatLonAlt {
	return FromDegreesMeters(p.lat-o.lat, p.lon-o.lon, p.alt.Meters-o.alt.Meters, p.alt.Reference)
}

// Interpolate returns the position at fraction of the way from a to b.
//
// Longitude has two solutions. The short way interpolates the raw degree
// values directly; the long way goes the other way around the globe, through
// the antimeridian. The direction depends only on the sign of b.lon - a.lon,
// so swapping a and b with 1-fraction yields the same point.
func Interpolate(a, b LatLonAlt, fraction float64, longway bool) LatLonAlt {
	delta := b.lon - a.lon
	if longway {
		switch {
		case delta > 0:
			delta -= 360
		case delta < 0:
			delta += 360
		}
	}
	return FromDegreesMeters(
		a.lat+(b.lat-a.lat)*fraction,
		a.lon+delta*fraction,
		a.alt.Meters+(b.alt.Meters-a.alt.Meters)*fraction,
		a.alt.Reference,
	)
}

// CrossesAntimeridian reports whether the segment between a and b crosses the
// ±180 meridian. A position sitting exactly on the meridian never triggers a
// crossing.
func CrossesAntimeridian(a, b LatLonAlt) bool {
	al, bl := math.Abs(a.lon), math.Abs(b.lon)
	return (a.lon < 0) != (b.lon < 0) && al < 180 && bl < 180 && al+bl > 180
}

// PositionsCrossLongitudeBoundary reports whether the shortest path from p to
// o passes through ±180. Renderers use it to split a path into two segments.
func (p LatLonAlt) PositionsCrossLongitudeBoundary(o LatLonAlt) bool {
	return math.Abs(NormalizeLongitude(p.lon)-NormalizeLongitude(o.lon)) > 180
}

func (p LatLonAlt) String() string {
	return fmt.Sprintf("(%g, %g, %g m %s)", p.lat, p.lon, p.alt.Meters, p.alt.Reference)
}

type latLonAltJSON struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
	Alt float64 `json:"alt,omitempty"`
	Ref string  `json:"ref,omitempty"`
}

func (p LatLonAlt) MarshalJSON() ([]byte, error) {
	v := latLonAltJSON{Lat: p.lat, Lon: p.lon, Alt: p.alt.Meters}
	if p.alt.Reference != Terrain {
		v.Ref = p.alt.Reference.String()
	}
	return json.Marshal(v)
}

func (p *LatLonAlt) UnmarshalJSON(data []byte) error {
	var v latLonAltJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	ref, err := ParseReferenceLevel(v.Ref)
	if err != nil {
		return err
	}
	*p = FromDegreesMeters(v.Lat, v.Lon, v.Alt, ref)
	return nil
}
