package geospatial

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// MaxBoxFlattening is the largest aspect ratio MinimumBoundingBox produces
// when every point shares a latitude or a longitude.
const MaxBoxFlattening = 100.0

// ErrInvalidBox is returned when a box's latitude bounds are inverted or not
// finite.
var ErrInvalidBox = errors.New("geospatial: invalid bounding box")

// GeographicBoundingBox is an immutable latitude/longitude rectangle. When
// the upper-right longitude is less than the lower-left longitude the box
// wraps across the antimeridian. That state is always derived from the
// corners. Altitudes are not part of a box.
type GeographicBoundingBox struct {
	lowerLeft  LatLonAlt
	upperRight LatLonAlt
}

// NewBoundingBox builds a box from its lower-left and upper-right corners.
// Longitude order is kept as given, so ll.Lon() > ur.Lon() yields a wrapping
// box.
func NewBoundingBox(ll, ur LatLonAlt) (GeographicBoundingBox, error) {
	if math.IsNaN(ll.lat) || math.IsNaN(ur.lat) || math.IsNaN(ll.lon) || math.IsNaN(ur.lon) {
		return GeographicBoundingBox{}, fmt.Errorf("%w: non-finite corner", ErrInvalidBox)
	}
	if ll.lat > ur.lat {
		return GeographicBoundingBox{}, fmt.Errorf("%w: lower latitude %g above upper latitude %g",
			ErrInvalidBox, ll.lat, ur.lat)
	}
	return newBox(ll.lat, ll.lon, ur.lat, ur.lon), nil
}

// MustBoundingBox is like NewBoundingBox but panics on inverted latitudes.
func MustBoundingBox(ll, ur LatLonAlt) GeographicBoundingBox {
	b, err := NewBoundingBox(ll, ur)
	if err != nil {
		panic(err)
	}
	return b
}

// BoxFromCorners builds the non-wrapping box spanned by any two opposite
// corners.
func BoxFromCorners(a, b LatLonAlt) GeographicBoundingBox {
	return newBox(
		math.Min(a.lat, b.lat), math.Min(a.lon, b.lon),
		math.Max(a.lat, b.lat), math.Max(a.lon, b.lon),
	)
}

// WholeWorld returns the box covering every position.
func WholeWorld() GeographicBoundingBox {
	return newBox(-90, -180, 90, 180)
}

func newBox(south, west, north, east float64) GeographicBoundingBox {
	return GeographicBoundingBox{
		lowerLeft:  FromDegrees(south, west),
		upperRight: FromDegrees(north, east),
	}
}

// newBoxSpan builds a box from a west edge and an eastward width.
func newBoxSpan(south, west, north, width float64) GeographicBoundingBox {
	if width >= 360 {
		return newBox(south, -180, north, 180)
	}
	return newBox(south, NormalizeLongitude(west), north, NormalizeLongitude(west+width))
}

func (b GeographicBoundingBox) LowerLeft() LatLonAlt  { return b.lowerLeft }
func (b GeographicBoundingBox) UpperRight() LatLonAlt { return b.upperRight }

func (b GeographicBoundingBox) UpperLeft() LatLonAlt {
	return FromDegrees(b.upperRight.lat, b.lowerLeft.lon)
}

func (b GeographicBoundingBox) LowerRight() LatLonAlt {
	return FromDegrees(b.lowerLeft.lat, b.upperRight.lon)
}

func (b GeographicBoundingBox) South() float64 { return b.lowerLeft.lat }
func (b GeographicBoundingBox) North() float64 { return b.upperRight.lat }
func (b GeographicBoundingBox) West() float64  { return b.lowerLeft.lon }
func (b GeographicBoundingBox) East() float64  { return b.upperRight.lon }

// CrossesAntimeridian reports whether the box wraps across ±180.
func (b GeographicBoundingBox) CrossesAntimeridian() bool {
	return b.upperRight.lon < b.lowerLeft.lon
}

// WidthDegrees is the eastward extent from the west edge to the east edge.
func (b GeographicBoundingBox) WidthDegrees() float64 {
	w := b.upperRight.lon - b.lowerLeft.lon
	if w < 0 {
		w += 360
	}
	return w
}

func (b GeographicBoundingBox) HeightDegrees() float64 {
	return b.upperRight.lat - b.lowerLeft.lat
}

// Center returns the midpoint of both axes. For a wrapping box the
// longitude midpoint lies on the wrapped span.
func (b GeographicBoundingBox) Center() LatLonAlt {
	return FromDegrees(
		(b.lowerLeft.lat+b.upperRight.lat)/2,
		b.lowerLeft.lon+b.WidthDegrees()/2,
	)
}

// Contains reports whether pos lies inside the box expanded by toleranceDeg
// on every side.
func (b GeographicBoundingBox) Contains(pos LatLonAlt, toleranceDeg float64) bool {
	if pos.lat < b.lowerLeft.lat-toleranceDeg || pos.lat > b.upperRight.lat+toleranceDeg {
		return false
	}
	return lonDistance(b.lowerLeft.lon, b.WidthDegrees(), pos.lon) <= toleranceDeg
}

// lonDistance returns how far lon lies outside the span starting at west,
// going either way around the globe. It is zero for longitudes inside.
func lonDistance(west, width, lon float64) float64 {
	if width >= 360 {
		return 0
	}
	off := wrap360(lon - west)
	if off <= width {
		return 0
	}
	return math.Min(off-width, 360-off)
}

// lonOverlap intersects two eastward longitude spans. If the spans meet in
// two separate pieces the wider one is returned.
func lonOverlap(aWest, aWidth, bWest, bWidth float64) (west, width float64, ok bool) {
	if aWidth >= 360 {
		return bWest, bWidth, true
	}
	if bWidth >= 360 {
		return aWest, aWidth, true
	}
	if o := wrap360(bWest - aWest); o <= aWidth {
		west, width, ok = bWest, math.Min(bWidth, aWidth-o), true
	}
	if o := wrap360(aWest - bWest); o <= bWidth {
		if w := math.Min(aWidth, bWidth-o); !ok || w > width {
			west, width, ok = aWest, w, true
		}
	}
	return west, width, ok
}

// Intersects reports whether the boxes share at least one position,
// including a shared edge.
func (b GeographicBoundingBox) Intersects(other GeographicBoundingBox) bool {
	_, ok := b.Intersection(other)
	return ok
}

// Intersection returns the overlap of two boxes. Boxes touching along an
// edge produce a zero-width or zero-height box.
func (b GeographicBoundingBox) Intersection(other GeographicBoundingBox) (GeographicBoundingBox, bool) {
	south := math.Max(b.lowerLeft.lat, other.lowerLeft.lat)
	north := math.Min(b.upperRight.lat, other.upperRight.lat)
	if south > north {
		return GeographicBoundingBox{}, false
	}
	west, width, ok := lonOverlap(b.lowerLeft.lon, b.WidthDegrees(), other.lowerLeft.lon, other.WidthDegrees())
	if !ok {
		return GeographicBoundingBox{}, false
	}
	return newBoxSpan(south, west, north, width), true
}

// Overlaps is Intersects after expanding both boxes by bufferDeg on every
// side. A negative buffer counts as zero.
func (b GeographicBoundingBox) Overlaps(other GeographicBoundingBox, bufferDeg float64) bool {
	if bufferDeg < 0 {
		bufferDeg = 0
	}
	if b.lowerLeft.lat-bufferDeg > other.upperRight.lat+bufferDeg ||
		other.lowerLeft.lat-bufferDeg > b.upperRight.lat+bufferDeg {
		return false
	}
	_, _, ok := lonOverlap(
		b.lowerLeft.lon-bufferDeg, b.WidthDegrees()+2*bufferDeg,
		other.lowerLeft.lon-bufferDeg, other.WidthDegrees()+2*bufferDeg,
	)
	return ok
}

// Merge returns the smallest box containing both a and b. Longitude is
// treated as circular: the result starts at one box's west edge and extends
// east far enough to cover the other, whichever is narrower. On a tie the
// span that does not wrap wins.
func Merge(a, b GeographicBoundingBox) GeographicBoundingBox {
	south := math.Min(a.lowerLeft.lat, b.lowerLeft.lat)
	north := math.Max(a.upperRight.lat, b.upperRight.lat)

	aWest, aWidth := a.lowerLeft.lon, a.WidthDegrees()
	bWest, bWidth := b.lowerLeft.lon, b.WidthDegrees()

	fromA := math.Max(aWidth, wrap360(bWest-aWest)+bWidth)
	fromB := math.Max(bWidth, wrap360(aWest-bWest)+aWidth)

	west, width := aWest, fromA
	switch {
	case fromB < fromA:
		west, width = bWest, fromB
	case fromB == fromA && aWest+fromA > 180 && bWest+fromB <= 180:
		west, width = bWest, fromB
	}
	return newBoxSpan(south, west, north, width)
}

// Union returns the plain min/max box of all four corners. It never wraps,
// so two boxes on opposite sides of the antimeridian produce a box spanning
// the rest of the globe. Use Merge when that matters.
func Union(a, b GeographicBoundingBox) GeographicBoundingBox {
	return newBox(
		math.Min(a.lowerLeft.lat, b.lowerLeft.lat),
		math.Min(math.Min(a.lowerLeft.lon, a.upperRight.lon), math.Min(b.lowerLeft.lon, b.upperRight.lon)),
		math.Max(a.upperRight.lat, b.upperRight.lat),
		math.Max(math.Max(a.lowerLeft.lon, a.upperRight.lon), math.Max(b.lowerLeft.lon, b.upperRight.lon)),
	)
}

// MinimumBoundingBox returns the smallest box holding every point. The
// longitude span is either the natural [min, max] range or its complement
// through the antimeridian, whichever is narrower, preferring the natural
// range on a tie. A box that would be flat on one axis is padded on that axis
// to 1/MaxBoxFlattening of the other.
func MinimumBoundingBox(points []LatLonAlt) (GeographicBoundingBox, error) {
	if len(points) == 0 {
		return GeographicBoundingBox{}, ErrNoPoints
	}

	south, north := math.Inf(1), math.Inf(-1)
	minLon, maxLon := math.Inf(1), math.Inf(-1)
	minEast, maxWest := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		south = math.Min(south, p.lat)
		north = math.Max(north, p.lat)
		minLon = math.Min(minLon, p.lon)
		maxLon = math.Max(maxLon, p.lon)
		if p.lon >= 0 {
			minEast = math.Min(minEast, p.lon)
		} else {
			maxWest = math.Max(maxWest, p.lon)
		}
	}

	west, width := minLon, maxLon-minLon
	if !math.IsInf(minEast, 0) && !math.IsInf(maxWest, 0) {
		if wrapped := 360 - (minEast - maxWest); wrapped < width {
			west, width = minEast, wrapped
		}
	}

	height := north - south
	switch {
	case height == 0 && width > 0:
		pad := width / MaxBoxFlattening / 2
		south = math.Max(south-pad, -90)
		north = math.Min(north+pad, 90)
	case width == 0 && height > 0:
		pad := height / MaxBoxFlattening / 2
		west -= pad
		width += 2 * pad
	}
	return newBoxSpan(south, west, north, width), nil
}

// QuadSplit bisects both axes and returns the quadrants ordered
// southwest, northwest, southeast, northeast.
func (b GeographicBoundingBox) QuadSplit() [4]GeographicBoundingBox {
	south, north := b.lowerLeft.lat, b.upperRight.lat
	west := b.lowerLeft.lon
	width := b.WidthDegrees()
	midLat := (south + north) / 2
	midLon := west + width/2
	east := west + width

	return [4]GeographicBoundingBox{
		newBox(south, west, midLat, midLon),
		newBox(midLat, west, north, midLon),
		newBox(south, midLon, midLat, east),
		newBox(midLat, midLon, north, east),
	}
}

func (b GeographicBoundingBox) String() string {
	return fmt.Sprintf("[(%g, %g) - (%g, %g)]",
		b.lowerLeft.lat, b.lowerLeft.lon, b.upperRight.lat, b.upperRight.lon)
}

type boundingBoxJSON struct {
	LowerLeft  LatLonAlt `json:"lower_left"`
	UpperRight LatLonAlt `json:"upper_right"`
}

func (b GeographicBoundingBox) MarshalJSON() ([]byte, error) {
	return json.Marshal(boundingBoxJSON{LowerLeft: b.lowerLeft, UpperRight: b.upperRight})
}

func (b *GeographicBoundingBox) UnmarshalJSON(data []byte) error {
	var v boundingBoxJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	box, err := NewBoundingBox(v.LowerLeft, v.UpperRight)
	if err != nil {
		return err
	}
	*b = box
	return nil
}
