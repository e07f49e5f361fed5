package geospatial

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Format is a hint for decoding packed digit runs such as "2521" or
// "252136". It has no effect on strings whose components are separated.
type Format int

const (
	// FormatAuto chooses the split from the integer digit count.
	FormatAuto Format = iota
	// FormatDecimal never splits: the run is decimal degrees.
	FormatDecimal
	// FormatDMS treats the last four integer digits as MMSS.
	FormatDMS
	// FormatDDM treats the last two integer digits as minutes.
	FormatDDM
)

func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatDecimal:
		return "decimal"
	case FormatDMS:
		return "dms"
	case FormatDDM:
		return "ddm"
	}
	return "Format(" + strconv.Itoa(int(f)) + ")"
}

// ParseFormat maps a case-insensitive format name to a Format. An empty name
// means FormatAuto.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "decimal":
		return FormatDecimal, nil
	case "dms":
		return FormatDMS, nil
	case "ddm":
		return FormatDDM, nil
	}
	return FormatAuto, fmt.Errorf("unknown coordinate format %q", s)
}

type axis uint8

const (
	axisLat axis = iota
	axisLon
)

var nan = math.NaN()

// ParseLat parses a latitude. It returns NaN when s is not a latitude,
// including when its magnitude exceeds 90 or it carries an E/W letter.
func ParseLat(s string, format ...Format) float64 {
	return parseAxis(s, axisLat, format)
}

// ParseLon parses a longitude. It returns NaN when s is not a longitude.
// Magnitudes beyond 180 are returned as given.
func ParseLon(s string, format ...Format) float64 {
	return parseAxis(s, axisLon, format)
}

func parseAxis(s string, ax axis, format []Format) float64 {
	f := FormatAuto
	if len(format) > 0 {
		f = format[0]
	}
	toks, ok := tokenize(s)
	if !ok {
		return nan
	}
	return interpret(toks, ax, f)
}

// ParseLatLon parses a latitude and longitude pair. Hemisphere letters decide
// which half is which, so "5W 6S" is latitude -6, longitude -5. Without
// letters the first half is the latitude.
func ParseLatLon(s string) (LatLonAlt, bool) {
	toks, ok := tokenize(s)
	if !ok || len(toks) == 0 {
		return LatLonAlt{}, false
	}
	first, second, ok := splitPair(toks)
	if !ok {
		return LatLonAlt{}, false
	}
	latToks, lonToks, ok := assignAxes(first, second)
	if !ok {
		return LatLonAlt{}, false
	}
	lat := interpret(latToks, axisLat, FormatAuto)
	lon := interpret(lonToks, axisLon, FormatAuto)
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return LatLonAlt{}, false
	}
	return FromDegrees(lat, lon), true
}

// interpret turns the tokens of one coordinate into signed decimal degrees.
func interpret(toks []token, ax axis, f Format) float64 {
	toks = significant(toks)
	first, last := 0, len(toks)
	var sign, hemi byte
	if first < last && toks[first].kind == tokSign {
		sign = toks[first].sym
		first++
	}
	if first < last && toks[first].kind == tokHemisphere {
		hemi = toks[first].sym
		first++
	}
	if first < last && toks[last-1].kind == tokHemisphere {
		if hemi != 0 {
			return nan
		}
		hemi = toks[last-1].sym
		last--
	}

	nums := toks[first:last]
	if len(nums) == 0 || len(nums) > 3 {
		return nan
	}
	for _, t := range nums {
		if t.kind != tokNumber {
			return nan
		}
	}

	switch hemi {
	case 'N', 'S':
		if ax != axisLat {
			return nan
		}
	case 'E', 'W':
		if ax != axisLon {
			return nan
		}
	}
	positiveHemi := hemi == 'N' || hemi == 'E'
	negativeHemi := hemi == 'S' || hemi == 'W'
	if (sign == '-' && positiveHemi) || (sign == '+' && negativeHemi) {
		return nan
	}

	var v float64
	if len(nums) == 1 && nums[0].unit == unitNone {
		v = unpack(nums[0], f)
	} else {
		v = combine(nums)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nan
	}
	if ax == axisLat && v > 90 {
		return nan
	}
	if sign == '-' || negativeHemi {
		v = -v
	}
	return v
}

// combine assigns separated numbers to degree, minute and second slots,
// either by explicit unit marker or by position.
func combine(nums []token) float64 {
	var parts [3]float64
	slot := -1
	for i, t := range nums {
		s := slot + 1
		if t.unit != unitNone {
			s = int(t.unit) - 1
		}
		if s <= slot || s > 2 {
			return nan
		}
		if t.hasFrac && i != len(nums)-1 {
			return nan
		}
		parts[s] = t.value()
		slot = s
	}
	return dmsValue(parts[0], parts[1], parts[2])
}

// unpack decodes a single unseparated digit run.
func unpack(t token, f Format) float64 {
	digits := t.intPart
	n := len(digits)
	if n <= 3 || f == FormatDecimal {
		return t.value()
	}
	if f == FormatAuto {
		switch {
		case n <= 5:
			f = FormatDDM
		case n <= 7:
			f = FormatDMS
		default:
			return nan
		}
	}
	switch f {
	case FormatDDM:
		return dmsValue(
			decimalValue(digits[:n-2], ""),
			decimalValue(digits[n-2:], t.fracPart),
			0,
		)
	case FormatDMS:
		if n < 5 {
			return nan
		}
		return dmsValue(
			decimalValue(digits[:n-4], ""),
			decimalValue(digits[n-4:n-2], ""),
			decimalValue(digits[n-2:], t.fracPart),
		)
	}
	return nan
}

func dmsValue(deg, min, sec float64) float64 {
	if min >= 60 || sec >= 60 {
		return nan
	}
	return deg + min/60 + sec/3600
}

// splitPair cuts a latitude/longitude string into its two halves. Rules are
// tried in order: an explicit pair separator, a single comma, a hemisphere
// letter boundary, the second degree-marked number, an interior sign, and
// finally an even count of numbers split down the middle.
func splitPair(toks []token) (a, b []token, ok bool) {
	if i, n := indexOfKind(toks, tokPairSeparator); n > 0 {
		if n > 1 {
			return nil, nil, false
		}
		return toks[:i], toks[i+1:], true
	}
	if i, n := indexOfKind(toks, tokComma); n == 1 {
		return toks[:i], toks[i+1:], true
	}

	sig := significant(toks)
	for _, find := range [...]func([]token) int{
		hemisphereBoundary,
		secondDegreeMark,
		interiorSign,
		halfOfNumbers,
	} {
		if i := find(sig); i > 0 && i < len(sig) {
			return sig[:i], sig[i:], true
		}
	}
	return nil, nil, false
}

func hemisphereBoundary(sig []token) int {
	if len(sig) == 0 {
		return -1
	}
	if sig[0].kind == tokHemisphere {
		// prefix style: "N40 W73"
		for i := 1; i < len(sig); i++ {
			if sig[i].kind == tokHemisphere {
				return i
			}
		}
		return -1
	}
	// suffix style: "40N 73W"
	for i := 0; i < len(sig)-1; i++ {
		if sig[i].kind == tokHemisphere {
			return i + 1
		}
	}
	return -1
}

func secondDegreeMark(sig []token) int {
	seen := false
	for i, t := range sig {
		if t.kind != tokNumber || t.unit != unitDegree {
			continue
		}
		if !seen {
			seen = true
			continue
		}
		if i > 0 && sig[i-1].kind == tokSign {
			return i - 1
		}
		return i
	}
	return -1
}

func interiorSign(sig []token) int {
	for i := 1; i < len(sig); i++ {
		if sig[i].kind == tokSign {
			return i
		}
	}
	return -1
}

func halfOfNumbers(sig []token) int {
	count := 0
	for _, t := range sig {
		if t.kind == tokNumber {
			count++
		}
	}
	if count == 0 || count%2 != 0 {
		return -1
	}
	seen := 0
	for i, t := range sig {
		if t.kind == tokNumber {
			seen++
			if seen == count/2 {
				return i + 1
			}
		}
	}
	return -1
}

// assignAxes orders the two halves as latitude, longitude. A hemisphere
// letter on either half is authoritative.
func assignAxes(a, b []token) (lat, lon []token, ok bool) {
	aLat, aLon := hemisphereAxis(a)
	bLat, bLon := hemisphereAxis(b)
	switch {
	case (aLat && bLat) || (aLon && bLon):
		return nil, nil, false
	case aLon || bLat:
		return b, a, true
	default:
		return a, b, true
	}
}

func hemisphereAxis(toks []token) (isLat, isLon bool) {
	for _, t := range toks {
		if t.kind != tokHemisphere {
			continue
		}
		switch t.sym {
		case 'N', 'S':
			return true, false
		case 'E', 'W':
			return false, true
		}
	}
	return false, false
}
