package geospatial

import (
	"math"
	"strconv"
	"strings"
)

const maxDMSPrecision = 9

// LatToDMSString formats a latitude as D°MM'SS.sss"H with the seconds rounded
// to precision decimal digits.
func LatToDMSString(deg float64, precision int) string {
	return formatDMS(NormalizeLatitude(deg), precision, 'N', 'S')
}

// LonToDMSString formats a longitude as D°MM'SS.sss"H with the seconds rounded
// to precision decimal digits.
func LonToDMSString(deg float64, precision int) string {
	return formatDMS(NormalizeLongitude(deg), precision, 'E', 'W')
}

// DMSString formats both axes of p, latitude first.
func (p LatLonAlt) DMSString(precision int) string {
	return LatToDMSString(p.lat, precision) + " " + LonToDMSString(p.lon, precision)
}

// formatDMS rounds once, on an integer count of 10^-precision seconds, and
// derives every component from that count so a rounded-up second carries into
// the minutes and degrees.
func formatDMS(deg float64, precision int, pos, neg byte) string {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return "NaN"
	}
	if precision < 0 {
		precision = 0
	}
	if precision > maxDMSPrecision {
		precision = maxDMSPrecision
	}

	scale := int64(1)
	for i := 0; i < precision; i++ {
		scale *= 10
	}
	units := int64(math.Round(math.Abs(deg) * 3600 * float64(scale)))

	frac := units % scale
	totalSeconds := units / scale
	seconds := totalSeconds % 60
	minutes := (totalSeconds / 60) % 60
	degrees := totalSeconds / 3600

	hemi := pos
	if units != 0 && deg < 0 {
		hemi = neg
	}

	var b strings.Builder
	b.Grow(24)
	b.WriteString(strconv.FormatInt(degrees, 10))
	b.WriteString("°")
	writePadded(&b, minutes, 2)
	b.WriteByte('\'')
	writePadded(&b, seconds, 2)
	if precision > 0 {
		b.WriteByte('.')
		writePadded(&b, frac, precision)
	}
	b.WriteByte('"')
	b.WriteByte(hemi)
	return b.String()
}

func writePadded(b *strings.Builder, v int64, width int) {
	s := strconv.FormatInt(v, 10)
	for i := len(s); i < width; i++ {
		b.WriteByte('0')
	}
	b.WriteString(s)
}
