package geospatial

import (
	"math"
	"strconv"
	"strings"
)

// maxGridDigits bounds the subdivision depth for zero-extent boxes.
const maxGridDigits = 32

// ToGridString addresses the box within a global grid of cellSizeDeg cells
// anchored at (-90, -180). Each axis is written as the index of the
// top-level cell holding the box's lower-left corner, followed by one binary
// digit per halving of that cell until the cell is no larger than the box:
// "lonIndex.bits/latIndex.bits". An axis with no halvings has no dot.
//
// It panics if cellSizeDeg is not positive.
func (b GeographicBoundingBox) ToGridString(cellSizeDeg float64) string {
	if !(cellSizeDeg > 0) || math.IsInf(cellSizeDeg, 0) {
		panic("geospatial: grid cell size must be positive, got " + strconv.FormatFloat(cellSizeDeg, 'g', -1, 64))
	}
	var sb strings.Builder
	sb.Grow(2*maxGridDigits + 16)
	writeGridAxis(&sb, wrap360(b.lowerLeft.lon+180), b.WidthDegrees(), cellSizeDeg)
	sb.WriteByte('/')
	writeGridAxis(&sb, b.lowerLeft.lat+90, b.HeightDegrees(), cellSizeDeg)
	return sb.String()
}

// writeGridAxis writes the address of offset, measured from the grid anchor,
// for a box of the given extent.
func writeGridAxis(sb *strings.Builder, offset, extent, cell float64) {
	index := math.Floor(offset / cell)
	sb.WriteString(strconv.FormatInt(int64(index), 10))

	start := index * cell
	size := cell
	for digits := 0; size > extent && digits < maxGridDigits; digits++ {
		if digits == 0 {
			sb.WriteByte('.')
		}
		size /= 2
		if offset >= start+size {
			sb.WriteByte('1')
			start += size
		} else {
			sb.WriteByte('0')
		}
	}
}
