package geospatial_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/samirrijal/geokit/internal/pkg/geospatial"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

type latLon struct{ Lat, Lon float64 }

func latLonOf(p geospatial.LatLonAlt) latLon { return latLon{p.Lat(), p.Lon()} }

type corners struct{ South, West, North, East float64 }

func cornersOf(b geospatial.GeographicBoundingBox) corners {
	return corners{b.South(), b.West(), b.North(), b.East()}
}

func box(south, west, north, east float64) geospatial.GeographicBoundingBox {
	return geospatial.MustBoundingBox(geospatial.FromDegrees(south, west), geospatial.FromDegrees(north, east))
}

func assertCorners(t *testing.T, want corners, got geospatial.GeographicBoundingBox) {
	t.Helper()
	if diff := cmp.Diff(want, cornersOf(got), approx); diff != "" {
		t.Errorf("box mismatch (-want +got):\n%s", diff)
	}
}

func assertFloat(t *testing.T, name string, want, got, tol float64) {
	t.Helper()
	if math.IsNaN(want) {
		if !math.IsNaN(got) {
			t.Errorf("%s: expected NaN, got %v", name, got)
		}
		return
	}
	if math.IsNaN(got) || math.Abs(want-got) > tol {
		t.Errorf("%s: expected %v, got %v", name, want, got)
	}
}
