package geospatial_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/samirrijal/geokit/internal/pkg/geospatial"
)

func TestFromDegrees_Normalizes(t *testing.T) {
	p := geospatial.FromDegrees(91, 181)
	if p.Lat() != 89 || p.Lon() != -179 {
		t.Errorf("expected (89, -179), got %v", p)
	}
}

func TestLatLonAlt_MapKey(t *testing.T) {
	seen := map[geospatial.LatLonAlt]int{}
	seen[geospatial.FromDegrees(10, 190)]++
	seen[geospatial.FromDegrees(10, -170)]++
	if len(seen) != 1 {
		t.Fatalf("expected equal positions to share a key, got %d keys", len(seen))
	}
	if !geospatial.FromDegrees(10, 190).Equal(geospatial.FromDegrees(10, -170)) {
		t.Error("expected Equal to hold for normalized-equal positions")
	}
	if geospatial.FromDegrees(10, 10).Equal(geospatial.FromDegreesMeters(10, 10, 5, geospatial.Terrain)) {
		t.Error("expected altitude to take part in equality")
	}
}

func TestCrossesAntimeridian(t *testing.T) {
	tests := []struct {
		a, b float64
		want bool
	}{
		{179, -179, true},
		{-179, 179, true},
		{180, -179, false},
		{-180, 179, false},
		{10, -10, false},
		{90, -91, true},
		{90, -90, false},
		{0, 0, false},
		{170, 175, false},
	}
	for _, tt := range tests {
		a, b := geospatial.FromDegrees(0, tt.a), geospatial.FromDegrees(0, tt.b)
		if got := geospatial.CrossesAntimeridian(a, b); got != tt.want {
			t.Errorf("CrossesAntimeridian(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCrossesAntimeridian_Symmetric(t *testing.T) {
	for a := -180.0; a <= 180; a += 7.5 {
		for b := -180.0; b <= 180; b += 7.5 {
			pa, pb := geospatial.FromDegrees(0, a), geospatial.FromDegrees(0, b)
			if geospatial.CrossesAntimeridian(pa, pb) != geospatial.CrossesAntimeridian(pb, pa) {
				t.Fatalf("asymmetric result for %v, %v", a, b)
			}
		}
	}
}

func TestPositionsCrossLongitudeBoundary(t *testing.T) {
	tests := []struct {
		a, b float64
		want bool
	}{
		{170, -170, true},
		{10, 20, false},
		{180, -179, true},
		{-90, 90, false},
		{-100, 90, true},
	}
	for _, tt := range tests {
		a, b := geospatial.FromDegrees(0, tt.a), geospatial.FromDegrees(0, tt.b)
		if got := a.PositionsCrossLongitudeBoundary(b); got != tt.want {
			t.Errorf("PositionsCrossLongitudeBoundary(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestInterpolate(t *testing.T) {
	a := geospatial.FromDegreesMeters(10, 170, 100, geospatial.Ellipsoid)
	b := geospatial.FromDegreesMeters(20, -170, 200, geospatial.Ellipsoid)

	short := geospatial.Interpolate(a, b, 0.5, false)
	if diff := cmp.Diff(latLon{15, 0}, latLonOf(short), approx); diff != "" {
		t.Errorf("short way mismatch (-want +got):\n%s", diff)
	}
	if short.AltMeters() != 150 || short.Alt().Reference != geospatial.Ellipsoid {
		t.Errorf("unexpected altitude %+v", short.Alt())
	}

	long := geospatial.Interpolate(a, b, 0.5, true)
	if diff := cmp.Diff(latLon{15, 180}, latLonOf(long), approx); diff != "" {
		t.Errorf("long way mismatch (-want +got):\n%s", diff)
	}
}

func TestInterpolate_DirectionIndependentOfOrder(t *testing.T) {
	a := geospatial.FromDegrees(0, 170)
	b := geospatial.FromDegrees(0, -170)
	for _, longway := range []bool{false, true} {
		for _, f := range []float64{0, 0.25, 0.5, 0.9} {
			fwd := geospatial.Interpolate(a, b, f, longway)
			rev := geospatial.Interpolate(b, a, 1-f, longway)
			if geospatial.LongitudeDifference(fwd.Lon(), rev.Lon()) > 1e-9 || fwd.Lat() != rev.Lat() {
				t.Errorf("longway=%v f=%v: forward %v, reverse %v", longway, f, fwd, rev)
			}
		}
	}
	got := geospatial.Interpolate(a, b, 0.25, true)
	if geospatial.LongitudeDifference(got.Lon(), 175) > 1e-9 {
		t.Errorf("expected 175, got %v", got.Lon())
	}
}

func TestPlusMinus(t *testing.T) {
	sum := geospatial.FromDegrees(10, 170).Plus(geospatial.FromDegrees(5, 20))
	if sum.Lat() != 15 || sum.Lon() != -170 {
		t.Errorf("Plus: expected (15, -170), got %v", sum)
	}
	diff := geospatial.FromDegrees(10, -170).Minus(geospatial.FromDegrees(0, 20))
	if diff.Lat() != 10 || diff.Lon() != 170 {
		t.Errorf("Minus: expected (10, 170), got %v", diff)
	}
	over := geospatial.FromDegrees(80, 0).Plus(geospatial.FromDegrees(20, 0))
	if over.Lat() != 80 {
		t.Errorf("Plus over the pole: expected 80, got %v", over.Lat())
	}
}

func TestLatLonAlt_JSON(t *testing.T) {
	data, err := json.Marshal(geospatial.FromDegrees(1.5, 2))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"lat":1.5,"lon":2}` {
		t.Errorf("unexpected JSON %s", data)
	}

	var p geospatial.LatLonAlt
	if err := json.Unmarshal([]byte(`{"lat":91,"lon":190,"alt":5,"ref":"ellipsoid"}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := geospatial.FromDegreesMeters(89, -170, 5, geospatial.Ellipsoid)
	if p != want {
		t.Errorf("expected %v, got %v", want, p)
	}

	if err := json.Unmarshal([]byte(`{"lat":1,"lon":2,"ref":"moon"}`), &p); err == nil {
		t.Error("expected error for unknown reference level")
	}
}

func TestLatLonAlt_String(t *testing.T) {
	got := geospatial.FromDegreesMeters(1, 2, 3, geospatial.Ellipsoid).String()
	if got != "(1, 2, 3 m ELLIPSOID)" {
		t.Errorf("unexpected String() %q", got)
	}
}
