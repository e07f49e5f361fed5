package geospatial_test

import (
	"math"
	"testing"

	"github.com/samirrijal/geokit/internal/pkg/geospatial"
)

func TestLatToDMSString(t *testing.T) {
	tests := []struct {
		name      string
		deg       float64
		precision int
		want      string
	}{
		{"southern", -25.36, 1, `25°21'36.0"S`},
		{"zero", 0, 2, `0°00'00.00"N`},
		{"negative rounding to zero", -0.000001, 0, `0°00'00"N`},
		{"second carries into minute", 10 + 59.996/3600, 2, `10°01'00.00"N`},
		{"minute carries into degree", 10 + 3599.996/3600, 2, `11°00'00.00"N`},
		{"pole", 90, 3, `90°00'00.000"N`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := geospatial.LatToDMSString(tt.deg, tt.precision); got != tt.want {
				t.Errorf("LatToDMSString(%v, %d) = %q, want %q", tt.deg, tt.precision, got, tt.want)
			}
		})
	}
}

func TestLonToDMSString(t *testing.T) {
	if got := geospatial.LonToDMSString(-2.935, 0); got != `2°56'06"W` {
		t.Errorf("unexpected %q", got)
	}
	if got := geospatial.LonToDMSString(180, 1); got != `180°00'00.0"E` {
		t.Errorf("unexpected %q", got)
	}
	if got := geospatial.LonToDMSString(123.5, -3); got != `123°30'00"E` {
		t.Errorf("negative precision should clamp to 0, got %q", got)
	}
}

func TestDMSString(t *testing.T) {
	got := geospatial.FromDegrees(43.263, -2.935).DMSString(0)
	if got != `43°15'47"N 2°56'06"W` {
		t.Errorf("unexpected %q", got)
	}
}

func TestDMS_RoundTrip(t *testing.T) {
	for d := -90.0; d <= 90; d += 0.3719 {
		s := geospatial.LatToDMSString(d, 6)
		got := geospatial.ParseLat(s)
		if math.IsNaN(got) || math.Abs(got-d) > 1e-6 {
			t.Fatalf("round trip of %v via %q gave %v", d, s, got)
		}
	}
	for d := -180.0; d <= 180; d += 0.7919 {
		s := geospatial.LonToDMSString(d, 6)
		got := geospatial.ParseLon(s)
		if math.IsNaN(got) || math.Abs(got-d) > 1e-6 {
			t.Fatalf("round trip of %v via %q gave %v", d, s, got)
		}
	}
}
