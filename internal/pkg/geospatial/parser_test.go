package geospatial_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/samirrijal/geokit/internal/pkg/geospatial"
)

var nan = math.NaN()

func TestParseLat(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"", nan},
		{"   ", nan},
		{"abc", nan},
		{"25.36", 25.36},
		{"-25.36", -25.36},
		{"+25.36", 25.36},
		{"25.36S", -25.36},
		{"S25.36", -25.36},
		{"s 25.36", -25.36},
		{`25°21'36.0"S`, -25.36},
		{"25°21′36″S", -25.36},
		{"25°21'36''S", -25.36},
		{"25 21 36 S", -25.36},
		{"25:21:36", 25.36},
		{"25,21,36N", 25.36},
		{"25°21.6'", 25.36},
		{"25 21.6", 25.36},
		{"-25S", -25},
		{"+25N", 25},
		{"-25N", nan},
		{"+25S", nan},
		{"25E", nan},
		{"25N 10S", nan},
		{"90", 90},
		{"-90", -90},
		{"91", nan},
		{"25 61", nan},
		{"25 30 61", nan},
		{"25.5 30", nan},
		{"25 30 15 10", nan},
		{"25 / 30", nan},
		{"1.2.3", nan},
		{"25°°", nan},
		{"2521.6", 25.36},
		{"252136", 25.36},
		{"050000", 5},
		{"50000", nan},
		{"4560", nan},
		{"12345678", nan},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assertFloat(t, "ParseLat("+tt.in+")", tt.want, geospatial.ParseLat(tt.in), 1e-9)
		})
	}
}

func TestParseLat_ExactDMS(t *testing.T) {
	got := geospatial.ParseLat(`25°21'36.0"S`)
	if math.Abs(got+25.36) > 1e-14 {
		t.Errorf("expected -25.36 within 1e-14, got %v", got)
	}
}

func TestParseLon(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"123.4", 123.4},
		{"-2.935", -2.935},
		{"10W", -10},
		{"W10", -10},
		{"10E", 10},
		{"10N", nan},
		{"-10E", nan},
		{"+10W", nan},
		{"50000", 500},
		{"12345", 123.75},
		{"1234530", 123 + 45.0/60 + 30.0/3600},
		{"1234530.5", 123 + 45.0/60 + 30.5/3600},
		{`70°10'W`, -(70 + 10.0/60)},
		{"200", 200},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assertFloat(t, "ParseLon("+tt.in+")", tt.want, geospatial.ParseLon(tt.in), 1e-9)
		})
	}
}

func TestParse_FormatHints(t *testing.T) {
	tests := []struct {
		name   string
		parse  func(string, ...geospatial.Format) float64
		in     string
		format geospatial.Format
		want   float64
	}{
		{"decimal lat too large", geospatial.ParseLat, "2521", geospatial.FormatDecimal, nan},
		{"decimal lon", geospatial.ParseLon, "2521", geospatial.FormatDecimal, 2521},
		{"ddm", geospatial.ParseLat, "4530", geospatial.FormatDDM, 45.5},
		{"auto four digits", geospatial.ParseLat, "4530", geospatial.FormatAuto, 45.5},
		{"dms needs five digits", geospatial.ParseLat, "4530", geospatial.FormatDMS, nan},
		{"dms five digits", geospatial.ParseLat, "45030", geospatial.FormatDMS, 4 + 50.0/60 + 30.0/3600},
		{"ddm overrides dms width", geospatial.ParseLon, "123456", geospatial.FormatDDM, 1234 + 56.0/60},
		{"hint ignored for short runs", geospatial.ParseLat, "45", geospatial.FormatDMS, 45},
		{"hint ignored when separated", geospatial.ParseLat, "45 30", geospatial.FormatDecimal, 45.5},
		{"ddm fraction on minutes", geospatial.ParseLat, "4530.6", geospatial.FormatDDM, 45 + 30.6/60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertFloat(t, tt.in, tt.want, tt.parse(tt.in, tt.format), 1e-9)
		})
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]geospatial.Format{
		"":        geospatial.FormatAuto,
		"AUTO":    geospatial.FormatAuto,
		"decimal": geospatial.FormatDecimal,
		"DMS":     geospatial.FormatDMS,
		"ddm":     geospatial.FormatDDM,
	} {
		got, err := geospatial.ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := geospatial.ParseFormat("utm"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestParseLatLon(t *testing.T) {
	tests := []struct {
		in   string
		want latLon
	}{
		{"5N 6E", latLon{5, 6}},
		{"5W 6S", latLon{-6, -5}},
		{"73W 40N", latLon{40, -73}},
		{"40.5, -73.25", latLon{40.5, -73.25}},
		{"40.5 -73.25", latLon{40.5, -73.25}},
		{"40.5-73.25", latLon{40.5, -73.25}},
		{"40.5/-73.25", latLon{40.5, -73.25}},
		{"40.5;-73.25", latLon{40.5, -73.25}},
		{"N40 30 W73 15", latLon{40.5, -73.25}},
		{"40 30 N 73 15 W", latLon{40.5, -73.25}},
		{"40°30' 73°15'", latLon{40.5, 73.25}},
		{"40 30 73 15", latLon{40.5, 73.25}},
		{"40 73 W", latLon{40, -73}},
		{"40.5 200", latLon{40.5, -160}},
		{`25°21'36.0"S 70°10'W`, latLon{-25.36, -(70 + 10.0/60)}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := geospatial.ParseLatLon(tt.in)
			if !ok {
				t.Fatalf("ParseLatLon(%q) failed", tt.in)
			}
			if diff := cmp.Diff(tt.want, latLonOf(got), approx); diff != "" {
				t.Errorf("ParseLatLon(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestParseLatLon_Exact(t *testing.T) {
	got, ok := geospatial.ParseLatLon("5N 6E")
	if !ok || got != geospatial.FromDegrees(5, 6) {
		t.Errorf("expected (5, 6), got %v ok=%v", got, ok)
	}
	got, ok = geospatial.ParseLatLon("5W 6S")
	if !ok || got != geospatial.FromDegrees(-6, -5) {
		t.Errorf("expected (-6, -5), got %v ok=%v", got, ok)
	}
}

func TestParseLatLon_Failures(t *testing.T) {
	for _, in := range []string{
		"",
		"   ",
		"40",
		"40 50 60",
		"5N 6N",
		"5E 6W",
		"95 10",
		"40.5 / -73.25 / 1",
		"hello world",
		"40.5, x",
	} {
		if got, ok := geospatial.ParseLatLon(in); ok {
			t.Errorf("ParseLatLon(%q) = %v, expected failure", in, got)
		}
	}
}
