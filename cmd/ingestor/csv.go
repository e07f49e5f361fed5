package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/samirrijal/geokit/internal/core/domain"
	"github.com/samirrijal/geokit/internal/pkg/geospatial"
)

// parseRegionCSV reads region rows. The header must have a name column and
// either south, west, north and east columns, a corners column holding two
// free-text positions separated by "|", or a points column holding any
// number of them separated the same way. A row with an unreadable box is
// passed through with no source set so the import reports it as skipped.
func parseRegionCSV(r io.Reader) ([]domain.RegionInput, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := indexColumns(header)
	if _, ok := cols["name"]; !ok {
		return nil, errors.New("missing name column")
	}

	var out []domain.RegionInput
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return out, err
		}

		in := domain.RegionInput{Name: getField(record, cols, "name")}
		switch {
		case getField(record, cols, "corners") != "":
			in.Corners = splitList(getField(record, cols, "corners"))
		case getField(record, cols, "points") != "":
			in.Points = splitList(getField(record, cols, "points"))
		default:
			if box, ok := boxColumns(record, cols); ok {
				in.Box = &box
			}
		}
		out = append(out, in)
	}
	return out, nil
}

func boxColumns(record []string, cols map[string]int) (geospatial.GeographicBoundingBox, bool) {
	var v [4]float64
	for i, name := range []string{"south", "west", "north", "east"} {
		f, err := strconv.ParseFloat(getField(record, cols, name), 64)
		if err != nil {
			return geospatial.GeographicBoundingBox{}, false
		}
		v[i] = f
	}
	box, err := geospatial.NewBoundingBox(geospatial.FromDegrees(v[0], v[1]), geospatial.FromDegrees(v[2], v[3]))
	return box, err == nil
}

func splitList(s string) []string {
	parts := strings.Split(s, "|")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func indexColumns(header []string) map[string]int {
	m := make(map[string]int, len(header))
	for i, h := range header {
		m[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	return m
}

func getField(record []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
