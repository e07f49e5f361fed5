package http

import (
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/geokit/internal/core/domain"
	"github.com/samirrijal/geokit/internal/pkg/geospatial"
)

// queryFloat reads an optional float query parameter.
func queryFloat(c *fiber.Ctx, name string, def float64) (float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrSyntax
	}
	return v, nil
}

// queryLatLon reads the required lat and lon query parameters.
func queryLatLon(c *fiber.Ctx) (lat, lon float64, ok bool) {
	if c.Query("lat") == "" || c.Query("lon") == "" {
		return 0, 0, false
	}
	lat, err1 := queryFloat(c, "lat", 0)
	lon, err2 := queryFloat(c, "lon", 0)
	return lat, lon, err1 == nil && err2 == nil
}

// ParseCoordinateHandler parses free-text coordinates.
func ParseCoordinateHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := c.Query("q")
		if q == "" {
			return errBadRequest(c, "q query parameter is required")
		}
		format, err := geospatial.ParseFormat(c.Query("format"))
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		out, err := deps.Coordinates.Parse(c.UserContext(), q, c.Query("axis"), format)
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(out)
	}
}

// FormatCoordinateHandler renders a position as DMS text.
func FormatCoordinateHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat, lon, ok := queryLatLon(c)
		if !ok {
			return errBadRequest(c, "lat and lon are required numbers")
		}
		precision := c.QueryInt("precision", 2)

		out, err := deps.Coordinates.FormatDMS(lat, lon, precision)
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(out)
	}
}

// NormalizeCoordinateHandler folds a position into canonical range.
func NormalizeCoordinateHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat, lon, ok := queryLatLon(c)
		if !ok {
			return errBadRequest(c, "lat and lon are required numbers")
		}
		return c.JSON(deps.Coordinates.Normalize(lat, lon))
	}
}

type boxPair struct {
	A      *geospatial.GeographicBoundingBox `json:"a"`
	B      *geospatial.GeographicBoundingBox `json:"b"`
	Buffer float64                           `json:"buffer"`
}

func parseBoxPair(c *fiber.Ctx) (*boxPair, error) {
	var req boxPair
	if err := c.BodyParser(&req); err != nil {
		return nil, errBadRequest(c, "invalid request body: "+err.Error())
	}
	if req.A == nil || req.B == nil {
		return nil, errBadRequest(c, "boxes a and b are required")
	}
	return &req, nil
}

// IntersectionHandler returns the overlap of two boxes.
func IntersectionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := parseBoxPair(c)
		if req == nil {
			return err
		}
		box := deps.Geometry.Intersection(*req.A, *req.B)
		return c.JSON(fiber.Map{"intersects": box != nil, "box": box})
	}
}

// MergeHandler returns the smallest box covering two boxes.
func MergeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := parseBoxPair(c)
		if req == nil {
			return err
		}
		return c.JSON(deps.Geometry.Merge(*req.A, *req.B))
	}
}

// UnionHandler returns the corner-wise union of two boxes.
func UnionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := parseBoxPair(c)
		if req == nil {
			return err
		}
		return c.JSON(deps.Geometry.Union(*req.A, *req.B))
	}
}

// OverlapsHandler reports whether two boxes overlap within a buffer.
func OverlapsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := parseBoxPair(c)
		if req == nil {
			return err
		}
		return c.JSON(fiber.Map{"overlaps": deps.Geometry.Overlaps(*req.A, *req.B, req.Buffer)})
	}
}

// ContainsHandler reports whether a box contains a point.
func ContainsHandler(deps *Dependencies) fiber.Handler {
	type request struct {
		Box       *geospatial.GeographicBoundingBox `json:"box"`
		Point     *domain.GeoPoint                  `json:"point"`
		Tolerance *float64                          `json:"tolerance"`
	}
	return func(c *fiber.Ctx) error {
		var req request
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body: "+err.Error())
		}
		if req.Box == nil || req.Point == nil {
			return errBadRequest(c, "box and point are required")
		}
		tolerance := deps.DefaultTolerance
		if req.Tolerance != nil {
			tolerance = *req.Tolerance
		}

		ok, err := deps.Geometry.Contains(*req.Box, *req.Point, tolerance)
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(fiber.Map{"contains": ok})
	}
}

type pointsRequest struct {
	Points []domain.GeoPoint `json:"points"`
}

// MinimumBoxHandler returns the smallest box around a set of points.
func MinimumBoxHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req pointsRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body: "+err.Error())
		}
		box, err := deps.Geometry.Minimum(req.Points)
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(box)
	}
}

// CentroidHandler returns the centroid of a set of points.
func CentroidHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req pointsRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body: "+err.Error())
		}
		p, err := deps.Geometry.Centroid(req.Points)
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(p)
	}
}

type boxRequest struct {
	Box      *geospatial.GeographicBoundingBox `json:"box"`
	CellSize float64                           `json:"cell_size"`
}

func parseBox(c *fiber.Ctx) (*boxRequest, error) {
	var req boxRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, errBadRequest(c, "invalid request body: "+err.Error())
	}
	if req.Box == nil {
		return nil, errBadRequest(c, "box is required")
	}
	return &req, nil
}

// QuadSplitHandler splits a box into quadrants.
func QuadSplitHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := parseBox(c)
		if req == nil {
			return err
		}
		return c.JSON(fiber.Map{"quadrants": deps.Geometry.QuadSplit(*req.Box)})
	}
}

// GridStringHandler returns the grid address of a box.
func GridStringHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := parseBox(c)
		if req == nil {
			return err
		}
		grid, err := deps.Geometry.GridString(*req.Box, req.CellSize)
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(fiber.Map{"grid": grid})
	}
}

// InterpolateHandler returns a point between two positions.
func InterpolateHandler(deps *Dependencies) fiber.Handler {
	type request struct {
		A        *domain.GeoPoint `json:"a"`
		B        *domain.GeoPoint `json:"b"`
		Fraction float64          `json:"fraction"`
		Longway  bool             `json:"longway"`
	}
	return func(c *fiber.Ctx) error {
		var req request
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body: "+err.Error())
		}
		if req.A == nil || req.B == nil {
			return errBadRequest(c, "points a and b are required")
		}
		p, err := deps.Geometry.Interpolate(*req.A, *req.B, req.Fraction, req.Longway)
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(p)
	}
}
