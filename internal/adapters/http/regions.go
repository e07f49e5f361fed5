package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/geokit/internal/core/domain"
	"github.com/samirrijal/geokit/internal/core/usecases"
	"github.com/samirrijal/geokit/internal/pkg/geospatial"
)

// ListRegionsHandler returns a page of stored regions.
func ListRegionsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		offset, limit := pageParams(c)

		regions, total, err := deps.Regions.List(c.UserContext(), offset, limit)
		if err != nil {
			return errFromService(c, err)
		}
		if regions == nil {
			regions = []domain.Region{}
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: regions, Pagination: pg})
	}
}

// CreateRegionHandler stores a region given as a box, two free-text corners
// or a list of free-text points.
func CreateRegionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in domain.RegionInput
		if err := c.BodyParser(&in); err != nil {
			return errBadRequest(c, "invalid request body: "+err.Error())
		}

		region, err := deps.Regions.Create(c.UserContext(), in)
		if err != nil {
			return errFromService(c, err)
		}
		c.Location("/v1/regions/" + region.ID)
		return c.Status(fiber.StatusCreated).JSON(region)
	}
}

// GetRegionHandler returns a single region.
func GetRegionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		region, err := deps.Regions.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(region)
	}
}

// DeleteRegionHandler removes a region.
func DeleteRegionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Regions.Delete(c.UserContext(), c.Params("id")); err != nil {
			return errFromService(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ContainingRegionsHandler returns the regions containing a point given
// either as free text (q) or as lat and lon.
func ContainingRegionsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p domain.GeoPoint
		if q := c.Query("q"); q != "" {
			parsed, err := deps.Coordinates.Parse(c.UserContext(), q, usecases.AxisPair, geospatial.FormatAuto)
			if err != nil {
				return errFromService(c, err)
			}
			p = domain.GeoPoint{Lat: *parsed.Lat, Lon: *parsed.Lon}
		} else {
			lat, lon, ok := queryLatLon(c)
			if !ok {
				return errBadRequest(c, "q or lat and lon are required")
			}
			p = domain.GeoPoint{Lat: lat, Lon: lon}
		}
		tolerance, err := queryFloat(c, "tolerance", deps.DefaultTolerance)
		if err != nil {
			return errBadRequest(c, "tolerance must be a number")
		}

		regions, err := deps.Regions.FindContaining(c.UserContext(), p, tolerance)
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(fiber.Map{"point": p, "regions": regions})
	}
}

// OverlappingRegionsHandler returns the regions overlapping a box.
func OverlappingRegionsHandler(deps *Dependencies) fiber.Handler {
	type request struct {
		Box    *geospatial.GeographicBoundingBox `json:"box"`
		Buffer float64                           `json:"buffer"`
	}
	return func(c *fiber.Ctx) error {
		var req request
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body: "+err.Error())
		}
		if req.Box == nil {
			return errBadRequest(c, "box is required")
		}

		regions, err := deps.Regions.FindOverlapping(c.UserContext(), *req.Box, req.Buffer)
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(fiber.Map{"regions": regions})
	}
}

// RegionsInCellHandler returns the regions the grid index files under a
// grid string.
func RegionsInCellHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Query("key")
		if key == "" {
			return errBadRequest(c, "key query parameter is required")
		}
		regions, err := deps.Regions.InCell(c.UserContext(), key)
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(fiber.Map{"key": key, "regions": regions})
	}
}
