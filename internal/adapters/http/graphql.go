package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/geokit/internal/core/domain"
	"github.com/samirrijal/geokit/internal/core/usecases"
	"github.com/samirrijal/geokit/internal/pkg/geospatial"
)

// boxField resolves a box attribute from a GeographicBoundingBox source.
func boxField(get func(geospatial.GeographicBoundingBox) interface{}) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		switch b := p.Source.(type) {
		case geospatial.GeographicBoundingBox:
			return get(b), nil
		case *geospatial.GeographicBoundingBox:
			return get(*b), nil
		}
		return nil, fmt.Errorf("unexpected box source %T", p.Source)
	}
}

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	boxType := graphql.NewObject(graphql.ObjectConfig{
		Name:        "BoundingBox",
		Description: "A latitude/longitude box. West may exceed east when the box crosses the antimeridian.",
		Fields: graphql.Fields{
			"south": &graphql.Field{Type: graphql.Float, Resolve: boxField(func(b geospatial.GeographicBoundingBox) interface{} { return b.South() })},
			"west":  &graphql.Field{Type: graphql.Float, Resolve: boxField(func(b geospatial.GeographicBoundingBox) interface{} { return b.West() })},
			"north": &graphql.Field{Type: graphql.Float, Resolve: boxField(func(b geospatial.GeographicBoundingBox) interface{} { return b.North() })},
			"east":  &graphql.Field{Type: graphql.Float, Resolve: boxField(func(b geospatial.GeographicBoundingBox) interface{} { return b.East() })},
			"crossesAntimeridian": &graphql.Field{Type: graphql.Boolean, Resolve: boxField(func(b geospatial.GeographicBoundingBox) interface{} {
				return b.CrossesAntimeridian()
			})},
			"widthDegrees": &graphql.Field{Type: graphql.Float, Resolve: boxField(func(b geospatial.GeographicBoundingBox) interface{} {
				return b.WidthDegrees()
			})},
		},
	})

	regionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Region",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.String},
			"name":       &graphql.Field{Type: graphql.String},
			"box":        &graphql.Field{Type: boxType},
			"grid_key":   &graphql.Field{Type: graphql.String},
			"created_at": &graphql.Field{Type: graphql.DateTime},
		},
	})

	parsedType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ParsedCoordinate",
		Fields: graphql.Fields{
			"input":  &graphql.Field{Type: graphql.String},
			"axis":   &graphql.Field{Type: graphql.String},
			"format": &graphql.Field{Type: graphql.String},
			"lat":    &graphql.Field{Type: graphql.Float},
			"lon":    &graphql.Field{Type: graphql.Float},
			"dms":    &graphql.Field{Type: graphql.String},
		},
	})

	dmsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "DMS",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.String},
			"lon": &graphql.Field{Type: graphql.String},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"parseLatLon": &graphql.Field{
				Type:        parsedType,
				Description: "Parse a free-text latitude/longitude pair",
				Args: graphql.FieldConfigArgument{
					"text": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					text := p.Args["text"].(string)
					return deps.Coordinates.Parse(p.Context, text, usecases.AxisPair, geospatial.FormatAuto)
				},
			},
			"normalize": &graphql.Field{
				Type:        geoPointType,
				Description: "Fold a position into canonical range",
				Args: graphql.FieldConfigArgument{
					"lat": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Coordinates.Normalize(p.Args["lat"].(float64), p.Args["lon"].(float64)), nil
				},
			},
			"dms": &graphql.Field{
				Type:        dmsType,
				Description: "Render a position as degrees, minutes and seconds",
				Args: graphql.FieldConfigArgument{
					"lat":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"precision": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 2},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Coordinates.FormatDMS(p.Args["lat"].(float64), p.Args["lon"].(float64), p.Args["precision"].(int))
				},
			},
			"regions": &graphql.Field{
				Type:        graphql.NewList(regionType),
				Description: "List stored regions",
				Args: graphql.FieldConfigArgument{
					"offset": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: defaultPageLimit},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					regions, _, err := deps.Regions.List(p.Context, p.Args["offset"].(int), p.Args["limit"].(int))
					return regions, err
				},
			},
			"region": &graphql.Field{
				Type:        regionType,
				Description: "Get a region by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Regions.Get(p.Context, p.Args["id"].(string))
				},
			},
			"regionsContaining": &graphql.Field{
				Type:        graphql.NewList(regionType),
				Description: "Regions containing a point",
				Args: graphql.FieldConfigArgument{
					"lat":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"tolerance": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: deps.DefaultTolerance},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					pt := domain.GeoPoint{Lat: p.Args["lat"].(float64), Lon: p.Args["lon"].(float64)}
					return deps.Regions.FindContaining(p.Context, pt, p.Args["tolerance"].(float64))
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.Query == "" {
			return errBadRequest(c, "query is required")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
