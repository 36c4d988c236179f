package services

import "github.com/bobmcallan/square-mcp/internal/endpoint"

var locationBody = endpoint.Param{
	Name:        "location",
	Type:        endpoint.TypeObject,
	Description: "Location object (name, address, business_name, timezone, ...).",
}

// Locations returns the Locations API operations.
func Locations() Service {
	return Service{
		Name:        "locations",
		Description: "Business locations of a Square seller.",
		Endpoints: []endpoint.Descriptor{
			{
				Service:     "locations",
				Name:        "list",
				Description: "List all locations of the seller.",
				Method:      "GET",
				Path:        "/v2/locations",
			},
			{
				Service:     "locations",
				Name:        "create",
				Description: "Create a location.",
				Method:      "POST",
				Path:        "/v2/locations",
				BodyParams:  []endpoint.Param{locationBody},
			},
			{
				Service:     "locations",
				Name:        "retrieve",
				Description: "Retrieve a location. Use \"main\" for the main location.",
				Method:      "GET",
				Path:        "/v2/locations/{location_id}",
				PathParams: []endpoint.Param{
					{Name: "location_id", Type: endpoint.TypeString, Required: true, Description: "Location ID, or \"main\"."},
				},
			},
			{
				Service:     "locations",
				Name:        "update",
				Description: "Update a location.",
				Method:      "PUT",
				Path:        "/v2/locations/{location_id}",
				PathParams: []endpoint.Param{
					{Name: "location_id", Type: endpoint.TypeString, Required: true, Description: "ID of the location to update."},
				},
				BodyParams: []endpoint.Param{locationBody},
			},
		},
	}
}
