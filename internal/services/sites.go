package services

import "github.com/bobmcallan/square-mcp/internal/endpoint"

// Sites returns the Sites API operations.
func Sites() Service {
	return Service{
		Name:        "sites",
		Description: "Square Online sites.",
		Endpoints: []endpoint.Descriptor{
			{
				Service:     "sites",
				Name:        "list",
				Description: "List the Square Online sites of the seller.",
				Method:      "GET",
				Path:        "/v2/sites",
			},
		},
	}
}
