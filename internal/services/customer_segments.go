package services

import "github.com/bobmcallan/square-mcp/internal/endpoint"

// CustomerSegments returns the Customer Segments API operations.
func CustomerSegments() Service {
	return Service{
		Name:        "customer_segments",
		Description: "Customer segments (smart groups) of a business.",
		Endpoints: []endpoint.Descriptor{
			{
				Service:     "customer_segments",
				Name:        "list",
				Description: "List the customer segments of the business.",
				Method:      "GET",
				Path:        "/v2/customers/segments",
				QueryParams: []endpoint.Param{
					{Name: "cursor", Type: endpoint.TypeString, Description: "Pagination cursor from a previous response."},
					{Name: "limit", Type: endpoint.TypeNumber, Description: "Maximum number of results per page."},
				},
			},
			{
				Service:     "customer_segments",
				Name:        "retrieve",
				Description: "Retrieve a customer segment by ID.",
				Method:      "GET",
				Path:        "/v2/customers/segments/{segment_id}",
				PathParams: []endpoint.Param{
					{Name: "segment_id", Type: endpoint.TypeString, Required: true, Description: "ID of the segment."},
				},
			},
		},
	}
}
