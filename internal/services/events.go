package services

import "github.com/bobmcallan/square-mcp/internal/endpoint"

// Events returns the Events API operations.
func Events() Service {
	return Service{
		Name:        "events",
		Description: "Search and manage webhook events.",
		Endpoints: []endpoint.Descriptor{
			{
				Service:     "events",
				Name:        "search",
				Description: "Search for events, filtered and sorted by the query.",
				Method:      "POST",
				Path:        "/v2/events",
				BodyParams: []endpoint.Param{
					{Name: "cursor", Type: endpoint.TypeString, Description: "Pagination cursor from a previous response."},
					{Name: "limit", Type: endpoint.TypeNumber, Description: "Maximum number of events per page."},
					{Name: "query", Type: endpoint.TypeObject, Description: "Filter and sort criteria."},
				},
			},
			{
				Service:     "events",
				Name:        "disable",
				Description: "Disable events so they are no longer searchable.",
				Method:      "PUT",
				Path:        "/v2/events/disable",
			},
			{
				Service:     "events",
				Name:        "enable",
				Description: "Enable events so they are searchable.",
				Method:      "PUT",
				Path:        "/v2/events/enable",
			},
			{
				Service:     "events",
				Name:        "list_types",
				Description: "List the event types available to webhooks and the events API.",
				Method:      "GET",
				Path:        "/v2/events/types",
				QueryParams: []endpoint.Param{
					{Name: "api_version", Type: endpoint.TypeString, Description: "Square API version to list event types for."},
				},
			},
		},
	}
}
