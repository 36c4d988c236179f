package services

import "github.com/bobmcallan/square-mcp/internal/endpoint"

// GiftCardActivities returns the Gift Card Activities API operations.
func GiftCardActivities() Service {
	return Service{
		Name:        "gift_card_activities",
		Description: "Balance-changing and state-changing gift card activities.",
		Endpoints: []endpoint.Descriptor{
			{
				Service:     "gift_card_activities",
				Name:        "list",
				Description: "List gift card activities, optionally filtered.",
				Method:      "GET",
				Path:        "/v2/gift-cards/activities",
				QueryParams: []endpoint.Param{
					{Name: "gift_card_id", Type: endpoint.TypeString, Description: "Only activities of this gift card."},
					{Name: "type", Type: endpoint.TypeString, Description: "Activity type, e.g. LOAD or REDEEM."},
					{Name: "location_id", Type: endpoint.TypeString, Description: "Only activities at this location."},
					{Name: "begin_time", Type: endpoint.TypeString, Description: "RFC 3339 start of the reporting period (inclusive)."},
					{Name: "end_time", Type: endpoint.TypeString, Description: "RFC 3339 end of the reporting period (inclusive)."},
					{Name: "limit", Type: endpoint.TypeNumber, Description: "Maximum number of results per page."},
					{Name: "cursor", Type: endpoint.TypeString, Description: "Pagination cursor from a previous response."},
					{Name: "sort_order", Type: endpoint.TypeString, Description: "ASC or DESC by created_at."},
				},
			},
			{
				Service:     "gift_card_activities",
				Name:        "create",
				Description: "Create a gift card activity, such as activating, loading or redeeming.",
				Method:      "POST",
				Path:        "/v2/gift-cards/activities",
				BodyParams: []endpoint.Param{
					{Name: "idempotency_key", Type: endpoint.TypeString, Description: "Unique key for this request."},
					{Name: "gift_card_activity", Type: endpoint.TypeObject, Description: "The activity to create."},
				},
			},
		},
	}
}
