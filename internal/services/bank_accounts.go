package services

import "github.com/bobmcallan/square-mcp/internal/endpoint"

// BankAccounts returns the Bank Accounts API operations.
func BankAccounts() Service {
	return Service{
		Name:        "bank_accounts",
		Description: "Linked bank accounts of a Square seller.",
		Endpoints: []endpoint.Descriptor{
			{
				Service:     "bank_accounts",
				Name:        "list",
				Description: "List the bank accounts linked to the Square account.",
				Method:      "GET",
				Path:        "/v2/bank-accounts",
				QueryParams: []endpoint.Param{
					{Name: "cursor", Type: endpoint.TypeString, Description: "Pagination cursor from a previous response."},
					{Name: "limit", Type: endpoint.TypeNumber, Description: "Maximum number of results per page."},
					{Name: "location_id", Type: endpoint.TypeString, Description: "Only return accounts linked to this location."},
				},
			},
			{
				Service:     "bank_accounts",
				Name:        "get_by_v1_id",
				Description: "Get a bank account by its Connect V1 ID.",
				Method:      "GET",
				Path:        "/v2/bank-accounts/by-v1-id/{v1_bank_account_id}",
				PathParams: []endpoint.Param{
					{Name: "v1_bank_account_id", Type: endpoint.TypeString, Required: true, Description: "Connect V1 ID of the bank account."},
				},
			},
			{
				Service:     "bank_accounts",
				Name:        "get",
				Description: "Get a bank account by ID.",
				Method:      "GET",
				Path:        "/v2/bank-accounts/{bank_account_id}",
				PathParams: []endpoint.Param{
					{Name: "bank_account_id", Type: endpoint.TypeString, Required: true, Description: "Square-issued ID of the bank account."},
				},
			},
		},
	}
}
