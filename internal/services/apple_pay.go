package services

import "github.com/bobmcallan/square-mcp/internal/endpoint"

// ApplePay returns the Apple Pay API operations.
func ApplePay() Service {
	return Service{
		Name:        "apple_pay",
		Description: "Apple Pay on the Web domain registration.",
		Endpoints: []endpoint.Descriptor{
			{
				Service:     "apple_pay",
				Name:        "register_domain",
				Description: "Activate a domain for use with Apple Pay on the Web and Square.",
				Method:      "POST",
				Path:        "/v2/apple-pay/domains",
				BodyParams: []endpoint.Param{
					{Name: "domain_name", Type: endpoint.TypeString, Description: "Domain to register, e.g. example.com."},
				},
			},
		},
	}
}
