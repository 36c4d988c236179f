package services

import "github.com/bobmcallan/square-mcp/internal/endpoint"

// OAuth returns the OAuth API operations. Obtaining a token is an ordinary
// call; nothing here stores or refreshes tokens.
func OAuth() Service {
	return Service{
		Name:        "oauth",
		Description: "OAuth access token management.",
		Endpoints: []endpoint.Descriptor{
			{
				Service:     "oauth",
				Name:        "revoke_token",
				Description: "Revoke an access token or all tokens of a merchant for an application.",
				Method:      "POST",
				Path:        "/oauth2/revoke",
				BodyParams: []endpoint.Param{
					{Name: "client_id", Type: endpoint.TypeString, Description: "Application ID."},
					{Name: "access_token", Type: endpoint.TypeString, Description: "Token to revoke."},
					{Name: "merchant_id", Type: endpoint.TypeString, Description: "Revoke all tokens of this merchant."},
					{Name: "revoke_only_access_token", Type: endpoint.TypeBoolean, Description: "Keep the refresh token valid."},
				},
			},
			{
				Service:     "oauth",
				Name:        "obtain_token",
				Description: "Exchange an authorization code or refresh token for an access token.",
				Method:      "POST",
				Path:        "/oauth2/token",
				BodyParams: []endpoint.Param{
					{Name: "client_id", Type: endpoint.TypeString, Description: "Application ID."},
					{Name: "client_secret", Type: endpoint.TypeString, Description: "Application secret."},
					{Name: "code", Type: endpoint.TypeString, Description: "Authorization code."},
					{Name: "redirect_uri", Type: endpoint.TypeString, Description: "Redirect URL used for the authorization code."},
					{Name: "grant_type", Type: endpoint.TypeString, Description: "authorization_code, refresh_token or migration_token."},
					{Name: "refresh_token", Type: endpoint.TypeString, Description: "Refresh token."},
					{Name: "code_verifier", Type: endpoint.TypeString, Description: "PKCE code verifier."},
					{Name: "scopes", Type: endpoint.TypeArray, Description: "Requested permissions."},
				},
			},
			{
				Service:     "oauth",
				Name:        "retrieve_token_status",
				Description: "Return information about the access token in the Authorization header.",
				Method:      "POST",
				Path:        "/oauth2/token/status",
			},
		},
	}
}
