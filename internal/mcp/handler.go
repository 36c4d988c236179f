package mcp

import (
	"encoding/json"
	"net/http"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/square-mcp/internal/common"
)

// Handler is the HTTP handler for the MCP endpoint.
// It wraps mcp-go's StreamableHTTPServer and delegates to it.
type Handler struct {
	streamable     *mcpserver.StreamableHTTPServer
	logger         *common.Logger
	allowAnonymous bool
}

// NewHandler creates the streamable HTTP handler for s. When no access token
// is configured, allowAnonymous is false and every request must carry its own
// bearer token.
func NewHandler(s *mcpserver.MCPServer, logger *common.Logger, allowAnonymous bool) *Handler {
	streamable := mcpserver.NewStreamableHTTPServer(s,
		mcpserver.WithStateLess(true),
		mcpserver.WithHTTPContextFunc(credentialFromRequest),
	)
	return &Handler{
		streamable:     streamable,
		logger:         logger,
		allowAnonymous: allowAnonymous,
	}
}

// ServeHTTP rejects requests that have no credential to forward to Square
// and delegates the rest to the streamable server.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.allowAnonymous && bearerToken(r) == "" {
		h.logger.Debug().Str("path", r.URL.Path).Msg("rejecting MCP request without bearer token")
		w.Header().Set("WWW-Authenticate", `Bearer realm="square-mcp"`)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{
			"error":             "unauthorized",
			"error_description": "A Square access token is required as a Bearer token",
		})
		return
	}
	h.streamable.ServeHTTP(w, r)
}
