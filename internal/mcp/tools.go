package mcp

import (
	"github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers one tool per registry endpoint plus the
// get_service_info, make_api_request and get_version tools. It returns the
// number of endpoint tools.
func (rt *Router) RegisterTools(s *server.MCPServer) int {
	endpoints := rt.registry.Endpoints()
	for _, desc := range endpoints {
		s.AddTool(BuildTool(desc), rt.EndpointToolHandler(desc))
	}
	s.AddTool(ServiceInfoTool(), rt.ServiceInfoHandler())
	s.AddTool(APIRequestTool(), rt.APIRequestHandler())
	s.AddTool(VersionTool(), rt.VersionToolHandler())
	return len(endpoints)
}

// NewMCPServer creates an MCP server with every router tool registered.
func NewMCPServer(name, version string, rt *Router) *server.MCPServer {
	s := server.NewMCPServer(name, version, server.WithToolCapabilities(true))
	count := rt.RegisterTools(s)
	rt.logger.Info().
		Int("tools", count).
		Int("services", len(rt.registry.Services())).
		Str("base_url", rt.cfg.BaseURL).
		Msg("MCP tools registered")
	return s
}
