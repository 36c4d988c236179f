package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/square-mcp/internal/config"
)

// versionInfo holds the version fields reported by get_version.
type versionInfo struct {
	Version       string `json:"version"`
	Build         string `json:"build"`
	Commit        string `json:"commit"`
	SquareVersion string `json:"square_version"`
	Environment   string `json:"environment"`
	Services      int    `json:"services"`
}

// VersionTool returns the mcp.Tool definition for get_version.
func VersionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get the square-mcp server version and the Square API version it targets. Use this to verify connectivity."),
	)
}

// VersionToolHandler reports build info without calling Square.
func (rt *Router) VersionToolHandler() server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out, err := json.Marshal(versionInfo{
			Version:       config.GetVersion(),
			Build:         config.GetBuild(),
			Commit:        config.GetGitCommit(),
			SquareVersion: rt.cfg.SquareVersion,
			Environment:   rt.cfg.Environment,
			Services:      len(rt.registry.Services()),
		})
		if err != nil {
			return errorResult("failed to marshal version info"), nil
		}
		return textResult(string(out)), nil
	}
}
