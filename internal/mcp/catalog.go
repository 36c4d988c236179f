// Package mcp exposes the Square service registry as MCP tools.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/square-mcp/internal/common"
	"github.com/bobmcallan/square-mcp/internal/dispatch"
	"github.com/bobmcallan/square-mcp/internal/endpoint"
	"github.com/bobmcallan/square-mcp/internal/services"
)

// Dispatcher executes one Square API call.
type Dispatcher interface {
	Dispatch(ctx context.Context, desc endpoint.Descriptor, credential string, args dispatch.Args) (string, error)
}

// RouterConfig holds the settings tool handlers need besides the registry.
type RouterConfig struct {
	// DefaultCredential is used when the MCP request carries no bearer token.
	DefaultCredential string
	Environment       string
	SquareVersion     string
	BaseURL           string
}

// Router maps MCP tools onto registry descriptors and a dispatcher.
type Router struct {
	registry   *services.Registry
	dispatcher Dispatcher
	logger     *common.Logger
	cfg        RouterConfig
}

// NewRouter creates a Router. A nil logger discards output.
func NewRouter(registry *services.Registry, d Dispatcher, logger *common.Logger, cfg RouterConfig) *Router {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Router{
		registry:   registry,
		dispatcher: d,
		logger:     logger,
		cfg:        cfg,
	}
}

// Registry returns the registry the router serves.
func (rt *Router) Registry() *services.Registry {
	return rt.registry
}

// credential picks the request's bearer token over the configured one.
func (rt *Router) credential(ctx context.Context) string {
	if token, ok := CredentialFromContext(ctx); ok {
		return token
	}
	return rt.cfg.DefaultCredential
}

// call dispatches desc and converts the outcome into a tool result.
// Dispatch failures are tool errors, never protocol errors.
func (rt *Router) call(ctx context.Context, tool string, desc endpoint.Descriptor, args dispatch.Args) *mcp.CallToolResult {
	body, err := rt.dispatcher.Dispatch(ctx, desc, rt.credential(ctx), args)
	if err != nil {
		rt.logger.Warn().
			Str("tool", tool).
			Str("service", desc.Service).
			Str("operation", desc.Name).
			Str("error", err.Error()).
			Msg("tool call failed")
		return errorResult("Error: " + err.Error())
	}
	return textResult(body)
}

// BuildTool converts a descriptor into an mcp.Tool whose input schema lists
// the path, query and documented body parameters.
func BuildTool(desc endpoint.Descriptor) mcp.Tool {
	description := desc.Description
	if description == "" {
		description = desc.Method + " " + desc.Path
	}
	opts := []mcp.ToolOption{mcp.WithDescription(description)}
	for _, group := range [][]endpoint.Param{desc.PathParams, desc.QueryParams, desc.BodyParams} {
		for _, p := range group {
			opts = append(opts, buildParamOption(p))
		}
	}
	return mcp.NewTool(desc.ToolName(), opts...)
}

// buildParamOption maps a Param to the matching mcp-go property option.
func buildParamOption(p endpoint.Param) mcp.ToolOption {
	var opts []mcp.PropertyOption
	if p.Description != "" {
		opts = append(opts, mcp.Description(p.Description))
	}
	if p.Required {
		opts = append(opts, mcp.Required())
	}

	switch p.Type {
	case endpoint.TypeNumber:
		return mcp.WithNumber(p.Name, opts...)
	case endpoint.TypeBoolean:
		return mcp.WithBoolean(p.Name, opts...)
	case endpoint.TypeArray:
		opts = append([]mcp.PropertyOption{mcp.WithStringItems()}, opts...)
		return mcp.WithArray(p.Name, opts...)
	case endpoint.TypeObject:
		return mcp.WithObject(p.Name, opts...)
	default:
		return mcp.WithString(p.Name, opts...)
	}
}

// EndpointToolHandler forwards a tool call's arguments to the dispatcher.
// Arguments not named by the descriptor end up in the request body.
func (rt *Router) EndpointToolHandler(desc endpoint.Descriptor) server.ToolHandlerFunc {
	tool := desc.ToolName()
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return rt.call(ctx, tool, desc, dispatch.Args(r.GetArguments())), nil
	}
}
