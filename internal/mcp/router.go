package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/square-mcp/internal/dispatch"
	"github.com/bobmcallan/square-mcp/internal/endpoint"
)

// serviceSummary is one entry of the get_service_info listing.
type serviceSummary struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Operations  []string `json:"operations"`
}

// serviceDetail is get_service_info's answer for a single service.
type serviceDetail struct {
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Operations  []endpoint.Descriptor `json:"operations"`
}

// ServiceInfoTool returns the get_service_info tool definition.
func ServiceInfoTool() mcp.Tool {
	return mcp.NewTool("get_service_info",
		mcp.WithDescription("Describe the available Square services. With a service name, lists its operations with method, path and parameters; without one, lists all services."),
		mcp.WithString("service", mcp.Description("Service name, e.g. 'locations'. Omit to list all services.")),
	)
}

// ServiceInfoHandler answers get_service_info from the registry alone.
func (rt *Router) ServiceInfoHandler() server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := r.GetString("service", "")

		var out any
		if name == "" {
			list := make([]serviceSummary, 0, len(rt.registry.Services()))
			for _, n := range rt.registry.Services() {
				s, _ := rt.registry.Service(n)
				ops := make([]string, 0, len(s.Endpoints))
				for _, d := range s.Endpoints {
					ops = append(ops, d.Name)
				}
				list = append(list, serviceSummary{Name: s.Name, Description: s.Description, Operations: ops})
			}
			out = list
		} else {
			s, ok := rt.registry.Service(name)
			if !ok {
				return errorResult(fmt.Sprintf("Error: unknown service %q", name)), nil
			}
			out = serviceDetail{Name: s.Name, Description: s.Description, Operations: s.Endpoints}
		}

		b, err := json.Marshal(out)
		if err != nil {
			return errorResult("Error: failed to marshal service info"), nil
		}
		return textResult(string(b)), nil
	}
}

// APIRequestTool returns the make_api_request tool definition.
func APIRequestTool() mcp.Tool {
	return mcp.NewTool("make_api_request",
		mcp.WithDescription("Call any Square API operation by service and operation name. Use get_service_info to discover operations and their parameters."),
		mcp.WithString("service", mcp.Required(), mcp.Description("Service name, e.g. 'locations'.")),
		mcp.WithString("method", mcp.Required(), mcp.Description("Operation name within the service, e.g. 'retrieve'.")),
		mcp.WithObject("request", mcp.Description("Operation arguments: path and query parameters by name, any other fields are sent as the JSON body.")),
	)
}

// APIRequestHandler resolves service/method in the registry and dispatches
// the request object as the call's arguments.
func (rt *Router) APIRequestHandler() server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		service := r.GetString("service", "")
		if service == "" {
			return errorResult("Error: service parameter is required"), nil
		}
		operation := r.GetString("method", "")
		if operation == "" {
			return errorResult("Error: method parameter is required"), nil
		}

		desc, ok := rt.registry.Lookup(service, operation)
		if !ok {
			if _, known := rt.registry.Service(service); !known {
				return errorResult(fmt.Sprintf("Error: unknown service %q", service)), nil
			}
			return errorResult(fmt.Sprintf("Error: unknown operation %q for service %q", operation, service)), nil
		}

		var args dispatch.Args
		if raw, present := r.GetArguments()["request"]; present && raw != nil {
			m, isObject := raw.(map[string]any)
			if !isObject {
				return errorResult("Error: request must be an object"), nil
			}
			args = dispatch.Args(m)
		}

		return rt.call(ctx, "make_api_request", desc, args), nil
	}
}
