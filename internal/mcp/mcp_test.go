package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/square-mcp/internal/common"
	"github.com/bobmcallan/square-mcp/internal/dispatch"
	"github.com/bobmcallan/square-mcp/internal/endpoint"
	"github.com/bobmcallan/square-mcp/internal/services"
)

// --- Helpers ---

func testLogger() *common.Logger {
	return common.NewSilentLogger()
}

// fakeDispatcher records calls and returns a canned response.
type fakeDispatcher struct {
	mu       sync.Mutex
	calls    []fakeCall
	response string
	err      error
}

type fakeCall struct {
	desc       endpoint.Descriptor
	credential string
	args       dispatch.Args
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, desc endpoint.Descriptor, credential string, args dispatch.Args) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fakeCall{desc: desc, credential: credential, args: args})
	return f.response, f.err
}

func (f *fakeDispatcher) last(t *testing.T) fakeCall {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		t.Fatal("expected a dispatch call")
	}
	return f.calls[len(f.calls)-1]
}

func newTestServer(d Dispatcher, cfg RouterConfig) (*mcpserver.MCPServer, *Router) {
	rt := NewRouter(services.Default(), d, testLogger(), cfg)
	return NewMCPServer("test", "1.0.0", rt), rt
}

// listTools calls tools/list on the MCPServer and returns the tools.
func listTools(t *testing.T, s *mcpserver.MCPServer) []mcpgo.Tool {
	t.Helper()

	msg := json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`)
	result := s.HandleMessage(t.Context(), msg)

	resp, ok := result.(mcpgo.JSONRPCResponse)
	if !ok {
		t.Fatalf("expected JSONRPCResponse, got %T", result)
	}

	resultJSON, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("failed to marshal result: %v", err)
	}

	var toolsResult mcpgo.ListToolsResult
	if err := json.Unmarshal(resultJSON, &toolsResult); err != nil {
		t.Fatalf("failed to unmarshal ListToolsResult: %v", err)
	}
	return toolsResult.Tools
}

// callTool calls a tool on the MCPServer and returns the result.
func callTool(t *testing.T, s *mcpserver.MCPServer, name string, args map[string]interface{}) *mcpgo.CallToolResult {
	t.Helper()

	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}
	paramsJSON, _ := json.Marshal(params)

	msg := json.RawMessage(`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":` + string(paramsJSON) + `}`)
	result := s.HandleMessage(t.Context(), msg)

	resp, ok := result.(mcpgo.JSONRPCResponse)
	if !ok {
		t.Fatalf("expected JSONRPCResponse, got %T", result)
	}

	resultJSON, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("failed to marshal result: %v", err)
	}

	var toolResult mcpgo.CallToolResult
	if err := json.Unmarshal(resultJSON, &toolResult); err != nil {
		t.Fatalf("failed to unmarshal CallToolResult: %v", err)
	}
	return &toolResult
}

// extractText extracts the text field from an MCP content block.
func extractText(t *testing.T, content mcpgo.Content) string {
	t.Helper()
	contentJSON, _ := json.Marshal(content)
	var tc struct {
		Text string `json:"text"`
	}
	json.Unmarshal(contentJSON, &tc)
	return tc.Text
}

func findTool(t *testing.T, tools []mcpgo.Tool, name string) mcpgo.Tool {
	t.Helper()
	for _, tool := range tools {
		if tool.Name == name {
			return tool
		}
	}
	t.Fatalf("tool %s not registered", name)
	return mcpgo.Tool{}
}

func propertyType(t *testing.T, tool mcpgo.Tool, name string) string {
	t.Helper()
	prop, ok := tool.InputSchema.Properties[name].(map[string]any)
	if !ok {
		t.Fatalf("tool %s has no property %s", tool.Name, name)
	}
	typ, _ := prop["type"].(string)
	return typ
}

// --- Tool registration ---

func TestRegisterTools_Count(t *testing.T) {
	s, _ := newTestServer(&fakeDispatcher{}, RouterConfig{})
	tools := listTools(t, s)

	// 20 endpoint tools + get_service_info, make_api_request, get_version
	if len(tools) != 23 {
		t.Errorf("expected 23 tools, got %d", len(tools))
	}
	for _, name := range []string{"locations_retrieve", "oauth_obtain_token", "get_service_info", "make_api_request", "get_version"} {
		findTool(t, tools, name)
	}
}

func TestRegisterTools_FilteredRegistry(t *testing.T) {
	reg, err := services.Default().Filter([]string{"sites"})
	if err != nil {
		t.Fatal(err)
	}
	rt := NewRouter(reg, &fakeDispatcher{}, nil, RouterConfig{})
	s := NewMCPServer("test", "1.0.0", rt)

	if n := len(listTools(t, s)); n != 4 {
		t.Errorf("expected 1 endpoint tool + 3 router tools, got %d", n)
	}
}

func TestRegisterTools_ToolsHaveDescriptions(t *testing.T) {
	s, _ := newTestServer(&fakeDispatcher{}, RouterConfig{})
	for _, tool := range listTools(t, s) {
		if tool.Description == "" {
			t.Errorf("tool %s has no description", tool.Name)
		}
	}
}

func TestBuildTool_RequiredPathParam(t *testing.T) {
	d, _ := services.Default().Lookup("locations", "retrieve")
	tool := BuildTool(d)

	if tool.Name != "locations_retrieve" {
		t.Errorf("expected locations_retrieve, got %s", tool.Name)
	}
	if len(tool.InputSchema.Required) != 1 || tool.InputSchema.Required[0] != "location_id" {
		t.Errorf("expected location_id required, got %v", tool.InputSchema.Required)
	}
	if typ := propertyType(t, tool, "location_id"); typ != "string" {
		t.Errorf("expected string, got %s", typ)
	}
}

func TestBuildTool_ParamTypes(t *testing.T) {
	d := endpoint.Descriptor{
		Service: "things",
		Name:    "create",
		Method:  "POST",
		Path:    "/v2/things",
		QueryParams: []endpoint.Param{
			{Name: "limit", Type: endpoint.TypeNumber},
			{Name: "dry_run", Type: endpoint.TypeBoolean},
		},
		BodyParams: []endpoint.Param{
			{Name: "thing", Type: endpoint.TypeObject},
			{Name: "tags", Type: endpoint.TypeArray},
			{Name: "note"},
		},
	}
	tool := BuildTool(d)

	want := map[string]string{
		"limit":   "number",
		"dry_run": "boolean",
		"thing":   "object",
		"tags":    "array",
		"note":    "string",
	}
	for name, typ := range want {
		if got := propertyType(t, tool, name); got != typ {
			t.Errorf("%s: expected %s, got %s", name, typ, got)
		}
	}
	if len(tool.InputSchema.Required) != 0 {
		t.Errorf("expected no required params, got %v", tool.InputSchema.Required)
	}
	if tool.Description != "POST /v2/things" {
		t.Errorf("expected fallback description, got %s", tool.Description)
	}
}

// --- Endpoint tools against a live dispatcher ---

func TestEndpointTool_GET_PathParam(t *testing.T) {
	var receivedPath, receivedAuth string
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedPath = r.URL.Path
		receivedAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"location":{"id":"main"}}`))
	}))
	defer mockServer.Close()

	d := dispatch.New(mockServer.URL)
	s, _ := newTestServer(d, RouterConfig{DefaultCredential: "configured-token"})

	result := callTool(t, s, "locations_retrieve", map[string]interface{}{"location_id": "main"})

	if result.IsError {
		t.Fatalf("expected non-error result, got %s", extractText(t, result.Content[0]))
	}
	if receivedPath != "/v2/locations/main" {
		t.Errorf("expected /v2/locations/main, got %s", receivedPath)
	}
	if receivedAuth != "Bearer configured-token" {
		t.Errorf("expected configured token, got %s", receivedAuth)
	}
	if text := extractText(t, result.Content[0]); text != `{"location":{"id":"main"}}` {
		t.Errorf("expected raw body, got %s", text)
	}
}

func TestEndpointTool_GET_QueryParams(t *testing.T) {
	var receivedQuery string
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedQuery = r.URL.RawQuery
		w.Write([]byte(`{"segments":[]}`))
	}))
	defer mockServer.Close()

	s, _ := newTestServer(dispatch.New(mockServer.URL), RouterConfig{})
	result := callTool(t, s, "customer_segments_list", map[string]interface{}{"limit": 5, "cursor": "abc"})

	if result.IsError {
		t.Fatalf("expected non-error result, got %s", extractText(t, result.Content[0]))
	}
	if receivedQuery != "cursor=abc&limit=5" {
		t.Errorf("expected cursor=abc&limit=5, got %s", receivedQuery)
	}
}

func TestEndpointTool_POST_BodyFromArgs(t *testing.T) {
	var receivedBody map[string]interface{}
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &receivedBody)
		w.Write([]byte(`{"domain_verification_status":"VERIFIED"}`))
	}))
	defer mockServer.Close()

	s, _ := newTestServer(dispatch.New(mockServer.URL), RouterConfig{})
	result := callTool(t, s, "apple_pay_register_domain", map[string]interface{}{"domain_name": "example.com"})

	if result.IsError {
		t.Fatalf("expected non-error result, got %s", extractText(t, result.Content[0]))
	}
	if receivedBody["domain_name"] != "example.com" {
		t.Errorf("expected domain_name in body, got %v", receivedBody)
	}
}

func TestEndpointTool_MissingRequiredPathParam(t *testing.T) {
	var calls atomic.Int32
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer mockServer.Close()

	s, _ := newTestServer(dispatch.New(mockServer.URL), RouterConfig{})
	result := callTool(t, s, "locations_retrieve", map[string]interface{}{})

	if !result.IsError {
		t.Error("expected error result for missing required param")
	}
	if text := extractText(t, result.Content[0]); !strings.Contains(text, "location_id") {
		t.Errorf("expected error to mention 'location_id', got: %s", text)
	}
	if calls.Load() != 0 {
		t.Errorf("expected no request to Square, got %d", calls.Load())
	}
}

func TestEndpointTool_APIError(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("not found"))
	}))
	defer mockServer.Close()

	s, _ := newTestServer(dispatch.New(mockServer.URL), RouterConfig{})
	result := callTool(t, s, "customer_segments_retrieve", map[string]interface{}{"segment_id": "gv2:X"})

	if !result.IsError {
		t.Fatal("expected error result for 404")
	}
	if text := extractText(t, result.Content[0]); text != "Error: not found" {
		t.Errorf("expected 'Error: not found', got %s", text)
	}
}

// --- Credential resolution ---

func TestEndpointToolHandler_ContextCredentialWins(t *testing.T) {
	fd := &fakeDispatcher{response: `{}`}
	rt := NewRouter(services.Default(), fd, testLogger(), RouterConfig{DefaultCredential: "configured"})
	d, _ := rt.Registry().Lookup("sites", "list")

	req := mcpgo.CallToolRequest{}
	req.Params.Name = "sites_list"
	req.Params.Arguments = map[string]any{}

	ctx := WithCredential(t.Context(), "from-request")
	if _, err := rt.EndpointToolHandler(d)(ctx, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := fd.last(t).credential; got != "from-request" {
		t.Errorf("expected request credential, got %s", got)
	}

	if _, err := rt.EndpointToolHandler(d)(t.Context(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := fd.last(t).credential; got != "configured" {
		t.Errorf("expected configured credential, got %s", got)
	}
}

func TestEndpointToolHandler_DispatchErrorIsToolError(t *testing.T) {
	fd := &fakeDispatcher{err: errors.New("square request failed: connection refused")}
	rt := NewRouter(services.Default(), fd, testLogger(), RouterConfig{})
	d, _ := rt.Registry().Lookup("sites", "list")

	result, err := rt.EndpointToolHandler(d)(t.Context(), mcpgo.CallToolRequest{})
	if err != nil {
		t.Fatalf("expected tool error, not protocol error: %v", err)
	}
	if !result.IsError {
		t.Error("expected IsError result")
	}
}

// --- get_service_info ---

func TestServiceInfo_ListsAllServices(t *testing.T) {
	s, _ := newTestServer(&fakeDispatcher{}, RouterConfig{})
	result := callTool(t, s, "get_service_info", map[string]interface{}{})

	if result.IsError {
		t.Fatal("expected non-error result")
	}
	var list []serviceSummary
	if err := json.Unmarshal([]byte(extractText(t, result.Content[0])), &list); err != nil {
		t.Fatalf("expected JSON list: %v", err)
	}
	if len(list) != 8 {
		t.Errorf("expected 8 services, got %d", len(list))
	}
	if list[0].Name != "apple_pay" || list[0].Operations[0] != "register_domain" {
		t.Errorf("unexpected first entry %+v", list[0])
	}
}

func TestServiceInfo_SingleService(t *testing.T) {
	s, _ := newTestServer(&fakeDispatcher{}, RouterConfig{})
	result := callTool(t, s, "get_service_info", map[string]interface{}{"service": "locations"})

	var detail serviceDetail
	if err := json.Unmarshal([]byte(extractText(t, result.Content[0])), &detail); err != nil {
		t.Fatalf("expected JSON detail: %v", err)
	}
	if len(detail.Operations) != 4 {
		t.Errorf("expected 4 operations, got %d", len(detail.Operations))
	}
	if detail.Operations[2].Path != "/v2/locations/{location_id}" {
		t.Errorf("expected retrieve path, got %s", detail.Operations[2].Path)
	}
}

func TestServiceInfo_UnknownService(t *testing.T) {
	s, _ := newTestServer(&fakeDispatcher{}, RouterConfig{})
	result := callTool(t, s, "get_service_info", map[string]interface{}{"service": "payments"})

	if !result.IsError {
		t.Error("expected error for unknown service")
	}
}

// --- make_api_request ---

func TestAPIRequest_Routes(t *testing.T) {
	fd := &fakeDispatcher{response: `{"location":{}}`}
	s, _ := newTestServer(fd, RouterConfig{})

	result := callTool(t, s, "make_api_request", map[string]interface{}{
		"service": "locations",
		"method":  "update",
		"request": map[string]interface{}{
			"location_id": "L1",
			"location":    map[string]interface{}{"name": "New"},
		},
	})

	if result.IsError {
		t.Fatalf("expected non-error result, got %s", extractText(t, result.Content[0]))
	}
	call := fd.last(t)
	if call.desc.Service != "locations" || call.desc.Name != "update" {
		t.Errorf("expected locations.update, got %s.%s", call.desc.Service, call.desc.Name)
	}
	if call.args["location_id"] != "L1" {
		t.Errorf("expected request object forwarded, got %v", call.args)
	}
}

func TestAPIRequest_NoRequestObject(t *testing.T) {
	fd := &fakeDispatcher{response: `{}`}
	s, _ := newTestServer(fd, RouterConfig{})

	result := callTool(t, s, "make_api_request", map[string]interface{}{"service": "sites", "method": "list"})
	if result.IsError {
		t.Fatalf("expected non-error result, got %s", extractText(t, result.Content[0]))
	}
	if len(fd.last(t).args) != 0 {
		t.Errorf("expected empty args, got %v", fd.last(t).args)
	}
}

func TestAPIRequest_Errors(t *testing.T) {
	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{"missing service", map[string]interface{}{"method": "list"}, "service parameter is required"},
		{"missing method", map[string]interface{}{"service": "sites"}, "method parameter is required"},
		{"unknown service", map[string]interface{}{"service": "payments", "method": "list"}, `unknown service "payments"`},
		{"unknown operation", map[string]interface{}{"service": "sites", "method": "delete"}, `unknown operation "delete"`},
		{"request not object", map[string]interface{}{"service": "sites", "method": "list", "request": "x"}, "request must be an object"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fd := &fakeDispatcher{}
			s, _ := newTestServer(fd, RouterConfig{})
			result := callTool(t, s, "make_api_request", tt.args)
			if !result.IsError {
				t.Fatal("expected error result")
			}
			if text := extractText(t, result.Content[0]); !strings.Contains(text, tt.want) {
				t.Errorf("expected %q in %q", tt.want, text)
			}
			if len(fd.calls) != 0 {
				t.Errorf("expected no dispatch, got %d", len(fd.calls))
			}
		})
	}
}

// --- get_version ---

func TestVersionTool(t *testing.T) {
	s, _ := newTestServer(&fakeDispatcher{}, RouterConfig{SquareVersion: "2025-04-16", Environment: "sandbox"})
	result := callTool(t, s, "get_version", map[string]interface{}{})

	var info versionInfo
	if err := json.Unmarshal([]byte(extractText(t, result.Content[0])), &info); err != nil {
		t.Fatalf("expected JSON: %v", err)
	}
	if info.Version != "dev" {
		t.Errorf("expected dev, got %s", info.Version)
	}
	if info.SquareVersion != "2025-04-16" || info.Environment != "sandbox" {
		t.Errorf("unexpected info %+v", info)
	}
	if info.Services != 8 {
		t.Errorf("expected 8 services, got %d", info.Services)
	}
}
