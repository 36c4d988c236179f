package dispatch

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/bobmcallan/square-mcp/internal/endpoint"
)

// Args are the caller-supplied arguments of one call, keyed by parameter name.
type Args map[string]any

// Request is an outgoing call resolved from a descriptor and its arguments.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   []byte // nil when no body is sent
}

// URL returns the path with its encoded query string, relative to the base URL.
func (r *Request) URL() string {
	if len(r.Query) == 0 {
		return r.Path
	}
	return r.Path + "?" + r.Query.Encode()
}

// Build resolves desc and args into a Request without touching the network.
// args is not modified.
func Build(desc endpoint.Descriptor, args Args) (*Request, error) {
	path := desc.Path
	for _, p := range desc.PathParams {
		val, ok := lookup(args, p.Name)
		if !ok {
			if p.Required {
				return nil, &MissingParameterError{Service: desc.Service, Operation: desc.Name, Param: p.Name}
			}
			continue
		}
		path = strings.ReplaceAll(path, "{"+p.Name+"}", url.PathEscape(formatScalar(val)))
	}

	query := url.Values{}
	for _, p := range desc.QueryParams {
		val, ok := lookup(args, p.Name)
		if !ok {
			continue
		}
		for _, s := range queryStrings(val) {
			query.Add(p.Name, s)
		}
	}

	req := &Request{
		Method: strings.ToUpper(desc.Method),
		Path:   path,
		Query:  query,
	}

	if desc.AllowsBody() {
		rest := Remainder(desc, args)
		if len(rest) > 0 {
			body, err := json.Marshal(rest)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal request body: %w", err)
			}
			req.Body = body
		}
	}

	return req, nil
}

// Remainder returns a new map holding the arguments that are neither path nor
// query parameters of desc.
func Remainder(desc endpoint.Descriptor, args Args) Args {
	rest := make(Args, len(args))
	for k, v := range args {
		if desc.IsPathParam(k) || desc.IsQueryParam(k) {
			continue
		}
		rest[k] = v
	}
	return rest
}

// lookup treats nil and the empty string as absent.
func lookup(args Args, name string) (any, bool) {
	v, ok := args[name]
	if !ok || v == nil {
		return nil, false
	}
	if s, isStr := v.(string); isStr && s == "" {
		return nil, false
	}
	return v, true
}

// queryStrings renders a query value; slices become repeated keys.
func queryStrings(v any) []string {
	switch x := v.(type) {
	case []string:
		return x
	case []any:
		out := make([]string, 0, len(x))
		for _, item := range x {
			if item == nil {
				continue
			}
			out = append(out, formatScalar(item))
		}
		return out
	default:
		return []string{formatScalar(v)}
	}
}

func formatScalar(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		return x.String()
	case fmt.Stringer:
		return x.String()
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	default:
		return fmt.Sprint(x)
	}
}
