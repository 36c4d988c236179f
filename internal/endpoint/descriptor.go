// Package endpoint describes Square API operations as static metadata.
//
// A Descriptor carries everything the dispatcher needs to turn an argument
// map into one HTTP request: the method, a path template with {name}
// placeholders, and the names of the arguments that fill the path and the
// query string. Descriptors are built once at startup and only read after
// that.
package endpoint

import (
	"net/http"
	"regexp"
	"strings"
)

// Param types, used to build tool input schemas.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
)

// Param names one argument of an operation.
type Param struct {
	Name        string `json:"name" validate:"required"`
	Type        string `json:"type" validate:"omitempty,oneof=string number boolean array object"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}

// Descriptor is the static metadata for one API operation.
type Descriptor struct {
	Service     string  `json:"service" validate:"required"`
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description,omitempty"`
	Method      string  `json:"method" validate:"required,oneof=GET POST PUT PATCH DELETE"`
	Path        string  `json:"path" validate:"required,startswith=/"`
	PathParams  []Param `json:"path_params,omitempty" validate:"dive"`
	QueryParams []Param `json:"query_params,omitempty" validate:"dive"`

	// BodyParams documents well-known body fields. The dispatcher forwards
	// every leftover argument whether or not it is listed here.
	BodyParams []Param `json:"body_params,omitempty" validate:"dive"`
}

var placeholderPattern = regexp.MustCompile(`\{([^{}/]+)\}`)

// AllowsBody reports whether requests for this operation may carry a JSON body.
func (d Descriptor) AllowsBody() bool {
	switch strings.ToUpper(d.Method) {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}

// Placeholders returns the {name} placeholders in the path template, in order.
func (d Descriptor) Placeholders() []string {
	matches := placeholderPattern.FindAllStringSubmatch(d.Path, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}

// ToolName is the MCP tool name for the operation.
func (d Descriptor) ToolName() string {
	return d.Service + "_" + d.Name
}

// IsPathParam reports whether name fills a path placeholder.
func (d Descriptor) IsPathParam(name string) bool {
	return hasParam(d.PathParams, name)
}

// IsQueryParam reports whether name is a query-string parameter.
func (d Descriptor) IsQueryParam(name string) bool {
	return hasParam(d.QueryParams, name)
}

func hasParam(params []Param, name string) bool {
	for _, p := range params {
		if p.Name == name {
			return true
		}
	}
	return false
}
