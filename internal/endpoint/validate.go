package endpoint

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks the descriptor's fields and that the path template and the
// declared path parameters agree with each other.
func (d Descriptor) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("endpoint %s.%s: %w", d.Service, d.Name, err)
	}

	placeholders := d.Placeholders()
	seen := make(map[string]bool, len(placeholders))
	for _, name := range placeholders {
		if seen[name] {
			return fmt.Errorf("endpoint %s.%s: placeholder {%s} appears twice in %s", d.Service, d.Name, name, d.Path)
		}
		seen[name] = true
		if !d.IsPathParam(name) {
			return fmt.Errorf("endpoint %s.%s: placeholder {%s} has no path parameter", d.Service, d.Name, name)
		}
	}

	names := make(map[string]string)
	for _, group := range []struct {
		in     string
		params []Param
	}{
		{"path", d.PathParams},
		{"query", d.QueryParams},
		{"body", d.BodyParams},
	} {
		for _, p := range group.params {
			if prev, ok := names[p.Name]; ok {
				return fmt.Errorf("endpoint %s.%s: parameter %q declared in both %s and %s", d.Service, d.Name, p.Name, prev, group.in)
			}
			names[p.Name] = group.in
		}
	}

	for _, p := range d.PathParams {
		if !seen[p.Name] {
			return fmt.Errorf("endpoint %s.%s: path parameter %q has no placeholder in %s", d.Service, d.Name, p.Name, d.Path)
		}
	}
	for _, p := range d.QueryParams {
		if p.Required {
			return fmt.Errorf("endpoint %s.%s: query parameter %q cannot be required", d.Service, d.Name, p.Name)
		}
	}
	if len(d.BodyParams) > 0 && !d.AllowsBody() {
		return fmt.Errorf("endpoint %s.%s: %s does not take a body", d.Service, d.Name, d.Method)
	}
	return nil
}
