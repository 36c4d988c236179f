// Package services holds the static endpoint tables for the Square API
// services exposed as tools, and the registry that indexes them.
package services

import (
	"fmt"
	"sort"

	"github.com/bobmcallan/square-mcp/internal/endpoint"
)

// Service is one Square API area and its operations.
type Service struct {
	Name        string
	Description string
	Endpoints   []endpoint.Descriptor
}

// Endpoint returns the operation called name.
func (s Service) Endpoint(name string) (endpoint.Descriptor, bool) {
	for _, d := range s.Endpoints {
		if d.Name == name {
			return d, true
		}
	}
	return endpoint.Descriptor{}, false
}

// Registry is a read-only index of services. It is safe for concurrent use.
type Registry struct {
	services map[string]Service
	names    []string
}

// NewRegistry validates every descriptor and indexes the services by name.
func NewRegistry(services ...Service) (*Registry, error) {
	r := &Registry{services: make(map[string]Service, len(services))}
	for _, s := range services {
		if s.Name == "" {
			return nil, fmt.Errorf("service has empty name")
		}
		if _, dup := r.services[s.Name]; dup {
			return nil, fmt.Errorf("duplicate service %q", s.Name)
		}
		ops := make(map[string]bool, len(s.Endpoints))
		for _, d := range s.Endpoints {
			if d.Service != s.Name {
				return nil, fmt.Errorf("endpoint %s.%s registered under service %q", d.Service, d.Name, s.Name)
			}
			if ops[d.Name] {
				return nil, fmt.Errorf("duplicate operation %s.%s", s.Name, d.Name)
			}
			ops[d.Name] = true
			if err := d.Validate(); err != nil {
				return nil, err
			}
		}
		r.services[s.Name] = s
		r.names = append(r.names, s.Name)
	}
	sort.Strings(r.names)
	return r, nil
}

// All returns every Square service this server knows about.
func All() []Service {
	return []Service{
		ApplePay(),
		BankAccounts(),
		CustomerSegments(),
		Events(),
		GiftCardActivities(),
		Locations(),
		OAuth(),
		Sites(),
	}
}

// Default returns the registry of all services. The tables are static, so an
// invalid one is a programming error.
func Default() *Registry {
	r, err := NewRegistry(All()...)
	if err != nil {
		panic(err)
	}
	return r
}

// Services returns the service names in sorted order.
func (r *Registry) Services() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Service returns the service called name.
func (r *Registry) Service(name string) (Service, bool) {
	s, ok := r.services[name]
	return s, ok
}

// Lookup returns the descriptor for service.operation.
func (r *Registry) Lookup(service, operation string) (endpoint.Descriptor, bool) {
	s, ok := r.services[service]
	if !ok {
		return endpoint.Descriptor{}, false
	}
	return s.Endpoint(operation)
}

// Endpoints returns every descriptor, grouped by service in name order.
func (r *Registry) Endpoints() []endpoint.Descriptor {
	var out []endpoint.Descriptor
	for _, name := range r.names {
		out = append(out, r.services[name].Endpoints...)
	}
	return out
}

// Filter returns a registry holding only the named services. An empty list
// returns r unchanged.
func (r *Registry) Filter(names []string) (*Registry, error) {
	if len(names) == 0 {
		return r, nil
	}
	selected := make([]Service, 0, len(names))
	for _, name := range names {
		s, ok := r.services[name]
		if !ok {
			return nil, fmt.Errorf("unknown service %q (known: %v)", name, r.names)
		}
		selected = append(selected, s)
	}
	return NewRegistry(selected...)
}
