package tools

import (
	"context"
	"sort"
)

// Tool defines the interface for all executor capabilities.
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]any // JSON Schema for the tool's inputs
	Execute(ctx context.Context, input string) (string, error)
}

// Registry manages the set of available tools.
type Registry struct {
	Tools map[string]Tool
}

func NewRegistry() *Registry {
	return &Registry{
		Tools: make(map[string]Tool),
	}
}

func (r *Registry) Register(t Tool) {
	r.Tools[t.Name()] = t
}

func (r *Registry) Get(name string) Tool {
	return r.Tools[name]
}

// Subset returns the named tools that exist in the registry, preserving
// the requested order. Unknown names are skipped.
func (r *Registry) Subset(names ...string) []Tool {
	var out []Tool
	for _, name := range names {
		if t := r.Get(name); t != nil {
			out = append(out, t)
		}
	}
	return out
}

// Names lists the registered tool names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.Tools))
	for name := range r.Tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
