package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/vk/akamai2azion/internal/resource"
)

// Converter translates the attributes of one labelled Akamai resource into
// zero or more Azion records appended to out. It must not read records it
// did not append itself. A returned error aborts the whole conversion.
type Converter func(ctx context.Context, g *resource.Globals, label string, attrs map[string]any, out *resource.Collection) error

// Module is the interface that all converter modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds the converters of a single application instance.
type Registry struct {
	converters map[string]Converter
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{converters: make(map[string]Converter)}
}

// NewWithModules creates a Registry and lets every module register into it.
func NewWithModules(modules ...Module) *Registry {
	r := New()
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// RegisterConverter binds an Akamai resource type to its converter.
func (r *Registry) RegisterConverter(sourceType string, fn Converter) {
	if fn == nil {
		panic(fmt.Sprintf("converter for '%s' is nil", sourceType))
	}
	if _, exists := r.converters[sourceType]; exists {
		panic(fmt.Sprintf("converter for '%s' already registered", sourceType))
	}
	slog.Debug("Registering converter.", "source_type", sourceType)
	r.converters[sourceType] = fn
}

// Lookup returns the converter for sourceType.
func (r *Registry) Lookup(sourceType string) (Converter, bool) {
	fn, ok := r.converters[sourceType]
	return fn, ok
}

// Types returns the registered source types, sorted.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.converters))
	for t := range r.converters {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
