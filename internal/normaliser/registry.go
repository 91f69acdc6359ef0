package normaliser

import (
	"fmt"
	"sort"
)

// BuilderFunc creates a Stage from a compiled configuration.
type BuilderFunc func(cfg *Config) (Stage, error)

// Registry maps stage names to their builders.
// It allows chains to be assembled by name, for example to run a single
// stage from the command line.
type Registry struct {
	builders map[string]BuilderFunc
}

// NewRegistry creates an empty stage registry.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[string]BuilderFunc),
	}
}

// Register adds a stage builder to the registry.
// Name should match the stage's Name() return value.
func (r *Registry) Register(name string, builder BuilderFunc) {
	r.builders[name] = builder
}

// Build creates a stage by name.
// Returns error if the stage name is not registered.
func (r *Registry) Build(name string, cfg *Config) (Stage, error) {
	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown stage: %s", name)
	}
	return builder(cfg)
}

// BuildPipeline creates a pipeline from the named stages, in the given order.
func (r *Registry) BuildPipeline(cfg *Config, names ...string) (*Pipeline, error) {
	p := NewPipeline()
	for _, name := range names {
		stage, err := r.Build(name, cfg)
		if err != nil {
			return nil, err
		}
		p.Add(stage)
	}
	return p, nil
}

// Has returns true if a stage with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.builders[name]
	return ok
}

// Names returns all registered stage names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
