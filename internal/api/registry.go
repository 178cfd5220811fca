package api

import "fmt"

// Factory constructs a fresh Action instance for one request.
type Factory func() Action

// Registry maps action names to factories. It is populated at startup and
// read-only afterwards.
type Registry struct {
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under a name. Duplicate names are a
// configuration error.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("action name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("action %q has a nil factory", name)
	}
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("action %q is already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// MustRegister panics on a registration error; use only during startup
// wiring, where a bad registration should stop the process.
func (r *Registry) MustRegister(name string, factory Factory) {
	if err := r.Register(name, factory); err != nil {
		panic(fmt.Sprintf("api.MustRegister: %v", err))
	}
}

// Lookup returns the factory for a name.
func (r *Registry) Lookup(name string) (Factory, bool) {
	factory, ok := r.factories[name]
	return factory, ok
}

// Has reports whether a name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.factories[name]
	return ok
}
