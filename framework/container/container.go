// Package container is a small IoC container with Laravel-style service
// providers. Bindings are keyed by string abstracts and built by factories.
package container

import (
	"fmt"
	"sort"
	"sync"
)

// Factory builds a concrete value from the container.
type Factory func(c *Container) (any, error)

type binding struct {
	factory   Factory
	singleton bool
}

// Container holds bindings and resolved singleton instances.
type Container struct {
	mu        sync.RWMutex
	bindings  map[string]binding
	instances map[string]any
}

// New creates an empty container.
func New() *Container {
	return &Container{
		bindings:  make(map[string]binding),
		instances: make(map[string]any),
	}
}

// Bind registers a transient factory (new instance each Make).
func (c *Container) Bind(abstract string, factory Factory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.instances, abstract)
	c.bindings[abstract] = binding{factory: factory}
}

// Singleton registers a factory whose result is cached after first resolution.
//
//	// Laravel: $app->singleton('forms', fn($app) => new Registry(...))
//	c.Singleton("forms", func(c *container.Container) (any, error) {
//	    return forms.Default()
//	})
func (c *Container) Singleton(abstract string, factory Factory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.instances, abstract)
	c.bindings[abstract] = binding{factory: factory, singleton: true}
}

// Instance registers a pre-built value.
func (c *Container) Instance(abstract string, instance any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.bindings, abstract)
	c.instances[abstract] = instance
}

// Make resolves an abstract.
func (c *Container) Make(abstract string) (any, error) {
	c.mu.RLock()
	if inst, ok := c.instances[abstract]; ok {
		c.mu.RUnlock()
		return inst, nil
	}
	b, ok := c.bindings[abstract]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("container: no binding registered for [%s]", abstract)
	}

	instance, err := b.factory(c)
	if err != nil {
		return nil, fmt.Errorf("container: resolving [%s]: %w", abstract, err)
	}
	if b.singleton {
		c.mu.Lock()
		// first resolution wins when two goroutines race
		if existing, ok := c.instances[abstract]; ok {
			instance = existing
		} else {
			c.instances[abstract] = instance
		}
		c.mu.Unlock()
	}
	return instance, nil
}

// Bound reports whether an abstract has been registered.
func (c *Container) Bound(abstract string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, hasBinding := c.bindings[abstract]
	_, hasInstance := c.instances[abstract]
	return hasBinding || hasInstance
}

// Bindings returns all registered abstracts, sorted.
func (c *Container) Bindings() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	seen := make(map[string]bool, len(c.bindings)+len(c.instances))
	for k := range c.bindings {
		seen[k] = true
	}
	for k := range c.instances {
		seen[k] = true
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Resolve calls Make and type-asserts the result.
//
//	registry, err := container.Resolve[*forms.Registry](c, "forms")
func Resolve[T any](c *Container, abstract string) (T, error) {
	var zero T
	instance, err := c.Make(abstract)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("container: [%s] resolved to %T, not %T", abstract, instance, zero)
	}
	return typed, nil
}

// MustResolve is Resolve that panics; for use after a successful Boot.
func MustResolve[T any](c *Container, abstract string) T {
	typed, err := Resolve[T](c, abstract)
	if err != nil {
		panic(err)
	}
	return typed
}
