package core

import (
	"context"
	"slices"
	"sync"

	"github.com/jmgilman/go/vfs/errors"
)

// Factory constructs an uninitialized backend from a Config.
type Factory func(cfg Config) (Backend, error)

// Type describes a backend type: its scheme, its declared capabilities and
// how to construct instances.
type Type struct {
	Scheme       string
	Capabilities Capabilities
	New          Factory
}

// Registry maps schemes to backend types. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	types map[string]Type
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]Type)}
}

// Register adds a backend type. Registering a scheme twice yields CONFLICT.
func (r *Registry) Register(t Type) error {
	if t.Scheme == "" || t.New == nil {
		return errors.New(errors.CodeInvalidInput, "backend type needs a scheme and a factory")
	}
	if !t.Capabilities.Has(CapStat) {
		return errors.Newf(errors.CodeInvalidInput, "backend type %q does not declare stat", t.Scheme)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.types[t.Scheme]; ok {
		return errors.Newf(errors.CodeConflict, "scheme %q already registered", t.Scheme)
	}
	r.types[t.Scheme] = t
	return nil
}

// Lookup returns the backend type registered for scheme.
func (r *Registry) Lookup(scheme string) (Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[scheme]
	return t, ok
}

// Schemes returns the registered schemes in lexical order.
func (r *Registry) Schemes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.types))
	for scheme := range r.types {
		out = append(out, scheme)
	}
	slices.Sort(out)
	return out
}

// New constructs an uninitialized backend of the given scheme.
func (r *Registry) New(scheme string, cfg Config) (Backend, error) {
	t, ok := r.Lookup(scheme)
	if !ok {
		return nil, errors.WithContext(
			errors.Newf(errors.CodeUnsupported, "no backend registered for scheme %q", scheme),
			"scheme", scheme,
		)
	}
	b, err := t.New(cfg)
	if err != nil {
		return nil, err
	}
	if b.Scheme() != t.Scheme {
		_ = b.Close()
		return nil, errors.Newf(errors.CodeInvalidConfig, "factory for %q built a %q backend", t.Scheme, b.Scheme())
	}
	return b, nil
}

// Open constructs a backend of the given scheme and initializes it.
func (r *Registry) Open(ctx context.Context, scheme string, cfg Config) (Backend, error) {
	b, err := r.New(scheme, cfg)
	if err != nil {
		return nil, err
	}
	if err := b.Init(ctx); err != nil {
		_ = b.Close()
		return nil, err
	}
	return b, nil
}
