package recipe

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Factory builds a recipe from its options.
type Factory func(opts Options) (Recipe, error)

type registration struct {
	desc    Descriptor
	factory Factory
}

// Registry maps recipe names to factories. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]registration
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]registration)}
}

// Register adds a recipe factory under desc.Name.
func (r *Registry) Register(desc Descriptor, f Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.entries[desc.Name]; dup {
		return fmt.Errorf("recipe %s already registered", desc.Name)
	}
	r.entries[desc.Name] = registration{desc: desc, factory: f}
	return nil
}

// New builds the named recipe. Options the recipe does not document are
// rejected.
func (r *Registry) New(name string, opts Options) (Recipe, error) {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown recipe %s", name)
	}
	known := make(map[string]bool, len(e.desc.Options))
	for _, o := range e.desc.Options {
		known[o.Name] = true
	}
	var unknown []string
	for _, k := range opts.Keys() {
		if !known[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("recipe %s: unknown option(s) %s", name, strings.Join(unknown, ", "))
	}
	rec, err := e.factory(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to configure recipe %s: %w", name, err)
	}
	return &configured{Recipe: rec, opts: opts}, nil
}

// configured remembers the options a registry recipe was built with.
type configured struct {
	Recipe
	opts Options
}

func (c *configured) Options() Options { return c.opts }

// Fingerprint identifies a recipe together with its options. Two recipes with
// the same fingerprint make the same edits to the same input.
func Fingerprint(rec Recipe) string {
	name := rec.Descriptor().Name
	if c, ok := rec.(interface{ Options() Options }); ok {
		if fp := c.Options().Fingerprint(); fp != "" {
			return name + "?" + fp
		}
	}
	return name
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e.desc, ok
}

// List returns every registered descriptor sorted by name.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Descriptor, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.desc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
