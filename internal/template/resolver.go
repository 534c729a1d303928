// Package template resolves and applies control templates.
//
// A template builds the visual subtree for a control. Every element a
// template creates records the control as its templated owner; content
// supplied by the user passes through untouched and keeps a nil owner.
package template

import (
	"fmt"

	"github.com/popkit/popkit/internal/tree"
)

// Factory builds the visual subtree for a control. It must return
// exactly one root visual element with its templated owner set to
// owner.
type Factory func(owner tree.Element) (tree.Element, error)

// Resolver maps control kinds to template factories. It is an explicit
// strategy: construct one, register factories, and hand it to whatever
// needs template application. There is no process-wide registry.
type Resolver struct {
	factories map[string]Factory
}

// NewResolver creates an empty resolver.
func NewResolver() *Resolver {
	return &Resolver{factories: make(map[string]Factory)}
}

// Register associates kind with factory, replacing any previous
// registration.
func (r *Resolver) Register(kind string, factory Factory) {
	r.factories[kind] = factory
}

// Resolve returns the factory registered for kind.
func (r *Resolver) Resolve(kind string) (Factory, bool) {
	f, ok := r.factories[kind]
	return f, ok
}

// Kinds returns the registered kinds.
func (r *Resolver) Kinds() []string {
	out := make([]string, 0, len(r.factories))
	for kind := range r.factories {
		out = append(out, kind)
	}
	return out
}

// Apply resolves the template for control's kind, builds it, and
// attaches the produced root as control's single visual child. Returns
// the produced root. Errors from the factory propagate unmodified.
func (r *Resolver) Apply(control tree.Element) (tree.Element, error) {
	factory, ok := r.Resolve(control.Kind())
	if !ok {
		return nil, fmt.Errorf("no template registered for kind %q", control.Kind())
	}

	root, err := factory(control)
	if err != nil {
		return nil, err
	}

	control.AddVisualChild(root)
	return root, nil
}
