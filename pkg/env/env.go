// Package env holds the identifier-to-definition mapping the evaluator
// consults when it strips down a Var symbol.
package env

import "github.com/vic/alienvm/pkg/symbol"

// Environment maps a top-level identifier to its lowered body. It is
// built once from a parsed program and is read-only for the lifetime
// of any reduction: §4.2 requires lookups not to mutate it, and §3's
// referential-transparency invariant depends on every lookup of the
// same name returning the same body.
type Environment struct {
	defs map[string]*symbol.Symbol
	// order preserves source definition order, mostly useful for
	// diagnostics and for re-emitting a program deterministically.
	order []string
}

// New builds an empty environment.
func New() *Environment {
	return &Environment{defs: make(map[string]*symbol.Symbol)}
}

// Define installs body under name. A second definition of the same name
// overwrites the first, matching the source-defined last-wins behavior
// of §4.2; insertion order for a name that didn't previously exist is
// recorded.
func (e *Environment) Define(name string, body *symbol.Symbol) {
	if _, exists := e.defs[name]; !exists {
		e.order = append(e.order, name)
	}
	e.defs[name] = body
}

// Lookup returns the body bound to name. ok is false for an unknown
// name; the evaluator turns that into a fatal EvalError.
func (e *Environment) Lookup(name string) (body *symbol.Symbol, ok bool) {
	body, ok = e.defs[name]
	return
}

// Names returns the defined identifiers in source order.
func (e *Environment) Names() []string {
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

// Len reports how many distinct names are defined.
func (e *Environment) Len() int { return len(e.defs) }
