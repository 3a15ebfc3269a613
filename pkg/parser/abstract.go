package parser

import (
	"fmt"

	"github.com/vic/alienvm/pkg/symbol"
)

// abstractParams eliminates the prelude form's sigil-prefixed
// parameters from body, innermost (rightmost) parameter first, using
// standard SKI bracket abstraction. No new Symbol kind is needed: the
// language's T combinator already behaves as K (`T x y = x`), so
// `square $x = ap ap mul $x $x` compiles down to a pure, parameter-free
// combinator expression built only from S, T, I and the tokens already
// present in the body.
func abstractParams(params []string, body *symbol.Symbol) (*symbol.Symbol, error) {
	term := body
	for i := len(params) - 1; i >= 0; i-- {
		term = abstract(params[i], term)
	}
	if name, ok := firstPlaceholder(term); ok {
		return nil, fmt.Errorf("unresolved prelude argument %q", name)
	}
	return term, nil
}

// abstract implements the textbook bracket-abstraction rules:
//
//	abstract(x, x)      = I
//	abstract(x, e)      = ap T e,              x not free in e
//	abstract(x, f a)    = ap (ap S (abstract x f)) (abstract x a)
func abstract(param string, t *symbol.Symbol) *symbol.Symbol {
	switch {
	case isPlaceholder(t, param):
		return symbol.IValue
	case !occursPlaceholder(t, param):
		return symbol.Apply(symbol.TValue, t)
	case t.Kind == symbol.Closure:
		return symbol.Apply(
			symbol.Apply(symbol.SValue, abstract(param, t.Body)),
			abstract(param, t.Arg),
		)
	default:
		return symbol.Apply(symbol.TValue, t)
	}
}

func placeholderName(param string) string { return "$" + param }

func isPlaceholder(t *symbol.Symbol, param string) bool {
	return t.Kind == symbol.Var && t.Name == placeholderName(param)
}

func occursPlaceholder(t *symbol.Symbol, param string) bool {
	switch t.Kind {
	case symbol.Var:
		return t.Name == placeholderName(param)
	case symbol.Closure:
		return occursPlaceholder(t.Body, param) || occursPlaceholder(t.Arg, param)
	default:
		return false
	}
}

// firstPlaceholder walks the fully abstracted term looking for a
// leftover "$name" marker, which would mean the source referenced a
// prelude argument the signature never declared.
func firstPlaceholder(t *symbol.Symbol) (string, bool) {
	switch t.Kind {
	case symbol.Var:
		if len(t.Name) > 0 && t.Name[0] == '$' {
			return t.Name, true
		}
	case symbol.Closure:
		if name, ok := firstPlaceholder(t.Body); ok {
			return name, true
		}
		return firstPlaceholder(t.Arg)
	}
	return "", false
}
