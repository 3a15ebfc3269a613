// Package eval implements the lazy, call-by-need reduction of Symbol
// trees to weak-head normal form described in §4.3. A fresh Evaluator
// is built per top-level reduction (§5): there is no shared mutable
// state besides the read-only Environment and the sequentially-accessed
// Effects boundary.
package eval

import (
	"context"

	"github.com/vic/alienvm/pkg/env"
	"github.com/vic/alienvm/pkg/effects"
	"github.com/vic/alienvm/pkg/symbol"
)

// Evaluator reduces Symbol trees against a fixed Environment and
// Effects boundary.
type Evaluator struct {
	Env     *env.Environment
	Effects effects.Effects

	// Budget, if non-zero, caps the total number of reduction steps this
	// Evaluator performs, counted across every Force call on it (nested
	// ones included), before failing with BudgetExhausted (§4.3: "an
	// implementation may add a configurable reduction-step limit").
	Budget int

	steps int
}

// New builds an Evaluator. A Budget of 0 means unlimited steps.
func New(e *env.Environment, fx effects.Effects, budget int) *Evaluator {
	return &Evaluator{Env: e, Effects: fx, Budget: budget}
}

// Reduce forces sym to weak-head normal form; it is the same as calling
// Force directly. Operator reducers call back into Force for their own
// operand forcing.
func (ev *Evaluator) Reduce(ctx context.Context, sym *symbol.Symbol) (*symbol.Symbol, error) {
	return ev.Force(ctx, sym)
}

// Force runs the machine model of §4.3: a stack of pending arguments
// and a current expression being stripped. Closures push their
// captured argument and descend into their body; Vars resolve through
// the environment; once the current expression's head operator has
// accumulated at least its arity worth of arguments, it dispatches to
// that operator's reducer and loops on the result.
func (ev *Evaluator) Force(ctx context.Context, sym *symbol.Symbol) (*symbol.Symbol, error) {
	cur := sym
	var stack []*symbol.Symbol

	for {
		if err := ev.tick(); err != nil {
			return nil, err
		}

		switch cur.Kind {
		case symbol.Closure:
			stack = append(stack, cur.Arg)
			cur = cur.Body
			continue

		case symbol.Var:
			body, ok := ev.Env.Lookup(cur.Name)
			if !ok {
				return nil, &EvalError{Kind: UnknownName, Context: cur.Name}
			}
			cur = body
			continue
		}

		switch cur.Kind {
		case symbol.Lit, symbol.Nil, symbol.Modulated, symbol.Image, symbol.Pair:
			if len(stack) != 0 {
				return nil, typeMismatch(cur.Kind.String(), errApplyToNonFunction(cur.Kind))
			}
			return cur, nil
		}

		need := symbol.Arity(cur.Kind)
		if len(stack) < need {
			return rebuild(cur, stack), nil
		}

		args := make([]*symbol.Symbol, need)
		for i := 0; i < need; i++ {
			args[i] = stack[len(stack)-1-i]
		}
		stack = stack[:len(stack)-need]

		result, err := ev.dispatch(ctx, cur.Kind, args)
		if err != nil {
			return nil, err
		}
		cur = result
	}
}

// ForceDeep forces sym and, if it is a Pair, recursively forces both
// components — the "force x fully (recursively for pairs)" behavior
// Mod and Send need before they can modulate a value.
func (ev *Evaluator) ForceDeep(ctx context.Context, sym *symbol.Symbol) (*symbol.Symbol, error) {
	whnf, err := ev.Force(ctx, sym)
	if err != nil {
		return nil, err
	}
	if whnf.Kind != symbol.Pair {
		return whnf, nil
	}
	head, err := ev.ForceDeep(ctx, whnf.Head)
	if err != nil {
		return nil, err
	}
	tail, err := ev.ForceDeep(ctx, whnf.Tail)
	if err != nil {
		return nil, err
	}
	return symbol.NewPair(head, tail), nil
}

func (ev *Evaluator) tick() error {
	ev.steps++
	if ev.Budget > 0 && ev.steps > ev.Budget {
		return &EvalError{Kind: BudgetExhausted, Context: "reduction"}
	}
	return nil
}

// rebuild restores the Closure chain around head for the arguments
// still pending on stack, when there are fewer than its arity
// requires. The result is already WHNF: an applied-but-not-yet-fully-
// saturated operator. Stack entries were pushed outer-to-inner as
// Force descended, so re-wrapping must walk the stack back to front to
// reconstruct the original nesting.
func rebuild(head *symbol.Symbol, stack []*symbol.Symbol) *symbol.Symbol {
	cur := head
	for i := len(stack) - 1; i >= 0; i-- {
		cur = symbol.Apply(cur, stack[i])
	}
	return cur
}

func errApplyToNonFunction(k symbol.Kind) error {
	return &applyError{k}
}

type applyError struct{ kind symbol.Kind }

func (e *applyError) Error() string {
	return "cannot apply an argument to a " + e.kind.String() + " value"
}
