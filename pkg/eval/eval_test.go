package eval

import (
	"context"
	"testing"

	"github.com/vic/alienvm/pkg/effects"
	"github.com/vic/alienvm/pkg/env"
	"github.com/vic/alienvm/pkg/modulate"
	"github.com/vic/alienvm/pkg/parser"
	"github.com/vic/alienvm/pkg/symbol"
)

func mustParse(t *testing.T, source string) *env.Environment {
	t.Helper()
	e, err := parser.ParseProgram(source)
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	return e
}

func forceMain(t *testing.T, ev *Evaluator, e *env.Environment) *symbol.Symbol {
	t.Helper()
	main, ok := e.Lookup("main")
	if !ok {
		t.Fatal("program defines no main")
	}
	result, err := ev.Force(context.Background(), main)
	if err != nil {
		t.Fatalf("Force(main): %v", err)
	}
	return result
}

func wantLit(t *testing.T, got *symbol.Symbol, want int64) {
	t.Helper()
	if got.Kind != symbol.Lit || got.Lit != want {
		t.Fatalf("got %s, want lit %d", got, want)
	}
}

func newEvaluator(e *env.Environment) *Evaluator {
	return New(e, effects.NewScripted(nil), 0)
}

func TestIncDecNegPwr2(t *testing.T) {
	cases := []struct {
		source string
		want   int64
	}{
		{"main = ap inc 1", 2},
		{"main = ap dec 1", 0},
		{"main = ap neg 5", -5},
		{"main = ap pwr2 3", 8},
	}
	for _, c := range cases {
		e := mustParse(t, c.source)
		ev := newEvaluator(e)
		wantLit(t, forceMain(t, ev, e), c.want)
	}
}

func TestPwr2NegativeExponentIsFatal(t *testing.T) {
	e := mustParse(t, "main = ap pwr2 -1")
	ev := newEvaluator(e)
	_, err := ev.Force(context.Background(), mustLookup(t, e, "main"))
	ee, ok := err.(*EvalError)
	if !ok || ee.Kind != TypeMismatch {
		t.Fatalf("expected TypeMismatch, got %#v", err)
	}
}

func TestArithmetic(t *testing.T) {
	cases := []struct {
		source string
		want   int64
	}{
		{"main = ap ap add 2 3", 5},
		{"main = ap ap mul 4 5", 20},
		{"main = ap ap div 5 -3", -1},
		{"main = ap ap div -5 3", -1},
	}
	for _, c := range cases {
		e := mustParse(t, c.source)
		ev := newEvaluator(e)
		wantLit(t, forceMain(t, ev, e), c.want)
	}
}

func TestDivisionByZero(t *testing.T) {
	e := mustParse(t, "main = ap ap div 1 0")
	ev := newEvaluator(e)
	_, err := ev.Force(context.Background(), mustLookup(t, e, "main"))
	ee, ok := err.(*EvalError)
	if !ok || ee.Kind != DivisionByZero {
		t.Fatalf("expected DivisionByZero, got %#v", err)
	}
}

func TestEqAndLt(t *testing.T) {
	cases := []struct {
		source string
		want   symbol.Kind
	}{
		{"main = ap ap eq 1 1", symbol.T},
		{"main = ap ap eq 1 2", symbol.F},
		{"main = ap ap lt 1 2", symbol.T},
		{"main = ap ap lt 2 1", symbol.F},
	}
	for _, c := range cases {
		e := mustParse(t, c.source)
		ev := newEvaluator(e)
		got := forceMain(t, ev, e)
		if got.Kind != c.want {
			t.Fatalf("%s: got %s, want %s", c.source, got.Kind, c.want)
		}
	}
}

func TestCombinators(t *testing.T) {
	e := mustParse(t, "main = ap ap ap s add inc 1")
	ev := newEvaluator(e)
	wantLit(t, forceMain(t, ev, e), 3)

	e = mustParse(t, "main = ap ap ap c add 1 2")
	ev = newEvaluator(e)
	wantLit(t, forceMain(t, ev, e), 3)

	e = mustParse(t, "main = ap ap ap b neg dec 1")
	ev = newEvaluator(e)
	wantLit(t, forceMain(t, ev, e), 0)

	e = mustParse(t, "main = ap ap t 1 2")
	ev = newEvaluator(e)
	wantLit(t, forceMain(t, ev, e), 1)

	e = mustParse(t, "main = ap ap f 1 2")
	ev = newEvaluator(e)
	wantLit(t, forceMain(t, ev, e), 2)

	e = mustParse(t, "main = ap i 42")
	ev = newEvaluator(e)
	wantLit(t, forceMain(t, ev, e), 42)
}

func TestListOperators(t *testing.T) {
	e := mustParse(t, "main = ap car ap ap cons 1 2")
	ev := newEvaluator(e)
	wantLit(t, forceMain(t, ev, e), 1)

	e = mustParse(t, "main = ap cdr ap ap cons 1 2")
	ev = newEvaluator(e)
	wantLit(t, forceMain(t, ev, e), 2)

	e = mustParse(t, "main = ap isnil nil")
	ev = newEvaluator(e)
	if got := forceMain(t, ev, e); got.Kind != symbol.T {
		t.Fatalf("isnil nil = %s, want t", got.Kind)
	}

	e = mustParse(t, "main = ap isnil ap ap cons 1 nil")
	ev = newEvaluator(e)
	if got := forceMain(t, ev, e); got.Kind != symbol.F {
		t.Fatalf("isnil (cons 1 nil) = %s, want f", got.Kind)
	}
}

func TestIf0Laziness(t *testing.T) {
	// :1 is never forced; if it were, Force would keep applying :1 to
	// itself and never return, so success here proves the unchosen
	// branch was never reduced.
	e := mustParse(t, ":1 = ap :1 :1\nmain = ap ap ap if0 1 :1 3")
	ev := newEvaluator(e)
	wantLit(t, forceMain(t, ev, e), 3)
}

func TestUnderAppliedOperatorRebuildsWHNF(t *testing.T) {
	e := mustParse(t, "main = ap add 1")
	ev := newEvaluator(e)
	result := forceMain(t, ev, e)
	if result.Kind != symbol.Closure {
		t.Fatalf("expected an unsaturated closure, got %s", result.Kind)
	}
	applied := symbol.Apply(result, symbol.NewLit(4))
	final, err := ev.Force(context.Background(), applied)
	if err != nil {
		t.Fatalf("Force: %v", err)
	}
	wantLit(t, final, 5)
}

func TestUnknownNameIsFatal(t *testing.T) {
	e := mustParse(t, "main = ap inc undefined_name")
	ev := newEvaluator(e)
	_, err := ev.Force(context.Background(), mustLookup(t, e, "main"))
	ee, ok := err.(*EvalError)
	if !ok || ee.Kind != UnknownName {
		t.Fatalf("expected UnknownName, got %#v", err)
	}
}

func TestTypeMismatchOnArithmeticOverPair(t *testing.T) {
	e := mustParse(t, "main = ap inc ap ap cons 1 2")
	ev := newEvaluator(e)
	_, err := ev.Force(context.Background(), mustLookup(t, e, "main"))
	ee, ok := err.(*EvalError)
	if !ok || ee.Kind != TypeMismatch {
		t.Fatalf("expected TypeMismatch, got %#v", err)
	}
}

func TestBudgetExhausted(t *testing.T) {
	e := mustParse(t, "loop = ap inc ap inc ap inc 1\nmain = loop")
	ev := New(e, effects.NewScripted(nil), 2)
	_, err := ev.Force(context.Background(), mustLookup(t, e, "main"))
	ee, ok := err.(*EvalError)
	if !ok || ee.Kind != BudgetExhausted {
		t.Fatalf("expected BudgetExhausted, got %#v", err)
	}
}

func TestModDemRoundTripThroughEval(t *testing.T) {
	e := mustParse(t, "main = ap dem ap mod ap ap cons 1 nil")
	ev := newEvaluator(e)
	result, err := ev.ForceDeep(context.Background(), mustLookup(t, e, "main"))
	if err != nil {
		t.Fatalf("ForceDeep: %v", err)
	}
	if result.Kind != symbol.Pair || result.Head.Kind != symbol.Lit || result.Head.Lit != 1 {
		t.Fatalf("got %s, want pair(1, nil)", result)
	}
	if result.Tail.Kind != symbol.Nil {
		t.Fatalf("got %s, want pair(1, nil)", result)
	}
}

func TestSendRoundTripsThroughScriptedEffects(t *testing.T) {
	e := mustParse(t, "main = ap send 1")
	bits, err := modulate.Modulate(symbol.NewLit(1))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	reply, err := modulate.Modulate(symbol.NewLit(2))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	stub := effects.NewScripted(map[string]string{bits: reply})
	ev := New(e, stub, 0)
	result := forceMain(t, ev, e)
	wantLit(t, result, 2)
	if sends := stub.Sends(); len(sends) != 1 || sends[0] != bits {
		t.Fatalf("Sends() = %v, want [%s]", sends, bits)
	}
}

func TestDrawCallsDisplay(t *testing.T) {
	e := mustParse(t, "main = ap draw ap ap cons ap ap cons 1 1 nil")
	stub := effects.NewScripted(nil)
	ev := New(e, stub, 0)
	result := forceMain(t, ev, e)
	if result.Kind != symbol.Image {
		t.Fatalf("got %s, want an image", result.Kind)
	}
	if len(stub.Displayed) != 1 {
		t.Fatalf("Display was not called")
	}
	if !stub.Displayed[0].Pixels[symbol.Pixel{X: 1, Y: 1}] {
		t.Fatalf("expected pixel (1,1) to be set")
	}
}

func TestCheckerboardUsesIndependentDimensions(t *testing.T) {
	// width=2, height=3: a 2x2 checkerboard would never reach y=2.
	e := mustParse(t, "main = ap ap checkerboard 2 3")
	stub := effects.NewScripted(nil)
	ev := New(e, stub, 0)
	result := forceMain(t, ev, e)
	if result.Kind != symbol.Image {
		t.Fatalf("got %s, want an image", result.Kind)
	}
	if len(stub.Displayed) != 1 {
		t.Fatalf("Display was not called")
	}
	pic := stub.Displayed[0]
	if pic.MaxY != 2 {
		t.Fatalf("height was not honored independently of width: MaxY = %d, want 2", pic.MaxY)
	}
	want := map[symbol.Pixel]bool{
		{X: 1, Y: 0}: true,
		{X: 0, Y: 1}: true,
		{X: 1, Y: 2}: true,
	}
	if len(pic.Pixels) != len(want) {
		t.Fatalf("got %d lit pixels, want %d: %v", len(pic.Pixels), len(want), pic.Pixels)
	}
	for px := range want {
		if !pic.Pixels[px] {
			t.Fatalf("expected pixel %v to be set", px)
		}
	}
}

func mustLookup(t *testing.T, e *env.Environment, name string) *symbol.Symbol {
	t.Helper()
	s, ok := e.Lookup(name)
	if !ok {
		t.Fatalf("program defines no %s", name)
	}
	return s
}
