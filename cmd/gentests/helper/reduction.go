// Package gentests holds the shared assertion used by every generated
// scenario test: parse a program, force its entry point, and compare
// the resulting Symbol's printed form against an expected literal. The
// teacher's helper/reduction.go played the same role for lambda-term
// normalization; this is the same shape retargeted at Symbol reduction.
package gentests

import (
	"context"
	"testing"

	"github.com/vic/alienvm/pkg/effects"
	"github.com/vic/alienvm/pkg/eval"
	"github.com/vic/alienvm/pkg/parser"
)

// CheckScenario parses program, forces its "main" definition, and fails
// t if the printed WHNF doesn't match expected.
func CheckScenario(t *testing.T, name, program, expected string) {
	t.Helper()

	env, err := parser.ParseProgram(program)
	if err != nil {
		t.Fatalf("%s: parse error: %v", name, err)
	}
	main, ok := env.Lookup("main")
	if !ok {
		t.Fatalf("%s: program defines no main", name)
	}

	ev := eval.New(env, effects.NewScripted(nil), 0)
	result, err := ev.Force(context.Background(), main)
	if err != nil {
		t.Fatalf("%s: Force(main): %v", name, err)
	}

	if got := result.String(); got != expected {
		t.Errorf("%s: got %s, want %s\nprogram:\n%s", name, got, expected, program)
	}
}
