// Command gentests materializes the scenario suite from spec §8 as
// generated Go test files under generated/, one directory per scenario,
// following the teacher's cmd/gentests code-generation pattern: a fixed
// table of cases is rendered through a template into package-level test
// files that call a shared helper.
package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// scenario is one entry of spec §8's scenario suite.
type scenario struct {
	Name     string
	Program  string
	Expected string
}

const testTemplate = `package gentests

import (
	"testing"

	"github.com/vic/alienvm/cmd/gentests/helper"
)

const program = %q
const expected = %q

func Test_%s_Scenario(t *testing.T) {
	gentests.CheckScenario(t, %q, program, expected)
}
`

func main() {
	scenarios := []scenario{
		{"001_inc", "main = ap inc 1", "2"},
		{"002_inc_negative", "main = ap inc -1", "0"},
		{"003_dec", "main = ap dec 2", "1"},
		{"010_add", "main = ap ap add 2 3", "5"},
		{"011_mul_negative", "main = ap ap mul 3 -2", "-6"},
		{"012_div_negative", "main = ap ap div 5 -3", "-1"},
		{"013_lt", "main = ap ap lt 0 1", "t"},
		{"014_eq", "main = ap ap eq 1 1", "t"},
		{"020_s_combinator", "main = ap ap ap s add inc 1", "3"},
		{"021_c_combinator", "main = ap ap ap c add 1 2", "3"},
		{"022_b_combinator", "x0 = 42\nmain = ap ap ap b inc dec x0", "42"},
		{"030_car", "main = ap car ap ap cons 1 2", "1"},
		{"031_cdr", "main = ap cdr ap ap cons 1 2", "2"},
		{"032_isnil", "main = ap isnil nil", "t"},
		{"040_laziness_if0", ":1 = ap ap ap if0 1 :1 3\nmain = ap ap ap if0 1 :1 3", "3"},
	}

	baseDir := "cmd/gentests/generated"
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "gentests: %v\n", err)
		os.Exit(1)
	}

	for _, sc := range scenarios {
		dir := filepath.Join(baseDir, sc.Name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "gentests: %s: %v\n", sc.Name, err)
			continue
		}
		body := fmt.Sprintf(testTemplate, sc.Program, sc.Expected, sc.Name, sc.Name)
		if err := os.WriteFile(filepath.Join(dir, "reduction_test.go"), []byte(body), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "gentests: %s: %v\n", sc.Name, err)
			continue
		}
	}

	fmt.Printf("generated %d scenario tests\n", len(scenarios))
}
