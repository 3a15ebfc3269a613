package parser

import (
	"testing"

	"github.com/vic/alienvm/pkg/symbol"
)

func mustParse(t *testing.T, src string) *symbol.Symbol {
	t.Helper()
	e, err := ParseProgram(src)
	if err != nil {
		t.Fatalf("ParseProgram(%q): %v", src, err)
	}
	body, ok := e.Lookup("main")
	if !ok {
		t.Fatalf("no 'main' definition parsed from %q", src)
	}
	return body
}

func TestParseSimpleApplication(t *testing.T) {
	body := mustParse(t, "main = ap inc 1")
	if body.Kind != symbol.Closure || body.Body != symbol.IncValue || body.Arg.Lit != 1 {
		t.Fatalf("unexpected tree: %v", body)
	}
}

func TestParseNestedApplication(t *testing.T) {
	// ap ap add 2 3 == Closure{Arg: 3, Body: Closure{Arg: 2, Body: add}}
	body := mustParse(t, "main = ap ap add 2 3")
	if body.Kind != symbol.Closure || body.Arg.Lit != 3 {
		t.Fatalf("outer closure wrong: %v", body)
	}
	inner := body.Body
	if inner.Kind != symbol.Closure || inner.Body != symbol.AddValue || inner.Arg.Lit != 2 {
		t.Fatalf("inner closure wrong: %v", inner)
	}
}

func TestParseNegativeLiteral(t *testing.T) {
	body := mustParse(t, "main = ap inc -1")
	if body.Arg.Kind != symbol.Lit || body.Arg.Lit != -1 {
		t.Fatalf("expected literal -1, got %v", body.Arg)
	}
}

func TestParseEnvironmentVarReference(t *testing.T) {
	e, err := ParseProgram("x0 = 42\nmain = ap inc x0")
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	body, _ := e.Lookup("main")
	if body.Arg.Kind != symbol.Var || body.Arg.Name != "x0" {
		t.Fatalf("expected Var(x0), got %v", body.Arg)
	}
}

func TestParseNumberedVar(t *testing.T) {
	e, err := ParseProgram(":1029 = 1\nmain = :1029")
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	body, _ := e.Lookup("main")
	if body.Kind != symbol.Var || body.Name != ":1029" {
		t.Fatalf("expected Var(:1029), got %v", body)
	}
}

func TestParseListLiteral(t *testing.T) {
	body := mustParse(t, "main = ( 1 , 2 , 3 )")
	// consChain builds `ap ap cons 1 (ap ap cons 2 (ap ap cons 3 nil))`
	if body.Kind != symbol.Closure || body.Body.Kind != symbol.Closure || body.Body.Body != symbol.ConsValue {
		t.Fatalf("expected cons chain, got %v", body)
	}
	if body.Body.Arg.Lit != 1 {
		t.Fatalf("expected head 1, got %v", body.Body.Arg)
	}
}

func TestParseEmptyListLiteral(t *testing.T) {
	body := mustParse(t, "main = ( )")
	if body.Kind != symbol.Nil {
		t.Fatalf("expected Nil, got %v", body)
	}
}

func TestParseBlankLinesIgnored(t *testing.T) {
	_, err := ParseProgram("\n\nmain = 1\n\n")
	if err != nil {
		t.Fatalf("blank lines should be ignored: %v", err)
	}
}

func TestParseMissingEqualsIsFatal(t *testing.T) {
	_, err := ParseProgram("main 1")
	if err == nil {
		t.Fatal("expected parse error")
	}
	var pe *ParseError
	if !asParseError(err, &pe) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
	if pe.Line != 1 {
		t.Fatalf("expected line 1, got %d", pe.Line)
	}
}

func TestParseUnterminatedListIsFatal(t *testing.T) {
	_, err := ParseProgram("main = ( 1 , 2")
	if err == nil {
		t.Fatal("expected parse error for unterminated list")
	}
}

func TestPreludeFormBracketAbstraction(t *testing.T) {
	e, err := ParseProgram("square $x = ap ap mul $x $x\nmain = ap square 4")
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	square, ok := e.Lookup("square")
	if !ok {
		t.Fatal("square not defined")
	}
	if name, found := firstPlaceholder(square); found {
		t.Fatalf("bracket abstraction left a placeholder: %s", name)
	}
	// The fully abstracted body must be built only from S/T/I and mul,
	// never referencing a bare "$x" Var again.
	if containsBareVar(square, "$x") {
		t.Fatalf("abstracted body still references $x: %v", square)
	}
}

func containsBareVar(t *symbol.Symbol, name string) bool {
	switch t.Kind {
	case symbol.Var:
		return t.Name == name
	case symbol.Closure:
		return containsBareVar(t.Body, name) || containsBareVar(t.Arg, name)
	default:
		return false
	}
}

func TestPreludeFormRejectsUnsigiledParam(t *testing.T) {
	_, err := ParseProgram("f x = ap inc x")
	if err == nil {
		t.Fatal("expected parse error for unsigiled prelude argument")
	}
}

func TestPreludeFormRejectsUnknownPlaceholder(t *testing.T) {
	_, err := ParseProgram("f $x = ap inc $y")
	if err == nil {
		t.Fatal("expected parse error for undeclared placeholder $y")
	}
}

// asParseError is a tiny errors.As shim kept local to avoid importing
// "errors" just for this one assertion in tests.
func asParseError(err error, target **ParseError) bool {
	if pe, ok := err.(*ParseError); ok {
		*target = pe
		return true
	}
	return false
}
