// Package symbol defines the runtime value universe of the alien
// language: a tagged sum of operators, literals, and the run-time-only
// constructions (Pair, Closure) that reduction builds.
package symbol

import "fmt"

// Kind tags the variant a Symbol holds.
type Kind uint8

const (
	Lit Kind = iota
	Nil
	T
	F
	Modulated
	Image
	Var

	Inc
	Dec
	Neg
	Pwr2
	Add
	Mul
	Div
	Eq
	Lt

	I
	S
	C
	B

	Cons
	Car
	Cdr
	IsNil

	Mod
	Dem
	Send

	If0

	Draw
	MultipleDraw
	Checkerboard
	Interact
	StatelessDraw

	Pair
	Closure
)

var names = map[Kind]string{
	Lit: "lit", Nil: "nil", T: "t", F: "f", Modulated: "modulated", Image: "image", Var: "var",
	Inc: "inc", Dec: "dec", Neg: "neg", Pwr2: "pwr2", Add: "add", Mul: "mul", Div: "div", Eq: "eq", Lt: "lt",
	I: "i", S: "s", C: "c", B: "b",
	Cons: "cons", Car: "car", Cdr: "cdr", IsNil: "isnil",
	Mod: "mod", Dem: "dem", Send: "send",
	If0: "if0",
	Draw: "draw", MultipleDraw: "multipledraw", Checkerboard: "checkerboard",
	Interact: "interact", StatelessDraw: "statelessdraw",
	Pair: "pair", Closure: "closure",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// arity is the number of applied arguments an operator needs before it
// reduces. Non-operator kinds (Lit, Nil, Modulated, Image, Var, Pair)
// carry no pending arguments of their own; T and F are two-argument
// selectors; Closure always takes
// exactly one more (it IS a one-argument accumulator link).
var arity = map[Kind]int{
	Lit: 0, Nil: 0, T: 2, F: 2, Modulated: 0, Image: 0, Var: 0,
	Inc: 1, Dec: 1, Neg: 1, Pwr2: 1,
	Add: 2, Mul: 2, Div: 2, Eq: 2, Lt: 2,
	I: 1, S: 3, C: 3, B: 3,
	Cons: 2, Car: 1, Cdr: 1, IsNil: 1,
	Mod: 1, Dem: 1, Send: 1,
	If0: 3,
	Draw: 1, MultipleDraw: 1, Checkerboard: 2,
	Interact: 3, StatelessDraw: 3,
	Pair: 0, Closure: 1,
}

// Arity returns how many arguments k must accumulate before it reduces.
func Arity(k Kind) int { return arity[k] }

// Pixel is a single (x, y) coordinate consumed by Draw/Checkerboard.
type Pixel struct{ X, Y int }

// Picture is a rendered 2-D pixel buffer, the runtime value behind the
// Image kind.
type Picture struct {
	MinX, MinY, MaxX, MaxY int
	Pixels                 map[Pixel]bool
}

// NewPicture builds a Picture bounding box that covers pts.
func NewPicture(pts []Pixel) *Picture {
	p := &Picture{Pixels: make(map[Pixel]bool, len(pts))}
	for i, pt := range pts {
		if i == 0 || pt.X < p.MinX {
			p.MinX = pt.X
		}
		if i == 0 || pt.Y < p.MinY {
			p.MinY = pt.Y
		}
		if i == 0 || pt.X > p.MaxX {
			p.MaxX = pt.X
		}
		if i == 0 || pt.Y > p.MaxY {
			p.MaxY = pt.Y
		}
		p.Pixels[pt] = true
	}
	return p
}

// Symbol is the sole runtime value. Instances are immutable once built;
// reduction always produces a new Symbol rather than mutating one in
// place, so a *Symbol can be shared by plain pointer aliasing across as
// many parents as reach it — Go's garbage collector already gives us
// the sharing-without-copying behavior the spec describes as
// "reference-counted handles", and the value graph never grows a cycle
// because nothing here ever takes a back-reference from a child to its
// parent.
type Symbol struct {
	Kind Kind

	// Lit holds the integer payload when Kind == Lit.
	Lit int64

	// Name holds the identifier when Kind == Var.
	Name string

	// Bits holds the '0'/'1' wire string when Kind == Modulated.
	Bits string

	// Pic holds the pixel buffer when Kind == Image.
	Pic *Picture

	// Head/Tail hold the two pair components when Kind == Pair.
	Head, Tail *Symbol

	// Arg/Body hold the captured argument and the function awaiting it
	// when Kind == Closure. Applying `ap f x` produces
	// Closure{Arg: x, Body: f}.
	Arg, Body *Symbol
}

// singleton operator atoms. They carry no per-instance state so one
// shared value suffices for all uses.
var (
	NilValue           = &Symbol{Kind: Nil}
	TValue             = &Symbol{Kind: T}
	FValue             = &Symbol{Kind: F}
	IncValue           = &Symbol{Kind: Inc}
	DecValue           = &Symbol{Kind: Dec}
	NegValue           = &Symbol{Kind: Neg}
	Pwr2Value          = &Symbol{Kind: Pwr2}
	AddValue           = &Symbol{Kind: Add}
	MulValue           = &Symbol{Kind: Mul}
	DivValue           = &Symbol{Kind: Div}
	EqValue            = &Symbol{Kind: Eq}
	LtValue            = &Symbol{Kind: Lt}
	IValue             = &Symbol{Kind: I}
	SValue             = &Symbol{Kind: S}
	CValue             = &Symbol{Kind: C}
	BValue             = &Symbol{Kind: B}
	ConsValue          = &Symbol{Kind: Cons}
	CarValue           = &Symbol{Kind: Car}
	CdrValue           = &Symbol{Kind: Cdr}
	IsNilValue         = &Symbol{Kind: IsNil}
	ModValue           = &Symbol{Kind: Mod}
	DemValue           = &Symbol{Kind: Dem}
	SendValue          = &Symbol{Kind: Send}
	If0Value           = &Symbol{Kind: If0}
	DrawValue          = &Symbol{Kind: Draw}
	MultipleDrawValue  = &Symbol{Kind: MultipleDraw}
	CheckerboardValue  = &Symbol{Kind: Checkerboard}
	InteractValue      = &Symbol{Kind: Interact}
	StatelessDrawValue = &Symbol{Kind: StatelessDraw}
)

// operatorByName maps the parser's token spellings to their singleton.
var operatorByName = map[string]*Symbol{
	"nil": NilValue, "t": TValue, "f": FValue,
	"inc": IncValue, "dec": DecValue, "neg": NegValue, "pwr2": Pwr2Value,
	"add": AddValue, "mul": MulValue, "div": DivValue, "eq": EqValue, "lt": LtValue,
	"i": IValue, "s": SValue, "c": CValue, "b": BValue,
	"cons": ConsValue, "car": CarValue, "cdr": CdrValue, "isnil": IsNilValue,
	"mod": ModValue, "dem": DemValue, "send": SendValue,
	"if0": If0Value,
	"draw": DrawValue, "multipledraw": MultipleDrawValue, "checkerboard": CheckerboardValue,
	"interact": InteractValue, "statelessdraw": StatelessDrawValue,
}

// Operator looks up a well-known operator atom by its token spelling.
// ok is false for anything that isn't a nullary/arity-bearing operator
// keyword (e.g. "ap", numbers, identifiers).
func Operator(name string) (sym *Symbol, ok bool) {
	sym, ok = operatorByName[name]
	return
}

// NewLit builds an integer literal.
func NewLit(v int64) *Symbol { return &Symbol{Kind: Lit, Lit: v} }

// NewVar builds an unresolved environment reference.
func NewVar(name string) *Symbol { return &Symbol{Kind: Var, Name: name} }

// NewModulated wraps a wire bit-string.
func NewModulated(bits string) *Symbol { return &Symbol{Kind: Modulated, Bits: bits} }

// NewImage wraps a rendered pixel buffer.
func NewImage(pic *Picture) *Symbol { return &Symbol{Kind: Image, Pic: pic} }

// NewPair builds a Cons cell without forcing either side.
func NewPair(head, tail *Symbol) *Symbol { return &Symbol{Kind: Pair, Head: head, Tail: tail} }

// Apply builds the Closure that results from `ap fun arg`: fun becomes
// the Body and arg the captured Arg, which the evaluator pushes onto its
// pending stack before descending into fun.
func Apply(fun, arg *Symbol) *Symbol { return &Symbol{Kind: Closure, Arg: arg, Body: fun} }

// List builds the right-nested Pair chain terminated by Nil that the
// surface `( e1, e2, ... )` syntax denotes.
func List(items ...*Symbol) *Symbol {
	out := NilValue
	for i := len(items) - 1; i >= 0; i-- {
		out = NewPair(items[i], out)
	}
	return out
}

// IsAtom reports whether sym is one of the kinds Eq-comparison is
// defined over: Lit, Nil, T, F. Equality is not extended through Pair
// per §4.3/§9.
func IsAtom(sym *Symbol) bool {
	switch sym.Kind {
	case Lit, Nil, T, F:
		return true
	default:
		return false
	}
}

// AtomEqual compares two already-forced atoms structurally. Callers
// must ensure both are IsAtom.
func AtomEqual(a, b *Symbol) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == Lit {
		return a.Lit == b.Lit
	}
	return true
}

func (s *Symbol) String() string {
	switch s.Kind {
	case Lit:
		return fmt.Sprintf("%d", s.Lit)
	case Var:
		return s.Name
	case Modulated:
		return "modulated(" + s.Bits + ")"
	case Image:
		return fmt.Sprintf("image[%d,%d..%d,%d]", s.Pic.MinX, s.Pic.MinY, s.Pic.MaxX, s.Pic.MaxY)
	case Pair:
		return fmt.Sprintf("pair(%s, %s)", s.Head, s.Tail)
	case Closure:
		return fmt.Sprintf("(%s %s)", s.Body, s.Arg)
	default:
		return s.Kind.String()
	}
}
