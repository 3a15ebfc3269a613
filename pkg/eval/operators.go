package eval

import (
	"context"
	"fmt"

	"github.com/vic/alienvm/pkg/effects"
	"github.com/vic/alienvm/pkg/modulate"
	"github.com/vic/alienvm/pkg/symbol"
)

// dispatch reduces a fully-saturated operator application. args is
// ordered left-to-right as the operator was applied (args[0] is the
// first argument supplied), regardless of how many of them dispatch
// chooses to force.
func (ev *Evaluator) dispatch(ctx context.Context, kind symbol.Kind, args []*symbol.Symbol) (*symbol.Symbol, error) {
	switch kind {
	case symbol.Inc:
		return ev.reduceUnaryArith(ctx, "inc", args[0], func(v int64) int64 { return v + 1 })
	case symbol.Dec:
		return ev.reduceUnaryArith(ctx, "dec", args[0], func(v int64) int64 { return v - 1 })
	case symbol.Neg:
		return ev.reduceUnaryArith(ctx, "neg", args[0], func(v int64) int64 { return -v })
	case symbol.Pwr2:
		return ev.reducePwr2(ctx, args[0])

	case symbol.Add:
		return ev.reduceBinaryArith(ctx, "add", args[0], args[1], func(a, b int64) (int64, error) { return a + b, nil })
	case symbol.Mul:
		return ev.reduceBinaryArith(ctx, "mul", args[0], args[1], func(a, b int64) (int64, error) { return a * b, nil })
	case symbol.Div:
		return ev.reduceBinaryArith(ctx, "div", args[0], args[1], func(a, b int64) (int64, error) {
			if b == 0 {
				return 0, &EvalError{Kind: DivisionByZero, Context: "div"}
			}
			// Go's integer division already truncates toward zero, the
			// same rounding the spec's div uses.
			return a / b, nil
		})

	case symbol.Eq:
		return ev.reduceEq(ctx, args[0], args[1])
	case symbol.Lt:
		return ev.reduceLt(ctx, args[0], args[1])

	case symbol.T:
		return args[0], nil
	case symbol.F:
		return args[1], nil
	case symbol.I:
		return args[0], nil

	case symbol.S:
		// S x y z = ap ap x z (ap y z)
		x, y, z := args[0], args[1], args[2]
		return symbol.Apply(symbol.Apply(x, z), symbol.Apply(y, z)), nil
	case symbol.C:
		// C x y z = ap ap x z y
		x, y, z := args[0], args[1], args[2]
		return symbol.Apply(symbol.Apply(x, z), y), nil
	case symbol.B:
		// B x y z = ap x (ap y z)
		x, y, z := args[0], args[1], args[2]
		return symbol.Apply(x, symbol.Apply(y, z)), nil

	case symbol.Cons:
		return symbol.NewPair(args[0], args[1]), nil
	case symbol.Car:
		return ev.reduceCar(ctx, args[0])
	case symbol.Cdr:
		return ev.reduceCdr(ctx, args[0])
	case symbol.IsNil:
		return ev.reduceIsNil(ctx, args[0])

	case symbol.Mod:
		return ev.reduceMod(ctx, args[0])
	case symbol.Dem:
		return ev.reduceDem(ctx, args[0])
	case symbol.Send:
		return ev.reduceSend(ctx, args[0])

	case symbol.If0:
		return ev.reduceIf0(ctx, args[0], args[1], args[2])

	case symbol.Draw:
		return ev.reduceDraw(ctx, args[0])
	case symbol.Checkerboard:
		return ev.reduceCheckerboard(ctx, args[0], args[1])
	case symbol.MultipleDraw:
		return ev.reduceMultipleDraw(ctx, args[0])

	case symbol.Interact:
		return ev.reduceInteract(ctx, args[0], args[1], args[2])
	case symbol.StatelessDraw:
		return ev.reduceStatelessDraw(ctx, args[0], args[1], args[2])
	}

	return nil, &EvalError{Kind: TypeMismatch, Context: "dispatch", Err: fmt.Errorf("unhandled operator %s", kind)}
}

func (ev *Evaluator) forceLit(ctx context.Context, context_ string, s *symbol.Symbol) (int64, error) {
	forced, err := ev.Force(ctx, s)
	if err != nil {
		return 0, err
	}
	if forced.Kind != symbol.Lit {
		return 0, typeMismatch(context_, fmt.Errorf("expected a number, got %s", forced.Kind))
	}
	return forced.Lit, nil
}

func (ev *Evaluator) reduceUnaryArith(ctx context.Context, name string, a *symbol.Symbol, f func(int64) int64) (*symbol.Symbol, error) {
	v, err := ev.forceLit(ctx, name, a)
	if err != nil {
		return nil, err
	}
	return symbol.NewLit(f(v)), nil
}

// reducePwr2 needs its own reducer rather than reduceUnaryArith because
// it has a failure case reduceUnaryArith's callback shape can't express:
// a negative exponent. Go's shift operator doesn't panic for a shift
// count that would be negative as a signed value — uint(v) wraps it
// into a huge unsigned count and silently yields 0 — so the check must
// happen before the shift.
func (ev *Evaluator) reducePwr2(ctx context.Context, a *symbol.Symbol) (*symbol.Symbol, error) {
	v, err := ev.forceLit(ctx, "pwr2", a)
	if err != nil {
		return nil, err
	}
	if v < 0 {
		return nil, typeMismatch("pwr2", fmt.Errorf("negative exponent %d", v))
	}
	return symbol.NewLit(1 << uint(v)), nil
}

func (ev *Evaluator) reduceBinaryArith(ctx context.Context, name string, a, b *symbol.Symbol, f func(int64, int64) (int64, error)) (*symbol.Symbol, error) {
	x, err := ev.forceLit(ctx, name, a)
	if err != nil {
		return nil, err
	}
	y, err := ev.forceLit(ctx, name, b)
	if err != nil {
		return nil, err
	}
	r, err := f(x, y)
	if err != nil {
		return nil, err
	}
	return symbol.NewLit(r), nil
}

func (ev *Evaluator) reduceEq(ctx context.Context, a, b *symbol.Symbol) (*symbol.Symbol, error) {
	fa, err := ev.Force(ctx, a)
	if err != nil {
		return nil, err
	}
	fb, err := ev.Force(ctx, b)
	if err != nil {
		return nil, err
	}
	if !symbol.IsAtom(fa) || !symbol.IsAtom(fb) {
		return nil, typeMismatch("eq", fmt.Errorf("eq is only defined over atoms, got %s and %s", fa.Kind, fb.Kind))
	}
	if symbol.AtomEqual(fa, fb) {
		return symbol.TValue, nil
	}
	return symbol.FValue, nil
}

func (ev *Evaluator) reduceLt(ctx context.Context, a, b *symbol.Symbol) (*symbol.Symbol, error) {
	x, err := ev.forceLit(ctx, "lt", a)
	if err != nil {
		return nil, err
	}
	y, err := ev.forceLit(ctx, "lt", b)
	if err != nil {
		return nil, err
	}
	if x < y {
		return symbol.TValue, nil
	}
	return symbol.FValue, nil
}

func (ev *Evaluator) forcePair(ctx context.Context, context_ string, s *symbol.Symbol) (*symbol.Symbol, error) {
	forced, err := ev.Force(ctx, s)
	if err != nil {
		return nil, err
	}
	if forced.Kind != symbol.Pair {
		return nil, typeMismatch(context_, fmt.Errorf("expected a pair, got %s", forced.Kind))
	}
	return forced, nil
}

func (ev *Evaluator) reduceCar(ctx context.Context, a *symbol.Symbol) (*symbol.Symbol, error) {
	p, err := ev.forcePair(ctx, "car", a)
	if err != nil {
		return nil, err
	}
	return p.Head, nil
}

func (ev *Evaluator) reduceCdr(ctx context.Context, a *symbol.Symbol) (*symbol.Symbol, error) {
	p, err := ev.forcePair(ctx, "cdr", a)
	if err != nil {
		return nil, err
	}
	return p.Tail, nil
}

func (ev *Evaluator) reduceIsNil(ctx context.Context, a *symbol.Symbol) (*symbol.Symbol, error) {
	forced, err := ev.Force(ctx, a)
	if err != nil {
		return nil, err
	}
	if forced.Kind == symbol.Nil {
		return symbol.TValue, nil
	}
	return symbol.FValue, nil
}

func (ev *Evaluator) reduceMod(ctx context.Context, a *symbol.Symbol) (*symbol.Symbol, error) {
	forced, err := ev.ForceDeep(ctx, a)
	if err != nil {
		return nil, err
	}
	bits, err := modulate.Modulate(forced)
	if err != nil {
		return nil, typeMismatch("mod", err)
	}
	return symbol.NewModulated(bits), nil
}

func (ev *Evaluator) reduceDem(ctx context.Context, a *symbol.Symbol) (*symbol.Symbol, error) {
	forced, err := ev.Force(ctx, a)
	if err != nil {
		return nil, err
	}
	if forced.Kind != symbol.Modulated {
		return nil, typeMismatch("dem", fmt.Errorf("expected a modulated value, got %s", forced.Kind))
	}
	result, err := modulate.Demodulate(forced.Bits)
	if err != nil {
		return nil, &EvalError{Kind: BadModulation, Context: "dem", Err: err}
	}
	return result, nil
}

func (ev *Evaluator) reduceSend(ctx context.Context, a *symbol.Symbol) (*symbol.Symbol, error) {
	forced, err := ev.ForceDeep(ctx, a)
	if err != nil {
		return nil, err
	}
	bits, err := modulate.Modulate(forced)
	if err != nil {
		return nil, typeMismatch("send", err)
	}
	reply, err := ev.Effects.Send(ctx, bits)
	if err != nil {
		if _, ok := err.(*effects.SendError); ok {
			return nil, err
		}
		return nil, &effects.SendError{Kind: effects.Network, Err: err}
	}
	result, err := modulate.Demodulate(reply)
	if err != nil {
		return nil, &EvalError{Kind: BadModulation, Context: "send", Err: err}
	}
	return result, nil
}

// reduceIf0 forces only the condition; the unchosen branch is returned
// unforced so that the caller deciding not to evaluate it never pays
// for it, which is what makes scenarios like `ap ap ap if0 1 bottom 3`
// safe despite `bottom` never terminating.
func (ev *Evaluator) reduceIf0(ctx context.Context, cond, ifZero, ifNonZero *symbol.Symbol) (*symbol.Symbol, error) {
	v, err := ev.forceLit(ctx, "if0", cond)
	if err != nil {
		return nil, err
	}
	if v == 0 {
		return ifZero, nil
	}
	return ifNonZero, nil
}

// pixelList forces a list of (x, y) pairs into a Pixel slice.
func (ev *Evaluator) pixelList(ctx context.Context, list *symbol.Symbol) ([]symbol.Pixel, error) {
	var pts []symbol.Pixel
	cur, err := ev.Force(ctx, list)
	if err != nil {
		return nil, err
	}
	for cur.Kind == symbol.Pair {
		point, err := ev.Force(ctx, cur.Head)
		if err != nil {
			return nil, err
		}
		if point.Kind != symbol.Pair {
			return nil, typeMismatch("draw", fmt.Errorf("expected a point pair, got %s", point.Kind))
		}
		x, err := ev.forceLit(ctx, "draw", point.Head)
		if err != nil {
			return nil, err
		}
		y, err := ev.forceLit(ctx, "draw", point.Tail)
		if err != nil {
			return nil, err
		}
		pts = append(pts, symbol.Pixel{X: int(x), Y: int(y)})
		cur, err = ev.Force(ctx, cur.Tail)
		if err != nil {
			return nil, err
		}
	}
	if cur.Kind != symbol.Nil {
		return nil, typeMismatch("draw", fmt.Errorf("expected a nil-terminated list, got %s", cur.Kind))
	}
	return pts, nil
}

func (ev *Evaluator) reduceDraw(ctx context.Context, list *symbol.Symbol) (*symbol.Symbol, error) {
	pts, err := ev.pixelList(ctx, list)
	if err != nil {
		return nil, err
	}
	pic := symbol.NewPicture(pts)
	ev.Effects.Display(pic)
	return symbol.NewImage(pic), nil
}

// reduceCheckerboard renders a width-by-height alternating grid: pixel
// (x, y) is lit when (x%2)^(y%2) is non-zero, the fixed parity rule
// `stack_interpreter.rs`'s GrayImage construction uses. width and
// height are independent dimensions, not a size-and-parity pair.
func (ev *Evaluator) reduceCheckerboard(ctx context.Context, width, height *symbol.Symbol) (*symbol.Symbol, error) {
	w, err := ev.forceLit(ctx, "checkerboard", width)
	if err != nil {
		return nil, err
	}
	h, err := ev.forceLit(ctx, "checkerboard", height)
	if err != nil {
		return nil, err
	}
	var pts []symbol.Pixel
	for y := int64(0); y < h; y++ {
		for x := int64(0); x < w; x++ {
			if (x%2)^(y%2) != 0 {
				pts = append(pts, symbol.Pixel{X: int(x), Y: int(y)})
			}
		}
	}
	pic := symbol.NewPicture(pts)
	ev.Effects.Display(pic)
	return symbol.NewImage(pic), nil
}

// reduceMultipleDraw walks a list of point-lists, drawing each as its
// own frame, and returns the list of rendered Images — the shape §4.6
// describes for rendering every layer of a multi-layer interact frame.
func (ev *Evaluator) reduceMultipleDraw(ctx context.Context, lists *symbol.Symbol) (*symbol.Symbol, error) {
	cur, err := ev.Force(ctx, lists)
	if err != nil {
		return nil, err
	}
	var images []*symbol.Symbol
	for cur.Kind == symbol.Pair {
		img, err := ev.reduceDraw(ctx, cur.Head)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
		cur, err = ev.Force(ctx, cur.Tail)
		if err != nil {
			return nil, err
		}
	}
	if cur.Kind != symbol.Nil {
		return nil, typeMismatch("multipledraw", fmt.Errorf("expected a nil-terminated list, got %s", cur.Kind))
	}
	return symbol.List(images...), nil
}

// reduceStatelessDraw applies protocol to (state, vector), then draws
// the resulting image layers directly without a network round trip —
// the degenerate, state-threading-only half of the interact protocol
// (§4.6's Open Question: no ICFP galaxy-protocol reference survives in
// the retrieved sources, so this shape is this package's own). Unlike
// Interact's result, the protocol's result here is read as a
// (newState, imageLists) pair with no flag component, and nothing is
// sent.
func (ev *Evaluator) reduceStatelessDraw(ctx context.Context, protocol, state, vector *symbol.Symbol) (*symbol.Symbol, error) {
	applied := symbol.Apply(symbol.Apply(protocol, state), vector)
	result, err := ev.forcePair(ctx, "statelessdraw", applied)
	if err != nil {
		return nil, err
	}
	// result = (newState, imageLists)
	return ev.reduceMultipleDraw(ctx, result.Tail)
}

// reduceInteract implements the full interact loop: apply protocol to
// (state, vector) to get (flag, newState, imageOrVector). A zero flag
// means the protocol is done talking to the remote and the frame is
// ready to render; a non-zero flag means the third component is a
// vector to Send onward, and the reply becomes the next vector.
//
// No ICFP galaxy-protocol trace survives in the retrieved sources, so
// this loop's exact flag/tuple shape is this package's own design
// rather than a recovered original (§4.6's Open Question).
func (ev *Evaluator) reduceInteract(ctx context.Context, protocol, state, vector *symbol.Symbol) (*symbol.Symbol, error) {
	for {
		applied := symbol.Apply(symbol.Apply(protocol, state), vector)
		result, err := ev.forcePair(ctx, "interact", applied)
		if err != nil {
			return nil, err
		}
		flag, err := ev.forceLit(ctx, "interact", result.Head)
		if err != nil {
			return nil, err
		}
		rest, err := ev.forcePair(ctx, "interact", result.Tail)
		if err != nil {
			return nil, err
		}
		newState := rest.Head
		payload, err := ev.forcePair(ctx, "interact", rest.Tail)
		if err != nil {
			return nil, err
		}

		if flag == 0 {
			return ev.reduceMultipleDraw(ctx, payload.Head)
		}

		modulated, err := ev.reduceMod(ctx, payload.Head)
		if err != nil {
			return nil, err
		}
		reply, err := ev.Effects.Send(ctx, modulated.Bits)
		if err != nil {
			if _, ok := err.(*effects.SendError); ok {
				return nil, err
			}
			return nil, &effects.SendError{Kind: effects.Network, Err: err}
		}
		nextVector, err := modulate.Demodulate(reply)
		if err != nil {
			return nil, &EvalError{Kind: BadModulation, Context: "interact", Err: err}
		}

		state = newState
		vector = nextVector
	}
}
