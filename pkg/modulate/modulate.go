// Package modulate implements the total, bijective wire encoding
// between Lit/Nil/Pair values and bit strings described in §4.4 of the
// spec. Bit strings are represented as Go strings of '0'/'1' bytes,
// matching the wire protocol's literal send/receive payload shape.
package modulate

import (
	"fmt"
	"strings"

	"github.com/vic/alienvm/pkg/symbol"
)

// ModError is raised by Demodulate on malformed input. It surfaces to
// callers as EvalError{bad_modulation} per §7.
type ModError struct {
	Kind string // "truncated" | "unexpected_prefix"
}

func (e *ModError) Error() string {
	return fmt.Sprintf("modulation error: %s", e.Kind)
}

const (
	signPositive = "01"
	signNegative = "10"
	nilHeader    = "00"
	pairHeader   = "11"
)

// Modulate encodes a fully forced value into its wire bit-string. Only
// Lit, Nil, and Pair are supported; forcing a value into this supported
// domain is the evaluator's job (Mod forces recursively through pairs
// before calling Modulate).
func Modulate(v *symbol.Symbol) (string, error) {
	var b strings.Builder
	if err := modulate(&b, v); err != nil {
		return "", err
	}
	return b.String(), nil
}

func modulate(b *strings.Builder, v *symbol.Symbol) error {
	switch v.Kind {
	case symbol.Lit:
		modulateNumber(b, v.Lit)
		return nil
	case symbol.Nil:
		b.WriteString(nilHeader)
		return nil
	case symbol.Pair:
		b.WriteString(pairHeader)
		if err := modulate(b, v.Head); err != nil {
			return err
		}
		return modulate(b, v.Tail)
	default:
		return fmt.Errorf("modulate: unsupported value kind %s", v.Kind)
	}
}

// modulateNumber writes the two sign bits, the unary width prefix, and
// the most-significant-bit-first payload.
//
//	01 | 10                sign: non-negative | negative
//	1^k 0                  unary width prefix, k = payload nibbles
//	<4k bits>              payload, MSB first
//
// Zero is the degenerate "010" case: sign-positive, zero-width.
func modulateNumber(b *strings.Builder, n int64) {
	if n == 0 {
		b.WriteString(signPositive)
		b.WriteByte('0')
		return
	}

	if n < 0 {
		b.WriteString(signNegative)
	} else {
		b.WriteString(signPositive)
	}

	mag := n
	if mag < 0 {
		mag = -mag
	}

	bits := bitLength(uint64(mag))
	nibbles := bits / 4
	if bits%4 != 0 {
		nibbles++
	}

	for i := 0; i < nibbles; i++ {
		b.WriteByte('1')
	}
	b.WriteByte('0')

	width := nibbles * 4
	for i := width - 1; i >= 0; i-- {
		if (mag>>uint(i))&1 == 1 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
}

func bitLength(v uint64) int {
	n := 0
	for v > 0 {
		n++
		v >>= 1
	}
	return n
}

// Demodulate decodes a complete wire bit-string back into a value.
func Demodulate(bits string) (*symbol.Symbol, error) {
	v, rest, err := demodulate(bits)
	if err != nil {
		return nil, err
	}
	if rest != "" {
		return nil, &ModError{Kind: "unexpected_prefix"}
	}
	return v, nil
}

func demodulate(bits string) (*symbol.Symbol, string, error) {
	if len(bits) < 2 {
		return nil, "", &ModError{Kind: "truncated"}
	}
	header := bits[:2]
	rest := bits[2:]

	switch header {
	case nilHeader:
		return symbol.NilValue, rest, nil
	case pairHeader:
		head, rest, err := demodulate(rest)
		if err != nil {
			return nil, "", err
		}
		tail, rest, err := demodulate(rest)
		if err != nil {
			return nil, "", err
		}
		return symbol.NewPair(head, tail), rest, nil
	case signPositive, signNegative:
		return demodulateNumber(header == signNegative, rest)
	default:
		return nil, "", &ModError{Kind: "unexpected_prefix"}
	}
}

func demodulateNumber(negative bool, bits string) (*symbol.Symbol, string, error) {
	width := 0
	i := 0
	for ; i < len(bits); i++ {
		if bits[i] == '1' {
			width++
			continue
		}
		break
	}
	if i >= len(bits) {
		return nil, "", &ModError{Kind: "truncated"}
	}
	// bits[i] == '0', the unary terminator.
	rest := bits[i+1:]

	if width == 0 {
		return symbol.NewLit(0), rest, nil
	}

	payloadLen := width * 4
	if len(rest) < payloadLen {
		return nil, "", &ModError{Kind: "truncated"}
	}
	payload := rest[:payloadLen]
	rest = rest[payloadLen:]

	var mag int64
	for j := 0; j < len(payload); j++ {
		mag <<= 1
		if payload[j] == '1' {
			mag |= 1
		}
	}
	if negative {
		mag = -mag
	}
	return symbol.NewLit(mag), rest, nil
}
