package interp

import (
	"math"
	"strings"

	"github.com/ayushashi11/ionvm/internal/value"
)

type arithOp uint8

const (
	opAdd arithOp = iota
	opSub
	opMul
	opDiv
)

// arith implements Add/Sub/Mul/Div per spec.md §4.3: numeric on two
// Numbers, Undefined on division by zero or type mismatch, with two
// supplemented atom-arithmetic cases (SPEC_FULL.md, resolving Open
// Question (a) via original_source's string-atom fallback): Add on two
// Atoms concatenates; Mul(Atom, Number) repeats the atom's string floor(n)
// times.
func arith(a, b value.Value, op arithOp) value.Value {
	if a.IsNumber() && b.IsNumber() {
		x, y := a.AsNumber(), b.AsNumber()
		switch op {
		case opAdd:
			return value.Number(x + y)
		case opSub:
			return value.Number(x - y)
		case opMul:
			return value.Number(x * y)
		case opDiv:
			if y == 0 {
				return value.Undefined()
			}
			return value.Number(x / y)
		}
	}

	if op == opAdd && a.IsAtom() && b.IsAtom() {
		return value.Atom(a.AsAtom() + b.AsAtom())
	}

	if op == opMul {
		if a.IsAtom() && b.IsNumber() {
			return repeatAtom(a.AsAtom(), b.AsNumber())
		}
		if b.IsAtom() && a.IsNumber() {
			return repeatAtom(b.AsAtom(), a.AsNumber())
		}
	}

	return value.Undefined()
}

func repeatAtom(s string, n float64) value.Value {
	if math.IsNaN(n) || math.IsInf(n, 0) || n < 0 {
		return value.Undefined()
	}
	count := int(n)
	return value.Atom(strings.Repeat(s, count))
}
