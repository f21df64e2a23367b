package interp

import (
	"github.com/ayushashi11/ionvm/internal/process"
	"github.com/ayushashi11/ionvm/internal/value"
)

// execGetProp implements spec.md §4.3's GetProp: key must be Atom
// (otherwise Undefined); obj must be Object (otherwise Undefined); the
// prototype-chain walk itself is Object.Get's job.
func execGetProp(obj, key value.Value) value.Value {
	if !key.IsAtom() || !obj.IsObject() {
		return value.Undefined()
	}
	return obj.AsObject().Get(key.AsAtom())
}

// execSetProp implements spec.md §4.3's SetProp: only acts on
// Object+Atom-key; all other combinations are silently ignored (a
// value-level fault per spec.md §7, not a fatal one).
func execSetProp(obj, key, val value.Value) {
	if !key.IsAtom() || !obj.IsObject() {
		return
	}
	obj.AsObject().Set(key.AsAtom(), val)
}

// execMatch implements spec.md §4.3's Match: arms are tried in program
// order; the first matching arm's jump offset is applied to frame.IP
// (already past the post-fetch increment); no match falls through with
// no IP adjustment, matching instruction invariant (b) that ip simply
// continues at the next instruction.
func execMatch(frame *process.Frame, instr value.Instruction) {
	src := frame.Regs[instr.Reg]
	for _, arm := range instr.Arms {
		if matches(src, arm.Pattern) {
			frame.IP += int(arm.Offset)
			return
		}
	}
}

func matches(v value.Value, p value.Pattern) bool {
	switch p.Kind {
	case value.PatternWildcard:
		return true
	case value.PatternValue:
		return v.Equals(p.Value)
	case value.PatternTuple:
		if !v.IsTuple() {
			return false
		}
		elems := v.AsTuple()
		if len(elems) != len(p.Sub) {
			return false
		}
		for i, sp := range p.Sub {
			if !matches(elems[i], sp) {
				return false
			}
		}
		return true
	case value.PatternArray:
		if !v.IsArray() {
			return false
		}
		elems := v.AsArray().Snapshot()
		if len(elems) != len(p.Sub) {
			return false
		}
		for i, sp := range p.Sub {
			if !matches(elems[i], sp) {
				return false
			}
		}
		return true
	case value.PatternTaggedEnum:
		if !v.IsTaggedEnum() {
			return false
		}
		te := v.AsTaggedEnum()
		if te.Tag != p.Tag {
			return false
		}
		if p.Inner == nil {
			return true
		}
		return matches(te.Inner, *p.Inner)
	default:
		return false
	}
}
