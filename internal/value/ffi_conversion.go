package value

import (
	"fmt"

	"github.com/ayushashi11/ionvm/internal/ffi"
)

// ToFFI converts v to the reduced FFI value domain per spec.md §6. Process,
// Function, Closure and TaggedEnum are not convertible; Atom crosses as an
// ffi.Atom rather than being collapsed into ffi.String, so the boundary
// keeps atom/string distinct the way the core does.
func ToFFI(v Value) (ffi.Value, error) {
	switch v.Kind() {
	case KindNumber:
		return ffi.Number(v.AsNumber()), nil
	case KindBoolean:
		return ffi.Boolean(v.AsBool()), nil
	case KindAtom:
		return ffi.Atom(v.AsAtom()), nil
	case KindUnit:
		return ffi.Unit(), nil
	case KindUndefined:
		return ffi.Undefined(), nil
	case KindTuple:
		elems := v.AsTuple()
		out := make([]ffi.Value, len(elems))
		for i, e := range elems {
			fv, err := ToFFI(e)
			if err != nil {
				return ffi.Value{}, err
			}
			out[i] = fv
		}
		return ffi.Tuple(out), nil
	case KindArray:
		elems := v.AsArray().Snapshot()
		out := make([]ffi.Value, len(elems))
		for i, e := range elems {
			fv, err := ToFFI(e)
			if err != nil {
				return ffi.Value{}, err
			}
			out[i] = fv
		}
		return ffi.Array(out), nil
	case KindObject:
		obj := v.AsObject()
		m := make(map[string]ffi.Value, obj.Len())
		for _, k := range obj.Keys() {
			fv, err := ToFFI(obj.Get(k))
			if err != nil {
				return ffi.Value{}, err
			}
			m[k] = fv
		}
		return ffi.Object(m), nil
	default:
		return ffi.Value{}, &ffi.Error{
			Kind:    ffi.TypeError,
			Message: fmt.Sprintf("%s is not convertible across the FFI boundary", v.Kind()),
		}
	}
}

// FromFFI converts an ffi.Value back into the core Value domain. Every
// ffi.Kind has a Value counterpart, so this direction never fails.
func FromFFI(v ffi.Value) Value {
	switch v.Kind() {
	case ffi.KindNumber:
		return Number(v.AsNumber())
	case ffi.KindBoolean:
		return Boolean(v.AsBool())
	case ffi.KindAtom:
		return Atom(v.AsAtom())
	case ffi.KindString:
		return Atom(v.AsString())
	case ffi.KindUnit:
		return Unit()
	case ffi.KindUndefined:
		return Undefined()
	case ffi.KindTuple:
		elems := v.AsTuple()
		out := make([]Value, len(elems))
		for i, e := range elems {
			out[i] = FromFFI(e)
		}
		return Tuple(out)
	case ffi.KindArray:
		elems := v.AsArray()
		out := make([]Value, len(elems))
		for i, e := range elems {
			out[i] = FromFFI(e)
		}
		return FromArray(NewArray(out))
	case ffi.KindObject:
		obj := NewObject()
		for k, fv := range v.AsObject() {
			obj.Set(k, FromFFI(fv))
		}
		return FromObject(obj)
	default:
		return Undefined()
	}
}
