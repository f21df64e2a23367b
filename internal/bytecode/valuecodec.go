package bytecode

import "github.com/ayushashi11/ionvm/internal/value"

// Value tags, spec.md §4.1 "Value encoding".
const (
	vtagNumber    byte = 0x01
	vtagBoolean   byte = 0x02
	vtagAtom      byte = 0x03
	vtagUnit      byte = 0x04
	vtagUndefined byte = 0x05
	vtagArray     byte = 0x06
	vtagObject    byte = 0x07
	vtagFunction  byte = 0x08
	vtagTuple     byte = 0x09
)

// descriptor flag bits, spec.md §4.1: bits 0=writable 1=enumerable 2=configurable
const (
	flagWritable     byte = 1 << 0
	flagEnumerable   byte = 1 << 1
	flagConfigurable byte = 1 << 2
)

func encodeValue(w *writer, v value.Value) {
	switch v.Kind() {
	case value.KindNumber:
		w.u8(vtagNumber)
		w.f64(v.AsNumber())
	case value.KindBoolean:
		w.u8(vtagBoolean)
		if v.AsBool() {
			w.u8(1)
		} else {
			w.u8(0)
		}
	case value.KindAtom:
		w.u8(vtagAtom)
		w.str(v.AsAtom())
	case value.KindUnit:
		w.u8(vtagUnit)
	case value.KindUndefined:
		w.u8(vtagUndefined)
	case value.KindArray:
		w.u8(vtagArray)
		elems := v.AsArray().Snapshot()
		w.u32(uint32(len(elems)))
		for _, e := range elems {
			encodeValue(w, e)
		}
	case value.KindObject:
		w.u8(vtagObject)
		obj := v.AsObject()
		keys := obj.Keys()
		w.u32(uint32(len(keys)))
		for _, k := range keys {
			d, _ := obj.OwnDescriptor(k)
			w.str(k)
			encodeValue(w, d.Value)
			var flags byte
			if d.Writable {
				flags |= flagWritable
			}
			if d.Enumerable {
				flags |= flagEnumerable
			}
			if d.Configurable {
				flags |= flagConfigurable
			}
			w.u8(flags)
		}
	case value.KindFunction:
		w.u8(vtagFunction)
		fn := v.AsFunction()
		name := fn.Name
		w.str(name)
	case value.KindTuple:
		w.u8(vtagTuple)
		elems := v.AsTuple()
		w.u32(uint32(len(elems)))
		for _, e := range elems {
			encodeValue(w, e)
		}
	default:
		// Closure, Process and TaggedEnum have no literal encoding; callers
		// must not place them in a constant pool. Encode as Undefined
		// defensively.
		w.u8(vtagUndefined)
	}
}

// decodeValue decodes a value literal. A symbolic Function reference (by
// name) is not resolved here — link-time resolution is the package
// loader's job (out of scope) — so this core represents it as a named,
// bodyless Function value.
func decodeValue(r *reader) (value.Value, error) {
	tag, err := r.u8()
	if err != nil {
		return value.Value{}, err
	}
	switch tag {
	case vtagNumber:
		n, err := r.f64()
		if err != nil {
			return value.Value{}, err
		}
		return value.Number(n), nil
	case vtagBoolean:
		b, err := r.u8()
		if err != nil {
			return value.Value{}, err
		}
		return value.Boolean(b != 0), nil
	case vtagAtom:
		s, err := r.str()
		if err != nil {
			return value.Value{}, err
		}
		return value.Atom(s), nil
	case vtagUnit:
		return value.Unit(), nil
	case vtagUndefined:
		return value.Undefined(), nil
	case vtagArray:
		n, err := r.u32()
		if err != nil {
			return value.Value{}, err
		}
		elems := make([]value.Value, 0, n)
		for i := uint32(0); i < n; i++ {
			e, err := decodeValue(r)
			if err != nil {
				return value.Value{}, err
			}
			elems = append(elems, e)
		}
		return value.FromArray(value.NewArray(elems)), nil
	case vtagObject:
		n, err := r.u32()
		if err != nil {
			return value.Value{}, err
		}
		obj := value.NewObject()
		for i := uint32(0); i < n; i++ {
			key, err := r.str()
			if err != nil {
				return value.Value{}, err
			}
			val, err := decodeValue(r)
			if err != nil {
				return value.Value{}, err
			}
			flags, err := r.u8()
			if err != nil {
				return value.Value{}, err
			}
			obj.SetDescriptor(key, value.PropertyDescriptor{
				Value:        val,
				Writable:     flags&flagWritable != 0,
				Enumerable:   flags&flagEnumerable != 0,
				Configurable: flags&flagConfigurable != 0,
			})
		}
		return value.FromObject(obj), nil
	case vtagFunction:
		name, err := r.str()
		if err != nil {
			return value.Value{}, err
		}
		// Unresolved symbolic reference: a named, empty-bodied Function.
		// The package loader (out of scope) resolves this against its
		// class directory at link time.
		return value.FromFunction(&value.Function{Name: name, HasName: true, FnKind: value.KindBytecode}), nil
	case vtagTuple:
		n, err := r.u32()
		if err != nil {
			return value.Value{}, err
		}
		elems := make([]value.Value, 0, n)
		for i := uint32(0); i < n; i++ {
			e, err := decodeValue(r)
			if err != nil {
				return value.Value{}, err
			}
			elems = append(elems, e)
		}
		return value.Tuple(elems), nil
	default:
		return value.Value{}, badOpcode(r.pos-1, tag)
	}
}

// Pattern tags, spec.md §4.1 "Pattern encoding".
const (
	ptagValue      byte = 0x01
	ptagWildcard   byte = 0x02
	ptagTuple      byte = 0x03
	ptagArray      byte = 0x04
	ptagTaggedEnum byte = 0x05
)

func encodePattern(w *writer, p value.Pattern) {
	switch p.Kind {
	case value.PatternValue:
		w.u8(ptagValue)
		encodeValue(w, p.Value)
	case value.PatternWildcard:
		w.u8(ptagWildcard)
	case value.PatternTuple:
		w.u8(ptagTuple)
		w.u32(uint32(len(p.Sub)))
		for _, sp := range p.Sub {
			encodePattern(w, sp)
		}
	case value.PatternArray:
		w.u8(ptagArray)
		w.u32(uint32(len(p.Sub)))
		for _, sp := range p.Sub {
			encodePattern(w, sp)
		}
	case value.PatternTaggedEnum:
		w.u8(ptagTaggedEnum)
		w.str(p.Tag)
		encodePattern(w, *p.Inner)
	}
}

func decodePattern(r *reader) (value.Pattern, error) {
	tag, err := r.u8()
	if err != nil {
		return value.Pattern{}, err
	}
	switch tag {
	case ptagValue:
		v, err := decodeValue(r)
		if err != nil {
			return value.Pattern{}, err
		}
		return value.Pattern{Kind: value.PatternValue, Value: v}, nil
	case ptagWildcard:
		return value.Pattern{Kind: value.PatternWildcard}, nil
	case ptagTuple, ptagArray:
		n, err := r.u32()
		if err != nil {
			return value.Pattern{}, err
		}
		sub := make([]value.Pattern, 0, n)
		for i := uint32(0); i < n; i++ {
			sp, err := decodePattern(r)
			if err != nil {
				return value.Pattern{}, err
			}
			sub = append(sub, sp)
		}
		kind := value.PatternTuple
		if tag == ptagArray {
			kind = value.PatternArray
		}
		return value.Pattern{Kind: kind, Sub: sub}, nil
	case ptagTaggedEnum:
		tagAtom, err := r.str()
		if err != nil {
			return value.Pattern{}, err
		}
		inner, err := decodePattern(r)
		if err != nil {
			return value.Pattern{}, err
		}
		return value.Pattern{Kind: value.PatternTaggedEnum, Tag: tagAtom, Inner: &inner}, nil
	default:
		return value.Pattern{}, badOpcode(r.pos-1, tag)
	}
}
