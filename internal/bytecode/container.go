// Package bytecode implements the binary codec for IonVM function records
// (spec.md §4.1): magic-prefixed, versioned, one function per container.
// Grounded on the teacher's internal/vm/chunk.go (byte-cursor accumulation)
// and internal/vm/bundle.go (magic+version+payload framing idiom), adapted
// from the teacher's gob-based bundle format to the spec's hand-rolled
// little-endian layout.
package bytecode

import "github.com/ayushashi11/ionvm/internal/value"

// Magic is the fixed 8-byte prefix of every encoded function record.
var Magic = [8]byte{'I', 'O', 'N', 'B', 'C', 0x01, 0x00, 0x00}

// Version is the format version this package reads and writes.
const Version uint32 = 1

const (
	fnKindBytecode byte = 0x00
	fnKindFFI      byte = 0x01
)

// Encode serializes fn into the wire format described by spec.md §4.1:
// magic, version, has_name flag (+name), arity, extra_regs, kind, and
// either the instruction stream or the FFI name.
func Encode(fn *value.Function) []byte {
	w := &writer{}
	w.bytes(Magic[:])
	w.u32(Version)

	if fn.HasName {
		w.u8(1)
		w.str(fn.Name)
	} else {
		w.u8(0)
	}
	w.u32(fn.Arity)
	w.u32(fn.ExtraRegs)

	switch fn.FnKind {
	case value.KindFFI:
		w.u8(fnKindFFI)
		w.str(fn.FFIName)
	default:
		w.u8(fnKindBytecode)
		w.u32(uint32(len(fn.Instructions)))
		for _, instr := range fn.Instructions {
			encodeInstruction(w, instr)
		}
	}
	return w.buf
}

// Decode parses buf into a *value.Function, validating magic, version,
// opcodes, register bounds and jump targets per spec.md §7. No partially
// constructed function is ever handed back on error: a non-nil error means
// the second return value is nil.
func Decode(buf []byte) (*value.Function, error) {
	r := newReader(buf)

	magic, err := r.bytesN(8)
	if err != nil {
		return nil, &DecodeError{Kind: BadMagic, Offset: 0, Detail: "truncated magic"}
	}
	for i := 0; i < 8; i++ {
		if magic[i] != Magic[i] {
			return nil, &DecodeError{Kind: BadMagic, Offset: 0, Detail: "magic mismatch"}
		}
	}

	version, err := r.u32()
	if err != nil {
		return nil, err
	}
	if version != Version {
		return nil, &DecodeError{Kind: UnsupportedVersion, Offset: 8, Detail: "unsupported version"}
	}

	hasName, err := r.u8()
	if err != nil {
		return nil, err
	}
	fn := &value.Function{}
	if hasName != 0 {
		name, err := r.str()
		if err != nil {
			return nil, err
		}
		fn.Name, fn.HasName = name, true
	}

	if fn.Arity, err = r.u32(); err != nil {
		return nil, err
	}
	if fn.ExtraRegs, err = r.u32(); err != nil {
		return nil, err
	}

	kind, err := r.u8()
	if err != nil {
		return nil, err
	}

	switch kind {
	case fnKindFFI:
		fn.FnKind = value.KindFFI
		name, err := r.str()
		if err != nil {
			return nil, err
		}
		fn.FFIName = name
		return fn, nil

	case fnKindBytecode:
		fn.FnKind = value.KindBytecode
		count, err := r.u32()
		if err != nil {
			return nil, err
		}
		total := fn.TotalRegisters()
		instrs := make([]value.Instruction, 0, count)
		for i := uint32(0); i < count; i++ {
			instr, err := decodeInstruction(r, total, fn.Name, int(i))
			if err != nil {
				return nil, err
			}
			instrs = append(instrs, instr)
		}
		if err := validateJumps(instrs, fn.Name); err != nil {
			return nil, err
		}
		fn.Instructions = instrs
		return fn, nil

	default:
		return nil, badOpcode(r.offset()-1, kind)
	}
}

// validateJumps checks that every jump target in fn's instruction stream
// keeps the instruction pointer within [0, len(instrs)] (spec.md §7:
// JumpOutOfRange). A target equal to len(instrs) is valid: it represents
// falling off the end of the function, which Return/implicit-exit handles.
func validateJumps(instrs []value.Instruction, fnName string) error {
	n := int32(len(instrs))
	inRange := func(idx int, offset int32) bool {
		target := int32(idx) + 1 + offset
		return target >= 0 && target <= n
	}
	for i, instr := range instrs {
		switch instr.Op {
		case value.OpJump:
			if !inRange(i, instr.Offset) {
				return jumpOutOfRange(fnName, i)
			}
		case value.OpJumpIfTrue, value.OpJumpIfFalse:
			if !inRange(i, instr.Offset) {
				return jumpOutOfRange(fnName, i)
			}
		case value.OpMatch:
			for _, arm := range instr.Arms {
				if !inRange(i, arm.Offset) {
					return jumpOutOfRange(fnName, i)
				}
			}
		}
	}
	return nil
}
