package bytecode

import (
	"testing"

	"github.com/ayushashi11/ionvm/internal/value"
)

func roundTrip(t *testing.T, fn *value.Function) *value.Function {
	t.Helper()
	buf := Encode(fn)
	got, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode(Encode(fn)) failed: %v", err)
	}
	return got
}

func TestRoundTripSimpleArithmetic(t *testing.T) {
	fn := &value.Function{
		Name:      "add",
		HasName:   true,
		Arity:     2,
		ExtraRegs: 1,
		FnKind:    value.KindBytecode,
		Instructions: []value.Instruction{
			{Op: value.OpAdd, Reg: 2, Reg2: 0, Reg3: 1},
			{Op: value.OpReturn, Reg: 2},
		},
	}
	got := roundTrip(t, fn)
	if got.Name != "add" || !got.HasName {
		t.Errorf("name mismatch: %+v", got)
	}
	if got.Arity != 2 || got.ExtraRegs != 1 {
		t.Errorf("arity/extraRegs mismatch: %+v", got)
	}
	if len(got.Instructions) != 2 {
		t.Fatalf("expected 2 instructions, got %d", len(got.Instructions))
	}
	if got.Instructions[0].Op != value.OpAdd || got.Instructions[0].Reg != 2 ||
		got.Instructions[0].Reg2 != 0 || got.Instructions[0].Reg3 != 1 {
		t.Errorf("instr 0 mismatch: %+v", got.Instructions[0])
	}
	if got.Instructions[1].Op != value.OpReturn || got.Instructions[1].Reg != 2 {
		t.Errorf("instr 1 mismatch: %+v", got.Instructions[1])
	}
}

func TestRoundTripAnonymousFFI(t *testing.T) {
	fn := &value.Function{
		Arity:   1,
		FnKind:  value.KindFFI,
		FFIName: "print",
	}
	got := roundTrip(t, fn)
	if got.HasName {
		t.Errorf("expected anonymous function, got name %q", got.Name)
	}
	if got.FnKind != value.KindFFI || got.FFIName != "print" {
		t.Errorf("ffi fields mismatch: %+v", got)
	}
}

func TestRoundTripConstantsAndLiterals(t *testing.T) {
	obj := value.NewObject()
	obj.Set("k", value.Number(42))
	arr := value.NewArray([]value.Value{value.Atom("a"), value.Boolean(true)})

	fn := &value.Function{
		Arity:  1,
		FnKind: value.KindBytecode,
		Instructions: []value.Instruction{
			{Op: value.OpLoadConst, Reg: 0, Const: value.FromObject(obj)},
			{Op: value.OpLoadConst, Reg: 1, Const: value.FromArray(arr)},
			{Op: value.OpLoadConst, Reg: 2, Const: value.Tuple([]value.Value{value.Number(1), value.Unit()})},
			{Op: value.OpReturn, Reg: 0},
		},
	}
	got := roundTrip(t, fn)
	c0 := got.Instructions[0].Const
	if !c0.IsObject() || c0.AsObject().Get("k").AsNumber() != 42 {
		t.Errorf("object constant mismatch: %v", c0)
	}
	c1 := got.Instructions[1].Const
	if !c1.IsArray() || c1.AsArray().Len() != 2 {
		t.Errorf("array constant mismatch: %v", c1)
	}
	c2 := got.Instructions[2].Const
	if !c2.IsTuple() || len(c2.AsTuple()) != 2 {
		t.Errorf("tuple constant mismatch: %v", c2)
	}
}

func TestRoundTripMatchWithTaggedEnumPattern(t *testing.T) {
	fn := &value.Function{
		Arity:  1,
		FnKind: value.KindBytecode,
		Instructions: []value.Instruction{
			{
				Op:  value.OpMatch,
				Reg: 0,
				Arms: []value.MatchArm{
					{
						Pattern: value.Pattern{
							Kind: value.PatternTaggedEnum,
							Tag:  "ok",
							Inner: &value.Pattern{Kind: value.PatternWildcard},
						},
						Offset: 1,
					},
					{Pattern: value.Pattern{Kind: value.PatternWildcard}, Offset: 2},
				},
			},
			{Op: value.OpNop},
			{Op: value.OpNop},
			{Op: value.OpReturn, Reg: 0},
		},
	}
	got := roundTrip(t, fn)
	arms := got.Instructions[0].Arms
	if len(arms) != 2 {
		t.Fatalf("expected 2 arms, got %d", len(arms))
	}
	if arms[0].Pattern.Kind != value.PatternTaggedEnum || arms[0].Pattern.Tag != "ok" {
		t.Errorf("tagged enum pattern mismatch: %+v", arms[0].Pattern)
	}
	if arms[0].Pattern.Inner == nil || arms[0].Pattern.Inner.Kind != value.PatternWildcard {
		t.Errorf("tagged enum inner pattern mismatch: %+v", arms[0].Pattern)
	}
}

func TestRoundTripCallAndSpawnVariadicArgs(t *testing.T) {
	fn := &value.Function{
		Arity:  0,
		FnKind: value.KindBytecode,
		Instructions: []value.Instruction{
			{Op: value.OpCall, Reg: 3, Reg2: 0, Args: []uint32{1, 2, 4}},
			{Op: value.OpSpawn, Reg: 5, Reg2: 0, Args: []uint32{1}},
			{Op: value.OpReturn, Reg: 3},
		},
	}
	got := roundTrip(t, fn)
	if len(got.Instructions[0].Args) != 3 {
		t.Fatalf("expected 3 call args, got %d", len(got.Instructions[0].Args))
	}
	if got.Instructions[0].Args[2] != 4 {
		t.Errorf("call arg mismatch: %+v", got.Instructions[0].Args)
	}
	if len(got.Instructions[1].Args) != 1 || got.Instructions[1].Args[0] != 1 {
		t.Errorf("spawn arg mismatch: %+v", got.Instructions[1].Args)
	}
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	buf := Encode(&value.Function{Arity: 0, FnKind: value.KindBytecode})
	buf[0] = 'X'
	_, err := Decode(buf)
	de, ok := err.(*DecodeError)
	if !ok || de.Kind != BadMagic {
		t.Fatalf("expected BadMagic, got %v", err)
	}
}

func TestDecodeRejectsUnsupportedVersion(t *testing.T) {
	buf := Encode(&value.Function{Arity: 0, FnKind: value.KindBytecode})
	// version is the 4 bytes right after the 8-byte magic
	buf[8] = 0xFF
	_, err := Decode(buf)
	de, ok := err.(*DecodeError)
	if !ok || de.Kind != UnsupportedVersion {
		t.Fatalf("expected UnsupportedVersion, got %v", err)
	}
}

func TestDecodeRejectsTruncatedInput(t *testing.T) {
	buf := Encode(&value.Function{
		Arity:  1,
		FnKind: value.KindBytecode,
		Instructions: []value.Instruction{
			{Op: value.OpReturn, Reg: 0},
		},
	})
	_, err := Decode(buf[:len(buf)-1])
	de, ok := err.(*DecodeError)
	if !ok || de.Kind != Malformed {
		t.Fatalf("expected Malformed, got %v", err)
	}
}

func TestDecodeRejectsUnknownOpcode(t *testing.T) {
	buf := Encode(&value.Function{
		Arity:  1,
		FnKind: value.KindBytecode,
		Instructions: []value.Instruction{
			{Op: value.OpNop},
		},
	})
	// last byte before this point is the opcode byte for Nop; corrupt it.
	buf[len(buf)-1] = 0xEE
	_, err := Decode(buf)
	de, ok := err.(*DecodeError)
	if !ok || de.Kind != BadOpcode {
		t.Fatalf("expected BadOpcode, got %v", err)
	}
}

func TestDecodeRejectsRegisterOutOfRange(t *testing.T) {
	fn := &value.Function{
		Arity:  0,
		FnKind: value.KindBytecode,
		Instructions: []value.Instruction{
			{Op: value.OpReturn, Reg: 0},
		},
	}
	buf := Encode(fn)
	// Patch the register operand (last 4 bytes of the instruction, right
	// after the 1-byte opcode) to an out-of-range value.
	regOffset := len(buf) - 4
	buf[regOffset] = 0xFF
	buf[regOffset+1] = 0xFF
	buf[regOffset+2] = 0xFF
	buf[regOffset+3] = 0xFF
	_, err := Decode(buf)
	de, ok := err.(*DecodeError)
	if !ok || de.Kind != RegisterOutOfRange {
		t.Fatalf("expected RegisterOutOfRange, got %v", err)
	}
}

func TestDecodeRejectsJumpOutOfRange(t *testing.T) {
	fn := &value.Function{
		Arity:  0,
		FnKind: value.KindBytecode,
		Instructions: []value.Instruction{
			{Op: value.OpJump, Offset: 100},
		},
	}
	buf := Encode(fn)
	_, err := Decode(buf)
	de, ok := err.(*DecodeError)
	if !ok || de.Kind != JumpOutOfRange {
		t.Fatalf("expected JumpOutOfRange, got %v", err)
	}
}

func TestDecodeAcceptsJumpToEndOfFunction(t *testing.T) {
	fn := &value.Function{
		Arity:  0,
		FnKind: value.KindBytecode,
		Instructions: []value.Instruction{
			{Op: value.OpJump, Offset: 0}, // jumps to index 1 == len(instrs)
		},
	}
	buf := Encode(fn)
	if _, err := Decode(buf); err != nil {
		t.Fatalf("jump to end-of-function should be valid, got %v", err)
	}
}
