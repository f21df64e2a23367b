package bytecode

import "github.com/ayushashi11/ionvm/internal/value"

// encodeInstruction writes one instruction: a one-byte opcode followed by
// its operands, per spec.md §4.1. Register operands are u32; jump offsets
// are signed i32; variable-length operand lists (Call, Spawn, Match) are
// preceded by a u32 count.
func encodeInstruction(w *writer, instr value.Instruction) {
	w.u8(byte(instr.Op))
	switch instr.Op {
	case value.OpLoadConst:
		w.u32(instr.Reg)
		encodeValue(w, instr.Const)
	case value.OpMove:
		w.u32(instr.Reg)
		w.u32(instr.Reg2)
	case value.OpAdd, value.OpSub, value.OpMul, value.OpDiv:
		w.u32(instr.Reg)
		w.u32(instr.Reg2)
		w.u32(instr.Reg3)
	case value.OpGetProp:
		w.u32(instr.Reg)
		w.u32(instr.Reg2)
		w.u32(instr.Reg3)
	case value.OpSetProp:
		w.u32(instr.Reg)
		w.u32(instr.Reg2)
		w.u32(instr.Reg3)
	case value.OpCall:
		w.u32(instr.Reg)  // dst
		w.u32(instr.Reg2) // func
		w.u32(uint32(len(instr.Args)))
		for _, a := range instr.Args {
			w.u32(a)
		}
	case value.OpReturn:
		w.u32(instr.Reg)
	case value.OpJump:
		w.i32(instr.Offset)
	case value.OpJumpIfTrue, value.OpJumpIfFalse:
		w.u32(instr.Reg)
		w.i32(instr.Offset)
	case value.OpSpawn:
		w.u32(instr.Reg)  // dst
		w.u32(instr.Reg2) // func
		w.u32(uint32(len(instr.Args)))
		for _, a := range instr.Args {
			w.u32(a)
		}
	case value.OpSend:
		w.u32(instr.Reg)  // proc
		w.u32(instr.Reg2) // msg
	case value.OpReceive:
		w.u32(instr.Reg)
	case value.OpReceiveWithTimeout:
		w.u32(instr.Reg)  // dst
		w.u32(instr.Reg2) // timeout_reg
		w.u32(instr.Reg3) // result_reg
	case value.OpLink:
		w.u32(instr.Reg)
	case value.OpMatch:
		w.u32(instr.Reg) // src
		w.u32(uint32(len(instr.Arms)))
		for _, arm := range instr.Arms {
			encodePattern(w, arm.Pattern)
			w.i32(arm.Offset)
		}
	case value.OpYield, value.OpNop:
		// no operands
	}
}

func decodeInstruction(r *reader, totalRegs uint32, fnName string, instrIdx int) (value.Instruction, error) {
	startOffset := r.offset()
	opByte, err := r.u8()
	if err != nil {
		return value.Instruction{}, err
	}
	op := value.Opcode(opByte)

	checkReg := func(reg uint32) error {
		if reg >= totalRegs {
			return regOutOfRange(fnName, instrIdx, reg)
		}
		return nil
	}

	var instr value.Instruction
	instr.Op = op

	switch op {
	case value.OpLoadConst:
		reg, err := r.u32()
		if err != nil {
			return instr, err
		}
		if err := checkReg(reg); err != nil {
			return instr, err
		}
		v, err := decodeValue(r)
		if err != nil {
			return instr, err
		}
		instr.Reg, instr.Const = reg, v

	case value.OpMove:
		if instr.Reg, err = r.u32(); err != nil {
			return instr, err
		}
		if instr.Reg2, err = r.u32(); err != nil {
			return instr, err
		}
		if err := checkReg(instr.Reg); err != nil {
			return instr, err
		}
		if err := checkReg(instr.Reg2); err != nil {
			return instr, err
		}

	case value.OpAdd, value.OpSub, value.OpMul, value.OpDiv, value.OpGetProp, value.OpSetProp:
		regs := make([]uint32, 3)
		for i := range regs {
			if regs[i], err = r.u32(); err != nil {
				return instr, err
			}
			if err := checkReg(regs[i]); err != nil {
				return instr, err
			}
		}
		instr.Reg, instr.Reg2, instr.Reg3 = regs[0], regs[1], regs[2]

	case value.OpCall, value.OpSpawn:
		if instr.Reg, err = r.u32(); err != nil { // dst
			return instr, err
		}
		if instr.Reg2, err = r.u32(); err != nil { // func
			return instr, err
		}
		if err := checkReg(instr.Reg); err != nil {
			return instr, err
		}
		if err := checkReg(instr.Reg2); err != nil {
			return instr, err
		}
		argc, err := r.u32()
		if err != nil {
			return instr, err
		}
		args := make([]uint32, argc)
		for i := range args {
			if args[i], err = r.u32(); err != nil {
				return instr, err
			}
			if err := checkReg(args[i]); err != nil {
				return instr, err
			}
		}
		instr.Args = args

	case value.OpReturn, value.OpReceive, value.OpLink:
		if instr.Reg, err = r.u32(); err != nil {
			return instr, err
		}
		if err := checkReg(instr.Reg); err != nil {
			return instr, err
		}

	case value.OpJump:
		if instr.Offset, err = r.i32(); err != nil {
			return instr, err
		}

	case value.OpJumpIfTrue, value.OpJumpIfFalse:
		if instr.Reg, err = r.u32(); err != nil {
			return instr, err
		}
		if err := checkReg(instr.Reg); err != nil {
			return instr, err
		}
		if instr.Offset, err = r.i32(); err != nil {
			return instr, err
		}

	case value.OpSend:
		if instr.Reg, err = r.u32(); err != nil { // proc
			return instr, err
		}
		if instr.Reg2, err = r.u32(); err != nil { // msg
			return instr, err
		}
		if err := checkReg(instr.Reg); err != nil {
			return instr, err
		}
		if err := checkReg(instr.Reg2); err != nil {
			return instr, err
		}

	case value.OpReceiveWithTimeout:
		regs := make([]uint32, 3)
		for i := range regs {
			if regs[i], err = r.u32(); err != nil {
				return instr, err
			}
			if err := checkReg(regs[i]); err != nil {
				return instr, err
			}
		}
		instr.Reg, instr.Reg2, instr.Reg3 = regs[0], regs[1], regs[2]

	case value.OpMatch:
		if instr.Reg, err = r.u32(); err != nil {
			return instr, err
		}
		if err := checkReg(instr.Reg); err != nil {
			return instr, err
		}
		count, err := r.u32()
		if err != nil {
			return instr, err
		}
		arms := make([]value.MatchArm, 0, count)
		for i := uint32(0); i < count; i++ {
			pat, err := decodePattern(r)
			if err != nil {
				return instr, err
			}
			off, err := r.i32()
			if err != nil {
				return instr, err
			}
			arms = append(arms, value.MatchArm{Pattern: pat, Offset: off})
		}
		instr.Arms = arms

	case value.OpYield, value.OpNop:
		// no operands

	default:
		return instr, badOpcode(startOffset, opByte)
	}

	return instr, nil
}
