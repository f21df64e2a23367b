package value

// Opcode identifies an instruction. The numeric values are part of the
// wire format (spec.md §4.1) and must not be renumbered.
type Opcode uint8

const (
	OpLoadConst Opcode = 0x01
	OpMove      Opcode = 0x02
	OpAdd       Opcode = 0x03
	OpSub       Opcode = 0x04
	OpMul       Opcode = 0x05
	OpDiv       Opcode = 0x06
	OpGetProp   Opcode = 0x07
	OpSetProp   Opcode = 0x08
	OpCall      Opcode = 0x09
	OpReturn    Opcode = 0x0A
	OpJump      Opcode = 0x0B
	OpJumpIfTrue  Opcode = 0x0C
	OpJumpIfFalse Opcode = 0x0D
	OpSpawn     Opcode = 0x0E
	OpSend      Opcode = 0x0F
	OpReceive   Opcode = 0x10
	OpLink      Opcode = 0x11
	OpMatch     Opcode = 0x12
	OpYield     Opcode = 0x13
	OpNop       Opcode = 0x14
	// OpReceiveWithTimeout extends the base opcode table (spec.md §4.3
	// documents its semantics in prose without assigning it a table row
	// alongside 0x01-0x14; it is encoded as 0x15, immediately following).
	OpReceiveWithTimeout Opcode = 0x15
)

func (op Opcode) String() string {
	switch op {
	case OpLoadConst:
		return "LoadConst"
	case OpMove:
		return "Move"
	case OpAdd:
		return "Add"
	case OpSub:
		return "Sub"
	case OpMul:
		return "Mul"
	case OpDiv:
		return "Div"
	case OpGetProp:
		return "GetProp"
	case OpSetProp:
		return "SetProp"
	case OpCall:
		return "Call"
	case OpReturn:
		return "Return"
	case OpJump:
		return "Jump"
	case OpJumpIfTrue:
		return "JumpIfTrue"
	case OpJumpIfFalse:
		return "JumpIfFalse"
	case OpSpawn:
		return "Spawn"
	case OpSend:
		return "Send"
	case OpReceive:
		return "Receive"
	case OpLink:
		return "Link"
	case OpMatch:
		return "Match"
	case OpYield:
		return "Yield"
	case OpNop:
		return "Nop"
	case OpReceiveWithTimeout:
		return "ReceiveWithTimeout"
	default:
		return "Unknown"
	}
}

// MatchArm is one (pattern, jump offset) pair of a Match instruction.
type MatchArm struct {
	Pattern Pattern
	Offset  int32
}

// Instruction is one decoded bytecode instruction. Not every field is
// meaningful for every opcode; Reg/Reg2/Reg3 are positional register
// operands, Args holds variable-length register-operand lists (Call,
// Spawn), Offset holds a jump displacement, Const holds a LoadConst
// literal, and Arms holds Match's pattern/offset pairs.
type Instruction struct {
	Op     Opcode
	Reg    uint32
	Reg2   uint32
	Reg3   uint32
	Args   []uint32
	Offset int32
	Const  Value
	Arms   []MatchArm
}

// Pattern is a Match arm pattern (spec.md §4.1 pattern encoding).
type Pattern struct {
	Kind    PatternKind
	Value   Value
	Tag     string
	Sub     []Pattern // Tuple/Array element patterns
	Inner   *Pattern  // TaggedEnum inner pattern
}

type PatternKind uint8

const (
	PatternValue PatternKind = iota
	PatternWildcard
	PatternTuple
	PatternArray
	PatternTaggedEnum
)
