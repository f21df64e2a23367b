package value

import "fmt"

// FunctionKind distinguishes a bytecode-bodied function from a foreign
// function resolved through the FFI registry at call time.
type FunctionKind uint8

const (
	KindBytecode FunctionKind = iota
	KindFFI
)

// Function is the unit the codec materializes and the interpreter calls.
// Total registers per activation is max(Arity+ExtraRegs, 16) per spec.md §3.
type Function struct {
	Name         string
	HasName      bool
	Arity        uint32
	ExtraRegs    uint32
	FnKind       FunctionKind
	Instructions []Instruction // valid when FnKind == KindBytecode
	FFIName      string        // valid when FnKind == KindFFI
	BoundThis    *Value        // optional bound receiver, resolved via __vm:this
}

// TotalRegisters is the register-file size for one activation of f.
func (f *Function) TotalRegisters() uint32 {
	n := f.Arity + f.ExtraRegs
	if n < 16 {
		return 16
	}
	return n
}

func (f *Function) String() string {
	name := f.Name
	if !f.HasName {
		name = "<anonymous>"
	}
	switch f.FnKind {
	case KindFFI:
		return fmt.Sprintf("ffi-function %s/%d", f.FFIName, f.Arity)
	default:
		return fmt.Sprintf("function %s/%d", name, f.Arity)
	}
}

// Closure pairs a Function with a captured environment. The environment
// representation is left to the compiler frontend (out of scope); the
// core only needs identity equality and a place to hang captured values,
// modeled here as a plain register snapshot keyed by index.
type Closure struct {
	Function *Function
	Captured []Value
}
