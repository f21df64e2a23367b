package ffi

import "testing"

func TestMapRegistryCallAndArity(t *testing.T) {
	r := NewMapRegistry()
	r.Register("double", 1, func(args []Value) (Value, error) {
		return Number(args[0].AsNumber() * 2), nil
	})

	if !r.Has("double") {
		t.Fatalf("expected Has(double) = true")
	}
	if a, ok := r.Arity("double"); !ok || a != 1 {
		t.Fatalf("Arity(double) = %d, %v; want 1, true", a, ok)
	}

	got, err := r.Call("double", []Value{Number(21)})
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if got.AsNumber() != 42 {
		t.Errorf("Call(double, 21) = %v, want 42", got.AsNumber())
	}
}

func TestMapRegistryFunctionNotFound(t *testing.T) {
	r := NewMapRegistry()
	_, err := r.Call("missing", nil)
	fe, ok := err.(*Error)
	if !ok || fe.Kind != FunctionNotFound {
		t.Fatalf("expected FunctionNotFound, got %v", err)
	}
}

func TestMapRegistryArgumentCountMismatch(t *testing.T) {
	r := NewMapRegistry()
	r.Register("add", 2, func(args []Value) (Value, error) {
		return Number(args[0].AsNumber() + args[1].AsNumber()), nil
	})
	_, err := r.Call("add", []Value{Number(1)})
	fe, ok := err.(*Error)
	if !ok || fe.Kind != ArgumentCount {
		t.Fatalf("expected ArgumentCount, got %v", err)
	}
}

func TestErrorMessages(t *testing.T) {
	cases := []*Error{
		{Kind: ArgumentCount, Expected: "2", Got: "1"},
		{Kind: ArgumentType, Expected: "Number", Got: "Atom"},
		{Kind: RuntimeError, Message: "boom"},
		{Kind: FunctionNotFound, Name: "foo"},
		{Kind: TypeError, Message: "Process is not convertible"},
	}
	for _, e := range cases {
		if e.Error() == "" {
			t.Errorf("Error() returned empty string for %+v", e)
		}
	}
}
