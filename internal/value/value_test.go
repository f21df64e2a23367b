package value

import (
	"math"
	"testing"
)

func TestNumberEqualityNaN(t *testing.T) {
	nan := Number(math.NaN())
	if nan.Equals(nan) {
		t.Fatalf("NaN must not equal itself")
	}
	if !Number(5).Equals(Number(5)) {
		t.Fatalf("5 must equal 5")
	}
	if Number(0).Equals(Number(1)) {
		t.Fatalf("0 must not equal 1")
	}
}

func TestTruthiness(t *testing.T) {
	cases := []struct {
		v    Value
		want bool
	}{
		{Boolean(true), true},
		{Boolean(false), false},
		{Number(0), false},
		{Number(math.NaN()), false},
		{Number(1), true},
		{Unit(), false},
		{Undefined(), false},
		{Atom("x"), true},
		{FromArray(NewArray(nil)), false},
		{FromArray(NewArray([]Value{Number(1)})), true},
		{Tuple(nil), false},
		{Tuple([]Value{Number(1)}), true},
	}
	for _, c := range cases {
		if got := c.v.Truthy(); got != c.want {
			t.Errorf("Truthy(%v) = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestArrayIdentityEquality(t *testing.T) {
	a := NewArray([]Value{Number(1)})
	b := NewArray([]Value{Number(1)})
	va, vb := FromArray(a), FromArray(b)
	if va.Equals(vb) {
		t.Fatalf("distinct arrays with equal contents must not be Equal (identity semantics)")
	}
	if !va.Equals(FromArray(a)) {
		t.Fatalf("same array handle must equal itself")
	}
}

func TestTupleStructuralEquality(t *testing.T) {
	a := Tuple([]Value{Number(1), Atom("x")})
	b := Tuple([]Value{Number(1), Atom("x")})
	if !a.Equals(b) {
		t.Fatalf("tuples with equal elements must be structurally equal")
	}
}

func TestObjectPrototypeChain(t *testing.T) {
	proto := NewObject()
	proto.Set("y", Number(9))
	obj := NewObject()
	obj.Set("x", Number(7))
	obj.SetPrototype(proto)

	if got := obj.Get("y"); !got.Equals(Number(9)) {
		t.Errorf("Get(y) via prototype = %v, want 9", got)
	}
	if got := obj.Get("z"); !got.IsUndefined() {
		t.Errorf("Get(z) = %v, want Undefined", got)
	}
}

func TestObjectCyclicPrototypeDoesNotLoop(t *testing.T) {
	a := NewObject()
	b := NewObject()
	a.SetPrototype(b)
	b.SetPrototype(a)

	if v := a.Get("missing"); !v.IsUndefined() {
		t.Errorf("cyclic lookup = %v, want Undefined", v)
	}
}

func TestObjectSetRespectsWritable(t *testing.T) {
	o := NewObject()
	o.SetDescriptor("frozen", PropertyDescriptor{Value: Number(1), Writable: false, Enumerable: true, Configurable: true})
	o.Set("frozen", Number(2))
	if got := o.Get("frozen"); !got.Equals(Number(1)) {
		t.Errorf("Set on non-writable descriptor must be ignored, got %v", got)
	}

	o.Set("fresh", Number(5))
	d, ok := o.OwnDescriptor("fresh")
	if !ok || !d.Writable || !d.Enumerable || !d.Configurable {
		t.Errorf("new own property must default writable/enumerable/configurable true, got %+v", d)
	}
}

func TestFunctionTotalRegisters(t *testing.T) {
	f := &Function{Arity: 2, ExtraRegs: 1}
	if got := f.TotalRegisters(); got != 16 {
		t.Errorf("TotalRegisters = %d, want 16 (floor)", got)
	}
	f2 := &Function{Arity: 10, ExtraRegs: 10}
	if got := f2.TotalRegisters(); got != 20 {
		t.Errorf("TotalRegisters = %d, want 20", got)
	}
}
