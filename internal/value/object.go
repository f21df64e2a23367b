package value

import (
	"strings"
	"sync"
)

// maxPrototypeDepth bounds prototype-chain walks so a cyclic chain fails
// lookup with Undefined instead of looping forever (spec.md §3 invariant).
const maxPrototypeDepth = 1000

// PropertyDescriptor is the unit of storage in an Object's property map.
type PropertyDescriptor struct {
	Value        Value
	Writable     bool
	Enumerable   bool
	Configurable bool
}

// Object is a shared, interior-mutable, identity-equal handle: a property
// map, an optional prototype, an optional type-name tag, and an optional
// magic-methods map (present in the type, unwired into arithmetic/property
// access in this core — see spec.md §9).
type Object struct {
	mu         sync.RWMutex
	props      map[string]*PropertyDescriptor
	order      []string // insertion order, for deterministic enumeration
	prototype  *Object
	typeTag    string
	magic      map[string]Value
}

func NewObject() *Object {
	return &Object{props: make(map[string]*PropertyDescriptor)}
}

func (o *Object) SetPrototype(p *Object) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.prototype = p
}

func (o *Object) Prototype() *Object {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.prototype
}

func (o *Object) SetTypeTag(t string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.typeTag = t
}

func (o *Object) TypeTag() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.typeTag
}

// SetMagicMethod installs a hook in the (currently unwired) magic-methods
// map. No opcode in this core consults it; it exists as a forward-looking
// extension point per spec.md §9.
func (o *Object) SetMagicMethod(name string, fn Value) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.magic == nil {
		o.magic = make(map[string]Value)
	}
	o.magic[name] = fn
}

func (o *Object) MagicMethod(name string) (Value, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	v, ok := o.magic[name]
	return v, ok
}

// ownGet reads a single own (non-prototype) property.
func (o *Object) ownGet(key string) (*PropertyDescriptor, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	d, ok := o.props[key]
	return d, ok
}

// Get walks the prototype chain (depth-bounded) and returns the first
// descriptor's value, or Undefined if the key is absent anywhere in the
// chain or the chain is cyclic beyond the bound.
func (o *Object) Get(key string) Value {
	cur := o
	for depth := 0; cur != nil && depth < maxPrototypeDepth; depth++ {
		if d, ok := cur.ownGet(key); ok {
			return d.Value
		}
		cur = cur.Prototype()
	}
	return Undefined()
}

// Set implements spec.md §4.3 SetProp semantics: write an existing
// writable own descriptor in place; otherwise create a fresh own
// descriptor (writable/enumerable/configurable default true). Prototype
// properties are never mutated by Set — a new own property always shadows.
func (o *Object) Set(key string, v Value) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if d, ok := o.props[key]; ok {
		if d.Writable {
			d.Value = v
		}
		return
	}
	o.props[key] = &PropertyDescriptor{Value: v, Writable: true, Enumerable: true, Configurable: true}
	o.order = append(o.order, key)
}

// SetDescriptor installs or overwrites an own property with explicit
// descriptor flags (used by the bytecode codec when materializing an
// Object literal from its encoded (key, value, flags) tuples).
func (o *Object) SetDescriptor(key string, d PropertyDescriptor) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, exists := o.props[key]; !exists {
		o.order = append(o.order, key)
	}
	cp := d
	o.props[key] = &cp
}

func (o *Object) OwnDescriptor(key string) (PropertyDescriptor, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	d, ok := o.props[key]
	if !ok {
		return PropertyDescriptor{}, false
	}
	return *d, true
}

func (o *Object) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.props)
}

// Keys returns own property keys in insertion order.
func (o *Object) Keys() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	cp := make([]string, len(o.order))
	copy(cp, o.order)
	return cp
}

func (o *Object) String() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	parts := make([]string, 0, len(o.order))
	for _, k := range o.order {
		parts = append(parts, k+": "+o.props[k].Value.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
