package vm

import (
	"fmt"
	"strings"
)

// compoundID is a stable arena-style identity for a compound value, used
// instead of raw pointer identity so Equals and the reference tracker's
// parent-edge multiset can key off a small comparable value.
type compoundID uint64

// ---------------------------------------------------------------- Array / Struct

// Array is an ordered sequence of StackItem with reference identity.
type Array struct {
	cid      compoundID
	isStruct bool
	elems    []StackItem
}

// newAggregate allocates and registers a fresh Array or Struct with the
// tracker, with zero elements. Callers populate elems through the tracker's
// AttachToParent so slot accounting stays correct.
func newAggregate(rt *ReferenceTracker, isStruct bool) *Array {
	a := &Array{cid: rt.newID(), isStruct: isStruct}
	rt.register(a)
	return a
}

func (a *Array) Type() Type {
	if a.isStruct {
		return TypeStruct
	}
	return TypeArray
}
func (a *Array) ToBoolean() bool { return true }
func (a *Array) String() string {
	parts := make([]string, len(a.elems))
	for i, e := range a.elems {
		parts[i] = e.String()
	}
	kind := "Array"
	if a.isStruct {
		kind = "Struct"
	}
	return fmt.Sprintf("%s[%s]", kind, strings.Join(parts, ", "))
}
func (a *Array) Equals(o StackItem) bool {
	oa, ok := o.(*Array)
	return ok && oa.cid == a.cid
}
func (a *Array) ConvertTo(t Type) (StackItem, error) {
	if t == a.Type() {
		return a, nil
	}
	return nil, ErrInvalidConversion
}
func (a *Array) id() compoundID       { return a.cid }
func (a *Array) children() []StackItem { return a.elems }
func (a *Array) entryCount() int      { return len(a.elems) }
func (a *Array) clearElements()       { a.elems = nil }
func (a *Array) Count() int           { return len(a.elems) }
func (a *Array) At(i int) StackItem   { return a.elems[i] }

// ---------------------------------------------------------------- Map

// mapEntry preserves insertion order alongside the key/value pair.
type mapEntry struct {
	key   StackItem
	value StackItem
}

// Map is an insertion-ordered mapping from primitive keys to StackItem
// values, with reference identity.
type Map struct {
	cid     compoundID
	entries []mapEntry
	index   map[string]int // canonical key byte-view -> slot in entries
}

func newMap(rt *ReferenceTracker) *Map {
	m := &Map{cid: rt.newID(), index: map[string]int{}}
	rt.register(m)
	return m
}

func mapKeyString(key StackItem) (string, error) {
	p, ok := key.(primitive)
	if !ok {
		return "", ErrTypeMismatch
	}
	return string(p.byteView()), nil
}

func (m *Map) Type() Type      { return TypeMap }
func (m *Map) ToBoolean() bool { return true }
func (m *Map) String() string {
	parts := make([]string, len(m.entries))
	for i, e := range m.entries {
		parts[i] = e.key.String() + ": " + e.value.String()
	}
	return fmt.Sprintf("Map{%s}", strings.Join(parts, ", "))
}
func (m *Map) Equals(o StackItem) bool {
	om, ok := o.(*Map)
	return ok && om.cid == m.cid
}
func (m *Map) ConvertTo(t Type) (StackItem, error) {
	if t == TypeMap {
		return m, nil
	}
	return nil, ErrInvalidConversion
}
func (m *Map) id() compoundID { return m.cid }
func (m *Map) children() []StackItem {
	out := make([]StackItem, 0, len(m.entries)*2)
	for _, e := range m.entries {
		out = append(out, e.key, e.value)
	}
	return out
}
func (m *Map) entryCount() int { return len(m.entries) * 2 }
func (m *Map) clearElements() {
	m.entries = nil
	m.index = map[string]int{}
}
func (m *Map) Count() int { return len(m.entries) }

func (m *Map) find(key StackItem) (int, bool, error) {
	ks, err := mapKeyString(key)
	if err != nil {
		return 0, false, err
	}
	idx, ok := m.index[ks]
	return idx, ok, nil
}
