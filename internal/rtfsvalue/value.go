// Package rtfsvalue defines the runtime value universe (§3.1) and the two
// environment shapes that share its lexical-scoping semantics (§4.1).
package rtfsvalue

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Value is any member of the runtime value universe.
type Value interface {
	Truthy() bool
	String() string
	value()
}

// Equal reports structural equality between two Values, per §3.1.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case NilValue:
		_, ok := b.(NilValue)
		return ok
	case BoolValue:
		bv, ok := b.(BoolValue)
		return ok && av == bv
	case IntValue:
		bv, ok := b.(IntValue)
		return ok && av == bv
	case FloatValue:
		bv, ok := b.(FloatValue)
		return ok && av == bv
	case StringValue:
		bv, ok := b.(StringValue)
		return ok && av == bv
	case KeywordValue:
		bv, ok := b.(KeywordValue)
		return ok && av == bv
	case SymbolValue:
		bv, ok := b.(SymbolValue)
		return ok && av == bv
	case *VectorValue:
		bv, ok := b.(*VectorValue)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !Equal(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *MapValue:
		bv, ok := b.(*MapValue)
		if !ok || len(av.entries) != len(bv.entries) {
			return false
		}
		for k, v := range av.entries {
			ov, ok := bv.entries[k]
			if !ok || !Equal(v, ov) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

// ---- Nil / Bool ----

type NilValue struct{}

func (NilValue) Truthy() bool  { return false }
func (NilValue) String() string { return "nil" }
func (NilValue) value()        {}

var Nil Value = NilValue{}

type BoolValue bool

func (b BoolValue) Truthy() bool { return bool(b) }
func (b BoolValue) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (BoolValue) value() {}

// Truthy implements the rule from §3.1: only Nil and false are falsy.
func Truthy(v Value) bool {
	if v == nil {
		return false
	}
	return v.Truthy()
}

// ---- Numbers ----

type IntValue int64

func (i IntValue) Truthy() bool   { return true }
func (i IntValue) String() string { return strconv.FormatInt(int64(i), 10) }
func (IntValue) value()           {}

type FloatValue float64

func (f FloatValue) Truthy() bool   { return true }
func (f FloatValue) String() string { return strconv.FormatFloat(float64(f), 'g', -1, 64) }
func (FloatValue) value()           {}

// ---- String / Keyword / Symbol ----

type StringValue string

func (s StringValue) Truthy() bool   { return true }
func (s StringValue) String() string { return fmt.Sprintf("%q", string(s)) }
func (StringValue) value()           {}

// RawString returns the unquoted text of a StringValue.
func (s StringValue) RawString() string { return string(s) }

type KeywordValue string

func (k KeywordValue) Truthy() bool   { return true }
func (k KeywordValue) String() string { return ":" + string(k) }
func (KeywordValue) value()           {}

type SymbolValue string

func (s SymbolValue) Truthy() bool   { return true }
func (s SymbolValue) String() string { return string(s) }
func (SymbolValue) value()           {}

// IsQualified reports whether the symbol's name contains "/" (§4.8).
func (s SymbolValue) IsQualified() bool { return strings.Contains(string(s), "/") }

// ---- Vector ----

type VectorValue struct{ Elements []Value }

func (v *VectorValue) Truthy() bool { return true }
func (v *VectorValue) String() string {
	parts := make([]string, len(v.Elements))
	for i, e := range v.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
func (*VectorValue) value() {}

func NewVector(elems ...Value) *VectorValue { return &VectorValue{Elements: elems} }

// ---- Map ----

// MapKeyKind tags the three admissible MapKey shapes (§3.1's MapKey sum).
type MapKeyKind int

const (
	MapKeyKeyword MapKeyKind = iota
	MapKeyString
	MapKeyInt
)

// MapKey is a comparable projection of Keyword | String | Integer,
// usable directly as a Go map key.
type MapKey struct {
	Kind MapKeyKind
	Str  string
	Int  int64
}

func KeyOf(v Value) (MapKey, bool) {
	switch k := v.(type) {
	case KeywordValue:
		return MapKey{Kind: MapKeyKeyword, Str: string(k)}, true
	case StringValue:
		return MapKey{Kind: MapKeyString, Str: string(k)}, true
	case IntValue:
		return MapKey{Kind: MapKeyInt, Int: int64(k)}, true
	default:
		return MapKey{}, false
	}
}

func (k MapKey) Value() Value {
	switch k.Kind {
	case MapKeyKeyword:
		return KeywordValue(k.Str)
	case MapKeyString:
		return StringValue(k.Str)
	default:
		return IntValue(k.Int)
	}
}

func (k MapKey) String() string { return k.Value().String() }

// MapValue is an unordered Keyword/String/Integer -> Value mapping.
// Insertion order is retained for deterministic printing.
type MapValue struct {
	entries map[MapKey]Value
	order   []MapKey
}

func NewMap() *MapValue {
	return &MapValue{entries: make(map[MapKey]Value)}
}

func (m *MapValue) Truthy() bool { return true }

func (m *MapValue) Get(key MapKey) (Value, bool) {
	v, ok := m.entries[key]
	return v, ok
}

func (m *MapValue) Set(key MapKey, v Value) {
	if _, exists := m.entries[key]; !exists {
		m.order = append(m.order, key)
	}
	m.entries[key] = v
}

func (m *MapValue) Delete(key MapKey) {
	if _, exists := m.entries[key]; !exists {
		return
	}
	delete(m.entries, key)
	for i, k := range m.order {
		if k == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

func (m *MapValue) Len() int { return len(m.order) }

// Keys returns keys in insertion order.
func (m *MapValue) Keys() []MapKey {
	out := make([]MapKey, len(m.order))
	copy(out, m.order)
	return out
}

// Clone returns a shallow copy suitable for functional-update builtins
// like assoc/dissoc.
func (m *MapValue) Clone() *MapValue {
	nm := NewMap()
	for _, k := range m.order {
		nm.Set(k, m.entries[k])
	}
	return nm
}

func (m *MapValue) String() string {
	keys := m.Keys()
	parts := make([]string, len(keys))
	for i, k := range keys {
		v, _ := m.Get(k)
		parts[i] = fmt.Sprintf("%s %s", k.String(), v.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (*MapValue) value() {}

// SortedKeys returns Keys() sorted for deterministic iteration in tests
// and builtins like keys/vals that don't otherwise specify order.
func (m *MapValue) SortedKeys() []MapKey {
	keys := m.Keys()
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Kind != keys[j].Kind {
			return keys[i].Kind < keys[j].Kind
		}
		if keys[i].Kind == MapKeyInt {
			return keys[i].Int < keys[j].Int
		}
		return keys[i].Str < keys[j].Str
	})
	return keys
}

// ---- Function ----

// UserFunction is a closure over rtfsast or ir bodies; Body is opaque here
// so this package does not depend on either the AST or the IR evaluator.
type UserFunction struct {
	Name         string // empty for anonymous fn
	ParamNames   []string
	HasVariadic  bool
	VariadicName string
	Body         interface{} // *rtfsast.Fn body or ir.Node, interpreted by the caller
	Closure      interface{} // *NameEnv or *IdEnv, interpreted by the caller
}

func (*UserFunction) Truthy() bool { return true }
func (f *UserFunction) String() string {
	if f.Name != "" {
		return fmt.Sprintf("#<function:%s>", f.Name)
	}
	return "#<function:anonymous>"
}
func (*UserFunction) value() {}

// Arity describes how many arguments a builtin accepts (§4.1).
type ArityKind int

const (
	ArityExact ArityKind = iota
	ArityAtLeast
	ArityRange
	ArityAny
)

type Arity struct {
	Kind ArityKind
	N    int // ArityExact, ArityAtLeast
	Min  int // ArityRange
	Max  int // ArityRange
}

func Exact(n int) Arity     { return Arity{Kind: ArityExact, N: n} }
func AtLeast(n int) Arity   { return Arity{Kind: ArityAtLeast, N: n} }
func RangeArity(m, n int) Arity { return Arity{Kind: ArityRange, Min: m, Max: n} }
func Any() Arity            { return Arity{Kind: ArityAny} }

// Accepts reports whether `provided` arguments satisfy the arity.
func (a Arity) Accepts(provided int) bool {
	switch a.Kind {
	case ArityExact:
		return provided == a.N
	case ArityAtLeast:
		return provided >= a.N
	case ArityRange:
		return provided >= a.Min && provided <= a.Max
	default:
		return true
	}
}

func (a Arity) String() string {
	switch a.Kind {
	case ArityExact:
		return fmt.Sprintf("exactly %d", a.N)
	case ArityAtLeast:
		return fmt.Sprintf("at least %d", a.N)
	case ArityRange:
		return fmt.Sprintf("between %d and %d", a.Min, a.Max)
	default:
		return "any number of"
	}
}

// BuiltinFunction is a native implementation with a declared Arity.
type BuiltinFunction struct {
	Name  string
	Arity Arity
	Impl  func(args []Value) (Value, error)
}

func (*BuiltinFunction) Truthy() bool    { return true }
func (b *BuiltinFunction) String() string { return fmt.Sprintf("#<builtin:%s>", b.Name) }
func (*BuiltinFunction) value()          {}

// ---- Resource ----

type ResourceState int

const (
	Active ResourceState = iota
	Released
)

func (s ResourceState) String() string {
	if s == Active {
		return "active"
	}
	return "released"
}

// ResourceValue is a scoped handle (§3.4). Cleanup is dispatched by
// ResourceType via the registry in this package.
type ResourceValue struct {
	ID           string
	ResourceType string
	Metadata     map[string]Value
	State        ResourceState
	Cleanup      func() error
}

func (*ResourceValue) Truthy() bool { return true }
func (r *ResourceValue) String() string {
	return fmt.Sprintf("#<resource:%s:%s:%s>", r.ResourceType, r.ID, r.State)
}
func (*ResourceValue) value() {}

// NewResource mints a fresh Active resource with a UUIDv4 id.
func NewResource(resourceType string, metadata map[string]Value, cleanup func() error) *ResourceValue {
	return &ResourceValue{
		ID:           uuid.NewString(),
		ResourceType: resourceType,
		Metadata:     metadata,
		State:        Active,
		Cleanup:      cleanup,
	}
}

// ---- Error ----

// ErrorValue is the value-bearing error of §7: a keyword kind, a message,
// and optional structured data.
type ErrorValue struct {
	Kind    string
	Message string
	Data    *MapValue
}

func (*ErrorValue) Truthy() bool { return true }
func (e *ErrorValue) String() string {
	return fmt.Sprintf("#<error:%s:%s>", e.Kind, e.Message)
}
func (*ErrorValue) value() {}

// ---- Ok-wrapper ----

// OkValue is a one-arm result tag used by tool builtins that prefer
// returning a value over raising (§3.1, §7 "Recovery vs surfacing").
type OkValue struct{ Inner Value }

func (*OkValue) Truthy() bool    { return true }
func (o *OkValue) String() string { return fmt.Sprintf("#<ok:%s>", o.Inner.String()) }
func (*OkValue) value()          {}

// TypeName returns the printable type tag used in TypeMismatch errors and
// the `(foo? x)` predicate family.
func TypeName(v Value) string {
	switch v.(type) {
	case NilValue:
		return "nil"
	case BoolValue:
		return "bool"
	case IntValue:
		return "int"
	case FloatValue:
		return "float"
	case StringValue:
		return "string"
	case KeywordValue:
		return "keyword"
	case SymbolValue:
		return "symbol"
	case *VectorValue:
		return "vector"
	case *MapValue:
		return "map"
	case *UserFunction, *BuiltinFunction:
		return "function"
	case *ResourceValue:
		return "resource"
	case *ErrorValue:
		return "error"
	case *OkValue:
		return "ok"
	default:
		return "unknown"
	}
}
