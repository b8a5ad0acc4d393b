package ir

import (
	"fmt"
	"strings"
)

// TypeKind tags the IrType sum described in §3.3.
type TypeKind int

const (
	KindPrimitive TypeKind = iota
	KindAny
	KindNever
	KindVector
	KindMap
	KindFunction
	KindUnion
	KindIntersection
	KindLiteralValue
	KindTypeRef
	KindResource
)

// Primitive names the primitive IrType variants.
type Primitive int

const (
	PrimInt Primitive = iota
	PrimFloat
	PrimBool
	PrimString
	PrimKeyword
	PrimSymbol
	PrimNil
)

func (p Primitive) String() string {
	switch p {
	case PrimInt:
		return "Int"
	case PrimFloat:
		return "Float"
	case PrimBool:
		return "Bool"
	case PrimString:
		return "String"
	case PrimKeyword:
		return "Keyword"
	case PrimSymbol:
		return "Symbol"
	case PrimNil:
		return "Nil"
	default:
		return "?Primitive"
	}
}

// MapEntryType describes one statically-known key of a Map type.
type MapEntryType struct {
	Key      interface{}
	Value    Type
	Optional bool
}

// Type is the IrType sum. Exactly one field group is meaningful per Kind;
// constructors below should be used rather than populating the struct
// directly.
type Type struct {
	Kind TypeKind

	Prim Primitive // KindPrimitive

	Elem *Type // KindVector

	MapEntries  []MapEntryType // KindMap
	MapWildcard *Type          // KindMap, optional

	Params        []Type // KindFunction
	VariadicParam *Type  // KindFunction, optional
	Return        *Type  // KindFunction

	Variants []Type // KindUnion | KindIntersection

	Literal interface{} // KindLiteralValue

	RefName string // KindTypeRef

	HandleType string // KindResource
}

func Any() Type   { return Type{Kind: KindAny} }
func Never() Type { return Type{Kind: KindNever} }
func Nil() Type   { return Type{Kind: KindPrimitive, Prim: PrimNil} }
func Int() Type   { return Type{Kind: KindPrimitive, Prim: PrimInt} }
func Float() Type { return Type{Kind: KindPrimitive, Prim: PrimFloat} }
func Bool() Type  { return Type{Kind: KindPrimitive, Prim: PrimBool} }
func Str() Type   { return Type{Kind: KindPrimitive, Prim: PrimString} }
func Keyword() Type { return Type{Kind: KindPrimitive, Prim: PrimKeyword} }
func Symbol() Type { return Type{Kind: KindPrimitive, Prim: PrimSymbol} }

func Vec(elem Type) Type { return Type{Kind: KindVector, Elem: &elem} }

func MapOf(entries []MapEntryType, wildcard *Type) Type {
	return Type{Kind: KindMap, MapEntries: entries, MapWildcard: wildcard}
}

func Func(params []Type, variadic *Type, ret Type) Type {
	return Type{Kind: KindFunction, Params: params, VariadicParam: variadic, Return: &ret}
}

func Union(variants ...Type) Type {
	flat := flattenVariants(variants)
	if len(flat) == 1 {
		return flat[0]
	}
	return Type{Kind: KindUnion, Variants: flat}
}

func Intersection(variants ...Type) Type {
	return Type{Kind: KindIntersection, Variants: variants}
}

func LiteralValue(v interface{}) Type { return Type{Kind: KindLiteralValue, Literal: v} }
func TypeRef(name string) Type        { return Type{Kind: KindTypeRef, RefName: name} }
func Resource(handle string) Type     { return Type{Kind: KindResource, HandleType: handle} }

// flattenVariants dedupes by String() and inlines nested unions so
// repeated joins (e.g. across many If branches) don't grow unboundedly.
func flattenVariants(ts []Type) []Type {
	seen := map[string]bool{}
	var out []Type
	var walk func(t Type)
	walk = func(t Type) {
		if t.Kind == KindUnion {
			for _, v := range t.Variants {
				walk(v)
			}
			return
		}
		key := t.String()
		if !seen[key] {
			seen[key] = true
			out = append(out, t)
		}
	}
	for _, t := range ts {
		walk(t)
	}
	return out
}

func (t Type) String() string {
	switch t.Kind {
	case KindPrimitive:
		return t.Prim.String()
	case KindAny:
		return "Any"
	case KindNever:
		return "Never"
	case KindVector:
		return fmt.Sprintf("Vector(%s)", t.Elem.String())
	case KindMap:
		parts := make([]string, len(t.MapEntries))
		for i, e := range t.MapEntries {
			parts[i] = fmt.Sprintf("%v:%s", e.Key, e.Value.String())
		}
		w := ""
		if t.MapWildcard != nil {
			w = ",*:" + t.MapWildcard.String()
		}
		return fmt.Sprintf("Map{%s%s}", strings.Join(parts, ","), w)
	case KindFunction:
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			parts[i] = p.String()
		}
		v := ""
		if t.VariadicParam != nil {
			v = "," + t.VariadicParam.String() + "..."
		}
		return fmt.Sprintf("Function(%s%s)->%s", strings.Join(parts, ","), v, t.Return.String())
	case KindUnion:
		parts := make([]string, len(t.Variants))
		for i, v := range t.Variants {
			parts[i] = v.String()
		}
		return "Union(" + strings.Join(parts, "|") + ")"
	case KindIntersection:
		parts := make([]string, len(t.Variants))
		for i, v := range t.Variants {
			parts[i] = v.String()
		}
		return "Intersection(" + strings.Join(parts, "&") + ")"
	case KindLiteralValue:
		return fmt.Sprintf("Literal(%v)", t.Literal)
	case KindTypeRef:
		return "Ref(" + t.RefName + ")"
	case KindResource:
		return "Resource(" + t.HandleType + ")"
	default:
		return "?Type"
	}
}

// Equal reports structural equality of two IrTypes via their canonical
// string form.
func Equal(a, b Type) bool { return a.String() == b.String() }
