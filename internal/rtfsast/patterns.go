package rtfsast

import (
	"fmt"
	"strings"
)

// Pattern is a binding pattern: Let bindings, Fn params, and catch
// bindings (§4.7).
type Pattern interface {
	Node
	patternNode()
}

// SymbolPattern binds the matched value under Name.
type SymbolPattern struct {
	Name string
	Pos  Pos
}

func (p *SymbolPattern) Position() Pos  { return p.Pos }
func (p *SymbolPattern) String() string { return p.Name }
func (p *SymbolPattern) patternNode()   {}

// WildcardPattern matches without binding.
type WildcardPattern struct{ Pos Pos }

func (p *WildcardPattern) Position() Pos  { return p.Pos }
func (p *WildcardPattern) String() string { return "_" }
func (p *WildcardPattern) patternNode()   {}

// VectorDestructuring binds positional Elements against a Vector, an
// optional Rest against the remaining tail, and an optional As against the
// whole vector.
type VectorDestructuring struct {
	Elements []Pattern
	Rest     *SymbolPattern // optional
	As       string         // optional, empty when absent
	Pos      Pos
}

func (p *VectorDestructuring) Position() Pos { return p.Pos }
func (p *VectorDestructuring) String() string {
	parts := make([]string, len(p.Elements))
	for i, e := range p.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
func (p *VectorDestructuring) patternNode() {}

// MapKeyBinding binds Pattern against m[Key].
type MapKeyBinding struct {
	Key     interface{} // Keyword, String, or Integer
	Pattern Pattern
}

// MapDestructuring binds Entries (either explicit KeyBindings or a
// ":keys" shorthand list of symbols) against a Map, an optional Rest
// against the remaining entries, and an optional As against the whole map.
type MapDestructuring struct {
	Entries    []MapKeyBinding
	KeysShort  []string // ":keys [a b c]" shorthand; each bound from m[:a] etc.
	Rest       *SymbolPattern
	As         string
	Pos        Pos
}

func (p *MapDestructuring) Position() Pos  { return p.Pos }
func (p *MapDestructuring) String() string { return fmt.Sprintf("{%d entries}", len(p.Entries)) }
func (p *MapDestructuring) patternNode()   {}

// MatchPattern is the richer pattern universe used by Match clauses
// (§4.7): everything a binding pattern supports, plus literals, keywords,
// rest-bearing vectors/maps, type guards, and as-bindings.
type MatchPattern interface {
	Node
	matchPatternNode()
}

// LiteralMatch matches iff the scrutinee structurally equals Value.
type LiteralMatch struct {
	Kind  LiteralKind
	Value interface{}
	Pos   Pos
}

func (p *LiteralMatch) Position() Pos  { return p.Pos }
func (p *LiteralMatch) String() string { return fmt.Sprintf("%v", p.Value) }
func (p *LiteralMatch) matchPatternNode() {}

// KeywordMatch matches iff the scrutinee equals the keyword value.
type KeywordMatch struct {
	Name string
	Pos  Pos
}

func (p *KeywordMatch) Position() Pos  { return p.Pos }
func (p *KeywordMatch) String() string { return ":" + p.Name }
func (p *KeywordMatch) matchPatternNode() {}

// SymbolMatch always matches, binding the scrutinee under Name.
type SymbolMatch struct {
	Name string
	Pos  Pos
}

func (p *SymbolMatch) Position() Pos  { return p.Pos }
func (p *SymbolMatch) String() string { return p.Name }
func (p *SymbolMatch) matchPatternNode() {}

// WildcardMatch always matches without binding.
type WildcardMatch struct{ Pos Pos }

func (p *WildcardMatch) Position() Pos  { return p.Pos }
func (p *WildcardMatch) String() string { return "_" }
func (p *WildcardMatch) matchPatternNode() {}

// TypeMatch always matches, refining the scrutinee's static type to
// TypeName for the clause body.
type TypeMatch struct {
	TypeName string
	Pos      Pos
}

func (p *TypeMatch) Position() Pos  { return p.Pos }
func (p *TypeMatch) String() string { return p.TypeName }
func (p *TypeMatch) matchPatternNode() {}

// VectorMatch requires the scrutinee to be a Vector with at least
// len(Elements) items; Rest, if present, binds the tail.
type VectorMatch struct {
	Elements []MatchPattern
	Rest     *SymbolPattern
	Pos      Pos
}

func (p *VectorMatch) Position() Pos { return p.Pos }
func (p *VectorMatch) String() string {
	parts := make([]string, len(p.Elements))
	for i, e := range p.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
func (p *VectorMatch) matchPatternNode() {}

// MapEntryMatch is one required key/pattern pair within a MapMatch.
type MapEntryMatch struct {
	Key     interface{}
	Pattern MatchPattern
}

// MapMatch requires every entry's key to be present with a matching
// sub-pattern; Rest, if present, binds the remaining entries as a Map.
type MapMatch struct {
	Entries []MapEntryMatch
	Rest    *SymbolPattern
	Pos     Pos
}

func (p *MapMatch) Position() Pos  { return p.Pos }
func (p *MapMatch) String() string { return fmt.Sprintf("{%d entries}", len(p.Entries)) }
func (p *MapMatch) matchPatternNode() {}

// AsMatch binds Name to the scrutinee on a successful Inner match.
type AsMatch struct {
	Name  string
	Inner MatchPattern
	Pos   Pos
}

func (p *AsMatch) Position() Pos  { return p.Pos }
func (p *AsMatch) String() string { return fmt.Sprintf("(%s :as %s)", p.Inner, p.Name) }
func (p *AsMatch) matchPatternNode() {}

// TypeExpr is a surface type annotation: either a bare name ("Int") or a
// parameterized form ("Vector Int"). The converter resolves these into
// ir.Type values.
type TypeExpr struct {
	Name string
	Args []TypeExpr
	Pos  Pos
}

func (t TypeExpr) Position() Pos { return t.Pos }
func (t TypeExpr) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", t.Name, strings.Join(parts, ","))
}

// IsZero reports whether the annotation is absent.
func (t TypeExpr) IsZero() bool { return t.Name == "" && t.Args == nil }
