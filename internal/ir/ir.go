// Package ir defines the typed, resolved intermediate representation
// produced by internal/convert and consumed by internal/optimize and
// internal/irexec. Every node carries a unique NodeId and an IrType;
// node variants mirror internal/rtfsast but with names resolved to
// binding ids and captures made explicit.
package ir

import (
	"fmt"
	"strings"

	"github.com/rtfs-lang/rtfs/internal/rtfsast"
)

// NodeId is a monotonically assigned identifier, unique within one
// conversion session (§3.3).
type NodeId uint64

// Node is the base interface for IR nodes.
type Node interface {
	ID() NodeId
	Type() Type
	Pos() rtfsast.Pos
	String() string
	node()
}

// Base is embedded by every concrete node to satisfy the common parts of
// Node.
type Base struct {
	Id       NodeId
	IrT      Type
	Location rtfsast.Pos
}

func (b Base) ID() NodeId       { return b.Id }
func (b Base) Type() Type       { return b.IrT }
func (b Base) Pos() rtfsast.Pos { return b.Location }
func (Base) node()              {}

// NewBase constructs the common fields shared by every concrete node.
func NewBase(id NodeId, t Type, pos rtfsast.Pos) Base {
	return Base{Id: id, IrT: t, Location: pos}
}

// ---- Atomic / value-producing nodes ----

// Literal is a self-evaluating constant.
type Literal struct {
	Base
	Value interface{}
}

func (l *Literal) String() string { return fmt.Sprintf("%v", l.Value) }

// VariableRef references a binding. BindingID > 0 refers to a
// VariableBinding/Parameter/etc. node reachable in lexical scope;
// BindingID == 0 denotes a name resolved at execution: a qualified
// symbol against the module registry, per the invariant in §3.3, or an
// unqualified one (a builtin) against the name-keyed base environment.
type VariableRef struct {
	Base
	Name      string
	BindingID NodeId
}

func (v *VariableRef) String() string { return v.Name }

// TaskContextAccess reads a field from the ambient task context (§4.3);
// empty by default in this core.
type TaskContextAccess struct {
	Base
	Field string
}

func (t *TaskContextAccess) String() string { return "@" + t.Field }

// Capture is one free variable closed over by a Lambda, recorded in
// declaration order of first use with duplicates dropped.
type Capture struct {
	Name         string
	BindingID    NodeId
	CapturedType Type
}

// Lambda is a function value; Captures is exactly the free-variable set
// of Body not bound by Params/Variadic (the invariant in §3.3).
type Lambda struct {
	Base
	Params       []NodeId // Parameter node ids, in order
	ParamNames   []string
	// ParamPatterns mirrors Params one-to-one with each parameter's full
	// binding pattern (§4.7), so a destructured parameter's component
	// symbols can be bound at call time; for a simple symbol parameter
	// this is a *SymbolPattern whose BindingID equals the matching
	// Params entry.
	ParamPatterns   []Pattern
	Variadic        NodeId // 0 when absent
	VariadicName    string
	VariadicPattern Pattern // nil when Variadic == 0
	Body            Node
	Captures        []Capture
}

func (l *Lambda) String() string { return fmt.Sprintf("(lambda %v)", l.ParamNames) }

// Parameter is a binding introduced by a Lambda's parameter list.
type Parameter struct {
	Base
	Name    string
	Pattern Pattern
}

func (p *Parameter) String() string { return p.Name }

// ---- Binding forms ----

// VariableBinding is one Let binding: Pattern is bound to Init's value.
type VariableBinding struct {
	Base
	Pattern Pattern
	Init    Node
}

func (v *VariableBinding) String() string { return fmt.Sprintf("%s = %s", v.Pattern, v.Init) }

// Let sequences Bindings (each visible to subsequent ones) then Body.
type Let struct {
	Base
	Bindings []*VariableBinding
	Body     Node
}

func (l *Let) String() string { return fmt.Sprintf("(let [%d bindings] %s)", len(l.Bindings), l.Body) }

// Do sequences Exprs; its type and value are those of the last entry.
type Do struct {
	Base
	Exprs []Node
}

func (d *Do) String() string { return fmt.Sprintf("(do %d exprs)", len(d.Exprs)) }

// Def is a first-class module/global variable definition.
type Def struct {
	Base
	Name string
	Init Node
}

func (d *Def) String() string { return fmt.Sprintf("(def %s %s)", d.Name, d.Init) }

// Defn is a first-class named function definition; it both builds the
// Lambda and installs it under Name in the enclosing scope.
type Defn struct {
	Base
	Name   string
	Lambda *Lambda
}

func (d *Defn) String() string { return fmt.Sprintf("(defn %s %s)", d.Name, d.Lambda) }

// ---- Control flow ----

// Apply is function application; Func is evaluated before Args.
type Apply struct {
	Base
	Func Node
	Args []Node
}

func (a *Apply) String() string { return fmt.Sprintf("(%s %v)", a.Func, a.Args) }

// If is a conditional; Else may be nil (missing else yields Nil at
// runtime, and the node's type is Union(Then.Type, Nil)).
type If struct {
	Base
	Cond Node
	Then Node
	Else Node
}

func (i *If) String() string { return fmt.Sprintf("(if %s %s %s)", i.Cond, i.Then, i.Else) }

// MatchClause is one arm of a Match: Pattern is tried in order, Guard
// (optional) must hold, then Body evaluates.
type MatchClause struct {
	Pattern Pattern
	Guard   Node // optional
	Body    Node
}

// Match evaluates Scrutinee then tries Clauses in source order.
type Match struct {
	Base
	Scrutinee Node
	Clauses   []MatchClause
}

func (m *Match) String() string { return fmt.Sprintf("(match %s [%d clauses])", m.Scrutinee, len(m.Clauses)) }

// CatchClause matches an error by keyword, type, or catch-all, binds it
// under BindingID/Name, then runs Body.
type CatchClause struct {
	Pattern   Pattern // LiteralPattern(Keyword) | TypePattern | WildcardPattern
	Name      string
	BindingID NodeId
	Body      Node
}

// TryCatch runs Try; on error, the first matching Catches clause runs;
// Finally (optional) always runs on every exit path.
type TryCatch struct {
	Base
	Try     Node
	Catches []CatchClause
	Finally Node // optional
}

func (t *TryCatch) String() string { return "(try ...)" }

// ResourceBinding is the scope-introducing binding of a WithResource form.
type ResourceBinding struct {
	Base
	Name      string
	BindingID NodeId
	Init      Node
	Body      Node
}

func (r *ResourceBinding) String() string { return fmt.Sprintf("(with-resource [%s] %s)", r.Name, r.Body) }

// ParallelBinding is one named expression within a Parallel form.
type ParallelBinding struct {
	Name string
	Expr Node
}

// Parallel evaluates Bindings in document order, yielding a Map of
// keyword(name) -> value (§4.3; not actually concurrent in this core).
type Parallel struct {
	Base
	Bindings []ParallelBinding
}

func (p *Parallel) String() string { return fmt.Sprintf("(parallel [%d bindings])", len(p.Bindings)) }

// LogStep evaluates Values and emits them at Level.
type LogStep struct {
	Base
	Level    string
	Location string
	Values   []Node
}

func (l *LogStep) String() string { return fmt.Sprintf("(log %s ...)", l.Level) }

// ---- Collections ----

// VectorLit constructs an ordered sequence.
type VectorLit struct {
	Base
	Elements []Node
}

func (v *VectorLit) String() string { return fmt.Sprintf("%v", v.Elements) }

// MapEntry is one key/value pair of a MapLit.
type MapEntry struct {
	Key   interface{}
	Value Node
}

// MapLit constructs a map literal.
type MapLit struct {
	Base
	Entries []MapEntry
}

func (m *MapLit) String() string { return fmt.Sprintf("{%d entries}", len(m.Entries)) }

// ---- Module-level nodes ----

// ModuleNode is the top of a compiled module: its ordered definitions and
// the names it exports.
type ModuleNode struct {
	Base
	Name        string
	Definitions []Node
	Exports     []string
}

func (m *ModuleNode) String() string { return fmt.Sprintf("(module %s)", m.Name) }

// ImportNode records a dependency edge at conversion time.
type ImportNode struct {
	Base
	ModulePath string
	Alias      string
	Symbols    []string
	ReferAll   bool
}

func (i *ImportNode) String() string { return fmt.Sprintf("(import %s)", i.ModulePath) }

// ---- Patterns ----

// Pattern is the IR-level binding pattern, produced by the converter from
// rtfsast.Pattern / rtfsast.MatchPattern (§4.7).
type Pattern interface {
	fmt.Stringer
	patternNode()
}

type SymbolPattern struct {
	Name      string
	BindingID NodeId
}

func (p *SymbolPattern) String() string  { return p.Name }
func (p *SymbolPattern) patternNode() {}

type WildcardPattern struct{}

func (p *WildcardPattern) String() string  { return "_" }
func (p *WildcardPattern) patternNode() {}

type LiteralPattern struct{ Value interface{} }

func (p *LiteralPattern) String() string  { return fmt.Sprintf("%v", p.Value) }
func (p *LiteralPattern) patternNode() {}

type KeywordPattern struct{ Name string }

func (p *KeywordPattern) String() string  { return ":" + p.Name }
func (p *KeywordPattern) patternNode() {}

type TypePattern struct{ TypeName string }

func (p *TypePattern) String() string  { return p.TypeName }
func (p *TypePattern) patternNode() {}

type VectorPattern struct {
	Elements []Pattern
	Rest     *SymbolPattern
	As       string
	// AsBindingID is the binding id for As, 0 when As == "".
	AsBindingID NodeId
}

func (p *VectorPattern) String() string {
	parts := make([]string, len(p.Elements))
	for i, e := range p.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
func (p *VectorPattern) patternNode() {}

type MapPatternEntry struct {
	Key     interface{}
	Pattern Pattern
}

type MapPattern struct {
	Entries []MapPatternEntry
	Rest    *SymbolPattern
	As      string
	// AsBindingID is the binding id for As, 0 when As == "".
	AsBindingID NodeId
}

func (p *MapPattern) String() string { return fmt.Sprintf("{%d entries}", len(p.Entries)) }
func (p *MapPattern) patternNode()   {}

type AsPattern struct {
	Name      string
	BindingID NodeId
	Inner     Pattern
}

func (p *AsPattern) String() string  { return fmt.Sprintf("(%s :as %s)", p.Inner, p.Name) }
func (p *AsPattern) patternNode() {}

// Program is a full converted unit: top-level declarations in order.
type Program struct {
	Decls []Node
}
