// Package irexec implements the IR Evaluator (C7, §4.5): a direct
// interpreter over internal/ir's typed, resolved nodes, sharing its
// per-construct semantics with internal/astexec but keyed by NodeId
// instead of Symbol. Grounded on the same eval_core.go dispatch shape as
// astexec, adapted here to the IR's Do-combined block fields (Let/
// TryCatch/ResourceBinding carry a single already-sequenced Body/Try/
// Finally Node rather than a []Expr, since internal/convert already
// folds sequencing into internal/ir.Do during lowering).
package irexec

import (
	"fmt"

	"github.com/rtfs-lang/rtfs/internal/ir"
	"github.com/rtfs-lang/rtfs/internal/optimize"
	"github.com/rtfs-lang/rtfs/internal/rtfserr"
	"github.com/rtfs-lang/rtfs/internal/rtfsvalue"
	"github.com/rtfs-lang/rtfs/internal/stdlib"
)

// ModuleRegistry is the subset of the module system's public surface the
// evaluator needs to resolve an unresolved qualified VariableRef
// (BindingID == 0) against a loaded module's exports (§4.8). Kept to a
// single method here, the way internal/convert's own ModuleRegistry is
// kept to the single HasModule it needs, to avoid an import cycle with
// internal/rtfsmodule, which imports this package.
type ModuleRegistry interface {
	ResolveQualifiedSymbol(name string) (rtfsvalue.Value, error)
}

// frame is the mutable state threaded through one call's evaluation: a
// node cache for pure-node memoization and a call stack for diagnostics.
// A fresh frame is created per top-level form and per function
// invocation rather than shared for the Evaluator's whole lifetime —
// §4.5 describes a single NodeId->Value cache, but sharing one across
// separate calls to the same user function would let a memoized
// VariableRef from one call's parameter leak into the next call's
// differently-bound parameter of the same NodeId. Scoping the cache to a
// call keeps the memoization benefit for repeated pure subexpressions
// evaluated within one call (e.g. a constant computed once per Match
// tried against several clauses) without that hazard.
type frame struct {
	cache     map[ir.NodeId]rtfsvalue.Value
	callStack []Frame
}

func newFrame() *frame {
	return &frame{cache: make(map[ir.NodeId]rtfsvalue.Value)}
}

// Frame is one call-stack entry exposed for diagnostics.
type Frame struct {
	NodeID         ir.NodeId
	FunctionName   string
	SourceLocation string
}

// Evaluator holds the id-keyed global environment and an optional module
// registry for qualified-symbol resolution.
type Evaluator struct {
	Global   *rtfsvalue.IdEnv
	Registry ModuleRegistry
	// NameGlobal backs VariableRefs the converter left name-resolved
	// (BindingID == 0, unqualified) rather than id-resolved — builtins
	// and any global not lowered to a fixed binding id.
	NameGlobal *rtfsvalue.NameEnv
}

// New builds an Evaluator with the base environment populated by stdlib
// under NameGlobal, wiring stdlib's CallFn hook back to Apply.
func New() *Evaluator {
	e := &Evaluator{
		Global:     rtfsvalue.NewIdEnv(),
		NameGlobal: rtfsvalue.NewNameEnv(),
	}
	stdlib.Register(e.NameGlobal)
	stdlib.CallFn = func(fn rtfsvalue.Value, args []rtfsvalue.Value) (rtfsvalue.Value, error) {
		return e.Apply(fn, args, newFrame())
	}
	return e
}

// WithRegistry attaches a module registry for qualified-symbol
// resolution, returning the Evaluator for chaining.
func (e *Evaluator) WithRegistry(r ModuleRegistry) *Evaluator {
	e.Registry = r
	return e
}

// EvalProgram evaluates every declaration in prog against the global
// environment in order, returning the last one's value. ModuleNode and
// ImportNode are compiled/resolved by internal/rtfsmodule before this
// evaluator ever sees a program, so they are skipped here rather than
// re-handled.
func (e *Evaluator) EvalProgram(prog *ir.Program) (rtfsvalue.Value, error) {
	var result rtfsvalue.Value = rtfsvalue.Nil
	for _, decl := range prog.Decls {
		switch decl.(type) {
		case *ir.ModuleNode, *ir.ImportNode:
			continue
		}
		v, err := e.Eval(decl, e.Global, newFrame())
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

// EvalDecls evaluates decls in order against env, the way EvalProgram
// does against e.Global, but against a caller-supplied environment
// instead — used by internal/rtfsmodule to run a module's own Def/Defn
// definitions into a fresh module-local IdEnv rather than the
// evaluator's shared global one, since a module's bindings must not
// leak into the script that loaded it.
func (e *Evaluator) EvalDecls(decls []ir.Node, env *rtfsvalue.IdEnv) (rtfsvalue.Value, error) {
	var result rtfsvalue.Value = rtfsvalue.Nil
	for _, decl := range decls {
		switch decl.(type) {
		case *ir.ModuleNode, *ir.ImportNode:
			continue
		}
		v, err := e.Eval(decl, env, newFrame())
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

// Eval evaluates one IR node in env, consulting and updating f's node
// cache for nodes optimize.IsPure classifies as pure.
func (e *Evaluator) Eval(node ir.Node, env *rtfsvalue.IdEnv, f *frame) (rtfsvalue.Value, error) {
	if optimize.IsPure(node) {
		if v, ok := f.cache[node.ID()]; ok {
			return v, nil
		}
		v, err := e.evalUncached(node, env, f)
		if err != nil {
			return nil, err
		}
		f.cache[node.ID()] = v
		return v, nil
	}
	return e.evalUncached(node, env, f)
}

func (e *Evaluator) evalUncached(node ir.Node, env *rtfsvalue.IdEnv, f *frame) (rtfsvalue.Value, error) {
	switch n := node.(type) {
	case *ir.Literal:
		return literalValue(n)
	case *ir.VariableRef:
		return e.evalVariableRef(n, env)
	case *ir.TaskContextAccess:
		return rtfsvalue.Nil, nil
	case *ir.VectorLit:
		return e.evalVectorLit(n, env, f)
	case *ir.MapLit:
		return e.evalMapLit(n, env, f)
	case *ir.Apply:
		return e.evalApply(n, env, f)
	case *ir.If:
		return e.evalIf(n, env, f)
	case *ir.Let:
		return e.evalLet(n, env, f)
	case *ir.Do:
		return e.evalSeq(n.Exprs, env, f)
	case *ir.Lambda:
		return makeClosure("", n, env), nil
	case *ir.Defn:
		return e.evalDefn(n, env, f)
	case *ir.Def:
		return e.evalDef(n, env, f)
	case *ir.Match:
		return e.evalMatch(n, env, f)
	case *ir.TryCatch:
		return e.evalTryCatch(n, env, f)
	case *ir.Parallel:
		return e.evalParallel(n, env, f)
	case *ir.ResourceBinding:
		return e.evalResourceBinding(n, env, f)
	case *ir.LogStep:
		return e.evalLogStep(n, env, f)
	default:
		return nil, rtfserr.Internal(fmt.Sprintf("irexec: no evaluation rule for %T", node))
	}
}

// evalVariableRef follows §4.5's lookup rule: BindingID > 0 resolves
// through the id-keyed env; BindingID == 0 means the name is either
// qualified (resolved through the module registry) or an unresolved
// global (resolved through the name-keyed base environment, which is
// where stdlib builtins live).
func (e *Evaluator) evalVariableRef(v *ir.VariableRef, env *rtfsvalue.IdEnv) (rtfsvalue.Value, error) {
	if v.BindingID > 0 {
		if val, ok := env.Lookup(v.BindingID); ok {
			return val, nil
		}
		return nil, rtfserr.UndefinedSymbol(v.Name)
	}
	if rtfsvalue.SymbolValue(v.Name).IsQualified() {
		if e.Registry == nil {
			return nil, rtfserr.UndefinedSymbol(v.Name)
		}
		return e.Registry.ResolveQualifiedSymbol(v.Name)
	}
	if val, ok := e.NameGlobal.Lookup(v.Name); ok {
		return val, nil
	}
	return nil, rtfserr.UndefinedSymbol(v.Name)
}

func (e *Evaluator) evalVectorLit(v *ir.VectorLit, env *rtfsvalue.IdEnv, f *frame) (rtfsvalue.Value, error) {
	elems, err := e.evalArgs(v.Elements, env, f)
	if err != nil {
		return nil, err
	}
	return rtfsvalue.NewVector(elems...), nil
}

func (e *Evaluator) evalMapLit(m *ir.MapLit, env *rtfsvalue.IdEnv, f *frame) (rtfsvalue.Value, error) {
	out := rtfsvalue.NewMap()
	for _, entry := range m.Entries {
		key, err := patternMapKey(entry.Key)
		if err != nil {
			return nil, err
		}
		v, err := e.Eval(entry.Value, env, f)
		if err != nil {
			return nil, err
		}
		out.Set(key, v)
	}
	return out, nil
}

func (e *Evaluator) evalIf(n *ir.If, env *rtfsvalue.IdEnv, f *frame) (rtfsvalue.Value, error) {
	cond, err := e.Eval(n.Cond, env, f)
	if err != nil {
		return nil, err
	}
	if rtfsvalue.Truthy(cond) {
		return e.Eval(n.Then, env, f)
	}
	if n.Else == nil {
		return rtfsvalue.Nil, nil
	}
	return e.Eval(n.Else, env, f)
}

func (e *Evaluator) evalSeq(exprs []ir.Node, env *rtfsvalue.IdEnv, f *frame) (rtfsvalue.Value, error) {
	var result rtfsvalue.Value = rtfsvalue.Nil
	for _, expr := range exprs {
		v, err := e.Eval(expr, env, f)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

func (e *Evaluator) evalArgs(nodes []ir.Node, env *rtfsvalue.IdEnv, f *frame) ([]rtfsvalue.Value, error) {
	args := make([]rtfsvalue.Value, len(nodes))
	for i, n := range nodes {
		v, err := e.Eval(n, env, f)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

// literalValue reconstructs a runtime Value from an ir.Literal. String
// and Keyword literals share the same Go representation (a bare string)
// in Literal.Value, so the node's own IrType — set from the AST's
// LiteralKind at conversion time — is what disambiguates them.
func literalValue(n *ir.Literal) (rtfsvalue.Value, error) {
	if n.Value == nil {
		return rtfsvalue.Nil, nil
	}
	if s, ok := n.Value.(string); ok {
		if n.Type().Kind == ir.KindPrimitive && n.Type().Prim == ir.PrimKeyword {
			return rtfsvalue.KeywordValue(s), nil
		}
		return rtfsvalue.StringValue(s), nil
	}
	switch val := n.Value.(type) {
	case bool:
		return rtfsvalue.BoolValue(val), nil
	case int64:
		return rtfsvalue.IntValue(val), nil
	case int:
		return rtfsvalue.IntValue(val), nil
	case float64:
		return rtfsvalue.FloatValue(val), nil
	default:
		return nil, rtfserr.Internal(fmt.Sprintf("irexec: unrepresentable literal value %T", n.Value))
	}
}
