// Package astexec implements the AST Evaluator (C6, §4.2): a tree-walking
// interpreter over internal/rtfsast. Grounded on the dispatch shape of
// eval/eval_core.go's CoreEvaluator — a single type switch over the
// expression sum with one method per node kind — adapted here from
// Core-ANF nodes to RTFS's direct surface-AST node set, with the current
// environment passed as a parameter to every eval method.
package astexec

import (
	"fmt"

	"github.com/rtfs-lang/rtfs/internal/rtfsast"
	"github.com/rtfs-lang/rtfs/internal/rtfserr"
	"github.com/rtfs-lang/rtfs/internal/rtfsvalue"
	"github.com/rtfs-lang/rtfs/internal/stdlib"
)

// Evaluator holds the base environment every top-level form and REPL
// submission runs against.
type Evaluator struct {
	Global *rtfsvalue.NameEnv
}

// New builds an Evaluator with the base environment populated by stdlib,
// wiring stdlib's CallFn hook back to this evaluator's Apply so builtins
// like map-fn can invoke RTFS functions without stdlib depending on this
// package.
func New() *Evaluator {
	e := &Evaluator{Global: rtfsvalue.NewNameEnv()}
	stdlib.Register(e.Global)
	stdlib.CallFn = e.Apply
	return e
}

// EvalProgram runs every top-level form of prog against the global
// environment in order, returning the last form's value. Module and task
// definitions are not evaluated here — internal/rtfsmodule owns compiling
// a ModuleDefinition's own Def/Defn forms, and TaskDefinition is an opaque
// properties bag for host tooling — so both yield no value and are simply
// skipped.
func (e *Evaluator) EvalProgram(prog *rtfsast.Program) (rtfsvalue.Value, error) {
	var result rtfsvalue.Value = rtfsvalue.Nil
	for _, form := range prog.Forms {
		switch form.(type) {
		case *rtfsast.ModuleDefinition, *rtfsast.TaskDefinition:
			continue
		}
		expr, ok := form.(rtfsast.Expr)
		if !ok {
			continue
		}
		v, err := e.Eval(expr, e.Global)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

// Eval evaluates one expression in env.
func (e *Evaluator) Eval(expr rtfsast.Expr, env *rtfsvalue.NameEnv) (rtfsvalue.Value, error) {
	switch n := expr.(type) {
	case *rtfsast.Literal:
		return literalValue(n.Kind, n.Value)
	case *rtfsast.Symbol:
		return e.evalSymbol(n, env)
	case *rtfsast.List:
		return e.evalList(n, env)
	case *rtfsast.Vector:
		return e.evalVector(n, env)
	case *rtfsast.Map:
		return e.evalMap(n, env)
	case *rtfsast.FunctionCall:
		return e.evalFunctionCall(n, env)
	case *rtfsast.If:
		return e.evalIf(n, env)
	case *rtfsast.Let:
		return e.evalLet(n, env)
	case *rtfsast.Do:
		return e.evalSeq(n.Exprs, env)
	case *rtfsast.Fn:
		return e.evalFn(n, env)
	case *rtfsast.Defn:
		return e.evalDefn(n, env)
	case *rtfsast.Def:
		return e.evalDef(n, env)
	case *rtfsast.Match:
		return e.evalMatch(n, env)
	case *rtfsast.TryCatch:
		return e.evalTryCatch(n, env)
	case *rtfsast.Parallel:
		return e.evalParallel(n, env)
	case *rtfsast.WithResource:
		return e.evalWithResource(n, env)
	case *rtfsast.LogStep:
		return e.evalLogStep(n, env)
	default:
		return nil, rtfserr.Internal(fmt.Sprintf("astexec: no evaluation rule for %T", expr))
	}
}

func (e *Evaluator) evalSymbol(s *rtfsast.Symbol, env *rtfsvalue.NameEnv) (rtfsvalue.Value, error) {
	if v, ok := env.Lookup(s.Name); ok {
		return v, nil
	}
	return nil, rtfserr.UndefinedSymbol(s.Name)
}

// evalList evaluates a parenthesized form: an empty list is an empty
// Vector, a non-empty one evaluates its head then every argument
// left-to-right and applies.
func (e *Evaluator) evalList(l *rtfsast.List, env *rtfsvalue.NameEnv) (rtfsvalue.Value, error) {
	if len(l.Elements) == 0 {
		return rtfsvalue.NewVector(), nil
	}
	head, err := e.Eval(l.Elements[0], env)
	if err != nil {
		return nil, err
	}
	args, err := e.evalArgs(l.Elements[1:], env)
	if err != nil {
		return nil, err
	}
	return e.Apply(head, args)
}

func (e *Evaluator) evalFunctionCall(f *rtfsast.FunctionCall, env *rtfsvalue.NameEnv) (rtfsvalue.Value, error) {
	callee, err := e.Eval(f.Callee, env)
	if err != nil {
		return nil, err
	}
	args, err := e.evalArgs(f.Args, env)
	if err != nil {
		return nil, err
	}
	return e.Apply(callee, args)
}

func (e *Evaluator) evalArgs(exprs []rtfsast.Expr, env *rtfsvalue.NameEnv) ([]rtfsvalue.Value, error) {
	args := make([]rtfsvalue.Value, len(exprs))
	for i, a := range exprs {
		v, err := e.Eval(a, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

func (e *Evaluator) evalVector(v *rtfsast.Vector, env *rtfsvalue.NameEnv) (rtfsvalue.Value, error) {
	elems, err := e.evalArgs(v.Elements, env)
	if err != nil {
		return nil, err
	}
	return rtfsvalue.NewVector(elems...), nil
}

func (e *Evaluator) evalMap(m *rtfsast.Map, env *rtfsvalue.NameEnv) (rtfsvalue.Value, error) {
	out := rtfsvalue.NewMap()
	for _, entry := range m.Entries {
		k, err := e.Eval(entry.Key, env)
		if err != nil {
			return nil, err
		}
		key, ok := rtfsvalue.KeyOf(k)
		if !ok {
			return nil, rtfserr.TypeMismatch("keyword|string|int", rtfsvalue.TypeName(k))
		}
		v, err := e.Eval(entry.Value, env)
		if err != nil {
			return nil, err
		}
		out.Set(key, v)
	}
	return out, nil
}

func (e *Evaluator) evalIf(n *rtfsast.If, env *rtfsvalue.NameEnv) (rtfsvalue.Value, error) {
	cond, err := e.Eval(n.Cond, env)
	if err != nil {
		return nil, err
	}
	if rtfsvalue.Truthy(cond) {
		return e.Eval(n.Then, env)
	}
	if n.Else == nil {
		return rtfsvalue.Nil, nil
	}
	return e.Eval(n.Else, env)
}

// evalSeq evaluates a block left-to-right, yielding the last value (Nil
// for an empty block): the shared semantics behind Do, Let/Fn/catch/
// Parallel bodies (§4.2 calls Let's body "a Do").
func (e *Evaluator) evalSeq(exprs []rtfsast.Expr, env *rtfsvalue.NameEnv) (rtfsvalue.Value, error) {
	var result rtfsvalue.Value = rtfsvalue.Nil
	for _, expr := range exprs {
		v, err := e.Eval(expr, env)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

func literalValue(kind rtfsast.LiteralKind, v interface{}) (rtfsvalue.Value, error) {
	switch kind {
	case rtfsast.NilLit:
		return rtfsvalue.Nil, nil
	case rtfsast.BoolLit:
		b, ok := v.(bool)
		if !ok {
			return nil, rtfserr.Internal("malformed bool literal")
		}
		return rtfsvalue.BoolValue(b), nil
	case rtfsast.IntLit:
		switch n := v.(type) {
		case int64:
			return rtfsvalue.IntValue(n), nil
		case int:
			return rtfsvalue.IntValue(n), nil
		default:
			return nil, rtfserr.Internal("malformed int literal")
		}
	case rtfsast.FloatLit:
		f, ok := v.(float64)
		if !ok {
			return nil, rtfserr.Internal("malformed float literal")
		}
		return rtfsvalue.FloatValue(f), nil
	case rtfsast.StringLit:
		s, ok := v.(string)
		if !ok {
			return nil, rtfserr.Internal("malformed string literal")
		}
		return rtfsvalue.StringValue(s), nil
	case rtfsast.KeywordLit:
		s, ok := v.(string)
		if !ok {
			return nil, rtfserr.Internal("malformed keyword literal")
		}
		return rtfsvalue.KeywordValue(s), nil
	default:
		return nil, rtfserr.Internal("unknown literal kind")
	}
}
