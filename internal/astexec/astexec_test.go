package astexec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtfs-lang/rtfs/internal/rtfsast"
	"github.com/rtfs-lang/rtfs/internal/rtfsvalue"
)

func sym(name string) *rtfsast.Symbol { return &rtfsast.Symbol{Name: name} }

func intLit(v int64) *rtfsast.Literal { return &rtfsast.Literal{Kind: rtfsast.IntLit, Value: v} }

func boolLit(v bool) *rtfsast.Literal { return &rtfsast.Literal{Kind: rtfsast.BoolLit, Value: v} }

func call(callee rtfsast.Expr, args ...rtfsast.Expr) *rtfsast.FunctionCall {
	return &rtfsast.FunctionCall{Callee: callee, Args: args}
}

func TestEvalArithmeticCall(t *testing.T) {
	e := New()
	v, err := e.Eval(call(sym("+"), intLit(2), intLit(3)), e.Global)
	require.NoError(t, err)
	assert.Equal(t, rtfsvalue.IntValue(5), v)
}

func TestEvalIfTakesElseBranch(t *testing.T) {
	e := New()
	n := &rtfsast.If{Cond: boolLit(false), Then: intLit(1), Else: intLit(2)}
	v, err := e.Eval(n, e.Global)
	require.NoError(t, err)
	assert.Equal(t, rtfsvalue.IntValue(2), v)
}

func TestEvalIfMissingElseYieldsNil(t *testing.T) {
	e := New()
	n := &rtfsast.If{Cond: boolLit(false), Then: intLit(1)}
	v, err := e.Eval(n, e.Global)
	require.NoError(t, err)
	assert.Equal(t, rtfsvalue.Nil, v)
}

func TestEvalLetSequentialBindings(t *testing.T) {
	e := New()
	letNode := &rtfsast.Let{
		Bindings: []rtfsast.Binding{
			{Pattern: &rtfsast.SymbolPattern{Name: "x"}, Init: intLit(1)},
			{Pattern: &rtfsast.SymbolPattern{Name: "y"}, Init: call(sym("+"), sym("x"), intLit(1))},
		},
		Body: []rtfsast.Expr{sym("y")},
	}
	v, err := e.Eval(letNode, e.Global)
	require.NoError(t, err)
	assert.Equal(t, rtfsvalue.IntValue(2), v)
}

func TestEvalUndefinedSymbolErrors(t *testing.T) {
	e := New()
	_, err := e.Eval(sym("nope"), e.Global)
	require.Error(t, err)
}

func TestDefnRecursion(t *testing.T) {
	e := New()
	// (defn count-down [n] (if (= n 0) 0 (count-down (- n 1))))
	fn := &rtfsast.Fn{
		Params: []rtfsast.Param{{Pattern: &rtfsast.SymbolPattern{Name: "n"}}},
		Body: []rtfsast.Expr{
			&rtfsast.If{
				Cond: call(sym("="), sym("n"), intLit(0)),
				Then: intLit(0),
				Else: call(sym("count-down"), call(sym("-"), sym("n"), intLit(1))),
			},
		},
	}
	defn := &rtfsast.Defn{Name: "count-down", Fn: fn}
	_, err := e.Eval(defn, e.Global)
	require.NoError(t, err)

	v, err := e.Eval(call(sym("count-down"), intLit(3)), e.Global)
	require.NoError(t, err)
	assert.Equal(t, rtfsvalue.IntValue(0), v)
}

func TestVariadicFunctionCollectsRestIntoVector(t *testing.T) {
	e := New()
	fn := &rtfsast.Fn{
		Variadic: &rtfsast.Param{Pattern: &rtfsast.SymbolPattern{Name: "rest"}},
		Body:     []rtfsast.Expr{call(sym("count"), sym("rest"))},
	}
	v, err := e.Eval(fn, e.Global)
	require.NoError(t, err)

	result, err := e.Apply(v, []rtfsvalue.Value{rtfsvalue.IntValue(1), rtfsvalue.IntValue(2), rtfsvalue.IntValue(3)})
	require.NoError(t, err)
	assert.Equal(t, rtfsvalue.IntValue(3), result)
}

func TestMatchFallsThroughToNoMatchError(t *testing.T) {
	e := New()
	m := &rtfsast.Match{
		Scrutinee: intLit(5),
		Clauses: []rtfsast.MatchClause{
			{Pattern: &rtfsast.LiteralMatch{Kind: rtfsast.IntLit, Value: int64(1)}, Body: intLit(100)},
		},
	}
	_, err := e.Eval(m, e.Global)
	require.Error(t, err)
}

func TestMatchBindsSymbolPattern(t *testing.T) {
	e := New()
	m := &rtfsast.Match{
		Scrutinee: intLit(5),
		Clauses: []rtfsast.MatchClause{
			{Pattern: &rtfsast.SymbolMatch{Name: "n"}, Body: call(sym("+"), sym("n"), intLit(1))},
		},
	}
	v, err := e.Eval(m, e.Global)
	require.NoError(t, err)
	assert.Equal(t, rtfsvalue.IntValue(6), v)
}

func TestTryCatchCatchesDivisionByZero(t *testing.T) {
	e := New()
	tc := &rtfsast.TryCatch{
		Try: []rtfsast.Expr{call(sym("/"), intLit(1), intLit(0))},
		Catches: []rtfsast.CatchClause{
			{Kind: rtfsast.CatchKeyword, Keyword: "error/division-by-zero", Name: "e", Body: []rtfsast.Expr{intLit(-1)}},
		},
	}
	v, err := e.Eval(tc, e.Global)
	require.NoError(t, err)
	assert.Equal(t, rtfsvalue.IntValue(-1), v)
}

func TestTryCatchFinallyRunsOnSuccess(t *testing.T) {
	e := New()
	tc := &rtfsast.TryCatch{
		Try:     []rtfsast.Expr{intLit(1)},
		Finally: []rtfsast.Expr{&rtfsast.Def{Name: "ran", Init: boolLit(true)}},
	}
	v, err := e.Eval(tc, e.Global)
	require.NoError(t, err)
	assert.Equal(t, rtfsvalue.IntValue(1), v)
	ran, ok := e.Global.Lookup("ran")
	require.True(t, ok)
	assert.Equal(t, rtfsvalue.BoolValue(true), ran)
}

func TestParallelEvaluatesBindingsIntoMap(t *testing.T) {
	e := New()
	p := &rtfsast.Parallel{
		Bindings: []rtfsast.ParallelBinding{
			{Name: "a", Expr: intLit(1)},
			{Name: "b", Expr: intLit(2)},
		},
	}
	v, err := e.Eval(p, e.Global)
	require.NoError(t, err)
	m, ok := v.(*rtfsvalue.MapValue)
	require.True(t, ok)
	got, ok := m.Get(rtfsvalue.MapKey{Kind: rtfsvalue.MapKeyKeyword, Str: "a"})
	require.True(t, ok)
	assert.Equal(t, rtfsvalue.IntValue(1), got)
}

func TestVectorDestructuringWithRest(t *testing.T) {
	e := New()
	letNode := &rtfsast.Let{
		Bindings: []rtfsast.Binding{
			{
				Pattern: &rtfsast.VectorDestructuring{
					Elements: []rtfsast.Pattern{&rtfsast.SymbolPattern{Name: "first"}},
					Rest:     &rtfsast.SymbolPattern{Name: "rest"},
				},
				Init: &rtfsast.Vector{Elements: []rtfsast.Expr{intLit(1), intLit(2), intLit(3)}},
			},
		},
		Body: []rtfsast.Expr{call(sym("count"), sym("rest"))},
	}
	v, err := e.Eval(letNode, e.Global)
	require.NoError(t, err)
	assert.Equal(t, rtfsvalue.IntValue(2), v)
}
