package irexec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtfs-lang/rtfs/internal/ir"
	"github.com/rtfs-lang/rtfs/internal/rtfsast"
	"github.com/rtfs-lang/rtfs/internal/rtfsvalue"
)

var nextTestID ir.NodeId = 1

func newID() ir.NodeId {
	nextTestID++
	return nextTestID
}

func intLit(v int64) *ir.Literal {
	return &ir.Literal{Base: ir.NewBase(newID(), ir.Int(), rtfsast.Pos{}), Value: v}
}

func boolLit(v bool) *ir.Literal {
	return &ir.Literal{Base: ir.NewBase(newID(), ir.Bool(), rtfsast.Pos{}), Value: v}
}

func ref(name string, bindingID ir.NodeId) *ir.VariableRef {
	return &ir.VariableRef{Base: ir.NewBase(newID(), ir.Any(), rtfsast.Pos{}), Name: name, BindingID: bindingID}
}

func apply(fn ir.Node, args ...ir.Node) *ir.Apply {
	return &ir.Apply{Base: ir.NewBase(newID(), ir.Any(), rtfsast.Pos{}), Func: fn, Args: args}
}

func TestEvalArithmeticApply(t *testing.T) {
	e := New()
	n := apply(ref("+", 0), intLit(2), intLit(3))
	v, err := e.Eval(n, e.Global, newFrame())
	require.NoError(t, err)
	assert.Equal(t, rtfsvalue.IntValue(5), v)
}

func TestEvalIfTakesElseBranch(t *testing.T) {
	e := New()
	n := &ir.If{Base: ir.NewBase(newID(), ir.Any(), rtfsast.Pos{}), Cond: boolLit(false), Then: intLit(1), Else: intLit(2)}
	v, err := e.Eval(n, e.Global, newFrame())
	require.NoError(t, err)
	assert.Equal(t, rtfsvalue.IntValue(2), v)
}

func TestEvalIfMissingElseYieldsNil(t *testing.T) {
	e := New()
	n := &ir.If{Base: ir.NewBase(newID(), ir.Any(), rtfsast.Pos{}), Cond: boolLit(false), Then: intLit(1)}
	v, err := e.Eval(n, e.Global, newFrame())
	require.NoError(t, err)
	assert.Equal(t, rtfsvalue.Nil, v)
}

func TestEvalLetSequentialBindings(t *testing.T) {
	e := New()
	xID := newID()
	yID := newID()
	letNode := &ir.Let{
		Base: ir.NewBase(newID(), ir.Any(), rtfsast.Pos{}),
		Bindings: []*ir.VariableBinding{
			{Base: ir.NewBase(xID, ir.Int(), rtfsast.Pos{}), Pattern: &ir.SymbolPattern{Name: "x", BindingID: xID}, Init: intLit(1)},
			{Base: ir.NewBase(yID, ir.Int(), rtfsast.Pos{}), Pattern: &ir.SymbolPattern{Name: "y", BindingID: yID}, Init: apply(ref("+", 0), ref("x", xID), intLit(1))},
		},
		Body: ref("y", yID),
	}
	v, err := e.Eval(letNode, e.Global, newFrame())
	require.NoError(t, err)
	assert.Equal(t, rtfsvalue.IntValue(2), v)
}

func TestEvalUndefinedSymbolErrors(t *testing.T) {
	e := New()
	_, err := e.Eval(ref("nope", 0), e.Global, newFrame())
	require.Error(t, err)
}

func TestDefnRecursion(t *testing.T) {
	e := New()
	// (defn count-down [n] (if (= n 0) 0 (count-down (- n 1))))
	defnID := newID()
	nID := newID()
	lambda := &ir.Lambda{
		Base:          ir.NewBase(newID(), ir.Any(), rtfsast.Pos{}),
		Params:        []ir.NodeId{nID},
		ParamNames:    []string{"n"},
		ParamPatterns: []ir.Pattern{&ir.SymbolPattern{Name: "n", BindingID: nID}},
		Body: &ir.If{
			Base: ir.NewBase(newID(), ir.Any(), rtfsast.Pos{}),
			Cond: apply(ref("=", 0), ref("n", nID), intLit(0)),
			Then: intLit(0),
			Else: apply(ref("count-down", defnID), apply(ref("-", 0), ref("n", nID), intLit(1))),
		},
	}
	defn := &ir.Defn{Base: ir.NewBase(defnID, ir.Any(), rtfsast.Pos{}), Name: "count-down", Lambda: lambda}
	_, err := e.Eval(defn, e.Global, newFrame())
	require.NoError(t, err)

	v, err := e.Eval(apply(ref("count-down", defnID), intLit(3)), e.Global, newFrame())
	require.NoError(t, err)
	assert.Equal(t, rtfsvalue.IntValue(0), v)
}

func TestVariadicFunctionCollectsRestIntoVector(t *testing.T) {
	e := New()
	restID := newID()
	lambda := &ir.Lambda{
		Base:            ir.NewBase(newID(), ir.Any(), rtfsast.Pos{}),
		Variadic:        restID,
		VariadicName:    "rest",
		VariadicPattern: &ir.SymbolPattern{Name: "rest", BindingID: restID},
		Body:            apply(ref("count", 0), ref("rest", restID)),
	}
	v, err := e.Eval(lambda, e.Global, newFrame())
	require.NoError(t, err)

	result, err := e.Apply(v, []rtfsvalue.Value{rtfsvalue.IntValue(1), rtfsvalue.IntValue(2), rtfsvalue.IntValue(3)}, newFrame())
	require.NoError(t, err)
	assert.Equal(t, rtfsvalue.IntValue(3), result)
}

func TestMatchFallsThroughToNoMatchError(t *testing.T) {
	e := New()
	m := &ir.Match{
		Base:      ir.NewBase(newID(), ir.Any(), rtfsast.Pos{}),
		Scrutinee: intLit(5),
		Clauses: []ir.MatchClause{
			{Pattern: &ir.LiteralPattern{Value: int64(1)}, Body: intLit(100)},
		},
	}
	_, err := e.Eval(m, e.Global, newFrame())
	require.Error(t, err)
}

func TestMatchBindsSymbolPattern(t *testing.T) {
	e := New()
	nID := newID()
	m := &ir.Match{
		Base:      ir.NewBase(newID(), ir.Any(), rtfsast.Pos{}),
		Scrutinee: intLit(5),
		Clauses: []ir.MatchClause{
			{Pattern: &ir.SymbolPattern{Name: "n", BindingID: nID}, Body: apply(ref("+", 0), ref("n", nID), intLit(1))},
		},
	}
	v, err := e.Eval(m, e.Global, newFrame())
	require.NoError(t, err)
	assert.Equal(t, rtfsvalue.IntValue(6), v)
}

func TestTryCatchCatchesDivisionByZero(t *testing.T) {
	e := New()
	eID := newID()
	tc := &ir.TryCatch{
		Base: ir.NewBase(newID(), ir.Any(), rtfsast.Pos{}),
		Try:  apply(ref("/", 0), intLit(1), intLit(0)),
		Catches: []ir.CatchClause{
			{Pattern: &ir.LiteralPattern{Value: "error/division-by-zero"}, Name: "e", BindingID: eID, Body: intLit(-1)},
		},
	}
	v, err := e.Eval(tc, e.Global, newFrame())
	require.NoError(t, err)
	assert.Equal(t, rtfsvalue.IntValue(-1), v)
}

func TestTryCatchFinallyRunsOnSuccess(t *testing.T) {
	e := New()
	ranID := newID()
	tc := &ir.TryCatch{
		Base:    ir.NewBase(newID(), ir.Any(), rtfsast.Pos{}),
		Try:     intLit(1),
		Finally: &ir.Def{Base: ir.NewBase(ranID, ir.Bool(), rtfsast.Pos{}), Name: "ran", Init: boolLit(true)},
	}
	v, err := e.Eval(tc, e.Global, newFrame())
	require.NoError(t, err)
	assert.Equal(t, rtfsvalue.IntValue(1), v)
	ran, ok := e.Global.Lookup(ranID)
	require.True(t, ok)
	assert.Equal(t, rtfsvalue.BoolValue(true), ran)
}

func TestParallelEvaluatesBindingsIntoMap(t *testing.T) {
	e := New()
	p := &ir.Parallel{
		Base: ir.NewBase(newID(), ir.Any(), rtfsast.Pos{}),
		Bindings: []ir.ParallelBinding{
			{Name: "a", Expr: intLit(1)},
			{Name: "b", Expr: intLit(2)},
		},
	}
	v, err := e.Eval(p, e.Global, newFrame())
	require.NoError(t, err)
	m, ok := v.(*rtfsvalue.MapValue)
	require.True(t, ok)
	got, ok := m.Get(rtfsvalue.MapKey{Kind: rtfsvalue.MapKeyKeyword, Str: "a"})
	require.True(t, ok)
	assert.Equal(t, rtfsvalue.IntValue(1), got)
}

func TestVectorDestructuringWithRest(t *testing.T) {
	e := New()
	firstID := newID()
	restID := newID()
	letNode := &ir.Let{
		Base: ir.NewBase(newID(), ir.Any(), rtfsast.Pos{}),
		Bindings: []*ir.VariableBinding{
			{
				Base: ir.NewBase(newID(), ir.Any(), rtfsast.Pos{}),
				Pattern: &ir.VectorPattern{
					Elements: []ir.Pattern{&ir.SymbolPattern{Name: "first", BindingID: firstID}},
					Rest:     &ir.SymbolPattern{Name: "rest", BindingID: restID},
				},
				Init: &ir.VectorLit{Base: ir.NewBase(newID(), ir.Any(), rtfsast.Pos{}), Elements: []ir.Node{intLit(1), intLit(2), intLit(3)}},
			},
		},
		Body: apply(ref("count", 0), ref("rest", restID)),
	}
	v, err := e.Eval(letNode, e.Global, newFrame())
	require.NoError(t, err)
	assert.Equal(t, rtfsvalue.IntValue(2), v)
}
