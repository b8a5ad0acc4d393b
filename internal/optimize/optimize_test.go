package optimize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtfs-lang/rtfs/internal/ir"
	"github.com/rtfs-lang/rtfs/internal/rtfsast"
)

func intLit(id ir.NodeId, v int64) *ir.Literal {
	return &ir.Literal{Base: ir.NewBase(id, ir.Int(), rtfsast.Pos{}), Value: v}
}

func boolLit(id ir.NodeId, v bool) *ir.Literal {
	return &ir.Literal{Base: ir.NewBase(id, ir.Bool(), rtfsast.Pos{}), Value: v}
}

func varRef(id ir.NodeId, name string, bindingID ir.NodeId) *ir.VariableRef {
	return &ir.VariableRef{Base: ir.NewBase(id, ir.Any(), rtfsast.Pos{}), Name: name, BindingID: bindingID}
}

func TestConstantFoldingArithmetic(t *testing.T) {
	apply := &ir.Apply{
		Base: ir.NewBase(1, ir.Int(), rtfsast.Pos{}),
		Func: varRef(2, "+", 100),
		Args: []ir.Node{intLit(3, 2), intLit(4, 3)},
	}

	p := New(LevelNone)
	result := p.Optimize(apply)

	lit, ok := result.(*ir.Literal)
	require.True(t, ok, "expected folded Literal, got %T", result)
	assert.Equal(t, int64(5), lit.Value)
	assert.Equal(t, 1, p.Stats.ConstantsFolded)
}

func TestConstantFoldingDivisionByZeroNotFolded(t *testing.T) {
	apply := &ir.Apply{
		Base: ir.NewBase(1, ir.Int(), rtfsast.Pos{}),
		Func: varRef(2, "/", 100),
		Args: []ir.Node{intLit(3, 10), intLit(4, 0)},
	}

	p := New(LevelNone)
	result := p.Optimize(apply)

	_, stillApply := result.(*ir.Apply)
	assert.True(t, stillApply, "division by zero must not be folded at compile time")
}

func TestIfConstantConditionFolds(t *testing.T) {
	ifNode := &ir.If{
		Base: ir.NewBase(1, ir.Int(), rtfsast.Pos{}),
		Cond: boolLit(2, true),
		Then: intLit(3, 1),
		Else: intLit(4, 2),
	}

	p := New(LevelNone)
	result := p.Optimize(ifNode)

	lit, ok := result.(*ir.Literal)
	require.True(t, ok)
	assert.Equal(t, int64(1), lit.Value)
}

func TestIfFalseWithoutElseFoldsToNil(t *testing.T) {
	ifNode := &ir.If{
		Base: ir.NewBase(1, ir.Nil(), rtfsast.Pos{}),
		Cond: boolLit(2, false),
		Then: intLit(3, 1),
	}

	p := New(LevelNone)
	result := p.Optimize(ifNode)

	lit, ok := result.(*ir.Literal)
	require.True(t, ok)
	assert.Nil(t, lit.Value)
}

func TestDeadCodeEliminationDropsPureNonFinalExprs(t *testing.T) {
	doNode := &ir.Do{
		Base: ir.NewBase(1, ir.Int(), rtfsast.Pos{}),
		Exprs: []ir.Node{
			intLit(2, 1), // pure, dropped
			intLit(3, 2), // final, kept
		},
	}

	p := New(LevelNone)
	result := p.Optimize(doNode)

	lit, ok := result.(*ir.Literal)
	require.True(t, ok, "Do of two pure literals should collapse to the last one")
	assert.Equal(t, int64(2), lit.Value)
}

func TestDeadCodeEliminationKeepsSideEffectingExprs(t *testing.T) {
	logStep := &ir.LogStep{Base: ir.NewBase(2, ir.Nil(), rtfsast.Pos{}), Level: "info", Values: []ir.Node{intLit(3, 1)}}
	doNode := &ir.Do{
		Base:  ir.NewBase(1, ir.Int(), rtfsast.Pos{}),
		Exprs: []ir.Node{logStep, intLit(4, 2)},
	}

	p := New(LevelNone)
	result := p.Optimize(doNode)

	d, ok := result.(*ir.Do)
	require.True(t, ok)
	assert.Len(t, d.Exprs, 2, "LogStep has side effects and must survive DCE")
}

func TestLetDropsUnusedPureBinding(t *testing.T) {
	letNode := &ir.Let{
		Base: ir.NewBase(1, ir.Int(), rtfsast.Pos{}),
		Bindings: []*ir.VariableBinding{
			{Base: ir.NewBase(2, ir.Int(), rtfsast.Pos{}), Pattern: &ir.SymbolPattern{Name: "unused", BindingID: 10}, Init: intLit(3, 1)},
		},
		Body: intLit(4, 42),
	}

	p := New(LevelNone)
	result := p.Optimize(letNode)

	lit, ok := result.(*ir.Literal)
	require.True(t, ok, "Let with no referenced bindings should collapse to its body")
	assert.Equal(t, int64(42), lit.Value)
}

func TestLetKeepsReferencedBinding(t *testing.T) {
	letNode := &ir.Let{
		Base: ir.NewBase(1, ir.Int(), rtfsast.Pos{}),
		Bindings: []*ir.VariableBinding{
			{Base: ir.NewBase(2, ir.Int(), rtfsast.Pos{}), Pattern: &ir.SymbolPattern{Name: "x", BindingID: 10}, Init: intLit(3, 1)},
		},
		Body: varRef(4, "x", 10),
	}

	p := New(LevelNone)
	result := p.Optimize(letNode)

	let, ok := result.(*ir.Let)
	require.True(t, ok, "Let binding referenced by body must survive DCE")
	assert.Len(t, let.Bindings, 1)
}

func TestInliningReplacesApplyOfSmallLambda(t *testing.T) {
	lambda := &ir.Lambda{
		Base:       ir.NewBase(1, ir.Func([]ir.Type{ir.Int()}, nil, ir.Int()), rtfsast.Pos{}),
		Params:     []ir.NodeId{10},
		ParamNames: []string{"x"},
		Body:       varRef(11, "x", 10),
	}
	apply := &ir.Apply{
		Base: ir.NewBase(2, ir.Int(), rtfsast.Pos{}),
		Func: lambda,
		Args: []ir.Node{intLit(3, 7)},
	}

	p := New(LevelBasic)
	result := p.Optimize(apply)

	// Inlining turns the Apply into (let [x 7] x); DCE keeps the binding
	// since the body still references it (there is no copy-propagation
	// pass that would substitute it away entirely).
	let, ok := result.(*ir.Let)
	require.True(t, ok, "expected Apply of a small Lambda to inline into a Let, got %T", result)
	require.Len(t, let.Bindings, 1)
	lit, ok := let.Bindings[0].Init.(*ir.Literal)
	require.True(t, ok)
	assert.Equal(t, int64(7), lit.Value)
	assert.Equal(t, 1, p.Stats.FunctionCallsInlined)
}

func TestInliningDisabledAtLevelNone(t *testing.T) {
	lambda := &ir.Lambda{
		Base:       ir.NewBase(1, ir.Func([]ir.Type{ir.Int()}, nil, ir.Int()), rtfsast.Pos{}),
		Params:     []ir.NodeId{10},
		ParamNames: []string{"x"},
		Body:       varRef(11, "x", 10),
	}
	apply := &ir.Apply{
		Base: ir.NewBase(2, ir.Int(), rtfsast.Pos{}),
		Func: lambda,
		Args: []ir.Node{intLit(3, 7)},
	}

	p := New(LevelNone)
	result := p.Optimize(apply)

	_, stillApply := result.(*ir.Apply)
	assert.True(t, stillApply, "LevelNone must not inline")
}

func TestAggressiveLevelUsesHigherThreshold(t *testing.T) {
	assert.Equal(t, 0, LevelNone.Threshold())
	assert.Equal(t, 5, LevelBasic.Threshold())
	assert.Equal(t, 15, LevelAggressive.Threshold())
}

func TestIsPureClassification(t *testing.T) {
	assert.True(t, IsPure(intLit(1, 1)))
	assert.True(t, IsPure(varRef(1, "x", 10)))

	pureApply := &ir.Apply{Base: ir.NewBase(1, ir.Int(), rtfsast.Pos{}), Func: varRef(2, "+", 100), Args: []ir.Node{intLit(3, 1), intLit(4, 2)}}
	assert.True(t, IsPure(pureApply))

	impureApply := &ir.Apply{Base: ir.NewBase(1, ir.Nil(), rtfsast.Pos{}), Func: varRef(2, "tool:log", 200), Args: []ir.Node{intLit(3, 1)}}
	assert.False(t, IsPure(impureApply))
}
