package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtfs-lang/rtfs/internal/ir"
	"github.com/rtfs-lang/rtfs/internal/irexec"
	"github.com/rtfs-lang/rtfs/internal/optimize"
	"github.com/rtfs-lang/rtfs/internal/rtfsast"
)

// fakeRegistry never recognizes a module, which is all these tests need:
// none of them exercise a qualified symbol that should resolve against a
// real loaded module.
type fakeRegistry struct{}

func (fakeRegistry) HasModule(string) bool { return false }

func sym(name string) *rtfsast.Symbol { return &rtfsast.Symbol{Name: name} }

func intLit(v int64) *rtfsast.Literal { return &rtfsast.Literal{Kind: rtfsast.IntLit, Value: v} }

func call(callee rtfsast.Expr, args ...rtfsast.Expr) *rtfsast.FunctionCall {
	return &rtfsast.FunctionCall{Callee: callee, Args: args}
}

func TestConvertSymbolResolvesBuiltinToBindingIDZero(t *testing.T) {
	c := New(fakeRegistry{})
	node, err := c.Convert(sym("+"))
	require.NoError(t, err)
	ref, ok := node.(*ir.VariableRef)
	require.True(t, ok, "expected *ir.VariableRef, got %T", node)
	assert.Equal(t, "+", ref.Name)
	assert.Equal(t, ir.NodeId(0), ref.BindingID)
}

func TestConvertSymbolUndefinedStillErrors(t *testing.T) {
	c := New(fakeRegistry{})
	_, err := c.Convert(sym("no-such-name"))
	require.Error(t, err)
}

func TestConvertSymbolQualifiedResolvesToBindingIDZero(t *testing.T) {
	c := New(fakeRegistry{})
	node, err := c.Convert(sym("math.utils/add"))
	require.NoError(t, err)
	ref, ok := node.(*ir.VariableRef)
	require.True(t, ok)
	assert.Equal(t, "math.utils/add", ref.Name)
	assert.Equal(t, ir.NodeId(0), ref.BindingID)
}

func TestConvertFunctionCallOnBuiltinNameConverts(t *testing.T) {
	c := New(fakeRegistry{})
	node, err := c.Convert(call(sym("+"), intLit(1), intLit(2), intLit(3)))
	require.NoError(t, err)
	apply, ok := node.(*ir.Apply)
	require.True(t, ok)
	ref, ok := apply.Func.(*ir.VariableRef)
	require.True(t, ok)
	assert.Equal(t, "+", ref.Name)
	assert.Len(t, apply.Args, 3)
}

func TestConvertFnDoesNotCaptureBuiltins(t *testing.T) {
	c := New(fakeRegistry{})
	fn := &rtfsast.Fn{
		Params: []rtfsast.Param{{Pattern: &rtfsast.SymbolPattern{Name: "x"}}},
		Body:   []rtfsast.Expr{call(sym("+"), sym("x"), intLit(1))},
	}
	node, err := c.Convert(fn)
	require.NoError(t, err)
	lambda, ok := node.(*ir.Lambda)
	require.True(t, ok)
	assert.Empty(t, lambda.Captures, "builtin reference must not be captured")
}

func TestConvertFnCapturesOuterLetBinding(t *testing.T) {
	c := New(fakeRegistry{})
	let := &rtfsast.Let{
		Bindings: []rtfsast.Binding{
			{Pattern: &rtfsast.SymbolPattern{Name: "y"}, Init: intLit(10)},
		},
		Body: []rtfsast.Expr{
			&rtfsast.Fn{
				Params: nil,
				Body:   []rtfsast.Expr{sym("y")},
			},
		},
	}
	node, err := c.Convert(let)
	require.NoError(t, err)
	letNode, ok := node.(*ir.Let)
	require.True(t, ok)
	lambda, ok := letNode.Body.(*ir.Lambda)
	require.True(t, ok)
	require.Len(t, lambda.Captures, 1)
	assert.Equal(t, "y", lambda.Captures[0].Name)
}

func TestConvertLet(t *testing.T) {
	c := New(fakeRegistry{})
	let := &rtfsast.Let{
		Bindings: []rtfsast.Binding{
			{Pattern: &rtfsast.SymbolPattern{Name: "a"}, Init: intLit(1)},
		},
		Body: []rtfsast.Expr{sym("a")},
	}
	node, err := c.Convert(let)
	require.NoError(t, err)
	letNode, ok := node.(*ir.Let)
	require.True(t, ok)
	require.Len(t, letNode.Bindings, 1)
	ref, ok := letNode.Body.(*ir.VariableRef)
	require.True(t, ok)
	assert.Equal(t, letNode.Bindings[0].Base.ID(), ref.BindingID)
}

func TestConvertMatch(t *testing.T) {
	c := New(fakeRegistry{})
	m := &rtfsast.Match{
		Scrutinee: intLit(1),
		Clauses: []rtfsast.MatchClause{
			{Pattern: &rtfsast.LiteralMatch{Kind: rtfsast.IntLit, Value: int64(1)}, Body: intLit(100)},
			{Pattern: &rtfsast.WildcardMatch{}, Body: intLit(0)},
		},
	}
	node, err := c.Convert(m)
	require.NoError(t, err)
	match, ok := node.(*ir.Match)
	require.True(t, ok)
	assert.Len(t, match.Clauses, 2)
}

func TestConvertTryCatch(t *testing.T) {
	c := New(fakeRegistry{})
	tc := &rtfsast.TryCatch{
		Try: []rtfsast.Expr{call(sym("/"), intLit(1), intLit(0))},
		Catches: []rtfsast.CatchClause{
			{Kind: rtfsast.CatchKeyword, Keyword: "division-by-zero", Name: "e", Body: []rtfsast.Expr{sym("e")}},
		},
	}
	node, err := c.Convert(tc)
	require.NoError(t, err)
	tryCatch, ok := node.(*ir.TryCatch)
	require.True(t, ok)
	require.Len(t, tryCatch.Catches, 1)
	ref, ok := tryCatch.Catches[0].Body.(*ir.VariableRef)
	require.True(t, ok)
	assert.Equal(t, tryCatch.Catches[0].BindingID, ref.BindingID)
}

func TestConvertWithResource(t *testing.T) {
	c := New(fakeRegistry{})
	wr := &rtfsast.WithResource{
		Name: "conn",
		Init: call(sym("tool:open-file"), &rtfsast.Literal{Kind: rtfsast.StringLit, Value: "x.txt"}),
		Body: []rtfsast.Expr{sym("conn")},
	}
	node, err := c.Convert(wr)
	require.NoError(t, err)
	rb, ok := node.(*ir.ResourceBinding)
	require.True(t, ok)
	ref, ok := rb.Body.(*ir.VariableRef)
	require.True(t, ok)
	assert.Equal(t, rb.BindingID, ref.BindingID)
}

// TestConvertOptimizeEvalRoundTrip exercises the full
// convert -> optimize -> irexec pipeline on expressions that call
// builtins by their bare name, the path that previously failed
// conversion outright with an undefined-symbol error.
func TestConvertOptimizeEvalRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		expr rtfsast.Expr
		want string
	}{
		{
			name: "arithmetic",
			expr: call(sym("+"), intLit(1), intLit(2), intLit(3)),
			want: "6",
		},
		{
			name: "logical-and",
			expr: call(sym("and"), &rtfsast.Literal{Kind: rtfsast.BoolLit, Value: true}, intLit(5)),
			want: "5",
		},
		{
			name: "collection-get",
			expr: call(sym("get"),
				&rtfsast.Map{Entries: []rtfsast.MapEntry{
					{Key: &rtfsast.Literal{Kind: rtfsast.KeywordLit, Value: "a"}, Value: intLit(42)},
				}},
				&rtfsast.Literal{Kind: rtfsast.KeywordLit, Value: "a"},
			),
			want: "42",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := New(fakeRegistry{})
			converted, err := c.Convert(tc.expr)
			require.NoError(t, err)

			optimized := optimize.New(optimize.LevelBasic).Optimize(converted)

			prog := &ir.Program{Decls: []ir.Node{optimized}}
			result, err := irexec.New().EvalProgram(prog)
			require.NoError(t, err)
			assert.Equal(t, tc.want, result.String())
		})
	}
}
