package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rtfs-lang/rtfs/internal/rtfsast"
)

func TestRunEvalEvaluatesExpression(t *testing.T) {
	withTestConfig(t, nil)
	withTestParser(t, &fakeExprParser{prog: &rtfsast.Program{Forms: []rtfsast.TopLevel{
		rtfsast.AsTopLevel(&rtfsast.Literal{Kind: rtfsast.IntLit, Value: int64(5)}),
	}}})

	prevExpr := evalExpr
	evalExpr = "(ignored)"
	defer func() { evalExpr = prevExpr }()

	require.NoError(t, runEval(evalCmd, nil))
}
