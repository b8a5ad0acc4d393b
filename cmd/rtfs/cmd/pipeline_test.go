package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtfs-lang/rtfs/internal/config"
	"github.com/rtfs-lang/rtfs/internal/optimize"
	"github.com/rtfs-lang/rtfs/internal/rtfsast"
	"github.com/rtfs-lang/rtfs/internal/rtfsmodule"
	"github.com/rtfs-lang/rtfs/internal/rtfsvalue"
)

// fakeExprParser always returns the same pre-built program regardless
// of source text, standing in for the external grammar exactly the
// way internal/rtfsmodule's tests do.
type fakeExprParser struct {
	prog *rtfsast.Program
}

func (p *fakeExprParser) Parse(source []byte, path string) (*rtfsast.Program, error) {
	return p.prog, nil
}

func withTestConfig(t *testing.T, modulePaths []string) {
	t.Helper()
	prev := cfg
	cfg = &config.Config{ModulePaths: modulePaths, OptimizationLevel: "basic"}
	t.Cleanup(func() { cfg = prev })
}

func withTestParser(t *testing.T, p rtfsmodule.Parser) {
	t.Helper()
	prev := SourceParser
	SourceParser = p
	t.Cleanup(func() { SourceParser = prev })
}

func TestRequireParserErrorsWhenUnset(t *testing.T) {
	withTestParser(t, nil)
	_, err := requireParser()
	require.Error(t, err)
}

func TestConvertAndOptimizeEvaluatesLiteral(t *testing.T) {
	withTestConfig(t, nil)
	prog := &rtfsast.Program{Forms: []rtfsast.TopLevel{
		rtfsast.AsTopLevel(&rtfsast.Literal{Kind: rtfsast.IntLit, Value: int64(42)}),
	}}
	withTestParser(t, &fakeExprParser{prog: prog})

	parser, err := requireParser()
	require.NoError(t, err)

	registry, err := newRegistry()
	require.NoError(t, err)

	irProg, err := convertAndOptimize(prog, registry, optimize.LevelBasic)
	require.NoError(t, err)

	eval := newEvaluator(registry)
	result, err := eval.EvalProgram(irProg)
	require.NoError(t, err)
	assert.Equal(t, rtfsvalue.IntValue(42), result)

	// parseSource round-trips through the fake parser unchanged.
	reparsed, err := parseSource(parser, []byte("(ignored)"), "<test>")
	require.NoError(t, err)
	assert.Same(t, prog, reparsed)
}

func TestNewEvaluatorHonorsToolAllowlist(t *testing.T) {
	withTestConfig(t, nil)
	cfg.ToolAllowlist = []string{"tool:print"}
	registry := rtfsmodule.New(&fakeExprParser{}, nil, optimize.LevelBasic)

	eval := newEvaluator(registry)
	_, printAllowed := eval.NameGlobal.Lookup("tool:print")
	_, logAllowed := eval.NameGlobal.Lookup("tool:log")
	assert.True(t, printAllowed)
	assert.False(t, logAllowed)
}
