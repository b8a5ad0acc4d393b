package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rtfs-lang/rtfs/internal/optimize"
	"github.com/rtfs-lang/rtfs/internal/rtfsast"
	"github.com/rtfs-lang/rtfs/internal/rtfsmodule"
)

func TestEvalREPLLineDoesNotPanicOnError(t *testing.T) {
	withTestConfig(t, nil)
	parser := &fakeExprParser{prog: &rtfsast.Program{}}
	registry := rtfsmodule.New(parser, nil, optimize.LevelBasic)
	eval := newEvaluator(registry)

	assert.NotPanics(t, func() {
		evalREPLLine(parser, registry, eval, "(anything)")
	})
}

func TestHandleReplCommandHelp(t *testing.T) {
	assert.True(t, handleReplCommand(":help"))
}

func TestHandleReplCommandQuit(t *testing.T) {
	assert.False(t, handleReplCommand(":quit"))
}

func TestHandleReplCommandUnknown(t *testing.T) {
	assert.True(t, handleReplCommand(":bogus"))
}
