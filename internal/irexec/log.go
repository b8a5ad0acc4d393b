package irexec

import (
	"os"

	"github.com/rtfs-lang/rtfs/internal/ir"
	"github.com/rtfs-lang/rtfs/internal/rtfsvalue"
	"github.com/rtfs-lang/rtfs/internal/stdlib"
)

// logWriter is where LogStep and resource-cleanup-failure diagnostics go;
// a package variable rather than a field on Evaluator, mirroring
// astexec.logWriter.
var logWriter = os.Stderr

// evalLogStep evaluates every value expression in document order, emits a
// single formatted line through stdlib's shared color-coded formatter, and
// yields the last argument's value (Nil if there were none), identically
// to astexec.evalLogStep.
func (e *Evaluator) evalLogStep(ls *ir.LogStep, env *rtfsvalue.IdEnv, f *frame) (rtfsvalue.Value, error) {
	level := ls.Level
	if level == "" {
		level = "info"
	}
	parts := make([]string, len(ls.Values))
	var last rtfsvalue.Value = rtfsvalue.Nil
	for i, expr := range ls.Values {
		v, err := e.Eval(expr, env, f)
		if err != nil {
			return nil, err
		}
		parts[i] = v.String()
		last = v
	}
	stdlib.Emit(logWriter, level, ls.Location, parts)
	return last, nil
}

// evalParallel evaluates each binding's expression in document order —
// deterministic, not actually concurrent — collecting the results into a
// Map keyed by keyword(name), identically to astexec.evalParallel.
func (e *Evaluator) evalParallel(p *ir.Parallel, env *rtfsvalue.IdEnv, f *frame) (rtfsvalue.Value, error) {
	out := rtfsvalue.NewMap()
	for _, b := range p.Bindings {
		v, err := e.Eval(b.Expr, env, f)
		if err != nil {
			return nil, err
		}
		out.Set(rtfsvalue.MapKey{Kind: rtfsvalue.MapKeyKeyword, Str: b.Name}, v)
	}
	return out, nil
}
