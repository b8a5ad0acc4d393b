package astexec

import (
	"os"

	"github.com/rtfs-lang/rtfs/internal/rtfsast"
	"github.com/rtfs-lang/rtfs/internal/rtfsvalue"
	"github.com/rtfs-lang/rtfs/internal/stdlib"
)

// logWriter is where LogStep and resource-cleanup-failure diagnostics go;
// a package variable rather than a field on Evaluator so New() doesn't
// need an extra parameter for the common case, mirroring the teacher's
// REPL which writes straight to os.Stderr for this kind of side channel.
var logWriter = os.Stderr

// evalLogStep evaluates every value expression in document order, emits a
// single formatted line through stdlib's shared color-coded formatter, and
// yields the last argument's value (Nil if there were none) per §4.2.
func (e *Evaluator) evalLogStep(ls *rtfsast.LogStep, env *rtfsvalue.NameEnv) (rtfsvalue.Value, error) {
	level := ls.Level
	if level == "" {
		level = "info"
	}
	parts := make([]string, len(ls.Values))
	var last rtfsvalue.Value = rtfsvalue.Nil
	for i, expr := range ls.Values {
		v, err := e.Eval(expr, env)
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
// deterministic, not actually concurrent, per §4.2/§5 — collecting the
// results into a Map keyed by keyword(name). Grounded on evaluator.rs's
// eval_parallel, which does the same sequential-under-the-hood evaluation
// despite the construct's name.
func (e *Evaluator) evalParallel(p *rtfsast.Parallel, env *rtfsvalue.NameEnv) (rtfsvalue.Value, error) {
	out := rtfsvalue.NewMap()
	for _, b := range p.Bindings {
		v, err := e.Eval(b.Expr, env)
		if err != nil {
			return nil, err
		}
		out.Set(rtfsvalue.MapKey{Kind: rtfsvalue.MapKeyKeyword, Str: b.Name}, v)
	}
	return out, nil
}
