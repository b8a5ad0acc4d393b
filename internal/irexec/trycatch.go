package irexec

import (
	"github.com/rtfs-lang/rtfs/internal/ir"
	"github.com/rtfs-lang/rtfs/internal/rtfserr"
	"github.com/rtfs-lang/rtfs/internal/rtfsvalue"
)

// evalTryCatch evaluates Try; on error it walks Catches in source order
// looking for a matching clause, binds the error value by BindingID into a
// fresh scope, and runs that clause's Body. Finally always runs last, on
// every exit path, and its own errors take precedence over whatever
// try/catch produced — the same rule as astexec.evalTryCatch, adapted to
// internal/convert's single already-Do-combined Try/Finally Nodes.
func (e *Evaluator) evalTryCatch(tc *ir.TryCatch, env *rtfsvalue.IdEnv, f *frame) (rtfsvalue.Value, error) {
	result, tryErr := e.Eval(tc.Try, env.WithParent(), f)

	if tryErr != nil {
		for _, clause := range tc.Catches {
			if !matchesCatch(clause, tryErr) {
				continue
			}
			catchEnv := env.WithParent()
			if clause.Name != "" {
				catchEnv.Define(clause.BindingID, errorToValue(tryErr))
			}
			result, tryErr = e.Eval(clause.Body, catchEnv, f)
			break
		}
	}

	if tc.Finally != nil {
		if _, finallyErr := e.Eval(tc.Finally, env.WithParent(), f); finallyErr != nil {
			return nil, finallyErr
		}
	}

	if tryErr != nil {
		return nil, tryErr
	}
	return result, nil
}

// matchesCatch reports whether a CatchClause applies to err, dispatching
// on the Pattern shape internal/convert's convertTryCatch builds for each
// rtfsast.CatchPatternKind: LiteralPattern(keyword-name) for a keyword
// catch, TypePattern for a type catch, WildcardPattern for catch-all.
func matchesCatch(clause ir.CatchClause, err error) bool {
	switch p := clause.Pattern.(type) {
	case *ir.WildcardPattern:
		return true
	case *ir.LiteralPattern:
		rerr, ok := err.(*rtfserr.RTFSError)
		if !ok {
			return false
		}
		keyword, ok := p.Value.(string)
		return ok && string(rerr.Kind) == keyword
	case *ir.TypePattern:
		// TODO: proper structural type matching for catch patterns; the
		// reference evaluator leaves this as a placeholder that always
		// matches, mirrored here rather than invented.
		return true
	default:
		return false
	}
}

// errorToValue turns a Go error raised by evaluation into the Value bound
// in a catch clause's scope, identically to astexec.errorToValue.
func errorToValue(err error) rtfsvalue.Value {
	if rerr, ok := err.(*rtfserr.RTFSError); ok {
		data := rtfsvalue.NewMap()
		for k, v := range rerr.Data {
			if s, ok := v.(string); ok {
				data.Set(rtfsvalue.MapKey{Kind: rtfsvalue.MapKeyKeyword, Str: k}, rtfsvalue.StringValue(s))
			}
		}
		return &rtfsvalue.ErrorValue{Kind: string(rerr.Kind), Message: rerr.Message, Data: data}
	}
	return &rtfsvalue.ErrorValue{Kind: "error/internal", Message: err.Error(), Data: rtfsvalue.NewMap()}
}
