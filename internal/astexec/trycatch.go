package astexec

import (
	"github.com/rtfs-lang/rtfs/internal/rtfsast"
	"github.com/rtfs-lang/rtfs/internal/rtfserr"
	"github.com/rtfs-lang/rtfs/internal/rtfsvalue"
)

// evalTryCatch evaluates the try body; on error it walks Catches in
// source order looking for a matching clause, binds the error value into
// a fresh scope, and runs that clause's body. Finally always runs last,
// on every exit path, and its own errors take precedence over whatever
// try/catch produced (§4.2, grounded on evaluator.rs's eval_try_catch).
func (e *Evaluator) evalTryCatch(tc *rtfsast.TryCatch, env *rtfsvalue.NameEnv) (rtfsvalue.Value, error) {
	result, tryErr := e.evalSeq(tc.Try, env.WithParent())

	if tryErr != nil {
		for _, clause := range tc.Catches {
			if !matchesCatch(clause, tryErr) {
				continue
			}
			catchEnv := env.WithParent()
			if clause.Name != "" {
				catchEnv.Define(clause.Name, errorToValue(tryErr))
			}
			result, tryErr = e.evalSeq(clause.Body, catchEnv)
			break
		}
	}

	if len(tc.Finally) > 0 {
		if _, finallyErr := e.evalSeq(tc.Finally, env.WithParent()); finallyErr != nil {
			return nil, finallyErr
		}
	}

	if tryErr != nil {
		return nil, tryErr
	}
	return result, nil
}

// matchesCatch reports whether a CatchClause applies to err.
func matchesCatch(clause rtfsast.CatchClause, err error) bool {
	switch clause.Kind {
	case rtfsast.CatchAll:
		return true
	case rtfsast.CatchKeyword:
		rerr, ok := err.(*rtfserr.RTFSError)
		return ok && string(rerr.Kind) == clause.Keyword
	case rtfsast.CatchType:
		// TODO: proper structural type matching for catch patterns; the
		// reference evaluator leaves this as a placeholder that always
		// matches, mirrored here rather than invented.
		return true
	default:
		return false
	}
}

// errorToValue turns a Go error raised by evaluation into the Value bound
// in a catch clause's scope. RTFSErrors carry structured Kind/Data and
// become an ErrorValue; anything else is wrapped as an opaque internal
// error so catch-all handlers still see something meaningful.
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
