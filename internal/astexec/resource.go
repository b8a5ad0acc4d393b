package astexec

import (
	"github.com/rtfs-lang/rtfs/internal/rtfsast"
	"github.com/rtfs-lang/rtfs/internal/rtfserr"
	"github.com/rtfs-lang/rtfs/internal/rtfsvalue"
	"github.com/rtfs-lang/rtfs/internal/stdlib"
)

// evalWithResource evaluates the init expression, requires it to produce
// an Active Resource, binds it in a fresh scope for the body, and on
// every exit path (normal return, error, or panic-free early exit) runs
// that resource's Cleanup exactly once and marks it Released. A cleanup
// failure is reported through stdlib's shared log formatter rather than
// masking the body's own outcome (§4.6). Grounded on evaluator.rs's
// eval_with_resource/cleanup_resource, diverging intentionally in one
// respect: the reference implementation's cleanup is a println placeholder,
// whereas the Go port's ResourceValue.Cleanup is a real closure (wired in
// internal/stdlib/tools.go) that this evaluator actually invokes.
func (e *Evaluator) evalWithResource(wr *rtfsast.WithResource, env *rtfsvalue.NameEnv) (rtfsvalue.Value, error) {
	init, err := e.Eval(wr.Init, env)
	if err != nil {
		return nil, err
	}
	res, ok := init.(*rtfsvalue.ResourceValue)
	if !ok {
		return nil, rtfserr.TypeMismatch("resource", rtfsvalue.TypeName(init))
	}
	if res.State != rtfsvalue.Active {
		return nil, rtfserr.Resource(res.ResourceType, "cannot enter with-resource on an already-released handle")
	}

	scope := env.WithParent()
	scope.Define(wr.Name, res)

	result, bodyErr := e.evalSeq(wr.Body, scope)

	res.State = rtfsvalue.Released
	if res.Cleanup != nil {
		if cerr := res.Cleanup(); cerr != nil {
			stdlib.Emit(logWriter, "warn", "with-resource",
				[]string{"cleanup failed for resource " + res.ID + ": " + cerr.Error()})
		}
	}

	if bodyErr != nil {
		return nil, bodyErr
	}
	return result, nil
}
