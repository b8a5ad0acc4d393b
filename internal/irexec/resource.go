package irexec

import (
	"github.com/rtfs-lang/rtfs/internal/ir"
	"github.com/rtfs-lang/rtfs/internal/rtfserr"
	"github.com/rtfs-lang/rtfs/internal/rtfsvalue"
	"github.com/rtfs-lang/rtfs/internal/stdlib"
)

// evalResourceBinding evaluates Init, requires it to produce an Active
// Resource, binds it by BindingID in a fresh scope for Body, and on every
// exit path runs that resource's Cleanup exactly once and marks it
// Released — identically to astexec.evalWithResource (§4.6), adapted to
// the id-keyed environment.
func (e *Evaluator) evalResourceBinding(rb *ir.ResourceBinding, env *rtfsvalue.IdEnv, f *frame) (rtfsvalue.Value, error) {
	init, err := e.Eval(rb.Init, env, f)
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
	scope.Define(rb.BindingID, res)

	result, bodyErr := e.Eval(rb.Body, scope, f)

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
