package astexec

import (
	"fmt"

	"github.com/rtfs-lang/rtfs/internal/rtfsast"
	"github.com/rtfs-lang/rtfs/internal/rtfserr"
	"github.com/rtfs-lang/rtfs/internal/rtfsvalue"
)

// Apply invokes callee with args, dispatching on its runtime kind: a
// BuiltinFunction checks arity then calls its Go Impl directly; a
// UserFunction creates a child of its closure env, pattern-binds
// parameters, and evaluates its body. Any other value is not callable.
func (e *Evaluator) Apply(callee rtfsvalue.Value, args []rtfsvalue.Value) (rtfsvalue.Value, error) {
	switch fn := callee.(type) {
	case *rtfsvalue.BuiltinFunction:
		if !fn.Arity.Accepts(len(args)) {
			return nil, rtfserr.New(rtfserr.RT001,
				fmt.Sprintf("%s: expected %s argument(s), got %d", fn.Name, fn.Arity.String(), len(args)),
				map[string]interface{}{"fn": fn.Name, "got": len(args)})
		}
		return fn.Impl(args)
	case *rtfsvalue.UserFunction:
		return e.applyUser(fn, args)
	default:
		return nil, rtfserr.NotCallable(rtfsvalue.TypeName(callee))
	}
}

// applyUser binds args against fn's declared parameter patterns in a new
// child of its closure environment, collecting any trailing variadic args
// into a Vector, then evaluates the body as a Do — mirroring §4.2's
// function-application rule and eval_core.go's evalCoreLambda, adapted
// here to bind structural Patterns rather than flat names since RTFS
// parameters may destructure (§4.7).
func (e *Evaluator) applyUser(fn *rtfsvalue.UserFunction, args []rtfsvalue.Value) (rtfsvalue.Value, error) {
	astFn, ok := fn.Body.(*rtfsast.Fn)
	if !ok {
		return nil, rtfserr.Internal("astexec: user function body is not an *rtfsast.Fn")
	}
	closure, ok := fn.Closure.(*rtfsvalue.NameEnv)
	if !ok {
		return nil, rtfserr.Internal("astexec: user function closure is not a *rtfsvalue.NameEnv")
	}

	required := len(astFn.Params)
	if astFn.Variadic == nil {
		if len(args) != required {
			return nil, rtfserr.Arity(required, len(args), displayName(fn.Name))
		}
	} else if len(args) < required {
		return nil, rtfserr.New(rtfserr.RT001,
			fmt.Sprintf("%s: expected at least %d argument(s), got %d", displayName(fn.Name), required, len(args)),
			map[string]interface{}{"fn": fn.Name, "min": required, "got": len(args)})
	}

	callEnv := closure.WithParent()
	for i, p := range astFn.Params {
		if err := bindPattern(p.Pattern, args[i], callEnv); err != nil {
			return nil, err
		}
	}
	if astFn.Variadic != nil {
		rest := rtfsvalue.NewVector(args[required:]...)
		if err := bindPattern(astFn.Variadic.Pattern, rest, callEnv); err != nil {
			return nil, err
		}
	}

	return e.evalSeq(astFn.Body, callEnv)
}

func displayName(name string) string {
	if name == "" {
		return "<anonymous>"
	}
	return name
}
