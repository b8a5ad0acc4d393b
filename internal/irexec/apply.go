package irexec

import (
	"fmt"

	"github.com/rtfs-lang/rtfs/internal/ir"
	"github.com/rtfs-lang/rtfs/internal/rtfserr"
	"github.com/rtfs-lang/rtfs/internal/rtfsvalue"
)

// evalApply evaluates Func then Args (in that order, §4.5) and applies.
func (e *Evaluator) evalApply(n *ir.Apply, env *rtfsvalue.IdEnv, f *frame) (rtfsvalue.Value, error) {
	fn, err := e.Eval(n.Func, env, f)
	if err != nil {
		return nil, err
	}
	args, err := e.evalArgs(n.Args, env, f)
	if err != nil {
		return nil, err
	}
	return e.Apply(fn, args, f)
}

// Apply invokes callee with args, dispatching on its runtime kind exactly
// as astexec.Apply does; a *rtfsvalue.UserFunction here carries an
// *ir.Lambda/*rtfsvalue.IdEnv pair instead of astexec's AST/NameEnv pair.
func (e *Evaluator) Apply(callee rtfsvalue.Value, args []rtfsvalue.Value, f *frame) (rtfsvalue.Value, error) {
	switch fn := callee.(type) {
	case *rtfsvalue.BuiltinFunction:
		if !fn.Arity.Accepts(len(args)) {
			return nil, rtfserr.New(rtfserr.RT001,
				fmt.Sprintf("%s: expected %s argument(s), got %d", fn.Name, fn.Arity.String(), len(args)),
				map[string]interface{}{"fn": fn.Name, "got": len(args)})
		}
		return fn.Impl(args)
	case *rtfsvalue.UserFunction:
		return e.applyUser(fn, args, f)
	default:
		return nil, rtfserr.NotCallable(rtfsvalue.TypeName(callee))
	}
}

// applyUser binds args against fn's declared ParamPatterns in a new child
// of its closure environment, collecting any trailing variadic args into a
// Vector bound against VariadicPattern, then evaluates Body in a fresh
// call frame so pure-node memoization never leaks across separate calls
// sharing the same body NodeIds (see irexec.go's frame doc).
func (e *Evaluator) applyUser(fn *rtfsvalue.UserFunction, args []rtfsvalue.Value, f *frame) (rtfsvalue.Value, error) {
	lambda, ok := fn.Body.(*ir.Lambda)
	if !ok {
		return nil, rtfserr.Internal("irexec: user function body is not an *ir.Lambda")
	}
	closure, ok := fn.Closure.(*rtfsvalue.IdEnv)
	if !ok {
		return nil, rtfserr.Internal("irexec: user function closure is not a *rtfsvalue.IdEnv")
	}

	required := len(lambda.Params)
	if lambda.Variadic == 0 {
		if len(args) != required {
			return nil, rtfserr.Arity(required, len(args), displayName(fn.Name))
		}
	} else if len(args) < required {
		return nil, rtfserr.New(rtfserr.RT001,
			fmt.Sprintf("%s: expected at least %d argument(s), got %d", displayName(fn.Name), required, len(args)),
			map[string]interface{}{"fn": fn.Name, "min": required, "got": len(args)})
	}

	callEnv := closure.WithParent()
	for i, pat := range lambda.ParamPatterns {
		if err := bindPattern(pat, args[i], callEnv); err != nil {
			return nil, err
		}
	}
	if lambda.Variadic != 0 {
		rest := rtfsvalue.NewVector(args[required:]...)
		if err := bindPattern(lambda.VariadicPattern, rest, callEnv); err != nil {
			return nil, err
		}
	}

	return e.Eval(lambda.Body, callEnv, newFrame())
}

func displayName(name string) string {
	if name == "" {
		return "<anonymous>"
	}
	return name
}
