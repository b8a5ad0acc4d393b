package stdlib

import "github.com/rtfs-lang/rtfs/internal/rtfsvalue"

func registerLogical(env *rtfsvalue.NameEnv) {
	// `and`/`or` here are the non-short-circuiting builtin forms used when
	// invoked as ordinary function calls (e.g. `(apply and [a b])`); the
	// short-circuiting `and`/`or` special syntax, when the surface
	// grammar offers it, is handled directly by the evaluators instead.
	def(env, "and", rtfsvalue.AtLeast(0), func(args []rtfsvalue.Value) (rtfsvalue.Value, error) {
		for _, a := range args {
			if !rtfsvalue.Truthy(a) {
				return a, nil
			}
		}
		if len(args) == 0 {
			return rtfsvalue.BoolValue(true), nil
		}
		return args[len(args)-1], nil
	})

	def(env, "or", rtfsvalue.AtLeast(0), func(args []rtfsvalue.Value) (rtfsvalue.Value, error) {
		for _, a := range args {
			if rtfsvalue.Truthy(a) {
				return a, nil
			}
		}
		if len(args) == 0 {
			return rtfsvalue.BoolValue(false), nil
		}
		return args[len(args)-1], nil
	})

	def(env, "not", rtfsvalue.Exact(1), func(args []rtfsvalue.Value) (rtfsvalue.Value, error) {
		return rtfsvalue.BoolValue(!rtfsvalue.Truthy(args[0])), nil
	})
}
