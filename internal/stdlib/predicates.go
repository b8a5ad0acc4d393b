package stdlib

import "github.com/rtfs-lang/rtfs/internal/rtfsvalue"

func predicate(env *rtfsvalue.NameEnv, name string, test func(rtfsvalue.Value) bool) {
	def(env, name, rtfsvalue.Exact(1), func(args []rtfsvalue.Value) (rtfsvalue.Value, error) {
		return rtfsvalue.BoolValue(test(args[0])), nil
	})
}

func registerPredicates(env *rtfsvalue.NameEnv) {
	predicate(env, "int?", func(v rtfsvalue.Value) bool { _, ok := v.(rtfsvalue.IntValue); return ok })
	predicate(env, "float?", func(v rtfsvalue.Value) bool { _, ok := v.(rtfsvalue.FloatValue); return ok })
	predicate(env, "number?", func(v rtfsvalue.Value) bool {
		switch v.(type) {
		case rtfsvalue.IntValue, rtfsvalue.FloatValue:
			return true
		default:
			return false
		}
	})
	predicate(env, "string?", func(v rtfsvalue.Value) bool { _, ok := v.(rtfsvalue.StringValue); return ok })
	predicate(env, "bool?", func(v rtfsvalue.Value) bool { _, ok := v.(rtfsvalue.BoolValue); return ok })
	predicate(env, "nil?", func(v rtfsvalue.Value) bool { _, ok := v.(rtfsvalue.NilValue); return ok })
	predicate(env, "map?", func(v rtfsvalue.Value) bool { _, ok := v.(*rtfsvalue.MapValue); return ok })
	predicate(env, "vector?", func(v rtfsvalue.Value) bool { _, ok := v.(*rtfsvalue.VectorValue); return ok })
	predicate(env, "keyword?", func(v rtfsvalue.Value) bool { _, ok := v.(rtfsvalue.KeywordValue); return ok })
	predicate(env, "symbol?", func(v rtfsvalue.Value) bool { _, ok := v.(rtfsvalue.SymbolValue); return ok })
	predicate(env, "fn?", func(v rtfsvalue.Value) bool {
		switch v.(type) {
		case *rtfsvalue.UserFunction, *rtfsvalue.BuiltinFunction:
			return true
		default:
			return false
		}
	})
}
