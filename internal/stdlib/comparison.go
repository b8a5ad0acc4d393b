package stdlib

import (
	"github.com/rtfs-lang/rtfs/internal/rtfserr"
	"github.com/rtfs-lang/rtfs/internal/rtfsvalue"
)

func compareNumeric(a, b rtfsvalue.Value) (int, error) {
	af, _, ok1 := asNumber(a)
	bf, _, ok2 := asNumber(b)
	if !ok1 || !ok2 {
		return 0, rtfserr.TypeMismatch("number", "non-number operand to comparison")
	}
	switch {
	case af < bf:
		return -1, nil
	case af > bf:
		return 1, nil
	default:
		return 0, nil
	}
}

func registerComparison(env *rtfsvalue.NameEnv) {
	def(env, "=", rtfsvalue.AtLeast(1), func(args []rtfsvalue.Value) (rtfsvalue.Value, error) {
		for i := 1; i < len(args); i++ {
			if !rtfsvalue.Equal(args[0], args[i]) {
				return rtfsvalue.BoolValue(false), nil
			}
		}
		return rtfsvalue.BoolValue(true), nil
	})

	def(env, "!=", rtfsvalue.Exact(2), func(args []rtfsvalue.Value) (rtfsvalue.Value, error) {
		return rtfsvalue.BoolValue(!rtfsvalue.Equal(args[0], args[1])), nil
	})

	order := func(name string, ok func(c int) bool) {
		def(env, name, rtfsvalue.AtLeast(2), func(args []rtfsvalue.Value) (rtfsvalue.Value, error) {
			for i := 0; i+1 < len(args); i++ {
				c, err := compareNumeric(args[i], args[i+1])
				if err != nil {
					return nil, err
				}
				if !ok(c) {
					return rtfsvalue.BoolValue(false), nil
				}
			}
			return rtfsvalue.BoolValue(true), nil
		})
	}

	order("<", func(c int) bool { return c < 0 })
	order("<=", func(c int) bool { return c <= 0 })
	order(">", func(c int) bool { return c > 0 })
	order(">=", func(c int) bool { return c >= 0 })
}
