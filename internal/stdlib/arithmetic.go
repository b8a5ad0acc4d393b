package stdlib

import (
	"github.com/rtfs-lang/rtfs/internal/rtfserr"
	"github.com/rtfs-lang/rtfs/internal/rtfsvalue"
)

// asNumber extracts a float64 and whether the original value was a Float,
// implementing the numeric promotion rule shared with the optimizer's
// constant-folding table (§4.4): Int,Int -> Int; any Float -> Float.
func asNumber(v rtfsvalue.Value) (float64, bool, bool) {
	switch n := v.(type) {
	case rtfsvalue.IntValue:
		return float64(n), false, true
	case rtfsvalue.FloatValue:
		return float64(n), true, true
	default:
		return 0, false, false
	}
}

func numericOp(args []rtfsvalue.Value, fn string, fold func(a, b float64) float64, identity float64) (rtfsvalue.Value, error) {
	isFloat := false
	vals := make([]float64, len(args))
	for i, a := range args {
		f, isF, ok := asNumber(a)
		if !ok {
			return nil, rtfserr.TypeMismatch("number", rtfsvalue.TypeName(a))
		}
		vals[i] = f
		isFloat = isFloat || isF
	}
	acc := identity
	if len(vals) > 0 {
		acc = vals[0]
		vals = vals[1:]
	}
	for _, v := range vals {
		acc = fold(acc, v)
	}
	if isFloat {
		return rtfsvalue.FloatValue(acc), nil
	}
	return rtfsvalue.IntValue(int64(acc)), nil
}

func registerArithmetic(env *rtfsvalue.NameEnv) {
	def(env, "+", rtfsvalue.AtLeast(0), func(args []rtfsvalue.Value) (rtfsvalue.Value, error) {
		if len(args) == 0 {
			return rtfsvalue.IntValue(0), nil
		}
		if s, ok := args[0].(rtfsvalue.StringValue); ok {
			return stringConcat(append([]rtfsvalue.Value{s}, args[1:]...))
		}
		return numericOp(args, "+", func(a, b float64) float64 { return a + b }, 0)
	})

	def(env, "-", rtfsvalue.AtLeast(1), func(args []rtfsvalue.Value) (rtfsvalue.Value, error) {
		if len(args) == 1 {
			f, isF, ok := asNumber(args[0])
			if !ok {
				return nil, rtfserr.TypeMismatch("number", rtfsvalue.TypeName(args[0]))
			}
			if isF {
				return rtfsvalue.FloatValue(-f), nil
			}
			return rtfsvalue.IntValue(-int64(f)), nil
		}
		return numericOp(args, "-", func(a, b float64) float64 { return a - b }, 0)
	})

	def(env, "*", rtfsvalue.AtLeast(0), func(args []rtfsvalue.Value) (rtfsvalue.Value, error) {
		return numericOp(args, "*", func(a, b float64) float64 { return a * b }, 1)
	})

	def(env, "/", rtfsvalue.AtLeast(1), func(args []rtfsvalue.Value) (rtfsvalue.Value, error) {
		operands := args
		if len(args) == 1 {
			operands = []rtfsvalue.Value{rtfsvalue.IntValue(1), args[0]}
		}
		isFloat := false
		vals := make([]float64, len(operands))
		for i, a := range operands {
			f, isF, ok := asNumber(a)
			if !ok {
				return nil, rtfserr.TypeMismatch("number", rtfsvalue.TypeName(a))
			}
			vals[i] = f
			isFloat = isFloat || isF
		}
		acc := vals[0]
		for _, v := range vals[1:] {
			if v == 0 {
				return nil, rtfserr.DivisionByZero()
			}
			acc /= v
		}
		if isFloat {
			return rtfsvalue.FloatValue(acc), nil
		}
		return rtfsvalue.IntValue(int64(acc)), nil
	})

	def(env, "%", rtfsvalue.Exact(2), func(args []rtfsvalue.Value) (rtfsvalue.Value, error) {
		a, ok1 := args[0].(rtfsvalue.IntValue)
		b, ok2 := args[1].(rtfsvalue.IntValue)
		if !ok1 || !ok2 {
			return nil, rtfserr.TypeMismatch("int", "non-int operand to %")
		}
		if b == 0 {
			return nil, rtfserr.DivisionByZero()
		}
		return a % b, nil
	})
}
