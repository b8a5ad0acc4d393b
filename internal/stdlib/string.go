package stdlib

import (
	"strings"

	"github.com/rtfs-lang/rtfs/internal/rtfserr"
	"github.com/rtfs-lang/rtfs/internal/rtfsvalue"
)

func stringConcat(args []rtfsvalue.Value) (rtfsvalue.Value, error) {
	var b strings.Builder
	for _, a := range args {
		s, ok := a.(rtfsvalue.StringValue)
		if !ok {
			return nil, rtfserr.TypeMismatch("string", rtfsvalue.TypeName(a))
		}
		b.WriteString(s.RawString())
	}
	return rtfsvalue.StringValue(b.String()), nil
}

func registerString(env *rtfsvalue.NameEnv) {
	def(env, "str", rtfsvalue.AtLeast(0), func(args []rtfsvalue.Value) (rtfsvalue.Value, error) {
		var b strings.Builder
		for _, a := range args {
			if s, ok := a.(rtfsvalue.StringValue); ok {
				b.WriteString(s.RawString())
			} else {
				b.WriteString(a.String())
			}
		}
		return rtfsvalue.StringValue(b.String()), nil
	})

	def(env, "string-length", rtfsvalue.Exact(1), func(args []rtfsvalue.Value) (rtfsvalue.Value, error) {
		s, ok := args[0].(rtfsvalue.StringValue)
		if !ok {
			return nil, rtfserr.TypeMismatch("string", rtfsvalue.TypeName(args[0]))
		}
		return rtfsvalue.IntValue(len([]rune(s.RawString()))), nil
	})

	def(env, "substring", rtfsvalue.RangeArity(2, 3), func(args []rtfsvalue.Value) (rtfsvalue.Value, error) {
		s, ok := args[0].(rtfsvalue.StringValue)
		if !ok {
			return nil, rtfserr.TypeMismatch("string", rtfsvalue.TypeName(args[0]))
		}
		start, ok := args[1].(rtfsvalue.IntValue)
		if !ok {
			return nil, rtfserr.TypeMismatch("int", rtfsvalue.TypeName(args[1]))
		}
		runes := []rune(s.RawString())
		end := rtfsvalue.IntValue(len(runes))
		if len(args) == 3 {
			e, ok := args[2].(rtfsvalue.IntValue)
			if !ok {
				return nil, rtfserr.TypeMismatch("int", rtfsvalue.TypeName(args[2]))
			}
			end = e
		}
		if start < 0 || end > rtfsvalue.IntValue(len(runes)) || start > end {
			return nil, rtfserr.IndexOutOfBounds(int(start), len(runes))
		}
		return rtfsvalue.StringValue(string(runes[start:end])), nil
	})
}
