package stdlib

import (
	"github.com/rtfs-lang/rtfs/internal/rtfserr"
	"github.com/rtfs-lang/rtfs/internal/rtfsvalue"
)

// CallFn is supplied by the evaluators so map-fn can invoke RTFS
// functions without this package depending on either evaluator.
var CallFn func(fn rtfsvalue.Value, args []rtfsvalue.Value) (rtfsvalue.Value, error)

func registerCollection(env *rtfsvalue.NameEnv) {
	def(env, "vector", rtfsvalue.AtLeast(0), func(args []rtfsvalue.Value) (rtfsvalue.Value, error) {
		elems := make([]rtfsvalue.Value, len(args))
		copy(elems, args)
		return rtfsvalue.NewVector(elems...), nil
	})

	def(env, "map", rtfsvalue.AtLeast(0), func(args []rtfsvalue.Value) (rtfsvalue.Value, error) {
		if len(args)%2 != 0 {
			return nil, rtfserr.New(rtfserr.RT008, "map: expected an even number of key/value arguments", nil)
		}
		m := rtfsvalue.NewMap()
		for i := 0; i < len(args); i += 2 {
			key, ok := rtfsvalue.KeyOf(args[i])
			if !ok {
				return nil, rtfserr.TypeMismatch("keyword|string|int", rtfsvalue.TypeName(args[i]))
			}
			m.Set(key, args[i+1])
		}
		return m, nil
	})

	def(env, "get", rtfsvalue.RangeArity(2, 3), func(args []rtfsvalue.Value) (rtfsvalue.Value, error) {
		def := rtfsvalue.Value(rtfsvalue.Nil)
		if len(args) == 3 {
			def = args[2]
		}
		switch coll := args[0].(type) {
		case *rtfsvalue.VectorValue:
			idx, ok := args[1].(rtfsvalue.IntValue)
			if !ok {
				return nil, rtfserr.TypeMismatch("int", rtfsvalue.TypeName(args[1]))
			}
			if idx < 0 || int(idx) >= len(coll.Elements) {
				return def, nil
			}
			return coll.Elements[idx], nil
		case *rtfsvalue.MapValue:
			key, ok := rtfsvalue.KeyOf(args[1])
			if !ok {
				return nil, rtfserr.TypeMismatch("keyword|string|int", rtfsvalue.TypeName(args[1]))
			}
			if v, ok := coll.Get(key); ok {
				return v, nil
			}
			return def, nil
		default:
			return nil, rtfserr.TypeMismatch("vector|map", rtfsvalue.TypeName(args[0]))
		}
	})

	def(env, "assoc", rtfsvalue.AtLeast(3), func(args []rtfsvalue.Value) (rtfsvalue.Value, error) {
		if (len(args)-1)%2 != 0 {
			return nil, rtfserr.New(rtfserr.RT008, "assoc: expected key/value pairs", nil)
		}
		switch coll := args[0].(type) {
		case *rtfsvalue.MapValue:
			m := coll.Clone()
			for i := 1; i < len(args); i += 2 {
				key, ok := rtfsvalue.KeyOf(args[i])
				if !ok {
					return nil, rtfserr.TypeMismatch("keyword|string|int", rtfsvalue.TypeName(args[i]))
				}
				m.Set(key, args[i+1])
			}
			return m, nil
		case *rtfsvalue.VectorValue:
			elems := append([]rtfsvalue.Value(nil), coll.Elements...)
			for i := 1; i < len(args); i += 2 {
				idx, ok := args[i].(rtfsvalue.IntValue)
				if !ok {
					return nil, rtfserr.TypeMismatch("int", rtfsvalue.TypeName(args[i]))
				}
				if idx < 0 || int(idx) > len(elems) {
					return nil, rtfserr.IndexOutOfBounds(int(idx), len(elems))
				}
				if int(idx) == len(elems) {
					elems = append(elems, args[i+1])
				} else {
					elems[idx] = args[i+1]
				}
			}
			return rtfsvalue.NewVector(elems...), nil
		default:
			return nil, rtfserr.TypeMismatch("vector|map", rtfsvalue.TypeName(args[0]))
		}
	})

	def(env, "dissoc", rtfsvalue.AtLeast(1), func(args []rtfsvalue.Value) (rtfsvalue.Value, error) {
		m, ok := args[0].(*rtfsvalue.MapValue)
		if !ok {
			return nil, rtfserr.TypeMismatch("map", rtfsvalue.TypeName(args[0]))
		}
		nm := m.Clone()
		for _, k := range args[1:] {
			key, ok := rtfsvalue.KeyOf(k)
			if !ok {
				return nil, rtfserr.TypeMismatch("keyword|string|int", rtfsvalue.TypeName(k))
			}
			nm.Delete(key)
		}
		return nm, nil
	})

	def(env, "count", rtfsvalue.Exact(1), func(args []rtfsvalue.Value) (rtfsvalue.Value, error) {
		switch coll := args[0].(type) {
		case *rtfsvalue.VectorValue:
			return rtfsvalue.IntValue(len(coll.Elements)), nil
		case *rtfsvalue.MapValue:
			return rtfsvalue.IntValue(coll.Len()), nil
		case rtfsvalue.StringValue:
			return rtfsvalue.IntValue(len([]rune(coll.RawString()))), nil
		case rtfsvalue.NilValue:
			return rtfsvalue.IntValue(0), nil
		default:
			return nil, rtfserr.TypeMismatch("vector|map|string", rtfsvalue.TypeName(args[0]))
		}
	})

	def(env, "conj", rtfsvalue.AtLeast(1), func(args []rtfsvalue.Value) (rtfsvalue.Value, error) {
		coll, ok := args[0].(*rtfsvalue.VectorValue)
		if !ok {
			return nil, rtfserr.TypeMismatch("vector", rtfsvalue.TypeName(args[0]))
		}
		elems := append([]rtfsvalue.Value(nil), coll.Elements...)
		elems = append(elems, args[1:]...)
		return rtfsvalue.NewVector(elems...), nil
	})

	def(env, "map-fn", rtfsvalue.Exact(2), func(args []rtfsvalue.Value) (rtfsvalue.Value, error) {
		coll, ok := args[1].(*rtfsvalue.VectorValue)
		if !ok {
			return nil, rtfserr.TypeMismatch("vector", rtfsvalue.TypeName(args[1]))
		}
		if CallFn == nil {
			return nil, rtfserr.Internal("map-fn invoked before an evaluator registered CallFn")
		}
		out := make([]rtfsvalue.Value, len(coll.Elements))
		for i, e := range coll.Elements {
			v, err := CallFn(args[0], []rtfsvalue.Value{e})
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return rtfsvalue.NewVector(out...), nil
	})
}
