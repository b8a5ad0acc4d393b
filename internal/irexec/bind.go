package irexec

import (
	"github.com/rtfs-lang/rtfs/internal/ir"
	"github.com/rtfs-lang/rtfs/internal/rtfserr"
	"github.com/rtfs-lang/rtfs/internal/rtfsvalue"
)

// bindPattern destructures v against pat, defining bindings by NodeId
// directly in env, per §4.7. This is astexec.bindPattern's id-keyed
// counterpart. The IR's Pattern universe is unified across binding and
// match contexts (internal/ir.Pattern), but matchPattern in match.go
// walks Vector/Map/As patterns with its own recursion and does not call
// bindPattern.
func bindPattern(pat ir.Pattern, v rtfsvalue.Value, env *rtfsvalue.IdEnv) error {
	switch p := pat.(type) {
	case *ir.SymbolPattern:
		env.Define(p.BindingID, v)
		return nil

	case *ir.WildcardPattern:
		return nil

	case *ir.AsPattern:
		// AsPattern only appears inside Match clauses (§4.7), which
		// matchPattern handles itself; this case covers an AsPattern that
		// reaches a binding context.
		if p.BindingID != 0 {
			env.Define(p.BindingID, v)
		}
		return bindPattern(p.Inner, v, env)

	case *ir.VectorPattern:
		vec, ok := v.(*rtfsvalue.VectorValue)
		if !ok {
			return rtfserr.TypeMismatch("vector", rtfsvalue.TypeName(v))
		}
		if p.AsBindingID != 0 {
			env.Define(p.AsBindingID, v)
		}
		for i, elemPat := range p.Elements {
			var elem rtfsvalue.Value = rtfsvalue.Nil
			if i < len(vec.Elements) {
				elem = vec.Elements[i]
			}
			if err := bindPattern(elemPat, elem, env); err != nil {
				return err
			}
		}
		if p.Rest != nil {
			n := len(p.Elements)
			var rest []rtfsvalue.Value
			if n < len(vec.Elements) {
				rest = vec.Elements[n:]
			}
			env.Define(p.Rest.BindingID, rtfsvalue.NewVector(rest...))
		}
		return nil

	case *ir.MapPattern:
		m, ok := v.(*rtfsvalue.MapValue)
		if !ok {
			return rtfserr.TypeMismatch("map", rtfsvalue.TypeName(v))
		}
		if p.AsBindingID != 0 {
			env.Define(p.AsBindingID, v)
		}
		consumed := map[rtfsvalue.MapKey]bool{}
		for _, entry := range p.Entries {
			key, err := patternMapKey(entry.Key)
			if err != nil {
				return err
			}
			val, ok := m.Get(key)
			if !ok {
				val = rtfsvalue.Nil
			}
			consumed[key] = true
			if err := bindPattern(entry.Pattern, val, env); err != nil {
				return err
			}
		}
		if p.Rest != nil {
			rest := rtfsvalue.NewMap()
			for _, k := range m.Keys() {
				if !consumed[k] {
					val, _ := m.Get(k)
					rest.Set(k, val)
				}
			}
			env.Define(p.Rest.BindingID, rest)
		}
		return nil

	default:
		return rtfserr.New(rtfserr.RT009, "unsupported binding pattern", nil)
	}
}

// patternMapKey converts a MapPatternEntry/MapEntry's ambiguously-typed
// Key field (keyword name or integer, per internal/convert's lowering of
// rtfsast map keys) into a MapKey.
func patternMapKey(key interface{}) (rtfsvalue.MapKey, error) {
	switch k := key.(type) {
	case string:
		return rtfsvalue.MapKey{Kind: rtfsvalue.MapKeyKeyword, Str: k}, nil
	case int64:
		return rtfsvalue.MapKey{Kind: rtfsvalue.MapKeyInt, Int: k}, nil
	case int:
		return rtfsvalue.MapKey{Kind: rtfsvalue.MapKeyInt, Int: int64(k)}, nil
	default:
		return rtfsvalue.MapKey{}, rtfserr.New(rtfserr.RT009, "unsupported map pattern key type", nil)
	}
}
