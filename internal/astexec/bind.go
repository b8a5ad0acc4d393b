package astexec

import (
	"github.com/rtfs-lang/rtfs/internal/rtfsast"
	"github.com/rtfs-lang/rtfs/internal/rtfserr"
	"github.com/rtfs-lang/rtfs/internal/rtfsvalue"
)

// bindPattern destructures v against pat, defining symbols directly in
// env, per §4.7's binding-pattern rules. Grounded on convert/pattern.go's
// bindPattern, which walks the identical pattern universe one layer
// earlier (against ir.Type/scope instead of rtfsvalue.Value/NameEnv).
func bindPattern(pat rtfsast.Pattern, v rtfsvalue.Value, env *rtfsvalue.NameEnv) error {
	switch p := pat.(type) {
	case *rtfsast.SymbolPattern:
		env.Define(p.Name, v)
		return nil

	case *rtfsast.WildcardPattern:
		return nil

	case *rtfsast.VectorDestructuring:
		vec, ok := v.(*rtfsvalue.VectorValue)
		if !ok {
			return rtfserr.TypeMismatch("vector", rtfsvalue.TypeName(v))
		}
		if p.As != "" {
			env.Define(p.As, v)
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
			env.Define(p.Rest.Name, rtfsvalue.NewVector(rest...))
		}
		return nil

	case *rtfsast.MapDestructuring:
		m, ok := v.(*rtfsvalue.MapValue)
		if !ok {
			return rtfserr.TypeMismatch("map", rtfsvalue.TypeName(v))
		}
		if p.As != "" {
			env.Define(p.As, v)
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
		for _, sym := range p.KeysShort {
			key := rtfsvalue.MapKey{Kind: rtfsvalue.MapKeyKeyword, Str: sym}
			val, ok := m.Get(key)
			if !ok {
				val = rtfsvalue.Nil
			}
			consumed[key] = true
			env.Define(sym, val)
		}
		if p.Rest != nil {
			rest := rtfsvalue.NewMap()
			for _, k := range m.Keys() {
				if !consumed[k] {
					val, _ := m.Get(k)
					rest.Set(k, val)
				}
			}
			env.Define(p.Rest.Name, rest)
		}
		return nil

	default:
		return rtfserr.New(rtfserr.RT009, "unsupported binding pattern", nil)
	}
}

// patternMapKey converts a MapKeyBinding's ambiguously-typed Key field
// (keyword name, string, or integer, per the parser) into a MapKey.
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
