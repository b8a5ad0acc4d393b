package astexec

import (
	"github.com/rtfs-lang/rtfs/internal/rtfsast"
	"github.com/rtfs-lang/rtfs/internal/rtfserr"
	"github.com/rtfs-lang/rtfs/internal/rtfsvalue"
)

// evalMatch evaluates scrutinee once, then tries each clause in source
// order: pattern-match (and bind) in a fresh child scope, evaluate an
// optional guard, and on success evaluate the clause body there. No
// matching clause is a MatchError (§4.2/§4.7).
func (e *Evaluator) evalMatch(m *rtfsast.Match, env *rtfsvalue.NameEnv) (rtfsvalue.Value, error) {
	scrutinee, err := e.Eval(m.Scrutinee, env)
	if err != nil {
		return nil, err
	}
	for _, clause := range m.Clauses {
		clauseEnv := env.WithParent()
		ok, err := matchPattern(clause.Pattern, scrutinee, clauseEnv)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if clause.Guard != nil {
			g, err := e.Eval(clause.Guard, clauseEnv)
			if err != nil {
				return nil, err
			}
			if !rtfsvalue.Truthy(g) {
				continue
			}
		}
		return e.Eval(clause.Body, clauseEnv)
	}
	return nil, rtfserr.NoMatch()
}

// matchPattern reports whether scrutinee matches pat, binding any symbols
// the pattern introduces into env as a side effect of a successful match
// (§4.7's match-pattern rules). Grounded on the same traversal shape as
// bindPattern/convert/pattern.go's convertMatchPattern, over the parallel
// MatchPattern universe.
func matchPattern(pat rtfsast.MatchPattern, v rtfsvalue.Value, env *rtfsvalue.NameEnv) (bool, error) {
	switch p := pat.(type) {
	case *rtfsast.LiteralMatch:
		lit, err := literalValue(p.Kind, p.Value)
		if err != nil {
			return false, err
		}
		return rtfsvalue.Equal(lit, v), nil

	case *rtfsast.KeywordMatch:
		kw, ok := v.(rtfsvalue.KeywordValue)
		return ok && string(kw) == p.Name, nil

	case *rtfsast.SymbolMatch:
		env.Define(p.Name, v)
		return true, nil

	case *rtfsast.WildcardMatch:
		return true, nil

	case *rtfsast.TypeMatch:
		// A type pattern matches every scrutinee; TypeName is not
		// checked against the value's runtime type.
		return true, nil

	case *rtfsast.VectorMatch:
		vec, ok := v.(*rtfsvalue.VectorValue)
		if !ok || len(vec.Elements) < len(p.Elements) {
			return false, nil
		}
		for i, sub := range p.Elements {
			ok, err := matchPattern(sub, vec.Elements[i], env)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		if p.Rest != nil {
			env.Define(p.Rest.Name, rtfsvalue.NewVector(vec.Elements[len(p.Elements):]...))
		}
		return true, nil

	case *rtfsast.MapMatch:
		m, ok := v.(*rtfsvalue.MapValue)
		if !ok {
			return false, nil
		}
		consumed := map[rtfsvalue.MapKey]bool{}
		for _, entry := range p.Entries {
			key, err := patternMapKey(entry.Key)
			if err != nil {
				return false, err
			}
			val, present := m.Get(key)
			if !present {
				return false, nil
			}
			consumed[key] = true
			ok, err := matchPattern(entry.Pattern, val, env)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
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
			env.Define(p.Rest.Name, rest)
		}
		return true, nil

	case *rtfsast.AsMatch:
		ok, err := matchPattern(p.Inner, v, env)
		if err != nil || !ok {
			return false, err
		}
		env.Define(p.Name, v)
		return true, nil

	default:
		return false, rtfserr.New(rtfserr.RT009, "unsupported match pattern", nil)
	}
}

// typeMatchName reports whether v's runtime type name matches typeName,
// allowing "Any" to match everything.
func typeMatchName(typeName string, v rtfsvalue.Value) bool {
	if typeName == "" || typeName == "Any" {
		return true
	}
	return rtfsvalue.TypeName(v) == typeName
}
