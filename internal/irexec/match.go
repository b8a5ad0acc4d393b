package irexec

import (
	"github.com/rtfs-lang/rtfs/internal/ir"
	"github.com/rtfs-lang/rtfs/internal/rtfserr"
	"github.com/rtfs-lang/rtfs/internal/rtfsvalue"
)

// evalMatch evaluates Scrutinee once, then tries each clause in source
// order: pattern-match (and bind) in a fresh child scope, evaluate an
// optional guard, and on success evaluate the clause body there. No
// matching clause is a MatchError (§4.2/§4.7), mirroring astexec.evalMatch.
func (e *Evaluator) evalMatch(m *ir.Match, env *rtfsvalue.IdEnv, f *frame) (rtfsvalue.Value, error) {
	scrutinee, err := e.Eval(m.Scrutinee, env, f)
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
			g, err := e.Eval(clause.Guard, clauseEnv, f)
			if err != nil {
				return nil, err
			}
			if !rtfsvalue.Truthy(g) {
				continue
			}
		}
		return e.Eval(clause.Body, clauseEnv, f)
	}
	return nil, rtfserr.NoMatch()
}

// matchPattern reports whether scrutinee matches pat, binding any symbols
// the pattern introduces by NodeId into env as a side effect of a
// successful match. ir.Pattern is the same type used for plain binding
// contexts (bind.go), since internal/convert unifies the two pattern
// universes at the IR level (§4.7).
func matchPattern(pat ir.Pattern, v rtfsvalue.Value, env *rtfsvalue.IdEnv) (bool, error) {
	switch p := pat.(type) {
	case *ir.LiteralPattern:
		lit, err := literalPatternValue(p.Value)
		if err != nil {
			return false, err
		}
		return rtfsvalue.Equal(lit, v), nil

	case *ir.KeywordPattern:
		kw, ok := v.(rtfsvalue.KeywordValue)
		return ok && string(kw) == p.Name, nil

	case *ir.SymbolPattern:
		env.Define(p.BindingID, v)
		return true, nil

	case *ir.WildcardPattern:
		return true, nil

	case *ir.TypePattern:
		// A type pattern matches every scrutinee; TypeName is not
		// checked against the value's runtime type.
		return true, nil

	case *ir.VectorPattern:
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
			env.Define(p.Rest.BindingID, rtfsvalue.NewVector(vec.Elements[len(p.Elements):]...))
		}
		return true, nil

	case *ir.MapPattern:
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
			env.Define(p.Rest.BindingID, rest)
		}
		return true, nil

	case *ir.AsPattern:
		ok, err := matchPattern(p.Inner, v, env)
		if err != nil || !ok {
			return false, err
		}
		env.Define(p.BindingID, v)
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

// literalPatternValue reconstructs a runtime Value from a LiteralPattern's
// Go-typed constant. Unlike ir.Literal, a match-position literal pattern
// never represents a keyword (those lower to KeywordPattern instead, per
// internal/convert's convertMatchPattern), so no type-level disambiguation
// is needed here.
func literalPatternValue(v interface{}) (rtfsvalue.Value, error) {
	if v == nil {
		return rtfsvalue.Nil, nil
	}
	switch val := v.(type) {
	case bool:
		return rtfsvalue.BoolValue(val), nil
	case int64:
		return rtfsvalue.IntValue(val), nil
	case int:
		return rtfsvalue.IntValue(val), nil
	case float64:
		return rtfsvalue.FloatValue(val), nil
	case string:
		return rtfsvalue.StringValue(val), nil
	default:
		return nil, rtfserr.New(rtfserr.RT009, "unrepresentable literal pattern value", nil)
	}
}
