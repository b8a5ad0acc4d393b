package convert

import (
	"github.com/rtfs-lang/rtfs/internal/ir"
	"github.com/rtfs-lang/rtfs/internal/rtfsast"
	"github.com/rtfs-lang/rtfs/internal/rtfserr"
)

// bindPattern converts a binding pattern (Let bindings, Fn/Defn params,
// catch bindings; §4.7) into its IR form, defining every bound name in
// the current scope at type t (or Any() for destructured sub-elements,
// since the converter does no structural type inference here). It
// returns a display name for callers (e.g. ir.Parameter.Name) that want
// one even for non-symbol patterns.
func (c *Converter) bindPattern(p rtfsast.Pattern, t ir.Type, kind BindingKind) (string, ir.Pattern, error) {
	switch n := p.(type) {
	case *rtfsast.SymbolPattern:
		id := c.newID()
		c.define(n.Name, id, t, kind)
		return n.Name, &ir.SymbolPattern{Name: n.Name, BindingID: id}, nil

	case *rtfsast.WildcardPattern:
		return "_", &ir.WildcardPattern{}, nil

	case *rtfsast.VectorDestructuring:
		elemType := ir.Any()
		if t.Kind == ir.KindVector && t.Elem != nil {
			elemType = *t.Elem
		}
		elems := make([]ir.Pattern, 0, len(n.Elements))
		for _, e := range n.Elements {
			_, ep, err := c.bindPattern(e, elemType, kind)
			if err != nil {
				return "", nil, err
			}
			elems = append(elems, ep)
		}
		var rest *ir.SymbolPattern
		if n.Rest != nil {
			id := c.newID()
			c.define(n.Rest.Name, id, ir.Vec(elemType), kind)
			rest = &ir.SymbolPattern{Name: n.Rest.Name, BindingID: id}
		}
		var asID ir.NodeId
		if n.As != "" {
			asID = c.newID()
			c.define(n.As, asID, t, kind)
		}
		return n.As, &ir.VectorPattern{Elements: elems, Rest: rest, As: n.As, AsBindingID: asID}, nil

	case *rtfsast.MapDestructuring:
		entries := make([]ir.MapPatternEntry, 0, len(n.Entries))
		for _, e := range n.Entries {
			_, ep, err := c.bindPattern(e.Pattern, ir.Any(), kind)
			if err != nil {
				return "", nil, err
			}
			entries = append(entries, ir.MapPatternEntry{Key: e.Key, Pattern: ep})
		}
		for _, sym := range n.KeysShort {
			id := c.newID()
			c.define(sym, id, ir.Any(), kind)
			entries = append(entries, ir.MapPatternEntry{
				Key:     sym,
				Pattern: &ir.SymbolPattern{Name: sym, BindingID: id},
			})
		}
		var rest *ir.SymbolPattern
		if n.Rest != nil {
			id := c.newID()
			c.define(n.Rest.Name, id, ir.Any(), kind)
			rest = &ir.SymbolPattern{Name: n.Rest.Name, BindingID: id}
		}
		var asID ir.NodeId
		if n.As != "" {
			asID = c.newID()
			c.define(n.As, asID, t, kind)
		}
		return n.As, &ir.MapPattern{Entries: entries, Rest: rest, As: n.As, AsBindingID: asID}, nil

	default:
		return "", nil, rtfserr.New(rtfserr.CNV003, "invalid binding pattern", nil)
	}
}

// convertMatchPattern converts a Match-clause pattern (§4.7's richer
// pattern universe) into its IR form, binding any names it introduces in
// the current scope.
func (c *Converter) convertMatchPattern(p rtfsast.MatchPattern) (ir.Pattern, error) {
	switch n := p.(type) {
	case *rtfsast.LiteralMatch:
		return &ir.LiteralPattern{Value: n.Value}, nil

	case *rtfsast.KeywordMatch:
		return &ir.KeywordPattern{Name: n.Name}, nil

	case *rtfsast.SymbolMatch:
		id := c.newID()
		c.define(n.Name, id, ir.Any(), KindVariable)
		return &ir.SymbolPattern{Name: n.Name, BindingID: id}, nil

	case *rtfsast.WildcardMatch:
		return &ir.WildcardPattern{}, nil

	case *rtfsast.TypeMatch:
		return &ir.TypePattern{TypeName: n.TypeName}, nil

	case *rtfsast.VectorMatch:
		elems := make([]ir.Pattern, 0, len(n.Elements))
		for _, e := range n.Elements {
			ep, err := c.convertMatchPattern(e)
			if err != nil {
				return nil, err
			}
			elems = append(elems, ep)
		}
		var rest *ir.SymbolPattern
		if n.Rest != nil {
			id := c.newID()
			c.define(n.Rest.Name, id, ir.Vec(ir.Any()), KindVariable)
			rest = &ir.SymbolPattern{Name: n.Rest.Name, BindingID: id}
		}
		return &ir.VectorPattern{Elements: elems, Rest: rest}, nil

	case *rtfsast.MapMatch:
		entries := make([]ir.MapPatternEntry, 0, len(n.Entries))
		for _, e := range n.Entries {
			ep, err := c.convertMatchPattern(e.Pattern)
			if err != nil {
				return nil, err
			}
			entries = append(entries, ir.MapPatternEntry{Key: e.Key, Pattern: ep})
		}
		var rest *ir.SymbolPattern
		if n.Rest != nil {
			id := c.newID()
			c.define(n.Rest.Name, id, ir.Any(), KindVariable)
			rest = &ir.SymbolPattern{Name: n.Rest.Name, BindingID: id}
		}
		return &ir.MapPattern{Entries: entries, Rest: rest}, nil

	case *rtfsast.AsMatch:
		inner, err := c.convertMatchPattern(n.Inner)
		if err != nil {
			return nil, err
		}
		id := c.newID()
		c.define(n.Name, id, ir.Any(), KindVariable)
		return &ir.AsPattern{Name: n.Name, BindingID: id, Inner: inner}, nil

	default:
		return nil, rtfserr.New(rtfserr.CNV003, "invalid match pattern", nil)
	}
}
