package convert

import (
	"github.com/rtfs-lang/rtfs/internal/ir"
	"github.com/rtfs-lang/rtfs/internal/rtfsast"
)

func (c *Converter) convertMatch(m *rtfsast.Match) (ir.Node, error) {
	id := c.newID()
	scrutinee, err := c.Convert(m.Scrutinee)
	if err != nil {
		return nil, err
	}

	clauses := make([]ir.MatchClause, 0, len(m.Clauses))
	clauseTypes := make([]ir.Type, 0, len(m.Clauses))
	for _, cl := range m.Clauses {
		c.pushScope()
		pat, err := c.convertMatchPattern(cl.Pattern)
		if err != nil {
			c.popScope()
			return nil, err
		}
		var guard ir.Node
		if cl.Guard != nil {
			guard, err = c.Convert(cl.Guard)
			if err != nil {
				c.popScope()
				return nil, err
			}
		}
		body, err := c.Convert(cl.Body)
		if err != nil {
			c.popScope()
			return nil, err
		}
		c.popScope()
		clauses = append(clauses, ir.MatchClause{Pattern: pat, Guard: guard, Body: body})
		clauseTypes = append(clauseTypes, body.Type())
	}
	resultType := ir.Never()
	if len(clauseTypes) > 0 {
		resultType = ir.Union(clauseTypes...)
	}
	return &ir.Match{Base: ir.NewBase(id, resultType, m.Pos), Scrutinee: scrutinee, Clauses: clauses}, nil
}

func (c *Converter) convertTryCatch(t *rtfsast.TryCatch) (ir.Node, error) {
	id := c.newID()
	tryBody, err := c.bodyNode(t.Try, t.Pos)
	if err != nil {
		return nil, err
	}

	catches := make([]ir.CatchClause, 0, len(t.Catches))
	for _, cc := range t.Catches {
		c.pushScope()
		var pat ir.Pattern
		switch cc.Kind {
		case rtfsast.CatchKeyword:
			pat = &ir.LiteralPattern{Value: cc.Keyword}
		case rtfsast.CatchType:
			pat = &ir.TypePattern{TypeName: cc.Type}
		default:
			pat = &ir.WildcardPattern{}
		}
		bid := c.newID()
		c.define(cc.Name, bid, ir.Any(), KindVariable)
		body, err := c.bodyNode(cc.Body, t.Pos)
		if err != nil {
			c.popScope()
			return nil, err
		}
		c.popScope()
		catches = append(catches, ir.CatchClause{Pattern: pat, Name: cc.Name, BindingID: bid, Body: body})
	}

	var finally ir.Node
	if len(t.Finally) > 0 {
		finally, err = c.bodyNode(t.Finally, t.Pos)
		if err != nil {
			return nil, err
		}
	}

	return &ir.TryCatch{Base: ir.NewBase(id, tryBody.Type(), t.Pos), Try: tryBody, Catches: catches, Finally: finally}, nil
}

func (c *Converter) convertWithResource(w *rtfsast.WithResource) (ir.Node, error) {
	id := c.newID()
	init, err := c.Convert(w.Init)
	if err != nil {
		return nil, err
	}
	resourceType := ir.Any()
	if !w.DeclaredType.IsZero() {
		resourceType, err = resolveTypeExpr(w.DeclaredType)
		if err != nil {
			return nil, err
		}
	}
	c.pushScope()
	bid := c.newID()
	c.define(w.Name, bid, resourceType, KindResource)
	body, err := c.bodyNode(w.Body, w.Pos)
	if err != nil {
		c.popScope()
		return nil, err
	}
	c.popScope()
	return &ir.ResourceBinding{Base: ir.NewBase(id, body.Type(), w.Pos), Name: w.Name, BindingID: bid, Init: init, Body: body}, nil
}

func (c *Converter) convertParallel(p *rtfsast.Parallel) (ir.Node, error) {
	id := c.newID()
	bindings := make([]ir.ParallelBinding, 0, len(p.Bindings))
	for _, b := range p.Bindings {
		expr, err := c.Convert(b.Expr)
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, ir.ParallelBinding{Name: b.Name, Expr: expr})
	}
	return &ir.Parallel{Base: ir.NewBase(id, ir.Nil(), p.Pos), Bindings: bindings}, nil
}

func (c *Converter) convertLogStep(l *rtfsast.LogStep) (ir.Node, error) {
	id := c.newID()
	level := l.Level
	if level == "" {
		level = "info"
	}
	values, err := c.convertExprList(l.Values)
	if err != nil {
		return nil, err
	}
	return &ir.LogStep{Base: ir.NewBase(id, ir.Nil(), l.Pos), Level: level, Location: l.Location, Values: values}, nil
}
