package convert

import (
	"github.com/rtfs-lang/rtfs/internal/ir"
	"github.com/rtfs-lang/rtfs/internal/rtfsast"
)

func (c *Converter) convertFn(f *rtfsast.Fn) (ir.Node, error) {
	id := c.newID()
	c.pushScope()
	paramDepth := c.depth()
	ctx := &captureCtx{paramDepth: paramDepth, seen: map[string]bool{}}
	c.captures = append(c.captures, ctx)
	defer func() {
		c.captures = c.captures[:len(c.captures)-1]
		c.popScope()
	}()

	paramIDs := make([]ir.NodeId, 0, len(f.Params))
	paramNames := make([]string, 0, len(f.Params))
	paramPatterns := make([]ir.Pattern, 0, len(f.Params))
	paramTypes := make([]ir.Type, 0, len(f.Params))
	for _, p := range f.Params {
		pn, pt, err := c.convertParam(p)
		if err != nil {
			return nil, err
		}
		paramIDs = append(paramIDs, pn.ID())
		paramNames = append(paramNames, pn.Name)
		paramPatterns = append(paramPatterns, pn.Pattern)
		paramTypes = append(paramTypes, pt)
	}

	var variadicID ir.NodeId
	var variadicName string
	var variadicPattern ir.Pattern
	var variadicType ir.Type
	if f.Variadic != nil {
		pn, pt, err := c.convertVariadicParam(*f.Variadic)
		if err != nil {
			return nil, err
		}
		variadicID = pn.ID()
		variadicName = pn.Name
		variadicPattern = pn.Pattern
		variadicType = pt
	}

	body, err := c.bodyNode(f.Body, f.Pos)
	if err != nil {
		return nil, err
	}

	var variadicParamType *ir.Type
	if f.Variadic != nil {
		variadicParamType = &variadicType
	}
	fnType := ir.Func(paramTypes, variadicParamType, body.Type())

	return &ir.Lambda{
		Base:            ir.NewBase(id, fnType, f.Pos),
		Params:          paramIDs,
		ParamNames:      paramNames,
		ParamPatterns:   paramPatterns,
		Variadic:        variadicID,
		VariadicName:    variadicName,
		VariadicPattern: variadicPattern,
		Body:            body,
		Captures:        ctx.captures,
	}, nil
}

// convertParam builds a Parameter node for one Fn/Defn parameter and
// binds its pattern in the (already pushed) parameter scope. The
// Parameter node's own id is the pattern's BindingID when the pattern is
// a bare symbol, not a freshly minted one, so that internal/optimize's
// inliner (which rebuilds a Let binding keyed on Lambda.Params[i]) and
// internal/irexec (which looks the parameter up by that same id) agree
// with what the body's VariableRefs actually reference.
func (c *Converter) convertParam(p rtfsast.Param) (*ir.Parameter, ir.Type, error) {
	t := ir.Any()
	if !p.Annotation.IsZero() {
		rt, err := resolveTypeExpr(p.Annotation)
		if err != nil {
			return nil, ir.Type{}, err
		}
		t = rt
	}
	name, irPattern, err := c.bindPattern(p.Pattern, t, KindParameter)
	if err != nil {
		return nil, ir.Type{}, err
	}
	return &ir.Parameter{Base: ir.NewBase(parameterID(c, irPattern), t, p.Pattern.Position()), Name: name, Pattern: irPattern}, t, nil
}

// convertVariadicParam is convertParam's variadic-tail counterpart: an
// unannotated variadic parameter binds at Vector(Any), not Any, since it
// always collects into a vector at call time per §4.3.
func (c *Converter) convertVariadicParam(p rtfsast.Param) (*ir.Parameter, ir.Type, error) {
	t := ir.Vec(ir.Any())
	if !p.Annotation.IsZero() {
		rt, err := resolveTypeExpr(p.Annotation)
		if err != nil {
			return nil, ir.Type{}, err
		}
		t = rt
	}
	name, irPattern, err := c.bindPattern(p.Pattern, t, KindParameter)
	if err != nil {
		return nil, ir.Type{}, err
	}
	return &ir.Parameter{Base: ir.NewBase(parameterID(c, irPattern), t, p.Pattern.Position()), Name: name, Pattern: irPattern}, t, nil
}

// parameterID returns the id a Parameter node should carry: the
// pattern's own BindingID for a bare symbol (so it matches what the
// body's VariableRefs resolve against), or a fresh id for a destructured
// pattern, which has no single binding site of its own.
func parameterID(c *Converter, pat ir.Pattern) ir.NodeId {
	if sp, ok := pat.(*ir.SymbolPattern); ok {
		return sp.BindingID
	}
	return c.newID()
}

func (c *Converter) convertDefn(d *rtfsast.Defn) (ir.Node, error) {
	id := c.newID()
	// Pre-register the binding under the Defn's own id so the body can
	// call itself recursively, per §4.3's "inserts the resulting function
	// into the enclosing scope."
	info := c.define(d.Name, id, ir.Any(), KindFunction)
	lambdaNode, err := c.convertFn(d.Fn)
	if err != nil {
		return nil, err
	}
	lambda := lambdaNode.(*ir.Lambda)
	info.IrType = lambda.Type()
	return &ir.Defn{Base: ir.NewBase(id, lambda.Type(), d.Pos), Name: d.Name, Lambda: lambda}, nil
}

func (c *Converter) convertDef(d *rtfsast.Def) (ir.Node, error) {
	id := c.newID()
	init, err := c.Convert(d.Init)
	if err != nil {
		return nil, err
	}
	t := init.Type()
	if !d.Annotation.IsZero() {
		rt, err := resolveTypeExpr(d.Annotation)
		if err != nil {
			return nil, err
		}
		t = rt
	}
	c.define(d.Name, id, t, KindVariable)
	return &ir.Def{Base: ir.NewBase(id, t, d.Pos), Name: d.Name, Init: init}, nil
}

func (c *Converter) convertLet(l *rtfsast.Let) (ir.Node, error) {
	id := c.newID()
	c.pushScope()
	defer c.popScope()

	bindings := make([]*ir.VariableBinding, 0, len(l.Bindings))
	for _, b := range l.Bindings {
		init, err := c.Convert(b.Init)
		if err != nil {
			return nil, err
		}
		_, pat, err := c.bindPattern(b.Pattern, init.Type(), KindVariable)
		if err != nil {
			return nil, err
		}
		bid := parameterID(c, pat)
		bindings = append(bindings, &ir.VariableBinding{
			Base:    ir.NewBase(bid, init.Type(), b.Pattern.Position()),
			Pattern: pat,
			Init:    init,
		})
	}

	body, err := c.bodyNode(l.Body, l.Pos)
	if err != nil {
		return nil, err
	}
	return &ir.Let{Base: ir.NewBase(id, body.Type(), l.Pos), Bindings: bindings, Body: body}, nil
}
