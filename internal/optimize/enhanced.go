package optimize

import "github.com/rtfs-lang/rtfs/internal/ir"

// enhancedPass composes control-flow analysis (constant-If elimination,
// unused-let-binding elimination via a free-variable scan, Do-block dead
// code elimination) on top of the basic pipeline, run only at
// LevelAggressive. Grounded on EnhancedIrOptimizer.optimize_with_control_flow
// in the reference implementation; it is semantically a superset of the
// basic constant-folding/DCE passes, so running both is redundant but
// harmless (neither further changes what the other has already settled).
type enhancedPass struct {
	pipeline  *Pipeline
	threshold int
	changed   bool
}

func (e *enhancedPass) run(n ir.Node, depth int) ir.Node {
	if depth >= maxDepth {
		return n
	}
	switch v := n.(type) {
	case *ir.If:
		cond := e.run(v.Cond, depth+1)
		if lit, ok := cond.(*ir.Literal); ok {
			if b, ok := lit.Value.(bool); ok {
				e.changed = true
				if b {
					return e.run(v.Then, depth+1)
				}
				if v.Else != nil {
					return e.run(v.Else, depth+1)
				}
				return &ir.Literal{Base: ir.NewBase(v.ID(), ir.Nil(), v.Pos()), Value: nil}
			}
		}
		then := e.run(v.Then, depth+1)
		var els ir.Node
		if v.Else != nil {
			els = e.run(v.Else, depth+1)
		}
		return &ir.If{Base: v.Base, Cond: cond, Then: then, Else: els}

	case *ir.Do:
		kept := make([]ir.Node, 0, len(v.Exprs))
		for i, ex := range v.Exprs {
			opt := e.run(ex, depth+1)
			if i == len(v.Exprs)-1 || hasSideEffects(opt) {
				kept = append(kept, opt)
			} else {
				e.changed = true
				e.pipeline.Stats.DeadCodeEliminated++
			}
		}
		if len(kept) == 1 {
			e.changed = true
			return kept[0]
		}
		return &ir.Do{Base: v.Base, Exprs: kept}

	case *ir.Let:
		body := e.run(v.Body, depth+1)
		used := map[ir.NodeId]bool{}
		collectRefs(body, used)

		kept := make([]*ir.VariableBinding, 0, len(v.Bindings))
		for i := len(v.Bindings) - 1; i >= 0; i-- {
			b := v.Bindings[i]
			init := e.run(b.Init, depth+1)
			ids := bindingIDsOf(b.Pattern)
			referenced := false
			for _, id := range ids {
				if used[id] {
					referenced = true
					break
				}
			}
			if referenced || hasSideEffects(init) {
				collectRefs(init, used)
				kept = append([]*ir.VariableBinding{{Base: b.Base, Pattern: b.Pattern, Init: init}}, kept...)
			} else {
				e.changed = true
				e.pipeline.Stats.DeadCodeEliminated++
			}
		}
		if len(kept) == 0 {
			e.changed = true
			return body
		}
		return &ir.Let{Base: v.Base, Bindings: kept, Body: body}

	case *ir.Apply:
		fn := e.run(v.Func, depth+1)
		args := make([]ir.Node, len(v.Args))
		for i, a := range v.Args {
			args[i] = e.run(a, depth+1)
		}
		if lambda, ok := fn.(*ir.Lambda); ok && e.eligible(lambda, len(args)) {
			e.changed = true
			e.pipeline.Stats.FunctionCallsInlined++
			bindings := make([]*ir.VariableBinding, len(lambda.Params))
			for i, pid := range lambda.Params {
				bindings[i] = &ir.VariableBinding{
					Base:    ir.NewBase(pid, args[i].Type(), v.Pos()),
					Pattern: &ir.SymbolPattern{Name: lambda.ParamNames[i], BindingID: pid},
					Init:    args[i],
				}
			}
			return &ir.Let{Base: v.Base, Bindings: bindings, Body: lambda.Body}
		}
		return &ir.Apply{Base: v.Base, Func: fn, Args: args}

	case *ir.Lambda:
		return &ir.Lambda{
			Base: v.Base, Params: v.Params, ParamNames: v.ParamNames,
			ParamPatterns: v.ParamPatterns, VariadicPattern: v.VariadicPattern,
			Variadic: v.Variadic, VariadicName: v.VariadicName,
			Body: e.run(v.Body, depth+1), Captures: v.Captures,
		}

	case *ir.Defn:
		lambda := e.run(v.Lambda, depth+1).(*ir.Lambda)
		return &ir.Defn{Base: v.Base, Name: v.Name, Lambda: lambda}

	case *ir.Def:
		return &ir.Def{Base: v.Base, Name: v.Name, Init: e.run(v.Init, depth+1)}

	default:
		return n
	}
}

func (e *enhancedPass) eligible(lambda *ir.Lambda, argCount int) bool {
	if e.threshold <= 0 {
		return false
	}
	if lambda.Variadic != 0 || len(lambda.Params) != argCount {
		return false
	}
	return estimateSize(lambda.Body, 0) <= e.threshold && !referencesOwnLambda(lambda.Body, lambda.Base.ID())
}
