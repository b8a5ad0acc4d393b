package optimize

import "github.com/rtfs-lang/rtfs/internal/ir"

// deadCodeEliminator implements pass 2 (§4.4): in a Do, keep only
// side-effecting expressions plus the final one; in a Let, drop bindings
// whose init is pure and whose binding id is never referenced by the
// body. Grounded on DeadCodeEliminationPass in the reference optimizer.
type deadCodeEliminator struct {
	pipeline *Pipeline
	changed  bool
}

func (d *deadCodeEliminator) run(n ir.Node, depth int) ir.Node {
	if depth >= maxDepth {
		return n
	}
	switch v := n.(type) {
	case *ir.Do:
		kept := make([]ir.Node, 0, len(v.Exprs))
		for i, e := range v.Exprs {
			opt := d.run(e, depth+1)
			if i == len(v.Exprs)-1 || hasSideEffects(opt) {
				kept = append(kept, opt)
			} else {
				d.changed = true
				d.pipeline.Stats.DeadCodeEliminated++
			}
		}
		if len(kept) == 1 {
			d.changed = true
			return kept[0]
		}
		return &ir.Do{Base: v.Base, Exprs: kept}

	case *ir.Let:
		body := d.run(v.Body, depth+1)
		refs := map[ir.NodeId]bool{}
		collectRefs(body, refs)
		// A later binding's init can reference an earlier one, so scan
		// right-to-left, folding each kept binding's own references into
		// refs before deciding the next.
		kept := make([]*ir.VariableBinding, 0, len(v.Bindings))
		for i := len(v.Bindings) - 1; i >= 0; i-- {
			b := v.Bindings[i]
			init := d.run(b.Init, depth+1)
			names := bindingIDsOf(b.Pattern)
			used := false
			for _, id := range names {
				if refs[id] {
					used = true
					break
				}
			}
			if used || hasSideEffects(init) {
				collectRefs(init, refs)
				kept = append([]*ir.VariableBinding{{Base: b.Base, Pattern: b.Pattern, Init: init}}, kept...)
			} else {
				d.changed = true
				d.pipeline.Stats.DeadCodeEliminated++
			}
		}
		if len(kept) == 0 {
			d.changed = true
			return body
		}
		return &ir.Let{Base: v.Base, Bindings: kept, Body: body}

	case *ir.Apply:
		fn := d.run(v.Func, depth+1)
		args := make([]ir.Node, len(v.Args))
		for i, a := range v.Args {
			args[i] = d.run(a, depth+1)
		}
		return &ir.Apply{Base: v.Base, Func: fn, Args: args}

	case *ir.If:
		then := d.run(v.Then, depth+1)
		var els ir.Node
		if v.Else != nil {
			els = d.run(v.Else, depth+1)
		}
		return &ir.If{Base: v.Base, Cond: d.run(v.Cond, depth+1), Then: then, Else: els}

	case *ir.Lambda:
		return &ir.Lambda{
			Base: v.Base, Params: v.Params, ParamNames: v.ParamNames,
			ParamPatterns: v.ParamPatterns, VariadicPattern: v.VariadicPattern,
			Variadic: v.Variadic, VariadicName: v.VariadicName,
			Body: d.run(v.Body, depth+1), Captures: v.Captures,
		}

	case *ir.Defn:
		lambda := d.run(v.Lambda, depth+1).(*ir.Lambda)
		return &ir.Defn{Base: v.Base, Name: v.Name, Lambda: lambda}

	case *ir.Def:
		return &ir.Def{Base: v.Base, Name: v.Name, Init: d.run(v.Init, depth+1)}

	case *ir.LogStep:
		values := make([]ir.Node, len(v.Values))
		for i, e := range v.Values {
			values[i] = d.run(e, depth+1)
		}
		return &ir.LogStep{Base: v.Base, Level: v.Level, Location: v.Location, Values: values}

	case *ir.Match:
		scrutinee := d.run(v.Scrutinee, depth+1)
		clauses := make([]ir.MatchClause, len(v.Clauses))
		for i, cl := range v.Clauses {
			var guard ir.Node
			if cl.Guard != nil {
				guard = d.run(cl.Guard, depth+1)
			}
			clauses[i] = ir.MatchClause{Pattern: cl.Pattern, Guard: guard, Body: d.run(cl.Body, depth+1)}
		}
		return &ir.Match{Base: v.Base, Scrutinee: scrutinee, Clauses: clauses}

	case *ir.TryCatch:
		try := d.run(v.Try, depth+1)
		catches := make([]ir.CatchClause, len(v.Catches))
		for i, cc := range v.Catches {
			catches[i] = ir.CatchClause{Pattern: cc.Pattern, Name: cc.Name, BindingID: cc.BindingID, Body: d.run(cc.Body, depth+1)}
		}
		var fin ir.Node
		if v.Finally != nil {
			fin = d.run(v.Finally, depth+1)
		}
		return &ir.TryCatch{Base: v.Base, Try: try, Catches: catches, Finally: fin}

	case *ir.ResourceBinding:
		return &ir.ResourceBinding{Base: v.Base, Name: v.Name, BindingID: v.BindingID, Init: d.run(v.Init, depth+1), Body: d.run(v.Body, depth+1)}

	case *ir.Parallel:
		bindings := make([]ir.ParallelBinding, len(v.Bindings))
		for i, b := range v.Bindings {
			bindings[i] = ir.ParallelBinding{Name: b.Name, Expr: d.run(b.Expr, depth+1)}
		}
		return &ir.Parallel{Base: v.Base, Bindings: bindings}

	case *ir.VectorLit:
		elems := make([]ir.Node, len(v.Elements))
		for i, e := range v.Elements {
			elems[i] = d.run(e, depth+1)
		}
		return &ir.VectorLit{Base: v.Base, Elements: elems}

	case *ir.MapLit:
		entries := make([]ir.MapEntry, len(v.Entries))
		for i, e := range v.Entries {
			entries[i] = ir.MapEntry{Key: e.Key, Value: d.run(e.Value, depth+1)}
		}
		return &ir.MapLit{Base: v.Base, Entries: entries}

	default:
		return n
	}
}

// bindingIDsOf returns every binding id a pattern introduces, so DCE can
// check whether any of them is referenced by the body.
func bindingIDsOf(p ir.Pattern) []ir.NodeId {
	switch n := p.(type) {
	case *ir.SymbolPattern:
		return []ir.NodeId{n.BindingID}
	case *ir.VectorPattern:
		var ids []ir.NodeId
		for _, e := range n.Elements {
			ids = append(ids, bindingIDsOf(e)...)
		}
		if n.Rest != nil {
			ids = append(ids, n.Rest.BindingID)
		}
		return ids
	case *ir.MapPattern:
		var ids []ir.NodeId
		for _, e := range n.Entries {
			ids = append(ids, bindingIDsOf(e.Pattern)...)
		}
		if n.Rest != nil {
			ids = append(ids, n.Rest.BindingID)
		}
		return ids
	case *ir.AsPattern:
		return bindingIDsOf(n.Inner)
	default:
		return nil
	}
}

// collectRefs walks n recording every VariableRef's resolved BindingID,
// used by DCE's Let pass to decide whether a binding is referenced.
func collectRefs(n ir.Node, refs map[ir.NodeId]bool) {
	if n == nil {
		return
	}
	switch v := n.(type) {
	case *ir.VariableRef:
		if v.BindingID != 0 {
			refs[v.BindingID] = true
		}
	case *ir.Apply:
		collectRefs(v.Func, refs)
		for _, a := range v.Args {
			collectRefs(a, refs)
		}
	case *ir.If:
		collectRefs(v.Cond, refs)
		collectRefs(v.Then, refs)
		collectRefs(v.Else, refs)
	case *ir.Let:
		for _, b := range v.Bindings {
			collectRefs(b.Init, refs)
		}
		collectRefs(v.Body, refs)
	case *ir.Do:
		for _, e := range v.Exprs {
			collectRefs(e, refs)
		}
	case *ir.Lambda:
		collectRefs(v.Body, refs)
	case *ir.Defn:
		collectRefs(v.Lambda, refs)
	case *ir.Def:
		collectRefs(v.Init, refs)
	case *ir.LogStep:
		for _, e := range v.Values {
			collectRefs(e, refs)
		}
	case *ir.Match:
		collectRefs(v.Scrutinee, refs)
		for _, cl := range v.Clauses {
			collectRefs(cl.Guard, refs)
			collectRefs(cl.Body, refs)
		}
	case *ir.TryCatch:
		collectRefs(v.Try, refs)
		for _, cc := range v.Catches {
			collectRefs(cc.Body, refs)
		}
		collectRefs(v.Finally, refs)
	case *ir.ResourceBinding:
		collectRefs(v.Init, refs)
		collectRefs(v.Body, refs)
	case *ir.Parallel:
		for _, b := range v.Bindings {
			collectRefs(b.Expr, refs)
		}
	case *ir.VectorLit:
		for _, e := range v.Elements {
			collectRefs(e, refs)
		}
	case *ir.MapLit:
		for _, e := range v.Entries {
			collectRefs(e.Value, refs)
		}
	}
}
