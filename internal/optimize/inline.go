package optimize

import "github.com/rtfs-lang/rtfs/internal/ir"

// inliner implements pass 4 (§4.4): replace an Apply of an inline-eligible
// Lambda (estimated body size within threshold, non-recursive by simple
// syntactic check, argument count matching parameter count and no
// variadic tail) with a Let binding each parameter to its argument.
// Grounded on InliningPass in the reference optimizer.
type inliner struct {
	pipeline  *Pipeline
	threshold int
	changed   bool
}

func (in *inliner) run(n ir.Node, depth int) ir.Node {
	if depth >= maxDepth {
		return n
	}
	switch v := n.(type) {
	case *ir.Apply:
		fn := in.run(v.Func, depth+1)
		args := make([]ir.Node, len(v.Args))
		for i, a := range v.Args {
			args[i] = in.run(a, depth+1)
		}
		if lambda, ok := fn.(*ir.Lambda); ok && in.eligible(lambda, len(args)) {
			in.changed = true
			in.pipeline.Stats.FunctionCallsInlined++
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

	case *ir.If:
		then := in.run(v.Then, depth+1)
		var els ir.Node
		if v.Else != nil {
			els = in.run(v.Else, depth+1)
		}
		return &ir.If{Base: v.Base, Cond: in.run(v.Cond, depth+1), Then: then, Else: els}

	case *ir.Let:
		bindings := make([]*ir.VariableBinding, len(v.Bindings))
		for i, b := range v.Bindings {
			bindings[i] = &ir.VariableBinding{Base: b.Base, Pattern: b.Pattern, Init: in.run(b.Init, depth+1)}
		}
		return &ir.Let{Base: v.Base, Bindings: bindings, Body: in.run(v.Body, depth+1)}

	case *ir.Do:
		exprs := make([]ir.Node, len(v.Exprs))
		for i, e := range v.Exprs {
			exprs[i] = in.run(e, depth+1)
		}
		return &ir.Do{Base: v.Base, Exprs: exprs}

	case *ir.Lambda:
		return &ir.Lambda{
			Base: v.Base, Params: v.Params, ParamNames: v.ParamNames,
			ParamPatterns: v.ParamPatterns, VariadicPattern: v.VariadicPattern,
			Variadic: v.Variadic, VariadicName: v.VariadicName,
			Body: in.run(v.Body, depth+1), Captures: v.Captures,
		}

	case *ir.Defn:
		lambda := in.run(v.Lambda, depth+1).(*ir.Lambda)
		return &ir.Defn{Base: v.Base, Name: v.Name, Lambda: lambda}

	case *ir.Def:
		return &ir.Def{Base: v.Base, Name: v.Name, Init: in.run(v.Init, depth+1)}

	default:
		return n
	}
}

// eligible reports whether lambda can be inlined at a call site with
// argCount arguments: exact arity match (no variadic tail), body size
// within threshold, and not syntactically self-recursive (a crude but
// cheap recursion guard — a true call graph is out of scope here).
func (in *inliner) eligible(lambda *ir.Lambda, argCount int) bool {
	if in.threshold <= 0 {
		return false
	}
	if lambda.Variadic != 0 || len(lambda.Params) != argCount {
		return false
	}
	if estimateSize(lambda.Body, 0) > in.threshold {
		return false
	}
	return !referencesOwnLambda(lambda.Body, lambda.Base.ID())
}

// estimateSize is a cheap node-count estimate of a body's size, mirroring
// estimate_size in the reference optimizer.
func estimateSize(n ir.Node, depth int) int {
	if n == nil || depth >= maxDepth {
		return 0
	}
	switch v := n.(type) {
	case *ir.Literal, *ir.VariableRef:
		return 1
	case *ir.Apply:
		total := 1 + estimateSize(v.Func, depth+1)
		for _, a := range v.Args {
			total += estimateSize(a, depth+1)
		}
		return total
	case *ir.If:
		return 1 + estimateSize(v.Cond, depth+1) + estimateSize(v.Then, depth+1) + estimateSize(v.Else, depth+1)
	case *ir.Do:
		total := 1
		for _, e := range v.Exprs {
			total += estimateSize(e, depth+1)
		}
		return total
	default:
		return 5 // conservative estimate for complex nodes, per reference
	}
}

// referencesOwnLambda is a syntactic self-recursion guard: true if any
// VariableRef in body (including inside nested lambdas) has a BindingID
// equal to selfID. Both callers pass the Lambda's own node id, so a
// recursive call through a Defn's name, which refers to the Defn's id,
// is not detected here.
func referencesOwnLambda(body ir.Node, selfID ir.NodeId) bool {
	found := false
	var walk func(n ir.Node)
	walk = func(n ir.Node) {
		if n == nil || found {
			return
		}
		if ref, ok := n.(*ir.VariableRef); ok && ref.BindingID == selfID {
			found = true
			return
		}
		switch v := n.(type) {
		case *ir.Apply:
			walk(v.Func)
			for _, a := range v.Args {
				walk(a)
			}
		case *ir.If:
			walk(v.Cond)
			walk(v.Then)
			walk(v.Else)
		case *ir.Let:
			for _, b := range v.Bindings {
				walk(b.Init)
			}
			walk(v.Body)
		case *ir.Do:
			for _, e := range v.Exprs {
				walk(e)
			}
		case *ir.Lambda:
			walk(v.Body)
		}
	}
	walk(body)
	return found
}
