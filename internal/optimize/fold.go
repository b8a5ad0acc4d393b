package optimize

import (
	"math"

	"github.com/rtfs-lang/rtfs/internal/ir"
)

// floatEpsilon mirrors f64::EPSILON-scale float equality folding from the
// reference optimizer's fold_arithmetic.
const floatEpsilon = 2.220446049250313e-16

// constantFolder implements pass 1 (§4.4): fold pure-operator Applies
// over Literal arguments, and collapse If nodes whose condition is a
// literal Boolean to their taken branch. Grounded on ConstantFoldingPass
// in the reference optimizer, generalized here to Go's recursive-descent
// idiom over the ir.Node sum instead of a Rust match-and-clone walk.
type constantFolder struct {
	pipeline *Pipeline
	changed  bool
}

func (f *constantFolder) run(n ir.Node, depth int) ir.Node {
	if depth >= maxDepth {
		return n
	}
	switch v := n.(type) {
	case *ir.Apply:
		fn := f.run(v.Func, depth+1)
		args := make([]ir.Node, len(v.Args))
		for i, a := range v.Args {
			args[i] = f.run(a, depth+1)
		}
		if folded := f.foldApply(v, fn, args); folded != nil {
			f.changed = true
			f.pipeline.Stats.ConstantsFolded++
			return folded
		}
		return &ir.Apply{Base: v.Base, Func: fn, Args: args}

	case *ir.If:
		cond := f.run(v.Cond, depth+1)
		if lit, ok := cond.(*ir.Literal); ok {
			if b, ok := lit.Value.(bool); ok {
				f.changed = true
				f.pipeline.Stats.ConstantsFolded++
				if b {
					return f.run(v.Then, depth+1)
				}
				if v.Else != nil {
					return f.run(v.Else, depth+1)
				}
				return &ir.Literal{Base: ir.NewBase(v.ID(), ir.Nil(), v.Pos()), Value: nil}
			}
		}
		then := f.run(v.Then, depth+1)
		var els ir.Node
		if v.Else != nil {
			els = f.run(v.Else, depth+1)
		}
		return &ir.If{Base: v.Base, Cond: cond, Then: then, Else: els}

	case *ir.Let:
		bindings := make([]*ir.VariableBinding, len(v.Bindings))
		for i, b := range v.Bindings {
			bindings[i] = &ir.VariableBinding{Base: b.Base, Pattern: b.Pattern, Init: f.run(b.Init, depth+1)}
		}
		return &ir.Let{Base: v.Base, Bindings: bindings, Body: f.run(v.Body, depth+1)}

	case *ir.Do:
		exprs := make([]ir.Node, len(v.Exprs))
		for i, e := range v.Exprs {
			exprs[i] = f.run(e, depth+1)
		}
		return &ir.Do{Base: v.Base, Exprs: exprs}

	case *ir.Lambda:
		return &ir.Lambda{
			Base: v.Base, Params: v.Params, ParamNames: v.ParamNames,
			ParamPatterns: v.ParamPatterns, VariadicPattern: v.VariadicPattern,
			Variadic: v.Variadic, VariadicName: v.VariadicName,
			Body: f.run(v.Body, depth+1), Captures: v.Captures,
		}

	case *ir.Defn:
		lambda := f.run(v.Lambda, depth+1).(*ir.Lambda)
		return &ir.Defn{Base: v.Base, Name: v.Name, Lambda: lambda}

	case *ir.Def:
		return &ir.Def{Base: v.Base, Name: v.Name, Init: f.run(v.Init, depth+1)}

	case *ir.LogStep:
		values := make([]ir.Node, len(v.Values))
		for i, e := range v.Values {
			values[i] = f.run(e, depth+1)
		}
		return &ir.LogStep{Base: v.Base, Level: v.Level, Location: v.Location, Values: values}

	case *ir.VectorLit:
		elems := make([]ir.Node, len(v.Elements))
		for i, e := range v.Elements {
			elems[i] = f.run(e, depth+1)
		}
		return &ir.VectorLit{Base: v.Base, Elements: elems}

	case *ir.MapLit:
		entries := make([]ir.MapEntry, len(v.Entries))
		for i, e := range v.Entries {
			entries[i] = ir.MapEntry{Key: e.Key, Value: f.run(e.Value, depth+1)}
		}
		return &ir.MapLit{Base: v.Base, Entries: entries}

	case *ir.Match:
		scrutinee := f.run(v.Scrutinee, depth+1)
		clauses := make([]ir.MatchClause, len(v.Clauses))
		for i, cl := range v.Clauses {
			var guard ir.Node
			if cl.Guard != nil {
				guard = f.run(cl.Guard, depth+1)
			}
			clauses[i] = ir.MatchClause{Pattern: cl.Pattern, Guard: guard, Body: f.run(cl.Body, depth+1)}
		}
		return &ir.Match{Base: v.Base, Scrutinee: scrutinee, Clauses: clauses}

	case *ir.TryCatch:
		try := f.run(v.Try, depth+1)
		catches := make([]ir.CatchClause, len(v.Catches))
		for i, cc := range v.Catches {
			catches[i] = ir.CatchClause{Pattern: cc.Pattern, Name: cc.Name, BindingID: cc.BindingID, Body: f.run(cc.Body, depth+1)}
		}
		var fin ir.Node
		if v.Finally != nil {
			fin = f.run(v.Finally, depth+1)
		}
		return &ir.TryCatch{Base: v.Base, Try: try, Catches: catches, Finally: fin}

	case *ir.ResourceBinding:
		return &ir.ResourceBinding{Base: v.Base, Name: v.Name, BindingID: v.BindingID, Init: f.run(v.Init, depth+1), Body: f.run(v.Body, depth+1)}

	case *ir.Parallel:
		bindings := make([]ir.ParallelBinding, len(v.Bindings))
		for i, b := range v.Bindings {
			bindings[i] = ir.ParallelBinding{Name: b.Name, Expr: f.run(b.Expr, depth+1)}
		}
		return &ir.Parallel{Base: v.Base, Bindings: bindings}

	default:
		return n
	}
}

// foldApply returns a folded Literal when fn is a pure operator
// VariableRef and every arg is a Literal whose combination the operator
// table supports, or nil when it cannot fold.
func (f *constantFolder) foldApply(orig *ir.Apply, fn ir.Node, args []ir.Node) ir.Node {
	ref, ok := fn.(*ir.VariableRef)
	if !ok {
		return nil
	}
	lits := make([]interface{}, len(args))
	for i, a := range args {
		lit, ok := a.(*ir.Literal)
		if !ok {
			return nil
		}
		lits[i] = lit.Value
	}
	if len(lits) == 2 {
		if v, t, ok := foldBinary(ref.Name, lits[0], lits[1]); ok {
			return &ir.Literal{Base: ir.NewBase(orig.ID(), t, orig.Pos()), Value: v}
		}
	}
	if ref.Name == "not" && len(lits) == 1 {
		if b, ok := lits[0].(bool); ok {
			return &ir.Literal{Base: ir.NewBase(orig.ID(), ir.Bool(), orig.Pos()), Value: !b}
		}
	}
	return nil
}

// foldBinary implements the operator table from §4.4: +, -, *, /, % with
// numeric promotion; comparisons over Int/Float; string + and =/!=;
// boolean and/or/=/!=.
func foldBinary(op string, left, right interface{}) (interface{}, ir.Type, bool) {
	switch l := left.(type) {
	case int64:
		r, ok := right.(int64)
		if !ok {
			return nil, ir.Type{}, false
		}
		return foldInt(op, l, r)
	case float64:
		r, ok := toFloat(right)
		if !ok {
			return nil, ir.Type{}, false
		}
		return foldFloat(op, l, r)
	case string:
		r, ok := right.(string)
		if !ok {
			return nil, ir.Type{}, false
		}
		return foldString(op, l, r)
	case bool:
		r, ok := right.(bool)
		if !ok {
			return nil, ir.Type{}, false
		}
		return foldBool(op, l, r)
	default:
		return nil, ir.Type{}, false
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func foldInt(op string, a, b int64) (interface{}, ir.Type, bool) {
	switch op {
	case "+":
		return a + b, ir.Int(), true
	case "-":
		return a - b, ir.Int(), true
	case "*":
		return a * b, ir.Int(), true
	case "/":
		if b == 0 {
			return nil, ir.Type{}, false
		}
		return a / b, ir.Int(), true
	case "%":
		if b == 0 {
			return nil, ir.Type{}, false
		}
		return a % b, ir.Int(), true
	case "=":
		return a == b, ir.Bool(), true
	case "!=":
		return a != b, ir.Bool(), true
	case "<":
		return a < b, ir.Bool(), true
	case "<=":
		return a <= b, ir.Bool(), true
	case ">":
		return a > b, ir.Bool(), true
	case ">=":
		return a >= b, ir.Bool(), true
	default:
		return nil, ir.Type{}, false
	}
}

func foldFloat(op string, a, b float64) (interface{}, ir.Type, bool) {
	switch op {
	case "+":
		return a + b, ir.Float(), true
	case "-":
		return a - b, ir.Float(), true
	case "*":
		return a * b, ir.Float(), true
	case "/":
		if b == 0 {
			return nil, ir.Type{}, false
		}
		return a / b, ir.Float(), true
	case "=":
		return math.Abs(a-b) < floatEpsilon, ir.Bool(), true
	case "!=":
		return math.Abs(a-b) >= floatEpsilon, ir.Bool(), true
	case "<":
		return a < b, ir.Bool(), true
	case "<=":
		return a <= b, ir.Bool(), true
	case ">":
		return a > b, ir.Bool(), true
	case ">=":
		return a >= b, ir.Bool(), true
	default:
		return nil, ir.Type{}, false
	}
}

func foldString(op, a, b string) (interface{}, ir.Type, bool) {
	switch op {
	case "+":
		return a + b, ir.Str(), true
	case "=":
		return a == b, ir.Bool(), true
	case "!=":
		return a != b, ir.Bool(), true
	default:
		return nil, ir.Type{}, false
	}
}

func foldBool(op string, a, b bool) (interface{}, ir.Type, bool) {
	switch op {
	case "and":
		return a && b, ir.Bool(), true
	case "or":
		return a || b, ir.Bool(), true
	case "=":
		return a == b, ir.Bool(), true
	case "!=":
		return a != b, ir.Bool(), true
	default:
		return nil, ir.Type{}, false
	}
}
