package optimize

import "github.com/rtfs-lang/rtfs/internal/ir"

// pureBuiltins is the fixed list of builtin names whose application is
// classified pure for DCE and memoization purposes (§4.4, §4.5). It is
// exported as PureBuiltins so internal/irexec can share the exact same
// list for its node-cache memoization rule.
var pureBuiltins = map[string]bool{
	"+": true, "-": true, "*": true, "/": true,
	"=": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
	"and": true, "or": true, "not": true,
}

// PureBuiltins reports whether name is in the fixed pure-operator table
// shared by constant folding, dead code elimination, and IR-evaluator
// memoization.
func PureBuiltins(name string) bool { return pureBuiltins[name] }

// IsPure classifies a node as pure or not, per §4.4: Literal and
// VariableRef are always pure; Apply is pure iff its callee is a pure
// builtin name and every argument is pure; everything else is
// conservatively impure.
func IsPure(n ir.Node) bool {
	switch v := n.(type) {
	case *ir.Literal:
		return true
	case *ir.VariableRef:
		return true
	case *ir.Apply:
		ref, ok := v.Func.(*ir.VariableRef)
		if !ok || !PureBuiltins(ref.Name) {
			return false
		}
		for _, arg := range v.Args {
			if !IsPure(arg) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// hasSideEffects is DCE's complement check over already-optimized nodes:
// unknown calls, LogStep, TryCatch, WithResource, and resource-bearing
// forms are conservatively assumed to have side effects; Apply to a pure
// builtin defers to its arguments.
func hasSideEffects(n ir.Node) bool {
	switch v := n.(type) {
	case *ir.Literal, *ir.VariableRef, *ir.TaskContextAccess:
		return false
	case *ir.Apply:
		ref, ok := v.Func.(*ir.VariableRef)
		if ok && PureBuiltins(ref.Name) {
			for _, arg := range v.Args {
				if hasSideEffects(arg) {
					return true
				}
			}
			return false
		}
		return true
	default:
		return true
	}
}
