package irexec

import (
	"github.com/rtfs-lang/rtfs/internal/ir"
	"github.com/rtfs-lang/rtfs/internal/rtfsvalue"
)

// evalLet opens a new child scope, evaluates each binding's Init in
// sequence (each visible to the ones after it), pattern-binds it by
// NodeId, then evaluates Body in that same scope. Unlike astexec's
// []Expr body, Let.Body here is already a single Do node folded by
// internal/convert, so no further sequencing helper is needed.
func (e *Evaluator) evalLet(l *ir.Let, env *rtfsvalue.IdEnv, f *frame) (rtfsvalue.Value, error) {
	scope := env.WithParent()
	for _, b := range l.Bindings {
		v, err := e.Eval(b.Init, scope, f)
		if err != nil {
			return nil, err
		}
		if err := bindPattern(b.Pattern, v, scope); err != nil {
			return nil, err
		}
	}
	return e.Eval(l.Body, scope, f)
}

// makeClosure constructs a UserFunction closing over env by reference —
// the same reference-not-clone rationale as astexec.makeClosure, required
// here too so a Defn's self-reference (bound under the Defn node's own id)
// is visible from within its own Body.
func makeClosure(name string, lambda *ir.Lambda, env *rtfsvalue.IdEnv) *rtfsvalue.UserFunction {
	uf := &rtfsvalue.UserFunction{
		Name:       name,
		ParamNames: lambda.ParamNames,
		Body:       lambda,
		Closure:    env,
	}
	if lambda.Variadic != 0 {
		uf.HasVariadic = true
		uf.VariadicName = lambda.VariadicName
	}
	return uf
}

// evalDefn constructs the function then immediately defines it under the
// Defn node's own id in env, so a self-recursive VariableRef inside the
// body (which resolves against that same id, per internal/convert's
// pre-registration in convertDefn) sees it via the shared closure env.
func (e *Evaluator) evalDefn(d *ir.Defn, env *rtfsvalue.IdEnv, f *frame) (rtfsvalue.Value, error) {
	uf := makeClosure(d.Name, d.Lambda, env)
	env.Define(d.ID(), uf)
	return uf, nil
}

// evalDef evaluates Init and binds it under the Def node's own id in env.
func (e *Evaluator) evalDef(d *ir.Def, env *rtfsvalue.IdEnv, f *frame) (rtfsvalue.Value, error) {
	v, err := e.Eval(d.Init, env, f)
	if err != nil {
		return nil, err
	}
	env.Define(d.ID(), v)
	return v, nil
}
