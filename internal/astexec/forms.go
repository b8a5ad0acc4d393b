package astexec

import (
	"github.com/rtfs-lang/rtfs/internal/rtfsast"
	"github.com/rtfs-lang/rtfs/internal/rtfsvalue"
)

// evalLet opens a new child scope, evaluates each binding's init in
// sequence (each visible to the ones after it), pattern-binds it, then
// evaluates the body as a Do in that same scope (§4.2).
func (e *Evaluator) evalLet(l *rtfsast.Let, env *rtfsvalue.NameEnv) (rtfsvalue.Value, error) {
	scope := env.WithParent()
	for _, b := range l.Bindings {
		v, err := e.Eval(b.Init, scope)
		if err != nil {
			return nil, err
		}
		if err := bindPattern(b.Pattern, v, scope); err != nil {
			return nil, err
		}
	}
	return e.evalSeq(l.Body, scope)
}

// evalFn constructs a UserFunction closing over env by reference: the
// *rtfsvalue.NameEnv pointer is shared, not cloned, which is required for
// recursive Defn bindings defined after closure-capture to resolve (the
// reference implementation clones its environment by value; the Go port
// deliberately diverges since a value clone here would make
// self-recursive functions unable to see their own name).
func (e *Evaluator) evalFn(fn *rtfsast.Fn, env *rtfsvalue.NameEnv) (rtfsvalue.Value, error) {
	return makeClosure("", fn, env), nil
}

func makeClosure(name string, fn *rtfsast.Fn, env *rtfsvalue.NameEnv) *rtfsvalue.UserFunction {
	paramNames := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		paramNames[i] = p.Pattern.String()
	}
	uf := &rtfsvalue.UserFunction{
		Name:       name,
		ParamNames: paramNames,
		Body:       fn,
		Closure:    env,
	}
	if fn.Variadic != nil {
		uf.HasVariadic = true
		uf.VariadicName = fn.Variadic.Pattern.String()
	}
	return uf
}

// evalDefn constructs the function then immediately defines it under its
// own name in env, so a self-recursive call inside the body resolves via
// the shared (by-reference) closure env.
func (e *Evaluator) evalDefn(d *rtfsast.Defn, env *rtfsvalue.NameEnv) (rtfsvalue.Value, error) {
	uf := makeClosure(d.Name, d.Fn, env)
	env.Define(d.Name, uf)
	return uf, nil
}

// evalDef evaluates the init expression and binds it under name in env.
func (e *Evaluator) evalDef(d *rtfsast.Def, env *rtfsvalue.NameEnv) (rtfsvalue.Value, error) {
	v, err := e.Eval(d.Init, env)
	if err != nil {
		return nil, err
	}
	env.Define(d.Name, v)
	return v, nil
}
