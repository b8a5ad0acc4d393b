// Package stdlib populates the base environment with the builtin
// surface described in §4.1: arithmetic, comparisons, logical, string,
// collection, predicates, and the tool surface. Each file in this package
// registers one category, mirroring how the teacher splits
// eval/builtins_*.go by concern. It is named separately from the
// teacher's own internal/builtins (its effect-typed builtin registry
// feeding internal/link and internal/pipeline), which is not part of this
// tree; this package is the only builtin surface.
package stdlib

import (
	"github.com/rtfs-lang/rtfs/internal/rtfsvalue"
)

// Register populates env with every builtin in the base environment,
// including the full tool surface.
func Register(env *rtfsvalue.NameEnv) {
	RegisterFiltered(env, nil)
}

// RegisterFiltered populates env the same way Register does, but
// restricts the installed `tool:*` builtins to those named in
// allowedTools (a nil or empty slice means no restriction — every
// tool is installed). Used by internal/config's tool-builtin
// allowlist to keep a host-restricted script from reaching
// tool:open-file/tool:http-fetch/etc. it wasn't granted.
func RegisterFiltered(env *rtfsvalue.NameEnv, allowedTools []string) {
	registerArithmetic(env)
	registerComparison(env)
	registerLogical(env)
	registerString(env)
	registerCollection(env)
	registerPredicates(env)

	var allow func(name string) bool
	if len(allowedTools) > 0 {
		set := make(map[string]bool, len(allowedTools))
		for _, name := range allowedTools {
			set[name] = true
		}
		allow = func(name string) bool { return set[name] }
	}
	registerTools(env, allow)
}

// def installs one builtin under `name` with the given arity and impl.
func def(env *rtfsvalue.NameEnv, name string, arity rtfsvalue.Arity, impl func([]rtfsvalue.Value) (rtfsvalue.Value, error)) {
	env.Define(name, &rtfsvalue.BuiltinFunction{Name: name, Arity: arity, Impl: impl})
}
