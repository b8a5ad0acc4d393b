package convert

import "github.com/rtfs-lang/rtfs/internal/ir"

// builtinFunc is one entry in the builtin surface pre-registered into
// the converter's global scope, named-after the reference converter's
// add_builtin_functions (original_source/rtfs_compiler/src/ir_converter.rs):
// without this, every ordinary call to a builtin operator or function
// fails conversion with an undefined-symbol error, since convertSymbol
// has nothing else to resolve a bare, unqualified name against.
type builtinFunc struct {
	name string
	typ  ir.Type
}

func intBinop(variadic bool) ir.Type {
	var v *ir.Type
	if variadic {
		t := ir.Int()
		v = &t
	}
	return ir.Func([]ir.Type{ir.Int(), ir.Int()}, v, ir.Int())
}

func anyCompare() ir.Type {
	return ir.Func([]ir.Type{ir.Any(), ir.Any()}, nil, ir.Bool())
}

// builtinSurface lists every name internal/stdlib registers into the
// base environment. Kept in sync with internal/stdlib's def/tooldef
// call sites by hand, the same way the reference converter's own
// builtin table is a hand-maintained literal rather than derived from
// the runtime's builtin registry.
var builtinSurface = []builtinFunc{
	// arithmetic
	{"+", intBinop(true)},
	{"-", intBinop(false)},
	{"*", intBinop(true)},
	{"/", intBinop(false)},
	{"%", intBinop(false)},

	// comparison
	{"=", anyCompare()},
	{"!=", anyCompare()},
	{"<", anyCompare()},
	{"<=", anyCompare()},
	{">", anyCompare()},
	{">=", anyCompare()},

	// logical
	{"and", ir.Any()},
	{"or", ir.Any()},
	{"not", ir.Func([]ir.Type{ir.Any()}, nil, ir.Bool())},

	// string
	{"str", ir.Any()},
	{"string-length", ir.Func([]ir.Type{ir.Str()}, nil, ir.Int())},
	{"substring", ir.Any()},

	// collection
	{"vector", ir.Any()},
	{"map", ir.Any()},
	{"get", ir.Any()},
	{"assoc", ir.Any()},
	{"dissoc", ir.Any()},
	{"count", ir.Func([]ir.Type{ir.Any()}, nil, ir.Int())},
	{"conj", ir.Any()},
	{"map-fn", ir.Any()},

	// predicates
	{"int?", ir.Func([]ir.Type{ir.Any()}, nil, ir.Bool())},
	{"float?", ir.Func([]ir.Type{ir.Any()}, nil, ir.Bool())},
	{"number?", ir.Func([]ir.Type{ir.Any()}, nil, ir.Bool())},
	{"string?", ir.Func([]ir.Type{ir.Any()}, nil, ir.Bool())},
	{"bool?", ir.Func([]ir.Type{ir.Any()}, nil, ir.Bool())},
	{"nil?", ir.Func([]ir.Type{ir.Any()}, nil, ir.Bool())},
	{"map?", ir.Func([]ir.Type{ir.Any()}, nil, ir.Bool())},
	{"vector?", ir.Func([]ir.Type{ir.Any()}, nil, ir.Bool())},
	{"keyword?", ir.Func([]ir.Type{ir.Any()}, nil, ir.Bool())},
	{"symbol?", ir.Func([]ir.Type{ir.Any()}, nil, ir.Bool())},
	{"fn?", ir.Func([]ir.Type{ir.Any()}, nil, ir.Bool())},

	// tools
	{"tool:log", ir.Any()},
	{"tool:print", ir.Any()},
	{"tool:current-time", ir.Any()},
	{"tool:parse-json", ir.Any()},
	{"tool:serialize-json", ir.Any()},
	{"tool:open-file", ir.Any()},
	{"tool:read-line", ir.Any()},
	{"tool:write-line", ir.Any()},
	{"tool:close-file", ir.Any()},
	{"tool:get-env", ir.Any()},
	{"tool:http-fetch", ir.Any()},
}

// registerBuiltins seeds the global (depth 0) scope with a BindingID==0
// entry per builtin, matching internal/irexec's evalVariableRef
// contract: BindingID == 0 on a non-qualified VariableRef resolves
// through the name-keyed base environment, which is where
// internal/stdlib installs the very names listed above. BindingID 0
// is shared across every entry here (there is no per-builtin id-env
// slot to capture into), so recordUse must never treat one of these
// as a lambda capture — see its BindingID == 0 guard.
func (c *Converter) registerBuiltins() {
	for _, b := range builtinSurface {
		c.define(b.name, 0, b.typ, KindFunction)
	}
}
