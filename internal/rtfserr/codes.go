// Package rtfserr defines the structured error taxonomy shared across the
// compiler and runtime (§7 of the specification). Every error raised by
// the core carries a stable code, a phase, a category, and a keyword
// "kind" usable from TryCatch clauses.
package rtfserr

// Code identifies one error condition. Codes are grouped by phase:
// CNV (converter), OPT (optimizer), EVA (evaluator), MOD (module system),
// RT (shared runtime taxonomy addressable from RTFS source via keyword).
type Code string

const (
	CNV001 Code = "CNV001" // undefined symbol
	CNV002 Code = "CNV002" // type mismatch
	CNV003 Code = "CNV003" // invalid pattern
	CNV004 Code = "CNV004" // invalid type annotation
	CNV005 Code = "CNV005" // internal error

	OPT001 Code = "OPT001" // optimizer recursion depth exceeded
	OPT002 Code = "OPT002" // optimizer iteration cap reached without fixed point

	MOD001 Code = "MOD001" // module not found
	MOD002 Code = "MOD002" // circular module dependency
	MOD003 Code = "MOD003" // duplicate export
	MOD004 Code = "MOD004" // import references a non-existent export
	MOD005 Code = "MOD005" // invalid import specification
	MOD006 Code = "MOD006" // missing module definition in file
	MOD007 Code = "MOD007" // parse error while loading module

	RT001 Code = "RT001" // arity mismatch
	RT002 Code = "RT002" // type error at a specific operation
	RT003 Code = "RT003" // undefined symbol at runtime
	RT004 Code = "RT004" // division or modulo by zero
	RT005 Code = "RT005" // index out of bounds
	RT006 Code = "RT006" // no match clause matched
	RT007 Code = "RT007" // resource misuse (released handle, failed acquisition)
	RT008 Code = "RT008" // invalid argument
	RT009 Code = "RT009" // invalid program
	RT010 Code = "RT010" // callee is not callable
	RT011 Code = "RT011" // not implemented
	RT012 Code = "RT012" // network failure surfaced by a tool builtin
	RT013 Code = "RT013" // environment variable not found
	RT014 Code = "RT014" // JSON encode/decode failure
	RT015 Code = "RT015" // internal invariant violation
)

// Kind is the keyword tag carried on every Error value and matched by
// TryCatch catch clauses (§7's taxonomy).
type Kind string

const (
	KindArity            Kind = "error/arity"
	KindType              Kind = "error/type"
	KindUndefinedSymbol   Kind = "error/undefined-symbol"
	KindDivisionByZero    Kind = "error/division-by-zero"
	KindIndexOutOfBounds  Kind = "error/index-out-of-bounds"
	KindMatch             Kind = "error/match"
	KindResource          Kind = "error/resource"
	KindModule            Kind = "error/module"
	KindInvalidArgument   Kind = "error/invalid-argument"
	KindInvalidProgram    Kind = "error/invalid-program"
	KindNotCallable       Kind = "error/not-callable"
	KindNotImplemented    Kind = "error/not-implemented"
	KindNetwork           Kind = "error/network"
	KindEnvNotFound       Kind = "error/env-not-found"
	KindJSON              Kind = "error/json"
	KindInternal          Kind = "error/internal"
)

// Info is registry metadata about one code.
type Info struct {
	Code     Code
	Phase    string
	Category string
	Kind     Kind
	Message  string
}

// Registry maps every Code to its Info, mirroring the teacher's
// errors.ErrorRegistry pattern.
var Registry = map[Code]Info{
	CNV001: {CNV001, "convert", "scope", KindUndefinedSymbol, "Undefined symbol"},
	CNV002: {CNV002, "convert", "type", KindType, "Type mismatch"},
	CNV003: {CNV003, "convert", "pattern", KindInvalidArgument, "Invalid pattern"},
	CNV004: {CNV004, "convert", "type", KindType, "Invalid type annotation"},
	CNV005: {CNV005, "convert", "internal", KindInternal, "Internal converter error"},

	OPT001: {OPT001, "optimize", "safety", KindInternal, "Recursion depth bound exceeded"},
	OPT002: {OPT002, "optimize", "safety", KindInternal, "Iteration cap reached"},

	MOD001: {MOD001, "module", "resolution", KindModule, "Module not found"},
	MOD002: {MOD002, "module", "dependency", KindModule, "Circular dependency"},
	MOD003: {MOD003, "module", "namespace", KindModule, "Duplicate export"},
	MOD004: {MOD004, "module", "resolution", KindModule, "Import not exported"},
	MOD005: {MOD005, "module", "syntax", KindModule, "Invalid import specification"},
	MOD006: {MOD006, "module", "structure", KindModule, "Missing module definition"},
	MOD007: {MOD007, "module", "syntax", KindModule, "Parse error while loading module"},

	RT001: {RT001, "eval", "arity", KindArity, "Arity mismatch"},
	RT002: {RT002, "eval", "type", KindType, "Type mismatch"},
	RT003: {RT003, "eval", "scope", KindUndefinedSymbol, "Undefined symbol"},
	RT004: {RT004, "eval", "arithmetic", KindDivisionByZero, "Division by zero"},
	RT005: {RT005, "eval", "bounds", KindIndexOutOfBounds, "Index out of bounds"},
	RT006: {RT006, "eval", "pattern", KindMatch, "No match clause matched"},
	RT007: {RT007, "eval", "resource", KindResource, "Resource misuse"},
	RT008: {RT008, "eval", "argument", KindInvalidArgument, "Invalid argument"},
	RT009: {RT009, "eval", "program", KindInvalidProgram, "Invalid program"},
	RT010: {RT010, "eval", "call", KindNotCallable, "Not callable"},
	RT011: {RT011, "eval", "support", KindNotImplemented, "Not implemented"},
	RT012: {RT012, "eval", "tool", KindNetwork, "Network failure"},
	RT013: {RT013, "eval", "tool", KindEnvNotFound, "Environment variable not found"},
	RT014: {RT014, "eval", "tool", KindJSON, "JSON failure"},
	RT015: {RT015, "eval", "internal", KindInternal, "Internal invariant violation"},
}

// Lookup returns the registry Info for a Code.
func Lookup(c Code) (Info, bool) {
	info, ok := Registry[c]
	return info, ok
}
