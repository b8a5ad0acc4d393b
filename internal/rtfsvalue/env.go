package rtfsvalue

import "github.com/rtfs-lang/rtfs/internal/ir"

// NameEnv is the name-keyed environment used by the AST evaluator and the
// stdlib (§4.1): Symbol -> Value with a parent link, shadowing permitted.
type NameEnv struct {
	values map[string]Value
	parent *NameEnv
}

// NewNameEnv creates a root environment.
func NewNameEnv() *NameEnv {
	return &NameEnv{values: make(map[string]Value)}
}

// WithParent creates a child scope of e.
func (e *NameEnv) WithParent() *NameEnv {
	return &NameEnv{values: make(map[string]Value), parent: e}
}

// Define inserts a binding into the current frame.
func (e *NameEnv) Define(name string, v Value) {
	e.values[name] = v
}

// Lookup walks the parent chain.
func (e *NameEnv) Lookup(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.values[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Update rebinds an existing name in the nearest frame that defines it;
// it reports false if the name is unbound anywhere in the chain.
func (e *NameEnv) Update(name string, v Value) bool {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values[name]; ok {
			env.values[name] = v
			return true
		}
	}
	return false
}

// AllBindings returns every binding visible from e, innermost scope
// winning on name collisions.
func (e *NameEnv) AllBindings() map[string]Value {
	out := make(map[string]Value)
	chain := []*NameEnv{}
	for env := e; env != nil; env = env.parent {
		chain = append(chain, env)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		for k, v := range chain[i].values {
			out[k] = v
		}
	}
	return out
}

// IdEnv is the id-keyed environment used by the IR evaluator (§4.1):
// NodeId -> Value with a parent link. Lookups are O(1) expected because
// symbols have been resolved to ids at conversion time.
type IdEnv struct {
	values map[ir.NodeId]Value
	parent *IdEnv
}

func NewIdEnv() *IdEnv {
	return &IdEnv{values: make(map[ir.NodeId]Value)}
}

func (e *IdEnv) WithParent() *IdEnv {
	return &IdEnv{values: make(map[ir.NodeId]Value), parent: e}
}

func (e *IdEnv) Define(id ir.NodeId, v Value) {
	e.values[id] = v
}

func (e *IdEnv) Lookup(id ir.NodeId) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.values[id]; ok {
			return v, true
		}
	}
	return nil, false
}

func (e *IdEnv) Update(id ir.NodeId, v Value) bool {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values[id]; ok {
			env.values[id] = v
			return true
		}
	}
	return false
}

// BindingCount returns the number of bindings visible to an importer
// generating fresh ids relative to this environment's own frame.
func (e *IdEnv) BindingCount() int { return len(e.values) }
