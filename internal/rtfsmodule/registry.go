// Package rtfsmodule implements the Module Registry & Loader (C8, §4.8):
// file resolution, compilation, cycle detection, export tables, and
// qualified-symbol resolution. Grounded on the teacher's
// internal/module/loader.go (chosen over the thinner
// internal/loader/loader.go — see DESIGN.md), adapted from AILANG's own
// import-path-and-lexer pipeline to RTFS's parse-inject/convert/irexec
// pipeline: the concrete lexer/parser producing an rtfsast.Program
// remains an external collaborator (§6.1), supplied to this package as a
// Parser.
package rtfsmodule

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rtfs-lang/rtfs/internal/convert"
	"github.com/rtfs-lang/rtfs/internal/ir"
	"github.com/rtfs-lang/rtfs/internal/irexec"
	"github.com/rtfs-lang/rtfs/internal/lexer"
	"github.com/rtfs-lang/rtfs/internal/optimize"
	"github.com/rtfs-lang/rtfs/internal/rtfserr"
	"github.com/rtfs-lang/rtfs/internal/rtfsast"
	"github.com/rtfs-lang/rtfs/internal/rtfsvalue"
)

// Parser is the minimal surface the loader needs from the concrete
// lexer/parser (§6.1): turn normalized source bytes into a Program. The
// grammar itself is out of this package's scope.
type Parser interface {
	Parse(source []byte, path string) (*rtfsast.Program, error)
}

// CompiledModule is the loader's result for one module file (§4.8's
// "CompiledModule" state entry): its export table (both evaluated
// values and the IR types the converter inferred for them) and the
// dependency edges recorded from its own imports.
type CompiledModule struct {
	Name         string
	FilePath     string
	Dependencies []string
	Exports      map[string]rtfsvalue.Value
	ExportTypes  map[string]ir.Type
	IRNode       *ir.ModuleNode
}

// Registry is the module system's process-wide state (§4.8): the
// modules/module_environments/module_paths/loading_stack quadruple,
// plus the shared Converter/Evaluator needed to actually compile and
// run a module's definitions. One Registry is shared by every IrRuntime
// in a process; modules are immutable once registered (§5).
type Registry struct {
	mu                 sync.RWMutex
	modules            map[string]*CompiledModule
	moduleEnvironments map[string]*rtfsvalue.IdEnv
	searchPaths        []string
	loadingStack       []string

	parser    Parser
	optLevel  optimize.Level
	evaluator *irexec.Evaluator

	cache *Cache // optional on-disk staleness cache; nil disables it
}

// New builds a Registry with no loaded modules. searchPaths are tried in
// order when resolving a dotted module name to a file, matching the
// teacher's AILANG_PATH-derived searchPaths convention.
func New(parser Parser, searchPaths []string, optLevel optimize.Level) *Registry {
	r := &Registry{
		modules:            make(map[string]*CompiledModule),
		moduleEnvironments: make(map[string]*rtfsvalue.IdEnv),
		searchPaths:        append([]string{}, searchPaths...),
		parser:             parser,
		optLevel:           optLevel,
	}
	r.evaluator = irexec.New().WithRegistry(r)
	return r
}

// WithCache attaches an on-disk staleness cache, returning r for
// chaining.
func (r *Registry) WithCache(c *Cache) *Registry {
	r.cache = c
	return r
}

// HasModule implements convert.ModuleRegistry: whether name is already
// registered. It does not trigger a load — the converter only uses this
// to recognize a qualified symbol's prefix as a module reference, not to
// force dependency resolution during conversion.
func (r *Registry) HasModule(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.modules[name]
	return ok
}

var _ convert.ModuleRegistry = (*Registry)(nil)
var _ irexec.ModuleRegistry = (*Registry)(nil)

// RegisterModule inserts an already-compiled module directly (§4.8's
// register_module), for host-provided modules that did not come from a
// file on a search path. It fails if the name is already registered —
// modules are immutable after registration (§5).
func (r *Registry) RegisterModule(m *CompiledModule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.modules[m.Name]; exists {
		return rtfserr.Module(fmt.Sprintf("module %q is already registered", m.Name))
	}
	r.modules[m.Name] = m
	return nil
}

func (r *Registry) getCached(name string) (*CompiledModule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.modules[name]
	return m, ok
}

func (r *Registry) cacheModule(m *CompiledModule, env *rtfsvalue.IdEnv) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules[m.Name] = m
	r.moduleEnvironments[m.Name] = env
}

func (r *Registry) pushLoading(name string) error {
	for _, n := range r.loadingStack {
		if n == name {
			cycle := append(append([]string{}, r.loadingStack...), name)
			return rtfserr.Module(fmt.Sprintf("circular module dependency: %s", strings.Join(cycle, " -> ")))
		}
	}
	r.loadingStack = append(r.loadingStack, name)
	return nil
}

func (r *Registry) popLoading() {
	if len(r.loadingStack) > 0 {
		r.loadingStack = r.loadingStack[:len(r.loadingStack)-1]
	}
}

// LoadModule loads and compiles a module by its dotted name (§4.8's
// load_module): cache check, cycle check, path resolution, parse,
// convert, evaluate, register.
func (r *Registry) LoadModule(name string) (*CompiledModule, error) {
	if m, ok := r.getCached(name); ok {
		return m, nil
	}
	if err := r.pushLoading(name); err != nil {
		return nil, err
	}
	defer r.popLoading()

	path, err := r.resolvePath(name)
	if err != nil {
		return nil, rtfserr.Module(fmt.Sprintf("module not found: %s (%v)", name, err))
	}
	return r.loadFromFile(name, path)
}

// LoadFile loads and compiles a module from an exact file path, deriving
// its identity from the file's own (module NAME ...) declaration rather
// than a search-path-relative name. Used by cmd/rtfs's `run`/`eval`
// subcommands given a file argument directly.
func (r *Registry) LoadFile(path string) (*CompiledModule, error) {
	return r.loadFromFile("", path)
}

func (r *Registry) loadFromFile(expectedName, path string) (*CompiledModule, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, rtfserr.Module(fmt.Sprintf("failed to read module file %s: %v", path, err))
	}
	source = lexer.Normalize(source)

	program, err := r.parser.Parse(source, path)
	if err != nil {
		return nil, rtfserr.New(rtfserr.MOD007, fmt.Sprintf("parse error loading %s: %v", path, err), nil)
	}

	modDef, err := singleModuleDefinition(program)
	if err != nil {
		return nil, err
	}
	if expectedName != "" && modDef.Name != expectedName {
		return nil, rtfserr.New(rtfserr.MOD001, fmt.Sprintf(
			"module %q at %s does not match expected name %q", modDef.Name, path, expectedName), nil)
	}

	for _, imp := range modDef.Imports {
		if _, err := r.LoadModule(imp.ModulePath); err != nil {
			return nil, err
		}
	}

	c := convert.New(r)
	irProg, err := c.ConvertProgram(program)
	if err != nil {
		return nil, err
	}
	modNode, err := singleModuleNode(irProg)
	if err != nil {
		return nil, err
	}

	optModNode := r.optimizeModule(modNode)

	compiled, env, err := r.evalModule(optModNode, path, depNames(modDef))
	if err != nil {
		return nil, err
	}

	r.cacheModule(compiled, env)
	if r.cache != nil {
		if cerr := r.cache.Record(compiled, path); cerr != nil {
			// Best-effort: the cache is a staleness aid, not the source
			// of truth, so a write failure never fails the load.
			_ = cerr
		}
	}
	return compiled, nil
}

func depNames(m *rtfsast.ModuleDefinition) []string {
	deps := make([]string, 0, len(m.Imports))
	for _, imp := range m.Imports {
		deps = append(deps, imp.ModulePath)
	}
	return deps
}

// evalModule runs a module's own Def/Defn definitions in a fresh
// module-local environment and collects the exported subset, per §4.8's
// compilation steps 3-4. ImportNode declarations carry no runtime
// action here — their dependency modules were already loaded above, and
// cross-module references are resolved at use time through
// ResolveQualifiedSymbol, not by splicing imported bindings into this
// module's own scope.
func (r *Registry) evalModule(m *ir.ModuleNode, path string, deps []string) (*CompiledModule, *rtfsvalue.IdEnv, error) {
	env := rtfsvalue.NewIdEnv()
	defNodes := make(map[string]ir.Node, len(m.Exports))
	for _, decl := range m.Definitions {
		switch n := decl.(type) {
		case *ir.Def:
			defNodes[n.Name] = n
		case *ir.Defn:
			defNodes[n.Name] = n
		}
	}

	// Evaluate in source order against the module's own env so later
	// definitions can reference earlier ones, and a Defn's self
	// reference (bound under its own NodeId during conversion)
	// resolves. ImportNode carries no runtime action here — its
	// dependency module was already loaded by loadFromFile.
	if _, err := r.evaluator.EvalDecls(m.Definitions, env); err != nil {
		return nil, nil, err
	}

	exports := make(map[string]rtfsvalue.Value, len(m.Exports))
	exportTypes := make(map[string]ir.Type, len(m.Exports))
	for _, name := range m.Exports {
		node, ok := defNodes[name]
		if !ok {
			return nil, nil, rtfserr.Module(fmt.Sprintf("module %q declares export %q with no matching definition", m.Name, name))
		}
		v, ok := env.Lookup(node.ID())
		if !ok {
			return nil, nil, rtfserr.Internal(fmt.Sprintf("export %q evaluated but not bound in module env", name))
		}
		exports[name] = v
		exportTypes[name] = node.Type()
	}

	return &CompiledModule{
		Name:         m.Name,
		FilePath:     path,
		Dependencies: deps,
		Exports:      exports,
		ExportTypes:  exportTypes,
		IRNode:       m,
	}, env, nil
}

func singleModuleDefinition(p *rtfsast.Program) (*rtfsast.ModuleDefinition, error) {
	var found *rtfsast.ModuleDefinition
	for _, form := range p.Forms {
		if m, ok := form.(*rtfsast.ModuleDefinition); ok {
			if found != nil {
				return nil, rtfserr.New(rtfserr.MOD006, "source file declares more than one module", nil)
			}
			found = m
		}
	}
	if found == nil {
		return nil, rtfserr.New(rtfserr.MOD006, "source file has no module definition", nil)
	}
	return found, nil
}

// optimizeModule runs the optimizer over each of a module's own
// Def/Defn definitions individually rather than over the ModuleNode as
// a whole: internal/optimize's passes have no case for ModuleNode or
// ImportNode (a module-level grouping the converter introduced, not a
// construct the optimizer's recursive descent was written to expect),
// so handing it the whole node would silently no-op every pass instead
// of folding/eliminating inside the definitions it actually contains.
func (r *Registry) optimizeModule(m *ir.ModuleNode) *ir.ModuleNode {
	pipeline := optimize.New(r.optLevel)
	defs := make([]ir.Node, len(m.Definitions))
	for i, decl := range m.Definitions {
		if _, ok := decl.(*ir.ImportNode); ok {
			defs[i] = decl
			continue
		}
		defs[i] = pipeline.Optimize(decl)
	}
	return &ir.ModuleNode{Base: m.Base, Name: m.Name, Definitions: defs, Exports: m.Exports}
}

func singleModuleNode(p *ir.Program) (*ir.ModuleNode, error) {
	for _, decl := range p.Decls {
		if m, ok := decl.(*ir.ModuleNode); ok {
			return m, nil
		}
	}
	return nil, rtfserr.Internal("converted program has no ModuleNode despite a single ModuleDefinition")
}

// resolvePath turns a dotted module name into a file path by replacing
// "." with the OS separator and appending ".rtfs" (§6.2), searching
// searchPaths in order.
func (r *Registry) resolvePath(name string) (string, error) {
	rel := strings.ReplaceAll(name, ".", string(filepath.Separator)) + ".rtfs"
	for _, base := range r.searchPaths {
		candidate := filepath.Join(base, rel)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return filepath.Abs(candidate)
		}
	}
	return "", fmt.Errorf("no .rtfs file for module %q under any of %v", name, r.searchPaths)
}
