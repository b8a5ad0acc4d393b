package cmd

import (
	"github.com/rtfs-lang/rtfs/internal/convert"
	"github.com/rtfs-lang/rtfs/internal/ir"
	"github.com/rtfs-lang/rtfs/internal/irexec"
	"github.com/rtfs-lang/rtfs/internal/lexer"
	"github.com/rtfs-lang/rtfs/internal/optimize"
	"github.com/rtfs-lang/rtfs/internal/rtfserr"
	"github.com/rtfs-lang/rtfs/internal/rtfsast"
	"github.com/rtfs-lang/rtfs/internal/rtfsmodule"
	"github.com/rtfs-lang/rtfs/internal/rtfsvalue"
	"github.com/rtfs-lang/rtfs/internal/stdlib"
)

// SourceParser is the CLI's injection point for the concrete
// S-expression lexer/parser. §6 of the spec keeps the grammar an
// external collaborator: internal/rtfsast describes the tree a parser
// must produce, but no parser ships in this module. A host embedding
// rtfs links one in here (e.g. from an init() in a sibling package);
// until one is linked, run/eval/repl report a clear error rather than
// silently doing nothing.
var SourceParser rtfsmodule.Parser

func requireParser() (rtfsmodule.Parser, error) {
	if SourceParser == nil {
		return nil, rtfserr.Internal("no source parser is linked into this build; cmd/rtfs.SourceParser must be set to a concrete rtfsast parser")
	}
	return SourceParser, nil
}

// newRegistry builds the module registry shared by run/eval/repl,
// wired to cfg's search paths and optimizer level per §4.8.
func newRegistry() (*rtfsmodule.Registry, error) {
	parser, err := requireParser()
	if err != nil {
		return nil, err
	}
	return rtfsmodule.New(parser, cfg.ModulePaths, cfg.OptimizeLevel()), nil
}

// newEvaluator builds an irexec.Evaluator wired to registry so
// qualified symbol references (`mod/sym`) resolve through
// rtfsmodule.ResolveQualifiedSymbol per §4.8, and registers the
// tool-allowlist-filtered stdlib builtins per §4.1.
func newEvaluator(registry *rtfsmodule.Registry) *irexec.Evaluator {
	e := irexec.New().WithRegistry(registry)
	if len(cfg.ToolAllowlist) > 0 {
		// Rebuild the name-global environment under the configured
		// tool_allowlist rather than the unrestricted default stdlib
		// installs, per §3's configuration ambient concern.
		e.NameGlobal = rtfsvalue.NewNameEnv()
		stdlib.RegisterFiltered(e.NameGlobal, cfg.ToolAllowlist)
	}
	return e
}

// convertAndOptimize runs a parsed Program through the converter and
// optimizer (§4.3/§4.4), per-declaration exactly the way
// internal/rtfsmodule.optimizeModule does, so a `run` on a module file
// behaves identically to `load_module` loading it as a dependency.
func convertAndOptimize(prog *rtfsast.Program, registry *rtfsmodule.Registry, level optimize.Level) (*ir.Program, error) {
	converted, err := convert.New(registry).ConvertProgram(prog)
	if err != nil {
		return nil, err
	}
	pipeline := optimize.New(level)
	decls := make([]ir.Node, len(converted.Decls))
	for i, decl := range converted.Decls {
		switch d := decl.(type) {
		case *ir.ImportNode:
			decls[i] = d
		case *ir.ModuleNode:
			// optimize.Pipeline has no *ir.ModuleNode case (only
			// *ir.Def/*ir.Defn are handled), so a whole-node call
			// would silently no-op; optimize each definition instead,
			// matching internal/rtfsmodule.optimizeModule exactly.
			defs := make([]ir.Node, len(d.Definitions))
			for j, inner := range d.Definitions {
				if _, isImport := inner.(*ir.ImportNode); isImport {
					defs[j] = inner
					continue
				}
				defs[j] = pipeline.Optimize(inner)
			}
			decls[i] = &ir.ModuleNode{Base: d.Base, Name: d.Name, Definitions: defs, Exports: d.Exports}
		default:
			decls[i] = pipeline.Optimize(decl)
		}
	}
	return &ir.Program{Decls: decls}, nil
}

// parseSource normalizes src (BOM-strip + NFC, per §3's Unicode
// normalization ambient concern) and hands it to the linked parser.
func parseSource(parser rtfsmodule.Parser, src []byte, path string) (*rtfsast.Program, error) {
	return parser.Parse(lexer.Normalize(src), path)
}
