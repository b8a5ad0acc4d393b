package convert

import (
	"github.com/rtfs-lang/rtfs/internal/ir"
	"github.com/rtfs-lang/rtfs/internal/rtfsast"
	"github.com/rtfs-lang/rtfs/internal/rtfserr"
)

// ConvertProgram converts every top-level form of a parsed source file in
// order, producing a Program. TaskDefinition forms carry no IR
// counterpart in this core (the spec defines none) and are skipped.
func (c *Converter) ConvertProgram(p *rtfsast.Program) (*ir.Program, error) {
	prog := &ir.Program{}
	for _, form := range p.Forms {
		switch f := form.(type) {
		case *rtfsast.ModuleDefinition:
			mod, err := c.convertModule(f)
			if err != nil {
				return nil, err
			}
			prog.Decls = append(prog.Decls, mod)
		case *rtfsast.TaskDefinition:
			continue
		default:
			expr, ok := form.(rtfsast.Expr)
			if !ok {
				return nil, rtfserr.New(rtfserr.CNV005, "unsupported top-level form", nil)
			}
			node, err := c.Convert(expr)
			if err != nil {
				return nil, err
			}
			prog.Decls = append(prog.Decls, node)
		}
	}
	return prog, nil
}

// convertModule compiles one ModuleDefinition per §4.8's compilation
// steps 1-3: walk definitions in order, converting Def/Defn to IR, and
// collect the exported subset.
//
// Open question resolved: when the module carries no explicit export
// list (HasExports == false), every top-level Def/Defn is exported —
// the common "public unless declared otherwise" default also used by
// the teacher's own module system.
func (c *Converter) convertModule(m *rtfsast.ModuleDefinition) (*ir.ModuleNode, error) {
	id := c.newID()

	imports := make([]*ir.ImportNode, 0, len(m.Imports))
	for _, imp := range m.Imports {
		iid := c.newID()
		imports = append(imports, &ir.ImportNode{
			Base:       ir.NewBase(iid, ir.Nil(), m.Pos),
			ModulePath: imp.ModulePath,
			Alias:      imp.Alias,
			Symbols:    imp.Symbols,
			ReferAll:   imp.ReferAll,
		})
	}

	var defs []ir.Node
	var definedNames []string
	for _, d := range m.Definitions {
		node, err := c.Convert(d)
		if err != nil {
			return nil, err
		}
		defs = append(defs, node)
		switch n := node.(type) {
		case *ir.Def:
			definedNames = append(definedNames, n.Name)
		case *ir.Defn:
			definedNames = append(definedNames, n.Name)
		}
	}

	exports := m.Exports
	if !m.HasExports {
		exports = definedNames
	}

	allDecls := make([]ir.Node, 0, len(imports)+len(defs))
	for _, imp := range imports {
		allDecls = append(allDecls, imp)
	}
	allDecls = append(allDecls, defs...)

	return &ir.ModuleNode{
		Base:        ir.NewBase(id, ir.Nil(), m.Pos),
		Name:        m.Name,
		Definitions: allDecls,
		Exports:     exports,
	}, nil
}
