// Package convert implements the IR Converter (§4.3): a single walk over
// the surface AST producing the typed, resolved IR consumed by
// internal/optimize and internal/irexec. It mirrors the two-phase shape
// of the teacher's internal/elaborate package (desugar-then-normalize)
// but collapses to one pass since RTFS's surface grammar has no macro
// layer to desugar first.
package convert

import (
	"strings"

	"github.com/rtfs-lang/rtfs/internal/ir"
	"github.com/rtfs-lang/rtfs/internal/rtfsast"
	"github.com/rtfs-lang/rtfs/internal/rtfserr"
)

// BindingKind classifies a scope entry, per §4.3's BindingInfo.
type BindingKind int

const (
	KindVariable BindingKind = iota
	KindFunction
	KindParameter
	KindResource
)

// BindingInfo is one scope-stack entry.
type BindingInfo struct {
	Name      string
	BindingID ir.NodeId
	IrType    ir.Type
	Kind      BindingKind
	Depth     int // scope stack index it was defined at
}

// ModuleRegistry is the minimal surface the converter needs to recognize
// qualified symbols; internal/rtfsmodule satisfies it. Kept as a narrow
// interface so internal/convert does not import internal/rtfsmodule.
type ModuleRegistry interface {
	HasModule(name string) bool
}

type captureCtx struct {
	paramDepth int
	seen       map[string]bool
	captures   []ir.Capture
}

// Converter walks one AST and produces IR, per §4.3.
type Converter struct {
	nextID   ir.NodeId
	scopes   []map[string]*BindingInfo
	registry ModuleRegistry
	captures []*captureCtx // stack, top is innermost active lambda
}

// New returns a Converter with the builtin surface pre-registered into
// its global scope (see registerBuiltins), the same way the reference
// converter's own New calls add_builtin_functions before returning.
func New(registry ModuleRegistry) *Converter {
	c := &Converter{registry: registry}
	c.pushScope()
	c.registerBuiltins()
	return c
}

func (c *Converter) newID() ir.NodeId {
	c.nextID++
	return c.nextID
}

func (c *Converter) pushScope() {
	c.scopes = append(c.scopes, map[string]*BindingInfo{})
}

func (c *Converter) popScope() {
	c.scopes = c.scopes[:len(c.scopes)-1]
}

func (c *Converter) depth() int { return len(c.scopes) - 1 }

func (c *Converter) define(name string, id ir.NodeId, t ir.Type, kind BindingKind) *BindingInfo {
	info := &BindingInfo{Name: name, BindingID: id, IrType: t, Kind: kind, Depth: c.depth()}
	c.scopes[len(c.scopes)-1][name] = info
	return info
}

func (c *Converter) lookup(name string) (*BindingInfo, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if info, ok := c.scopes[i][name]; ok {
			return info, true
		}
	}
	return nil, false
}

// recordUse notes a resolved symbol against every active capture
// context, per §4.3's "simple free-variable walk": a reference resolving
// to a scope shallower than a lambda's own parameter scope is a capture
// of that lambda (and so of each enclosing lambda it is also free in),
// recorded in declaration order of first use, duplicates dropped.
func (c *Converter) recordUse(info *BindingInfo) {
	if len(c.captures) == 0 {
		return
	}
	// BindingID == 0 names (builtins, plus anything else resolved by
	// name rather than by id-env slot) have no per-binding id to
	// capture into, and are already reachable from inside any lambda
	// through the evaluator's own global fallback lookup.
	if info.BindingID == 0 {
		return
	}
	for _, ctx := range c.captures {
		if info.Depth >= ctx.paramDepth || ctx.seen[info.Name] {
			continue
		}
		ctx.seen[info.Name] = true
		ctx.captures = append(ctx.captures, ir.Capture{Name: info.Name, BindingID: info.BindingID, CapturedType: info.IrType})
	}
}

// Convert transforms one surface expression into an IR node.
func (c *Converter) Convert(e rtfsast.Expr) (ir.Node, error) {
	switch n := e.(type) {
	case *rtfsast.Literal:
		return c.convertLiteral(n)
	case *rtfsast.Symbol:
		return c.convertSymbol(n)
	case *rtfsast.List:
		return c.convertList(n)
	case *rtfsast.Vector:
		return c.convertVector(n)
	case *rtfsast.Map:
		return c.convertMap(n)
	case *rtfsast.FunctionCall:
		return c.convertFunctionCall(n)
	case *rtfsast.If:
		return c.convertIf(n)
	case *rtfsast.Let:
		return c.convertLet(n)
	case *rtfsast.Do:
		return c.convertDo(n)
	case *rtfsast.Fn:
		return c.convertFn(n)
	case *rtfsast.Defn:
		return c.convertDefn(n)
	case *rtfsast.Def:
		return c.convertDef(n)
	case *rtfsast.Match:
		return c.convertMatch(n)
	case *rtfsast.TryCatch:
		return c.convertTryCatch(n)
	case *rtfsast.WithResource:
		return c.convertWithResource(n)
	case *rtfsast.Parallel:
		return c.convertParallel(n)
	case *rtfsast.LogStep:
		return c.convertLogStep(n)
	default:
		return nil, rtfserr.New(rtfserr.CNV005, "unsupported AST node in converter", nil)
	}
}

func (c *Converter) convertLiteral(l *rtfsast.Literal) (ir.Node, error) {
	id := c.newID()
	return &ir.Literal{Base: ir.NewBase(id, literalType(l.Kind), l.Pos), Value: l.Value}, nil
}

func literalType(k rtfsast.LiteralKind) ir.Type {
	switch k {
	case rtfsast.NilLit:
		return ir.Nil()
	case rtfsast.BoolLit:
		return ir.Bool()
	case rtfsast.IntLit:
		return ir.Int()
	case rtfsast.FloatLit:
		return ir.Float()
	case rtfsast.StringLit:
		return ir.Str()
	case rtfsast.KeywordLit:
		return ir.Keyword()
	default:
		return ir.Any()
	}
}

func (c *Converter) convertSymbol(s *rtfsast.Symbol) (ir.Node, error) {
	id := c.newID()
	if strings.HasPrefix(s.Name, "@") {
		return &ir.TaskContextAccess{Base: ir.NewBase(id, ir.Any(), s.Pos), Field: strings.TrimPrefix(s.Name, "@")}, nil
	}
	if s.IsQualified() {
		return &ir.VariableRef{Base: ir.NewBase(id, ir.Any(), s.Pos), Name: s.Name, BindingID: 0}, nil
	}
	info, ok := c.lookup(s.Name)
	if !ok {
		return nil, rtfserr.New(rtfserr.CNV001, "undefined symbol: "+s.Name, map[string]interface{}{"name": s.Name})
	}
	c.recordUse(info)
	return &ir.VariableRef{Base: ir.NewBase(id, info.IrType, s.Pos), Name: s.Name, BindingID: info.BindingID}, nil
}

func (c *Converter) convertList(l *rtfsast.List) (ir.Node, error) {
	id := c.newID()
	if len(l.Elements) == 0 {
		return &ir.VectorLit{Base: ir.NewBase(id, ir.Vec(ir.Never()), l.Pos)}, nil
	}
	callee, err := c.Convert(l.Elements[0])
	if err != nil {
		return nil, err
	}
	args := make([]ir.Node, 0, len(l.Elements)-1)
	for _, a := range l.Elements[1:] {
		an, err := c.Convert(a)
		if err != nil {
			return nil, err
		}
		args = append(args, an)
	}
	return &ir.Apply{Base: ir.NewBase(id, applyReturnType(callee), l.Pos), Func: callee, Args: args}, nil
}

func (c *Converter) convertFunctionCall(f *rtfsast.FunctionCall) (ir.Node, error) {
	id := c.newID()
	callee, err := c.Convert(f.Callee)
	if err != nil {
		return nil, err
	}
	args := make([]ir.Node, 0, len(f.Args))
	for _, a := range f.Args {
		an, err := c.Convert(a)
		if err != nil {
			return nil, err
		}
		args = append(args, an)
	}
	return &ir.Apply{Base: ir.NewBase(id, applyReturnType(callee), f.Pos), Func: callee, Args: args}, nil
}

func applyReturnType(callee ir.Node) ir.Type {
	t := callee.Type()
	if t.Kind == ir.KindFunction && t.Return != nil {
		return *t.Return
	}
	return ir.Any()
}

func (c *Converter) convertVector(v *rtfsast.Vector) (ir.Node, error) {
	id := c.newID()
	elems := make([]ir.Node, 0, len(v.Elements))
	types := make([]ir.Type, 0, len(v.Elements))
	for _, e := range v.Elements {
		en, err := c.Convert(e)
		if err != nil {
			return nil, err
		}
		elems = append(elems, en)
		types = append(types, en.Type())
	}
	elemType := ir.Never()
	if len(types) > 0 {
		elemType = ir.Union(types...)
	}
	return &ir.VectorLit{Base: ir.NewBase(id, ir.Vec(elemType), v.Pos), Elements: elems}, nil
}

func (c *Converter) convertMap(m *rtfsast.Map) (ir.Node, error) {
	id := c.newID()
	entries := make([]ir.MapEntry, 0, len(m.Entries))
	entryTypes := make([]ir.MapEntryType, 0, len(m.Entries))
	for _, e := range m.Entries {
		keyLit, ok := e.Key.(*rtfsast.Literal)
		if !ok {
			return nil, rtfserr.New(rtfserr.CNV002, "map literal keys must be literal keywords, strings, or integers", nil)
		}
		vn, err := c.Convert(e.Value)
		if err != nil {
			return nil, err
		}
		entries = append(entries, ir.MapEntry{Key: keyLit.Value, Value: vn})
		entryTypes = append(entryTypes, ir.MapEntryType{Key: keyLit.Value, Value: vn.Type()})
	}
	return &ir.MapLit{Base: ir.NewBase(id, ir.MapOf(entryTypes, nil), m.Pos), Entries: entries}, nil
}

func (c *Converter) convertIf(i *rtfsast.If) (ir.Node, error) {
	id := c.newID()
	cond, err := c.Convert(i.Cond)
	if err != nil {
		return nil, err
	}
	then, err := c.Convert(i.Then)
	if err != nil {
		return nil, err
	}
	var els ir.Node
	resultType := ir.Union(then.Type(), ir.Nil())
	if i.Else != nil {
		els, err = c.Convert(i.Else)
		if err != nil {
			return nil, err
		}
		resultType = ir.Union(then.Type(), els.Type())
	}
	return &ir.If{Base: ir.NewBase(id, resultType, i.Pos), Cond: cond, Then: then, Else: els}, nil
}

func (c *Converter) convertDo(d *rtfsast.Do) (ir.Node, error) {
	id := c.newID()
	exprs, err := c.convertExprList(d.Exprs)
	if err != nil {
		return nil, err
	}
	t := ir.Nil()
	if len(exprs) > 0 {
		t = exprs[len(exprs)-1].Type()
	}
	return &ir.Do{Base: ir.NewBase(id, t, d.Pos), Exprs: exprs}, nil
}

func (c *Converter) convertExprList(exprs []rtfsast.Expr) ([]ir.Node, error) {
	out := make([]ir.Node, 0, len(exprs))
	for _, e := range exprs {
		n, err := c.Convert(e)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// bodyNode collapses a []Expr body into a single IR node, wrapping in a
// Do when there is more than one expression (Let/Fn/WithResource/catch
// bodies all share this shape).
func (c *Converter) bodyNode(exprs []rtfsast.Expr, pos rtfsast.Pos) (ir.Node, error) {
	if len(exprs) == 1 {
		return c.Convert(exprs[0])
	}
	id := c.newID()
	nodes, err := c.convertExprList(exprs)
	if err != nil {
		return nil, err
	}
	t := ir.Nil()
	if len(nodes) > 0 {
		t = nodes[len(nodes)-1].Type()
	}
	return &ir.Do{Base: ir.NewBase(id, t, pos), Exprs: nodes}, nil
}
