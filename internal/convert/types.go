package convert

import (
	"github.com/rtfs-lang/rtfs/internal/ir"
	"github.com/rtfs-lang/rtfs/internal/rtfsast"
	"github.com/rtfs-lang/rtfs/internal/rtfserr"
)

// resolveTypeExpr maps a surface TypeExpr to an ir.Type. Only the shapes
// the language's built-in type vocabulary needs are recognized; anything
// else becomes a TypeRef for the (future) type checker to resolve.
func resolveTypeExpr(t rtfsast.TypeExpr) (ir.Type, error) {
	if t.IsZero() {
		return ir.Any(), nil
	}
	switch t.Name {
	case "Any":
		return ir.Any(), nil
	case "Never":
		return ir.Never(), nil
	case "Nil":
		return ir.Nil(), nil
	case "Int":
		return ir.Int(), nil
	case "Float":
		return ir.Float(), nil
	case "Bool":
		return ir.Bool(), nil
	case "String":
		return ir.Str(), nil
	case "Keyword":
		return ir.Keyword(), nil
	case "Symbol":
		return ir.Symbol(), nil
	case "Vector":
		if len(t.Args) != 1 {
			return ir.Type{}, rtfserr.New(rtfserr.CNV004, "Vector requires exactly one type argument", nil)
		}
		elem, err := resolveTypeExpr(t.Args[0])
		if err != nil {
			return ir.Type{}, err
		}
		return ir.Vec(elem), nil
	default:
		return ir.TypeRef(t.Name), nil
	}
}
