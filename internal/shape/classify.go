package shape

import (
	"go/ast"
	"go/parser"
	"go/types"
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	// ErrNoType is returned when a field declares no type.
	ErrNoType = errors.New("field must have an explicit type")
	// ErrUnsupportedType is returned for types no representation can carry.
	ErrUnsupportedType = errors.New("unsupported field type")
)

// Canonical generic container names accepted alongside the built-in syntax.
const (
	optionalName = "Optional"
	sequenceName = "Sequence"
	setName      = "Set"
	mappingName  = "Mapping"
)

// Classify parses a Go type expression and returns its shape.
// Built-in syntax and the canonical generic names classify identically:
// "[]Qux" and "Sequence[Qux]" both yield Sequence(Qux).
func Classify(text string) (*Shape, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrNoType
	}

	expr, err := parser.ParseExpr(text)
	if err != nil {
		return nil, errors.Wrapf(ErrUnsupportedType, "parsing %q: %v", text, err)
	}

	return classifyExpr(expr)
}

func classifyExpr(expr ast.Expr) (*Shape, error) {
	switch e := expr.(type) {
	case *ast.ParenExpr:
		return classifyExpr(e.X)

	case *ast.StarExpr:
		inner, err := classifyExpr(e.X)
		if err != nil {
			return nil, err
		}

		return Optional(inner), nil

	case *ast.ArrayType:
		if e.Len != nil || isByte(e.Elt) {
			return Identifier(types.ExprString(e)), nil
		}

		elem, err := classifyExpr(e.Elt)
		if err != nil {
			return nil, err
		}

		return Sequence(elem), nil

	case *ast.MapType:
		key, err := classifyExpr(e.Key)
		if err != nil {
			return nil, err
		}

		if isEmptyStruct(e.Value) {
			return Set(key), nil
		}

		value, err := classifyExpr(e.Value)
		if err != nil {
			return nil, err
		}

		return Mapping(key, value), nil

	case *ast.IndexExpr:
		return classifyGeneric(e, e.X, []ast.Expr{e.Index})

	case *ast.IndexListExpr:
		return classifyGeneric(e, e.X, e.Indices)

	case *ast.FuncType, *ast.ChanType:
		return nil, errors.Wrapf(ErrUnsupportedType, "%s", types.ExprString(e))

	case *ast.InterfaceType:
		if e.Methods != nil && len(e.Methods.List) > 0 {
			return nil, errors.Wrapf(ErrUnsupportedType, "%s", types.ExprString(e))
		}

		return Identifier("any"), nil

	default:
		return Identifier(types.ExprString(expr)), nil
	}
}

// classifyGeneric handles Optional[T], Sequence[T], Set[T] and Mapping[K, V],
// optionally package-qualified. Any other instantiation is an identifier.
func classifyGeneric(whole, base ast.Expr, args []ast.Expr) (*Shape, error) {
	shapes := make([]*Shape, 0, len(args))

	for _, a := range args {
		s, err := classifyExpr(a)
		if err != nil {
			return nil, err
		}

		shapes = append(shapes, s)
	}

	switch name := genericName(base); {
	case name == optionalName && len(shapes) == 1:
		return Optional(shapes[0]), nil
	case name == sequenceName && len(shapes) == 1:
		return Sequence(shapes[0]), nil
	case name == setName && len(shapes) == 1:
		return Set(shapes[0]), nil
	case name == mappingName && len(shapes) == 2:
		return Mapping(shapes[0], shapes[1]), nil
	default:
		return Identifier(types.ExprString(whole)), nil
	}
}

func genericName(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.SelectorExpr:
		return e.Sel.Name
	default:
		return ""
	}
}

func isByte(expr ast.Expr) bool {
	id, ok := expr.(*ast.Ident)
	return ok && (id.Name == "byte" || id.Name == "uint8")
}

func isEmptyStruct(expr ast.Expr) bool {
	st, ok := expr.(*ast.StructType)
	return ok && (st.Fields == nil || len(st.Fields.List) == 0)
}
