package compiler

import (
	"strconv"

	"github.com/strager/fastruby/javaast"
	"github.com/strager/fastruby/rubyast"
)

// Names of the runtime library the generated code is written against.
const (
	ObjectClass = "RObject"
	StringClass = "RString"
	FixnumClass = "RFixnum"
	FloatClass  = "RFloat"
	ArrayClass  = "RArray"
	// NilName is the runtime's nil singleton.
	NilName = "RNil"
	// ToBooleanMethod converts any RObject to a Java boolean.
	ToBooleanMethod = "toBoolean"
)

// LowerLiteral boxes a literal node into its runtime wrapper. The second
// result is false if node is not a literal LowerLiteral understands.
// Non-empty arrays are not handled here because their elements need the
// full expression lowerer.
func LowerLiteral(ast *javaast.AST, node rubyast.Node) (javaast.Expression, bool) {
	switch n := node.(type) {
	case *rubyast.StrNode:
		lit := ast.NewStringLiteral()
		lit.LiteralValue = n.Value
		return construct(ast, StringClass, lit), true
	case *rubyast.FixnumNode:
		return construct(ast, FixnumClass, ast.NewNumberLiteral(strconv.FormatInt(n.Value, 10)+"L")), true
	case *rubyast.FloatNode:
		return construct(ast, FloatClass, ast.NewNumberLiteral(n.Text)), true
	case *rubyast.ZArrayNode:
		return construct(ast, ArrayClass), true
	case *rubyast.NilNode:
		return nilName(ast), true
	}
	return nil, false
}

// construct builds `new className(args...)`.
func construct(ast *javaast.AST, className string, args ...javaast.Expression) *javaast.ClassInstanceCreation {
	c := ast.NewClassInstanceCreation()
	c.Type = ast.NewSimpleType(ast.NewSimpleName(className))
	c.Arguments = append(c.Arguments, args...)
	return c
}

func objectType(ast *javaast.AST) *javaast.SimpleType {
	return ast.NewSimpleType(ast.NewSimpleName(ObjectClass))
}

func nilName(ast *javaast.AST) javaast.Name {
	return ast.NewSimpleName(NilName)
}
