package compiler

import (
	"fmt"

	"github.com/strager/fastruby/javaast"
)

// DispatchClass declares one fallback method per called method name.
const DispatchClass = "RMethods"

// DispatchUnit builds the RMethods class from a registry: for every
// recorded name, in sorted order,
//
//	public RObject name(RObject arg0, ...) { return RNil; }
//
// with the recorded arity. Runtime classes override the methods they
// implement. Constructor calls are recorded as "new" and get no method.
// Neither do implicit-self calls whose names are not Java identifiers, such
// as block_given?.
func DispatchUnit(opts Options, methods *Registry) *Unit {
	unit := newUnit(opts, DispatchClass)
	ast := unit.AST

	decl := ast.NewTypeDeclaration()
	decl.Modifiers = ast.NewModifiers(javaast.PublicKeyword, javaast.AbstractKeyword)
	decl.Name = ast.NewSimpleName(DispatchClass)
	unit.Root.Types = append(unit.Root.Types, decl)

	for _, name := range methods.Names() {
		if name == "new" || !IsIdentifier(name) {
			continue
		}
		arity, _ := methods.Arity(name)

		method := ast.NewMethodDeclaration()
		method.Modifiers = ast.NewModifiers(javaast.PublicKeyword)
		method.ReturnType = objectType(ast)
		method.Name = ast.NewSimpleName(name)
		for i := range arity {
			param := ast.NewSingleVariableDeclaration()
			param.Type = objectType(ast)
			param.Name = ast.NewSimpleName(fmt.Sprintf("arg%d", i))
			method.Parameters = append(method.Parameters, param)
		}
		ret := ast.NewReturnStatement()
		ret.Expression = nilName(ast)
		method.Body = ast.NewBlock()
		method.Body.Statements = append(method.Body.Statements, ret)

		decl.BodyDeclarations = append(decl.BodyDeclarations, method)
	}
	return unit
}
