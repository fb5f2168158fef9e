package javaast

import (
	"fmt"

	"github.com/strager/fastruby/sexy"
)

// ToSexy converts a node into its S-expression form. Absent optional
// children appear as the symbol _; a nil node converts to the symbol void.
//
//	(name "x")  (qname (name "A") "B")  (this)  (string "s")  (number "1L")
//	(new "Type" args...)  (invoke recv-or-_ "name" args...)  (assign lhs rhs)
//	(var "Type" "x" init-or-_)  (expr e)  (if cond then else)  (block s...)
//	(return e-or-_)  (field [mods] "Type" "x" init)
//	(method [mods] "Type" "name" [params] body)  (class [mods] "Name" "Super" members...)
//	(unit "package" (import "a.b" on-demand)... types...)
func ToSexy(node Node) *sexy.Node {
	if node == nil {
		return sexy.NewSymbol("void")
	}
	switch n := node.(type) {
	case *SimpleName:
		return list("name", str(n.Identifier))
	case *QualifiedName:
		return list("qname", ToSexy(n.Qualifier), str(n.Name.Identifier))
	case *ThisExpression:
		return list("this")
	case *StringLiteral:
		return list("string", str(n.LiteralValue))
	case *NumberLiteral:
		return list("number", str(n.Token))
	case *ClassInstanceCreation:
		return list("new", append([]*sexy.Node{typeName(n.Type)}, exprs(n.Arguments)...)...)
	case *MethodInvocation:
		items := []*sexy.Node{optional(n.Expression), str(n.Name.Identifier)}
		return list("invoke", append(items, exprs(n.Arguments)...)...)
	case *Assignment:
		return list("assign", ToSexy(n.LeftHandSide), ToSexy(n.RightHandSide))
	case *VariableDeclarationStatement:
		// One (var ...) per fragment keeps the common single-fragment
		// case flat.
		if len(n.Fragments) == 1 {
			return varForm("var", n.Type, n.Fragments[0])
		}
		items := make([]*sexy.Node, len(n.Fragments))
		for i, f := range n.Fragments {
			items[i] = varForm("var", n.Type, f)
		}
		return list("vars", items...)
	case *ExpressionStatement:
		return list("expr", ToSexy(n.Expression))
	case *IfStatement:
		return list("if", ToSexy(n.Expression), optional(n.Then), optional(n.Else))
	case *Block:
		items := make([]*sexy.Node, len(n.Statements))
		for i, s := range n.Statements {
			items[i] = ToSexy(s)
		}
		return list("block", items...)
	case *ReturnStatement:
		return list("return", optional(n.Expression))
	case *FieldDeclaration:
		f := n.Fragments[0]
		return list("field", modifiers(n.Modifiers), typeName(n.Type), str(f.Name.Identifier), optional(f.Initializer))
	case *MethodDeclaration:
		params := make([]*sexy.Node, len(n.Parameters))
		for i, param := range n.Parameters {
			params[i] = str(param.Name.Identifier)
		}
		return list("method", modifiers(n.Modifiers), typeName(n.ReturnType), str(n.Name.Identifier), sexy.NewArray(params...), optional(n.Body))
	case *TypeDeclaration:
		items := []*sexy.Node{modifiers(n.Modifiers), str(n.Name.Identifier), optional(n.SuperclassType)}
		for _, decl := range n.BodyDeclarations {
			items = append(items, ToSexy(decl))
		}
		return list("class", items...)
	case *CompilationUnit:
		pkg := sexy.NewSymbol("_")
		if n.Package != nil {
			pkg = str(n.Package.FullyQualifiedName())
		}
		items := []*sexy.Node{pkg}
		for _, imp := range n.Imports {
			onDemand := sexy.NewSymbol("false")
			if imp.OnDemand {
				onDemand = sexy.NewSymbol("true")
			}
			items = append(items, list("import", str(imp.Name.FullyQualifiedName()), onDemand))
		}
		for _, t := range n.Types {
			items = append(items, ToSexy(t))
		}
		return list("unit", items...)
	case Type:
		return typeName(n)
	}
	panic(fmt.Sprintf("javaast: no S-expression form for %T", node))
}

func list(head string, items ...*sexy.Node) *sexy.Node {
	return sexy.NewList(append([]*sexy.Node{sexy.NewSymbol(head)}, items...)...)
}

func str(s string) *sexy.Node {
	return sexy.NewString(s)
}

// optional converts n, using _ for an absent child. Typed nils count as
// absent.
func optional(n Node) *sexy.Node {
	switch v := n.(type) {
	case nil:
		return sexy.NewSymbol("_")
	case *Block:
		if v == nil {
			return sexy.NewSymbol("_")
		}
	}
	return ToSexy(n)
}

func exprs(es []Expression) []*sexy.Node {
	out := make([]*sexy.Node, len(es))
	for i, e := range es {
		out[i] = ToSexy(e)
	}
	return out
}

func typeName(t Type) *sexy.Node {
	if t == nil {
		return sexy.NewSymbol("_")
	}
	return str(Print(t))
}

func modifiers(mods []*Modifier) *sexy.Node {
	items := make([]*sexy.Node, len(mods))
	for i, mod := range mods {
		items[i] = sexy.NewSymbol(string(mod.Keyword))
	}
	return sexy.NewArray(items...)
}

func varForm(head string, t Type, f *VariableDeclarationFragment) *sexy.Node {
	return list(head, typeName(t), str(f.Name.Identifier), optional(f.Initializer))
}
