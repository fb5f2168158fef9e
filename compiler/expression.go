package compiler

import (
	"github.com/strager/fastruby/javaast"
	"github.com/strager/fastruby/rubyast"
)

// ExpressionCompiler lowers one Ruby expression, and everything below it,
// into a Java expression. It is created for a single subtree and thrown
// away afterwards.
type ExpressionCompiler struct {
	ast  *javaast.AST
	body *BodyCompiler
	node rubyast.Node
}

func NewExpressionCompiler(ast *javaast.AST, body *BodyCompiler, node rubyast.Node) *ExpressionCompiler {
	return &ExpressionCompiler{ast: ast, body: body, node: node}
}

// Start lowers the node.
//
// Some nodes only have side effects: class and method definitions add to
// the compiler's output, and an if appends a statement to the enclosing
// body. For those Start returns a nil expression.
//
// Node kinds without a lowering become a reference to RNil.
func (e *ExpressionCompiler) Start() (javaast.Expression, error) {
	c := e.class().Compiler
	if err := c.enter(e.node); err != nil {
		return nil, err
	}
	defer c.leave()
	return e.lower()
}

func (e *ExpressionCompiler) class() *ClassCompiler {
	return e.body.Class
}

func (e *ExpressionCompiler) methods() *Registry {
	return e.class().Compiler.Methods
}

func (e *ExpressionCompiler) lower() (javaast.Expression, error) {
	switch n := e.node.(type) {
	case *rubyast.ClassNode:
		return nil, e.lowerClass(n)
	case *rubyast.DefnNode:
		return nil, e.class().CompileMethod(n)
	case *rubyast.CallNode:
		return e.lowerCall(n)
	case *rubyast.FCallNode:
		return e.lowerSelfCall(n.Name, n.Args)
	case *rubyast.VCallNode:
		return e.lowerSelfCall(n.Name, nil)
	case *rubyast.StrNode, *rubyast.FixnumNode, *rubyast.FloatNode, *rubyast.ZArrayNode, *rubyast.NilNode:
		expr, _ := LowerLiteral(e.ast, n)
		return expr, nil
	case *rubyast.NewlineNode:
		return e.child(n.Next)
	case *rubyast.LocalVarNode:
		return e.ast.NewSimpleName(n.Name), nil
	case *rubyast.LocalAsgnNode:
		return e.lowerLocalAsgn(n)
	case *rubyast.IfNode:
		return nil, e.lowerIf(n)
	case *rubyast.ArrayNode:
		elements, err := e.values(n.Elements)
		if err != nil {
			return nil, err
		}
		return construct(e.ast, ArrayClass, elements...), nil
	case *rubyast.ConstDeclNode:
		return e.lowerConstDecl(n)
	case *rubyast.ConstNode:
		return e.ast.NewQualifiedName(e.ast.NewSimpleName(e.class().ClassName), e.ast.NewSimpleName(n.Name)), nil
	}
	return nilName(e.ast), nil
}

// child lowers a subtree with a fresh ExpressionCompiler.
func (e *ExpressionCompiler) child(node rubyast.Node) (javaast.Expression, error) {
	return NewExpressionCompiler(e.ast, e.body, node).Start()
}

// value lowers a subtree whose result is used. Constructs with no value
// stand for nil there.
func (e *ExpressionCompiler) value(node rubyast.Node) (javaast.Expression, error) {
	expr, err := e.child(node)
	if err != nil {
		return nil, err
	}
	if expr == nil {
		return nilName(e.ast), nil
	}
	return expr, nil
}

func (e *ExpressionCompiler) values(nodes []rubyast.Node) ([]javaast.Expression, error) {
	exprs := make([]javaast.Expression, 0, len(nodes))
	for _, node := range nodes {
		expr, err := e.value(node)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

func (e *ExpressionCompiler) lowerClass(n *rubyast.ClassNode) error {
	c := e.class().Compiler
	unit := c.NewUnit(n.Name)
	_, err := c.CompileClass(unit, n.Name, n.Body)
	return err
}

func (e *ExpressionCompiler) lowerCall(n *rubyast.CallNode) (javaast.Expression, error) {
	if n.Receiver == nil {
		return nil, errorf(n.Pos(), "call to %s has no receiver", n.Name)
	}

	if n.Name == "new" {
		className, ok := rubyast.NameOf(n.Receiver)
		if !ok {
			return nil, errorf(n.Receiver.Pos(), "cannot instantiate a %s expression, need a class name", n.Receiver.Kind())
		}
		e.methods().Record(SafeName(n.Name), n.Args.Len())
		args, err := e.values(n.Args.Nodes())
		if err != nil {
			return nil, err
		}
		return construct(e.ast, className, args...), nil
	}

	e.methods().Record(SafeName(n.Name), n.Args.Len())
	inv := e.ast.NewMethodInvocation()
	inv.Name = e.ast.NewSimpleName(SafeName(n.Name))
	receiver, err := e.value(n.Receiver)
	if err != nil {
		return nil, err
	}
	inv.Expression = receiver
	args, err := e.values(n.Args.Nodes())
	if err != nil {
		return nil, err
	}
	inv.Arguments = args
	return inv, nil
}

// lowerSelfCall lowers a call on the implicit self. The method name is
// emitted and recorded as written.
func (e *ExpressionCompiler) lowerSelfCall(name string, argList *rubyast.ArgsNode) (javaast.Expression, error) {
	e.methods().Record(name, argList.Len())
	inv := e.ast.NewMethodInvocation()
	inv.Name = e.ast.NewSimpleName(name)
	inv.Expression = e.ast.NewThisExpression()
	args, err := e.values(argList.Nodes())
	if err != nil {
		return nil, err
	}
	inv.Arguments = args
	return inv, nil
}

func (e *ExpressionCompiler) lowerLocalAsgn(n *rubyast.LocalAsgnNode) (javaast.Expression, error) {
	if n.Value == nil {
		return nil, errorf(n.Pos(), "assignment to %s has no value", n.Name)
	}

	if e.body.Declare(n.Name) {
		// RObject name = RNil;
		frag := e.ast.NewVariableDeclarationFragment()
		frag.Name = e.ast.NewSimpleName(n.Name)
		frag.Initializer = nilName(e.ast)
		decl := e.ast.NewVariableDeclarationStatement(frag)
		decl.Type = objectType(e.ast)
		e.body.declareStatement(decl)
	}

	asgn := e.ast.NewAssignment()
	asgn.LeftHandSide = e.ast.NewSimpleName(n.Name)
	value, err := e.value(n.Value)
	if err != nil {
		return nil, err
	}
	asgn.RightHandSide = value
	return asgn, nil
}

func (e *ExpressionCompiler) lowerIf(n *rubyast.IfNode) error {
	cond, err := e.value(n.Condition)
	if err != nil {
		return err
	}
	toBoolean := e.ast.NewMethodInvocation()
	toBoolean.Expression = cond
	toBoolean.Name = e.ast.NewSimpleName(ToBooleanMethod)

	stmt := e.ast.NewIfStatement()
	stmt.Expression = toBoolean
	if n.Then != nil {
		if stmt.Then, err = e.body.CompileStatement(n.Then); err != nil {
			return err
		}
	}
	if n.Else != nil {
		if stmt.Else, err = e.body.CompileStatement(n.Else); err != nil {
			return err
		}
	}
	e.body.Append(stmt)
	return nil
}

func (e *ExpressionCompiler) lowerConstDecl(n *rubyast.ConstDeclNode) (javaast.Expression, error) {
	if n.Value == nil {
		return nil, errorf(n.Pos(), "constant %s has no value", n.Name)
	}

	frag := e.ast.NewVariableDeclarationFragment()
	frag.Name = e.ast.NewSimpleName(n.Name)
	value, err := e.value(n.Value)
	if err != nil {
		return nil, err
	}
	frag.Initializer = value

	field := e.ast.NewFieldDeclaration(frag)
	field.Modifiers = e.ast.NewModifiers(javaast.PublicKeyword, javaast.StaticKeyword)
	field.Type = objectType(e.ast)
	e.class().AddMember(field)

	return e.ast.NewSimpleName(n.Name), nil
}
