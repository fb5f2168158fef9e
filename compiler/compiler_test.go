package compiler

import (
	"errors"
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/strager/fastruby/javaast"
	"github.com/strager/fastruby/rubyast"
)

// openExampleBody returns a body compiler for a method of a fresh class
// named Example.
func openExampleBody(opts Options) (*Compiler, *BodyCompiler) {
	c := New(opts)
	class := c.NewClass(c.NewUnit("Example"), "Example")
	return c, class.OpenBody()
}

func mustDecode(t *testing.T, src string) rubyast.Node {
	t.Helper()
	n, err := rubyast.Decode(src)
	be.Err(t, err, nil)
	return n
}

func TestLowerNewIsConstruction(t *testing.T) {
	c, b := openExampleBody(DefaultOptions())
	expr, err := b.Lower(mustDecode(t, `(call "new" (const "Foo"))`))
	be.Err(t, err, nil)

	creation, ok := expr.(*javaast.ClassInstanceCreation)
	be.True(t, ok)
	be.Equal(t, javaast.Print(creation.Type), "Foo")
	be.Equal(t, len(creation.Arguments), 0)

	arity, ok := c.Methods.Arity("new")
	be.True(t, ok)
	be.Equal(t, arity, 0)
}

func TestLowerFixnumAndFloat(t *testing.T) {
	_, b := openExampleBody(DefaultOptions())

	expr, err := b.Lower(&rubyast.FixnumNode{Value: 42})
	be.Err(t, err, nil)
	creation := expr.(*javaast.ClassInstanceCreation)
	be.Equal(t, javaast.Print(creation.Type), FixnumClass)
	be.Equal(t, len(creation.Arguments), 1)
	be.Equal(t, creation.Arguments[0].(*javaast.NumberLiteral).Token, "42L")

	expr, err = b.Lower(&rubyast.FloatNode{Text: "3.5"})
	be.Err(t, err, nil)
	creation = expr.(*javaast.ClassInstanceCreation)
	be.Equal(t, javaast.Print(creation.Type), FloatClass)
	be.Equal(t, creation.Arguments[0].(*javaast.NumberLiteral).Token, "3.5")
}

func TestLowerLiteralRejectsNonLiterals(t *testing.T) {
	ast := javaast.NewAST()
	_, ok := LowerLiteral(ast, &rubyast.ArrayNode{})
	be.True(t, !ok)
	_, ok = LowerLiteral(ast, &rubyast.LocalVarNode{Name: "x"})
	be.True(t, !ok)
	_, ok = LowerLiteral(ast, nil)
	be.True(t, !ok)

	expr, ok := LowerLiteral(ast, &rubyast.NilNode{})
	be.True(t, ok)
	be.Equal(t, javaast.Print(expr), NilName)
}

func TestLowerArrays(t *testing.T) {
	_, b := openExampleBody(DefaultOptions())

	expr, err := b.Lower(&rubyast.ZArrayNode{})
	be.Err(t, err, nil)
	empty := expr.(*javaast.ClassInstanceCreation)
	be.Equal(t, javaast.Print(empty.Type), ArrayClass)
	be.Equal(t, len(empty.Arguments), 0)

	expr, err = b.Lower(mustDecode(t, `(array (fixnum 1) (fixnum 2))`))
	be.Err(t, err, nil)
	array := expr.(*javaast.ClassInstanceCreation)
	be.Equal(t, len(array.Arguments), 2)
	be.Equal(t, javaast.Print(array.Arguments[0]), "new RFixnum(1L)")
	be.Equal(t, javaast.Print(array.Arguments[1]), "new RFixnum(2L)")
}

func TestLocalDeclaredOncePerBody(t *testing.T) {
	_, b := openExampleBody(DefaultOptions())
	for _, value := range []string{`(fixnum 1)`, `(str "a")`, `(lvar "x")`} {
		stmt := &rubyast.LocalAsgnNode{Name: "x", Value: mustDecode(t, value)}
		expr, err := b.Lower(stmt)
		be.Err(t, err, nil)
		b.Emit(expr)
	}

	var decls []int
	var firstAssign = -1
	for i, stmt := range b.Body.Statements {
		switch stmt := stmt.(type) {
		case *javaast.VariableDeclarationStatement:
			be.Equal(t, stmt.Fragments[0].Name.Identifier, "x")
			decls = append(decls, i)
		case *javaast.ExpressionStatement:
			if _, ok := stmt.Expression.(*javaast.Assignment); ok && firstAssign < 0 {
				firstAssign = i
			}
		}
	}
	be.Equal(t, decls, []int{0})
	be.Equal(t, firstAssign, 1)
	be.True(t, b.Declared("x"))
	be.True(t, !b.Declared("y"))
}

func TestSeparateBodiesDeclareSeparately(t *testing.T) {
	c := New(DefaultOptions())
	class := c.NewClass(c.NewUnit("Example"), "Example")

	for _, b := range []*BodyCompiler{class.OpenBody(), class.OpenBody()} {
		_, err := b.Lower(&rubyast.LocalAsgnNode{Name: "x", Value: &rubyast.NilNode{}})
		be.Err(t, err, nil)
		be.Equal(t, len(b.Body.Statements), 1)
	}
}

func TestCallsAreRegistered(t *testing.T) {
	tests := []struct {
		src   string
		name  string
		arity int
	}{
		{`(call "+" (fixnum 1) [(fixnum 2)])`, "$plus", 1},
		{`(call "each" (lvar "a"))`, "each", 0},
		{`(call "new" (const "A") [(nil) (nil) (nil)])`, "new", 3},
		{`(fcall "puts" [(str "x")])`, "puts", 1},
		{`(fcall "ok?" [])`, "ok?", 0},
		{`(vcall "foo")`, "foo", 0},
	}

	for _, test := range tests {
		t.Run(test.src, func(t *testing.T) {
			c, b := openExampleBody(DefaultOptions())
			_, err := b.Lower(mustDecode(t, test.src))
			be.Err(t, err, nil)

			arity, ok := c.Methods.Arity(test.name)
			be.True(t, ok)
			be.Equal(t, arity, test.arity)
			be.Equal(t, c.Methods.Len(), 1)
		})
	}
}

func TestIfWithoutElse(t *testing.T) {
	_, b := openExampleBody(DefaultOptions())
	expr, err := b.Lower(mustDecode(t, `(if (lvar "c") (vcall "go"))`))
	be.Err(t, err, nil)
	be.True(t, expr == nil)

	be.Equal(t, len(b.Body.Statements), 1)
	stmt, ok := b.Body.Statements[0].(*javaast.IfStatement)
	be.True(t, ok)
	be.True(t, stmt.Else == nil)
	be.True(t, stmt.Then != nil)

	cond, ok := stmt.Expression.(*javaast.MethodInvocation)
	be.True(t, ok)
	be.Equal(t, cond.Name.Identifier, ToBooleanMethod)
	be.Equal(t, javaast.Print(cond.Expression), "c")
}

func TestUnknownKindsNeverFail(t *testing.T) {
	nodes := []rubyast.Node{
		&rubyast.UnknownNode{Name: "dregx"},
		&rubyast.BlockNode{},
		&rubyast.ArgsNode{},
		nil,
	}
	for _, node := range nodes {
		_, b := openExampleBody(DefaultOptions())
		expr, err := b.Lower(node)
		be.Err(t, err, nil)
		be.Equal(t, javaast.Print(expr), NilName)
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		node rubyast.Node
		msg  string
	}{
		{&rubyast.CallNode{Name: "x"}, "call to x has no receiver"},
		{&rubyast.CallNode{Name: "new", Receiver: &rubyast.FixnumNode{Value: 1}}, "cannot instantiate a fixnum expression, need a class name"},
		{&rubyast.LocalAsgnNode{Name: "v"}, "assignment to v has no value"},
		{&rubyast.ConstDeclNode{Name: "K"}, "constant K has no value"},
	}

	for _, test := range tests {
		t.Run(test.msg, func(t *testing.T) {
			_, b := openExampleBody(DefaultOptions())
			_, err := b.Lower(&rubyast.NewlineNode{Next: test.node})
			var compileErr *Error
			be.True(t, errors.As(err, &compileErr))
			be.Equal(t, compileErr.Msg, test.msg)
		})
	}
}

func nestedArrays(depth int) rubyast.Node {
	var node rubyast.Node = &rubyast.NilNode{}
	for range depth {
		node = &rubyast.ArrayNode{Elements: []rubyast.Node{node}}
	}
	return node
}

func TestMaxDepth(t *testing.T) {
	_, b := openExampleBody(Options{MaxDepth: 10})
	_, err := b.Lower(nestedArrays(9))
	be.Err(t, err, nil)

	_, b = openExampleBody(Options{MaxDepth: 10})
	_, err = b.Lower(nestedArrays(10))
	var compileErr *Error
	be.True(t, errors.As(err, &compileErr))
	be.Equal(t, compileErr.Msg, "expression nested deeper than 10 levels")

	_, b = openExampleBody(Options{})
	expr, err := b.Lower(nestedArrays(20000))
	be.Err(t, err, nil)
	be.True(t, expr != nil)
}

func TestDepthIsReleased(t *testing.T) {
	c, b := openExampleBody(Options{MaxDepth: 5})
	for range 10 {
		_, err := b.Lower(nestedArrays(3))
		be.Err(t, err, nil)
	}
	be.Equal(t, c.depth, 0)

	_, err := b.Lower(nestedArrays(50))
	be.True(t, err != nil)
	be.Equal(t, c.depth, 0)
}

func TestNewUnitHeader(t *testing.T) {
	c := New(Options{
		Package:        "com.example.app",
		RuntimePackage: "org.fastruby.runtime",
		RuntimeVersion: "0.3.1",
	})
	unit := c.NewUnit("Main")
	be.Equal(t, unit.FileName(), "Main.java")
	be.Equal(t, len(c.Units), 1)
	be.Equal(t, unit.Source(), strings.Join([]string{
		"// Generated by fastruby. Do not edit.",
		"// Requires runtime 0.3.1.",
		"package com.example.app;",
		"",
		"import org.fastruby.runtime.*;",
		"",
	}, "\n"))

	c = New(Options{Package: "rt", RuntimePackage: "rt"})
	be.Equal(t, len(c.NewUnit("X").Root.Imports), 0)
}

func TestNestedClassCompilesIntoNewUnit(t *testing.T) {
	c := New(DefaultOptions())
	err := c.CompileScript("Main", mustDecode(t, `(block
		(newline (class "Inner" (defn "hi" [] (str "hi"))))
		(newline (call "hi" (call "new" (const "Inner")))))`))
	be.Err(t, err, nil)

	be.Equal(t, len(c.Units), 2)
	be.Equal(t, c.Units[0].Name, "Main")
	be.Equal(t, c.Units[1].Name, "Inner")
	be.True(t, c.Units[0].AST != c.Units[1].AST)

	inner := c.Units[1].Root.Types[0]
	be.Equal(t, inner.Name.Identifier, "Inner")
	be.Equal(t, len(inner.BodyDeclarations), 2)
	be.Equal(t, inner.BodyDeclarations[0].(*javaast.MethodDeclaration).Name.Identifier, "hi")
	be.Equal(t, inner.BodyDeclarations[1].(*javaast.MethodDeclaration).Name.Identifier, ToplevelMethod)

	script := c.Units[0].Root.Types[0]
	be.Equal(t, len(script.BodyDeclarations), 2)
	be.Equal(t, script.BodyDeclarations[1].(*javaast.MethodDeclaration).Name.Identifier, "main")
}

func TestCompileScriptError(t *testing.T) {
	c := New(DefaultOptions())
	err := c.CompileScript("Main", mustDecode(t, "(block\n  (lasgn \"x\" _))"))
	var compileErr *Error
	be.True(t, errors.As(err, &compileErr))
	be.Equal(t, compileErr.Pos, rubyast.Pos{Line: 2, Col: 3})
	be.Equal(t, err.Error(), "2:3: assignment to x has no value")
}

func TestCheckpointRestore(t *testing.T) {
	c, b := openExampleBody(DefaultOptions())
	expr, err := b.Lower(mustDecode(t, `(lasgn "a" (fcall "init"))`))
	be.Err(t, err, nil)
	b.Emit(expr)

	cp := b.Checkpoint()
	_, err = b.Lower(mustDecode(t, `(array
		(lasgn "y" (fixnum 1))
		(if (lvar "c") (fcall "boom"))
		(class "Inner" (nil))
		(cdecl "K" (nil))
		(call "x" _))`))
	be.True(t, err != nil)
	be.True(t, b.Declared("y"))
	be.Equal(t, len(c.Units), 2)

	cp.Restore()
	be.Equal(t, len(b.Body.Statements), 2)
	be.True(t, b.Declared("a"))
	be.True(t, !b.Declared("y"))
	be.Equal(t, len(c.Units), 1)
	be.Equal(t, len(b.Class.Decl.BodyDeclarations), 0)
	be.Equal(t, c.Methods.Names(), []string{"init"})
	be.Equal(t, c.depth, 0)

	// Restored locals are declared again on their next assignment.
	_, err = b.Lower(mustDecode(t, `(lasgn "y" (nil))`))
	be.Err(t, err, nil)
	be.Equal(t, len(b.Body.Statements), 3)
}
