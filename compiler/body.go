package compiler

import (
	"maps"

	"github.com/strager/fastruby/javaast"
	"github.com/strager/fastruby/rubyast"
)

// BodyCompiler builds the statements of one block of a method. It tracks
// the local variables declared so far.
//
// Blocks nested inside a method (the branches of an if) share the
// method's set of declared locals, and their declarations are placed in
// the method's outermost block so that every later use is in scope.
type BodyCompiler struct {
	Class *ClassCompiler
	Body  *javaast.Block

	declared map[string]bool
	// decls receives local variable declarations. It is Body for the
	// outermost block of a method.
	decls *javaast.Block
}

func newBodyCompiler(class *ClassCompiler) *BodyCompiler {
	body := class.AST.NewBlock()
	return &BodyCompiler{
		Class:    class,
		Body:     body,
		declared: make(map[string]bool),
		decls:    body,
	}
}

// nested returns a compiler for a block inside b.
func (b *BodyCompiler) nested() *BodyCompiler {
	return &BodyCompiler{
		Class:    b.Class,
		Body:     b.Class.AST.NewBlock(),
		declared: b.declared,
		decls:    b.decls,
	}
}

// Declare records a local variable. It returns false if the name was
// already declared in this method.
func (b *BodyCompiler) Declare(name string) bool {
	if b.declared[name] {
		return false
	}
	b.declared[name] = true
	return true
}

// Declared reports whether a local variable was declared in this method.
func (b *BodyCompiler) Declared(name string) bool {
	return b.declared[name]
}

func (b *BodyCompiler) declareStatement(decl *javaast.VariableDeclarationStatement) {
	b.decls.Statements = append(b.decls.Statements, decl)
}

// Append adds a statement to the end of the block.
func (b *BodyCompiler) Append(stmt javaast.Statement) {
	b.Body.Statements = append(b.Body.Statements, stmt)
}

// Lower lowers an expression in the context of this block.
func (b *BodyCompiler) Lower(node rubyast.Node) (javaast.Expression, error) {
	return NewExpressionCompiler(b.Class.AST, b, node).Start()
}

// Emit appends expr as an expression statement. Expressions Java does not
// accept as statements (plain names) are dropped, since evaluating them
// has no effect.
func (b *BodyCompiler) Emit(expr javaast.Expression) {
	switch expr.(type) {
	case nil, javaast.Name:
		return
	}
	b.Append(b.Class.AST.NewExpressionStatement(expr))
}

// CompileStatement compiles a statement or sequence of statements into a
// new block nested inside b.
func (b *BodyCompiler) CompileStatement(node rubyast.Node) (javaast.Statement, error) {
	inner := b.nested()
	for _, stmt := range rubyast.Statements(node) {
		expr, err := inner.Lower(stmt)
		if err != nil {
			return nil, err
		}
		inner.Emit(expr)
	}
	return inner.Body, nil
}

// compileReturning compiles a method body. Every statement but the last
// is run for its effect; the last one's value is returned.
func (b *BodyCompiler) compileReturning(node rubyast.Node) error {
	stmts := rubyast.Statements(node)
	var result javaast.Expression
	for i, stmt := range stmts {
		expr, err := b.Lower(stmt)
		if err != nil {
			return err
		}
		if i == len(stmts)-1 {
			result = expr
		} else {
			b.Emit(expr)
		}
	}
	if result == nil {
		result = nilName(b.Class.AST)
	}
	ret := b.Class.AST.NewReturnStatement()
	ret.Expression = result
	b.Append(ret)
	return nil
}

// Checkpoint is how far a body, its class and its compiler had got at some
// moment. Restore drops everything compiled since then: statements, locals,
// members, units and registry entries.
type Checkpoint struct {
	body     *BodyCompiler
	stmts    int
	decls    int
	members  int
	units    int
	declared map[string]bool
	methods  map[string]int
}

func (b *BodyCompiler) Checkpoint() Checkpoint {
	return Checkpoint{
		body:     b,
		stmts:    len(b.Body.Statements),
		decls:    len(b.decls.Statements),
		members:  len(b.Class.Decl.BodyDeclarations),
		units:    len(b.Class.Compiler.Units),
		declared: maps.Clone(b.declared),
		methods:  b.Class.Compiler.Methods.Snapshot(),
	}
}

func (cp Checkpoint) Restore() {
	b := cp.body
	b.decls.Statements = b.decls.Statements[:cp.decls]
	b.Body.Statements = b.Body.Statements[:cp.stmts]
	// Nested bodies share the map, so it is refilled rather than replaced.
	clear(b.declared)
	maps.Copy(b.declared, cp.declared)

	cc := b.Class
	cc.Decl.BodyDeclarations = cc.Decl.BodyDeclarations[:cp.members]
	cc.Compiler.Units = cc.Compiler.Units[:cp.units]
	cc.Compiler.Methods.Restore(cp.methods)
}
