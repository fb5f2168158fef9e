package compiler

import (
	"github.com/strager/fastruby/javaast"
	"github.com/strager/fastruby/rubyast"
)

// ToplevelMethod holds the code of a class body outside of method
// definitions.
const ToplevelMethod = "toplevel"

// ClassCompiler builds the Java class for one Ruby class.
type ClassCompiler struct {
	Compiler  *Compiler
	AST       *javaast.AST
	ClassName string
	Decl      *javaast.TypeDeclaration
}

// NewClass declares `public class name extends RObject` in unit and
// returns a compiler for its members.
func (c *Compiler) NewClass(unit *Unit, name string) *ClassCompiler {
	ast := unit.AST
	decl := ast.NewTypeDeclaration()
	decl.Modifiers = ast.NewModifiers(javaast.PublicKeyword)
	decl.Name = ast.NewSimpleName(name)
	decl.SuperclassType = objectType(ast)
	unit.Root.Types = append(unit.Root.Types, decl)
	return &ClassCompiler{
		Compiler:  c,
		AST:       ast,
		ClassName: name,
		Decl:      decl,
	}
}

// AddMember appends a field or method to the class.
func (cc *ClassCompiler) AddMember(member javaast.BodyDeclaration) {
	cc.Decl.BodyDeclarations = append(cc.Decl.BodyDeclarations, member)
}

// OpenBody returns a compiler for a new, empty method body of this class.
func (cc *ClassCompiler) OpenBody() *BodyCompiler {
	return newBodyCompiler(cc)
}

// CompileMethod compiles a method definition and appends it to the class.
func (cc *ClassCompiler) CompileMethod(defn *rubyast.DefnNode) error {
	method, err := cc.compileMethod(SafeName(defn.Name), defn.Params, defn.Body)
	if err != nil {
		return err
	}
	cc.AddMember(method)
	cc.Compiler.Logger.Debug("compiled method", "class", cc.ClassName, "method", method.Name.Identifier, "params", len(defn.Params))
	return nil
}

// compileMethod builds
//
//	public RObject name(RObject p1, ...) { ...; return last; }
func (cc *ClassCompiler) compileMethod(name string, params []string, body rubyast.Node) (*javaast.MethodDeclaration, error) {
	ast := cc.AST
	method := ast.NewMethodDeclaration()
	method.Modifiers = ast.NewModifiers(javaast.PublicKeyword)
	method.ReturnType = objectType(ast)
	method.Name = ast.NewSimpleName(name)

	b := cc.OpenBody()
	for _, param := range params {
		b.Declare(param)
		decl := ast.NewSingleVariableDeclaration()
		decl.Type = objectType(ast)
		decl.Name = ast.NewSimpleName(param)
		method.Parameters = append(method.Parameters, decl)
	}
	if err := b.compileReturning(body); err != nil {
		return nil, err
	}
	method.Body = b.Body
	return method, nil
}

// compileToplevel compiles the class body into the toplevel method, which
// is added after any members the body defines.
func (cc *ClassCompiler) compileToplevel(body rubyast.Node) error {
	method, err := cc.compileMethod(ToplevelMethod, nil, body)
	if err != nil {
		return err
	}
	cc.AddMember(method)
	return nil
}

// addMain adds
//
//	public static void main(String[] args) { new Name().toplevel(); }
func (cc *ClassCompiler) addMain() {
	ast := cc.AST
	entry := ast.NewMethodDeclaration()
	entry.Modifiers = ast.NewModifiers(javaast.PublicKeyword, javaast.StaticKeyword)
	entry.ReturnType = ast.NewPrimitiveType("void")
	entry.Name = ast.NewSimpleName("main")

	args := ast.NewSingleVariableDeclaration()
	args.Type = ast.NewArrayType(ast.NewSimpleType(ast.NewSimpleName("String")))
	args.Name = ast.NewSimpleName("args")
	entry.Parameters = append(entry.Parameters, args)

	run := ast.NewMethodInvocation()
	run.Expression = construct(ast, cc.ClassName)
	run.Name = ast.NewSimpleName(ToplevelMethod)
	entry.Body = ast.NewBlock()
	entry.Body.Statements = append(entry.Body.Statements, ast.NewExpressionStatement(run))

	cc.AddMember(entry)
}
