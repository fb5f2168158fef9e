// Package compiler lowers a parsed Ruby program into Java syntax trees.
//
// A Compiler owns the output of one compilation: the Java compilation
// units it produced and the registry of methods called. Classes are
// compiled by ClassCompiler, method bodies by BodyCompiler and single
// expressions by ExpressionCompiler.
package compiler

import (
	"io"
	"log/slog"

	"github.com/strager/fastruby/javaast"
	"github.com/strager/fastruby/rubyast"
)

// DefaultMaxDepth is the expression nesting limit used by DefaultOptions.
const DefaultMaxDepth = 10000

type Options struct {
	// Package is the Java package of every generated unit. Empty means the
	// default package.
	Package string
	// RuntimePackage holds RObject and friends. It is imported on demand
	// unless it is empty or equal to Package.
	RuntimePackage string
	// RuntimeVersion, if set, is recorded in the header of generated units.
	RuntimeVersion string
	// MaxDepth limits how deeply expressions may nest. Zero means no limit.
	MaxDepth int
}

func DefaultOptions() Options {
	return Options{MaxDepth: DefaultMaxDepth}
}

// Unit is one generated Java source file.
type Unit struct {
	// Name is the name of the class the unit declares.
	Name string
	AST  *javaast.AST
	Root *javaast.CompilationUnit
}

// FileName is the name the unit must be saved under.
func (u *Unit) FileName() string {
	return u.Name + ".java"
}

// Source returns the unit as Java source code.
func (u *Unit) Source() string {
	return javaast.Print(u.Root)
}

type Compiler struct {
	Options Options
	// Units is every unit created so far, in creation order.
	Units []*Unit
	// Methods records every method called by compiled code.
	Methods *Registry
	Logger  *slog.Logger

	depth int
}

func New(opts Options) *Compiler {
	return &Compiler{
		Options: opts,
		Methods: NewRegistry(),
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// NewUnit creates an empty compilation unit and adds it to c.Units.
func (c *Compiler) NewUnit(name string) *Unit {
	unit := newUnit(c.Options, name)
	c.Units = append(c.Units, unit)
	c.Logger.Debug("created unit", "name", name, "units", len(c.Units))
	return unit
}

func newUnit(opts Options, name string) *Unit {
	ast := javaast.NewAST()
	root := ast.NewCompilationUnit()
	root.Comment = "Generated by fastruby. Do not edit."
	if opts.RuntimeVersion != "" {
		root.Comment += "\nRequires runtime " + opts.RuntimeVersion + "."
	}
	if opts.Package != "" {
		root.Package = ast.NewName(opts.Package)
	}
	if opts.RuntimePackage != "" && opts.RuntimePackage != opts.Package {
		imp := ast.NewImportDeclaration()
		imp.Name = ast.NewName(opts.RuntimePackage)
		imp.OnDemand = true
		root.Imports = append(root.Imports, imp)
	}
	return &Unit{Name: name, AST: ast, Root: root}
}

// CompileClass compiles a Ruby class body into a new class declared in
// unit. Method definitions in the body become methods; everything else
// runs in the class's toplevel method.
//
// CompileClass is re-entered for every class definition found in body.
func (c *Compiler) CompileClass(unit *Unit, name string, body rubyast.Node) (*ClassCompiler, error) {
	cc := c.NewClass(unit, name)
	if err := cc.compileToplevel(body); err != nil {
		return nil, err
	}
	c.Logger.Debug("compiled class", "class", name, "members", len(cc.Decl.BodyDeclarations))
	return cc, nil
}

// CompileScript compiles a whole Ruby script. The script's top-level code
// goes into a class called name, which also gets a main method running
// it. Classes defined by the script get units of their own.
func (c *Compiler) CompileScript(name string, root rubyast.Node) error {
	unit := c.NewUnit(name)
	cc, err := c.CompileClass(unit, name, root)
	if err != nil {
		return err
	}
	cc.addMain()
	return nil
}

func (c *Compiler) enter(node rubyast.Node) error {
	if c.Options.MaxDepth > 0 && c.depth >= c.Options.MaxDepth {
		pos := rubyast.Pos{}
		if node != nil {
			pos = node.Pos()
		}
		return errorf(pos, "expression nested deeper than %d levels", c.Options.MaxDepth)
	}
	c.depth++
	return nil
}

func (c *Compiler) leave() {
	c.depth--
}
