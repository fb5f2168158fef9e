package javaast

import (
	"fmt"
	"strings"
)

const indentUnit = "    "

// Print renders a node as Java source. Expressions and types print without
// a trailing newline; statements, declarations and compilation units print
// one line per line of output, each ending in a newline.
func Print(node Node) string {
	p := &printer{}
	p.node(node)
	return p.buf.String()
}

type printer struct {
	buf    strings.Builder
	indent int
}

func (p *printer) write(s string) {
	p.buf.WriteString(s)
}

func (p *printer) line(s string) {
	p.writeIndent()
	p.write(s)
	p.write("\n")
}

func (p *printer) writeIndent() {
	p.write(strings.Repeat(indentUnit, p.indent))
}

func (p *printer) node(node Node) {
	switch n := node.(type) {
	case Expression:
		p.expr(n)
	case Type:
		p.typ(n)
	case Statement:
		p.stmt(n)
	case BodyDeclaration:
		p.member(n)
	case *CompilationUnit:
		p.unit(n)
	case *VariableDeclarationFragment:
		p.fragment(n)
	case *Modifier:
		p.write(string(n.Keyword))
	case *SingleVariableDeclaration:
		p.typ(n.Type)
		p.write(" " + n.Name.Identifier)
	case *ImportDeclaration:
		p.importDecl(n)
	case nil:
	default:
		panic(fmt.Sprintf("javaast: cannot print %T", node))
	}
}

func (p *printer) expr(e Expression) {
	switch e := e.(type) {
	case *SimpleName:
		p.write(e.Identifier)
	case *QualifiedName:
		p.expr(e.Qualifier)
		p.write(".")
		p.write(e.Name.Identifier)
	case *ClassInstanceCreation:
		p.write("new ")
		p.typ(e.Type)
		p.args(e.Arguments)
	case *MethodInvocation:
		if e.Expression != nil {
			if _, ok := e.Expression.(*Assignment); ok {
				p.write("(")
				p.expr(e.Expression)
				p.write(")")
			} else {
				p.expr(e.Expression)
			}
			p.write(".")
		}
		p.write(e.Name.Identifier)
		p.args(e.Arguments)
	case *StringLiteral:
		p.write(QuoteString(e.LiteralValue))
	case *NumberLiteral:
		p.write(e.Token)
	case *ThisExpression:
		p.write("this")
	case *Assignment:
		p.expr(e.LeftHandSide)
		p.write(" = ")
		p.expr(e.RightHandSide)
	default:
		panic(fmt.Sprintf("javaast: cannot print expression %T", e))
	}
}

func (p *printer) args(args []Expression) {
	p.write("(")
	for i, arg := range args {
		if i > 0 {
			p.write(", ")
		}
		p.expr(arg)
	}
	p.write(")")
}

func (p *printer) typ(t Type) {
	switch t := t.(type) {
	case *SimpleType:
		p.write(t.Name.FullyQualifiedName())
	case *PrimitiveType:
		p.write(t.Code)
	case *ArrayType:
		p.typ(t.ElementType)
		p.write("[]")
	default:
		panic(fmt.Sprintf("javaast: cannot print type %T", t))
	}
}

func (p *printer) modifiers(mods []*Modifier) {
	for _, mod := range mods {
		p.write(string(mod.Keyword))
		p.write(" ")
	}
}

func (p *printer) fragment(f *VariableDeclarationFragment) {
	p.write(f.Name.Identifier)
	if f.Initializer != nil {
		p.write(" = ")
		p.expr(f.Initializer)
	}
}

func (p *printer) fragments(fs []*VariableDeclarationFragment) {
	for i, f := range fs {
		if i > 0 {
			p.write(", ")
		}
		p.fragment(f)
	}
}

func (p *printer) stmt(s Statement) {
	switch s := s.(type) {
	case *ExpressionStatement:
		p.writeIndent()
		p.expr(s.Expression)
		p.write(";\n")
	case *VariableDeclarationStatement:
		p.writeIndent()
		p.modifiers(s.Modifiers)
		p.typ(s.Type)
		p.write(" ")
		p.fragments(s.Fragments)
		p.write(";\n")
	case *ReturnStatement:
		p.writeIndent()
		if s.Expression == nil {
			p.write("return;\n")
			return
		}
		p.write("return ")
		p.expr(s.Expression)
		p.write(";\n")
	case *Block:
		p.writeIndent()
		p.block(s)
		p.write("\n")
	case *IfStatement:
		p.writeIndent()
		p.write("if (")
		p.expr(s.Expression)
		p.write(") ")
		p.branch(s.Then)
		if s.Else != nil {
			p.write(" else ")
			p.branch(s.Else)
		}
		p.write("\n")
	default:
		panic(fmt.Sprintf("javaast: cannot print statement %T", s))
	}
}

// block writes `{`, the statements one level deeper, and `}` at the
// current indentation, leaving the cursor after the closing brace.
func (p *printer) block(b *Block) {
	p.write("{\n")
	p.indent++
	if b != nil {
		for _, s := range b.Statements {
			p.stmt(s)
		}
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

// branch prints an if branch; anything other than a block is braced.
func (p *printer) branch(s Statement) {
	switch s := s.(type) {
	case nil:
		p.block(nil)
	case *Block:
		p.block(s)
	default:
		p.block(&Block{Statements: []Statement{s}})
	}
}

func (p *printer) member(m BodyDeclaration) {
	switch m := m.(type) {
	case *FieldDeclaration:
		p.writeIndent()
		p.modifiers(m.Modifiers)
		p.typ(m.Type)
		p.write(" ")
		p.fragments(m.Fragments)
		p.write(";\n")
	case *MethodDeclaration:
		p.writeIndent()
		p.modifiers(m.Modifiers)
		p.typ(m.ReturnType)
		p.write(" ")
		p.write(m.Name.Identifier)
		p.write("(")
		for i, param := range m.Parameters {
			if i > 0 {
				p.write(", ")
			}
			p.typ(param.Type)
			p.write(" " + param.Name.Identifier)
		}
		p.write(")")
		if m.Body == nil {
			p.write(";\n")
			return
		}
		p.write(" ")
		p.block(m.Body)
		p.write("\n")
	case *TypeDeclaration:
		p.writeIndent()
		p.modifiers(m.Modifiers)
		p.write("class ")
		p.write(m.Name.Identifier)
		if m.SuperclassType != nil {
			p.write(" extends ")
			p.typ(m.SuperclassType)
		}
		p.write(" {\n")
		p.indent++
		for i, decl := range m.BodyDeclarations {
			if i > 0 {
				p.write("\n")
			}
			p.member(decl)
		}
		p.indent--
		p.line("}")
	default:
		panic(fmt.Sprintf("javaast: cannot print declaration %T", m))
	}
}

func (p *printer) importDecl(imp *ImportDeclaration) {
	p.write("import ")
	p.write(imp.Name.FullyQualifiedName())
	if imp.OnDemand {
		p.write(".*")
	}
	p.write(";\n")
}

func (p *printer) unit(u *CompilationUnit) {
	started := false
	if u.Comment != "" {
		for _, l := range strings.Split(u.Comment, "\n") {
			p.write(strings.TrimRight("// "+l, " ") + "\n")
		}
		started = true
	}
	if u.Package != nil {
		p.write("package " + u.Package.FullyQualifiedName() + ";\n")
		started = true
	}
	if len(u.Imports) > 0 {
		if started {
			p.write("\n")
		}
		for _, imp := range u.Imports {
			p.importDecl(imp)
		}
		started = true
	}
	for _, t := range u.Types {
		if started {
			p.write("\n")
		}
		p.member(t)
		started = true
	}
}

// QuoteString renders s as a Java string literal.
func QuoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u%04x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
