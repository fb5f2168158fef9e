// Package javaast is a small Java syntax tree, shaped after the Eclipse JDT
// DOM: nodes are created through an AST factory, their properties are set
// afterwards, and the tree is printed as Java source by Print.
package javaast

// Node is any Java syntax tree node.
type Node interface {
	javaNode()
}

// Expression is a node that yields a value.
type Expression interface {
	Node
	expression()
}

// Statement is a node that can appear in a block.
type Statement interface {
	Node
	statement()
}

// BodyDeclaration is a member of a type declaration.
type BodyDeclaration interface {
	Node
	bodyDeclaration()
}

// Type is a type reference.
type Type interface {
	Node
	javaType()
}

// Name is a simple or qualified name.
type Name interface {
	Expression
	FullyQualifiedName() string
}

type SimpleName struct {
	Identifier string
}

type QualifiedName struct {
	Qualifier Name
	Name      *SimpleName
}

func (n *SimpleName) FullyQualifiedName() string { return n.Identifier }

func (n *QualifiedName) FullyQualifiedName() string {
	return n.Qualifier.FullyQualifiedName() + "." + n.Name.Identifier
}

type SimpleType struct {
	Name Name
}

// PrimitiveType is void, int, boolean and friends.
type PrimitiveType struct {
	Code string
}

type ArrayType struct {
	ElementType Type
}

// ClassInstanceCreation is `new Type(args)`.
type ClassInstanceCreation struct {
	Type      Type
	Arguments []Expression
}

// MethodInvocation is `expr.name(args)`, or `name(args)` when Expression
// is nil.
type MethodInvocation struct {
	Expression Expression
	Name       *SimpleName
	Arguments  []Expression
}

type StringLiteral struct {
	LiteralValue string
}

// NumberLiteral holds the literal token as written, suffix included.
type NumberLiteral struct {
	Token string
}

type ThisExpression struct{}

type Assignment struct {
	LeftHandSide  Expression
	RightHandSide Expression
}

type VariableDeclarationFragment struct {
	Name        *SimpleName
	Initializer Expression
}

type VariableDeclarationStatement struct {
	Modifiers []*Modifier
	Type      Type
	Fragments []*VariableDeclarationFragment
}

type ExpressionStatement struct {
	Expression Expression
}

// IfStatement has optional Then and Else statements.
type IfStatement struct {
	Expression Expression
	Then       Statement
	Else       Statement
}

type Block struct {
	Statements []Statement
}

type ReturnStatement struct {
	Expression Expression
}

type ModifierKeyword string

const (
	PublicKeyword   ModifierKeyword = "public"
	StaticKeyword   ModifierKeyword = "static"
	FinalKeyword    ModifierKeyword = "final"
	AbstractKeyword ModifierKeyword = "abstract"
)

type Modifier struct {
	Keyword ModifierKeyword
}

type FieldDeclaration struct {
	Modifiers []*Modifier
	Type      Type
	Fragments []*VariableDeclarationFragment
}

type SingleVariableDeclaration struct {
	Type Type
	Name *SimpleName
}

type MethodDeclaration struct {
	Modifiers  []*Modifier
	ReturnType Type
	Name       *SimpleName
	Parameters []*SingleVariableDeclaration
	// Body is nil for abstract methods.
	Body *Block
}

type TypeDeclaration struct {
	Modifiers        []*Modifier
	Name             *SimpleName
	SuperclassType   Type
	BodyDeclarations []BodyDeclaration
}

type ImportDeclaration struct {
	Name     Name
	OnDemand bool
}

type CompilationUnit struct {
	// Comment is emitted as line comments above everything else.
	Comment string
	Package Name
	Imports []*ImportDeclaration
	Types   []*TypeDeclaration
}

func (*SimpleName) javaNode()                   {}
func (*QualifiedName) javaNode()                {}
func (*SimpleType) javaNode()                   {}
func (*PrimitiveType) javaNode()                {}
func (*ArrayType) javaNode()                    {}
func (*ClassInstanceCreation) javaNode()        {}
func (*MethodInvocation) javaNode()             {}
func (*StringLiteral) javaNode()                {}
func (*NumberLiteral) javaNode()                {}
func (*ThisExpression) javaNode()               {}
func (*Assignment) javaNode()                   {}
func (*VariableDeclarationFragment) javaNode()  {}
func (*VariableDeclarationStatement) javaNode() {}
func (*ExpressionStatement) javaNode()          {}
func (*IfStatement) javaNode()                  {}
func (*Block) javaNode()                        {}
func (*ReturnStatement) javaNode()              {}
func (*Modifier) javaNode()                     {}
func (*FieldDeclaration) javaNode()             {}
func (*SingleVariableDeclaration) javaNode()    {}
func (*MethodDeclaration) javaNode()            {}
func (*TypeDeclaration) javaNode()              {}
func (*ImportDeclaration) javaNode()            {}
func (*CompilationUnit) javaNode()              {}

func (*SimpleName) expression()            {}
func (*QualifiedName) expression()         {}
func (*ClassInstanceCreation) expression() {}
func (*MethodInvocation) expression()      {}
func (*StringLiteral) expression()         {}
func (*NumberLiteral) expression()         {}
func (*ThisExpression) expression()        {}
func (*Assignment) expression()            {}

func (*VariableDeclarationStatement) statement() {}
func (*ExpressionStatement) statement()          {}
func (*IfStatement) statement()                  {}
func (*Block) statement()                        {}
func (*ReturnStatement) statement()              {}

func (*FieldDeclaration) bodyDeclaration()  {}
func (*MethodDeclaration) bodyDeclaration() {}
func (*TypeDeclaration) bodyDeclaration()   {}

func (*SimpleType) javaType()    {}
func (*PrimitiveType) javaType() {}
func (*ArrayType) javaType()     {}
