package javaast

import "strings"

// AST creates the nodes of one compilation unit. Nodes from different ASTs
// should not be mixed in one tree.
type AST struct {
	created int
}

func NewAST() *AST {
	return &AST{}
}

// NodeCount returns how many nodes this AST has created.
func (a *AST) NodeCount() int {
	return a.created
}

func (a *AST) NewSimpleName(identifier string) *SimpleName {
	a.created++
	return &SimpleName{Identifier: identifier}
}

func (a *AST) NewQualifiedName(qualifier Name, name *SimpleName) *QualifiedName {
	a.created++
	return &QualifiedName{Qualifier: qualifier, Name: name}
}

// NewName builds a simple name, or a qualified name for a dotted string.
func (a *AST) NewName(dotted string) Name {
	parts := strings.Split(dotted, ".")
	var name Name = a.NewSimpleName(parts[0])
	for _, part := range parts[1:] {
		name = a.NewQualifiedName(name, a.NewSimpleName(part))
	}
	return name
}

func (a *AST) NewSimpleType(name Name) *SimpleType {
	a.created++
	return &SimpleType{Name: name}
}

func (a *AST) NewPrimitiveType(code string) *PrimitiveType {
	a.created++
	return &PrimitiveType{Code: code}
}

func (a *AST) NewArrayType(element Type) *ArrayType {
	a.created++
	return &ArrayType{ElementType: element}
}

func (a *AST) NewClassInstanceCreation() *ClassInstanceCreation {
	a.created++
	return &ClassInstanceCreation{}
}

func (a *AST) NewMethodInvocation() *MethodInvocation {
	a.created++
	return &MethodInvocation{}
}

func (a *AST) NewStringLiteral() *StringLiteral {
	a.created++
	return &StringLiteral{}
}

func (a *AST) NewNumberLiteral(token string) *NumberLiteral {
	a.created++
	return &NumberLiteral{Token: token}
}

func (a *AST) NewThisExpression() *ThisExpression {
	a.created++
	return &ThisExpression{}
}

func (a *AST) NewAssignment() *Assignment {
	a.created++
	return &Assignment{}
}

func (a *AST) NewVariableDeclarationFragment() *VariableDeclarationFragment {
	a.created++
	return &VariableDeclarationFragment{}
}

func (a *AST) NewVariableDeclarationStatement(fragment *VariableDeclarationFragment) *VariableDeclarationStatement {
	a.created++
	return &VariableDeclarationStatement{Fragments: []*VariableDeclarationFragment{fragment}}
}

func (a *AST) NewExpressionStatement(expr Expression) *ExpressionStatement {
	a.created++
	return &ExpressionStatement{Expression: expr}
}

func (a *AST) NewIfStatement() *IfStatement {
	a.created++
	return &IfStatement{}
}

func (a *AST) NewBlock() *Block {
	a.created++
	return &Block{}
}

func (a *AST) NewReturnStatement() *ReturnStatement {
	a.created++
	return &ReturnStatement{}
}

func (a *AST) NewModifier(keyword ModifierKeyword) *Modifier {
	a.created++
	return &Modifier{Keyword: keyword}
}

// NewModifiers is shorthand for one NewModifier call per keyword.
func (a *AST) NewModifiers(keywords ...ModifierKeyword) []*Modifier {
	mods := make([]*Modifier, len(keywords))
	for i, keyword := range keywords {
		mods[i] = a.NewModifier(keyword)
	}
	return mods
}

func (a *AST) NewFieldDeclaration(fragment *VariableDeclarationFragment) *FieldDeclaration {
	a.created++
	return &FieldDeclaration{Fragments: []*VariableDeclarationFragment{fragment}}
}

func (a *AST) NewSingleVariableDeclaration() *SingleVariableDeclaration {
	a.created++
	return &SingleVariableDeclaration{}
}

func (a *AST) NewMethodDeclaration() *MethodDeclaration {
	a.created++
	return &MethodDeclaration{}
}

func (a *AST) NewTypeDeclaration() *TypeDeclaration {
	a.created++
	return &TypeDeclaration{}
}

func (a *AST) NewImportDeclaration() *ImportDeclaration {
	a.created++
	return &ImportDeclaration{}
}

func (a *AST) NewCompilationUnit() *CompilationUnit {
	a.created++
	return &CompilationUnit{}
}
