// Package rubyast defines the parsed Ruby program handed to the compiler.
//
// The tree is produced by an external parser. This package only models the
// node kinds the compiler understands, plus UnknownNode for everything else,
// and decodes trees serialized as S-expressions.
package rubyast

import "fmt"

// Pos is a 1-based source position.
type Pos struct {
	Line int
	Col  int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Node is one node of a parsed Ruby program. The set of implementations is
// closed; code that switches over node kinds must have a default arm for
// UnknownNode and anything added later.
type Node interface {
	Pos() Pos
	// Kind is the short name of the node kind, as used in the S-expression
	// form ("call", "lasgn", ...).
	Kind() string
	rubyNode()
}

type base struct {
	At Pos
}

func (b base) Pos() Pos { return b.At }
func (base) rubyNode() {}

// ClassNode is `class Name ... end`.
type ClassNode struct {
	base
	Name string
	Body Node
}

// DefnNode is `def name(params) ... end`.
type DefnNode struct {
	base
	Name   string
	Params []string
	Body   Node
}

// ArgsNode is an argument list. A nil *ArgsNode means the call had no
// argument list at all.
type ArgsNode struct {
	base
	Children []Node
}

// Len returns the number of arguments, 0 for a missing list.
func (a *ArgsNode) Len() int {
	if a == nil {
		return 0
	}
	return len(a.Children)
}

// Nodes returns the arguments in source order.
func (a *ArgsNode) Nodes() []Node {
	if a == nil {
		return nil
	}
	return a.Children
}

// CallNode is a call with an explicit receiver: `recv.name(args)`.
type CallNode struct {
	base
	Name     string
	Receiver Node
	Args     *ArgsNode
}

// FCallNode is a receiverless call with an argument list: `name(args)`.
type FCallNode struct {
	base
	Name string
	Args *ArgsNode
}

// VCallNode is a bare identifier that is not a known local: `name`.
type VCallNode struct {
	base
	Name string
}

type StrNode struct {
	base
	Value string
}

type FixnumNode struct {
	base
	Value int64
}

// FloatNode keeps the literal's text so it is emitted unchanged.
type FloatNode struct {
	base
	Text string
}

// NewlineNode wraps a statement that starts a new source line.
type NewlineNode struct {
	base
	Next Node
}

type NilNode struct {
	base
}

type LocalVarNode struct {
	base
	Name string
}

type LocalAsgnNode struct {
	base
	Name  string
	Value Node
}

// IfNode is `if cond then ... else ... end`. Then and Else are optional.
type IfNode struct {
	base
	Condition Node
	Then      Node
	Else      Node
}

// ZArrayNode is the empty array literal `[]`.
type ZArrayNode struct {
	base
}

type ArrayNode struct {
	base
	Elements []Node
}

type ConstDeclNode struct {
	base
	Name  string
	Value Node
}

type ConstNode struct {
	base
	Name string
}

// BlockNode is a sequence of statements.
type BlockNode struct {
	base
	Children []Node
}

// UnknownNode stands for any node kind the compiler does not model.
type UnknownNode struct {
	base
	Name string
}

func (*ClassNode) Kind() string     { return "class" }
func (*DefnNode) Kind() string      { return "defn" }
func (*ArgsNode) Kind() string      { return "args" }
func (*CallNode) Kind() string      { return "call" }
func (*FCallNode) Kind() string     { return "fcall" }
func (*VCallNode) Kind() string     { return "vcall" }
func (*StrNode) Kind() string       { return "str" }
func (*FixnumNode) Kind() string    { return "fixnum" }
func (*FloatNode) Kind() string     { return "float" }
func (*NewlineNode) Kind() string   { return "newline" }
func (*NilNode) Kind() string       { return "nil" }
func (*LocalVarNode) Kind() string  { return "lvar" }
func (*LocalAsgnNode) Kind() string { return "lasgn" }
func (*IfNode) Kind() string        { return "if" }
func (*ZArrayNode) Kind() string    { return "zarray" }
func (*ArrayNode) Kind() string     { return "array" }
func (*ConstDeclNode) Kind() string { return "cdecl" }
func (*ConstNode) Kind() string     { return "const" }
func (*BlockNode) Kind() string     { return "block" }
func (n *UnknownNode) Kind() string { return n.Name }

// NameOf returns the identifier carried by named node kinds.
func NameOf(n Node) (string, bool) {
	switch n := n.(type) {
	case *ConstNode:
		return n.Name, true
	case *LocalVarNode:
		return n.Name, true
	case *VCallNode:
		return n.Name, true
	case *FCallNode:
		return n.Name, true
	case *CallNode:
		return n.Name, true
	case *ClassNode:
		return n.Name, true
	case *DefnNode:
		return n.Name, true
	case *LocalAsgnNode:
		return n.Name, true
	case *ConstDeclNode:
		return n.Name, true
	case *NewlineNode:
		return NameOf(n.Next)
	}
	return "", false
}

// Statements flattens a body into the statements it runs in order. Block
// nodes are expanded; a nil body has no statements.
func Statements(body Node) []Node {
	switch b := body.(type) {
	case nil:
		return nil
	case *BlockNode:
		var out []Node
		for _, child := range b.Children {
			out = append(out, Statements(child)...)
		}
		return out
	case *NewlineNode:
		if inner, ok := b.Next.(*BlockNode); ok {
			return Statements(inner)
		}
	}
	return []Node{body}
}
