package rubyast

import (
	"fmt"
	"strconv"

	"github.com/strager/fastruby/sexy"
)

// DecodeError reports a tree that is not a well-formed serialization.
type DecodeError struct {
	Pos Pos
	Msg string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Decode parses src as an S-expression and decodes it into a node.
//
// Forms:
//
//	(class "Name" body?)          (defn "name" ["a" "b"] body?)
//	(call "name" recv [args]?)    (fcall "name" [args]?)    (vcall "name")
//	(str "s") (fixnum 1) (float 1.5) (nil) (zarray) (array e...)
//	(newline n) (lvar "x") (lasgn "x" value) (cdecl "X" value) (const "X")
//	(if cond then? else?)         (block n...)
//
// The symbol _ marks an absent optional child. Lists with any other head
// symbol decode to *UnknownNode.
func Decode(src string) (Node, error) {
	datum, err := sexy.Parse(src)
	if err != nil {
		return nil, err
	}
	return FromSexy(datum)
}

// FromSexy decodes an already parsed datum.
func FromSexy(d *sexy.Node) (Node, error) {
	if d == nil {
		return nil, nil
	}
	if d.Type != sexy.NodeList || d.Head() == "" {
		return nil, errorf(d, "expected a node like (kind ...), got %s", d)
	}

	at := posOf(d)
	args := d.Items[1:]
	head := d.Head()

	switch head {
	case "class":
		if err := arity(d, args, 1, 2); err != nil {
			return nil, err
		}
		name, err := stringAt(d, args, 0)
		if err != nil {
			return nil, err
		}
		body, err := optional(args, 1)
		if err != nil {
			return nil, err
		}
		return &ClassNode{base: base{at}, Name: name, Body: body}, nil

	case "defn":
		if err := arity(d, args, 2, 3); err != nil {
			return nil, err
		}
		name, err := stringAt(d, args, 0)
		if err != nil {
			return nil, err
		}
		params, err := stringArray(args[1])
		if err != nil {
			return nil, err
		}
		body, err := optional(args, 2)
		if err != nil {
			return nil, err
		}
		return &DefnNode{base: base{at}, Name: name, Params: params, Body: body}, nil

	case "call":
		if err := arity(d, args, 2, 3); err != nil {
			return nil, err
		}
		name, err := stringAt(d, args, 0)
		if err != nil {
			return nil, err
		}
		recv, err := optional(args, 1)
		if err != nil {
			return nil, err
		}
		callArgs, err := argsAt(args, 2)
		if err != nil {
			return nil, err
		}
		return &CallNode{base: base{at}, Name: name, Receiver: recv, Args: callArgs}, nil

	case "fcall":
		if err := arity(d, args, 1, 2); err != nil {
			return nil, err
		}
		name, err := stringAt(d, args, 0)
		if err != nil {
			return nil, err
		}
		callArgs, err := argsAt(args, 1)
		if err != nil {
			return nil, err
		}
		return &FCallNode{base: base{at}, Name: name, Args: callArgs}, nil

	case "vcall", "lvar", "const":
		if err := arity(d, args, 1, 1); err != nil {
			return nil, err
		}
		name, err := stringAt(d, args, 0)
		if err != nil {
			return nil, err
		}
		switch head {
		case "vcall":
			return &VCallNode{base: base{at}, Name: name}, nil
		case "lvar":
			return &LocalVarNode{base: base{at}, Name: name}, nil
		default:
			return &ConstNode{base: base{at}, Name: name}, nil
		}

	case "str":
		if err := arity(d, args, 1, 1); err != nil {
			return nil, err
		}
		value, err := stringAt(d, args, 0)
		if err != nil {
			return nil, err
		}
		return &StrNode{base: base{at}, Value: value}, nil

	case "fixnum":
		if err := arity(d, args, 1, 1); err != nil {
			return nil, err
		}
		if args[0].Type != sexy.NodeInteger {
			return nil, errorf(args[0], "fixnum expects an integer, got %s", args[0])
		}
		value, err := strconv.ParseInt(args[0].Text, 10, 64)
		if err != nil {
			return nil, errorf(args[0], "fixnum %s out of range", args[0].Text)
		}
		return &FixnumNode{base: base{at}, Value: value}, nil

	case "float":
		if err := arity(d, args, 1, 1); err != nil {
			return nil, err
		}
		switch args[0].Type {
		case sexy.NodeFloat:
			return &FloatNode{base: base{at}, Text: args[0].Text}, nil
		case sexy.NodeInteger:
			return &FloatNode{base: base{at}, Text: args[0].Text + ".0"}, nil
		}
		return nil, errorf(args[0], "float expects a number, got %s", args[0])

	case "newline":
		if err := arity(d, args, 1, 1); err != nil {
			return nil, err
		}
		next, err := optional(args, 0)
		if err != nil {
			return nil, err
		}
		return &NewlineNode{base: base{at}, Next: next}, nil

	case "nil", "zarray":
		if err := arity(d, args, 0, 0); err != nil {
			return nil, err
		}
		if head == "nil" {
			return &NilNode{base: base{at}}, nil
		}
		return &ZArrayNode{base: base{at}}, nil

	case "lasgn", "cdecl":
		if err := arity(d, args, 1, 2); err != nil {
			return nil, err
		}
		name, err := stringAt(d, args, 0)
		if err != nil {
			return nil, err
		}
		value, err := optional(args, 1)
		if err != nil {
			return nil, err
		}
		if head == "lasgn" {
			return &LocalAsgnNode{base: base{at}, Name: name, Value: value}, nil
		}
		return &ConstDeclNode{base: base{at}, Name: name, Value: value}, nil

	case "if":
		if err := arity(d, args, 1, 3); err != nil {
			return nil, err
		}
		n := &IfNode{base: base{at}}
		var err error
		if n.Condition, err = optional(args, 0); err != nil {
			return nil, err
		}
		if n.Then, err = optional(args, 1); err != nil {
			return nil, err
		}
		if n.Else, err = optional(args, 2); err != nil {
			return nil, err
		}
		return n, nil

	case "array":
		elements, err := decodeAll(args)
		if err != nil {
			return nil, err
		}
		return &ArrayNode{base: base{at}, Elements: elements}, nil

	case "block":
		children, err := decodeAll(args)
		if err != nil {
			return nil, err
		}
		return &BlockNode{base: base{at}, Children: children}, nil
	}

	return &UnknownNode{base: base{at}, Name: head}, nil
}

func posOf(d *sexy.Node) Pos {
	return Pos{Line: d.Pos.Line, Col: d.Pos.Col}
}

func errorf(d *sexy.Node, format string, args ...any) error {
	return &DecodeError{Pos: posOf(d), Msg: fmt.Sprintf(format, args...)}
}

func arity(d *sexy.Node, args []*sexy.Node, lo, hi int) error {
	if len(args) < lo || len(args) > hi {
		if lo == hi {
			return errorf(d, "%s expects %d operands, got %d", d.Head(), lo, len(args))
		}
		return errorf(d, "%s expects %d to %d operands, got %d", d.Head(), lo, hi, len(args))
	}
	return nil
}

func stringAt(d *sexy.Node, args []*sexy.Node, i int) (string, error) {
	if args[i].Type != sexy.NodeString {
		return "", errorf(args[i], "%s expects a string, got %s", d.Head(), args[i])
	}
	return args[i].Text, nil
}

// optional decodes args[i], treating a missing operand or _ as absent.
func optional(args []*sexy.Node, i int) (Node, error) {
	if i >= len(args) || args[i].IsSymbol("_") {
		return nil, nil
	}
	return FromSexy(args[i])
}

func argsAt(args []*sexy.Node, i int) (*ArgsNode, error) {
	if i >= len(args) || args[i].IsSymbol("_") {
		return nil, nil
	}
	list := args[i]
	if list.Type != sexy.NodeArray {
		return nil, errorf(list, "argument list must be an array, got %s", list)
	}
	children, err := decodeAll(list.Items)
	if err != nil {
		return nil, err
	}
	return &ArgsNode{base: base{posOf(list)}, Children: children}, nil
}

func stringArray(d *sexy.Node) ([]string, error) {
	if d.Type != sexy.NodeArray {
		return nil, errorf(d, "parameter list must be an array, got %s", d)
	}
	out := make([]string, 0, len(d.Items))
	for _, item := range d.Items {
		if item.Type != sexy.NodeString {
			return nil, errorf(item, "parameter names must be strings, got %s", item)
		}
		out = append(out, item.Text)
	}
	return out, nil
}

func decodeAll(items []*sexy.Node) ([]Node, error) {
	out := make([]Node, 0, len(items))
	for _, item := range items {
		n, err := FromSexy(item)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
