package compiler

import (
	"fmt"

	"github.com/strager/fastruby/rubyast"
)

// Error is a compile error in the input tree. Node kinds the compiler does
// not know are not errors; Error is reserved for nodes that are missing
// parts the compiler needs.
type Error struct {
	Pos rubyast.Pos
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

func errorf(pos rubyast.Pos, format string, args ...any) *Error {
	return &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
