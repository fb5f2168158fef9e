package compiler

import (
	"testing"

	"github.com/nalgeon/be"
	"github.com/strager/fastruby/javaast"
)

func TestDispatchUnit(t *testing.T) {
	methods := NewRegistry()
	methods.Record("puts", 1)
	methods.Record("$plus", 1)
	methods.Record("new", 2)
	methods.Record("to_s", 0)
	methods.Record("zip", 3)

	unit := DispatchUnit(Options{Package: "app"}, methods)
	be.Equal(t, unit.Name, DispatchClass)
	be.Equal(t, unit.FileName(), "RMethods.java")
	be.Equal(t, unit.Source(), `// Generated by fastruby. Do not edit.
package app;

public abstract class RMethods {
    public RObject $plus(RObject arg0) {
        return RNil;
    }

    public RObject puts(RObject arg0) {
        return RNil;
    }

    public RObject to_s() {
        return RNil;
    }

    public RObject zip(RObject arg0, RObject arg1, RObject arg2) {
        return RNil;
    }
}
`)
}

func TestDispatchUnitEmpty(t *testing.T) {
	unit := DispatchUnit(Options{}, NewRegistry())
	be.Equal(t, len(unit.Root.Types), 1)
	be.Equal(t, len(unit.Root.Types[0].BodyDeclarations), 0)
	be.Equal(t, unit.Source(), "// Generated by fastruby. Do not edit.\n\npublic abstract class RMethods {\n}\n")
}

func TestDispatchUnitSkipsNonIdentifiers(t *testing.T) {
	c, b := openExampleBody(DefaultOptions())
	_, err := b.Lower(mustDecode(t, `(fcall "block_given?")`))
	be.Err(t, err, nil)
	_, err = b.Lower(mustDecode(t, `(call "empty?" (lvar "a"))`))
	be.Err(t, err, nil)

	decls := DispatchUnit(Options{}, c.Methods).Root.Types[0].BodyDeclarations
	be.Equal(t, len(decls), 1)
	be.Equal(t, decls[0].(*javaast.MethodDeclaration).Name.Identifier, "empty$qmark")
}
