package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/strager/fastruby/compiler"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	be.Err(t, os.WriteFile(path, []byte(content), 0o644), nil)
	return path
}

func TestClassName(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"hello.rast", "Hello"},
		{"dir/hello_world.rast", "HelloWorld"},
		{"my-app.v2.rast", "MyAppV2"},
		{"AlreadyCamel", "AlreadyCamel"},
		{"2fast.rast", "Main2fast"},
		{"___.rast", "Main"},
	}
	for _, test := range tests {
		t.Run(test.filename, func(t *testing.T) {
			be.Equal(t, className(test.filename), test.want)
		})
	}
}

func TestCompileFileUsesClassName(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "hello_world.rast", `(fcall "puts" [(str "hi")])`)

	c, err := compileFile(path, "", defaultConfig(), quietLogger())
	be.Err(t, err, nil)
	be.Equal(t, len(c.Units), 1)
	be.Equal(t, c.Units[0].Name, "HelloWorld")

	c, err = compileFile(path, "Entry", defaultConfig(), quietLogger())
	be.Err(t, err, nil)
	be.Equal(t, c.Units[0].Name, "Entry")
}

func TestCompileFileErrorsNameTheFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.rast", "(block\n  (lasgn \"x\" _))")

	_, err := compileFile(path, "", defaultConfig(), quietLogger())
	be.Equal(t, err.Error(), path+":2:3: assignment to x has no value")

	_, err = compileFile(filepath.Join(dir, "missing.rast"), "", defaultConfig(), quietLogger())
	be.True(t, errors.Is(err, os.ErrNotExist))
}

func TestBuildFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.rast", `(fcall "puts" [(str "a")])`)
	b := writeFile(t, dir, "b.rast", `(block
		(class "Point" (defn "x" [] (fixnum 1)))
		(call "+" (fixnum 1) [(fixnum 2)]))`)

	units, err := buildFiles(context.Background(), []string{a, b}, defaultConfig(), quietLogger())
	be.Err(t, err, nil)

	var names []string
	for _, unit := range units {
		names = append(names, unit.Name)
	}
	be.Equal(t, names, []string{"A", "B", "Point", compiler.DispatchClass})

	dispatch := units[len(units)-1].Source()
	be.True(t, strings.Contains(dispatch, "public RObject $plus(RObject arg0) {"))
	be.True(t, strings.Contains(dispatch, "public RObject puts(RObject arg0) {"))
	be.True(t, !strings.Contains(dispatch, " new("))
}

func TestBuildFilesLaterArityWins(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.rast", `(fcall "log" [(str "a")])`)
	b := writeFile(t, dir, "b.rast", `(fcall "log" [(str "a") (str "b")])`)

	units, err := buildFiles(context.Background(), []string{a, b}, defaultConfig(), quietLogger())
	be.Err(t, err, nil)
	dispatch := units[len(units)-1].Source()
	be.True(t, strings.Contains(dispatch, "public RObject log(RObject arg0, RObject arg1) {"))
}

func TestBuildFilesDuplicateClass(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.rast", `(class "Shared" (nil))`)
	b := writeFile(t, dir, "b.rast", `(class "Shared" (nil))`)

	_, err := buildFiles(context.Background(), []string{a, b}, defaultConfig(), quietLogger())
	be.Equal(t, err.Error(), "class Shared is defined by both "+a+" and "+b)
}

func TestBuildFilesClassDefinedTwiceInOneFile(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.rast", `(block (class "Foo" (nil)) (class "Foo" (nil)))`)

	_, err := buildFiles(context.Background(), []string{a}, defaultConfig(), quietLogger())
	be.Equal(t, err.Error(), a+": class Foo is defined more than once")
}

func TestBuildFilesReservedName(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "r_methods.rast", `(nil)`)

	_, err := buildFiles(context.Background(), []string{a}, defaultConfig(), quietLogger())
	be.Equal(t, err.Error(), a+": class name RMethods is reserved")
}

func TestBuildFilesReportsFirstError(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.rast", `(nil)`)
	bad := writeFile(t, dir, "bad.rast", `(call "x" _)`)

	_, err := buildFiles(context.Background(), []string{good, bad}, defaultConfig(), quietLogger())
	be.Equal(t, err.Error(), bad+":1:1: call to x has no receiver")
}

func TestWriteUnits(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "hello.rast", `(fcall "puts" [(str "hi")])`)
	out := filepath.Join(dir, "build", "java")

	units, err := buildFiles(context.Background(), []string{src}, defaultConfig(), quietLogger())
	be.Err(t, err, nil)
	be.Err(t, writeUnits(out, units), nil)

	for _, unit := range units {
		data, err := os.ReadFile(filepath.Join(out, unit.FileName()))
		be.Err(t, err, nil)
		be.Equal(t, string(data), unit.Source())
	}

	entries, err := os.ReadDir(out)
	be.Err(t, err, nil)
	be.Equal(t, len(entries), 2)
}

func TestPrintMethods(t *testing.T) {
	methods := compiler.NewRegistry()
	methods.Record("puts", 1)
	methods.Record("$plus", 1)
	methods.Record("to_s", 0)

	var buf bytes.Buffer
	printMethods(&buf, methods)
	be.Equal(t, buf.String(), "$plus/1\nputs/1\nto_s/0\n")
}

func TestPrintUnits(t *testing.T) {
	c, err := compileSource(`(nil)`, "Empty", defaultConfig(), quietLogger())
	be.Err(t, err, nil)

	var buf bytes.Buffer
	printUnits(&buf, c.Units, true)
	be.True(t, strings.HasPrefix(buf.String(), `(unit _ (class [public] "Empty" "RObject"`))

	buf.Reset()
	printUnits(&buf, c.Units, false)
	be.Equal(t, buf.String(), c.Units[0].Source())
}
