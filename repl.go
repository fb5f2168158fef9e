package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/peterh/liner"
	"github.com/strager/fastruby/compiler"
	"github.com/strager/fastruby/javaast"
	"github.com/strager/fastruby/rubyast"
	"github.com/strager/fastruby/sexy"
)

const (
	historyFile = ".fastruby_history"
	promptMain  = "rb> "
	promptCont  = "... "
	replClass   = "Repl"
)

const replHelp = `Enter Ruby syntax trees like (call "+" (fixnum 1) [(fixnum 2)]).
Locals and methods persist between inputs.

Commands:
    :methods  List called methods with their arity
    :units    List generated classes
    :source   Print the generated Repl class
    :reset    Start over with an empty class
    :quit     Exit
`

// replSession compiles inputs one after another into the body of a single
// method, so locals declared by one input are visible to the next.
type replSession struct {
	cfg      Config
	compiler *compiler.Compiler
	class    *compiler.ClassCompiler
	body     *compiler.BodyCompiler
}

func newReplSession(cfg Config) *replSession {
	c := compiler.New(cfg.options())
	class := c.NewClass(c.NewUnit(replClass), replClass)
	return &replSession{
		cfg:      cfg,
		compiler: c,
		class:    class,
		body:     class.OpenBody(),
	}
}

// eval compiles src as statements of the session's method and returns the
// Java it added: new classes, then new members of the Repl class, then new
// statements. A bare variable reference adds nothing, so when the last
// statement is one its name is shown instead.
//
// If compilation fails, the session is left as it was before the input.
func (s *replSession) eval(src string) (string, error) {
	root, err := rubyast.Decode(src)
	if err != nil {
		return "", err
	}

	units := len(s.compiler.Units)
	members := len(s.class.Decl.BodyDeclarations)
	stmts := len(s.body.Body.Statements)
	cp := s.body.Checkpoint()

	var last javaast.Expression
	for _, stmt := range rubyast.Statements(root) {
		expr, err := s.body.Lower(stmt)
		if err != nil {
			cp.Restore()
			return "", err
		}
		s.body.Emit(expr)
		last = expr
	}

	var out []string
	for _, unit := range s.compiler.Units[units:] {
		out = append(out, unit.Source())
	}
	for _, member := range s.class.Decl.BodyDeclarations[members:] {
		out = append(out, javaast.Print(member))
	}
	for _, stmt := range s.body.Body.Statements[stmts:] {
		out = append(out, javaast.Print(stmt))
	}
	if name, ok := last.(javaast.Name); ok {
		out = append(out, javaast.Print(name))
	}
	for i := range out {
		out[i] = strings.TrimRight(out[i], "\n")
	}
	return strings.Join(out, "\n"), nil
}

// source prints the Repl class with the inputs so far as its toplevel
// method, which returns RNil.
func (s *replSession) source() string {
	unit := s.compiler.Units[0]
	ast := unit.AST
	decl := s.class.Decl

	ret := ast.NewReturnStatement()
	ret.Expression = ast.NewSimpleName(compiler.NilName)
	body := ast.NewBlock()
	body.Statements = append(slices.Clone(s.body.Body.Statements), ret)

	method := ast.NewMethodDeclaration()
	method.Modifiers = ast.NewModifiers(javaast.PublicKeyword)
	method.ReturnType = ast.NewSimpleType(ast.NewSimpleName(compiler.ObjectClass))
	method.Name = ast.NewSimpleName(compiler.ToplevelMethod)
	method.Body = body

	saved := decl.BodyDeclarations
	decl.BodyDeclarations = append(saved[:len(saved):len(saved)], method)
	defer func() { decl.BodyDeclarations = saved }()
	return unit.Source()
}

// command runs a :command. It returns false for :quit.
func (s *replSession) command(w io.Writer, cmd string) bool {
	switch cmd {
	case ":quit", ":q":
		return false
	case ":methods":
		printMethods(w, s.compiler.Methods)
	case ":units":
		for _, unit := range s.compiler.Units {
			fmt.Fprintln(w, unit.FileName())
		}
	case ":source":
		fmt.Fprint(w, s.source())
	case ":reset":
		*s = *newReplSession(s.cfg)
	case ":help":
		fmt.Fprint(w, replHelp)
	default:
		fmt.Fprintf(w, "unknown command %s. Type :help for a list.\n", cmd)
	}
	return true
}

func replCommand(args []string) {
	fs := flag.NewFlagSet("repl", flag.ExitOnError)
	configPath := fs.String("config", "", "Config file (default: "+defaultConfigPath+" if present)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: fastruby repl [-config file]\n")
		fmt.Fprintf(os.Stderr, "Compile expressions interactively\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	session := newReplSession(mustLoadConfig(*configPath))

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Print("fastruby repl. Type :help for help.\n")
	for {
		src, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			return
		}

		src = strings.TrimSpace(src)
		if src == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))

		if strings.HasPrefix(src, ":") {
			if !session.command(os.Stdout, strings.ToLower(src)) {
				return
			}
			continue
		}

		out, err := session.eval(src)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		if out != "" {
			fmt.Println(out)
		}
	}
}

// readByParseProbe reads lines until they form a complete S-expression or
// a line that does not parse for another reason.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl-C drops the pending input.
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		if _, err := sexy.Parse(src); errors.Is(err, sexy.ErrIncomplete) {
			continue
		}
		return src, true
	}
}
