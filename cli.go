package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/strager/fastruby/compiler"
	"github.com/strager/fastruby/javaast"
	"github.com/strager/fastruby/rubyast"
)

func showUsage() {
	fmt.Fprintf(os.Stderr, `fastruby - Compiles Ruby programs to Java

Ruby programs are read as parsed syntax trees in S-expression form.

Usage:
    fastruby <command> [arguments]

Commands:
    build <files>   Compile files to Java sources
    lower <file>    Print the Java a file compiles to
    methods <file>  List the methods a file calls, with their arity
    check <file>    Decode and compile a file, reporting errors
    watch <files>   Rebuild whenever a file changes
    repl            Compile expressions interactively
    help            Show this help message

Examples:
    fastruby build -o build/java hello.rast
    fastruby lower -sexpr hello.rast
    fastruby watch -config fastruby.yaml app.rast lib.rast

Use "fastruby <command> -h" for more information about a command.
`)
}

// newLogger logs compiler events to stderr. Without verbose, only
// warnings and errors are shown.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// mustLoadConfig loads the config or exits.
func mustLoadConfig(path string) Config {
	cfg, err := loadConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// className derives a Java class name from a file name:
// hello_world.rast becomes HelloWorld.
func className(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	var b strings.Builder
	upper := true
	for _, r := range base {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	name := b.String()
	if name == "" || unicode.IsDigit([]rune(name)[0]) {
		name = "Main" + name
	}
	return name
}

// compileSource compiles one serialized tree into a fresh compiler.
func compileSource(source string, mainClass string, cfg Config, logger *slog.Logger) (*compiler.Compiler, error) {
	root, err := rubyast.Decode(source)
	if err != nil {
		return nil, err
	}
	c := compiler.New(cfg.options())
	c.Logger = logger
	if err := c.CompileScript(mainClass, root); err != nil {
		return nil, err
	}
	return c, nil
}

// compileFile reads and compiles a file. Errors are prefixed with the file
// name.
func compileFile(filename string, mainClass string, cfg Config, logger *slog.Logger) (*compiler.Compiler, error) {
	source, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	if mainClass == "" {
		mainClass = className(filename)
	}
	logger.Debug("compiling", "file", filename, "class", mainClass)
	c, err := compileSource(string(source), mainClass, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", filename, err)
	}
	return c, nil
}

func buildCommand(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	output := fs.String("o", "", "Output directory (default: output from the config, or .)")
	configPath := fs.String("config", "", "Config file (default: "+defaultConfigPath+" if present)")
	verbose := fs.Bool("v", false, "Show verbose compilation details")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: fastruby build [-o dir] [-config file] [-v] <files>\n")
		fmt.Fprintf(os.Stderr, "Compile files to Java sources, plus %s.java\n\n", compiler.DispatchClass)
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Error: expected at least one file argument\n")
		fs.Usage()
		os.Exit(1)
	}

	cfg := mustLoadConfig(*configPath)
	if *output != "" {
		cfg.Output = *output
	}
	logger := newLogger(*verbose)

	units, err := buildFiles(context.Background(), fs.Args(), cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Compilation failed: %v\n", err)
		os.Exit(1)
	}

	if err := writeUnits(cfg.Output, units); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing Java sources: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated %d Java files in %s\n", len(units), cfg.Output)
}

func lowerCommand(args []string) {
	fs := flag.NewFlagSet("lower", flag.ExitOnError)
	asSexpr := fs.Bool("sexpr", false, "Print the Java syntax tree as S-expressions")
	configPath := fs.String("config", "", "Config file (default: "+defaultConfigPath+" if present)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: fastruby lower [-sexpr] [-config file] <file>\n")
		fmt.Fprintf(os.Stderr, "Print the Java a file compiles to\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		os.Exit(1)
	}

	cfg := mustLoadConfig(*configPath)
	c, err := compileFile(fs.Arg(0), cfg.MainClass, cfg, newLogger(false))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Compilation failed: %v\n", err)
		os.Exit(1)
	}

	printUnits(os.Stdout, c.Units, *asSexpr)
}

// printUnits writes units separated by blank lines.
func printUnits(w io.Writer, units []*compiler.Unit, asSexpr bool) {
	for i, unit := range units {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if asSexpr {
			fmt.Fprintln(w, javaast.ToSexy(unit.Root))
		} else {
			fmt.Fprint(w, unit.Source())
		}
	}
}

func methodsCommand(args []string) {
	fs := flag.NewFlagSet("methods", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: fastruby methods <file>\n")
		fmt.Fprintf(os.Stderr, "List the methods a file calls, with their arity\n")
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		os.Exit(1)
	}

	cfg := mustLoadConfig("")
	c, err := compileFile(fs.Arg(0), cfg.MainClass, cfg, newLogger(false))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Compilation failed: %v\n", err)
		os.Exit(1)
	}

	printMethods(os.Stdout, c.Methods)
}

// printMethods writes one name/arity per line, sorted by name.
func printMethods(w io.Writer, methods *compiler.Registry) {
	for _, name := range methods.Names() {
		arity, _ := methods.Arity(name)
		fmt.Fprintf(w, "%s/%d\n", name, arity)
	}
}

func checkCommand(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	verbose := fs.Bool("v", false, "Show verbose checking details")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: fastruby check [-v] <file>\n")
		fmt.Fprintf(os.Stderr, "Decode and compile a file, reporting errors\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		os.Exit(1)
	}

	filename := fs.Arg(0)

	if *verbose {
		fmt.Printf("Checking %s...\n", filename)
	}

	cfg := mustLoadConfig("")
	c, err := compileFile(filename, cfg.MainClass, cfg, newLogger(*verbose))
	if err != nil {
		fmt.Printf("%v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s: no errors found\n", filename)

	if *verbose {
		fmt.Printf("%d units, %d methods\n", len(c.Units), c.Methods.Len())
	}
}

func main() {
	if len(os.Args) < 2 {
		showUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "build":
		buildCommand(args)
	case "lower":
		lowerCommand(args)
	case "methods":
		methodsCommand(args)
	case "check":
		checkCommand(args)
	case "watch":
		watchCommand(args)
	case "repl":
		replCommand(args)
	case "help", "-h", "--help":
		showUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		showUsage()
		os.Exit(1)
	}
}
