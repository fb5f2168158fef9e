package sexy

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// InputType is the language of a test case's input fence.
type InputType string

const (
	// InputTypeRubyExpr is a single source expression lowered inside a
	// method body.
	InputTypeRubyExpr InputType = "ruby-expr"
	// InputTypeRubyAST is a whole script compiled into compilation units.
	InputTypeRubyAST InputType = "ruby-ast"
)

// AssertionType is the language of an assertion fence.
type AssertionType string

const (
	AssertionTypeJava         AssertionType = "java"
	AssertionTypeJavaAST      AssertionType = "java-ast"
	AssertionTypeBody         AssertionType = "body"
	AssertionTypeMembers      AssertionType = "members"
	AssertionTypeMethods      AssertionType = "methods"
	AssertionTypeCompileError AssertionType = "compile-error"
)

// parsed reports whether assertions of type t hold S-expressions.
func (t AssertionType) parsed() bool {
	return t == AssertionTypeJavaAST || t == AssertionTypeMethods
}

type Assertion struct {
	Type    AssertionType
	Content string // fence body without the trailing newline
	// ParsedSexy is set for java-ast and methods assertions.
	ParsedSexy *Node
	Line       int
}

// TestCase is one "## Test: name" section of a Markdown test file: an
// input fence followed by one or more assertion fences.
type TestCase struct {
	Name       string
	Input      string
	InputType  InputType
	Assertions []Assertion
	Line       int // line of the heading
}

// ExtractTestCases finds the test cases in a Markdown document. Code
// fences without a language are ignored; any other fence must belong to a
// test case and have a known language.
func ExtractTestCases(markdownContent string) ([]TestCase, error) {
	e := &extractor{source: []byte(markdownContent)}
	doc := goldmark.New().Parser().Parse(text.NewReader(e.source))
	if err := ast.Walk(doc, e.visit); err != nil {
		return nil, fmt.Errorf("error walking markdown AST: %w", err)
	}
	if err := e.finish(); err != nil {
		return nil, err
	}
	return e.cases, nil
}

type extractor struct {
	source  []byte
	cases   []TestCase
	current *TestCase
}

func (e *extractor) visit(node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	var err error
	switch n := node.(type) {
	case *ast.Heading:
		err = e.heading(n)
	case *ast.FencedCodeBlock:
		err = e.fence(n)
	}
	if err != nil {
		return ast.WalkStop, err
	}
	return ast.WalkContinue, nil
}

func (e *extractor) heading(h *ast.Heading) error {
	name, ok := strings.CutPrefix(plainText(h, e.source), "Test: ")
	if !ok {
		return nil
	}
	if err := e.finish(); err != nil {
		return err
	}
	e.current = &TestCase{
		Name:       name,
		Assertions: []Assertion{},
		Line:       e.lineOf(h),
	}
	return nil
}

func (e *extractor) fence(block *ast.FencedCodeBlock) error {
	language := string(block.Language(e.source))
	line := e.lineOf(block)
	tc := e.current

	if tc == nil {
		switch {
		case language == "":
			return nil
		case isInputFence(language) || isAssertionFence(language):
			return fmt.Errorf("line %d: %s fence found outside of test case", line, language)
		default:
			return fmt.Errorf("line %d: unknown fence language '%s' found outside of test case", line, language)
		}
	}

	content := strings.TrimRight(fenceContent(block, e.source), "\n")
	switch {
	case language == "":
	case isInputFence(language):
		if tc.Input != "" {
			return fmt.Errorf("line %d: multiple input fences found in test '%s'", line, tc.Name)
		}
		tc.Input = content
		tc.InputType = InputType(language)
	case isAssertionFence(language):
		a := Assertion{Type: AssertionType(language), Content: content, Line: line}
		if a.Type.parsed() {
			node, err := Parse(content)
			if err != nil {
				return fmt.Errorf("line %d: failed to parse Sexy assertion in test '%s': %w", line, tc.Name, err)
			}
			a.ParsedSexy = node
		}
		tc.Assertions = append(tc.Assertions, a)
	default:
		return fmt.Errorf("line %d: unknown fence language '%s' in test '%s'", line, language, tc.Name)
	}
	return nil
}

// finish checks and saves the test case in progress, if any.
func (e *extractor) finish() error {
	tc := e.current
	if tc == nil {
		return nil
	}
	e.current = nil
	if tc.Input == "" {
		return fmt.Errorf("test '%s' has no input fence", tc.Name)
	}
	if len(tc.Assertions) == 0 {
		return fmt.Errorf("test '%s' has no assertion fences", tc.Name)
	}
	e.cases = append(e.cases, *tc)
	return nil
}

// lineOf returns the 1-based line a node starts on. For fences this is the
// first content line.
func (e *extractor) lineOf(node ast.Node) int {
	start := 0
	if node.Lines().Len() > 0 {
		start = node.Lines().At(0).Start
	} else if t, ok := node.FirstChild().(*ast.Text); ok {
		start = t.Segment.Start
	}
	start = min(start, len(e.source))
	return bytes.Count(e.source[:start], []byte("\n")) + 1
}

func plainText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func fenceContent(block *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	lines := block.Lines()
	for i := range lines.Len() {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.String()
}

func isInputFence(language string) bool {
	switch InputType(language) {
	case InputTypeRubyExpr, InputTypeRubyAST:
		return true
	}
	return false
}

func isAssertionFence(language string) bool {
	switch AssertionType(language) {
	case AssertionTypeJava, AssertionTypeJavaAST, AssertionTypeBody,
		AssertionTypeMembers, AssertionTypeMethods, AssertionTypeCompileError:
		return true
	}
	return false
}
