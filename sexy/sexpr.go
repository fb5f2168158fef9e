package sexy

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// NodeType represents the type of a Node
type NodeType int

const (
	NodeSymbol NodeType = iota
	NodeString
	NodeInteger
	NodeFloat
	NodeEllipsis
	NodeList
	NodeMap
	NodeArray
)

func (t NodeType) String() string {
	switch t {
	case NodeSymbol:
		return "symbol"
	case NodeString:
		return "string"
	case NodeInteger:
		return "integer"
	case NodeFloat:
		return "float"
	case NodeEllipsis:
		return "ellipsis"
	case NodeList:
		return "list"
	case NodeMap:
		return "map"
	case NodeArray:
		return "array"
	default:
		return fmt.Sprintf("UNKNOWN_NODE_TYPE_%d", int(t))
	}
}

// Pos is a 1-based line and column in the parsed input.
type Pos struct {
	Line int
	Col  int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Node represents any Sexy datum
type Node struct {
	Type NodeType

	// NodeSymbol, NodeString, NodeInteger, NodeFloat
	Text string

	// NodeList, NodeArray, NodeMap
	Items []*Node
	// NodeMap - parallel to Items
	Keys []string

	Pos Pos
}

func (n *Node) String() string {
	switch n.Type {
	case NodeSymbol, NodeInteger, NodeFloat:
		return n.Text
	case NodeString:
		return quote(n.Text)
	case NodeEllipsis:
		return "..."
	case NodeList:
		return "(" + joinItems(n.Items) + ")"
	case NodeArray:
		return "[" + joinItems(n.Items) + "]"
	case NodeMap:
		var parts []string
		for i, key := range n.Keys {
			if i < len(n.Items) {
				parts = append(parts, fmt.Sprintf("%s: %s", mapKey(key), n.Items[i].String()))
			}
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return n.Type.String()
	}
}

func joinItems(items []*Node) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.String()
	}
	return strings.Join(parts, " ")
}

func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// mapKey prints a key bare when it would read back as a symbol.
func mapKey(key string) string {
	if key == "" {
		return quote(key)
	}
	for i, r := range key {
		if i == 0 && !isSymbolStart(r) {
			return quote(key)
		}
		if !isSymbolChar(r) {
			return quote(key)
		}
	}
	return key
}

// Helper constructors for common node types
func NewSymbol(name string) *Node {
	return &Node{Type: NodeSymbol, Text: name}
}

func NewString(value string) *Node {
	return &Node{Type: NodeString, Text: value}
}

func NewInteger(text string) *Node {
	return &Node{Type: NodeInteger, Text: text}
}

func NewFloat(text string) *Node {
	return &Node{Type: NodeFloat, Text: text}
}

func NewEllipsis() *Node {
	return &Node{Type: NodeEllipsis}
}

func NewList(items ...*Node) *Node {
	return &Node{Type: NodeList, Items: items}
}

func NewMap(keys []string, items []*Node) *Node {
	return &Node{Type: NodeMap, Keys: keys, Items: items}
}

func NewArray(items ...*Node) *Node {
	return &Node{Type: NodeArray, Items: items}
}

// IsAtom checks if the node is an atomic value
func (n *Node) IsAtom() bool {
	switch n.Type {
	case NodeSymbol, NodeString, NodeInteger, NodeFloat, NodeEllipsis:
		return true
	}
	return false
}

// IsSymbol reports whether n is the symbol name.
func (n *Node) IsSymbol(name string) bool {
	return n != nil && n.Type == NodeSymbol && n.Text == name
}

// Head returns the leading symbol of a list, or "" if n is not a list
// starting with a symbol.
func (n *Node) Head() string {
	if n == nil || n.Type != NodeList || len(n.Items) == 0 || n.Items[0].Type != NodeSymbol {
		return ""
	}
	return n.Items[0].Text
}

// ErrIncomplete is wrapped by Parse errors caused by input ending inside
// an open list, array, map or string.
var ErrIncomplete = errors.New("unexpected end of input")

// Error is a positioned parse error.
type Error struct {
	Pos Pos
	Msg string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// MaxDepth limits how deeply lists, arrays and maps may nest. Deeper input
// is rejected instead of exhausting the stack.
const MaxDepth = 100000

type parser struct {
	lexer        *lexer
	currentToken token
	peekToken    token
	depth        int
}

// Parse parses the entire input and returns the top-level datum
func Parse(input string) (*Node, error) {
	p := &parser{lexer: newLexer(input)}
	p.nextToken()
	p.nextToken()

	result, err := p.ParseDatum()
	if p.lexer.err != nil {
		// Lexer errors take priority because they might cause confusing parser errors.
		return nil, p.lexer.err
	}
	if err != nil {
		return nil, err
	}

	if p.currentToken.Type != tokenEOF {
		return nil, p.errorf("expected EOF but got %s", p.currentToken.Type)
	}

	return result, nil
}

func (p *parser) nextToken() {
	p.currentToken = p.peekToken
	p.peekToken = p.lexer.nextToken()
}

func (p *parser) errorf(format string, args ...any) error {
	e := &Error{Pos: p.currentToken.Pos, Msg: fmt.Sprintf(format, args...)}
	if p.currentToken.Type == tokenEOF {
		e.Err = ErrIncomplete
	}
	return e
}

func (p *parser) ParseDatum() (*Node, error) {
	tok := p.currentToken
	switch tok.Type {
	case tokenLParen, tokenLBracket, tokenLBrace:
		if p.depth >= MaxDepth {
			return nil, p.errorf("nested deeper than %d levels", MaxDepth)
		}
		p.depth++
		defer func() { p.depth-- }()
	}

	var n *Node
	switch tok.Type {
	case tokenSymbol:
		n = NewSymbol(tok.Value)
		p.nextToken()
	case tokenString:
		n = NewString(tok.Value)
		p.nextToken()
	case tokenInteger:
		n = NewInteger(tok.Value)
		p.nextToken()
	case tokenFloat:
		n = NewFloat(tok.Value)
		p.nextToken()
	case tokenEllipsis:
		n = NewEllipsis()
		p.nextToken()
	case tokenLParen:
		items, err := p.parseSequence(tokenRParen)
		if err != nil {
			return nil, err
		}
		n = NewList(items...)
	case tokenLBracket:
		items, err := p.parseSequence(tokenRBracket)
		if err != nil {
			return nil, err
		}
		n = NewArray(items...)
	case tokenLBrace:
		var err error
		n, err = p.parseMap()
		if err != nil {
			return nil, err
		}
	default:
		return nil, p.errorf("unexpected token: %s", tok.Type)
	}
	n.Pos = tok.Pos
	return n, nil
}

func (p *parser) parseSequence(closing tokenType) ([]*Node, error) {
	p.nextToken() // consume opener

	var items []*Node
	for p.currentToken.Type != closing && p.currentToken.Type != tokenEOF {
		item, err := p.ParseDatum()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if p.currentToken.Type != closing {
		return nil, p.errorf("expected %s but got %s", closing, p.currentToken.Type)
	}
	p.nextToken() // consume closer
	return items, nil
}

func (p *parser) parseMap() (*Node, error) {
	p.nextToken() // consume '{'

	var keys []string
	var items []*Node
	for p.currentToken.Type != tokenRBrace && p.currentToken.Type != tokenEOF {
		// Keys are symbols, or strings for names that are not valid symbols.
		if p.currentToken.Type != tokenSymbol && p.currentToken.Type != tokenString {
			return nil, p.errorf("expected symbol or string for map key but got %s", p.currentToken.Type)
		}
		keys = append(keys, p.currentToken.Value)
		p.nextToken()

		if p.currentToken.Type != tokenColon {
			return nil, p.errorf("expected ':' after map key but got %s", p.currentToken.Type)
		}
		p.nextToken()

		value, err := p.ParseDatum()
		if err != nil {
			return nil, err
		}
		items = append(items, value)

		if p.currentToken.Type == tokenComma {
			p.nextToken()
		} else if p.currentToken.Type != tokenRBrace {
			return nil, p.errorf("expected ',' or '}' in map but got %s", p.currentToken.Type)
		}
	}

	if p.currentToken.Type != tokenRBrace {
		return nil, p.errorf("expected '}' but got %s", p.currentToken.Type)
	}
	p.nextToken() // consume '}'

	return NewMap(keys, items), nil
}

type tokenType int

const (
	tokenEOF tokenType = iota
	tokenSymbol
	tokenString
	tokenInteger
	tokenFloat
	tokenEllipsis
	tokenLParen
	tokenRParen
	tokenLBrace
	tokenRBrace
	tokenLBracket
	tokenRBracket
	tokenColon
	tokenComma
)

func (t tokenType) String() string {
	switch t {
	case tokenEOF:
		return "EOF"
	case tokenSymbol:
		return "symbol"
	case tokenString:
		return "string"
	case tokenInteger:
		return "integer"
	case tokenFloat:
		return "float"
	case tokenEllipsis:
		return "ellipsis"
	case tokenLParen:
		return "'('"
	case tokenRParen:
		return "')'"
	case tokenLBrace:
		return "'{'"
	case tokenRBrace:
		return "'}'"
	case tokenLBracket:
		return "'['"
	case tokenRBracket:
		return "']'"
	case tokenColon:
		return "':'"
	case tokenComma:
		return "','"
	default:
		return fmt.Sprintf("unknown token %d", int(t))
	}
}

type token struct {
	Type  tokenType
	Value string
	Pos   Pos
}

type lexer struct {
	input   []rune
	offset  int
	line    int
	col     int
	current rune
	err     error
}

func newLexer(input string) *lexer {
	l := &lexer{input: []rune(input), line: 1}
	l.load()
	return l
}

func (l *lexer) load() {
	if l.offset >= len(l.input) {
		l.current = 0
		return
	}
	l.current = l.input[l.offset]
}

func (l *lexer) readChar() {
	if l.offset >= len(l.input) {
		return
	}
	if l.current == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	l.offset++
	l.load()
}

func (l *lexer) peekChar() rune {
	if l.offset+1 >= len(l.input) {
		return 0
	}
	return l.input[l.offset+1]
}

func (l *lexer) pos() Pos {
	return Pos{Line: l.line, Col: l.col + 1}
}

func (l *lexer) fail(pos Pos, msg string, err error) token {
	if l.err == nil {
		l.err = &Error{Pos: pos, Msg: msg, Err: err}
	}
	l.offset = len(l.input)
	l.current = 0
	return token{Type: tokenEOF, Pos: pos}
}

func (l *lexer) skipWhitespace() {
	for unicode.IsSpace(l.current) {
		l.readChar()
	}
}

func (l *lexer) skipComment() {
	for l.current != '\n' && l.current != 0 {
		l.readChar()
	}
}

func (l *lexer) readSymbol() string {
	start := l.offset
	for isSymbolChar(l.current) && l.current != 0 {
		l.readChar()
	}
	return string(l.input[start:l.offset])
}

func (l *lexer) readString() (string, error) {
	var b strings.Builder
	l.readChar() // skip opening quote

	for l.current != '"' && l.current != 0 {
		if l.current == '\\' {
			l.readChar()
			switch l.current {
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 0:
				return "", ErrIncomplete
			default:
				return "", fmt.Errorf("invalid escape sequence: \\%c", l.current)
			}
		} else {
			b.WriteRune(l.current)
		}
		l.readChar()
	}

	if l.current != '"' {
		return "", ErrIncomplete
	}
	l.readChar() // skip closing quote

	return b.String(), nil
}

// readNumber reads an optionally signed integer or decimal literal.
func (l *lexer) readNumber() (string, bool) {
	start := l.offset
	if l.current == '+' || l.current == '-' {
		l.readChar()
	}
	for isDigit(l.current) {
		l.readChar()
	}
	isFloat := false
	if l.current == '.' && isDigit(l.peekChar()) {
		isFloat = true
		l.readChar()
		for isDigit(l.current) {
			l.readChar()
		}
	}
	if l.current == 'e' || l.current == 'E' {
		next := l.peekChar()
		if isDigit(next) || next == '-' || next == '+' {
			isFloat = true
			l.readChar()
			if l.current == '-' || l.current == '+' {
				l.readChar()
			}
			for isDigit(l.current) {
				l.readChar()
			}
		}
	}
	return string(l.input[start:l.offset]), isFloat
}

func (l *lexer) nextToken() token {
	for {
		l.skipWhitespace()

		pos := l.pos()
		single := func(t tokenType) token {
			value := string(l.current)
			l.readChar()
			return token{Type: t, Value: value, Pos: pos}
		}

		switch l.current {
		case 0:
			return token{Type: tokenEOF, Pos: pos}
		case ';':
			l.skipComment()
			continue
		case '(':
			return single(tokenLParen)
		case ')':
			return single(tokenRParen)
		case '{':
			return single(tokenLBrace)
		case '}':
			return single(tokenRBrace)
		case '[':
			return single(tokenLBracket)
		case ']':
			return single(tokenRBracket)
		case ':':
			return single(tokenColon)
		case ',':
			return single(tokenComma)
		case '"':
			str, err := l.readString()
			if err != nil {
				if errors.Is(err, ErrIncomplete) {
					return l.fail(pos, "unterminated string", ErrIncomplete)
				}
				return l.fail(pos, err.Error(), nil)
			}
			return token{Type: tokenString, Value: str, Pos: pos}
		case '.':
			if l.peekChar() == '.' {
				l.readChar()
				if l.peekChar() == '.' {
					l.readChar()
					l.readChar()
					return token{Type: tokenEllipsis, Value: "...", Pos: pos}
				}
			}
			return l.fail(pos, "unexpected character '.'", nil)
		default:
			if isDigit(l.current) || ((l.current == '+' || l.current == '-') && isDigit(l.peekChar())) {
				text, isFloat := l.readNumber()
				if isFloat {
					return token{Type: tokenFloat, Value: text, Pos: pos}
				}
				return token{Type: tokenInteger, Value: text, Pos: pos}
			}
			if isSymbolStart(l.current) || l.current == '+' || l.current == '-' {
				return token{Type: tokenSymbol, Value: l.readSymbol(), Pos: pos}
			}
			return l.fail(pos, fmt.Sprintf("unexpected character '%c'", l.current), nil)
		}
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isSymbolStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r == '$'
}

func isSymbolChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '$' || r == '+'
}
