// Package jsparser implements the parser adapter (§4.1): a Pratt parser
// over the restricted JavaScript subset, producing the standardized AST in
// internal/ast. It mirrors the teacher's parser architecture (a
// precedence-table-driven recursive descent over a pre-scanned token
// stream) applied to a much smaller grammar.
package jsparser

import (
	"fmt"

	"github.com/kestrel-lang/js2sb3/internal/ast"
	"github.com/kestrel-lang/js2sb3/internal/diag"
	"github.com/kestrel-lang/js2sb3/internal/jslex"
)

// Precedence levels, lowest to highest.
const (
	_ int = iota
	lowest
	assignPrec
	logicOr
	logicAnd
	equality
	relational
	sum
	product
	prefixPrec
	callPrec
	memberPrec
)

var precedences = map[jslex.Type]int{
	jslex.ASSIGN:       assignPrec,
	jslex.PLUS_ASSIGN:  assignPrec,
	jslex.MINUS_ASSIGN: assignPrec,
	jslex.OR_OR:        logicOr,
	jslex.AND_AND:      logicAnd,
	jslex.EQ:           equality,
	jslex.STRICTEQ:     equality,
	jslex.NEQ:          equality,
	jslex.STRICTNEQ:    equality,
	jslex.LT:           relational,
	jslex.GT:           relational,
	jslex.LTE:          relational,
	jslex.GTE:          relational,
	jslex.PLUS:         sum,
	jslex.MINUS:        sum,
	jslex.ASTERISK:     product,
	jslex.SLASH:        product,
	jslex.PERCENT:      product,
	jslex.LPAREN:       callPrec,
	jslex.DOT:          memberPrec,
	jslex.LBRACKET:     memberPrec,
	jslex.INCR:         memberPrec,
	jslex.DECR:         memberPrec,
}

// Parser consumes a pre-scanned token stream and produces an *ast.Program.
// Tokenizing up front (rather than streaming single-token lookahead) keeps
// arrow-function disambiguation (a parenthesized expression vs. a parameter
// list followed by "=>") a simple forward scan instead of a backtracking
// lexer.
type Parser struct {
	tokens []jslex.Token
	pos    int
	source string
	file   string
}

// New tokenizes source completely and returns a Parser over the stream.
func New(source, file string) *Parser {
	l := jslex.New(source)
	var tokens []jslex.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == jslex.EOF {
			break
		}
	}
	return &Parser{tokens: tokens, source: source, file: file}
}

// Parse runs the parser adapter end to end, returning the standardized AST
// or a *diag.ParseError on the first lexical or syntactic error.
func Parse(source, file string) (*ast.Program, error) {
	p := New(source, file)
	return p.ParseProgram()
}

func (p *Parser) cur() jslex.Token { return p.tokens[p.pos] }

func (p *Parser) peek(offset int) jslex.Token {
	idx := p.pos + offset
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[idx]
}

func (p *Parser) advance() jslex.Token {
	tok := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) errorf(pos ast.Position, format string, args ...interface{}) error {
	return &diag.ParseError{
		Message: fmt.Sprintf(format, args...),
		Pos:     pos,
		Source:  p.source,
		File:    p.file,
	}
}

func (p *Parser) expect(t jslex.Type, what string) (jslex.Token, error) {
	if p.cur().Type != t {
		return jslex.Token{}, p.errorf(p.cur().Pos, "expected %s, found %q", what, p.cur().Literal)
	}
	return p.advance(), nil
}

// skipSemicolon consumes an optional trailing semicolon (ASI-lite).
func (p *Parser) skipSemicolon() {
	if p.cur().Type == jslex.SEMICOLON {
		p.advance()
	}
}

func toPos(t jslex.Token) ast.Position { return t.Pos }
