package parser

import (
	"github.com/veld-lang/veld/internal/diagnostic"
	"github.com/veld-lang/veld/internal/lexer"
)

// Parser holds the parser state. Syntax errors are fatal: the first
// unexpected token is reported through the diagnostics sink and the
// parse aborts.
type Parser struct {
	tokens []lexer.Token
	pos    int
	diags  *diagnostic.Diagnostics
}

// New creates a parser over an already-lexed token stream. Errors are
// reported through diags so callers can render them alongside checker
// output.
func New(tokens []lexer.Token, diags *diagnostic.Diagnostics) *Parser {
	return &Parser{tokens: tokens, diags: diags}
}

// bailout unwinds the parse after a fatal syntax error. Recovered in Parse.
type bailout struct{}

func (p *Parser) fail(line, col int, format string, args ...interface{}) {
	p.diags.Errorf(line, col, format, args...)
	panic(bailout{})
}

func (p *Parser) failSuggest(line, col int, msg, suggestion string) {
	p.diags.ErrorWithSuggestion(line, col, msg, suggestion)
	panic(bailout{})
}

// current returns the current token
func (p *Parser) current() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[p.pos]
}

// peek returns the next token without consuming
func (p *Parser) peek() lexer.Token {
	return p.peekN(1)
}

// peekN returns the token n positions ahead without consuming
func (p *Parser) peekN(n int) lexer.Token {
	if p.pos+n >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[p.pos+n]
}

// advance moves to the next token and returns the consumed token
func (p *Parser) advance() lexer.Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// expect consumes the current token if it matches the expected type,
// otherwise aborts the parse
func (p *Parser) expect(tt lexer.TokenType) lexer.Token {
	tok := p.current()
	if tok.Type != tt {
		p.fail(tok.Line, tok.Column, "expected %s, got %s", tt, tok.Type)
	}
	return p.advance()
}

// check returns true if the current token is of the given type
func (p *Parser) check(tt lexer.TokenType) bool {
	return p.current().Type == tt
}

// match consumes the current token if it matches, returns true if consumed
func (p *Parser) match(tt lexer.TokenType) bool {
	if p.check(tt) {
		p.advance()
		return true
	}
	return false
}
