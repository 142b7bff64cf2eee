package lexer

import (
	"fmt"
	"strconv"
)

// Error is a fatal lexical error. Scanning does not continue past the
// first malformed token.
type Error struct {
	Message string
	Line    int
	Column  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// Lexer scans Veld source code and produces tokens
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
	line         int  // current line number
	column       int  // current column number
	err          *Error
}

// New creates a new Lexer instance
func New(input string) *Lexer {
	l := &Lexer{
		input:  input,
		line:   1,
		column: 0,
	}
	l.readChar()
	return l
}

// readChar reads the next character and advances the position
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0 // ASCII code for NUL
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

// peekChar returns the next character without advancing the position
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// skipWhitespace skips whitespace characters
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		if l.ch == '\n' {
			l.line++
			l.column = 0
		}
		l.readChar()
	}
}

// skipSingleLineComment skips a single-line comment (//)
func (l *Lexer) skipSingleLineComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

// readIdentifier reads an identifier or keyword
func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readNumber reads a numeric literal: a decimal integer, a hex integer
// with a 0x prefix, or a float. A float requires at least one digit
// after the decimal point, so "3." lexes as the integer 3 followed by
// a dot.
func (l *Lexer) readNumber(tok *Token) {
	position := l.position

	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		l.readChar() // consume '0'
		l.readChar() // consume 'x'
		digits := l.position
		for isHexDigit(l.ch) {
			l.readChar()
		}
		literal := l.input[position:l.position]
		if l.position == digits {
			l.fail(tok, fmt.Sprintf("invalid hex literal '%s'", literal))
			return
		}
		value, err := strconv.ParseInt(l.input[digits:l.position], 16, 64)
		if err != nil {
			l.fail(tok, fmt.Sprintf("invalid hex literal '%s'", literal))
			return
		}
		tok.Type = INT_LIT
		tok.Literal = literal
		tok.Int = value
		return
	}

	for isDigit(l.ch) {
		l.readChar()
	}

	isFloat := false
	if l.ch == '.' && isDigit(l.peekChar()) {
		isFloat = true
		l.readChar() // consume '.'
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	literal := l.input[position:l.position]
	if isFloat {
		value, err := strconv.ParseFloat(literal, 64)
		if err != nil {
			l.fail(tok, fmt.Sprintf("invalid float literal '%s'", literal))
			return
		}
		tok.Type = FLOAT_LIT
		tok.Literal = literal
		tok.Float = value
		return
	}

	value, err := strconv.ParseInt(literal, 10, 64)
	if err != nil {
		l.fail(tok, fmt.Sprintf("integer literal '%s' out of range", literal))
		return
	}
	tok.Type = INT_LIT
	tok.Literal = literal
	tok.Int = value
}

// readString reads a string literal and returns its decoded contents.
// Strings may not span lines.
func (l *Lexer) readString() (string, bool) {
	// Opening quote is the current char
	var result []byte

	for {
		l.readChar()
		if l.ch == 0 || l.ch == '\n' {
			return "", false
		}
		if l.ch == '"' {
			break
		}
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				result = append(result, '\n')
			case 't':
				result = append(result, '\t')
			case '\\':
				result = append(result, '\\')
			case '"':
				result = append(result, '"')
			case '0':
				result = append(result, 0)
			default:
				// Unknown escape, keep the backslash
				result = append(result, '\\', l.ch)
			}
		} else {
			result = append(result, l.ch)
		}
	}

	return string(result), true
}

// readAttribute reads an '@' token. "@hot" is recognized as a
// single legacy attribute token; any other '@' is emitted on its own
// and the parser decides whether an attribute list follows.
func (l *Lexer) readAttribute(tok *Token) {
	l.readChar() // consume '@'
	if isLetter(l.ch) {
		position := l.position
		for isLetter(l.ch) || isDigit(l.ch) {
			l.readChar()
		}
		word := l.input[position:l.position]
		if word == "hot" {
			tok.Type = AT_HOT
			tok.Literal = "@hot"
			return
		}
		// Not a legacy attribute: rewind so the word lexes as an
		// identifier on the next call.
		l.position = position
		l.readPosition = position + 1
		l.ch = l.input[position]
		l.column -= len(word)
	}
	tok.Type = AT
	tok.Literal = "@"
}

func (l *Lexer) fail(tok *Token, msg string) {
	if l.err == nil {
		l.err = &Error{Message: msg, Line: tok.Line, Column: tok.Column}
	}
	tok.Type = ILLEGAL
	tok.Literal = msg
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() Token {
	var tok Token

	l.skipWhitespace()

	// Save position before processing token
	tok.Line = l.line
	tok.Column = l.column

	switch l.ch {
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			tok.Type, tok.Literal = EQ, "=="
		} else if l.peekChar() == '>' {
			l.readChar()
			tok.Type, tok.Literal = ARROW, "=>"
		} else {
			tok.Type, tok.Literal = ASSIGN, "="
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok.Type, tok.Literal = NEQ, "!="
		} else {
			tok.Type, tok.Literal = BANG, "!"
		}
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			tok.Type, tok.Literal = LEQ, "<="
		} else {
			tok.Type, tok.Literal = LT, "<"
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok.Type, tok.Literal = GEQ, ">="
		} else {
			tok.Type, tok.Literal = GT, ">"
		}
	case '&':
		if l.peekChar() == '&' {
			l.readChar()
			tok.Type, tok.Literal = ANDAND, "&&"
		} else {
			l.fail(&tok, "unexpected character '&'")
		}
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			tok.Type, tok.Literal = OROR, "||"
		} else {
			l.fail(&tok, "unexpected character '|'")
		}
	case '+':
		tok.Type, tok.Literal = PLUS, "+"
	case '-':
		tok.Type, tok.Literal = MINUS, "-"
	case '*':
		tok.Type, tok.Literal = STAR, "*"
	case '/':
		if l.peekChar() == '/' {
			l.skipSingleLineComment()
			return l.NextToken()
		}
		tok.Type, tok.Literal = SLASH, "/"
	case '%':
		tok.Type, tok.Literal = PERCENT, "%"
	case '(':
		tok.Type, tok.Literal = LPAREN, "("
	case ')':
		tok.Type, tok.Literal = RPAREN, ")"
	case '{':
		tok.Type, tok.Literal = LBRACE, "{"
	case '}':
		tok.Type, tok.Literal = RBRACE, "}"
	case '[':
		tok.Type, tok.Literal = LBRACKET, "["
	case ']':
		tok.Type, tok.Literal = RBRACKET, "]"
	case ',':
		tok.Type, tok.Literal = COMMA, ","
	case ':':
		tok.Type, tok.Literal = COLON, ":"
	case ';':
		tok.Type, tok.Literal = SEMICOLON, ";"
	case '.':
		tok.Type, tok.Literal = DOT, "."
	case '?':
		tok.Type, tok.Literal = QUESTION, "?"
	case '@':
		l.readAttribute(&tok)
		return tok // readAttribute already advanced
	case '"':
		str, ok := l.readString()
		if !ok {
			l.fail(&tok, "unterminated string literal")
		} else {
			tok.Type = STRING_LIT
			tok.Literal = str
		}
	case 0:
		tok.Type, tok.Literal = EOF, ""
		return tok
	default:
		if isLetter(l.ch) {
			ident := l.readIdentifier()
			tok.Type = LookupIdent(ident)
			tok.Literal = ident
			return tok // readIdentifier already advanced
		} else if isDigit(l.ch) {
			l.readNumber(&tok)
			return tok // readNumber already advanced
		}
		l.fail(&tok, fmt.Sprintf("unexpected character '%c'", l.ch))
	}

	l.readChar()
	return tok
}

// Tokenize scans the entire input. Scanning stops at the first
// lexical error, which is returned as a *Error with the offending
// location.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok := l.NextToken()
		if tok.Type == ILLEGAL {
			return nil, l.err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			break
		}
	}
	return tokens, nil
}

// Helper functions

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || 'a' <= ch && ch <= 'f' || 'A' <= ch && ch <= 'F'
}
