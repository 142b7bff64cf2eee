package lexer

import "fmt"

// TokenType represents the type of a token
type TokenType int

const (
	// Special tokens
	ILLEGAL TokenType = iota
	EOF

	// Literals
	IDENT      // x, position, update_physics
	INT_LIT    // 123, 0xFF
	FLOAT_LIT  // 123.45
	STRING_LIT // "hello"

	// Keywords
	FN
	LET
	IF
	ELSE
	WHILE
	LOOP
	FOR
	IN
	MATCH
	RETURN
	BREAK
	CONTINUE
	DEFER
	STRUCT
	COMPONENT
	COMPONENT_SOA
	SYSTEM
	SHADER
	VERTEX
	FRAGMENT
	COMPUTE
	GEOMETRY
	TESS_CONTROL
	TESS_EVALUATION
	QUERY
	EXTERN
	RESOURCE
	PIPELINE
	LAYOUT
	BINDING
	UNIFORM
	STORAGE
	SAMPLER2D
	TRUE
	FALSE
	NULL

	// Attributes
	AT_HOT // @hot
	AT     // @ introducing an @[...] attribute list

	// Type keywords
	I32_TYPE
	I64_TYPE
	F32_TYPE
	F64_TYPE
	BOOL_TYPE
	STRING_TYPE
	VOID_TYPE

	// Operators
	PLUS     // +
	MINUS    // -
	STAR     // *
	SLASH    // /
	PERCENT  // %
	EQ       // ==
	NEQ      // !=
	LT       // <
	GT       // >
	LEQ      // <=
	GEQ      // >=
	ANDAND   // &&
	OROR     // ||
	BANG     // !
	ASSIGN   // =
	QUESTION // ?
	ARROW    // =>

	// Delimiters
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	LBRACKET  // [
	RBRACKET  // ]
	COMMA     // ,
	COLON     // :
	SEMICOLON // ;
	DOT       // .
)

// Token represents a lexical token. Integer and float literals carry
// their decoded values alongside the raw literal text.
type Token struct {
	Type    TokenType
	Literal string
	Int     int64   // decoded value when Type == INT_LIT
	Float   float64 // decoded value when Type == FLOAT_LIT
	Line    int
	Column  int
}

var tokenNames = map[TokenType]string{
	ILLEGAL:         "ILLEGAL",
	EOF:             "EOF",
	IDENT:           "identifier",
	INT_LIT:         "integer literal",
	FLOAT_LIT:       "float literal",
	STRING_LIT:      "string literal",
	FN:              "'fn'",
	LET:             "'let'",
	IF:              "'if'",
	ELSE:            "'else'",
	WHILE:           "'while'",
	LOOP:            "'loop'",
	FOR:             "'for'",
	IN:              "'in'",
	MATCH:           "'match'",
	RETURN:          "'return'",
	BREAK:           "'break'",
	CONTINUE:        "'continue'",
	DEFER:           "'defer'",
	STRUCT:          "'struct'",
	COMPONENT:       "'component'",
	COMPONENT_SOA:   "'component_soa'",
	SYSTEM:          "'system'",
	SHADER:          "'shader'",
	VERTEX:          "'vertex'",
	FRAGMENT:        "'fragment'",
	COMPUTE:         "'compute'",
	GEOMETRY:        "'geometry'",
	TESS_CONTROL:    "'tessellation_control'",
	TESS_EVALUATION: "'tessellation_evaluation'",
	QUERY:           "'query'",
	EXTERN:          "'extern'",
	RESOURCE:        "'resource'",
	PIPELINE:        "'pipeline'",
	LAYOUT:          "'layout'",
	BINDING:         "'binding'",
	UNIFORM:         "'uniform'",
	STORAGE:         "'storage'",
	SAMPLER2D:       "'sampler2D'",
	TRUE:            "'true'",
	FALSE:           "'false'",
	NULL:            "'null'",
	AT_HOT:          "'@hot'",
	AT:              "'@'",
	I32_TYPE:        "'i32'",
	I64_TYPE:        "'i64'",
	F32_TYPE:        "'f32'",
	F64_TYPE:        "'f64'",
	BOOL_TYPE:       "'bool'",
	STRING_TYPE:     "'string'",
	VOID_TYPE:       "'void'",
	PLUS:            "'+'",
	MINUS:           "'-'",
	STAR:            "'*'",
	SLASH:           "'/'",
	PERCENT:         "'%'",
	EQ:              "'=='",
	NEQ:             "'!='",
	LT:              "'<'",
	GT:              "'>'",
	LEQ:             "'<='",
	GEQ:             "'>='",
	ANDAND:          "'&&'",
	OROR:            "'||'",
	BANG:            "'!'",
	ASSIGN:          "'='",
	QUESTION:        "'?'",
	ARROW:           "'=>'",
	LPAREN:          "'('",
	RPAREN:          "')'",
	LBRACE:          "'{'",
	RBRACE:          "'}'",
	LBRACKET:        "'['",
	RBRACKET:        "']'",
	COMMA:           "','",
	COLON:           "':'",
	SEMICOLON:       "';'",
	DOT:             "'.'",
}

// String returns a readable name for the token type, suitable for
// use in syntax error messages.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// keywords maps keyword strings to their token types
var keywords = map[string]TokenType{
	"fn":                      FN,
	"let":                     LET,
	"if":                      IF,
	"else":                    ELSE,
	"while":                   WHILE,
	"loop":                    LOOP,
	"for":                     FOR,
	"in":                      IN,
	"match":                   MATCH,
	"return":                  RETURN,
	"break":                   BREAK,
	"continue":                CONTINUE,
	"defer":                   DEFER,
	"struct":                  STRUCT,
	"component":               COMPONENT,
	"component_soa":           COMPONENT_SOA,
	"system":                  SYSTEM,
	"shader":                  SHADER,
	"vertex":                  VERTEX,
	"fragment":                FRAGMENT,
	"compute":                 COMPUTE,
	"geometry":                GEOMETRY,
	"tessellation_control":    TESS_CONTROL,
	"tessellation_evaluation": TESS_EVALUATION,
	"query":                   QUERY,
	"extern":                  EXTERN,
	"resource":                RESOURCE,
	"pipeline":                PIPELINE,
	"layout":                  LAYOUT,
	"binding":                 BINDING,
	"uniform":                 UNIFORM,
	"storage":                 STORAGE,
	"sampler2D":               SAMPLER2D,
	"true":                    TRUE,
	"false":                   FALSE,
	"null":                    NULL,
	"i32":                     I32_TYPE,
	"i64":                     I64_TYPE,
	"f32":                     F32_TYPE,
	"f64":                     F64_TYPE,
	"bool":                    BOOL_TYPE,
	"string":                  STRING_TYPE,
	"void":                    VOID_TYPE,
}

// LookupIdent checks if an identifier is a keyword
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
