// Package jslex tokenizes the restricted JavaScript subset the compiler
// accepts as input. It follows the teacher's own lexer/parser split
// (internal/lexer + internal/parser in the original DWScript port): a
// hand-written scanner producing a flat Token stream with line/column
// positions, consumed by a Pratt parser (internal/jsparser).
package jslex

import "github.com/kestrel-lang/js2sb3/internal/ast"

// Type identifies a lexical token category.
type Type int

const (
	ILLEGAL Type = iota
	EOF

	IDENT
	NUMBER
	STRING

	// keywords
	LET
	CONST
	VAR
	FUNCTION
	RETURN
	IF
	ELSE
	WHILE
	FOR
	TRUE
	FALSE
	NULL
	ASYNC
	AWAIT

	// punctuation
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	COMMA
	SEMICOLON
	COLON
	DOT
	ARROW // =>

	// operators
	ASSIGN      // =
	PLUS_ASSIGN // +=
	MINUS_ASSIGN
	PLUS
	MINUS
	ASTERISK
	SLASH
	PERCENT
	BANG
	INCR // ++
	DECR // --

	LT
	GT
	LTE
	GTE
	EQ      // ==
	STRICTEQ // ===
	NEQ
	STRICTNEQ
	AND_AND
	OR_OR
)

var keywords = map[string]Type{
	"let":      LET,
	"const":    CONST,
	"var":      VAR,
	"function": FUNCTION,
	"return":   RETURN,
	"if":       IF,
	"else":     ELSE,
	"while":    WHILE,
	"for":      FOR,
	"true":     TRUE,
	"false":    FALSE,
	"null":     NULL,
	"async":    ASYNC,
	"await":    AWAIT,
}

// LookupIdent classifies ident as a keyword token type, or IDENT otherwise.
func LookupIdent(ident string) Type {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// Token is one lexical unit: its type, literal text, and source position.
type Token struct {
	Type    Type
	Literal string
	Pos     ast.Position
}
