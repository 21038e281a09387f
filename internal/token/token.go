// Package token defines the lexical tokens of the ash language.
package token

import "fmt"

type TokenType int

const (
	ILLEGAL TokenType = iota
	EOF

	// Literals
	NUMBER // 3, 2.5, .5
	IDENT  // x, total_1

	// Arithmetic
	PLUS     // +
	MINUS    // -
	ASTERISK // *
	SLASH    // /
	CARET    // ^

	// Unary sigils
	SQRT  // _
	ROUND // ~
	PIPE  // | (absolute value delimiter)
	BANG  // !

	// Logic and comparison
	AND    // and, &
	OR     // or
	LT     // <
	GT     // >
	EQ     // ==
	NOT_EQ // !=

	// Built-in call sigils
	MAX // +#
	MIN // -#

	// Punctuation
	ASSIGN // =
	COMMA  // ,
	LPAREN // (
	RPAREN // )
	GATE   // \
	IMPORT // $

	// Keywords
	LET       // let
	CONST     // const
	CONDITION // condition
	LOG       // log
)

var typeNames = [...]string{
	ILLEGAL:   "ILLEGAL",
	EOF:       "EOF",
	NUMBER:    "NUMBER",
	IDENT:     "IDENT",
	PLUS:      "+",
	MINUS:     "-",
	ASTERISK:  "*",
	SLASH:     "/",
	CARET:     "^",
	SQRT:      "_",
	ROUND:     "~",
	PIPE:      "|",
	BANG:      "!",
	AND:       "and",
	OR:        "or",
	LT:        "<",
	GT:        ">",
	EQ:        "==",
	NOT_EQ:    "!=",
	MAX:       "+#",
	MIN:       "-#",
	ASSIGN:    "=",
	COMMA:     ",",
	LPAREN:    "(",
	RPAREN:    ")",
	GATE:      "\\",
	IMPORT:    "$",
	LET:       "let",
	CONST:     "const",
	CONDITION: "condition",
	LOG:       "log",
}

func (t TokenType) String() string {
	if t >= 0 && int(t) < len(typeNames) && typeNames[t] != "" {
		return typeNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token is a single lexeme with its 1-based source position.
type Token struct {
	Type   TokenType
	Lexeme string
	Line   int
	Column int
}

func (t Token) String() string {
	return fmt.Sprintf("Token(%s, %q)", t.Type, t.Lexeme)
}

var keywords = map[string]TokenType{
	"let":       LET,
	"const":     CONST,
	"condition": CONDITION,
	"log":       LOG,
	"and":       AND,
	"or":        OR,
}

// LookupIdent reclassifies keyword identifiers to their dedicated kinds.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
