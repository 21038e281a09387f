// Package lexer turns ash source text into tokens.
package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/probexq/ASharpLang/internal/diagnostics"
	"github.com/probexq/ASharpLang/internal/token"
)

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = len(l.input)
		l.readPosition = len(l.input) + 1
		l.column++
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
	l.column++
}

func (l *Lexer) atEnd() bool {
	return l.position >= len(l.input)
}

// Tokenize scans the whole input. The returned slice always ends with EOF.
// An unrecognized character yields a LexicalError carrying its position.
func (l *Lexer) Tokenize() ([]token.Token, error) {
	var tokens []token.Token
	for {
		tok := l.NextToken()
		if tok.Type == token.ILLEGAL {
			code := diagnostics.ErrL001
			msg := fmt.Sprintf("unexpected character '%s'", tok.Lexeme)
			if len(tok.Lexeme) > 0 && (isDigit(rune(tok.Lexeme[0])) || tok.Lexeme[0] == '.') {
				code = diagnostics.ErrL002
				msg = fmt.Sprintf("malformed number '%s'", tok.Lexeme)
			}
			return nil, diagnostics.NewError(code, tok, msg)
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	line, col := l.line, l.column
	if l.atEnd() {
		return token.Token{Type: token.EOF, Line: line, Column: col}
	}

	var tok token.Token
	switch l.ch {
	case '+':
		if l.peekChar() == '#' {
			l.readChar()
			tok = token.Token{Type: token.MAX, Lexeme: "+#", Line: line, Column: col}
		} else {
			tok = newToken(token.PLUS, l.ch, line, col)
		}
	case '-':
		if l.peekChar() == '#' {
			l.readChar()
			tok = token.Token{Type: token.MIN, Lexeme: "-#", Line: line, Column: col}
		} else {
			tok = newToken(token.MINUS, l.ch, line, col)
		}
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.EQ, Lexeme: "==", Line: line, Column: col}
		} else {
			tok = newToken(token.ASSIGN, l.ch, line, col)
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.NOT_EQ, Lexeme: "!=", Line: line, Column: col}
		} else {
			tok = newToken(token.BANG, l.ch, line, col)
		}
	case '*':
		tok = newToken(token.ASTERISK, l.ch, line, col)
	case '/':
		tok = newToken(token.SLASH, l.ch, line, col)
	case '^':
		tok = newToken(token.CARET, l.ch, line, col)
	case '_':
		tok = newToken(token.SQRT, l.ch, line, col)
	case '~':
		tok = newToken(token.ROUND, l.ch, line, col)
	case '|':
		tok = newToken(token.PIPE, l.ch, line, col)
	case '&':
		tok = newToken(token.AND, l.ch, line, col)
	case '<':
		tok = newToken(token.LT, l.ch, line, col)
	case '>':
		tok = newToken(token.GT, l.ch, line, col)
	case ',':
		tok = newToken(token.COMMA, l.ch, line, col)
	case '(':
		tok = newToken(token.LPAREN, l.ch, line, col)
	case ')':
		tok = newToken(token.RPAREN, l.ch, line, col)
	case '\\':
		tok = newToken(token.GATE, l.ch, line, col)
	case '$':
		tok = newToken(token.IMPORT, l.ch, line, col)
	default:
		if isDigit(l.ch) || l.ch == '.' {
			return l.readNumber()
		}
		if unicode.IsLetter(l.ch) {
			ident := l.readIdentifier()
			return token.Token{Type: token.LookupIdent(ident), Lexeme: ident, Line: line, Column: col}
		}
		tok = newToken(token.ILLEGAL, l.ch, line, col)
	}

	l.readChar()
	return tok
}

// readIdentifier reads a letter followed by letters, digits or underscores.
func (l *Lexer) readIdentifier() string {
	position := l.position
	for unicode.IsLetter(l.ch) || unicode.IsDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readNumber reads digits with at most one decimal point. A second point
// ends the literal instead of failing, so "1.2.3" scans as "1.2" ".3".
func (l *Lexer) readNumber() token.Token {
	line, col := l.line, l.column
	position := l.position
	hasDot := false
	for isDigit(l.ch) || l.ch == '.' {
		if l.ch == '.' {
			if hasDot {
				break
			}
			hasDot = true
		}
		l.readChar()
	}

	lexeme := l.input[position:l.position]
	if lexeme == "." {
		return token.Token{Type: token.ILLEGAL, Lexeme: lexeme, Line: line, Column: col}
	}
	return token.Token{Type: token.NUMBER, Lexeme: lexeme, Line: line, Column: col}
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func newToken(tokenType token.TokenType, ch rune, line, col int) token.Token {
	return token.Token{Type: tokenType, Lexeme: string(ch), Line: line, Column: col}
}

// skipWhitespace skips blanks, line comments and non-nesting block comments.
// An unterminated block comment runs to end of input.
func (l *Lexer) skipWhitespace() {
	for {
		for !l.atEnd() && unicode.IsSpace(l.ch) {
			l.readChar()
		}
		if l.ch == '/' {
			if l.peekChar() == '/' {
				l.readChar()
				l.readChar()
				for !l.atEnd() && l.ch != '\n' {
					l.readChar()
				}
				continue
			} else if l.peekChar() == '*' {
				l.readChar()
				l.readChar()
				for !l.atEnd() {
					if l.ch == '*' && l.peekChar() == '/' {
						l.readChar()
						l.readChar()
						break
					}
					l.readChar()
				}
				continue
			}
		}
		break
	}
}
