// Package parser builds an ast.Program from a token slice using recursive
// descent with one function per precedence tier.
package parser

import (
	"fmt"

	"github.com/probexq/ASharpLang/internal/ast"
	"github.com/probexq/ASharpLang/internal/diagnostics"
	"github.com/probexq/ASharpLang/internal/token"
)

type Parser struct {
	tokens []token.Token
	pos    int
	file   string

	// declared shadows the code generator's symbol table so that undefined
	// names, duplicate constants and constant reassignment fail before code
	// generation starts.
	declared map[string]ast.BindingKind

	// Names declared by an imported module are only known once the module
	// is generated, so after the first import undefined-name checks are
	// left to the code generator.
	sawImport bool
}

// New creates a parser over tokens, which must end with an EOF token.
func New(tokens []token.Token, file string) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != token.EOF {
		tokens = append(tokens, token.Token{Type: token.EOF})
	}
	return &Parser{
		tokens:   tokens,
		file:     file,
		declared: make(map[string]ast.BindingKind),
	}
}

func (p *Parser) cur() token.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) peek() token.Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) curIs(t token.TokenType) bool  { return p.cur().Type == t }
func (p *Parser) peekIs(t token.TokenType) bool { return p.peek().Type == t }

func (p *Parser) advance() token.Token {
	tok := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

// expect consumes a token of type t or fails with msg (a default message
// naming both token types when msg is empty).
func (p *Parser) expect(t token.TokenType, code diagnostics.ErrorCode, msg string) (token.Token, error) {
	tok := p.cur()
	if tok.Type == t {
		p.advance()
		return tok, nil
	}
	if msg == "" {
		msg = fmt.Sprintf("expected '%s' but found %s", t, describe(tok))
	}
	return tok, p.errorf(code, tok, "%s", msg)
}

func (p *Parser) errorf(code diagnostics.ErrorCode, tok token.Token, format string, args ...any) *diagnostics.DiagnosticError {
	err := diagnostics.Errorf(code, tok, format, args...)
	err.File = p.file
	return err
}

func describe(tok token.Token) string {
	if tok.Type == token.EOF {
		return "end of input"
	}
	return fmt.Sprintf("'%s'", tok.Lexeme)
}

// ParseProgram parses the whole token stream. An empty stream yields a
// program with an empty body.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	body := &ast.Block{Token: p.cur()}
	for !p.curIs(token.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body.Statements = append(body.Statements, stmt)
	}
	return &ast.Program{File: p.file, Body: body}, nil
}
