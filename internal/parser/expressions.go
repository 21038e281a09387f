package parser

import (
	"errors"
	"strconv"

	"github.com/probexq/ASharpLang/internal/ast"
	"github.com/probexq/ASharpLang/internal/config"
	"github.com/probexq/ASharpLang/internal/diagnostics"
	"github.com/probexq/ASharpLang/internal/token"
)

// Precedence, loosest first:
//
//	logic      := relational (('and' | '&' | 'or') relational)*
//	relational := addition (('<' | '>' | '==' | '!=') addition)*
//	addition   := term (('+' | '-') term)*
//	term       := unary (('*' | '/') unary)*
//	unary      := ('+' | '-' | sqrt | round | '!') unary | power
//	power      := atom ('^' unary)?

func (p *Parser) parseLogic() (ast.Expression, error) {
	return p.parseLeftAssoc(p.parseRelational, token.AND, token.OR)
}

func (p *Parser) parseRelational() (ast.Expression, error) {
	return p.parseLeftAssoc(p.parseAddition, token.LT, token.GT, token.EQ, token.NOT_EQ)
}

func (p *Parser) parseAddition() (ast.Expression, error) {
	return p.parseLeftAssoc(p.parseTerm, token.PLUS, token.MINUS)
}

func (p *Parser) parseTerm() (ast.Expression, error) {
	return p.parseLeftAssoc(p.parseUnary, token.ASTERISK, token.SLASH)
}

func (p *Parser) parseLeftAssoc(next func() (ast.Expression, error), ops ...token.TokenType) (ast.Expression, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for p.curIsAny(ops) {
		opTok := p.advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Token: opTok, Left: left, Op: opTok.Type, Right: right}
	}
	return left, nil
}

func (p *Parser) curIsAny(types []token.TokenType) bool {
	cur := p.cur().Type
	for _, t := range types {
		if cur == t {
			return true
		}
	}
	return false
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	switch p.cur().Type {
	case token.PLUS, token.MINUS, token.SQRT, token.ROUND, token.BANG:
		opTok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Token: opTok, Op: opTok.Type, Operand: operand}, nil
	}
	return p.parsePower()
}

func (p *Parser) parsePower() (ast.Expression, error) {
	base, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if !p.curIs(token.CARET) {
		return base, nil
	}
	opTok := p.advance()
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &ast.BinaryOp{Token: opTok, Left: base, Op: token.CARET, Right: exp}, nil
}

func (p *Parser) parseAtom() (ast.Expression, error) {
	tok := p.cur()
	switch tok.Type {
	case token.NUMBER:
		p.advance()
		// Literals beyond the double range evaluate to ±Inf.
		v, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil, p.errorf(diagnostics.ErrL002, tok, "malformed number '%s'", tok.Lexeme)
		}
		return &ast.Number{Token: tok, Value: v}, nil

	case token.IDENT:
		if p.peekIs(token.LPAREN) {
			p.advance()
			return p.parseCallArgs(tok, tok.Lexeme)
		}
		return p.parseVariable()

	case token.MAX, token.MIN, token.LOG:
		p.advance()
		return p.parseCallArgs(tok, tok.Lexeme)

	case token.PIPE:
		p.advance()
		inner, err := p.parseLogic()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.PIPE, diagnostics.ErrP003, "opened '|' but didn't close the modulus"); err != nil {
			return nil, err
		}
		return &ast.Call{Token: tok, Name: config.AbsFuncName, Args: []ast.Expression{inner}}, nil

	case token.LPAREN:
		p.advance()
		inner, err := p.parseLogic()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN, diagnostics.ErrP003, "opened '(' but didn't close it"); err != nil {
			return nil, err
		}
		return inner, nil
	}

	return nil, p.errorf(diagnostics.ErrP001, tok, "unexpected %s", describe(tok))
}

// parseVariable parses a read or an `x = expr` assignment.
func (p *Parser) parseVariable() (ast.Expression, error) {
	nameTok := p.advance()
	name := nameTok.Lexeme
	kind, known := p.declared[name]

	if !known && !p.sawImport {
		return nil, p.errorf(diagnostics.ErrD001, nameTok, "undefined variable '%s'", name)
	}

	if !p.curIs(token.ASSIGN) {
		return &ast.VariableRef{Token: nameTok, Name: name}, nil
	}

	if known && kind == ast.Const {
		return nil, p.errorf(diagnostics.ErrD003, nameTok, "variable '%s' is a constant and is unchangeable", name)
	}
	p.advance()
	value, err := p.parseLogic()
	if err != nil {
		return nil, err
	}
	return &ast.VariableRef{Token: nameTok, Name: name, Value: value}, nil
}

// parseCallArgs parses `( args )` for the call named name. The opening
// parenthesis is the current token. A trailing comma is accepted.
func (p *Parser) parseCallArgs(nameTok token.Token, name string) (ast.Expression, error) {
	if _, err := p.expect(token.LPAREN, diagnostics.ErrP001, "expected '(' after '"+name+"'"); err != nil {
		return nil, err
	}
	call := &ast.Call{Token: nameTok, Name: name}
	for !p.curIs(token.RPAREN) {
		arg, err := p.parseLogic()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		if p.curIs(token.EOF) {
			return nil, p.errorf(diagnostics.ErrP003, nameTok, "opened '(' after '%s' but didn't close it", name)
		}
		if !p.curIs(token.RPAREN) {
			return nil, p.errorf(diagnostics.ErrP002, p.cur(), "missing a comma between function arguments, found %s", describe(p.cur()))
		}
	}
	if _, err := p.expect(token.RPAREN, diagnostics.ErrP003, "opened '(' but didn't close it"); err != nil {
		return nil, err
	}
	return call, nil
}
