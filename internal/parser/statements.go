package parser

import (
	"github.com/probexq/ASharpLang/internal/ast"
	"github.com/probexq/ASharpLang/internal/config"
	"github.com/probexq/ASharpLang/internal/diagnostics"
	"github.com/probexq/ASharpLang/internal/token"
)

const missingTerminator = "expected ',' at the end of the line"

// parseStatement parses one top-level statement: an import, a binding, or
// an expression that either ends with ',' or opens a guard block.
func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.cur().Type {
	case token.IMPORT:
		return p.parseImport()
	case token.LET, token.CONST, token.CONDITION:
		stmt, err := p.parseBinding()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COMMA, diagnostics.ErrP002, missingTerminator); err != nil {
			return nil, err
		}
		return stmt, nil
	}

	expr, err := p.parseLogic()
	if err != nil {
		return nil, err
	}
	if p.curIs(token.GATE) {
		guard, err := p.parseGuard(expr)
		if err != nil {
			return nil, err
		}
		// A comma after the closing gate is tolerated.
		if p.curIs(token.COMMA) {
			p.advance()
		}
		return guard, nil
	}
	if _, err := p.expect(token.COMMA, diagnostics.ErrP002, missingTerminator); err != nil {
		return nil, err
	}
	return expr, nil
}

// parseImport parses `$ident,` into an import of ident.ash. The module itself
// is read later by the code generator.
func (p *Parser) parseImport() (ast.Statement, error) {
	tok := p.advance()
	name, err := p.expect(token.IDENT, diagnostics.ErrP001, "expected a module name after '$', got "+describe(p.cur()))
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COMMA, diagnostics.ErrP002, missingTerminator); err != nil {
		return nil, err
	}
	p.sawImport = true
	return &ast.Import{Token: tok, Path: config.ModuleFileName(name.Lexeme)}, nil
}

func bindingKind(t token.TokenType) ast.BindingKind {
	switch t {
	case token.CONST:
		return ast.Const
	case token.CONDITION:
		return ast.Condition
	}
	return ast.Let
}

// parseBinding parses `let|const|condition name = expr`. Re-binding a let or
// condition name is a mutation; anything involving a constant is an error.
func (p *Parser) parseBinding() (*ast.Binding, error) {
	kindTok := p.advance()
	kind := bindingKind(kindTok.Type)

	nameTok, err := p.expect(token.IDENT, diagnostics.ErrP001, "expected a variable to assign, got "+describe(p.cur()))
	if err != nil {
		return nil, err
	}
	name := nameTok.Lexeme

	if prev, ok := p.declared[name]; ok && (prev == ast.Const || kind == ast.Const) {
		return nil, p.errorf(diagnostics.ErrD002, nameTok, "already defined variable '%s'", name)
	}

	if _, err := p.expect(token.ASSIGN, diagnostics.ErrP001, "expected '=' for variable assignment"); err != nil {
		return nil, err
	}
	init, err := p.parseLogic()
	if err != nil {
		return nil, err
	}

	p.declared[name] = kind
	return &ast.Binding{Token: kindTok, Kind: kind, Name: name, Initializer: init}, nil
}

// parseGuard parses the `\ stmts \` block following cond. Inside the block
// every statement ends with ',' except that the last one may run straight
// into the closing gate.
func (p *Parser) parseGuard(cond ast.Expression) (*ast.Guard, error) {
	open, err := p.expect(token.GATE, diagnostics.ErrP001, "")
	if err != nil {
		return nil, err
	}

	block := &ast.Block{Token: open}
	for !p.curIs(token.GATE) {
		if p.curIs(token.EOF) {
			return nil, p.errorf(diagnostics.ErrP003, open, "guard block opened here is never closed")
		}
		stmt, err := p.parseBlockStatement()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
		if p.curIs(token.GATE) {
			break
		}
		if _, err := p.expect(token.COMMA, diagnostics.ErrP002, missingTerminator); err != nil {
			return nil, err
		}
	}
	p.advance()

	return &ast.Guard{Token: open, Condition: cond, Then: block}, nil
}

// parseBlockStatement parses a statement inside a guard block. Guards do not
// nest: a gate after an expression always closes the enclosing block.
func (p *Parser) parseBlockStatement() (ast.Statement, error) {
	switch p.cur().Type {
	case token.IMPORT:
		tok := p.advance()
		name, err := p.expect(token.IDENT, diagnostics.ErrP001, "expected a module name after '$', got "+describe(p.cur()))
		if err != nil {
			return nil, err
		}
		p.sawImport = true
		return &ast.Import{Token: tok, Path: config.ModuleFileName(name.Lexeme)}, nil
	case token.LET, token.CONST, token.CONDITION:
		return p.parseBinding()
	}
	return p.parseLogic()
}
