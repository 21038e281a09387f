// Package mutator applies random, structure-preserving edits to parsed
// programs. Mutated trees are still well formed ASTs but may no longer be
// valid programs (wrong arity, unknown calls, const reassignment).
package mutator

import (
	"math/rand"
	"slices"

	"github.com/probexq/ASharpLang/internal/ast"
	"github.com/probexq/ASharpLang/internal/token"
)

// ASTMutator applies random mutations to an AST.
type ASTMutator struct {
	rnd *rand.Rand
}

// NewASTMutator creates a new ASTMutator with the given seed.
func NewASTMutator(seed int64) *ASTMutator {
	return &ASTMutator{
		rnd: rand.New(rand.NewSource(seed)),
	}
}

var (
	binaryOps = []token.TokenType{
		token.PLUS, token.MINUS, token.ASTERISK, token.SLASH, token.CARET,
		token.LT, token.GT, token.EQ, token.NOT_EQ, token.AND, token.OR,
	}
	unaryOps  = []token.TokenType{token.PLUS, token.MINUS, token.SQRT, token.ROUND, token.BANG}
	callNames = []string{"MAX", "+#", "MIN", "-#", "ABS", "LOG", "log", "sqrt"}
	kinds     = []ast.BindingKind{ast.Let, ast.Const, ast.Condition}
)

// Mutate applies one random mutation to the program in place.
func (m *ASTMutator) Mutate(program *ast.Program) {
	if program == nil || program.Body == nil {
		return
	}
	m.mutateBlock(program.Body)
}

func (m *ASTMutator) mutateBlock(block *ast.Block) {
	if block == nil || len(block.Statements) == 0 {
		return
	}
	idx := m.rnd.Intn(len(block.Statements))

	switch r := m.rnd.Float32(); {
	case r < 0.1:
		block.Statements = slices.Delete(block.Statements, idx, idx+1)
		return
	case r < 0.2:
		block.Statements = slices.Insert(block.Statements, idx, block.Statements[idx])
		return
	}
	m.mutateStatement(block.Statements[idx])
}

func (m *ASTMutator) mutateStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.Binding:
		if m.rnd.Float32() < 0.3 {
			s.Kind = kinds[m.rnd.Intn(len(kinds))]
			return
		}
		m.mutateExpression(s.Initializer)
	case *ast.Guard:
		if m.rnd.Float32() < 0.4 {
			m.mutateExpression(s.Condition)
		} else {
			m.mutateBlock(s.Then)
		}
	case *ast.Block:
		m.mutateBlock(s)
	case ast.Expression:
		m.mutateExpression(s)
	}
}

func (m *ASTMutator) mutateExpression(expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.BinaryOp:
		r := m.rnd.Float32()
		if r < 0.33 {
			e.Op = binaryOps[m.rnd.Intn(len(binaryOps))]
		} else if r < 0.66 {
			m.mutateExpression(e.Left)
		} else {
			m.mutateExpression(e.Right)
		}
	case *ast.UnaryOp:
		if m.rnd.Float32() < 0.5 {
			e.Op = unaryOps[m.rnd.Intn(len(unaryOps))]
		} else {
			m.mutateExpression(e.Operand)
		}
	case *ast.Number:
		switch m.rnd.Intn(3) {
		case 0:
			e.Value = 0
		case 1:
			e.Value = -e.Value
		default:
			e.Value += float64(m.rnd.Intn(21) - 10)
		}
	case *ast.Call:
		r := m.rnd.Float32()
		switch {
		case r < 0.25:
			e.Name = callNames[m.rnd.Intn(len(callNames))]
		case r < 0.4 && len(e.Args) > 0:
			e.Args = e.Args[:len(e.Args)-1]
		case r < 0.55 && len(e.Args) > 0:
			e.Args = append(e.Args, e.Args[m.rnd.Intn(len(e.Args))])
		case len(e.Args) > 0:
			m.mutateExpression(e.Args[m.rnd.Intn(len(e.Args))])
		}
	case *ast.VariableRef:
		if e.Value != nil {
			m.mutateExpression(e.Value)
		}
	}
}
