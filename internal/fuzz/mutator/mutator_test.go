package mutator

import (
	"testing"

	"github.com/nalgeon/be"
	"github.com/probexq/ASharpLang/internal/ast"
	"github.com/probexq/ASharpLang/internal/token"
)

func sample() *ast.Program {
	return &ast.Program{Body: &ast.Block{Statements: []ast.Statement{
		&ast.BinaryOp{
			Left:  &ast.Number{Value: 1},
			Op:    token.PLUS,
			Right: &ast.Number{Value: 2},
		},
	}}}
}

func TestMutateChangesProgram(t *testing.T) {
	program := sample()
	before := ast.String(program.Body)

	m := NewASTMutator(12345)
	changed := false
	for i := 0; i < 100 && !changed; i++ {
		m.Mutate(program)
		changed = ast.String(program.Body) != before
	}
	be.True(t, changed)
}

func TestMutateIsDeterministic(t *testing.T) {
	a, b := sample(), sample()
	ma, mb := NewASTMutator(7), NewASTMutator(7)
	for i := 0; i < 20; i++ {
		ma.Mutate(a)
		mb.Mutate(b)
	}
	be.Equal(t, ast.String(a.Body), ast.String(b.Body))
}

func TestMutateEmptyProgram(t *testing.T) {
	program := &ast.Program{Body: &ast.Block{}}
	NewASTMutator(1).Mutate(program)
	be.Equal(t, len(program.Body.Statements), 0)

	NewASTMutator(1).Mutate(&ast.Program{})
}
