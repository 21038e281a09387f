package codegen

import (
	"errors"
	"path/filepath"
	"slices"

	"github.com/probexq/ASharpLang/internal/ast"
	"github.com/probexq/ASharpLang/internal/diagnostics"
	"github.com/probexq/ASharpLang/internal/modules"
	"github.com/probexq/ASharpLang/internal/sink"
	"github.com/probexq/ASharpLang/internal/token"
)

// Generator emits one program. Every statement is emitted either to keep
// its value on the stack or to leave the stack as it found it.
type Generator struct {
	session *Session
	out     sink.Sink

	file string // file being generated, for diagnostics
	dir  string // its directory, for relative imports; "" if not on disk

	importing []string // resolved paths of the files being generated
	keep      bool     // whether the statement being visited must yield a value
}

func NewGenerator(session *Session, out sink.Sink) *Generator {
	return &Generator{session: session, out: out}
}

// Generate lowers prog into a fresh recorder. The program body yields the
// program's result: the value of its last statement, or 0 when empty.
func Generate(session *Session, prog *ast.Program) (*sink.Recorder, error) {
	rec := sink.NewRecorder()
	g := NewGenerator(session, rec)
	if err := g.Program(prog); err != nil {
		return nil, err
	}
	return rec, nil
}

// Program emits prog with its result left on the stack.
func (g *Generator) Program(prog *ast.Program) error {
	g.file = prog.File
	if prog.File != "" {
		abs, err := filepath.Abs(prog.File)
		if err == nil {
			g.dir = filepath.Dir(abs)
			g.importing = append(g.importing, abs)
		}
	}
	return g.statement(prog.Body, true)
}

func (g *Generator) errorf(code diagnostics.ErrorCode, tok token.Token, format string, args ...any) error {
	err := diagnostics.Errorf(code, tok, format, args...)
	err.File = g.file
	return err
}

// statement emits s. Expressions always produce a value, which is popped
// when it is not kept; other statements consult g.keep themselves.
func (g *Generator) statement(s ast.Statement, keep bool) error {
	prev := g.keep
	g.keep = keep
	err := s.Accept(g)
	g.keep = prev
	if err != nil {
		return err
	}
	if _, isExpr := s.(ast.Expression); isExpr && !keep {
		g.out.Emit(sink.OpPop)
	}
	return nil
}

func (g *Generator) expr(e ast.Expression) error {
	return g.statement(e, true)
}

// canonicalize replaces the float on top of the stack with 1 when it is
// non-zero and 0 otherwise.
func (g *Generator) canonicalize() {
	g.out.PushFloat(0)
	g.out.Emit(sink.OpCeq)
	g.out.PushInt(0)
	g.out.Emit(sink.OpCeq)
	g.out.Emit(sink.OpConvR)
}

func (g *Generator) VisitNumber(n *ast.Number) error {
	g.out.PushFloat(n.Value)
	return nil
}

func (g *Generator) VisitVariableRef(n *ast.VariableRef) error {
	sym, ok := g.session.Symbols.Find(n.Name)
	if !ok {
		return g.errorf(diagnostics.ErrD001, n.Token, "undefined variable '%s'", n.Name)
	}
	if !n.IsAssignment() {
		g.out.Load(sym.Slot)
		return nil
	}

	if sym.Kind == ast.Const {
		return g.errorf(diagnostics.ErrD003, n.Token, "variable '%s' is a constant and is unchangeable", n.Name)
	}
	if err := g.expr(n.Value); err != nil {
		return err
	}
	if sym.Kind == ast.Condition {
		g.canonicalize()
	}
	g.out.Emit(sink.OpDup)
	g.out.Store(sym.Slot)
	return nil
}

func (g *Generator) VisitBinding(n *ast.Binding) error {
	if err := g.expr(n.Initializer); err != nil {
		return err
	}
	if n.Kind == ast.Condition {
		g.canonicalize()
	}
	sym, ok := g.session.Symbols.Bind(n.Name, n.Kind, g.out)
	if !ok {
		return g.errorf(diagnostics.ErrD002, n.Token, "already defined variable '%s'", n.Name)
	}
	g.out.Store(sym.Slot)
	if g.keep {
		g.out.Load(sym.Slot)
	}
	return nil
}

var arithmetic = map[token.TokenType]sink.Op{
	token.PLUS:     sink.OpAdd,
	token.MINUS:    sink.OpSub,
	token.ASTERISK: sink.OpMul,
	token.SLASH:    sink.OpDiv,
	token.CARET:    sink.OpPow,
}

func (g *Generator) VisitBinaryOp(n *ast.BinaryOp) error {
	if err := g.expr(n.Left); err != nil {
		return err
	}
	if n.Op == token.AND || n.Op == token.OR {
		g.out.Emit(sink.OpConvI)
	}
	if err := g.expr(n.Right); err != nil {
		return err
	}

	if op, ok := arithmetic[n.Op]; ok {
		g.out.Emit(op)
		return nil
	}

	switch n.Op {
	case token.LT:
		g.out.Emit(sink.OpClt)
	case token.GT:
		g.out.Emit(sink.OpCgt)
	case token.EQ:
		g.out.Emit(sink.OpCeq)
	case token.NOT_EQ:
		g.out.Emit(sink.OpCeq)
		g.out.PushInt(0)
		g.out.Emit(sink.OpCeq)
	case token.AND:
		g.out.Emit(sink.OpConvI)
		g.out.Emit(sink.OpAnd)
	case token.OR:
		g.out.Emit(sink.OpConvI)
		g.out.Emit(sink.OpOr)
	default:
		return g.errorf(diagnostics.ErrB001, n.Token, "unknown binary operator %s", n.Op)
	}
	g.out.Emit(sink.OpConvR)
	return nil
}

func (g *Generator) VisitUnaryOp(n *ast.UnaryOp) error {
	if err := g.expr(n.Operand); err != nil {
		return err
	}
	switch n.Op {
	case token.PLUS, token.BANG:
		// Both leave the operand as is.
	case token.MINUS:
		g.out.Emit(sink.OpNeg)
	case token.SQRT:
		g.out.Emit(sink.OpSqrt)
	case token.ROUND:
		g.out.Emit(sink.OpRound)
	default:
		return g.errorf(diagnostics.ErrB001, n.Token, "unknown unary operator %s", n.Op)
	}
	return nil
}

// VisitGuard emits cond \ then \. The then-block runs when cond is
// non-zero; a kept guard yields 0 otherwise. A `!` condition flips the
// branch sense instead of being evaluated as a negation.
func (g *Generator) VisitGuard(n *ast.Guard) error {
	keep := g.keep
	if err := g.expr(n.Condition); err != nil {
		return err
	}
	g.out.PushFloat(0)
	g.out.Emit(sink.OpCeq)

	sense := true
	if u, ok := n.Condition.(*ast.UnaryOp); ok && u.IsNot() {
		sense = false
	}

	skip := g.out.DefineLabel()
	end := g.out.DefineLabel()
	g.out.BranchIf(skip, sense)
	if err := g.statement(n.Then, keep); err != nil {
		return err
	}
	g.out.Branch(end)
	g.out.MarkLabel(skip)
	if keep {
		g.out.PushFloat(0)
	}
	g.out.MarkLabel(end)
	return nil
}

func (g *Generator) VisitBlock(n *ast.Block) error {
	keep := g.keep
	if len(n.Statements) == 0 {
		if keep {
			g.out.PushFloat(0)
		}
		return nil
	}
	last := len(n.Statements) - 1
	for i, stmt := range n.Statements {
		if err := g.statement(stmt, keep && i == last); err != nil {
			return err
		}
	}
	return nil
}

// VisitImport generates the imported module inline. The module is parsed
// once per session but generated at every import.
func (g *Generator) VisitImport(n *ast.Import) error {
	loc, err := g.session.Resolver.Resolve(n.Path, g.dir)
	if err != nil {
		if errors.Is(err, modules.ErrNotFound) {
			return g.errorf(diagnostics.ErrI001, n.Token, "cannot find module '%s'", n.Path)
		}
		return g.errorf(diagnostics.ErrI001, n.Token, "cannot resolve module '%s': %v", n.Path, err)
	}
	if slices.Contains(g.importing, loc.Path) {
		return g.errorf(diagnostics.ErrI002, n.Token, "circular import of '%s'", n.Path)
	}

	mod, err := g.session.Imports.Load(loc)
	if err != nil {
		if diagnostics.As(err).Code == diagnostics.ErrB001 {
			return g.errorf(diagnostics.ErrI001, n.Token, "cannot read module '%s': %v", n.Path, err)
		}
		return err
	}

	file, dir := g.file, g.dir
	g.file, g.dir = mod.Path, mod.Dir
	g.importing = append(g.importing, mod.Path)
	defer func() {
		g.file, g.dir = file, dir
		g.importing = g.importing[:len(g.importing)-1]
	}()

	return g.statement(mod.Program.Body, g.keep)
}
