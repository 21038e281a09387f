package codegen

import (
	"github.com/probexq/ASharpLang/internal/ast"
	"github.com/probexq/ASharpLang/internal/config"
	"github.com/probexq/ASharpLang/internal/diagnostics"
	"github.com/probexq/ASharpLang/internal/sink"
)

type builtin struct {
	name    string // canonical name for messages
	minArgs int
	maxArgs int // -1 for variadic
	emit    func(g *Generator, n *ast.Call) error
}

var builtins = map[string]*builtin{}

func init() {
	maxFn := &builtin{name: config.MaxFuncName, minArgs: 2, maxArgs: -1, emit: fold(sink.OpMax)}
	minFn := &builtin{name: config.MinFuncName, minArgs: 2, maxArgs: -1, emit: fold(sink.OpMin)}
	absFn := &builtin{name: config.AbsFuncName, minArgs: 1, maxArgs: 1, emit: unary(sink.OpAbs)}
	logFn := &builtin{name: config.LogFuncName, minArgs: 1, maxArgs: 1, emit: unary(sink.OpDup, sink.OpTrace)}

	builtins[config.MaxFuncName] = maxFn
	builtins[config.MaxSigil] = maxFn
	builtins[config.MinFuncName] = minFn
	builtins[config.MinSigil] = minFn
	builtins[config.AbsFuncName] = absFn
	builtins[config.LogFuncName] = logFn
	builtins[config.LogAliasFuncName] = logFn
}

// fold evaluates the arguments left to right, combining each with the
// running result.
func fold(op sink.Op) func(g *Generator, n *ast.Call) error {
	return func(g *Generator, n *ast.Call) error {
		for i, arg := range n.Args {
			if err := g.expr(arg); err != nil {
				return err
			}
			if i > 0 {
				g.out.Emit(op)
			}
		}
		return nil
	}
}

func unary(ops ...sink.Op) func(g *Generator, n *ast.Call) error {
	return func(g *Generator, n *ast.Call) error {
		if err := g.expr(n.Args[0]); err != nil {
			return err
		}
		for _, op := range ops {
			g.out.Emit(op)
		}
		return nil
	}
}

func (g *Generator) VisitCall(n *ast.Call) error {
	b, ok := builtins[n.Name]
	if !ok {
		return g.errorf(diagnostics.ErrC001, n.Token, "unknown function '%s'", n.Name)
	}
	got := len(n.Args)
	switch {
	case b.maxArgs < 0 && got < b.minArgs:
		return g.errorf(diagnostics.ErrA001, n.Token, "%s expects at least %d arguments, got %d", b.name, b.minArgs, got)
	case b.maxArgs >= 0 && (got < b.minArgs || got > b.maxArgs):
		return g.errorf(diagnostics.ErrA001, n.Token, "%s expects %d argument(s), got %d", b.name, b.minArgs, got)
	}
	return b.emit(g, n)
}
