package codegen

import (
	"github.com/probexq/ASharpLang/internal/ast"
	"github.com/probexq/ASharpLang/internal/backend"
	"github.com/probexq/ASharpLang/internal/pipeline"
	"github.com/probexq/ASharpLang/internal/sink"
)

// Compile generates prog and, only if generation succeeded, replays the
// instructions into a fresh sink from b and seals it.
func Compile(session *Session, prog *ast.Program, b backend.Backend) (sink.Program, error) {
	rec, err := Generate(session, prog)
	if err != nil {
		return nil, err
	}
	dst := b.NewSink(session.ProgramName(prog.File))
	if err := rec.Replay(dst); err != nil {
		return nil, err
	}
	return dst.Seal()
}

// CodeGenProcessor compiles ctx.AstRoot and leaves the sealed program in
// ctx.Program.
type CodeGenProcessor struct {
	Session *Session
	Backend backend.Backend
}

func NewCodeGenProcessor(session *Session, b backend.Backend) *CodeGenProcessor {
	return &CodeGenProcessor{Session: session, Backend: b}
}

func (p *CodeGenProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.AstRoot == nil || len(ctx.Errors) > 0 {
		return ctx
	}
	prog, err := Compile(p.Session, ctx.AstRoot, p.Backend)
	if err != nil {
		ctx.AddError(err)
		return ctx
	}
	ctx.Program = prog
	return ctx
}
