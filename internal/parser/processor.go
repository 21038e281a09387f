package parser

import (
	"github.com/probexq/ASharpLang/internal/diagnostics"
	"github.com/probexq/ASharpLang/internal/pipeline"
	"github.com/probexq/ASharpLang/internal/token"
)

type ParserProcessor struct{}

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Tokens == nil {
		ctx.AddError(diagnostics.NewError(diagnostics.ErrP001, token.Token{}, "parser: token stream is nil"))
		return ctx
	}

	prog, err := New(ctx.Tokens, ctx.FilePath).ParseProgram()
	if err != nil {
		ctx.AddError(err)
		return ctx
	}
	ctx.AstRoot = prog
	return ctx
}
