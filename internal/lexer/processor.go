package lexer

import "github.com/probexq/ASharpLang/internal/pipeline"

type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	tokens, err := New(ctx.SourceCode).Tokenize()
	if err != nil {
		ctx.AddError(err)
		return ctx
	}
	ctx.Tokens = tokens
	return ctx
}
