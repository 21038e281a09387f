package pipeline

import (
	"github.com/probexq/ASharpLang/internal/ast"
	"github.com/probexq/ASharpLang/internal/diagnostics"
	"github.com/probexq/ASharpLang/internal/sink"
	"github.com/probexq/ASharpLang/internal/token"
)

// PipelineContext carries one source file through the stages.
type PipelineContext struct {
	SourceCode string
	FilePath   string

	Tokens  []token.Token
	AstRoot *ast.Program
	Program sink.Program

	Result    float64
	HasResult bool

	Errors []*diagnostics.DiagnosticError
}

func NewPipelineContext(source string) *PipelineContext {
	return &PipelineContext{SourceCode: source}
}

// AddError records err, filling in the file path when the error has none.
func (ctx *PipelineContext) AddError(err error) {
	de := diagnostics.As(err)
	if de == nil {
		return
	}
	if de.File == "" {
		de.File = ctx.FilePath
	}
	ctx.Errors = append(ctx.Errors, de)
}

// Err returns the first recorded error, or nil.
func (ctx *PipelineContext) Err() error {
	if len(ctx.Errors) == 0 {
		return nil
	}
	return ctx.Errors[0]
}
