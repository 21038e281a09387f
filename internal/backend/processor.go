package backend

import (
	"github.com/probexq/ASharpLang/internal/pipeline"
)

// ExecutionProcessor invokes the sealed program left in the context by code
// generation and stores its result.
type ExecutionProcessor struct{}

func NewExecutionProcessor() *ExecutionProcessor {
	return &ExecutionProcessor{}
}

func (p *ExecutionProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	// If previous steps failed, don't run execution
	if ctx.Program == nil || len(ctx.Errors) > 0 {
		return ctx
	}

	result, err := ctx.Program.Invoke()
	if err != nil {
		ctx.AddError(err)
		return ctx
	}
	ctx.Result = result
	ctx.HasResult = true
	return ctx
}
