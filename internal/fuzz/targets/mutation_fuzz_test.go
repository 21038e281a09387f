package targets

import (
	"io"
	"testing"

	"github.com/probexq/ASharpLang/internal/backend"
	"github.com/probexq/ASharpLang/internal/codegen"
	"github.com/probexq/ASharpLang/internal/diagnostics"
	"github.com/probexq/ASharpLang/internal/fuzz/generators"
	"github.com/probexq/ASharpLang/internal/fuzz/mutator"
	"github.com/probexq/ASharpLang/internal/lexer"
	"github.com/probexq/ASharpLang/internal/modules"
	"github.com/probexq/ASharpLang/internal/parser"
	"github.com/probexq/ASharpLang/internal/pipeline"
)

// checkMutated mutates a parsed program and compiles it. Mutations may
// produce invalid programs, but generation must reject them with a user
// diagnostic; it must never hand the backend a stream that fails
// verification, and whatever seals must run.
func checkMutated(t *testing.T, src string, seed int64) {
	t.Helper()
	ctx := pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}).Run(pipeline.NewPipelineContext(src))
	if len(ctx.Errors) > 0 {
		return
	}

	mutator.NewASTMutator(seed).Mutate(ctx.AstRoot)

	session := codegen.NewSession(modules.NewResolver(modules.Embedded()))
	prog, err := codegen.Compile(session, ctx.AstRoot, backend.NewVM(io.Discard))
	if err != nil {
		if diagnostics.Is(err, diagnostics.BackendEmissionError) {
			t.Fatalf("mutated program failed verification: %v\n%s", err, src)
		}
		return
	}
	if _, err := prog.Invoke(); err != nil {
		t.Fatalf("sealed program failed at runtime: %v\n%s", err, src)
	}
}

func FuzzMutation(f *testing.F) {
	f.Add("let x = 5, x > 0 \\ x = x + 1 \\ x,", int64(1))
	f.Add("condition c = 2, !c \\ MAX(1, 2, 3) \\", int64(2))
	f.Add("$consts, |pi - 4| + log(2),", int64(3))
	f.Add("const k = 2, let y = k ^ 2 and 3,", int64(4))

	f.Fuzz(func(t *testing.T, src string, seed int64) {
		if len(src) > 1024 {
			return
		}
		checkMutated(t, src, seed)
	})
}

func TestMutatedGeneratedPrograms(t *testing.T) {
	for seed := int64(0); seed < 200; seed++ {
		prog := generators.New(seed).GenerateProgram()
		for round := int64(0); round < 5; round++ {
			checkMutated(t, prog.Source, seed*10+round)
		}
	}
}
