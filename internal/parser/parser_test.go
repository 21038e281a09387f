package parser_test

import (
	"math"
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/probexq/ASharpLang/internal/ast"
	"github.com/probexq/ASharpLang/internal/diagnostics"
	"github.com/probexq/ASharpLang/internal/lexer"
	"github.com/probexq/ASharpLang/internal/parser"
	"github.com/probexq/ASharpLang/internal/pipeline"
)

func parse(input string) *pipeline.PipelineContext {
	ctx := pipeline.NewPipelineContext(input)
	ctx.FilePath = "main.ash"
	ctx = (&lexer.LexerProcessor{}).Process(ctx)
	if len(ctx.Errors) > 0 {
		return ctx
	}
	return (&parser.ParserProcessor{}).Process(ctx)
}

func mustParse(t *testing.T, input string) *ast.Program {
	t.Helper()
	ctx := parse(input)
	if len(ctx.Errors) > 0 {
		var msgs []string
		for _, e := range ctx.Errors {
			msgs = append(msgs, e.Error())
		}
		t.Fatalf("parsing failed with errors:\n%s\ninput: %s", strings.Join(msgs, "\n"), input)
	}
	return ctx.AstRoot
}

func expectError(t *testing.T, input string, code diagnostics.ErrorCode) *diagnostics.DiagnosticError {
	t.Helper()
	ctx := parse(input)
	if len(ctx.Errors) == 0 {
		t.Fatalf("expected error %s, but got none\ninput: %s", code, input)
	}
	err := ctx.Errors[0]
	if err.Code != code {
		t.Fatalf("expected error %s, got %v\ninput: %s", code, err, input)
	}
	return err
}

func TestParser(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{"precedence", "2 + 3 * 4,", "(block (+ 2 (* 3 4)))"},
		{"left_assoc", "8 - 2 - 1, 8 / 2 / 2,", "(block (- (- 8 2) 1) (/ (/ 8 2) 2))"},
		{"power_right_assoc", "2 ^ 3 ^ 2,", "(block (^ 2 (^ 3 2)))"},
		{"power_binds_tighter_than_unary", "-2 ^ 2,", "(block (- (^ 2 2)))"},
		{"power_unary_exponent", "2 ^ -1,", "(block (^ 2 (- 1)))"},
		{"parens", "(2 + 3) * 4,", "(block (* (+ 2 3) 4))"},
		{"unary_chain", "!_~-+4,", "(block (! (_ (~ (- (+ 4))))))"},
		{"relational_below_addition", "1 + 1 == 2,", "(block (== (+ 1 1) 2))"},
		{"logic_loosest", "1 < 2 and 3 > 2 or 0,", "(block (or (and (< 1 2) (> 3 2)) 0))"},
		{"ampersand_is_and", "1 & 0,", "(block (and 1 0))"},
		{"modulus", "|0 - 5| + |1|,", "(block (+ (call ABS (- 0 5)) (call ABS 1)))"},
		{"nested_modulus", "|2 - |3||,", "(block (call ABS (- 2 (call ABS 3))))"},
		{"max_sigil", "+#(1, 2, 3),", "(block (call +# 1 2 3))"},
		{"min_named", "MIN(1, 2,),", "(block (call MIN 1 2))"},
		{"log_keyword", "log(4),", "(block (call log 4))"},
		{"unknown_call_is_parsed", "foo(1),", "(block (call foo 1))"},
		{"bindings", "let x = 1, const k = 2, condition c = x < k,",
			"(block (let x 1) (const k 2) (condition c (< x k)))"},
		{"binding_initializer_is_logic", "let b = 1 and 0,", "(block (let b (and 1 0)))"},
		{"assignment", "let x = 1, x = x + 1, x,", "(block (let x 1) (= x (+ x 1)) x)"},
		{"rebinding_let", "let x = 1, let x = 2,", "(block (let x 1) (let x 2))"},
		{"import", "$consts, 1,", "(block (import consts.ash) 1)"},
		{"guard", "let x = 5, x > 0 \\ x \\", "(block (let x 5) (guard (> x 0) (block x)))"},
		{"guard_trailing_comma", "1 \\ 2, \\", "(block (guard 1 (block 2)))"},
		{"guard_comma_after", "1 \\ 2 \\, 3,", "(block (guard 1 (block 2)) 3)"},
		{"guard_empty_block", "1 \\ \\", "(block (guard 1 (block)))"},
		{"guard_statements", "let x = 0, 1 \\ let y = 2, $consts, x = y \\",
			"(block (let x 0) (guard 1 (block (let y 2) (import consts.ash) (= x y))))"},
		{"negated_guard", "let c = 0, !c \\ 7 \\", "(block (let c 0) (guard (! c) (block 7)))"},
		{"numbers", ".5 + 7.,", "(block (+ 0.5 7))"},
		{"comments", "// header\n1 /* inline */ + 2,", "(block (+ 1 2))"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			prog := mustParse(t, tc.input)
			be.Equal(t, ast.String(prog.Body), tc.want)
		})
	}
}

func TestOverflowingLiteralIsInfinite(t *testing.T) {
	prog := mustParse(t, "1"+strings.Repeat("0", 400)+",")
	num, ok := prog.Body.Statements[0].(*ast.Number)
	be.True(t, ok)
	be.True(t, math.IsInf(num.Value, 1))

	prog = mustParse(t, "0."+strings.Repeat("0", 400)+"1,")
	be.Equal(t, prog.Body.Statements[0].(*ast.Number).Value, 0.0)
}

func TestEmptyProgram(t *testing.T) {
	for _, input := range []string{"", "   \n\t", "// nothing here\n/* at all */"} {
		prog := mustParse(t, input)
		be.Equal(t, len(prog.Body.Statements), 0)
	}
}

func TestProgramRecordsFile(t *testing.T) {
	prog := mustParse(t, "1,")
	be.Equal(t, prog.File, "main.ash")
}

func TestSyntaxErrors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		code  diagnostics.ErrorCode
	}{
		{"missing_terminator", "1 + 2", diagnostics.ErrP002},
		{"missing_terminator_before_next", "1 2,", diagnostics.ErrP002},
		{"binding_missing_terminator", "let x = 1", diagnostics.ErrP002},
		{"import_missing_terminator", "$consts", diagnostics.ErrP002},
		{"dangling_operator", "1 +,", diagnostics.ErrP001},
		{"stray_comma", ",", diagnostics.ErrP001},
		{"binding_without_name", "let = 1,", diagnostics.ErrP001},
		{"binding_without_equals", "let x 1,", diagnostics.ErrP001},
		{"import_without_name", "$ 1,", diagnostics.ErrP001},
		{"unclosed_paren", "(1 + 2,", diagnostics.ErrP003},
		{"unclosed_modulus", "|1 + 2,", diagnostics.ErrP003},
		{"unclosed_call", "+#(1, 2", diagnostics.ErrP003},
		{"call_missing_comma", "+#(1 2),", diagnostics.ErrP002},
		{"call_without_parens", "+# 1,", diagnostics.ErrP001},
		{"unclosed_guard", "1 \\ 2,", diagnostics.ErrP003},
		{"guard_statement_missing_comma", "1 \\ 2 3 \\", diagnostics.ErrP002},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := expectError(t, tc.input, tc.code)
			be.True(t, diagnostics.Is(err, diagnostics.SyntaxError))
			be.Equal(t, err.File, "main.ash")
		})
	}
}

func TestErrorPosition(t *testing.T) {
	err := expectError(t, "let x = 1,\nx + ,", diagnostics.ErrP001)
	be.Equal(t, err.Token.Line, 2)
	be.Equal(t, err.Token.Column, 5)
	be.Equal(t, err.Error(), "main.ash:2:5: [P001] unexpected ','")
}

func TestDeclarationErrors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		code  diagnostics.ErrorCode
	}{
		{"undefined_read", "x + 1,", diagnostics.ErrD001},
		{"undefined_assignment", "x = 1,", diagnostics.ErrD001},
		{"self_reference_on_first_binding", "let x = x,", diagnostics.ErrD001},
		{"const_then_let", "const y = 1, let y = 2,", diagnostics.ErrD002},
		{"const_then_const", "const y = 1, const y = 2,", diagnostics.ErrD002},
		{"let_then_const", "let y = 1, const y = 2,", diagnostics.ErrD002},
		{"const_then_condition", "const y = 1, condition y = 2,", diagnostics.ErrD002},
		{"const_assignment", "const y = 1, y = 2,", diagnostics.ErrD003},
		{"const_assignment_in_guard", "const y = 1, 1 \\ y = 2 \\", diagnostics.ErrD003},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := expectError(t, tc.input, tc.code)
			be.True(t, diagnostics.Is(err, diagnostics.DeclarationError))
		})
	}
}

func TestRebindingChangesKind(t *testing.T) {
	prog := mustParse(t, "let x = 1, condition x = 2, let x = 3, x = 4,")
	be.Equal(t, len(prog.Body.Statements), 4)
}

func TestUndefinedNamesDeferredAfterImport(t *testing.T) {
	// fromModule may be declared by consts.ash; only codegen can tell.
	prog := mustParse(t, "$consts, fromModule + 1, other = 2,")
	be.Equal(t, ast.String(prog.Body), "(block (import consts.ash) (+ fromModule 1) (= other 2))")

	// Before the import the check still applies.
	expectError(t, "fromModule, $consts,", diagnostics.ErrD001)
}

func TestLexicalErrorStopsBeforeParsing(t *testing.T) {
	ctx := parse("1 @ 2,")
	be.Equal(t, len(ctx.Errors), 1)
	be.Equal(t, ctx.Errors[0].Code, diagnostics.ErrL001)
	be.True(t, ctx.AstRoot == nil)
}

func TestNilTokenStream(t *testing.T) {
	ctx := (&parser.ParserProcessor{}).Process(pipeline.NewPipelineContext("1,"))
	be.Equal(t, len(ctx.Errors), 1)
}

func FuzzParser(f *testing.F) {
	seeds := []string{
		"2 + 3 * 4,",
		"let x = 1, x > 0 \\ x = x + 1 \\",
		"|1 - 2| + +#(1, 2) + -#(3, 4,),",
		"$consts, k,",
		"(((",
	}
	for _, s := range seeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, input string) {
		ctx := parse(input)
		if len(ctx.Errors) == 0 && ctx.AstRoot == nil {
			t.Fatalf("no errors and no tree for %q", input)
		}
	})
}
