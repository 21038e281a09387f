package lexer

import (
	"testing"

	"github.com/nalgeon/be"
	"github.com/probexq/ASharpLang/internal/diagnostics"
	"github.com/probexq/ASharpLang/internal/pipeline"
	"github.com/probexq/ASharpLang/internal/token"
)

func types(toks []token.Token) []token.TokenType {
	out := make([]token.TokenType, len(toks))
	for i, tok := range toks {
		out[i] = tok.Type
	}
	return out
}

func TestNextToken(t *testing.T) {
	input := `let x = 5,
const y = 2.5 * x ^ 2,
condition c = x > y and !(y != 1) or x == 3,
+#(1, 2) -#(3, 4) _9 ~1.5 |x| & \ $lib log(x) - + <`

	tests := []struct {
		expectedType   token.TokenType
		expectedLexeme string
	}{
		{token.LET, "let"},
		{token.IDENT, "x"},
		{token.ASSIGN, "="},
		{token.NUMBER, "5"},
		{token.COMMA, ","},
		{token.CONST, "const"},
		{token.IDENT, "y"},
		{token.ASSIGN, "="},
		{token.NUMBER, "2.5"},
		{token.ASTERISK, "*"},
		{token.IDENT, "x"},
		{token.CARET, "^"},
		{token.NUMBER, "2"},
		{token.COMMA, ","},
		{token.CONDITION, "condition"},
		{token.IDENT, "c"},
		{token.ASSIGN, "="},
		{token.IDENT, "x"},
		{token.GT, ">"},
		{token.IDENT, "y"},
		{token.AND, "and"},
		{token.BANG, "!"},
		{token.LPAREN, "("},
		{token.IDENT, "y"},
		{token.NOT_EQ, "!="},
		{token.NUMBER, "1"},
		{token.RPAREN, ")"},
		{token.OR, "or"},
		{token.IDENT, "x"},
		{token.EQ, "=="},
		{token.NUMBER, "3"},
		{token.COMMA, ","},
		{token.MAX, "+#"},
		{token.LPAREN, "("},
		{token.NUMBER, "1"},
		{token.COMMA, ","},
		{token.NUMBER, "2"},
		{token.RPAREN, ")"},
		{token.MIN, "-#"},
		{token.LPAREN, "("},
		{token.NUMBER, "3"},
		{token.COMMA, ","},
		{token.NUMBER, "4"},
		{token.RPAREN, ")"},
		{token.SQRT, "_"},
		{token.NUMBER, "9"},
		{token.ROUND, "~"},
		{token.NUMBER, "1.5"},
		{token.PIPE, "|"},
		{token.IDENT, "x"},
		{token.PIPE, "|"},
		{token.AND, "&"},
		{token.GATE, "\\"},
		{token.IMPORT, "$"},
		{token.IDENT, "lib"},
		{token.LOG, "log"},
		{token.LPAREN, "("},
		{token.IDENT, "x"},
		{token.RPAREN, ")"},
		{token.MINUS, "-"},
		{token.PLUS, "+"},
		{token.LT, "<"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q", i, tt.expectedType, tok.Type)
		}
		if tok.Lexeme != tt.expectedLexeme {
			t.Fatalf("tests[%d] - lexeme wrong. expected=%q, got=%q", i, tt.expectedLexeme, tok.Lexeme)
		}
	}
}

func TestNumberWithSecondPointSplits(t *testing.T) {
	toks, err := New("1.2.3 .5 7.").Tokenize()
	be.Err(t, err, nil)
	var lexemes []string
	for _, tok := range toks[:len(toks)-1] {
		lexemes = append(lexemes, tok.Lexeme)
	}
	be.Equal(t, lexemes, []string{"1.2", ".3", ".5", "7."})
}

func TestIdentifiers(t *testing.T) {
	toks, err := New("a1_b letx LET and_more").Tokenize()
	be.Err(t, err, nil)
	be.Equal(t, types(toks), []token.TokenType{token.IDENT, token.IDENT, token.IDENT, token.IDENT, token.EOF})
	be.Equal(t, toks[0].Lexeme, "a1_b")
}

func TestComments(t *testing.T) {
	input := "1 // line comment ,,,\n/* block\n * still /* not nested\n */ 2 /* unterminated"
	toks, err := New(input).Tokenize()
	be.Err(t, err, nil)
	be.Equal(t, types(toks), []token.TokenType{token.NUMBER, token.NUMBER, token.EOF})
	be.Equal(t, toks[1].Line, 4)
}

func TestBlockCommentEndsAtFirstCloser(t *testing.T) {
	toks, err := New("/* a /* b */ 3 */").Tokenize()
	be.Err(t, err, nil)
	be.Equal(t, types(toks), []token.TokenType{token.NUMBER, token.ASTERISK, token.SLASH, token.EOF})
}

func TestPositions(t *testing.T) {
	toks, err := New("let x = 1,\n  x + 22,").Tokenize()
	be.Err(t, err, nil)

	plus := toks[6]
	be.Equal(t, plus.Type, token.PLUS)
	be.Equal(t, plus.Line, 2)
	be.Equal(t, plus.Column, 5)

	num := toks[7]
	be.Equal(t, num.Lexeme, "22")
	be.Equal(t, num.Column, 7)
}

func TestSingleCharFallback(t *testing.T) {
	toks, err := New("+ - = !").Tokenize()
	be.Err(t, err, nil)
	be.Equal(t, types(toks), []token.TokenType{token.PLUS, token.MINUS, token.ASSIGN, token.BANG, token.EOF})
}

func TestUnexpectedCharacter(t *testing.T) {
	_, err := New("let x = 1,\nx @ 2,").Tokenize()
	be.True(t, diagnostics.Is(err, diagnostics.LexicalError))

	de := diagnostics.As(err)
	be.Equal(t, de.Code, diagnostics.ErrL001)
	be.Equal(t, de.Token.Line, 2)
	be.Equal(t, de.Token.Column, 3)
	be.Err(t, err, "unexpected character '@'")
}

func TestLoneDotIsMalformed(t *testing.T) {
	_, err := New("1 + .").Tokenize()
	be.Equal(t, diagnostics.As(err).Code, diagnostics.ErrL002)
}

func TestLexerProcessor(t *testing.T) {
	ctx := pipeline.NewPipelineContext("1 + 2,")
	ctx = (&LexerProcessor{}).Process(ctx)
	be.Equal(t, len(ctx.Errors), 0)
	be.Equal(t, len(ctx.Tokens), 5)

	bad := pipeline.NewPipelineContext("1 # 2,")
	bad.FilePath = "bad.ash"
	bad = (&LexerProcessor{}).Process(bad)
	be.Equal(t, len(bad.Errors), 1)
	be.Equal(t, bad.Errors[0].File, "bad.ash")
}

func FuzzLexer(f *testing.F) {
	f.Add("let x = 1.5, x ^ 2 \\ log(x), \\")
	f.Add("/* */ // \n +#(1,2) -#(3,4)")
	f.Add("1.2.3..4")
	f.Fuzz(func(t *testing.T, input string) {
		toks, err := New(input).Tokenize()
		if err != nil {
			be.True(t, diagnostics.Is(err, diagnostics.LexicalError))
			return
		}
		be.True(t, len(toks) > 0)
		be.Equal(t, toks[len(toks)-1].Type, token.EOF)
	})
}
