// Package generators builds random ash programs together with the value a
// float64 reference evaluation gives for them.
package generators

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
)

// RandomSource abstracts the source of randomness.
type RandomSource interface {
	Intn(n int) int
}

// RandSource wraps math/rand.
type RandSource struct {
	*rand.Rand
}

// ByteSource uses a byte slice as a source of randomness. Once the data is
// exhausted every choice is 0, which always selects a leaf.
type ByteSource struct {
	data []byte
	pos  int
}

func (s *ByteSource) Intn(n int) int {
	if n <= 0 || s.pos >= len(s.data) {
		return 0
	}
	v := int(s.data[s.pos])
	s.pos++
	return v % n
}

const (
	MaxDepth    = 4
	MaxBindings = 4
)

// Generator generates random ash code.
type Generator struct {
	src  RandomSource
	vars []variable
}

type variable struct {
	name      string
	value     float64
	condition bool
}

func New(seed int64) *Generator {
	return &Generator{src: &RandSource{rand.New(rand.NewSource(seed))}}
}

func NewFromData(data []byte) *Generator {
	return &Generator{src: &ByteSource{data: data}}
}

// Program is generated source and its reference result.
type Program struct {
	Source string
	Want   float64
}

// Matches reports whether got equals the reference result, treating NaN
// as equal to NaN.
func (p Program) Matches(got float64) bool {
	if math.IsNaN(p.Want) {
		return math.IsNaN(got)
	}
	return got == p.Want
}

// GenerateProgram emits a few bindings and assignments followed by a final
// expression or guard.
func (g *Generator) GenerateProgram() Program {
	g.vars = g.vars[:0]
	var sb strings.Builder

	count := g.src.Intn(MaxBindings + 1)
	for i := 0; i < count; i++ {
		if len(g.vars) > 0 && g.src.Intn(3) == 0 {
			g.assignment(&sb)
			continue
		}
		g.binding(&sb)
	}

	src, want := g.final()
	sb.WriteString(src)
	return Program{Source: sb.String(), Want: want}
}

func (g *Generator) binding(sb *strings.Builder) {
	name := fmt.Sprintf("v%d", len(g.vars))
	src, v := g.expr(0)
	cond := g.src.Intn(4) == 0
	keyword := "let"
	if cond {
		keyword = "condition"
		v = canonical(v)
	}
	fmt.Fprintf(sb, "%s %s = %s,\n", keyword, name, src)
	g.vars = append(g.vars, variable{name: name, value: v, condition: cond})
}

func (g *Generator) assignment(sb *strings.Builder) {
	target := &g.vars[g.src.Intn(len(g.vars))]
	src, v := g.expr(0)
	if target.condition {
		v = canonical(v)
	}
	fmt.Fprintf(sb, "%s = %s,\n", target.name, src)
	target.value = v
}

func (g *Generator) final() (string, float64) {
	body, bodyVal := g.expr(0)
	switch g.src.Intn(3) {
	case 1:
		// Always a binary operation so the condition never starts with `!`.
		cond, c := g.binary(1)
		if truthy(c) {
			return fmt.Sprintf("%s \\ %s \\", cond, body), bodyVal
		}
		return fmt.Sprintf("%s \\ %s \\", cond, body), 0
	case 2:
		// A leading `!` runs the block when the operand is zero.
		cond, c := g.atom()
		if !truthy(c) {
			return fmt.Sprintf("!%s \\ %s \\", cond, body), bodyVal
		}
		return fmt.Sprintf("!%s \\ %s \\", cond, body), 0
	}
	return body + ",", bodyVal
}

func (g *Generator) expr(depth int) (string, float64) {
	if depth >= MaxDepth {
		return g.atom()
	}
	switch g.src.Intn(6) {
	case 0, 1:
		return g.atom()
	case 2, 3:
		return g.binary(depth)
	case 4:
		return g.unary(depth)
	default:
		return g.call(depth)
	}
}

func (g *Generator) atom() (string, float64) {
	if len(g.vars) > 0 && g.src.Intn(3) == 0 {
		v := g.vars[g.src.Intn(len(g.vars))]
		return v.name, v.value
	}
	return g.number()
}

var fractions = []float64{0, 0.5, 0.25, 0.1, 0.75}

func (g *Generator) number() (string, float64) {
	v := float64(g.src.Intn(20)) + fractions[g.src.Intn(len(fractions))]
	return strconv.FormatFloat(v, 'f', -1, 64), v
}

var binaryOps = []string{"+", "-", "*", "/", "^", "<", ">", "==", "!=", "and", "or"}

func (g *Generator) binary(depth int) (string, float64) {
	op := binaryOps[g.src.Intn(len(binaryOps))]
	ls, l := g.expr(depth + 1)
	rs, r := g.expr(depth + 1)
	return fmt.Sprintf("(%s %s %s)", ls, op, rs), applyBinary(op, l, r)
}

var unaryOps = []string{"-", "+", "_", "~", "!", "|"}

func (g *Generator) unary(depth int) (string, float64) {
	op := unaryOps[g.src.Intn(len(unaryOps))]
	s, v := g.expr(depth + 1)
	// Prefix operators bind looser than '^', so the whole application is
	// parenthesized in case it becomes the base of a power.
	switch op {
	case "-":
		return fmt.Sprintf("(-(%s))", s), float64(-v)
	case "_":
		return fmt.Sprintf("(_(%s))", s), math.Sqrt(v)
	case "~":
		return fmt.Sprintf("(~(%s))", s), math.Round(v)
	case "|":
		return fmt.Sprintf("|%s|", s), math.Abs(v)
	}
	return fmt.Sprintf("(%s(%s))", op, s), v
}

var callNames = []string{"MAX", "+#", "MIN", "-#"}

func (g *Generator) call(depth int) (string, float64) {
	name := callNames[g.src.Intn(len(callNames))]
	n := 2 + g.src.Intn(3)
	args := make([]string, n)
	var acc float64
	for i := range args {
		s, v := g.expr(depth + 1)
		args[i] = s
		switch {
		case i == 0:
			acc = v
		case name == "MAX" || name == "+#":
			acc = math.Max(acc, v)
		default:
			acc = math.Min(acc, v)
		}
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(args, ", ")), acc
}

// applyBinary is the reference semantics of every binary operator. Each
// result is explicitly rounded to float64 so no operations are fused.
func applyBinary(op string, l, r float64) float64 {
	switch op {
	case "+":
		return float64(l + r)
	case "-":
		return float64(l - r)
	case "*":
		return float64(l * r)
	case "/":
		return float64(l / r)
	case "^":
		return math.Pow(l, r)
	case "<":
		return boolFloat(l < r)
	case ">":
		return boolFloat(l > r)
	case "==":
		return boolFloat(l == r)
	case "!=":
		return boolFloat(l != r)
	case "and":
		return float64(truncate(l) & truncate(r))
	case "or":
		return float64(truncate(l) | truncate(r))
	}
	panic("unknown operator " + op)
}

func truthy(v float64) bool { return v != 0 }

func canonical(v float64) float64 { return boolFloat(truthy(v)) }

func boolFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func truncate(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}
