package vm

import (
	"slices"

	"github.com/probexq/ASharpLang/internal/diagnostics"
	"github.com/probexq/ASharpLang/internal/token"
)

// stackEffect describes an operand-free instruction: the value types it
// pops (deepest first) and the type it pushes, if any.
type stackEffect struct {
	pops   []ValueType
	pushes ValueType
}

var (
	twoFloats = []ValueType{ValFloat, ValFloat}
	oneFloat  = []ValueType{ValFloat}
	twoInts   = []ValueType{ValInt, ValInt}
	oneInt    = []ValueType{ValInt}
)

var effects = map[Opcode]stackEffect{
	OP_ADD:    {twoFloats, ValFloat},
	OP_SUB:    {twoFloats, ValFloat},
	OP_MUL:    {twoFloats, ValFloat},
	OP_DIV:    {twoFloats, ValFloat},
	OP_POW:    {twoFloats, ValFloat},
	OP_MAX:    {twoFloats, ValFloat},
	OP_MIN:    {twoFloats, ValFloat},
	OP_NEG:    {oneFloat, ValFloat},
	OP_SQRT:   {oneFloat, ValFloat},
	OP_ROUND:  {oneFloat, ValFloat},
	OP_ABS:    {oneFloat, ValFloat},
	OP_AND:    {twoInts, ValInt},
	OP_OR:     {twoInts, ValInt},
	OP_CONV_I: {oneFloat, ValInt},
	OP_CONV_R: {oneInt, ValFloat},
	OP_TRACE:  {oneFloat, 0},
}

// Verify checks that the chunk is well formed: every instruction and
// operand is in range, stack types match every instruction along every
// path, paths that meet agree on the stack, and HALT is reached with
// exactly one float on the stack.
func Verify(c *Chunk) error {
	v := &verifier{chunk: c, states: make(map[int][]ValueType)}
	return v.run()
}

type verifier struct {
	chunk  *Chunk
	states map[int][]ValueType
	work   []int
}

func (v *verifier) errorf(offset int, format string, args ...any) error {
	return diagnostics.Errorf(diagnostics.ErrB001, token.Token{}, "invalid program at %04d: "+format, append([]any{offset}, args...)...)
}

// reach records the stack on entry to offset and schedules it for a visit
// unless an identical state was already recorded.
func (v *verifier) reach(from, offset int, stack []ValueType) error {
	if offset < 0 || offset >= v.chunk.Len() {
		return v.errorf(from, "control transfers to %d outside the program", offset)
	}
	if prev, seen := v.states[offset]; seen {
		if !slices.Equal(prev, stack) {
			return v.errorf(offset, "paths meet with stacks %v and %v", prev, stack)
		}
		return nil
	}
	v.states[offset] = slices.Clone(stack)
	v.work = append(v.work, offset)
	return nil
}

func (v *verifier) run() error {
	if v.chunk.Len() == 0 {
		return v.errorf(0, "empty program")
	}
	if err := v.reach(0, 0, nil); err != nil {
		return err
	}
	for len(v.work) > 0 {
		offset := v.work[len(v.work)-1]
		v.work = v.work[:len(v.work)-1]
		if err := v.visit(offset, slices.Clone(v.states[offset])); err != nil {
			return err
		}
	}
	return nil
}

func (v *verifier) pop(offset int, stack []ValueType, want ValueType) ([]ValueType, error) {
	if len(stack) == 0 {
		return nil, v.errorf(offset, "stack underflow")
	}
	top := stack[len(stack)-1]
	if want != 0 && top != want {
		return nil, v.errorf(offset, "expected %s on the stack, found %s", want, top)
	}
	return stack[:len(stack)-1], nil
}

func (v *verifier) visit(offset int, stack []ValueType) error {
	c := v.chunk
	op := Opcode(c.Code[offset])
	next := offset + 1 + operandWidth(op)
	if next > c.Len() {
		return v.errorf(offset, "truncated %s", op)
	}
	var err error

	switch op {
	case OP_CONST:
		idx := c.ReadOperand(offset + 1)
		if idx >= len(c.Constants) {
			return v.errorf(offset, "constant %d out of range", idx)
		}
		stack = append(stack, c.Constants[idx].Type)

	case OP_LOAD, OP_STORE:
		slot := c.ReadOperand(offset + 1)
		if slot >= c.Slots {
			return v.errorf(offset, "slot %d out of range", slot)
		}
		if op == OP_LOAD {
			stack = append(stack, ValFloat)
		} else if stack, err = v.pop(offset, stack, ValFloat); err != nil {
			return err
		}

	case OP_CEQ, OP_CLT, OP_CGT:
		if len(stack) < 2 {
			return v.errorf(offset, "stack underflow")
		}
		a, b := stack[len(stack)-2], stack[len(stack)-1]
		if a != b {
			return v.errorf(offset, "%s compares %s with %s", op, a, b)
		}
		stack = append(stack[:len(stack)-2], ValInt)

	case OP_DUP:
		if len(stack) == 0 {
			return v.errorf(offset, "stack underflow")
		}
		stack = append(stack, stack[len(stack)-1])

	case OP_POP:
		if stack, err = v.pop(offset, stack, 0); err != nil {
			return err
		}

	case OP_JUMP:
		return v.reach(offset, c.ReadOperand(offset+1), stack)

	case OP_JUMP_IF_TRUE, OP_JUMP_IF_FALSE:
		if stack, err = v.pop(offset, stack, 0); err != nil {
			return err
		}
		if err := v.reach(offset, c.ReadOperand(offset+1), stack); err != nil {
			return err
		}

	case OP_HALT:
		if len(stack) != 1 || stack[0] != ValFloat {
			return v.errorf(offset, "program must end with exactly one float on the stack, found %v", stack)
		}
		return nil

	default:
		eff, ok := effects[op]
		if !ok {
			return v.errorf(offset, "unknown opcode %d", byte(op))
		}
		for k := len(eff.pops) - 1; k >= 0; k-- {
			if stack, err = v.pop(offset, stack, eff.pops[k]); err != nil {
				return err
			}
		}
		if eff.pushes != 0 {
			stack = append(stack, eff.pushes)
		}
	}

	return v.reach(offset, next, stack)
}
