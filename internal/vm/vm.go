package vm

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/probexq/ASharpLang/internal/diagnostics"
	"github.com/probexq/ASharpLang/internal/token"
)

const initialStackSize = 64

var (
	errStackUnderflow    = errors.New("stack underflow")
	errTruncatedBytecode = errors.New("truncated bytecode")
)

// VM executes one chunk. A VM is single-use: call Run once.
type VM struct {
	chunk *Chunk
	ip    int

	stack []Value
	sp    int
	slots []float64

	trace io.Writer
}

// New creates a machine for chunk. TRACE output goes to trace, or to
// os.Stdout when trace is nil.
func New(chunk *Chunk, trace io.Writer) *VM {
	if trace == nil {
		trace = os.Stdout
	}
	return &VM{
		chunk: chunk,
		stack: make([]Value, initialStackSize),
		slots: make([]float64, chunk.Slots),
		trace: trace,
	}
}

// Run executes until HALT and returns the float left on the stack.
func (vm *VM) Run() (result float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = vm.runtimeError("%v", r)
		}
	}()

	for {
		op := Opcode(vm.readByte())
		switch op {
		case OP_CONST:
			idx := vm.readOperand()
			if idx >= len(vm.chunk.Constants) {
				return 0, vm.runtimeError("constant %d out of range", idx)
			}
			vm.push(vm.chunk.Constants[idx])

		case OP_LOAD:
			vm.push(FloatVal(vm.slots[vm.readOperand()]))

		case OP_STORE:
			slot := vm.readOperand()
			vm.slots[slot] = vm.pop().AsFloat()

		case OP_ADD, OP_SUB, OP_MUL, OP_DIV, OP_POW, OP_MAX, OP_MIN:
			b := vm.pop().AsFloat()
			a := vm.pop().AsFloat()
			vm.push(FloatVal(binaryFloat(op, a, b)))

		case OP_NEG, OP_SQRT, OP_ROUND, OP_ABS:
			vm.push(FloatVal(unaryFloat(op, vm.pop().AsFloat())))

		case OP_CEQ, OP_CLT, OP_CGT:
			b := vm.pop()
			a := vm.pop()
			vm.push(boolInt(compare(op, a, b)))

		case OP_AND:
			b := vm.pop().AsInt()
			a := vm.pop().AsInt()
			vm.push(IntVal(a & b))

		case OP_OR:
			b := vm.pop().AsInt()
			a := vm.pop().AsInt()
			vm.push(IntVal(a | b))

		case OP_CONV_I:
			vm.push(IntVal(truncate(vm.pop().AsFloat())))

		case OP_CONV_R:
			vm.push(FloatVal(float64(vm.pop().AsInt())))

		case OP_DUP:
			vm.push(vm.peek())

		case OP_POP:
			vm.pop()

		case OP_TRACE:
			if _, err := fmt.Fprintln(vm.trace, FormatFloat(vm.pop().AsFloat())); err != nil {
				return 0, vm.runtimeError("trace: %v", err)
			}

		case OP_JUMP:
			vm.ip = vm.readOperand()

		case OP_JUMP_IF_TRUE, OP_JUMP_IF_FALSE:
			target := vm.readOperand()
			if vm.pop().IsZero() == (op == OP_JUMP_IF_FALSE) {
				vm.ip = target
			}

		case OP_HALT:
			if vm.sp != 1 {
				return 0, vm.runtimeError("halt with %d values on the stack", vm.sp)
			}
			return vm.pop().AsFloat(), nil

		default:
			return 0, vm.runtimeError("unknown opcode %d", byte(op))
		}
	}
}

func binaryFloat(op Opcode, a, b float64) float64 {
	switch op {
	case OP_ADD:
		return a + b
	case OP_SUB:
		return a - b
	case OP_MUL:
		return a * b
	case OP_DIV:
		return a / b
	case OP_POW:
		return math.Pow(a, b)
	case OP_MAX:
		return math.Max(a, b)
	default:
		return math.Min(a, b)
	}
}

func unaryFloat(op Opcode, a float64) float64 {
	switch op {
	case OP_NEG:
		return -a
	case OP_SQRT:
		return math.Sqrt(a)
	case OP_ROUND:
		return math.Round(a)
	default:
		return math.Abs(a)
	}
}

func compare(op Opcode, a, b Value) bool {
	if a.Type == ValInt && b.Type == ValInt {
		x, y := a.AsInt(), b.AsInt()
		switch op {
		case OP_CEQ:
			return x == y
		case OP_CLT:
			return x < y
		default:
			return x > y
		}
	}
	x, y := a.AsFloat(), b.AsFloat()
	switch op {
	case OP_CEQ:
		return x == y
	case OP_CLT:
		return x < y
	default:
		return x > y
	}
}

func boolInt(b bool) Value {
	if b {
		return IntVal(1)
	}
	return IntVal(0)
}

// truncate converts toward zero, saturating out-of-range values and
// mapping NaN to 0.
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

func (vm *VM) push(v Value) {
	if vm.sp >= len(vm.stack) {
		vm.stack = append(vm.stack, make([]Value, len(vm.stack))...)
	}
	vm.stack[vm.sp] = v
	vm.sp++
}

func (vm *VM) pop() Value {
	if vm.sp <= 0 {
		panic(errStackUnderflow)
	}
	vm.sp--
	return vm.stack[vm.sp]
}

func (vm *VM) peek() Value {
	if vm.sp <= 0 {
		panic(errStackUnderflow)
	}
	return vm.stack[vm.sp-1]
}

func (vm *VM) readByte() byte {
	if vm.ip >= len(vm.chunk.Code) {
		panic(errTruncatedBytecode)
	}
	b := vm.chunk.Code[vm.ip]
	vm.ip++
	return b
}

func (vm *VM) readOperand() int {
	if vm.ip+operandSize > len(vm.chunk.Code) {
		panic(errTruncatedBytecode)
	}
	v := vm.chunk.ReadOperand(vm.ip)
	vm.ip += operandSize
	return v
}

func (vm *VM) runtimeError(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return diagnostics.Errorf(diagnostics.ErrB001, token.Token{}, "runtime error at %04d: %s", vm.ip, msg)
}
