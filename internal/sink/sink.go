// Package sink defines the instruction-consuming backend contract that code
// generation targets. Code generation depends only on this package, never on
// how a backend executes the program.
package sink

import "fmt"

// Op is the closed set of stack instructions a Sink accepts.
type Op byte

const (
	// Float arithmetic: pops operands, pushes a float.
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpPow
	OpMax
	OpMin
	OpNeg
	OpSqrt
	OpRound // half away from zero
	OpAbs

	// Comparisons: pop two values of the same kind, push int 1 or 0.
	OpCeq
	OpClt
	OpCgt

	// Bitwise on ints.
	OpAnd
	OpOr

	// Conversions.
	OpConvI // float -> int, truncating toward zero
	OpConvR // int -> float

	// Stack and effects.
	OpDup
	OpPop
	OpTrace // pop a float and print it
)

var opNames = [...]string{
	OpAdd:   "add",
	OpSub:   "sub",
	OpMul:   "mul",
	OpDiv:   "div",
	OpPow:   "pow",
	OpMax:   "max",
	OpMin:   "min",
	OpNeg:   "neg",
	OpSqrt:  "sqrt",
	OpRound: "round",
	OpAbs:   "abs",
	OpCeq:   "ceq",
	OpClt:   "clt",
	OpCgt:   "cgt",
	OpAnd:   "and",
	OpOr:    "or",
	OpConvI: "conv.i",
	OpConvR: "conv.r",
	OpDup:   "dup",
	OpPop:   "pop",
	OpTrace: "trace",
}

func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return fmt.Sprintf("op(%d)", byte(op))
}

// Slot is a backend-managed storage location holding one float64.
type Slot int

// Label is a branch target allocated by DefineLabel.
type Label int

// Sink consumes a single instruction stream and seals it into a Program.
type Sink interface {
	PushFloat(v float64)
	PushInt(v int64)

	DeclareSlot() Slot
	Load(s Slot)
	Store(s Slot)

	Emit(op Op)

	DefineLabel() Label
	MarkLabel(l Label)
	// BranchIf pops a value and jumps to l when (value != 0) == sense.
	BranchIf(l Label, sense bool)
	Branch(l Label)

	// Seal finishes the stream. The stream must leave exactly one float.
	Seal() (Program, error)
}

// Program is a sealed, zero-argument callable yielding one number.
type Program interface {
	Name() string
	Invoke() (float64, error)
}
