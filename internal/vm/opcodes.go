// Package vm is the default instruction sink: a small verified stack
// machine over tagged int64/float64 values.
package vm

import "github.com/probexq/ASharpLang/internal/sink"

// Opcode represents a single VM instruction
type Opcode byte

const (
	// Constants and slots take a 4-byte operand.
	OP_CONST Opcode = iota // Push constant from pool
	OP_LOAD                // Push slot value
	OP_STORE               // Pop into slot

	// Float arithmetic
	OP_ADD
	OP_SUB
	OP_MUL
	OP_DIV
	OP_POW
	OP_MAX
	OP_MIN
	OP_NEG
	OP_SQRT
	OP_ROUND
	OP_ABS

	// Comparison, pushing int 1 or 0
	OP_CEQ
	OP_CLT
	OP_CGT

	// Bitwise on ints
	OP_AND
	OP_OR

	// Conversions
	OP_CONV_I
	OP_CONV_R

	OP_DUP
	OP_POP
	OP_TRACE

	// Control flow; 4-byte absolute target
	OP_JUMP
	OP_JUMP_IF_TRUE
	OP_JUMP_IF_FALSE

	OP_HALT // Return top of stack
)

var opcodeNames = [...]string{
	OP_CONST:         "CONST",
	OP_LOAD:          "LOAD",
	OP_STORE:         "STORE",
	OP_ADD:           "ADD",
	OP_SUB:           "SUB",
	OP_MUL:           "MUL",
	OP_DIV:           "DIV",
	OP_POW:           "POW",
	OP_MAX:           "MAX",
	OP_MIN:           "MIN",
	OP_NEG:           "NEG",
	OP_SQRT:          "SQRT",
	OP_ROUND:         "ROUND",
	OP_ABS:           "ABS",
	OP_CEQ:           "CEQ",
	OP_CLT:           "CLT",
	OP_CGT:           "CGT",
	OP_AND:           "AND",
	OP_OR:            "OR",
	OP_CONV_I:        "CONV_I",
	OP_CONV_R:        "CONV_R",
	OP_DUP:           "DUP",
	OP_POP:           "POP",
	OP_TRACE:         "TRACE",
	OP_JUMP:          "JUMP",
	OP_JUMP_IF_TRUE:  "JUMP_IF_TRUE",
	OP_JUMP_IF_FALSE: "JUMP_IF_FALSE",
	OP_HALT:          "HALT",
}

func (op Opcode) String() string {
	if int(op) < len(opcodeNames) && opcodeNames[op] != "" {
		return opcodeNames[op]
	}
	return "UNKNOWN"
}

// operandSize is the width of every instruction operand.
const operandSize = 4

// operandWidth is the number of operand bytes following op.
func operandWidth(op Opcode) int {
	switch op {
	case OP_CONST, OP_LOAD, OP_STORE, OP_JUMP, OP_JUMP_IF_TRUE, OP_JUMP_IF_FALSE:
		return operandSize
	}
	return 0
}

// sinkOps maps the operand-free sink instructions onto opcodes.
var sinkOps = map[sink.Op]Opcode{
	sink.OpAdd:   OP_ADD,
	sink.OpSub:   OP_SUB,
	sink.OpMul:   OP_MUL,
	sink.OpDiv:   OP_DIV,
	sink.OpPow:   OP_POW,
	sink.OpMax:   OP_MAX,
	sink.OpMin:   OP_MIN,
	sink.OpNeg:   OP_NEG,
	sink.OpSqrt:  OP_SQRT,
	sink.OpRound: OP_ROUND,
	sink.OpAbs:   OP_ABS,
	sink.OpCeq:   OP_CEQ,
	sink.OpClt:   OP_CLT,
	sink.OpCgt:   OP_CGT,
	sink.OpAnd:   OP_AND,
	sink.OpOr:    OP_OR,
	sink.OpConvI: OP_CONV_I,
	sink.OpConvR: OP_CONV_R,
	sink.OpDup:   OP_DUP,
	sink.OpPop:   OP_POP,
	sink.OpTrace: OP_TRACE,
}
