package vm

import (
	"fmt"
	"strings"
)

// Disassemble returns a human-readable representation of the bytecode
func Disassemble(chunk *Chunk, name string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "== %s ==\n", name)
	if chunk.Slots > 0 {
		fmt.Fprintf(&sb, "slots: %d\n", chunk.Slots)
	}

	offset := 0
	for offset < len(chunk.Code) {
		offset = disassembleInstruction(&sb, chunk, offset)
	}

	return sb.String()
}

func disassembleInstruction(sb *strings.Builder, chunk *Chunk, offset int) int {
	fmt.Fprintf(sb, "%04d ", offset)

	op := Opcode(chunk.Code[offset])
	width := operandWidth(op)
	if offset+width >= len(chunk.Code) && width > 0 {
		fmt.Fprintf(sb, "%s <truncated>\n", op)
		return len(chunk.Code)
	}

	switch op {
	case OP_CONST:
		idx := chunk.ReadOperand(offset + 1)
		if idx < len(chunk.Constants) {
			c := chunk.Constants[idx]
			fmt.Fprintf(sb, "%-16s %4d '%s' (%s)\n", op, idx, c, c.Type)
		} else {
			fmt.Fprintf(sb, "%-16s %4d <invalid>\n", op, idx)
		}
	case OP_LOAD, OP_STORE:
		fmt.Fprintf(sb, "%-16s %4d\n", op, chunk.ReadOperand(offset+1))
	case OP_JUMP, OP_JUMP_IF_TRUE, OP_JUMP_IF_FALSE:
		fmt.Fprintf(sb, "%-16s %4d -> %04d\n", op, offset, chunk.ReadOperand(offset+1))
	default:
		fmt.Fprintf(sb, "%s\n", op)
	}
	return offset + 1 + width
}
