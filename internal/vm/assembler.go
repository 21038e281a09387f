package vm

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/probexq/ASharpLang/internal/diagnostics"
	"github.com/probexq/ASharpLang/internal/sink"
	"github.com/probexq/ASharpLang/internal/token"
)

// maxOperand bounds constant, slot and branch operands.
const maxOperand = math.MaxInt32

const unmarked = -1

// Assembler implements sink.Sink by writing bytecode into a Chunk. Branch
// targets are written as placeholders and patched once every label is
// known.
type Assembler struct {
	name  string
	chunk *Chunk
	trace io.Writer

	labels []int // label -> code offset, or unmarked
	jumps  []jump

	err    error
	sealed bool
}

type jump struct {
	operand int // offset of the 4-byte target
	label   sink.Label
}

// NewAssembler returns an assembler whose program writes TRACE output to
// trace (os.Stdout when nil).
func NewAssembler(name string, trace io.Writer) *Assembler {
	if trace == nil {
		trace = os.Stdout
	}
	return &Assembler{name: name, chunk: NewChunk(), trace: trace}
}

// Chunk exposes the code written so far.
func (a *Assembler) Chunk() *Chunk { return a.chunk }

func (a *Assembler) fail(format string, args ...any) {
	if a.err == nil {
		a.err = diagnostics.Errorf(diagnostics.ErrB001, token.Token{}, format, args...)
	}
}

func (a *Assembler) writable() bool {
	if a.sealed {
		a.fail("instruction emitted after seal")
		return false
	}
	return a.err == nil
}

func (a *Assembler) emitConstant(v Value) {
	if !a.writable() {
		return
	}
	idx := a.chunk.AddConstant(v)
	if idx > maxOperand {
		a.fail("too many constants")
		return
	}
	a.chunk.WriteOp(OP_CONST)
	a.chunk.WriteOperand(idx)
}

func (a *Assembler) PushFloat(v float64) { a.emitConstant(FloatVal(v)) }
func (a *Assembler) PushInt(v int64)     { a.emitConstant(IntVal(v)) }

func (a *Assembler) DeclareSlot() sink.Slot {
	s := sink.Slot(a.chunk.Slots)
	a.chunk.Slots++
	if a.chunk.Slots > maxOperand+1 {
		a.fail("too many slots")
	}
	return s
}

func (a *Assembler) slotOp(op Opcode, s sink.Slot) {
	if !a.writable() {
		return
	}
	if s < 0 || int(s) >= a.chunk.Slots {
		a.fail("%s of undeclared slot %d", op, s)
		return
	}
	a.chunk.WriteOp(op)
	a.chunk.WriteOperand(int(s))
}

func (a *Assembler) Load(s sink.Slot)  { a.slotOp(OP_LOAD, s) }
func (a *Assembler) Store(s sink.Slot) { a.slotOp(OP_STORE, s) }

func (a *Assembler) Emit(op sink.Op) {
	if !a.writable() {
		return
	}
	code, ok := sinkOps[op]
	if !ok {
		a.fail("unknown instruction %s", op)
		return
	}
	a.chunk.WriteOp(code)
}

func (a *Assembler) DefineLabel() sink.Label {
	a.labels = append(a.labels, unmarked)
	return sink.Label(len(a.labels) - 1)
}

func (a *Assembler) validLabel(l sink.Label) bool {
	if l < 0 || int(l) >= len(a.labels) {
		a.fail("undefined label %d", l)
		return false
	}
	return true
}

func (a *Assembler) MarkLabel(l sink.Label) {
	if !a.writable() || !a.validLabel(l) {
		return
	}
	if a.labels[l] != unmarked {
		a.fail("label %d marked twice", l)
		return
	}
	a.labels[l] = a.chunk.Len()
}

// emitJump writes op with a placeholder target to be patched at seal.
func (a *Assembler) emitJump(op Opcode, l sink.Label) {
	if !a.writable() || !a.validLabel(l) {
		return
	}
	a.chunk.WriteOp(op)
	a.jumps = append(a.jumps, jump{operand: a.chunk.Len(), label: l})
	a.chunk.WriteOperand(maxOperand)
}

func (a *Assembler) BranchIf(l sink.Label, sense bool) {
	if sense {
		a.emitJump(OP_JUMP_IF_TRUE, l)
	} else {
		a.emitJump(OP_JUMP_IF_FALSE, l)
	}
}

func (a *Assembler) Branch(l sink.Label) { a.emitJump(OP_JUMP, l) }

// patchJumps resolves every branch placeholder to its label's offset.
func (a *Assembler) patchJumps() error {
	for _, j := range a.jumps {
		target := a.labels[j.label]
		if target == unmarked {
			return diagnostics.Errorf(diagnostics.ErrB001, token.Token{}, "branch to label %d which is never marked", j.label)
		}
		if target > maxOperand {
			return diagnostics.NewError(diagnostics.ErrB001, token.Token{}, "program too large")
		}
		a.chunk.PatchOperand(j.operand, target)
	}
	return nil
}

// Seal finishes the chunk and verifies it. On success the returned program
// is ready to invoke; on failure nothing is executable.
func (a *Assembler) Seal() (sink.Program, error) {
	if a.sealed {
		return nil, diagnostics.NewError(diagnostics.ErrB001, token.Token{}, "program already sealed")
	}
	if a.err != nil {
		return nil, a.err
	}
	a.chunk.WriteOp(OP_HALT)
	a.sealed = true

	if err := a.patchJumps(); err != nil {
		return nil, err
	}
	if err := Verify(a.chunk); err != nil {
		return nil, err
	}
	return &Program{name: a.name, chunk: a.chunk, trace: a.trace}, nil
}

// Program is a sealed, verified chunk.
type Program struct {
	name  string
	chunk *Chunk
	trace io.Writer
}

func (p *Program) Name() string  { return p.name }
func (p *Program) Chunk() *Chunk { return p.chunk }

// Invoke runs the program on a fresh machine.
func (p *Program) Invoke() (float64, error) {
	machine := New(p.chunk, p.trace)
	return machine.Run()
}

func (p *Program) String() string {
	return fmt.Sprintf("program %s (%d bytes)", p.name, p.chunk.Len())
}
