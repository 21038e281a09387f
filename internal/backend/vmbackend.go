package backend

import (
	"io"

	"github.com/probexq/ASharpLang/internal/sink"
	"github.com/probexq/ASharpLang/internal/vm"
)

// VMBackend assembles programs for the bytecode VM
type VMBackend struct {
	trace io.Writer
}

// NewVM creates a VM backend whose programs print LOG output to trace
// (standard output when nil).
func NewVM(trace io.Writer) *VMBackend {
	return &VMBackend{trace: trace}
}

func (b *VMBackend) NewSink(program string) sink.Sink {
	return vm.NewAssembler(program, b.trace)
}

func (b *VMBackend) Name() string { return "vm" }
