// Package backend provides an interface for different execution backends.
// Code generation only ever sees the sink a backend hands out.
package backend

import "github.com/probexq/ASharpLang/internal/sink"

// Backend is the interface for execution backends
type Backend interface {
	// NewSink returns a fresh instruction sink whose sealed program is
	// named program.
	NewSink(program string) sink.Sink

	// Name returns the backend name for display
	Name() string
}
