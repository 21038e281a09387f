// Package codegen lowers a parsed program onto a sink.Sink. Generation
// writes into a sink.Recorder first; the real backend only ever receives a
// complete instruction stream.
package codegen

import (
	"github.com/google/uuid"

	"github.com/probexq/ASharpLang/internal/config"
	"github.com/probexq/ASharpLang/internal/modules"
)

// Session is the state shared by one compilation run: the flat symbol
// table and the import cache. Nothing in it outlives the run.
type Session struct {
	ID       uuid.UUID
	Symbols  *SymbolTable
	Imports  *modules.Cache
	Resolver *modules.Resolver
}

// NewSession creates a session resolving imports through resolver
// (modules.DefaultResolver when nil).
func NewSession(resolver *modules.Resolver) *Session {
	if resolver == nil {
		resolver = modules.DefaultResolver()
	}
	return &Session{
		ID:       uuid.New(),
		Symbols:  NewSymbolTable(),
		Imports:  modules.NewCache(),
		Resolver: resolver,
	}
}

// ProgramName names the sealed program for file, e.g. "main-<session id>".
func (s *Session) ProgramName(file string) string {
	name := "main"
	if file != "" {
		name = config.ModuleName(file)
	}
	return name + "-" + s.ID.String()
}
