// Package modules resolves import names to module sources and parses each
// module at most once per session.
package modules

import (
	"github.com/probexq/ASharpLang/internal/ast"
	"github.com/probexq/ASharpLang/internal/config"
)

// Module is a parsed source file reachable through an import.
type Module struct {
	Name    string // import name without extension, e.g. "consts"
	Path    string // resolved path; unique per module and used as cache key
	Dir     string // directory for nested relative imports, "" if not on disk
	Program *ast.Program

	IsEmbedded bool // True if bundled into the executable
}

func newModule(loc Location, prog *ast.Program) *Module {
	return &Module{
		Name:       config.ModuleName(loc.File),
		Path:       loc.Path,
		Dir:        loc.Dir,
		Program:    prog,
		IsEmbedded: loc.Embedded,
	}
}
