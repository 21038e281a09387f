package config

import (
	"path/filepath"
	"runtime"
	"strings"
)

// SourceFileExt is appended to import identifiers to form module file names.
const SourceFileExt = ".ash"

// Version is set at build time with -ldflags "-X .../internal/config.Version=...".
var Version = "0.2.0"

// LibsDirName is the directory searched next to the executable for imports.
const LibsDirName = "libs"

// Built-in function names
const (
	MaxFuncName      = "MAX"
	MinFuncName      = "MIN"
	AbsFuncName      = "ABS"
	LogFuncName      = "LOG"
	LogAliasFuncName = "log"
	MaxSigil         = "+#"
	MinSigil         = "-#"
)

// Target describes what the compiler emits to.
func Target() string {
	return "stack bytecode vm (" + runtime.GOOS + "/" + runtime.GOARCH + ")"
}

// ModuleFileName maps an import identifier to its module file name.
func ModuleFileName(ident string) string {
	return ident + SourceFileExt
}

func HasSourceExt(path string) bool {
	return strings.HasSuffix(path, SourceFileExt)
}

// TrimSourceExt strips the source extension from a file name.
func TrimSourceExt(name string) string {
	return strings.TrimSuffix(name, SourceFileExt)
}

// ModuleName derives a display name from a module path.
func ModuleName(path string) string {
	return TrimSourceExt(filepath.Base(path))
}
