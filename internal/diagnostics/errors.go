// Package diagnostics provides the single error type shared by every stage
// of the ash pipeline.
package diagnostics

import (
	"errors"
	"fmt"
	"strings"

	"github.com/probexq/ASharpLang/internal/token"
)

// Kind classifies a diagnostic.
type Kind int

const (
	LexicalError Kind = iota
	SyntaxError
	DeclarationError
	ArityError
	UnknownCallError
	ImportResolutionError
	BackendEmissionError
	PathError
	ConfigError
)

var kindNames = [...]string{
	LexicalError:          "LexicalError",
	SyntaxError:           "SyntaxError",
	DeclarationError:      "DeclarationError",
	ArityError:            "ArityError",
	UnknownCallError:      "UnknownCallError",
	ImportResolutionError: "ImportResolutionError",
	BackendEmissionError:  "BackendEmissionError",
	PathError:             "PathError",
	ConfigError:           "ConfigError",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

type ErrorCode string

const (
	ErrL001 ErrorCode = "L001" // unexpected character
	ErrL002 ErrorCode = "L002" // malformed number literal

	ErrP001 ErrorCode = "P001" // unexpected token
	ErrP002 ErrorCode = "P002" // missing statement terminator
	ErrP003 ErrorCode = "P003" // unbalanced delimiter

	ErrD001 ErrorCode = "D001" // undefined variable
	ErrD002 ErrorCode = "D002" // redeclaration
	ErrD003 ErrorCode = "D003" // constant reassignment

	ErrA001 ErrorCode = "A001" // wrong number of call arguments
	ErrC001 ErrorCode = "C001" // unknown function
	ErrI001 ErrorCode = "I001" // module not found
	ErrI002 ErrorCode = "I002" // circular import
	ErrB001 ErrorCode = "B001" // backend invariant violation
	ErrF001 ErrorCode = "F001" // input path
	ErrK001 ErrorCode = "K001" // invalid project configuration
)

var codeKinds = map[ErrorCode]Kind{
	ErrL001: LexicalError,
	ErrL002: LexicalError,
	ErrP001: SyntaxError,
	ErrP002: SyntaxError,
	ErrP003: SyntaxError,
	ErrD001: DeclarationError,
	ErrD002: DeclarationError,
	ErrD003: DeclarationError,
	ErrA001: ArityError,
	ErrC001: UnknownCallError,
	ErrI001: ImportResolutionError,
	ErrI002: ImportResolutionError,
	ErrB001: BackendEmissionError,
	ErrF001: PathError,
	ErrK001: ConfigError,
}

// DiagnosticError is a fatal diagnostic with an optional source position.
// A zero Token.Line means the position is unknown.
type DiagnosticError struct {
	Code    ErrorCode
	Token   token.Token
	File    string
	Message string
}

func NewError(code ErrorCode, tok token.Token, msg string) *DiagnosticError {
	return &DiagnosticError{Code: code, Token: tok, Message: msg}
}

// Errorf is NewError with a formatted message.
func Errorf(code ErrorCode, tok token.Token, format string, args ...any) *DiagnosticError {
	return NewError(code, tok, fmt.Sprintf(format, args...))
}

func (e *DiagnosticError) Kind() Kind {
	if k, ok := codeKinds[e.Code]; ok {
		return k
	}
	return BackendEmissionError
}

// HasPosition reports whether the diagnostic carries a source position.
func (e *DiagnosticError) HasPosition() bool {
	return e.Token.Line > 0
}

func (e *DiagnosticError) Error() string {
	var sb strings.Builder
	if e.File != "" {
		sb.WriteString(e.File)
		sb.WriteString(":")
	}
	if e.HasPosition() {
		fmt.Fprintf(&sb, "%d:%d:", e.Token.Line, e.Token.Column)
	}
	if sb.Len() > 0 {
		sb.WriteString(" ")
	}
	fmt.Fprintf(&sb, "[%s] %s", e.Code, e.Message)
	return sb.String()
}

// Is reports whether err is a diagnostic of the given kind.
func Is(err error, kind Kind) bool {
	var de *DiagnosticError
	if errors.As(err, &de) {
		return de.Kind() == kind
	}
	return false
}

// As extracts the diagnostic from err, wrapping foreign errors as
// backend invariant violations.
func As(err error) *DiagnosticError {
	if err == nil {
		return nil
	}
	var de *DiagnosticError
	if errors.As(err, &de) {
		return de
	}
	return NewError(ErrB001, token.Token{}, err.Error())
}
