package diagnostics

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	colorRed    = "\x1b[31m"
	colorYellow = "\x1b[33m"
	colorReset  = "\x1b[0m"
)

// ColorMode selects when the Printer emits ANSI colors.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Printer writes diagnostics and warnings for humans.
type Printer struct {
	out   io.Writer
	color bool
}

func NewPrinter(out io.Writer, mode ColorMode) *Printer {
	return &Printer{out: out, color: useColor(out, mode)}
}

func useColor(out io.Writer, mode ColorMode) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *Printer) Error(err error) {
	p.write(colorRed, As(err).Error())
}

func (p *Printer) Warning(msg string) {
	p.write(colorYellow, "Warning: "+msg)
}

func (p *Printer) write(color, line string) {
	if p.color {
		fmt.Fprintf(p.out, "%s%s%s\n", color, line, colorReset)
		return
	}
	fmt.Fprintln(p.out, line)
}
