// Package cli implements the ash command line: argument handling, the
// compile-and-run pipeline and user-facing diagnostics.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/probexq/ASharpLang/internal/ast"
	"github.com/probexq/ASharpLang/internal/backend"
	"github.com/probexq/ASharpLang/internal/codegen"
	"github.com/probexq/ASharpLang/internal/config"
	"github.com/probexq/ASharpLang/internal/diagnostics"
	"github.com/probexq/ASharpLang/internal/lexer"
	"github.com/probexq/ASharpLang/internal/modules"
	"github.com/probexq/ASharpLang/internal/parser"
	"github.com/probexq/ASharpLang/internal/pipeline"
	"github.com/probexq/ASharpLang/internal/token"
	"github.com/probexq/ASharpLang/internal/vm"
)

// Exit codes returned by Run.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

const usage = `Usage: ash [flags] <file.ash>

Flags:
  -v, --version   print the version and target, then exit
  --echo          print the program result after running
  --debug         dump tokens, the AST and the sealed program to stderr
  -h, --help      print this message
`

// options are the command line flags merged with ash.yaml.
type options struct {
	path  string
	echo  bool
	debug bool
}

// Run executes the command line args and returns the process exit code.
// Program output (LOG traces and --echo) goes to stdout, everything else
// to stderr.
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stdout, usage)
		return ExitOK
	}

	var opts options
	for _, arg := range args {
		switch arg {
		case "-v", "-version", "--version":
			fmt.Fprintf(stdout, "ash %s (%s)\n", config.Version, config.Target())
			return ExitOK
		case "-h", "-help", "--help", "help":
			fmt.Fprint(stdout, usage)
			return ExitOK
		case "-echo", "--echo":
			opts.echo = true
		case "-debug", "--debug":
			opts.debug = true
		default:
			if strings.HasPrefix(arg, "-") {
				fmt.Fprintf(stderr, "unknown flag: %s\n", arg)
				fmt.Fprint(stderr, usage)
				return ExitUsage
			}
			if opts.path != "" {
				fmt.Fprintf(stderr, "only one source file may be given (got %s and %s)\n", opts.path, arg)
				return ExitUsage
			}
			opts.path = arg
		}
	}
	if opts.path == "" {
		fmt.Fprint(stderr, usage)
		return ExitUsage
	}

	return runFile(opts, stdout, stderr)
}

func runFile(opts options, stdout, stderr io.Writer) int {
	cfg, err := config.Load(filepath.Dir(opts.path))
	if err != nil {
		diagnostics.NewPrinter(stderr, diagnostics.ColorAuto).Error(
			diagnostics.Errorf(diagnostics.ErrK001, token.Token{}, "invalid configuration: %v", err))
		return ExitError
	}
	printer := diagnostics.NewPrinter(stderr, diagnostics.ColorMode(cfg.Color))
	opts.echo = opts.echo || cfg.Echo
	opts.debug = opts.debug || cfg.Debug

	source, err := readSource(opts.path)
	if err != nil {
		printer.Error(err)
		return ExitError
	}

	var logger *log.Logger
	if opts.debug {
		logger = log.New(stderr, "", 0)
	}

	session := codegen.NewSession(modules.DefaultResolver(cfg.Libs...))
	ctx, empty := RunSource(source, opts.path, session, stdout, logger)
	if len(ctx.Errors) > 0 {
		for _, err := range ctx.Errors {
			printer.Error(err)
		}
		return ExitError
	}
	if empty {
		printer.Warning("empty file")
		return ExitOK
	}
	if opts.echo && ctx.HasResult {
		fmt.Fprintln(stdout, vm.FormatFloat(ctx.Result))
	}
	return ExitOK
}

// readSource reads the input file, turning failures into path diagnostics.
func readSource(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", diagnostics.Errorf(diagnostics.ErrF001, token.Token{}, "no such file: %s", path)
		}
		return "", diagnostics.Errorf(diagnostics.ErrF001, token.Token{}, "%v", err)
	}
	if info.IsDir() {
		return "", diagnostics.Errorf(diagnostics.ErrF001, token.Token{}, "%s is a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", diagnostics.Errorf(diagnostics.ErrF001, token.Token{}, "%v", err)
	}
	return string(data), nil
}

// RunSource lexes, parses, compiles and runs source as the file filePath.
// LOG output is written to trace. The second result reports an empty
// program, which is neither compiled nor run. A non-nil logger receives
// the debug dumps.
func RunSource(source, filePath string, session *codegen.Session, trace io.Writer, logger *log.Logger) (*pipeline.PipelineContext, bool) {
	ctx := pipeline.NewPipelineContext(source)
	ctx.FilePath = filePath

	front := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
	)
	ctx = front.Run(ctx)
	if logger != nil {
		logger.Printf("tokens: %d", len(ctx.Tokens))
		if ctx.AstRoot != nil {
			logger.Printf("ast: %s", ast.String(ctx.AstRoot.Body))
		}
	}
	if len(ctx.Errors) > 0 {
		return ctx, false
	}
	if len(ctx.AstRoot.Body.Statements) == 0 {
		return ctx, true
	}

	back := pipeline.New(
		codegen.NewCodeGenProcessor(session, backend.NewVM(trace)),
		backend.NewExecutionProcessor(),
	)
	ctx = back.Run(ctx)
	if logger != nil {
		if prog, ok := ctx.Program.(*vm.Program); ok {
			logger.Print(vm.Disassemble(prog.Chunk(), prog.Name()))
		}
		if ctx.HasResult {
			logger.Printf("result: %s", vm.FormatFloat(ctx.Result))
		}
	}
	return ctx, false
}
