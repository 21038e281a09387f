package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/probexq/ASharpLang/internal/config"
)

func run(args ...string) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	code = Run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNoArgsPrintsUsage(t *testing.T) {
	code, stdout, stderr := run()
	be.Equal(t, code, ExitOK)
	be.True(t, strings.HasPrefix(stdout, "Usage: ash"))
	be.Equal(t, stderr, "")
}

func TestVersion(t *testing.T) {
	for _, flag := range []string{"-v", "--version"} {
		code, stdout, _ := run(flag)
		be.Equal(t, code, ExitOK)
		be.Equal(t, stdout, "ash "+config.Version+" ("+config.Target()+")\n")
	}
}

func TestUnknownFlag(t *testing.T) {
	code, _, stderr := run("--fast", "main.ash")
	be.Equal(t, code, ExitUsage)
	be.True(t, strings.Contains(stderr, "unknown flag: --fast"))
}

func TestTwoSourceFiles(t *testing.T) {
	code, _, stderr := run("a.ash", "b.ash")
	be.Equal(t, code, ExitUsage)
	be.True(t, strings.Contains(stderr, "only one source file"))
}

func TestMissingFileIsPathError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.ash")
	code, stdout, stderr := run(path)
	be.Equal(t, code, ExitError)
	be.Equal(t, stdout, "")
	be.Equal(t, stderr, "[F001] no such file: "+path+"\n")
}

func TestDirectoryIsPathError(t *testing.T) {
	code, _, stderr := run(t.TempDir())
	be.Equal(t, code, ExitError)
	be.True(t, strings.Contains(stderr, "[F001]"))
}

func TestEmptyFileWarns(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.ash", "// nothing\n")
	code, stdout, stderr := run("--echo", path)
	be.Equal(t, code, ExitOK)
	be.Equal(t, stdout, "")
	be.Equal(t, stderr, "Warning: empty file\n")
}

func TestRunAndEcho(t *testing.T) {
	path := writeFile(t, t.TempDir(), "main.ash", "log(2), 2 + 3 * 4,")

	code, stdout, stderr := run(path)
	be.Equal(t, code, ExitOK)
	be.Equal(t, stdout, "2\n")
	be.Equal(t, stderr, "")

	code, stdout, _ = run("--echo", path)
	be.Equal(t, code, ExitOK)
	be.Equal(t, stdout, "2\n14\n")
}

func TestExitCodeIndependentOfResult(t *testing.T) {
	path := writeFile(t, t.TempDir(), "zero.ash", "0,")
	code, _, _ := run(path)
	be.Equal(t, code, ExitOK)
}

func TestDiagnosticExitsNonZero(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.ash", "let x = 1,\nx + y,")
	code, stdout, stderr := run("--echo", path)
	be.Equal(t, code, ExitError)
	be.Equal(t, stdout, "")
	be.Equal(t, stderr, path+":2:5: [D001] undefined variable 'y'\n")
}

func TestConfigEchoAndLibs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "ash.yaml", "echo: true\nlibs:\n  - shared\n")
	writeFile(t, root, "shared/answer.ash", "let answer = 42,")
	path := writeFile(t, root, "src/main.ash", "$answer, answer / 2,")

	code, stdout, stderr := run(path)
	be.Equal(t, code, ExitOK)
	be.Equal(t, stdout, "21\n")
	be.Equal(t, stderr, "")
}

func TestInvalidConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "ash.yaml", "color: purple\n")
	path := writeFile(t, root, "main.ash", "1,")

	code, _, stderr := run(path)
	be.Equal(t, code, ExitError)
	be.True(t, strings.HasPrefix(stderr, "[K001] invalid configuration: "))
	be.True(t, strings.Contains(stderr, "color must be one of"))
	be.True(t, !strings.Contains(stderr, "F001"))
}

func TestMalformedConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "ash.yaml", "libs: [unterminated\n")
	path := writeFile(t, root, "main.ash", "1,")

	code, _, stderr := run(path)
	be.Equal(t, code, ExitError)
	be.True(t, strings.HasPrefix(stderr, "[K001] invalid configuration: parsing "))
}

func TestDebugDumps(t *testing.T) {
	path := writeFile(t, t.TempDir(), "main.ash", "let x = 2, x * 3,")
	code, stdout, stderr := run("--debug", path)
	be.Equal(t, code, ExitOK)
	be.Equal(t, stdout, "")
	be.True(t, strings.Contains(stderr, "tokens: 10\n"))
	be.True(t, strings.Contains(stderr, "ast: (block (let x 2) (* x 3))\n"))
	be.True(t, strings.Contains(stderr, "== main-"))
	be.True(t, strings.Contains(stderr, "HALT"))
	be.True(t, strings.Contains(stderr, "result: 6\n"))
}
