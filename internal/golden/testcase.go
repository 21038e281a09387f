// Package golden extracts ash test cases from Markdown documents. A test
// case starts at a "Test: name" heading and holds one ```ash input fence,
// optional ```module NAME fences providing importable files, and one or
// more assertion fences.
package golden

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const (
	InputFence  = "ash"
	ModuleFence = "module"
)

// AssertionType is the language of an assertion fence.
type AssertionType string

const (
	AssertionResult AssertionType = "result" // program result, formatted with %g
	AssertionTrace  AssertionType = "trace"  // exact LOG output
	AssertionError  AssertionType = "error"  // diagnostic code, optionally followed by message text
	AssertionAST    AssertionType = "ast"    // s-expression of the parsed body
)

type Assertion struct {
	Type    AssertionType
	Content string
	Line    int
}

// TestCase is one "Test:" section.
type TestCase struct {
	Name       string
	Input      string
	Modules    map[string]string // module file name -> source
	Assertions []Assertion
	Line       int
}

// ExtractTestCases parses a Markdown document and extracts all test cases.
func ExtractTestCases(markdownContent string) ([]TestCase, error) {
	source := []byte(markdownContent)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var testCases []TestCase
	var current *TestCase

	finish := func() error {
		if current == nil {
			return nil
		}
		if err := validateTestCase(current); err != nil {
			return err
		}
		testCases = append(testCases, *current)
		return nil
	}

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			heading := extractTextFromNode(n, source)
			if !strings.HasPrefix(heading, "Test: ") {
				return ast.WalkContinue, nil
			}
			if err := finish(); err != nil {
				return ast.WalkStop, err
			}
			current = &TestCase{
				Name:    strings.TrimPrefix(heading, "Test: "),
				Modules: map[string]string{},
				Line:    lineOf(n, source),
			}

		case *ast.FencedCodeBlock:
			language := string(n.Language(source))
			content := extractCodeBlockContent(n, source)
			line := lineOf(n, source)

			if current == nil {
				if language != "" {
					return ast.WalkStop, fmt.Errorf("line %d: %s fence found outside of test case", line, language)
				}
				return ast.WalkContinue, nil
			}

			switch {
			case language == InputFence:
				if current.Input != "" {
					return ast.WalkStop, fmt.Errorf("line %d: multiple input fences found in test '%s'", line, current.Name)
				}
				current.Input = strings.TrimRight(content, "\n")
				if current.Input == "" {
					return ast.WalkStop, fmt.Errorf("line %d: empty input fence in test '%s'", line, current.Name)
				}

			case language == ModuleFence:
				name := moduleName(n, source)
				if name == "" {
					return ast.WalkStop, fmt.Errorf("line %d: module fence without a name in test '%s'", line, current.Name)
				}
				current.Modules[name] = content

			case isAssertionFence(language):
				current.Assertions = append(current.Assertions, Assertion{
					Type:    AssertionType(language),
					Content: strings.TrimRight(content, "\n"),
					Line:    line,
				})

			default:
				return ast.WalkStop, fmt.Errorf("line %d: unknown fence language '%s' in test '%s'", line, language, current.Name)
			}
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking markdown AST: %w", err)
	}
	if err := finish(); err != nil {
		return nil, err
	}
	return testCases, nil
}

// moduleName reads NAME from a ```module NAME info string and adds the
// source extension when it is missing.
func moduleName(n *ast.FencedCodeBlock, source []byte) string {
	if n.Info == nil {
		return ""
	}
	fields := strings.Fields(string(n.Info.Segment.Value(source)))
	if len(fields) < 2 {
		return ""
	}
	name := fields[1]
	if !strings.HasSuffix(name, ".ash") {
		name += ".ash"
	}
	return name
}

func extractTextFromNode(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := n.(*ast.Text); ok {
				buf.Write(t.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func extractCodeBlockContent(codeBlock *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	for i := 0; i < codeBlock.Lines().Len(); i++ {
		line := codeBlock.Lines().At(i)
		buf.Write(line.Value(source))
	}
	return buf.String()
}

func isAssertionFence(language string) bool {
	switch AssertionType(language) {
	case AssertionResult, AssertionTrace, AssertionError, AssertionAST:
		return true
	}
	return false
}

func validateTestCase(tc *TestCase) error {
	if tc.Input == "" {
		return fmt.Errorf("test '%s' has no input fence", tc.Name)
	}
	if len(tc.Assertions) == 0 {
		return fmt.Errorf("test '%s' has no assertion fences", tc.Name)
	}
	return nil
}

// lineOf returns the 1-based line of the node's first content line.
func lineOf(node ast.Node, source []byte) int {
	if node.Lines().Len() == 0 {
		return 1
	}
	return bytes.Count(source[:node.Lines().At(0).Start], []byte("\n")) + 1
}
