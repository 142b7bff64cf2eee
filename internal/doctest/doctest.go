// Package doctest extracts fenced code examples from Markdown
// documentation so they can be compiled as part of the test suite.
// Fences tagged `veld` must compile cleanly; fences tagged
// `veld-error` must produce at least one diagnostic. Documentation
// that drifts from the language breaks the build.
package doctest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Fence languages the extractor cares about.
const (
	LangVeld      = "veld"
	LangVeldError = "veld-error"
)

// Example is one code fence pulled from a Markdown document.
type Example struct {
	Name      string // derived from the nearest heading above the fence
	Source    string
	WantError bool // true for veld-error fences
	Line      int  // 1-based line of the fence in the document
}

// Extract parses a Markdown document and returns every veld and
// veld-error fence, in document order. Fences in other languages are
// ignored.
func Extract(source []byte) ([]Example, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var examples []Example
	heading := ""
	count := 0

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			heading = extractText(n, source)

		case *ast.FencedCodeBlock:
			lang := string(n.Language(source))
			if lang != LangVeld && lang != LangVeldError {
				return ast.WalkContinue, nil
			}
			content := fenceContent(n, source)
			if strings.TrimSpace(content) == "" {
				return ast.WalkStop, fmt.Errorf("empty %s fence under heading %q", lang, heading)
			}
			count++
			examples = append(examples, Example{
				Name:      exampleName(heading, count),
				Source:    content,
				WantError: lang == LangVeldError,
				Line:      fenceLine(n, source),
			})
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	return examples, nil
}

// exampleName builds a stable identifier from the heading text and
// the fence's ordinal in the document.
func exampleName(heading string, ordinal int) string {
	name := strings.ToLower(heading)
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, name)
	name = strings.Trim(name, "_")
	if name == "" {
		name = "example"
	}
	return fmt.Sprintf("%s_%d", name, ordinal)
}

// extractText returns the plain text content of a markdown node.
func extractText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := n.(*ast.Text); ok {
				buf.Write(t.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

// fenceContent extracts the body of a fenced code block.
func fenceContent(fence *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	for i := 0; i < fence.Lines().Len(); i++ {
		line := fence.Lines().At(i)
		buf.Write(line.Value(source))
	}
	return buf.String()
}

// fenceLine returns the 1-based line number where the fence body
// starts.
func fenceLine(fence *ast.FencedCodeBlock, source []byte) int {
	if fence.Lines().Len() == 0 {
		return 1
	}
	start := fence.Lines().At(0).Start
	return 1 + bytes.Count(source[:start], []byte("\n"))
}
