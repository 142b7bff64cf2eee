package diagnostic

import (
	"fmt"
	"io"
	"strings"
)

// Renderer formats diagnostics against the original source text:
// file/line/column header, three lines of context, a caret under the
// offending token, the message, and the suggestion when present.
type Renderer struct {
	file  string
	lines []string
}

// NewRenderer creates a renderer for the given file name and source
// text.
func NewRenderer(file, source string) *Renderer {
	return &Renderer{
		file:  file,
		lines: strings.Split(source, "\n"),
	}
}

// RenderAll writes every diagnostic in the collection to w, in the
// order they were recorded.
func (r *Renderer) RenderAll(w io.Writer, diags *Diagnostics) {
	for _, d := range diags.All() {
		r.Render(w, d)
	}
}

// Render writes one diagnostic block to w.
func (r *Renderer) Render(w io.Writer, d Diagnostic) {
	if d.Line == 0 && d.Column == 0 {
		fmt.Fprintf(w, "%s: %s\n", d.Severity, d.Message)
		if d.Suggestion != "" {
			fmt.Fprintf(w, "Suggestion: %s\n", d.Suggestion)
		}
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintf(w, "%s at %s:%d:%d:\n", d.Severity, r.file, d.Line, d.Column)
	r.renderContext(w, d.Line, d.Column)

	if sec := d.Secondary; sec != nil && !(sec.Line == 0 && sec.Column == 0) {
		label := sec.Label
		if label == "" {
			label = "Note: related location"
		}
		fmt.Fprintf(w, "\n%s at %s:%d:%d:\n", label, r.file, sec.Line, sec.Column)
		r.renderContext(w, sec.Line, sec.Column)
	}

	fmt.Fprintf(w, "\n%s\n", d.Message)
	if d.Suggestion != "" {
		fmt.Fprintf(w, "Suggestion: %s\n", d.Suggestion)
	}
	fmt.Fprintln(w)
}

// renderContext prints the line before, the offending line with a
// caret underneath, and the line after.
func (r *Renderer) renderContext(w io.Writer, line, col int) {
	if line < 1 || line > len(r.lines) {
		return
	}

	if line > 1 {
		fmt.Fprintf(w, "  %d | %s\n", line-1, r.lines[line-2])
	}

	content := r.lines[line-1]
	fmt.Fprintf(w, "  %d | %s\n", line, content)

	indent := col - 1
	if indent < 0 {
		indent = 0
	}
	prefix := len(fmt.Sprintf("  %d | ", line))
	fmt.Fprintf(w, "%s%s\n",
		strings.Repeat(" ", prefix+indent),
		strings.Repeat("^", caretWidth(content, col)))

	if line < len(r.lines) {
		fmt.Fprintf(w, "  %d | %s\n", line+1, r.lines[line])
	}
}

// caretWidth spans the identifier starting at col, or 1 for anything
// else.
func caretWidth(content string, col int) int {
	if col < 1 || col > len(content) {
		return 1
	}
	width := 0
	for _, ch := range content[col-1:] {
		if ch == '_' ||
			(ch >= 'a' && ch <= 'z') ||
			(ch >= 'A' && ch <= 'Z') ||
			(ch >= '0' && ch <= '9') {
			width++
		} else {
			break
		}
	}
	if width < 1 {
		return 1
	}
	return width
}
