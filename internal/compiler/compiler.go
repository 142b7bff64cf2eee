package compiler

import (
	"fmt"
	"io"
	"os"

	"github.com/veld-lang/veld/internal/ast"
	"github.com/veld-lang/veld/internal/checker"
	"github.com/veld-lang/veld/internal/diagnostic"
	"github.com/veld-lang/veld/internal/lexer"
	"github.com/veld-lang/veld/internal/parser"
)

// Result holds the output of a front-end run: the validated AST on
// success, and the diagnostics sink either way. The source is kept so
// diagnostics can be rendered with context lines.
type Result struct {
	Program     *ast.Program
	Diagnostics *diagnostic.Diagnostics
	File        string
	Source      string
}

// RenderDiagnostics writes every collected diagnostic to w with
// source context and carets.
func (r *Result) RenderDiagnostics(w io.Writer) {
	diagnostic.NewRenderer(r.File, r.Source).RenderAll(w, r.Diagnostics)
}

// CompileSource runs the full front end over source text: tokenize,
// parse, check. The returned Result always carries the diagnostics;
// err is non-nil when the program did not validate. The file name is
// used only for rendering.
func CompileSource(file, source string) (*Result, error) {
	res := &Result{
		Diagnostics: diagnostic.New(),
		File:        file,
		Source:      source,
	}

	tokens, err := lexer.New(source).Tokenize()
	if err != nil {
		// lexical errors are fatal and reported like any other
		line, col, msg := 0, 0, err.Error()
		if lerr, ok := err.(*lexer.Error); ok {
			line, col, msg = lerr.Line, lerr.Column, lerr.Message
		}
		res.Diagnostics.Errorf(line, col, "%s", msg)
		return res, fmt.Errorf("lexical error")
	}

	prog, perr := parser.New(tokens, res.Diagnostics).Parse()
	if perr != nil {
		return res, perr
	}
	res.Program = prog

	if cerr := checker.New(res.Diagnostics).Check(prog); cerr != nil {
		return res, cerr
	}
	return res, nil
}

// CompileFile reads and compiles a single source file.
func CompileFile(path string) (*Result, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return CompileSource(path, string(source))
}
