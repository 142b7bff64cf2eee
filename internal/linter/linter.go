package linter

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/veld-lang/veld/internal/ast"
	"github.com/veld-lang/veld/internal/diagnostic"
)

// Linter performs style and best-practice checks on an AST program.
// It reports warnings (never errors) using the diagnostic system.
type Linter struct {
	prog *ast.Program
	diag *diagnostic.Diagnostics
}

// Lint runs all lint rules on the given program and returns diagnostics.
func Lint(prog *ast.Program) *diagnostic.Diagnostics {
	l := &Linter{
		prog: prog,
		diag: diagnostic.New(),
	}

	for _, item := range prog.Items {
		switch decl := item.(type) {
		case *ast.StructDecl:
			l.checkTypeNaming("struct", decl.Name, decl.Line, decl.Column)
		case *ast.ComponentDecl:
			l.lintComponent(decl)
		case *ast.SystemDecl:
			l.lintSystem(decl)
		case *ast.FunctionDecl:
			l.lintFunction(decl)
		case *ast.ExternFunctionDecl:
			l.checkFunctionNaming(decl.Name, decl.Line, decl.Column)
		case *ast.ResourceDecl:
			l.lintResource(decl)
		case *ast.PipelineDecl:
			l.lintPipeline(decl)
		}
	}

	return l.diag
}

func (l *Linter) lintComponent(decl *ast.ComponentDecl) {
	l.checkTypeNaming("component", decl.Name, decl.Line, decl.Column)
	if decl.SOA && len(decl.Fields) == 1 {
		l.diag.Warningf(decl.Line, decl.Column,
			"SOA component '%s' has a single field; structure-of-arrays layout gains nothing here", decl.Name)
	}
}

func (l *Linter) lintSystem(decl *ast.SystemDecl) {
	l.checkTypeNaming("system", decl.Name, decl.Line, decl.Column)
	if len(decl.Functions) == 0 {
		l.diag.Warningf(decl.Line, decl.Column,
			"system '%s' declares no functions", decl.Name)
	}
	for _, fn := range decl.Functions {
		l.lintFunction(fn)
	}
}

func (l *Linter) lintFunction(fn *ast.FunctionDecl) {
	l.checkFunctionNaming(fn.Name, fn.Line, fn.Column)
	if fn.Body == nil || len(fn.Body.Statements) == 0 {
		l.diag.Warningf(fn.Line, fn.Column, "function '%s' has an empty body", fn.Name)
		return
	}

	usedNames := l.collectUsedNames(fn.Body.Statements)
	l.checkUnusedParams(fn.Name, fn.Params, usedNames)
	l.checkUnusedVariables(fn.Body.Statements, usedNames)
}

func (l *Linter) lintResource(decl *ast.ResourceDecl) {
	l.checkTypeNaming("resource", decl.Name, decl.Line, decl.Column)
	if filepath.Ext(decl.Path) == "" {
		l.diag.Warningf(decl.Line, decl.Column,
			"resource '%s' path '%s' has no file extension", decl.Name, decl.Path)
	}
}

func (l *Linter) lintPipeline(decl *ast.PipelineDecl) {
	l.checkTypeNaming("pipeline", decl.Name, decl.Line, decl.Column)
	seen := make(map[string]bool)
	for _, sh := range decl.Shaders {
		if seen[sh.Path] {
			l.diag.Warningf(sh.Line, sh.Column,
				"pipeline '%s' references shader '%s' more than once", decl.Name, sh.Path)
		}
		seen[sh.Path] = true
	}
	bindings := make(map[int64]bool)
	for _, b := range decl.Bindings {
		if bindings[b.Index] {
			l.diag.Warningf(b.Line, b.Column,
				"pipeline '%s' declares binding %d more than once", decl.Name, b.Index)
		}
		bindings[b.Index] = true
	}
}

// --- Lint rules ---

// checkTypeNaming warns if a declared type name is not PascalCase.
func (l *Linter) checkTypeNaming(kind, name string, line, col int) {
	if !isPascalCase(name) {
		l.diag.Warningf(line, col,
			"%s '%s' should use PascalCase naming", kind, name)
	}
}

// checkFunctionNaming warns if a function name is not snake_case.
func (l *Linter) checkFunctionNaming(name string, line, col int) {
	if !isSnakeCase(name) {
		l.diag.Warningf(line, col,
			"function '%s' should use snake_case naming", name)
	}
}

// checkUnusedParams warns about parameters that are never read in the body.
func (l *Linter) checkUnusedParams(scopeName string, params []*ast.Param, usedNames map[string]bool) {
	for _, p := range params {
		if !usedNames[p.Name] {
			l.diag.Warningf(p.Line, p.Column,
				"parameter '%s' in '%s' is never used", p.Name, scopeName)
		}
	}
}

// checkUnusedVariables warns about let-bound variables that are never read.
func (l *Linter) checkUnusedVariables(stmts []ast.Statement, usedNames map[string]bool) {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.LetStmt:
			if !usedNames[s.Name] {
				l.diag.Warningf(s.Line, s.Column,
					"variable '%s' is declared but never used", s.Name)
			}
		case *ast.IfStmt:
			l.checkUnusedVariables(s.Then.Statements, usedNames)
			if s.Else != nil {
				l.checkUnusedVariables(s.Else.Statements, usedNames)
			}
		case *ast.WhileStmt:
			l.checkUnusedVariables(s.Body.Statements, usedNames)
		case *ast.ForStmt:
			l.checkUnusedVariables(s.Body.Statements, usedNames)
		case *ast.LoopStmt:
			l.checkUnusedVariables(s.Body.Statements, usedNames)
		case *ast.Block:
			l.checkUnusedVariables(s.Statements, usedNames)
		}
	}
}

// --- Name collection helpers ---

// collectUsedNames walks all expressions in a slice of statements and
// collects every identifier name that is read. Used to detect unused
// variables and parameters.
func (l *Linter) collectUsedNames(stmts []ast.Statement) map[string]bool {
	used := make(map[string]bool)
	for _, stmt := range stmts {
		l.collectUsedNamesFromStmt(stmt, used)
	}
	return used
}

func (l *Linter) collectUsedNamesFromStmt(stmt ast.Statement, used map[string]bool) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		// the initializer reads names; the declared name is not a read
		l.collectUsedNamesFromExpr(s.Value, used)
	case *ast.AssignStmt:
		// a bare identifier target is a write; member and index
		// targets read their object
		if mem, ok := s.Target.(*ast.MemberExpr); ok {
			l.collectUsedNamesFromExpr(mem.Object, used)
		}
		if ie, ok := s.Target.(*ast.IndexExpr); ok {
			l.collectUsedNamesFromExpr(ie.Object, used)
			l.collectUsedNamesFromExpr(ie.Index, used)
		}
		l.collectUsedNamesFromExpr(s.Value, used)
	case *ast.ReturnStmt:
		l.collectUsedNamesFromExpr(s.Value, used)
	case *ast.IfStmt:
		l.collectUsedNamesFromExpr(s.Condition, used)
		for _, inner := range s.Then.Statements {
			l.collectUsedNamesFromStmt(inner, used)
		}
		if s.Else != nil {
			for _, inner := range s.Else.Statements {
				l.collectUsedNamesFromStmt(inner, used)
			}
		}
	case *ast.WhileStmt:
		l.collectUsedNamesFromExpr(s.Condition, used)
		for _, inner := range s.Body.Statements {
			l.collectUsedNamesFromStmt(inner, used)
		}
	case *ast.ForStmt:
		l.collectUsedNamesFromExpr(s.Collection, used)
		for _, inner := range s.Body.Statements {
			l.collectUsedNamesFromStmt(inner, used)
		}
	case *ast.LoopStmt:
		for _, inner := range s.Body.Statements {
			l.collectUsedNamesFromStmt(inner, used)
		}
	case *ast.DeferStmt:
		l.collectUsedNamesFromExpr(s.Expr, used)
	case *ast.ExprStmt:
		l.collectUsedNamesFromExpr(s.Expr, used)
	case *ast.Block:
		for _, inner := range s.Statements {
			l.collectUsedNamesFromStmt(inner, used)
		}
	}
}

func (l *Linter) collectUsedNamesFromExpr(expr ast.Expression, used map[string]bool) {
	if expr == nil {
		return
	}
	switch e := expr.(type) {
	case *ast.Identifier:
		used[e.Name] = true
	case *ast.BinaryExpr:
		l.collectUsedNamesFromExpr(e.Left, used)
		l.collectUsedNamesFromExpr(e.Right, used)
	case *ast.UnaryExpr:
		l.collectUsedNamesFromExpr(e.Operand, used)
	case *ast.CallExpr:
		for _, arg := range e.Args {
			l.collectUsedNamesFromExpr(arg, used)
		}
	case *ast.MethodCallExpr:
		l.collectUsedNamesFromExpr(e.Object, used)
		for _, arg := range e.Args {
			l.collectUsedNamesFromExpr(arg, used)
		}
	case *ast.MemberExpr:
		l.collectUsedNamesFromExpr(e.Object, used)
	case *ast.IndexExpr:
		l.collectUsedNamesFromExpr(e.Object, used)
		l.collectUsedNamesFromExpr(e.Index, used)
	case *ast.ArrayLit:
		for _, elem := range e.Elements {
			l.collectUsedNamesFromExpr(elem, used)
		}
	case *ast.InterpExpr:
		for _, part := range e.Parts {
			if part.IsVar {
				used[part.Variable] = true
			}
		}
	case *ast.StructLit:
		for _, field := range e.Fields {
			l.collectUsedNamesFromExpr(field.Value, used)
		}
	case *ast.MatchExpr:
		l.collectUsedNamesFromExpr(e.Scrutinee, used)
		// pattern bindings are defined by the arm, not read
		for _, arm := range e.Arms {
			for _, inner := range arm.Body.Statements {
				l.collectUsedNamesFromStmt(inner, used)
			}
		}
	}
}

// --- Naming convention helpers ---

// isSnakeCase returns true if the name follows snake_case conventions:
// lowercase letters, digits, and underscores only, not starting with a digit.
func isSnakeCase(name string) bool {
	if len(name) == 0 {
		return false
	}
	for _, r := range name {
		if !unicode.IsLower(r) && r != '_' && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// isPascalCase returns true if the name starts with an uppercase letter
// and contains no underscores.
func isPascalCase(name string) bool {
	if len(name) == 0 {
		return false
	}
	runes := []rune(name)
	if !unicode.IsUpper(runes[0]) {
		return false
	}
	return !strings.ContainsRune(name, '_')
}
