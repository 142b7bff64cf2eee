// Package formatter renders a parsed Program back to canonical Veld
// source: four-space indents, one blank line between items, trailing
// commas in field blocks, and minimal parentheses.
package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/veld-lang/veld/internal/ast"
	"github.com/veld-lang/veld/internal/lexer"
)

// Format takes an AST Program and returns canonical Veld source code.
func Format(prog *ast.Program) string {
	f := &formatter{}
	f.formatProgram(prog)
	return f.sb.String()
}

type formatter struct {
	sb     strings.Builder
	indent int
}

// --- helpers ---

func (f *formatter) emit(s string) {
	f.sb.WriteString(s)
}

func (f *formatter) emitf(format string, args ...any) {
	f.sb.WriteString(fmt.Sprintf(format, args...))
}

func (f *formatter) emitLine(s string) {
	if s == "" {
		f.sb.WriteString("\n")
	} else {
		f.sb.WriteString(f.indentStr())
		f.sb.WriteString(s)
		f.sb.WriteString("\n")
	}
}

func (f *formatter) emitLinef(format string, args ...any) {
	f.sb.WriteString(f.indentStr())
	f.sb.WriteString(fmt.Sprintf(format, args...))
	f.sb.WriteString("\n")
}

func (f *formatter) incIndent() { f.indent++ }
func (f *formatter) decIndent() { f.indent-- }

func (f *formatter) indentStr() string {
	return strings.Repeat("    ", f.indent)
}

func (f *formatter) blankLine() {
	f.sb.WriteString("\n")
}

// --- program-level ---

func (f *formatter) formatProgram(prog *ast.Program) {
	for i, item := range prog.Items {
		if i > 0 {
			f.blankLine()
		}
		f.formatItem(item)
	}
}

func (f *formatter) formatItem(item ast.Item) {
	switch decl := item.(type) {
	case *ast.StructDecl:
		f.formatAttrs(decl.Attrs)
		f.emitLinef("struct %s {", decl.Name)
		f.formatFieldBlock(decl.Fields)
		f.emitLine("}")
	case *ast.ComponentDecl:
		f.formatAttrs(decl.Attrs)
		keyword := "component"
		if decl.SOA {
			keyword = "component_soa"
		}
		f.emitLinef("%s %s {", keyword, decl.Name)
		f.formatFieldBlock(decl.Fields)
		f.emitLine("}")
	case *ast.SystemDecl:
		f.formatSystem(decl)
	case *ast.ShaderDecl:
		f.formatAttrs(decl.Attrs)
		f.emitLinef("shader %s %q;", decl.Stage, decl.Path)
	case *ast.FunctionDecl:
		f.formatFunction(decl)
	case *ast.ExternFunctionDecl:
		f.formatExtern(decl)
	case *ast.ResourceDecl:
		f.formatAttrs(decl.Attrs)
		f.emitLinef("resource %s: %s = %q;", decl.Name, decl.Kind, decl.Path)
	case *ast.PipelineDecl:
		f.formatPipeline(decl)
	}
}

func (f *formatter) formatAttrs(attrs []*ast.Attribute) {
	if len(attrs) == 0 {
		return
	}
	if len(attrs) == 1 && attrs[0].Name == "hot" && len(attrs[0].Params) == 0 {
		f.emitLine("@hot")
		return
	}
	parts := make([]string, len(attrs))
	for i, a := range attrs {
		parts[i] = f.formatAttr(a)
	}
	f.emitLinef("@[%s]", strings.Join(parts, ", "))
}

func (f *formatter) formatAttr(a *ast.Attribute) string {
	if len(a.Params) == 0 {
		return a.Name
	}
	params := make([]string, len(a.Params))
	for i, p := range a.Params {
		params[i] = fmt.Sprintf("%s = %s", p.Name, f.formatExpr(p.Value))
	}
	return fmt.Sprintf("%s(%s)", a.Name, strings.Join(params, ", "))
}

func (f *formatter) formatFieldBlock(fields []*ast.Field) {
	f.incIndent()
	for _, field := range fields {
		f.emitLinef("%s: %s,", field.Name, field.Type)
	}
	f.decIndent()
}

func (f *formatter) formatSystem(decl *ast.SystemDecl) {
	f.formatAttrs(decl.Attrs)
	f.emitLinef("system %s {", decl.Name)
	f.incIndent()
	for i, fn := range decl.Functions {
		if i > 0 {
			f.blankLine()
		}
		f.formatFunction(fn)
	}
	f.decIndent()
	f.emitLine("}")
}

func (f *formatter) formatFunction(fn *ast.FunctionDecl) {
	f.formatAttrs(fn.Attrs)
	f.emit(f.indentStr())
	f.emitf("fn %s(%s)", fn.Name, f.formatParams(fn.Params))
	if fn.ReturnType.Kind != ast.KindVoid {
		f.emitf(": %s", fn.ReturnType)
	}
	if fn.Body == nil || len(fn.Body.Statements) == 0 {
		f.emit(" { }\n")
		return
	}
	f.emit(" {\n")
	f.incIndent()
	f.formatBlock(fn.Body)
	f.decIndent()
	f.emitLine("}")
}

func (f *formatter) formatExtern(decl *ast.ExternFunctionDecl) {
	f.formatAttrs(decl.Attrs)
	f.emit(f.indentStr())
	f.emitf("extern fn %s(%s)", decl.Name, f.formatParams(decl.Params))
	if decl.ReturnType.Kind != ast.KindVoid {
		f.emitf(": %s", decl.ReturnType)
	}
	if decl.Library != "" {
		f.emitf(" from %q", decl.Library)
	}
	f.emit(";\n")
}

func (f *formatter) formatParams(params []*ast.Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprintf("%s: %s", p.Name, p.Type)
	}
	return strings.Join(parts, ", ")
}

func (f *formatter) formatPipeline(decl *ast.PipelineDecl) {
	f.formatAttrs(decl.Attrs)
	f.emitLinef("pipeline %s {", decl.Name)
	f.incIndent()
	for _, sh := range decl.Shaders {
		f.emitLinef("shader %s %q;", sh.Stage, sh.Path)
	}
	if len(decl.Bindings) > 0 {
		f.emitLine("layout {")
		f.incIndent()
		for _, b := range decl.Bindings {
			f.emitLinef("binding %d: %s %s;", b.Index, b.Kind, b.Name)
		}
		f.decIndent()
		f.emitLine("}")
	}
	f.decIndent()
	f.emitLine("}")
}

// --- statements ---

func (f *formatter) formatBlock(b *ast.Block) {
	if b == nil {
		return
	}
	for _, stmt := range b.Statements {
		f.formatStmt(stmt)
	}
}

func (f *formatter) formatStmt(s ast.Statement) {
	switch stmt := s.(type) {
	case *ast.LetStmt:
		if stmt.Typed {
			f.emitLinef("let %s: %s = %s;", stmt.Name, stmt.Type, f.formatExpr(stmt.Value))
		} else {
			f.emitLinef("let %s = %s;", stmt.Name, f.formatExpr(stmt.Value))
		}

	case *ast.AssignStmt:
		f.emitLinef("%s = %s;", f.formatExpr(stmt.Target), f.formatExpr(stmt.Value))

	case *ast.ReturnStmt:
		if stmt.Value != nil {
			f.emitLinef("return %s;", f.formatExpr(stmt.Value))
		} else {
			f.emitLine("return;")
		}

	case *ast.IfStmt:
		f.formatIfStmt(stmt, false)

	case *ast.WhileStmt:
		f.emitLinef("while %s {", f.formatExpr(stmt.Condition))
		f.incIndent()
		f.formatBlock(stmt.Body)
		f.decIndent()
		f.emitLine("}")

	case *ast.ForStmt:
		f.emitLinef("for %s in %s {", stmt.Iterator, f.formatExpr(stmt.Collection))
		f.incIndent()
		f.formatBlock(stmt.Body)
		f.decIndent()
		f.emitLine("}")

	case *ast.LoopStmt:
		f.emitLine("loop {")
		f.incIndent()
		f.formatBlock(stmt.Body)
		f.decIndent()
		f.emitLine("}")

	case *ast.BreakStmt:
		f.emitLine("break;")

	case *ast.ContinueStmt:
		f.emitLine("continue;")

	case *ast.DeferStmt:
		f.emitLinef("defer %s;", f.formatExpr(stmt.Expr))

	case *ast.ExprStmt:
		f.emitLinef("%s;", f.formatExpr(stmt.Expr))

	case *ast.Block:
		f.formatBlock(stmt)
	}
}

func (f *formatter) formatIfStmt(stmt *ast.IfStmt, isElseIf bool) {
	if isElseIf {
		f.emitf(" else if %s {\n", f.formatExpr(stmt.Condition))
	} else {
		f.emitLinef("if %s {", f.formatExpr(stmt.Condition))
	}
	f.incIndent()
	f.formatBlock(stmt.Then)
	f.decIndent()
	if stmt.Else == nil {
		f.emitLine("}")
		return
	}
	// an else block holding a single if re-sugars to else-if
	if len(stmt.Else.Statements) == 1 {
		if elseIf, ok := stmt.Else.Statements[0].(*ast.IfStmt); ok {
			f.emit(f.indentStr() + "}")
			f.formatIfStmt(elseIf, true)
			return
		}
	}
	f.emitLine("} else {")
	f.incIndent()
	f.formatBlock(stmt.Else)
	f.decIndent()
	f.emitLine("}")
}

// --- expressions ---

func (f *formatter) formatExpr(e ast.Expression) string {
	return f.formatExprPrec(e, 0)
}

// formatExprPrec formats an expression, wrapping in parens if needed
// based on parent precedence.
func (f *formatter) formatExprPrec(e ast.Expression, parentPrec int) string {
	switch expr := e.(type) {
	case *ast.BinaryExpr:
		prec := precedence(expr.Op)
		left := f.formatExprPrec(expr.Left, prec)
		right := f.formatExprPrec(expr.Right, prec+1) // +1 for left-associativity
		result := fmt.Sprintf("%s %s %s", left, operatorString(expr.Op), right)
		if prec < parentPrec {
			return "(" + result + ")"
		}
		return result

	case *ast.UnaryExpr:
		operand := f.formatExprPrec(expr.Operand, 10) // unary binds tight
		if expr.Op == lexer.BANG {
			return "!" + operand
		}
		return "-" + operand

	case *ast.CallExpr:
		return fmt.Sprintf("%s(%s)", expr.Function, f.formatArgs(expr.Args))

	case *ast.MethodCallExpr:
		obj := f.formatExprPrec(expr.Object, 10)
		return fmt.Sprintf("%s.%s(%s)", obj, expr.Method, f.formatArgs(expr.Args))

	case *ast.MemberExpr:
		return fmt.Sprintf("%s.%s", f.formatExprPrec(expr.Object, 10), expr.Member)

	case *ast.IndexExpr:
		obj := f.formatExprPrec(expr.Object, 10)
		return fmt.Sprintf("%s[%s]", obj, f.formatExpr(expr.Index))

	case *ast.Identifier:
		return expr.Name

	case *ast.IntLit:
		return strconv.FormatInt(expr.Value, 10)

	case *ast.FloatLit:
		return formatFloat(expr.Value)

	case *ast.StringLit:
		return strconv.Quote(expr.Value)

	case *ast.InterpExpr:
		return formatInterp(expr)

	case *ast.BoolLit:
		if expr.Value {
			return "true"
		}
		return "false"

	case *ast.NullLit:
		return "null"

	case *ast.ArrayLit:
		return fmt.Sprintf("[%s]", f.formatArgs(expr.Elements))

	case *ast.StructLit:
		return f.formatStructLit(expr)

	case *ast.MatchExpr:
		return f.formatMatchExpr(expr)

	default:
		return "<unknown>"
	}
}

func (f *formatter) formatArgs(args []ast.Expression) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = f.formatExpr(arg)
	}
	return strings.Join(parts, ", ")
}

// vecFieldOrder restores constructor-call syntax for desugared vector
// literals.
var vecFieldOrder = map[string][]string{
	"Vec2": {"x", "y"},
	"Vec3": {"x", "y", "z"},
	"Vec4": {"x", "y", "z", "w"},
}

func (f *formatter) formatStructLit(expr *ast.StructLit) string {
	if order, ok := vecFieldOrder[expr.Name]; ok && len(expr.Fields) == len(order) {
		args := make([]string, len(expr.Fields))
		byName := make(map[string]ast.Expression, len(expr.Fields))
		for _, field := range expr.Fields {
			byName[field.Name] = field.Value
		}
		for i, name := range order {
			args[i] = f.formatExpr(byName[name])
		}
		return fmt.Sprintf("%s(%s)", expr.Name, strings.Join(args, ", "))
	}

	parts := make([]string, len(expr.Fields))
	for i, field := range expr.Fields {
		parts[i] = fmt.Sprintf("%s: %s", field.Name, f.formatExpr(field.Value))
	}
	return fmt.Sprintf("%s { %s }", expr.Name, strings.Join(parts, ", "))
}

func (f *formatter) formatMatchExpr(expr *ast.MatchExpr) string {
	var buf strings.Builder
	buf.WriteString("match ")
	buf.WriteString(f.formatExpr(expr.Scrutinee))
	buf.WriteString(" {\n")

	f.incIndent()
	for _, arm := range expr.Arms {
		buf.WriteString(f.indentStr())
		buf.WriteString(f.formatPattern(arm.Pattern))
		if len(arm.Body.Statements) == 0 {
			buf.WriteString(" => { },\n")
			continue
		}
		buf.WriteString(" => {\n")
		// arm bodies go through a scratch formatter sharing the
		// current depth
		sub := &formatter{indent: f.indent + 1}
		sub.formatBlock(arm.Body)
		buf.WriteString(sub.sb.String())
		buf.WriteString(f.indentStr())
		buf.WriteString("},\n")
	}
	f.decIndent()

	buf.WriteString(f.indentStr())
	buf.WriteString("}")
	return buf.String()
}

func (f *formatter) formatPattern(p *ast.Pattern) string {
	switch p.Kind {
	case ast.PatternWildcard:
		return "_"
	case ast.PatternBinding:
		return p.Name
	default:
		return f.formatExpr(p.Literal)
	}
}

// formatInterp reassembles an interpolated string literal.
func formatInterp(expr *ast.InterpExpr) string {
	var raw strings.Builder
	for _, part := range expr.Parts {
		if part.IsVar {
			raw.WriteString("{" + part.Variable + "}")
		} else {
			raw.WriteString(part.Text)
		}
	}
	return strconv.Quote(raw.String())
}

// formatFloat always keeps a decimal point so the literal stays f32.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// --- operator precedence ---

// Precedence levels mirror the parser; higher binds tighter.
func precedence(op lexer.TokenType) int {
	switch op {
	case lexer.OROR:
		return 1
	case lexer.ANDAND:
		return 2
	case lexer.EQ, lexer.NEQ:
		return 3
	case lexer.LT, lexer.GT, lexer.LEQ, lexer.GEQ:
		return 4
	case lexer.PLUS, lexer.MINUS:
		return 5
	case lexer.STAR, lexer.SLASH, lexer.PERCENT:
		return 6
	default:
		return 0
	}
}

func operatorString(op lexer.TokenType) string {
	switch op {
	case lexer.PLUS:
		return "+"
	case lexer.MINUS:
		return "-"
	case lexer.STAR:
		return "*"
	case lexer.SLASH:
		return "/"
	case lexer.PERCENT:
		return "%"
	case lexer.EQ:
		return "=="
	case lexer.NEQ:
		return "!="
	case lexer.LT:
		return "<"
	case lexer.GT:
		return ">"
	case lexer.LEQ:
		return "<="
	case lexer.GEQ:
		return ">="
	case lexer.ANDAND:
		return "&&"
	case lexer.OROR:
		return "||"
	default:
		return "?"
	}
}
