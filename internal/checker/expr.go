package checker

import (
	"fmt"
	"sort"

	"github.com/veld-lang/veld/internal/ast"
	"github.com/veld-lang/veld/internal/lexer"
)

// checkExpression types an expression, reporting diagnostics for any
// semantic errors found. It always returns a best-effort type so the
// caller can keep walking; the poison type marks failures.
func (c *Checker) checkExpression(expr ast.Expression) ast.Type {
	switch e := expr.(type) {
	case *ast.IntLit:
		return ast.I32
	case *ast.FloatLit:
		return ast.F32
	case *ast.StringLit:
		return ast.Str
	case *ast.BoolLit:
		return ast.Bool
	case *ast.NullLit:
		// null fits any optional
		return ast.OptionalOf(ast.Void)
	case *ast.Identifier:
		return c.checkIdentifier(e)
	case *ast.BinaryExpr:
		return c.checkBinary(e)
	case *ast.UnaryExpr:
		return c.checkUnary(e)
	case *ast.CallExpr:
		return c.checkCall(e)
	case *ast.MethodCallExpr:
		return c.checkMethodCall(e)
	case *ast.MemberExpr:
		return c.checkMember(e)
	case *ast.IndexExpr:
		return c.checkIndex(e)
	case *ast.ArrayLit:
		return c.checkArrayLit(e)
	case *ast.InterpExpr:
		return c.checkInterp(e)
	case *ast.StructLit:
		return c.checkStructLit(e)
	case *ast.MatchExpr:
		return c.checkMatch(e)
	}
	return ast.Error
}

func (c *Checker) checkIdentifier(e *ast.Identifier) ast.Type {
	if sym := c.scope.Resolve(e.Name); sym != nil {
		return sym.Type
	}
	msg := fmt.Sprintf("Undefined variable: '%s'", e.Name)
	if close := closestName(e.Name, c.scope.Names()); close != "" {
		c.diags.ErrorWithSuggestion(e.Line, e.Column, msg,
			fmt.Sprintf("Did you mean '%s'? Use: %s", close, close))
	} else {
		c.diags.ErrorWithSuggestion(e.Line, e.Column, msg,
			fmt.Sprintf("Did you mean to declare it first? Use: let %s: Type = value;", e.Name))
	}
	return ast.Error
}

// numericRank orders the numeric types for binary promotion.
func numericRank(t ast.Type) int {
	switch t.Kind {
	case ast.KindI32:
		return 0
	case ast.KindI64:
		return 1
	case ast.KindF32:
		return 2
	case ast.KindF64:
		return 3
	}
	return -1
}

func (c *Checker) checkBinary(e *ast.BinaryExpr) ast.Type {
	left := c.checkExpression(e.Left)
	right := c.checkExpression(e.Right)

	switch e.Op {
	case lexer.PLUS, lexer.MINUS, lexer.STAR, lexer.SLASH, lexer.PERCENT:
		if left.IsError() || right.IsError() {
			return ast.Error
		}
		if !left.IsNumeric() || !right.IsNumeric() {
			c.diags.Errorf(e.Line, e.Column,
				"Arithmetic operations require numeric types, got '%s' and '%s'", left, right)
			return ast.Error
		}
		if numericRank(right) > numericRank(left) {
			return right
		}
		return left

	case lexer.LT, lexer.GT, lexer.LEQ, lexer.GEQ:
		if !left.IsError() && !right.IsError() && (!left.IsNumeric() || !right.IsNumeric()) {
			c.diags.Errorf(e.Line, e.Column,
				"Comparison operations require numeric types, got '%s' and '%s'", left, right)
		}
		return ast.Bool

	case lexer.EQ, lexer.NEQ:
		if !c.compatible(left, right) && !c.compatible(right, left) {
			c.diags.Errorf(e.Line, e.Column,
				"Cannot compare '%s' and '%s'", left, right)
		}
		return ast.Bool

	case lexer.ANDAND, lexer.OROR:
		leftOk := left.Kind == ast.KindBool || left.IsError()
		rightOk := right.Kind == ast.KindBool || right.IsError()
		if !leftOk || !rightOk {
			c.diags.Errorf(e.Line, e.Column,
				"Logical operations require bool types, got '%s' and '%s'", left, right)
		}
		return ast.Bool
	}
	return ast.Error
}

func (c *Checker) checkUnary(e *ast.UnaryExpr) ast.Type {
	operand := c.checkExpression(e.Operand)
	switch e.Op {
	case lexer.MINUS:
		if operand.IsError() || operand.IsNumeric() {
			return operand
		}
		c.diags.Errorf(e.Line, e.Column, "Negation requires numeric type, got '%s'", operand)
		return ast.Error
	case lexer.BANG:
		if !operand.IsError() && operand.Kind != ast.KindBool {
			c.diags.Errorf(e.Line, e.Column, "Not requires bool type, got '%s'", operand)
		}
		return ast.Bool
	}
	return ast.Error
}

func (c *Checker) checkCall(e *ast.CallExpr) ast.Type {
	// argument expressions are checked even when the call itself is
	// broken, to maximize diagnostic yield
	argTypes := make([]ast.Type, len(e.Args))
	for i, arg := range e.Args {
		argTypes[i] = c.checkExpression(arg)
	}

	sig, ok := c.functions[e.Function]
	if !ok {
		c.reportUndefinedFunction(e)
		return ast.Error
	}

	want := len(sig.Params)
	if (sig.Variadic && len(e.Args) < want) || (!sig.Variadic && len(e.Args) != want) {
		c.diags.Errorf(e.Line, e.Column,
			"Argument count mismatch for function '%s': expected %d arguments, got %d",
			e.Function, want, len(e.Args))
		return ast.Error
	}

	hasError := false
	for i, param := range sig.Params {
		if argTypes[i].IsError() {
			hasError = true
			continue
		}
		if !c.compatible(param, argTypes[i]) {
			line, col := e.Args[i].Pos()
			c.diags.Errorf(line, col,
				"Argument %d type mismatch in function call '%s': expected '%s', got '%s'",
				i+1, e.Function, param, argTypes[i])
			hasError = true
		}
	}
	if hasError {
		return ast.Error
	}
	return sig.Return
}

func (c *Checker) reportUndefinedFunction(e *ast.CallExpr) {
	names := make([]string, 0, len(c.functions))
	for name := range c.functions {
		names = append(names, name)
	}
	sort.Strings(names)

	msg := fmt.Sprintf("Undefined function: '%s'", e.Function)
	if close := closestName(e.Function, names); close != "" {
		c.diags.ErrorWithSuggestion(e.Line, e.Column, msg,
			fmt.Sprintf("Did you mean '%s'? Use: %s()", close, close))
	} else {
		c.diags.ErrorWithSuggestion(e.Line, e.Column, msg,
			fmt.Sprintf("Did you mean to define it first? Use: fn %s() { ... }", e.Function))
	}
}

func (c *Checker) checkMethodCall(e *ast.MethodCallExpr) ast.Type {
	// frame is the arena pseudo-receiver, not a variable
	if isFrameAlloc(e) {
		for _, arg := range e.Args {
			c.checkExpression(arg)
		}
		return ast.ArrayOf(ast.F32)
	}

	objType := c.checkExpression(e.Object)
	for _, arg := range e.Args {
		c.checkExpression(arg)
	}

	if e.Method == "unwrap" {
		switch {
		case objType.Kind == ast.KindOptional:
			return *objType.Elem
		case objType.IsError():
			return ast.Error
		default:
			c.diags.Errorf(e.Line, e.Column,
				"Cannot call unwrap() on non-optional type '%s'", objType)
			return ast.Error
		}
	}

	// other methods are host-provided and unchecked
	return ast.Error
}

func (c *Checker) checkMember(e *ast.MemberExpr) ast.Type {
	objType := c.checkExpression(e.Object)
	if objType.IsError() {
		return ast.Error
	}

	switch objType.Kind {
	case ast.KindStruct:
		if decl, ok := c.structs[objType.Name]; ok {
			if t, ok := fieldType(decl.Fields, e.Member); ok {
				return c.resolveNominal(t)
			}
		}
	case ast.KindComponent:
		if decl, ok := c.components[objType.Name]; ok {
			if t, ok := fieldType(decl.Fields, e.Member); ok {
				return c.resolveNominal(t)
			}
		}
	case ast.KindVec2, ast.KindVec3, ast.KindVec4:
		return ast.F32
	}

	// unresolved members fall back to f32: query iteration variables
	// and engine-provided fields have no declared layout here
	return ast.F32
}

func fieldType(fields []*ast.Field, name string) (ast.Type, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return ast.Type{}, false
}

func (c *Checker) checkIndex(e *ast.IndexExpr) ast.Type {
	objType := c.checkExpression(e.Object)
	c.checkExpression(e.Index)

	switch {
	case objType.Kind == ast.KindArray:
		return *objType.Elem
	case objType.IsError():
		return ast.Error
	}
	c.diags.Errorf(e.Line, e.Column,
		"Index operation requires array type, got '%s'", objType)
	return ast.Error
}

func (c *Checker) checkArrayLit(e *ast.ArrayLit) ast.Type {
	if len(e.Elements) == 0 {
		c.diags.Errorf(e.Line, e.Column, "Cannot infer type of empty array literal")
		return ast.Error
	}

	first := c.checkExpression(e.Elements[0])
	firstLine, firstCol := e.Elements[0].Pos()
	for i := 1; i < len(e.Elements); i++ {
		elemType := c.checkExpression(e.Elements[i])
		if elemType.IsError() || first.IsError() {
			continue
		}
		if !c.compatible(first, elemType) {
			line, col := e.Elements[i].Pos()
			c.diags.ErrorWithSecondary(line, col,
				fmt.Sprintf("Array literal element %d has type '%s', but first element has type '%s'",
					i+1, elemType, first),
				"", firstLine, firstCol, "Note: first element (expected type)")
		}
	}
	return ast.ArrayOf(first)
}

func (c *Checker) checkInterp(e *ast.InterpExpr) ast.Type {
	for _, part := range e.Parts {
		if !part.IsVar {
			continue
		}
		sym := c.scope.Resolve(part.Variable)
		if sym == nil {
			c.diags.Errorf(e.Line, e.Column,
				"Undefined variable '%s' in string interpolation", part.Variable)
			continue
		}
		if !stringConvertible(sym.Type) {
			c.diags.Errorf(e.Line, e.Column,
				"Variable '%s' has type '%s', which cannot be converted to string in interpolation",
				part.Variable, sym.Type)
		}
	}
	return ast.Str
}

// stringConvertible reports whether a value of the given type can be
// formatted into an interpolated string.
func stringConvertible(t ast.Type) bool {
	switch t.Kind {
	case ast.KindI32, ast.KindI64, ast.KindF32, ast.KindF64,
		ast.KindBool, ast.KindString, ast.KindError:
		return true
	}
	return false
}

// vecTypes maps the builtin vector constructor names to their types.
var vecTypes = map[string]ast.Type{
	"Vec2": ast.Vec2,
	"Vec3": ast.Vec3,
	"Vec4": ast.Vec4,
}

func (c *Checker) checkStructLit(e *ast.StructLit) ast.Type {
	if vec, ok := vecTypes[e.Name]; ok {
		for _, field := range e.Fields {
			valueType := c.checkExpression(field.Value)
			if !c.compatible(ast.F32, valueType) {
				line, col := field.Value.Pos()
				c.diags.Errorf(line, col,
					"Type mismatch: cannot assign '%s' to 'f32'", valueType)
			}
		}
		return vec
	}

	decl, ok := c.structs[e.Name]
	if !ok {
		c.diags.Errorf(e.Line, e.Column, "Undefined struct: '%s'", e.Name)
		for _, field := range e.Fields {
			c.checkExpression(field.Value)
		}
		return ast.Error
	}

	for _, field := range e.Fields {
		valueType := c.checkExpression(field.Value)
		declType, found := fieldType(decl.Fields, field.Name)
		if !found {
			c.diags.Errorf(e.Line, e.Column,
				"Unknown field '%s' in struct '%s'", field.Name, e.Name)
			continue
		}
		if !c.compatible(declType, valueType) {
			line, col := field.Value.Pos()
			c.diags.Errorf(line, col,
				"Type mismatch: cannot assign '%s' to '%s'", valueType, declType)
		}
	}
	return ast.StructType(e.Name)
}

// checkMatch types a match expression. Arms are statement blocks, so
// the whole expression is void; a binding pattern introduces its name
// with the scrutinee's type in a fresh scope.
func (c *Checker) checkMatch(e *ast.MatchExpr) ast.Type {
	scrutinee := c.checkExpression(e.Scrutinee)

	for _, arm := range e.Arms {
		c.scope = NewScope(c.scope)
		switch arm.Pattern.Kind {
		case ast.PatternLiteral:
			c.checkExpression(arm.Pattern.Literal)
		case ast.PatternBinding:
			c.scope.Define(arm.Pattern.Name, scrutinee)
		}
		for _, stmt := range arm.Body.Statements {
			c.checkStatement(stmt)
		}
		c.scope = c.scope.parent
	}
	return ast.Void
}

// --- Type compatibility ---

// compatible reports whether a value of type actual can be used where
// expected is required. The relation is asymmetric: integers widen,
// f64 narrows into f32, and optionals implicitly wrap their inner
// type. The poison type is compatible with everything in both
// directions so one bad expression does not cascade.
func (c *Checker) compatible(expected, actual ast.Type) bool {
	if expected.IsError() || actual.IsError() {
		return true
	}
	if expected.Equal(actual) {
		return true
	}

	switch expected.Kind {
	case ast.KindI64:
		return actual.Kind == ast.KindI32
	case ast.KindF32:
		return actual.Kind == ast.KindI32 || actual.Kind == ast.KindF64
	case ast.KindF64:
		return actual.Kind == ast.KindI32 || actual.Kind == ast.KindI64 || actual.Kind == ast.KindF32
	case ast.KindOptional:
		if actual.Kind == ast.KindOptional {
			// null types as ?void and fits any optional
			if actual.Elem.Kind == ast.KindVoid {
				return true
			}
			return c.compatible(*expected.Elem, *actual.Elem)
		}
		// a bare value wraps implicitly
		return c.compatible(*expected.Elem, actual)
	case ast.KindArray:
		return actual.Kind == ast.KindArray && c.compatible(*expected.Elem, *actual.Elem)
	}
	return false
}
