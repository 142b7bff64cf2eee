package checker

import (
	"fmt"
	"strings"

	"github.com/veld-lang/veld/internal/ast"
	"github.com/veld-lang/veld/internal/diagnostic"
)

// Checker performs semantic analysis on the AST. It runs two passes:
// declaration collection over the whole program, then body checking
// function by function. Semantic errors never abort checking; the
// offending expression is given the poison type and the walk
// continues so one mistake yields one diagnostic.
type Checker struct {
	diags *diagnostic.Diagnostics

	structs    map[string]*ast.StructDecl
	components map[string]*ast.ComponentDecl
	functions  map[string]*FuncSig

	// per-function state, reset at the start of each function check
	scope       *Scope
	currentRet  ast.Type
	frameLocals map[string]bool
}

// New creates a checker reporting through the given diagnostics sink.
func New(diags *diagnostic.Diagnostics) *Checker {
	return &Checker{
		diags:      diags,
		structs:    make(map[string]*ast.StructDecl),
		components: make(map[string]*ast.ComponentDecl),
		functions:  builtinFunctions(),
	}
}

// Check validates the whole program. Diagnostics are reported through
// the sink as they are found; the returned error only summarizes the
// count once the full AST has been walked.
func (c *Checker) Check(prog *ast.Program) error {
	c.collectDeclarations(prog)
	c.checkFunctions(prog)

	if n := c.diags.ErrorCount(); n > 0 {
		return fmt.Errorf("Compilation failed with %d error(s)", n)
	}
	return nil
}

// --- Pass 1: declaration collection ---

func (c *Checker) collectDeclarations(prog *ast.Program) {
	for _, item := range prog.Items {
		switch decl := item.(type) {
		case *ast.StructDecl:
			c.structs[decl.Name] = decl
		case *ast.ComponentDecl:
			c.components[decl.Name] = decl
			if decl.SOA {
				c.validateSOA(decl)
			}
		case *ast.FunctionDecl:
			c.functions[decl.Name] = signatureOf(decl.Name, decl.Params, decl.ReturnType)
		case *ast.ExternFunctionDecl:
			c.functions[decl.Name] = signatureOf(decl.Name, decl.Params, decl.ReturnType)
		case *ast.SystemDecl:
			for _, fn := range decl.Functions {
				c.functions[fn.Name] = signatureOf(fn.Name, fn.Params, fn.ReturnType)
			}
		case *ast.ResourceDecl:
			c.registerResource(decl)
		case *ast.ShaderDecl:
			c.validateShaderExtension(decl)
		}
	}
}

func signatureOf(name string, params []*ast.Param, ret ast.Type) *FuncSig {
	sig := &FuncSig{Name: name, Return: ret}
	for _, p := range params {
		sig.Params = append(sig.Params, p.Type)
	}
	return sig
}

func (c *Checker) validateSOA(decl *ast.ComponentDecl) {
	for _, field := range decl.Fields {
		if field.Type.Kind == ast.KindArray {
			continue
		}
		c.diags.ErrorWithSuggestion(field.Line, field.Column,
			fmt.Sprintf("SOA component '%s' field '%s' must be an array type (use [Type] instead of Type)",
				decl.Name, field.Name),
			fmt.Sprintf("Change '%s: %s' to '%s: [%s]'",
				field.Name, field.Type, field.Name, field.Type))
	}
}

// registerResource synthesizes accessor signatures for a resource so
// later calls resolve without forward declarations. Audio kinds also
// get play/stop helpers.
func (c *Checker) registerResource(decl *ast.ResourceDecl) {
	lower := strings.ToLower(decl.Name)

	get := "get_resource_" + lower
	c.functions[get] = &FuncSig{Name: get, Return: ast.I32}

	if decl.Kind == "Sound" || decl.Kind == "Music" {
		play := "play_resource_" + lower
		stop := "stop_resource_" + lower
		c.functions[play] = &FuncSig{Name: play, Return: ast.I32}
		c.functions[stop] = &FuncSig{Name: stop, Return: ast.Void}
	}
}

// stageExtensions maps each shader stage to its conventional source
// file extension.
var stageExtensions = map[ast.ShaderStage]string{
	ast.StageVertex:         ".vert",
	ast.StageFragment:       ".frag",
	ast.StageCompute:        ".comp",
	ast.StageGeometry:       ".geom",
	ast.StageTessControl:    ".tesc",
	ast.StageTessEvaluation: ".tese",
}

func (c *Checker) validateShaderExtension(decl *ast.ShaderDecl) {
	expected := stageExtensions[decl.Stage]
	path := strings.ToLower(decl.Path)
	if strings.HasSuffix(path, expected) {
		return
	}
	// precompiled or generic shaders bypass the stage convention
	if strings.HasSuffix(path, ".glsl") || strings.HasSuffix(path, ".spv") {
		return
	}
	c.diags.ErrorWithSuggestion(decl.Line, decl.Column,
		fmt.Sprintf("Shader stage '%s' does not match file extension. Expected '%s' extension for %s shader, but got '%s'",
			decl.Stage, expected, decl.Stage, decl.Path),
		fmt.Sprintf("Change the file path to end with '%s' or use a .glsl extension for generic shaders", expected))
}

// --- Pass 2: function bodies ---

func (c *Checker) checkFunctions(prog *ast.Program) {
	for _, item := range prog.Items {
		switch decl := item.(type) {
		case *ast.FunctionDecl:
			c.checkFunction(decl)
		case *ast.SystemDecl:
			for _, fn := range decl.Functions {
				c.checkFunction(fn)
			}
		}
	}
}

func (c *Checker) checkFunction(fn *ast.FunctionDecl) {
	c.scope = NewScope(nil)
	c.currentRet = fn.ReturnType
	c.frameLocals = make(map[string]bool)

	for _, param := range fn.Params {
		c.scope.Define(param.Name, c.resolveNominal(param.Type))
	}
	c.checkBlock(fn.Body)

	c.scope = nil
	c.frameLocals = nil
}

// resolveNominal rewrites a parser-produced Struct reference into a
// Component reference when the name was declared as a component. The
// parser cannot tell the two apart syntactically.
func (c *Checker) resolveNominal(t ast.Type) ast.Type {
	switch t.Kind {
	case ast.KindStruct:
		if _, ok := c.components[t.Name]; ok {
			return ast.ComponentType(t.Name)
		}
	case ast.KindArray, ast.KindOptional:
		elem := c.resolveNominal(*t.Elem)
		t.Elem = &elem
	case ast.KindQuery:
		for i, comp := range t.Components {
			t.Components[i] = c.resolveNominal(comp)
		}
	}
	return t
}

func (c *Checker) checkBlock(block *ast.Block) {
	c.scope = NewScope(c.scope)
	for _, stmt := range block.Statements {
		c.checkStatement(stmt)
	}
	c.scope = c.scope.parent
}

func (c *Checker) checkStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		c.checkLet(s)
	case *ast.AssignStmt:
		c.checkAssign(s)
	case *ast.IfStmt:
		c.checkIf(s)
	case *ast.WhileStmt:
		c.checkWhile(s)
	case *ast.ForStmt:
		c.checkFor(s)
	case *ast.LoopStmt:
		c.checkBlock(s.Body)
	case *ast.ReturnStmt:
		c.checkReturn(s)
	case *ast.DeferStmt:
		c.checkExpression(s.Expr)
	case *ast.ExprStmt:
		c.checkExpression(s.Expr)
	case *ast.Block:
		c.checkBlock(s)
	case *ast.BreakStmt, *ast.ContinueStmt:
		// nothing to check
	}
}

func (c *Checker) checkLet(stmt *ast.LetStmt) {
	valueType := c.checkExpression(stmt.Value)

	bound := valueType
	if stmt.Typed {
		declared := c.resolveNominal(stmt.Type)
		if !c.compatible(declared, valueType) {
			c.diags.ErrorWithSuggestion(stmt.Line, stmt.Column,
				fmt.Sprintf("Type mismatch: cannot assign '%s' to '%s'", valueType, declared),
				fmt.Sprintf("Use a %s variable or convert: %s = %s",
					declared, stmt.Name, suggestValueForType(declared)))
		}
		// a poisoned initializer keeps the name poisoned so later
		// uses do not re-report the same root cause
		if !valueType.IsError() {
			bound = declared
		}
	}
	c.scope.Define(stmt.Name, bound)

	// escape analysis: tag names bound to frame allocations
	if isFrameAlloc(stmt.Value) {
		c.frameLocals[stmt.Name] = true
	}
}

func (c *Checker) checkAssign(stmt *ast.AssignStmt) {
	targetType := c.checkExpression(stmt.Target)
	valueType := c.checkExpression(stmt.Value)
	if !c.compatible(targetType, valueType) {
		c.diags.ErrorWithSuggestion(stmt.Line, stmt.Column,
			fmt.Sprintf("Type mismatch in assignment: cannot assign '%s' to '%s'", valueType, targetType),
			fmt.Sprintf("Ensure types match: %s should be %s", valueType, targetType))
	}
}

func (c *Checker) checkIf(stmt *ast.IfStmt) {
	condType := c.checkExpression(stmt.Condition)
	// optionals are truthy: `if maybe { }` tests for presence
	if condType.Kind != ast.KindBool && condType.Kind != ast.KindOptional && !condType.IsError() {
		c.diags.Errorf(stmt.Line, stmt.Column,
			"If condition must be bool or optional type, got '%s'", condType)
	}
	c.checkBlock(stmt.Then)
	if stmt.Else != nil {
		c.checkBlock(stmt.Else)
	}
}

func (c *Checker) checkWhile(stmt *ast.WhileStmt) {
	condType := c.checkExpression(stmt.Condition)
	if condType.Kind != ast.KindBool && !condType.IsError() {
		c.diags.Errorf(stmt.Line, stmt.Column,
			"While condition must be bool, got '%s'", condType)
	}
	c.checkBlock(stmt.Body)
}

func (c *Checker) checkFor(stmt *ast.ForStmt) {
	collType := c.checkExpression(stmt.Collection)

	iterType := ast.Error
	switch {
	case collType.Kind == ast.KindQuery:
		// the iterator exposes one field per queried component
		iterType = ast.StructType("Entity")
	case collType.IsError():
		// already reported, keep walking the body
	default:
		c.diags.ErrorWithSuggestion(stmt.Line, stmt.Column,
			fmt.Sprintf("For loop collection must be a query type, got '%s'", collType),
			"Use a query: for entity in query<Position, Velocity>")
	}

	c.scope = NewScope(c.scope)
	c.scope.Define(stmt.Iterator, iterType)
	for _, s := range stmt.Body.Statements {
		c.checkStatement(s)
	}
	c.scope = c.scope.parent
}

func (c *Checker) checkReturn(stmt *ast.ReturnStmt) {
	if stmt.Value == nil {
		if c.currentRet.Kind != ast.KindVoid {
			c.diags.Errorf(stmt.Line, stmt.Column,
				"Function must return '%s', but return statement has no value", c.currentRet)
		}
		return
	}

	c.checkEscape(stmt)

	valueType := c.checkExpression(stmt.Value)
	if !c.compatible(c.currentRet, valueType) {
		c.diags.Errorf(stmt.Line, stmt.Column,
			"Return type mismatch: function returns '%s', but got '%s'", c.currentRet, valueType)
	}
}

// --- Escape analysis ---

// isFrameAlloc recognizes the frame arena allocation pattern,
// frame.alloc_array(n).
func isFrameAlloc(expr ast.Expression) bool {
	call, ok := expr.(*ast.MethodCallExpr)
	if !ok || call.Method != "alloc_array" {
		return false
	}
	obj, ok := call.Object.(*ast.Identifier)
	return ok && obj.Name == "frame"
}

// checkEscape rejects returning frame-scoped memory, either through a
// tagged variable or as an inline allocation. The analysis is
// intentionally shallow: it does not follow the value through further
// assignments or struct fields.
func (c *Checker) checkEscape(stmt *ast.ReturnStmt) {
	name := ""
	switch v := stmt.Value.(type) {
	case *ast.Identifier:
		if c.frameLocals[v.Name] {
			name = v.Name
		}
	case *ast.MethodCallExpr:
		if isFrameAlloc(v) {
			name = "frame.alloc_array(...)"
		}
	}
	if name == "" {
		return
	}
	c.diags.ErrorWithSuggestion(stmt.Line, stmt.Column,
		fmt.Sprintf("Cannot return frame-scoped allocation '%s': frame-scoped memory is only valid within the current frame", name),
		"Frame-scoped allocations (from frame.alloc_array) cannot be returned from functions. "+
			"Consider using heap allocation or passing the FrameArena as a parameter.")
}

// suggestValueForType returns a plausible literal for the given type,
// used in corrective suggestions.
func suggestValueForType(t ast.Type) string {
	switch t.Kind {
	case ast.KindI32, ast.KindI64:
		return "0"
	case ast.KindF32, ast.KindF64:
		return "0.0"
	case ast.KindBool:
		return "true"
	case ast.KindString:
		return "\"\""
	}
	return fmt.Sprintf("/* %s value */", t)
}
