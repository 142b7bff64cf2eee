package checker

import "github.com/veld-lang/veld/internal/ast"

// FuncSig describes a callable signature: a declared function, an
// extern declaration, a synthesized resource accessor, or a builtin.
type FuncSig struct {
	Name     string
	Params   []ast.Type
	Return   ast.Type
	Variadic bool // accepts len(Params) or more arguments
}

// anyArg is a wildcard parameter type for builtins that accept any
// value; the poison type is compatible with everything.
var anyArg = ast.Error

// builtinFunctions returns the host functions every program can call
// without declaring them: the print builtin, the GLFW windowing
// surface, and the immediate-mode UI layer.
func builtinFunctions() map[string]*FuncSig {
	window := ast.HandleType("GLFWwindow")
	sigs := []*FuncSig{
		{Name: "print", Return: ast.Void, Variadic: true},

		{Name: "glfwInit", Return: ast.I32},
		{Name: "glfwCreateWindow", Params: []ast.Type{ast.I32, ast.I32, ast.Str, ast.I32, ast.I32}, Return: window},
		{Name: "glfwWindowShouldClose", Params: []ast.Type{window}, Return: ast.I32},
		{Name: "glfwPollEvents", Return: ast.Void},
		{Name: "glfwGetKey", Params: []ast.Type{window, ast.I32}, Return: ast.I32},
		{Name: "glfwSetWindowShouldClose", Params: []ast.Type{window, ast.I32}, Return: ast.Void},
		{Name: "glfwDestroyWindow", Params: []ast.Type{window}, Return: ast.Void},
		{Name: "glfwTerminate", Return: ast.Void},
		{Name: "glfwWindowHint", Params: []ast.Type{ast.I32, ast.I32}, Return: ast.Void},

		{Name: "Begin", Params: []ast.Type{anyArg}, Return: ast.Bool, Variadic: true},
		{Name: "End", Return: ast.Void},
		{Name: "Text", Params: []ast.Type{anyArg}, Return: ast.Void, Variadic: true},
		{Name: "Button", Params: []ast.Type{anyArg}, Return: ast.Bool, Variadic: true},
		{Name: "NewFrame", Return: ast.Void},
		{Name: "Render", Return: ast.Void},
	}

	m := make(map[string]*FuncSig, len(sigs))
	for _, sig := range sigs {
		m[sig.Name] = sig
	}
	return m
}
