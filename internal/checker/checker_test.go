package checker

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"github.com/veld-lang/veld/internal/ast"
	"github.com/veld-lang/veld/internal/diagnostic"
	"github.com/veld-lang/veld/internal/lexer"
	"github.com/veld-lang/veld/internal/parser"
)

// checkSource runs the lexer, parser and checker over src and returns
// the diagnostics sink and the checker error.
func checkSource(t *testing.T, src string) (*diagnostic.Diagnostics, error) {
	t.Helper()
	tokens, lerr := lexer.New(src).Tokenize()
	be.Err(t, lerr, nil)
	diags := diagnostic.New()
	prog, perr := parser.New(tokens, diags).Parse()
	if perr != nil {
		for _, d := range diags.All() {
			t.Logf("%d:%d: %s", d.Line, d.Column, d.Message)
		}
		t.Fatalf("parse failed: %v", perr)
	}
	return diags, New(diags).Check(prog)
}

func checkOK(t *testing.T, src string) {
	t.Helper()
	diags, err := checkSource(t, src)
	if err != nil {
		for _, d := range diags.Errors() {
			t.Logf("%d:%d: %s", d.Line, d.Column, d.Message)
		}
		t.Fatalf("unexpected errors: %v", err)
	}
}

// errorMessages returns the messages of all error diagnostics.
func errorMessages(t *testing.T, src string) []string {
	t.Helper()
	diags, err := checkSource(t, src)
	be.Err(t, err)
	var msgs []string
	for _, d := range diags.Errors() {
		msgs = append(msgs, d.Message)
	}
	return msgs
}

func firstError(t *testing.T, src string) diagnostic.Diagnostic {
	t.Helper()
	diags, err := checkSource(t, src)
	be.Err(t, err)
	return diags.Errors()[0]
}

func TestCheckValidProgram(t *testing.T) {
	checkOK(t, `
component Position { x: f32, y: f32 }

fn add(a: i32, b: i32): i32 {
    return a + b;
}

fn main(): i32 {
    let total = add(1, 2);
    print("total: {total}");
    return total;
}
`)
}

func TestLetTypeMismatch(t *testing.T) {
	d := firstError(t, `
fn main() {
    let x: i32 = "hi";
}
`)
	be.Equal(t, d.Message, "Type mismatch: cannot assign 'string' to 'i32'")
	be.Equal(t, d.Suggestion, "Use a i32 variable or convert: x = 0")
}

func TestLetSuggestionValues(t *testing.T) {
	d := firstError(t, `
fn main() {
    let f: f64 = "nope";
}
`)
	be.True(t, strings.HasSuffix(d.Suggestion, "f = 0.0"))

	d = firstError(t, `
fn main() {
    let s: string = 1;
}
`)
	be.True(t, strings.HasSuffix(d.Suggestion, `s = ""`))
}

func TestAssignMismatchSuggestion(t *testing.T) {
	d := firstError(t, `
fn main() {
    let x = 1;
    x = "two";
}
`)
	be.Equal(t, d.Message, "Type mismatch in assignment: cannot assign 'string' to 'i32'")
	be.Equal(t, d.Suggestion, "Ensure types match: string should be i32")
}

func TestWideningAsymmetry(t *testing.T) {
	// i32 widens into i64, f32 and f64
	checkOK(t, `
fn main() {
    let a: i64 = 1;
    let b: f32 = 2;
    let c: f64 = 3;
    let d: f64 = 2.5;
}
`)
	// but f64 does not narrow into i32
	msgs := errorMessages(t, `
fn f(): f64 { return 1.0; }
fn main() {
    let x: i32 = f();
}
`)
	be.Equal(t, msgs[0], "Type mismatch: cannot assign 'f64' to 'i32'")
}

func TestF64NarrowsToF32(t *testing.T) {
	checkOK(t, `
fn wide(): f64 { return 1.0; }
fn main() {
    let x: f32 = wide();
}
`)
}

func TestUndefinedVariableWithSuggestion(t *testing.T) {
	d := firstError(t, `
fn main() {
    let velocity = 1.0;
    let v = velocty;
}
`)
	be.Equal(t, d.Message, "Undefined variable: 'velocty'")
	be.Equal(t, d.Suggestion, "Did you mean 'velocity'? Use: velocity")
}

func TestUndefinedVariableNoCandidate(t *testing.T) {
	d := firstError(t, `
fn main() {
    let x = zzzzzzzz;
}
`)
	be.Equal(t, d.Suggestion, "Did you mean to declare it first? Use: let zzzzzzzz: Type = value;")
}

func TestUndefinedFunctionWithSuggestion(t *testing.T) {
	d := firstError(t, `
fn update_physics() { }
fn main() {
    update_fysics();
}
`)
	be.Equal(t, d.Message, "Undefined function: 'update_fysics'")
	be.Equal(t, d.Suggestion, "Did you mean 'update_physics'? Use: update_physics()")
}

func TestErrorPoisonStopsCascade(t *testing.T) {
	// one undefined variable, used three more times: exactly one error
	diags, err := checkSource(t, `
fn main() {
    let a = missing;
    let b = a + 1;
    let c = a * b;
    print(a);
}
`)
	be.Err(t, err)
	be.Equal(t, diags.ErrorCount(), 1)
}

func TestTypedLetKeepsPoisonedInitializer(t *testing.T) {
	// a typed let over a poisoned value stays poisoned, so later
	// uses of the name do not derive a second error
	diags, err := checkSource(t, `
fn main() {
    let x: i32 = missing;
    let y: string = x;
}
`)
	be.Err(t, err)
	be.Equal(t, diags.ErrorCount(), 1)
	be.Equal(t, diags.Errors()[0].Message, "Undefined variable: 'missing'")
}

func TestCallMismatchPoisonsResult(t *testing.T) {
	// a broken call types as the poison type, not the declared
	// return type, so the enclosing return does not re-report
	diags, err := checkSource(t, `
fn greet(name: string): string { return name; }
fn f(): i32 {
    return greet(1);
}
fn g(): i32 {
    return greet();
}
`)
	be.Err(t, err)
	be.Equal(t, diags.ErrorCount(), 2)
	be.Equal(t, diags.Errors()[0].Message,
		"Argument 1 type mismatch in function call 'greet': expected 'string', got 'i32'")
	be.Equal(t, diags.Errors()[1].Message,
		"Argument count mismatch for function 'greet': expected 1 arguments, got 0")
}

func TestCallPoisonedArgumentNotReReported(t *testing.T) {
	diags, err := checkSource(t, `
fn double(x: i32): i32 { return x * 2; }
fn main() {
    let n = double(missing);
    print(n);
}
`)
	be.Err(t, err)
	be.Equal(t, diags.ErrorCount(), 1)
	be.Equal(t, diags.Errors()[0].Message, "Undefined variable: 'missing'")
}

func TestCheckerContinuesAfterError(t *testing.T) {
	// independent errors are all reported in one run
	msgs := errorMessages(t, `
fn main() {
    let x: i32 = "one";
    let y: bool = 2;
    while 5 {
    }
}
`)
	be.Equal(t, len(msgs), 3)
	be.Equal(t, msgs[2], "While condition must be bool, got 'i32'")
}

func TestIfConditionTruthiness(t *testing.T) {
	checkOK(t, `
fn find(): ?i32 { return null; }
fn main() {
    if find() {
    }
    if true {
    }
}
`)
	d := firstError(t, `
fn main() {
    if 1 {
    }
}
`)
	be.Equal(t, d.Message, "If condition must be bool or optional type, got 'i32'")
}

func TestForRequiresQuery(t *testing.T) {
	d := firstError(t, `
fn main() {
    let q = 5;
    for e in q {
    }
}
`)
	be.Equal(t, d.Message, "For loop collection must be a query type, got 'i32'")
	be.Equal(t, d.Suggestion, "Use a query: for entity in query<Position, Velocity>")
}

func TestForOverQuery(t *testing.T) {
	checkOK(t, `
component Position { x: f32, y: f32 }
component Velocity { x: f32, y: f32 }

fn update(entities: query<Position, Velocity>, dt: f32) {
    for e in entities {
        e.position.x = e.position.x + e.velocity.x * dt;
    }
}
`)
}

func TestReturnMismatch(t *testing.T) {
	msgs := errorMessages(t, `
fn f(): i32 {
    return "no";
}
fn g(): i32 {
    return;
}
`)
	be.Equal(t, msgs[0], "Return type mismatch: function returns 'i32', but got 'string'")
	be.Equal(t, msgs[1], "Function must return 'i32', but return statement has no value")
}

func TestArgumentChecks(t *testing.T) {
	msgs := errorMessages(t, `
fn add(a: i32, b: i32): i32 { return a + b; }
fn main() {
    add(1);
    add(1, "two");
}
`)
	be.Equal(t, msgs[0], "Argument count mismatch for function 'add': expected 2 arguments, got 1")
	be.Equal(t, msgs[1], "Argument 2 type mismatch in function call 'add': expected 'i32', got 'string'")
}

func TestOptionalRules(t *testing.T) {
	checkOK(t, `
fn find(): ?i32 {
    return null;
}
fn wrap(): ?i32 {
    return 42;
}
fn main() {
    let x: ?i32 = null;
    let y: ?i32 = 7;
    let z = wrap().unwrap() + 1;
}
`)
}

func TestUnwrapNonOptional(t *testing.T) {
	d := firstError(t, `
fn main() {
    let x = 5;
    let y = x.unwrap();
}
`)
	be.Equal(t, d.Message, "Cannot call unwrap() on non-optional type 'i32'")
}

func TestEmptyArrayLiteral(t *testing.T) {
	d := firstError(t, `
fn main() {
    let xs = [];
}
`)
	be.Equal(t, d.Message, "Cannot infer type of empty array literal")
}

func TestArrayElementMismatchHasSecondary(t *testing.T) {
	d := firstError(t, `
fn main() {
    let xs = [1, 2, "three"];
}
`)
	be.Equal(t, d.Message, "Array literal element 3 has type 'string', but first element has type 'i32'")
	be.True(t, d.Secondary != nil)
	be.Equal(t, d.Secondary.Label, "Note: first element (expected type)")
}

func TestEscapeAnalysis(t *testing.T) {
	d := firstError(t, `
fn leak(): [f32] {
    let verts = frame.alloc_array(128);
    return verts;
}
`)
	be.Equal(t, d.Message,
		"Cannot return frame-scoped allocation 'verts': frame-scoped memory is only valid within the current frame")
	be.True(t, strings.Contains(d.Suggestion, "frame.alloc_array"))
}

func TestEscapeAnalysisInlineReturn(t *testing.T) {
	msgs := errorMessages(t, `
fn leak(): [f32] {
    return frame.alloc_array(64);
}
`)
	be.Equal(t, msgs[0],
		"Cannot return frame-scoped allocation 'frame.alloc_array(...)': frame-scoped memory is only valid within the current frame")
}

func TestFrameAllocUsableLocally(t *testing.T) {
	checkOK(t, `
fn scratch() {
    let buf = frame.alloc_array(16);
    buf[0] = 1.0;
    let v = buf[3] * 2.0;
}
`)
}

func TestEscapeAnalysisIsShallow(t *testing.T) {
	// aliasing through a second let is deliberately not tracked
	checkOK(t, `
fn sneaky(): [f32] {
    let a = frame.alloc_array(8);
    let b = a;
    return b;
}
`)
}

func TestSOAValidation(t *testing.T) {
	d := firstError(t, `
component_soa Particles {
    x: [f32],
    y: f32,
}
`)
	be.Equal(t, d.Message,
		"SOA component 'Particles' field 'y' must be an array type (use [Type] instead of Type)")
	be.Equal(t, d.Suggestion, "Change 'y: f32' to 'y: [f32]'")
}

func TestShaderExtensionValidation(t *testing.T) {
	d := firstError(t, `shader vertex "shaders/basic.frag";`)
	be.Equal(t, d.Message,
		"Shader stage 'vertex' does not match file extension. Expected '.vert' extension for vertex shader, but got 'shaders/basic.frag'")

	checkOK(t, `shader vertex "shaders/basic.vert";`)
	checkOK(t, `shader fragment "shaders/generic.glsl";`)
	checkOK(t, `shader compute "precompiled/kernel.spv";`)
	checkOK(t, `shader vertex "shaders/UPPER.VERT";`)
}

func TestResourceAccessors(t *testing.T) {
	checkOK(t, `
resource Tex: Texture = "a.dds";
resource Jump: Sound = "jump.wav";

fn main() {
    let t = get_resource_tex();
    let id = play_resource_jump();
    stop_resource_jump();
}
`)
}

func TestResourceAccessorsOnlyAudioGetsPlay(t *testing.T) {
	diags, err := checkSource(t, `
resource Tex: Texture = "a.dds";

fn main() {
    play_resource_tex();
}
`)
	be.Err(t, err)
	be.Equal(t, diags.Errors()[0].Message, "Undefined function: 'play_resource_tex'")
}

func TestStringInterpolationChecks(t *testing.T) {
	msgs := errorMessages(t, `
fn main() {
    let xs = [1, 2];
    print("missing {nope} and bad {xs}");
}
`)
	be.Equal(t, msgs[0], "Undefined variable 'nope' in string interpolation")
	be.Equal(t, msgs[1], "Variable 'xs' has type '[i32]', which cannot be converted to string in interpolation")
}

func TestArithmeticTypeChecks(t *testing.T) {
	msgs := errorMessages(t, `
fn main() {
    let a = "x" + 1;
    let b = true && 3;
    let c = -"neg";
    let d = !5;
}
`)
	be.Equal(t, msgs[0], "Arithmetic operations require numeric types, got 'string' and 'i32'")
	be.Equal(t, msgs[1], "Logical operations require bool types, got 'bool' and 'i32'")
	be.Equal(t, msgs[2], "Negation requires numeric type, got 'string'")
	be.Equal(t, msgs[3], "Not requires bool type, got 'i32'")
}

func TestNumericPromotion(t *testing.T) {
	checkOK(t, `
fn main() {
    let a: f64 = 1 + 2.5;
    let b: i64 = 1 + 2;
}
`)
}

func TestIndexRequiresArray(t *testing.T) {
	d := firstError(t, `
fn main() {
    let x = 5;
    let y = x[0];
}
`)
	be.Equal(t, d.Message, "Index operation requires array type, got 'i32'")
}

func TestVecConstructorFieldTypes(t *testing.T) {
	checkOK(t, `
fn main() {
    let v = Vec3(1.0, 2, 3.5);
}
`)
	d := firstError(t, `
fn main() {
    let v = Vec2("a", 1.0);
}
`)
	be.Equal(t, d.Message, "Type mismatch: cannot assign 'string' to 'f32'")
}

func TestStructLiterals(t *testing.T) {
	checkOK(t, `
struct Settings { width: i32, title: string }
fn main() {
    let s = Settings { width: 800, title: "veld" };
    let w = s.width;
}
`)
	d := firstError(t, `
fn main() {
    let s = Missing { x: 1 };
}
`)
	be.Equal(t, d.Message, "Undefined struct: 'Missing'")
}

func TestMatchBindsScrutineeType(t *testing.T) {
	checkOK(t, `
fn main() {
    let state = 2;
    match state * 2 {
        0 => { print("idle"); },
        other => {
            let doubled: i32 = other;
        },
        _ => { },
    };
}
`)
}

func TestMatchBindingDoesNotLeak(t *testing.T) {
	diags, err := checkSource(t, `
fn main() {
    match 1 {
        bound => { },
    };
    let x = bound;
}
`)
	be.Err(t, err)
	be.Equal(t, diags.Errors()[0].Message, "Undefined variable: 'bound'")
}

func TestBuiltinWindowLoop(t *testing.T) {
	checkOK(t, `
fn main(): i32 {
    if glfwInit() == 0 {
        return 1;
    }
    glfwWindowHint(139266, 3);
    let window = glfwCreateWindow(800, 600, "demo", 0, 0);
    while glfwWindowShouldClose(window) == 0 {
        glfwPollEvents();
        if glfwGetKey(window, 256) == 1 {
            glfwSetWindowShouldClose(window, 1);
        }
        NewFrame();
        if Begin("stats") {
            Text("frame");
            if Button("quit") {
                glfwSetWindowShouldClose(window, 1);
            }
        }
        End();
        Render();
    }
    glfwDestroyWindow(window);
    glfwTerminate();
    return 0;
}
`)
}

func TestCheckErrorSummary(t *testing.T) {
	_, err := checkSource(t, `
fn main() {
    let a: i32 = "x";
    let b: i32 = "y";
}
`)
	be.Err(t, err)
	be.Equal(t, err.Error(), "Compilation failed with 2 error(s)")
}

func TestSystemFunctionsAreChecked(t *testing.T) {
	diags, err := checkSource(t, `
system Broken {
    fn tick() {
        let x: bool = 1;
    }
}
`)
	be.Err(t, err)
	be.Equal(t, diags.ErrorCount(), 1)
}

func TestSystemFunctionsCallableTopLevel(t *testing.T) {
	checkOK(t, `
system Physics {
    fn step(dt: f32) { }
}
fn main() {
    step(0.016);
}
`)
}

func TestComponentParamFieldAccess(t *testing.T) {
	checkOK(t, `
component Position { x: f32, y: f32 }
fn move_right(p: Position): f32 {
    return p.x + 1.0;
}
`)
}

func TestLevenshteinDistance(t *testing.T) {
	be.Equal(t, levenshtein("", "abc"), 3)
	be.Equal(t, levenshtein("kitten", "sitting"), 3)
	be.Equal(t, levenshtein("velocty", "velocity"), 1)
	be.Equal(t, levenshtein("same", "same"), 0)
}

func TestClosestNameCutoff(t *testing.T) {
	be.Equal(t, closestName("velocty", []string{"position", "velocity"}), "velocity")
	be.Equal(t, closestName("zzzzzz", []string{"position", "velocity"}), "")
}

func TestCompatibleMatrix(t *testing.T) {
	c := New(diagnostic.New())
	be.True(t, c.compatible(ast.I64, ast.I32))
	be.True(t, !c.compatible(ast.I32, ast.I64))
	be.True(t, c.compatible(ast.F64, ast.I32))
	be.True(t, !c.compatible(ast.I32, ast.F64))
	be.True(t, c.compatible(ast.F32, ast.F64))
	be.True(t, !c.compatible(ast.Str, ast.I32))
	be.True(t, c.compatible(ast.Error, ast.Str))
	be.True(t, c.compatible(ast.Str, ast.Error))
	be.True(t, c.compatible(ast.OptionalOf(ast.I32), ast.I32))
	be.True(t, c.compatible(ast.OptionalOf(ast.I32), ast.OptionalOf(ast.Void)))
	be.True(t, !c.compatible(ast.I32, ast.OptionalOf(ast.I32)))
}
