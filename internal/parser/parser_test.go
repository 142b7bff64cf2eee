package parser

import (
	"testing"

	"github.com/nalgeon/be"

	"github.com/veld-lang/veld/internal/ast"
	"github.com/veld-lang/veld/internal/diagnostic"
	"github.com/veld-lang/veld/internal/lexer"
)

func parseSource(t *testing.T, src string) *ast.Program {
	t.Helper()
	tokens, lerr := lexer.New(src).Tokenize()
	be.Err(t, lerr, nil)
	diags := diagnostic.New()
	prog, err := New(tokens, diags).Parse()
	if err != nil {
		for _, d := range diags.All() {
			t.Logf("%d:%d: %s", d.Line, d.Column, d.Message)
		}
		t.Fatalf("parse failed: %v", err)
	}
	return prog
}

// parseError parses source expected to fail and returns the single
// diagnostic that aborted the parse.
func parseError(t *testing.T, src string) diagnostic.Diagnostic {
	t.Helper()
	tokens, lerr := lexer.New(src).Tokenize()
	be.Err(t, lerr, nil)
	diags := diagnostic.New()
	prog, err := New(tokens, diags).Parse()
	if err == nil {
		t.Fatalf("expected parse error, got program with %d items", len(prog.Items))
	}
	be.Equal(t, diags.ErrorCount(), 1)
	return diags.Errors()[0]
}

func TestParseStruct(t *testing.T) {
	prog := parseSource(t, `
struct Vertex {
    position: Vec3,
    uv: Vec2,
}
`)
	be.Equal(t, len(prog.Items), 1)
	s, ok := prog.Items[0].(*ast.StructDecl)
	be.True(t, ok)
	be.Equal(t, s.Name, "Vertex")
	be.Equal(t, len(s.Fields), 2)
	be.Equal(t, s.Fields[0].Name, "position")
	be.Equal(t, s.Fields[0].Type.Kind, ast.KindVec3)
	be.Equal(t, s.Fields[1].Type.Kind, ast.KindVec2)
}

func TestParseComponent(t *testing.T) {
	prog := parseSource(t, `
component Position {
    x: f32,
    y: f32
}
`)
	c, ok := prog.Items[0].(*ast.ComponentDecl)
	be.True(t, ok)
	be.Equal(t, c.Name, "Position")
	be.True(t, !c.SOA)
	be.Equal(t, len(c.Fields), 2)
}

func TestParseComponentSOA(t *testing.T) {
	prog := parseSource(t, `
component_soa Particles {
    x: [f32],
    y: [f32],
}
`)
	c, ok := prog.Items[0].(*ast.ComponentDecl)
	be.True(t, ok)
	be.True(t, c.SOA)
	be.Equal(t, c.Fields[0].Type.Kind, ast.KindArray)
	be.Equal(t, c.Fields[0].Type.Elem.Kind, ast.KindF32)
}

func TestParseHotAttribute(t *testing.T) {
	prog := parseSource(t, `
@hot
component Health {
    current: i32,
}
`)
	c := prog.Items[0].(*ast.ComponentDecl)
	be.True(t, c.Hot())
}

func TestParseBracketAttributes(t *testing.T) {
	prog := parseSource(t, `
@[hot]
component A { x: f32 }

@[cuda]
component B { y: f32 }
`)
	be.Equal(t, len(prog.Items), 2)
	be.True(t, prog.Items[0].(*ast.ComponentDecl).Hot())
	b := prog.Items[1].(*ast.ComponentDecl)
	be.True(t, !b.Hot())
	be.True(t, ast.HasAttr(b.Attrs, "cuda"))
}

func TestParseAttributeWithParams(t *testing.T) {
	prog := parseSource(t, `
@[shader_model(version = 6)]
struct S { x: f32 }
`)
	s := prog.Items[0].(*ast.StructDecl)
	be.Equal(t, len(s.Attrs), 1)
	be.Equal(t, s.Attrs[0].Name, "shader_model")
	be.Equal(t, len(s.Attrs[0].Params), 1)
	be.Equal(t, s.Attrs[0].Params[0].Name, "version")
	v, ok := s.Attrs[0].Params[0].Value.(*ast.IntLit)
	be.True(t, ok)
	be.Equal(t, v.Value, 6)
}

func TestParseSystem(t *testing.T) {
	prog := parseSource(t, `
system Physics {
    fn update(dt: f32) {
        let g = 9.81;
    }
    fn reset() {
    }
}
`)
	s, ok := prog.Items[0].(*ast.SystemDecl)
	be.True(t, ok)
	be.Equal(t, s.Name, "Physics")
	be.Equal(t, len(s.Functions), 2)
	be.Equal(t, s.Functions[0].Name, "update")
	be.Equal(t, len(s.Functions[0].Params), 1)
	be.Equal(t, s.Functions[0].Params[0].Type.Kind, ast.KindF32)
	be.Equal(t, s.Functions[1].Name, "reset")
}

func TestParseShader(t *testing.T) {
	prog := parseSource(t, `shader vertex "shaders/basic.vert";`)
	s, ok := prog.Items[0].(*ast.ShaderDecl)
	be.True(t, ok)
	be.Equal(t, s.Stage, ast.StageVertex)
	be.Equal(t, s.Path, "shaders/basic.vert")
}

func TestParseShaderWithBody(t *testing.T) {
	prog := parseSource(t, `
shader compute "kernels/particles.comp" {
}
`)
	s := prog.Items[0].(*ast.ShaderDecl)
	be.Equal(t, s.Stage, ast.StageCompute)
}

func TestParseExternFunction(t *testing.T) {
	prog := parseSource(t, `
extern fn glClear(mask: i32): void from "opengl";
extern fn custom_init();
`)
	e, ok := prog.Items[0].(*ast.ExternFunctionDecl)
	be.True(t, ok)
	be.Equal(t, e.Name, "glClear")
	be.Equal(t, e.Library, "opengl")
	be.Equal(t, e.ReturnType.Kind, ast.KindVoid)

	e2 := prog.Items[1].(*ast.ExternFunctionDecl)
	be.Equal(t, e2.Name, "custom_init")
	be.Equal(t, e2.Library, "")
}

func TestParseFunction(t *testing.T) {
	prog := parseSource(t, `
fn add(a: i32, b: i32): i32 {
    return a + b;
}
`)
	f, ok := prog.Items[0].(*ast.FunctionDecl)
	be.True(t, ok)
	be.Equal(t, f.Name, "add")
	be.Equal(t, f.ReturnType.Kind, ast.KindI32)
	be.Equal(t, len(f.Body.Statements), 1)
	ret, ok := f.Body.Statements[0].(*ast.ReturnStmt)
	be.True(t, ok)
	bin, ok := ret.Value.(*ast.BinaryExpr)
	be.True(t, ok)
	be.Equal(t, bin.Op, lexer.PLUS)
}

func TestParseResource(t *testing.T) {
	prog := parseSource(t, `resource PlayerTex: Texture = "assets/player.dds";`)
	r, ok := prog.Items[0].(*ast.ResourceDecl)
	be.True(t, ok)
	be.Equal(t, r.Name, "PlayerTex")
	be.Equal(t, r.Kind, "Texture")
	be.Equal(t, r.Path, "assets/player.dds")
}

func TestParsePipeline(t *testing.T) {
	prog := parseSource(t, `
pipeline Forward {
    shader vertex "shaders/forward.vert";
    shader fragment "shaders/forward.frag";
    layout {
        binding 0: uniform Camera;
        binding 1: sampler2D Albedo;
        binding 2: storage Lights;
    }
}
`)
	pl, ok := prog.Items[0].(*ast.PipelineDecl)
	be.True(t, ok)
	be.Equal(t, pl.Name, "Forward")
	be.Equal(t, len(pl.Shaders), 2)
	be.Equal(t, pl.Shaders[0].Stage, ast.StageVertex)
	be.Equal(t, pl.Shaders[1].Stage, ast.StageFragment)
	be.Equal(t, len(pl.Bindings), 3)
	be.Equal(t, pl.Bindings[0].Index, 0)
	be.Equal(t, pl.Bindings[0].Kind, ast.BindingUniform)
	be.Equal(t, pl.Bindings[0].Name, "Camera")
	be.Equal(t, pl.Bindings[1].Kind, ast.BindingSampler2D)
	be.Equal(t, pl.Bindings[2].Kind, ast.BindingStorage)
}

func TestParseTypes(t *testing.T) {
	prog := parseSource(t, `
fn f(a: i64, b: [f64], c: ?string, d: query<Position, Velocity>, e: GLFWwindow, f: Mat4) {
}
`)
	params := prog.Items[0].(*ast.FunctionDecl).Params
	be.Equal(t, params[0].Type.Kind, ast.KindI64)
	be.Equal(t, params[1].Type.Kind, ast.KindArray)
	be.Equal(t, params[1].Type.Elem.Kind, ast.KindF64)
	be.Equal(t, params[2].Type.Kind, ast.KindOptional)
	be.Equal(t, params[2].Type.Elem.Kind, ast.KindString)
	be.Equal(t, params[3].Type.Kind, ast.KindQuery)
	be.Equal(t, len(params[3].Type.Components), 2)
	be.Equal(t, params[4].Type.Kind, ast.KindHandle)
	be.Equal(t, params[4].Type.Name, "GLFWwindow")
	be.Equal(t, params[5].Type.Kind, ast.KindMat4)
}

func TestParseNestedOptionalArray(t *testing.T) {
	prog := parseSource(t, `fn f(a: ?[i32]) {}`)
	typ := prog.Items[0].(*ast.FunctionDecl).Params[0].Type
	be.Equal(t, typ.Kind, ast.KindOptional)
	be.Equal(t, typ.Elem.Kind, ast.KindArray)
	be.Equal(t, typ.Elem.Elem.Kind, ast.KindI32)
}

func TestParseLetStatements(t *testing.T) {
	prog := parseSource(t, `
fn main() {
    let x = 1;
    let y: f32 = 2.5;
}
`)
	stmts := prog.Items[0].(*ast.FunctionDecl).Body.Statements
	l0 := stmts[0].(*ast.LetStmt)
	be.Equal(t, l0.Name, "x")
	be.True(t, !l0.Typed)
	l1 := stmts[1].(*ast.LetStmt)
	be.True(t, l1.Typed)
	be.Equal(t, l1.Type.Kind, ast.KindF32)
}

func TestParseControlFlow(t *testing.T) {
	prog := parseSource(t, `
fn main() {
    if x > 0 {
        y = 1;
    } else if x < 0 {
        y = 2;
    } else {
        y = 3;
    }
    while (running) {
        tick();
    }
    for entity in entities {
        step(entity);
    }
    loop {
        break;
    }
    continue;
    defer cleanup();
}
`)
	stmts := prog.Items[0].(*ast.FunctionDecl).Body.Statements
	be.Equal(t, len(stmts), 6)

	ifStmt := stmts[0].(*ast.IfStmt)
	be.True(t, ifStmt.Else != nil)
	nested, ok := ifStmt.Else.Statements[0].(*ast.IfStmt)
	be.True(t, ok)
	be.True(t, nested.Else != nil)

	while := stmts[1].(*ast.WhileStmt)
	_, ok = while.Condition.(*ast.Identifier)
	be.True(t, ok)

	forStmt := stmts[2].(*ast.ForStmt)
	be.Equal(t, forStmt.Iterator, "entity")

	loopStmt := stmts[3].(*ast.LoopStmt)
	_, ok = loopStmt.Body.Statements[0].(*ast.BreakStmt)
	be.True(t, ok)

	_, ok = stmts[4].(*ast.ContinueStmt)
	be.True(t, ok)

	deferStmt := stmts[5].(*ast.DeferStmt)
	_, ok = deferStmt.Expr.(*ast.CallExpr)
	be.True(t, ok)
}

func TestParsePrecedence(t *testing.T) {
	prog := parseSource(t, `
fn main() {
    let a = 1 + 2 * 3;
    let b = x == 1 || y == 2 && z == 3;
}
`)
	stmts := prog.Items[0].(*ast.FunctionDecl).Body.Statements

	// * binds tighter than +
	a := stmts[0].(*ast.LetStmt).Value.(*ast.BinaryExpr)
	be.Equal(t, a.Op, lexer.PLUS)
	right := a.Right.(*ast.BinaryExpr)
	be.Equal(t, right.Op, lexer.STAR)

	// && binds tighter than ||
	b := stmts[1].(*ast.LetStmt).Value.(*ast.BinaryExpr)
	be.Equal(t, b.Op, lexer.OROR)
	and := b.Right.(*ast.BinaryExpr)
	be.Equal(t, and.Op, lexer.ANDAND)
}

func TestParseUnary(t *testing.T) {
	prog := parseSource(t, `
fn main() {
    let a = -x + 1;
    let b = !done;
}
`)
	stmts := prog.Items[0].(*ast.FunctionDecl).Body.Statements
	a := stmts[0].(*ast.LetStmt).Value.(*ast.BinaryExpr)
	neg := a.Left.(*ast.UnaryExpr)
	be.Equal(t, neg.Op, lexer.MINUS)
	not := stmts[1].(*ast.LetStmt).Value.(*ast.UnaryExpr)
	be.Equal(t, not.Op, lexer.BANG)
}

func TestParsePostfix(t *testing.T) {
	prog := parseSource(t, `
fn main() {
    let a = items[0];
    let b = pos.x;
    let c = opt.unwrap();
    let d = frame.alloc_array(100);
}
`)
	stmts := prog.Items[0].(*ast.FunctionDecl).Body.Statements

	idx := stmts[0].(*ast.LetStmt).Value.(*ast.IndexExpr)
	_, ok := idx.Index.(*ast.IntLit)
	be.True(t, ok)

	mem := stmts[1].(*ast.LetStmt).Value.(*ast.MemberExpr)
	be.Equal(t, mem.Member, "x")

	call := stmts[2].(*ast.LetStmt).Value.(*ast.MethodCallExpr)
	be.Equal(t, call.Method, "unwrap")
	be.Equal(t, len(call.Args), 0)

	alloc := stmts[3].(*ast.LetStmt).Value.(*ast.MethodCallExpr)
	obj := alloc.Object.(*ast.Identifier)
	be.Equal(t, obj.Name, "frame")
	be.Equal(t, alloc.Method, "alloc_array")
	be.Equal(t, len(alloc.Args), 1)
}

func TestParseVecConstructors(t *testing.T) {
	prog := parseSource(t, `
fn main() {
    let v = Vec3(1.0, 2.0, 3.0);
}
`)
	lit := prog.Items[0].(*ast.FunctionDecl).Body.Statements[0].(*ast.LetStmt).Value.(*ast.StructLit)
	be.Equal(t, lit.Name, "Vec3")
	be.Equal(t, len(lit.Fields), 3)
	be.Equal(t, lit.Fields[0].Name, "x")
	be.Equal(t, lit.Fields[1].Name, "y")
	be.Equal(t, lit.Fields[2].Name, "z")
}

func TestParseVecArityMismatch(t *testing.T) {
	d := parseError(t, `
fn main() {
    let v = Vec3(1.0, 2.0);
}
`)
	be.Equal(t, d.Message, "Vec3 constructor expects 3 arguments, got 2")
}

func TestParseArrayLiteral(t *testing.T) {
	prog := parseSource(t, `
fn main() {
    let xs = [1, 2, 3,];
    let empty = [];
}
`)
	stmts := prog.Items[0].(*ast.FunctionDecl).Body.Statements
	xs := stmts[0].(*ast.LetStmt).Value.(*ast.ArrayLit)
	be.Equal(t, len(xs.Elements), 3)
	empty := stmts[1].(*ast.LetStmt).Value.(*ast.ArrayLit)
	be.Equal(t, len(empty.Elements), 0)
}

func TestParseNullLiteral(t *testing.T) {
	prog := parseSource(t, `
fn main() {
    let x = null;
}
`)
	_, ok := prog.Items[0].(*ast.FunctionDecl).Body.Statements[0].(*ast.LetStmt).Value.(*ast.NullLit)
	be.True(t, ok)
}

func TestParseStructLiteral(t *testing.T) {
	prog := parseSource(t, `
fn main() {
    let s = Settings { width: 800, title: "veld" };
}
`)
	lit := prog.Items[0].(*ast.FunctionDecl).Body.Statements[0].(*ast.LetStmt).Value.(*ast.StructLit)
	be.Equal(t, lit.Name, "Settings")
	be.Equal(t, len(lit.Fields), 2)
	be.Equal(t, lit.Fields[0].Name, "width")
	be.Equal(t, lit.Fields[1].Name, "title")
}

func TestParseBraceAfterConditionIsBlock(t *testing.T) {
	// `if running { }` must treat the brace as the then-block, not a
	// struct literal on `running`
	prog := parseSource(t, `
fn main() {
    if running {
        stop();
    }
}
`)
	ifStmt := prog.Items[0].(*ast.FunctionDecl).Body.Statements[0].(*ast.IfStmt)
	_, ok := ifStmt.Condition.(*ast.Identifier)
	be.True(t, ok)
	be.Equal(t, len(ifStmt.Then.Statements), 1)
}

func TestParseMatch(t *testing.T) {
	prog := parseSource(t, `
fn main() {
    match state {
        0 => { stop(); },
        "go" => { start(); },
        other => { log(other); },
        _ => { },
    };
}
`)
	expr := prog.Items[0].(*ast.FunctionDecl).Body.Statements[0].(*ast.ExprStmt).Expr
	m, ok := expr.(*ast.MatchExpr)
	be.True(t, ok)
	be.Equal(t, len(m.Arms), 4)
	be.Equal(t, m.Arms[0].Pattern.Kind, ast.PatternLiteral)
	be.Equal(t, m.Arms[1].Pattern.Kind, ast.PatternLiteral)
	be.Equal(t, m.Arms[2].Pattern.Kind, ast.PatternBinding)
	be.Equal(t, m.Arms[2].Pattern.Name, "other")
	be.Equal(t, m.Arms[3].Pattern.Kind, ast.PatternWildcard)
}

func TestParseStringInterpolation(t *testing.T) {
	prog := parseSource(t, `
fn main() {
    let msg = "score: {score}, lives: {lives}!";
}
`)
	interp := prog.Items[0].(*ast.FunctionDecl).Body.Statements[0].(*ast.LetStmt).Value.(*ast.InterpExpr)
	be.Equal(t, len(interp.Parts), 5)
	be.Equal(t, interp.Parts[0].Text, "score: ")
	be.True(t, interp.Parts[1].IsVar)
	be.Equal(t, interp.Parts[1].Variable, "score")
	be.Equal(t, interp.Parts[2].Text, ", lives: ")
	be.Equal(t, interp.Parts[3].Variable, "lives")
	be.Equal(t, interp.Parts[4].Text, "!")
}

func TestParsePlainStringStaysLiteral(t *testing.T) {
	prog := parseSource(t, `
fn main() {
    let a = "no placeholders";
}
`)
	_, ok := prog.Items[0].(*ast.FunctionDecl).Body.Statements[0].(*ast.LetStmt).Value.(*ast.StringLit)
	be.True(t, ok)
}

func TestParseInterpolationErrors(t *testing.T) {
	d := parseError(t, `
fn main() {
    let a = "open {brace and } done {";
}
`)
	// the string contains both braces, so the trailing { is rescanned
	be.Equal(t, d.Message, "Unmatched '{' in string interpolation")

	d = parseError(t, `
fn main() {
    let a = "empty {} placeholder";
}
`)
	be.Equal(t, d.Message, "Empty placeholder in string interpolation")
	be.True(t, d.Suggestion != "")
}

func TestParseAssignment(t *testing.T) {
	prog := parseSource(t, `
fn main() {
    pos.x = pos.x + vel.x;
    items[0] = 5;
}
`)
	stmts := prog.Items[0].(*ast.FunctionDecl).Body.Statements
	a0 := stmts[0].(*ast.AssignStmt)
	_, ok := a0.Target.(*ast.MemberExpr)
	be.True(t, ok)
	a1 := stmts[1].(*ast.AssignStmt)
	_, ok = a1.Target.(*ast.IndexExpr)
	be.True(t, ok)
}

func TestParseSyntaxErrorAborts(t *testing.T) {
	tokens, lerr := lexer.New(`
fn broken( {
}

fn never_reached() {
}
`).Tokenize()
	be.Err(t, lerr, nil)
	diags := diagnostic.New()
	prog, err := New(tokens, diags).Parse()
	be.Err(t, err)
	be.True(t, prog == nil)
	// fail-fast: exactly one syntax diagnostic, nothing from later items
	be.Equal(t, diags.ErrorCount(), 1)
}

func TestParseUnexpectedTopLevel(t *testing.T) {
	d := parseError(t, `let x = 1;`)
	be.Equal(t, d.Line, 1)
	be.Equal(t, d.Column, 1)
}

func TestParseBareReturn(t *testing.T) {
	prog := parseSource(t, `
fn f() {
    return;
}
`)
	ret := prog.Items[0].(*ast.FunctionDecl).Body.Statements[0].(*ast.ReturnStmt)
	be.True(t, ret.Value == nil)
}

func TestParseCompleteProgram(t *testing.T) {
	prog := parseSource(t, `
component Position { x: f32, y: f32 }
component Velocity { x: f32, y: f32 }

resource Jump: Sound = "assets/jump.wav";

shader vertex "shaders/sprite.vert";

system Movement {
    fn update(entities: query<Position, Velocity>, dt: f32) {
        for e in entities {
            e.position.x = e.position.x + e.velocity.x * dt;
        }
    }
}

fn main(): i32 {
    play_resource_jump();
    return 0;
}
`)
	be.Equal(t, len(prog.Items), 6)
}
