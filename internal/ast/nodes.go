package ast

import "github.com/veld-lang/veld/internal/lexer"

// Node is the base interface for all AST nodes. Pos returns the
// 1-based source location, or (0, 0) for synthesized nodes.
type Node interface {
	Pos() (line, col int)
}

// Item nodes appear at the top level of a program
type Item interface {
	Node
	itemNode()
}

// Statement nodes
type Statement interface {
	Node
	stmtNode()
}

// Expression nodes
type Expression interface {
	Node
	exprNode()
}

// Program represents a whole Veld source file. Item order matters for
// declaration collection but not for execution.
type Program struct {
	Items []Item
}

func (p *Program) Pos() (int, int) {
	if len(p.Items) > 0 {
		return p.Items[0].Pos()
	}
	return 0, 0
}

// Attribute represents one tag from an @[...] list, or the legacy
// @hot marker. Params are present only for @[name(param = value)].
type Attribute struct {
	Name   string
	Params []*AttrParam
	Line   int
	Column int
}

func (a *Attribute) Pos() (int, int) { return a.Line, a.Column }

// AttrParam is a named attribute parameter
type AttrParam struct {
	Name  string
	Value Expression
}

// HasAttr reports whether the attribute list contains a tag with the
// given name.
func HasAttr(attrs []*Attribute, name string) bool {
	for _, a := range attrs {
		if a.Name == name {
			return true
		}
	}
	return false
}

// StructDecl represents a struct declaration
type StructDecl struct {
	Name   string
	Fields []*Field
	Attrs  []*Attribute
	Line   int
	Column int
}

func (s *StructDecl) Pos() (int, int) { return s.Line, s.Column }
func (s *StructDecl) itemNode()       {}

// ComponentDecl represents a component or component_soa declaration
type ComponentDecl struct {
	Name   string
	Fields []*Field
	SOA    bool
	Attrs  []*Attribute
	Line   int
	Column int
}

func (c *ComponentDecl) Pos() (int, int) { return c.Line, c.Column }
func (c *ComponentDecl) itemNode()       {}

// Hot reports whether the component carries the hot-reload tag.
func (c *ComponentDecl) Hot() bool { return HasAttr(c.Attrs, "hot") }

// Field represents a field in a struct or component declaration
type Field struct {
	Name   string
	Type   Type
	Line   int
	Column int
}

func (f *Field) Pos() (int, int) { return f.Line, f.Column }

// SystemDecl groups functions that operate over component queries
type SystemDecl struct {
	Name      string
	Functions []*FunctionDecl
	Attrs     []*Attribute
	Line      int
	Column    int
}

func (s *SystemDecl) Pos() (int, int) { return s.Line, s.Column }
func (s *SystemDecl) itemNode()       {}

func (s *SystemDecl) Hot() bool { return HasAttr(s.Attrs, "hot") }

// ShaderStage identifies the GPU pipeline stage a shader targets
type ShaderStage int

const (
	StageVertex ShaderStage = iota
	StageFragment
	StageCompute
	StageGeometry
	StageTessControl
	StageTessEvaluation
)

// String returns the stage keyword as written in source
func (s ShaderStage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	case StageCompute:
		return "compute"
	case StageGeometry:
		return "geometry"
	case StageTessControl:
		return "tessellation_control"
	case StageTessEvaluation:
		return "tessellation_evaluation"
	}
	return "unknown"
}

// ShaderDecl references an external shader source file
type ShaderDecl struct {
	Stage  ShaderStage
	Path   string
	Attrs  []*Attribute
	Line   int
	Column int
}

func (s *ShaderDecl) Pos() (int, int) { return s.Line, s.Column }
func (s *ShaderDecl) itemNode()       {}

func (s *ShaderDecl) Hot() bool { return HasAttr(s.Attrs, "hot") }

// FunctionDecl represents a function declaration
type FunctionDecl struct {
	Name       string
	Params     []*Param
	ReturnType Type
	Body       *Block
	Attrs      []*Attribute
	Line       int
	Column     int
}

func (f *FunctionDecl) Pos() (int, int) { return f.Line, f.Column }
func (f *FunctionDecl) itemNode()       {}

// Param represents a function parameter
type Param struct {
	Name   string
	Type   Type
	Line   int
	Column int
}

func (p *Param) Pos() (int, int) { return p.Line, p.Column }

// ExternFunctionDecl is a bodiless signature for a host function,
// optionally naming the library it links from.
type ExternFunctionDecl struct {
	Name       string
	Params     []*Param
	ReturnType Type
	Library    string // empty when no "from" clause
	Attrs      []*Attribute
	Line       int
	Column     int
}

func (e *ExternFunctionDecl) Pos() (int, int) { return e.Line, e.Column }
func (e *ExternFunctionDecl) itemNode()       {}

// ResourceDecl binds a name to an engine asset on disk
type ResourceDecl struct {
	Name   string
	Kind   string // "Texture", "Mesh", "Sound", "Music", ...
	Path   string
	Attrs  []*Attribute
	Line   int
	Column int
}

func (r *ResourceDecl) Pos() (int, int) { return r.Line, r.Column }
func (r *ResourceDecl) itemNode()       {}

func (r *ResourceDecl) Hot() bool { return HasAttr(r.Attrs, "hot") }

// BindingKind identifies a pipeline layout binding class
type BindingKind int

const (
	BindingUniform BindingKind = iota
	BindingStorage
	BindingSampler2D
)

func (b BindingKind) String() string {
	switch b {
	case BindingUniform:
		return "uniform"
	case BindingStorage:
		return "storage"
	case BindingSampler2D:
		return "sampler2D"
	}
	return "unknown"
}

// PipelineShader references one shader within a pipeline declaration
type PipelineShader struct {
	Stage  ShaderStage
	Path   string
	Line   int
	Column int
}

func (p *PipelineShader) Pos() (int, int) { return p.Line, p.Column }

// LayoutBinding is one `binding N: kind Name` entry in a pipeline
// layout block.
type LayoutBinding struct {
	Index  int64
	Kind   BindingKind
	Name   string
	Line   int
	Column int
}

func (l *LayoutBinding) Pos() (int, int) { return l.Line, l.Column }

// PipelineDecl describes a graphics pipeline: its shaders plus the
// layout bindings they consume.
type PipelineDecl struct {
	Name     string
	Shaders  []*PipelineShader
	Bindings []*LayoutBinding
	Attrs    []*Attribute
	Line     int
	Column   int
}

func (p *PipelineDecl) Pos() (int, int) { return p.Line, p.Column }
func (p *PipelineDecl) itemNode()       {}

// Block represents a brace-delimited statement list
type Block struct {
	Statements []Statement
	Line       int
	Column     int
}

func (b *Block) Pos() (int, int) { return b.Line, b.Column }
func (b *Block) stmtNode()       {}

// LetStmt represents a let statement. Typed is false when no
// annotation was written and the type must be inferred.
type LetStmt struct {
	Name   string
	Typed  bool
	Type   Type
	Value  Expression
	Line   int
	Column int
}

func (l *LetStmt) Pos() (int, int) { return l.Line, l.Column }
func (l *LetStmt) stmtNode()       {}

// AssignStmt represents an assignment statement
type AssignStmt struct {
	Target Expression
	Value  Expression
	Line   int
	Column int
}

func (a *AssignStmt) Pos() (int, int) { return a.Line, a.Column }
func (a *AssignStmt) stmtNode()       {}

// IfStmt represents an if statement with an optional else block
type IfStmt struct {
	Condition Expression
	Then      *Block
	Else      *Block
	Line      int
	Column    int
}

func (i *IfStmt) Pos() (int, int) { return i.Line, i.Column }
func (i *IfStmt) stmtNode()       {}

// WhileStmt represents a while loop
type WhileStmt struct {
	Condition Expression
	Body      *Block
	Line      int
	Column    int
}

func (w *WhileStmt) Pos() (int, int) { return w.Line, w.Column }
func (w *WhileStmt) stmtNode()       {}

// ForStmt represents a for-in loop over a query
type ForStmt struct {
	Iterator   string
	Collection Expression
	Body       *Block
	Line       int
	Column     int
}

func (f *ForStmt) Pos() (int, int) { return f.Line, f.Column }
func (f *ForStmt) stmtNode()       {}

// LoopStmt represents an unconditional loop
type LoopStmt struct {
	Body   *Block
	Line   int
	Column int
}

func (l *LoopStmt) Pos() (int, int) { return l.Line, l.Column }
func (l *LoopStmt) stmtNode()       {}

// ReturnStmt represents a return statement; Value is nil for a bare
// return.
type ReturnStmt struct {
	Value  Expression
	Line   int
	Column int
}

func (r *ReturnStmt) Pos() (int, int) { return r.Line, r.Column }
func (r *ReturnStmt) stmtNode()       {}

// BreakStmt represents a break statement
type BreakStmt struct {
	Line   int
	Column int
}

func (b *BreakStmt) Pos() (int, int) { return b.Line, b.Column }
func (b *BreakStmt) stmtNode()       {}

// ContinueStmt represents a continue statement
type ContinueStmt struct {
	Line   int
	Column int
}

func (c *ContinueStmt) Pos() (int, int) { return c.Line, c.Column }
func (c *ContinueStmt) stmtNode()       {}

// DeferStmt runs its expression at scope exit
type DeferStmt struct {
	Expr   Expression
	Line   int
	Column int
}

func (d *DeferStmt) Pos() (int, int) { return d.Line, d.Column }
func (d *DeferStmt) stmtNode()       {}

// ExprStmt represents an expression statement
type ExprStmt struct {
	Expr   Expression
	Line   int
	Column int
}

func (e *ExprStmt) Pos() (int, int) { return e.Line, e.Column }
func (e *ExprStmt) stmtNode()       {}

// BinaryExpr represents a binary expression; the location is that of
// the operator token.
type BinaryExpr struct {
	Left   Expression
	Op     lexer.TokenType
	Right  Expression
	Line   int
	Column int
}

func (b *BinaryExpr) Pos() (int, int) { return b.Line, b.Column }
func (b *BinaryExpr) exprNode()       {}

// UnaryExpr represents a unary expression (!, -)
type UnaryExpr struct {
	Op      lexer.TokenType
	Operand Expression
	Line    int
	Column  int
}

func (u *UnaryExpr) Pos() (int, int) { return u.Line, u.Column }
func (u *UnaryExpr) exprNode()       {}

// CallExpr represents a call to a named function
type CallExpr struct {
	Function string
	Args     []Expression
	Line     int
	Column   int
}

func (c *CallExpr) Pos() (int, int) { return c.Line, c.Column }
func (c *CallExpr) exprNode()       {}

// MethodCallExpr represents a call through a member access, such as
// opt.unwrap() or frame.alloc_array(n).
type MethodCallExpr struct {
	Object Expression
	Method string
	Args   []Expression
	Line   int
	Column int
}

func (m *MethodCallExpr) Pos() (int, int) { return m.Line, m.Column }
func (m *MethodCallExpr) exprNode()       {}

// MemberExpr represents a field access
type MemberExpr struct {
	Object Expression
	Member string
	Line   int
	Column int
}

func (m *MemberExpr) Pos() (int, int) { return m.Line, m.Column }
func (m *MemberExpr) exprNode()       {}

// IndexExpr represents an index access arr[i]
type IndexExpr struct {
	Object Expression
	Index  Expression
	Line   int
	Column int
}

func (i *IndexExpr) Pos() (int, int) { return i.Line, i.Column }
func (i *IndexExpr) exprNode()       {}

// Identifier represents a variable reference
type Identifier struct {
	Name   string
	Line   int
	Column int
}

func (i *Identifier) Pos() (int, int) { return i.Line, i.Column }
func (i *Identifier) exprNode()       {}

// IntLit represents an integer literal
type IntLit struct {
	Value  int64
	Line   int
	Column int
}

func (i *IntLit) Pos() (int, int) { return i.Line, i.Column }
func (i *IntLit) exprNode()       {}

// FloatLit represents a float literal
type FloatLit struct {
	Value  float64
	Line   int
	Column int
}

func (f *FloatLit) Pos() (int, int) { return f.Line, f.Column }
func (f *FloatLit) exprNode()       {}

// StringLit represents a string literal with no interpolation
type StringLit struct {
	Value  string
	Line   int
	Column int
}

func (s *StringLit) Pos() (int, int) { return s.Line, s.Column }
func (s *StringLit) exprNode()       {}

// BoolLit represents a boolean literal
type BoolLit struct {
	Value  bool
	Line   int
	Column int
}

func (b *BoolLit) Pos() (int, int) { return b.Line, b.Column }
func (b *BoolLit) exprNode()       {}

// NullLit represents the null literal
type NullLit struct {
	Line   int
	Column int
}

func (n *NullLit) Pos() (int, int) { return n.Line, n.Column }
func (n *NullLit) exprNode()       {}

// ArrayLit represents an array literal [expr, expr, ...]
type ArrayLit struct {
	Elements []Expression
	Line     int
	Column   int
}

func (a *ArrayLit) Pos() (int, int) { return a.Line, a.Column }
func (a *ArrayLit) exprNode()       {}

// InterpPart is one segment of an interpolated string: literal text
// or a variable placeholder.
type InterpPart struct {
	Text     string
	Variable string
	IsVar    bool
}

// InterpExpr represents a string literal with {name} placeholders
type InterpExpr struct {
	Parts  []InterpPart
	Line   int
	Column int
}

func (i *InterpExpr) Pos() (int, int) { return i.Line, i.Column }
func (i *InterpExpr) exprNode()       {}

// StructLit represents a struct literal, including desugared
// Vec2/Vec3/Vec4 constructor calls.
type StructLit struct {
	Name   string
	Fields []*StructLitField
	Line   int
	Column int
}

func (s *StructLit) Pos() (int, int) { return s.Line, s.Column }
func (s *StructLit) exprNode()       {}

// StructLitField is one name: value pair in a struct literal
type StructLitField struct {
	Name  string
	Value Expression
}

// PatternKind discriminates match arm patterns
type PatternKind int

const (
	PatternLiteral PatternKind = iota
	PatternBinding
	PatternWildcard
)

// Pattern represents a match arm pattern. A bare identifier always
// binds a fresh variable; it never compares against a constant.
type Pattern struct {
	Kind    PatternKind
	Literal Expression // PatternLiteral
	Name    string     // PatternBinding
	Line    int
	Column  int
}

func (p *Pattern) Pos() (int, int) { return p.Line, p.Column }

// MatchArm is one `pattern => { block }` arm
type MatchArm struct {
	Pattern *Pattern
	Body    *Block
	Line    int
	Column  int
}

func (m *MatchArm) Pos() (int, int) { return m.Line, m.Column }

// MatchExpr represents a match expression. Arms are statement blocks,
// so the whole expression types as void.
type MatchExpr struct {
	Scrutinee Expression
	Arms      []*MatchArm
	Line      int
	Column    int
}

func (m *MatchExpr) Pos() (int, int) { return m.Line, m.Column }
func (m *MatchExpr) exprNode()       {}
