package parser

import (
	"fmt"
	"strings"

	"github.com/veld-lang/veld/internal/ast"
	"github.com/veld-lang/veld/internal/lexer"
)

// Parse consumes the whole token stream and returns the program AST.
// On a syntax error the diagnostic has already been reported through
// the sink and a non-nil error is returned; there is no statement
// level recovery.
func (p *Parser) Parse() (prog *ast.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			prog = nil
			err = fmt.Errorf("syntax error")
		}
	}()

	prog = &ast.Program{}
	for !p.check(lexer.EOF) {
		prog.Items = append(prog.Items, p.parseItem())
	}
	return prog, nil
}

// --- Items ---

func (p *Parser) parseItem() ast.Item {
	attrs := p.parseAttributes()

	switch p.current().Type {
	case lexer.STRUCT:
		return p.parseStruct(attrs)
	case lexer.COMPONENT:
		return p.parseComponent(attrs, false)
	case lexer.COMPONENT_SOA:
		return p.parseComponent(attrs, true)
	case lexer.SYSTEM:
		return p.parseSystem(attrs)
	case lexer.SHADER:
		return p.parseShader(attrs)
	case lexer.EXTERN:
		return p.parseExternFunction(attrs)
	case lexer.FN:
		return p.parseFunction(attrs)
	case lexer.RESOURCE:
		return p.parseResource(attrs)
	case lexer.PIPELINE:
		return p.parsePipeline(attrs)
	}

	tok := p.current()
	p.fail(tok.Line, tok.Column, "unexpected token %s at top level", tok.Type)
	return nil
}

// parseAttributes accumulates the attribute tags written before an
// item: the legacy @hot marker and @[name] / @[name(param = value)]
// lists. A '@' not followed by '[' is left unconsumed so the caller
// reports it in its own context.
func (p *Parser) parseAttributes() []*ast.Attribute {
	var attrs []*ast.Attribute
	for {
		switch p.current().Type {
		case lexer.AT_HOT:
			tok := p.advance()
			attrs = append(attrs, &ast.Attribute{Name: "hot", Line: tok.Line, Column: tok.Column})
		case lexer.AT:
			if p.peek().Type != lexer.LBRACKET {
				return attrs
			}
			p.advance() // @
			p.advance() // [
			for {
				attrs = append(attrs, p.parseAttribute())
				if !p.match(lexer.COMMA) {
					break
				}
			}
			p.expect(lexer.RBRACKET)
		default:
			return attrs
		}
	}
}

func (p *Parser) parseAttribute() *ast.Attribute {
	name := p.expect(lexer.IDENT)
	attr := &ast.Attribute{Name: name.Literal, Line: name.Line, Column: name.Column}
	if p.match(lexer.LPAREN) {
		for {
			param := p.expect(lexer.IDENT)
			p.expect(lexer.ASSIGN)
			value := p.parseAttrValue()
			attr.Params = append(attr.Params, &ast.AttrParam{Name: param.Literal, Value: value})
			if !p.match(lexer.COMMA) {
				break
			}
		}
		p.expect(lexer.RPAREN)
	}
	return attr
}

func (p *Parser) parseAttrValue() ast.Expression {
	tok := p.current()
	switch tok.Type {
	case lexer.INT_LIT:
		p.advance()
		return &ast.IntLit{Value: tok.Int, Line: tok.Line, Column: tok.Column}
	case lexer.FLOAT_LIT:
		p.advance()
		return &ast.FloatLit{Value: tok.Float, Line: tok.Line, Column: tok.Column}
	case lexer.STRING_LIT:
		p.advance()
		return &ast.StringLit{Value: tok.Literal, Line: tok.Line, Column: tok.Column}
	case lexer.TRUE, lexer.FALSE:
		p.advance()
		return &ast.BoolLit{Value: tok.Type == lexer.TRUE, Line: tok.Line, Column: tok.Column}
	case lexer.IDENT:
		p.advance()
		return &ast.Identifier{Name: tok.Literal, Line: tok.Line, Column: tok.Column}
	}
	p.fail(tok.Line, tok.Column, "unexpected token %s in attribute value", tok.Type)
	return nil
}

func (p *Parser) parseStruct(attrs []*ast.Attribute) *ast.StructDecl {
	kw := p.expect(lexer.STRUCT)
	name := p.expect(lexer.IDENT)
	fields := p.parseFieldBlock()
	return &ast.StructDecl{
		Name:   name.Literal,
		Fields: fields,
		Attrs:  attrs,
		Line:   kw.Line,
		Column: kw.Column,
	}
}

func (p *Parser) parseComponent(attrs []*ast.Attribute, soa bool) *ast.ComponentDecl {
	kw := p.advance() // component or component_soa
	name := p.expect(lexer.IDENT)
	fields := p.parseFieldBlock()
	return &ast.ComponentDecl{
		Name:   name.Literal,
		Fields: fields,
		SOA:    soa,
		Attrs:  attrs,
		Line:   kw.Line,
		Column: kw.Column,
	}
}

// parseFieldBlock parses a brace-delimited `name: type` list with
// optional trailing comma.
func (p *Parser) parseFieldBlock() []*ast.Field {
	p.expect(lexer.LBRACE)
	var fields []*ast.Field
	for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
		name := p.expect(lexer.IDENT)
		p.expect(lexer.COLON)
		typ := p.parseType()
		fields = append(fields, &ast.Field{
			Name:   name.Literal,
			Type:   typ,
			Line:   name.Line,
			Column: name.Column,
		})
		if !p.match(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RBRACE)
	return fields
}

func (p *Parser) parseSystem(attrs []*ast.Attribute) *ast.SystemDecl {
	kw := p.expect(lexer.SYSTEM)
	name := p.expect(lexer.IDENT)
	p.expect(lexer.LBRACE)
	var fns []*ast.FunctionDecl
	for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
		fnAttrs := p.parseAttributes()
		if !p.check(lexer.FN) {
			tok := p.current()
			p.fail(tok.Line, tok.Column, "expected 'fn' in system body, got %s", tok.Type)
		}
		fns = append(fns, p.parseFunction(fnAttrs))
	}
	p.expect(lexer.RBRACE)
	return &ast.SystemDecl{
		Name:      name.Literal,
		Functions: fns,
		Attrs:     attrs,
		Line:      kw.Line,
		Column:    kw.Column,
	}
}

func (p *Parser) parseShaderStage() ast.ShaderStage {
	tok := p.current()
	switch tok.Type {
	case lexer.VERTEX:
		p.advance()
		return ast.StageVertex
	case lexer.FRAGMENT:
		p.advance()
		return ast.StageFragment
	case lexer.COMPUTE:
		p.advance()
		return ast.StageCompute
	case lexer.GEOMETRY:
		p.advance()
		return ast.StageGeometry
	case lexer.TESS_CONTROL:
		p.advance()
		return ast.StageTessControl
	case lexer.TESS_EVALUATION:
		p.advance()
		return ast.StageTessEvaluation
	}
	p.fail(tok.Line, tok.Column, "expected shader stage, got %s", tok.Type)
	return ast.StageVertex
}

func (p *Parser) parseShader(attrs []*ast.Attribute) *ast.ShaderDecl {
	kw := p.expect(lexer.SHADER)
	stage := p.parseShaderStage()
	path := p.expect(lexer.STRING_LIT)
	// The body block is reserved for inline shader source and is
	// skipped; most declarations just end with a semicolon.
	if p.check(lexer.LBRACE) {
		p.skipBracedBlock()
	} else {
		p.expect(lexer.SEMICOLON)
	}
	return &ast.ShaderDecl{
		Stage:  stage,
		Path:   path.Literal,
		Attrs:  attrs,
		Line:   kw.Line,
		Column: kw.Column,
	}
}

// skipBracedBlock consumes a balanced brace block without parsing it.
func (p *Parser) skipBracedBlock() {
	p.expect(lexer.LBRACE)
	depth := 1
	for depth > 0 {
		tok := p.current()
		switch tok.Type {
		case lexer.LBRACE:
			depth++
		case lexer.RBRACE:
			depth--
		case lexer.EOF:
			p.fail(tok.Line, tok.Column, "unterminated block, expected '}'")
		}
		p.advance()
	}
}

func (p *Parser) parseExternFunction(attrs []*ast.Attribute) *ast.ExternFunctionDecl {
	kw := p.expect(lexer.EXTERN)
	p.expect(lexer.FN)
	name := p.expect(lexer.IDENT)
	params := p.parseParams()
	ret := ast.Void
	if p.match(lexer.COLON) {
		ret = p.parseType()
	}
	lib := ""
	// "from" is a contextual identifier, not a keyword
	if p.check(lexer.IDENT) && p.current().Literal == "from" {
		p.advance()
		lib = p.expect(lexer.STRING_LIT).Literal
	}
	p.expect(lexer.SEMICOLON)
	return &ast.ExternFunctionDecl{
		Name:       name.Literal,
		Params:     params,
		ReturnType: ret,
		Library:    lib,
		Attrs:      attrs,
		Line:       kw.Line,
		Column:     kw.Column,
	}
}

func (p *Parser) parseFunction(attrs []*ast.Attribute) *ast.FunctionDecl {
	kw := p.expect(lexer.FN)
	name := p.expect(lexer.IDENT)
	params := p.parseParams()
	ret := ast.Void
	if p.match(lexer.COLON) {
		ret = p.parseType()
	}
	body := p.parseBlock()
	return &ast.FunctionDecl{
		Name:       name.Literal,
		Params:     params,
		ReturnType: ret,
		Body:       body,
		Attrs:      attrs,
		Line:       kw.Line,
		Column:     kw.Column,
	}
}

func (p *Parser) parseParams() []*ast.Param {
	p.expect(lexer.LPAREN)
	var params []*ast.Param
	for !p.check(lexer.RPAREN) && !p.check(lexer.EOF) {
		name := p.expect(lexer.IDENT)
		p.expect(lexer.COLON)
		typ := p.parseType()
		params = append(params, &ast.Param{
			Name:   name.Literal,
			Type:   typ,
			Line:   name.Line,
			Column: name.Column,
		})
		if !p.match(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RPAREN)
	return params
}

func (p *Parser) parseResource(attrs []*ast.Attribute) *ast.ResourceDecl {
	kw := p.expect(lexer.RESOURCE)
	name := p.expect(lexer.IDENT)
	p.expect(lexer.COLON)
	kind := p.expect(lexer.IDENT)
	p.expect(lexer.ASSIGN)
	path := p.expect(lexer.STRING_LIT)
	p.expect(lexer.SEMICOLON)
	return &ast.ResourceDecl{
		Name:   name.Literal,
		Kind:   kind.Literal,
		Path:   path.Literal,
		Attrs:  attrs,
		Line:   kw.Line,
		Column: kw.Column,
	}
}

func (p *Parser) parsePipeline(attrs []*ast.Attribute) *ast.PipelineDecl {
	kw := p.expect(lexer.PIPELINE)
	name := p.expect(lexer.IDENT)
	p.expect(lexer.LBRACE)
	decl := &ast.PipelineDecl{
		Name:   name.Literal,
		Attrs:  attrs,
		Line:   kw.Line,
		Column: kw.Column,
	}
	for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
		switch p.current().Type {
		case lexer.SHADER:
			sh := p.advance()
			stage := p.parseShaderStage()
			path := p.expect(lexer.STRING_LIT)
			p.expect(lexer.SEMICOLON)
			decl.Shaders = append(decl.Shaders, &ast.PipelineShader{
				Stage:  stage,
				Path:   path.Literal,
				Line:   sh.Line,
				Column: sh.Column,
			})
		case lexer.LAYOUT:
			p.advance()
			p.expect(lexer.LBRACE)
			for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
				decl.Bindings = append(decl.Bindings, p.parseLayoutBinding())
			}
			p.expect(lexer.RBRACE)
		default:
			tok := p.current()
			p.fail(tok.Line, tok.Column, "expected 'shader' or 'layout' in pipeline body, got %s", tok.Type)
		}
	}
	p.expect(lexer.RBRACE)
	return decl
}

func (p *Parser) parseLayoutBinding() *ast.LayoutBinding {
	kw := p.expect(lexer.BINDING)
	idx := p.expect(lexer.INT_LIT)
	p.expect(lexer.COLON)
	var kind ast.BindingKind
	tok := p.current()
	switch tok.Type {
	case lexer.UNIFORM:
		kind = ast.BindingUniform
	case lexer.STORAGE:
		kind = ast.BindingStorage
	case lexer.SAMPLER2D:
		kind = ast.BindingSampler2D
	default:
		p.fail(tok.Line, tok.Column, "expected 'uniform', 'storage' or 'sampler2D', got %s", tok.Type)
	}
	p.advance()
	name := p.expect(lexer.IDENT)
	p.match(lexer.SEMICOLON)
	return &ast.LayoutBinding{
		Index:  idx.Int,
		Kind:   kind,
		Name:   name.Literal,
		Line:   kw.Line,
		Column: kw.Column,
	}
}

// --- Types ---

func (p *Parser) parseType() ast.Type {
	tok := p.current()
	switch tok.Type {
	case lexer.I32_TYPE:
		p.advance()
		return ast.I32
	case lexer.I64_TYPE:
		p.advance()
		return ast.I64
	case lexer.F32_TYPE:
		p.advance()
		return ast.F32
	case lexer.F64_TYPE:
		p.advance()
		return ast.F64
	case lexer.BOOL_TYPE:
		p.advance()
		return ast.Bool
	case lexer.STRING_TYPE:
		p.advance()
		return ast.Str
	case lexer.VOID_TYPE:
		p.advance()
		return ast.Void
	case lexer.LBRACKET:
		p.advance()
		elem := p.parseType()
		p.expect(lexer.RBRACKET)
		return ast.ArrayOf(elem)
	case lexer.QUESTION:
		p.advance()
		return ast.OptionalOf(p.parseType())
	case lexer.QUERY:
		p.advance()
		p.expect(lexer.LT)
		var comps []ast.Type
		for {
			comps = append(comps, p.parseType())
			if !p.match(lexer.COMMA) {
				break
			}
		}
		p.expect(lexer.GT)
		return ast.QueryOf(comps...)
	case lexer.IDENT:
		p.advance()
		switch tok.Literal {
		case "Vec2":
			return ast.Vec2
		case "Vec3":
			return ast.Vec3
		case "Vec4":
			return ast.Vec4
		case "Mat4":
			return ast.Mat4
		}
		if ast.HandleNames[tok.Literal] {
			return ast.HandleType(tok.Literal)
		}
		// component names resolve against the global tables later
		return ast.StructType(tok.Literal)
	}
	p.fail(tok.Line, tok.Column, "expected type, got %s", tok.Type)
	return ast.Void
}

// --- Statements ---

func (p *Parser) parseBlock() *ast.Block {
	lb := p.expect(lexer.LBRACE)
	block := &ast.Block{Line: lb.Line, Column: lb.Column}
	for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
		block.Statements = append(block.Statements, p.parseStatement())
	}
	p.expect(lexer.RBRACE)
	return block
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.current().Type {
	case lexer.LET:
		return p.parseLet()
	case lexer.IF:
		return p.parseIf()
	case lexer.WHILE:
		return p.parseWhile()
	case lexer.FOR:
		return p.parseFor()
	case lexer.LOOP:
		return p.parseLoop()
	case lexer.RETURN:
		return p.parseReturn()
	case lexer.BREAK:
		tok := p.advance()
		p.expect(lexer.SEMICOLON)
		return &ast.BreakStmt{Line: tok.Line, Column: tok.Column}
	case lexer.CONTINUE:
		tok := p.advance()
		p.expect(lexer.SEMICOLON)
		return &ast.ContinueStmt{Line: tok.Line, Column: tok.Column}
	case lexer.DEFER:
		tok := p.advance()
		expr := p.parseExpression()
		p.expect(lexer.SEMICOLON)
		return &ast.DeferStmt{Expr: expr, Line: tok.Line, Column: tok.Column}
	}
	return p.parseExprOrAssign()
}

func (p *Parser) parseLet() *ast.LetStmt {
	kw := p.expect(lexer.LET)
	name := p.expect(lexer.IDENT)
	stmt := &ast.LetStmt{Name: name.Literal, Line: kw.Line, Column: kw.Column}
	if p.match(lexer.COLON) {
		stmt.Typed = true
		stmt.Type = p.parseType()
	}
	p.expect(lexer.ASSIGN)
	stmt.Value = p.parseExpression()
	p.expect(lexer.SEMICOLON)
	return stmt
}

// parseCondition accepts both `if x { }` and `if (x) { }`.
func (p *Parser) parseCondition() ast.Expression {
	if p.match(lexer.LPAREN) {
		cond := p.parseExpression()
		p.expect(lexer.RPAREN)
		return cond
	}
	return p.parseExpression()
}

func (p *Parser) parseIf() *ast.IfStmt {
	kw := p.expect(lexer.IF)
	cond := p.parseCondition()
	then := p.parseBlock()
	stmt := &ast.IfStmt{Condition: cond, Then: then, Line: kw.Line, Column: kw.Column}
	if p.match(lexer.ELSE) {
		if p.check(lexer.IF) {
			// else-if chains nest as a single-statement else block
			nested := p.parseIf()
			stmt.Else = &ast.Block{
				Statements: []ast.Statement{nested},
				Line:       nested.Line,
				Column:     nested.Column,
			}
		} else {
			stmt.Else = p.parseBlock()
		}
	}
	return stmt
}

func (p *Parser) parseWhile() *ast.WhileStmt {
	kw := p.expect(lexer.WHILE)
	cond := p.parseCondition()
	body := p.parseBlock()
	return &ast.WhileStmt{Condition: cond, Body: body, Line: kw.Line, Column: kw.Column}
}

func (p *Parser) parseFor() *ast.ForStmt {
	kw := p.expect(lexer.FOR)
	iter := p.expect(lexer.IDENT)
	p.expect(lexer.IN)
	coll := p.parseExpression()
	body := p.parseBlock()
	return &ast.ForStmt{
		Iterator:   iter.Literal,
		Collection: coll,
		Body:       body,
		Line:       kw.Line,
		Column:     kw.Column,
	}
}

func (p *Parser) parseLoop() *ast.LoopStmt {
	kw := p.expect(lexer.LOOP)
	body := p.parseBlock()
	return &ast.LoopStmt{Body: body, Line: kw.Line, Column: kw.Column}
}

func (p *Parser) parseReturn() *ast.ReturnStmt {
	kw := p.expect(lexer.RETURN)
	stmt := &ast.ReturnStmt{Line: kw.Line, Column: kw.Column}
	if !p.check(lexer.SEMICOLON) {
		stmt.Value = p.parseExpression()
	}
	p.expect(lexer.SEMICOLON)
	return stmt
}

func (p *Parser) parseExprOrAssign() ast.Statement {
	line, col := p.current().Line, p.current().Column
	expr := p.parseExpression()
	if p.check(lexer.ASSIGN) {
		eq := p.advance()
		value := p.parseExpression()
		p.expect(lexer.SEMICOLON)
		return &ast.AssignStmt{Target: expr, Value: value, Line: eq.Line, Column: eq.Column}
	}
	p.expect(lexer.SEMICOLON)
	return &ast.ExprStmt{Expr: expr, Line: line, Column: col}
}

// --- Expressions ---

// Binding powers for precedence climbing; higher binds tighter.
var tokenPrecedence = map[lexer.TokenType]int{
	lexer.OROR:    1,
	lexer.ANDAND:  2,
	lexer.EQ:      3,
	lexer.NEQ:     3,
	lexer.LT:      4,
	lexer.GT:      4,
	lexer.LEQ:     4,
	lexer.GEQ:     4,
	lexer.PLUS:    5,
	lexer.MINUS:   5,
	lexer.STAR:    6,
	lexer.SLASH:   6,
	lexer.PERCENT: 6,
}

func (p *Parser) parseExpression() ast.Expression {
	return p.parsePrecedence(1)
}

func (p *Parser) parsePrecedence(minPrec int) ast.Expression {
	left := p.parseUnary()
	for {
		prec, ok := tokenPrecedence[p.current().Type]
		if !ok || prec < minPrec {
			return left
		}
		op := p.advance()
		right := p.parsePrecedence(prec + 1)
		left = &ast.BinaryExpr{
			Left:   left,
			Op:     op.Type,
			Right:  right,
			Line:   op.Line,
			Column: op.Column,
		}
	}
}

func (p *Parser) parseUnary() ast.Expression {
	tok := p.current()
	if tok.Type == lexer.BANG || tok.Type == lexer.MINUS {
		p.advance()
		operand := p.parseUnary()
		return &ast.UnaryExpr{Op: tok.Type, Operand: operand, Line: tok.Line, Column: tok.Column}
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ast.Expression {
	expr := p.parsePrimary()
	for {
		switch p.current().Type {
		case lexer.LBRACKET:
			lb := p.advance()
			idx := p.parseExpression()
			p.expect(lexer.RBRACKET)
			expr = &ast.IndexExpr{Object: expr, Index: idx, Line: lb.Line, Column: lb.Column}
		case lexer.DOT:
			p.advance()
			member := p.expect(lexer.IDENT)
			if p.check(lexer.LPAREN) {
				args := p.parseArgList()
				expr = &ast.MethodCallExpr{
					Object: expr,
					Method: member.Literal,
					Args:   args,
					Line:   member.Line,
					Column: member.Column,
				}
			} else {
				expr = &ast.MemberExpr{
					Object: expr,
					Member: member.Literal,
					Line:   member.Line,
					Column: member.Column,
				}
			}
		case lexer.LPAREN:
			ident, ok := expr.(*ast.Identifier)
			if !ok {
				return expr
			}
			args := p.parseArgList()
			expr = p.makeCall(ident, args)
		case lexer.LBRACE:
			// `Name { field: value }` is a struct literal only when
			// the brace is followed by `ident :`; anything else is a
			// block belonging to the surrounding statement
			ident, ok := expr.(*ast.Identifier)
			if !ok || p.peekN(1).Type != lexer.IDENT || p.peekN(2).Type != lexer.COLON {
				return expr
			}
			expr = p.parseStructLit(ident)
		default:
			return expr
		}
	}
}

func (p *Parser) parseStructLit(ident *ast.Identifier) *ast.StructLit {
	p.expect(lexer.LBRACE)
	lit := &ast.StructLit{Name: ident.Name, Line: ident.Line, Column: ident.Column}
	for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
		name := p.expect(lexer.IDENT)
		p.expect(lexer.COLON)
		value := p.parseExpression()
		lit.Fields = append(lit.Fields, &ast.StructLitField{Name: name.Literal, Value: value})
		if !p.match(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RBRACE)
	return lit
}

// vecArity maps the vector constructor names to their component count.
var vecArity = map[string]int{"Vec2": 2, "Vec3": 3, "Vec4": 4}

// makeCall builds a call node, desugaring Vec2/Vec3/Vec4 constructor
// calls into struct literals so the checker treats them like any other
// struct value.
func (p *Parser) makeCall(ident *ast.Identifier, args []ast.Expression) ast.Expression {
	if n, ok := vecArity[ident.Name]; ok {
		if len(args) != n {
			p.fail(ident.Line, ident.Column,
				"%s constructor expects %d arguments, got %d", ident.Name, n, len(args))
		}
		fieldNames := []string{"x", "y", "z", "w"}
		lit := &ast.StructLit{Name: ident.Name, Line: ident.Line, Column: ident.Column}
		for i, arg := range args {
			lit.Fields = append(lit.Fields, &ast.StructLitField{Name: fieldNames[i], Value: arg})
		}
		return lit
	}
	return &ast.CallExpr{
		Function: ident.Name,
		Args:     args,
		Line:     ident.Line,
		Column:   ident.Column,
	}
}

func (p *Parser) parseArgList() []ast.Expression {
	p.expect(lexer.LPAREN)
	var args []ast.Expression
	for !p.check(lexer.RPAREN) && !p.check(lexer.EOF) {
		args = append(args, p.parseExpression())
		if !p.match(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RPAREN)
	return args
}

func (p *Parser) parsePrimary() ast.Expression {
	tok := p.current()
	switch tok.Type {
	case lexer.INT_LIT:
		p.advance()
		return &ast.IntLit{Value: tok.Int, Line: tok.Line, Column: tok.Column}
	case lexer.FLOAT_LIT:
		p.advance()
		return &ast.FloatLit{Value: tok.Float, Line: tok.Line, Column: tok.Column}
	case lexer.STRING_LIT:
		p.advance()
		return p.stringExpr(tok)
	case lexer.TRUE, lexer.FALSE:
		p.advance()
		return &ast.BoolLit{Value: tok.Type == lexer.TRUE, Line: tok.Line, Column: tok.Column}
	case lexer.NULL:
		p.advance()
		return &ast.NullLit{Line: tok.Line, Column: tok.Column}
	case lexer.IDENT:
		p.advance()
		return &ast.Identifier{Name: tok.Literal, Line: tok.Line, Column: tok.Column}
	case lexer.LPAREN:
		p.advance()
		expr := p.parseExpression()
		p.expect(lexer.RPAREN)
		return expr
	case lexer.LBRACKET:
		return p.parseArrayLit()
	case lexer.MATCH:
		return p.parseMatch()
	}
	p.fail(tok.Line, tok.Column, "unexpected token %s in expression", tok.Type)
	return nil
}

func (p *Parser) parseArrayLit() *ast.ArrayLit {
	lb := p.expect(lexer.LBRACKET)
	lit := &ast.ArrayLit{Line: lb.Line, Column: lb.Column}
	for !p.check(lexer.RBRACKET) && !p.check(lexer.EOF) {
		lit.Elements = append(lit.Elements, p.parseExpression())
		if !p.match(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RBRACKET)
	return lit
}

// --- Match ---

func (p *Parser) parseMatch() *ast.MatchExpr {
	kw := p.expect(lexer.MATCH)
	scrutinee := p.parseExpression()
	p.expect(lexer.LBRACE)
	expr := &ast.MatchExpr{Scrutinee: scrutinee, Line: kw.Line, Column: kw.Column}
	for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
		pat := p.parsePattern()
		p.expect(lexer.ARROW)
		body := p.parseBlock()
		expr.Arms = append(expr.Arms, &ast.MatchArm{
			Pattern: pat,
			Body:    body,
			Line:    pat.Line,
			Column:  pat.Column,
		})
		if !p.match(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RBRACE)
	return expr
}

func (p *Parser) parsePattern() *ast.Pattern {
	tok := p.current()
	switch tok.Type {
	case lexer.INT_LIT:
		p.advance()
		return &ast.Pattern{
			Kind:    ast.PatternLiteral,
			Literal: &ast.IntLit{Value: tok.Int, Line: tok.Line, Column: tok.Column},
			Line:    tok.Line,
			Column:  tok.Column,
		}
	case lexer.FLOAT_LIT:
		p.advance()
		return &ast.Pattern{
			Kind:    ast.PatternLiteral,
			Literal: &ast.FloatLit{Value: tok.Float, Line: tok.Line, Column: tok.Column},
			Line:    tok.Line,
			Column:  tok.Column,
		}
	case lexer.STRING_LIT:
		p.advance()
		return &ast.Pattern{
			Kind:    ast.PatternLiteral,
			Literal: &ast.StringLit{Value: tok.Literal, Line: tok.Line, Column: tok.Column},
			Line:    tok.Line,
			Column:  tok.Column,
		}
	case lexer.TRUE, lexer.FALSE:
		p.advance()
		return &ast.Pattern{
			Kind:    ast.PatternLiteral,
			Literal: &ast.BoolLit{Value: tok.Type == lexer.TRUE, Line: tok.Line, Column: tok.Column},
			Line:    tok.Line,
			Column:  tok.Column,
		}
	case lexer.IDENT:
		p.advance()
		if tok.Literal == "_" {
			return &ast.Pattern{Kind: ast.PatternWildcard, Line: tok.Line, Column: tok.Column}
		}
		// a bare identifier always binds; it never compares against
		// an existing name
		return &ast.Pattern{Kind: ast.PatternBinding, Name: tok.Literal, Line: tok.Line, Column: tok.Column}
	}
	p.fail(tok.Line, tok.Column, "expected pattern, got %s", tok.Type)
	return nil
}

// --- String interpolation ---

// stringExpr turns a string token into either a plain literal or an
// interpolation node. Only strings containing both '{' and '}' are
// re-scanned; a lone brace stays literal text.
func (p *Parser) stringExpr(tok lexer.Token) ast.Expression {
	s := tok.Literal
	if !strings.Contains(s, "{") || !strings.Contains(s, "}") {
		return &ast.StringLit{Value: s, Line: tok.Line, Column: tok.Column}
	}

	expr := &ast.InterpExpr{Line: tok.Line, Column: tok.Column}
	var text strings.Builder
	i := 0
	for i < len(s) {
		switch s[i] {
		case '{':
			end := strings.IndexByte(s[i+1:], '}')
			nextOpen := strings.IndexByte(s[i+1:], '{')
			if end < 0 || (nextOpen >= 0 && nextOpen < end) {
				p.failSuggest(tok.Line, tok.Column,
					"Unmatched '{' in string interpolation",
					"Close the placeholder with '}' or remove the brace")
			}
			name := s[i+1 : i+1+end]
			if name == "" {
				p.failSuggest(tok.Line, tok.Column,
					"Empty placeholder in string interpolation",
					"Use {variable_name} to interpolate a variable")
			}
			if text.Len() > 0 {
				expr.Parts = append(expr.Parts, ast.InterpPart{Text: text.String()})
				text.Reset()
			}
			expr.Parts = append(expr.Parts, ast.InterpPart{Variable: name, IsVar: true})
			i += end + 2
		case '}':
			p.failSuggest(tok.Line, tok.Column,
				"Unmatched '}' in string interpolation",
				"Open the placeholder with '{' or remove the brace")
		default:
			text.WriteByte(s[i])
			i++
		}
	}
	if text.Len() > 0 {
		expr.Parts = append(expr.Parts, ast.InterpPart{Text: text.String()})
	}
	return expr
}
