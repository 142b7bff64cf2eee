package ast

import (
	"fmt"
	"strings"
)

// Print returns a tree-like string representation of the AST for debugging
func Print(node Node) string {
	var sb strings.Builder
	printNode(&sb, node, 0)
	return sb.String()
}

func printNode(sb *strings.Builder, node Node, indent int) {
	if node == nil {
		return
	}

	prefix := strings.Repeat("  ", indent)

	switch n := node.(type) {
	case *Program:
		sb.WriteString(prefix + "Program\n")
		for _, item := range n.Items {
			printNode(sb, item, indent+1)
		}

	case *StructDecl:
		sb.WriteString(fmt.Sprintf("%sStruct: %s%s\n", prefix, n.Name, attrSuffix(n.Attrs)))
		for _, f := range n.Fields {
			printNode(sb, f, indent+1)
		}

	case *ComponentDecl:
		kind := "Component"
		if n.SOA {
			kind = "ComponentSOA"
		}
		sb.WriteString(fmt.Sprintf("%s%s: %s%s\n", prefix, kind, n.Name, attrSuffix(n.Attrs)))
		for _, f := range n.Fields {
			printNode(sb, f, indent+1)
		}

	case *Field:
		sb.WriteString(fmt.Sprintf("%s%s: %s\n", prefix, n.Name, n.Type))

	case *SystemDecl:
		sb.WriteString(fmt.Sprintf("%sSystem: %s%s\n", prefix, n.Name, attrSuffix(n.Attrs)))
		for _, fn := range n.Functions {
			printNode(sb, fn, indent+1)
		}

	case *ShaderDecl:
		sb.WriteString(fmt.Sprintf("%sShader: %s %q%s\n", prefix, n.Stage, n.Path, attrSuffix(n.Attrs)))

	case *FunctionDecl:
		sb.WriteString(fmt.Sprintf("%sFunction: %s%s\n", prefix, n.Name, attrSuffix(n.Attrs)))
		if len(n.Params) > 0 {
			sb.WriteString(fmt.Sprintf("%s  Params:\n", prefix))
			for _, p := range n.Params {
				printNode(sb, p, indent+2)
			}
		} else {
			sb.WriteString(fmt.Sprintf("%s  Params: none\n", prefix))
		}
		sb.WriteString(fmt.Sprintf("%s  Returns: %s\n", prefix, n.ReturnType))
		if n.Body != nil {
			sb.WriteString(fmt.Sprintf("%s  Body:\n", prefix))
			printNode(sb, n.Body, indent+2)
		}

	case *Param:
		sb.WriteString(fmt.Sprintf("%s%s: %s\n", prefix, n.Name, n.Type))

	case *ExternFunctionDecl:
		lib := ""
		if n.Library != "" {
			lib = fmt.Sprintf(" from %q", n.Library)
		}
		sb.WriteString(fmt.Sprintf("%sExternFunction: %s%s\n", prefix, n.Name, lib))
		for _, p := range n.Params {
			printNode(sb, p, indent+1)
		}
		sb.WriteString(fmt.Sprintf("%s  Returns: %s\n", prefix, n.ReturnType))

	case *ResourceDecl:
		sb.WriteString(fmt.Sprintf("%sResource: %s (%s) %q%s\n", prefix, n.Name, n.Kind, n.Path, attrSuffix(n.Attrs)))

	case *PipelineDecl:
		sb.WriteString(fmt.Sprintf("%sPipeline: %s\n", prefix, n.Name))
		for _, sh := range n.Shaders {
			sb.WriteString(fmt.Sprintf("%s  Shader: %s %q\n", prefix, sh.Stage, sh.Path))
		}
		for _, b := range n.Bindings {
			sb.WriteString(fmt.Sprintf("%s  Binding %d: %s %s\n", prefix, b.Index, b.Kind, b.Name))
		}

	case *Block:
		for _, stmt := range n.Statements {
			printNode(sb, stmt, indent)
		}

	case *LetStmt:
		sb.WriteString(fmt.Sprintf("%sLetStmt: %s\n", prefix, n.Name))
		if n.Typed {
			sb.WriteString(fmt.Sprintf("%s  Type: %s\n", prefix, n.Type))
		}
		sb.WriteString(fmt.Sprintf("%s  Value:\n", prefix))
		printNode(sb, n.Value, indent+2)

	case *AssignStmt:
		sb.WriteString(fmt.Sprintf("%sAssignStmt\n", prefix))
		sb.WriteString(fmt.Sprintf("%s  Target:\n", prefix))
		printNode(sb, n.Target, indent+2)
		sb.WriteString(fmt.Sprintf("%s  Value:\n", prefix))
		printNode(sb, n.Value, indent+2)

	case *IfStmt:
		sb.WriteString(fmt.Sprintf("%sIfStmt\n", prefix))
		sb.WriteString(fmt.Sprintf("%s  Condition:\n", prefix))
		printNode(sb, n.Condition, indent+2)
		sb.WriteString(fmt.Sprintf("%s  Then:\n", prefix))
		printNode(sb, n.Then, indent+2)
		if n.Else != nil {
			sb.WriteString(fmt.Sprintf("%s  Else:\n", prefix))
			printNode(sb, n.Else, indent+2)
		}

	case *WhileStmt:
		sb.WriteString(fmt.Sprintf("%sWhileStmt\n", prefix))
		sb.WriteString(fmt.Sprintf("%s  Condition:\n", prefix))
		printNode(sb, n.Condition, indent+2)
		sb.WriteString(fmt.Sprintf("%s  Body:\n", prefix))
		printNode(sb, n.Body, indent+2)

	case *ForStmt:
		sb.WriteString(fmt.Sprintf("%sForStmt: %s\n", prefix, n.Iterator))
		sb.WriteString(fmt.Sprintf("%s  Collection:\n", prefix))
		printNode(sb, n.Collection, indent+2)
		sb.WriteString(fmt.Sprintf("%s  Body:\n", prefix))
		printNode(sb, n.Body, indent+2)

	case *LoopStmt:
		sb.WriteString(fmt.Sprintf("%sLoopStmt\n", prefix))
		printNode(sb, n.Body, indent+1)

	case *ReturnStmt:
		sb.WriteString(fmt.Sprintf("%sReturnStmt\n", prefix))
		if n.Value != nil {
			sb.WriteString(fmt.Sprintf("%s  Value:\n", prefix))
			printNode(sb, n.Value, indent+2)
		}

	case *BreakStmt:
		sb.WriteString(fmt.Sprintf("%sBreakStmt\n", prefix))

	case *ContinueStmt:
		sb.WriteString(fmt.Sprintf("%sContinueStmt\n", prefix))

	case *DeferStmt:
		sb.WriteString(fmt.Sprintf("%sDeferStmt\n", prefix))
		printNode(sb, n.Expr, indent+1)

	case *ExprStmt:
		sb.WriteString(fmt.Sprintf("%sExprStmt\n", prefix))
		printNode(sb, n.Expr, indent+1)

	case *BinaryExpr:
		sb.WriteString(fmt.Sprintf("%sBinaryExpr: %s\n", prefix, n.Op))
		sb.WriteString(fmt.Sprintf("%s  Left:\n", prefix))
		printNode(sb, n.Left, indent+2)
		sb.WriteString(fmt.Sprintf("%s  Right:\n", prefix))
		printNode(sb, n.Right, indent+2)

	case *UnaryExpr:
		sb.WriteString(fmt.Sprintf("%sUnaryExpr: %s\n", prefix, n.Op))
		sb.WriteString(fmt.Sprintf("%s  Operand:\n", prefix))
		printNode(sb, n.Operand, indent+2)

	case *CallExpr:
		sb.WriteString(fmt.Sprintf("%sCallExpr: %s\n", prefix, n.Function))
		if len(n.Args) > 0 {
			sb.WriteString(fmt.Sprintf("%s  Args:\n", prefix))
			for _, arg := range n.Args {
				printNode(sb, arg, indent+2)
			}
		} else {
			sb.WriteString(fmt.Sprintf("%s  Args: none\n", prefix))
		}

	case *MethodCallExpr:
		sb.WriteString(fmt.Sprintf("%sMethodCallExpr: %s\n", prefix, n.Method))
		sb.WriteString(fmt.Sprintf("%s  Object:\n", prefix))
		printNode(sb, n.Object, indent+2)
		if len(n.Args) > 0 {
			sb.WriteString(fmt.Sprintf("%s  Args:\n", prefix))
			for _, arg := range n.Args {
				printNode(sb, arg, indent+2)
			}
		}

	case *MemberExpr:
		sb.WriteString(fmt.Sprintf("%sMemberExpr: %s\n", prefix, n.Member))
		sb.WriteString(fmt.Sprintf("%s  Object:\n", prefix))
		printNode(sb, n.Object, indent+2)

	case *IndexExpr:
		sb.WriteString(fmt.Sprintf("%sIndexExpr\n", prefix))
		sb.WriteString(fmt.Sprintf("%s  Object:\n", prefix))
		printNode(sb, n.Object, indent+2)
		sb.WriteString(fmt.Sprintf("%s  Index:\n", prefix))
		printNode(sb, n.Index, indent+2)

	case *Identifier:
		sb.WriteString(fmt.Sprintf("%sIdentifier: %s\n", prefix, n.Name))

	case *IntLit:
		sb.WriteString(fmt.Sprintf("%sIntLit: %d\n", prefix, n.Value))

	case *FloatLit:
		sb.WriteString(fmt.Sprintf("%sFloatLit: %g\n", prefix, n.Value))

	case *StringLit:
		sb.WriteString(fmt.Sprintf("%sStringLit: %q\n", prefix, n.Value))

	case *BoolLit:
		sb.WriteString(fmt.Sprintf("%sBoolLit: %t\n", prefix, n.Value))

	case *NullLit:
		sb.WriteString(fmt.Sprintf("%sNullLit\n", prefix))

	case *ArrayLit:
		sb.WriteString(fmt.Sprintf("%sArrayLit\n", prefix))
		for _, elem := range n.Elements {
			printNode(sb, elem, indent+1)
		}

	case *InterpExpr:
		sb.WriteString(fmt.Sprintf("%sInterpExpr\n", prefix))
		for _, part := range n.Parts {
			if part.IsVar {
				sb.WriteString(fmt.Sprintf("%s  Var: %s\n", prefix, part.Variable))
			} else {
				sb.WriteString(fmt.Sprintf("%s  Text: %q\n", prefix, part.Text))
			}
		}

	case *StructLit:
		sb.WriteString(fmt.Sprintf("%sStructLit: %s\n", prefix, n.Name))
		for _, f := range n.Fields {
			sb.WriteString(fmt.Sprintf("%s  %s:\n", prefix, f.Name))
			printNode(sb, f.Value, indent+2)
		}

	case *MatchExpr:
		sb.WriteString(fmt.Sprintf("%sMatchExpr\n", prefix))
		sb.WriteString(fmt.Sprintf("%s  Scrutinee:\n", prefix))
		printNode(sb, n.Scrutinee, indent+2)
		for _, arm := range n.Arms {
			printNode(sb, arm, indent+1)
		}

	case *MatchArm:
		sb.WriteString(fmt.Sprintf("%sMatchArm\n", prefix))
		sb.WriteString(fmt.Sprintf("%s  Pattern:\n", prefix))
		printNode(sb, n.Pattern, indent+2)
		sb.WriteString(fmt.Sprintf("%s  Body:\n", prefix))
		printNode(sb, n.Body, indent+2)

	case *Pattern:
		switch n.Kind {
		case PatternWildcard:
			sb.WriteString(fmt.Sprintf("%s_ (wildcard)\n", prefix))
		case PatternBinding:
			sb.WriteString(fmt.Sprintf("%s%s (binding)\n", prefix, n.Name))
		case PatternLiteral:
			printNode(sb, n.Literal, indent)
		}

	default:
		sb.WriteString(fmt.Sprintf("%sUnknown node type: %T\n", prefix, node))
	}
}

func attrSuffix(attrs []*Attribute) string {
	if len(attrs) == 0 {
		return ""
	}
	names := make([]string, len(attrs))
	for i, a := range attrs {
		names[i] = a.Name
	}
	return " @[" + strings.Join(names, ", ") + "]"
}
