package format

import (
	"context"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"github.com/sukur123/ravun/compiler/ast"
	"github.com/sukur123/ravun/compiler/lex"
)

// Format renders x back as source text.
func Format(ctx context.Context, b []byte, x *ast.Node) ([]byte, error) {
	if x.Cat != ast.Program {
		return formatStmt(ctx, b, x, 0)
	}

	var err error

	for i, c := range x.Children {
		if i != 0 && (c.Cat == ast.FuncDecl || c.Cat == ast.StructDecl || c.Cat == ast.ImplDecl || c.Cat == ast.ModDecl) {
			b = append(b, '\n')
		}

		b, err = formatStmt(ctx, b, c, 0)
		if err != nil {
			return nil, errors.Wrap(err, "decl %d", i)
		}
	}

	return b, nil
}

func formatStmt(ctx context.Context, b []byte, x *ast.Node, d int) (_ []byte, err error) {
	switch x.Cat {
	case ast.VarDecl:
		return formatVar(ctx, b, x, d)
	case ast.FuncDecl:
		return formatFunc(ctx, b, x, d)
	case ast.StructDecl:
		b = app(b, d, "struct %s {\n", x.Value)

		for _, f := range x.Children {
			b = app(b, d+1, "%s: %s,\n", f.Value, f.Child(0).Value)
		}

		b = app(b, d, "}\n")
	case ast.ImplDecl, ast.ModDecl:
		kw := "impl"
		if x.Cat == ast.ModDecl {
			kw = "mod"
		}

		b = app(b, d, "%s %s {\n", kw, x.Value)

		for i, c := range x.Children {
			b, err = formatStmt(ctx, b, c, d+1)
			if err != nil {
				return nil, errors.Wrap(err, "%s %d", kw, i)
			}
		}

		b = app(b, d, "}\n")
	case ast.BlockStmt:
		b = app(b, d, "")

		b, err = formatBlock(ctx, b, x, d)
		if err != nil {
			return nil, err
		}

		b = append(b, '\n')
	case ast.IfStmt:
		b = app(b, d, "")

		b, err = formatIf(ctx, b, x, d)
		if err != nil {
			return nil, err
		}

		b = append(b, '\n')
	case ast.WhileStmt:
		b = app(b, d, "while ")

		b, err = formatExpr(ctx, b, x.Children[0])
		if err != nil {
			return nil, errors.Wrap(err, "cond")
		}

		b = append(b, ' ')

		b, err = formatBlock(ctx, b, x.Children[1], d)
		if err != nil {
			return nil, errors.Wrap(err, "body")
		}

		b = append(b, '\n')
	case ast.ForStmt:
		b = app(b, d, "for %s in ", x.Children[0].Value)

		b, err = formatExpr(ctx, b, x.Children[1])
		if err != nil {
			return nil, errors.Wrap(err, "range")
		}

		b = append(b, ' ')

		b, err = formatBlock(ctx, b, x.Children[2], d)
		if err != nil {
			return nil, errors.Wrap(err, "body")
		}

		b = append(b, '\n')
	case ast.ReturnStmt:
		b = app(b, d, "return")

		if len(x.Children) != 0 {
			b = append(b, ' ')

			b, err = formatExpr(ctx, b, x.Children[0])
			if err != nil {
				return nil, errors.Wrap(err, "value")
			}
		}

		b = append(b, ";\n"...)
	case ast.BreakStmt:
		b = app(b, d, "break;\n")
	case ast.ContinueStmt:
		b = app(b, d, "continue;\n")
	case ast.ExprStmt:
		b = app(b, d, "")

		b, err = formatExpr(ctx, b, x.Children[0])
		if err != nil {
			return nil, err
		}

		b = append(b, ";\n"...)
	default:
		return nil, errors.New("unsupported stmt: %v", x.Cat)
	}

	return b, nil
}

func formatVar(ctx context.Context, b []byte, x *ast.Node, d int) (_ []byte, err error) {
	b = app(b, d, "let ")

	if x.IsMutable() {
		b = append(b, "mut "...)
	}

	b = append(b, x.Value...)

	for _, c := range x.Children {
		if c.Cat == ast.TypeAnnotation {
			b = hfmt.Appendf(b, ": %s", c.Value)
			continue
		}

		b = append(b, " = "...)

		b, err = formatExpr(ctx, b, c)
		if err != nil {
			return nil, errors.Wrap(err, "init")
		}
	}

	return append(b, ";\n"...), nil
}

func formatFunc(ctx context.Context, b []byte, x *ast.Node, d int) (_ []byte, err error) {
	b = app(b, d, "fn %s(", x.Value)

	var body *ast.Node
	var ret string
	n := 0

	for _, c := range x.Children {
		switch c.Cat {
		case ast.ParamDecl:
			if n != 0 {
				b = append(b, ", "...)
			}

			b = hfmt.Appendf(b, "%s: %s", c.Value, c.Child(0).Value)
			n++
		case ast.TypeAnnotation:
			ret = c.Value
		case ast.BlockStmt:
			body = c
		}
	}

	b = append(b, ')')

	if ret != "" {
		b = hfmt.Appendf(b, " -> %s", ret)
	}

	if body == nil {
		return append(b, ";\n"...), nil
	}

	b = append(b, ' ')

	b, err = formatBlock(ctx, b, body, d)
	if err != nil {
		return nil, errors.Wrap(err, "func %v", x.Value)
	}

	return append(b, '\n'), nil
}

func formatBlock(ctx context.Context, b []byte, x *ast.Node, d int) (_ []byte, err error) {
	if len(x.Children) == 0 {
		return append(b, "{}"...), nil
	}

	b = append(b, "{\n"...)

	for i, s := range x.Children {
		b, err = formatStmt(ctx, b, s, d+1)
		if err != nil {
			return nil, errors.Wrap(err, "stmt %d", i)
		}
	}

	return app(b, d, "}"), nil
}

func formatIf(ctx context.Context, b []byte, x *ast.Node, d int) (_ []byte, err error) {
	b = append(b, "if "...)

	b, err = formatExpr(ctx, b, x.Children[0])
	if err != nil {
		return nil, errors.Wrap(err, "cond")
	}

	b = append(b, ' ')

	b, err = formatBlock(ctx, b, x.Children[1], d)
	if err != nil {
		return nil, errors.Wrap(err, "then")
	}

	if len(x.Children) < 3 {
		return b, nil
	}

	b = append(b, " else "...)

	els := x.Children[2]

	if els.Cat == ast.IfStmt {
		return formatIf(ctx, b, els, d)
	}

	return formatBlock(ctx, b, els, d)
}

func formatExpr(ctx context.Context, b []byte, x *ast.Node) (_ []byte, err error) {
	switch x.Cat {
	case ast.LiteralExpr:
		if x.Tok != nil && x.Tok.Kind == lex.StringLiteral {
			return appendQuote(b, x.Value), nil
		}

		b = append(b, x.Value...)
	case ast.IdentifierExpr:
		b = append(b, x.Value...)
	case ast.BinaryExpr, ast.RangeExpr:
		b, err = formatExpr(ctx, b, x.Children[0])
		if err != nil {
			return nil, errors.Wrap(err, "left")
		}

		b = hfmt.Appendf(b, " %s ", x.Value)

		b, err = formatExpr(ctx, b, x.Children[1])
		if err != nil {
			return nil, errors.Wrap(err, "right")
		}
	case ast.UnaryExpr:
		b = append(b, x.Value...)

		return formatExpr(ctx, b, x.Children[0])
	case ast.GroupExpr:
		b = append(b, '(')

		b, err = formatExpr(ctx, b, x.Children[0])
		if err != nil {
			return nil, err
		}

		b = append(b, ')')
	case ast.CallExpr:
		args := x.Children

		if x.Meta == ast.Method {
			b, err = formatExpr(ctx, b, x.Children[0])
			if err != nil {
				return nil, errors.Wrap(err, "method")
			}

			args = args[1:]
		} else {
			b = append(b, x.Value...)
		}

		b = append(b, '(')

		for i, a := range args {
			if i != 0 {
				b = append(b, ", "...)
			}

			b, err = formatExpr(ctx, b, a)
			if err != nil {
				return nil, errors.Wrap(err, "arg %d", i)
			}
		}

		b = append(b, ')')
	case ast.MemberExpr:
		b, err = formatExpr(ctx, b, x.Children[0])
		if err != nil {
			return nil, err
		}

		b = append(b, '.')
		b = append(b, x.Value...)
	case ast.IndexExpr:
		b, err = formatExpr(ctx, b, x.Children[0])
		if err != nil {
			return nil, err
		}

		b = append(b, '[')

		b, err = formatExpr(ctx, b, x.Children[1])
		if err != nil {
			return nil, errors.Wrap(err, "index")
		}

		b = append(b, ']')
	default:
		return nil, errors.New("unsupported expr: %v", x.Cat)
	}

	return b, nil
}

// Tree renders x as an indented node dump.
func Tree(b []byte, x *ast.Node) []byte {
	ast.Walk(x, func(n *ast.Node, d int) bool {
		b = app(b, d, "%v", n.Cat)

		if n.Value != "" {
			b = hfmt.Appendf(b, " %q", n.Value)
		}

		if n.Meta != "" {
			b = hfmt.Appendf(b, " [%s]", n.Meta)
		}

		b = hfmt.Appendf(b, "  %d:%d\n", n.Line, n.Col)

		return true
	})

	return b
}

// appendQuote quotes s using only the escapes the lexer decodes.
func appendQuote(b []byte, s string) []byte {
	b = append(b, '"')

	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\n':
			b = append(b, `\n`...)
		case '\t':
			b = append(b, `\t`...)
		case '\r':
			b = append(b, `\r`...)
		case '\\', '"':
			b = append(b, '\\', c)
		default:
			b = append(b, c)
		}
	}

	return append(b, '"')
}

func app(b []byte, d int, f string, args ...any) []byte {
	const tabs = "\t\t\t\t\t\t\t\t\t\t\t\t\t\t\t"

	for d > len(tabs) {
		b = append(b, tabs...)
		d -= len(tabs)
	}

	b = append(b, tabs[:d]...)
	b = hfmt.Appendf(b, f, args...)

	return b
}
