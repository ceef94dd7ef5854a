package parse

import (
	"github.com/sukur123/ravun/compiler/ast"
	"github.com/sukur123/ravun/compiler/lex"
)

type (
	level struct {
		ops  []lex.Kind
		next func(p *Parser) (*ast.Node, error)
	}
)

var (
	equality   level
	comparison level
	term       level
	factor     level
)

func init() {
	equality = level{ops: []lex.Kind{lex.Equal, lex.NotEqual}, next: (*Parser).comparison}
	comparison = level{ops: []lex.Kind{lex.Less, lex.Greater, lex.LessEqual, lex.GreaterEqual}, next: (*Parser).term}
	term = level{ops: []lex.Kind{lex.Plus, lex.Minus}, next: (*Parser).factor}
	factor = level{ops: []lex.Kind{lex.Star, lex.Slash, lex.Percent}, next: (*Parser).unary}
}

func (p *Parser) expression() (*ast.Node, error) {
	return p.assignment()
}

// assignment is right associative.
func (p *Parser) assignment() (*ast.Node, error) {
	l, err := p.equality()
	if err != nil {
		return nil, err
	}

	op, ok := p.match(lex.Assign, lex.PlusAssign, lex.MinusAssign, lex.StarAssign)
	if !ok {
		return l, nil
	}

	r, err := p.assignment()
	if err != nil {
		return nil, err
	}

	switch l.Cat {
	case ast.IdentifierExpr, ast.MemberExpr, ast.IndexExpr:
	default:
		return nil, &InvalidTargetError{Token: op}
	}

	x := ast.New(ast.BinaryExpr, &op, l, r)
	x.Value = op.Text

	return x, nil
}

func (p *Parser) equality() (*ast.Node, error)   { return p.leftToRight(equality) }
func (p *Parser) comparison() (*ast.Node, error) { return p.leftToRight(comparison) }
func (p *Parser) term() (*ast.Node, error)       { return p.leftToRight(term) }
func (p *Parser) factor() (*ast.Node, error)     { return p.leftToRight(factor) }

func (p *Parser) leftToRight(lv level) (*ast.Node, error) {
	x, err := lv.next(p)
	if err != nil {
		return nil, err
	}

	for {
		op, ok := p.match(lv.ops...)
		if !ok {
			return x, nil
		}

		r, err := lv.next(p)
		if err != nil {
			return nil, err
		}

		x = ast.New(ast.BinaryExpr, &op, x, r)
		x.Value = op.Text
	}
}

func (p *Parser) unary() (*ast.Node, error) {
	op, ok := p.match(lex.Minus)
	if !ok {
		return p.power()
	}

	arg, err := p.unary()
	if err != nil {
		return nil, err
	}

	x := ast.New(ast.UnaryExpr, &op, arg)
	x.Value = op.Text

	return x, nil
}

func (p *Parser) power() (*ast.Node, error) {
	return p.leftToRight(level{ops: []lex.Kind{lex.Caret}, next: (*Parser).postfix})
}

// postfix parses a primary followed by member accesses, member calls and indexes.
func (p *Parser) postfix() (x *ast.Node, err error) {
	x, err = p.primary()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.at(lex.Dot):
			dot := p.advance()

			name, err := p.expect(lex.Identifier)
			if err != nil {
				return nil, err
			}

			x = ast.New(ast.MemberExpr, &dot, x)
			x.Value = name.Text

			if !p.at(lex.LeftParen) {
				continue
			}

			p.advance()

			m := ast.New(ast.CallExpr, &name, x)
			m.Value = name.Text
			m.Meta = ast.Method

			if err = p.args(m); err != nil {
				return nil, err
			}

			x = m
		case p.at(lex.LeftBracket):
			lb := p.advance()

			idx, err := p.expression()
			if err != nil {
				return nil, err
			}

			if _, err = p.expect(lex.RightBracket); err != nil {
				return nil, err
			}

			x = ast.New(ast.IndexExpr, &lb, x, idx)
		default:
			return x, nil
		}
	}
}

func (p *Parser) primary() (*ast.Node, error) {
	t := p.cur()

	switch {
	case t.Kind.IsLiteral():
		p.advance()

		x := ast.New(ast.LiteralExpr, &t)
		x.Value = t.Text

		return x, nil
	case t.Kind == lex.Identifier:
		p.advance()

		if p.at(lex.LeftParen) {
			return p.call(t)
		}

		x := ast.New(ast.IdentifierExpr, &t)
		x.Value = t.Text

		return x, nil
	case t.Kind == lex.LeftParen:
		p.advance()

		inner, err := p.expression()
		if err != nil {
			return nil, err
		}

		if _, err = p.expect(lex.RightParen); err != nil {
			return nil, err
		}

		return ast.New(ast.GroupExpr, &t, inner), nil
	default:
		return nil, NewUnexpected(t)
	}
}

// call parses arguments of callee.
// The node value is the callee name, children are the arguments.
func (p *Parser) call(callee lex.Token) (*ast.Node, error) {
	p.advance()

	x := ast.New(ast.CallExpr, &callee)
	x.Value = callee.Text

	if err := p.args(x); err != nil {
		return nil, err
	}

	return x, nil
}

// args parses a comma separated list up to the closing paren into x.Children.
func (p *Parser) args(x *ast.Node) error {
	for !p.at(lex.RightParen) {
		a, err := p.expression()
		if err != nil {
			return err
		}

		x.Children = append(x.Children, a)

		if _, ok := p.match(lex.Comma); !ok {
			break
		}
	}

	_, err := p.expect(lex.RightParen)

	return err
}
