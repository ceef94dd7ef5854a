package parse

import (
	"github.com/sukur123/ravun/compiler/ast"
	"github.com/sukur123/ravun/compiler/lex"
)

func (p *Parser) statement() (*ast.Node, error) {
	switch p.cur().Kind {
	case lex.If:
		return p.ifStmt()
	case lex.While:
		return p.whileStmt()
	case lex.For:
		return p.forStmt()
	case lex.Return:
		return p.returnStmt()
	case lex.Break:
		return p.loopControl(ast.BreakStmt)
	case lex.Continue:
		return p.loopControl(ast.ContinueStmt)
	case lex.LeftBrace:
		return p.block()
	default:
		return p.exprStmt()
	}
}

func (p *Parser) block() (*ast.Node, error) {
	lb, err := p.expect(lex.LeftBrace)
	if err != nil {
		return nil, err
	}

	x := ast.New(ast.BlockStmt, &lb)

	for !p.at(lex.RightBrace) && !p.at(lex.EOF) {
		s, err := p.declaration()
		if err != nil {
			return nil, err
		}

		x.Children = append(x.Children, s)
	}

	if _, err = p.expect(lex.RightBrace); err != nil {
		return nil, err
	}

	return x, nil
}

func (p *Parser) ifStmt() (*ast.Node, error) {
	kw := p.advance()

	cond, err := p.expression()
	if err != nil {
		return nil, err
	}

	then, err := p.block()
	if err != nil {
		return nil, err
	}

	x := ast.New(ast.IfStmt, &kw, cond, then)

	if _, ok := p.match(lex.Else); !ok {
		return x, nil
	}

	var els *ast.Node

	if p.at(lex.If) {
		els, err = p.ifStmt()
	} else {
		els, err = p.block()
	}

	if err != nil {
		return nil, err
	}

	x.Children = append(x.Children, els)

	return x, nil
}

func (p *Parser) whileStmt() (*ast.Node, error) {
	kw := p.advance()

	cond, err := p.expression()
	if err != nil {
		return nil, err
	}

	body, err := p.block()
	if err != nil {
		return nil, err
	}

	return ast.New(ast.WhileStmt, &kw, cond, body), nil
}

// forStmt parses `for x in expr { }` and `for x in a .. b { }`.
func (p *Parser) forStmt() (*ast.Node, error) {
	kw := p.advance()

	name, err := p.expect(lex.Identifier)
	if err != nil {
		return nil, err
	}

	if _, err = p.expect(lex.In); err != nil {
		return nil, err
	}

	iter, err := p.expression()
	if err != nil {
		return nil, err
	}

	if dd, ok := p.match(lex.DoubleDot); ok {
		hi, err := p.expression()
		if err != nil {
			return nil, err
		}

		iter = ast.New(ast.RangeExpr, &dd, iter, hi)
		iter.Value = ".."
	}

	body, err := p.block()
	if err != nil {
		return nil, err
	}

	v := ast.New(ast.IdentifierExpr, &name)
	v.Value = name.Text

	return ast.New(ast.ForStmt, &kw, v, iter, body), nil
}

func (p *Parser) returnStmt() (*ast.Node, error) {
	kw := p.advance()

	x := ast.New(ast.ReturnStmt, &kw)

	if !p.at(lex.Semicolon) {
		v, err := p.expression()
		if err != nil {
			return nil, err
		}

		x.Children = append(x.Children, v)
	}

	if _, err := p.expect(lex.Semicolon); err != nil {
		return nil, err
	}

	return x, nil
}

func (p *Parser) loopControl(cat ast.Category) (*ast.Node, error) {
	kw := p.advance()

	if _, err := p.expect(lex.Semicolon); err != nil {
		return nil, err
	}

	return ast.New(cat, &kw), nil
}

func (p *Parser) exprStmt() (*ast.Node, error) {
	st := p.cur()

	x, err := p.expression()
	if err != nil {
		return nil, err
	}

	if _, err = p.expect(lex.Semicolon); err != nil {
		return nil, err
	}

	s := ast.New(ast.ExprStmt, nil, x)
	s.Line, s.Col = st.Line, st.Col

	return s, nil
}
