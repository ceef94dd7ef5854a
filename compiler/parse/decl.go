package parse

import (
	"github.com/sukur123/ravun/compiler/ast"
	"github.com/sukur123/ravun/compiler/lex"
)

func (p *Parser) declaration() (*ast.Node, error) {
	switch p.cur().Kind {
	case lex.Let:
		return p.varDecl()
	case lex.Fn:
		return p.funcDecl()
	case lex.Struct:
		return p.structDecl()
	case lex.Impl:
		return p.implDecl()
	case lex.Mod:
		return p.modDecl()
	default:
		return p.statement()
	}
}

func (p *Parser) varDecl() (*ast.Node, error) {
	let, _ := p.expect(lex.Let)

	_, mut := p.match(lex.Mut)

	name, err := p.expect(lex.Identifier)
	if err != nil {
		return nil, err
	}

	x := ast.New(ast.VarDecl, &let)
	x.Value = name.Text

	pl := &ast.Let{Name: name.Text, Mutable: mut}
	x.Payload = pl

	if mut {
		x.Meta = ast.Mutable
	}

	if _, ok := p.match(lex.Colon); ok {
		typ, err := p.typeAnnotation()
		if err != nil {
			return nil, err
		}

		pl.Type = typ.Value
		x.Children = append(x.Children, typ)
	}

	if _, err = p.expect(lex.Assign); err != nil {
		return nil, err
	}

	init, err := p.expression()
	if err != nil {
		return nil, err
	}

	if _, err = p.expect(lex.Semicolon); err != nil {
		return nil, err
	}

	x.Children = append(x.Children, init)

	return x, nil
}

func (p *Parser) funcDecl() (*ast.Node, error) {
	fn, err := p.expect(lex.Fn)
	if err != nil {
		return nil, err
	}

	name, err := p.expect(lex.Identifier)
	if err != nil {
		return nil, err
	}

	x := ast.New(ast.FuncDecl, &fn)
	x.Value = name.Text

	def := &ast.FunctionDef{Name: name.Text}
	x.Payload = def

	if _, err = p.expect(lex.LeftParen); err != nil {
		return nil, err
	}

	for !p.at(lex.RightParen) {
		par, err := p.param()
		if err != nil {
			return nil, err
		}

		x.Children = append(x.Children, par)
		def.Params = append(def.Params, ast.Param{Name: par.Value, Type: par.Children[0].Value})

		if _, ok := p.match(lex.Comma); !ok {
			break
		}
	}

	if _, err = p.expect(lex.RightParen); err != nil {
		return nil, err
	}

	if _, ok := p.match(lex.Arrow); ok {
		typ, err := p.typeAnnotation()
		if err != nil {
			return nil, err
		}

		def.Return = typ.Value
		x.Children = append(x.Children, typ)
	}

	body, err := p.block()
	if err != nil {
		return nil, err
	}

	x.Children = append(x.Children, body)

	return x, nil
}

func (p *Parser) param() (*ast.Node, error) {
	name, err := p.expect(lex.Identifier)
	if err != nil {
		return nil, err
	}

	if _, err = p.expect(lex.Colon); err != nil {
		return nil, err
	}

	typ, err := p.typeAnnotation()
	if err != nil {
		return nil, err
	}

	x := ast.New(ast.ParamDecl, &name, typ)
	x.Value = name.Text

	return x, nil
}

// typeAnnotation parses name, name[] or name[N].
func (p *Parser) typeAnnotation() (*ast.Node, error) {
	name, err := p.expect(lex.Identifier)
	if err != nil {
		return nil, err
	}

	x := ast.New(ast.TypeAnnotation, &name)
	x.Value = name.Text

	if _, ok := p.match(lex.LeftBracket); !ok {
		return x, nil
	}

	size := ""
	if n, ok := p.match(lex.IntLiteral); ok {
		size = n.Text
	}

	if _, err = p.expect(lex.RightBracket); err != nil {
		return nil, err
	}

	x.Value += "[" + size + "]"

	return x, nil
}

func (p *Parser) structDecl() (*ast.Node, error) {
	kw, name, err := p.header(lex.Struct)
	if err != nil {
		return nil, err
	}

	x := ast.New(ast.StructDecl, &kw)
	x.Value = name.Text

	for !p.at(lex.RightBrace) && !p.at(lex.EOF) {
		fname, err := p.expect(lex.Identifier)
		if err != nil {
			return nil, err
		}

		if _, err = p.expect(lex.Colon); err != nil {
			return nil, err
		}

		typ, err := p.typeAnnotation()
		if err != nil {
			return nil, err
		}

		if _, err = p.expect(lex.Comma); err != nil {
			return nil, err
		}

		f := ast.New(ast.VarDecl, &fname, typ)
		f.Value = fname.Text
		f.Payload = &ast.Let{Name: fname.Text, Type: typ.Value}

		x.Children = append(x.Children, f)
	}

	if _, err = p.expect(lex.RightBrace); err != nil {
		return nil, err
	}

	return x, nil
}

func (p *Parser) implDecl() (*ast.Node, error) {
	kw, name, err := p.header(lex.Impl)
	if err != nil {
		return nil, err
	}

	x := ast.New(ast.ImplDecl, &kw)
	x.Value = name.Text

	for !p.at(lex.RightBrace) && !p.at(lex.EOF) {
		m, err := p.funcDecl()
		if err != nil {
			return nil, err
		}

		x.Children = append(x.Children, m)
	}

	if _, err = p.expect(lex.RightBrace); err != nil {
		return nil, err
	}

	return x, nil
}

func (p *Parser) modDecl() (*ast.Node, error) {
	kw, name, err := p.header(lex.Mod)
	if err != nil {
		return nil, err
	}

	x := ast.New(ast.ModDecl, &kw)
	x.Value = name.Text

	for !p.at(lex.RightBrace) && !p.at(lex.EOF) {
		d, err := p.declaration()
		if err != nil {
			return nil, err
		}

		x.Children = append(x.Children, d)
	}

	if _, err = p.expect(lex.RightBrace); err != nil {
		return nil, err
	}

	return x, nil
}

// header parses `kw Name {`.
func (p *Parser) header(kw lex.Kind) (k, name lex.Token, err error) {
	k, err = p.expect(kw)
	if err != nil {
		return
	}

	name, err = p.expect(lex.Identifier)
	if err != nil {
		return
	}

	_, err = p.expect(lex.LeftBrace)

	return
}
