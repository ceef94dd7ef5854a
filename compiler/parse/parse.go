package parse

import (
	"context"

	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/sukur123/ravun/compiler/ast"
	"github.com/sukur123/ravun/compiler/lex"
)

type (
	Parser struct {
		toks []lex.Token
		i    int

		errs Errors
	}
)

// Parse builds a Program from tokens.
// All errors of the file are returned together as Errors,
// in which case the returned node is nil.
func Parse(ctx context.Context, toks []lex.Token) (*ast.Node, error) {
	return New(toks).Parse(ctx)
}

// ParseText lexes and parses text.
func ParseText(ctx context.Context, text []byte) (*ast.Node, error) {
	return Parse(ctx, lex.Tokenize(text))
}

func New(toks []lex.Token) *Parser {
	if len(toks) == 0 || toks[len(toks)-1].Kind != lex.EOF {
		var eof lex.Token

		if len(toks) != 0 {
			last := toks[len(toks)-1]
			eof.Line, eof.Col, eof.Pos = last.Line, last.Col+len(last.Text), last.Pos+len(last.Text)
		} else {
			eof.Line, eof.Col = 1, 1
		}

		toks = append(toks[:len(toks):len(toks)], eof)
	}

	return &Parser{toks: toks}
}

func (p *Parser) Parse(ctx context.Context) (*ast.Node, error) {
	tr := tlog.SpanFromContext(ctx)

	prog := ast.New(ast.Program, nil)
	prog.Line, prog.Col = 1, 1

	for !p.at(lex.EOF) {
		st := p.i

		x, err := p.declaration()
		if err != nil {
			p.errs = append(p.errs, err)

			if tr.If("parse_errors") {
				tr.Printw("parse error", "err", err, "tok", p.cur(), "from", loc.Callers(1, 3))
			}

			p.synchronize()

			if p.i == st {
				p.advance()
			}

			continue
		}

		prog.Children = append(prog.Children, x)
	}

	if len(p.errs) != 0 {
		return nil, p.errs
	}

	return prog, nil
}

// synchronize skips tokens up to and including a semicolon
// or up to a token starting a declaration or statement.
func (p *Parser) synchronize() {
	for !p.at(lex.EOF) {
		if p.at(lex.Semicolon) {
			p.advance()
			return
		}

		switch p.cur().Kind {
		case lex.Let, lex.Fn, lex.For, lex.If, lex.While, lex.Return, lex.Struct, lex.Impl, lex.Mod:
			return
		}

		p.advance()
	}
}

func (p *Parser) cur() lex.Token {
	return p.toks[p.i]
}

func (p *Parser) at(k lex.Kind) bool {
	return p.toks[p.i].Kind == k
}

func (p *Parser) advance() lex.Token {
	t := p.toks[p.i]

	if t.Kind != lex.EOF {
		p.i++
	}

	return t
}

func (p *Parser) match(ks ...lex.Kind) (lex.Token, bool) {
	for _, k := range ks {
		if p.at(k) {
			return p.advance(), true
		}
	}

	return lex.Token{}, false
}

func (p *Parser) expect(k lex.Kind) (lex.Token, error) {
	if !p.at(k) {
		return p.cur(), NewUnexpected(p.cur(), k)
	}

	return p.advance(), nil
}
