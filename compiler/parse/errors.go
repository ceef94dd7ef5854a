package parse

import (
	"strings"

	"github.com/nikandfor/hacked/hfmt"

	"github.com/sukur123/ravun/compiler/diag"
	"github.com/sukur123/ravun/compiler/lex"
)

type (
	// UnexpectedError is a token that doesn't fit the grammar.
	UnexpectedError struct {
		Token lex.Token
		Want  []lex.Kind
	}

	InvalidTargetError struct {
		Token lex.Token
	}

	// Errors are all errors collected over one file.
	Errors []error
)

func NewUnexpected(got lex.Token, want ...lex.Kind) *UnexpectedError {
	return &UnexpectedError{
		Token: got,
		Want:  want,
	}
}

func (e *UnexpectedError) Error() string {
	var b []byte

	switch len(e.Want) {
	case 0:
		b = hfmt.Appendf(b, "unexpected %v", e.Token)
	case 1:
		b = hfmt.Appendf(b, "expected %v, found %v", e.Want[0], e.Token)
	default:
		l := make([]string, len(e.Want))

		for i, k := range e.Want {
			l[i] = k.String()
		}

		b = hfmt.Appendf(b, "expected one of %s, found %v", strings.Join(l, ", "), e.Token)
	}

	return string(hfmt.Appendf(b, " at line %d, column %d", e.Token.Line, e.Token.Col))
}

func (e *InvalidTargetError) Error() string {
	return string(hfmt.Appendf(nil, "invalid assignment target at line %d, column %d", e.Token.Line, e.Token.Col))
}

func (es Errors) Error() string {
	l := make([]string, len(es))

	for i, e := range es {
		l[i] = e.Error()
	}

	return strings.Join(l, "\n")
}

// Diagnostics converts es into syntax stage diagnostics.
func (es Errors) Diagnostics() diag.List {
	r := make(diag.List, 0, len(es))

	for _, e := range es {
		d := &diag.Diagnostic{
			Stage: diag.Syntax,
			Kind:  diag.Other,
			Msg:   e.Error(),
		}

		switch e := e.(type) {
		case *UnexpectedError:
			d.Kind = diag.UnexpectedToken
			d.Pos = diag.At(e.Token.Line, e.Token.Col)
		case *InvalidTargetError:
			d.Pos = diag.At(e.Token.Line, e.Token.Col)
		}

		r = append(r, d)
	}

	return r
}
