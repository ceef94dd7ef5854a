package lex

import (
	"unicode"
	"unicode/utf8"
)

type (
	Lexer struct {
		b []byte

		i    int
		line int
		col  int
	}
)

func New(text []byte) *Lexer {
	return &Lexer{
		b:    text,
		line: 1,
		col:  1,
	}
}

// Tokenize drains text into tokens dropping comments.
// The result always ends with exactly one EOF token.
func Tokenize(text []byte) []Token {
	return New(text).Tokenize()
}

func (l *Lexer) Tokenize() (toks []Token) {
	for {
		t := l.Next()

		if t.Kind == Comment {
			continue
		}

		toks = append(toks, t)

		if t.Kind == EOF {
			return toks
		}
	}
}

// Next returns the next token including comments.
// It never fails: malformed input is returned as Invalid tokens.
func (l *Lexer) Next() Token {
	l.skipSpaces()

	t := Token{
		Pos:  l.i,
		Line: l.line,
		Col:  l.col,
	}

	if l.i >= len(l.b) {
		t.Kind = EOF
		return t
	}

	r := l.peek()

	switch {
	case r == '_' || unicode.IsLetter(r):
		return l.ident(t)
	case isDigit(r):
		return l.number(t)
	case r == '"':
		return l.string(t)
	case r == '/':
		return l.slash(t)
	}

	l.advance()

	two := func(next rune, k2, k1 Kind) Token {
		if l.peek() == next {
			l.advance()
			t.Kind = k2
		} else {
			t.Kind = k1
		}

		return l.text(t)
	}

	switch r {
	case '+':
		return two('=', PlusAssign, Plus)
	case '*':
		return two('=', StarAssign, Star)
	case '=':
		return two('=', Equal, Assign)
	case '>':
		return two('=', GreaterEqual, Greater)
	case '<':
		return two('=', LessEqual, Less)
	case '.':
		return two('.', DoubleDot, Dot)
	case '-':
		switch l.peek() {
		case '=':
			l.advance()
			t.Kind = MinusAssign
		case '>':
			l.advance()
			t.Kind = Arrow
		default:
			t.Kind = Minus
		}

		return l.text(t)
	case '!':
		return two('=', NotEqual, Invalid)
	}

	t.Kind = single(r)

	return l.text(t)
}

func single(r rune) Kind {
	switch r {
	case '%':
		return Percent
	case '^':
		return Caret
	case '(':
		return LeftParen
	case ')':
		return RightParen
	case '{':
		return LeftBrace
	case '}':
		return RightBrace
	case '[':
		return LeftBracket
	case ']':
		return RightBracket
	case ';':
		return Semicolon
	case ':':
		return Colon
	case ',':
		return Comma
	default:
		return Invalid
	}
}

func (l *Lexer) ident(t Token) Token {
	for l.i < len(l.b) {
		r := l.peek()
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}

		l.advance()
	}

	t = l.text(t)
	t.Kind = Keyword(t.Text)

	return t
}

func (l *Lexer) number(t Token) Token {
	l.skipDigits()

	t.Kind = IntLiteral

	if l.peek() == '.' {
		l.advance()
		t.Kind = FloatLiteral

		if !isDigit(l.peek()) {
			t.Kind = Invalid
			return l.text(t)
		}

		l.skipDigits()
	}

	return l.text(t)
}

func (l *Lexer) string(t Token) Token {
	l.advance() // opening quote

	var s []byte

	for l.i < len(l.b) {
		r := l.advance()

		switch r {
		case '"':
			t.Kind = StringLiteral
			t.Text = string(s)

			return t
		case '\\':
			if l.i >= len(l.b) {
				s = append(s, '\\')
				continue
			}

			e := l.advance()

			switch e {
			case 'n':
				s = append(s, '\n')
			case 't':
				s = append(s, '\t')
			case 'r':
				s = append(s, '\r')
			case '\\', '"':
				s = utf8.AppendRune(s, e)
			default:
				s = append(s, '\\')
				s = utf8.AppendRune(s, e)
			}
		default:
			s = utf8.AppendRune(s, r)
		}
	}

	t.Kind = Invalid
	t.Text = string(s)

	return t
}

func (l *Lexer) slash(t Token) Token {
	l.advance()

	switch l.peek() {
	case '/':
		for l.i < len(l.b) {
			if l.advance() == '\n' {
				break
			}
		}

		t.Kind = Comment
	case '*':
		l.advance()

		for l.i < len(l.b) {
			if l.advance() == '*' && l.peek() == '/' {
				l.advance()
				break
			}
		}

		t.Kind = Comment
	default:
		t.Kind = Slash
	}

	return l.text(t)
}

func (l *Lexer) text(t Token) Token {
	t.Text = string(l.b[t.Pos:l.i])
	return t
}

func (l *Lexer) skipSpaces() {
	for l.i < len(l.b) && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

func (l *Lexer) skipDigits() {
	for l.i < len(l.b) && isDigit(l.peek()) {
		l.advance()
	}
}

func (l *Lexer) peek() rune {
	if l.i >= len(l.b) {
		return 0
	}

	r, _ := utf8.DecodeRune(l.b[l.i:])

	return r
}

func (l *Lexer) advance() rune {
	r, size := utf8.DecodeRune(l.b[l.i:])
	l.i += size

	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}

	return r
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
