package lex

import (
	"strconv"

	"tlog.app/go/tlog/tlwire"
)

type (
	Kind int

	Token struct {
		Kind Kind
		Text string

		Pos  int // byte offset
		Line int
		Col  int
	}
)

const (
	EOF Kind = iota
	Invalid
	Comment

	Identifier
	IntLiteral
	FloatLiteral
	StringLiteral
	CharLiteral
	BoolLiteral

	// keywords
	Let
	Mut
	Const
	Fn
	Return
	If
	Else
	For
	While
	In
	Struct
	Impl
	Mod
	Pub
	Async
	Parallel
	Match
	Break
	Continue

	// operators
	Plus
	Minus
	Star
	Slash
	Percent
	Caret
	Equal
	NotEqual
	Greater
	Less
	GreaterEqual
	LessEqual
	Assign
	PlusAssign
	MinusAssign
	StarAssign

	// punctuation
	LeftParen
	RightParen
	LeftBrace
	RightBrace
	LeftBracket
	RightBracket
	Semicolon
	Colon
	Comma
	Dot
	DoubleDot
	Arrow

	kinds
)

var kindNames = [...]string{
	EOF:           "EOF",
	Invalid:       "Invalid",
	Comment:       "Comment",
	Identifier:    "Identifier",
	IntLiteral:    "IntLiteral",
	FloatLiteral:  "FloatLiteral",
	StringLiteral: "StringLiteral",
	CharLiteral:   "CharLiteral",
	BoolLiteral:   "BoolLiteral",
	Let:           "Let",
	Mut:           "Mut",
	Const:         "Const",
	Fn:            "Fn",
	Return:        "Return",
	If:            "If",
	Else:          "Else",
	For:           "For",
	While:         "While",
	In:            "In",
	Struct:        "Struct",
	Impl:          "Impl",
	Mod:           "Mod",
	Pub:           "Pub",
	Async:         "Async",
	Parallel:      "Parallel",
	Match:         "Match",
	Break:         "Break",
	Continue:      "Continue",
	Plus:          "Plus",
	Minus:         "Minus",
	Star:          "Star",
	Slash:         "Slash",
	Percent:       "Percent",
	Caret:         "Caret",
	Equal:         "Equal",
	NotEqual:      "NotEqual",
	Greater:       "Greater",
	Less:          "Less",
	GreaterEqual:  "GreaterEqual",
	LessEqual:     "LessEqual",
	Assign:        "Assign",
	PlusAssign:    "PlusAssign",
	MinusAssign:   "MinusAssign",
	StarAssign:    "StarAssign",
	LeftParen:     "LeftParen",
	RightParen:    "RightParen",
	LeftBrace:     "LeftBrace",
	RightBrace:    "RightBrace",
	LeftBracket:   "LeftBracket",
	RightBracket:  "RightBracket",
	Semicolon:     "Semicolon",
	Colon:         "Colon",
	Comma:         "Comma",
	Dot:           "Dot",
	DoubleDot:     "DoubleDot",
	Arrow:         "Arrow",
}

var keywords = map[string]Kind{
	"let":      Let,
	"mut":      Mut,
	"const":    Const,
	"fn":       Fn,
	"return":   Return,
	"if":       If,
	"else":     Else,
	"for":      For,
	"while":    While,
	"in":       In,
	"struct":   Struct,
	"impl":     Impl,
	"mod":      Mod,
	"pub":      Pub,
	"async":    Async,
	"parallel": Parallel,
	"match":    Match,
	"break":    Break,
	"continue": Continue,
	"true":     BoolLiteral,
	"false":    BoolLiteral,
}

// Keyword returns the keyword kind for s or Identifier.
func Keyword(s string) Kind {
	if k, ok := keywords[s]; ok {
		return k
	}

	return Identifier
}

func (k Kind) String() string {
	if k >= 0 && k < kinds {
		return kindNames[k]
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

func (k Kind) IsLiteral() bool {
	return k >= IntLiteral && k <= BoolLiteral
}

func (k Kind) IsKeyword() bool {
	return k >= Let && k <= Continue
}

func (t Token) String() string {
	switch {
	case t.Kind == EOF:
		return "EOF"
	case t.Kind == Identifier, t.Kind.IsLiteral(), t.Kind == Invalid:
		return t.Kind.String() + "(" + strconv.Quote(t.Text) + ")"
	default:
		return t.Kind.String()
	}
}

func (t Token) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	b = e.AppendMap(b, 4)

	b = e.AppendString(b, "kind")
	b = e.AppendString(b, t.Kind.String())

	b = e.AppendString(b, "text")
	b = e.AppendString(b, t.Text)

	b = e.AppendKeyInt(b, "line", t.Line)
	b = e.AppendKeyInt(b, "col", t.Col)

	return b
}
