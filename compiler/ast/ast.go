package ast

import (
	"strings"

	"github.com/sukur123/ravun/compiler/lex"
)

type (
	Category int

	Node struct {
		Cat      Category
		Tok      *lex.Token
		Children []*Node

		Value string
		Meta  string // Mutable on bindings, Method on member calls

		Payload Payload

		Line int
		Col  int
	}

	// Payload carries structured data the generic fields cannot express.
	Payload interface {
		payload()
		equal(Payload) bool
	}

	Param struct {
		Name string
		Type string
	}

	FunctionDef struct {
		Name   string
		Params []Param
		Return string // empty for void
	}

	Let struct {
		Name    string
		Type    string // empty when inferred
		Mutable bool
	}
)

const (
	Program Category = iota

	BinaryExpr
	UnaryExpr
	LiteralExpr
	IdentifierExpr
	GroupExpr
	CallExpr
	IndexExpr
	MemberExpr
	RangeExpr

	ExprStmt
	BlockStmt
	IfStmt
	WhileStmt
	ForStmt
	ReturnStmt
	BreakStmt
	ContinueStmt

	VarDecl
	FuncDecl
	StructDecl
	ImplDecl
	ModDecl
	ParamDecl
	TypeAnnotation

	categories
)

const (
	Mutable = "mutable"

	// Method marks a call on a member: children are the member and then the arguments.
	Method = "method"
)

var catNames = [...]string{
	Program:        "Program",
	BinaryExpr:     "BinaryExpr",
	UnaryExpr:      "UnaryExpr",
	LiteralExpr:    "LiteralExpr",
	IdentifierExpr: "IdentifierExpr",
	GroupExpr:      "GroupExpr",
	CallExpr:       "CallExpr",
	IndexExpr:      "IndexExpr",
	MemberExpr:     "MemberExpr",
	RangeExpr:      "RangeExpr",
	ExprStmt:       "ExprStmt",
	BlockStmt:      "BlockStmt",
	IfStmt:         "IfStmt",
	WhileStmt:      "WhileStmt",
	ForStmt:        "ForStmt",
	ReturnStmt:     "ReturnStmt",
	BreakStmt:      "BreakStmt",
	ContinueStmt:   "ContinueStmt",
	VarDecl:        "VarDecl",
	FuncDecl:       "FuncDecl",
	StructDecl:     "StructDecl",
	ImplDecl:       "ImplDecl",
	ModDecl:        "ModDecl",
	ParamDecl:      "ParamDecl",
	TypeAnnotation: "TypeAnnotation",
}

// New creates a node positioned at tok.
func New(cat Category, tok *lex.Token, children ...*Node) *Node {
	n := &Node{
		Cat:      cat,
		Tok:      tok,
		Children: children,
	}

	if tok != nil {
		n.Line = tok.Line
		n.Col = tok.Col
	}

	return n
}

func (c Category) String() string {
	if c >= 0 && c < categories {
		return catNames[c]
	}

	return "Category?"
}

func (c Category) IsExpr() bool { return c >= BinaryExpr && c <= RangeExpr }
func (c Category) IsStmt() bool { return c >= ExprStmt && c <= ContinueStmt }
func (c Category) IsDecl() bool { return c >= VarDecl && c <= TypeAnnotation }

func (n *Node) Child(i int) *Node {
	if n == nil || i >= len(n.Children) {
		return nil
	}

	return n.Children[i]
}

func (n *Node) IsMutable() bool { return n.Meta == Mutable }

// Equal compares trees structurally.
// Tokens and positions are ignored.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}

	if a.Cat != b.Cat || a.Value != b.Value || a.Meta != b.Meta || len(a.Children) != len(b.Children) {
		return false
	}

	if (a.Payload == nil) != (b.Payload == nil) {
		return false
	}

	if a.Payload != nil && !a.Payload.equal(b.Payload) {
		return false
	}

	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}

	return true
}

// Walk visits n and its descendants in pre-order.
// Children are skipped when f returns false.
func Walk(n *Node, f func(n *Node, depth int) bool) {
	walk(n, f, 0)
}

func walk(n *Node, f func(*Node, int) bool, d int) {
	if n == nil || !f(n, d) {
		return
	}

	for _, c := range n.Children {
		walk(c, f, d+1)
	}
}

// String renders n as Category(value) { children }.
func (n *Node) String() string {
	var b strings.Builder

	n.str(&b)

	return b.String()
}

func (n *Node) str(b *strings.Builder) {
	if n == nil {
		b.WriteString("<nil>")
		return
	}

	b.WriteString(n.Cat.String())

	if n.Value != "" {
		b.WriteByte('(')
		b.WriteString(n.Value)
		b.WriteByte(')')
	}

	if n.Meta != "" {
		b.WriteByte('[')
		b.WriteString(n.Meta)
		b.WriteByte(']')
	}

	if len(n.Children) == 0 {
		return
	}

	b.WriteString(" { ")

	for i, c := range n.Children {
		if i != 0 {
			b.WriteString(", ")
		}

		c.str(b)
	}

	b.WriteString(" }")
}

func (*FunctionDef) payload() {}
func (*Let) payload()         {}

func (f *FunctionDef) equal(p Payload) bool {
	g, ok := p.(*FunctionDef)
	if !ok || f.Name != g.Name || f.Return != g.Return || len(f.Params) != len(g.Params) {
		return false
	}

	for i := range f.Params {
		if f.Params[i] != g.Params[i] {
			return false
		}
	}

	return true
}

func (l *Let) equal(p Payload) bool {
	m, ok := p.(*Let)

	return ok && *l == *m
}
