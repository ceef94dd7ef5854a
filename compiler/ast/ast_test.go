package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sukur123/ravun/compiler/lex"
)

func lit(v string) *Node {
	n := New(LiteralExpr, &lex.Token{Kind: lex.IntLiteral, Text: v, Line: 7, Col: 9})
	n.Value = v

	return n
}

func bin(op string, l, r *Node) *Node {
	n := New(BinaryExpr, nil, l, r)
	n.Value = op

	return n
}

func TestEqualIgnoresPositions(t *testing.T) {
	a := bin("+", lit("1"), lit("2"))
	b := bin("+", lit("1"), lit("2"))
	b.Children[0].Tok = nil
	b.Children[0].Line = 100

	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, bin("-", lit("1"), lit("2"))))

	one := New(BinaryExpr, nil, lit("1"))
	one.Value = "+"
	assert.False(t, Equal(a, one))

	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(a, nil))
}

func TestEqualPayload(t *testing.T) {
	f := func(ret string) *Node {
		n := New(FuncDecl, nil)
		n.Value = "f"
		n.Payload = &FunctionDef{Name: "f", Params: []Param{{Name: "a", Type: "int"}}, Return: ret}

		return n
	}

	assert.True(t, Equal(f("int"), f("int")))
	assert.False(t, Equal(f("int"), f("float")))

	v := New(VarDecl, nil)
	v.Payload = &Let{Name: "x"}

	assert.False(t, Equal(f("int"), v))
}

func TestStringAndWalk(t *testing.T) {
	n := bin("+", lit("1"), bin("*", lit("2"), lit("3")))

	assert.Equal(t, "BinaryExpr(+) { LiteralExpr(1), BinaryExpr(*) { LiteralExpr(2), LiteralExpr(3) } }", n.String())

	var cats []string
	var depth int

	Walk(n, func(n *Node, d int) bool {
		cats = append(cats, n.Cat.String())
		if d > depth {
			depth = d
		}

		return true
	})

	assert.Len(t, cats, 5)
	assert.Equal(t, 2, depth)
}
