package parse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tlog.app/go/tlog"

	"github.com/sukur123/ravun/compiler/ast"
	"github.com/sukur123/ravun/compiler/diag"
	"github.com/sukur123/ravun/compiler/lex"
)

func testCtx() context.Context {
	return tlog.ContextWithSpan(context.Background(), tlog.Root())
}

func parseOK(t *testing.T, src string) *ast.Node {
	t.Helper()

	x, err := ParseText(testCtx(), []byte(src))
	require.NoError(t, err)

	return x
}

func parseErrs(t *testing.T, src string) Errors {
	t.Helper()

	x, err := ParseText(testCtx(), []byte(src))
	require.Error(t, err)
	assert.Nil(t, x)

	var es Errors
	require.ErrorAs(t, err, &es)

	return es
}

func firstExpr(t *testing.T, src string) *ast.Node {
	t.Helper()

	x := parseOK(t, src)
	require.Len(t, x.Children, 1)
	require.Equal(t, ast.ExprStmt, x.Children[0].Cat)

	return x.Children[0].Children[0]
}

func TestPrecedence(t *testing.T) {
	x := firstExpr(t, "1 + 2 * 3;")
	assert.Equal(t, "BinaryExpr(+) { LiteralExpr(1), BinaryExpr(*) { LiteralExpr(2), LiteralExpr(3) } }", x.String())

	x = firstExpr(t, "(1 + 2) * 3;")
	assert.Equal(t, "BinaryExpr(*) { GroupExpr { BinaryExpr(+) { LiteralExpr(1), LiteralExpr(2) } }, LiteralExpr(3) }", x.String())

	x = firstExpr(t, "1 - 2 - 3;")
	assert.Equal(t, "BinaryExpr(-) { BinaryExpr(-) { LiteralExpr(1), LiteralExpr(2) }, LiteralExpr(3) }", x.String())

	x = firstExpr(t, "a == b < c + -d ^ 2;")
	assert.Equal(t, "BinaryExpr(==) { IdentifierExpr(a), BinaryExpr(<) { IdentifierExpr(b), "+
		"BinaryExpr(+) { IdentifierExpr(c), UnaryExpr(-) { BinaryExpr(^) { IdentifierExpr(d), LiteralExpr(2) } } } } }", x.String())

	x = firstExpr(t, "a % b / c;")
	assert.Equal(t, "BinaryExpr(/) { BinaryExpr(%) { IdentifierExpr(a), IdentifierExpr(b) }, IdentifierExpr(c) }", x.String())
}

func TestMemberCalls(t *testing.T) {
	x := firstExpr(t, "io.read_line();")
	assert.Equal(t, "CallExpr(read_line)[method] { MemberExpr(read_line) { IdentifierExpr(io) } }", x.String())

	x = firstExpr(t, "p.move(1, b).x[2];")
	assert.Equal(t, "IndexExpr { MemberExpr(x) { CallExpr(move)[method] { MemberExpr(move) { IdentifierExpr(p) }, "+
		"LiteralExpr(1), IdentifierExpr(b) } }, LiteralExpr(2) }", x.String())

	es := parseErrs(t, "p.f(1;")
	require.Len(t, es, 1)
	assert.EqualError(t, es[0], "expected RightParen, found Semicolon at line 1, column 6")
}

func TestAssignment(t *testing.T) {
	x := firstExpr(t, "a = b = 1;")
	assert.Equal(t, "BinaryExpr(=) { IdentifierExpr(a), BinaryExpr(=) { IdentifierExpr(b), LiteralExpr(1) } }", x.String())

	x = firstExpr(t, "p.x += 2;")
	assert.Equal(t, "BinaryExpr(+=) { MemberExpr(x) { IdentifierExpr(p) }, LiteralExpr(2) }", x.String())

	x = firstExpr(t, "a[1] *= f(2, b);")
	assert.Equal(t, "BinaryExpr(*=) { IndexExpr { IdentifierExpr(a), LiteralExpr(1) }, CallExpr(f) { LiteralExpr(2), IdentifierExpr(b) } }", x.String())

	es := parseErrs(t, "1 = a;")
	require.Len(t, es, 1)
	assert.EqualError(t, es[0], "invalid assignment target at line 1, column 3")
}

func TestDeclarations(t *testing.T) {
	x := parseOK(t, `
let mut x: int = 5;
fn add(a: int, b: float) -> float { return a + b; }
struct Point { x: int, y: float, }
impl Point { fn len() -> float { return 0.0; } }
mod m { let k = 1; }
`)

	require.Len(t, x.Children, 5)

	v := x.Children[0]
	assert.Equal(t, "VarDecl(x)[mutable] { TypeAnnotation(int), LiteralExpr(5) }", v.String())
	assert.True(t, ast.Equal(v, &ast.Node{
		Cat:     ast.VarDecl,
		Value:   "x",
		Meta:    ast.Mutable,
		Payload: &ast.Let{Name: "x", Type: "int", Mutable: true},
		Children: []*ast.Node{
			{Cat: ast.TypeAnnotation, Value: "int"},
			{Cat: ast.LiteralExpr, Value: "5"},
		},
	}))

	f := x.Children[1]
	assert.Equal(t, ast.FuncDecl, f.Cat)
	assert.Equal(t, &ast.FunctionDef{Name: "add", Params: []ast.Param{{Name: "a", Type: "int"}, {Name: "b", Type: "float"}}, Return: "float"}, f.Payload)
	require.Len(t, f.Children, 4)
	assert.Equal(t, ast.ParamDecl, f.Children[0].Cat)
	assert.Equal(t, ast.TypeAnnotation, f.Children[2].Cat)
	assert.Equal(t, ast.BlockStmt, f.Children[3].Cat)

	assert.Equal(t, "StructDecl(Point) { VarDecl(x) { TypeAnnotation(int) }, VarDecl(y) { TypeAnnotation(float) } }", x.Children[2].String())
	assert.Equal(t, ast.ImplDecl, x.Children[3].Cat)
	assert.Equal(t, ast.FuncDecl, x.Children[3].Children[0].Cat)
	assert.Equal(t, "ModDecl(m) { VarDecl(k) { LiteralExpr(1) } }", x.Children[4].String())

	assert.Equal(t, 2, v.Line)
	assert.Equal(t, 1, v.Col)
}

func TestStatements(t *testing.T) {
	x := parseOK(t, `
fn main() {
	if a { } else if b { } else { }
	while x < 3 { x = x + 1; break; continue; }
	for i in items { }
	for j in 0 .. 10 { }
	return;
	{ let z = arr[0].len; }
}
`)

	body := x.Children[0].Children[0]
	require.Equal(t, ast.BlockStmt, body.Cat)
	require.Len(t, body.Children, 6)

	assert.Equal(t, "IfStmt { IdentifierExpr(a), BlockStmt, IfStmt { IdentifierExpr(b), BlockStmt, BlockStmt } }", body.Children[0].String())
	assert.Equal(t, ast.WhileStmt, body.Children[1].Cat)
	assert.Equal(t, ast.BreakStmt, body.Children[1].Children[1].Children[1].Cat)
	assert.Equal(t, ast.ContinueStmt, body.Children[1].Children[1].Children[2].Cat)
	assert.Equal(t, "ForStmt { IdentifierExpr(i), IdentifierExpr(items), BlockStmt }", body.Children[2].String())
	assert.Equal(t, "ForStmt { IdentifierExpr(j), RangeExpr(..) { LiteralExpr(0), LiteralExpr(10) }, BlockStmt }", body.Children[3].String())
	assert.Equal(t, "ReturnStmt", body.Children[4].String())
	assert.Equal(t, "BlockStmt { VarDecl(z) { MemberExpr(len) { IndexExpr { IdentifierExpr(arr), LiteralExpr(0) } } } }", body.Children[5].String())
}

func TestTypeAnnotations(t *testing.T) {
	x := parseOK(t, "let a: int[3] = b; let c: float[] = d;")

	assert.Equal(t, "int[3]", x.Children[0].Children[0].Value)
	assert.Equal(t, "float[]", x.Children[1].Children[0].Value)
}

func TestRecovery(t *testing.T) {
	es := parseErrs(t, `
let = 5;
let ok = 1;
fn f( { }
let y = ;
struct S { a: int }
`)

	require.Len(t, es, 4)

	var ue *UnexpectedError
	require.ErrorAs(t, es[0], &ue)
	assert.Equal(t, lex.Assign, ue.Token.Kind)
	assert.Equal(t, 2, ue.Token.Line)
	assert.EqualError(t, es[0], "expected Identifier, found Assign at line 2, column 5")

	assert.Contains(t, es[1].Error(), "line 4")
	assert.Contains(t, es[2].Error(), "line 5")
	assert.EqualError(t, es[3], "expected Comma, found RightBrace at line 6, column 19")

	ds := es.Diagnostics()
	require.Len(t, ds, 4)
	assert.Equal(t, diag.Syntax, ds[0].Stage)
	assert.Equal(t, diag.At(2, 5), ds[0].Pos)
	assert.True(t, ds.HasErrors())
}

func TestEOFHandling(t *testing.T) {
	es := parseErrs(t, "fn main() { let x = 1;")
	require.Len(t, es, 1)
	assert.Contains(t, es[0].Error(), "found EOF")

	x, err := Parse(testCtx(), nil)
	require.NoError(t, err)
	assert.Empty(t, x.Children)

	x, err = Parse(testCtx(), []lex.Token{{Kind: lex.Identifier, Text: "a", Line: 1, Col: 1}, {Kind: lex.Semicolon, Text: ";", Line: 1, Col: 2}})
	require.NoError(t, err)
	assert.Len(t, x.Children, 1)
}

func TestInvalidTokens(t *testing.T) {
	es := parseErrs(t, "let x = 5.;\nlet y = !z;")
	require.Len(t, es, 2)
	assert.Contains(t, es[0].Error(), `Invalid("5.")`)
	assert.Contains(t, es[1].Error(), `Invalid("!")`)
}
