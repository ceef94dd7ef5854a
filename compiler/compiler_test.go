package compiler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tlog.app/go/tlog"

	"github.com/sukur123/ravun/compiler/diag"
)

func testCtx() context.Context {
	return tlog.ContextWithSpan(context.Background(), tlog.Root())
}

func compile(t *testing.T, cfg Config, src string) (*Result, error) {
	t.Helper()

	res, err := New(cfg).Compile(testCtx(), "test.rv", []byte(src))
	require.NotNil(t, res)

	return res, err
}

func stageErr(t *testing.T, err error, stage diag.Stage) *StageError {
	t.Helper()

	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, stage, se.Stage)

	return se
}

func TestCompileAccepted(t *testing.T) {
	res, err := compile(t, DefaultConfig(), `
fn main() {
	let s = "hi";
	println(s);
}
`)
	require.NoError(t, err)

	assert.True(t, res.Accepted())
	assert.Empty(t, res.Diagnostics)
	assert.NotNil(t, res.Program)
	assert.NotEmpty(t, res.Tokens)
}

func TestCompileLexical(t *testing.T) {
	res, err := compile(t, DefaultConfig(), `fn main() { let x = 1 & 2; }`)

	se := stageErr(t, err, diag.Lexical)
	assert.False(t, res.Accepted())
	assert.Nil(t, res.Program)

	require.NotEmpty(t, se.Diags)
	assert.Equal(t, diag.InvalidToken, se.Diags[0].Kind)
	assert.Equal(t, diag.At(1, 23), se.Diags[0].Pos)
	assert.Contains(t, se.Diags[0].Msg, `"&"`)

	for _, d := range se.Diags[1:] {
		assert.NotEqual(t, diag.At(1, 23), d.Pos, "reported twice: %v", d)
	}
}

func TestCompileSyntax(t *testing.T) {
	res, err := compile(t, DefaultConfig(), `fn main() { let = 1; }`)

	se := stageErr(t, err, diag.Syntax)
	assert.Nil(t, res.Program)

	require.NotEmpty(t, se.Diags)
	assert.Equal(t, diag.Syntax, se.Diags[0].Stage)
	assert.Equal(t, diag.UnexpectedToken, se.Diags[0].Kind)
	assert.Equal(t, diag.At(1, 17), se.Diags[0].Pos)
}

func TestCompileSemantic(t *testing.T) {
	res, err := compile(t, DefaultConfig(), `fn main() { let a = 1; a = 2; }`)

	se := stageErr(t, err, diag.Semantic)
	assert.NotNil(t, res.Program)
	assert.False(t, res.Accepted())

	require.Len(t, se.Diags.Errors(), 1)
	assert.Equal(t, diag.Immutable, se.Diags.Errors()[0].Kind)
	assert.Equal(t, "semantic stage: 1 error(s)", err.Error())
}

func TestCompileWarningsOnly(t *testing.T) {
	res, err := compile(t, DefaultConfig(), `let top = 1; fn main() { }`)
	require.NoError(t, err)

	assert.True(t, res.Accepted())
	require.Len(t, res.Diagnostics, 1)
	assert.True(t, res.Diagnostics[0].Warning)
}

func TestCompileNoPrelude(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Prelude = false

	_, err := compile(t, cfg, `fn main() { println("x"); }`)

	se := stageErr(t, err, diag.Semantic)
	require.NotEmpty(t, se.Diags)
	assert.Equal(t, diag.UndefinedFunction, se.Diags[0].Kind)
}

func TestCompileRepeatable(t *testing.T) {
	fe := New(DefaultConfig())
	src := []byte(`fn main() { let q = nope; let r: int = "s"; }`)

	a, err := fe.Compile(testCtx(), "a", src)
	require.Error(t, err)

	b, err := fe.Compile(testCtx(), "b", src)
	require.Error(t, err)

	assert.Equal(t, a.Diagnostics.Error(), b.Diagnostics.Error())
}

func TestCompileFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "main.rv")
	require.NoError(t, os.WriteFile(name, []byte("fn main() { }\n"), 0o644))

	fe := New(DefaultConfig())

	res, err := fe.CompileFile(testCtx(), name)
	require.NoError(t, err)
	assert.Equal(t, name, res.Name)
	assert.True(t, res.Accepted())

	_, err = fe.CompileFile(testCtx(), filepath.Join(t.TempDir(), "missing.rv"))
	require.Error(t, err)

	_, ok := err.(*StageError)
	assert.False(t, ok)
}
