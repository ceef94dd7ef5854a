package symtab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sukur123/ravun/compiler/diag"
	"github.com/sukur123/ravun/compiler/tp"
)

func kindOf(t *testing.T, err error) diag.Kind {
	t.Helper()

	var d *diag.Diagnostic
	require.ErrorAs(t, err, &d)

	return d.Kind
}

func TestRedefinitionAndShadowing(t *testing.T) {
	tab := New()

	_, err := tab.DefineVariable("x", tp.Int, false, true, diag.At(1, 5))
	require.NoError(t, err)

	_, err = tab.DefineVariable("x", tp.Float, false, true, diag.At(2, 5))
	require.Error(t, err)
	assert.Equal(t, diag.Redefinition, kindOf(t, err))
	assert.Contains(t, err.Error(), "1:5")

	tab.Enter(Block, "")

	sym, err := tab.DefineVariable("x", tp.Float, true, true, diag.At(3, 9))
	require.NoError(t, err)
	assert.Equal(t, 1, sym.Level)

	r, err := tab.Resolve("x")
	require.NoError(t, err)
	assert.Same(t, sym, r)

	assert.Equal(t, tp.Int, tab.Lookup("x", 0).Type)

	_, err = tab.Exit()
	require.NoError(t, err)

	r, err = tab.Resolve("x")
	require.NoError(t, err)
	assert.Equal(t, tp.Int, r.Type)
}

func TestResolveMissing(t *testing.T) {
	tab := New()

	_, err := tab.Resolve("nope")
	assert.Equal(t, diag.UndefinedVariable, kindOf(t, err))

	_, err = tab.ResolveFunction("nope")
	assert.Equal(t, diag.UndefinedFunction, kindOf(t, err))

	_, err = tab.DefineVariable("v", tp.Int, false, true, diag.Pos{})
	require.NoError(t, err)

	_, err = tab.ResolveFunction("v")
	assert.Equal(t, diag.UndefinedFunction, kindOf(t, err))
}

func TestExitGlobal(t *testing.T) {
	tab := New()

	s, err := tab.Exit()
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrGlobalScope)
	assert.Equal(t, 0, tab.Level())

	tab.Enter(FunctionScope, "f")
	assert.Equal(t, "f", tab.CurrentFunction())

	s, err = tab.Exit()
	require.NoError(t, err)
	assert.Equal(t, FunctionScope, s.Kind)
	assert.Equal(t, "", tab.CurrentFunction())
}

func TestMarksAndAssignable(t *testing.T) {
	tab := New()

	_, err := tab.DefineVariable("a", tp.Int, false, true, diag.Pos{})
	require.NoError(t, err)
	_, err = tab.DefineVariable("b", tp.Int, true, false, diag.Pos{})
	require.NoError(t, err)

	_, err = tab.CheckAssignable("a")
	assert.Equal(t, diag.Immutable, kindOf(t, err))

	sym, err := tab.CheckAssignable("b")
	require.NoError(t, err)
	assert.False(t, sym.Initialized)

	assert.True(t, tab.MarkInitialized("b"))
	assert.True(t, sym.Initialized)

	assert.True(t, tab.MarkUsed("a"))
	assert.False(t, tab.MarkUsed("zzz"))

	unused := tab.Unused()
	require.Len(t, unused, 1)
	assert.Equal(t, "b", unused[0].Name)
}

func TestRetainScopes(t *testing.T) {
	for _, retain := range []bool{false, true} {
		tab := New()
		tab.RetainScopes = retain

		_, err := tab.DefineFunction("f", nil, tp.Void, diag.At(1, 1))
		require.NoError(t, err)

		tab.Enter(FunctionScope, "f")

		_, err = tab.DefineVariable("local", tp.Int, true, false, diag.At(2, 5))
		require.NoError(t, err)

		_, err = tab.Exit()
		require.NoError(t, err)

		if retain {
			assert.Len(t, tab.Unused(), 1)
			assert.Len(t, tab.Uninitialized(), 1)
		} else {
			assert.Empty(t, tab.Unused())
			assert.Empty(t, tab.Uninitialized())
		}
	}
}

func TestTypesAndRegistries(t *testing.T) {
	tab := New()

	_, err := tab.DefineType("Point", tp.Struct{Name: "Point"}, diag.Pos{})
	require.NoError(t, err)

	tab.DefineStruct("Point", []Field{{Name: "x", Type: tp.Int}, {Name: "y", Type: tp.Float}})

	typ, err := tab.ResolveType("Point")
	require.NoError(t, err)
	assert.Equal(t, tp.Struct{Name: "Point"}, typ)

	typ, err = tab.ResolveType("int")
	require.NoError(t, err)
	assert.Equal(t, tp.Int, typ)

	_, err = tab.ResolveType("Nope")
	assert.Error(t, err)

	assert.True(t, tab.TypeExists("Point"))
	assert.False(t, tab.TypeExists("Nope"))

	ft, ok := tab.FieldType("Point", "y")
	assert.True(t, ok)
	assert.Equal(t, tp.Float, ft)

	_, ok = tab.FieldType("Point", "z")
	assert.False(t, ok)

	_, err = tab.DefineEnum("Color", []string{"Red", "Green"}, diag.Pos{})
	require.NoError(t, err)

	v, ok := tab.EnumVariants("Color")
	assert.True(t, ok)
	assert.Equal(t, []string{"Red", "Green"}, v)

	_, err = tab.DefineGeneric("Box", []string{"T"}, diag.Pos{})
	require.NoError(t, err)

	tab.Enter(StructScope, "Box")

	_, err = tab.DefineTypeParam("T", &tp.Constraint{Trait: "Show"}, diag.Pos{})
	require.NoError(t, err)

	typ, err = tab.ResolveType("T")
	require.NoError(t, err)
	assert.Equal(t, "T", typ.String())
	assert.Len(t, tab.Constraints("T"), 1)

	inst := tab.RegisterInstance("Box", []tp.Type{tp.Int})
	assert.Equal(t, "Box<int>", inst.String())
	assert.Equal(t, inst, tab.RegisterInstance("Box", []tp.Type{tp.Int}))

	tab.AddTraitImpl("Point", "Show")
	tab.AddTraitImpl("Point", "Show")
	assert.True(t, tab.Implements("Point", "Show"))
	assert.False(t, tab.Implements("Point", "Eq"))
}

func TestModuleMembers(t *testing.T) {
	tab := New()

	_, err := tab.DefineModule("io", diag.Pos{})
	require.NoError(t, err)

	tab.Enter(ModuleScope, "io")

	_, err = tab.DefineFunction("read_line", nil, tp.String, diag.Pos{})
	require.NoError(t, err)

	s, err := tab.Exit()
	require.NoError(t, err)

	tab.SetModuleMembers("io", s)

	sym, ok := tab.ModuleMember("io", "read_line")
	require.True(t, ok)
	assert.Equal(t, "fn() -> string", sym.Type.String())

	assert.False(t, tab.Contains("read_line"))
	assert.Contains(t, string(tab.Dump(nil)), "scope 0 global")
}
