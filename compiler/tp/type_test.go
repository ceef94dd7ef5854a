package tp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromName(t *testing.T) {
	for _, tc := range []struct {
		In  string
		Out Type
	}{
		{"int", Int},
		{"float", Float},
		{"string", String},
		{"bool", Bool},
		{"void", Void},
		{"int[3]", Array{Elem: Int, Len: 3}},
		{"float[]", Array{Elem: Float, Len: -1}},
		{"&int", Ref{Elem: Int}},
		{"int?", Optional{Elem: Int}},
		{"Point", Struct{Name: "Point"}},
		{"Point[2]", Array{Elem: Struct{Name: "Point"}, Len: 2}},
		{"thing", Unknown},
		{"", Unknown},
	} {
		assert.True(t, Equal(tc.Out, FromName(tc.In)), "%q: %v", tc.In, FromName(tc.In))
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "fn(int, float) -> bool", Func{In: []Type{Int, Float}, Out: Bool}.String())
	assert.Equal(t, "int[4]", Array{Elem: Int, Len: 4}.String())
	assert.Equal(t, "string[]", Array{Elem: String, Len: -1}.String())
	assert.Equal(t, "module:io", Module{Name: "io"}.String())
	assert.Equal(t, "&int?", Optional{Elem: Ref{Elem: Int}}.String())
	assert.Equal(t, "(int, bool)", Tuple{Elems: []Type{Int, Bool}}.String())
	assert.Equal(t, "any", Any.String())
}

func TestSize(t *testing.T) {
	assert.Equal(t, 4, Int.Size())
	assert.Equal(t, 8, Float.Size())
	assert.Equal(t, 1, Bool.Size())
	assert.Equal(t, 0, String.Size())
	assert.Equal(t, 8, Func{Out: Void}.Size())
	assert.Equal(t, 8, Ref{Elem: Bool}.Size())
	assert.Equal(t, 5, Optional{Elem: Int}.Size())
	assert.Equal(t, 12, Array{Elem: Int, Len: 3}.Size())
	assert.Equal(t, 0, Array{Elem: Int, Len: -1}.Size())
}

func TestCompatible(t *testing.T) {
	for _, tc := range []struct {
		V, T Type
		OK   bool
	}{
		{Int, Int, true},
		{Int, Float, true},
		{Float, Int, false},
		{String, Int, false},
		{Any, Int, true},
		{Bool, Any, true},
		{Null, Optional{Elem: Int}, true},
		{Null, Int, false},
		{Optional{Elem: Int}, Int, true},
		{Int, Optional{Elem: Int}, true},
		{Int, Optional{Elem: Float}, true},
		{Ref{Elem: Int}, Ref{Elem: Float}, true},
		{Ref{Elem: Float}, Ref{Elem: Int}, false},
		{Array{Elem: Int, Len: 3}, Array{Elem: Int, Len: -1}, true},
		{Array{Elem: Int, Len: 3}, Array{Elem: String, Len: 3}, false},
		{Func{In: []Type{Int}, Out: Int}, Func{In: []Type{Float}, Out: Float}, true},
		{Func{In: []Type{Int}, Out: Int}, Func{In: []Type{Int, Int}, Out: Int}, false},
		{Param{Name: "T"}, Param{Name: "T"}, true},
		{Param{Name: "T"}, Param{Name: "U"}, false},
		{Struct{Name: "A"}, Struct{Name: "B"}, false},
		{Struct{Name: "A"}, Struct{Name: "A"}, true},
	} {
		assert.Equal(t, tc.OK, Compatible(tc.V, tc.T), "%v -> %v", tc.V, tc.T)
		assert.Equal(t, tc.OK, Assignable(tc.T, tc.V), "%v <- %v", tc.T, tc.V)
	}
}

func TestArithmetic(t *testing.T) {
	for _, tc := range []struct {
		L, R Type
		Op   string
		Out  Type
	}{
		{Int, Int, "+", Int},
		{Int, Int, "%", Int},
		{Float, Float, "*", Float},
		{Int, Float, "-", Float},
		{Float, Int, "/", Float},
		{Int, Int, "^", Int},
		{String, String, "+", String},
		{Any, Bool, "+", Bool},
		{Bool, Any, "+", Bool},
		{Param{Name: "T"}, Int, "+", Int},
		{String, Param{Name: "T"}, "*", String},
	} {
		r, err := Arithmetic(tc.L, tc.R, tc.Op)
		if assert.NoError(t, err, "%v %s %v", tc.L, tc.Op, tc.R) {
			assert.True(t, Equal(tc.Out, r), "%v %s %v = %v", tc.L, tc.Op, tc.R, r)
		}
	}

	for _, tc := range []struct {
		L, R Type
		Op   string
	}{
		{String, String, "-"},
		{String, Int, "+"},
		{Bool, Bool, "+"},
		{Param{Name: "T"}, Int, "%"},
		{Int, Int, "=="},
	} {
		r, err := Arithmetic(tc.L, tc.R, tc.Op)
		assert.Equal(t, Error, r)

		var me *MismatchError
		require.ErrorAs(t, err, &me)
		assert.Equal(t, tc.Op, me.Op)
	}

	_, err := Arithmetic(String, Int, "+")
	assert.EqualError(t, err, "operator '+' not valid for 'string' and 'int'")
}

func TestComparison(t *testing.T) {
	ok := func(l, r Type, op string) {
		t.Helper()

		res, err := Comparison(l, r, op)
		assert.NoError(t, err, "%v %s %v", l, op, r)
		assert.Equal(t, Bool, res)
	}

	bad := func(l, r Type, op string) {
		t.Helper()

		_, err := Comparison(l, r, op)
		assert.Error(t, err, "%v %s %v", l, op, r)
	}

	ok(Int, Int, "==")
	ok(Int, Float, "!=")
	ok(Float, Int, "==")
	ok(Any, Struct{Name: "A"}, "<")
	ok(Int, Float, "<")
	ok(String, String, ">=")
	ok(Param{Name: "T"}, Int, "<")

	bad(Int, String, "==")
	bad(Bool, Bool, "<")
	bad(String, Int, ">")
}
