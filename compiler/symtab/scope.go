package symtab

import (
	"tlog.app/go/tlog/tlwire"

	"github.com/sukur123/ravun/compiler/diag"
	"github.com/sukur123/ravun/compiler/tp"
)

type (
	SymbolKind int
	ScopeKind  int

	Symbol struct {
		Name string
		Type tp.Type
		Kind SymbolKind

		Mutable bool
		Level   int
		Pos     diag.Pos

		Used        bool
		Initialized bool

		Params []Param // functions only

		// Builtin symbols come from the prelude and are never reported.
		Builtin bool
	}

	Param struct {
		Name string
		Type tp.Type
	}

	Scope struct {
		Level int
		Kind  ScopeKind
		Name  string

		syms  map[string]*Symbol
		order []*Symbol
	}
)

const (
	Variable SymbolKind = iota
	Function
	Parameter
	TypeSym
	ModuleSym
	TypeParameter
)

const (
	Global ScopeKind = iota
	FunctionScope
	Block
	Loop
	If
	StructScope
	Impl
	ModuleScope
)

var symbolKindNames = []string{
	Variable:      "variable",
	Function:      "function",
	Parameter:     "parameter",
	TypeSym:       "type",
	ModuleSym:     "module",
	TypeParameter: "type parameter",
}

var scopeKindNames = []string{
	Global:        "global",
	FunctionScope: "function",
	Block:         "block",
	Loop:          "loop",
	If:            "if",
	StructScope:   "struct",
	Impl:          "impl",
	ModuleScope:   "module",
}

func newScope(level int, k ScopeKind, name string) *Scope {
	return &Scope{
		Level: level,
		Kind:  k,
		Name:  name,
		syms:  make(map[string]*Symbol),
	}
}

func (k SymbolKind) String() string {
	if k >= 0 && int(k) < len(symbolKindNames) {
		return symbolKindNames[k]
	}

	return "symbol?"
}

func (k ScopeKind) String() string {
	if k >= 0 && int(k) < len(scopeKindNames) {
		return scopeKindNames[k]
	}

	return "scope?"
}

func (s *Scope) Lookup(name string) *Symbol {
	return s.syms[name]
}

// Symbols returns the scope symbols in definition order.
func (s *Scope) Symbols() []*Symbol {
	return s.order
}

func (s *Scope) Len() int { return len(s.order) }

func (s *Scope) insert(sym *Symbol) {
	s.syms[sym.Name] = sym
	s.order = append(s.order, sym)
}

func (s *Scope) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	b = e.AppendMap(b, 3)

	b = e.AppendKeyInt(b, "level", s.Level)

	b = e.AppendString(b, "kind")
	b = e.AppendString(b, s.Kind.String())

	b = e.AppendKeyInt(b, "symbols", len(s.order))

	return b
}
