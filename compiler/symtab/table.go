package symtab

import (
	"sort"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"github.com/sukur123/ravun/compiler/diag"
	"github.com/sukur123/ravun/compiler/tp"
)

type (
	// Table is a stack of lexical scopes.
	// The bottom Global scope is created by New and never popped.
	Table struct {
		scopes []*Scope

		// RetainScopes keeps popped scopes so Unused and Uninitialized
		// see the whole program and not only live scopes.
		RetainScopes bool
		closed       []*Scope

		funcs  []string
		strcts []string

		structs     map[string]*StructDef
		enums       map[string]*EnumDef
		modules     map[string]*Scope
		generics    map[string]*Generic
		constraints map[string][]tp.Constraint
		traits      map[string][]string
		instances   map[string]tp.Type
	}
)

var ErrGlobalScope = errors.New("global scope can't be exited")

var builtinTypes = map[string]tp.Type{
	"int":    tp.Int,
	"float":  tp.Float,
	"string": tp.String,
	"bool":   tp.Bool,
	"void":   tp.Void,
}

func New() *Table {
	return &Table{
		scopes:      []*Scope{newScope(0, Global, "")},
		structs:     make(map[string]*StructDef),
		enums:       make(map[string]*EnumDef),
		modules:     make(map[string]*Scope),
		generics:    make(map[string]*Generic),
		constraints: make(map[string][]tp.Constraint),
		traits:      make(map[string][]string),
		instances:   make(map[string]tp.Type),
	}
}

// Enter pushes a new empty scope.
// name is the function, struct or module the scope belongs to, if any.
func (t *Table) Enter(k ScopeKind, name string) *Scope {
	s := newScope(len(t.scopes), k, name)

	t.scopes = append(t.scopes, s)

	switch k {
	case FunctionScope:
		t.funcs = append(t.funcs, name)
	case StructScope, Impl:
		t.strcts = append(t.strcts, name)
	}

	return s
}

// Exit pops the innermost scope.
// The Global scope stays and ErrGlobalScope is returned.
func (t *Table) Exit() (*Scope, error) {
	if len(t.scopes) == 1 {
		return nil, ErrGlobalScope
	}

	last := len(t.scopes) - 1
	s := t.scopes[last]
	t.scopes = t.scopes[:last]

	switch s.Kind {
	case FunctionScope:
		t.funcs = t.funcs[:len(t.funcs)-1]
	case StructScope, Impl:
		t.strcts = t.strcts[:len(t.strcts)-1]
	}

	if t.RetainScopes {
		t.closed = append(t.closed, s)
	}

	return s, nil
}

func (t *Table) Level() int { return len(t.scopes) - 1 }

func (t *Table) Current() *Scope { return t.scopes[len(t.scopes)-1] }

func (t *Table) Global() *Scope { return t.scopes[0] }

// Scopes returns live scopes from outermost to innermost.
func (t *Table) Scopes() []*Scope { return t.scopes }

func (t *Table) CurrentFunction() string {
	if len(t.funcs) == 0 {
		return ""
	}

	return t.funcs[len(t.funcs)-1]
}

func (t *Table) CurrentStruct() string {
	if len(t.strcts) == 0 {
		return ""
	}

	return t.strcts[len(t.strcts)-1]
}

// Define inserts sym into the innermost scope.
// Shadowing outer scopes is allowed, redefinition in the same scope is not.
func (t *Table) Define(sym *Symbol) error {
	s := t.Current()

	if prev := s.Lookup(sym.Name); prev != nil {
		return diag.New(diag.Redefinition, sym.Pos, "'%s' already defined as %v at %d:%d",
			sym.Name, prev.Kind, prev.Pos.Line, prev.Pos.Col)
	}

	sym.Level = s.Level

	s.insert(sym)

	return nil
}

func (t *Table) DefineVariable(name string, typ tp.Type, mutable, initialized bool, pos diag.Pos) (*Symbol, error) {
	sym := &Symbol{
		Name:        name,
		Type:        typ,
		Kind:        Variable,
		Mutable:     mutable,
		Pos:         pos,
		Initialized: initialized,
	}

	return sym, t.Define(sym)
}

func (t *Table) DefineParameter(name string, typ tp.Type, pos diag.Pos) (*Symbol, error) {
	sym := &Symbol{
		Name:        name,
		Type:        typ,
		Kind:        Parameter,
		Pos:         pos,
		Initialized: true,
	}

	return sym, t.Define(sym)
}

func (t *Table) DefineFunction(name string, params []Param, ret tp.Type, pos diag.Pos) (*Symbol, error) {
	in := make([]tp.Type, len(params))

	for i, p := range params {
		in[i] = p.Type
	}

	sym := &Symbol{
		Name:        name,
		Type:        tp.Func{In: in, Out: ret},
		Kind:        Function,
		Pos:         pos,
		Initialized: true,
		Params:      params,
	}

	return sym, t.Define(sym)
}

func (t *Table) DefineType(name string, typ tp.Type, pos diag.Pos) (*Symbol, error) {
	sym := &Symbol{
		Name:        name,
		Type:        typ,
		Kind:        TypeSym,
		Pos:         pos,
		Initialized: true,
	}

	return sym, t.Define(sym)
}

func (t *Table) DefineModule(name string, pos diag.Pos) (*Symbol, error) {
	sym := &Symbol{
		Name:        name,
		Type:        tp.Module{Name: name},
		Kind:        ModuleSym,
		Pos:         pos,
		Initialized: true,
	}

	return sym, t.Define(sym)
}

// Resolve finds the innermost symbol named name.
func (t *Table) Resolve(name string) (*Symbol, error) {
	if sym := t.Lookup(name, t.Level()); sym != nil {
		return sym, nil
	}

	return nil, diag.New(diag.UndefinedVariable, diag.Pos{}, "'%s' is not defined", name)
}

// Lookup searches scopes with level <= maxLevel from the innermost out.
func (t *Table) Lookup(name string, maxLevel int) *Symbol {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		s := t.scopes[i]
		if s.Level > maxLevel {
			continue
		}

		if sym := s.Lookup(name); sym != nil {
			return sym
		}
	}

	return nil
}

func (t *Table) ResolveLocal(name string) *Symbol {
	return t.Current().Lookup(name)
}

func (t *Table) ResolveFunction(name string) (*Symbol, error) {
	sym := t.Lookup(name, t.Level())

	if sym == nil {
		return nil, diag.New(diag.UndefinedFunction, diag.Pos{}, "function '%s' is not defined", name)
	}

	if _, ok := sym.Type.(tp.Func); !ok {
		return nil, diag.New(diag.UndefinedFunction, diag.Pos{}, "'%s' is a %v, not a function", name, sym.Kind)
	}

	return sym, nil
}

func (t *Table) ResolveType(name string) (tp.Type, error) {
	if typ, ok := builtinTypes[name]; ok {
		return typ, nil
	}

	sym := t.Lookup(name, t.Level())

	if sym == nil || sym.Kind != TypeSym && sym.Kind != TypeParameter {
		return tp.Error, diag.New(diag.Other, diag.Pos{}, "type '%s' is not defined", name)
	}

	return sym.Type, nil
}

func (t *Table) MarkUsed(name string) bool {
	sym := t.Lookup(name, t.Level())
	if sym == nil {
		return false
	}

	sym.Used = true

	return true
}

func (t *Table) MarkInitialized(name string) bool {
	sym := t.Lookup(name, t.Level())
	if sym == nil {
		return false
	}

	sym.Initialized = true

	return true
}

// CheckAssignable resolves name and checks it may be assigned to.
func (t *Table) CheckAssignable(name string) (*Symbol, error) {
	sym, err := t.Resolve(name)
	if err != nil {
		return nil, err
	}

	if sym.Kind != Variable || !sym.Mutable {
		return sym, diag.New(diag.Immutable, diag.Pos{}, "cannot assign to immutable %v '%s' declared at %d:%d",
			sym.Kind, name, sym.Pos.Line, sym.Pos.Col)
	}

	return sym, nil
}

func (t *Table) Contains(name string) bool {
	return t.Lookup(name, t.Level()) != nil
}

func (t *Table) TypeExists(name string) bool {
	if _, ok := builtinTypes[name]; ok {
		return true
	}

	if _, ok := t.structs[name]; ok {
		return true
	}

	if _, ok := t.enums[name]; ok {
		return true
	}

	_, err := t.ResolveType(name)

	return err == nil
}

func (t *Table) visible() []*Scope {
	if !t.RetainScopes {
		return t.scopes
	}

	return append(t.closed[:len(t.closed):len(t.closed)], t.scopes...)
}

// All returns symbols of checked scopes ordered by position.
func (t *Table) All() []*Symbol {
	return t.collect(func(*Scope, *Symbol) bool { return true })
}

// Unused returns non-function symbols never marked used.
func (t *Table) Unused() []*Symbol {
	return t.collect(func(s *Scope, sym *Symbol) bool {
		return !sym.Used && !sym.Builtin && sym.Kind != Function && s.Kind != StructScope
	})
}

// Uninitialized returns variables never marked initialized.
func (t *Table) Uninitialized() []*Symbol {
	return t.collect(func(s *Scope, sym *Symbol) bool {
		return !sym.Initialized && !sym.Builtin && sym.Kind == Variable && s.Kind != StructScope
	})
}

func (t *Table) collect(f func(*Scope, *Symbol) bool) (r []*Symbol) {
	for _, s := range t.visible() {
		for _, sym := range s.order {
			if f(s, sym) {
				r = append(r, sym)
			}
		}
	}

	sort.SliceStable(r, func(i, j int) bool {
		return r[i].Pos.Less(r[j].Pos)
	})

	return r
}

// Dump renders live scopes, outermost first.
func (t *Table) Dump(b []byte) []byte {
	for _, s := range t.scopes {
		b = hfmt.Appendf(b, "scope %d %v", s.Level, s.Kind)
		if s.Name != "" {
			b = hfmt.Appendf(b, " %s", s.Name)
		}

		b = append(b, '\n')

		for _, sym := range s.order {
			mut := ""
			if sym.Mutable {
				mut = "mut "
			}

			b = hfmt.Appendf(b, "  %s%s: %v (%v) at %d:%d used=%v init=%v\n",
				mut, sym.Name, sym.Type, sym.Kind, sym.Pos.Line, sym.Pos.Col, sym.Used, sym.Initialized)
		}
	}

	return b
}
