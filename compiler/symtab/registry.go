package symtab

import (
	"strings"

	"github.com/sukur123/ravun/compiler/diag"
	"github.com/sukur123/ravun/compiler/tp"
)

type (
	StructDef struct {
		Name    string
		Fields  []Field
		Methods map[string]*Symbol

		Params []string // generic parameters
	}

	Field struct {
		Name string
		Type tp.Type
	}

	EnumDef struct {
		Name     string
		Variants []string
	}

	// Generic records a generic type declaration.
	// Instantiation and constraint checking are not resolved.
	Generic struct {
		Name   string
		Params []string
	}
)

func (t *Table) DefineStruct(name string, fields []Field) *StructDef {
	def := &StructDef{
		Name:    name,
		Fields:  fields,
		Methods: make(map[string]*Symbol),
	}

	t.structs[name] = def

	return def
}

func (t *Table) Struct(name string) (*StructDef, bool) {
	def, ok := t.structs[name]
	return def, ok
}

func (d *StructDef) Field(name string) (tp.Type, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}

	return nil, false
}

// FieldType returns the type of a struct field or method.
func (t *Table) FieldType(strct, name string) (tp.Type, bool) {
	def, ok := t.structs[strct]
	if !ok {
		return nil, false
	}

	if typ, ok := def.Field(name); ok {
		return typ, true
	}

	if m, ok := def.Methods[name]; ok {
		return m.Type, true
	}

	return nil, false
}

func (t *Table) AddMethod(strct string, sym *Symbol) bool {
	def, ok := t.structs[strct]
	if !ok {
		return false
	}

	def.Methods[sym.Name] = sym

	return true
}

func (t *Table) DefineEnum(name string, variants []string, pos diag.Pos) (*EnumDef, error) {
	_, err := t.DefineType(name, tp.Enum{Name: name}, pos)
	if err != nil {
		return nil, err
	}

	def := &EnumDef{Name: name, Variants: variants}
	t.enums[name] = def

	return def, nil
}

func (t *Table) EnumVariants(name string) ([]string, bool) {
	def, ok := t.enums[name]
	if !ok {
		return nil, false
	}

	return def.Variants, true
}

// SetModuleMembers records the final scope of module name
// so members stay reachable after the scope is exited.
func (t *Table) SetModuleMembers(name string, s *Scope) {
	t.modules[name] = s
}

func (t *Table) ModuleMember(mod, name string) (*Symbol, bool) {
	s, ok := t.modules[mod]
	if !ok {
		return nil, false
	}

	sym := s.Lookup(name)

	return sym, sym != nil
}

func (t *Table) DefineGeneric(name string, params []string, pos diag.Pos) (*Generic, error) {
	_, err := t.DefineType(name, tp.Struct{Name: name}, pos)
	if err != nil {
		return nil, err
	}

	g := &Generic{Name: name, Params: params}
	t.generics[name] = g

	return g, nil
}

func (t *Table) Generic(name string) (*Generic, bool) {
	g, ok := t.generics[name]
	return g, ok
}

func (t *Table) DefineTypeParam(name string, c *tp.Constraint, pos diag.Pos) (*Symbol, error) {
	sym := &Symbol{
		Name:        name,
		Type:        tp.Param{Name: name, Constraint: c},
		Kind:        TypeParameter,
		Pos:         pos,
		Initialized: true,
	}

	err := t.Define(sym)
	if err != nil {
		return nil, err
	}

	if c != nil {
		t.constraints[name] = append(t.constraints[name], *c)
	}

	return sym, nil
}

func (t *Table) Constraints(param string) []tp.Constraint {
	return t.constraints[param]
}

func (t *Table) AddTraitImpl(typ, trait string) {
	for _, tr := range t.traits[typ] {
		if tr == trait {
			return
		}
	}

	t.traits[typ] = append(t.traits[typ], trait)
}

func (t *Table) Implements(typ, trait string) bool {
	for _, tr := range t.traits[typ] {
		if tr == trait {
			return true
		}
	}

	return false
}

// RegisterInstance records generic instantiated with args
// and returns the instance type named like Box<int>.
func (t *Table) RegisterInstance(generic string, args []tp.Type) tp.Type {
	var b strings.Builder

	b.WriteString(generic)
	b.WriteByte('<')

	for i, a := range args {
		if i != 0 {
			b.WriteString(", ")
		}

		b.WriteString(a.String())
	}

	b.WriteByte('>')

	key := b.String()

	if typ, ok := t.instances[key]; ok {
		return typ
	}

	typ := tp.Struct{Name: key}
	t.instances[key] = typ

	return typ
}

func (t *Table) Instance(key string) (tp.Type, bool) {
	typ, ok := t.instances[key]
	return typ, ok
}
