package analyze

import (
	"tlog.app/go/errors"

	"github.com/sukur123/ravun/compiler/diag"
	"github.com/sukur123/ravun/compiler/symtab"
	"github.com/sukur123/ravun/compiler/tp"
)

type (
	builtinFunc struct {
		Name   string
		Params []symtab.Param
		Out    tp.Type
	}

	stdModule struct {
		Name  string
		Funcs []builtinFunc
		Types []string
	}
)

var stdFuncs = []builtinFunc{
	{Name: "println", Params: []symtab.Param{{Name: "message", Type: tp.String}}, Out: tp.Void},
	{Name: "print", Params: []symtab.Param{{Name: "message", Type: tp.String}}, Out: tp.Void},
}

var stdModules = []stdModule{{
	Name: "io",
	Funcs: []builtinFunc{
		{Name: "read_line", Out: tp.String},
		{Name: "read_int", Out: tp.Int},
	},
	Types: []string{"File"},
}, {
	Name:  "collections",
	Types: []string{"Vector", "Map"},
}, {
	Name: "core",
	Funcs: []builtinFunc{
		{Name: "to_string", Params: []symtab.Param{{Name: "value", Type: tp.Any}}, Out: tp.String},
		{Name: "parse", Params: []symtab.Param{{Name: "str", Type: tp.String}}, Out: tp.Any},
	},
}, {
	Name: "parallel",
	Funcs: []builtinFunc{
		{Name: "spawn", Params: []symtab.Param{{Name: "f", Type: tp.Func{Out: tp.Void}}}, Out: tp.Struct{Name: "Thread"}},
	},
	Types: []string{"Thread"},
}}

// LoadStdLibrary defines builtin functions in the current scope.
func (a *Analyzer) LoadStdLibrary() error {
	for _, f := range stdFuncs {
		if err := a.defineBuiltin(f); err != nil {
			return errors.Wrap(err, "define %v", f.Name)
		}
	}

	return nil
}

// LoadStdModules defines std modules and records their members.
func (a *Analyzer) LoadStdModules() error {
	for _, m := range stdModules {
		if err := a.loadModule(m); err != nil {
			return errors.Wrap(err, "module %v", m.Name)
		}
	}

	return nil
}

func (a *Analyzer) loadModule(m stdModule) error {
	sym, err := a.tab.DefineModule(m.Name, diag.Pos{})
	if err != nil {
		return err
	}

	sym.Builtin = true

	a.tab.Enter(symtab.ModuleScope, m.Name)

	for _, name := range m.Types {
		sym, err := a.tab.DefineType(name, tp.Struct{Name: name}, diag.Pos{})
		if err != nil {
			return err
		}

		sym.Builtin = true

		a.tab.DefineStruct(name, nil)
	}

	for _, f := range m.Funcs {
		if err := a.defineBuiltin(f); err != nil {
			return errors.Wrap(err, "define %v", f.Name)
		}
	}

	s, err := a.tab.Exit()
	if err != nil {
		return err
	}

	a.tab.SetModuleMembers(m.Name, s)

	return nil
}

func (a *Analyzer) defineBuiltin(f builtinFunc) error {
	sym, err := a.tab.DefineFunction(f.Name, f.Params, f.Out, diag.Pos{})
	if err != nil {
		return err
	}

	sym.Builtin = true

	return nil
}

// ImportModule registers an empty module named name.
// Module contents are not loaded.
func (a *Analyzer) ImportModule(name string) error {
	if _, err := a.tab.DefineModule(name, diag.Pos{}); err != nil {
		return err
	}

	a.tab.Enter(symtab.ModuleScope, name)

	s, err := a.tab.Exit()
	if err != nil {
		return err
	}

	a.tab.SetModuleMembers(name, s)

	return nil
}

// ResolveGenericType substitutes args for the type parameters of generic in t.
// Parameters without an argument become Unknown.
func (a *Analyzer) ResolveGenericType(generic string, t tp.Type, args []tp.Type) tp.Type {
	g, ok := a.tab.Generic(generic)
	if !ok {
		return t
	}

	var sub func(t tp.Type) tp.Type

	sub = func(t tp.Type) tp.Type {
		switch t := t.(type) {
		case tp.Param:
			for i, p := range g.Params {
				if p == t.Name && i < len(args) {
					return args[i]
				}
			}

			return tp.Unknown
		case tp.Array:
			return tp.Array{Elem: sub(t.Elem), Len: t.Len}
		case tp.Optional:
			return tp.Optional{Elem: sub(t.Elem)}
		case tp.Ref:
			return tp.Ref{Elem: sub(t.Elem)}
		case tp.Func:
			in := make([]tp.Type, len(t.In))

			for i, x := range t.In {
				in[i] = sub(x)
			}

			return tp.Func{In: in, Out: sub(t.Out)}
		default:
			return t
		}
	}

	return sub(t)
}

// CheckRecursiveTypes reports whether struct name contains itself by value.
func (a *Analyzer) CheckRecursiveTypes(name string) bool {
	return a.recursive(name, map[string]bool{})
}

func (a *Analyzer) recursive(name string, visiting map[string]bool) bool {
	if visiting[name] {
		return true
	}

	def, ok := a.tab.Struct(name)
	if !ok {
		return false
	}

	visiting[name] = true
	defer delete(visiting, name)

	for _, f := range def.Fields {
		if s, ok := f.Type.(tp.Struct); ok && a.recursive(s.Name, visiting) {
			return true
		}
	}

	return false
}
