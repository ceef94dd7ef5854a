package analyze

import (
	"github.com/sukur123/ravun/compiler/ast"
	"github.com/sukur123/ravun/compiler/diag"
	"github.com/sukur123/ravun/compiler/symtab"
	"github.com/sukur123/ravun/compiler/tp"
)

func (a *Analyzer) visit(n *ast.Node) tp.Type {
	switch n.Cat {
	case ast.Program:
		return a.program(n)
	case ast.VarDecl:
		return a.varDecl(n)
	case ast.FuncDecl:
		return a.funcDecl(n)
	case ast.TypeAnnotation:
		return a.typeAnnotation(n)
	case ast.StructDecl:
		return a.structDecl(n)
	case ast.ImplDecl:
		return a.implDecl(n)
	case ast.ModDecl:
		return a.modDecl(n)
	case ast.BlockStmt:
		return a.block(n)
	case ast.IfStmt:
		return a.ifStmt(n)
	case ast.WhileStmt:
		return a.whileStmt(n)
	case ast.ForStmt:
		return a.forStmt(n)
	case ast.ReturnStmt:
		return a.returnStmt(n)
	case ast.BreakStmt, ast.ContinueStmt:
		return a.loopControl(n)
	case ast.ExprStmt:
		a.visit(n.Children[0])
		return tp.Void
	case ast.BinaryExpr:
		return a.binary(n)
	case ast.UnaryExpr:
		return a.unary(n)
	case ast.LiteralExpr:
		return literal(n)
	case ast.IdentifierExpr:
		return a.identifier(n)
	case ast.GroupExpr:
		return a.visit(n.Children[0])
	case ast.CallExpr:
		return a.call(n)
	case ast.MemberExpr:
		return a.member(n)
	case ast.IndexExpr:
		return a.index(n)
	case ast.RangeExpr:
		return a.rangeExpr(n)
	default:
		a.report(&UnsupportedASTNodeError{Cat: n.Cat}, n)
		return tp.Error
	}
}

func (a *Analyzer) program(n *ast.Node) tp.Type {
	for _, c := range n.Children {
		a.visit(c)
	}

	entry := a.tab.Global().Lookup(a.opts.EntryPoint)

	if entry == nil || entry.Kind != symtab.Function {
		a.errorf(diag.MissingEntryPoint, n, "entry point function '%s' is not defined", a.opts.EntryPoint)
		return tp.Void
	}

	entry.Used = true

	return tp.Void
}

func (a *Analyzer) varDecl(n *ast.Node) tp.Type {
	var init *ast.Node
	typ := tp.Type(tp.Unknown)

	for _, c := range n.Children {
		if c.Cat == ast.TypeAnnotation {
			typ = a.visit(c)
		} else {
			init = c
		}
	}

	if init != nil {
		vt := a.visit(init)

		switch {
		case vt == tp.Error || typ == tp.Error:
			typ = tp.Error
		case vt == tp.Void:
			a.errorf(diag.TypeMismatch, init, "void value used to initialize '%s'", n.Value)

			if typ == tp.Unknown {
				typ = tp.Error
			}
		case typ == tp.Unknown:
			typ = vt
		case !tp.Assignable(typ, vt):
			a.errorf(diag.TypeMismatch, init, "cannot use %v as %v in declaration of '%s'", vt, typ, n.Value)
		}
	}

	if typ == tp.Unknown {
		a.errorf(diag.Other, n, "type of '%s' is not specified and can't be inferred", n.Value)
		typ = tp.Error
	}

	_, err := a.tab.DefineVariable(n.Value, typ, n.IsMutable(), init != nil, pos(n))
	if err != nil {
		a.report(err, n)
	}

	return typ
}

func (a *Analyzer) typeAnnotation(n *ast.Node) tp.Type {
	return a.resolveType(tp.FromName(n.Value), n)
}

// resolveType checks named types in t are defined.
func (a *Analyzer) resolveType(t tp.Type, n *ast.Node) tp.Type {
	switch t := t.(type) {
	case tp.Struct:
		sym := a.tab.Lookup(t.Name, a.tab.Level())
		if sym == nil || sym.Kind != symtab.TypeSym && sym.Kind != symtab.TypeParameter {
			a.errorf(diag.Other, n, "type '%s' is not defined", t.Name)
			return tp.Error
		}

		sym.Used = true

		return sym.Type
	case tp.Array:
		if t.Elem = a.resolveType(t.Elem, n); t.Elem == tp.Error {
			return tp.Error
		}

		return t
	case tp.Optional:
		if t.Elem = a.resolveType(t.Elem, n); t.Elem == tp.Error {
			return tp.Error
		}

		return t
	case tp.Ref:
		if t.Elem = a.resolveType(t.Elem, n); t.Elem == tp.Error {
			return tp.Error
		}

		return t
	}

	if t == tp.Unknown {
		a.errorf(diag.Other, n, "unknown type '%s'", n.Value)
		return tp.Error
	}

	return t
}

func (a *Analyzer) funcDecl(n *ast.Node) tp.Type {
	var params []symtab.Param
	var body *ast.Node
	var pnodes []*ast.Node
	ret := tp.Type(tp.Void)

	for _, c := range n.Children {
		switch c.Cat {
		case ast.ParamDecl:
			params = append(params, symtab.Param{Name: c.Value, Type: a.paramType(c)})
			pnodes = append(pnodes, c)
		case ast.TypeAnnotation:
			ret = a.visit(c)
		case ast.BlockStmt:
			body = c
		}
	}

	var typ tp.Type

	sym, err := a.tab.DefineFunction(n.Value, params, ret, pos(n))
	if err != nil {
		// the body is still checked against its own signature
		a.report(err, n)

		f := tp.Func{Out: ret}
		for _, p := range params {
			f.In = append(f.In, p.Type)
		}

		typ = f
	} else {
		typ = sym.Type

		if s := a.tab.Current(); s.Kind == symtab.Impl {
			a.tab.AddMethod(s.Name, sym)
		}
	}

	if body == nil {
		return typ
	}

	a.enter(symtab.FunctionScope, n.Value)

	for i, p := range params {
		if _, err := a.tab.DefineParameter(p.Name, p.Type, pos(pnodes[i])); err != nil {
			a.report(err, pnodes[i])
		}
	}

	ret0, loop0 := a.ret, a.inLoop
	a.ret, a.inLoop = ret, false

	a.visit(body)

	a.ret, a.inLoop = ret0, loop0

	a.exit()

	return typ
}

func (a *Analyzer) paramType(n *ast.Node) tp.Type {
	if len(n.Children) == 0 || n.Children[0].Cat != ast.TypeAnnotation {
		a.errorf(diag.Other, n, "parameter '%s' has no type", n.Value)
		return tp.Error
	}

	return a.visit(n.Children[0])
}

func (a *Analyzer) structDecl(n *ast.Node) tp.Type {
	typ := tp.Struct{Name: n.Value}

	if _, err := a.tab.DefineType(n.Value, typ, pos(n)); err != nil {
		a.report(err, n)
		return tp.Error
	}

	fields := make([]symtab.Field, 0, len(n.Children))

	a.enter(symtab.StructScope, n.Value)

	for _, c := range n.Children {
		fields = append(fields, symtab.Field{Name: c.Value, Type: a.visit(c)})
	}

	a.exit()

	a.tab.DefineStruct(n.Value, fields)

	if a.CheckRecursiveTypes(n.Value) {
		a.errorf(diag.Other, n, "struct '%s' contains itself", n.Value)
	}

	return typ
}

func (a *Analyzer) implDecl(n *ast.Node) tp.Type {
	sym := a.tab.Lookup(n.Value, a.tab.Level())
	if sym == nil || sym.Kind != symtab.TypeSym {
		a.errorf(diag.Other, n, "impl for undefined type '%s'", n.Value)
		return tp.Error
	}

	sym.Used = true

	a.enter(symtab.Impl, n.Value)

	for _, c := range n.Children {
		a.visit(c)
	}

	a.exit()

	return tp.Void
}

func (a *Analyzer) modDecl(n *ast.Node) tp.Type {
	sym, err := a.tab.DefineModule(n.Value, pos(n))
	if err != nil {
		a.report(err, n)
		return tp.Error
	}

	a.enter(symtab.ModuleScope, n.Value)

	for _, c := range n.Children {
		a.visit(c)
	}

	if s := a.exit(); s != nil {
		a.tab.SetModuleMembers(n.Value, s)
	}

	return sym.Type
}
