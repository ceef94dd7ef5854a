package analyze

import (
	"strconv"

	"github.com/sukur123/ravun/compiler/ast"
	"github.com/sukur123/ravun/compiler/diag"
	"github.com/sukur123/ravun/compiler/lex"
	"github.com/sukur123/ravun/compiler/symtab"
	"github.com/sukur123/ravun/compiler/tp"
)

func (a *Analyzer) binary(n *ast.Node) tp.Type {
	switch n.Value {
	case "=", "+=", "-=", "*=", "/=":
		return a.assign(n)
	}

	l := a.visit(n.Children[0])
	r := a.visit(n.Children[1])

	if l == tp.Error || r == tp.Error {
		return tp.Error
	}

	var t tp.Type
	var err error

	switch n.Value {
	case "+", "-", "*", "/", "%", "^":
		t, err = tp.Arithmetic(l, r, n.Value)
	case "==", "!=", "<", ">", "<=", ">=":
		t, err = tp.Comparison(l, r, n.Value)
	default:
		a.errorf(diag.Other, n, "unknown operator '%s'", n.Value)
		return tp.Error
	}

	if err != nil {
		a.errorf(diag.TypeMismatch, n, "%v", err)
	}

	return t
}

func (a *Analyzer) assign(n *ast.Node) tp.Type {
	target, value := n.Children[0], n.Children[1]

	r := a.visit(value)

	var l tp.Type

	if target.Cat == ast.IdentifierExpr {
		sym, err := a.tab.CheckAssignable(target.Value)
		if err != nil {
			a.report(err, target)
			return tp.Error
		}

		l = sym.Type
	} else {
		l = a.visit(target)

		if root := rootIdent(target); root != nil {
			sym := a.tab.Lookup(root.Value, a.tab.Level())

			if sym != nil && (sym.Kind == symtab.Variable || sym.Kind == symtab.Parameter) && !sym.Mutable {
				a.errorf(diag.Immutable, target, "cannot assign through immutable %v '%s'", sym.Kind, sym.Name)
				return tp.Error
			}
		}
	}

	if l == tp.Error || r == tp.Error {
		return tp.Error
	}

	if n.Value == "=" {
		if !tp.Assignable(l, r) {
			a.errorf(diag.TypeMismatch, n, "cannot assign %v to %v", r, l)
		}
	} else {
		op := n.Value[:1]

		res, err := tp.Arithmetic(l, r, op)
		switch {
		case err != nil:
			a.errorf(diag.TypeMismatch, n, "%v", err)
		case !tp.Assignable(l, res):
			a.errorf(diag.TypeMismatch, n, "cannot assign %v to %v", res, l)
		}
	}

	if target.Cat == ast.IdentifierExpr {
		a.tab.MarkInitialized(target.Value)
	}

	return l
}

// rootIdent returns the identifier at the base of member and index chains.
func rootIdent(n *ast.Node) *ast.Node {
	for {
		switch n.Cat {
		case ast.IdentifierExpr:
			return n
		case ast.MemberExpr, ast.IndexExpr:
			n = n.Children[0]
		default:
			return nil
		}
	}
}

func (a *Analyzer) unary(n *ast.Node) tp.Type {
	t := a.visit(n.Children[0])

	switch {
	case t == tp.Error:
		return tp.Error
	case n.Value == "-" && (tp.IsNumeric(t) || t == tp.Any):
		return t
	}

	a.errorf(diag.TypeMismatch, n, "operator '%s' not valid for '%v'", n.Value, t)

	return tp.Error
}

func literal(n *ast.Node) tp.Type {
	if n.Tok == nil {
		return literalValue(n.Value)
	}

	switch n.Tok.Kind {
	case lex.IntLiteral:
		return tp.Int
	case lex.FloatLiteral:
		return tp.Float
	case lex.StringLiteral, lex.CharLiteral:
		return tp.String
	case lex.BoolLiteral:
		return tp.Bool
	default:
		panic("literal node with " + n.Tok.Kind.String() + " token")
	}
}

func literalValue(v string) tp.Type {
	if v == "true" || v == "false" {
		return tp.Bool
	}

	if _, err := strconv.ParseInt(v, 10, 64); err == nil {
		return tp.Int
	}

	if _, err := strconv.ParseFloat(v, 64); err == nil {
		return tp.Float
	}

	return tp.String
}

func (a *Analyzer) identifier(n *ast.Node) tp.Type {
	sym, err := a.tab.Resolve(n.Value)
	if err != nil {
		a.report(err, n)
		return tp.Error
	}

	sym.Used = true

	if sym.Kind == symtab.Variable && !sym.Initialized {
		a.errorf(diag.Uninitialized, n, "variable '%s' is used before initialization", n.Value)
	}

	return sym.Type
}

func (a *Analyzer) call(n *ast.Node) tp.Type {
	if n.Meta == ast.Method {
		return a.methodCall(n)
	}

	sym, err := a.tab.ResolveFunction(n.Value)
	if err != nil {
		a.report(err, n)
		return tp.Error
	}

	sym.Used = true

	return a.args(n, sym.Type.(tp.Func), n.Children)
}

// methodCall checks m.name(args) where m is a struct value or a module.
func (a *Analyzer) methodCall(n *ast.Node) tp.Type {
	t := a.visit(n.Children[0])

	switch f := t.(type) {
	case tp.Func:
		return a.args(n, f, n.Children[1:])
	}

	switch t {
	case tp.Error:
		return tp.Error
	case tp.Any:
		for _, c := range n.Children[1:] {
			a.visit(c)
		}

		return tp.Any
	}

	a.errorf(diag.TypeMismatch, n, "'%s' is %v, not a function", n.Value, t)

	return tp.Error
}

func (a *Analyzer) args(n *ast.Node, f tp.Func, nodes []*ast.Node) tp.Type {
	args := make([]tp.Type, len(nodes))

	for i, c := range nodes {
		args[i] = a.visit(c)
	}

	if len(args) != len(f.In) {
		a.errorf(diag.ArityMismatch, n, "'%s' takes %d arguments, %d given", n.Value, len(f.In), len(args))
		return f.Out
	}

	for i, at := range args {
		if at != tp.Error && !tp.Assignable(f.In[i], at) {
			a.errorf(diag.TypeMismatch, nodes[i], "argument %d of '%s': cannot use %v as %v", i+1, n.Value, at, f.In[i])
		}
	}

	return f.Out
}

func (a *Analyzer) member(n *ast.Node) tp.Type {
	obj := a.visit(n.Children[0])

	switch o := obj.(type) {
	case tp.Struct:
		if t, ok := a.tab.FieldType(o.Name, n.Value); ok {
			return t
		}

		a.errorf(diag.Other, n, "'%s' has no field or method '%s'", o.Name, n.Value)
	case tp.Module:
		if sym, ok := a.tab.ModuleMember(o.Name, n.Value); ok {
			sym.Used = true
			return sym.Type
		}

		a.errorf(diag.UndefinedVariable, n, "module '%s' has no member '%s'", o.Name, n.Value)
	default:
		switch obj {
		case tp.Error:
		case tp.Any:
			return tp.Any
		default:
			a.errorf(diag.TypeMismatch, n, "%v has no members", obj)
		}
	}

	return tp.Error
}

func (a *Analyzer) index(n *ast.Node) tp.Type {
	obj := a.visit(n.Children[0])
	idx := a.visit(n.Children[1])

	if obj == tp.Error || idx == tp.Error {
		return tp.Error
	}

	if !tp.Compatible(idx, tp.Int) {
		a.errorf(diag.TypeMismatch, n.Children[1], "index must be int, got %v", idx)
		return tp.Error
	}

	switch o := obj.(type) {
	case tp.Array:
		return o.Elem
	}

	switch obj {
	case tp.String:
		return tp.String
	case tp.Any:
		return tp.Any
	}

	a.errorf(diag.TypeMismatch, n, "cannot index %v", obj)

	return tp.Error
}

func (a *Analyzer) rangeExpr(n *ast.Node) tp.Type {
	lo := a.visit(n.Children[0])
	hi := a.visit(n.Children[1])

	if lo == tp.Error || hi == tp.Error {
		return tp.Error
	}

	if !tp.Compatible(lo, tp.Int) || !tp.Compatible(hi, tp.Int) {
		a.errorf(diag.TypeMismatch, n, "range bounds must be int, got %v and %v", lo, hi)
		return tp.Error
	}

	return tp.Array{Elem: tp.Int, Len: -1}
}
