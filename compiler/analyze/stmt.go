package analyze

import (
	"github.com/sukur123/ravun/compiler/ast"
	"github.com/sukur123/ravun/compiler/diag"
	"github.com/sukur123/ravun/compiler/symtab"
	"github.com/sukur123/ravun/compiler/tp"
)

func (a *Analyzer) block(n *ast.Node) tp.Type {
	a.enter(symtab.Block, "")

	for _, c := range n.Children {
		a.visit(c)
	}

	a.exit()

	return tp.Void
}

func (a *Analyzer) condition(n *ast.Node, stmt string) {
	t := a.visit(n)

	if t != tp.Error && !tp.Compatible(t, tp.Bool) {
		a.errorf(diag.TypeMismatch, n, "%s condition must be bool, got %v", stmt, t)
	}
}

func (a *Analyzer) ifStmt(n *ast.Node) tp.Type {
	a.condition(n.Children[0], "if")

	for _, arm := range n.Children[1:] {
		a.enter(symtab.If, "")
		a.visit(arm)
		a.exit()
	}

	return tp.Void
}

func (a *Analyzer) whileStmt(n *ast.Node) tp.Type {
	a.condition(n.Children[0], "while")

	a.enter(symtab.Loop, "")

	loop0 := a.inLoop
	a.inLoop = true

	a.visit(n.Children[1])

	a.inLoop = loop0

	a.exit()

	return tp.Void
}

func (a *Analyzer) forStmt(n *ast.Node) tp.Type {
	v, iter, body := n.Children[0], n.Children[1], n.Children[2]

	a.enter(symtab.Loop, "")

	var elem tp.Type

	switch it := a.visit(iter).(type) {
	case tp.Array:
		elem = it.Elem
	default:
		switch it {
		case tp.String:
			elem = tp.String
		case tp.Any, tp.Error:
			elem = it
		default:
			a.errorf(diag.TypeMismatch, iter, "cannot iterate over %v", it)
			elem = tp.Error
		}
	}

	if _, err := a.tab.DefineVariable(v.Value, elem, false, true, pos(v)); err != nil {
		a.report(err, v)
	}

	loop0 := a.inLoop
	a.inLoop = true

	a.visit(body)

	a.inLoop = loop0

	a.exit()

	return tp.Void
}

func (a *Analyzer) returnStmt(n *ast.Node) tp.Type {
	var t tp.Type = tp.Void

	if len(n.Children) != 0 {
		t = a.visit(n.Children[0])
	}

	switch {
	case a.ret == nil:
		a.errorf(diag.InvalidReturn, n, "return outside of function")
	case t == tp.Error || a.ret == tp.Error:
	case !tp.Assignable(a.ret, t):
		a.errorf(diag.InvalidReturn, n, "cannot return %v from function '%s' returning %v", t, a.tab.CurrentFunction(), a.ret)
	}

	return t
}

func (a *Analyzer) loopControl(n *ast.Node) tp.Type {
	if !a.inLoop {
		kw := "break"
		if n.Cat == ast.ContinueStmt {
			kw = "continue"
		}

		a.errorf(diag.InvalidLoopControl, n, "%s outside of loop", kw)
	}

	return tp.Void
}
