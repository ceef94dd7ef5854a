package analyze

import (
	"context"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/tlog"

	"github.com/sukur123/ravun/compiler/ast"
	"github.com/sukur123/ravun/compiler/diag"
	"github.com/sukur123/ravun/compiler/symtab"
	"github.com/sukur123/ravun/compiler/tp"
)

type (
	Options struct {
		// EntryPoint is the function required at Global scope. Default is main.
		EntryPoint string

		// RetainScopes makes unused and uninitialized checks cover popped scopes.
		RetainScopes bool
	}

	Analyzer struct {
		opts Options

		tab *symtab.Table

		ret    tp.Type // return type of the current function, nil at top level
		inLoop bool

		diags diag.List

		tr tlog.Span
	}

	UnsupportedASTNodeError struct {
		Cat ast.Category
	}
)

func New(opts Options) *Analyzer {
	if opts.EntryPoint == "" {
		opts.EntryPoint = "main"
	}

	a := &Analyzer{opts: opts}
	a.Reset()

	return a
}

// Reset drops diagnostics and recreates the symbol table.
// Prelude symbols have to be loaded again.
func (a *Analyzer) Reset() {
	a.tab = symtab.New()
	a.tab.RetainScopes = a.opts.RetainScopes

	a.ret = nil
	a.inLoop = false
	a.diags = nil
}

func (a *Analyzer) Table() *symtab.Table { return a.tab }

func (a *Analyzer) Diagnostics() diag.List { return a.diags }

// Analyze checks prog and returns all diagnostics found.
func (a *Analyzer) Analyze(ctx context.Context, prog *ast.Node) diag.List {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "analyze", "entry", a.opts.EntryPoint)
	defer tr.Finish()

	a.tr = tr
	defer func() { a.tr = tlog.Span{} }()

	a.diags = nil

	a.visit(prog)

	a.closingChecks()

	if tr.If("diagnostics") {
		for _, d := range a.diags {
			tr.Printw("diagnostic", "d", d)
		}
	}

	tr.Printw("analyzed", "errors", len(a.diags.Errors()), "warnings", len(a.diags.Warnings()))

	return a.diags
}

// AnalyzeWithReports reports whether prog is accepted, which is
// when there are no diagnostics other than warnings.
func (a *Analyzer) AnalyzeWithReports(ctx context.Context, prog *ast.Node) (bool, diag.List) {
	l := a.Analyze(ctx, prog)

	return !l.HasErrors(), l
}

func (a *Analyzer) closingChecks() {
	for _, s := range a.tab.Unused() {
		if s.Kind == symtab.Function && s.Name == a.opts.EntryPoint {
			continue
		}

		a.diags = append(a.diags, diag.Warn(diag.Unused, s.Pos, "%v '%s' is declared but never used", s.Kind, s.Name))
	}

	for _, s := range a.tab.Uninitialized() {
		a.diags = append(a.diags, diag.New(diag.Uninitialized, s.Pos, "variable '%s' is never initialized", s.Name))
	}
}

func (a *Analyzer) errorf(k diag.Kind, n *ast.Node, f string, args ...any) {
	a.diags = append(a.diags, diag.New(k, pos(n), f, args...))
}

// report records err found at n.
// Symbol table diagnostics get the node position if they have none.
func (a *Analyzer) report(err error, n *ast.Node) {
	d, ok := err.(*diag.Diagnostic)
	if !ok {
		d = diag.New(diag.Other, pos(n), "%v", err)
	}

	if d.Pos == (diag.Pos{}) {
		d.Pos = pos(n)
	}

	a.diags = append(a.diags, d)
}

func (a *Analyzer) enter(k symtab.ScopeKind, name string) {
	s := a.tab.Enter(k, name)

	a.tr.V("scope").Printw("enter scope", "scope", s, "name", name)
}

func (a *Analyzer) exit() *symtab.Scope {
	s, err := a.tab.Exit()
	if err != nil {
		a.diags = append(a.diags, diag.Warn(diag.Other, diag.Pos{}, "%v", err))
		return nil
	}

	a.tr.V("scope").Printw("exit scope", "scope", s)

	return s
}

func pos(n *ast.Node) diag.Pos {
	if n == nil {
		return diag.Pos{}
	}

	return diag.At(n.Line, n.Col)
}

func (e *UnsupportedASTNodeError) Error() string {
	return string(hfmt.Appendf(nil, "unsupported node: %v", e.Cat))
}
