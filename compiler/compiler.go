package compiler

import (
	"context"
	"os"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/sukur123/ravun/compiler/analyze"
	"github.com/sukur123/ravun/compiler/ast"
	"github.com/sukur123/ravun/compiler/diag"
	"github.com/sukur123/ravun/compiler/lex"
	"github.com/sukur123/ravun/compiler/parse"
)

type (
	Config struct {
		EntryPoint string

		// Prelude loads std functions and std modules before analysis.
		Prelude bool

		RetainScopes bool

		// Warnings are rendered by the driver if set.
		Warnings bool
	}

	FrontEnd struct {
		cfg Config

		an *analyze.Analyzer
	}

	Result struct {
		Name string

		Tokens  []lex.Token
		Program *ast.Node

		Diagnostics diag.List
	}

	// StageError is returned when a stage found errors
	// and the pipeline stopped after it.
	StageError struct {
		Stage diag.Stage
		Diags diag.List
	}
)

func DefaultConfig() Config {
	return Config{
		EntryPoint: "main",
		Prelude:    true,
		Warnings:   true,
	}
}

func New(cfg Config) *FrontEnd {
	if cfg.EntryPoint == "" {
		cfg.EntryPoint = "main"
	}

	return &FrontEnd{
		cfg: cfg,
		an: analyze.New(analyze.Options{
			EntryPoint:   cfg.EntryPoint,
			RetainScopes: cfg.RetainScopes,
		}),
	}
}

func (f *FrontEnd) Config() Config { return f.cfg }

// Reset prepares analyzer state for a new file.
func (f *FrontEnd) Reset() error {
	f.an.Reset()

	if !f.cfg.Prelude {
		return nil
	}

	err := f.an.LoadStdLibrary()
	if err != nil {
		return errors.Wrap(err, "std library")
	}

	err = f.an.LoadStdModules()
	if err != nil {
		return errors.Wrap(err, "std modules")
	}

	return nil
}

func (f *FrontEnd) CompileFile(ctx context.Context, name string) (*Result, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return f.Compile(ctx, name, text)
}

// Compile runs all the stages over text.
// Result is returned even if err != nil and holds what was produced so far.
// Errors found in the source are reported as *StageError.
func (f *FrontEnd) Compile(ctx context.Context, name string, text []byte) (res *Result, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "compile", "name", name)
	defer tr.Finish("err", &err)

	res = &Result{Name: name}

	res.Tokens = lex.Tokenize(text)

	invalid := map[diag.Pos]struct{}{}

	for _, t := range res.Tokens {
		if t.Kind != lex.Invalid {
			continue
		}

		p := diag.At(t.Line, t.Col)
		invalid[p] = struct{}{}

		res.Diagnostics = append(res.Diagnostics, &diag.Diagnostic{
			Stage: diag.Lexical,
			Kind:  diag.InvalidToken,
			Pos:   p,
			Msg:   string(hfmt.Appendf(nil, "invalid token %q", t.Text)),
		})
	}

	if tr.If("lex_tokens") {
		for _, t := range res.Tokens {
			tr.Printw("token", "tok", t)
		}
	}

	tr.Printw("lexed", "tokens", len(res.Tokens), "invalid", len(invalid))

	prog, err := parse.Parse(ctx, res.Tokens)
	if err != nil {
		es, ok := err.(parse.Errors)
		if !ok {
			return res, errors.Wrap(err, "parse")
		}

		for _, d := range es.Diagnostics() {
			if _, ok := invalid[d.Pos]; ok {
				continue
			}

			res.Diagnostics = append(res.Diagnostics, d)
		}
	}

	if len(invalid) != 0 {
		return res, &StageError{Stage: diag.Lexical, Diags: res.Diagnostics}
	}

	if prog == nil {
		return res, &StageError{Stage: diag.Syntax, Diags: res.Diagnostics}
	}

	res.Program = prog

	err = f.Reset()
	if err != nil {
		return res, errors.Wrap(err, "reset")
	}

	res.Diagnostics = append(res.Diagnostics, f.an.Analyze(ctx, prog)...)

	if res.Diagnostics.HasErrors() {
		return res, &StageError{Stage: diag.Semantic, Diags: res.Diagnostics}
	}

	return res, nil
}

// Accepted reports whether the program passed all the stages.
func (r *Result) Accepted() bool {
	return r != nil && r.Program != nil && !r.Diagnostics.HasErrors()
}

func (e *StageError) Error() string {
	n := len(e.Diags.Errors())

	return string(hfmt.Appendf(nil, "%v stage: %d error(s)", e.Stage, n))
}
