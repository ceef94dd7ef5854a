package main

import (
	"context"
	"os"

	"github.com/nikandfor/hacked/hfmt"
	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/sukur123/ravun/compiler"
	"github.com/sukur123/ravun/compiler/diag"
	"github.com/sukur123/ravun/compiler/format"
	"github.com/sukur123/ravun/compiler/lex"
	"github.com/sukur123/ravun/compiler/parse"
)

func main() {
	tokensCmd := &cli.Command{
		Name:        "tokens",
		Description: "print tokens of the file",
		Action:      tokensAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("comments", false, "keep comments"),
		},
	}

	parseCmd := &cli.Command{
		Name:        "parse",
		Description: "parse the file and print it back",
		Action:      parseAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("tree", false, "print syntax tree instead of source"),
			verbosityFlag(),
		},
	}

	checkCmd := &cli.Command{
		Name:        "check",
		Description: "run all the front end stages and report diagnostics",
		Action:      checkAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("entry", "main", "entry point function name"),
			cli.NewFlag("no-prelude", false, "do not load std library"),
			cli.NewFlag("retain-scopes", false, "check popped scopes for unused symbols"),
			cli.NewFlag("warnings", true, "print warnings"),
			verbosityFlag(),
		},
	}

	app := &cli.Command{
		Name:        "ravun",
		Description: "ravun checks ravun source code",
		Commands: []*cli.Command{
			tokensCmd,
			parseCmd,
			checkCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func verbosityFlag() *cli.Flag {
	return cli.NewFlag("verbosity,v", "", "log topics: lex_tokens, parse_errors, scope, diagnostics")
}

func newContext(c *cli.Command) context.Context {
	tlog.SetVerbosity(c.String("verbosity"))

	return tlog.ContextWithSpan(context.Background(), tlog.Root())
}

func tokensAct(c *cli.Command) (err error) {
	for _, a := range c.Args {
		text, err := os.ReadFile(a)
		if err != nil {
			return errors.Wrap(err, "read file")
		}

		var b []byte
		l := lex.New(text)

		for {
			t := l.Next()

			if t.Kind != lex.Comment || c.Bool("comments") {
				b = hfmt.Appendf(b, "%d:%d\t%v\n", t.Line, t.Col, t)
			}

			if t.Kind == lex.EOF {
				break
			}
		}

		_, err = os.Stdout.Write(b)
		if err != nil {
			return errors.Wrap(err, "write")
		}
	}

	return nil
}

func parseAct(c *cli.Command) (err error) {
	ctx := newContext(c)

	for _, a := range c.Args {
		text, err := os.ReadFile(a)
		if err != nil {
			return errors.Wrap(err, "read file")
		}

		x, err := parse.ParseText(ctx, text)
		if es, ok := err.(parse.Errors); ok {
			printDiags(a, es.Diagnostics(), true)

			return errors.New("%v: %d syntax error(s)", a, len(es))
		}
		if err != nil {
			return errors.Wrap(err, "parse %v", a)
		}

		var b []byte

		if c.Bool("tree") {
			b = format.Tree(b, x)
		} else {
			b, err = format.Format(ctx, b, x)
			if err != nil {
				return errors.Wrap(err, "format %v", a)
			}
		}

		_, err = os.Stdout.Write(b)
		if err != nil {
			return errors.Wrap(err, "write")
		}
	}

	return nil
}

func checkAct(c *cli.Command) (err error) {
	ctx := newContext(c)

	cfg := compiler.DefaultConfig()
	cfg.EntryPoint = c.String("entry")
	cfg.Prelude = !c.Bool("no-prelude")
	cfg.RetainScopes = c.Bool("retain-scopes")
	cfg.Warnings = c.Bool("warnings")

	fe := compiler.New(cfg)

	failed := 0

	for _, a := range c.Args {
		res, err := fe.CompileFile(ctx, a)

		if _, ok := err.(*compiler.StageError); ok {
			failed++
		} else if err != nil {
			return errors.Wrap(err, "check %v", a)
		}

		printDiags(a, res.Diagnostics, cfg.Warnings)
	}

	if failed != 0 {
		return errors.New("%d file(s) rejected", failed)
	}

	return nil
}

func printDiags(name string, l diag.List, warnings bool) {
	var b []byte

	for _, d := range l.Sorted() {
		if d.Warning && !warnings {
			continue
		}

		b = hfmt.Appendf(b, "%s:", name)
		b = d.Append(b)
		b = append(b, '\n')
	}

	_, _ = os.Stderr.Write(b)
}
