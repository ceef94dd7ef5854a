package diag

import (
	"github.com/nikandfor/hacked/hfmt"
	"nikand.dev/go/heap"
	"tlog.app/go/tlog/tlwire"
)

type (
	Stage int
	Kind  int

	Pos struct {
		Line int
		Col  int
	}

	Diagnostic struct {
		Stage   Stage
		Kind    Kind
		Pos     Pos
		Msg     string
		Warning bool
	}

	List []*Diagnostic
)

const (
	Lexical Stage = iota
	Syntax
	Semantic
)

const (
	Other Kind = iota
	UndefinedVariable
	UndefinedFunction
	TypeMismatch
	Redefinition
	InvalidReturn
	Immutable
	ArityMismatch
	Uninitialized
	Unused
	MissingEntryPoint
	InvalidLoopControl
	InvalidToken
	UnexpectedToken
)

var stageNames = []string{
	Lexical:  "lexical",
	Syntax:   "syntax",
	Semantic: "semantic",
}

var kindNames = []string{
	Other:              "error",
	UndefinedVariable:  "undefined variable",
	UndefinedFunction:  "undefined function",
	TypeMismatch:       "type mismatch",
	Redefinition:       "redefinition",
	InvalidReturn:      "invalid return",
	Immutable:          "immutable",
	ArityMismatch:      "arity mismatch",
	Uninitialized:      "uninitialized",
	Unused:             "unused",
	MissingEntryPoint:  "missing entry point",
	InvalidLoopControl: "invalid loop control",
	InvalidToken:       "invalid token",
	UnexpectedToken:    "unexpected token",
}

// New creates a semantic error.
func New(k Kind, pos Pos, f string, args ...any) *Diagnostic {
	return &Diagnostic{
		Stage: Semantic,
		Kind:  k,
		Pos:   pos,
		Msg:   string(hfmt.Appendf(nil, f, args...)),
	}
}

// Warn creates a semantic warning.
func Warn(k Kind, pos Pos, f string, args ...any) *Diagnostic {
	d := New(k, pos, f, args...)
	d.Warning = true

	return d
}

func At(line, col int) Pos { return Pos{Line: line, Col: col} }

func (s Stage) String() string {
	if s >= 0 && int(s) < len(stageNames) {
		return stageNames[s]
	}

	return "stage?"
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "kind?"
}

func (p Pos) Less(q Pos) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}

	return p.Col < q.Col
}

func (d *Diagnostic) Error() string {
	return string(d.Append(nil))
}

// Append renders d as "line:col: stage kind: msg".
func (d *Diagnostic) Append(b []byte) []byte {
	sev := "error"
	if d.Warning {
		sev = "warning"
	}

	return hfmt.Appendf(b, "%d:%d: %v %v %v: %v", d.Pos.Line, d.Pos.Col, d.Stage, sev, d.Kind, d.Msg)
}

func (d *Diagnostic) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	b = e.AppendMap(b, 5)

	b = e.AppendString(b, "stage")
	b = e.AppendString(b, d.Stage.String())

	b = e.AppendString(b, "kind")
	b = e.AppendString(b, d.Kind.String())

	b = e.AppendKeyInt(b, "line", d.Pos.Line)
	b = e.AppendKeyInt(b, "col", d.Pos.Col)

	b = e.AppendString(b, "msg")
	b = e.AppendString(b, d.Msg)

	return b
}

func (l List) HasErrors() bool {
	for _, d := range l {
		if !d.Warning {
			return true
		}
	}

	return false
}

func (l List) Errors() (r List) {
	for _, d := range l {
		if !d.Warning {
			r = append(r, d)
		}
	}

	return r
}

func (l List) Warnings() (r List) {
	for _, d := range l {
		if d.Warning {
			r = append(r, d)
		}
	}

	return r
}

// Sorted returns a copy of l ordered by stage and position.
// Diagnostics at the same place keep their relative order.
func (l List) Sorted() List {
	type item struct {
		d *Diagnostic
		i int
	}

	h := heap.Heap[item]{
		Less: func(d []item, i, j int) bool {
			a, b := d[i].d, d[j].d

			if a.Stage != b.Stage {
				return a.Stage < b.Stage
			}

			if a.Pos != b.Pos {
				return a.Pos.Less(b.Pos)
			}

			return d[i].i < d[j].i
		},
	}

	for i, d := range l {
		h.Push(item{d: d, i: i})
	}

	r := make(List, 0, len(l))

	for h.Len() != 0 {
		r = append(r, h.Pop().d)
	}

	return r
}

// Append renders every diagnostic on its own line.
func (l List) Append(b []byte, warnings bool) []byte {
	for _, d := range l {
		if d.Warning && !warnings {
			continue
		}

		b = d.Append(b)
		b = append(b, '\n')
	}

	return b
}

func (l List) Error() string {
	return string(l.Append(nil, true))
}
