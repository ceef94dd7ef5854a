package tp

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nikandfor/hacked/hfmt"
)

type (
	Type interface {
		Size() int
		String() string
	}

	Basic int

	Struct struct {
		Name string
	}

	Module struct {
		Name string
	}

	Enum struct {
		Name string
	}

	// Array is unsized when Len < 0.
	Array struct {
		Elem Type
		Len  int
	}

	Optional struct {
		Elem Type
	}

	Ref struct {
		Elem Type
	}

	Func struct {
		In  []Type
		Out Type
	}

	Tuple struct {
		Elems []Type
	}

	Param struct {
		Name       string
		Constraint *Constraint
	}

	// Constraint is either a trait name or a concrete type.
	Constraint struct {
		Trait string
		Type  Type
	}
)

const (
	Unknown Basic = iota
	Error
	Int
	Float
	Bool
	String
	Void
	Unit
	Null
	Any
)

var basicNames = []string{
	Unknown: "unknown",
	Error:   "error",
	Int:     "int",
	Float:   "float",
	Bool:    "bool",
	String:  "string",
	Void:    "void",
	Unit:    "unit",
	Null:    "null",
	Any:     "any",
}

// FromName parses a type annotation.
// Capitalized unknown names are struct references, others are Unknown.
func FromName(name string) Type {
	switch name {
	case "int":
		return Int
	case "float":
		return Float
	case "string":
		return String
	case "bool":
		return Bool
	case "void":
		return Void
	case "":
		return Unknown
	}

	if strings.HasSuffix(name, "]") {
		if p := strings.IndexByte(name, '['); p >= 0 {
			elem := FromName(name[:p])
			size := name[p+1 : len(name)-1]

			if size == "" {
				return Array{Elem: elem, Len: -1}
			}

			n, err := strconv.Atoi(size)
			if err != nil || n < 0 {
				return Array{Elem: elem, Len: -1}
			}

			return Array{Elem: elem, Len: n}
		}
	}

	if strings.HasPrefix(name, "&") {
		return Ref{Elem: FromName(name[1:])}
	}

	if strings.HasSuffix(name, "?") {
		return Optional{Elem: FromName(name[:len(name)-1])}
	}

	if r, _ := utf8.DecodeRuneInString(name); unicode.IsUpper(r) {
		return Struct{Name: name}
	}

	return Unknown
}

// Equal compares types structurally.
func Equal(a, b Type) bool {
	switch a := a.(type) {
	case Array:
		b, ok := b.(Array)
		return ok && a.Len == b.Len && Equal(a.Elem, b.Elem)
	case Optional:
		b, ok := b.(Optional)
		return ok && Equal(a.Elem, b.Elem)
	case Ref:
		b, ok := b.(Ref)
		return ok && Equal(a.Elem, b.Elem)
	case Func:
		b, ok := b.(Func)
		return ok && Equal(a.Out, b.Out) && equalList(a.In, b.In)
	case Tuple:
		b, ok := b.(Tuple)
		return ok && equalList(a.Elems, b.Elems)
	case Param:
		b, ok := b.(Param)
		return ok && a.Name == b.Name && a.Constraint.equal(b.Constraint)
	case nil:
		return b == nil
	default:
		return a == b
	}
}

func equalList(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}

	return true
}

func (c *Constraint) equal(d *Constraint) bool {
	if c == nil || d == nil {
		return c == d
	}

	return c.Trait == d.Trait && Equal(c.Type, d.Type)
}

func IsNumeric(t Type) bool { return t == Int || t == Float }

func IsPoison(t Type) bool { return t == Error }

func (x Basic) Size() int {
	switch x {
	case Int:
		return 4
	case Float:
		return 8
	case Bool:
		return 1
	default:
		return 0
	}
}

func (x Struct) Size() int { return 0 }
func (x Module) Size() int { return 0 }
func (x Enum) Size() int   { return 0 }
func (x Tuple) Size() int  { return 0 }
func (x Param) Size() int  { return 0 }
func (x Func) Size() int   { return 8 }
func (x Ref) Size() int    { return 8 }

func (x Optional) Size() int {
	return x.Elem.Size() + 1
}

func (x Array) Size() int {
	if x.Len < 0 {
		return 0
	}

	return x.Elem.Size() * x.Len
}

func (x Basic) String() string {
	if x >= 0 && int(x) < len(basicNames) {
		return basicNames[x]
	}

	return "basic?"
}

func (x Struct) String() string { return x.Name }
func (x Module) String() string { return "module:" + x.Name }
func (x Enum) String() string   { return "enum " + x.Name }
func (x Param) String() string  { return x.Name }
func (x Ref) String() string    { return "&" + x.Elem.String() }

func (x Optional) String() string {
	return x.Elem.String() + "?"
}

func (x Array) String() string {
	if x.Len < 0 {
		return x.Elem.String() + "[]"
	}

	return string(hfmt.Appendf(nil, "%v[%d]", x.Elem, x.Len))
}

func (x Func) String() string {
	b := append([]byte{}, "fn("...)
	b = appendList(b, x.In)

	return string(hfmt.Appendf(b, ") -> %v", x.Out))
}

func (x Tuple) String() string {
	b := append([]byte{}, '(')
	b = appendList(b, x.Elems)

	return string(append(b, ')'))
}

func appendList(b []byte, l []Type) []byte {
	for i, t := range l {
		if i != 0 {
			b = append(b, ", "...)
		}

		b = append(b, t.String()...)
	}

	return b
}
