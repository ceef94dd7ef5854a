package tp

import "github.com/nikandfor/hacked/hfmt"

type (
	MismatchError struct {
		Op    string
		Left  Type
		Right Type
	}
)

func NewMismatch(op string, l, r Type) *MismatchError {
	return &MismatchError{Op: op, Left: l, Right: r}
}

func (e *MismatchError) Error() string {
	if e.Op == "" {
		return string(hfmt.Appendf(nil, "expected %v, got %v", e.Right, e.Left))
	}

	return string(hfmt.Appendf(nil, "operator '%s' not valid for '%v' and '%v'", e.Op, e.Left, e.Right))
}

// Compatible reports whether a value of type v may be used where t is expected.
func Compatible(v, t Type) bool {
	if Equal(v, t) {
		return true
	}

	if v == Any || t == Any {
		return true
	}

	if _, ok := t.(Optional); ok && v == Null {
		return true
	}

	if v == Int && t == Float {
		return true
	}

	if o, ok := v.(Optional); ok && Compatible(o.Elem, t) {
		return true
	}

	if o, ok := t.(Optional); ok && Compatible(v, o.Elem) {
		return true
	}

	switch v := v.(type) {
	case Ref:
		t, ok := t.(Ref)
		return ok && Compatible(v.Elem, t.Elem)
	case Array:
		t, ok := t.(Array)
		return ok && Compatible(v.Elem, t.Elem)
	case Func:
		t, ok := t.(Func)
		if !ok || len(v.In) != len(t.In) || !Compatible(v.Out, t.Out) {
			return false
		}

		for i := range v.In {
			if !Compatible(v.In[i], t.In[i]) {
				return false
			}
		}

		return true
	case Param:
		t, ok := t.(Param)
		return ok && v.Name == t.Name
	}

	return false
}

// Assignable reports whether a value of type v may be stored into t.
func Assignable(t, v Type) bool {
	return Compatible(v, t)
}

func isArith(op string) bool {
	switch op {
	case "+", "-", "*", "/", "%", "^":
		return true
	}

	return false
}

func concrete(t Type) bool {
	return t == Int || t == Float || t == String
}

// Arithmetic returns the result type of l op r.
func Arithmetic(l, r Type, op string) (Type, error) {
	if !isArith(op) {
		return Error, NewMismatch(op, l, r)
	}

	switch {
	case l == Int && r == Int:
		return Int, nil
	case IsNumeric(l) && IsNumeric(r):
		return Float, nil
	case l == String && r == String && op == "+":
		return String, nil
	case l == Any:
		return r, nil
	case r == Any:
		return l, nil
	}

	if op == "%" || op == "^" {
		return Error, NewMismatch(op, l, r)
	}

	if _, ok := l.(Param); ok && concrete(r) {
		return r, nil
	}

	if _, ok := r.(Param); ok && concrete(l) {
		return l, nil
	}

	return Error, NewMismatch(op, l, r)
}

// Comparison returns Bool if l op r is a valid comparison.
func Comparison(l, r Type, op string) (Type, error) {
	if l == Any || r == Any {
		return Bool, nil
	}

	switch op {
	case "==", "!=":
		if Compatible(l, r) || Compatible(r, l) {
			return Bool, nil
		}
	case "<", ">", "<=", ">=":
		if IsNumeric(l) && IsNumeric(r) || l == String && r == String {
			return Bool, nil
		}

		if _, ok := l.(Param); ok && concrete(r) {
			return Bool, nil
		}

		if _, ok := r.(Param); ok && concrete(l) {
			return Bool, nil
		}
	}

	return Error, NewMismatch(op, l, r)
}
