package types

import (
	"fmt"
	"strings"
)

type Kind int

const (
	NumKind Kind = iota
	TextKind
	BoolKind
	VoidKind
	AnyKind
	ListKind
	FuncKind
)

// Type is the interface for all types in the language. Types are immutable
// values compared structurally, never by formatted string.
type Type interface {
	String() string
	Kind() Kind
}

// Primitive singletons. Value-typed, safe as map keys.
var (
	Num  Type = primitive{NumKind, "num"}
	Text Type = primitive{TextKind, "text"}
	Bool Type = primitive{BoolKind, "bool"}
	Void Type = primitive{VoidKind, "void"}
	Any  Type = primitive{AnyKind, "any"}
)

type primitive struct {
	kind Kind
	name string
}

func (p primitive) Kind() Kind     { return p.kind }
func (p primitive) String() string { return p.name }

// List is a parametric list type; Elem may itself be a List.
type List struct {
	Elem Type
}

func (l List) Kind() Kind     { return ListKind }
func (l List) String() string { return fmt.Sprintf("list<%s>", l.Elem.String()) }

// Func is the type of a callable: ordered parameter types and one result.
type Func struct {
	Params []Type
	Result Type
}

func (f Func) Kind() Kind { return FuncKind }

func (f Func) String() string {
	var params []string
	for _, p := range f.Params {
		params = append(params, p.String())
	}
	return fmt.Sprintf("(%s)->%s", strings.Join(params, ", "), f.Result.String())
}

// Primitive returns the primitive type for a source-level type name.
func Primitive(name string) (Type, bool) {
	switch name {
	case "num":
		return Num, true
	case "text":
		return Text, true
	case "bool":
		return Bool, true
	case "void":
		return Void, true
	case "any":
		return Any, true
	}
	return nil, false
}

// IsList reports whether t is a list type.
func IsList(t Type) bool {
	return t != nil && t.Kind() == ListKind
}

// ElemOf returns the element type of a list type. For non-list input it
// returns Any; callers are expected to validate first.
func ElemOf(t Type) Type {
	if l, ok := t.(List); ok {
		return l.Elem
	}
	return Any
}

// Equal performs structural equality on types with a dispatcher by Kind.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind() != b.Kind() {
		return false
	}
	return typeComparer(a.Kind())(a, b)
}

func typeComparer(k Kind) func(a, b Type) bool {
	switch k {
	case NumKind, TextKind, BoolKind, VoidKind, AnyKind:
		return func(a, b Type) bool { return true }
	case ListKind:
		return eqList
	case FuncKind:
		return eqFunc
	default:
		return func(a, b Type) bool { panic(fmt.Sprintf("Equal: unhandled kind %v", k)) }
	}
}

func eqList(a, b Type) bool {
	return Equal(a.(List).Elem, b.(List).Elem)
}

func eqFunc(a, b Type) bool {
	af := a.(Func)
	bf := b.(Func)
	if len(af.Params) != len(bf.Params) {
		return false
	}
	for i := range af.Params {
		if !Equal(af.Params[i], bf.Params[i]) {
			return false
		}
	}
	return Equal(af.Result, bf.Result)
}

// Assignable reports whether a value of type src may occupy a position
// requiring dst. Any is a universal match on either side; everything else
// requires structural equality.
func Assignable(dst, src Type) bool {
	if dst != nil && dst.Kind() == AnyKind {
		return true
	}
	if src != nil && src.Kind() == AnyKind {
		return true
	}
	return Equal(dst, src)
}
