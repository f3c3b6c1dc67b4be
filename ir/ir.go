// Package ir defines the typed intermediate representation produced by the
// semantic analyzer. Every expression node carries a resolved type; nodes
// with a missing type are an analyzer bug, never a legal output state.
package ir

import (
	"github.com/kevgregory/gitz/types"
)

// Program is the IR root handed to the optimizer and the code generator.
type Program struct {
	Statements []Statement
}

// All statement nodes implement this
type Statement interface {
	stmtNode()
}

// All expression nodes implement this
type Expression interface {
	Type() types.Type
	exprNode()
}

// Symbols

// Symbol is the closed union Variable | Function | Intrinsic.
type Symbol interface {
	SymbolName() string
}

// Variable is a named, typed binding. Mutable is fixed at creation.
type Variable struct {
	Name    string
	VarType types.Type
	Mutable bool
}

func (v *Variable) SymbolName() string { return v.Name }

// Function is a user-declared function. Body is populated after the
// parameter scope is built so the function is visible to its own body.
type Function struct {
	Name   string
	Params []*Variable
	Result types.Type
	Body   []Statement
}

func (f *Function) SymbolName() string { return f.Name }

// Intrinsic is a built-in function: a statically-known signature, no body.
type Intrinsic struct {
	Name   string
	Sig    types.Func
	JSName string // target-library spelling, e.g. Math.sqrt
}

func (i *Intrinsic) SymbolName() string { return i.Name }

// Callable is what a call expression may target.
type Callable interface {
	Symbol
	CallResult() types.Type
	CallParams() []types.Type
}

func (f *Function) CallResult() types.Type { return f.Result }

func (f *Function) CallParams() []types.Type {
	params := make([]types.Type, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.VarType
	}
	return params
}

func (i *Intrinsic) CallResult() types.Type  { return i.Sig.Result }
func (i *Intrinsic) CallParams() []types.Type { return i.Sig.Params }

// Statements

// VarDecl binds a variable to its initializer. The analyzer substitutes an
// EmptyLit of the declared type when the source has no initializer.
type VarDecl struct {
	Ref   *Variable
	Value Expression
}

func (d *VarDecl) stmtNode() {}

type FuncDecl struct {
	Fn *Function
}

func (d *FuncDecl) stmtNode() {}

// Assign writes Value into Target (a VarRef or Subscript).
type Assign struct {
	Target Expression
	Value  Expression
}

func (a *Assign) stmtNode() {}

// If is a binary conditional. A When chain lowers to right-nested Ifs: each
// orWhen becomes the single statement of the previous If's Alternate. A nil
// Alternate means the source had no orElse.
type If struct {
	Test       Expression
	Consequent []Statement
	Alternate  []Statement
}

func (i *If) stmtNode() {}

type While struct {
	Test Expression
	Body []Statement
}

func (w *While) stmtNode() {}

type ForEach struct {
	Iter     *Variable
	Iterable Expression
	Body     []Statement
}

func (f *ForEach) stmtNode() {}

type Break struct{}

func (b *Break) stmtNode() {}

type Continue struct{}

func (c *Continue) stmtNode() {}

type Return struct {
	Value Expression // nil for a bare give
}

func (r *Return) stmtNode() {}

type Print struct {
	Args []Expression
}

func (p *Print) stmtNode() {}

type TryCatch struct {
	Body    []Statement
	ErrVar  *Variable // bound as text in Handler
	Handler []Statement
}

func (t *TryCatch) stmtNode() {}

// Expressions

type NumberLit struct {
	Value float64
}

func (n *NumberLit) exprNode()        {}
func (n *NumberLit) Type() types.Type { return types.Num }

type StringLit struct {
	Value string
}

func (s *StringLit) exprNode()        {}
func (s *StringLit) Type() types.Type { return types.Text }

type BoolLit struct {
	Value bool
}

func (b *BoolLit) exprNode()        {}
func (b *BoolLit) Type() types.Type { return types.Bool }

// EmptyLit is the no-op initializer for a declaration without one. It only
// carries the declared type.
type EmptyLit struct {
	T types.Type
}

func (e *EmptyLit) exprNode()        {}
func (e *EmptyLit) Type() types.Type { return e.T }

type VarRef struct {
	Ref *Variable
}

func (v *VarRef) exprNode()        {}
func (v *VarRef) Type() types.Type { return v.Ref.VarType }

// Binary carries canonical operator spellings: + - * / % ** == != < > <= >=
// or and.
type Binary struct {
	Op    string
	Left  Expression
	Right Expression
	T     types.Type
}

func (b *Binary) exprNode()        {}
func (b *Binary) Type() types.Type { return b.T }

// Unary carries - or not.
type Unary struct {
	Op      string
	Operand Expression
	T       types.Type
}

func (u *Unary) exprNode()        {}
func (u *Unary) Type() types.Type { return u.T }

type Call struct {
	Callee Callable
	Args   []Expression
	T      types.Type
}

func (c *Call) exprNode()        {}
func (c *Call) Type() types.Type { return c.T }

type Subscript struct {
	List  Expression
	Index Expression
	T     types.Type
}

func (s *Subscript) exprNode()        {}
func (s *Subscript) Type() types.Type { return s.T }

type ListLit struct {
	Elements []Expression
	T        types.Type
}

func (l *ListLit) exprNode()        {}
func (l *ListLit) Type() types.Type { return l.T }
