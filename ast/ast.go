package ast

import (
	"bytes"
	"strings"

	"github.com/kevgregory/gitz/token"
)

// The base Node interface
type Node interface {
	Tok() token.Token
	String() string
}

// All statement nodes implement this
type Statement interface {
	Node
	statementNode()
}

// All expression nodes implement this
type Expression interface {
	Node
	expressionNode()
}

// TypeNode is source-level type syntax (num, text, list<num>, ...).
type TypeNode interface {
	Node
	typeNode()
}

type Program struct {
	Statements []Statement
}

func (p *Program) Tok() token.Token {
	if len(p.Statements) > 0 {
		return p.Statements[0].Tok()
	}
	return token.Token{Type: token.EOF, Literal: ""}
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, s := range p.Statements {
		out.WriteString(s.String())
	}
	return out.String()
}

func printVec(a []Expression) string {
	if len(a) == 0 {
		return ""
	}
	parts := make([]string, 0, len(a))
	for _, e := range a {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, ", ")
}

// Type syntax

type NamedType struct {
	Token token.Token // the type-name token
	Name  string
}

func (nt *NamedType) typeNode()        {}
func (nt *NamedType) Tok() token.Token { return nt.Token }
func (nt *NamedType) String() string   { return nt.Name }

type ListType struct {
	Token token.Token // the 'list' token
	Elem  TypeNode
}

func (lt *ListType) typeNode()        {}
func (lt *ListType) Tok() token.Token { return lt.Token }
func (lt *ListType) String() string   { return "list<" + lt.Elem.String() + ">" }

// Statements

type BlockStatement struct {
	Token      token.Token // the { token
	Statements []Statement
}

func (bs *BlockStatement) statementNode()   {}
func (bs *BlockStatement) Tok() token.Token { return bs.Token }
func (bs *BlockStatement) String() string {
	var out bytes.Buffer
	out.WriteString("{ ")
	for _, s := range bs.Statements {
		out.WriteString(s.String())
	}
	out.WriteString(" }")
	return out.String()
}

// MakeStatement is a variable declaration: Make x: num = 1;
type MakeStatement struct {
	Token token.Token // the Make token
	Name  *Identifier
	Type  TypeNode
	Value Expression // nil when no initializer
}

func (ms *MakeStatement) statementNode()   {}
func (ms *MakeStatement) Tok() token.Token { return ms.Token }
func (ms *MakeStatement) String() string {
	var out bytes.Buffer
	out.WriteString("Make ")
	out.WriteString(ms.Name.String())
	out.WriteString(": ")
	out.WriteString(ms.Type.String())
	if ms.Value != nil {
		out.WriteString(" = ")
		out.WriteString(ms.Value.String())
	}
	out.WriteString(";")
	return out.String()
}

type Param struct {
	Name *Identifier
	Type TypeNode
}

func (p *Param) String() string { return p.Name.String() + ": " + p.Type.String() }

// ShowStatement is a function declaration: Show f(a: num) -> num { ... }
type ShowStatement struct {
	Token  token.Token // the Show token
	Name   *Identifier
	Params []*Param
	Result TypeNode // nil means void
	Body   *BlockStatement
}

func (ss *ShowStatement) statementNode()   {}
func (ss *ShowStatement) Tok() token.Token { return ss.Token }
func (ss *ShowStatement) String() string {
	var out bytes.Buffer
	out.WriteString("Show ")
	out.WriteString(ss.Name.String())
	out.WriteString("(")
	params := make([]string, 0, len(ss.Params))
	for _, p := range ss.Params {
		params = append(params, p.String())
	}
	out.WriteString(strings.Join(params, ", "))
	out.WriteString(")")
	if ss.Result != nil {
		out.WriteString(" -> ")
		out.WriteString(ss.Result.String())
	}
	out.WriteString(" ")
	out.WriteString(ss.Body.String())
	return out.String()
}

// GiveStatement is a return: give expr; or give;
type GiveStatement struct {
	Token token.Token // the give token
	Value Expression  // nil for a bare give
}

func (gs *GiveStatement) statementNode()   {}
func (gs *GiveStatement) Tok() token.Token { return gs.Token }
func (gs *GiveStatement) String() string {
	if gs.Value == nil {
		return "give;"
	}
	return "give " + gs.Value.String() + ";"
}

type OrWhen struct {
	Token token.Token // the orWhen token
	Test  Expression
	Body  *BlockStatement
}

// WhenStatement is the conditional chain: When t {} orWhen t2 {} orElse {}.
type WhenStatement struct {
	Token      token.Token // the When token
	Test       Expression
	Consequent *BlockStatement
	OrWhens    []*OrWhen
	Alternate  *BlockStatement // nil when there is no orElse
}

func (ws *WhenStatement) statementNode()   {}
func (ws *WhenStatement) Tok() token.Token { return ws.Token }
func (ws *WhenStatement) String() string {
	var out bytes.Buffer
	out.WriteString("When ")
	out.WriteString(ws.Test.String())
	out.WriteString(" ")
	out.WriteString(ws.Consequent.String())
	for _, ow := range ws.OrWhens {
		out.WriteString(" orWhen ")
		out.WriteString(ow.Test.String())
		out.WriteString(" ")
		out.WriteString(ow.Body.String())
	}
	if ws.Alternate != nil {
		out.WriteString(" orElse ")
		out.WriteString(ws.Alternate.String())
	}
	return out.String()
}

// KeepWhileStatement is the while form: Keep t { ... }
type KeepWhileStatement struct {
	Token token.Token // the Keep token
	Test  Expression
	Body  *BlockStatement
}

func (ks *KeepWhileStatement) statementNode()   {}
func (ks *KeepWhileStatement) Tok() token.Token { return ks.Token }
func (ks *KeepWhileStatement) String() string {
	return "Keep " + ks.Test.String() + " " + ks.Body.String()
}

// KeepEachStatement is the for-each form: Keep x in xs { ... }
type KeepEachStatement struct {
	Token    token.Token // the Keep token
	Name     *Identifier
	Iterable Expression
	Body     *BlockStatement
}

func (ks *KeepEachStatement) statementNode()   {}
func (ks *KeepEachStatement) Tok() token.Token { return ks.Token }
func (ks *KeepEachStatement) String() string {
	return "Keep " + ks.Name.String() + " in " + ks.Iterable.String() + " " + ks.Body.String()
}

type BreakStatement struct {
	Token token.Token
}

func (bs *BreakStatement) statementNode()   {}
func (bs *BreakStatement) Tok() token.Token { return bs.Token }
func (bs *BreakStatement) String() string   { return "Break;" }

type SkipStatement struct {
	Token token.Token
}

func (ss *SkipStatement) statementNode()   {}
func (ss *SkipStatement) Tok() token.Token { return ss.Token }
func (ss *SkipStatement) String() string   { return "Skip;" }

// SayStatement is the print statement: say a, b;
type SayStatement struct {
	Token token.Token // the say token
	Args  []Expression
}

func (ss *SayStatement) statementNode()   {}
func (ss *SayStatement) Tok() token.Token { return ss.Token }
func (ss *SayStatement) String() string {
	return "say " + printVec(ss.Args) + ";"
}

// TryStatement is Try { ... } Catch (e) { ... }
type TryStatement struct {
	Token     token.Token // the Try token
	Body      *BlockStatement
	CatchName *Identifier
	CatchBody *BlockStatement
}

func (ts *TryStatement) statementNode()   {}
func (ts *TryStatement) Tok() token.Token { return ts.Token }
func (ts *TryStatement) String() string {
	return "Try " + ts.Body.String() + " Catch (" + ts.CatchName.String() + ") " + ts.CatchBody.String()
}

// AssignStatement is x = expr; or xs[i] = expr;
type AssignStatement struct {
	Token  token.Token // the = token
	Target Expression  // Identifier or IndexExpression
	Value  Expression
}

func (as *AssignStatement) statementNode()   {}
func (as *AssignStatement) Tok() token.Token { return as.Token }
func (as *AssignStatement) String() string {
	return as.Target.String() + " = " + as.Value.String() + ";"
}

// Expressions

type Identifier struct {
	Token token.Token // the token.IDENT token
	Value string
}

func (i *Identifier) expressionNode()  {}
func (i *Identifier) Tok() token.Token { return i.Token }
func (i *Identifier) String() string   { return i.Value }

type NumberLiteral struct {
	Token token.Token
	Value float64
}

func (nl *NumberLiteral) expressionNode()  {}
func (nl *NumberLiteral) Tok() token.Token { return nl.Token }
func (nl *NumberLiteral) String() string   { return nl.Token.Literal }

type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) expressionNode()  {}
func (sl *StringLiteral) Tok() token.Token { return sl.Token }
func (sl *StringLiteral) String() string   { return "\"" + sl.Value + "\"" }

type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (bl *BooleanLiteral) expressionNode()  {}
func (bl *BooleanLiteral) Tok() token.Token { return bl.Token }
func (bl *BooleanLiteral) String() string   { return bl.Token.Literal }

type ListLiteral struct {
	Token    token.Token // the [ token
	Elements []Expression
}

func (ll *ListLiteral) expressionNode()  {}
func (ll *ListLiteral) Tok() token.Token { return ll.Token }
func (ll *ListLiteral) String() string   { return "[" + printVec(ll.Elements) + "]" }

type PrefixExpression struct {
	Token    token.Token // the prefix token, e.g. not
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) expressionNode()  {}
func (pe *PrefixExpression) Tok() token.Token { return pe.Token }
func (pe *PrefixExpression) String() string {
	return "(" + pe.Operator + " " + pe.Right.String() + ")"
}

type InfixExpression struct {
	Token    token.Token // the operator token, e.g. plus
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) expressionNode()  {}
func (ie *InfixExpression) Tok() token.Token { return ie.Token }
func (ie *InfixExpression) String() string {
	return "(" + ie.Left.String() + " " + ie.Operator + " " + ie.Right.String() + ")"
}

type CallExpression struct {
	Token     token.Token // the '(' token
	Function  *Identifier
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()  {}
func (ce *CallExpression) Tok() token.Token { return ce.Token }
func (ce *CallExpression) String() string {
	return ce.Function.String() + "(" + printVec(ce.Arguments) + ")"
}

type IndexExpression struct {
	Token token.Token // the [ token
	Left  Expression
	Index Expression
}

func (ie *IndexExpression) expressionNode()  {}
func (ie *IndexExpression) Tok() token.Token { return ie.Token }
func (ie *IndexExpression) String() string {
	return ie.Left.String() + "[" + ie.Index.String() + "]"
}
