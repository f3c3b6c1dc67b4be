// Package optimizer rewrites typed IR with meaning-preserving rules:
// constant folding, algebraic identities, and dead-branch elimination.
// The pass is pure, idempotent, and safe to skip entirely.
package optimizer

import (
	"math"

	"github.com/kevgregory/gitz/ir"
)

// Optimize rewrites the program in place and returns it. Running it twice
// yields a tree deep-equal to the first pass's output.
func Optimize(p *ir.Program) *ir.Program {
	p.Statements = optimizeStmts(p.Statements)
	return p
}

func optimizeStmts(stmts []ir.Statement) []ir.Statement {
	out := []ir.Statement{}
	for _, s := range stmts {
		out = append(out, optimizeStmt(s)...)
	}
	return out
}

// optimizeStmt rewrites one statement. It returns a slice so eliminated
// constructs vanish and a taken constant branch splices its statements in.
func optimizeStmt(stmt ir.Statement) []ir.Statement {
	switch s := stmt.(type) {
	case *ir.VarDecl:
		s.Value = optimizeExpr(s.Value)
		return []ir.Statement{s}

	case *ir.FuncDecl:
		s.Fn.Body = optimizeStmts(s.Fn.Body)
		return []ir.Statement{s}

	case *ir.Assign:
		s.Target = optimizeExpr(s.Target)
		s.Value = optimizeExpr(s.Value)
		if sameVar(s.Target, s.Value) {
			return []ir.Statement{}
		}
		return []ir.Statement{s}

	case *ir.If:
		s.Test = optimizeExpr(s.Test)
		s.Consequent = optimizeStmts(s.Consequent)
		if s.Alternate != nil {
			s.Alternate = optimizeStmts(s.Alternate)
		}
		if test, ok := s.Test.(*ir.BoolLit); ok {
			if test.Value {
				return s.Consequent
			}
			if s.Alternate == nil {
				return []ir.Statement{}
			}
			return s.Alternate
		}
		return []ir.Statement{s}

	case *ir.While:
		s.Test = optimizeExpr(s.Test)
		if test, ok := s.Test.(*ir.BoolLit); ok && !test.Value {
			return []ir.Statement{}
		}
		s.Body = optimizeStmts(s.Body)
		return []ir.Statement{s}

	case *ir.ForEach:
		s.Iterable = optimizeExpr(s.Iterable)
		if emptyIterable(s.Iterable) {
			return []ir.Statement{}
		}
		s.Body = optimizeStmts(s.Body)
		return []ir.Statement{s}

	case *ir.Return:
		if s.Value != nil {
			s.Value = optimizeExpr(s.Value)
		}
		return []ir.Statement{s}

	case *ir.Print:
		for i, a := range s.Args {
			s.Args[i] = optimizeExpr(a)
		}
		return []ir.Statement{s}

	case *ir.TryCatch:
		s.Body = optimizeStmts(s.Body)
		s.Handler = optimizeStmts(s.Handler)
		return []ir.Statement{s}

	default:
		// Break, Continue
		return []ir.Statement{stmt}
	}
}

func sameVar(a, b ir.Expression) bool {
	av, ok := a.(*ir.VarRef)
	if !ok {
		return false
	}
	bv, ok := b.(*ir.VarRef)
	return ok && av.Ref == bv.Ref
}

// emptyIterable reports a statically-empty loop source: an empty list
// literal, or range(lo, hi) with literal bounds lo > hi.
func emptyIterable(e ir.Expression) bool {
	switch it := e.(type) {
	case *ir.ListLit:
		return len(it.Elements) == 0
	case *ir.Call:
		intr, ok := it.Callee.(*ir.Intrinsic)
		if !ok || intr.Name != "range" || len(it.Args) != 2 {
			return false
		}
		lo, okLo := it.Args[0].(*ir.NumberLit)
		hi, okHi := it.Args[1].(*ir.NumberLit)
		return okLo && okHi && lo.Value > hi.Value
	}
	return false
}

func optimizeExpr(exp ir.Expression) ir.Expression {
	switch e := exp.(type) {
	case *ir.Binary:
		e.Left = optimizeExpr(e.Left)
		e.Right = optimizeExpr(e.Right)
		return foldBinary(e)

	case *ir.Unary:
		e.Operand = optimizeExpr(e.Operand)
		if e.Op == "-" {
			if lit, ok := e.Operand.(*ir.NumberLit); ok {
				return &ir.NumberLit{Value: -lit.Value}
			}
		}
		return e

	case *ir.Call:
		for i, a := range e.Args {
			e.Args[i] = optimizeExpr(a)
		}
		return e

	case *ir.Subscript:
		e.List = optimizeExpr(e.List)
		e.Index = optimizeExpr(e.Index)
		return e

	case *ir.ListLit:
		for i, el := range e.Elements {
			e.Elements[i] = optimizeExpr(el)
		}
		return e

	default:
		// literals and variable references
		return exp
	}
}

func foldBinary(e *ir.Binary) ir.Expression {
	left, leftLit := e.Left.(*ir.NumberLit)
	right, rightLit := e.Right.(*ir.NumberLit)

	if leftLit && rightLit {
		if folded, ok := foldConstants(e.Op, left.Value, right.Value); ok {
			return folded
		}
	}

	switch e.Op {
	case "+":
		if rightLit && right.Value == 0 {
			return e.Left
		}
		if leftLit && left.Value == 0 {
			return e.Right
		}
	case "-":
		if leftLit && left.Value == 0 {
			return &ir.Unary{Op: "-", Operand: e.Right, T: e.T}
		}
	case "*":
		if rightLit && right.Value == 1 {
			return e.Left
		}
		if leftLit && left.Value == 1 {
			return e.Right
		}
		if rightLit && right.Value == 0 {
			return &ir.NumberLit{Value: 0}
		}
		if leftLit && left.Value == 0 {
			return &ir.NumberLit{Value: 0}
		}
	case "**":
		if rightLit && right.Value == 0 {
			return &ir.NumberLit{Value: 1}
		}
	case "or":
		if b, ok := e.Left.(*ir.BoolLit); ok && !b.Value {
			return e.Right
		}
		if b, ok := e.Right.(*ir.BoolLit); ok && !b.Value {
			return e.Left
		}
	case "and":
		if b, ok := e.Left.(*ir.BoolLit); ok && b.Value {
			return e.Right
		}
		if b, ok := e.Right.(*ir.BoolLit); ok && b.Value {
			return e.Left
		}
	}
	return e
}

// foldConstants evaluates an arithmetic or comparison operator over two
// literal numbers. mod is left alone; or/and never see number operands.
func foldConstants(op string, l, r float64) (ir.Expression, bool) {
	switch op {
	case "+":
		return &ir.NumberLit{Value: l + r}, true
	case "-":
		return &ir.NumberLit{Value: l - r}, true
	case "*":
		return &ir.NumberLit{Value: l * r}, true
	case "/":
		return &ir.NumberLit{Value: l / r}, true
	case "**":
		return &ir.NumberLit{Value: math.Pow(l, r)}, true
	case "==":
		return &ir.BoolLit{Value: l == r}, true
	case "!=":
		return &ir.BoolLit{Value: l != r}, true
	case "<":
		return &ir.BoolLit{Value: l < r}, true
	case ">":
		return &ir.BoolLit{Value: l > r}, true
	case "<=":
		return &ir.BoolLit{Value: l <= r}, true
	case ">=":
		return &ir.BoolLit{Value: l >= r}, true
	}
	return nil, false
}
