package compiler

import (
	"fmt"

	"github.com/kevgregory/gitz/ast"
	"github.com/kevgregory/gitz/ir"
	"github.com/kevgregory/gitz/token"
	"github.com/kevgregory/gitz/types"
)

// canonicalOps maps word-operator tokens to the operator spellings the IR
// carries.
var canonicalOps = map[token.TokenType]string{
	token.OR:  "or",
	token.AND: "and",
	token.EQL: "==",
	token.NEQ: "!=",
	token.LSS: "<",
	token.GTR: ">",
	token.LEQ: "<=",
	token.GEQ: ">=",
	token.ADD: "+",
	token.SUB: "-",
	token.MUL: "*",
	token.QUO: "/",
	token.REM: "%",
	token.POW: "**",
}

func analyzeExpression(sc *Scope, exp ast.Expression) (ir.Expression, *token.CompileError) {
	switch e := exp.(type) {
	case *ast.NumberLiteral:
		return &ir.NumberLit{Value: e.Value}, nil
	case *ast.StringLiteral:
		return &ir.StringLit{Value: e.Value}, nil
	case *ast.BooleanLiteral:
		return &ir.BoolLit{Value: e.Value}, nil
	case *ast.Identifier:
		return analyzeIdentifier(sc, e)
	case *ast.ListLiteral:
		return analyzeListLiteral(sc, e)
	case *ast.PrefixExpression:
		return analyzePrefix(sc, e)
	case *ast.InfixExpression:
		return analyzeInfix(sc, e)
	case *ast.CallExpression:
		return analyzeCall(sc, e)
	case *ast.IndexExpression:
		return analyzeIndex(sc, e)
	default:
		panic(fmt.Sprintf("cannot analyze expression type %T", e))
	}
}

func analyzeIdentifier(sc *Scope, e *ast.Identifier) (ir.Expression, *token.CompileError) {
	sym, ok := sc.Lookup(e.Value)
	if !ok {
		return nil, errAt(e.Token, token.UndeclaredIdentifier, "%s is not declared", e.Value)
	}

	switch s := sym.(type) {
	case *ir.Variable:
		return &ir.VarRef{Ref: s}, nil
	case *constant:
		// Literal constants lower straight to literal nodes.
		if s.typ.Kind() == types.BoolKind {
			return &ir.BoolLit{Value: s.boolVal}, nil
		}
		return &ir.NumberLit{Value: s.numVal}, nil
	case *typeName:
		return nil, errAt(e.Token, token.TypeMismatch, "type name %s used as a value", e.Value)
	default:
		return nil, errAt(e.Token, token.TypeMismatch, "function %s used as a value", e.Value)
	}
}

// analyzeListLiteral infers the element type from the first element and
// checks the rest against it. An empty literal is list<any> unless a
// declaration context unifies it.
func analyzeListLiteral(sc *Scope, e *ast.ListLiteral) (ir.Expression, *token.CompileError) {
	if len(e.Elements) == 0 {
		return &ir.ListLit{Elements: []ir.Expression{}, T: types.List{Elem: types.Any}}, nil
	}

	elements := make([]ir.Expression, 0, len(e.Elements))
	first, err := analyzeExpression(sc, e.Elements[0])
	if err != nil {
		return nil, err
	}
	elements = append(elements, first)
	elemType := first.Type()

	for _, el := range e.Elements[1:] {
		lowered, err := analyzeExpression(sc, el)
		if err != nil {
			return nil, err
		}
		if !types.Assignable(elemType, lowered.Type()) {
			return nil, errAt(el.Tok(), token.TypeMismatch,
				"list element is %s, expected %s", lowered.Type(), elemType)
		}
		elements = append(elements, lowered)
	}
	return &ir.ListLit{Elements: elements, T: types.List{Elem: elemType}}, nil
}

func analyzePrefix(sc *Scope, e *ast.PrefixExpression) (ir.Expression, *token.CompileError) {
	operand, err := analyzeExpression(sc, e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Token.Type {
	case token.SUB:
		if !types.Assignable(types.Num, operand.Type()) {
			return nil, errAt(e.Token, token.TypeMismatch, "minus requires num, got %s", operand.Type())
		}
		return &ir.Unary{Op: "-", Operand: operand, T: types.Num}, nil
	case token.NOT:
		if !types.Assignable(types.Bool, operand.Type()) {
			return nil, errAt(e.Token, token.TypeMismatch, "not requires bool, got %s", operand.Type())
		}
		return &ir.Unary{Op: "not", Operand: operand, T: types.Bool}, nil
	default:
		panic(fmt.Sprintf("cannot analyze prefix operator %s", e.Operator))
	}
}

func analyzeInfix(sc *Scope, e *ast.InfixExpression) (ir.Expression, *token.CompileError) {
	left, err := analyzeExpression(sc, e.Left)
	if err != nil {
		return nil, err
	}
	right, err := analyzeExpression(sc, e.Right)
	if err != nil {
		return nil, err
	}

	op := canonicalOps[e.Token.Type]
	lt, rt := left.Type(), right.Type()

	mk := func(t types.Type) ir.Expression {
		return &ir.Binary{Op: op, Left: left, Right: right, T: t}
	}

	switch e.Token.Type {
	case token.OR, token.AND:
		if !types.Assignable(types.Bool, lt) || !types.Assignable(types.Bool, rt) {
			return nil, errAt(e.Token, token.TypeMismatch,
				"%s requires bool operands, got %s and %s", e.Operator, lt, rt)
		}
		return mk(types.Bool), nil

	case token.EQL, token.NEQ:
		if !types.Assignable(lt, rt) {
			return nil, errAt(e.Token, token.TypeMismatch,
				"cannot compare %s with %s", lt, rt)
		}
		return mk(types.Bool), nil

	case token.LSS, token.GTR, token.LEQ, token.GEQ:
		if !types.Assignable(lt, rt) {
			return nil, errAt(e.Token, token.TypeMismatch,
				"cannot compare %s with %s", lt, rt)
		}
		if !orderable(lt) || !orderable(rt) {
			return nil, errAt(e.Token, token.TypeMismatch,
				"%s requires num or text operands, got %s and %s", e.Operator, lt, rt)
		}
		return mk(types.Bool), nil

	case token.ADD:
		// plus is overloaded: two nums add, two texts concatenate.
		if !types.Assignable(lt, rt) {
			return nil, errAt(e.Token, token.TypeMismatch,
				"plus requires matching operands, got %s and %s", lt, rt)
		}
		t, ok := addableType(lt, rt)
		if !ok {
			return nil, errAt(e.Token, token.TypeMismatch,
				"plus requires num or text operands, got %s and %s", lt, rt)
		}
		return mk(t), nil

	case token.SUB, token.MUL, token.QUO, token.REM, token.POW:
		if !types.Assignable(types.Num, lt) || !types.Assignable(types.Num, rt) {
			return nil, errAt(e.Token, token.TypeMismatch,
				"%s requires num operands, got %s and %s", e.Operator, lt, rt)
		}
		return mk(types.Num), nil

	default:
		panic(fmt.Sprintf("cannot analyze infix operator %s", e.Operator))
	}
}

func orderable(t types.Type) bool {
	k := t.Kind()
	return k == types.NumKind || k == types.TextKind || k == types.AnyKind
}

// addableType resolves the result type of plus: num for nums, text for
// texts, with any deferring to the concrete side.
func addableType(lt, rt types.Type) (types.Type, bool) {
	pick := lt
	if lt.Kind() == types.AnyKind {
		pick = rt
	}
	switch pick.Kind() {
	case types.NumKind, types.TextKind, types.AnyKind:
		return pick, true
	}
	return nil, false
}

func analyzeCall(sc *Scope, e *ast.CallExpression) (ir.Expression, *token.CompileError) {
	sym, ok := sc.Lookup(e.Function.Value)
	if !ok {
		return nil, errAt(e.Function.Token, token.UndeclaredIdentifier,
			"%s is not declared", e.Function.Value)
	}
	callee, ok := sym.(ir.Callable)
	if !ok {
		return nil, errAt(e.Function.Token, token.NotAFunction,
			"%s is not a function", e.Function.Value)
	}

	params := callee.CallParams()
	if len(e.Arguments) != len(params) {
		return nil, errAt(e.Function.Token, token.ArityMismatch,
			"%s expects %d argument(s), got %d", e.Function.Value, len(params), len(e.Arguments))
	}

	args := make([]ir.Expression, 0, len(e.Arguments))
	for i, a := range e.Arguments {
		arg, err := analyzeExpression(sc, a)
		if err != nil {
			return nil, err
		}
		// num parameters take exactly num arguments: no implicit coercion,
		// and no any-wildcard in that position.
		if params[i].Kind() == types.NumKind {
			if arg.Type().Kind() != types.NumKind {
				return nil, errAt(a.Tok(), token.TypeMismatch,
					"argument %d of %s must be num, got %s", i+1, e.Function.Value, arg.Type())
			}
		} else if !types.Assignable(params[i], arg.Type()) {
			return nil, errAt(a.Tok(), token.TypeMismatch,
				"argument %d of %s must be %s, got %s", i+1, e.Function.Value, params[i], arg.Type())
		}
		args = append(args, arg)
	}

	return &ir.Call{Callee: callee, Args: args, T: callee.CallResult()}, nil
}

func analyzeIndex(sc *Scope, e *ast.IndexExpression) (ir.Expression, *token.CompileError) {
	list, err := analyzeExpression(sc, e.Left)
	if err != nil {
		return nil, err
	}
	index, err := analyzeExpression(sc, e.Index)
	if err != nil {
		return nil, err
	}
	if !types.Assignable(types.Num, index.Type()) {
		return nil, errAt(e.Index.Tok(), token.TypeMismatch,
			"index must be num, got %s", index.Type())
	}

	// Indexing a non-list degrades to any; malformed input should have been
	// rejected upstream. TODO revisit: this should probably be a TypeMismatch.
	elem := types.ElemOf(list.Type())
	return &ir.Subscript{List: list, Index: index, T: elem}, nil
}
