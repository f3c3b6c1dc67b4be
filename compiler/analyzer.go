// Package compiler holds the semantic analyzer: it walks the parsed syntax
// tree, builds the lexical scope chain, checks types and control-flow
// legality, and lowers every construct into typed IR. Analysis is fail-fast:
// the first violated contract aborts the unit.
package compiler

import (
	"fmt"

	"github.com/kevgregory/gitz/ast"
	"github.com/kevgregory/gitz/ir"
	"github.com/kevgregory/gitz/token"
	"github.com/kevgregory/gitz/types"
)

// Analyze lowers a parsed program into a typed IR program. The scope chain
// is threaded explicitly through every visit, so independent units can be
// analyzed concurrently; each call builds its own root scope.
func Analyze(program *ast.Program) (*ir.Program, *token.CompileError) {
	root := NewRootScope()

	out := &ir.Program{Statements: []ir.Statement{}}
	for _, stmt := range program.Statements {
		lowered, err := analyzeStatement(root, stmt)
		if err != nil {
			return nil, err
		}
		out.Statements = append(out.Statements, lowered)
	}
	return out, nil
}

func errAt(tok token.Token, kind token.ErrKind, format string, args ...any) *token.CompileError {
	return &token.CompileError{
		Kind:  kind,
		Token: tok,
		Msg:   fmt.Sprintf(format, args...),
	}
}

func analyzeStatement(sc *Scope, stmt ast.Statement) (ir.Statement, *token.CompileError) {
	switch s := stmt.(type) {
	case *ast.MakeStatement:
		return analyzeMake(sc, s)
	case *ast.ShowStatement:
		return analyzeShow(sc, s)
	case *ast.GiveStatement:
		return analyzeGive(sc, s)
	case *ast.WhenStatement:
		return analyzeWhen(sc, s)
	case *ast.KeepWhileStatement:
		return analyzeKeepWhile(sc, s)
	case *ast.KeepEachStatement:
		return analyzeKeepEach(sc, s)
	case *ast.BreakStatement:
		if !sc.InLoop() {
			return nil, errAt(s.Token, token.IllegalControlFlow, "Break outside a loop")
		}
		return &ir.Break{}, nil
	case *ast.SkipStatement:
		if !sc.InLoop() {
			return nil, errAt(s.Token, token.IllegalControlFlow, "Skip outside a loop")
		}
		return &ir.Continue{}, nil
	case *ast.SayStatement:
		return analyzeSay(sc, s)
	case *ast.TryStatement:
		return analyzeTry(sc, s)
	case *ast.AssignStatement:
		return analyzeAssign(sc, s)
	default:
		panic(fmt.Sprintf("cannot analyze statement type %T", s))
	}
}

// analyzeBlock lowers the statements of a block into the given scope. The
// caller opens (and thereby owns) the child scope appropriate to the
// construct; the scope is discarded when the block's analysis finishes.
func analyzeBlock(sc *Scope, block *ast.BlockStatement) ([]ir.Statement, *token.CompileError) {
	out := []ir.Statement{}
	for _, stmt := range block.Statements {
		lowered, err := analyzeStatement(sc, stmt)
		if err != nil {
			return nil, err
		}
		out = append(out, lowered)
	}
	return out, nil
}

func resolveType(sc *Scope, node ast.TypeNode) (types.Type, *token.CompileError) {
	switch n := node.(type) {
	case *ast.NamedType:
		if t, ok := types.Primitive(n.Name); ok {
			return t, nil
		}
		return nil, errAt(n.Token, token.UndeclaredIdentifier, "unknown type name %q", n.Name)
	case *ast.ListType:
		elem, err := resolveType(sc, n.Elem)
		if err != nil {
			return nil, err
		}
		return types.List{Elem: elem}, nil
	default:
		panic(fmt.Sprintf("cannot resolve type node %T", n))
	}
}

func analyzeMake(sc *Scope, s *ast.MakeStatement) (ir.Statement, *token.CompileError) {
	declared, err := resolveType(sc, s.Type)
	if err != nil {
		return nil, err
	}

	var value ir.Expression
	if s.Value == nil {
		value = &ir.EmptyLit{T: declared}
	} else {
		value, err = analyzeExpression(sc, s.Value)
		if err != nil {
			return nil, err
		}
		// An empty list literal carries no element-type evidence; unify it
		// with the declared type instead of rejecting it.
		if lit, ok := value.(*ir.ListLit); ok && len(lit.Elements) == 0 && types.IsList(declared) {
			lit.T = declared
		}
		if !types.Assignable(declared, value.Type()) {
			return nil, errAt(s.Tok(), token.TypeMismatch,
				"cannot initialize %s of type %s with a %s value", s.Name.Value, declared, value.Type())
		}
	}

	v := &ir.Variable{Name: s.Name.Value, VarType: declared, Mutable: true}
	if !sc.Declare(v.Name, v) {
		return nil, errAt(s.Name.Token, token.DuplicateDeclaration, "%s already declared", v.Name)
	}
	return &ir.VarDecl{Ref: v, Value: value}, nil
}

func analyzeShow(sc *Scope, s *ast.ShowStatement) (ir.Statement, *token.CompileError) {
	result := types.Void
	if s.Result != nil {
		var err *token.CompileError
		result, err = resolveType(sc, s.Result)
		if err != nil {
			return nil, err
		}
	}

	fn := &ir.Function{Name: s.Name.Value, Result: result}

	// The function symbol goes into both the enclosing scope and its own
	// body scope before the body is analyzed, so recursion resolves.
	if !sc.Declare(fn.Name, fn) {
		return nil, errAt(s.Name.Token, token.DuplicateDeclaration, "%s already declared", fn.Name)
	}
	body := sc.ChildFunc(fn)
	body.Declare(fn.Name, fn)

	for _, p := range s.Params {
		pt, err := resolveType(sc, p.Type)
		if err != nil {
			return nil, err
		}
		pv := &ir.Variable{Name: p.Name.Value, VarType: pt, Mutable: true}
		if !body.Declare(pv.Name, pv) {
			return nil, errAt(p.Name.Token, token.DuplicateDeclaration,
				"duplicate parameter %s in function %s", pv.Name, fn.Name)
		}
		fn.Params = append(fn.Params, pv)
	}

	stmts, err := analyzeBlock(body, s.Body)
	if err != nil {
		return nil, err
	}
	fn.Body = stmts
	return &ir.FuncDecl{Fn: fn}, nil
}

func analyzeGive(sc *Scope, s *ast.GiveStatement) (ir.Statement, *token.CompileError) {
	fn := sc.Func()
	if fn == nil {
		return nil, errAt(s.Token, token.IllegalControlFlow, "give outside a function")
	}

	if s.Value == nil {
		if fn.Result.Kind() != types.VoidKind {
			return nil, errAt(s.Token, token.TypeMismatch,
				"function %s must give a %s value", fn.Name, fn.Result)
		}
		return &ir.Return{}, nil
	}

	if fn.Result.Kind() == types.VoidKind {
		return nil, errAt(s.Token, token.TypeMismatch,
			"void function %s cannot give a value", fn.Name)
	}

	value, err := analyzeExpression(sc, s.Value)
	if err != nil {
		return nil, err
	}
	if !types.Assignable(fn.Result, value.Type()) {
		return nil, errAt(s.Token, token.TypeMismatch,
			"function %s gives %s, not %s", fn.Name, fn.Result, value.Type())
	}
	return &ir.Return{Value: value}, nil
}

func analyzeTest(sc *Scope, exp ast.Expression) (ir.Expression, *token.CompileError) {
	test, err := analyzeExpression(sc, exp)
	if err != nil {
		return nil, err
	}
	if !types.Assignable(types.Bool, test.Type()) {
		return nil, errAt(exp.Tok(), token.TypeMismatch, "test must be bool, got %s", test.Type())
	}
	return test, nil
}

// analyzeWhen lowers a When/orWhen/orElse chain into right-nested binary If
// nodes: each orWhen becomes the alternate of the previous If. Without an
// orElse the innermost alternate stays nil, so code generation can omit the
// else branch entirely.
func analyzeWhen(sc *Scope, s *ast.WhenStatement) (ir.Statement, *token.CompileError) {
	test, err := analyzeTest(sc, s.Test)
	if err != nil {
		return nil, err
	}
	consequent, err := analyzeBlock(sc.ChildBlock(), s.Consequent)
	if err != nil {
		return nil, err
	}

	head := &ir.If{Test: test, Consequent: consequent}
	tail := head
	for _, ow := range s.OrWhens {
		owTest, err := analyzeTest(sc, ow.Test)
		if err != nil {
			return nil, err
		}
		owBody, err := analyzeBlock(sc.ChildBlock(), ow.Body)
		if err != nil {
			return nil, err
		}
		next := &ir.If{Test: owTest, Consequent: owBody}
		tail.Alternate = []ir.Statement{next}
		tail = next
	}

	if s.Alternate != nil {
		alt, err := analyzeBlock(sc.ChildBlock(), s.Alternate)
		if err != nil {
			return nil, err
		}
		tail.Alternate = alt
	}
	return head, nil
}

func analyzeKeepWhile(sc *Scope, s *ast.KeepWhileStatement) (ir.Statement, *token.CompileError) {
	test, err := analyzeTest(sc, s.Test)
	if err != nil {
		return nil, err
	}
	body, err := analyzeBlock(sc.ChildLoop(), s.Body)
	if err != nil {
		return nil, err
	}
	return &ir.While{Test: test, Body: body}, nil
}

func analyzeKeepEach(sc *Scope, s *ast.KeepEachStatement) (ir.Statement, *token.CompileError) {
	iterable, err := analyzeExpression(sc, s.Iterable)
	if err != nil {
		return nil, err
	}
	if !types.IsList(iterable.Type()) {
		return nil, errAt(s.Iterable.Tok(), token.TypeMismatch,
			"Keep ... in requires a list, got %s", iterable.Type())
	}

	iter := &ir.Variable{Name: s.Name.Value, VarType: types.ElemOf(iterable.Type()), Mutable: false}
	body := sc.ChildLoop()
	if !body.Declare(iter.Name, iter) {
		return nil, errAt(s.Name.Token, token.DuplicateDeclaration, "%s already declared", iter.Name)
	}

	stmts, err := analyzeBlock(body, s.Body)
	if err != nil {
		return nil, err
	}
	return &ir.ForEach{Iter: iter, Iterable: iterable, Body: stmts}, nil
}

func analyzeSay(sc *Scope, s *ast.SayStatement) (ir.Statement, *token.CompileError) {
	args := make([]ir.Expression, 0, len(s.Args))
	for _, a := range s.Args {
		arg, err := analyzeExpression(sc, a)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return &ir.Print{Args: args}, nil
}

func analyzeTry(sc *Scope, s *ast.TryStatement) (ir.Statement, *token.CompileError) {
	body, err := analyzeBlock(sc.ChildBlock(), s.Body)
	if err != nil {
		return nil, err
	}

	// The catch variable may shadow outer scopes but not the scope the Try
	// statement itself lives in.
	if _, ok := sc.LookupLocal(s.CatchName.Value); ok {
		return nil, errAt(s.CatchName.Token, token.DuplicateDeclaration,
			"%s already declared", s.CatchName.Value)
	}

	errVar := &ir.Variable{Name: s.CatchName.Value, VarType: types.Text, Mutable: true}
	catchScope := sc.ChildBlock()
	catchScope.Declare(errVar.Name, errVar)

	handler, err := analyzeBlock(catchScope, s.CatchBody)
	if err != nil {
		return nil, err
	}
	return &ir.TryCatch{Body: body, ErrVar: errVar, Handler: handler}, nil
}

func analyzeAssign(sc *Scope, s *ast.AssignStatement) (ir.Statement, *token.CompileError) {
	var target ir.Expression

	switch t := s.Target.(type) {
	case *ast.Identifier:
		sym, ok := sc.Lookup(t.Value)
		if !ok {
			return nil, errAt(t.Token, token.UndeclaredIdentifier, "%s is not declared", t.Value)
		}
		v, ok := sym.(*ir.Variable)
		if !ok {
			return nil, errAt(t.Token, token.InvalidAssignmentTarget, "cannot assign to %s", t.Value)
		}
		if !v.Mutable {
			return nil, errAt(t.Token, token.InvalidAssignmentTarget, "%s is immutable", t.Value)
		}
		target = &ir.VarRef{Ref: v}
	case *ast.IndexExpression:
		sub, err := analyzeExpression(sc, t)
		if err != nil {
			return nil, err
		}
		target = sub
	default:
		return nil, errAt(s.Target.Tok(), token.InvalidAssignmentTarget,
			"cannot assign to %q", s.Target.String())
	}

	value, err := analyzeExpression(sc, s.Value)
	if err != nil {
		return nil, err
	}
	if !types.Assignable(target.Type(), value.Type()) {
		return nil, errAt(s.Token, token.TypeMismatch,
			"cannot assign %s value to %s target", value.Type(), target.Type())
	}
	return &ir.Assign{Target: target, Value: value}, nil
}
