package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kevgregory/gitz/ast"
	"github.com/kevgregory/gitz/ir"
	"github.com/kevgregory/gitz/lexer"
	"github.com/kevgregory/gitz/parser"
	"github.com/kevgregory/gitz/token"
	"github.com/kevgregory/gitz/types"
)

func mustParse(t *testing.T, input string) *ast.Program {
	t.Helper()
	p := parser.New(lexer.New("test.gitz", input))
	program := p.ParseProgram()
	require.Empty(t, p.Errors())
	return program
}

func analyze(t *testing.T, input string) (*ir.Program, *token.CompileError) {
	t.Helper()
	return Analyze(mustParse(t, input))
}

func mustAnalyze(t *testing.T, input string) *ir.Program {
	t.Helper()
	program, err := analyze(t, input)
	require.Nil(t, err)
	return program
}

func analyzeErr(t *testing.T, input string, kind token.ErrKind) *token.CompileError {
	t.Helper()
	_, err := analyze(t, input)
	require.NotNil(t, err)
	require.Equal(t, kind, err.Kind, "message: %s", err.Msg)
	return err
}

func TestDeclaration(t *testing.T) {
	program := mustAnalyze(t, `Make x: num = 1;`)
	require.Len(t, program.Statements, 1)

	decl := program.Statements[0].(*ir.VarDecl)
	require.Equal(t, "x", decl.Ref.Name)
	require.True(t, types.Equal(types.Num, decl.Ref.VarType))
	require.True(t, decl.Ref.Mutable)
	require.Equal(t, &ir.NumberLit{Value: 1}, decl.Value)
}

func TestDeclarationWithoutInitializer(t *testing.T) {
	program := mustAnalyze(t, `Make s: text;`)
	decl := program.Statements[0].(*ir.VarDecl)
	require.Equal(t, &ir.EmptyLit{T: types.Text}, decl.Value)
}

func TestDeclarationTypeMismatch(t *testing.T) {
	analyzeErr(t, `Make x: num = true;`, token.TypeMismatch)
}

func TestDeclarationAnyAcceptsEverything(t *testing.T) {
	mustAnalyze(t, `Make x: any = true;`)
	mustAnalyze(t, `Make y: any = [1, 2];`)
}

func TestRedeclarationRejected(t *testing.T) {
	analyzeErr(t, `Make x: num = 1; Make x: num = 2;`, token.DuplicateDeclaration)
	// kind of the second declaration does not matter
	analyzeErr(t, `Make x: num = 1; Make x: text = "s";`, token.DuplicateDeclaration)
	analyzeErr(t, `Make x: num = 1; Show x() { }`, token.DuplicateDeclaration)
}

func TestIntrinsicNamesAreTaken(t *testing.T) {
	analyzeErr(t, `Make sqrt: num = 1;`, token.DuplicateDeclaration)
	analyzeErr(t, `Make pi: num = 3;`, token.DuplicateDeclaration)
	analyzeErr(t, `Make num: num = 1;`, token.DuplicateDeclaration)
	analyzeErr(t, `Show len(x: num) { }`, token.DuplicateDeclaration)
}

func TestUndeclaredIdentifier(t *testing.T) {
	analyzeErr(t, `say y;`, token.UndeclaredIdentifier)
	analyzeErr(t, `x = 1;`, token.UndeclaredIdentifier)
}

func TestSiblingScopeDoesNotLeak(t *testing.T) {
	analyzeErr(t, `
When true { Make x: num = 1; }
say x;`, token.UndeclaredIdentifier)
}

func TestShadowingAcrossScopesAllowed(t *testing.T) {
	mustAnalyze(t, `
Make x: num = 1;
When true { Make x: text = "inner"; say x; }
say x;`)
}

func TestScopeSoundnessEndToEnd(t *testing.T) {
	program := mustAnalyze(t, `Make x: num = 0; Keep x smaller 10 { x = x plus 1; }`)
	require.Len(t, program.Statements, 2)

	decl := program.Statements[0].(*ir.VarDecl)
	require.True(t, types.Equal(types.Num, decl.Ref.VarType))

	loop := program.Statements[1].(*ir.While)
	require.Len(t, loop.Body, 1)
	assign := loop.Body[0].(*ir.Assign)
	ref := assign.Target.(*ir.VarRef)
	require.Same(t, decl.Ref, ref.Ref)
	require.True(t, types.Equal(types.Num, ref.Type()))
}

func TestFunctionDeclaration(t *testing.T) {
	program := mustAnalyze(t, `Show greet(name: text) -> text { give "Hello " plus name; }`)
	decl := program.Statements[0].(*ir.FuncDecl)
	require.Equal(t, "greet", decl.Fn.Name)
	require.True(t, types.Equal(types.Text, decl.Fn.Result))
	require.Len(t, decl.Fn.Body, 1)

	ret := decl.Fn.Body[0].(*ir.Return)
	require.True(t, types.Equal(types.Text, ret.Value.Type()))
}

func TestFunctionDefaultsToVoid(t *testing.T) {
	program := mustAnalyze(t, `Show ping() { give; }`)
	decl := program.Statements[0].(*ir.FuncDecl)
	require.True(t, types.Equal(types.Void, decl.Fn.Result))
}

func TestDuplicateParameter(t *testing.T) {
	analyzeErr(t, `Show f(a: num, a: num) { }`, token.DuplicateDeclaration)
}

func TestRecursionResolves(t *testing.T) {
	mustAnalyze(t, `
Show fact(n: num) -> num {
  When n atMost 1 { give 1; }
  give n times fact(n minus 1);
}`)
}

func TestParametersDoNotLeak(t *testing.T) {
	analyzeErr(t, `Show f(a: num) { } say a;`, token.UndeclaredIdentifier)
}

func TestGiveOutsideFunction(t *testing.T) {
	analyzeErr(t, `give 1;`, token.IllegalControlFlow)
}

func TestGiveTypeRules(t *testing.T) {
	analyzeErr(t, `Show f() { give 1; }`, token.TypeMismatch)
	analyzeErr(t, `Show f() -> num { give; }`, token.TypeMismatch)
	analyzeErr(t, `Show f() -> num { give "s"; }`, token.TypeMismatch)
	mustAnalyze(t, `Show f() -> any { give "s"; }`)
}

func TestWhenLowersToNestedIfs(t *testing.T) {
	program := mustAnalyze(t, `
When true { say 1; } orWhen false { say 2; } orElse { say 3; }`)
	head := program.Statements[0].(*ir.If)
	require.Len(t, head.Alternate, 1)

	nested := head.Alternate[0].(*ir.If)
	require.Len(t, nested.Consequent, 1)
	require.Len(t, nested.Alternate, 1)
	_, isPrint := nested.Alternate[0].(*ir.Print)
	require.True(t, isPrint)
}

func TestWhenWithoutOrElseHasNilAlternate(t *testing.T) {
	program := mustAnalyze(t, `When true { say 1; }`)
	head := program.Statements[0].(*ir.If)
	require.Nil(t, head.Alternate)
}

func TestWhenTestMustBeBool(t *testing.T) {
	analyzeErr(t, `When 1 { }`, token.TypeMismatch)
	analyzeErr(t, `Keep 1 { }`, token.TypeMismatch)
}

func TestKeepEachRequiresList(t *testing.T) {
	analyzeErr(t, `Keep x in 5 { }`, token.TypeMismatch)
}

func TestKeepEachScopesIterationVariable(t *testing.T) {
	program := mustAnalyze(t, `
Make xs: list<text> = ["a", "b"];
Keep x in xs { say x; }`)
	loop := program.Statements[1].(*ir.ForEach)
	require.True(t, types.Equal(types.Text, loop.Iter.VarType))

	analyzeErr(t, `
Make xs: list<text> = ["a"];
Keep x in xs { }
say x;`, token.UndeclaredIdentifier)
}

func TestIterationVariableIsImmutable(t *testing.T) {
	analyzeErr(t, `
Make xs: list<num> = [1];
Keep x in xs { x = 2; }`, token.InvalidAssignmentTarget)
}

func TestBreakAndSkipRequireLoop(t *testing.T) {
	analyzeErr(t, `Break;`, token.IllegalControlFlow)
	analyzeErr(t, `Skip;`, token.IllegalControlFlow)
	mustAnalyze(t, `Keep true { Break; }`)
	mustAnalyze(t, `Keep true { Skip; }`)
}

func TestLoopFlagReachesNestedBlocks(t *testing.T) {
	mustAnalyze(t, `Keep true { When true { Break; } }`)
}

func TestLoopFlagStopsAtFunctionBoundary(t *testing.T) {
	analyzeErr(t, `Keep true { Show f() { Break; } }`, token.IllegalControlFlow)
}

func TestAssignment(t *testing.T) {
	mustAnalyze(t, `Make x: num = 1; x = 2;`)
	analyzeErr(t, `Make x: num = 1; x = "s";`, token.TypeMismatch)
}

func TestAssignToFunctionRejected(t *testing.T) {
	analyzeErr(t, `Show f() { } f = 1;`, token.InvalidAssignmentTarget)
}

func TestAssignToIndex(t *testing.T) {
	mustAnalyze(t, `Make xs: list<num> = [1, 2]; xs[0] = 3;`)
	analyzeErr(t, `Make xs: list<num> = [1, 2]; xs[0] = "s";`, token.TypeMismatch)
	analyzeErr(t, `Make xs: list<num> = [1, 2]; xs["k"] = 3;`, token.TypeMismatch)
}

func TestCallChecks(t *testing.T) {
	analyzeErr(t, `Show f(x: num) { } Make y: void = f(1, 2);`, token.ArityMismatch)
	analyzeErr(t, `Show f(x: num) { } Make y: void = f(true);`, token.TypeMismatch)
	analyzeErr(t, `Make x: num = 1; Make y: num = x(1);`, token.NotAFunction)
	analyzeErr(t, `Make y: num = nope(1);`, token.UndeclaredIdentifier)
}

func TestNumParameterRejectsAnyArgument(t *testing.T) {
	// no implicit coercion into num positions, not even from any
	analyzeErr(t, `
Make a: any = 1;
Make y: num = sqrt(a);`, token.TypeMismatch)
}

func TestIntrinsicCalls(t *testing.T) {
	program := mustAnalyze(t, `Make y: num = hypot(3, 4);`)
	decl := program.Statements[0].(*ir.VarDecl)
	call := decl.Value.(*ir.Call)
	intr := call.Callee.(*ir.Intrinsic)
	require.Equal(t, "hypot", intr.Name)
	require.True(t, types.Equal(types.Num, call.Type()))

	mustAnalyze(t, `Make bs: list<num> = bytes("hi");`)
	mustAnalyze(t, `Make n: num = len([1, 2]);`)
	mustAnalyze(t, `Keep i in range(1, 3) { say i; }`)
}

func TestIntrinsicArity(t *testing.T) {
	analyzeErr(t, `Make y: num = sqrt(1, 2);`, token.ArityMismatch)
	analyzeErr(t, `Make y: num = sqrt("s");`, token.TypeMismatch)
}

func TestConstantsLowerToLiterals(t *testing.T) {
	program := mustAnalyze(t, `Make x: num = pi;`)
	decl := program.Statements[0].(*ir.VarDecl)
	lit, ok := decl.Value.(*ir.NumberLit)
	require.True(t, ok)
	require.InDelta(t, 3.14159, lit.Value, 0.001)
}

func TestOperandTypeRules(t *testing.T) {
	mustAnalyze(t, `Make x: num = 1 plus 2;`)
	mustAnalyze(t, `Make s: text = "a" plus "b";`)
	mustAnalyze(t, `Make b: bool = 1 smaller 2 or not false;`)
	mustAnalyze(t, `Make b: bool = "a" smaller "b";`)

	analyzeErr(t, `Make x: num = 1 plus "s";`, token.TypeMismatch)
	analyzeErr(t, `Make s: text = "a" minus "b";`, token.TypeMismatch)
	analyzeErr(t, `Make b: bool = 1 equals "s";`, token.TypeMismatch)
	analyzeErr(t, `Make b: bool = true or 1;`, token.TypeMismatch)
	analyzeErr(t, `Make b: bool = not 1;`, token.TypeMismatch)
	analyzeErr(t, `Make x: num = minus "s";`, token.TypeMismatch)
	analyzeErr(t, `Make b: bool = [1] smaller [2];`, token.TypeMismatch)
}

func TestListLiteralTyping(t *testing.T) {
	program := mustAnalyze(t, `Make xs: list<num> = [1, 2, 3];`)
	decl := program.Statements[0].(*ir.VarDecl)
	require.True(t, types.Equal(types.List{Elem: types.Num}, decl.Value.Type()))

	analyzeErr(t, `Make xs: list<num> = [1, "s"];`, token.TypeMismatch)
	analyzeErr(t, `Make xs: list<num> = ["a", "b"];`, token.TypeMismatch)
}

func TestEmptyListUnifiesWithDeclaredType(t *testing.T) {
	program := mustAnalyze(t, `Make xs: list<num> = [];`)
	decl := program.Statements[0].(*ir.VarDecl)
	require.True(t, types.Equal(types.List{Elem: types.Num}, decl.Value.Type()))
}

func TestSubscriptTyping(t *testing.T) {
	program := mustAnalyze(t, `Make xs: list<text> = ["a"]; Make s: text = xs[0];`)
	decl := program.Statements[1].(*ir.VarDecl)
	require.True(t, types.Equal(types.Text, decl.Value.Type()))

	analyzeErr(t, `Make xs: list<num> = [1]; Make x: num = xs["k"];`, token.TypeMismatch)
}

func TestSubscriptOfNonListDegradesToAny(t *testing.T) {
	program := mustAnalyze(t, `Make x: num = 1; Make y: text = x[0];`)
	decl := program.Statements[1].(*ir.VarDecl)
	require.True(t, types.Equal(types.Any, decl.Value.Type()))
}

func TestTryCatchBindsTextVariable(t *testing.T) {
	program := mustAnalyze(t, `Try { say 1; } Catch (e) { say e plus "!"; }`)
	tc := program.Statements[0].(*ir.TryCatch)
	require.True(t, types.Equal(types.Text, tc.ErrVar.VarType))
}

func TestCatchVariableShadowing(t *testing.T) {
	// collision with the immediately enclosing scope is rejected
	analyzeErr(t, `Make e: num = 1; Try { } Catch (e) { }`, token.DuplicateDeclaration)
	// shadowing an outer-outer scope is allowed
	mustAnalyze(t, `
Make e: num = 1;
When true { Try { } Catch (e) { say e; } }`)
}

func TestCatchVariableScopedToHandler(t *testing.T) {
	analyzeErr(t, `Try { } Catch (e) { } say e;`, token.UndeclaredIdentifier)
}

func TestAnalyzerIsReentrant(t *testing.T) {
	program := mustParse(t, `Make x: num = 1;`)
	for i := 0; i < 3; i++ {
		_, err := Analyze(program)
		require.Nil(t, err)
	}
}
