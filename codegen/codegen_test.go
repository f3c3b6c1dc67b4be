package codegen

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kevgregory/gitz/compiler"
	"github.com/kevgregory/gitz/ir"
	"github.com/kevgregory/gitz/lexer"
	"github.com/kevgregory/gitz/optimizer"
	"github.com/kevgregory/gitz/parser"
)

func generate(t *testing.T, input string) string {
	t.Helper()
	p := parser.New(lexer.New("test.gitz", input))
	program := p.ParseProgram()
	require.Empty(t, p.Errors())
	irProgram, err := compiler.Analyze(program)
	require.Nil(t, err)
	return Generate(irProgram)
}

func TestDeclarations(t *testing.T) {
	js := generate(t, `Make x: num = 1 plus 2;`)
	require.Equal(t, "let x = (1 + 2);\n", js)

	js = generate(t, `Make s: text;`)
	require.Equal(t, "let s;\n", js)

	js = generate(t, `Make xs: list<num> = [1, 2, 3];`)
	require.Equal(t, "let xs = [1, 2, 3];\n", js)
}

func TestOperatorMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`Make b: bool = 1 equals 2;`, "(1 === 2)"},
		{`Make b: bool = 1 differs 2;`, "(1 !== 2)"},
		{`Make b: bool = true or false;`, "(true || false)"},
		{`Make b: bool = true and false;`, "(true && false)"},
		{`Make b: bool = not true;`, "(!true)"},
		{`Make x: num = 2 power 3;`, "(2 ** 3)"},
		{`Make x: num = 7 mod 2;`, "(7 % 2)"},
		{`Make x: num = minus 5;`, "(-5)"},
		{`Make b: bool = 1 atMost 2;`, "(1 <= 2)"},
		{`Make b: bool = 1 atLeast 2;`, "(1 >= 2)"},
	}

	for _, tt := range tests {
		js := generate(t, tt.input)
		require.Contains(t, js, tt.expected, "input: %s", tt.input)
	}
}

func TestFunction(t *testing.T) {
	js := generate(t, `Show add(a: num, b: num) -> num { give a plus b; }`)
	require.Contains(t, js, "function add(a, b) {")
	require.Contains(t, js, "  return (a + b);")
	require.Contains(t, js, "}")
}

func TestBareGive(t *testing.T) {
	js := generate(t, `Show f() { give; }`)
	require.Contains(t, js, "return;")
}

func TestWhenChain(t *testing.T) {
	js := generate(t, `
Make x: num = 1;
When x smaller 0 { say "neg"; } orWhen x equals 0 { say "zero"; } orElse { say "pos"; }`)

	require.Contains(t, js, "if ((x < 0)) {")
	require.Contains(t, js, "} else if ((x === 0)) {")
	require.Contains(t, js, "} else {")
	require.Equal(t, 1, strings.Count(js, "} else {"))
}

func TestWhenWithoutOrElse(t *testing.T) {
	js := generate(t, `When true { say 1; }`)
	require.NotContains(t, js, "else")
}

func TestLoops(t *testing.T) {
	js := generate(t, `Make x: num = 0; Keep x smaller 10 { x = x plus 1; }`)
	require.Contains(t, js, "while ((x < 10)) {")
	require.Contains(t, js, "  x = (x + 1);")

	js = generate(t, `Make xs: list<num> = [1, 2]; Keep x in xs { say x; }`)
	require.Contains(t, js, "for (const x of xs) {")
	require.Contains(t, js, "  console.log(x);")
}

func TestBreakAndSkip(t *testing.T) {
	js := generate(t, `Keep true { Break; }`)
	require.Contains(t, js, "break;")

	js = generate(t, `Keep true { Skip; }`)
	require.Contains(t, js, "continue;")
}

func TestSay(t *testing.T) {
	js := generate(t, `say 1, "two", true;`)
	require.Contains(t, js, `console.log(1, "two", true);`)
}

func TestTryCatch(t *testing.T) {
	js := generate(t, `Try { say 1; } Catch (e) { say e; }`)
	require.Contains(t, js, "try {")
	require.Contains(t, js, "} catch (__err) {")
	require.Contains(t, js, "let e = __err.message ?? String(__err);")
	require.Contains(t, js, "console.log(e);")
}

func TestIntrinsics(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`Make x: num = sqrt(2);`, "Math.sqrt(2)"},
		{`Make x: num = sin(1);`, "Math.sin(1)"},
		{`Make x: num = cos(1);`, "Math.cos(1)"},
		{`Make x: num = exp(1);`, "Math.exp(1)"},
		{`Make x: num = ln(1);`, "Math.log(1)"},
		{`Make x: num = hypot(3, 4);`, "Math.hypot(3, 4)"},
		{`Make xs: list<num> = [1]; Make n: num = len(xs);`, "xs.length"},
		{`Make bs: list<num> = bytes("hi");`, `Array.from(new TextEncoder().encode("hi"))`},
		{`Make cs: list<num> = codepoints("hi");`, `Array.from("hi", (ch) => ch.codePointAt(0))`},
	}

	for _, tt := range tests {
		js := generate(t, tt.input)
		require.Contains(t, js, tt.expected, "input: %s", tt.input)
	}
}

func TestRangeEvaluatesBoundsOnce(t *testing.T) {
	js := generate(t, `
Make n: num = 3;
Keep i in range(1, n plus 1) { say i; }`)
	require.Equal(t, 1, strings.Count(js, "(n + 1)"), "bounds must not be duplicated:\n%s", js)
	require.Contains(t, js, "Array.from")
}

func TestSubscript(t *testing.T) {
	js := generate(t, `Make xs: list<num> = [1, 2]; say xs[0]; xs[1] = 5;`)
	require.Contains(t, js, "console.log(xs[0]);")
	require.Contains(t, js, "xs[1] = 5;")
}

func TestStringQuoting(t *testing.T) {
	js := generate(t, `say "line\none \"two\"";`)
	require.Contains(t, js, `"line\none \"two\""`)
}

func TestNumberFormatting(t *testing.T) {
	require.Equal(t, "0.5", jsNumber(0.5))
	require.Equal(t, "1e+21", jsNumber(1e21))
	require.Equal(t, "Infinity", jsNumber(math.Inf(1)))
	require.Equal(t, "-3", jsNumber(-3))
}

func TestIndentationNests(t *testing.T) {
	js := generate(t, `
Show f(n: num) {
  When n larger 0 {
    Keep i in range(1, n) {
      say i;
    }
  }
}`)
	require.Contains(t, js, "\n  if (")
	require.Contains(t, js, "\n    for (const i of ")
	require.Contains(t, js, "\n      console.log(i);")
}

func TestOptimizedProgramStillGenerates(t *testing.T) {
	p := parser.New(lexer.New("test.gitz", `
Make x: num = 3 plus 4;
When 1 smaller 2 { say x; } orElse { say 0; }`))
	program := p.ParseProgram()
	require.Empty(t, p.Errors())
	irProgram, err := compiler.Analyze(program)
	require.Nil(t, err)

	js := Generate(optimizer.Optimize(irProgram))
	require.Equal(t, "let x = 7;\nconsole.log(x);\n", js)
}

func TestEmptyProgram(t *testing.T) {
	require.Equal(t, "", Generate(&ir.Program{}))
}
