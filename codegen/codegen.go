// Package codegen serializes validated IR into JavaScript. The mapping is
// purely mechanical tree-to-text; all legality checking happened upstream.
package codegen

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kevgregory/gitz/ir"
)

var jsOps = map[string]string{
	"or":  "||",
	"and": "&&",
	"==":  "===",
	"!=":  "!==",
	"<":   "<",
	">":   ">",
	"<=":  "<=",
	">=":  ">=",
	"+":   "+",
	"-":   "-",
	"*":   "*",
	"/":   "/",
	"%":   "%",
	"**":  "**",
}

type Generator struct {
	out    strings.Builder
	indent int
}

// Generate emits the whole program as JavaScript source.
func Generate(p *ir.Program) string {
	g := &Generator{}
	for _, s := range p.Statements {
		g.stmt(s)
	}
	return g.out.String()
}

func (g *Generator) line(format string, args ...any) {
	g.out.WriteString(strings.Repeat("  ", g.indent))
	fmt.Fprintf(&g.out, format, args...)
	g.out.WriteString("\n")
}

func (g *Generator) block(stmts []ir.Statement) {
	g.indent++
	for _, s := range stmts {
		g.stmt(s)
	}
	g.indent--
}

func (g *Generator) stmt(stmt ir.Statement) {
	switch s := stmt.(type) {
	case *ir.VarDecl:
		if _, empty := s.Value.(*ir.EmptyLit); empty {
			g.line("let %s;", s.Ref.Name)
			return
		}
		g.line("let %s = %s;", s.Ref.Name, g.expr(s.Value))

	case *ir.FuncDecl:
		params := make([]string, 0, len(s.Fn.Params))
		for _, p := range s.Fn.Params {
			params = append(params, p.Name)
		}
		g.line("function %s(%s) {", s.Fn.Name, strings.Join(params, ", "))
		g.block(s.Fn.Body)
		g.line("}")

	case *ir.Assign:
		g.line("%s = %s;", g.expr(s.Target), g.expr(s.Value))

	case *ir.If:
		g.ifChain(s, "if")

	case *ir.While:
		g.line("while (%s) {", g.expr(s.Test))
		g.block(s.Body)
		g.line("}")

	case *ir.ForEach:
		g.line("for (const %s of %s) {", s.Iter.Name, g.expr(s.Iterable))
		g.block(s.Body)
		g.line("}")

	case *ir.Break:
		g.line("break;")

	case *ir.Continue:
		g.line("continue;")

	case *ir.Return:
		if s.Value == nil {
			g.line("return;")
			return
		}
		g.line("return %s;", g.expr(s.Value))

	case *ir.Print:
		args := make([]string, 0, len(s.Args))
		for _, a := range s.Args {
			args = append(args, g.expr(a))
		}
		g.line("console.log(%s);", strings.Join(args, ", "))

	case *ir.TryCatch:
		g.line("try {")
		g.block(s.Body)
		g.line("} catch (__err) {")
		g.indent++
		g.line("let %s = __err.message ?? String(__err);", s.ErrVar.Name)
		g.indent--
		g.block(s.Handler)
		g.line("}")

	default:
		panic(fmt.Sprintf("cannot generate statement type %T", s))
	}
}

// ifChain renders right-nested If alternates as else-if so the output reads
// like the source chain. A nil alternate emits no else branch at all.
func (g *Generator) ifChain(s *ir.If, keyword string) {
	g.line("%s (%s) {", keyword, g.expr(s.Test))
	g.block(s.Consequent)
	if s.Alternate == nil {
		g.line("}")
		return
	}
	if len(s.Alternate) == 1 {
		if next, ok := s.Alternate[0].(*ir.If); ok {
			g.ifChain(next, "} else if")
			return
		}
	}
	g.line("} else {")
	g.block(s.Alternate)
	g.line("}")
}

func (g *Generator) expr(exp ir.Expression) string {
	switch e := exp.(type) {
	case *ir.NumberLit:
		return jsNumber(e.Value)
	case *ir.StringLit:
		return strconv.Quote(e.Value)
	case *ir.BoolLit:
		return strconv.FormatBool(e.Value)
	case *ir.EmptyLit:
		return "undefined"
	case *ir.VarRef:
		return e.Ref.Name
	case *ir.Binary:
		return fmt.Sprintf("(%s %s %s)", g.expr(e.Left), jsOps[e.Op], g.expr(e.Right))
	case *ir.Unary:
		op := e.Op
		if op == "not" {
			op = "!"
		}
		return fmt.Sprintf("(%s%s)", op, g.expr(e.Operand))
	case *ir.Call:
		return g.call(e)
	case *ir.Subscript:
		return fmt.Sprintf("%s[%s]", g.expr(e.List), g.expr(e.Index))
	case *ir.ListLit:
		elements := make([]string, 0, len(e.Elements))
		for _, el := range e.Elements {
			elements = append(elements, g.expr(el))
		}
		return "[" + strings.Join(elements, ", ") + "]"
	default:
		panic(fmt.Sprintf("cannot generate expression type %T", e))
	}
}

func (g *Generator) call(e *ir.Call) string {
	args := make([]string, 0, len(e.Args))
	for _, a := range e.Args {
		args = append(args, g.expr(a))
	}

	switch callee := e.Callee.(type) {
	case *ir.Function:
		return fmt.Sprintf("%s(%s)", callee.Name, strings.Join(args, ", "))
	case *ir.Intrinsic:
		return g.intrinsicCall(callee, args)
	default:
		panic(fmt.Sprintf("cannot generate call target %T", e.Callee))
	}
}

// intrinsicCall maps built-ins without a direct library spelling to inline
// JavaScript forms; the rest call through JSName.
func (g *Generator) intrinsicCall(in *ir.Intrinsic, args []string) string {
	switch in.Name {
	case "len":
		return fmt.Sprintf("%s.length", args[0])
	case "range":
		return fmt.Sprintf(
			"((lo, hi) => Array.from({ length: Math.max(0, hi - lo + 1) }, (_, i) => lo + i))(%s, %s)",
			args[0], args[1])
	case "bytes":
		return fmt.Sprintf("Array.from(new TextEncoder().encode(%s))", args[0])
	case "codepoints":
		return fmt.Sprintf("Array.from(%s, (ch) => ch.codePointAt(0))", args[0])
	default:
		return fmt.Sprintf("%s(%s)", in.JSName, strings.Join(args, ", "))
	}
}

func jsNumber(v float64) string {
	if math.IsInf(v, 1) {
		return "Infinity"
	}
	if math.IsInf(v, -1) {
		return "-Infinity"
	}
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
