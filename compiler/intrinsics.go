package compiler

import (
	"math"

	"github.com/kevgregory/gitz/ir"
	"github.com/kevgregory/gitz/types"
)

// constant is a literal pseudo-symbol (true, false, pi). References lower
// directly to literal IR nodes.
type constant struct {
	name    string
	numVal  float64
	boolVal bool
	typ     types.Type
}

func (c *constant) SymbolName() string { return c.name }

// typeName reserves a primitive type name so user code cannot redeclare it.
type typeName struct {
	name string
}

func (t *typeName) SymbolName() string { return t.name }

// registry is the frozen standard library. It is built once at package
// init and copied into every root scope; entries are never mutated.
var registry = buildRegistry()

func buildRegistry() map[string]ir.Symbol {
	numToNum := types.Func{Params: []types.Type{types.Num}, Result: types.Num}
	textToNums := types.Func{Params: []types.Type{types.Text}, Result: types.List{Elem: types.Num}}

	syms := []ir.Symbol{
		&constant{name: "true", boolVal: true, typ: types.Bool},
		&constant{name: "false", boolVal: false, typ: types.Bool},
		&constant{name: "pi", numVal: math.Pi, typ: types.Num},

		&typeName{name: "num"},
		&typeName{name: "text"},
		&typeName{name: "bool"},
		&typeName{name: "void"},
		&typeName{name: "any"},

		&ir.Intrinsic{Name: "say", Sig: types.Func{Params: []types.Type{types.Any}, Result: types.Void}, JSName: "console.log"},

		&ir.Intrinsic{Name: "sqrt", Sig: numToNum, JSName: "Math.sqrt"},
		&ir.Intrinsic{Name: "sin", Sig: numToNum, JSName: "Math.sin"},
		&ir.Intrinsic{Name: "cos", Sig: numToNum, JSName: "Math.cos"},
		&ir.Intrinsic{Name: "exp", Sig: numToNum, JSName: "Math.exp"},
		&ir.Intrinsic{Name: "ln", Sig: numToNum, JSName: "Math.log"},
		&ir.Intrinsic{Name: "hypot", Sig: types.Func{Params: []types.Type{types.Num, types.Num}, Result: types.Num}, JSName: "Math.hypot"},

		&ir.Intrinsic{Name: "bytes", Sig: textToNums},
		&ir.Intrinsic{Name: "codepoints", Sig: textToNums},

		&ir.Intrinsic{Name: "len", Sig: types.Func{Params: []types.Type{types.Any}, Result: types.Num}},
		&ir.Intrinsic{Name: "range", Sig: types.Func{Params: []types.Type{types.Num, types.Num}, Result: types.List{Elem: types.Num}}},
	}

	m := make(map[string]ir.Symbol, len(syms))
	for _, s := range syms {
		m[s.SymbolName()] = s
	}
	return m
}
