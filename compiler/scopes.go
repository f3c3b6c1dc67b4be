package compiler

import (
	"github.com/kevgregory/gitz/ir"
)

// Scope is one link of the lexical environment chain: a binding set, a
// parent link, the loop-nesting flag, and the innermost enclosing function.
// Lookup delegates to the parent; declaration only ever touches the
// innermost link.
type Scope struct {
	symbols map[string]ir.Symbol
	parent  *Scope
	inLoop  bool
	fn      *ir.Function // nil at top level
}

// NewRootScope builds the root environment, pre-populated with the frozen
// intrinsic registry and the literal constants.
func NewRootScope() *Scope {
	sc := &Scope{symbols: make(map[string]ir.Symbol, len(registry))}
	for name, sym := range registry {
		sc.symbols[name] = sym
	}
	return sc
}

// ChildBlock opens a nested block scope, inheriting the loop flag and the
// enclosing function.
func (sc *Scope) ChildBlock() *Scope {
	return &Scope{
		symbols: make(map[string]ir.Symbol),
		parent:  sc,
		inLoop:  sc.inLoop,
		fn:      sc.fn,
	}
}

// ChildLoop opens a loop-body scope with the loop flag set.
func (sc *Scope) ChildLoop() *Scope {
	child := sc.ChildBlock()
	child.inLoop = true
	return child
}

// ChildFunc opens a function-body scope. The loop flag never crosses a
// function boundary.
func (sc *Scope) ChildFunc(fn *ir.Function) *Scope {
	return &Scope{
		symbols: make(map[string]ir.Symbol),
		parent:  sc,
		inLoop:  false,
		fn:      fn,
	}
}

// Declare binds name in this scope. It reports false when the name is
// already bound here; ancestor bindings do not conflict (shadowing).
func (sc *Scope) Declare(name string, sym ir.Symbol) bool {
	if _, ok := sc.symbols[name]; ok {
		return false
	}
	sc.symbols[name] = sym
	return true
}

// Lookup searches this scope, then walks parent links outward.
func (sc *Scope) Lookup(name string) (ir.Symbol, bool) {
	for s := sc; s != nil; s = s.parent {
		if sym, ok := s.symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// LookupLocal searches only this scope.
func (sc *Scope) LookupLocal(name string) (ir.Symbol, bool) {
	sym, ok := sc.symbols[name]
	return sym, ok
}

// InLoop reports whether the nearest enclosing construct is a loop body.
func (sc *Scope) InLoop() bool {
	return sc.inLoop
}

// Func returns the innermost enclosing function, or nil at top level.
func (sc *Scope) Func() *ir.Function {
	return sc.fn
}
