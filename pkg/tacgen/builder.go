// Package tacgen builds tac.Program values from a type-annotated AST. It
// plays the role tac_codegen.cpp plays in original_source: one traversal
// emitting into a mutable "current function" buffer that starts as the
// program's entry function and switches when the traversal descends
// into a nested FunctionDef.
package tacgen

import (
	"fmt"

	"splc/pkg/ast"
	"splc/pkg/tac"
	"splc/pkg/types"
)

// Builder accumulates a tac.Program across one traversal of an ast.Program.
type Builder struct {
	ctx *tac.Context
	fn  *tac.Function // the function currently being emitted into

	locals map[*types.Symbol]*tac.NameAddress // per-symbol local addresses seen in fn
	out    *tac.Program

	// loopExit is the label a BreakNode inside the innermost WhileNode
	// jumps to; nil outside any loop.
	loopExit *tac.LabelAddress
}

// NewBuilder creates a Builder sharing ctx with any other stage of the
// pipeline that needs to resolve the same interned addresses (there are
// none downstream today, but the TAC and Machine IRs follow the same
// context-owns-interned-identity shape).
func NewBuilder(ctx *tac.Context) *Builder {
	return &Builder{ctx: ctx}
}

// Build lowers a whole type-checked program to TAC. This cannot fail on
// a well-typed input; any node shape it does not recognize indicates
// the type checker let through something this backend was never told
// about, which is a programmer error, not a user error, so it panics
// rather than threading an error return throughout.
func (b *Builder) Build(prog *ast.Program) *tac.Program {
	b.out = &tac.Program{}

	for _, sd := range prog.Structs {
		b.synthesizeConstructor(sd)
		b.synthesizeDestructor(sd)
	}

	main := tac.NewFunction("main")
	b.withFunction(main, nil, func() {
		for _, stmt := range prog.Main {
			b.genStmt(stmt)
		}
		b.ensureReturn()
	})
	b.out.Main = main

	for _, fd := range prog.Functions {
		b.buildFunction(fd)
	}

	return b.out
}

func (b *Builder) buildFunction(fd *ast.FunctionDef) {
	fn := tac.NewFunction(b.ctx.Intern(fd.Symbol).Mangled)
	b.withFunction(fn, fd.Params, func() {
		for _, stmt := range fd.Body {
			b.genStmt(stmt)
		}
		b.ensureReturn()
	})
	b.out.Functions = append(b.out.Functions, fn)
}

// withFunction switches the current emission target to fn for the
// duration of body, wiring up fn's parameters first.
func (b *Builder) withFunction(fn *tac.Function, params []*types.Symbol, body func()) {
	prevFn, prevLocals, prevExit := b.fn, b.locals, b.loopExit
	b.fn, b.locals, b.loopExit = fn, make(map[*types.Symbol]*tac.NameAddress), nil

	for _, p := range params {
		addr := b.ctx.Intern(p)
		fn.AddParam(addr)
		b.locals[p] = addr
	}

	body()

	b.fn, b.locals, b.loopExit = prevFn, prevLocals, prevExit
}

// addressOf returns the NameAddress a variable/let/param symbol lowers
// to, interning and registering it as a local on first use.
func (b *Builder) addressOf(sym *types.Symbol) *tac.NameAddress {
	if addr, ok := b.locals[sym]; ok {
		return addr
	}
	addr := b.ctx.Intern(sym)
	if !sym.IsGlobal() {
		b.locals[sym] = addr
		b.fn.AddLocal(addr)
	}
	return addr
}

// ensureReturn appends a bare Return if the function's body did not
// already end in one: a function whose last statement is a plain value
// expression (this is an expression-oriented language) or that exits
// early on every path still needs a terminator for the instruction
// selector to lower the final block correctly.
func (b *Builder) ensureReturn() {
	n := len(b.fn.Instructions)
	if n > 0 {
		if _, ok := b.fn.Instructions[n-1].(tac.Return); ok {
			return
		}
	}
	b.fn.Emit(tac.Return{})
}

func unsupported(node ast.Node) {
	panic(fmt.Sprintf("tacgen: unsupported node %T reached the TAC builder", node))
}
