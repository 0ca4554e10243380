package tacgen

import (
	"strings"

	"splc/pkg/ast"
	"splc/pkg/tac"
	"splc/pkg/types"
)

// consHead and consTail are the word offsets of a Cons cell's two payload members,
// following the header: head at word 0 of the payload, tail at word 1.
const (
	consHead = firstMemberField + 0
	consTail = firstMemberField + 1
)

// nilTag is the tagged representation of the empty list: empty-list tag
// = 1, the same bit pattern as the boxed boolean False, since both are
// non-pointer (low bit set) sentinels.
var nilTag = &tac.ConstAddress{Value: 1}

func (b *Builder) evalCall(n *ast.FunctionCallNode) tac.Address {
	name, sym := directCallee(n.Callee)
	if name != "" {
		if addr, ok := b.evalBuiltin(name, n.Args); ok {
			return addr
		}
	}
	if sym != nil {
		return b.evalDirectCall(sym, n.Args)
	}
	return b.evalIndirectCall(n.Callee, n.Args)
}

// directCallee reports the builtin name and, for a call to a plain
// user-defined function, the callee's symbol. For a genuinely indirect
// call through a computed closure value it returns ("", nil).
func directCallee(callee ast.Node) (string, *types.Symbol) {
	var sym *types.Symbol
	switch c := callee.(type) {
	case *ast.VariableNode:
		sym = c.Symbol
	case *ast.NullaryNode:
		sym = c.Symbol
	default:
		return "", nil
	}
	if sym.Kind != types.KindFunction || sym.Function == nil {
		return "", nil
	}
	if sym.Function.IsBuiltin {
		return sym.Name, nil
	}
	return "", sym
}

func (b *Builder) evalDirectCall(sym *types.Symbol, argNodes []ast.Node) tac.Address {
	args := b.evalArgs(argNodes)
	dest := b.fn.NewTemp()
	b.fn.Emit(tac.Call{Dest: addrPtr(dest), Func: b.ctx.Intern(sym), Args: args})
	return dest
}

// evalIndirectCall calls through a closure value: load its code address
// out of the closure object, then call through that address.
func (b *Builder) evalIndirectCall(calleeNode ast.Node, argNodes []ast.Node) tac.Address {
	closure := b.evalExpr(calleeNode)
	args := b.evalArgs(argNodes)

	code := b.fn.NewTemp()
	b.fn.Emit(tac.RightIndexedAssign{Dest: code, Base: closure, Index: fieldCodeAddress})

	dest := b.fn.NewTemp()
	b.fn.Emit(tac.IndirectCall{Dest: addrPtr(dest), FuncAddr: code, Args: args})
	return dest
}

func (b *Builder) evalArgs(argNodes []ast.Node) []tac.Address {
	args := make([]tac.Address, len(argNodes))
	for i, a := range argNodes {
		args[i] = b.evalExpr(a)
	}
	return args
}

// evalBuiltin inlines the small set of builtins handled explicitly: not,
// head, tail, Nil, null. ok is false when name does not name one of
// them, so the caller falls through to an ordinary call.
func (b *Builder) evalBuiltin(name string, argNodes []ast.Node) (tac.Address, bool) {
	switch name {
	case "not":
		return b.evalBooleanValue(&ast.NotNode{Operand: argNodes[0]}), true
	case "Nil":
		return nilTag, true
	case "null":
		return b.evalNullCheck(argNodes[0]), true
	case "head":
		return b.evalListAccess(argNodes[0], consHead, "head of empty list"), true
	case "tail":
		return b.evalListAccess(argNodes[0], consTail, "tail of empty list"), true
	default:
		return nil, false
	}
}

func (b *Builder) evalNullCheck(arg ast.Node) tac.Address {
	xs := b.evalExpr(arg)
	dest := b.fn.NewTemp()
	trueLbl := b.fn.NewLabel()
	endLbl := b.fn.NewLabel()

	b.fn.Emit(tac.CondJump{Op: tac.Eq, Left: xs, Right: nilTag, Target: trueLbl})
	b.fn.Emit(tac.Assign{Dest: dest, Src: tac.False})
	b.fn.Emit(tac.Jump{Target: endLbl})
	b.fn.Emit(tac.Label{Name: trueLbl})
	b.fn.Emit(tac.Assign{Dest: dest, Src: tac.True})
	b.fn.Emit(tac.Label{Name: endLbl})
	return dest
}

// evalListAccess implements the head/tail guard shape from the
// SUPPLEMENTED FEATURES section of SPEC_FULL.md: a non-null check that
// calls the runtime's _die on failure rather than ever falling through
// to the field load.
func (b *Builder) evalListAccess(arg ast.Node, field int, dieMessage string) tac.Address {
	xs := b.evalExpr(arg)
	okLbl := b.fn.NewLabel()

	b.fn.Emit(tac.CondJump{Op: tac.Ne, Left: xs, Right: nilTag, Target: okLbl})
	b.fn.Emit(tac.Call{Func: b.ctx.Runtime("_die"), Args: []tac.Address{b.staticString(dieMessage)}})
	b.fn.Emit(tac.Label{Name: okLbl})

	dest := b.fn.NewTemp()
	b.fn.Emit(tac.RightIndexedAssign{Dest: dest, Base: xs, Index: field})
	return dest
}

// staticString returns a NameAddress for a compiler-introduced constant
// string; its byte contents are a runtime/emitter concern outside this
// package, so only the symbol is produced here.
func (b *Builder) staticString(s string) *tac.NameAddress {
	addr := b.ctx.Synthetic("str_"+sanitizeIdent(s), tac.TagStatic)
	for _, g := range b.out.Globals {
		if g == addr {
			return addr
		}
	}
	b.out.Globals = append(b.out.Globals, addr)
	return addr
}

func sanitizeIdent(s string) string {
	return strings.ReplaceAll(s, " ", "_")
}
