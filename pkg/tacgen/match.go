package tacgen

import (
	"splc/pkg/ast"
	"splc/pkg/tac"
	"splc/pkg/types"
)

// evalMatch lowers a MatchNode to a guarded sequence of tag comparisons.
// Per the SUPPLEMENTED FEATURES section of SPEC_FULL.md, an arm is
// selected by comparing the scrutinee's destructor-pointer field against
// the candidate constructor's synthesized destructor: every constructor
// gets a distinct destructor (see constructors.go), so destructor-pointer
// identity is already a fully-discriminating tag without needing a
// separate tag word in the object header.
func (b *Builder) evalMatch(n *ast.MatchNode) tac.Address {
	scrutinee := b.evalExpr(n.Scrutinee)
	dest := b.fn.NewTemp()
	endLbl := b.fn.NewLabel()

	for _, arm := range n.Arms {
		nextLbl := b.fn.NewLabel()

		if arm.Constructor != nil {
			tag := b.fn.NewTemp()
			b.fn.Emit(tac.RightIndexedAssign{Dest: tag, Base: scrutinee, Index: fieldDestructor})
			b.fn.Emit(tac.CondJump{Op: tac.Ne, Left: tag, Right: b.destructorAddr(arm.Constructor), Target: nextLbl})
			b.bindMatchFields(scrutinee, arm.Bindings)
		} else if len(arm.Bindings) == 1 && arm.Bindings[0] != nil {
			b.bindWildcard(scrutinee, arm.Bindings[0])
		}

		b.fn.Emit(tac.Assign{Dest: dest, Src: b.evalExpr(arm.Body)})
		b.unbindMatchFields(arm.Bindings)
		b.fn.Emit(tac.Jump{Target: endLbl})
		b.fn.Emit(tac.Label{Name: nextLbl})
	}

	b.fn.Emit(tac.Label{Name: endLbl})
	return dest
}

// bindMatchFields loads each non-discarded sub-pattern from its field
// and, for boxed fields, increfs it: the bound name holds its own
// reference for the duration of the arm, independent of the scrutinee's.
func (b *Builder) bindMatchFields(scrutinee tac.Address, bindings []*types.Symbol) {
	for i, sym := range bindings {
		if sym == nil {
			continue
		}
		addr := b.addressOf(sym)
		b.fn.Emit(tac.RightIndexedAssign{Dest: addr, Base: scrutinee, Index: i + firstMemberField})
		if sym.Type.IsBoxed() {
			b.fn.Emit(tac.Call{Func: b.ctx.Runtime("_incref"), Args: []tac.Address{addr}})
		}
	}
}

// bindWildcard binds a catch-all arm's single capture to the whole
// scrutinee value, taking a fresh reference to it for boxed types.
func (b *Builder) bindWildcard(scrutinee tac.Address, sym *types.Symbol) {
	addr := b.addressOf(sym)
	b.fn.Emit(tac.Assign{Dest: addr, Src: scrutinee})
	if sym.Type.IsBoxed() {
		b.fn.Emit(tac.Call{Func: b.ctx.Runtime("_incref"), Args: []tac.Address{addr}})
	}
}

// unbindMatchFields releases the references bindMatchFields/bindWildcard
// took out, once the arm's body (which may itself have stashed the
// binding somewhere with its own incref) no longer needs them.
func (b *Builder) unbindMatchFields(bindings []*types.Symbol) {
	for _, sym := range bindings {
		if sym == nil || !sym.Type.IsBoxed() {
			continue
		}
		b.fn.Emit(tac.Call{Func: b.ctx.Runtime("_decref"), Args: []tac.Address{b.addressOf(sym)}})
	}
}

// destructorAddr returns the NameAddress of ctorSym's synthesized
// destructor, using the same naming scheme synthesizeDestructor
// (constructors.go) registers it under.
func (b *Builder) destructorAddr(ctorSym *types.Symbol) *tac.NameAddress {
	return b.ctx.Synthetic("destroy"+ctorSym.Name, tac.TagFunction)
}
