package tacgen

import (
	"splc/pkg/ast"
	"splc/pkg/tac"
)

// genStmt lowers a node appearing in statement position, discarding any
// value it produces.
func (b *Builder) genStmt(node ast.Node) {
	switch n := node.(type) {
	case *ast.IfNode:
		b.genIf(n)
	case *ast.IfElseNode:
		b.evalIfElse(n) // value discarded; side effects still happen
	case *ast.WhileNode:
		b.genWhile(n)
	case *ast.BreakNode:
		if b.loopExit == nil {
			panic("tacgen: break outside of a loop reached the TAC builder")
		}
		b.fn.Emit(tac.Jump{Target: b.loopExit})
	case *ast.AssignNode:
		b.genAssign(n)
	case *ast.LetNode:
		b.genLet(n)
	case *ast.ReturnNode:
		b.genReturn(n)
	case *ast.BlockNode:
		for _, s := range n.Statements {
			b.genStmt(s)
		}
	default:
		b.evalExpr(node)
	}
}

func (b *Builder) genIf(n *ast.IfNode) {
	endLbl := b.fn.NewLabel()
	b.genCondJumpFalse(n.Cond, endLbl)
	b.genStmt(n.Then)
	b.fn.Emit(tac.Label{Name: endLbl})
}

func (b *Builder) genWhile(n *ast.WhileNode) {
	top := b.fn.NewLabel()
	exit := b.fn.NewLabel()

	prevExit := b.loopExit
	b.loopExit = exit

	b.fn.Emit(tac.Label{Name: top})
	b.genCondJumpFalse(n.Cond, exit)
	b.genStmt(n.Body)
	b.fn.Emit(tac.Jump{Target: top})
	b.fn.Emit(tac.Label{Name: exit})

	b.loopExit = prevExit
}

// genAssign implements the mandatory boxed-slot ordering: evaluate e;
// incref(e); decref(x); x := e. The order matters when x currently
// holds the only reference to e's value: increffing first keeps the
// object alive across the decref of x's old contents even when x and e
// name the same object.
func (b *Builder) genAssign(n *ast.AssignNode) {
	dest := b.addressOf(n.Symbol)
	value := b.evalExpr(n.Value)

	if n.Symbol.Type.IsBoxed() {
		b.fn.Emit(tac.Call{Func: b.ctx.Runtime("_incref"), Args: []tac.Address{value}})
		b.fn.Emit(tac.Call{Func: b.ctx.Runtime("_decref"), Args: []tac.Address{dest}})
	}
	b.fn.Emit(tac.Assign{Dest: dest, Src: value})
}

// genLet binds Symbol to Value's address for the first time: there is no
// prior value in the slot to decref, so only the incref half of the
// boxed-assignment discipline applies.
func (b *Builder) genLet(n *ast.LetNode) {
	value := b.evalExpr(n.Value)
	dest := b.addressOf(n.Symbol)

	if n.Symbol.Type.IsBoxed() {
		b.fn.Emit(tac.Call{Func: b.ctx.Runtime("_incref"), Args: []tac.Address{value}})
	}
	b.fn.Emit(tac.Assign{Dest: dest, Src: value})
}

func (b *Builder) genReturn(n *ast.ReturnNode) {
	if n.Value == nil {
		b.fn.Emit(tac.Return{})
		return
	}
	b.fn.Emit(tac.Return{Value: b.evalExpr(n.Value)})
}
