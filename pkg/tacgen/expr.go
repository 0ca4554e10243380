package tacgen

import (
	"splc/pkg/ast"
	"splc/pkg/tac"
	"splc/pkg/types"
)

// evalExpr lowers a value-producing node to the address its result ends
// up in, emitting whatever instructions are needed along the way.
func (b *Builder) evalExpr(node ast.Node) tac.Address {
	switch n := node.(type) {
	case *ast.IntNode:
		return tac.EncodeInt(n.Value)

	case *ast.BoolNode:
		if n.Value {
			return tac.True
		}
		return tac.False

	case *ast.VariableNode:
		return b.addressOf(n.Symbol)

	case *ast.NullaryNode:
		return b.evalNullary(n)

	case *ast.BinaryNode:
		return b.evalBinary(n)

	case *ast.ComparisonNode:
		return b.evalBooleanValue(n)

	case *ast.LogicalNode:
		return b.evalBooleanValue(n)

	case *ast.NotNode:
		// `not e`: materialize e's boolean value, then flip it by
		// comparing against False — inlined rather than implemented as a
		// runtime call.
		return b.evalBooleanValue(n)

	case *ast.IfElseNode:
		return b.evalIfElse(n)

	case *ast.FunctionCallNode:
		return b.evalCall(n)

	case *ast.MemberAccessNode:
		return b.evalMemberAccess(n)

	case *ast.MatchNode:
		return b.evalMatch(n)

	case *ast.LetNode:
		b.genLet(n)
		return b.addressOf(n.Symbol)

	case *ast.BlockNode:
		return b.evalBlock(n)

	default:
		unsupported(node)
		return nil
	}
}

func (b *Builder) evalNullary(n *ast.NullaryNode) tac.Address {
	sym := n.Symbol
	if sym.Kind == types.KindFunction && !sym.Function.IsConstructor {
		return b.makeClosure(sym)
	}
	return b.addressOf(sym)
}

// makeClosure allocates the two-word heap object
// { SplObject header; codeAddress } that a nullary reference to a
// function value evaluates to, and registers __destroyClosure as its
// destructor.
func (b *Builder) makeClosure(sym *types.Symbol) tac.Address {
	fnAddr := b.ctx.Intern(sym)
	dest := b.fn.NewTemp()

	b.fn.Emit(tac.Call{
		Dest: addrPtr(dest),
		Func: b.ctx.Runtime("malloc"),
		Args: []tac.Address{&tac.ConstAddress{Value: closureSize}},
	})
	b.fn.Emit(tac.LeftIndexedAssign{Base: dest, Index: fieldDestructor, Src: b.ctx.Runtime("__destroyClosure")})
	b.fn.Emit(tac.LeftIndexedAssign{Base: dest, Index: fieldRefCount, Src: tac.UnboxedOne})
	b.fn.Emit(tac.LeftIndexedAssign{Base: dest, Index: fieldPointerFields, Src: tac.UnboxedZero})
	b.fn.Emit(tac.LeftIndexedAssign{Base: dest, Index: fieldMarkBit, Src: tac.UnboxedZero})
	b.fn.Emit(tac.LeftIndexedAssign{Base: dest, Index: fieldCodeAddress, Src: fnAddr})
	return dest
}

func (b *Builder) evalBinary(n *ast.BinaryNode) tac.Address {
	left := b.evalExpr(n.Left)
	right := b.evalExpr(n.Right)
	dest := b.fn.NewTemp()
	b.fn.Emit(tac.BinOp{Dest: dest, Op: astOpToArith(n.Op), Left: left, Right: right})
	return dest
}

// evalBooleanValue lowers a comparison/logical/not expression to a
// materialized True/False temp: comparisons and short-circuit logical
// operators lower to a conditional-jump skeleton with an explicit
// True/False result temporary materialized from the boolean immediates.
func (b *Builder) evalBooleanValue(node ast.Node) tac.Address {
	dest := b.fn.NewTemp()
	trueLbl := b.fn.NewLabel()
	endLbl := b.fn.NewLabel()

	b.genCondJump(node, trueLbl)
	b.fn.Emit(tac.Assign{Dest: dest, Src: tac.False})
	b.fn.Emit(tac.Jump{Target: endLbl})
	b.fn.Emit(tac.Label{Name: trueLbl})
	b.fn.Emit(tac.Assign{Dest: dest, Src: tac.True})
	b.fn.Emit(tac.Label{Name: endLbl})
	return dest
}

// genCondJump emits code that jumps to onTrue iff node evaluates to a
// true boolean, falling through otherwise. It recurses through
// short-circuit connectives and negation so only the leaf comparisons
// ever materialize a CondJump.
func (b *Builder) genCondJump(node ast.Node, onTrue *tac.LabelAddress) {
	switch n := node.(type) {
	case *ast.ComparisonNode:
		left := b.evalExpr(n.Left)
		right := b.evalExpr(n.Right)
		b.fn.Emit(tac.CondJump{Op: astCmpToCompare(n.Op), Left: left, Right: right, Target: onTrue})

	case *ast.LogicalNode:
		switch n.Op {
		case ast.LogAnd:
			fail := b.fn.NewLabel()
			b.genCondJumpFalse(n.Left, fail)
			b.genCondJump(n.Right, onTrue)
			b.fn.Emit(tac.Label{Name: fail})
		case ast.LogOr:
			b.genCondJump(n.Left, onTrue)
			b.genCondJump(n.Right, onTrue)
		}

	case *ast.NotNode:
		b.genCondJumpFalse(n.Operand, onTrue)

	default:
		// A plain boolean-valued expression (variable, call, ...): test
		// its truthiness directly.
		v := b.evalExpr(node)
		b.fn.Emit(tac.JumpIf{Cond: v, Target: onTrue})
	}
}

// genCondJumpFalse is genCondJump's complement: jumps to onFalse iff
// node evaluates to false.
func (b *Builder) genCondJumpFalse(node ast.Node, onFalse *tac.LabelAddress) {
	switch n := node.(type) {
	case *ast.ComparisonNode:
		left := b.evalExpr(n.Left)
		right := b.evalExpr(n.Right)
		b.fn.Emit(tac.CondJump{Op: astCmpToCompare(n.Op).Negate(), Left: left, Right: right, Target: onFalse})

	case *ast.LogicalNode:
		switch n.Op {
		case ast.LogAnd:
			b.genCondJumpFalse(n.Left, onFalse)
			b.genCondJumpFalse(n.Right, onFalse)
		case ast.LogOr:
			succeed := b.fn.NewLabel()
			b.genCondJump(n.Left, succeed)
			b.genCondJumpFalse(n.Right, onFalse)
			b.fn.Emit(tac.Label{Name: succeed})
		}

	case *ast.NotNode:
		b.genCondJump(n.Operand, onFalse)

	default:
		v := b.evalExpr(node)
		b.fn.Emit(tac.JumpIfNot{Cond: v, Target: onFalse})
	}
}

func (b *Builder) evalIfElse(n *ast.IfElseNode) tac.Address {
	dest := b.fn.NewTemp()
	elseLbl := b.fn.NewLabel()
	endLbl := b.fn.NewLabel()

	b.genCondJumpFalse(n.Cond, elseLbl)
	b.fn.Emit(tac.Assign{Dest: dest, Src: b.evalExpr(n.Then)})
	b.fn.Emit(tac.Jump{Target: endLbl})
	b.fn.Emit(tac.Label{Name: elseLbl})
	b.fn.Emit(tac.Assign{Dest: dest, Src: b.evalExpr(n.Else)})
	b.fn.Emit(tac.Label{Name: endLbl})
	return dest
}

func (b *Builder) evalBlock(n *ast.BlockNode) tac.Address {
	if len(n.Statements) == 0 {
		return tac.UnboxedZero
	}
	for _, s := range n.Statements[:len(n.Statements)-1] {
		b.genStmt(s)
	}
	return b.evalExpr(n.Statements[len(n.Statements)-1])
}

func (b *Builder) evalMemberAccess(n *ast.MemberAccessNode) tac.Address {
	obj := b.evalExpr(n.Object)
	dest := b.fn.NewTemp()
	b.fn.Emit(tac.RightIndexedAssign{Dest: dest, Base: obj, Index: n.Member.Member.Index + firstMemberField})
	return dest
}

func addrPtr(a tac.Address) *tac.Address { return &a }

func astOpToArith(op ast.BinOp) tac.ArithOp {
	switch op {
	case ast.OpAdd:
		return tac.Add
	case ast.OpSub:
		return tac.Sub
	case ast.OpMul:
		return tac.Mul
	case ast.OpDiv:
		return tac.Div
	case ast.OpMod:
		return tac.Mod
	}
	panic("tacgen: unknown BinOp")
}

func astCmpToCompare(op ast.CompareOp) tac.CompareOp {
	switch op {
	case ast.CmpEq:
		return tac.Eq
	case ast.CmpNe:
		return tac.Ne
	case ast.CmpLt:
		return tac.Lt
	case ast.CmpLe:
		return tac.Le
	case ast.CmpGt:
		return tac.Gt
	case ast.CmpGe:
		return tac.Ge
	}
	panic("tacgen: unknown CompareOp")
}
