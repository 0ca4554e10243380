package selection

import (
	"splc/pkg/mach"
	"splc/pkg/tac"
)

// selectInst lowers one TAC instruction into the current block,
// advancing fs.cur on Label.
func (fs *funcSelector) selectInst(inst tac.Instruction) {
	switch in := inst.(type) {
	case tac.Label:
		target := fs.blockFor(in.Name)
		fs.ensureTerminated(target)
		fs.cur = target

	case tac.Assign:
		dst := fs.writeTarget(in.Dest)
		src := fs.operand(in.Src)
		fs.emit(mach.MOVrd, []mach.Operand{dst}, []mach.Operand{src})

	case tac.BinOp:
		fs.selectBinOp(in)

	case tac.Jump:
		blk := fs.blockFor(in.Target)
		fs.emit(mach.JMP, nil, []mach.Operand{mach.BlockRef{Block: blk}})

	case tac.JumpIf:
		cond := fs.operand(in.Cond)
		fs.emit(mach.CMP, nil, []mach.Operand{cond, mach.Imm{Value: 3}})
		blk := fs.blockFor(in.Target)
		fs.emit(mach.JE, nil, []mach.Operand{mach.BlockRef{Block: blk}})

	case tac.JumpIfNot:
		cond := fs.operand(in.Cond)
		fs.emit(mach.CMP, nil, []mach.Operand{cond, mach.Imm{Value: 1}})
		blk := fs.blockFor(in.Target)
		fs.emit(mach.JE, nil, []mach.Operand{mach.BlockRef{Block: blk}})

	case tac.CondJump:
		left := fs.operand(in.Left)
		right := fs.operand(in.Right)
		fs.emit(mach.CMP, nil, []mach.Operand{left, right})
		blk := fs.blockFor(in.Target)
		fs.emit(condOpcode(in.Op), nil, []mach.Operand{mach.BlockRef{Block: blk}})

	case tac.Call:
		fs.selectCall(mach.Addr{Label: in.Func.Mangled}, in.Args, in.Dest, mach.CALLi)

	case tac.IndirectCall:
		target := fs.operand(in.FuncAddr)
		fs.selectCall(target, in.Args, in.Dest, mach.CALLm)

	case tac.LeftIndexedAssign:
		base := fs.operand(in.Base)
		if g, ok := base.(mach.Global); ok {
			v := fs.mfn.NewVReg()
			fs.emit(mach.MOVrd, []mach.Operand{v}, []mach.Operand{g})
			base = v
		}
		src := fs.operand(in.Src)
		fs.emit(mach.MOVmd, nil, []mach.Operand{base, src, mach.Imm{Value: int64(in.Index * 8)}})

	case tac.RightIndexedAssign:
		base := fs.operand(in.Base)
		if g, ok := base.(mach.Global); ok {
			v := fs.mfn.NewVReg()
			fs.emit(mach.MOVrd, []mach.Operand{v}, []mach.Operand{g})
			base = v
		}
		dst := fs.writeTarget(in.Dest)
		fs.emit(mach.MOVrm, []mach.Operand{dst}, []mach.Operand{base, mach.Imm{Value: int64(in.Index * 8)}})

	case tac.Return:
		fs.selectReturn(in.Value)

	default:
		panic("select: unhandled TAC instruction")
	}
}

// selectBinOp lowers arithmetic into a two-operand x86 shape: the
// destination is first loaded with Left, then the operator instruction
// reads and rewrites it in place alongside Right. Div/Mod route the
// dividend through rax, sign-extend with CQO, and read the quotient or
// remainder back out of rax/rdx respectively, per the System V
// IDIV/CQO discipline.
func (fs *funcSelector) selectBinOp(in tac.BinOp) {
	dst := fs.writeTarget(in.Dest)
	left := fs.operand(in.Left)
	right := fs.operand(in.Right)

	switch in.Op {
	case tac.Add, tac.Sub, tac.Mul:
		fs.emit(mach.MOVrd, []mach.Operand{dst}, []mach.Operand{left})
		opc := map[tac.ArithOp]mach.Opcode{tac.Add: mach.ADD, tac.Sub: mach.SUB, tac.Mul: mach.IMUL}[in.Op]
		fs.emit(opc, []mach.Operand{dst}, []mach.Operand{dst, right})

	case tac.Div, tac.Mod:
		rax := fs.sel.ctx.Reg("rax")
		rdx := fs.sel.ctx.Reg("rdx")
		fs.emit(mach.MOVrd, []mach.Operand{rax}, []mach.Operand{left})
		fs.emit(mach.CQO, []mach.Operand{rax, rdx}, []mach.Operand{rax})
		fs.emit(mach.IDIV, []mach.Operand{rax, rdx}, []mach.Operand{rax, rdx, right})
		if in.Op == tac.Div {
			fs.emit(mach.MOVrd, []mach.Operand{dst}, []mach.Operand{rax})
		} else {
			fs.emit(mach.MOVrd, []mach.Operand{dst}, []mach.Operand{rdx})
		}

	default:
		panic("select: unhandled arithmetic operator")
	}
}

// selectCall lowers a direct or indirect call: arguments are moved
// into rdi/rsi/rdx/rcx/r8/r9 for the first six, pushed in reverse order
// for the rest (cleaned up by the caller immediately after the call),
// then the call instruction itself names the target as its first input
// with the loaded argument registers following for liveness's benefit.
func (fs *funcSelector) selectCall(target mach.Operand, args []tac.Address, dest *tac.Address, op mach.Opcode) {
	ins := []mach.Operand{target}

	nReg := len(args)
	if nReg > len(argRegNames) {
		nReg = len(argRegNames)
	}
	for i := 0; i < nReg; i++ {
		v := fs.operand(args[i])
		hreg := fs.sel.ctx.Reg(argRegNames[i])
		fs.emit(mach.MOVrd, []mach.Operand{hreg}, []mach.Operand{v})
		ins = append(ins, hreg)
	}

	extra := len(args) - nReg
	for i := len(args) - 1; i >= nReg; i-- {
		v := fs.operand(args[i])
		fs.emit(mach.PUSH, nil, []mach.Operand{v})
	}

	rax := fs.sel.ctx.Reg("rax")
	fs.emit(op, []mach.Operand{rax}, ins)

	if extra > 0 {
		rsp := fs.sel.ctx.Reg("rsp")
		fs.emit(mach.ADD, []mach.Operand{rsp}, []mach.Operand{rsp, mach.Imm{Value: int64(8 * extra)}})
	}

	if dest != nil {
		d := fs.writeTarget(*dest)
		fs.emit(mach.MOVrd, []mach.Operand{d}, []mach.Operand{rax})
	}
}

func (fs *funcSelector) selectReturn(val tac.Address) {
	if val == nil {
		fs.emit(mach.RET, nil, nil)
		return
	}
	rax := fs.sel.ctx.Reg("rax")
	v := fs.operand(val)
	fs.emit(mach.MOVrd, []mach.Operand{rax}, []mach.Operand{v})
	fs.emit(mach.RET, nil, []mach.Operand{rax})
}

func condOpcode(op tac.CompareOp) mach.Opcode {
	switch op {
	case tac.Eq:
		return mach.JE
	case tac.Ne:
		return mach.JNE
	case tac.Lt:
		return mach.JL
	case tac.Le:
		return mach.JLE
	case tac.Gt:
		return mach.JG
	case tac.Ge:
		return mach.JGE
	}
	panic("select: unhandled comparison operator")
}
