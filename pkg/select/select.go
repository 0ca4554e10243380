// Package selection lowers TAC into the Machine IR: one MachineBB per
// TAC label, the fixed two-instruction prologue, System V AMD64
// parameter placement, and opcode-level operations for every
// tac.Instruction variant. It plays the role CompCert's Selection pass
// plays between Cminor and RTL, but over this backend's flat TAC
// rather than a tree expression language. The package lives under
// pkg/select since "select" is a Go keyword.
package selection

import (
	"splc/pkg/mach"
	"splc/pkg/tac"
)

// argRegNames is the System V AMD64 integer argument register order.
var argRegNames = [6]string{"rdi", "rsi", "rdx", "rcx", "r8", "r9"}

// Selector lowers a whole tac.Program. Its Context is shared across
// every function so hardware register operands intern identically
// throughout the compilation unit.
type Selector struct {
	ctx *mach.Context
}

// NewSelector creates a Selector with a fresh register Context.
func NewSelector() *Selector {
	return &Selector{ctx: mach.NewContext()}
}

// Ctx returns the register Context every MachineFunction this Selector
// produces was built against, so a later pass (register allocation)
// resolves hardware registers against the same interned identities.
func (s *Selector) Ctx() *mach.Context {
	return s.ctx
}

// SelectProgram lowers every function in prog, main first.
func (s *Selector) SelectProgram(prog *tac.Program) []*mach.MachineFunction {
	out := make([]*mach.MachineFunction, 0, 1+len(prog.Functions))
	out = append(out, s.SelectFunction(prog.Main))
	for _, fn := range prog.Functions {
		out = append(out, s.SelectFunction(fn))
	}
	return out
}

// SelectFunction lowers a single TAC function to a MachineFunction.
func (s *Selector) SelectFunction(fn *tac.Function) *mach.MachineFunction {
	fs := &funcSelector{
		sel:         s,
		tacFn:       fn,
		mfn:         mach.NewMachineFunction(fn.Name),
		blocks:      make(map[int]*mach.MachineBB),
		vregs:       make(map[*tac.NameAddress]mach.VReg),
		temps:       make(map[*tac.TempAddress]mach.VReg),
		stackParams: make(map[*tac.NameAddress]mach.StackParameter),
	}
	fs.prepassBlocks()
	fs.emitPrologue()
	fs.bindParams()
	for _, inst := range fn.Instructions {
		fs.selectInst(inst)
	}
	return fs.mfn
}

// funcSelector holds the per-function state a single SelectFunction
// call accumulates: the block discovered for each TAC label, the vreg
// standing in for each local/param/temp address, and the current
// emission point.
type funcSelector struct {
	sel   *Selector
	tacFn *tac.Function
	mfn   *mach.MachineFunction
	cur   *mach.MachineBB

	blocks      map[int]*mach.MachineBB
	vregs       map[*tac.NameAddress]mach.VReg
	temps       map[*tac.TempAddress]mach.VReg
	stackParams map[*tac.NameAddress]mach.StackParameter
}

// prepassBlocks creates the entry block and one block per TAC label, in
// source order, so forward jumps can resolve their BlockRef before the
// target's instructions are selected.
func (fs *funcSelector) prepassBlocks() {
	fs.cur = fs.mfn.NewBlock()
	for _, inst := range fs.tacFn.Instructions {
		if lbl, ok := inst.(tac.Label); ok {
			fs.blocks[lbl.Name.ID] = fs.mfn.NewBlock()
		}
	}
}

// emitPrologue lays down the two fixed instructions the register
// allocator's prologue-completion phase relies on finding at the start
// of the entry block.
func (fs *funcSelector) emitPrologue() {
	rbp := fs.sel.ctx.Reg("rbp")
	rsp := fs.sel.ctx.Reg("rsp")
	fs.emit(mach.PUSH, nil, []mach.Operand{rbp})
	fs.emit(mach.MOVrd, []mach.Operand{rbp}, []mach.Operand{rsp})
}

// bindParams copies the first six integer parameters out of their
// argument registers into fresh vregs, and records the rest as
// StackParameter operands read lazily at each use.
func (fs *funcSelector) bindParams() {
	for i, p := range fs.tacFn.Params {
		if i < len(argRegNames) {
			v := fs.mfn.NewVReg()
			fs.vregs[p] = v
			fs.emit(mach.MOVrd, []mach.Operand{v}, []mach.Operand{fs.sel.ctx.Reg(argRegNames[i])})
			continue
		}
		sp := mach.StackParameter{Name: p.Mangled, Index: i - len(argRegNames)}
		fs.stackParams[p] = sp
		fs.mfn.Params = append(fs.mfn.Params, sp)
	}
}

// ensureTerminated inserts an explicit JMP to next if the current block
// does not already end in a jump or a return. Successors is recovered
// purely by scanning trailing jump opcodes (mach.MachineBB.Successors),
// so nothing may rely on physical block adjacency to fall through.
func (fs *funcSelector) ensureTerminated(next *mach.MachineBB) {
	insts := fs.cur.Instructions
	if len(insts) > 0 {
		last := insts[len(insts)-1].Opcode
		if last.IsJump() || last == mach.RET {
			return
		}
	}
	fs.emit(mach.JMP, nil, []mach.Operand{mach.BlockRef{Block: next}})
}

func (fs *funcSelector) emit(op mach.Opcode, outs, ins []mach.Operand) {
	fs.cur.Emit(&mach.MachineInst{Opcode: op, Outputs: outs, Inputs: ins})
}

func (fs *funcSelector) blockFor(l *tac.LabelAddress) *mach.MachineBB {
	b, ok := fs.blocks[l.ID]
	if !ok {
		panic("select: jump to undeclared label " + l.String())
	}
	return b
}
