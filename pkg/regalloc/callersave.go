package regalloc

import "splc/pkg/mach"

// spillAroundCalls saves every register live across a CALLi/CALLm
// (except rbp and rsp, which the prologue/epilogue already preserve)
// to an rsp-relative slot before the call and restores it immediately
// after, matching RegAlloc::spillAroundCalls. Liveness is recomputed
// fresh since replaceRegs and assignStackLocations have already run.
//
// Each call's save/restore slots are allocated starting from the same
// startOffset captured once before this pass, not threaded forward
// from call to call: two calls never execute concurrently, so their
// spill regions may overlap, and only the deepest offset any single
// call reaches needs to be reflected in the final frame size.
func (a *allocator) spillAroundCalls() {
	liveIn := blockLiveness(a.fn)
	startOffset := a.currentOffset
	rsp := a.ctx.Reg("rsp")
	rbp := a.ctx.Reg("rbp")

	for _, b := range a.fn.Blocks {
		regs := liveOutOfBlock(b, liveIn)
		n := len(b.Instructions)
		liveBefore := make([]RegSet, n)

		for i := n - 1; i >= 0; i-- {
			inst := b.Instructions[i]
			for _, out := range inst.Outputs {
				if mach.IsRegister(out) {
					regs.Remove(out)
				}
			}
			for _, in := range inst.Inputs {
				if mach.IsRegister(in) {
					regs.Add(in)
				}
			}
			liveBefore[i] = regs.Clone()
		}

		rewritten := make([]*mach.MachineInst, 0, n)
		for i, inst := range b.Instructions {
			if !inst.Opcode.IsCall() {
				rewritten = append(rewritten, inst)
				continue
			}

			offset := startOffset
			var saves, restores []*mach.MachineInst
			for _, liveReg := range liveBefore[i].Sorted() {
				if liveReg == mach.Operand(rbp) || liveReg == mach.Operand(rsp) {
					continue
				}

				offset -= 8
				if offset < a.currentOffset {
					a.currentOffset = offset
				}

				saves = append(saves, &mach.MachineInst{
					Opcode: mach.MOVmd,
					Inputs: []mach.Operand{rsp, liveReg, mach.Imm{Value: offset}},
				})
				restores = append(restores, &mach.MachineInst{
					Opcode:  mach.MOVrm,
					Outputs: []mach.Operand{liveReg},
					Inputs:  []mach.Operand{rsp, mach.Imm{Value: offset}},
				})
			}

			rewritten = append(rewritten, saves...)
			rewritten = append(rewritten, inst)
			rewritten = append(rewritten, restores...)
		}
		b.Instructions = rewritten
	}
}
