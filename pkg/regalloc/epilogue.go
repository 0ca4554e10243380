package regalloc

import "splc/pkg/mach"

// insertEpilogues completes every return path with the mirror image of
// the fixed prologue: restore rsp from rbp (undoing allocateStack's
// frame growth in one move, rather than an exact negation of it) and
// pop the caller's rbp back off the stack, immediately before each
// RET. original_source's RegAlloc never generates this: its
// allocateStack grows the frame but nothing in reg_alloc.cpp or
// machine_instruction.cpp ever shrinks it back, and x86_codegen.hpp is
// declarations only. This is a from-scratch completion of that gap,
// following the push-rbp/mov-rbp,rsp prologue's own shape in reverse;
// there is no callee-saved register set to restore here, since this
// allocator's coloring does not distinguish caller- from callee-saved
// colors.
func (a *allocator) insertEpilogues() {
	rbp := a.ctx.Reg("rbp")
	rsp := a.ctx.Reg("rsp")

	for _, b := range a.fn.Blocks {
		rewritten := make([]*mach.MachineInst, 0, len(b.Instructions))
		for _, inst := range b.Instructions {
			if inst.Opcode != mach.RET {
				rewritten = append(rewritten, inst)
				continue
			}
			rewritten = append(rewritten,
				&mach.MachineInst{Opcode: mach.MOVrd, Outputs: []mach.Operand{rsp}, Inputs: []mach.Operand{rbp}},
				&mach.MachineInst{Opcode: mach.POP, Outputs: []mach.Operand{rbp}},
				inst,
			)
		}
		b.Instructions = rewritten
	}
}
