package regalloc

import "splc/pkg/mach"

// assignStackLocations rewrites every StackLocation/StackParameter
// reference into rbp-relative register+Immediate form, matching
// RegAlloc::assignStackLocations (there, StackParameter is a subclass
// of StackLocation, so a single isStackLocation() check covers both; in
// Go they are two Operand variants handled by one type switch instead).
// A 1-input MOVrm ("register := [location]") becomes 2-input
// ("register := [rbp, disp]"); a 2-input MOVmd ("[location] := value")
// becomes 3-input ([rbp, value, disp], storing value to [rbp+disp]), the same flat shape a heap
// field access already uses. StackParameter offsets are computed
// directly (16 + 8*index, per System V's incoming-argument layout);
// ordinary spill slots are assigned lazily, in first-reference order, 8
// bytes apart below rbp.
func (a *allocator) assignStackLocations() {
	a.stackOffsets = make(map[mach.StackLocation]int64)
	a.currentOffset = 0

	rbp := a.ctx.Reg("rbp")
	for _, b := range a.fn.Blocks {
		for _, inst := range b.Instructions {
			for j, in := range inst.Inputs {
				disp, ok := a.stackDisplacement(in)
				if !ok {
					continue
				}
				switch inst.Opcode {
				case mach.MOVrm:
					if len(inst.Inputs) != 1 {
						panic("regalloc: MOVrm referencing a stack operand must be single-input before materialization")
					}
				case mach.MOVmd:
					if len(inst.Inputs) != 2 {
						panic("regalloc: MOVmd referencing a stack operand must be two-input before materialization")
					}
				default:
					panic("regalloc: stack location referenced by unexpected opcode")
				}
				inst.Inputs[j] = rbp
				inst.Inputs = append(inst.Inputs, mach.Imm{Value: disp})
				break
			}

			for _, out := range inst.Outputs {
				if _, ok := out.(mach.StackLocation); ok {
					panic("regalloc: stack location written as an instruction output")
				}
				if _, ok := out.(mach.StackParameter); ok {
					panic("regalloc: stack parameter written as an instruction output")
				}
			}
		}
	}
}

// stackDisplacement reports the rbp-relative byte displacement for a
// StackLocation or StackParameter operand, or ok=false for anything
// else.
func (a *allocator) stackDisplacement(op mach.Operand) (disp int64, ok bool) {
	switch o := op.(type) {
	case mach.StackParameter:
		return 16 + 8*int64(o.Index), true
	case mach.StackLocation:
		return a.stackOffsetFor(o), true
	default:
		return 0, false
	}
}

// stackOffsetFor returns loc's assigned rbp-relative displacement,
// assigning the next free slot (8 bytes below the lowest offset handed
// out so far) on first reference.
func (a *allocator) stackOffsetFor(loc mach.StackLocation) int64 {
	if off, ok := a.stackOffsets[loc]; ok {
		return off
	}
	a.currentOffset -= 8
	a.stackOffsets[loc] = a.currentOffset
	return a.currentOffset
}

// allocateStack inserts the frame-size adjustment after the fixed
// push-rbp/mov-rbp,rsp prologue, matching RegAlloc::allocateStack.
// currentOffset is rounded down to a 16-byte boundary before use, since
// spillAroundCalls may have pushed it further negative since
// assignStackLocations ran.
func (a *allocator) allocateStack() {
	if a.currentOffset == 0 {
		return
	}
	if a.currentOffset%16 != 0 {
		a.currentOffset -= 8
	}

	entry := a.fn.Blocks[0]
	rsp := a.ctx.Reg("rsp")
	allocInst := &mach.MachineInst{
		Opcode:  mach.ADD,
		Outputs: []mach.Operand{rsp},
		Inputs:  []mach.Operand{rsp, mach.Imm{Value: a.currentOffset}},
	}

	insts := entry.Instructions
	rewritten := make([]*mach.MachineInst, 0, len(insts)+1)
	rewritten = append(rewritten, insts[:2]...)
	rewritten = append(rewritten, allocInst)
	rewritten = append(rewritten, insts[2:]...)
	entry.Instructions = rewritten
}
