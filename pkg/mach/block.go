package mach

// MachineBB is a basic block: a numeric id and an ordered instruction
// list. It carries no explicit successor list of its own — Successors
// derives it on demand by scanning backward while instructions are
// jumps, matching original_source/src/machine_instruction.cpp's
// MachineBB::successors().
type MachineBB struct {
	ID           int
	Instructions []*MachineInst
}

// Emit appends an instruction to the block.
func (b *MachineBB) Emit(i *MachineInst) {
	b.Instructions = append(b.Instructions, i)
}

// Successors walks Instructions from the tail, collecting the target of
// every trailing jump, and stops at the first instruction that is not a
// jump. A block ending in a conditional jump followed by an
// unconditional jump therefore reports both targets — the "taken" and
// "fallthrough-made-explicit" edges — while a block ending in RET or a
// non-jump reports none.
func (b *MachineBB) Successors() []*MachineBB {
	var succs []*MachineBB
	for i := len(b.Instructions) - 1; i >= 0; i-- {
		inst := b.Instructions[i]
		if !inst.Opcode.IsJump() {
			break
		}
		if target, ok := inst.Target(); ok {
			succs = append(succs, target)
		}
	}
	// Reverse so successors read in program order (taken-on-earlier-test
	// first), purely for deterministic/readable output; order carries no
	// semantic weight for liveness or interference.
	for i, j := 0, len(succs)-1; i < j; i, j = i+1, j-1 {
		succs[i], succs[j] = succs[j], succs[i]
	}
	return succs
}
