package regalloc

import "splc/pkg/mach"

// blockDef returns every register defined anywhere in b, matching
// RegAlloc::gatherDefinitions in original_source/src/reg_alloc.cpp.
func blockDef(b *mach.MachineBB) RegSet {
	def := NewRegSet()
	for _, inst := range b.Instructions {
		for _, out := range inst.Outputs {
			if mach.IsRegister(out) {
				def.Add(out)
			}
		}
	}
	return def
}

// blockUse returns every register read in b before any definition of
// it within the same block, matching RegAlloc::gatherUses.
func blockUse(b *mach.MachineBB) RegSet {
	use := NewRegSet()
	defined := NewRegSet()
	for _, inst := range b.Instructions {
		for _, in := range inst.Inputs {
			if mach.IsRegister(in) && !defined.Contains(in) {
				use.Add(in)
			}
		}
		for _, out := range inst.Outputs {
			if mach.IsRegister(out) {
				defined.Add(out)
			}
		}
	}
	return use
}

// blockLiveness computes, for every block, the set of registers live
// on entry to it: the fixed point of
// live[n] = (union of live[succ] for succ in successors(n)) - def[n] + use[n]
// matching RegAlloc::computeLiveness. Because def/use already summarize
// a block's net effect, this fixed point is exact live-in despite
// treating each block as a single dataflow unit.
func blockLiveness(fn *mach.MachineFunction) map[*mach.MachineBB]RegSet {
	def := make(map[*mach.MachineBB]RegSet, len(fn.Blocks))
	use := make(map[*mach.MachineBB]RegSet, len(fn.Blocks))
	live := make(map[*mach.MachineBB]RegSet, len(fn.Blocks))
	for _, b := range fn.Blocks {
		def[b] = blockDef(b)
		use[b] = blockUse(b)
		live[b] = NewRegSet()
	}

	for {
		changed := false
		for _, b := range fn.Blocks {
			regs := NewRegSet()
			for _, succ := range b.Successors() {
				regs.UnionWith(live[succ])
			}
			regs.Subtract(def[b])
			regs.UnionWith(use[b])

			if !regs.Equal(live[b]) {
				live[b] = regs
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	return live
}

// liveOutOfBlock unions the live-in sets of every successor of b,
// giving the register set live at the very end of b. Both
// computeInterference and spillAroundCalls seed their backward scan
// with this value.
func liveOutOfBlock(b *mach.MachineBB, liveIn map[*mach.MachineBB]RegSet) RegSet {
	regs := NewRegSet()
	for _, succ := range b.Successors() {
		regs.UnionWith(liveIn[succ])
	}
	return regs
}
