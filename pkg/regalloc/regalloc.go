// Package regalloc implements Chaitin-style graph-coloring register
// allocation over the Machine IR: liveness, interference, the
// simplify/select/spill loop, hardware register substitution,
// stack-slot materialization, caller-save spilling around calls, and
// prologue completion. It is grounded directly on
// original_source/src/reg_alloc.cpp's RegAlloc class; an Iterated
// Register Coalescing allocator over RTL solves a related but
// substantially more sophisticated problem and is not the model here.
// This package keeps a file-per-concern layout and subtest-based
// testing idiom but follows the simpler algorithm.
package regalloc

import "splc/pkg/mach"

// Run lowers fn's virtual registers to hardware registers and
// materializes every stack access in place, matching RegAlloc::run()'s
// phase order: color the interference graph (spilling and retrying as
// needed), substitute the resulting hardware registers for every vreg,
// assign concrete stack offsets to spill/parameter slots, spill live
// registers around calls, grow the stack frame by the total space
// those slots claimed, and complete every return path with the
// matching epilogue.
func Run(fn *mach.MachineFunction, ctx *mach.Context) {
	a := &allocator{fn: fn, ctx: ctx, coloring: colorGraph(fn, ctx)}
	a.replaceRegs()
	a.assignStackLocations()
	a.spillAroundCalls()
	a.allocateStack()
	a.insertEpilogues()
}

// allocator carries the state threaded across Run's phases: the final
// vreg coloring, and the stack-offset bookkeeping assignStackLocations
// and spillAroundCalls both contribute to.
type allocator struct {
	fn       *mach.MachineFunction
	ctx      *mach.Context
	coloring map[mach.Operand]int

	stackOffsets  map[mach.StackLocation]int64
	currentOffset int64
}

// replaceRegs substitutes every vreg input/output with the hardware
// register its final color names, matching RegAlloc::replaceRegs.
func (a *allocator) replaceRegs() {
	for _, b := range a.fn.Blocks {
		for _, inst := range b.Instructions {
			for i, in := range inst.Inputs {
				if v, ok := in.(mach.VReg); ok {
					inst.Inputs[i] = a.ctx.RegByColor(a.coloring[v])
				}
			}
			for i, out := range inst.Outputs {
				if v, ok := out.(mach.VReg); ok {
					inst.Outputs[i] = a.ctx.RegByColor(a.coloring[v])
				}
			}
		}
	}
}
