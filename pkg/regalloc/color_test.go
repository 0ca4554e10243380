package regalloc

import (
	"testing"

	"splc/pkg/mach"
)

func TestTryColorAssignsDistinctColorsToInterferingVregs(t *testing.T) {
	v0, v1 := mach.VReg{ID: 0}, mach.VReg{ID: 1}
	g := InterferenceGraph{}
	g.addEdge(v0, v1)

	coloring, _, ok := tryColor(g, map[mach.Operand]int{})
	if !ok {
		t.Fatal("tryColor failed on a two-vertex graph well within AvailableColors")
	}
	if coloring[v0] == coloring[v1] {
		t.Errorf("interfering vregs got the same color %d", coloring[v0])
	}
}

func TestTryColorRespectsPrecoloring(t *testing.T) {
	ctx := mach.NewContext()
	rax := ctx.Reg("rax")
	v0 := mach.VReg{ID: 0}

	g := InterferenceGraph{}
	g.addEdge(v0, rax)

	coloring, _, ok := tryColor(g, map[mach.Operand]int{rax: rax.Color})
	if !ok {
		t.Fatal("tryColor failed")
	}
	if coloring[rax] != rax.Color {
		t.Errorf("precolored rax got recolored to %d", coloring[rax])
	}
	if coloring[v0] == rax.Color {
		t.Errorf("v0 interferes with rax but got its color")
	}
}

func TestTryColorReportsUncolorableVertex(t *testing.T) {
	// A clique of AvailableColors+1 mutually-interfering vregs cannot be
	// colored in one pass.
	g := InterferenceGraph{}
	regs := make([]mach.VReg, mach.AvailableColors+1)
	for i := range regs {
		regs[i] = mach.VReg{ID: i}
	}
	for i := range regs {
		for j := i + 1; j < len(regs); j++ {
			g.addEdge(regs[i], regs[j])
		}
	}

	_, toSpill, ok := tryColor(g, map[mach.Operand]int{})
	if ok {
		t.Fatal("tryColor succeeded on a clique one larger than AvailableColors")
	}
	if toSpill == nil {
		t.Error("tryColor reported failure without naming a vertex to spill")
	}
}

func TestColorGraphSpillsAndRetriesUntilItFits(t *testing.T) {
	fn := mach.NewMachineFunction("f")
	ctx := mach.NewContext()

	// AvailableColors+1 values simultaneously live: each is defined from
	// an immediate, then all are summed together at the end, forcing one
	// to be spilled.
	n := mach.AvailableColors + 1
	vregs := make([]mach.VReg, n)
	b := fn.NewBlock()
	for i := 0; i < n; i++ {
		vregs[i] = fn.NewVReg()
		b.Emit(&mach.MachineInst{Opcode: mach.MOVrd, Outputs: []mach.Operand{vregs[i]}, Inputs: []mach.Operand{mach.Imm{Value: int64(i)}}})
	}
	acc := fn.NewVReg()
	b.Emit(&mach.MachineInst{Opcode: mach.MOVrd, Outputs: []mach.Operand{acc}, Inputs: []mach.Operand{vregs[0]}})
	for i := 1; i < n; i++ {
		b.Emit(&mach.MachineInst{Opcode: mach.ADD, Outputs: []mach.Operand{acc}, Inputs: []mach.Operand{acc, vregs[i]}})
	}
	b.Emit(&mach.MachineInst{Opcode: mach.RET, Inputs: []mach.Operand{acc}})

	coloring := colorGraph(fn, ctx)
	if coloring == nil {
		t.Fatal("colorGraph returned a nil coloring")
	}

	sawSpillSlot := false
	for _, blk := range fn.Blocks {
		for _, inst := range blk.Instructions {
			for _, in := range inst.Inputs {
				if _, ok := in.(mach.StackLocation); ok {
					sawSpillSlot = true
				}
			}
		}
	}
	if !sawSpillSlot {
		t.Error("colorGraph did not rewrite the function with a spill slot despite exceeding AvailableColors")
	}
}
