package regalloc

import (
	"testing"

	"splc/pkg/mach"
)

func TestBuildInterferenceEdgeBetweenOverlappingLiveRanges(t *testing.T) {
	fn := mach.NewMachineFunction("f")
	ctx := mach.NewContext()
	v0 := fn.NewVReg()
	v1 := fn.NewVReg()
	v2 := fn.NewVReg()

	b := fn.NewBlock()
	// v0 and v1 are both live when v2 is defined from them; v0 is dead
	// by the time v1 is used alone afterwards.
	b.Emit(&mach.MachineInst{Opcode: mach.MOVrd, Outputs: []mach.Operand{v0}, Inputs: []mach.Operand{mach.Imm{Value: 1}}})
	b.Emit(&mach.MachineInst{Opcode: mach.MOVrd, Outputs: []mach.Operand{v1}, Inputs: []mach.Operand{mach.Imm{Value: 2}}})
	b.Emit(&mach.MachineInst{Opcode: mach.ADD, Outputs: []mach.Operand{v2}, Inputs: []mach.Operand{v0, v1}})
	b.Emit(&mach.MachineInst{Opcode: mach.RET, Inputs: []mach.Operand{v1}})

	liveIn := blockLiveness(fn)
	g, _ := buildInterference(fn, ctx, liveIn)

	if !g[v0].Contains(v1) || !g[v1].Contains(v0) {
		t.Errorf("v0 and v1 are simultaneously live but do not interfere: %v", g)
	}
	if g[v0].Contains(v2) {
		t.Errorf("v0 is dead by the time v2 is defined, but they interfere")
	}
}

func TestBuildInterferencePrecolorsHardwareRegisters(t *testing.T) {
	fn := mach.NewMachineFunction("f")
	ctx := mach.NewContext()
	rax := ctx.Reg("rax")
	rbx := ctx.Reg("rbx")

	b := fn.NewBlock()
	b.Emit(&mach.MachineInst{Opcode: mach.MOVrd, Outputs: []mach.Operand{rax}, Inputs: []mach.Operand{mach.Imm{Value: 1}}})
	b.Emit(&mach.MachineInst{Opcode: mach.MOVrd, Outputs: []mach.Operand{rbx}, Inputs: []mach.Operand{rax}})
	b.Emit(&mach.MachineInst{Opcode: mach.RET, Inputs: []mach.Operand{rbx}})

	liveIn := blockLiveness(fn)
	_, precolored := buildInterference(fn, ctx, liveIn)

	if precolored[rax] != rax.Color {
		t.Errorf("precolored[rax] = %d, want %d", precolored[rax], rax.Color)
	}
	if precolored[rbx] != rbx.Color {
		t.Errorf("precolored[rbx] = %d, want %d", precolored[rbx], rbx.Color)
	}
}
