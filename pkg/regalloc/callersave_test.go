package regalloc

import (
	"testing"

	"splc/pkg/mach"
)

func TestSpillAroundCallsSavesAndRestoresLiveRegister(t *testing.T) {
	fn := mach.NewMachineFunction("f")
	ctx := mach.NewContext()
	rbx := ctx.Reg("rbx")
	rax := ctx.Reg("rax")

	b := fn.NewBlock()
	b.Emit(&mach.MachineInst{Opcode: mach.MOVrd, Outputs: []mach.Operand{rbx}, Inputs: []mach.Operand{mach.Imm{Value: 1}}})
	call := &mach.MachineInst{Opcode: mach.CALLi, Outputs: []mach.Operand{rax}, Inputs: []mach.Operand{mach.Addr{Label: "g"}}}
	b.Emit(call)
	b.Emit(&mach.MachineInst{Opcode: mach.RET, Inputs: []mach.Operand{rbx}})

	a := &allocator{fn: fn, ctx: ctx}
	a.spillAroundCalls()

	insts := fn.Blocks[0].Instructions
	var callIdx = -1
	for i, inst := range insts {
		if inst == call {
			callIdx = i
		}
	}
	if callIdx < 1 || callIdx >= len(insts)-1 {
		t.Fatalf("call is not bracketed by a save and a restore: insts=%v", insts)
	}

	save := insts[callIdx-1]
	restore := insts[callIdx+1]
	if save.Opcode != mach.MOVmd {
		t.Errorf("instruction before the call = %s, want a MOVmd save", save)
	}
	if restore.Opcode != mach.MOVrm {
		t.Errorf("instruction after the call = %s, want a MOVrm restore", restore)
	}
	if save.Inputs[1] != mach.Operand(rbx) {
		t.Errorf("save does not save rbx: %v", save.Inputs[1])
	}
	if restore.Outputs[0] != mach.Operand(rbx) {
		t.Errorf("restore does not restore rbx: %v", restore.Outputs[0])
	}
}

func TestSpillAroundCallsExcludesFramePointerAndStackPointer(t *testing.T) {
	fn := mach.NewMachineFunction("f")
	ctx := mach.NewContext()
	rax := ctx.Reg("rax")

	b := fn.NewBlock()
	call := &mach.MachineInst{Opcode: mach.CALLi, Outputs: []mach.Operand{rax}, Inputs: []mach.Operand{mach.Addr{Label: "g"}}}
	b.Emit(call)
	b.Emit(&mach.MachineInst{Opcode: mach.RET})

	a := &allocator{fn: fn, ctx: ctx}
	a.spillAroundCalls()

	rbp := ctx.Reg("rbp")
	rsp := ctx.Reg("rsp")
	for _, inst := range fn.Blocks[0].Instructions {
		if inst == call {
			continue
		}
		for _, out := range inst.Outputs {
			if out == mach.Operand(rbp) || out == mach.Operand(rsp) {
				t.Errorf("spillAroundCalls saved/restored a caller-save-exempt register: %v", inst)
			}
		}
	}
}
