package regalloc

import (
	"testing"

	"splc/pkg/mach"
)

func TestInsertEpiloguesRestoresRbpBeforeEveryReturn(t *testing.T) {
	fn := mach.NewMachineFunction("f")
	ctx := mach.NewContext()
	rbp := ctx.Reg("rbp")
	rsp := ctx.Reg("rsp")

	b := fn.NewBlock()
	b.Emit(&mach.MachineInst{Opcode: mach.PUSH, Inputs: []mach.Operand{rbp}})
	b.Emit(&mach.MachineInst{Opcode: mach.MOVrd, Outputs: []mach.Operand{rbp}, Inputs: []mach.Operand{rsp}})
	b.Emit(&mach.MachineInst{Opcode: mach.RET})

	a := &allocator{fn: fn, ctx: ctx}
	a.insertEpilogues()

	insts := fn.Blocks[0].Instructions
	if len(insts) != 5 {
		t.Fatalf("got %d instructions, want 5 (push, mov, mov, pop, ret)", len(insts))
	}
	if insts[2].Opcode != mach.MOVrd || insts[2].Outputs[0] != mach.Operand(rsp) || insts[2].Inputs[0] != mach.Operand(rbp) {
		t.Errorf("instruction 2 = %s, want mov rsp, rbp", insts[2])
	}
	if insts[3].Opcode != mach.POP || insts[3].Outputs[0] != mach.Operand(rbp) {
		t.Errorf("instruction 3 = %s, want pop rbp", insts[3])
	}
	if insts[4].Opcode != mach.RET {
		t.Errorf("instruction 4 = %s, want ret", insts[4])
	}
}

func TestInsertEpiloguesHandlesMultipleReturnBlocks(t *testing.T) {
	fn := mach.NewMachineFunction("f")
	ctx := mach.NewContext()
	rbp := ctx.Reg("rbp")
	rax := ctx.Reg("rax")

	entry := fn.NewBlock()
	other := fn.NewBlock()
	entry.Emit(&mach.MachineInst{Opcode: mach.RET, Inputs: []mach.Operand{rax}})
	other.Emit(&mach.MachineInst{Opcode: mach.RET})

	a := &allocator{fn: fn, ctx: ctx}
	a.insertEpilogues()

	for _, b := range []*mach.MachineBB{entry, other} {
		insts := b.Instructions
		if len(insts) != 3 {
			t.Fatalf("block has %d instructions, want 3 (mov, pop, ret)", len(insts))
		}
		if insts[2].Opcode != mach.RET {
			t.Errorf("last instruction = %s, want ret", insts[2])
		}
		if insts[1].Opcode != mach.POP || insts[1].Outputs[0] != mach.Operand(rbp) {
			t.Errorf("instruction 1 = %s, want pop rbp", insts[1])
		}
	}
}
