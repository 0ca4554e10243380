package regalloc

import (
	"testing"

	"splc/pkg/mach"
)

func TestAssignStackLocationsMaterializesLoadAndStore(t *testing.T) {
	fn := mach.NewMachineFunction("f")
	ctx := mach.NewContext()
	v := fn.NewVReg()
	slot := mach.StackLocation{Key: v.ID}

	b := fn.NewBlock()
	store := &mach.MachineInst{Opcode: mach.MOVmd, Inputs: []mach.Operand{slot, v}}
	load := &mach.MachineInst{Opcode: mach.MOVrm, Outputs: []mach.Operand{v}, Inputs: []mach.Operand{slot}}
	b.Emit(store)
	b.Emit(load)

	a := &allocator{fn: fn, ctx: ctx}
	a.assignStackLocations()

	rbp := ctx.Reg("rbp")
	if len(store.Inputs) != 3 || store.Inputs[0] != mach.Operand(rbp) {
		t.Fatalf("store.Inputs = %v, want [rbp, value, disp]", store.Inputs)
	}
	if store.Inputs[1] != mach.Operand(v) {
		t.Errorf("store's value operand = %v, want v untouched", store.Inputs[1])
	}
	if len(load.Inputs) != 2 || load.Inputs[0] != mach.Operand(rbp) {
		t.Fatalf("load.Inputs = %v, want [rbp, disp]", load.Inputs)
	}

	storeDisp, ok := store.Inputs[2].(mach.Imm)
	if !ok {
		t.Fatalf("store displacement is not an Imm: %v", store.Inputs[2])
	}
	loadDisp, ok := load.Inputs[1].(mach.Imm)
	if !ok {
		t.Fatalf("load displacement is not an Imm: %v", load.Inputs[1])
	}
	if storeDisp != loadDisp {
		t.Errorf("store and load reference the same spill slot but got different offsets: %v vs %v", storeDisp, loadDisp)
	}
	if storeDisp.Value >= 0 {
		t.Errorf("spill slot offset = %d, want a negative rbp-relative displacement", storeDisp.Value)
	}
}

func TestAssignStackLocationsComputesStackParameterOffset(t *testing.T) {
	fn := mach.NewMachineFunction("f")
	ctx := mach.NewContext()
	sp := mach.StackParameter{Name: "x", Index: 2}
	v := fn.NewVReg()

	b := fn.NewBlock()
	load := &mach.MachineInst{Opcode: mach.MOVrm, Outputs: []mach.Operand{v}, Inputs: []mach.Operand{sp}}
	b.Emit(load)

	a := &allocator{fn: fn, ctx: ctx}
	a.assignStackLocations()

	if len(load.Inputs) != 2 {
		t.Fatalf("load.Inputs = %v, want 2 entries after materialization", load.Inputs)
	}
	disp, ok := load.Inputs[1].(mach.Imm)
	if !ok || disp.Value != 16+8*2 {
		t.Errorf("stack parameter displacement = %v, want Imm{32}", load.Inputs[1])
	}
}

func TestAllocateStackInsertsAfterFixedPrologue(t *testing.T) {
	fn := mach.NewMachineFunction("f")
	ctx := mach.NewContext()
	rbp := ctx.Reg("rbp")
	rsp := ctx.Reg("rsp")

	b := fn.NewBlock()
	b.Emit(&mach.MachineInst{Opcode: mach.PUSH, Inputs: []mach.Operand{rbp}})
	b.Emit(&mach.MachineInst{Opcode: mach.MOVrd, Outputs: []mach.Operand{rbp}, Inputs: []mach.Operand{rsp}})
	b.Emit(&mach.MachineInst{Opcode: mach.RET})

	a := &allocator{fn: fn, ctx: ctx, currentOffset: -24}
	a.allocateStack()

	insts := fn.Blocks[0].Instructions
	if len(insts) != 4 {
		t.Fatalf("got %d instructions, want 4 (push, mov, add, ret)", len(insts))
	}
	if insts[2].Opcode != mach.ADD {
		t.Fatalf("instruction 2 = %s, want the stack-size ADD", insts[2])
	}
	imm, ok := insts[2].Inputs[1].(mach.Imm)
	if !ok || imm.Value%16 != 0 {
		t.Errorf("stack adjustment = %v, want a 16-byte-aligned Imm", insts[2].Inputs[1])
	}
}

func TestAllocateStackNoopWhenFrameIsEmpty(t *testing.T) {
	fn := mach.NewMachineFunction("f")
	ctx := mach.NewContext()
	rbp := ctx.Reg("rbp")
	rsp := ctx.Reg("rsp")

	b := fn.NewBlock()
	b.Emit(&mach.MachineInst{Opcode: mach.PUSH, Inputs: []mach.Operand{rbp}})
	b.Emit(&mach.MachineInst{Opcode: mach.MOVrd, Outputs: []mach.Operand{rbp}, Inputs: []mach.Operand{rsp}})

	a := &allocator{fn: fn, ctx: ctx, currentOffset: 0}
	a.allocateStack()

	if len(fn.Blocks[0].Instructions) != 2 {
		t.Errorf("allocateStack inserted an ADD despite an empty frame")
	}
}
