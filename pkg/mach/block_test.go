package mach

import "testing"

func TestSuccessorsStopsAtFirstNonJump(t *testing.T) {
	fn := NewMachineFunction("f")
	entry := fn.NewBlock()
	thenBlk := fn.NewBlock()
	elseBlk := fn.NewBlock()

	entry.Emit(&MachineInst{Opcode: CMP, Inputs: []Operand{VReg{0}, Imm{0}}})
	entry.Emit(&MachineInst{Opcode: JE, Inputs: []Operand{BlockRef{Block: elseBlk}}})
	entry.Emit(&MachineInst{Opcode: JMP, Inputs: []Operand{BlockRef{Block: thenBlk}}})

	succs := entry.Successors()
	if len(succs) != 2 {
		t.Fatalf("got %d successors, want 2: %v", len(succs), succs)
	}
	if succs[0] != elseBlk || succs[1] != thenBlk {
		t.Errorf("successors = [%v, %v], want [else, then] in program order", succs[0].ID, succs[1].ID)
	}
}

func TestSuccessorsEmptyAfterReturn(t *testing.T) {
	fn := NewMachineFunction("f")
	b := fn.NewBlock()
	b.Emit(&MachineInst{Opcode: RET})

	if succs := b.Successors(); len(succs) != 0 {
		t.Errorf("got %d successors after RET, want 0", len(succs))
	}
}

func TestNewBlockIDsAreDense(t *testing.T) {
	fn := NewMachineFunction("f")
	a := fn.NewBlock()
	b := fn.NewBlock()
	c := fn.NewBlock()

	if a.ID != 0 || b.ID != 1 || c.ID != 2 {
		t.Errorf("block ids = %d, %d, %d, want 0, 1, 2", a.ID, b.ID, c.ID)
	}
}
