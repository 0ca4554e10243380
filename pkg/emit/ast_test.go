package asm

import (
	"testing"

	"splc/pkg/mach"
)

func TestProgramHoldsGlobalsAndFunctions(t *testing.T) {
	fn := mach.NewMachineFunction("main")
	prog := &Program{
		Globals:   []Global{{Name: "_counter", Size: 8}},
		Functions: []*mach.MachineFunction{fn},
	}

	if len(prog.Globals) != 1 || prog.Globals[0].Name != "_counter" {
		t.Errorf("Globals = %v, want one entry named _counter", prog.Globals)
	}
	if len(prog.Functions) != 1 || prog.Functions[0] != fn {
		t.Errorf("Functions = %v, want [fn]", prog.Functions)
	}
}
