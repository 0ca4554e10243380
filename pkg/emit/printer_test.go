package asm

import (
	"bytes"
	"strings"
	"testing"

	"splc/pkg/mach"
)

func TestPrintArithmeticAndCompare(t *testing.T) {
	ctx := mach.NewContext()
	rax := ctx.Reg("rax")
	rbx := ctx.Reg("rbx")

	tests := []struct {
		name string
		inst *mach.MachineInst
		want string
	}{
		{"add", &mach.MachineInst{Opcode: mach.ADD, Outputs: []mach.Operand{rax}, Inputs: []mach.Operand{rax, rbx}}, "\tadd\trax, rbx\n"},
		{"sub", &mach.MachineInst{Opcode: mach.SUB, Outputs: []mach.Operand{rax}, Inputs: []mach.Operand{rax, mach.Imm{Value: 3}}}, "\tsub\trax, 3\n"},
		{"imul", &mach.MachineInst{Opcode: mach.IMUL, Outputs: []mach.Operand{rax}, Inputs: []mach.Operand{rax, rbx}}, "\timul\trax, rbx\n"},
		{"cmp", &mach.MachineInst{Opcode: mach.CMP, Inputs: []mach.Operand{rax, mach.Imm{Value: 1}}}, "\tcmp\trax, 1\n"},
		{"idiv", &mach.MachineInst{Opcode: mach.IDIV, Outputs: []mach.Operand{rax, ctx.Reg("rdx")}, Inputs: []mach.Operand{rax, ctx.Reg("rdx"), rbx}}, "\tidiv\trbx\n"},
		{"cqo", &mach.MachineInst{Opcode: mach.CQO, Outputs: []mach.Operand{rax, ctx.Reg("rdx")}, Inputs: []mach.Operand{rax}}, "\tcqo\n"},
	}

	fn := mach.NewMachineFunction("f")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			p := NewPrinter(&buf)
			p.printInstruction(fn, tt.inst)
			if got := buf.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrintMovVariants(t *testing.T) {
	ctx := mach.NewContext()
	rax := ctx.Reg("rax")
	rbx := ctx.Reg("rbx")
	fn := mach.NewMachineFunction("f")

	tests := []struct {
		name string
		inst *mach.MachineInst
		want string
	}{
		{"reg-reg", &mach.MachineInst{Opcode: mach.MOVrd, Outputs: []mach.Operand{rax}, Inputs: []mach.Operand{rbx}}, "\tmov\trax, rbx\n"},
		{"reg-imm", &mach.MachineInst{Opcode: mach.MOVrd, Outputs: []mach.Operand{rax}, Inputs: []mach.Operand{mach.Imm{Value: 7}}}, "\tmov\trax, 7\n"},
		{"load zero disp", &mach.MachineInst{Opcode: mach.MOVrm, Outputs: []mach.Operand{rax}, Inputs: []mach.Operand{rbx, mach.Imm{Value: 0}}}, "\tmov\trax, [rbx]\n"},
		{"load pos disp", &mach.MachineInst{Opcode: mach.MOVrm, Outputs: []mach.Operand{rax}, Inputs: []mach.Operand{rbx, mach.Imm{Value: 8}}}, "\tmov\trax, [rbx+8]\n"},
		{"load neg disp", &mach.MachineInst{Opcode: mach.MOVrm, Outputs: []mach.Operand{rax}, Inputs: []mach.Operand{rbx, mach.Imm{Value: -16}}}, "\tmov\trax, [rbx-16]\n"},
		{"store", &mach.MachineInst{Opcode: mach.MOVmd, Inputs: []mach.Operand{rbx, rax, mach.Imm{Value: 8}}}, "\tmov\t[rbx+8], rax\n"},
		{"global read", &mach.MachineInst{Opcode: mach.MOVrd, Outputs: []mach.Operand{rax}, Inputs: []mach.Operand{mach.Global{Label: "_counter"}}}, "\tmov\trax, [_counter]\n"},
		{"global write", &mach.MachineInst{Opcode: mach.MOVrd, Outputs: []mach.Operand{mach.Global{Label: "_counter"}}, Inputs: []mach.Operand{rax}}, "\tmov\t[_counter], rax\n"},
		{"destructor value", &mach.MachineInst{Opcode: mach.MOVmd, Inputs: []mach.Operand{rbx, mach.Addr{Label: "_destroyPair"}, mach.Imm{Value: 0}}}, "\tmov\t[rbx], _destroyPair\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			p := NewPrinter(&buf)
			p.printInstruction(fn, tt.inst)
			if got := buf.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrintMovrmPanicsOnUnmaterializedStackLocation(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic when a StackLocation reaches the emitter")
		}
	}()
	fn := mach.NewMachineFunction("f")
	ctx := mach.NewContext()
	inst := &mach.MachineInst{Opcode: mach.MOVrm, Outputs: []mach.Operand{ctx.Reg("rax")}, Inputs: []mach.Operand{mach.StackLocation{Key: 0}, mach.Imm{Value: 0}}}
	NewPrinter(&bytes.Buffer{}).printInstruction(fn, inst)
}

func TestPrintCallTargetsAndStack(t *testing.T) {
	ctx := mach.NewContext()
	rax := ctx.Reg("rax")
	rbp := ctx.Reg("rbp")
	fn := mach.NewMachineFunction("f")

	tests := []struct {
		name string
		inst *mach.MachineInst
		want string
	}{
		{"direct call", &mach.MachineInst{Opcode: mach.CALLi, Outputs: []mach.Operand{rax}, Inputs: []mach.Operand{mach.Addr{Label: "_malloc"}}}, "\tcall\t_malloc\n"},
		{"indirect call", &mach.MachineInst{Opcode: mach.CALLm, Outputs: []mach.Operand{rax}, Inputs: []mach.Operand{rax}}, "\tcall\trax\n"},
		{"push", &mach.MachineInst{Opcode: mach.PUSH, Inputs: []mach.Operand{rbp}}, "\tpush\trbp\n"},
		{"pop", &mach.MachineInst{Opcode: mach.POP, Outputs: []mach.Operand{rbp}}, "\tpop\trbp\n"},
		{"ret", &mach.MachineInst{Opcode: mach.RET}, "\tret\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			p := NewPrinter(&buf)
			p.printInstruction(fn, tt.inst)
			if got := buf.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrintJumpUsesBlockLocalLabel(t *testing.T) {
	fn := mach.NewMachineFunction("loop")
	target := fn.NewBlock()
	inst := &mach.MachineInst{Opcode: mach.JMP, Inputs: []mach.Operand{mach.BlockRef{Block: target}}}

	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.printInstruction(fn, inst)

	want := "\tjmp\t.Lloop_0\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPrintFunctionEmitsLabelsForEveryBlock(t *testing.T) {
	ctx := mach.NewContext()
	fn := mach.NewMachineFunction("add_one")
	b := fn.NewBlock()
	b.Emit(&mach.MachineInst{Opcode: mach.ADD, Outputs: []mach.Operand{ctx.Reg("rax")}, Inputs: []mach.Operand{ctx.Reg("rax"), mach.Imm{Value: 1}}})
	b.Emit(&mach.MachineInst{Opcode: mach.RET})

	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.printFunction(fn)

	output := buf.String()
	if !strings.Contains(output, ".global\tadd_one") {
		t.Error("missing .global directive")
	}
	if !strings.Contains(output, "add_one:") {
		t.Error("missing function label")
	}
	if !strings.Contains(output, ".Ladd_one_0:") {
		t.Error("missing block label")
	}
	if !strings.Contains(output, "add\trax, 1") {
		t.Error("missing ADD instruction")
	}
	if !strings.Contains(output, "ret") {
		t.Error("missing RET instruction")
	}
}

func TestPrintProgramEmitsDataAndTextSections(t *testing.T) {
	fn := mach.NewMachineFunction("main")
	b := fn.NewBlock()
	b.Emit(&mach.MachineInst{Opcode: mach.RET})

	prog := &Program{
		Globals:   []Global{{Name: "_counter", Size: 8}},
		Functions: []*mach.MachineFunction{fn},
	}

	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.PrintProgram(prog)

	output := buf.String()
	if !strings.Contains(output, ".intel_syntax noprefix") {
		t.Error("missing Intel syntax directive")
	}
	if !strings.Contains(output, ".data") {
		t.Error("missing .data section")
	}
	if !strings.Contains(output, ".global\t_counter") {
		t.Error("missing global variable directive")
	}
	if !strings.Contains(output, ".text") {
		t.Error("missing .text section")
	}
	if !strings.Contains(output, ".global\tmain") {
		t.Error("missing main function directive")
	}
}
