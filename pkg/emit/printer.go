package asm

import (
	"fmt"
	"io"
	"runtime"

	"splc/pkg/mach"
)

// Printer outputs x86-64 assembly in GNU as syntax, Intel operand
// order (`.intel_syntax noprefix`). Addresses are emitted as bare
// absolute symbol references rather than %rip-relative ones: this
// backend targets the small, non-PIC code model, the same assumption
// that lets a destructor pointer be compared against a tag register
// with a plain `cmp` immediate (see printInstruction's CMP case).
type Printer struct {
	w        io.Writer
	isDarwin bool
}

// NewPrinter creates a new assembly printer.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, isDarwin: runtime.GOOS == "darwin"}
}

// PrintProgram outputs an entire program: the Intel-syntax directive,
// the writable data section holding every global, then .text with one
// function per mach.MachineFunction.
func (p *Printer) PrintProgram(prog *Program) {
	fmt.Fprintf(p.w, "\t.intel_syntax noprefix\n")

	if len(prog.Globals) > 0 {
		fmt.Fprintf(p.w, "\t.data\n")
		for _, g := range prog.Globals {
			p.printGlobal(g)
		}
		fmt.Fprintf(p.w, "\n")
	}

	fmt.Fprintf(p.w, "\t.text\n")
	for _, fn := range prog.Functions {
		p.printFunction(fn)
	}
}

// symbolName returns name with the platform-appropriate prefix: Darwin
// Mach-O expects a leading underscore on every external symbol; ELF
// does not.
func (p *Printer) symbolName(name string) string {
	if p.isDarwin {
		return "_" + name
	}
	return name
}

func (p *Printer) printGlobal(g Global) {
	name := p.symbolName(g.Name)
	fmt.Fprintf(p.w, "\t.global\t%s\n", name)
	fmt.Fprintf(p.w, "\t.align\t8\n")
	fmt.Fprintf(p.w, "%s:\n", name)
	fmt.Fprintf(p.w, "\t.zero\t%d\n", g.Size)
}

func (p *Printer) printFunction(fn *mach.MachineFunction) {
	name := p.symbolName(fn.Name)
	fmt.Fprintf(p.w, "\t.global\t%s\n", name)
	if !p.isDarwin {
		fmt.Fprintf(p.w, "\t.type\t%s, @function\n", name)
	}
	fmt.Fprintf(p.w, "%s:\n", name)

	for _, b := range fn.Blocks {
		fmt.Fprintf(p.w, "%s:\n", p.blockLabel(fn, b))
		for _, inst := range b.Instructions {
			p.printInstruction(fn, inst)
		}
	}

	if !p.isDarwin {
		fmt.Fprintf(p.w, "\t.size\t%s, .-%s\n", name, name)
	}
	fmt.Fprintf(p.w, "\n")
}

// blockLabel names b as a local, function-scoped label: local labels
// (.L*) are never declared .global and never take Darwin's underscore
// prefix.
func (p *Printer) blockLabel(fn *mach.MachineFunction, b *mach.MachineBB) string {
	return fmt.Sprintf(".L%s_%d", fn.Name, b.ID)
}

// operand renders a single operand in the position it appears other
// than the flat [base, disp] memory forms MOVrm/MOVmd build from two or
// three adjacent operands (handled by memOperand instead). An Addr
// renders bare: as a call target it names the routine directly; as a
// value (a destructor pointer stored into an object header, or
// compared against a runtime tag) the bare symbol is its own address,
// resolved by the linker into an absolute 32-bit-displacement
// immediate under the non-PIC code model this backend assumes. A
// Global renders bracketed, since reading or writing module state
// always dereferences its storage.
func (p *Printer) operand(op mach.Operand) string {
	switch o := op.(type) {
	case mach.HReg:
		return o.Name
	case mach.Imm:
		return fmt.Sprintf("%d", o.Value)
	case mach.Addr:
		return p.symbolName(o.Label)
	case mach.Global:
		return "[" + p.symbolName(o.Label) + "]"
	case mach.StackLocation, mach.StackParameter:
		panic(fmt.Sprintf("emit: %v reached the emitter unmaterialized", op))
	default:
		panic(fmt.Sprintf("emit: unrenderable operand %T", op))
	}
}

// memOperand renders the flat [base, disp] / [base, value, disp] shape
// register allocation leaves behind once every StackLocation and
// StackParameter has been rewritten to an rbp-relative register plus
// displacement, and every heap field access already uses from
// selection onward.
func (p *Printer) memOperand(base mach.Operand, disp mach.Imm) string {
	baseReg, ok := base.(mach.HReg)
	if !ok {
		panic(fmt.Sprintf("emit: memory operand base %v is not a hardware register", base))
	}
	switch {
	case disp.Value == 0:
		return fmt.Sprintf("[%s]", baseReg.Name)
	case disp.Value < 0:
		return fmt.Sprintf("[%s-%d]", baseReg.Name, -disp.Value)
	default:
		return fmt.Sprintf("[%s+%d]", baseReg.Name, disp.Value)
	}
}

// printInstruction renders one MachineInst, matching the operand
// conventions instruction selection and register allocation fix for
// each opcode: see pkg/select/instr.go and pkg/regalloc for how each
// shape below is produced.
func (p *Printer) printInstruction(fn *mach.MachineFunction, inst *mach.MachineInst) {
	switch inst.Opcode {
	case mach.ADD, mach.SUB, mach.IMUL, mach.AND, mach.SAL, mach.SAR:
		fmt.Fprintf(p.w, "\t%s\t%s, %s\n", inst.Opcode, p.operand(inst.Outputs[0]), p.operand(inst.Inputs[1]))

	case mach.CMP, mach.TEST:
		fmt.Fprintf(p.w, "\t%s\t%s, %s\n", inst.Opcode, p.operand(inst.Inputs[0]), p.operand(inst.Inputs[1]))

	case mach.CQO:
		fmt.Fprintf(p.w, "\tcqo\n")

	case mach.IDIV:
		fmt.Fprintf(p.w, "\tidiv\t%s\n", p.operand(inst.Inputs[2]))

	case mach.INC:
		fmt.Fprintf(p.w, "\tinc\t%s\n", p.operand(inst.Outputs[0]))

	case mach.JE, mach.JG, mach.JGE, mach.JL, mach.JLE, mach.JMP, mach.JNE:
		target, ok := inst.Target()
		if !ok {
			panic(fmt.Sprintf("emit: %s has no block target", inst.Opcode))
		}
		fmt.Fprintf(p.w, "\t%s\t%s\n", inst.Opcode, p.blockLabel(fn, target))

	case mach.MOVrd:
		fmt.Fprintf(p.w, "\tmov\t%s, %s\n", p.operand(inst.Outputs[0]), p.operand(inst.Inputs[0]))

	case mach.MOVrm:
		disp, ok := inst.Inputs[1].(mach.Imm)
		if !ok || len(inst.Inputs) != 2 {
			panic(fmt.Sprintf("emit: MOVrm %v is not in flat [base, disp] form", inst))
		}
		fmt.Fprintf(p.w, "\tmov\t%s, %s\n", p.operand(inst.Outputs[0]), p.memOperand(inst.Inputs[0], disp))

	case mach.MOVmd:
		disp, ok := inst.Inputs[2].(mach.Imm)
		if !ok || len(inst.Inputs) != 3 {
			panic(fmt.Sprintf("emit: MOVmd %v is not in flat [base, value, disp] form", inst))
		}
		fmt.Fprintf(p.w, "\tmov\t%s, %s\n", p.memOperand(inst.Inputs[0], disp), p.operand(inst.Inputs[1]))

	case mach.POP:
		fmt.Fprintf(p.w, "\tpop\t%s\n", p.operand(inst.Outputs[0]))

	case mach.PUSH:
		fmt.Fprintf(p.w, "\tpush\t%s\n", p.operand(inst.Inputs[0]))

	case mach.RET:
		fmt.Fprintf(p.w, "\tret\n")

	case mach.CALLi, mach.CALLm:
		fmt.Fprintf(p.w, "\tcall\t%s\n", p.operand(inst.Inputs[0]))

	default:
		panic(fmt.Sprintf("emit: unhandled opcode %s", inst.Opcode))
	}
}
