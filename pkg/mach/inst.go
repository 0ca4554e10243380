package mach

import (
	"fmt"
	"strings"
)

// Opcode enumerates the machine operations the instruction selector can
// emit, matching original_source/h/machine_instruction.hpp's Opcode enum
// exactly (including its individual Jcc variants — not one generic
// conditional-jump opcode).
type Opcode int

const (
	ADD Opcode = iota
	AND
	CALLi // call an immediate/label target (direct call)
	CALLm // call through a memory/register target (indirect call)
	CMP
	CQO
	IDIV
	IMUL
	INC
	JE
	JG
	JGE
	JL
	JLE
	JMP
	JNE
	MOVrd // register := register/immediate (direct move)
	MOVrm // register := indirect memory (load)
	MOVmd // indirect memory := register/immediate (store)
	POP
	PUSH
	RET
	SAL
	SAR
	SUB
	TEST
)

var opcodeNames = map[Opcode]string{
	ADD: "add", AND: "and", CALLi: "call", CALLm: "call",
	CMP: "cmp", CQO: "cqo", IDIV: "idiv", IMUL: "imul", INC: "inc",
	JE: "je", JG: "jg", JGE: "jge", JL: "jl", JLE: "jle", JMP: "jmp", JNE: "jne",
	MOVrd: "mov", MOVrm: "mov", MOVmd: "mov",
	POP: "pop", PUSH: "push", RET: "ret", SAL: "sal", SAR: "sar", SUB: "sub", TEST: "test",
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return "?"
}

// jumpOpcodes is the set block-successor derivation (Successors, Target)
// and the selector's block termination treat as control transfers; calls
// are recognized separately by IsCall.
var jumpOpcodes = map[Opcode]bool{
	JMP: true, JE: true, JG: true, JGE: true, JL: true, JLE: true, JNE: true,
}

// IsJump reports whether op transfers control to a BlockRef operand,
// matching MachineInst::isJump() in original_source/src/machine_instruction.cpp.
func (op Opcode) IsJump() bool { return jumpOpcodes[op] }

// IsCall reports whether op is a call instruction.
func (op Opcode) IsCall() bool { return op == CALLi || op == CALLm }

// MachineInst is one machine operation: an opcode plus input/output
// operand lists, rather than one Go type per opcode — this mirrors
// original_source's single MachineInst class with
// opcode/outputs/inputs members, kept as a plain value traversed by
// pattern match rather than as a type hierarchy.
type MachineInst struct {
	Opcode  Opcode
	Outputs []Operand
	Inputs  []Operand
}

func (i *MachineInst) String() string {
	outs := make([]string, len(i.Outputs))
	for j, o := range i.Outputs {
		outs[j] = o.String()
	}
	ins := make([]string, len(i.Inputs))
	for j, in := range i.Inputs {
		ins[j] = in.String()
	}
	operands := append(outs, ins...)
	if len(operands) == 0 {
		return i.Opcode.String()
	}
	return fmt.Sprintf("%s %s", i.Opcode, strings.Join(operands, ", "))
}

// Target returns the BlockRef a jump instruction branches to, and
// whether i is in fact a jump.
func (i *MachineInst) Target() (*MachineBB, bool) {
	if !i.Opcode.IsJump() {
		return nil, false
	}
	for _, op := range i.Inputs {
		if ref, ok := op.(BlockRef); ok {
			return ref.Block, true
		}
	}
	return nil, false
}
