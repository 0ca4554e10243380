// Package asm renders a fully register-allocated Machine IR program as
// GNU-as x86-64 assembly text in Intel syntax (`.intel_syntax noprefix`),
// the final output of the compiler. Instructions, operands, and blocks
// are mach's own types: there is no separate instruction hierarchy here,
// since by this stage every MachineInst already carries its final
// opcode and hardware-register operands.
package asm

import "splc/pkg/mach"

// Global is a module-level mutable variable or static constant: a
// zero-initialized Size-byte slot in the writable data section, named
// by the assembly label the selector already baked into every
// mach.Global operand that references it.
type Global struct {
	Name string
	Size int64
}

// Program is a whole compilation unit ready for emission: the globals a
// Global operand can read from and write to, plus every function
// lowered by selection and fully colored by register allocation.
type Program struct {
	Globals   []Global
	Functions []*mach.MachineFunction
}
