// Package mach defines the Machine IR: a per-function control-flow
// graph of basic blocks holding opcode-level instructions over a single
// unified operand type. It plays the combined role RTL's successor
// stages (LTL, Mach) play in a CompCert-shaped pipeline, collapsed into
// one stage.
package mach

import "fmt"

// Operand is the sum type of every MachineInst argument, expressed as a
// tagged union traversed by type switch rather than as
// isVreg()/isHreg()-style predicate methods.
type Operand interface {
	implOperand()
	String() string
}

// VReg is an unbounded-supply virtual register, introduced during
// instruction selection and eliminated by register allocation.
type VReg struct {
	ID int
}

func (VReg) implOperand()   {}
func (v VReg) String() string { return fmt.Sprintf("v%d", v.ID) }

// HReg is one of the 16 general-purpose x86-64 registers. HReg values
// are always obtained from a Context so that equality equates physical
// registers consistently across a whole compilation unit.
type HReg struct {
	Name  string
	Color int
}

func (HReg) implOperand()   {}
func (r HReg) String() string { return r.Name }

// Imm is an immediate integer operand.
type Imm struct {
	Value int64
}

func (Imm) implOperand()   {}
func (i Imm) String() string { return fmt.Sprintf("%d", i.Value) }

// Addr is a symbol's own address: a call target, or a function value
// taken as data (e.g. the destructor pointer stored in a heap object's
// header). It is never dereferenced — wherever it appears as an
// operand value rather than a call target, it stands for the symbol's
// address itself.
type Addr struct {
	Label string
}

func (Addr) implOperand()   {}
func (a Addr) String() string { return a.Label }

// Global is a module-level mutable variable or static constant's own
// storage, always read or written by dereferencing its label — unlike
// Addr, which never is. A global's value is never carried directly as
// the base of a flat [base, disp] memory operand; accessing a field
// through a pointer held in a global first loads that pointer into a
// register.
type Global struct {
	Label string
}

func (Global) implOperand()   {}
func (g Global) String() string { return "[" + g.Label + "]" }

// StackLocation is a spill slot, keyed by the virtual register it holds.
// It carries no offset of its own: the allocator's stack-slot-
// materialization phase looks up a shared key->offset map and rewrites
// the single-operand MOVrm/two-operand MOVmd that references it into
// rbp-relative register+Immediate form in place, the same shape a heap
// field access already uses.
type StackLocation struct {
	Key int // the spilled vreg's id
}

func (StackLocation) implOperand() {}
func (s StackLocation) String() string { return fmt.Sprintf("spill(v%d)", s.Key) }

// StackParameter is an incoming parameter passed on the stack (the 7th
// and later integer argument under System V AMD64). Index is its
// position among stack-passed parameters, used to compute
// `[rbp + 16 + 8*Index]` at materialization time.
type StackParameter struct {
	Name  string
	Index int
}

func (StackParameter) implOperand() {}
func (p StackParameter) String() string { return fmt.Sprintf("stackparam(%s,%d)", p.Name, p.Index) }

// BlockRef is a jump target: a MachineBB used directly as an operand.
type BlockRef struct {
	Block *MachineBB
}

func (BlockRef) implOperand()   {}
func (b BlockRef) String() string { return fmt.Sprintf(".L%d", b.Block.ID) }

// IsRegister reports whether op is a VReg or HReg — the operand classes
// liveness and interference reason about.
func IsRegister(op Operand) bool {
	switch op.(type) {
	case VReg, HReg:
		return true
	default:
		return false
	}
}
