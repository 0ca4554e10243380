package mach

// MachineFunction is a lowered function: an ordered block list plus the
// vreg counter and the owned lists of stack parameters and stack
// variables it manufactured. A MachineFunction exclusively owns every
// virtual register, stack location, stack parameter, block, and
// instruction it creates.
type MachineFunction struct {
	Name   string
	Blocks []*MachineBB

	Params      []StackParameter // stack-passed parameters, in order
	StackLocals []string         // named local stack slots (not spills)

	nextVregID int
	nextBBID   int
}

// NewMachineFunction creates an empty function.
func NewMachineFunction(name string) *MachineFunction {
	return &MachineFunction{Name: name}
}

// NewBlock creates and appends a fresh basic block with a dense,
// function-unique id.
func (f *MachineFunction) NewBlock() *MachineBB {
	b := &MachineBB{ID: f.nextBBID}
	f.nextBBID++
	f.Blocks = append(f.Blocks, b)
	return b
}

// NewVReg mints a fresh virtual register. The id counter lives on the
// MachineFunction rather than as a package-level variable (the
// original's _nextVregNumber).
func (f *MachineFunction) NewVReg() VReg {
	v := VReg{ID: f.nextVregID}
	f.nextVregID++
	return v
}

// AllVRegs returns every distinct virtual register id minted so far, in
// creation order.
func (f *MachineFunction) AllVRegs() []VReg {
	regs := make([]VReg, f.nextVregID)
	for i := range regs {
		regs[i] = VReg{ID: i}
	}
	return regs
}
