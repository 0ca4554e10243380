package mach

// registerTable is the canonical 16-entry hardware register order used
// for precoloring: each register's fixed index in this table doubles as
// its graph-coloring color.
var registerTable = []string{
	"rax", "rbx", "rcx", "rdx", "rsi", "rdi", "rbp", "rsp",
	"r8", "r9", "r10", "r11", "r12", "r13", "r14", "r15",
}

// AvailableColors is the number of colors the simplify/select/spill
// phases may assign to a non-precolored virtual register. DESIGN.md
// records the decision to follow the original's 15-color behavior
// rather than a stricter 14-color reading.
const AvailableColors = 15

// Context interns HardwareRegister operands so that pointer equality
// equates physical registers across a whole MachineFunction.
type Context struct {
	hregs [16]*HReg
	byName map[string]*HReg
}

// NewContext creates a Context with all 16 hardware registers
// pre-interned in table order.
func NewContext() *Context {
	c := &Context{byName: make(map[string]*HReg, 16)}
	for i, name := range registerTable {
		r := &HReg{Name: name, Color: i}
		c.hregs[i] = r
		c.byName[name] = r
	}
	return c
}

// Reg returns the interned HReg for name.
func (c *Context) Reg(name string) HReg {
	r, ok := c.byName[name]
	if !ok {
		panic("mach: unknown hardware register " + name)
	}
	return *r
}

// RegByColor returns the interned HReg occupying color index i.
func (c *Context) RegByColor(i int) HReg {
	if i < 0 || i >= len(c.hregs) {
		panic("mach: color index out of range")
	}
	return *c.hregs[i]
}

// NumColors is the total size of the hardware register table (16); used
// by the allocator to distinguish "every color" from AvailableColors.
const NumColors = 16
