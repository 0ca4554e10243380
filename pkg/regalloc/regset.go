package regalloc

import (
	"fmt"
	"sort"

	"splc/pkg/mach"
)

// RegSet is a set of register operands (mach.VReg or mach.HReg),
// standing in for original_source's RegSet (a std::set<Reg*> ordered by
// pointer). Go has no ordered-pointer-set primitive, so membership
// lives in a map and Sorted provides the deterministic iteration order
// the simplify/select loop needs for reproducible output.
type RegSet map[mach.Operand]struct{}

// NewRegSet creates an empty set.
func NewRegSet() RegSet {
	return make(RegSet)
}

func (s RegSet) Add(r mach.Operand) {
	s[r] = struct{}{}
}

func (s RegSet) Remove(r mach.Operand) {
	delete(s, r)
}

func (s RegSet) Contains(r mach.Operand) bool {
	_, ok := s[r]
	return ok
}

func (s RegSet) Clone() RegSet {
	c := make(RegSet, len(s))
	for r := range s {
		c[r] = struct{}{}
	}
	return c
}

// UnionWith adds every member of o into s, in place.
func (s RegSet) UnionWith(o RegSet) {
	for r := range o {
		s[r] = struct{}{}
	}
}

// Subtract removes every member of o from s, in place.
func (s RegSet) Subtract(o RegSet) {
	for r := range o {
		delete(s, r)
	}
}

func (s RegSet) Equal(o RegSet) bool {
	if len(s) != len(o) {
		return false
	}
	for r := range s {
		if !o.Contains(r) {
			return false
		}
	}
	return true
}

// regKey orders operands deterministically: hregs by color, then vregs
// by id ("h" sorts before "v"). Used only to make the simplify/select scan reproducible —
// original_source's unordered_map-based scan has no such guarantee, but
// nothing in the algorithm depends on scan order for correctness.
func regKey(op mach.Operand) string {
	switch r := op.(type) {
	case mach.VReg:
		return fmt.Sprintf("v%08d", r.ID)
	case mach.HReg:
		return fmt.Sprintf("h%08d", r.Color)
	default:
		return "?"
	}
}

// Sorted returns the set's members in regKey order.
func (s RegSet) Sorted() []mach.Operand {
	out := make([]mach.Operand, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	sortOperands(out)
	return out
}

// sortOperands sorts a slice of register operands into regKey order,
// in place.
func sortOperands(ops []mach.Operand) {
	sort.Slice(ops, func(i, j int) bool { return regKey(ops[i]) < regKey(ops[j]) })
}
