package selection

import "splc/pkg/tac"
import "splc/pkg/mach"

// operand resolves a tac.Address read to a mach.Operand. A TempAddress
// or a local/param NameAddress resolves to its standing vreg (minted on
// first reference); a global/static NameAddress resolves to a Global
// naming its storage and a function NameAddress to an Addr, both by
// assembly label; a stack-passed parameter is reloaded into
// a fresh vreg on every read, since nothing here performs value
// numbering across uses.
func (fs *funcSelector) operand(addr tac.Address) mach.Operand {
	switch a := addr.(type) {
	case *tac.ConstAddress:
		return mach.Imm{Value: a.Value}
	case *tac.TempAddress:
		return fs.tempVReg(a)
	case *tac.NameAddress:
		switch a.Tag {
		case tac.TagGlobal, tac.TagStatic:
			return mach.Global{Label: a.Mangled}
		case tac.TagFunction:
			return mach.Addr{Label: a.Mangled}
		case tac.TagParam:
			if sp, ok := fs.stackParams[a]; ok {
				v := fs.mfn.NewVReg()
				fs.emit(mach.MOVrm, []mach.Operand{v}, []mach.Operand{sp})
				return v
			}
			return fs.localVReg(a)
		default:
			return fs.localVReg(a)
		}
	}
	panic("select: unhandled address kind")
}

// writeTarget resolves a tac.Address that is about to be written.
// Writing to a name that is still stack-param-backed upgrades it to an
// ordinary vreg from this point on: the rare case of a function
// reassigning one of its own incoming stack parameters.
func (fs *funcSelector) writeTarget(addr tac.Address) mach.Operand {
	switch a := addr.(type) {
	case *tac.TempAddress:
		return fs.tempVReg(a)
	case *tac.NameAddress:
		switch a.Tag {
		case tac.TagGlobal, tac.TagStatic:
			return mach.Global{Label: a.Mangled}
		case tac.TagFunction:
			panic("select: cannot assign to a function name")
		case tac.TagParam:
			if _, ok := fs.stackParams[a]; ok {
				v := fs.mfn.NewVReg()
				fs.vregs[a] = v
				delete(fs.stackParams, a)
				return v
			}
			return fs.localVReg(a)
		default:
			return fs.localVReg(a)
		}
	}
	panic("select: unhandled assignment target kind")
}

func (fs *funcSelector) tempVReg(t *tac.TempAddress) mach.VReg {
	if v, ok := fs.temps[t]; ok {
		return v
	}
	v := fs.mfn.NewVReg()
	fs.temps[t] = v
	return v
}

func (fs *funcSelector) localVReg(n *tac.NameAddress) mach.VReg {
	if v, ok := fs.vregs[n]; ok {
		return v
	}
	v := fs.mfn.NewVReg()
	fs.vregs[n] = v
	return v
}
