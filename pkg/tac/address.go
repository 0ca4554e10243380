// Package tac defines the three-address code intermediate representation:
// a linear IR where each instruction names at most one destination and
// two sources, operating over a small set of addresses. It plays the
// role RTL plays in a CompCert-shaped pipeline, but flat rather than a
// CFG-node-indexed map: a function is an ordered instruction list with
// Label markers standing in for basic-block boundaries.
package tac

import (
	"fmt"

	"splc/pkg/types"
)

// Address is the operand type of every TAC instruction.
type Address interface {
	implAddress()
	String() string
}

// NameTag classifies a NameAddress the way original_source/src/address.cpp
// derives it from the symbol it names.
type NameTag int

const (
	TagGlobal NameTag = iota
	TagLocal
	TagParam
	TagStatic
	TagFunction
)

func (t NameTag) String() string {
	switch t {
	case TagGlobal:
		return "global"
	case TagLocal:
		return "local"
	case TagParam:
		return "param"
	case TagStatic:
		return "static"
	case TagFunction:
		return "function"
	}
	return "?"
}

// NameAddress names a declared symbol or a synthesized helper. Two
// NameAddress values referring to the same symbol are always the same
// *NameAddress pointer (see Context.Intern): pointer equality is symbol
// identity.
type NameAddress struct {
	Mangled string
	Tag     NameTag
}

func (a *NameAddress) implAddress() {}
func (a *NameAddress) String() string {
	return a.Mangled
}

// TempAddress is a compiler-introduced temporary, unique within its
// owning function. By convention each temp is written exactly once, but
// this is not enforced anywhere in the IR.
type TempAddress struct {
	ID int
}

func (a *TempAddress) implAddress() {}
func (a *TempAddress) String() string {
	return fmt.Sprintf("%%%d", a.ID)
}

// ConstAddress is an integer literal operand, already in its final
// encoded form (tagged `2n+1`, or an unboxed header/offset constant —
// the builder decides which before creating the address).
type ConstAddress struct {
	Value int64
}

func (a *ConstAddress) implAddress() {}
func (a *ConstAddress) String() string {
	return fmt.Sprintf("%d", a.Value)
}

// True and False are the canonical tagged boolean constants: low bit set
// on both, so they read as tagged integers 1 and 0 with the tag bit
// already applied (2*1+1=3, 2*0+1=1).
var (
	True  = &ConstAddress{Value: 3}
	False = &ConstAddress{Value: 1}
)

// UnboxedZero and UnboxedOne are untagged integer constants, used for
// header fields and tag comparisons rather than user-visible Int values.
var (
	UnboxedZero = &ConstAddress{Value: 0}
	UnboxedOne  = &ConstAddress{Value: 1}
)

// EncodeInt returns the tagged representation of a user-level integer
// literal: low bit set, value shifted up by one.
func EncodeInt(n int64) *ConstAddress {
	return &ConstAddress{Value: 2*n + 1}
}

// LabelAddress names a jump target; label numbers are unique within the
// owning function only.
type LabelAddress struct {
	ID int
}

func (a *LabelAddress) implAddress() {}
func (a *LabelAddress) String() string {
	return fmt.Sprintf("L%d", a.ID)
}

// Context interns NameAddress values per symbol across the whole
// program, and mints synthesized (non-symbol) names such as destructors
// and static string labels. It outlives any one Function.
type Context struct {
	names     map[*types.Symbol]*NameAddress
	synthetic map[string]*NameAddress
	runtime   map[string]*NameAddress
}

// NewContext creates an empty interning context.
func NewContext() *Context {
	return &Context{
		names:     make(map[*types.Symbol]*NameAddress),
		synthetic: make(map[string]*NameAddress),
		runtime:   make(map[string]*NameAddress),
	}
}

// Intern returns the single NameAddress for sym, creating it on first
// use. The tag is derived exactly as original_source/src/address.cpp
// derives NameTag: static > param > (no enclosing function) global >
// local, for variables; always Function for function symbols.
func (c *Context) Intern(sym *types.Symbol) *NameAddress {
	if addr, ok := c.names[sym]; ok {
		return addr
	}

	var tag NameTag
	switch sym.Kind {
	case types.KindVariable:
		switch {
		case sym.Variable != nil && sym.Variable.IsStatic:
			tag = TagStatic
		case sym.Variable != nil && sym.Variable.IsParam:
			tag = TagParam
		case sym.IsGlobal():
			tag = TagGlobal
		default:
			tag = TagLocal
		}
	case types.KindFunction, types.KindTypeConstructor:
		tag = TagFunction
	default:
		panic(fmt.Sprintf("tac: cannot intern a name address for symbol kind %v", sym.Kind))
	}

	addr := &NameAddress{Mangled: mangle(sym.Name), Tag: tag}
	c.names[sym] = addr
	return addr
}

// Synthetic returns the single NameAddress for a compiler-introduced
// name (destructor, static string) not backed by a
// user symbol. Per original_source/src/address.cpp, synthesized names
// are prefixed with "_".
func (c *Context) Synthetic(name string, tag NameTag) *NameAddress {
	if addr, ok := c.synthetic[name]; ok {
		return addr
	}
	addr := &NameAddress{Mangled: "_" + name, Tag: tag}
	c.synthetic[name] = addr
	return addr
}

// Runtime returns the single NameAddress for an external runtime ABI
// symbol (e.g. "malloc", "_incref", "_die"), interned by its exact,
// unmangled name: unlike Synthetic, no leading "_" is added, since
// runtime symbols must link against the fixed names in the runtime ABI.
func (c *Context) Runtime(name string) *NameAddress {
	if addr, ok := c.runtime[name]; ok {
		return addr
	}
	addr := &NameAddress{Mangled: name, Tag: TagFunction}
	c.runtime[name] = addr
	return addr
}

// Fresh mints a new, uninterned NameAddress for a synthesized function's
// own local (e.g. a destructor's implicit `self` parameter): unlike
// Synthetic, repeated calls with the same name never alias, since each
// synthesized function needs its own distinct address even when they
// share a spelling.
func (c *Context) Fresh(name string, tag NameTag) *NameAddress {
	return &NameAddress{Mangled: "_" + name, Tag: tag}
}

// mangle produces the externally-visible symbol name for a user-level
// identifier. Kept trivial here; a full name mangler (overload
// disambiguation, module qualification) belongs to the external
// front end and is out of scope for the backend.
func mangle(name string) string {
	return name
}
