package tac

import (
	"fmt"
	"strings"
)

// ArithOp enumerates the binary arithmetic operators a BinOp
// instruction can carry; `not`, head/tail, and the comparison/logical
// connectives are lowered to control flow rather than represented here.
type ArithOp int

const (
	Add ArithOp = iota
	Sub
	Mul
	Div
	Mod
)

func (op ArithOp) String() string {
	return [...]string{"+", "-", "*", "/", "%"}[op]
}

// CompareOp enumerates the relational operators a CondJump can test.
type CompareOp int

const (
	Eq CompareOp = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

func (op CompareOp) String() string {
	return [...]string{"==", "!=", "<", "<=", ">", ">="}[op]
}

// Negate returns the complementary comparison, used when a condition
// guards the fallthrough path rather than the jump target.
func (op CompareOp) Negate() CompareOp {
	return [...]CompareOp{Ne, Eq, Ge, Gt, Le, Lt}[op]
}

// Instruction is the sum type of every TAC operation. Concrete variants
// are matched exhaustively by the instruction selector (pkg/select).
type Instruction interface {
	implInstruction()
	String() string
}

// Assign performs `Dest := Src` with no arithmetic. When the assigned
// type is boxed, the TAC builder is responsible for having already
// emitted the surrounding _incref/_decref calls (see Call); Assign
// itself never does so implicitly.
type Assign struct {
	Dest Address
	Src  Address
}

// BinOp performs `Dest := Left <Op> Right`.
type BinOp struct {
	Dest        Address
	Op          ArithOp
	Left, Right Address
}

// Label marks a jump target. Labels are unique within their owning
// function.
type Label struct {
	Name *LabelAddress
}

// Jump is an unconditional branch.
type Jump struct {
	Target *LabelAddress
}

// JumpIf branches to Target when Cond equals the tagged True constant
// (3); otherwise execution falls through to the next instruction.
type JumpIf struct {
	Cond   Address
	Target *LabelAddress
}

// JumpIfNot branches to Target when Cond is falsy.
type JumpIfNot struct {
	Cond   Address
	Target *LabelAddress
}

// CondJump is a fused compare-and-branch: branches to Target when
// `Left <Op> Right` holds. Comparison and short-circuit lowering both
// build on this rather than materializing an intermediate boolean and
// then testing it with JumpIf, except at the point where the boolean
// result is actually needed as a value (see the True/False constants).
type CondJump struct {
	Op          CompareOp
	Left, Right Address
	Target      *LabelAddress
}

// Call invokes a statically named function. Dest is nil for a
// void-returning call (including a call made purely for its incref/decref
// side effect on the runtime's reference-counting entry points).
type Call struct {
	Dest *Address
	Func *NameAddress
	Args []Address
}

// IndirectCall invokes the code address loaded from a closure. FuncAddr
// already holds the code pointer (the TAC builder is responsible for
// having loaded it via RightIndexedAssign from offset sizeof(SplObject)
// beforehand); IndirectCall itself just calls through it.
type IndirectCall struct {
	Dest     *Address
	FuncAddr Address
	Args     []Address
}

// LeftIndexedAssign stores a value into a field of a heap object:
// `*(Base + offset(Index)) := Src`. Used for constructor field
// initialization and member assignment.
type LeftIndexedAssign struct {
	Base  Address
	Index int
	Src   Address
}

// RightIndexedAssign loads a field of a heap object:
// `Dest := *(Base + offset(Index))`. Used for member access and for
// loading a closure's code address.
type RightIndexedAssign struct {
	Dest  Address
	Base  Address
	Index int
}

// Return exits the current function. Value is nil for a void return.
type Return struct {
	Value Address
}

func (Assign) implInstruction()             {}
func (BinOp) implInstruction()              {}
func (Label) implInstruction()              {}
func (Jump) implInstruction()               {}
func (JumpIf) implInstruction()             {}
func (JumpIfNot) implInstruction()          {}
func (CondJump) implInstruction()           {}
func (Call) implInstruction()               {}
func (IndirectCall) implInstruction()       {}
func (LeftIndexedAssign) implInstruction()  {}
func (RightIndexedAssign) implInstruction() {}
func (Return) implInstruction()             {}

func (i Assign) String() string    { return fmt.Sprintf("%s := %s", i.Dest, i.Src) }
func (i BinOp) String() string     { return fmt.Sprintf("%s := %s %s %s", i.Dest, i.Left, i.Op, i.Right) }
func (i Label) String() string     { return fmt.Sprintf("%s:", i.Name) }
func (i Jump) String() string      { return fmt.Sprintf("jump %s", i.Target) }
func (i JumpIf) String() string    { return fmt.Sprintf("if %s jump %s", i.Cond, i.Target) }
func (i JumpIfNot) String() string { return fmt.Sprintf("ifnot %s jump %s", i.Cond, i.Target) }
func (i CondJump) String() string {
	return fmt.Sprintf("if %s %s %s jump %s", i.Left, i.Op, i.Right, i.Target)
}

func (i Call) String() string {
	if i.Dest == nil {
		return fmt.Sprintf("call %s%s", i.Func, argList(i.Args))
	}
	return fmt.Sprintf("%s := call %s%s", *i.Dest, i.Func, argList(i.Args))
}

func (i IndirectCall) String() string {
	if i.Dest == nil {
		return fmt.Sprintf("icall %s%s", i.FuncAddr, argList(i.Args))
	}
	return fmt.Sprintf("%s := icall %s%s", *i.Dest, i.FuncAddr, argList(i.Args))
}

func (i LeftIndexedAssign) String() string {
	return fmt.Sprintf("%s[%d] := %s", i.Base, i.Index, i.Src)
}

func (i RightIndexedAssign) String() string {
	return fmt.Sprintf("%s := %s[%d]", i.Dest, i.Base, i.Index)
}

func (i Return) String() string {
	if i.Value == nil {
		return "return"
	}
	return fmt.Sprintf("return %s", i.Value)
}

func argList(args []Address) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
