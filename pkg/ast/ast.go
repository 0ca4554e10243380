// Package ast defines the node set the backend's TAC builder traverses.
// It is a sum type over node variants rather than a class hierarchy with
// virtual dispatch: the builder pattern-matches on concrete node types
// instead of calling a visit method on them. Construction of these nodes
// (parsing, name resolution, type inference) is out of scope here.
package ast

import "splc/pkg/types"

// Node is the interface implemented by every AST node the builder
// accepts. It carries no behaviour; it exists only to make "any AST
// node" expressible as a Go type.
type Node interface {
	implNode()
}

// Program is the root of a type-checked compilation unit.
type Program struct {
	Functions []*FunctionDef
	Structs   []*StructDef
	Main      []Node // top-level statements, lowered into the program's entry function
}

// FunctionDef declares a named function with a symbol for itself and one
// symbol per parameter.
type FunctionDef struct {
	Symbol *types.Symbol
	Params []*types.Symbol
	Body   []Node
}

// StructDef declares a record or algebraic-type constructor whose
// allocator/destructor pair the builder must synthesize.
type StructDef struct {
	Symbol  *types.Symbol // TypeConstructorSymbol
	Members []*MemberDef
}

// MemberDef names one field of a StructDef.
type MemberDef struct {
	Symbol *types.Symbol
	Type   *types.Type
}

// TypeAlias is a no-op at the backend: it carries no runtime representation.
type TypeAlias struct {
	Symbol *types.Symbol
}

// IntNode is an integer literal, stored unboxed; the builder tags it.
type IntNode struct {
	Value int64
}

// BoolNode is a boolean literal.
type BoolNode struct {
	Value bool
}

// VariableNode references a previously declared symbol.
type VariableNode struct {
	Symbol *types.Symbol
}

// NullaryNode references a symbol used without arguments: either an
// ordinary variable read, or — when Symbol.Kind is KindFunction — a
// closure-construction point.
type NullaryNode struct {
	Symbol *types.Symbol
}

// BinOp enumerates the arithmetic operators BinaryNode can carry.
type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
)

// BinaryNode is a non-comparison binary arithmetic expression.
type BinaryNode struct {
	Op          BinOp
	Left, Right Node
}

// CompareOp enumerates the relational operators ComparisonNode can carry.
type CompareOp int

const (
	CmpEq CompareOp = iota
	CmpNe
	CmpLt
	CmpLe
	CmpGt
	CmpGe
)

// ComparisonNode compares two values, producing a boolean result.
type ComparisonNode struct {
	Op          CompareOp
	Left, Right Node
}

// LogicalOp enumerates short-circuiting boolean connectives.
type LogicalOp int

const (
	LogAnd LogicalOp = iota
	LogOr
)

// LogicalNode is a short-circuit && / || expression.
type LogicalNode struct {
	Op          LogicalOp
	Left, Right Node
}

// NotNode negates a boolean value.
type NotNode struct {
	Operand Node
}

// BlockNode sequences statements, introducing no new scope of its own in
// this representation (scoping was already resolved upstream).
type BlockNode struct {
	Statements []Node
}

// IfNode is a one-armed conditional with no else branch.
type IfNode struct {
	Cond Node
	Then Node
}

// IfElseNode is a two-armed conditional; its value is used when the node
// appears in expression position.
type IfElseNode struct {
	Cond       Node
	Then, Else Node
}

// WhileNode is a pre-test loop.
type WhileNode struct {
	Cond Node
	Body Node
}

// BreakNode exits the nearest enclosing WhileNode.
type BreakNode struct{}

// AssignNode assigns Value to the variable named by Symbol, subject to
// the boxed-slot incref/decref ordering when Symbol's type is boxed.
type AssignNode struct {
	Symbol *types.Symbol
	Value  Node
}

// LetNode introduces Symbol bound to Value for the remainder of the
// enclosing block.
type LetNode struct {
	Symbol *types.Symbol
	Value  Node
}

// MatchArm pairs a constructor pattern with the code to run when it
// matches. Bindings names each bound sub-pattern's symbol, in field order;
// a nil entry means that field is discarded.
type MatchArm struct {
	Constructor *types.Symbol // ConstructorSymbol, or nil for a wildcard arm
	Bindings    []*types.Symbol
	Body        Node
}

// MatchNode destructures Scrutinee against each arm's constructor pattern
// in order.
type MatchNode struct {
	Scrutinee Node
	Arms      []MatchArm
}

// FunctionCallNode calls a function, either a statically named symbol or
// a computed closure value, depending on whether Callee resolves (via
// NullaryNode/VariableNode) to a FunctionSymbol or to a boxed closure.
type FunctionCallNode struct {
	Callee Node
	Args   []Node
}

// ReturnNode returns Value (nil for a void return) from the enclosing
// function.
type ReturnNode struct {
	Value Node
}

// MemberAccessNode reads Member off of Object, which must have a boxed,
// record-shaped type.
type MemberAccessNode struct {
	Object Node
	Member *types.Symbol // MemberSymbol
}

func (*Program) implNode()          {}
func (*FunctionDef) implNode()      {}
func (*StructDef) implNode()        {}
func (*MemberDef) implNode()        {}
func (*TypeAlias) implNode()        {}
func (*IntNode) implNode()          {}
func (*BoolNode) implNode()         {}
func (*VariableNode) implNode()     {}
func (*NullaryNode) implNode()      {}
func (*BinaryNode) implNode()       {}
func (*ComparisonNode) implNode()   {}
func (*LogicalNode) implNode()      {}
func (*NotNode) implNode()          {}
func (*BlockNode) implNode()        {}
func (*IfNode) implNode()           {}
func (*IfElseNode) implNode()       {}
func (*WhileNode) implNode()        {}
func (*BreakNode) implNode()        {}
func (*AssignNode) implNode()       {}
func (*LetNode) implNode()          {}
func (*MatchNode) implNode()        {}
func (*FunctionCallNode) implNode() {}
func (*ReturnNode) implNode()       {}
func (*MemberAccessNode) implNode() {}
