package main

import (
	"sort"

	"splc/pkg/ast"
	"splc/pkg/types"
)

// There is no lexer or parser anywhere in this tree: name resolution
// and type inference are external collaborators the backend only ever
// receives an already-checked ast.Program from. These sample programs
// stand in for that external input, hand-built the same way
// pkg/tacgen's own tests build one, so the driver still has something
// real to push through tacgen, selection, register allocation, and
// emission end to end.
var samplePrograms = map[string]func() *ast.Program{
	"add1": addOneProgram,
	"pair": pairProgram,
}

// sampleNames lists the known program arguments in a stable order, for
// usage text and error messages.
func sampleNames() []string {
	names := make([]string, 0, len(samplePrograms))
	for name := range samplePrograms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func intType() *types.Type { return &types.Type{Name: "Int"} }

// addOneProgram builds `def f(x: Int) -> Int: return x + 1`, called from
// main with a literal argument and returned. This is the same function
// shape pkg/tacgen/builder_test.go's TestBuildSimpleFunction builds.
func addOneProgram() *ast.Program {
	fSym := &types.Symbol{Name: "f", Kind: types.KindFunction, Function: &types.FunctionInfo{}}
	xSym := &types.Symbol{
		Name: "x", Kind: types.KindVariable, Type: intType(),
		EnclosingFunction: fSym, Variable: &types.VariableInfo{IsParam: true},
	}

	fd := &ast.FunctionDef{
		Symbol: fSym,
		Params: []*types.Symbol{xSym},
		Body: []ast.Node{
			&ast.ReturnNode{Value: &ast.BinaryNode{
				Op:    ast.OpAdd,
				Left:  &ast.VariableNode{Symbol: xSym},
				Right: &ast.IntNode{Value: 1},
			}},
		},
	}

	call := &ast.FunctionCallNode{
		Callee: &ast.VariableNode{Symbol: fSym},
		Args:   []ast.Node{&ast.IntNode{Value: 41}},
	}

	return &ast.Program{
		Functions: []*ast.FunctionDef{fd},
		Main:      []ast.Node{&ast.ReturnNode{Value: call}},
	}
}

// pairProgram builds a two-member record type `Pair(Int, Int)`, whose
// allocator and destructor the builder synthesizes from the StructDef
// alone, then constructs one and reads both of its members back out of
// it. It exercises constructor/destructor synthesis and member access,
// none of which addOneProgram touches.
func pairProgram() *ast.Program {
	pairType := &types.Type{Name: "Pair", Boxed: true, PayloadSize: 16}

	pairSym := &types.Symbol{
		Name: "Pair", Kind: types.KindFunction, Type: pairType,
		Function: &types.FunctionInfo{
			IsConstructor: true,
			Constructor:   &types.ValueConstructor{Name: "Pair", TagValue: 0, MemberTypes: []*types.Type{intType(), intType()}},
		},
	}
	firstSym := &types.Symbol{Name: "first", Kind: types.KindMember, Type: intType(), Member: &types.MemberInfo{ParentType: pairType, Index: 0}}
	secondSym := &types.Symbol{Name: "second", Kind: types.KindMember, Type: intType(), Member: &types.MemberInfo{ParentType: pairType, Index: 1}}

	structDef := &ast.StructDef{
		Symbol: pairSym,
		Members: []*ast.MemberDef{
			{Symbol: firstSym, Type: intType()},
			{Symbol: secondSym, Type: intType()},
		},
	}

	pSym := &types.Symbol{Name: "p", Kind: types.KindVariable, Type: pairType, Variable: &types.VariableInfo{}}

	makePair := &ast.FunctionCallNode{
		Callee: &ast.VariableNode{Symbol: pairSym},
		Args:   []ast.Node{&ast.IntNode{Value: 1}, &ast.IntNode{Value: 2}},
	}

	sum := &ast.BinaryNode{
		Op:    ast.OpAdd,
		Left:  &ast.MemberAccessNode{Object: &ast.VariableNode{Symbol: pSym}, Member: firstSym},
		Right: &ast.MemberAccessNode{Object: &ast.VariableNode{Symbol: pSym}, Member: secondSym},
	}

	return &ast.Program{
		Structs: []*ast.StructDef{structDef},
		Main: []ast.Node{
			&ast.LetNode{Symbol: pSym, Value: makePair},
			&ast.ReturnNode{Value: sum},
		},
	}
}
