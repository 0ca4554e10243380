package regalloc

import "splc/pkg/mach"

// colorGraph runs the simplify/select/spill loop to completion,
// matching RegAlloc::colorGraph: recompute liveness and interference,
// attempt a coloring, and if a vertex turns out to be uncolorable,
// rewrite the function to spill it to the stack and start over.
func colorGraph(fn *mach.MachineFunction, ctx *mach.Context) map[mach.Operand]int {
	for {
		liveIn := blockLiveness(fn)
		igraph, precolored := buildInterference(fn, ctx, liveIn)

		coloring, toSpill, ok := tryColor(igraph, precolored)
		if ok {
			return coloring
		}
		spillVariable(fn, toSpill.(mach.VReg))
	}
}

// tryColor attempts one simplify/select pass over igraph. It repeatedly
// removes a vertex of degree below AvailableColors (simplify), falling
// back to removing an arbitrary non-precolored vertex when none
// qualifies (a potential spill, per Chaitin's algorithm); precolored
// vertices are pushed last. Colors are then assigned by popping the
// stack and picking the lowest color not already used by a
// neighbor that has been colored so far, out of the AvailableColors
// colors that remain once rsp's is left out. If some vertex has no color
// left, it is reported as the one to spill and ok is false.
func tryColor(igraph InterferenceGraph, precolored map[mach.Operand]int) (coloring map[mach.Operand]int, toSpill mach.Operand, ok bool) {
	remaining := make(map[mach.Operand]int, len(igraph))
	for r, neighbors := range igraph {
		remaining[r] = len(neighbors)
	}

	removed := NewRegSet()
	var stack []mach.Operand

	for len(remaining) > len(precolored) {
		picked := mach.Operand(nil)

		for _, r := range sortedKeys(remaining) {
			if _, pre := precolored[r]; pre {
				continue
			}
			if remaining[r] < mach.AvailableColors {
				picked = r
				break
			}
		}
		if picked == nil {
			for _, r := range sortedKeys(remaining) {
				if _, pre := precolored[r]; !pre {
					picked = r
					break
				}
			}
		}

		stack = append(stack, picked)
		removed.Add(picked)
		delete(remaining, picked)
		for neighbor := range igraph[picked] {
			if !removed.Contains(neighbor) {
				remaining[neighbor]--
			}
		}
	}

	// Precolored vertices are handled last, in color order, matching the
	// stack-push order in RegAlloc::tryColorGraph.
	for c := 0; c < mach.NumColors; c++ {
		for r, col := range precolored {
			if col == c {
				stack = append(stack, r)
			}
		}
	}

	coloring = make(map[mach.Operand]int)
	for i := len(stack) - 1; i >= 0; i-- {
		r := stack[i]

		if col, pre := precolored[r]; pre {
			coloring[r] = col
			continue
		}

		used := make(map[int]bool)
		for neighbor := range igraph[r] {
			if col, done := coloring[neighbor]; done {
				used[col] = true
			}
		}

		assigned := -1
		rspColor := mach.NewContext().Reg("rsp").Color
		for c := 0; c < mach.NumColors; c++ {
			if c != rspColor && !used[c] {
				assigned = c
				break
			}
		}
		if assigned < 0 {
			return nil, r, false
		}
		coloring[r] = assigned
	}

	return coloring, nil, true
}

func sortedKeys(m map[mach.Operand]int) []mach.Operand {
	keys := make([]mach.Operand, 0, len(m))
	for r := range m {
		keys = append(keys, r)
	}
	sortOperands(keys)
	return keys
}
