package regalloc

import "splc/pkg/mach"

// InterferenceGraph maps each register to the set of registers it must
// not share a color with, matching original_source's _igraph.
type InterferenceGraph map[mach.Operand]RegSet

func (g InterferenceGraph) addNode(r mach.Operand) {
	if g[r] == nil {
		g[r] = NewRegSet()
	}
}

func (g InterferenceGraph) addEdge(a, b mach.Operand) {
	if a == b {
		return
	}
	g.addNode(a)
	g.addNode(b)
	g[a].Add(b)
	g[b].Add(a)
}

// buildInterference computes the interference graph and the set of
// precolored hardware registers, matching RegAlloc::computeInterference:
// a per-block backward scan recovers exact per-instruction liveness
// from the block-level live-in sets, and every pair of live registers
// at a given instruction gets an interference edge. Every register
// operand of the function gets a vertex, even one never live alongside
// another, so every hardware register appearing in the function is
// precolored to its own fixed
// index, and precolored vertices are made to interfere with each other
// pairwise (not required for a correct coloring, but it keeps the
// graph's shape honest).
func buildInterference(fn *mach.MachineFunction, ctx *mach.Context, liveIn map[*mach.MachineBB]RegSet) (InterferenceGraph, map[mach.Operand]int) {
	g := make(InterferenceGraph)

	for _, b := range fn.Blocks {
		regs := liveOutOfBlock(b, liveIn)
		n := len(b.Instructions)
		liveBefore := make([]RegSet, n)

		for i := n - 1; i >= 0; i-- {
			inst := b.Instructions[i]
			for _, out := range inst.Outputs {
				if mach.IsRegister(out) {
					g.addNode(out)
					regs.Remove(out)
				}
			}
			for _, in := range inst.Inputs {
				if mach.IsRegister(in) {
					g.addNode(in)
					regs.Add(in)
				}
			}
			liveBefore[i] = regs.Clone()
		}

		for i := 0; i < n; i++ {
			live := liveBefore[i]
			for r1 := range live {
				for r2 := range live {
					g.addEdge(r1, r2)
				}
			}
		}
	}

	precolored := make(map[mach.Operand]int)
	for c := 0; c < mach.NumColors; c++ {
		hreg := ctx.RegByColor(c)
		if _, ok := g[hreg]; ok {
			precolored[hreg] = c
		}
	}
	for r1, c1 := range precolored {
		for r2, c2 := range precolored {
			if c1 != c2 {
				g.addEdge(r1, r2)
			}
		}
	}

	return g, precolored
}
