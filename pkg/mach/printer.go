package mach

import (
	"fmt"
	"io"
)

// Print writes a diagnostic textual rendering of fn to w, one line per
// instruction grouped by block. Like tac.Print, this is a diagnostic
// dump and is never fed back into any tool.
func Print(w io.Writer, fn *MachineFunction) {
	fmt.Fprintf(w, "function %s:\n", fn.Name)
	for _, b := range fn.Blocks {
		fmt.Fprintf(w, ".L%d:\n", b.ID)
		for _, inst := range b.Instructions {
			fmt.Fprintf(w, "    %s\n", inst)
		}
	}
}
