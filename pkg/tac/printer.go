package tac

import (
	"fmt"
	"io"
	"strings"
)

// Print writes a diagnostic textual rendering of prog to w: one line per
// instruction, grouped by function. This is the TAC IR's own textual
// printer for diagnostics; it is not an assembly format and is never
// fed back into any tool.
func Print(w io.Writer, prog *Program) {
	if prog.Main != nil {
		printFunction(w, prog.Main)
	}
	for _, fn := range prog.Functions {
		fmt.Fprintln(w)
		printFunction(w, fn)
	}
}

func printFunction(w io.Writer, fn *Function) {
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = p.String()
	}
	fmt.Fprintf(w, "function %s(%s):\n", fn.Name, strings.Join(params, ", "))
	for _, inst := range fn.Instructions {
		if _, ok := inst.(Label); ok {
			fmt.Fprintf(w, "%s\n", inst)
		} else {
			fmt.Fprintf(w, "    %s\n", inst)
		}
	}
}
