package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"splc/pkg/ast"
	"splc/pkg/emit"
	"splc/pkg/mach"
	"splc/pkg/regalloc"
	selection "splc/pkg/select"
	"splc/pkg/tac"
	"splc/pkg/tacgen"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

// Debug flags for dumping intermediate stages of the pipeline.
var (
	dTac   bool
	dMach  bool
	dAlloc bool
	dAsm   bool
)

// debugFlagInfo holds metadata for a debug flag.
type debugFlagInfo struct {
	flag *bool
	desc string
}

// debugFlags maps flag names to descriptions for unimplemented-feature
// warnings. Every dump stage this backend has is already implemented
// below, so this registry is empty today; it stays in place as the
// landing spot for the next dump stage that isn't ready yet.
var debugFlags = map[string]debugFlagInfo{}

// ErrNotImplemented indicates a feature is not yet implemented.
var ErrNotImplemented = errors.New("not yet implemented")

// checkDebugFlags reports any unimplemented debug flag the caller set.
func checkDebugFlags(w io.Writer) error {
	for name, info := range debugFlags {
		if *info.flag {
			fmt.Fprintf(w, "splc: warning: -%s (%s) is not yet implemented\n", name, info.desc)
			return ErrNotImplemented
		}
	}
	return nil
}

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	rootCmd.SetArgs(normalizeFlags(os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

// debugFlagNames lists the debug flags that should accept CompCert's
// single-dash style (-dtac) in addition to pflag's native double-dash.
var debugFlagNames = []string{"dtac", "dmach", "dalloc", "dasm"}

// normalizeFlags converts CompCert-style single-dash flags like -dtac
// to --dtac.
func normalizeFlags(args []string) []string {
	result := make([]string, len(args))
	for i, arg := range args {
		for _, flagName := range debugFlagNames {
			if arg == "-"+flagName {
				result[i] = "--" + flagName
				break
			}
		}
		if result[i] == "" {
			result[i] = arg
		}
	}
	return result
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "splc [program]",
		Short: "splc compiles a hand-built sample program through the backend pipeline",
		Long: `splc drives one of a small set of built-in sample programs through
tacgen, instruction selection, register allocation, and x86-64
emission, stopping early to dump an intermediate stage when asked.
There is no lexer or parser here: "program" names one of the
built-in samples (an unknown name prints the list; with no
arguments, add1 is compiled) rather than a source file.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkDebugFlags(errOut); err != nil {
				return err
			}

			name := "add1"
			if len(args) == 1 {
				name = args[0]
			}
			prog, ok := samplePrograms[name]
			if !ok {
				return fmt.Errorf("splc: unknown program %q, want one of %v", name, sampleNames())
			}

			switch {
			case dTac:
				return doTac(prog(), out)
			case dMach:
				return doMach(prog(), out)
			case dAlloc:
				return doAlloc(prog(), out)
			default:
				return doAsm(prog(), out)
			}
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.Flags().BoolVarP(&dTac, "dtac", "", false, "Dump after TAC generation")
	rootCmd.Flags().BoolVarP(&dMach, "dmach", "", false, "Dump after instruction selection, before register allocation")
	rootCmd.Flags().BoolVarP(&dAlloc, "dalloc", "", false, "Dump after register allocation")
	rootCmd.Flags().BoolVarP(&dAsm, "dasm", "", false, "Dump the final assembly (the default with no flags)")

	return rootCmd
}

// doTac lowers prog through tacgen and dumps the resulting TAC.
func doTac(prog *ast.Program, out io.Writer) error {
	tacProg := tacgen.NewBuilder(tac.NewContext()).Build(prog)
	tac.Print(out, tacProg)
	return nil
}

// doMach additionally runs instruction selection and dumps the
// resulting Machine IR before any register has been allocated.
func doMach(prog *ast.Program, out io.Writer) error {
	tacProg := tacgen.NewBuilder(tac.NewContext()).Build(prog)
	mfns := selection.NewSelector().SelectProgram(tacProg)
	for i, mfn := range mfns {
		if i > 0 {
			fmt.Fprintln(out)
		}
		mach.Print(out, mfn)
	}
	return nil
}

// doAlloc additionally runs register allocation and dumps the fully
// colored, stack-materialized Machine IR.
func doAlloc(prog *ast.Program, out io.Writer) error {
	tacProg := tacgen.NewBuilder(tac.NewContext()).Build(prog)
	sel := selection.NewSelector()
	mfns := sel.SelectProgram(tacProg)
	for i, mfn := range mfns {
		regalloc.Run(mfn, sel.Ctx())
		if i > 0 {
			fmt.Fprintln(out)
		}
		mach.Print(out, mfn)
	}
	return nil
}

// doAsm runs the whole pipeline and prints the final x86-64 assembly,
// the default behavior when no dump flag is given.
func doAsm(prog *ast.Program, out io.Writer) error {
	tacProg := tacgen.NewBuilder(tac.NewContext()).Build(prog)
	sel := selection.NewSelector()
	mfns := sel.SelectProgram(tacProg)
	for _, mfn := range mfns {
		regalloc.Run(mfn, sel.Ctx())
	}
	asm.NewPrinter(out).PrintProgram(&asm.Program{Functions: mfns})
	return nil
}
