// Command rvm is the assembler/emulator driver: "rvm asm" turns source text
// into an object file, "rvm run" loads an object file and executes it.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"rvm16/asm"
	"rvm16/internal/inspector"
	"rvm16/internal/objfile"
	"rvm16/vm"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rvm",
		Short: "Assembler and emulator for the rvm16 register machine",
	}

	var asmOutput string
	asmCmd := &cobra.Command{
		Use:   "asm [in.asm]",
		Short: "Assemble source into an object file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsm(args[0], asmOutput)
		},
	}
	asmCmd.Flags().StringVarP(&asmOutput, "output", "o", "", "Output object file path (default: <input>.o)")

	var debugMode bool
	var stepDelay time.Duration
	runCmd := &cobra.Command{
		Use:   "run [in.o]",
		Short: "Execute an assembled object file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProgram(args[0], debugMode, stepDelay)
		},
	}
	runCmd.Flags().BoolVar(&debugMode, "debug", false, "Step interactively instead of running to completion")
	runCmd.Flags().DurationVar(&stepDelay, "step-delay", 10*time.Millisecond, "Pacing delay between steps in free-run debug mode")

	rootCmd.AddCommand(asmCmd, runCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runAsm(inPath, outPath string) error {
	if outPath == "" {
		outPath = inPath + ".o"
	}

	image, sym, err := asm.AssembleFileWithDebugInfo(inPath)
	if err != nil {
		return err
	}
	if err := objfile.WriteObject(outPath, image); err != nil {
		return err
	}
	if err := objfile.WriteDebugSymbols(outPath, sym); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d bytes)\n", outPath, len(image))
	return nil
}

// stdoutSink emits OUT side effects to stdout; it is the only OutputSink
// the driver needs, so there is no flag to choose between alternatives.
type stdoutSink struct{}

func (stdoutSink) Emit(src, dest uint16) {
	fmt.Printf("OUT src=0x%04X dest=0x%04X\n", src, dest)
}

func runProgram(path string, debugMode bool, stepDelay time.Duration) error {
	image, err := objfile.ReadObject(path)
	if err != nil {
		return err
	}

	machine := vm.New(image, stdoutSink{})

	if debugMode {
		sym, err := objfile.ReadDebugSymbols(path)
		if err != nil {
			return err
		}
		inspector.RunInteractive(machine, sym, stepDelay)
		return nil
	}

	if err := machine.Run(); err != nil {
		return fmt.Errorf("execution halted: %w", err)
	}
	return nil
}
