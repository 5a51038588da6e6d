// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ezrec/lr35902/cpu"
	"github.com/ezrec/lr35902/emulator"
)

// assemble parses an assembly source file into a program listing.
func assemble(name string) (prog *cpu.Program, err error) {
	inf, err := os.Open(name)
	if err != nil {
		return
	}
	defer inf.Close()

	asm := &cpu.Assembler{}
	prog, err = asm.Parse(inf)

	return
}

// load reads either an assembly source or a raw binary image, keyed off
// the file extension.
func load(name string) (prog *cpu.Program, err error) {
	if filepath.Ext(name) != ".bin" {
		return assemble(name)
	}

	image, err := os.ReadFile(name)
	if err != nil {
		return
	}

	prog = &cpu.Program{
		Statements: []cpu.Statement{{Addr: 0, Bytes: image}},
	}

	return
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "gbcpu",
		Short: "LR35902 assembler, disassembler and emulator",
	}

	// asm command
	var asmOutput string

	asmCmd := &cobra.Command{
		Use:   "asm [source.asm]",
		Short: "Assemble a source file into a flat binary image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := assemble(args[0])
			if err != nil {
				return fmt.Errorf("%v: %w", args[0], err)
			}

			image := prog.Binary()
			if asmOutput == "-" {
				_, err = os.Stdout.Write(image)
				return err
			}

			return os.WriteFile(asmOutput, image, 0o644)
		},
	}
	asmCmd.Flags().StringVarP(&asmOutput, "output", "o", "-", "Output binary file")

	// run command
	var maxSteps int
	var verbose bool

	runCmd := &cobra.Command{
		Use:   "run [source.asm|image.bin]",
		Short: "Execute a program until it halts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := load(args[0])
			if err != nil {
				return fmt.Errorf("%v: %w", args[0], err)
			}

			mach := emulator.NewMachine()
			mach.Program = prog
			mach.Verbose = verbose

			err = mach.Reset()
			if err != nil {
				return err
			}

			halted, err := mach.Run(maxSteps)
			if err != nil {
				return err
			}

			if !halted {
				fmt.Printf("no halt after %d steps\n", maxSteps)
			}
			fmt.Printf("%v", mach.Cpu)

			return nil
		},
	}
	runCmd.Flags().IntVar(&maxSteps, "max-steps", 1_000_000, "Maximum instructions to execute")
	runCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Trace each instruction")

	// disasm command
	disasmCmd := &cobra.Command{
		Use:   "disasm [image.bin]",
		Short: "Disassemble a flat binary image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			for addr := 0; addr < len(image); {
				op := cpu.Opcode(image[addr])
				need := op.ImmediateNeed()
				if addr+1+need > len(image) {
					need = len(image) - addr - 1
				}

				inst := cpu.Instruction{
					Opcode: op,
					Imm:    image[addr+1 : addr+1+need],
				}
				fmt.Printf("%04x: %v\n", addr, inst)
				addr += 1 + need
			}

			return nil
		},
	}

	rootCmd.AddCommand(asmCmd, runCmd, disasmCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
