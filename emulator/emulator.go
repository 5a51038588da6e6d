// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"fmt"
	"iter"
	"maps"

	"github.com/ezrec/lr35902/bus"
	"github.com/ezrec/lr35902/cpu"
	"github.com/ezrec/lr35902/internal"
)

const (
	RAM_SIZE = 0x10000 // Full 16-bit address space.
)

var _machine_defines = map[string]string{
	"RAM_SIZE": fmt.Sprintf("%v", RAM_SIZE),
}

// Machine is a minimal LR35902 system: the CPU core wired to a flat RAM
// covering the whole address space, plus the program listing it was
// loaded from.
type Machine struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Ram      *bus.Ram     // Backing store for the full address space.
	Program  *cpu.Program // Reference to the currently loaded program listing.
}

// NewMachine creates a new machine with zeroed RAM.
func NewMachine() (mach *Machine) {
	ram := bus.NewRam(RAM_SIZE)

	mach = &Machine{
		Cpu:     cpu.NewCpu(ram),
		Ram:     ram,
		Program: &cpu.Program{},
	}

	return
}

// Defines returns an iterator over all of the defines
func (mach *Machine) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_machine_defines),
		mach.Cpu.Defines(),
	)
}

// Reset clears the CPU and RAM, then loads the program image at 0x0000.
func (mach *Machine) Reset() (err error) {
	mach.Cpu.Reset()
	mach.Ram.Reset()
	mach.Ram.Load(0, mach.Program.Binary())

	return
}

// LineNo returns the source line number for the instruction at the
// current program counter, or 0 if none covers it.
func (mach *Machine) LineNo() int {
	dbg := mach.Program.Debug(mach.Cpu.Registers.R16(cpu.R16_PC))
	if dbg.Statement == nil {
		return 0
	}

	return dbg.LineNo
}

// Step executes a single instruction.
func (mach *Machine) Step() (err error) {
	mach.Cpu.Verbose = mach.Verbose

	lineno := mach.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	err = mach.Cpu.Step()

	return
}

// Run executes instructions until the CPU halts or maxSteps have run.
// A HALT stops the run cleanly with halted set.
func (mach *Machine) Run(maxSteps int) (halted bool, err error) {
	for range maxSteps {
		err = mach.Step()
		if errors.Is(err, cpu.ErrHalt) {
			err = nil
			halted = true
			return
		}
		if err != nil {
			return
		}
	}

	return
}
