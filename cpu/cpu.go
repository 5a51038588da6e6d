package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/lr35902/bus"
)

var _cpu_defines = map[string]string{
	"FLAG_Z": fmt.Sprintf("%#v", uint8(FLAG_ZERO)),
	"FLAG_N": fmt.Sprintf("%#v", uint8(FLAG_SUBTRACT)),
	"FLAG_H": fmt.Sprintf("%#v", uint8(FLAG_HALF_CARRY)),
	"FLAG_C": fmt.Sprintf("%#v", uint8(FLAG_CARRY)),
}

// Cpu is the LR35902 execution engine: a register file plus a handle to
// the memory collaborator. It holds no other state between calls to Step.
type Cpu struct {
	Verbose bool // Set to enable verbose execution tracing.

	Bus       bus.Bus   // Memory collaborator.
	Registers Registers // Register file, zeroed at construction.

	Steps int // Instructions retired since the last reset.
}

// NewCpu creates a CPU attached to the given memory.
func NewCpu(b bus.Bus) (cpu *Cpu) {
	return &Cpu{Bus: b}
}

// Defines for the cpu.
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset returns the register file to the power-on state.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Registers = Registers{}
	cpu.Steps = 0
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() string {
	return cpu.Registers.String()
}

// FetchImm8 reads the byte at PC and advances PC by one, wrapping mod
// 65536.
func (cpu *Cpu) FetchImm8() (data uint8) {
	pc := cpu.Registers.R16(R16_PC)
	data = cpu.Bus.Read(pc)
	cpu.Registers.SetR16(R16_PC, pc+1)

	return
}

// FetchImm16 reads a little-endian 16-bit immediate: low byte first.
func (cpu *Cpu) FetchImm16() (data uint16) {
	low := cpu.FetchImm8()
	high := cpu.FetchImm8()

	return (uint16(high) << 8) | uint16(low)
}

// Step fetches, decodes and executes a single instruction. On failure the
// PC is rewound to the fetch address, so a failed step leaves the visible
// state exactly as before the call, and the returned error carries the
// offending opcode and its address.
func (cpu *Cpu) Step() (err error) {
	pc := cpu.Registers.R16(R16_PC)
	op := Opcode(cpu.FetchImm8())

	if cpu.Verbose {
		log.Printf("%04x: %v", pc, op)
	}

	switch op.X() {
	case 0b00:
		err = cpu.block0(op)
	case 0b01:
		err = cpu.block1(op)
	case 0b10:
		err = cpu.block2(op)
	case 0b11:
		err = cpu.block3(op)
	default:
		// x is two bits wide; defensive only.
		err = ErrDecode
	}

	if err != nil {
		cpu.Registers.SetR16(R16_PC, pc)
		err = errors.Join(ErrOpcode{Opcode: op, PC: pc}, err)
		return
	}

	cpu.Steps += 1

	return
}

// readR8 resolves an 8-bit operand selector: a register cell, or the
// memory byte addressed by HL for the indirect case.
func (cpu *Cpu) readR8(reg R8) uint8 {
	if reg.Indirect() {
		return cpu.Bus.Read(cpu.Registers.R16(R16_HL))
	}

	return cpu.Registers.R8(reg)
}

// writeR8 stores to an 8-bit operand selector, register cell or
// HL-indirect memory.
func (cpu *Cpu) writeR8(reg R8, data uint8) {
	if reg.Indirect() {
		cpu.Bus.Write(cpu.Registers.R16(R16_HL), data)
		return
	}

	cpu.Registers.SetR8(reg, data)
}

// block0 handles x=00: loads, 16-bit arithmetic, rotates and misc,
// dispatched on (p,q,z).
func (cpu *Cpu) block0(op Opcode) (err error) {
	switch op.Z() {
	case 0b000:
		switch {
		case op.Q() == 0:
			// nop
		case op.P() == 0b00:
			// ld [imm16], sp
			addr := cpu.FetchImm16()
			sp := cpu.Registers.R16(R16_SP)
			cpu.Bus.Write(addr, uint8(sp))
			cpu.Bus.Write(addr+1, uint8(sp>>8))
		default:
			err = ErrUnimplemented
		}
	case 0b001:
		if op.Q() == 0 {
			// ld r16, imm16
			imm := cpu.FetchImm16()
			cpu.Registers.SetR16(op.R16P(), imm)
		} else {
			// add hl, r16: two chained 8-bit adds, the low add's
			// carry feeding the high add. Carry/HalfCarry/Subtract
			// commit from the high add; Zero stays untouched.
			hl := cpu.Registers.R16(R16_HL)
			val := cpu.Registers.R16(op.R16P())

			low := AddWithCarry(uint8(hl), uint8(val), false)
			high := AddWithCarry(uint8(hl>>8), uint8(val>>8), low.Flags.Has(FLAG_CARRY))

			cpu.Registers.SetR16(R16_HL, (uint16(high.Value)<<8)|uint16(low.Value))
			cpu.Registers.SetFlags(high.Flags, FLAG_CARRY|FLAG_HALF_CARRY|FLAG_SUBTRACT)
		}
	case 0b010:
		// ld [r16mem], a / ld a, [r16mem], with HL post-inc/dec
		sel := op.R16MemP()
		addr := cpu.Registers.R16(sel.Pair())

		if op.Q() == 0 {
			cpu.Bus.Write(addr, cpu.Registers.R8(R8_A))
		} else {
			cpu.Registers.SetR8(R8_A, cpu.Bus.Read(addr))
		}

		switch sel {
		case R16_MEM_HL_INC:
			cpu.Registers.SetR16(R16_HL, addr+1)
		case R16_MEM_HL_DEC:
			cpu.Registers.SetR16(R16_HL, addr-1)
		}
	case 0b011:
		// inc r16 / dec r16, wrapping, no flags
		reg := op.R16P()
		val := cpu.Registers.R16(reg)
		if op.Q() == 0 {
			val += 1
		} else {
			val -= 1
		}
		cpu.Registers.SetR16(reg, val)
	case 0b100, 0b101:
		// inc r8 / dec r8: Carry is never touched
		reg := op.R8Y()
		cur := cpu.readR8(reg)

		var res AluResult
		if op.Z() == 0b100 {
			res = AddWithCarry(cur, 1, false)
		} else {
			res = SubWithCarry(cur, 1, false)
		}

		cpu.writeR8(reg, res.Value)
		cpu.Registers.SetFlags(res.Flags, FLAG_ZERO|FLAG_SUBTRACT|FLAG_HALF_CARRY)
	case 0b110:
		// ld r8, imm8
		cpu.writeR8(op.R8Y(), cpu.FetchImm8())
	case 0b111:
		a := cpu.Registers.R8(R8_A)
		carry := cpu.Registers.Flags().Has(FLAG_CARRY)

		var res AluResult
		switch op.Y() {
		case 0b000:
			res = RotateLeft(a)
		case 0b001:
			res = RotateRight(a)
		case 0b010:
			res = RotateLeftThroughCarry(a, carry)
		case 0b011:
			res = RotateRightThroughCarry(a, carry)
		default:
			// daa/cpl/scf/ccf
			return ErrUnimplemented
		}

		cpu.Registers.SetR8(R8_A, res.Value)
		cpu.Registers.SetFlags(res.Flags, FLAG_ALL)
	}

	return
}

// block1 handles x=01: the 8-bit move matrix, with halt carved out of the
// [hl],[hl] slot. No halt semantics are defined by this core, so the
// pattern surfaces as a reported condition rather than a move.
func (cpu *Cpu) block1(op Opcode) (err error) {
	if op.Y() == 0b110 && op.Z() == 0b110 {
		return ErrHalt
	}

	cpu.writeR8(op.R8Y(), cpu.readR8(op.R8Z()))

	return
}

// block2 handles x=10: 8-bit ALU against the accumulator. The y field
// selects the operation; cp discards the result and commits flags only.
func (cpu *Cpu) block2(op Opcode) (err error) {
	a := cpu.Registers.R8(R8_A)
	src := cpu.readR8(op.R8Z())
	carry := cpu.Registers.Flags().Has(FLAG_CARRY)

	var res AluResult
	switch op.Y() {
	case 0b000:
		res = AddWithCarry(a, src, false)
	case 0b001:
		res = AddWithCarry(a, src, carry)
	case 0b010:
		res = SubWithCarry(a, src, false)
	case 0b011:
		res = SubWithCarry(a, src, carry)
	case 0b100:
		res = And(a, src)
	case 0b101:
		res = Xor(a, src)
	case 0b110:
		res = Or(a, src)
	case 0b111:
		// cp a, r8: compare only
		res = SubWithCarry(a, src, false)
	}

	if op.Y() != 0b111 {
		cpu.Registers.SetR8(R8_A, res.Value)
	}
	cpu.Registers.SetFlags(res.Flags, FLAG_ALL)

	return
}

// block3 handles x=11: jumps, calls, returns, stack and I/O-port opcodes.
// None are implemented by this core; every opcode in the block is
// reported.
func (cpu *Cpu) block3(op Opcode) (err error) {
	return ErrUnimplemented
}
