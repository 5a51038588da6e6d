package cpu

import (
	"fmt"
)

// Flags is the F register bit set. Only the high nibble holds state; the
// low nibble always reads 0.
type Flags uint8

const (
	FLAG_ZERO       = Flags(0b1000_0000) // z
	FLAG_SUBTRACT   = Flags(0b0100_0000) // n
	FLAG_HALF_CARRY = Flags(0b0010_0000) // h
	FLAG_CARRY      = Flags(0b0001_0000) // c

	FLAG_ALL = FLAG_ZERO | FLAG_SUBTRACT | FLAG_HALF_CARRY | FLAG_CARRY
)

// Has returns true if all bits in flag are set.
func (flags Flags) Has(flag Flags) bool {
	return flags&flag == flag
}

// String renders the flag set as "znhc", with '-' for clear bits.
func (flags Flags) String() (text string) {
	for _, bit := range [4]struct {
		flag Flags
		name byte
	}{
		{FLAG_ZERO, 'z'},
		{FLAG_SUBTRACT, 'n'},
		{FLAG_HALF_CARRY, 'h'},
		{FLAG_CARRY, 'c'},
	} {
		if flags.Has(bit.flag) {
			text += string(bit.name)
		} else {
			text += "-"
		}
	}

	return
}

// Registers is the LR35902 register file: seven 8-bit cells, the flags
// register, and the native 16-bit SP and PC. The zero value is the
// power-on state.
type Registers struct {
	a, f, b, c, d, e, h, l uint8
	sp, pc                 uint16
}

// R8 reads a register cell. The R8_HL_MEM selector is not a cell and
// callers must have branched on it already; passing it here panics.
func (regs *Registers) R8(reg R8) uint8 {
	switch reg {
	case R8_A:
		return regs.a
	case R8_B:
		return regs.b
	case R8_C:
		return regs.c
	case R8_D:
		return regs.d
	case R8_E:
		return regs.e
	case R8_H:
		return regs.h
	case R8_L:
		return regs.l
	default:
		panic(fmt.Sprintf("%v is not a register cell", reg))
	}
}

// SetR8 writes a register cell. Same R8_HL_MEM rule as R8.
func (regs *Registers) SetR8(reg R8, data uint8) {
	switch reg {
	case R8_A:
		regs.a = data
	case R8_B:
		regs.b = data
	case R8_C:
		regs.c = data
	case R8_D:
		regs.d = data
	case R8_E:
		regs.e = data
	case R8_H:
		regs.h = data
	case R8_L:
		regs.l = data
	default:
		panic(fmt.Sprintf("%v is not a register cell", reg))
	}
}

// R16 reads a 16-bit register. AF, BC, DE and HL compose big-endian from
// their 8-bit halves; AF's low byte is the flags register with the low
// nibble forced to 0. SP and PC are native cells.
func (regs *Registers) R16(reg R16) uint16 {
	switch reg {
	case R16_AF:
		return (uint16(regs.a) << 8) | uint16(regs.f&uint8(FLAG_ALL))
	case R16_BC:
		return (uint16(regs.b) << 8) | uint16(regs.c)
	case R16_DE:
		return (uint16(regs.d) << 8) | uint16(regs.e)
	case R16_HL:
		return (uint16(regs.h) << 8) | uint16(regs.l)
	case R16_SP:
		return regs.sp
	default:
		return regs.pc
	}
}

// SetR16 writes a 16-bit register. Writing AF masks the low byte to the
// four valid flag bits.
func (regs *Registers) SetR16(reg R16, data uint16) {
	low := uint8(data)
	high := uint8(data >> 8)

	switch reg {
	case R16_AF:
		regs.a = high
		regs.f = low & uint8(FLAG_ALL)
	case R16_BC:
		regs.b = high
		regs.c = low
	case R16_DE:
		regs.d = high
		regs.e = low
	case R16_HL:
		regs.h = high
		regs.l = low
	case R16_SP:
		regs.sp = data
	default:
		regs.pc = data
	}
}

// Flags returns the current flag state.
func (regs *Registers) Flags() Flags {
	return Flags(regs.f) & FLAG_ALL
}

// SetFlags commits the masked bits of newFlags: every bit in mask is
// cleared, then set from newFlags. Bits outside mask are left untouched.
// This is how an instruction commits only the flags it defines.
func (regs *Registers) SetFlags(newFlags, mask Flags) {
	regs.f &= ^uint8(mask)
	regs.f |= uint8(newFlags & mask & FLAG_ALL)
}

// String returns the register state, one register per line.
func (regs *Registers) String() (text string) {
	for _, pair := range [6]R16{R16_AF, R16_BC, R16_DE, R16_HL, R16_SP, R16_PC} {
		text += fmt.Sprintf("% 5s: %04x\n", pair.String(), regs.R16(pair))
	}
	text += fmt.Sprintf("% 5s: %v\n", "flags", regs.Flags())

	return
}
