package cpu

import (
	"fmt"
	"strings"
)

// Opcode is a single raw instruction byte. Decoding is total: every byte
// value splits into the x/y/z bit fields, with p and q derived from y.
// Whether a combination executes is a property of the dispatcher, never of
// the decode.
type Opcode uint8

// MakeOpcode composes an opcode byte from its x, y and z fields.
func MakeOpcode(x, y, z uint8) Opcode {
	return Opcode(((x & 0b11) << 6) | ((y & 0b111) << 3) | (z & 0b111))
}

// X returns bits 7-6, the instruction block.
func (op Opcode) X() uint8 {
	return (uint8(op) >> 6) & 0b11
}

// Y returns bits 5-3.
func (op Opcode) Y() uint8 {
	return (uint8(op) >> 3) & 0b111
}

// Z returns bits 2-0.
func (op Opcode) Z() uint8 {
	return uint8(op) & 0b111
}

// P returns bits 5-4 (the upper two bits of y).
func (op Opcode) P() uint8 {
	return (op.Y() >> 1) & 0b11
}

// Q returns bit 3 (the low bit of y).
func (op Opcode) Q() uint8 {
	return op.Y() & 0b1
}

// R8 selects an 8-bit operand: one of the seven register cells, or
// R8_HL_MEM, the dereference-HL addressing mode. R8_HL_MEM never collapses
// into a register cell; every consumer branches on it explicitly.
type R8 int

//go:generate go tool stringer -linecomment -type=R8
const (
	R8_B      = R8(0) // b
	R8_C      = R8(1) // c
	R8_D      = R8(2) // d
	R8_E      = R8(3) // e
	R8_H      = R8(4) // h
	R8_L      = R8(5) // l
	R8_HL_MEM = R8(6) // [hl]
	R8_A      = R8(7) // a
)

// Indirect returns true if the selector addresses memory through HL
// instead of naming a register cell.
func (reg R8) Indirect() bool {
	return reg == R8_HL_MEM
}

// R16 selects a 16-bit register. BC through SP are the decoder's table for
// the p field; AF and PC complete the register file's address space.
type R16 int

//go:generate go tool stringer -linecomment -type=R16
const (
	R16_BC = R16(0) // bc
	R16_DE = R16(1) // de
	R16_HL = R16(2) // hl
	R16_SP = R16(3) // sp
	R16_AF = R16(4) // af
	R16_PC = R16(5) // pc
)

// R16Mem selects a 16-bit pair used as a memory address, with optional HL
// post-increment or post-decrement after the access.
type R16Mem int

//go:generate go tool stringer -linecomment -type=R16Mem
const (
	R16_MEM_BC     = R16Mem(0) // [bc]
	R16_MEM_DE     = R16Mem(1) // [de]
	R16_MEM_HL_INC = R16Mem(2) // [hl+]
	R16_MEM_HL_DEC = R16Mem(3) // [hl-]
)

// Pair returns the register pair the selector dereferences.
func (reg R16Mem) Pair() R16 {
	switch reg {
	case R16_MEM_BC:
		return R16_BC
	case R16_MEM_DE:
		return R16_DE
	default:
		return R16_HL
	}
}

// R16Stk selects a 16-bit pair for the stack push/pop encodings. The table
// is part of the decode surface even though no current block handler
// dispatches to it.
type R16Stk int

//go:generate go tool stringer -linecomment -type=R16Stk
const (
	R16_STK_BC = R16Stk(0) // bc
	R16_STK_DE = R16Stk(1) // de
	R16_STK_HL = R16Stk(2) // hl
	R16_STK_AF = R16Stk(3) // af
)

// Pair returns the register pair the stack selector names.
func (reg R16Stk) Pair() R16 {
	switch reg {
	case R16_STK_BC:
		return R16_BC
	case R16_STK_DE:
		return R16_DE
	case R16_STK_HL:
		return R16_HL
	default:
		return R16_AF
	}
}

// R8Y returns the 8-bit operand selected by the y field.
func (op Opcode) R8Y() R8 {
	return R8(op.Y())
}

// R8Z returns the 8-bit operand selected by the z field.
func (op Opcode) R8Z() R8 {
	return R8(op.Z())
}

// R16P returns the 16-bit register selected by the p field.
func (op Opcode) R16P() R16 {
	return R16(op.P())
}

// R16MemP returns the indirect-pair selector for the p field.
func (op Opcode) R16MemP() R16Mem {
	return R16Mem(op.P())
}

// R16StkP returns the stack-pair selector for the p field.
func (op Opcode) R16StkP() R16Stk {
	return R16Stk(op.P())
}

// alu2Name maps the block 2 y field to its mnemonic.
var alu2Name = [8]string{"add", "adc", "sub", "sbc", "and", "xor", "or", "cp"}

// ImmediateNeed returns the number of immediate bytes that follow this
// opcode in the instruction stream.
func (op Opcode) ImmediateNeed() int {
	if op.X() != 0b00 {
		return 0
	}

	switch {
	case op.Z() == 0b001 && op.Q() == 0:
		// ld r16, imm16
		return 2
	case op.Z() == 0b000 && op.Q() == 1 && op.P() == 0b00:
		// ld [imm16], sp
		return 2
	case op.Z() == 0b110:
		// ld r8, imm8
		return 1
	}

	return 0
}

// String returns the mnemonic form of the opcode, with "imm8"/"imm16"
// placeholders for immediate operands. Opcodes outside the implemented
// subset render as data bytes.
func (op Opcode) String() string {
	data := fmt.Sprintf("db 0x%02x", uint8(op))

	switch op.X() {
	case 0b00:
		switch op.Z() {
		case 0b000:
			if op.Q() == 0 {
				return "nop"
			}
			if op.P() == 0b00 {
				return "ld [imm16], sp"
			}
		case 0b001:
			if op.Q() == 0 {
				return fmt.Sprintf("ld %v, imm16", op.R16P())
			}
			return fmt.Sprintf("add hl, %v", op.R16P())
		case 0b010:
			if op.Q() == 0 {
				return fmt.Sprintf("ld %v, a", op.R16MemP())
			}
			return fmt.Sprintf("ld a, %v", op.R16MemP())
		case 0b011:
			if op.Q() == 0 {
				return fmt.Sprintf("inc %v", op.R16P())
			}
			return fmt.Sprintf("dec %v", op.R16P())
		case 0b100:
			return fmt.Sprintf("inc %v", op.R8Y())
		case 0b101:
			return fmt.Sprintf("dec %v", op.R8Y())
		case 0b110:
			return fmt.Sprintf("ld %v, imm8", op.R8Y())
		case 0b111:
			switch op.Y() {
			case 0b000:
				return "rlca"
			case 0b001:
				return "rrca"
			case 0b010:
				return "rla"
			case 0b011:
				return "rra"
			}
		}
	case 0b01:
		if op.Y() == 0b110 && op.Z() == 0b110 {
			return "halt"
		}
		return fmt.Sprintf("ld %v, %v", op.R8Y(), op.R8Z())
	case 0b10:
		return fmt.Sprintf("%v a, %v", alu2Name[op.Y()], op.R8Z())
	}

	return data
}

// Instruction is an opcode together with its fetched immediate bytes.
type Instruction struct {
	Opcode Opcode
	Imm    []uint8
}

// String returns the mnemonic form with immediate values substituted.
func (in Instruction) String() (out string) {
	out = in.Opcode.String()

	switch in.Opcode.ImmediateNeed() {
	case 1:
		if len(in.Imm) >= 1 {
			out = strings.Replace(out, "imm8", fmt.Sprintf("0x%02x", in.Imm[0]), 1)
		}
	case 2:
		if len(in.Imm) >= 2 {
			imm := (uint16(in.Imm[1]) << 8) | uint16(in.Imm[0])
			out = strings.Replace(out, "imm16", fmt.Sprintf("0x%04x", imm), 1)
		}
	}

	return
}
