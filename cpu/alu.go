package cpu

// AluResult is one ALU outcome: the result byte, plus the condition flags
// the operation defines. An instruction commits only the flags it is
// entitled to, via Registers.SetFlags with a mask; the flags outside that
// mask are never touched.
type AluResult struct {
	Value uint8
	Flags Flags
}

// AddWithCarry adds two bytes and a carry-in bit, wrapping mod 256.
// Carry is set on overflow past 0xFF, HalfCarry on carry out of bit 3,
// Zero on a zero result. Subtract is always clear.
func AddWithCarry(a, b uint8, carry bool) (res AluResult) {
	var cin uint8
	if carry {
		cin = 1
	}

	sum := uint16(a) + uint16(b) + uint16(cin)
	res.Value = uint8(sum)

	if res.Value == 0 {
		res.Flags |= FLAG_ZERO
	}
	if (a&0xF)+(b&0xF)+cin > 0xF {
		res.Flags |= FLAG_HALF_CARRY
	}
	if sum > 0xFF {
		res.Flags |= FLAG_CARRY
	}

	return
}

// SubWithCarry subtracts b and a borrow-in bit from a, wrapping mod 256.
// Carry is set when a borrow occurred (a < b + carry), HalfCarry on a
// borrow out of bit 4, Zero on a zero result. Subtract is always set.
func SubWithCarry(a, b uint8, carry bool) (res AluResult) {
	var cin uint8
	if carry {
		cin = 1
	}

	res.Value = a - b - cin
	res.Flags = FLAG_SUBTRACT

	if res.Value == 0 {
		res.Flags |= FLAG_ZERO
	}
	if uint16(a&0xF) < uint16(b&0xF)+uint16(cin) {
		res.Flags |= FLAG_HALF_CARRY
	}
	if uint16(a) < uint16(b)+uint16(cin) {
		res.Flags |= FLAG_CARRY
	}

	return
}

// And computes the bitwise AND. HalfCarry is forced set and Carry forced
// clear, independent of the operands.
func And(a, b uint8) (res AluResult) {
	res.Value = a & b
	res.Flags = FLAG_HALF_CARRY

	if res.Value == 0 {
		res.Flags |= FLAG_ZERO
	}

	return
}

// Xor computes the bitwise XOR. Only Zero can be set.
func Xor(a, b uint8) (res AluResult) {
	res.Value = a ^ b

	if res.Value == 0 {
		res.Flags |= FLAG_ZERO
	}

	return
}

// Or computes the bitwise OR. Only Zero can be set.
func Or(a, b uint8) (res AluResult) {
	res.Value = a | b

	if res.Value == 0 {
		res.Flags |= FLAG_ZERO
	}

	return
}

// RotateLeft rotates a byte left by one bit. Carry receives the bit
// rotated out of position 7. Zero, Subtract and HalfCarry are forced
// clear regardless of the result value.
func RotateLeft(a uint8) (res AluResult) {
	res.Value = (a << 1) | (a >> 7)

	if a&0x80 != 0 {
		res.Flags = FLAG_CARRY
	}

	return
}

// RotateRight rotates a byte right by one bit. Carry receives the bit
// rotated out of position 0; the other flags are forced clear.
func RotateRight(a uint8) (res AluResult) {
	res.Value = (a >> 1) | (a << 7)

	if a&0x01 != 0 {
		res.Flags = FLAG_CARRY
	}

	return
}

// RotateLeftThroughCarry performs a 9-bit left rotate through the carry
// bit: bit 0 is filled from carry-in, and bit 7 becomes the new Carry.
// The other flags are forced clear.
func RotateLeftThroughCarry(a uint8, carry bool) (res AluResult) {
	res.Value = a << 1
	if carry {
		res.Value |= 0x01
	}

	if a&0x80 != 0 {
		res.Flags = FLAG_CARRY
	}

	return
}

// RotateRightThroughCarry performs a 9-bit right rotate through the carry
// bit: bit 7 is filled from carry-in, and bit 0 becomes the new Carry.
// The other flags are forced clear.
func RotateRightThroughCarry(a uint8, carry bool) (res AluResult) {
	res.Value = a >> 1
	if carry {
		res.Value |= 0x80
	}

	if a&0x01 != 0 {
		res.Flags = FLAG_CARRY
	}

	return
}
