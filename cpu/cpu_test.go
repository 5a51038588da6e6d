package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/lr35902/bus"
)

// testCpu builds a CPU over a full address space with the program loaded
// at 0x0000.
func testCpu(program ...uint8) *Cpu {
	ram := bus.NewRam(0x10000)
	ram.Load(0, program)

	return NewCpu(ram)
}

func TestCpuFetchImm(t *testing.T) {
	assert := assert.New(t)

	cpu := testCpu(0x12, 0x34, 0x56)

	assert.Equal(uint8(0x12), cpu.FetchImm8())
	assert.Equal(uint16(0x5634), cpu.FetchImm16())
	assert.Equal(uint16(3), cpu.Registers.R16(R16_PC))
}

// The PC wraps mod 65536 while fetching.
func TestCpuFetchWrap(t *testing.T) {
	assert := assert.New(t)

	cpu := testCpu()
	cpu.Bus.Write(0xffff, 0xab)
	cpu.Bus.Write(0x0000, 0xcd)

	cpu.Registers.SetR16(R16_PC, 0xffff)
	assert.Equal(uint16(0xcdab), cpu.FetchImm16())
	assert.Equal(uint16(1), cpu.Registers.R16(R16_PC))
}

func TestCpuLdImm8(t *testing.T) {
	assert := assert.New(t)

	cpu := testCpu(0x3e, 0x42) // ld a, 0x42

	err := cpu.Step()
	assert.NoError(err)
	assert.Equal(uint8(0x42), cpu.Registers.R8(R8_A))
	assert.Equal(uint16(2), cpu.Registers.R16(R16_PC))
	assert.Equal(1, cpu.Steps)
}

func TestCpuLdImm16(t *testing.T) {
	assert := assert.New(t)

	cpu := testCpu(
		0x01, 0x34, 0x12, // ld bc, 0x1234
		0x31, 0xfe, 0xff, // ld sp, 0xfffe
	)

	assert.NoError(cpu.Step())
	assert.NoError(cpu.Step())
	assert.Equal(uint16(0x1234), cpu.Registers.R16(R16_BC))
	assert.Equal(uint16(0xfffe), cpu.Registers.R16(R16_SP))
	assert.Equal(uint16(6), cpu.Registers.R16(R16_PC))
}

func TestCpuAluBlock(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name  string
		op    Opcode
		a, b  uint8
		value uint8
		flags Flags
	}){
		{"add", 0x80, 0x18, 0x0d, 0x25, FLAG_HALF_CARRY},
		{"add_overflow", 0x80, 0xf5, 0xf5, 0xea, FLAG_CARRY},
		{"sub", 0x90, 0x3e, 0x3e, 0x00, FLAG_ZERO | FLAG_SUBTRACT},
		{"and", 0xa0, 0x5a, 0x3f, 0x1a, FLAG_HALF_CARRY},
		{"xor", 0xa8, 0xa5, 0xa5, 0x00, FLAG_ZERO},
		{"or", 0xb0, 0x5a, 0x0f, 0x5f, 0},
	}

	for _, entry := range table {
		cpu := testCpu(uint8(entry.op))
		cpu.Registers.SetR8(R8_A, entry.a)
		cpu.Registers.SetR8(R8_B, entry.b)

		err := cpu.Step()
		assert.NoError(err, entry.name)
		assert.Equal(entry.value, cpu.Registers.R8(R8_A), entry.name)
		assert.Equal(entry.flags, cpu.Registers.Flags(), entry.name)
	}
}

// adc/sbc consume the carry produced by the previous instruction.
func TestCpuCarryChain(t *testing.T) {
	assert := assert.New(t)

	cpu := testCpu(
		0x80, // add a, b
		0x88, // adc a, b
	)
	cpu.Registers.SetR8(R8_A, 0xf0)
	cpu.Registers.SetR8(R8_B, 0x20)

	assert.NoError(cpu.Step())
	assert.Equal(uint8(0x10), cpu.Registers.R8(R8_A))
	assert.True(cpu.Registers.Flags().Has(FLAG_CARRY))

	assert.NoError(cpu.Step())
	assert.Equal(uint8(0x31), cpu.Registers.R8(R8_A))
	assert.False(cpu.Registers.Flags().Has(FLAG_CARRY))
}

// cp commits flags but never the result.
func TestCpuCompare(t *testing.T) {
	assert := assert.New(t)

	cpu := testCpu(0xb8) // cp a, b
	cpu.Registers.SetR8(R8_A, 0x10)
	cpu.Registers.SetR8(R8_B, 0x20)

	assert.NoError(cpu.Step())
	assert.Equal(uint8(0x10), cpu.Registers.R8(R8_A))
	assert.True(cpu.Registers.Flags().Has(FLAG_CARRY))
	assert.True(cpu.Registers.Flags().Has(FLAG_SUBTRACT))
}

func TestCpuMoves(t *testing.T) {
	assert := assert.New(t)

	cpu := testCpu(
		0x41, // ld b, c
		0x70, // ld [hl], b
		0x5e, // ld e, [hl]
	)
	cpu.Registers.SetR8(R8_C, 0x99)
	cpu.Registers.SetR16(R16_HL, 0x8000)

	assert.NoError(cpu.Step())
	assert.Equal(uint8(0x99), cpu.Registers.R8(R8_B))

	assert.NoError(cpu.Step())
	assert.Equal(uint8(0x99), cpu.Bus.Read(0x8000))

	assert.NoError(cpu.Step())
	assert.Equal(uint8(0x99), cpu.Registers.R8(R8_E))

	assert.Equal(3, cpu.Steps)
}

func TestCpuHalt(t *testing.T) {
	assert := assert.New(t)

	cpu := testCpu(0x76)

	err := cpu.Step()
	assert.ErrorIs(err, ErrHalt)
	assert.ErrorIs(err, ErrOpcode{})
	assert.Equal(uint16(0), cpu.Registers.R16(R16_PC))
	assert.Equal(0, cpu.Steps)
}

// A failed step rewinds the PC to the fetch address and reports the
// opcode and its location.
func TestCpuUnimplemented(t *testing.T) {
	assert := assert.New(t)

	cpu := testCpu(
		0x00, // nop
		0xc3, // jp imm16, outside the implemented subset
	)

	assert.NoError(cpu.Step())

	err := cpu.Step()
	assert.ErrorIs(err, ErrUnimplemented)

	var eo ErrOpcode
	assert.True(errors.As(err, &eo))
	assert.Equal(Opcode(0xc3), eo.Opcode)
	assert.Equal(uint16(1), eo.PC)

	assert.Equal(uint16(1), cpu.Registers.R16(R16_PC))
	assert.Equal(1, cpu.Steps)
}

// Every opcode in block 3 is reported, as are the daa/cpl/scf/ccf and
// stop/jr slots of block 0.
func TestCpuUnimplementedSlots(t *testing.T) {
	assert := assert.New(t)

	for n := 0xc0; n <= 0xff; n++ {
		cpu := testCpu(uint8(n))
		err := cpu.Step()
		assert.ErrorIs(err, ErrUnimplemented, Opcode(n).String())
		assert.Equal(uint16(0), cpu.Registers.R16(R16_PC))
	}

	for _, n := range []uint8{0x18, 0x27, 0x2f, 0x37, 0x3f} {
		cpu := testCpu(n)
		err := cpu.Step()
		assert.ErrorIs(err, ErrUnimplemented, Opcode(n).String())
	}
}

// The q=0 slots of block 0 z=000 all execute as nop.
func TestCpuNopSlots(t *testing.T) {
	assert := assert.New(t)

	for _, n := range []uint8{0x00, 0x10, 0x20, 0x30} {
		cpu := testCpu(n)
		assert.NoError(cpu.Step(), Opcode(n).String())
		assert.Equal(uint16(1), cpu.Registers.R16(R16_PC))
	}
}

func TestCpuAddHl(t *testing.T) {
	assert := assert.New(t)

	cpu := testCpu(0x09) // add hl, bc
	cpu.Registers.SetR16(R16_HL, 0x8a23)
	cpu.Registers.SetR16(R16_BC, 0x0605)
	cpu.Registers.SetFlags(FLAG_ZERO, FLAG_ALL)

	assert.NoError(cpu.Step())
	assert.Equal(uint16(0x9028), cpu.Registers.R16(R16_HL))

	// HalfCarry from bit 11, Carry clear, Zero untouched.
	assert.Equal(FLAG_ZERO|FLAG_HALF_CARRY, cpu.Registers.Flags())
}

func TestCpuAddHlCarry(t *testing.T) {
	assert := assert.New(t)

	cpu := testCpu(0x39) // add hl, sp
	cpu.Registers.SetR16(R16_HL, 0xffff)
	cpu.Registers.SetR16(R16_SP, 0x0001)

	assert.NoError(cpu.Step())
	assert.Equal(uint16(0x0000), cpu.Registers.R16(R16_HL))
	assert.Equal(FLAG_HALF_CARRY|FLAG_CARRY, cpu.Registers.Flags())
}

// inc/dec r8 never touch Carry; inc/dec r16 never touch any flag.
func TestCpuIncDec(t *testing.T) {
	assert := assert.New(t)

	cpu := testCpu(
		0x04, // inc b
		0x05, // dec b
		0x03, // inc bc
		0x0b, // dec bc
	)
	cpu.Registers.SetR8(R8_B, 0xff)
	cpu.Registers.SetFlags(FLAG_CARRY, FLAG_ALL)

	assert.NoError(cpu.Step())
	assert.Equal(uint8(0x00), cpu.Registers.R8(R8_B))
	assert.Equal(FLAG_ZERO|FLAG_HALF_CARRY|FLAG_CARRY, cpu.Registers.Flags())

	assert.NoError(cpu.Step())
	assert.Equal(uint8(0xff), cpu.Registers.R8(R8_B))
	assert.Equal(FLAG_SUBTRACT|FLAG_HALF_CARRY|FLAG_CARRY, cpu.Registers.Flags())

	cpu.Registers.SetR16(R16_BC, 0xffff)
	cpu.Registers.SetFlags(0, FLAG_ALL)

	assert.NoError(cpu.Step())
	assert.Equal(uint16(0x0000), cpu.Registers.R16(R16_BC))
	assert.Equal(Flags(0), cpu.Registers.Flags())

	assert.NoError(cpu.Step())
	assert.Equal(uint16(0xffff), cpu.Registers.R16(R16_BC))
	assert.Equal(Flags(0), cpu.Registers.Flags())
}

func TestCpuIncDecIndirect(t *testing.T) {
	assert := assert.New(t)

	cpu := testCpu(
		0x34, // inc [hl]
		0x35, // dec [hl]
	)
	cpu.Registers.SetR16(R16_HL, 0x8000)
	cpu.Bus.Write(0x8000, 0x0f)

	assert.NoError(cpu.Step())
	assert.Equal(uint8(0x10), cpu.Bus.Read(0x8000))
	assert.Equal(FLAG_HALF_CARRY, cpu.Registers.Flags())

	assert.NoError(cpu.Step())
	assert.Equal(uint8(0x0f), cpu.Bus.Read(0x8000))
	assert.Equal(FLAG_SUBTRACT|FLAG_HALF_CARRY, cpu.Registers.Flags())
}

func TestCpuIndirectPairs(t *testing.T) {
	assert := assert.New(t)

	cpu := testCpu(
		0x02, // ld [bc], a
		0x1a, // ld a, [de]
		0x22, // ld [hl+], a
		0x3a, // ld a, [hl-]
	)
	cpu.Registers.SetR8(R8_A, 0x77)
	cpu.Registers.SetR16(R16_BC, 0x8000)
	cpu.Registers.SetR16(R16_DE, 0x8001)
	cpu.Registers.SetR16(R16_HL, 0x8002)
	cpu.Bus.Write(0x8001, 0x55)

	assert.NoError(cpu.Step())
	assert.Equal(uint8(0x77), cpu.Bus.Read(0x8000))

	assert.NoError(cpu.Step())
	assert.Equal(uint8(0x55), cpu.Registers.R8(R8_A))

	assert.NoError(cpu.Step())
	assert.Equal(uint8(0x55), cpu.Bus.Read(0x8002))
	assert.Equal(uint16(0x8003), cpu.Registers.R16(R16_HL))

	cpu.Bus.Write(0x8003, 0x11)
	assert.NoError(cpu.Step())
	assert.Equal(uint8(0x11), cpu.Registers.R8(R8_A))
	assert.Equal(uint16(0x8002), cpu.Registers.R16(R16_HL))
}

func TestCpuStoreSp(t *testing.T) {
	assert := assert.New(t)

	cpu := testCpu(0x08, 0x00, 0x80) // ld [0x8000], sp
	cpu.Registers.SetR16(R16_SP, 0xfffe)

	assert.NoError(cpu.Step())
	assert.Equal(uint8(0xfe), cpu.Bus.Read(0x8000))
	assert.Equal(uint8(0xff), cpu.Bus.Read(0x8001))
	assert.Equal(uint16(3), cpu.Registers.R16(R16_PC))
}

func TestCpuRotates(t *testing.T) {
	assert := assert.New(t)

	cpu := testCpu(
		0x07, // rlca
		0x17, // rla
	)
	cpu.Registers.SetR8(R8_A, 0x85)

	assert.NoError(cpu.Step())
	assert.Equal(uint8(0x0b), cpu.Registers.R8(R8_A))
	assert.Equal(FLAG_CARRY, cpu.Registers.Flags())

	// rla shifts the previous carry into bit 0.
	assert.NoError(cpu.Step())
	assert.Equal(uint8(0x17), cpu.Registers.R8(R8_A))
	assert.Equal(Flags(0), cpu.Registers.Flags())
}

func TestCpuReset(t *testing.T) {
	assert := assert.New(t)

	cpu := testCpu(0x3e, 0x42)

	assert.NoError(cpu.Step())
	assert.Equal(1, cpu.Steps)

	cpu.Reset()
	assert.Equal(0, cpu.Steps)
	assert.Equal(uint16(0), cpu.Registers.R16(R16_PC))
	assert.Equal(uint8(0), cpu.Registers.R8(R8_A))
}
