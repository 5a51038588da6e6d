// Package cpu implements the Sharp LR35902 processor core and its assembler.
//
// The core is a fetch-decode-execute interpreter: an opcode byte splits into
// the canonical x/y/z/p/q bit fields, which index selector tables for 8-bit
// registers (including the [hl] indirect mode), 16-bit register pairs, and
// indirect addressing pairs with HL post-increment/decrement. A pure ALU
// computes result bytes together with the Zero/Subtract/HalfCarry/Carry
// condition flags, and the register file commits only the flags each
// instruction defines. Memory is an external collaborator behind the bus.Bus
// read/write contract.
//
// The assembler provides a small assembly language for the implemented
// instruction subset, supporting equates, labels, raw data directives, and
// compile-time expression evaluation.
package cpu
