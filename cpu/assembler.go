// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

func init() {
	maps.Copy(sysEquate, _cpu_defines)
}

// Assembler is a single pass assembler for the implemented LR35902
// instruction subset.
type Assembler struct {
	Verbose   bool        // If set, verbosely logs the assembler actions.
	Statement []Statement // List of generated statements.

	addr      int               // Current assembly address.
	predefine map[string]string // Predefines
	Label     map[string]int    // Map of labels to addresses.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// r8Map is the 8-bit operand syntax, including the HL-indirect mode.
var r8Map = map[string]R8{
	"b":    R8_B,
	"c":    R8_C,
	"d":    R8_D,
	"e":    R8_E,
	"h":    R8_H,
	"l":    R8_L,
	"[hl]": R8_HL_MEM,
	"a":    R8_A,
}

// r16Map is the 16-bit register pair syntax for the p-indexed table.
var r16Map = map[string]R16{
	"bc": R16_BC,
	"de": R16_DE,
	"hl": R16_HL,
	"sp": R16_SP,
}

// r16MemMap is the indirect-pair syntax, with HL post-inc/dec.
var r16MemMap = map[string]R16Mem{
	"[bc]":  R16_MEM_BC,
	"[de]":  R16_MEM_DE,
	"[hl+]": R16_MEM_HL_INC,
	"[hl-]": R16_MEM_HL_DEC,
}

// alu2Map maps the block 2 mnemonics to their y field values.
var alu2Map = map[string]uint8{
	"add": 0b000,
	"adc": 0b001,
	"sub": 0b010,
	"sbc": 0b011,
	"and": 0b100,
	"xor": 0b101,
	"or":  0b110,
	"cp":  0b111,
}

var labelRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	value, err = strconv.ParseInt(word, 0, 32)
	if err != nil {
		err = ErrParseNumber(word)
	}

	return
}

// imm8Of encodes a word as an 8-bit immediate. Negative values encode as
// two's complement.
func (asm *Assembler) imm8Of(word string) (data uint8, err error) {
	value, err := asm.valueOf(word)
	if err != nil {
		return
	}

	if value < -0x80 || value > 0xFF {
		err = ErrValueRange
		return
	}

	data = uint8(value)

	return
}

// imm16Of encodes a word as a little-endian 16-bit immediate. A word that
// parses as a plain identifier becomes a label reference, emitted as a
// placeholder and patched during the final link pass.
func (asm *Assembler) imm16Of(word string) (low, high uint8, label string, err error) {
	if labelRe.MatchString(word) {
		label = word
		return
	}

	value, err := asm.valueOf(word)
	if err != nil {
		return
	}

	if value < -0x8000 || value > 0xFFFF {
		err = ErrValueRange
		return
	}

	low = uint8(value)
	high = uint8(value >> 8)

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value64 int64
		value64, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(value64)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = st_int64
	return
}

// parseLine parses a single line into statement words.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	re := regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#v", value)
	})
	if err != nil {
		return
	}

	// Operand commas are separators, same as spaces.
	line = strings.ReplaceAll(line, ",", " ")

	words = slices.DeleteFunc(strings.Split(line, " "), func(a string) bool { return len(a) == 0 })

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.addr
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	return
}

// Parse parses an input stream into a Program containing statements.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Statement = asm.Statement[:0]
	asm.addr = 0
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	// Final linking of label references.
	for n := range asm.Statement {
		st := &asm.Statement[n]

		if len(st.LinkLabel) == 0 {
			continue
		}
		addr, ok := asm.Label[st.LinkLabel]
		if !ok {
			err = ErrLabelMissing(st.LinkLabel)
			return
		}
		if len(st.Bytes) < 2 {
			log.Fatalf("Unable to link label '%s' at line %d: %v", st.LinkLabel, st.LineNo, st.Words)
		}
		st.Bytes[len(st.Bytes)-2] = uint8(addr)
		st.Bytes[len(st.Bytes)-1] = uint8(addr >> 8)
	}

	prog = &Program{
		Statements: slices.Clone(asm.Statement),
	}

	return
}

// parseWords encodes the words of a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var data []uint8
	var label string

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	defer func() {
		if len(data) == 0 {
			return
		}
		st := Statement{LineNo: lineno, Addr: asm.addr, Words: initial_words, Bytes: data, LinkLabel: label}
		asm.Statement = append(asm.Statement, st)
		asm.addr += len(data)
	}()

	switch words[0] {
	case "nop":
		if len(words) > 1 {
			err = ErrOperandExtra
			return
		}
		data = []uint8{uint8(MakeOpcode(0b00, 0b000, 0b000))}
	case "halt":
		if len(words) > 1 {
			err = ErrOperandExtra
			return
		}
		data = []uint8{uint8(MakeOpcode(0b01, 0b110, 0b110))}
	case "rlca", "rrca", "rla", "rra":
		if len(words) > 1 {
			err = ErrOperandExtra
			return
		}
		y := map[string]uint8{"rlca": 0b000, "rrca": 0b001, "rla": 0b010, "rra": 0b011}[words[0]]
		data = []uint8{uint8(MakeOpcode(0b00, y, 0b111))}
	case "inc", "dec":
		if len(words) < 2 {
			err = ErrOperandMissing
			return
		}
		if len(words) > 2 {
			err = ErrOperandExtra
			return
		}

		var q uint8
		if words[0] == "dec" {
			q = 1
		}

		if reg, ok := r8Map[words[1]]; ok {
			data = []uint8{uint8(MakeOpcode(0b00, uint8(reg), 0b100|q))}
			return
		}
		if reg, ok := r16Map[words[1]]; ok {
			data = []uint8{uint8(MakeOpcode(0b00, uint8(reg)<<1|q, 0b011))}
			return
		}

		err = ErrOperandInvalid
	case "add", "adc", "sub", "sbc", "and", "xor", "or", "cp":
		if len(words) < 3 {
			err = ErrOperandMissing
			return
		}
		if len(words) > 3 {
			err = ErrOperandExtra
			return
		}

		// add hl, r16
		if words[0] == "add" && words[1] == "hl" {
			reg, ok := r16Map[words[2]]
			if !ok {
				err = ErrOperandInvalid
				return
			}
			data = []uint8{uint8(MakeOpcode(0b00, uint8(reg)<<1|1, 0b001))}
			return
		}

		if words[1] != "a" {
			err = ErrOperandInvalid
			return
		}
		reg, ok := r8Map[words[2]]
		if !ok {
			err = ErrOperandInvalid
			return
		}
		data = []uint8{uint8(MakeOpcode(0b10, alu2Map[words[0]], uint8(reg)))}
	case "ld":
		if len(words) < 3 {
			err = ErrOperandMissing
			return
		}
		if len(words) > 3 {
			err = ErrOperandExtra
			return
		}
		data, label, err = asm.parseLd(words[1], words[2])
	case ".db":
		if len(words) < 2 {
			err = ErrOperandMissing
			return
		}
		for _, word := range words[1:] {
			var b uint8
			b, err = asm.imm8Of(word)
			if err != nil {
				return
			}
			data = append(data, b)
		}
	case ".org":
		if len(words) != 2 {
			err = ErrOrgSyntax
			return
		}
		var value int64
		value, err = asm.valueOf(words[1])
		if err != nil {
			return
		}
		if int(value) < asm.addr {
			err = ErrOrgBackwards
			return
		}
		asm.addr = int(value)
	default:
		err = ErrOpcodeInvalid
	}

	return
}

// parseLd encodes the ld instruction forms, resolved in table order:
// 16-bit pair immediate loads, indirect-pair stores and loads of the
// accumulator, the [imm16] store of SP, register/[hl] moves, and 8-bit
// immediate loads.
func (asm *Assembler) parseLd(dst, src string) (data []uint8, label string, err error) {
	// ld r16, imm16
	if reg, ok := r16Map[dst]; ok {
		var low, high uint8
		low, high, label, err = asm.imm16Of(src)
		if err != nil {
			return
		}
		data = []uint8{uint8(MakeOpcode(0b00, uint8(reg)<<1, 0b001)), low, high}
		return
	}

	// ld [r16mem], a
	if reg, ok := r16MemMap[dst]; ok {
		if src != "a" {
			err = ErrOperandInvalid
			return
		}
		data = []uint8{uint8(MakeOpcode(0b00, uint8(reg)<<1, 0b010))}
		return
	}

	// ld a, [r16mem]
	if reg, ok := r16MemMap[src]; ok {
		if dst != "a" {
			err = ErrOperandInvalid
			return
		}
		data = []uint8{uint8(MakeOpcode(0b00, uint8(reg)<<1|1, 0b010))}
		return
	}

	if dstReg, ok := r8Map[dst]; ok {
		// ld r8, r8
		if srcReg, ok := r8Map[src]; ok {
			if dstReg.Indirect() && srcReg.Indirect() {
				// That encoding is halt.
				err = ErrOperandInvalid
				return
			}
			data = []uint8{uint8(MakeOpcode(0b01, uint8(dstReg), uint8(srcReg)))}
			return
		}

		// ld r8, imm8
		var b uint8
		b, err = asm.imm8Of(src)
		if err != nil {
			return
		}
		data = []uint8{uint8(MakeOpcode(0b00, uint8(dstReg), 0b110)), b}
		return
	}

	// ld [imm16], sp
	if strings.HasPrefix(dst, "[") && strings.HasSuffix(dst, "]") {
		if src != "sp" {
			err = ErrOperandInvalid
			return
		}
		var low, high uint8
		low, high, label, err = asm.imm16Of(dst[1 : len(dst)-1])
		if err != nil {
			return
		}
		data = []uint8{uint8(MakeOpcode(0b00, 0b001, 0b000)), low, high}
		return
	}

	err = ErrOperandInvalid

	return
}
