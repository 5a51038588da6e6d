package cpu

import (
	"errors"

	"github.com/ezrec/lr35902/translate"
)

var f = translate.From

var (
	// Execution errors
	ErrUnimplemented = errors.New(f("unimplemented opcode"))
	ErrHalt          = errors.New(f("halt"))
	ErrDecode        = errors.New(f("decode"))

	// Assembler errors
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrOrgSyntax       = errors.New(f(".org syntax"))
	ErrOrgBackwards    = errors.New(f(".org behind current address"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrOpcodeMissing   = errors.New(f("opcode missing"))
	ErrOpcodeInvalid   = errors.New(f("opcode invalid"))
	ErrOperandMissing  = errors.New(f("operand missing"))
	ErrOperandInvalid  = errors.New(f("operand invalid"))
	ErrOperandExtra    = errors.New(f("excessive operands"))
	ErrValueRange      = errors.New(f("value out of range"))
)

// ErrOpcode reports the offending opcode and the PC it was fetched from.
type ErrOpcode struct {
	Opcode Opcode
	PC     uint16
}

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%02x (%v) at 0x%04x", uint8(eo.Opcode), eo.Opcode, eo.PC)
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
