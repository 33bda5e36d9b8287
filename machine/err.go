package machine

import (
	"errors"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	// Machine errors
	ErrHalted        = errors.New(f("machine halted"))
	ErrAddress       = errors.New(f("address out of range"))
	ErrMemorySize    = errors.New(f("memory too small for program"))
	ErrInputReadOnly = errors.New(f("input endpoint not writable"))

	// Instruction decode errors
	ErrOpcodeUnknown = errors.New(f("opcode unknown"))
	ErrModeUnknown   = errors.New(f("parameter mode unknown"))
	ErrModeWrite     = errors.New(f("immediate store operand"))

	// Loader errors
	ErrProgramEmpty = errors.New(f("program empty"))

	// Assembler errors
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrMnemonicUnknown = errors.New(f("mnemonic unknown"))
	ErrOperandCount    = errors.New(f("operand count"))
	ErrOperandWrite    = errors.New(f("store operand cannot be immediate"))
	ErrValueMissing    = errors.New(f("value missing"))
)

// ErrFault locates a fault at a program counter.
type ErrFault struct {
	Pc   int
	Word int64
}

func (ef ErrFault) Error() string {
	return f("fault at pc %d, instruction %d", ef.Pc, ef.Word)
}

func (ef ErrFault) Is(err error) (ok bool) {
	_, ok = err.(ErrFault)
	return
}

// ErrLabelMissing names a label that was referenced but never defined.
type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrSyntax locates an assembler error in the source text.
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
