package machine

import (
	"fmt"
	"strings"
)

// Op is an operation selector, decoded from the low two decimal digits
// of an instruction word.
type Op int64

//go:generate go tool stringer -linecomment -type=Op
const (
	OpAdd        = Op(1)  // add
	OpMul        = Op(2)  // mul
	OpInput      = Op(3)  // in
	OpOutput     = Op(4)  // out
	OpJumpTrue   = Op(5)  // jnz
	OpJumpFalse  = Op(6)  // jz
	OpLessThan   = Op(7)  // lt
	OpEquals     = Op(8)  // eq
	OpAdjustBase = Op(9)  // arb
	OpHalt       = Op(99) // hlt
)

// Mode is a parameter addressing mode, decoded from the decimal digits
// of an instruction word above the opcode, least-significant first.
type Mode int64

//go:generate go tool stringer -linecomment -type=Mode
const (
	ModePosition  = Mode(0) // position
	ModeImmediate = Mode(1) // immediate
	ModeRelative  = Mode(2) // relative
)

// operands returns the opcode's fixed operand count, and whether its
// final operand is a store target.
func (op Op) operands() (count int, writes bool, ok bool) {
	switch op {
	case OpAdd, OpMul, OpLessThan, OpEquals:
		count, writes, ok = 3, true, true
	case OpInput:
		count, writes, ok = 1, true, true
	case OpOutput, OpAdjustBase:
		count, writes, ok = 1, false, true
	case OpJumpTrue, OpJumpFalse:
		count, writes, ok = 2, false, true
	case OpHalt:
		ok = true
	}

	return
}

// Instruction is one fully-resolved instruction: read operands carry
// already-dereferenced values, and the store operand (when the opcode
// has one) carries its resolved target address.
type Instruction struct {
	Op     Op
	Pc     int      // Address the instruction was decoded from.
	N      int      // Operand count.
	Params [3]int64 // Raw operand words.
	Modes  [3]Mode  // Addressing mode per operand.
	Args   [3]int64 // Dereferenced values, or the store address.
}

// String returns the assembly language representation of the instruction.
func (inst Instruction) String() (out string) {
	words := []string{inst.Op.String()}
	for n := range inst.N {
		switch inst.Modes[n] {
		case ModeImmediate:
			words = append(words, fmt.Sprintf("#%d", inst.Params[n]))
		case ModeRelative:
			words = append(words, fmt.Sprintf("@%d", inst.Params[n]))
		default:
			words = append(words, fmt.Sprintf("%d", inst.Params[n]))
		}
	}

	out = strings.Join(words, " ")

	return
}

// decode reads the instruction at pc. It is a pure function of the
// memory image, program counter, and relative base; next points one
// past the final operand. Read operands are dereferenced and the store
// operand is resolved to an address during decode; an immediate-mode
// store operand, an unknown opcode or mode digit, or any address
// outside the memory image is a fault.
func decode(mem []int64, pc int, base int64) (inst Instruction, next int, err error) {
	if pc < 0 || pc >= len(mem) {
		err = ErrAddress
		return
	}

	word := mem[pc]
	inst.Pc = pc
	inst.Op = Op(word % 100)

	count, writes, ok := inst.Op.operands()
	if !ok {
		err = ErrOpcodeUnknown
		return
	}
	inst.N = count

	modes := word / 100
	next = pc + 1

	for n := range count {
		if next >= len(mem) {
			err = ErrAddress
			return
		}
		raw := mem[next]
		next++

		mode := Mode(modes % 10)
		modes /= 10

		inst.Params[n] = raw
		inst.Modes[n] = mode
		write := writes && n == count-1

		switch mode {
		case ModePosition, ModeRelative:
			address := raw
			if mode == ModeRelative {
				address += base
			}
			if address < 0 || address >= int64(len(mem)) {
				err = ErrAddress
				return
			}
			if write {
				inst.Args[n] = address
			} else {
				inst.Args[n] = mem[address]
			}
		case ModeImmediate:
			if write {
				err = ErrModeWrite
				return
			}
			inst.Args[n] = raw
		default:
			err = ErrModeUnknown
			return
		}
	}

	if modes != 0 {
		err = ErrModeUnknown
		return
	}

	return
}
