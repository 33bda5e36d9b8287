package machine

import (
	"fmt"
	"strings"
)

// Disassemble renders a program as one instruction or data cell per
// line, in the assembler's syntax. Cells that do not decode as an
// instruction are rendered as dat directives; programs that interleave
// code and data may disassemble data cells as plausible instructions.
func Disassemble(program Program) (text string) {
	mem := make([]int64, max(len(program), DefaultMemory))
	copy(mem, program)

	var sb strings.Builder
	pc := 0
	for pc < len(program) {
		inst, next, err := decode(mem, pc, 0)
		if err != nil || next > len(program) {
			fmt.Fprintf(&sb, "%04d: dat %d\n", pc, program[pc])
			pc++
			continue
		}

		fmt.Fprintf(&sb, "%04d: %v\n", pc, inst)
		pc = next
	}

	text = sb.String()

	return
}
