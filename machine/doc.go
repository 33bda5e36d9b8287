// Package machine implements the intcode virtual processor and its
// program tooling.
//
// A Machine owns a private memory image of signed 64-bit cells, a
// program counter, a relative base register, and a halted flag. The
// instruction decoder resolves position, immediate, and relative
// addressing modes into dereferenced operand values before the engine
// applies them, and every decode or address fault identifies the
// offending program counter and instruction word.
//
// The package also provides the comma-separated program loader, an
// assembler for a small intcode assembly language supporting labels,
// equates, and compile-time Starlark expressions, and a disassembler.
package machine
