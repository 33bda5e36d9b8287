package machine

import (
	"bufio"
	"io"
	"log"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Assembler is a single pass line-oriented assembler for the intcode
// instruction set. Operands are written bare for position mode, with a
// '#' prefix for immediate mode, and with a '@' prefix for relative
// mode. Labels ("name:") and ".equ NAME value" equates may stand in for
// any operand value, and "$( expr )" evaluates a Starlark expression at
// assembly time with all integer equates bound as globals. The "dat"
// directive emits literal cells; ';' starts a comment.
type Assembler struct {
	Verbose bool // If set, verbosely logs the assembler actions.

	Label  map[string]int    // Map of labels to cell addresses.
	Equate map[string]string // Map of equates.

	cells   []int64
	patches []patch
}

// patch records a cell awaiting a label address.
type patch struct {
	cell   int
	label  string
	lineno int
	line   string
}

// mnemonics maps assembly mnemonics to opcodes.
var mnemonics = map[string]Op{
	"add": OpAdd,
	"mul": OpMul,
	"in":  OpInput,
	"out": OpOutput,
	"jnz": OpJumpTrue,
	"jz":  OpJumpFalse,
	"lt":  OpLessThan,
	"eq":  OpEquals,
	"arb": OpAdjustBase,
	"hlt": OpHalt,
}

var exprPattern = regexp.MustCompile(`\$\(([^)]*)\)`)

// Parse assembles the source into a program.
func (asm *Assembler) Parse(r io.Reader) (program Program, err error) {
	asm.Label = map[string]int{}
	asm.Equate = map[string]string{}
	asm.cells = nil
	asm.patches = nil

	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		err = asm.parseLine(line, lineno)
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: strings.TrimSpace(line), Err: err}
			return
		}
	}
	err = scanner.Err()
	if err != nil {
		return
	}

	for _, p := range asm.patches {
		address, ok := asm.Label[p.label]
		if !ok {
			err = ErrSyntax{LineNo: p.lineno, Line: p.line, Err: ErrLabelMissing(p.label)}
			return
		}
		asm.cells[p.cell] = int64(address)
	}

	program = Program(asm.cells)
	if len(program) == 0 {
		program = nil
		err = ErrProgramEmpty
	}

	return
}

// parseLine parses a single line as labels plus one directive or
// instruction.
func (asm *Assembler) parseLine(line string, lineno int) (err error) {
	// Strip comments.
	if n := strings.IndexByte(line, ';'); n >= 0 {
		line = line[:n]
	}

	// Do $( expr ) evaluations.
	line, err = asm.expand(line)
	if err != nil {
		return
	}

	words := strings.Fields(line)

	// Peel off label definitions.
	for len(words) > 0 && strings.HasSuffix(words[0], ":") {
		label := strings.TrimSuffix(words[0], ":")
		if !isIdentifier(label) {
			err = ErrParseNumber(words[0])
			return
		}
		if _, dup := asm.Label[label]; dup {
			err = ErrLabelDuplicate
			return
		}
		asm.Label[label] = len(asm.cells)
		if asm.Verbose {
			log.Printf("asm: %v = %v", label, len(asm.cells))
		}
		words = words[1:]
	}

	if len(words) == 0 {
		return
	}

	switch words[0] {
	case ".equ":
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		if _, dup := asm.Equate[words[1]]; dup {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		return
	case "dat":
		rest := strings.Join(words[1:], " ")
		if rest == "" {
			err = ErrValueMissing
			return
		}
		for _, token := range strings.Split(rest, ",") {
			token = strings.TrimSpace(token)
			if token == "" {
				err = ErrValueMissing
				return
			}
			var value int64
			value, err = asm.operand(token, lineno, line)
			if err != nil {
				return
			}
			asm.cells = append(asm.cells, value)
		}
		return
	}

	op, ok := mnemonics[words[0]]
	if !ok {
		err = ErrMnemonicUnknown
		return
	}

	count, writes, _ := op.operands()
	if len(words)-1 != count {
		err = ErrOperandCount
		return
	}

	opcodeCell := len(asm.cells)
	asm.cells = append(asm.cells, int64(op))

	scale := int64(100)
	for n, token := range words[1:] {
		mode := ModePosition
		switch token[0] {
		case '#':
			mode = ModeImmediate
			token = token[1:]
		case '@':
			mode = ModeRelative
			token = token[1:]
		}
		if token == "" {
			err = ErrValueMissing
			return
		}
		if writes && n == count-1 && mode == ModeImmediate {
			err = ErrOperandWrite
			return
		}

		var value int64
		value, err = asm.operand(token, lineno, line)
		if err != nil {
			return
		}

		asm.cells = append(asm.cells, value)
		asm.cells[opcodeCell] += int64(mode) * scale
		scale *= 10
	}

	return
}

// expand replaces every $( expr ) in the line with its evaluated value.
func (asm *Assembler) expand(line string) (out string, err error) {
	out = exprPattern.ReplaceAllStringFunc(line, func(match string) string {
		value, verr := asm.evaluate(match[2 : len(match)-1])
		if verr != nil && err == nil {
			err = verr
		}
		return strconv.FormatInt(value, 10)
	})

	return
}

// operand resolves an operand token to a cell value, recording a patch
// when the token is a label that may not be defined yet.
func (asm *Assembler) operand(token string, lineno int, line string) (value int64, err error) {
	if equate, ok := asm.Equate[token]; ok {
		token = equate
	}

	value, nerr := strconv.ParseInt(token, 0, 64)
	if nerr == nil {
		return
	}

	if !isIdentifier(token) {
		err = ErrParseNumber(token)
		return
	}

	asm.patches = append(asm.patches, patch{
		cell:   len(asm.cells),
		label:  token,
		lineno: lineno,
		line:   strings.TrimSpace(line),
	})

	return
}

// evaluate computes an assembly-time expression with Starlark, binding
// every integer-valued equate as a global.
func (asm *Assembler) evaluate(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		v, verr := strconv.ParseInt(str, 0, 64)
		if verr != nil {
			// Ignore non-integer equates. They may be labels or
			// something else.
			continue
		}
		pred[key] = starlark.MakeInt64(v)
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = ErrParseExpression(expr)
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
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}

	return
}

// isIdentifier reports whether the token is usable as a label or equate
// name.
func isIdentifier(token string) bool {
	if token == "" {
		return false
	}
	for n, r := range token {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9':
			if n == 0 {
				return false
			}
		default:
			return false
		}
	}

	return true
}
