package machine

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Program is the initial memory image of an intcode program, in textual
// order.
type Program []int64

// Parse reads a program from the first line of a comma-separated signed
// integer stream. Malformed tokens are dropped; an input yielding no
// values at all returns ErrProgramEmpty.
func Parse(r io.Reader) (program Program, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	if !scanner.Scan() {
		err = scanner.Err()
		if err == nil {
			err = ErrProgramEmpty
		}
		return
	}

	for _, token := range strings.Split(scanner.Text(), ",") {
		value, verr := strconv.ParseInt(strings.TrimSpace(token), 10, 64)
		if verr != nil {
			continue
		}
		program = append(program, value)
	}

	if len(program) == 0 {
		program = nil
		err = ErrProgramEmpty
	}

	return
}

// String renders the program in its comma-separated source form.
func (program Program) String() string {
	tokens := make([]string, len(program))
	for n, value := range program {
		tokens[n] = strconv.FormatInt(value, 10)
	}

	return strings.Join(tokens, ",")
}
