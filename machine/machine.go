package machine

import (
	"errors"
	"log"
	"slices"

	"github.com/ezrec/intcode/channel"
)

// DefaultMemory is the default memory capacity in cells.
const DefaultMemory = 4096

// Machine is one instance of the intcode processor: a private memory
// image, a program counter, a relative base, and a halted flag, wired
// to one input Source and one output Sink.
type Machine struct {
	Verbose bool // Set to enable verbose instruction tracing.

	mem    []int64
	pc     int
	base   int64
	halted bool

	in  channel.Source
	out channel.Sink

	inBuf  *channel.Buffer // Input endpoint, when machine-owned.
	outBuf *channel.Buffer // Output endpoint, when machine-owned.

	capacity int

	emitted int64 // Most recent output value.
	didEmit bool  // Set when the last Step produced output.
}

// Option configures a Machine at construction.
type Option func(m *Machine)

// WithMemory sets the memory capacity in cells. The capacity must be at
// least the program length; the default is DefaultMemory.
func WithMemory(cells int) Option {
	return func(m *Machine) {
		m.capacity = cells
	}
}

// WithInput attaches an external input endpoint in place of the
// machine-owned buffer.
func WithInput(src channel.Source) Option {
	return func(m *Machine) {
		m.in = src
	}
}

// WithOutput attaches an external output endpoint in place of the
// machine-owned buffer.
func WithOutput(snk channel.Sink) Option {
	return func(m *Machine) {
		m.out = snk
	}
}

// New creates a machine primed at pc 0, not halted, with the program
// loaded at the base of a zero-filled memory image.
func New(program Program, options ...Option) (m *Machine, err error) {
	m = &Machine{}
	for _, option := range options {
		option(m)
	}

	if len(program) == 0 {
		m = nil
		err = ErrProgramEmpty
		return
	}

	if m.capacity == 0 {
		m.capacity = max(DefaultMemory, len(program))
	}
	if m.capacity < len(program) {
		m = nil
		err = ErrMemorySize
		return
	}

	m.mem = make([]int64, m.capacity)
	copy(m.mem, program)

	if m.in == nil {
		m.inBuf = &channel.Buffer{}
		m.in = m.inBuf
	}
	if m.out == nil {
		m.outBuf = &channel.Buffer{}
		m.out = m.outBuf
	}

	return
}

// Halted reports whether the machine has executed its exit instruction.
func (m *Machine) Halted() bool {
	return m.halted
}

// Pc returns the current program counter.
func (m *Machine) Pc() int {
	return m.pc
}

// Load reads a memory cell directly, for inspection by callers.
func (m *Machine) Load(address int) (value int64, err error) {
	if address < 0 || address >= len(m.mem) {
		err = ErrAddress
		return
	}

	value = m.mem[address]

	return
}

// Store writes a memory cell directly, for callers that patch a program
// before running it.
func (m *Machine) Store(address int, value int64) (err error) {
	if address < 0 || address >= len(m.mem) {
		err = ErrAddress
		return
	}

	m.mem[address] = value

	return
}

// Memory returns a copy of the machine's memory image.
func (m *Machine) Memory() []int64 {
	return slices.Clone(m.mem)
}

// PushInput enqueues a value on the machine's input endpoint. The
// endpoint must be writable; the machine-owned buffer and a Pipe both
// are.
func (m *Machine) PushInput(value int64) (err error) {
	sink, ok := m.in.(channel.Sink)
	if !ok {
		err = ErrInputReadOnly
		return
	}

	err = sink.Send(value)

	return
}

// PopOutput removes and returns the oldest buffered output value. ok is
// false when no output is buffered, or when the machine does not own
// its output endpoint.
func (m *Machine) PopOutput() (value int64, ok bool) {
	if m.outBuf == nil {
		return
	}

	var err error
	value, err = m.outBuf.Receive()
	ok = err == nil

	return
}

// OutputBuffer returns a copy of the buffered output values, oldest
// first, without consuming them.
func (m *Machine) OutputBuffer() []int64 {
	if m.outBuf == nil {
		return nil
	}

	return m.outBuf.Values()
}

// Step decodes and applies exactly one instruction. Stepping a halted
// machine returns ErrHalted. Any fault is wrapped in an ErrFault
// identifying the offending program counter and instruction word.
func (m *Machine) Step() (err error) {
	if m.halted {
		err = ErrHalted
		return
	}

	pc := m.pc
	var word int64
	if pc >= 0 && pc < len(m.mem) {
		word = m.mem[pc]
	}
	defer func() {
		if err != nil {
			err = errors.Join(ErrFault{Pc: pc, Word: word}, err)
		}
	}()

	inst, next, err := decode(m.mem, pc, m.base)
	if err != nil {
		return
	}

	if m.Verbose {
		log.Printf("%04d: %v", pc, inst)
	}

	m.pc = next
	m.didEmit = false

	err = m.apply(inst)

	return
}

// Run steps the machine until it halts. An Input instruction finding
// its endpoint closed, or an Output instruction finding its consumer
// gone, ends the run with channel.ErrClosed; pipeline callers treat
// that as this machine's graceful end-of-stream. An Input instruction
// finding a machine-owned buffer empty is a precondition violation and
// surfaces channel.ErrEmpty: single-threaded callers must supply all
// input up front.
func (m *Machine) Run() (err error) {
	for !m.halted {
		err = m.Step()
		if err != nil {
			return
		}
	}

	return
}

// RunToOutput steps the machine until one output value is available, or
// until it halts. ok is false when the machine halted without further
// output. A buffered value is consumed from the machine-owned output
// buffer.
func (m *Machine) RunToOutput() (value int64, ok bool, err error) {
	for {
		if m.outBuf != nil && m.outBuf.Len() > 0 {
			value, _ = m.outBuf.Receive()
			ok = true
			return
		}
		if m.halted {
			return
		}

		err = m.Step()
		if err != nil {
			return
		}

		if m.outBuf == nil && m.didEmit {
			value = m.emitted
			ok = true
			return
		}
	}
}

// apply mutates the machine state as directed by one decoded
// instruction.
func (m *Machine) apply(inst Instruction) (err error) {
	switch inst.Op {
	case OpAdd:
		err = m.store(inst.Args[2], inst.Args[0]+inst.Args[1])
	case OpMul:
		err = m.store(inst.Args[2], inst.Args[0]*inst.Args[1])
	case OpInput:
		var value int64
		value, err = m.in.Receive()
		if err != nil {
			return
		}
		err = m.store(inst.Args[0], value)
	case OpOutput:
		err = m.out.Send(inst.Args[0])
		if err != nil {
			return
		}
		m.emitted = inst.Args[0]
		m.didEmit = true
	case OpJumpTrue:
		if inst.Args[0] != 0 {
			err = m.jump(inst.Args[1])
		}
	case OpJumpFalse:
		if inst.Args[0] == 0 {
			err = m.jump(inst.Args[1])
		}
	case OpLessThan:
		err = m.store(inst.Args[2], btoi(inst.Args[0] < inst.Args[1]))
	case OpEquals:
		err = m.store(inst.Args[2], btoi(inst.Args[0] == inst.Args[1]))
	case OpAdjustBase:
		m.base += inst.Args[0]
	case OpHalt:
		m.halted = true
	default:
		err = ErrOpcodeUnknown
	}

	return
}

// store writes a decoded store-operand address.
func (m *Machine) store(address int64, value int64) (err error) {
	if address < 0 || address >= int64(len(m.mem)) {
		err = ErrAddress
		return
	}

	m.mem[address] = value

	return
}

// jump overwrites the program counter.
func (m *Machine) jump(target int64) (err error) {
	if target < 0 || target >= int64(len(m.mem)) {
		err = ErrAddress
		return
	}

	m.pc = int(target)

	return
}

func btoi(cond bool) int64 {
	if cond {
		return 1
	}

	return 0
}
