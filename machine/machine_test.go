package machine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/intcode/channel"
)

// run creates a machine, seeds it with the inputs, and runs it to
// completion.
func run(t *testing.T, program Program, inputs ...int64) (m *Machine) {
	m, err := New(program)
	require.NoError(t, err)

	for _, value := range inputs {
		require.NoError(t, m.PushInput(value))
	}

	require.NoError(t, m.Run())
	require.True(t, m.Halted())

	return
}

func TestMemoryPrograms(t *testing.T) {
	table := [](struct {
		name    string
		program Program
		want    []int64
	}){
		{"add_position", Program{1, 0, 0, 0, 99}, []int64{2, 0, 0, 0, 99}},
		{"mul_position", Program{2, 3, 0, 3, 99}, []int64{2, 3, 0, 6, 99}},
		{"mul_square", Program{2, 4, 4, 5, 99, 0}, []int64{2, 4, 4, 5, 99, 9801}},
		{"self_modify", Program{1, 1, 1, 4, 99, 5, 6, 0, 99}, []int64{30, 1, 1, 4, 2, 5, 6, 0, 99}},
		{"combined", Program{1, 9, 10, 3, 2, 3, 11, 0, 99, 30, 40, 50}, []int64{3500, 9, 10, 70, 2, 3, 11, 0, 99, 30, 40, 50}},
	}

	for _, entry := range table {
		m := run(t, entry.program)
		assert.Equal(t, entry.want, m.Memory()[:len(entry.program)], entry.name)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	assert := assert.New(t)

	program := Program{1, 9, 10, 3, 2, 3, 11, 0, 99, 30, 40, 50}
	m, err := New(program)
	assert.NoError(err)

	for n, want := range program {
		value, lerr := m.Load(n)
		assert.NoError(lerr)
		assert.Equal(want, value)
	}

	// Scratch space past the program is zero-filled.
	value, err := m.Load(len(program))
	assert.NoError(err)
	assert.Equal(int64(0), value)
}

func TestDeterminism(t *testing.T) {
	assert := assert.New(t)

	program := Program{1, 1, 1, 4, 99, 5, 6, 0, 99}

	first := run(t, program)
	second := run(t, program)
	assert.Equal(first.Memory(), second.Memory())
}

func TestInputOutput(t *testing.T) {
	assert := assert.New(t)

	m := run(t, Program{3, 0, 4, 0, 99}, 1)
	assert.Equal([]int64{1}, m.OutputBuffer())

	value, ok := m.PopOutput()
	assert.True(ok)
	assert.Equal(int64(1), value)

	_, ok = m.PopOutput()
	assert.False(ok)
}

func TestImmediateMode(t *testing.T) {
	assert := assert.New(t)

	m := run(t, Program{1002, 4, 3, 4, 33})
	assert.Equal(int64(99), m.Memory()[4])

	m = run(t, Program{1101, 100, -1, 4, 0})
	assert.Equal(int64(99), m.Memory()[4])
}

func TestConditionals(t *testing.T) {
	table := [](struct {
		name    string
		program Program
		input   int64
		want    int64
	}){
		{"eq_position_hit", Program{3, 9, 8, 9, 10, 9, 4, 9, 99, -1, 8}, 8, 1},
		{"eq_position_miss", Program{3, 9, 8, 9, 10, 9, 4, 9, 99, -1, 8}, 1, 0},
		{"lt_position_hit", Program{3, 9, 7, 9, 10, 9, 4, 9, 99, -1, 8}, 1, 1},
		{"lt_position_miss", Program{3, 9, 7, 9, 10, 9, 4, 9, 99, -1, 8}, 8, 0},
		{"eq_immediate_hit", Program{3, 3, 1108, -1, 8, 3, 4, 3, 99}, 8, 1},
		{"eq_immediate_miss", Program{3, 3, 1108, -1, 8, 3, 4, 3, 99}, 1, 0},
		{"lt_immediate_hit", Program{3, 3, 1107, -1, 8, 3, 4, 3, 99}, 1, 1},
		{"lt_immediate_miss", Program{3, 3, 1107, -1, 8, 3, 4, 3, 99}, 8, 0},
		{"jump_position", Program{3, 12, 6, 12, 15, 1, 13, 14, 13, 4, 13, 99, -1, 0, 1, 9}, 1, 1},
		{"jump_immediate", Program{3, 3, 1105, -1, 9, 1101, 0, 0, 12, 4, 12, 99, 1}, 1, 1},
	}

	for _, entry := range table {
		m := run(t, entry.program, entry.input)
		value, ok := m.PopOutput()
		assert.True(t, ok, entry.name)
		assert.Equal(t, entry.want, value, entry.name)
	}
}

func TestComparisonAroundEight(t *testing.T) {
	program := Program{
		3, 21, 1008, 21, 8, 20, 1005, 20, 22, 107, 8, 21, 20, 1006, 20, 31, 1106, 0, 36, 98, 0,
		0, 1002, 21, 125, 20, 4, 20, 1105, 1, 46, 104, 999, 1105, 1, 46, 1101, 1000, 1, 20, 4,
		20, 1105, 1, 46, 98, 99,
	}

	table := [](struct {
		input int64
		want  int64
	}){
		{1, 999},
		{8, 1000},
		{50, 1001},
	}

	for _, entry := range table {
		m := run(t, program, entry.input)
		value, ok := m.PopOutput()
		assert.True(t, ok)
		assert.Equal(t, entry.want, value)
	}
}

func TestRelativeMode(t *testing.T) {
	assert := assert.New(t)

	// Quine: outputs a copy of its own instruction sequence.
	quine := Program{109, 1, 204, -1, 1001, 100, 1, 100, 1008, 100, 16, 101, 1006, 101, 0, 99}
	m := run(t, quine)
	assert.Equal([]int64(quine), m.OutputBuffer())

	// 48-bit multiply result, no truncation.
	m = run(t, Program{1102, 34915192, 34915192, 7, 4, 7, 99, 0})
	value, ok := m.PopOutput()
	assert.True(ok)
	assert.Equal(int64(1219070632396864), value)

	// Wide literal round-trips exactly.
	m = run(t, Program{104, 1125899906842624, 99})
	value, ok = m.PopOutput()
	assert.True(ok)
	assert.Equal(int64(1125899906842624), value)
}

// TestModeInvariance computes 2+3 through each addressing mode for the
// same logical operands; all variants must agree.
func TestModeInvariance(t *testing.T) {
	table := [](struct {
		name    string
		program Program
	}){
		{"immediate", Program{1101, 2, 3, 7, 4, 7, 99, 0}},
		{"position", Program{1, 7, 8, 9, 4, 9, 99, 2, 3, 0}},
		{"relative_read", Program{109, 9, 2201, 0, 1, 11, 4, 11, 99, 2, 3, 0}},
		{"relative_write", Program{109, 11, 21101, 2, 3, 0, 4, 11, 99, 0, 0, 0}},
	}

	for _, entry := range table {
		m := run(t, entry.program)
		value, ok := m.PopOutput()
		assert.True(t, ok, entry.name)
		assert.Equal(t, int64(5), value, entry.name)
	}
}

func TestRunToOutput(t *testing.T) {
	assert := assert.New(t)

	m, err := New(Program{104, 1, 104, 2, 99})
	assert.NoError(err)

	value, ok, err := m.RunToOutput()
	assert.NoError(err)
	assert.True(ok)
	assert.Equal(int64(1), value)

	value, ok, err = m.RunToOutput()
	assert.NoError(err)
	assert.True(ok)
	assert.Equal(int64(2), value)

	_, ok, err = m.RunToOutput()
	assert.NoError(err)
	assert.False(ok)
	assert.True(m.Halted())
}

func TestStorePatch(t *testing.T) {
	assert := assert.New(t)

	// Seed the two parameter cells before running, day-2 style.
	m, err := New(Program{1, 0, 0, 0, 99})
	assert.NoError(err)

	assert.NoError(m.Store(1, 4))
	assert.NoError(m.Store(2, 4))
	assert.NoError(m.Run())

	value, err := m.Load(0)
	assert.NoError(err)
	assert.Equal(int64(198), value)

	assert.ErrorIs(m.Store(-1, 0), ErrAddress)
	assert.ErrorIs(m.Store(DefaultMemory, 0), ErrAddress)
	_, err = m.Load(-1)
	assert.ErrorIs(err, ErrAddress)
}

func TestFaults(t *testing.T) {
	table := [](struct {
		name    string
		program Program
		want    error
	}){
		{"opcode_unknown", Program{11, 0, 0, 0}, ErrOpcodeUnknown},
		{"opcode_zero", Program{0, 0, 0, 0}, ErrOpcodeUnknown},
		{"mode_unknown", Program{302, 0, 0, 0, 99}, ErrModeUnknown},
		{"mode_excess_digits", Program{10099}, ErrModeUnknown},
		{"immediate_store", Program{11101, 1, 1, 0, 99}, ErrModeWrite},
		{"read_out_of_range", Program{4, 5000, 99}, ErrAddress},
		{"write_negative", Program{1101, 1, 1, -1, 99}, ErrAddress},
		{"jump_out_of_range", Program{1105, 1, 5000, 99}, ErrAddress},
		{"relative_negative", Program{109, -1, 204, 0, 99}, ErrAddress},
	}

	for _, entry := range table {
		m, err := New(entry.program)
		require.NoError(t, err, entry.name)

		err = m.Run()
		assert.ErrorIs(t, err, entry.want, entry.name)
		assert.ErrorIs(t, err, ErrFault{}, entry.name)
		assert.False(t, m.Halted(), entry.name)
	}
}

func TestRunOffMemory(t *testing.T) {
	assert := assert.New(t)

	// No exit instruction; the pc walks off the end of memory.
	program := Program{1101, 1, 1, 0}
	m, err := New(program, WithMemory(len(program)))
	assert.NoError(err)

	err = m.Run()
	assert.ErrorIs(err, ErrAddress)
	assert.False(m.Halted())
}

func TestStepAfterHalt(t *testing.T) {
	assert := assert.New(t)

	m := run(t, Program{99})
	assert.ErrorIs(m.Step(), ErrHalted)
}

func TestInputStarvation(t *testing.T) {
	assert := assert.New(t)

	// An empty machine-owned buffer is a precondition violation.
	m, err := New(Program{3, 0, 99})
	assert.NoError(err)
	assert.ErrorIs(m.Run(), channel.ErrEmpty)

	// A closed external endpoint is end-of-stream.
	pipe := channel.NewPipe()
	pipe.Close()
	m, err = New(Program{3, 0, 99}, WithInput(pipe))
	assert.NoError(err)
	assert.ErrorIs(m.Run(), channel.ErrClosed)
}

func TestOutputClosed(t *testing.T) {
	assert := assert.New(t)

	pipe := channel.NewPipe()
	pipe.Close()

	m, err := New(Program{104, 1, 99}, WithOutput(pipe))
	assert.NoError(err)
	assert.ErrorIs(m.Run(), channel.ErrClosed)
	assert.Nil(m.OutputBuffer())
}

func TestMemoryOptions(t *testing.T) {
	assert := assert.New(t)

	program := Program{104, 1, 99}

	m, err := New(program, WithMemory(len(program)))
	assert.NoError(err)
	assert.NoError(m.Run())
	assert.Len(m.Memory(), len(program))

	_, err = New(program, WithMemory(2))
	assert.ErrorIs(err, ErrMemorySize)

	_, err = New(Program{})
	assert.ErrorIs(err, ErrProgramEmpty)
}
