package channel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipeFifo(t *testing.T) {
	assert := assert.New(t)

	pipe := NewPipe()

	const count = 1000

	go func() {
		for n := range int64(count) {
			pipe.Send(n)
		}
		pipe.Close()
	}()

	for n := range int64(count) {
		value, err := pipe.Receive()
		require.NoError(t, err)
		require.Equal(t, n, value)
	}

	_, err := pipe.Receive()
	assert.ErrorIs(err, ErrClosed)
}

func TestPipeCloseUnblocks(t *testing.T) {
	assert := assert.New(t)

	pipe := NewPipe()

	done := make(chan error, 1)
	go func() {
		_, err := pipe.Receive()
		done <- err
	}()

	pipe.Close()
	assert.ErrorIs(<-done, ErrClosed)
}

func TestPipeSendAfterClose(t *testing.T) {
	assert := assert.New(t)

	pipe := NewPipe()
	assert.NoError(pipe.Send(1))
	pipe.Close()
	pipe.Close() // idempotent

	assert.ErrorIs(pipe.Send(2), ErrClosed)

	// The value sent before the close is still delivered.
	value, err := pipe.Receive()
	assert.NoError(err)
	assert.Equal(int64(1), value)
	assert.Equal(0, pipe.Len())

	_, err = pipe.Receive()
	assert.ErrorIs(err, ErrClosed)
}
