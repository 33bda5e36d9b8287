package channel

import (
	"sync"
)

// Pipe implements an unbounded blocking FIFO queue connecting one
// producer goroutine to one consumer goroutine. Receive blocks while the
// pipe is empty and open; Close unblocks any waiting consumer.
type Pipe struct {
	mu     sync.Mutex
	ready  sync.Cond
	values []int64
	closed bool
}

var _ Source = (*Pipe)(nil)
var _ Sink = (*Pipe)(nil)
var _ Closer = (*Pipe)(nil)

// NewPipe creates a new open, empty pipe.
func NewPipe() (pipe *Pipe) {
	pipe = &Pipe{}
	pipe.ready.L = &pipe.mu

	return
}

// Send appends a value to the pipe and wakes the consumer.
// Returns ErrClosed if the pipe has been closed.
func (pipe *Pipe) Send(value int64) (err error) {
	pipe.mu.Lock()
	defer pipe.mu.Unlock()

	if pipe.closed {
		err = ErrClosed
		return
	}

	pipe.values = append(pipe.values, value)
	pipe.ready.Signal()

	return
}

// Receive removes and returns the oldest value in the pipe, blocking
// while the pipe is empty and open. Returns ErrClosed once the pipe is
// closed and drained.
func (pipe *Pipe) Receive() (value int64, err error) {
	pipe.mu.Lock()
	defer pipe.mu.Unlock()

	for len(pipe.values) == 0 && !pipe.closed {
		pipe.ready.Wait()
	}

	if len(pipe.values) == 0 {
		err = ErrClosed
		return
	}

	value = pipe.values[0]
	pipe.values = pipe.values[1:]

	return
}

// Close marks the pipe's producer side as finished and wakes any waiting
// consumer. Close is idempotent.
func (pipe *Pipe) Close() {
	pipe.mu.Lock()
	defer pipe.mu.Unlock()

	pipe.closed = true
	pipe.ready.Broadcast()
}

// Len returns the number of values waiting in the pipe.
func (pipe *Pipe) Len() int {
	pipe.mu.Lock()
	defer pipe.mu.Unlock()

	return len(pipe.values)
}
