package channel

import (
	"iter"
	"slices"
)

// Buffer implements a growable FIFO queue of values for use by a single
// goroutine. The zero value is an empty, open buffer.
type Buffer struct {
	values []int64
	closed bool
}

var _ Source = (*Buffer)(nil)
var _ Sink = (*Buffer)(nil)
var _ Closer = (*Buffer)(nil)

// Send appends a value to the buffer.
// Returns ErrClosed if the buffer has been closed.
func (buf *Buffer) Send(value int64) (err error) {
	if buf.closed {
		err = ErrClosed
		return
	}

	buf.values = append(buf.values, value)

	return
}

// Receive removes and returns the oldest buffered value. An empty open
// buffer returns ErrEmpty; an empty closed buffer returns ErrClosed.
func (buf *Buffer) Receive() (value int64, err error) {
	if len(buf.values) == 0 {
		if buf.closed {
			err = ErrClosed
		} else {
			err = ErrEmpty
		}
		return
	}

	value = buf.values[0]
	buf.values = buf.values[1:]

	return
}

// Close marks the buffer's producer side as finished.
func (buf *Buffer) Close() {
	buf.closed = true
}

// Len returns the number of buffered values.
func (buf *Buffer) Len() int {
	return len(buf.values)
}

// Values returns a copy of the buffered values, oldest first, without
// consuming them.
func (buf *Buffer) Values() []int64 {
	return slices.Clone(buf.values)
}

// Drain returns an iterator that consumes buffered values until empty.
func (buf *Buffer) Drain() iter.Seq[int64] {
	return func(yield func(value int64) bool) {
		for len(buf.values) > 0 {
			value := buf.values[0]
			buf.values = buf.values[1:]
			if !yield(value) {
				return
			}
		}
	}
}
