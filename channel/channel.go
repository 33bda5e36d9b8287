// Package channel provides the I/O endpoints an intcode machine reads
// input from and writes output to. Two implementations are provided:
// Buffer, an in-process FIFO polled directly by a single goroutine, and
// Pipe, an unbounded blocking FIFO connecting one producer goroutine to
// one consumer goroutine.
//
// Both preserve strict FIFO order and carry an explicit closed signal:
// once the producer side is closed, the consumer's next receive on an
// empty endpoint fails with ErrClosed instead of blocking forever.
package channel

// Source is the consumer end of a value stream.
type Source interface {
	// Receive removes and returns the oldest value in the stream.
	Receive() (value int64, err error)
}

// Sink is the producer end of a value stream.
type Sink interface {
	// Send appends a value to the stream.
	Send(value int64) error
}

// Closer marks the producer side of a stream as finished.
type Closer interface {
	// Close signals end-of-stream to the consumer. Close is idempotent.
	Close()
}
