// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package amplifier composes intcode machines into amplification
// circuits: chains of machines connected by FIFO pipes, each machine
// running on its own goroutine. A linear circuit exposes the last
// machine's output to the caller; a feedback circuit routes it back to
// the first machine's input, forming a ring that runs until every
// machine halts.
package amplifier

import (
	"errors"
	"log"
	"sync"

	"github.com/ezrec/intcode/channel"
	"github.com/ezrec/intcode/machine"
)

// Circuit wires N machines loaded with the same program into a chain,
// each machine's output feeding the next machine's input, with each
// machine's input seeded with its phase value before any execution.
type Circuit struct {
	Verbose bool // If set, logs signal forwarding.

	feedback bool
	machines []*machine.Machine
	pipes    []*channel.Pipe // pipes[n] feeds machines[n]; pipes[n+1] drains it.
}

// Option configures a Circuit at construction.
type Option func(c *Circuit)

// WithFeedback wires the last machine's output back to the first
// machine's input.
func WithFeedback() Option {
	return func(c *Circuit) {
		c.feedback = true
	}
}

// New creates a circuit of len(phases) machines loaded with the same
// program.
func New(program machine.Program, phases []int64, options ...Option) (c *Circuit, err error) {
	c = &Circuit{}
	for _, option := range options {
		option(c)
	}

	if len(phases) == 0 {
		c = nil
		err = ErrNoPhases
		return
	}

	c.pipes = make([]*channel.Pipe, len(phases)+1)
	for n := range c.pipes {
		c.pipes[n] = channel.NewPipe()
	}

	c.machines = make([]*machine.Machine, len(phases))
	for n, phase := range phases {
		err = c.pipes[n].Send(phase)
		if err != nil {
			c = nil
			return
		}
		c.machines[n], err = machine.New(program,
			machine.WithInput(c.pipes[n]),
			machine.WithOutput(c.pipes[n+1]))
		if err != nil {
			c = nil
			return
		}
	}

	return
}

// Inject enqueues an externally supplied signal value on the first
// machine's input.
func (c *Circuit) Inject(value int64) (err error) {
	err = c.pipes[0].Send(value)

	return
}

// Result runs every machine to completion and returns the circuit's
// final signal: the last value observed on the tail machine's output.
// All machine goroutines are joined before Result returns; a machine
// ending on a closed pipe has simply outlived its neighbors and is
// treated as graceful shutdown. Returns ErrNoOutput when the circuit
// halts without producing a signal.
func (c *Circuit) Result() (value int64, err error) {
	var wg sync.WaitGroup
	errs := make([]error, len(c.machines))

	for n, m := range c.machines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rerr := m.Run()
			if rerr != nil && !errors.Is(rerr, channel.ErrClosed) {
				errs[n] = rerr
			}
			// Halting drops the machine's producer end, so the
			// downstream consumer observes end-of-stream and unwinds.
			c.pipes[n+1].Close()
		}()
	}

	head := c.pipes[0]
	tail := c.pipes[len(c.pipes)-1]

	var ok bool
	if c.feedback {
		// Forward the ring's tail back into its head, remembering the
		// last value observed. The tail pipe closing means the last
		// machine has halted and the ring is complete.
		for {
			signal, rerr := tail.Receive()
			if rerr != nil {
				break
			}
			value = signal
			ok = true
			if c.Verbose {
				log.Printf("amplifier: feedback %v", signal)
			}
			if serr := head.Send(signal); serr != nil {
				break
			}
		}
		head.Close()
	} else {
		head.Close()
		for {
			signal, rerr := tail.Receive()
			if rerr != nil {
				break
			}
			value = signal
			ok = true
		}
	}

	wg.Wait()

	err = errors.Join(errs...)
	if err != nil {
		return
	}
	if !ok {
		err = ErrNoOutput
	}

	return
}
