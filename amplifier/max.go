package amplifier

import (
	"errors"
	"iter"
	"slices"

	"github.com/ezrec/intcode/machine"
)

// Max returns the largest final signal across every ordering of the
// phase set, injecting a zero seed into each circuit. Returns
// ErrNoOutput when no ordering produces a signal.
func Max(program machine.Program, phases []int64, options ...Option) (best int64, err error) {
	var found bool
	for perm := range permutations(phases) {
		var c *Circuit
		c, err = New(program, perm, options...)
		if err != nil {
			return
		}
		err = c.Inject(0)
		if err != nil {
			return
		}

		var value int64
		value, err = c.Result()
		if err != nil {
			if errors.Is(err, ErrNoOutput) {
				err = nil
				continue
			}
			return
		}

		if !found || value > best {
			best = value
			found = true
		}
	}

	if !found {
		err = ErrNoOutput
	}

	return
}

// permutations returns an iterator over every ordering of the values,
// by Heap's algorithm. The yielded slice is reused between iterations;
// callers must not retain it.
func permutations(values []int64) iter.Seq[[]int64] {
	return func(yield func(perm []int64) bool) {
		if len(values) == 0 {
			return
		}

		work := slices.Clone(values)
		var generate func(k int) bool
		generate = func(k int) bool {
			if k == 1 {
				return yield(work)
			}
			for n := 0; n < k-1; n++ {
				if !generate(k - 1) {
					return false
				}
				if k%2 == 0 {
					work[n], work[k-1] = work[k-1], work[n]
				} else {
					work[0], work[k-1] = work[k-1], work[0]
				}
			}
			return generate(k - 1)
		}
		generate(len(work))
	}
}
