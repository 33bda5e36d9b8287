package channel

import (
	"errors"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	// Channel errors
	ErrClosed = errors.New(f("channel closed"))
	ErrEmpty  = errors.New(f("channel empty"))
)
