package amplifier

import (
	"errors"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	// Circuit errors
	ErrNoPhases = errors.New(f("no phase values"))
	ErrNoOutput = errors.New(f("no output produced"))
)
