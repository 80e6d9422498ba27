package orientation

import "github.com/pkg/errors"

// ErrInvalidInput is returned when a batch cannot be evaluated: mismatched
// lengths, non-finite values, or an unknown theta source.
var ErrInvalidInput = errors.New("invalid input")

func invalidf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidInput, format, args...)
}
