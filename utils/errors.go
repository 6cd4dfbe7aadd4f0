package utils

import (
	"github.com/pkg/errors"
)

// ErrInvalidInput is the root of every error caused by a malformed argument: a non-finite angle, a
// quaternion that cannot be normalized, a rotation matrix that is not a rotation, or a slice of the wrong
// length. Check for it with errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// NewInvalidInputError returns an error wrapping ErrInvalidInput with the formatted message.
func NewInvalidInputError(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidInput, format, args...)
}

// NewIncorrectInputLengthError is used when a slice argument does not have the expected length.
func NewIncorrectInputLengthError(actual, expected int) error {
	return NewInvalidInputError("number of inputs does not match expected, got %d, expected %d", actual, expected)
}
