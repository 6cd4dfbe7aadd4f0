package utils

import (
	"errors"
	"testing"

	"go.viam.com/test"
)

func TestInvalidInputErrors(t *testing.T) {
	err := NewInvalidInputError("joint %d is %v", 3, "NaN")
	test.That(t, errors.Is(err, ErrInvalidInput), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldEqual, "joint 3 is NaN: invalid input")

	err = NewIncorrectInputLengthError(5, 6)
	test.That(t, errors.Is(err, ErrInvalidInput), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "got 5, expected 6")
}
