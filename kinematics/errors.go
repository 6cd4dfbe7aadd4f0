package kinematics

import (
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

var (
	// ErrUnreachable is returned when no joint configuration places the end effector at the requested pose.
	ErrUnreachable = errors.New("pose is unreachable")

	// ErrSingular is returned alongside solutions when the requested pose sits on a singularity: a shoulder, elbow
	// or wrist degeneracy collapsed branches that are normally distinct, so fewer solutions exist than usual and
	// one joint angle was chosen arbitrarily. The solutions returned with it are still valid.
	ErrSingular = errors.New("configuration is singular")

	// ErrNoSolution is returned by a SelectionPolicy that has nothing to choose from.
	ErrNoSolution = errors.New("no solution satisfies the selection policy")

	// ErrUnsupportedGeometry is returned when a chain is not a six axis arm with a spherical wrist.
	ErrUnsupportedGeometry = errors.New("unsupported arm geometry")
)

// NewSingularError returns an error wrapping ErrSingular naming which parts of the arm are degenerate.
func NewSingularError(parts []string) error {
	return errors.Wrapf(ErrSingular, "%s", strings.Join(parts, ", "))
}

// NewUnsupportedGeometryError returns an error wrapping ErrUnsupportedGeometry with the formatted reason.
func NewUnsupportedGeometryError(format string, args ...interface{}) error {
	return errors.Wrapf(ErrUnsupportedGeometry, format, args...)
}

// NewUnreachableError returns an error wrapping ErrUnreachable for a target position.
func NewUnreachableError(position r3.Vector, candidates int) error {
	return errors.Wrapf(ErrUnreachable, "no configuration reaches %v (%d candidates rejected)", position, candidates)
}
