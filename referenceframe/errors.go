package referenceframe

import (
	"github.com/pkg/errors"

	"go.viam.com/sixaxis/utils"
)

var (
	// ErrCircularReference is returned when a kinematics file names a frame as its own ancestor.
	ErrCircularReference = errors.New("infinite loop finding path from end effector to world")

	// ErrNeedOneEndEffector is returned when a serial chain does not end in exactly one frame.
	ErrNeedOneEndEffector = errors.New("need exactly one end effector")

	// ErrNoModelInformation is used when there is no model information.
	ErrNoModelInformation = errors.New("no model information")
)

// NewIncorrectDoFError returns an error indicating that the length of an input slice does not match the
// degrees of freedom of the frame it was given to. It wraps utils.ErrInvalidInput.
func NewIncorrectDoFError(actual, expected int) error {
	return utils.NewInvalidInputError("number of inputs does not match frame DoF, expected %d but got %d", expected, actual)
}

// NewFrameNotInListOfTransformsError returns an error indicating that a frame of the given name
// is missing from the provided list of transforms.
func NewFrameNotInListOfTransformsError(frameName string) error {
	return errors.Errorf("frame named '%s' not in the list of transforms", frameName)
}

// NewParentFrameNotInMapOfParentsError returns an error indicating that a parent from the given frame
// is missing from the provided map of parents.
func NewParentFrameNotInMapOfParentsError(frameName string) error {
	return errors.Errorf("parent frame for frame named '%s' not in the map of parents", frameName)
}

// NewReservedWordError returns an error indicating that the provided name for the config element
// is reserved and cannot be used.
func NewReservedWordError(configType, reservedWord string) error {
	return errors.Errorf("reserved word: cannot name a %s '%s'", configType, reservedWord)
}

// NewDuplicateFrameError returns an error indicating that two config elements share a name.
func NewDuplicateFrameError(frameName string) error {
	return errors.Errorf("cannot have more than one frame named '%s'", frameName)
}

// NewUnsupportedJointTypeError returns an error indicating that the given joint type is not supported.
func NewUnsupportedJointTypeError(jointType string) error {
	return errors.Errorf("unsupported joint type detected: %q", jointType)
}
