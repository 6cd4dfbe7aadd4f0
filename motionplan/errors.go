package motionplan

import (
	"github.com/pkg/errors"

	"go.viam.com/sixaxis/utils"
)

// ErrEmptyTrack is returned when asked to plan or save a trajectory with no waypoints.
var ErrEmptyTrack = errors.New("track has no waypoints")

// NewBadLimitsError returns an error wrapping utils.ErrInvalidInput for unusable velocity or acceleration limits.
func NewBadLimitsError(joint int, limit interface{}) error {
	return utils.NewInvalidInputError("joint %d has unusable dynamic limit %+v", joint, limit)
}

// NewWaypointDoFError returns an error wrapping utils.ErrInvalidInput for a waypoint of the wrong length.
func NewWaypointDoFError(index, actual, expected int) error {
	return utils.NewInvalidInputError("waypoint %d has %d joints, expected %d", index, actual, expected)
}
