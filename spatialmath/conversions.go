package spatialmath

import (
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/sixaxis/utils"
)

// QuaternionToMatrix converts a quaternion, scalar first, to the equivalent rotation matrix. Quaternions
// that are not unit are normalized first, and ones that cannot be are rejected with utils.ErrInvalidInput.
func QuaternionToMatrix(q quat.Number) (*RotationMatrix, error) {
	n, err := NormalizeQuaternion(q)
	if err != nil {
		return nil, err
	}
	return QuatToRotationMatrix(n), nil
}

// MatrixToQuaternion converts a rotation matrix to a unit quaternion with a non-negative scalar part.
func MatrixToQuaternion(rm *RotationMatrix) (quat.Number, error) {
	if err := rm.Validate(); err != nil {
		return quat.Number{}, err
	}
	q := rm.Quaternion()
	if q.Real < 0 {
		q = Flip(q)
	}
	return q, nil
}

// QuaternionToEuler converts a quaternion, scalar first, to Z-Y-X euler angles in radians.
func QuaternionToEuler(q quat.Number) (*EulerAngles, error) {
	n, err := NormalizeQuaternion(q)
	if err != nil {
		return nil, err
	}
	return QuatToEulerAngles(n), nil
}

// EulerToQuaternion converts Z-Y-X euler angles in radians to a unit quaternion, scalar first.
func EulerToQuaternion(ea *EulerAngles) (quat.Number, error) {
	if !utils.AllFinite(ea.Roll, ea.Pitch, ea.Yaw) {
		return quat.Number{}, utils.NewInvalidInputError("euler angles %+v have a non-finite component", *ea)
	}
	return ea.Quaternion(), nil
}
