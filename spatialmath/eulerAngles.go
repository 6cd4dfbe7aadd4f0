package spatialmath

import (
	"math"

	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/sixaxis/utils"
)

// gimbalLockThreshold is how close |sin(pitch)| may come to 1 before roll and yaw stop being separable.
const gimbalLockThreshold = 1 - 1e-14

// EulerAngles are three angles in radians used to represent the rotation of an object in 3D Euclidean space.
// They are applied intrinsically in Z-Y-X order: yaw about Z, then pitch about the new Y, then roll about
// the newest X. Equivalently R = Rz(yaw)*Ry(pitch)*Rx(roll).
type EulerAngles struct {
	Roll  float64 `json:"roll"`  // phi, X
	Pitch float64 `json:"pitch"` // theta, Y
	Yaw   float64 `json:"yaw"`   // psi, Z
}

// NewEulerAngles creates an empty EulerAngles struct.
func NewEulerAngles() *EulerAngles {
	return &EulerAngles{Roll: 0, Pitch: 0, Yaw: 0}
}

// EulerAngles returns orientation in Euler angle representation.
func (ea *EulerAngles) EulerAngles() *EulerAngles {
	return ea
}

// Quaternion returns orientation in quaternion representation.
func (ea *EulerAngles) Quaternion() quat.Number {
	cy := math.Cos(ea.Yaw * 0.5)
	sy := math.Sin(ea.Yaw * 0.5)
	cp := math.Cos(ea.Pitch * 0.5)
	sp := math.Sin(ea.Pitch * 0.5)
	cr := math.Cos(ea.Roll * 0.5)
	sr := math.Sin(ea.Roll * 0.5)

	return quat.Number{
		Real: cr*cp*cy + sr*sp*sy,
		Imag: sr*cp*cy - cr*sp*sy,
		Jmag: cr*sp*cy + sr*cp*sy,
		Kmag: cr*cp*sy - sr*sp*cy,
	}
}

// AxisAngles returns the orientation in axis angle representation.
func (ea *EulerAngles) AxisAngles() *R4AA {
	aa := QuatToR4AA(ea.Quaternion())
	return &aa
}

// RotationMatrix returns the orientation in rotation matrix representation.
func (ea *EulerAngles) RotationMatrix() *RotationMatrix {
	return QuatToRotationMatrix(ea.Quaternion())
}

// QuatToEulerAngles converts a unit quaternion to Z-Y-X euler angles.
// https://en.wikipedia.org/wiki/Conversion_between_quaternions_and_Euler_angles#Quaternion_to_Euler_angles_conversion
// At gimbal lock (pitch of +/- pi/2) only yaw-roll or yaw+roll is defined, so roll is pinned to zero and
// yaw carries the whole rotation about Z.
func QuatToEulerAngles(q quat.Number) *EulerAngles {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	angles := EulerAngles{}

	sinp := 2 * (w*y - z*x)
	if math.Abs(sinp) >= gimbalLockThreshold {
		angles.Pitch = math.Copysign(math.Pi/2, sinp)
		angles.Yaw = utils.WrapRad(2 * math.Atan2(z, w))
		return &angles
	}

	angles.Roll = math.Atan2(2*(w*x+y*z), 1-2*(x*x+y*y))
	angles.Pitch = math.Asin(sinp)
	angles.Yaw = math.Atan2(2*(w*z+x*y), 1-2*(y*y+z*z))
	return &angles
}
