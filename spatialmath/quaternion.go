package spatialmath

import (
	"math"

	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/sixaxis/utils"
)

const (
	// quatNormEpsilon is how far a quaternion norm may drift from 1 before it is rescaled.
	quatNormEpsilon = 1e-9
	// quatZeroNorm is the norm below which a quaternion carries no usable rotation.
	quatZeroNorm = 1e-9
)

// quaternion is an Orientation stored scalar first, (w, x, y, z).
type quaternion quat.Number

// AxisAngles returns the orientation in axis angle representation.
func (q *quaternion) AxisAngles() *R4AA {
	aa := QuatToR4AA(q.Quaternion())
	return &aa
}

// Quaternion returns orientation in quaternion representation.
func (q *quaternion) Quaternion() quat.Number {
	return quat.Number(*q)
}

// EulerAngles returns orientation in Euler angle representation.
func (q *quaternion) EulerAngles() *EulerAngles {
	return QuatToEulerAngles(q.Quaternion())
}

// RotationMatrix returns the orientation in rotation matrix representation.
func (q *quaternion) RotationMatrix() *RotationMatrix {
	return QuatToRotationMatrix(q.Quaternion())
}

// NewOrientationFromQuaternion validates and normalizes q and returns it as an Orientation.
func NewOrientationFromQuaternion(q quat.Number) (Orientation, error) {
	n, err := NormalizeQuaternion(q)
	if err != nil {
		return nil, err
	}
	o := quaternion(n)
	return &o, nil
}

// NormalizeQuaternion returns q scaled to unit norm. A quaternion with a non-finite component or a norm
// too close to zero to recover a rotation from is rejected with an error wrapping utils.ErrInvalidInput.
// Quaternions already within quatNormEpsilon of unit norm are returned untouched.
func NormalizeQuaternion(q quat.Number) (quat.Number, error) {
	if !utils.AllFinite(q.Real, q.Imag, q.Jmag, q.Kmag) {
		return quat.Number{}, utils.NewInvalidInputError("quaternion %v has a non-finite component", q)
	}
	norm := quat.Abs(q)
	if norm < quatZeroNorm {
		return quat.Number{}, utils.NewInvalidInputError("quaternion %v has near-zero norm", q)
	}
	if math.Abs(norm-1) > quatNormEpsilon {
		q = quat.Scale(1/norm, q)
	}
	return q, nil
}

// QuaternionAlmostEqual is an equality test for quaternions. q and -q describe the same rotation, so both
// signs are accepted.
func QuaternionAlmostEqual(a, b quat.Number, tol float64) bool {
	same := utils.Float64AlmostEqual(a.Real, b.Real, tol) &&
		utils.Float64AlmostEqual(a.Imag, b.Imag, tol) &&
		utils.Float64AlmostEqual(a.Jmag, b.Jmag, tol) &&
		utils.Float64AlmostEqual(a.Kmag, b.Kmag, tol)
	if same {
		return true
	}
	b = Flip(b)
	return utils.Float64AlmostEqual(a.Real, b.Real, tol) &&
		utils.Float64AlmostEqual(a.Imag, b.Imag, tol) &&
		utils.Float64AlmostEqual(a.Jmag, b.Jmag, tol) &&
		utils.Float64AlmostEqual(a.Kmag, b.Kmag, tol)
}

// Norm returns the norm of the quaternion, i.e. the sqrt of the squares of the imaginary parts.
func Norm(q quat.Number) float64 {
	return math.Sqrt(q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag)
}

// Flip will multiply a quaternion by -1, returning a quaternion representing the same orientation but in the opposing octant.
func Flip(q quat.Number) quat.Number {
	return quat.Number{Real: -q.Real, Imag: -q.Imag, Jmag: -q.Jmag, Kmag: -q.Kmag}
}

// QuatToRotationMatrix converts a unit quaternion to a rotation matrix. The quaternion is assumed to be
// normalized already; QuaternionToMatrix is the validating entry point.
func QuatToRotationMatrix(q quat.Number) *RotationMatrix {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	return &RotationMatrix{[9]float64{
		1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y),
		2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x),
		2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y),
	}}
}

// QuatToR4AA converts a quat to an R4 axis angle in the same way the C++ Eigen library does.
// https://eigen.tuxfamily.org/dox/AngleAxis_8h_source.html
func QuatToR4AA(q quat.Number) R4AA {
	denom := Norm(q)

	angle := 2 * math.Atan2(denom, math.Abs(q.Real))
	if q.Real < 0 {
		angle *= -1
	}

	if denom < 1e-6 {
		return R4AA{Theta: angle, RX: 0, RY: 0, RZ: 1}
	}
	return R4AA{Theta: angle, RX: q.Imag / denom, RY: q.Jmag / denom, RZ: q.Kmag / denom}
}
