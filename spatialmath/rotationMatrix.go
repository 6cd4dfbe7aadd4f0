package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/sixaxis/utils"
)

// rotationMatrixEpsilon is the tolerance used when deciding whether nine numbers form a rotation.
const rotationMatrixEpsilon = 1e-6

// RotationMatrix is a 3x3 matrix in row major order.
// m[3*r + c] is the element in the r'th row and c'th column.
type RotationMatrix struct {
	mat [9]float64
}

// NewRotationMatrix creates the rotation matrix from a slice of 9 row-major values, checking that they are
// orthonormal with a determinant of +1.
func NewRotationMatrix(m []float64) (*RotationMatrix, error) {
	if len(m) != 9 {
		return nil, utils.NewIncorrectInputLengthError(len(m), 9)
	}
	rm := &RotationMatrix{}
	copy(rm.mat[:], m)
	if err := rm.Validate(); err != nil {
		return nil, err
	}
	return rm, nil
}

// Validate returns an error wrapping utils.ErrInvalidInput if the matrix is not a proper rotation.
func (rm *RotationMatrix) Validate() error {
	if !utils.AllFinite(rm.mat[:]...) {
		return utils.NewInvalidInputError("rotation matrix %v has a non-finite element", rm.mat)
	}
	m := mat.NewDense(3, 3, rm.mat[:])
	var mtm mat.Dense
	mtm.Mul(m.T(), m)
	if !mat.EqualApprox(&mtm, eye3(), rotationMatrixEpsilon) {
		return utils.NewInvalidInputError("rotation matrix %v is not orthonormal", rm.mat)
	}
	if det := mat.Det(m); math.Abs(det-1) > rotationMatrixEpsilon {
		return utils.NewInvalidInputError("rotation matrix %v has determinant %.6f, expected 1", rm.mat, det)
	}
	return nil
}

// AxisAngles returns the orientation in axis angle representation.
func (rm *RotationMatrix) AxisAngles() *R4AA {
	aa := QuatToR4AA(rm.Quaternion())
	return &aa
}

// Quaternion returns orientation in quaternion representation.
// reference: http://www.euclideanspace.com/maths/geometry/rotations/conversions/matrixToQuaternion/index.htm
func (rm *RotationMatrix) Quaternion() quat.Number {
	var q quat.Number
	m := rm.mat
	tr := m[0] + m[4] + m[8]
	switch {
	case tr > 0:
		s := math.Sqrt(tr+1) * 2
		q = quat.Number{Real: 0.25 * s, Imag: (m[7] - m[5]) / s, Jmag: (m[2] - m[6]) / s, Kmag: (m[3] - m[1]) / s}
	case m[0] > m[4] && m[0] > m[8]:
		s := math.Sqrt(1+m[0]-m[4]-m[8]) * 2
		q = quat.Number{Real: (m[7] - m[5]) / s, Imag: 0.25 * s, Jmag: (m[1] + m[3]) / s, Kmag: (m[2] + m[6]) / s}
	case m[4] > m[8]:
		s := math.Sqrt(1+m[4]-m[0]-m[8]) * 2
		q = quat.Number{Real: (m[2] - m[6]) / s, Imag: (m[1] + m[3]) / s, Jmag: 0.25 * s, Kmag: (m[5] + m[7]) / s}
	default:
		s := math.Sqrt(1+m[8]-m[0]-m[4]) * 2
		q = quat.Number{Real: (m[3] - m[1]) / s, Imag: (m[2] + m[6]) / s, Jmag: (m[5] + m[7]) / s, Kmag: 0.25 * s}
	}
	if n := quat.Abs(q); n > 0 {
		q = quat.Scale(1/n, q)
	}
	return q
}

// EulerAngles returns orientation in Euler angle representation.
func (rm *RotationMatrix) EulerAngles() *EulerAngles {
	return QuatToEulerAngles(rm.Quaternion())
}

// RotationMatrix returns the orientation in rotation matrix representation.
func (rm *RotationMatrix) RotationMatrix() *RotationMatrix {
	return rm
}

// At returns the float corresponding to the element at the specified location.
func (rm *RotationMatrix) At(row, col int) float64 {
	return rm.mat[row*3+col]
}

// Row returns the a 3 element vector corresponding to the specified row.
func (rm *RotationMatrix) Row(row int) r3.Vector {
	return r3.Vector{X: rm.mat[row*3], Y: rm.mat[row*3+1], Z: rm.mat[row*3+2]}
}

// Col returns the a 3 element vector corresponding to the specified col.
func (rm *RotationMatrix) Col(col int) r3.Vector {
	return r3.Vector{X: rm.mat[col], Y: rm.mat[col+3], Z: rm.mat[col+6]}
}

// Mul returns the product of the matrix with the column vector v.
func (rm *RotationMatrix) Mul(v r3.Vector) r3.Vector {
	return r3.Vector{X: rm.Row(0).Dot(v), Y: rm.Row(1).Dot(v), Z: rm.Row(2).Dot(v)}
}

// Elements returns a copy of the nine row-major elements.
func (rm *RotationMatrix) Elements() []float64 {
	out := make([]float64, 9)
	copy(out, rm.mat[:])
	return out
}

// RotationMatrixAlmostEqual reports whether every element of a and b is within epsilon.
func RotationMatrixAlmostEqual(a, b *RotationMatrix, epsilon float64) bool {
	for i := range a.mat {
		if !utils.Float64AlmostEqual(a.mat[i], b.mat[i], epsilon) {
			return false
		}
	}
	return true
}

func eye3() *mat.DiagDense {
	return mat.NewDiagDense(3, []float64{1, 1, 1})
}
