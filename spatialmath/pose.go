package spatialmath

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

// Pose represents a 6dof pose, position and orientation, with respect to the origin.
// The Point() method returns the position in (x,y,z) meters.
// The Orientation() method returns an Orientation object, which has methods to parametrize
// the rotation in multiple different representations.
type Pose interface {
	Point() r3.Vector
	Orientation() Orientation
}

// NewZeroPose returns a pose at (0,0,0) with same orientation as whatever frame it is placed in.
func NewZeroPose() Pose {
	return newDualQuaternion()
}

// NewPose takes in a position and orientation and returns a Pose.
func NewPose(p r3.Vector, o Orientation) Pose {
	if o == nil {
		return NewPoseFromPoint(p)
	}
	q := newDualQuaternion()
	q.Real = o.Quaternion()
	q.SetTranslation(p)
	return q
}

// NewPoseFromOrientation takes in an orientation and returns a Pose with no translation.
func NewPoseFromOrientation(o Orientation) Pose {
	return NewPose(r3.Vector{}, o)
}

// NewPoseFromPoint takes in a cartesian (x,y,z) and stores it as a vector.
// It will have the same orientation as the frame it is in.
func NewPoseFromPoint(point r3.Vector) Pose {
	q := newDualQuaternion()
	q.SetTranslation(point)
	return q
}

// Compose treats Poses as functions A(x) and B(x), and produces a new function C(x) = A(B(x)).
// It converts the poses to dual quaternions and multiplies them together, normalizes the transform and returns
// it as a Pose.
// Composition does not commute in general, i.e. you cannot guarantee ABx == BAx.
func Compose(a, b Pose) Pose {
	return &dualQuaternion{dualQuaternionFromPose(a).Transformation(dualQuaternionFromPose(b).Number)}
}

// PoseInverse will return the inverse of a pose. So if a given pose p is the pose of A relative to B, PoseInverse(p)
// will give the pose of B relative to A.
func PoseInverse(p Pose) Pose {
	inv := OrientationInverse(p.Orientation())
	rot := inv.RotationMatrix()
	return NewPose(rot.Mul(p.Point()).Mul(-1), inv)
}

// PoseDelta returns the difference between two Poses, expressed in the frame of a: the pose that must be
// composed onto a to arrive at b.
func PoseDelta(a, b Pose) Pose {
	return Compose(PoseInverse(a), b)
}

// PoseAlmostEqual will return a bool describing whether 2 poses are approximately the same.
func PoseAlmostEqual(a, b Pose) bool {
	return PoseAlmostEqualEps(a, b, 1e-8)
}

// PoseAlmostEqualEps will return a bool describing whether 2 poses are approximately the same, using epsilon both
// as the position tolerance in meters and as the tolerance on each rotation matrix element.
func PoseAlmostEqualEps(a, b Pose, epsilon float64) bool {
	return R3VectorAlmostEqual(a.Point(), b.Point(), epsilon) &&
		RotationMatrixAlmostEqual(a.Orientation().RotationMatrix(), b.Orientation().RotationMatrix(), epsilon)
}

// R3VectorAlmostEqual compares two r3.Vector objects and returns if the all elementwise differences are less than epsilon.
func R3VectorAlmostEqual(a, b r3.Vector, epsilon float64) bool {
	d := a.Sub(b)
	return d.X <= epsilon && d.X >= -epsilon &&
		d.Y <= epsilon && d.Y >= -epsilon &&
		d.Z <= epsilon && d.Z >= -epsilon
}

// PoseToHomogeneous returns the 4x4 homogeneous transform of the pose.
func PoseToHomogeneous(p Pose) mgl64.Mat4 {
	m := mgl64.Ident4()
	rm := p.Orientation().RotationMatrix()
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			m.Set(row, col, rm.At(row, col))
		}
	}
	pt := p.Point()
	m.Set(0, 3, pt.X)
	m.Set(1, 3, pt.Y)
	m.Set(2, 3, pt.Z)
	return m
}

// PrettyPrint returns a human readable string of the pose: position in meters and the scalar first quaternion.
func PrettyPrint(p Pose) string {
	pt := p.Point()
	q := p.Orientation().Quaternion()
	return fmt.Sprintf("{X:%.6f Y:%.6f Z:%.6f QW:%.6f QX:%.6f QY:%.6f QZ:%.6f}",
		pt.X, pt.Y, pt.Z, q.Real, q.Imag, q.Jmag, q.Kmag)
}
