package kinematics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"

	"go.viam.com/sixaxis/referenceframe"
	"go.viam.com/sixaxis/spatialmath"
)

// geometryEpsilon bounds how far an offset or axis may stray from the layout the closed form relies on.
const geometryEpsilon = 1e-9

// wristGeometry is the fixed part of the closed form solution, read once from the chain.
//
// The chain is waist (Z), shoulder (Y), elbow (Y), forearm roll (Z), wrist pitch (Y), wrist roll (Z). The
// shoulder, elbow and forearm offsets lie in the plane swept by the waist, and the last three axes meet in one
// point, the wrist centre. Offsets are kept as (x, z) pairs in the frame of the joint before them.
type wristGeometry struct {
	// base is the fixed pose of the waist axis in the world frame.
	base r3.Vector
	// shoulder, upperArm and forearm are offsets in the plane of the arm.
	shoulder, upperArm, forearm r3.Vector
	// flange is the wrist centre to tool point offset in the last joint frame.
	flange mgl64.Vec3
	// toolInv undoes the fixed tool rotation after the last joint.
	toolInv mgl64.Mat3

	// elbowRho and elbowPsi describe |g|^2 as a sinusoid in the elbow angle, see solveElbow.
	elbowRho, elbowPsi float64
	// upperArmSq and forearmSq are the squared lengths of upperArm and forearm.
	upperArmSq, forearmSq float64
}

var expectedAxes = []r3.Vector{spatialmath.Z(), spatialmath.Y(), spatialmath.Y(), spatialmath.Z(), spatialmath.Y(), spatialmath.Z()}

// newWristGeometry checks that the model is a six axis arm with a spherical wrist and extracts the constants
// the closed form needs.
func newWristGeometry(model *referenceframe.SimpleModel) (*wristGeometry, error) {
	joints, tool, err := model.Joints()
	if err != nil {
		return nil, NewUnsupportedGeometryError("%v", err)
	}
	if len(joints) != len(expectedAxes) {
		return nil, NewUnsupportedGeometryError("need %d revolute joints, have %d", len(expectedAxes), len(joints))
	}
	for i, joint := range joints {
		if !spatialmath.R3VectorAlmostEqual(joint.Axis, expectedAxes[i], geometryEpsilon) {
			return nil, NewUnsupportedGeometryError("joint %q rotates about %v, expected %v", joint.Name, joint.Axis, expectedAxes[i])
		}
		if !spatialmath.OrientationAlmostEqualEps(joint.Offset.Orientation(), spatialmath.NewZeroOrientation(), geometryEpsilon) {
			return nil, NewUnsupportedGeometryError("joint %q has a rotated offset", joint.Name)
		}
	}
	offset := func(i int) r3.Vector { return joints[i].Offset.Point() }

	for i := 1; i <= 4; i++ {
		if math.Abs(offset(i).Y) > geometryEpsilon {
			return nil, NewUnsupportedGeometryError("joint %q is offset out of the arm plane", joints[i].Name)
		}
	}
	if math.Abs(offset(4).X) > geometryEpsilon {
		return nil, NewUnsupportedGeometryError("wrist pitch %q is off the forearm axis", joints[4].Name)
	}
	if math.Abs(offset(5).X) > geometryEpsilon || math.Abs(offset(5).Y) > geometryEpsilon {
		return nil, NewUnsupportedGeometryError("wrist roll %q is off its own axis", joints[5].Name)
	}

	// offset(5) lies on the roll axis, so it reads the same in the last joint frame as the tool offset does.
	flange := offset(5).Add(tool.Point())
	g := &wristGeometry{
		base:     offset(0),
		shoulder: offset(1),
		upperArm: offset(2),
		forearm:  offset(3).Add(offset(4)),
		flange:   mgl64.Vec3{flange.X, flange.Y, flange.Z},
		toolInv:  toMat3(tool.Orientation().RotationMatrix()).Transpose(),
	}
	g.upperArmSq = g.upperArm.X*g.upperArm.X + g.upperArm.Z*g.upperArm.Z
	g.forearmSq = g.forearm.X*g.forearm.X + g.forearm.Z*g.forearm.Z

	// upperArm . Ry(q3) forearm = a*cos(q3) + b*sin(q3) = rho*cos(q3 - psi)
	a := g.upperArm.X*g.forearm.X + g.upperArm.Z*g.forearm.Z
	b := g.upperArm.X*g.forearm.Z - g.upperArm.Z*g.forearm.X
	g.elbowRho = math.Hypot(a, b)
	g.elbowPsi = math.Atan2(b, a)
	if g.elbowRho < geometryEpsilon {
		return nil, NewUnsupportedGeometryError("upper arm or forearm has zero length")
	}
	return g, nil
}

func toMat3(rm *spatialmath.RotationMatrix) mgl64.Mat3 {
	r0, r1, r2 := rm.Row(0), rm.Row(1), rm.Row(2)
	return mgl64.Mat3FromRows(
		mgl64.Vec3{r0.X, r0.Y, r0.Z},
		mgl64.Vec3{r1.X, r1.Y, r1.Z},
		mgl64.Vec3{r2.X, r2.Y, r2.Z},
	)
}

// axisRotation returns the rotation by theta about axis as a matrix.
func axisRotation(theta float64, axis r3.Vector) mgl64.Mat3 {
	aa := &spatialmath.R4AA{Theta: theta, RX: axis.X, RY: axis.Y, RZ: axis.Z}
	return toMat3(aa.RotationMatrix())
}
