package sixaxis

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/sixaxis/referenceframe"
	"go.viam.com/sixaxis/spatialmath"
	"go.viam.com/sixaxis/utils"
)

func TestModel(t *testing.T) {
	m, err := Model()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.Name(), test.ShouldEqual, ModelName)
	test.That(t, len(m.DoF()), test.ShouldEqual, 6)
	test.That(t, m.DoF()[4].Max, test.ShouldAlmostEqual, utils.DegToRad(125))
	test.That(t, len(m.DynamicLimits()), test.ShouldEqual, 6)
	test.That(t, m.DynamicLimits()[5].MaxAcceleration, test.ShouldAlmostEqual, utils.DegToRad(600))

	// every call shares the one parsed model
	m2, err := Model()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m2, test.ShouldEqual, m)

	for _, lim := range m.DoF() {
		test.That(t, lim.Min, test.ShouldBeGreaterThan, -math.Pi)
		test.That(t, lim.Max, test.ShouldBeLessThan, math.Pi)
	}
}

func TestHomePose(t *testing.T) {
	m, err := Model()
	test.That(t, err, test.ShouldBeNil)
	chain, err := m.Forward(make([]referenceframe.Input, 6))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.PoseAlmostEqual(chain.Pose, spatialmath.NewPoseFromPoint(r3.Vector{X: 0.25, Z: 2.08})), test.ShouldBeTrue)

	expected := []r3.Vector{
		{Z: 0.2},
		{X: 0.15, Z: 0.45},
		{X: 0.15, Z: 1.15},
		{X: 0.25, Z: 1.5},
		{X: 0.25, Z: 1.95},
		{X: 0.25, Z: 2.03},
		{X: 0.25, Z: 2.08},
	}
	test.That(t, len(chain.JointPositions), test.ShouldEqual, len(expected))
	for i, pt := range expected {
		test.That(t, spatialmath.R3VectorAlmostEqual(chain.JointPositions[i], pt, 1e-12), test.ShouldBeTrue)
	}
}

func TestKinematicsJSONCopy(t *testing.T) {
	data := KinematicsJSON()
	data[0] = 'x'
	_, err := referenceframe.UnmarshalModelJSON(KinematicsJSON(), "")
	test.That(t, err, test.ShouldBeNil)
}
