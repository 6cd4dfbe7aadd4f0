package kinematics

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/sixaxis/logging"
	frame "go.viam.com/sixaxis/referenceframe"
	"go.viam.com/sixaxis/robots/sixaxis"
	spatial "go.viam.com/sixaxis/spatialmath"
	"go.viam.com/sixaxis/utils"
)

func newTestSolver(t *testing.T) *Solver {
	t.Helper()
	m, err := sixaxis.Model()
	test.That(t, err, test.ShouldBeNil)
	solver, err := NewSolver(m, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	return solver
}

func anglesMatch(a, b []frame.Input, epsilon float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(utils.WrapRad(a[i].Value-b[i].Value)) > epsilon {
			return false
		}
	}
	return true
}

func TestNewSolverGeometry(t *testing.T) {
	logger := logging.NewTestLogger(t)
	_, err := NewSolver(nil, logger)
	test.That(t, errors.Is(err, ErrUnsupportedGeometry), test.ShouldBeTrue)

	lim := frame.Limit{Min: -math.Pi, Max: math.Pi}
	var frames []frame.Frame
	for _, axis := range []r3.Vector{spatial.Z(), spatial.Y(), spatial.Y(), spatial.Z(), spatial.Z(), spatial.Z()} {
		link, err := frame.FrameFromPoint("link", r3.Vector{Z: 0.3})
		test.That(t, err, test.ShouldBeNil)
		joint, err := frame.NewRotationalFrame("joint", *spatial.R3ToR4(axis), lim)
		test.That(t, err, test.ShouldBeNil)
		frames = append(frames, link, joint)
	}
	m, err := frame.NewSerialModel("bad_wrist", frames)
	test.That(t, err, test.ShouldBeNil)
	_, err = NewSolver(m, logger)
	test.That(t, errors.Is(err, ErrUnsupportedGeometry), test.ShouldBeTrue)

	m, err = frame.NewSerialModel("short", frames[:6])
	test.That(t, err, test.ShouldBeNil)
	_, err = NewSolver(m, logger)
	test.That(t, errors.Is(err, ErrUnsupportedGeometry), test.ShouldBeTrue)

	// wrist pitch pushed sideways off the forearm axis
	offAxis, err := frame.FrameFromPoint("link", r3.Vector{Y: 0.05, Z: 0.3})
	test.That(t, err, test.ShouldBeNil)
	frames[8] = offAxis
	frames[9], err = frame.NewRotationalFrame("joint", *spatial.R3ToR4(spatial.Y()), lim)
	test.That(t, err, test.ShouldBeNil)
	m, err = frame.NewSerialModel("off_axis", frames)
	test.That(t, err, test.ShouldBeNil)
	_, err = NewSolver(m, logger)
	test.That(t, errors.Is(err, ErrUnsupportedGeometry), test.ShouldBeTrue)
}

func TestInverseHome(t *testing.T) {
	solver := newTestSolver(t)
	home := make([]frame.Input, 6)
	pose, err := solver.Model().Transform(home)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatial.R3VectorAlmostEqual(pose.Point(), r3.Vector{X: 0.25, Z: 2.08}, 1e-9), test.ShouldBeTrue)

	solutions, err := solver.InversePose(pose)
	test.That(t, errors.Is(err, ErrSingular), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "wrist")
	// the back shoulder cannot reach and the straight wrist of the upper elbow has a single branch
	test.That(t, len(solutions), test.ShouldEqual, 3)
	test.That(t, solutions[0].Branch, test.ShouldResemble, Branch{Shoulder: 1, Elbow: 1, Wrist: 1})
	test.That(t, anglesMatch(solutions[0].Inputs, home, 1e-9), test.ShouldBeTrue)
	test.That(t, solutions[1].Branch, test.ShouldResemble, Branch{Shoulder: 1, Elbow: -1, Wrist: 1})
	test.That(t, solutions[2].Branch, test.ShouldResemble, Branch{Shoulder: 1, Elbow: -1, Wrist: -1})
	// the lower elbow flips forearm and wrist roll to pi, past their limits
	for _, sol := range solutions {
		got, err := solver.Model().Transform(sol.Inputs)
		if err != nil {
			test.That(t, err.Error(), test.ShouldContainSubstring, frame.OOBErrString)
		}
		test.That(t, spatial.PoseAlmostEqualEps(got, pose, 1e-6), test.ShouldBeTrue)
	}
	_, err = solver.Model().Transform(solutions[0].Inputs)
	test.That(t, err, test.ShouldBeNil)
}

func TestInverseOffAxisTool(t *testing.T) {
	base, err := sixaxis.Model()
	test.That(t, err, test.ShouldBeNil)
	frames := append([]frame.Frame{}, base.OrdTransforms...)
	tool, err := frame.FrameFromPoint("tool", r3.Vector{X: 0.03, Y: -0.02, Z: 0.05})
	test.That(t, err, test.ShouldBeNil)
	frames[len(frames)-1] = tool
	m, err := frame.NewSerialModel("off_axis_tool", frames)
	test.That(t, err, test.ShouldBeNil)
	solver, err := NewSolver(m, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)

	for _, q := range [][]float64{
		{0.3, 0.4, 0.9, -0.5, 0.7, 0.2},
		{-1.2, -0.3, 1.1, 2.0, -0.9, -2.5},
		{2.5, 0.8, -0.6, 0.1, 1.4, 1.0},
	} {
		inputs := frame.FloatsToInputs(q)
		pose, err := m.Transform(inputs)
		test.That(t, err, test.ShouldBeNil)
		solutions, err := solver.InversePose(pose)
		test.That(t, err, test.ShouldBeNil)
		found := false
		for _, sol := range solutions {
			found = found || anglesMatch(sol.Inputs, inputs, 1e-6)
		}
		test.That(t, found, test.ShouldBeTrue)
	}
}

func TestInverseUnreachable(t *testing.T) {
	solver := newTestSolver(t)
	for _, pt := range []r3.Vector{{X: 5}, {Z: 10}, {X: -3, Y: 3, Z: 1}} {
		solutions, err := solver.Inverse(pt, spatial.NewZeroOrientation().RotationMatrix())
		test.That(t, errors.Is(err, ErrUnreachable), test.ShouldBeTrue)
		test.That(t, solutions, test.ShouldBeNil)
	}
}

func TestInverseInvalidInput(t *testing.T) {
	solver := newTestSolver(t)
	_, err := solver.Inverse(r3.Vector{X: math.NaN()}, spatial.NewZeroOrientation().RotationMatrix())
	test.That(t, errors.Is(err, utils.ErrInvalidInput), test.ShouldBeTrue)
	_, err = solver.Inverse(r3.Vector{X: math.Inf(1)}, spatial.NewZeroOrientation().RotationMatrix())
	test.That(t, errors.Is(err, utils.ErrInvalidInput), test.ShouldBeTrue)
	_, err = solver.Inverse(r3.Vector{X: 0.5, Z: 1}, &spatial.RotationMatrix{})
	test.That(t, errors.Is(err, utils.ErrInvalidInput), test.ShouldBeTrue)
	_, err = solver.Inverse(r3.Vector{X: 0.5, Z: 1}, nil)
	test.That(t, errors.Is(err, utils.ErrInvalidInput), test.ShouldBeTrue)
	_, err = solver.InversePose(nil)
	test.That(t, errors.Is(err, utils.ErrInvalidInput), test.ShouldBeTrue)
}

func TestInverseRoundTrip(t *testing.T) {
	solver := newTestSolver(t)
	m := solver.Model()
	//nolint:gosec
	rnd := rand.New(rand.NewSource(1))

	tested := 0
	for tested < 200 {
		inputs := frame.RandomFrameInputs(m, rnd)
		if math.Abs(inputs[4].Value) < 0.05 {
			continue
		}
		tested++
		pose, err := m.Transform(inputs)
		test.That(t, err, test.ShouldBeNil)

		solutions, err := solver.InversePose(pose)
		if err != nil {
			test.That(t, errors.Is(err, ErrSingular), test.ShouldBeTrue)
		}
		test.That(t, len(solutions), test.ShouldBeGreaterThan, 0)
		test.That(t, len(solutions), test.ShouldBeLessThanOrEqualTo, 8)

		found := false
		for _, sol := range solutions {
			for _, v := range sol.Inputs {
				test.That(t, v.Value, test.ShouldBeGreaterThan, -math.Pi-1e-12)
				test.That(t, v.Value, test.ShouldBeLessThanOrEqualTo, math.Pi)
			}
			got, err := m.Transform(sol.Inputs)
			if err != nil {
				test.That(t, err.Error(), test.ShouldContainSubstring, frame.OOBErrString)
			}
			test.That(t, spatial.PoseAlmostEqualEps(got, pose, 1e-3), test.ShouldBeTrue)
			found = found || anglesMatch(sol.Inputs, inputs, 1e-6)
		}
		test.That(t, found, test.ShouldBeTrue)
	}
}

func TestInverseBranchOrder(t *testing.T) {
	solver := newTestSolver(t)
	inputs := frame.FloatsToInputs([]float64{0.3, 0.4, 0.9, -0.5, 0.7, 0.2})
	pose, err := solver.Model().Transform(inputs)
	test.That(t, err, test.ShouldBeNil)

	first, err := solver.InversePose(pose)
	test.That(t, err, test.ShouldBeNil)
	second, err := solver.InversePose(pose)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, second, test.ShouldResemble, first)

	key := func(b Branch) int { return -(4*b.Shoulder + 2*b.Elbow + b.Wrist) }
	for i := 1; i < len(first); i++ {
		test.That(t, key(first[i].Branch), test.ShouldBeGreaterThan, key(first[i-1].Branch))
	}
	test.That(t, len(SolutionInputs(first)), test.ShouldEqual, len(first))
	test.That(t, SolutionInputs(first)[0], test.ShouldResemble, first[0].Inputs)
}

func TestInverseLogsDroppedBranches(t *testing.T) {
	m, err := sixaxis.Model()
	test.That(t, err, test.ShouldBeNil)
	logger, logs := logging.NewObservedTestLogger(t)
	solver, err := NewSolver(m, logger)
	test.That(t, err, test.ShouldBeNil)

	pose, err := m.Transform(make([]frame.Input, 6))
	test.That(t, err, test.ShouldBeNil)
	_, err = solver.InversePose(pose)
	test.That(t, errors.Is(err, ErrSingular), test.ShouldBeTrue)
	test.That(t, logs.FilterMessage("shoulder branch cannot reach wrist centre").Len(), test.ShouldEqual, 1)
}
