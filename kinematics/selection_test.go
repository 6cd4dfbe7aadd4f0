package kinematics

import (
	"errors"
	"testing"

	"go.viam.com/test"

	frame "go.viam.com/sixaxis/referenceframe"
	"go.viam.com/sixaxis/robots/sixaxis"
)

func testSolutions() []Solution {
	return []Solution{
		{Branch{1, 1, 1}, frame.FloatsToInputs([]float64{0, 0, 0, 0, 0, 0})},
		{Branch{1, -1, 1}, frame.FloatsToInputs([]float64{0, 0.1, -0.2, 0, 0.1, 0})},
		{Branch{-1, 1, 1}, frame.FloatsToInputs([]float64{3, 0.1, -0.2, 0, 0.1, 0})},
		{Branch{-1, 1, -1}, frame.FloatsToInputs([]float64{0, 0.1, -0.2, 0, 0.1, 0})},
	}
}

func TestFirstSolution(t *testing.T) {
	sol, err := FirstSolution{}.Select(testSolutions())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, sol.Branch, test.ShouldResemble, Branch{1, 1, 1})

	_, err = FirstSolution{}.Select(nil)
	test.That(t, errors.Is(err, ErrNoSolution), test.ShouldBeTrue)
}

func TestNearestSolution(t *testing.T) {
	current := frame.FloatsToInputs([]float64{2.9, 0.1, -0.2, 0, 0.1, 0})
	sol, err := NearestSolution{Current: current}.Select(testSolutions())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, sol.Branch, test.ShouldResemble, Branch{-1, 1, 1})

	// equal distances keep the earlier solution
	current = frame.FloatsToInputs([]float64{0, 0.1, -0.2, 0, 0.1, 0})
	sol, err = NearestSolution{Current: current}.Select(testSolutions())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, sol.Branch, test.ShouldResemble, Branch{1, -1, 1})

	_, err = NearestSolution{Current: current}.Select(nil)
	test.That(t, errors.Is(err, ErrNoSolution), test.ShouldBeTrue)
	_, err = NearestSolution{Current: current[:3]}.Select(testSolutions())
	test.That(t, errors.Is(err, ErrNoSolution), test.ShouldBeTrue)
}

func TestWithinLimits(t *testing.T) {
	m, err := sixaxis.Model()
	test.That(t, err, test.ShouldBeNil)

	// a waist of 3 radians is past the 170 degree limit
	sols := testSolutions()
	sol, err := WithinLimits{Model: m, Next: NearestSolution{Current: sols[2].Inputs}}.Select(sols)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, sol.Branch, test.ShouldResemble, Branch{1, -1, 1})

	sol, err = WithinLimits{Model: m}.Select(sols[1:])
	test.That(t, err, test.ShouldBeNil)
	test.That(t, sol.Branch, test.ShouldResemble, Branch{1, -1, 1})

	_, err = WithinLimits{Model: m}.Select(sols[2:3])
	test.That(t, errors.Is(err, ErrNoSolution), test.ShouldBeTrue)
}

func TestSelectFromInverse(t *testing.T) {
	solver := newTestSolver(t)
	inputs := frame.FloatsToInputs([]float64{0.3, 0.4, 0.9, -0.5, 0.7, 0.2})
	pose, err := solver.Model().Transform(inputs)
	test.That(t, err, test.ShouldBeNil)
	solutions, err := solver.InversePose(pose)
	test.That(t, err, test.ShouldBeNil)

	nearby := frame.FloatsToInputs([]float64{0.31, 0.39, 0.91, -0.5, 0.69, 0.2})
	sol, err := WithinLimits{Model: solver.Model(), Next: NearestSolution{Current: nearby}}.Select(solutions)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, anglesMatch(sol.Inputs, inputs, 1e-6), test.ShouldBeTrue)
}
