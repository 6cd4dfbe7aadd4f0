package kinematics

import (
	"math"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/sixaxis/referenceframe"
)

// A SelectionPolicy picks one solution out of those returned by Inverse.
type SelectionPolicy interface {
	Select(solutions []Solution) (Solution, error)
}

// FirstSolution picks the first solution in enumeration order.
type FirstSolution struct{}

// Select returns the first solution.
func (FirstSolution) Select(solutions []Solution) (Solution, error) {
	if len(solutions) == 0 {
		return Solution{}, ErrNoSolution
	}
	return solutions[0], nil
}

// NearestSolution picks the solution with the smallest L2 joint distance from Current. Ties go to the earlier
// solution.
type NearestSolution struct {
	Current []referenceframe.Input
}

// Select returns the solution closest to Current.
func (p NearestSolution) Select(solutions []Solution) (Solution, error) {
	best, bestDist := -1, math.Inf(1)
	for i, sol := range solutions {
		if dist := referenceframe.InputsL2Distance(p.Current, sol.Inputs); dist < bestDist {
			best, bestDist = i, dist
		}
	}
	if best < 0 {
		return Solution{}, errors.Wrapf(ErrNoSolution, "no solution has %d joints", len(p.Current))
	}
	return solutions[best], nil
}

// WithinLimits discards solutions outside the joint limits of Model and lets Next choose among the rest.
// A nil Next behaves as FirstSolution.
type WithinLimits struct {
	Model referenceframe.Frame
	Next  SelectionPolicy
}

// Select filters by joint limits and delegates.
func (p WithinLimits) Select(solutions []Solution) (Solution, error) {
	limits := p.Model.DoF()
	inside := lo.Filter(solutions, func(sol Solution, _ int) bool {
		if len(sol.Inputs) != len(limits) {
			return false
		}
		return lo.EveryBy(lo.Range(len(limits)), func(i int) bool {
			return limits[i].Contains(sol.Inputs[i].Value)
		})
	})
	if len(inside) == 0 {
		return Solution{}, errors.Wrapf(ErrNoSolution, "all %d solutions are outside the joint limits", len(solutions))
	}
	var next SelectionPolicy = FirstSolution{}
	if p.Next != nil {
		next = p.Next
	}
	return next.Select(inside)
}
