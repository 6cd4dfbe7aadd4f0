package referenceframe

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"go.viam.com/sixaxis/utils"
)

// Input wraps the input to a mutable frame, e.g. a joint angle. Revolute inputs are in radians.
type Input struct {
	Value float64
}

// JointState is a snapshot of every joint of a chain: angles in radians and angular velocities in radians
// per second, both ordered from the base outwards.
type JointState struct {
	Angles     []Input
	Velocities []float64
}

// NewJointState returns a JointState at rest at the given angles.
func NewJointState(angles []Input) JointState {
	return JointState{Angles: angles, Velocities: make([]float64, len(angles))}
}

// Validate checks that the state describes dof joints with finite values.
func (js JointState) Validate(dof int) error {
	if len(js.Angles) != dof {
		return NewIncorrectDoFError(len(js.Angles), dof)
	}
	if js.Velocities != nil && len(js.Velocities) != dof {
		return utils.NewInvalidInputError("joint state has %d velocities for %d joints", len(js.Velocities), dof)
	}
	if !utils.AllFinite(InputsToFloats(js.Angles)...) || !utils.AllFinite(js.Velocities...) {
		return utils.NewInvalidInputError("joint state %v has a non-finite value", js)
	}
	return nil
}

// FloatsToInputs wraps a slice of floats in Inputs.
func FloatsToInputs(floats []float64) []Input {
	inputs := make([]Input, len(floats))
	for i, f := range floats {
		inputs[i] = Input{f}
	}
	return inputs
}

// InputsToFloats unwraps Inputs to raw floats.
func InputsToFloats(inputs []Input) []float64 {
	floats := make([]float64, len(inputs))
	for i, f := range inputs {
		floats[i] = f.Value
	}
	return floats
}

// InputsL2Distance returns the two-norm (the sqrt of the sum of the squares) between two Input sets.
func InputsL2Distance(from, to []Input) float64 {
	if len(from) != len(to) {
		return math.Inf(1)
	}
	diff := make([]float64, 0, len(from))
	for i, f := range from {
		diff = append(diff, f.Value-to[i].Value)
	}
	// 2 is the L value returning a standard L2 Normalization
	return floats.Norm(diff, 2)
}
