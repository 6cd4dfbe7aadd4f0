// Package arm holds the current point of an arm: one joint state and the end effector pose it produces,
// kept consistent through forward and inverse kinematics.
package arm

import (
	"sync"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/sixaxis/kinematics"
	"go.viam.com/sixaxis/logging"
	"go.viam.com/sixaxis/referenceframe"
	"go.viam.com/sixaxis/spatialmath"
	"go.viam.com/sixaxis/utils"
)

// Point is the current point of an arm. Setting joints updates the pose by forward kinematics; setting a
// pose updates the joints by inverse kinematics and a selection policy. A failed update leaves the point
// as it was. Getters return copies. A Point is safe for concurrent use.
type Point struct {
	mu     sync.Mutex
	solver *kinematics.Solver
	policy kinematics.SelectionPolicy
	logger logging.Logger

	state  referenceframe.JointState
	pose   spatialmath.Pose
	joints []r3.Vector
}

// NewPoint returns a Point at the home configuration, all joints at zero. If policy is nil, SetPose picks
// the solution within joint limits that is nearest to the current joints.
func NewPoint(solver *kinematics.Solver, policy kinematics.SelectionPolicy, logger logging.Logger) (*Point, error) {
	p := &Point{solver: solver, policy: policy, logger: logger}
	home := make([]referenceframe.Input, len(solver.Model().DoF()))
	if err := p.SetInputs(home); err != nil {
		return nil, err
	}
	return p, nil
}

// SetInputs moves the point to the given joint angles in radians.
func (p *Point) SetInputs(inputs []referenceframe.Input) error {
	return p.SetJointState(referenceframe.NewJointState(inputs))
}

// SetDegrees moves the point to the given joint angles in degrees.
func (p *Point) SetDegrees(degrees []float64) error {
	return p.SetInputs(referenceframe.FloatsToInputs(utils.DegsToRads(degrees)))
}

// SetJointState moves the point to a joint state. Velocities are stored but do not affect the pose.
func (p *Point) SetJointState(js referenceframe.JointState) error {
	chain, err := p.solver.Model().ForwardJointState(js)
	if err != nil {
		return err
	}
	state := referenceframe.JointState{
		Angles:     append([]referenceframe.Input{}, js.Angles...),
		Velocities: make([]float64, len(js.Angles)),
	}
	copy(state.Velocities, js.Velocities)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = state
	p.pose = chain.Pose
	p.joints = chain.JointPositions
	return nil
}

// SetPose moves the point so the end effector reaches pose, returning the solution chosen. If the pose is
// singular the point still moves and the returned error wraps kinematics.ErrSingular. Any other error leaves
// the point unchanged.
func (p *Point) SetPose(pose spatialmath.Pose) (kinematics.Solution, error) {
	solutions, ikErr := p.solver.InversePose(pose)
	if ikErr != nil && !errors.Is(ikErr, kinematics.ErrSingular) {
		return kinematics.Solution{}, ikErr
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	policy := p.policy
	if policy == nil {
		policy = kinematics.WithinLimits{
			Model: p.solver.Model(),
			Next:  kinematics.NearestSolution{Current: p.state.Angles},
		}
	}
	chosen, err := policy.Select(solutions)
	if err != nil {
		return kinematics.Solution{}, err
	}
	chain, err := p.solver.Model().Forward(chosen.Inputs)
	if err != nil {
		return kinematics.Solution{}, err
	}
	if ikErr != nil {
		p.logger.Debugw("moved to singular pose", "pose", spatialmath.PrettyPrint(pose), "error", ikErr)
	}
	p.state = referenceframe.NewJointState(append([]referenceframe.Input{}, chosen.Inputs...))
	p.pose = chain.Pose
	p.joints = chain.JointPositions
	return chosen, ikErr
}

// Inputs returns the joint angles in radians.
func (p *Point) Inputs() []referenceframe.Input {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]referenceframe.Input{}, p.state.Angles...)
}

// Degrees returns the joint angles in degrees.
func (p *Point) Degrees() []float64 {
	return utils.RadsToDegs(referenceframe.InputsToFloats(p.Inputs()))
}

// JointState returns the joint angles and velocities.
func (p *Point) JointState() referenceframe.JointState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return referenceframe.JointState{
		Angles:     append([]referenceframe.Input{}, p.state.Angles...),
		Velocities: append([]float64{}, p.state.Velocities...),
	}
}

// Pose returns the end effector pose. Poses are immutable so it is shared.
func (p *Point) Pose() spatialmath.Pose {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pose
}

// JointPositions returns the origin of every joint frame followed by the end effector position.
func (p *Point) JointPositions() []r3.Vector {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]r3.Vector{}, p.joints...)
}
