package referenceframe

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/sixaxis/spatialmath"
	"go.viam.com/sixaxis/utils"
)

// DynamicLimit is the fastest a single joint may move: a speed in radians per second and an acceleration in
// radians per second squared.
type DynamicLimit struct {
	MaxVelocity     float64
	MaxAcceleration float64
}

// ChainPose is the result of walking a chain at one set of inputs.
type ChainPose struct {
	// Pose of the end effector in the base frame.
	Pose spatialmath.Pose
	// JointTransforms holds one homogeneous transform per joint, base outwards, followed by the end effector's.
	JointTransforms []mgl64.Mat4
	// JointPositions holds the origin of every joint frame and, last, the end effector position.
	JointPositions []r3.Vector
}

// Joint describes one revolute joint of a serial chain: the fixed pose from the previous joint frame to this
// one and the axis it rotates about, both expressed in the previous joint frame.
type Joint struct {
	Name   string
	Offset spatialmath.Pose
	Axis   r3.Vector
	Limit  Limit
}

// SimpleModel is a serial chain of frames, ordered from the base to the end effector.
// Generally speaking, a Joint will attach a Body to a Frame
// And a Fixed will attach a Frame to a Body
// Exceptions are the head of the tree where we are just starting the robot from World.
// A SimpleModel is not modified once built, so it may be shared between goroutines.
type SimpleModel struct {
	name string
	// OrdTransforms is the list of transforms ordered from base to end effector
	OrdTransforms []Frame
	limits        []Limit
	dynamics      []DynamicLimit
}

// NewSimpleModel constructs a new, empty model.
func NewSimpleModel(name string) *SimpleModel {
	return &SimpleModel{name: name}
}

// NewSerialModel assembles a model from frames ordered from the base outwards.
func NewSerialModel(name string, frames []Frame) (*SimpleModel, error) {
	if len(frames) == 0 {
		return nil, ErrNeedOneEndEffector
	}
	m := NewSimpleModel(name)
	m.setOrdTransforms(frames)
	return m, nil
}

func (m *SimpleModel) setOrdTransforms(frames []Frame) {
	m.OrdTransforms = frames
	m.limits = make([]Limit, 0, len(frames))
	for _, transform := range frames {
		m.limits = append(m.limits, transform.DoF()...)
	}
}

// Name returns the name of this model.
func (m *SimpleModel) Name() string {
	return m.name
}

// DoF returns the number of degrees of freedom within an arm.
func (m *SimpleModel) DoF() []Limit {
	return m.limits
}

// DynamicLimits returns the per joint velocity and acceleration limits the model was configured with, or nil
// if it was configured without any.
func (m *SimpleModel) DynamicLimits() []DynamicLimit {
	return m.dynamics
}

// Transform takes a model and a list of joint angles in radians and computes the dual quaternion representing the
// cartesian position of the end effector. Out of bounds inputs still produce a pose, together with an error
// containing OOBErrString.
func (m *SimpleModel) Transform(inputs []Input) (spatialmath.Pose, error) {
	chain, err := m.jointRadToQuats(inputs)
	if chain == nil {
		return nil, err
	}
	return chain.Pose, err
}

// Forward computes the pose of the end effector and the transform and origin of every joint for the given
// joint angles in radians. Angles outside the joint limits are not rejected; see CheckLimits. The only
// failures are malformed inputs: the wrong number of them, or non-finite values.
func (m *SimpleModel) Forward(inputs []Input) (*ChainPose, error) {
	chain, err := m.jointRadToQuats(inputs)
	if chain == nil {
		return nil, err
	}
	return chain, nil
}

// ForwardJointState is Forward for a full joint state. Velocities do not affect the pose.
func (m *SimpleModel) ForwardJointState(js JointState) (*ChainPose, error) {
	if err := js.Validate(len(m.limits)); err != nil {
		return nil, err
	}
	return m.Forward(js.Angles)
}

// CheckLimits returns an error describing every input outside its joint limit, or nil.
func (m *SimpleModel) CheckLimits(inputs []Input) error {
	if len(inputs) != len(m.limits) {
		return NewIncorrectDoFError(len(inputs), len(m.limits))
	}
	var errAll error
	for i, lim := range m.limits {
		if !lim.Contains(inputs[i].Value) {
			multierr.AppendInto(&errAll, errors.Errorf("joint %d value %.5f %s [%.5f, %.5f]", i, inputs[i].Value, OOBErrString, lim.Min, lim.Max))
		}
	}
	return errAll
}

// Joints flattens the chain into its revolute joints. Consecutive static frames are composed into the
// offset of the joint that follows them; the static frames after the last joint are returned as the tool
// offset.
func (m *SimpleModel) Joints() ([]Joint, spatialmath.Pose, error) {
	joints := make([]Joint, 0, len(m.limits))
	offset := spatialmath.NewZeroPose()
	for _, transform := range m.OrdTransforms {
		switch f := transform.(type) {
		case *staticFrame:
			offset = spatialmath.Compose(offset, f.transform)
		case *rotationalFrame:
			joints = append(joints, Joint{Name: f.name, Offset: offset, Axis: f.Axis(), Limit: f.limit[0]})
			offset = spatialmath.NewZeroPose()
		default:
			return nil, nil, errors.Errorf("frame %q of type %T is not a static or revolute frame", transform.Name(), transform)
		}
	}
	return joints, offset, nil
}

// jointRadToQuats takes a model and a list of joint angles in radians and computes the dual quaternion representing the
// cartesian position of each of the joints up to and including the end effector.
func (m *SimpleModel) jointRadToQuats(inputs []Input) (*ChainPose, error) {
	if len(inputs) != len(m.limits) {
		return nil, NewIncorrectDoFError(len(inputs), len(m.limits))
	}
	if !utils.AllFinite(InputsToFloats(inputs)...) {
		return nil, utils.NewInvalidInputError("inputs %v contain a non-finite value", InputsToFloats(inputs))
	}

	var errAll error
	chain := &ChainPose{
		JointTransforms: make([]mgl64.Mat4, 0, len(m.limits)+1),
		JointPositions:  make([]r3.Vector, 0, len(m.limits)+1),
	}
	// Start at ((1+0i+0j+0k)+(+0+0i+0j+0k)ϵ)
	composedTransformation := spatialmath.NewZeroPose()
	posIdx := 0
	// get quaternions from the base outwards.
	for _, transform := range m.OrdTransforms {
		dof := len(transform.DoF()) + posIdx
		input := inputs[posIdx:dof]
		posIdx = dof

		pose, err := transform.Transform(input)
		// Fail if inputs are incorrect and pose is nil, but allow querying out-of-bounds positions
		if pose == nil {
			return nil, err
		}
		multierr.AppendInto(&errAll, err)
		composedTransformation = spatialmath.Compose(composedTransformation, pose)
		if len(input) > 0 {
			chain.JointTransforms = append(chain.JointTransforms, spatialmath.PoseToHomogeneous(composedTransformation))
			chain.JointPositions = append(chain.JointPositions, composedTransformation.Point())
		}
	}
	chain.Pose = composedTransformation
	chain.JointTransforms = append(chain.JointTransforms, spatialmath.PoseToHomogeneous(composedTransformation))
	chain.JointPositions = append(chain.JointPositions, composedTransformation.Point())
	return chain, errAll
}

// AlmostEquals returns true if the only difference between this model and another is floating point inprecision.
func (m *SimpleModel) AlmostEquals(otherFrame Frame) bool {
	other, ok := otherFrame.(*SimpleModel)
	if !ok {
		return false
	}

	if m.name != other.name {
		return false
	}

	if len(m.OrdTransforms) != len(other.OrdTransforms) {
		return false
	}

	for idx, f := range m.OrdTransforms {
		if !f.AlmostEquals(other.OrdTransforms[idx]) {
			return false
		}
	}

	return true
}
