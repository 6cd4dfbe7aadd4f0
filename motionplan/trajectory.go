// Package motionplan turns a track of joint waypoints into a densely sampled, time stamped trajectory that
// respects per joint velocity and acceleration limits.
package motionplan

import (
	"context"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/sixaxis/logging"
	"go.viam.com/sixaxis/referenceframe"
	"go.viam.com/sixaxis/spatialmath"
	"go.viam.com/sixaxis/utils"
)

// DefaultStep is the control period, in seconds, trajectories are usually sampled at.
const DefaultStep = 0.01

// Limit is the velocity and acceleration bound of one joint.
type Limit = referenceframe.DynamicLimit

// Limits holds one Limit per joint, base outwards.
type Limits []Limit

// LimitsFromModel returns the dynamic limits stored with a model.
func LimitsFromModel(model *referenceframe.SimpleModel) (Limits, error) {
	limits := model.DynamicLimits()
	if len(limits) == 0 {
		return nil, utils.NewInvalidInputError("model %q has no velocity or acceleration limits", model.Name())
	}
	return Limits(limits), nil
}

// Validate checks that there is one positive, finite limit pair per joint.
func (l Limits) Validate(dof int) error {
	if len(l) != dof {
		return utils.NewInvalidInputError("have %d dynamic limits for %d joints", len(l), dof)
	}
	for i, lim := range l {
		if !utils.AllFinite(lim.MaxVelocity, lim.MaxAcceleration) || lim.MaxVelocity <= 0 || lim.MaxAcceleration <= 0 {
			return NewBadLimitsError(i, lim)
		}
	}
	return nil
}

// ForwardSolver is the part of a kinematic model the planner needs.
type ForwardSolver interface {
	Name() string
	DoF() []referenceframe.Limit
	Forward(inputs []referenceframe.Input) (*referenceframe.ChainPose, error)
}

// Sample is the state of the arm at one instant of a trajectory.
type Sample struct {
	// Time in seconds since the start of the trajectory.
	Time          float64
	Positions     []referenceframe.Input
	Velocities    []float64
	Accelerations []float64
	// Pose of the end effector, from forward kinematics on Positions.
	Pose spatialmath.Pose
	// Quaternion is the orientation of Pose, scalar first with a non negative real part.
	Quaternion quat.Number
	// JointPositions holds the origin of every joint and, last, the end effector.
	JointPositions []r3.Vector
}

// Trajectory is a motion sampled every Step seconds. Its first and last samples are at rest.
type Trajectory struct {
	Model   string
	Step    float64
	Limits  Limits
	Samples []Sample
}

// Duration returns the time of the last sample.
func (t *Trajectory) Duration() float64 {
	if len(t.Samples) == 0 {
		return 0
	}
	return t.Samples[len(t.Samples)-1].Time
}

// Plan samples a stop and go motion through every waypoint of track at intervals of dt seconds.
//
// Each move between consecutive waypoints is a synchronized trapezoid: its duration is the shortest the
// slowest joint allows under limits, rounded up to a whole number of steps, and every other joint is slowed
// to start and stop with it. Forward kinematics for the samples runs concurrently. The result does not
// depend on scheduling.
func Plan(model ForwardSolver, track Track, dt float64, limits Limits, logger logging.Logger) (*Trajectory, error) {
	if len(track) == 0 {
		return nil, ErrEmptyTrack
	}
	if !utils.AllFinite(dt) || dt <= 0 {
		return nil, utils.NewInvalidInputError("step %v is not a positive duration", dt)
	}
	dof := len(model.DoF())
	if err := limits.Validate(dof); err != nil {
		return nil, err
	}
	if err := track.Validate(dof); err != nil {
		return nil, err
	}

	waypoints := track.Floats()
	segments := make([]segment, 0, len(waypoints)-1)
	// first sample index of every kept segment
	offsets := make([]int, 0, len(waypoints)-1)
	total := 0
	for i := 1; i < len(waypoints); i++ {
		seg := newSegment(waypoints[i-1], waypoints[i], dt, limits)
		if seg.steps == 0 {
			logger.Debugw("skipping zero length segment", "waypoint", i)
			continue
		}
		segments = append(segments, seg)
		offsets = append(offsets, total)
		total += seg.steps
	}

	samples := make([]Sample, total+1)
	err := utils.GroupWorkParallel(context.Background(), len(samples), func(ctx context.Context, i int) error {
		sample := Sample{
			Time:          float64(i) * dt,
			Positions:     make([]referenceframe.Input, dof),
			Velocities:    make([]float64, dof),
			Accelerations: make([]float64, dof),
		}
		switch {
		case len(segments) == 0:
			copy(sample.Positions, referenceframe.FloatsToInputs(waypoints[0]))
		case i == total:
			copy(sample.Positions, referenceframe.FloatsToInputs(waypoints[len(waypoints)-1]))
		default:
			k := segmentAt(offsets, i)
			t := float64(i-offsets[k]) * dt
			for j, tr := range segments[k].joints {
				sample.Positions[j].Value, sample.Velocities[j], sample.Accelerations[j] = tr.at(t)
			}
		}

		chain, err := model.Forward(sample.Positions)
		if err != nil {
			return errors.Wrapf(err, "forward kinematics failed at sample %d", i)
		}
		sample.Pose = chain.Pose
		sample.JointPositions = chain.JointPositions
		sample.Quaternion, err = spatialmath.MatrixToQuaternion(chain.Pose.Orientation().RotationMatrix())
		if err != nil {
			return errors.Wrapf(err, "sample %d", i)
		}
		samples[i] = sample
		return nil
	})
	if err != nil {
		return nil, err
	}

	traj := &Trajectory{Model: model.Name(), Step: dt, Limits: limits, Samples: samples}
	logger.Debugw("planned trajectory",
		"waypoints", len(waypoints),
		"segments", len(segments),
		"samples", len(samples),
		"duration", traj.Duration(),
	)
	return traj, nil
}

// segmentAt finds the segment that sample i belongs to. Offsets are strictly increasing.
func segmentAt(offsets []int, i int) int {
	lo, hi := 0, len(offsets)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if offsets[mid] <= i {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}
