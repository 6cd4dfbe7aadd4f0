// Package kinematics solves the inverse kinematics of six axis arms with a spherical wrist in closed form.
package kinematics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/samber/lo"

	"go.viam.com/sixaxis/logging"
	"go.viam.com/sixaxis/referenceframe"
	"go.viam.com/sixaxis/spatialmath"
	"go.viam.com/sixaxis/utils"
)

const (
	// reachEpsilon is how far past full extension a target may sit and still be treated as reachable.
	reachEpsilon = 1e-9
	// extensionEpsilon is how close to full extension or full fold the elbow must be to count as singular.
	extensionEpsilon = 1e-12
	// singularEpsilon is the distance below which the wrist centre is treated as on the waist axis, and the
	// sine of the wrist pitch below which the wrist is treated as straight.
	singularEpsilon = 1e-9
	// verifyEpsilon bounds the position and rotation matrix error of an accepted solution.
	verifyEpsilon = 1e-6
)

// Branch identifies one of the up to eight configurations reaching a pose. Each field is +1 or -1.
type Branch struct {
	// Shoulder is +1 when the waist faces the wrist centre and -1 when the arm reaches back over itself.
	Shoulder int
	// Elbow is +1 for the elbow angle psi + acos(c) and -1 for psi - acos(c).
	Elbow int
	// Wrist is +1 for a non negative wrist pitch and -1 for the flipped wrist.
	Wrist int
}

// Solution is one set of joint angles, in radians and wrapped to (-pi, pi], reaching the requested pose.
type Solution struct {
	Branch
	Inputs []referenceframe.Input
}

// Solver computes every inverse kinematics solution of a six axis arm with a spherical wrist.
// A Solver is immutable and may be used from several goroutines at once.
type Solver struct {
	model  *referenceframe.SimpleModel
	geom   *wristGeometry
	logger logging.Logger
}

// NewSolver builds a Solver for the given model, failing with ErrUnsupportedGeometry if the model does not
// have six revolute joints about Z, Y, Y, Z, Y, Z with a planar arm and a spherical wrist.
func NewSolver(model *referenceframe.SimpleModel, logger logging.Logger) (*Solver, error) {
	if model == nil {
		return nil, NewUnsupportedGeometryError("no model")
	}
	geom, err := newWristGeometry(model)
	if err != nil {
		return nil, err
	}
	return &Solver{model: model, geom: geom, logger: logger}, nil
}

// Model returns the model the solver was built for.
func (s *Solver) Model() *referenceframe.SimpleModel {
	return s.model
}

// InversePose is Inverse for a pose.
func (s *Solver) InversePose(pose spatialmath.Pose) ([]Solution, error) {
	if pose == nil {
		return nil, utils.NewInvalidInputError("no pose")
	}
	return s.Inverse(pose.Point(), pose.Orientation().RotationMatrix())
}

// Inverse returns every joint configuration placing the end effector at position with the given orientation.
// Solutions are ordered by shoulder, then elbow, then wrist branch, +1 before -1, and each one has been checked
// with forward kinematics. Joint limits are not applied; see WithinLimits.
//
// If the pose is singular the solutions that remain are returned together with an error wrapping ErrSingular.
// If no solution exists the error wraps ErrUnreachable.
func (s *Solver) Inverse(position r3.Vector, orientation *spatialmath.RotationMatrix) ([]Solution, error) {
	if !utils.AllFinite(position.X, position.Y, position.Z) {
		return nil, utils.NewInvalidInputError("position %v is not finite", position)
	}
	if orientation == nil {
		return nil, utils.NewInvalidInputError("no orientation")
	}
	if err := orientation.Validate(); err != nil {
		return nil, err
	}
	g := s.geom

	r06 := toMat3(orientation).Mul3(g.toolInv)
	centre := r06.Mul3x1(g.flange)
	w := position.Sub(r3.Vector{X: centre[0], Y: centre[1], Z: centre[2]}).Sub(g.base)

	var singular []string
	candidates := make([]Solution, 0, 8)

	type shoulderBranch struct {
		sign  int
		theta float64
		reach float64
	}
	var shoulders []shoulderBranch
	if r := math.Hypot(w.X, w.Y); r < singularEpsilon {
		singular = append(singular, "shoulder")
		shoulders = []shoulderBranch{{sign: 1, theta: 0, reach: 0}}
	} else {
		front := math.Atan2(w.Y, w.X)
		shoulders = []shoulderBranch{
			{sign: 1, theta: front, reach: r},
			{sign: -1, theta: utils.WrapRad(front + math.Pi), reach: -r},
		}
	}

	for _, sh := range shoulders {
		ux, uz := sh.reach-g.shoulder.X, w.Z-g.shoulder.Z
		c := ((ux*ux + uz*uz - g.upperArmSq - g.forearmSq) / 2) / g.elbowRho
		if math.Abs(c) > 1+reachEpsilon {
			s.logger.Debugw("shoulder branch cannot reach wrist centre", "shoulder", sh.sign, "cos", c)
			continue
		}
		elbows := []int{1, -1}
		if math.Abs(c) > 1-extensionEpsilon {
			singular = append(singular, "elbow")
			c = utils.Clamp(c, -1, 1)
			elbows = elbows[:1]
		}
		for _, elbow := range elbows {
			theta3 := utils.WrapRad(g.elbowPsi + float64(elbow)*math.Acos(c))
			s3, c3 := math.Sincos(theta3)
			gx := g.upperArm.X + c3*g.forearm.X + s3*g.forearm.Z
			gz := g.upperArm.Z - s3*g.forearm.X + c3*g.forearm.Z
			theta2 := 0.
			if math.Hypot(ux, uz) < singularEpsilon {
				singular = append(singular, "elbow")
			} else {
				theta2 = utils.WrapRad(math.Atan2(gz, gx) - math.Atan2(uz, ux))
			}

			r03 := axisRotation(sh.theta, spatialmath.Z()).Mul3(axisRotation(theta2+theta3, spatialmath.Y()))
			wrists, straight := solveWrist(r03.Transpose().Mul3(r06))
			if straight {
				singular = append(singular, "wrist")
			}
			for i, wrist := range wrists {
				candidates = append(candidates, Solution{
					Branch: Branch{Shoulder: sh.sign, Elbow: elbow, Wrist: 1 - 2*i},
					Inputs: referenceframe.FloatsToInputs([]float64{sh.theta, theta2, theta3, wrist[0], wrist[1], wrist[2]}),
				})
			}
		}
	}

	target := spatialmath.NewPose(position, orientation)
	solutions := lo.Filter(candidates, func(sol Solution, _ int) bool {
		return s.verify(sol, target)
	})
	if len(solutions) == 0 {
		return nil, NewUnreachableError(position, len(candidates))
	}
	if len(singular) > 0 {
		return solutions, NewSingularError(lo.Uniq(singular))
	}
	return solutions, nil
}

// solveWrist decomposes the wrist rotation m = Rz(q4) Ry(q5) Rz(q6) into its two branches. When the wrist is
// straight only one branch exists; q4 is fixed at zero and q6 carries the whole roll.
func solveWrist(m mgl64.Mat3) ([][3]float64, bool) {
	sb := math.Hypot(m.At(0, 2), m.At(1, 2))
	if sb < singularEpsilon {
		pitch := 0.
		if m.At(2, 2) < 0 {
			pitch = math.Pi
		}
		return [][3]float64{{0, pitch, math.Atan2(m.At(1, 0), m.At(1, 1))}}, true
	}
	q4 := math.Atan2(m.At(1, 2), m.At(0, 2))
	q5 := math.Atan2(sb, m.At(2, 2))
	q6 := math.Atan2(m.At(2, 1), -m.At(2, 0))
	return [][3]float64{
		{q4, q5, q6},
		{utils.WrapRad(q4 + math.Pi), -q5, utils.WrapRad(q6 + math.Pi)},
	}, false
}

// verify runs a candidate back through forward kinematics. Limit violations do not matter here.
func (s *Solver) verify(sol Solution, target spatialmath.Pose) bool {
	chain, err := s.model.Forward(sol.Inputs)
	if err != nil {
		s.logger.Debugw("dropping candidate", "branch", sol.Branch, "error", err)
		return false
	}
	if !spatialmath.PoseAlmostEqualEps(chain.Pose, target, verifyEpsilon) {
		s.logger.Debugw("dropping candidate that misses the target",
			"branch", sol.Branch,
			"inputs", referenceframe.InputsToFloats(sol.Inputs),
			"position_error", chain.Pose.Point().Distance(target.Point()),
		)
		return false
	}
	return true
}

// SolutionInputs strips the branch labels from a list of solutions.
func SolutionInputs(solutions []Solution) [][]referenceframe.Input {
	return lo.Map(solutions, func(sol Solution, _ int) []referenceframe.Input {
		return sol.Inputs
	})
}
