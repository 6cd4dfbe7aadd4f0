package motionplan

import (
	"math"

	"go.viam.com/sixaxis/utils"
)

// stepEpsilon absorbs rounding when a duration is an exact multiple of the step.
const stepEpsilon = 1e-9

// trapezoid is the rest to rest motion of a single joint over one segment: constant acceleration up to a
// cruise speed, a cruise, and a symmetric deceleration.
type trapezoid struct {
	from, to float64
	// sign is the direction of travel, +1 or -1.
	sign float64
	// accel is the magnitude of the acceleration during the ramps.
	accel float64
	// cruise is the top speed, reached at rampTime.
	cruise   float64
	rampTime float64
	duration float64
}

// minDuration is the shortest rest to rest time covering distance under the given limits.
func minDuration(distance float64, limit Limit) float64 {
	if distance <= 0 {
		return 0
	}
	v, a := limit.MaxVelocity, limit.MaxAcceleration
	if distance <= utils.Square(v)/a {
		// never reaches v before it has to brake
		return 2 * math.Sqrt(distance/a)
	}
	return distance/v + v/a
}

// newTrapezoid stretches the motion from q0 to q1 over exactly duration, which must be at least the joint's
// minDuration. The ramps keep the full acceleration and the cruise speed drops to fit.
func newTrapezoid(q0, q1, duration float64, limit Limit) trapezoid {
	tr := trapezoid{from: q0, to: q1, sign: 1, accel: limit.MaxAcceleration, duration: duration}
	distance := q1 - q0
	if distance < 0 {
		tr.sign = -1
		distance = -distance
	}
	if distance == 0 || duration == 0 {
		return tr
	}
	a := tr.accel
	tr.cruise = (a*duration - math.Sqrt(math.Max(0, utils.Square(a*duration)-4*a*distance))) / 2
	tr.rampTime = tr.cruise / a
	return tr
}

// at returns position, velocity and acceleration t seconds into the segment.
func (tr trapezoid) at(t float64) (float64, float64, float64) {
	if tr.cruise == 0 {
		if t >= tr.duration {
			return tr.to, 0, 0
		}
		return tr.from, 0, 0
	}
	switch {
	case t <= 0:
		return tr.from, 0, tr.sign * tr.accel
	case t < tr.rampTime:
		return tr.from + tr.sign*0.5*tr.accel*t*t, tr.sign * tr.accel * t, tr.sign * tr.accel
	case t < tr.duration-tr.rampTime:
		ramp := 0.5 * tr.accel * tr.rampTime * tr.rampTime
		return tr.from + tr.sign*(ramp+tr.cruise*(t-tr.rampTime)), tr.sign * tr.cruise, 0
	case t < tr.duration:
		left := tr.duration - t
		return tr.to - tr.sign*0.5*tr.accel*left*left, tr.sign * tr.accel * left, -tr.sign * tr.accel
	default:
		return tr.to, 0, 0
	}
}

// segment moves every joint from one waypoint to the next, all starting and stopping together.
type segment struct {
	steps  int
	joints []trapezoid
}

// newSegment plans one waypoint to waypoint move. The duration is that of the slowest joint rounded up to a
// whole number of steps. It returns zero steps if no joint moves.
func newSegment(q0, q1 []float64, dt float64, limits Limits) segment {
	longest := 0.
	for i := range q0 {
		longest = math.Max(longest, minDuration(math.Abs(q1[i]-q0[i]), limits[i]))
	}
	steps := int(math.Ceil(longest/dt - stepEpsilon))
	if steps == 0 && longest > 0 {
		steps = 1
	}
	seg := segment{steps: steps, joints: make([]trapezoid, len(q0))}
	duration := float64(steps) * dt
	for i := range q0 {
		seg.joints[i] = newTrapezoid(q0[i], q1[i], duration, limits[i])
	}
	return seg
}
