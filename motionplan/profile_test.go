package motionplan

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestMinDuration(t *testing.T) {
	lim := Limit{MaxVelocity: 2, MaxAcceleration: 4}
	test.That(t, minDuration(0, lim), test.ShouldEqual, 0)
	// v^2/a = 1, so short moves never cruise
	test.That(t, minDuration(0.25, lim), test.ShouldAlmostEqual, 2*math.Sqrt(0.25/4))
	test.That(t, minDuration(1, lim), test.ShouldAlmostEqual, 1)
	test.That(t, minDuration(3, lim), test.ShouldAlmostEqual, 3./2+2./4)
}

func TestTrapezoid(t *testing.T) {
	lim := Limit{MaxVelocity: 2, MaxAcceleration: 4}
	for _, tc := range []struct {
		from, to, duration float64
	}{
		{0, 3, 2},
		{1, -2, 2},
		{0, 0.25, 0.5},
		{0, 0.25, 3},
	} {
		tr := newTrapezoid(tc.from, tc.to, tc.duration, lim)
		q, v, _ := tr.at(0)
		test.That(t, q, test.ShouldEqual, tc.from)
		test.That(t, v, test.ShouldEqual, 0)
		q, v, a := tr.at(tc.duration)
		test.That(t, q, test.ShouldEqual, tc.to)
		test.That(t, v, test.ShouldEqual, 0)
		test.That(t, a, test.ShouldEqual, 0)
		q, _, _ = tr.at(tc.duration / 2)
		test.That(t, q, test.ShouldAlmostEqual, (tc.from+tc.to)/2, 1e-9)
		test.That(t, tr.cruise, test.ShouldBeLessThanOrEqualTo, lim.MaxVelocity+1e-9)

		// positions are continuous across the phase changes
		prev := tc.from
		for i := 1; i <= 1000; i++ {
			q, v, a := tr.at(tc.duration * float64(i) / 1000)
			test.That(t, math.Abs(q-prev), test.ShouldBeLessThanOrEqualTo, lim.MaxVelocity*tc.duration/1000+1e-9)
			test.That(t, math.Abs(v), test.ShouldBeLessThanOrEqualTo, lim.MaxVelocity+1e-9)
			test.That(t, math.Abs(a), test.ShouldBeLessThanOrEqualTo, lim.MaxAcceleration)
			prev = q
		}
	}

	still := newTrapezoid(1, 1, 2, lim)
	q, v, a := still.at(1)
	test.That(t, q, test.ShouldEqual, 1)
	test.That(t, v, test.ShouldEqual, 0)
	test.That(t, a, test.ShouldEqual, 0)
}

func TestNewSegment(t *testing.T) {
	limits := Limits{{MaxVelocity: 1, MaxAcceleration: 1}, {MaxVelocity: 1, MaxAcceleration: 1}}
	seg := newSegment([]float64{0, 0}, []float64{2, -0.5}, 0.01, limits)
	// the first joint needs 2/1 + 1/1 = 3 seconds
	test.That(t, seg.steps, test.ShouldEqual, 300)
	for _, tr := range seg.joints {
		test.That(t, tr.duration, test.ShouldAlmostEqual, 3)
	}
	test.That(t, seg.joints[0].cruise, test.ShouldAlmostEqual, 1, 1e-9)
	test.That(t, seg.joints[1].cruise, test.ShouldBeLessThan, 1)

	seg = newSegment([]float64{0, 0}, []float64{0, 0}, 0.01, limits)
	test.That(t, seg.steps, test.ShouldEqual, 0)

	seg = newSegment([]float64{0, 0}, []float64{1e-12, 0}, 0.01, limits)
	test.That(t, seg.steps, test.ShouldEqual, 1)

	test.That(t, segmentAt([]int{0, 10, 25}, 0), test.ShouldEqual, 0)
	test.That(t, segmentAt([]int{0, 10, 25}, 9), test.ShouldEqual, 0)
	test.That(t, segmentAt([]int{0, 10, 25}, 10), test.ShouldEqual, 1)
	test.That(t, segmentAt([]int{0, 10, 25}, 30), test.ShouldEqual, 2)
}
