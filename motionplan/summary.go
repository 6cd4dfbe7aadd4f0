package motionplan

import (
	"math"

	"github.com/montanaflynn/stats"
	"github.com/samber/lo"
)

// Summary condenses a trajectory into per joint peaks.
type Summary struct {
	Duration float64
	Samples  int
	// PeakVelocity and PeakAcceleration are the largest magnitudes seen per joint.
	PeakVelocity     []float64
	PeakAcceleration []float64
	// MeanSpeed is the mean magnitude of each joint's velocity.
	MeanSpeed []float64
}

// Summary computes the trajectory's summary.
func (t *Trajectory) Summary() (Summary, error) {
	if len(t.Samples) == 0 {
		return Summary{}, ErrEmptyTrack
	}
	dof := len(t.Samples[0].Velocities)
	sum := Summary{
		Duration:         t.Duration(),
		Samples:          len(t.Samples),
		PeakVelocity:     make([]float64, dof),
		PeakAcceleration: make([]float64, dof),
		MeanSpeed:        make([]float64, dof),
	}
	for j := 0; j < dof; j++ {
		speeds := stats.Float64Data(lo.Map(t.Samples, func(s Sample, _ int) float64 { return math.Abs(s.Velocities[j]) }))
		accels := stats.Float64Data(lo.Map(t.Samples, func(s Sample, _ int) float64 { return math.Abs(s.Accelerations[j]) }))
		var err error
		if sum.PeakVelocity[j], err = speeds.Max(); err != nil {
			return Summary{}, err
		}
		if sum.MeanSpeed[j], err = speeds.Mean(); err != nil {
			return Summary{}, err
		}
		if sum.PeakAcceleration[j], err = accels.Max(); err != nil {
			return Summary{}, err
		}
	}
	return sum, nil
}

// WithinLimits reports whether no sample exceeds the trajectory's limits by more than tolerance.
func (s Summary) WithinLimits(limits Limits, tolerance float64) bool {
	if len(limits) != len(s.PeakVelocity) {
		return false
	}
	for j, lim := range limits {
		if s.PeakVelocity[j] > lim.MaxVelocity+tolerance || s.PeakAcceleration[j] > lim.MaxAcceleration+tolerance {
			return false
		}
	}
	return true
}
