package motionplan

import (
	"encoding/csv"
	"io"
	"math"
	"math/rand"
	"strconv"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/sixaxis/referenceframe"
	"go.viam.com/sixaxis/utils"
)

// Track is an ordered list of joint waypoints, in radians. The arm visits them in order.
type Track [][]referenceframe.Input

// Validate checks that every waypoint has dof finite values.
func (t Track) Validate(dof int) error {
	for i, wp := range t {
		if len(wp) != dof {
			return NewWaypointDoFError(i, len(wp), dof)
		}
		if !utils.AllFinite(referenceframe.InputsToFloats(wp)...) {
			return utils.NewInvalidInputError("waypoint %d has a non-finite value", i)
		}
	}
	return nil
}

// Floats returns the waypoints as raw floats.
func (t Track) Floats() [][]float64 {
	return lo.Map(t, func(wp []referenceframe.Input, _ int) []float64 {
		return referenceframe.InputsToFloats(wp)
	})
}

// ReadTrack reads a track written by WriteTrack: one waypoint per row, one column per joint in radians, and
// no header.
func ReadTrack(r io.Reader) (Track, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "cannot read track")
	}
	track := make(Track, 0, len(rows))
	for i, row := range rows {
		wp := make([]referenceframe.Input, len(row))
		for j, field := range row {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, utils.NewInvalidInputError("track row %d column %d: %v", i+1, j+1, err)
			}
			wp[j] = referenceframe.Input{Value: v}
		}
		track = append(track, wp)
	}
	return track, nil
}

// WriteTrack writes a track as CSV, one waypoint per row.
func WriteTrack(w io.Writer, track Track) error {
	writer := csv.NewWriter(w)
	for _, wp := range track {
		if err := writer.Write(formatFloats(referenceframe.InputsToFloats(wp))); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// RandomTrackGenerator draws waypoints uniformly within joint limits from its own random source.
// It is not safe for concurrent use.
type RandomTrackGenerator struct {
	limits []referenceframe.Limit
	rnd    *rand.Rand
}

// NewRandomTrackGenerator returns a generator for the given joint limits. The same seed always produces the
// same tracks.
func NewRandomTrackGenerator(limits []referenceframe.Limit, seed int64) *RandomTrackGenerator {
	//nolint:gosec
	return &RandomTrackGenerator{limits: limits, rnd: rand.New(rand.NewSource(seed))}
}

// Generate returns n random waypoints. Reachability is not checked beyond the joint limits.
func (g *RandomTrackGenerator) Generate(n int) (Track, error) {
	if n < 0 {
		return nil, utils.NewInvalidInputError("cannot generate %d waypoints", n)
	}
	for i, lim := range g.limits {
		if math.IsNaN(lim.Min) || math.IsNaN(lim.Max) || lim.Min > lim.Max {
			return nil, utils.NewInvalidInputError("joint %d has unusable limit %v", i, lim)
		}
	}
	track := make(Track, n)
	for i := range track {
		track[i] = referenceframe.RandomInputsWithinLimits(g.limits, g.rnd)
	}
	return track, nil
}

func formatFloats(values []float64) []string {
	return lo.Map(values, func(v float64, _ int) string {
		return strconv.FormatFloat(v, 'g', -1, 64)
	})
}
