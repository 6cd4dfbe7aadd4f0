package motionplan

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/sixaxis/referenceframe"
	"go.viam.com/sixaxis/utils"
)

// Column layout of the artifacts, as documented for this package's CSV output. It is not the layout of any
// other tool's files.
const (
	// profile: time, then positions, velocities and accelerations of each joint
	profileTimeCol  = 0
	profileQCol     = 1
	profileDQCol    = 7
	profileDDQCol   = 13
	profileColCount = 19

	// trajectory: time, joint angles, seven joint origins (the last is the end effector), orientation
	trajTimeCol  = 0
	trajQCol     = 1
	trajPointCol = 7
	trajQuatCol  = 28
	trajColCount = 32

	artifactJoints = 6
	artifactPoints = 7
)

// ProfileHeader returns the header row of the profile artifact.
func ProfileHeader() []string {
	header := make([]string, profileColCount)
	header[profileTimeCol] = "time"
	for j := 0; j < artifactJoints; j++ {
		header[profileQCol+j] = fmt.Sprintf("q%d", j+1)
		header[profileDQCol+j] = fmt.Sprintf("dq%d", j+1)
		header[profileDDQCol+j] = fmt.Sprintf("ddq%d", j+1)
	}
	return header
}

// TrajectoryHeader returns the header row of the trajectory artifact.
func TrajectoryHeader() []string {
	header := make([]string, trajColCount)
	header[trajTimeCol] = "time"
	for j := 0; j < artifactJoints; j++ {
		header[trajQCol+j] = fmt.Sprintf("q%d", j+1)
	}
	for p := 0; p < artifactPoints; p++ {
		for c, axis := range []string{"x", "y", "z"} {
			header[trajPointCol+3*p+c] = fmt.Sprintf("p%d%s", p+1, axis)
		}
	}
	copy(header[trajQuatCol:], []string{"qw", "qx", "qy", "qz"})
	return header
}

func checkShape(traj *Trajectory) error {
	if traj == nil || len(traj.Samples) == 0 {
		return ErrEmptyTrack
	}
	for i, s := range traj.Samples {
		if len(s.Positions) != artifactJoints || len(s.JointPositions) != artifactPoints {
			return utils.NewInvalidInputError("sample %d has %d joints and %d joint positions, expected %d and %d",
				i, len(s.Positions), len(s.JointPositions), artifactJoints, artifactPoints)
		}
	}
	return nil
}

// WriteProfile writes the joint space part of a trajectory as CSV: a header row, then time, six angles, six
// velocities and six accelerations per sample.
func WriteProfile(w io.Writer, traj *Trajectory) error {
	if err := checkShape(traj); err != nil {
		return err
	}
	writer := csv.NewWriter(w)
	if err := writer.Write(ProfileHeader()); err != nil {
		return err
	}
	row := make([]float64, profileColCount)
	for _, s := range traj.Samples {
		row[profileTimeCol] = s.Time
		copy(row[profileQCol:], referenceframe.InputsToFloats(s.Positions))
		copy(row[profileDQCol:], s.Velocities)
		copy(row[profileDDQCol:], s.Accelerations)
		if err := writer.Write(formatFloats(row)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteTrajectory writes a full trajectory as CSV. A block of '#' comment lines describing the model, step
// and columns comes first, then a header row, then per sample: time, six angles, the x, y, z of the seven
// joint origins, and the end effector quaternion w, x, y, z.
func WriteTrajectory(w io.Writer, traj *Trajectory) error {
	if err := checkShape(traj); err != nil {
		return err
	}
	comments := []string{
		fmt.Sprintf("# model: %s", traj.Model),
		fmt.Sprintf("# step: %g s", traj.Step),
		fmt.Sprintf("# samples: %d", len(traj.Samples)),
		fmt.Sprintf("# columns: time %d, joints %d-%d, joint origins %d-%d, quaternion %d-%d",
			trajTimeCol, trajQCol, trajPointCol-1, trajPointCol, trajQuatCol-1, trajQuatCol, trajColCount-1),
	}
	for _, line := range comments {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(TrajectoryHeader()); err != nil {
		return err
	}
	row := make([]float64, trajColCount)
	for _, s := range traj.Samples {
		row[trajTimeCol] = s.Time
		copy(row[trajQCol:], referenceframe.InputsToFloats(s.Positions))
		for p, pt := range s.JointPositions {
			copy(row[trajPointCol+3*p:], []float64{pt.X, pt.Y, pt.Z})
		}
		copy(row[trajQuatCol:], []float64{s.Quaternion.Real, s.Quaternion.Imag, s.Quaternion.Jmag, s.Quaternion.Kmag})
		if err := writer.Write(formatFloats(row)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// SaveArtifacts writes the profile and trajectory artifacts. Both are written to temporary files in their
// destination directories first and renamed into place only once both are complete, so a failure leaves no
// partial artifact behind. If the profile is in place but the trajectory cannot be renamed, a profile this call
// created is removed again; a profile that already existed keeps the new contents.
func SaveArtifacts(traj *Trajectory, profilePath, trajectoryPath string) error {
	if err := checkShape(traj); err != nil {
		return err
	}
	profileTmp, err := writeTemp(profilePath, func(w io.Writer) error { return WriteProfile(w, traj) })
	if err != nil {
		return err
	}
	guard := utils.NewGuard(func() { utils.RemoveFileNoError(profileTmp) })
	defer guard.OnFail()

	trajTmp, err := writeTemp(trajectoryPath, func(w io.Writer) error { return WriteTrajectory(w, traj) })
	if err != nil {
		return err
	}
	trajGuard := utils.NewGuard(func() { utils.RemoveFileNoError(trajTmp) })
	defer trajGuard.OnFail()

	_, statErr := os.Stat(profilePath)
	profileExisted := statErr == nil
	if err := os.Rename(profileTmp, profilePath); err != nil {
		return errors.Wrap(err, "cannot save profile")
	}
	guard.Success()
	if err := os.Rename(trajTmp, trajectoryPath); err != nil {
		if !profileExisted {
			utils.RemoveFileNoError(profilePath)
		}
		return errors.Wrap(err, "cannot save trajectory")
	}
	trajGuard.Success()
	return nil
}

// writeTemp writes a new temporary file next to path and returns its name.
func writeTemp(path string, write func(io.Writer) error) (name string, err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return "", errors.Wrapf(err, "cannot create %s", path)
	}
	guard := utils.NewGuard(func() { utils.RemoveFileNoError(f.Name()) })
	defer guard.OnFail()

	err = write(f)
	err = multierr.Combine(err, f.Close())
	if err != nil {
		return "", errors.Wrapf(err, "cannot write %s", path)
	}
	guard.Success()
	return f.Name(), nil
}
