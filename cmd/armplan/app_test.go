package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.viam.com/test"

	"go.viam.com/sixaxis/kinematics"
	"go.viam.com/sixaxis/motionplan"
	"go.viam.com/sixaxis/utils"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := newApp(&out).Run(append([]string{"armplan"}, args...))
	return out.String(), err
}

func TestForwardCommand(t *testing.T) {
	out, err := run(t, "forward", "0", "0", "0", "0", "0", "0")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "position: 0.250000 0.000000 2.080000")
	test.That(t, out, test.ShouldContainSubstring, "quaternion: 1.000000")
	test.That(t, out, test.ShouldContainSubstring, "p2: 0.150000 0.000000 0.450000")
	test.That(t, out, test.ShouldContainSubstring, "p7: 0.250000 0.000000 2.080000")

	out, err = run(t, "forward", "--degrees", "90", "0", "0", "0", "0", "0")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "0.250000 2.080000\nquaternion:")

	_, err = run(t, "forward", "0", "0", "0")
	test.That(t, errors.Is(err, utils.ErrInvalidInput), test.ShouldBeTrue)
	_, err = run(t, "forward", "0", "0", "0", "0", "0", "x")
	test.That(t, errors.Is(err, utils.ErrInvalidInput), test.ShouldBeTrue)
}

func TestInverseCommand(t *testing.T) {
	out, err := run(t, "inverse", "0.25", "0", "2.08", "1", "0", "0", "0")
	test.That(t, err, test.ShouldBeNil)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	test.That(t, len(lines), test.ShouldEqual, 3)
	test.That(t, lines[0], test.ShouldStartWith, "shoulder +1 elbow +1 wrist +1:")

	out, err = run(t, "inverse", "--within-limits", "--nearest", "0,0.13,-0.25,0,0.1,0", "0.25", "0", "2.08", "1", "0", "0", "0")
	test.That(t, err, test.ShouldBeNil)
	lines = strings.Split(strings.TrimSpace(out), "\n")
	test.That(t, len(lines), test.ShouldEqual, 1)
	test.That(t, lines[0], test.ShouldStartWith, "shoulder +1 elbow -1 wrist +1:")

	_, err = run(t, "inverse", "10", "0", "0", "1", "0", "0", "0")
	test.That(t, errors.Is(err, kinematics.ErrUnreachable), test.ShouldBeTrue)
	_, err = run(t, "inverse", "0.25", "0", "2.08", "0", "0", "0", "0")
	test.That(t, errors.Is(err, utils.ErrInvalidInput), test.ShouldBeTrue)
}

func TestPlanCommand(t *testing.T) {
	dir := t.TempDir()
	trackPath := filepath.Join(dir, "track.csv")
	out, err := run(t, "plan", "--random", "3", "--seed", "4", "--out-dir", dir, "--save-track", trackPath)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "waypoints: 3")
	test.That(t, out, test.ShouldContainSubstring, "PEAK VEL")
	test.That(t, out, test.ShouldContainSubstring, "| j6 ")
	for _, name := range []string{"traj_in.csv", "traj_out.csv", "track.csv"} {
		_, err := os.Stat(filepath.Join(dir, name))
		test.That(t, err, test.ShouldBeNil)
	}

	// replanning the saved track gives the same artifacts
	again := filepath.Join(dir, "again")
	test.That(t, os.Mkdir(again, 0o750), test.ShouldBeNil)
	_, err = run(t, "plan", "--track", trackPath, "--out-dir", again)
	test.That(t, err, test.ShouldBeNil)
	want, err := os.ReadFile(filepath.Join(dir, "traj_out.csv"))
	test.That(t, err, test.ShouldBeNil)
	got, err := os.ReadFile(filepath.Join(again, "traj_out.csv"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(got), test.ShouldEqual, string(want))
}

func TestPlanCommandErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "plan", "--out-dir", dir)
	test.That(t, err, test.ShouldNotBeNil)

	empty := filepath.Join(dir, "empty.csv")
	test.That(t, os.WriteFile(empty, nil, 0o600), test.ShouldBeNil)
	_, err = run(t, "plan", "--track", empty, "--out-dir", dir)
	test.That(t, err, test.ShouldEqual, motionplan.ErrEmptyTrack)

	_, err = run(t, "plan", "--random", "2", "--dt", "0", "--out-dir", dir)
	test.That(t, errors.Is(err, utils.ErrInvalidInput), test.ShouldBeTrue)

	_, err = run(t, "plan", "--random", "2", "--out-dir", dir, "--profile-name", "../escape.csv")
	test.That(t, errors.Is(err, utils.ErrInvalidInput), test.ShouldBeTrue)

	entries, err := os.ReadDir(dir)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(entries), test.ShouldEqual, 1)
}

func TestPlanCommandDefaultOutDir(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, os.Chdir(dir), test.ShouldBeNil)
	t.Cleanup(func() { _ = os.Chdir(wd) })
	out, err := run(t, "plan", "--random", "2")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "waypoints: 2")
	for _, name := range []string{"traj_in.csv", "traj_out.csv"} {
		_, err := os.Stat(filepath.Join(dir, name))
		test.That(t, err, test.ShouldBeNil)
	}

	_, err = run(t, "plan", "--random", "2", "--profile-name", "../traj_in.csv")
	test.That(t, errors.Is(err, utils.ErrInvalidInput), test.ShouldBeTrue)
}

func TestSchemaCommand(t *testing.T) {
	out, err := run(t, "schema")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "ModelConfigJSON")
	test.That(t, out, test.ShouldContainSubstring, "kinematic_param_type")
	test.That(t, out, test.ShouldContainSubstring, "max_vel")
}
