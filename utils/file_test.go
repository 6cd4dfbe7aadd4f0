package utils

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

func TestResolveFile(t *testing.T) {
	_, err := os.Stat(ResolveFile("robots/sixaxis/sixaxis_kinematics.json"))
	test.That(t, err, test.ShouldBeNil)
}

func TestRemoveFileNoError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scratch")
	test.That(t, os.WriteFile(path, []byte("x"), 0o600), test.ShouldBeNil)
	RemoveFileNoError(path)
	_, err := os.Stat(path)
	test.That(t, os.IsNotExist(err), test.ShouldBeTrue)
	RemoveFileNoError(path)
}

func TestSafeJoinDir(t *testing.T) {
	res, err := SafeJoinDir("/out", "traj_in.csv")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res, test.ShouldEqual, filepath.Join("/out", "traj_in.csv"))

	_, err = SafeJoinDir("/out", "../traj_in.csv")
	test.That(t, errors.Is(err, ErrInvalidInput), test.ShouldBeTrue)
	_, err = SafeJoinDir("/out", "")
	test.That(t, err, test.ShouldNotBeNil)

	// relative parents, including the working directory
	res, err = SafeJoinDir(".", "traj_in.csv")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res, test.ShouldEqual, "traj_in.csv")
	res, err = SafeJoinDir("out", "sub/traj_in.csv")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res, test.ShouldEqual, filepath.Join("out", "sub", "traj_in.csv"))
	_, err = SafeJoinDir(".", "../traj_in.csv")
	test.That(t, errors.Is(err, ErrInvalidInput), test.ShouldBeTrue)
	_, err = SafeJoinDir(".", "..")
	test.That(t, errors.Is(err, ErrInvalidInput), test.ShouldBeTrue)
}

func TestGuard(t *testing.T) {
	cleaned := 0
	func() {
		guard := NewGuard(func() { cleaned++ })
		defer guard.OnFail()
	}()
	test.That(t, cleaned, test.ShouldEqual, 1)

	func() {
		guard := NewGuard(func() { cleaned++ })
		defer guard.OnFail()
		guard.Success()
	}()
	test.That(t, cleaned, test.ShouldEqual, 1)
}
