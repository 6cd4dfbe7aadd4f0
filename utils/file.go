package utils

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"go.viam.com/utils"
)

// ResolveFile returns the path of the given file relative to the root of the module. For example,
// "robots/sixaxis/sixaxis_kinematics.json" resolves to that file no matter which package directory a test
// runs from.
func ResolveFile(fn string) string {
	//nolint:dogsled
	_, thisFilePath, _, _ := runtime.Caller(0)
	thisDirPath, err := filepath.Abs(filepath.Dir(thisFilePath))
	if err != nil {
		panic(err)
	}
	return filepath.Join(thisDirPath, "..", fn)
}

// RemoveFileNoError removes the file at the given path if it exists. Any errors are suppressed.
func RemoveFileNoError(path string) {
	utils.UncheckedErrorFunc(func() error {
		if _, err := os.Stat(path); err == nil {
			return os.Remove(path)
		}
		return nil
	})
}

// SafeJoinDir joins parent and name but fails if the result escapes parent, e.g. through "..".
func SafeJoinDir(parent, name string) (string, error) {
	res := filepath.Join(parent, name)
	rel, err := filepath.Rel(parent, res)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return res, NewInvalidInputError("unsafe path join: '%s' with '%s'", parent, name)
	}
	return res, nil
}
