// Package sixaxis holds the kinematic description of the reference six axis arm: a vertical waist, two
// parallel pitch joints for shoulder and elbow, and a spherical wrist.
package sixaxis

import (
	// used to import model referenceframe.
	_ "embed"
	"sync"

	"github.com/pkg/errors"

	"go.viam.com/sixaxis/referenceframe"
)

// ModelName is the name of the reference arm model.
const ModelName = "sixaxis"

//go:embed sixaxis_kinematics.json
var sixaxisModelJSON []byte

var loadModel = sync.OnceValues(func() (*referenceframe.SimpleModel, error) {
	m, err := referenceframe.UnmarshalModelJSON(sixaxisModelJSON, ModelName)
	if err != nil {
		return nil, errors.Wrap(err, "embedded sixaxis kinematics are invalid")
	}
	return m, nil
})

// Model returns the kinematic chain of the reference arm. It is parsed once and shared; callers must not
// modify it.
func Model() (*referenceframe.SimpleModel, error) {
	return loadModel()
}

// KinematicsJSON returns a copy of the embedded kinematics file.
func KinematicsJSON() []byte {
	out := make([]byte, len(sixaxisModelJSON))
	copy(out, sixaxisModelJSON)
	return out
}
