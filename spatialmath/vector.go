package spatialmath

import "github.com/golang/geo/r3"

// X returns the unit +X vector.
func X() r3.Vector { return r3.Vector{X: 1} }

// Y returns the unit +Y vector.
func Y() r3.Vector { return r3.Vector{Y: 1} }

// Z returns the unit +Z vector.
func Z() r3.Vector { return r3.Vector{Z: 1} }
