package referenceframe

import (
	"fmt"
	"os"
	"sort"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/yosuke-furukawa/json5/encoding/json5"
	"go.uber.org/multierr"

	"go.viam.com/sixaxis/spatialmath"
	"go.viam.com/sixaxis/utils"
)

// ModelConfigJSON represents all supported fields in a kinematics JSON file. Link translations are in meters,
// joint limits in degrees, velocity limits in degrees per second and acceleration limits in degrees per
// second squared.
type ModelConfigJSON struct {
	Name         string        `json:"name"`
	KinParamType string        `json:"kinematic_param_type,omitempty"`
	Links        []LinkConfig  `json:"links,omitempty"`
	Joints       []JointConfig `json:"joints,omitempty"`
}

// LinkConfig is a fixed offset between two frames of the chain.
type LinkConfig struct {
	ID          string            `json:"id"`
	Parent      string            `json:"parent"`
	Translation r3.Vector         `json:"translation"`
	Orientation *spatialmath.R4AA `json:"orientation,omitempty"`
}

// JointConfig is a revolute joint of the chain.
type JointConfig struct {
	ID     string    `json:"id"`
	Type   string    `json:"type"`
	Parent string    `json:"parent"`
	Axis   r3.Vector `json:"axis"`
	Min    float64   `json:"min"`
	Max    float64   `json:"max"`
	MaxVel float64   `json:"max_vel,omitempty"`
	MaxAcc float64   `json:"max_acc,omitempty"`
}

// UnmarshalModelJSON will parse the given JSON data into a kinematics model. modelName sets the name of the model,
// will use the name from the JSON if string is empty. The data may use JSON5 comments and trailing commas.
func UnmarshalModelJSON(jsonData []byte, modelName string) (*SimpleModel, error) {
	m := &ModelConfigJSON{}

	// empty data probably means that the robot component has no model information
	if len(jsonData) == 0 {
		return nil, ErrNoModelInformation
	}

	err := json5.Unmarshal(jsonData, m)
	if err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal json file")
	}

	return m.ParseConfig(modelName)
}

// ParseModelJSONFile will read a given file and then parse the contained JSON data.
func ParseModelJSONFile(filename, modelName string) (*SimpleModel, error) {
	//nolint:gosec
	jsonData, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read json file")
	}
	return UnmarshalModelJSON(jsonData, modelName)
}

// Validate returns every problem with the config at once, or nil.
func (cfg *ModelConfigJSON) Validate() error {
	var errAll error
	if cfg.KinParamType != "" && cfg.KinParamType != "SVA" {
		multierr.AppendInto(&errAll, errors.Errorf("unsupported param type: %s, supported params are SVA", cfg.KinParamType))
	}
	seen := map[string]bool{}
	checkID := func(kind, id string) {
		switch {
		case id == World:
			multierr.AppendInto(&errAll, NewReservedWordError(kind, World))
		case id == "":
			multierr.AppendInto(&errAll, errors.Errorf("%s has no id", kind))
		case seen[id]:
			multierr.AppendInto(&errAll, NewDuplicateFrameError(id))
		}
		seen[id] = true
	}
	for _, link := range cfg.Links {
		checkID("link", link.ID)
		if !utils.AllFinite(link.Translation.X, link.Translation.Y, link.Translation.Z) {
			multierr.AppendInto(&errAll, errors.Errorf("link %q has a non-finite translation", link.ID))
		}
	}
	for _, joint := range cfg.Joints {
		checkID("joint", joint.ID)
		if joint.Type != "" && joint.Type != "revolute" {
			multierr.AppendInto(&errAll, NewUnsupportedJointTypeError(joint.Type))
		}
		if joint.Axis.Norm() == 0 {
			multierr.AppendInto(&errAll, errors.Errorf("joint %q has a zero axis", joint.ID))
		}
		if joint.Min > joint.Max {
			multierr.AppendInto(&errAll, errors.Errorf("joint %q has min %.3f above max %.3f", joint.ID, joint.Min, joint.Max))
		}
		if joint.MaxVel < 0 || joint.MaxAcc < 0 {
			multierr.AppendInto(&errAll, errors.Errorf("joint %q has a negative dynamic limit", joint.ID))
		}
	}
	return errAll
}

// ParseConfig converts the ModelConfig struct into a full Model with the name modelName.
func (cfg *ModelConfigJSON) ParseConfig(modelName string) (*SimpleModel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if modelName == "" {
		modelName = cfg.Name
	}

	model := NewSimpleModel(modelName)
	transforms := map[string]Frame{}
	dynamics := map[string]DynamicLimit{}

	// Make a map of parents for each element for post-process, to allow items to be processed out of order
	parentMap := map[string]string{}

	for _, link := range cfg.Links {
		parentMap[link.ID] = link.Parent
		var orient spatialmath.Orientation = spatialmath.NewZeroOrientation()
		if link.Orientation != nil {
			orient = link.Orientation
		}
		frame, err := NewStaticFrame(link.ID, spatialmath.NewPose(link.Translation, orient))
		if err != nil {
			return nil, err
		}
		transforms[link.ID] = frame
	}

	for _, joint := range cfg.Joints {
		parentMap[joint.ID] = joint.Parent
		frame, err := NewRotationalFrame(
			joint.ID,
			spatialmath.R4AA{RX: joint.Axis.X, RY: joint.Axis.Y, RZ: joint.Axis.Z},
			Limit{Min: utils.DegToRad(joint.Min), Max: utils.DegToRad(joint.Max)},
		)
		if err != nil {
			return nil, err
		}
		transforms[joint.ID] = frame
		dynamics[joint.ID] = DynamicLimit{
			MaxVelocity:     utils.DegToRad(joint.MaxVel),
			MaxAcceleration: utils.DegToRad(joint.MaxAcc),
		}
	}

	// Create an ordered list of transforms
	ot, err := sortTransforms(transforms, parentMap)
	if err != nil {
		return nil, err
	}
	model.setOrdTransforms(ot)

	haveDynamics := false
	for _, d := range dynamics {
		if d.MaxVelocity > 0 || d.MaxAcceleration > 0 {
			haveDynamics = true
		}
	}
	if haveDynamics {
		for _, frame := range ot {
			if d, ok := dynamics[frame.Name()]; ok {
				model.dynamics = append(model.dynamics, d)
			}
		}
	}

	return model, nil
}

// Create an ordered list of transforms given a mapping of child to parent frames.
func sortTransforms(transforms map[string]Frame, parents map[string]string) ([]Frame, error) {
	// find the end effector first - determine which transforms have no children
	// copy the map of children -> parents
	ees := map[string]string{}
	for child, parent := range parents {
		ees[child] = parent
	}
	// now remove all parents
	for _, parent := range parents {
		delete(ees, parent)
	}
	// ensure there is only on end effector
	if len(ees) != 1 {
		names := make([]string, 0, len(ees))
		for name := range ees {
			names = append(names, name)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("%w, have %v", ErrNeedOneEndEffector, names)
	}

	// start the search from the end effector
	var curr string
	for name := range ees {
		curr = name
	}
	seen := map[string]bool{curr: true}
	orderedTransforms := []Frame{}
	for i := 0; i < len(parents); i++ {
		frame, ok := transforms[curr]
		if !ok {
			return nil, NewFrameNotInListOfTransformsError(curr)
		}
		orderedTransforms = append(orderedTransforms, frame)

		// find the parent of the current transform
		parent, ok := parents[curr]
		if !ok {
			return nil, NewParentFrameNotInMapOfParentsError(curr)
		}

		// make sure it wasn't seen, mark it seen, then add it to the list
		if seen[parent] {
			return nil, ErrCircularReference
		}
		seen[parent] = true

		// update the frame to add next
		curr = parent
	}
	if curr != World {
		return nil, NewFrameNotInListOfTransformsError(curr)
	}

	// After the above loop, the transforms are in reverse order, so we reverse the list.
	for i, j := 0, len(orderedTransforms)-1; i < j; i, j = i+1, j-1 {
		orderedTransforms[i], orderedTransforms[j] = orderedTransforms[j], orderedTransforms[i]
	}

	return orderedTransforms, nil
}
