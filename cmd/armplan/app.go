package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/invopop/jsonschema"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
	goutils "go.viam.com/utils"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/sixaxis/kinematics"
	"go.viam.com/sixaxis/logging"
	"go.viam.com/sixaxis/motionplan"
	"go.viam.com/sixaxis/referenceframe"
	"go.viam.com/sixaxis/robots/sixaxis"
	"go.viam.com/sixaxis/spatialmath"
	"go.viam.com/sixaxis/utils"
)

const (
	// Flags.
	flagModel          = "model"
	flagDebug          = "debug"
	flagDegrees        = "degrees"
	flagNearest        = "nearest"
	flagWithinLimits   = "within-limits"
	flagTrack          = "track"
	flagRandom         = "random"
	flagSeed           = "seed"
	flagStep           = "dt"
	flagOutDir         = "out-dir"
	flagProfileName    = "profile-name"
	flagTrajectoryName = "trajectory-name"
	flagSaveTrack      = "save-track"
)

func newApp(out io.Writer) *cli.App {
	var logger logging.Logger
	return &cli.App{
		Name:            "armplan",
		Usage:           "forward and inverse kinematics and trajectory planning for a six axis arm",
		HideHelpCommand: true,
		Writer:          out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  flagModel,
				Usage: "load the arm from kinematics `FILE` instead of the built in sixaxis arm",
			},
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool(flagDebug) {
				logger = logging.NewDebugLogger("armplan")
			} else {
				logger = logging.NewLogger("armplan")
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "forward",
				Usage:     "print the end effector pose and joint origins for six joint angles",
				ArgsUsage: "<j1> <j2> <j3> <j4> <j5> <j6>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: flagDegrees, Usage: "angles are in degrees instead of radians"},
				},
				Action: func(c *cli.Context) error {
					return forwardAction(c, logger)
				},
			},
			{
				Name:      "inverse",
				Usage:     "print every joint configuration reaching a pose",
				ArgsUsage: "<x> <y> <z> <qw> <qx> <qy> <qz>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: flagDegrees, Usage: "print and read joint angles in degrees"},
					&cli.StringFlag{
						Name:  flagNearest,
						Usage: "only print the solution nearest to the comma separated `JOINTS`",
					},
					&cli.BoolFlag{Name: flagWithinLimits, Usage: "drop solutions outside the joint limits"},
				},
				Action: func(c *cli.Context) error {
					return inverseAction(c, logger)
				},
			},
			{
				Name:   "schema",
				Usage:  "print the JSON schema of a kinematics file",
				Action: schemaAction,
			},
			{
				Name:  "plan",
				Usage: "sample a trajectory through a track and write the profile and trajectory artifacts",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: flagTrack, Usage: "read waypoints in radians from CSV `FILE`"},
					&cli.IntFlag{Name: flagRandom, Usage: "plan through `N` random waypoints"},
					&cli.Int64Flag{Name: flagSeed, Value: 1, Usage: "seed for --random"},
					&cli.Float64Flag{Name: flagStep, Value: motionplan.DefaultStep, Usage: "sample period in seconds"},
					&cli.StringFlag{Name: flagOutDir, Value: ".", Usage: "write artifacts to `DIR`"},
					&cli.StringFlag{Name: flagProfileName, Value: "traj_in.csv", Usage: "profile artifact name"},
					&cli.StringFlag{Name: flagTrajectoryName, Value: "traj_out.csv", Usage: "trajectory artifact name"},
					&cli.StringFlag{Name: flagSaveTrack, Usage: "also write the planned track to `FILE`"},
				},
				Action: func(c *cli.Context) error {
					return planAction(c, logger)
				},
			},
		},
	}
}

func loadModel(c *cli.Context) (*referenceframe.SimpleModel, error) {
	if path := c.String(flagModel); path != "" {
		return referenceframe.ParseModelJSONFile(path, "")
	}
	return sixaxis.Model()
}

func parseFloats(args []string, want int) ([]float64, error) {
	if len(args) != want {
		return nil, utils.NewIncorrectInputLengthError(len(args), want)
	}
	values := make([]float64, len(args))
	for i, arg := range args {
		v, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
		if err != nil {
			return nil, utils.NewInvalidInputError("argument %d: %v", i+1, err)
		}
		values[i] = v
	}
	return values, nil
}

func formatAngles(inputs []referenceframe.Input, degrees bool) string {
	values := referenceframe.InputsToFloats(inputs)
	if degrees {
		values = utils.RadsToDegs(values)
	}
	return formatFloats(6, values...)
}

// formatFloats prints values with fixed precision, separated by spaces. Values that round to zero print
// without a sign.
func formatFloats(precision int, values ...float64) string {
	return strings.Join(lo.Map(values, func(v float64, _ int) string {
		str := strconv.FormatFloat(v, 'f', precision, 64)
		if strings.Trim(str, "-0.") == "" {
			return strings.TrimPrefix(str, "-")
		}
		return str
	}), " ")
}

func forwardAction(c *cli.Context, logger logging.Logger) error {
	model, err := loadModel(c)
	if err != nil {
		return err
	}
	angles, err := parseFloats(c.Args().Slice(), len(model.DoF()))
	if err != nil {
		return err
	}
	if c.Bool(flagDegrees) {
		angles = utils.DegsToRads(angles)
	}
	inputs := referenceframe.FloatsToInputs(angles)
	if err := model.CheckLimits(inputs); err != nil {
		logger.Warnw("joints outside limits", "error", err)
	}
	chain, err := model.Forward(inputs)
	if err != nil {
		return err
	}

	out := c.App.Writer
	q := chain.Pose.Orientation().Quaternion()
	ea := chain.Pose.Orientation().EulerAngles()
	fmt.Fprintf(out, "position: %s\n", formatFloats(6, chain.Pose.Point().X, chain.Pose.Point().Y, chain.Pose.Point().Z))
	fmt.Fprintf(out, "quaternion: %s\n", formatFloats(6, q.Real, q.Imag, q.Jmag, q.Kmag))
	fmt.Fprintf(out, "euler (deg): %s\n", formatFloats(4, utils.RadToDeg(ea.Roll), utils.RadToDeg(ea.Pitch), utils.RadToDeg(ea.Yaw)))
	for i, pt := range chain.JointPositions {
		fmt.Fprintf(out, "p%d: %s\n", i+1, formatFloats(6, pt.X, pt.Y, pt.Z))
	}
	return nil
}

func inverseAction(c *cli.Context, logger logging.Logger) error {
	model, err := loadModel(c)
	if err != nil {
		return err
	}
	solver, err := kinematics.NewSolver(model, logger.Sublogger("ik"))
	if err != nil {
		return err
	}
	values, err := parseFloats(c.Args().Slice(), 7)
	if err != nil {
		return err
	}
	orientation, err := spatialmath.QuaternionToMatrix(quat.Number{Real: values[3], Imag: values[4], Jmag: values[5], Kmag: values[6]})
	if err != nil {
		return err
	}
	solutions, ikErr := solver.Inverse(r3.Vector{X: values[0], Y: values[1], Z: values[2]}, orientation)
	if ikErr != nil && !errors.Is(ikErr, kinematics.ErrSingular) {
		return ikErr
	}
	if ikErr != nil {
		logger.Warn(ikErr)
	}

	degrees := c.Bool(flagDegrees)
	var policy kinematics.SelectionPolicy
	if nearest := c.String(flagNearest); nearest != "" {
		current, err := parseFloats(strings.Split(nearest, ","), len(model.DoF()))
		if err != nil {
			return errors.Wrap(err, "bad --nearest")
		}
		if degrees {
			current = utils.DegsToRads(current)
		}
		policy = kinematics.NearestSolution{Current: referenceframe.FloatsToInputs(current)}
	}
	if c.Bool(flagWithinLimits) {
		policy = kinematics.WithinLimits{Model: model, Next: policy}
	}
	if policy != nil {
		sol, err := policy.Select(solutions)
		if err != nil {
			return err
		}
		solutions = []kinematics.Solution{sol}
	}

	for _, sol := range solutions {
		fmt.Fprintf(c.App.Writer, "shoulder %+d elbow %+d wrist %+d: %s\n",
			sol.Shoulder, sol.Elbow, sol.Wrist, formatAngles(sol.Inputs, degrees))
	}
	return nil
}

func planAction(c *cli.Context, logger logging.Logger) error {
	model, err := loadModel(c)
	if err != nil {
		return err
	}
	limits, err := motionplan.LimitsFromModel(model)
	if err != nil {
		return err
	}

	var track motionplan.Track
	switch {
	case c.IsSet(flagTrack) && c.IsSet(flagRandom):
		return errors.Errorf("use only one of --%s and --%s", flagTrack, flagRandom)
	case c.IsSet(flagTrack):
		//nolint:gosec
		f, err := os.Open(c.String(flagTrack))
		if err != nil {
			return err
		}
		track, err = motionplan.ReadTrack(f)
		goutils.UncheckedError(f.Close())
		if err != nil {
			return err
		}
	case c.IsSet(flagRandom):
		track, err = motionplan.NewRandomTrackGenerator(model.DoF(), c.Int64(flagSeed)).Generate(c.Int(flagRandom))
		if err != nil {
			return err
		}
	default:
		return errors.Errorf("need --%s or --%s", flagTrack, flagRandom)
	}

	traj, err := motionplan.Plan(model, track, c.Float64(flagStep), limits, logger.Sublogger("plan"))
	if err != nil {
		return err
	}
	profilePath, err := utils.SafeJoinDir(c.String(flagOutDir), c.String(flagProfileName))
	if err != nil {
		return err
	}
	trajPath, err := utils.SafeJoinDir(c.String(flagOutDir), c.String(flagTrajectoryName))
	if err != nil {
		return err
	}
	if err := motionplan.SaveArtifacts(traj, profilePath, trajPath); err != nil {
		return err
	}
	if path := c.String(flagSaveTrack); path != "" {
		if err := saveTrack(path, track); err != nil {
			return err
		}
	}

	sum, err := traj.Summary()
	if err != nil {
		return err
	}
	logger.Infow("wrote trajectory", "profile", profilePath, "trajectory", trajPath)
	out := c.App.Writer
	fmt.Fprintf(out, "waypoints: %d\nsamples: %d\nduration: %.3f s\n", len(track), sum.Samples, sum.Duration)
	fmt.Fprintln(out, summaryTable(sum, limits))
	return nil
}

// summaryTable renders the per joint peaks next to the limits they were planned against.
func summaryTable(sum motionplan.Summary, limits motionplan.Limits) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Joint", "Peak vel", "Max vel", "Peak acc", "Max acc"})
	for j := range sum.PeakVelocity {
		t.AppendRow(table.Row{
			fmt.Sprintf("j%d", j+1),
			fmt.Sprintf("%.4f", sum.PeakVelocity[j]),
			fmt.Sprintf("%.4f", limits[j].MaxVelocity),
			fmt.Sprintf("%.4f", sum.PeakAcceleration[j]),
			fmt.Sprintf("%.4f", limits[j].MaxAcceleration),
		})
	}
	return t.Render()
}

func schemaAction(c *cli.Context) error {
	schema := jsonschema.Reflect(&referenceframe.ModelConfigJSON{})
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, string(data))
	return err
}

func saveTrack(path string, track motionplan.Track) error {
	//nolint:gosec
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := motionplan.WriteTrack(f, track); err != nil {
		goutils.UncheckedError(f.Close())
		return err
	}
	return f.Close()
}
