package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/milk9111/tiltmaze/levels"
	"github.com/milk9111/tiltmaze/maze"
)

var (
	flagSimPack  string
	flagSimLevel int
	flagSimTilt  []float64
	flagSimSteps int
	flagSimDelta int
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a level headless with a constant tilt",
	Long: `Run one level with a constant tilt for a number of frames and report
how it ended, where the ball stopped and how hard it hit the walls.

Examples:
  mazectl simulate --level 1 --tilt 0,-0.5
  mazectl simulate --pack mypack.levelpack.json --level 3 --steps 2000`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&flagSimPack, "pack", levels.DefaultPack, "Levelpack name or file")
	simulateCmd.Flags().IntVar(&flagSimLevel, "level", 1, "Level number (1-based)")
	simulateCmd.Flags().Float64SliceVar(&flagSimTilt, "tilt", []float64{0, 0}, "Tilt as x,y in [-1, 1]")
	simulateCmd.Flags().IntVar(&flagSimSteps, "steps", 1000, "Number of frames to run")
	simulateCmd.Flags().IntVar(&flagSimDelta, "delta", 16, "Milliseconds per frame")
}

type simulation struct {
	Steps    int
	State    maze.GameState
	Pose     maze.Pose
	Keys     int
	Bumps    int
	MaxBump  float64
	Finished bool
}

func runSimulate(cmd *cobra.Command, args []string) error {
	if len(flagSimTilt) != 2 {
		return fmt.Errorf("--tilt wants two values, got %d", len(flagSimTilt))
	}
	pack, err := levels.Open(flagSimPack)
	if err != nil {
		return err
	}

	res, err := simulate(pack, flagSimLevel-1, flagSimTilt[0], flagSimTilt[1], flagSimSteps, flagSimDelta)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "level %d/%d after %d frames: %s\n", flagSimLevel, len(pack.Levels), res.Steps, res.State)
	fmt.Fprintf(out, "ball at (%.1f, %.1f, %.1f), keys %d\n", res.Pose.X, res.Pose.Y, res.Pose.Z, res.Keys)
	fmt.Fprintf(out, "wall hits %d, hardest %.1f\n", res.Bumps, res.MaxBump)
	return nil
}

// simulate stops at the first non-normal result.
func simulate(pack *levels.Pack, level int, tiltX, tiltY float64, steps, delta int) (simulation, error) {
	var res simulation

	s := maze.NewSession(maze.WithLogger(logger))
	s.SetLevelsData(pack.MazeLevels())
	if err := s.SetConfig(pack.Config()); err != nil {
		return res, err
	}
	if err := s.SetLevel(level); err != nil {
		return res, err
	}
	s.SetVibroCallback(func(v float64) {
		res.Bumps++
		res.MaxBump = max(res.MaxBump, v)
	})
	s.SetForces(tiltX, tiltY, 0)

	for res.Steps < steps {
		res.Steps++
		if st := s.Step(delta); st != maze.StateNormal {
			res.State = st
			res.Finished = true
			break
		}
	}
	res.Pose = s.BallPose()
	res.Keys = s.KeysPassed()
	return res, nil
}
