package main

import (
	"context"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/milk9111/tiltmaze/levels"
	"github.com/milk9111/tiltmaze/maze"
)

const settleSteps = 60

var validateCmd = &cobra.Command{
	Use:   "validate <pack>...",
	Short: "Check levelpacks for errors",
	Long: `Load each levelpack (a file path or an embedded pack name), check its
requirements and levels, and make sure no level ends by itself when the
ball is left alone at its start point.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

type validation struct {
	name   string
	levels int
	err    error
}

func runValidate(cmd *cobra.Command, args []string) error {
	results := validatePacks(cmd.Context(), args)

	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			fmt.Fprintf(cmd.OutOrStdout(), "FAIL  %s\n      %v\n", r.name, r.err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok    %s (%d levels)\n", r.name, r.levels)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d levelpacks failed validation", failed, len(results))
	}
	return nil
}

// validatePacks checks every pack concurrently. Results keep argument order.
func validatePacks(ctx context.Context, names []string) []validation {
	if ctx == nil {
		ctx = context.Background()
	}
	results := make([]validation, len(names))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, name := range names {
		g.Go(func() error {
			results[i] = validatePack(ctx, name)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func validatePack(ctx context.Context, name string) validation {
	v := validation{name: name}

	pack, err := levels.Open(name)
	if err != nil {
		v.err = err
		return v
	}
	v.levels = len(pack.Levels)
	if err := pack.Validate(); err != nil {
		v.err = err
		return v
	}

	s := maze.NewSession(maze.WithLogger(logger.WithPrefix(name)))
	s.SetLevelsData(pack.MazeLevels())
	if err := s.SetConfig(pack.Config()); err != nil {
		v.err = err
		return v
	}
	for i := range pack.Levels {
		if err := ctx.Err(); err != nil {
			v.err = err
			return v
		}
		if err := s.SetLevel(i); err != nil {
			v.err = err
			return v
		}
		for step := 0; step < settleSteps; step++ {
			if st := s.Step(16); st != maze.StateNormal {
				v.err = fmt.Errorf("level %d: resting ball ended the level with %s", i+1, st)
				return v
			}
			if s.Falling() {
				v.err = fmt.Errorf("level %d: ball starts over a hole", i+1)
				return v
			}
		}
	}
	return v
}
