package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/neutronic/internal/games/neutronic/recording"
	"github.com/vovakirdan/neutronic/internal/games/neutronic/solver"
)

var (
	flagSave     bool
	flagMaxDepth int
	flagTimeout  time.Duration
)

var solveCmd = &cobra.Command{
	Use:   "solve <level>",
	Short: "Find a shortest solution",
	Long: `Searches for a shortest move sequence that clears the level and prints
it move by move. With --save the solution is stored as a recording.

Examples:
  neutronic solve 05-crossing
  neutronic solve 07-ring --save
  neutronic solve my-level --levels ./levels --max-depth 40 --timeout 1m`,
	Args: cobra.ExactArgs(1),
	Run:  runSolve,
}

func init() {
	solveCmd.Flags().BoolVar(&flagSave, "save", false, "Store the solution as a recording")
	solveCmd.Flags().IntVar(&flagMaxDepth, "max-depth", 0, "Longest solution to consider (default from config)")
	solveCmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "Give up after this long (0 = no limit)")
}

func runSolve(_ *cobra.Command, args []string) {
	a, err := newApp(flagSave)
	exitOnError("loading", err)

	err = solve(a, args[0])
	a.Close()
	exitOnError("solving", err)
}

func solve(a *app, levelID string) error {
	level, err := a.level(levelID)
	if err != nil {
		return err
	}

	opts := a.cfg.SolverOptions()
	if flagMaxDepth > 0 {
		opts.MaxDepth = flagMaxDepth
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if flagTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flagTimeout)
		defer cancel()
	}

	started := time.Now()
	sol, err := solver.Solve(ctx, level.LevelDefinition, opts)
	a.logger.Debug("search finished", "nodes", sol.Nodes, "elapsed", time.Since(started).Round(time.Millisecond))
	if err != nil {
		return err
	}
	if sol.Steps == 0 {
		fmt.Printf("%s: already solved, nothing to move\n", level.ID)
		return nil
	}

	entry := sol.Entry(level.LevelDefinition)
	res, err := recording.Verify(entry)
	if err != nil {
		return fmt.Errorf("solution does not replay: %w", err)
	}

	fmt.Printf("%s: %d steps (goal %d, %s), %d positions searched\n",
		level.ID, sol.Steps, level.GoalSteps, res.Rank, sol.Nodes)
	for i, seg := range sol.Segments {
		dirs := make([]string, len(seg.Directions))
		for k, d := range seg.Directions {
			dirs[k] = d.String()
		}
		fmt.Printf("  %2d. particle %d: %s\n", i+1, seg.ParticleIndex, strings.Join(dirs, " "))
	}

	if flagSave {
		if a.store == nil {
			return fmt.Errorf("no database to save into")
		}
		entry.RecordedAt = time.Now()
		if err := a.store.SaveRecording(entry); err != nil {
			return err
		}
		a.logger.Info("solution saved", "id", entry.ID)
	}
	return nil
}
