package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/neutronic/internal/games/neutronic"
	"github.com/vovakirdan/neutronic/internal/games/neutronic/levels"
	"github.com/vovakirdan/neutronic/internal/games/neutronic/recording"
	"github.com/vovakirdan/neutronic/internal/platform/tui"
)

var (
	flagWatch  bool
	flagImport bool
)

var replayCmd = &cobra.Command{
	Use:   "replay <id|file>",
	Short: "Verify or watch a recording",
	Long: `Replays a recording against the level snapshot stored with it and
checks that it reproduces the recorded step count and solves the level.

The argument is either a recording id from the database or a path to a
recording JSON file (as written by 'neutronic recordings --export').

Examples:
  neutronic replay rec-1f0c2d7e-...
  neutronic replay ./best.json --import
  neutronic replay rec-1f0c2d7e-... --watch`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func init() {
	replayCmd.Flags().BoolVarP(&flagWatch, "watch", "w", false, "Play the recording back in the terminal")
	replayCmd.Flags().BoolVar(&flagImport, "import", false, "Save a verified recording file to the database")
}

func runReplay(_ *cobra.Command, args []string) {
	a, err := newApp(true)
	exitOnError("loading", err)

	err = replay(a, args[0])
	a.Close()
	exitOnError("replaying", err)
}

func replay(a *app, ref string) error {
	entry, fromFile, err := loadEntry(a, ref)
	if err != nil {
		return err
	}

	res, verr := recording.Verify(entry)
	var integrity *recording.IntegrityError
	switch {
	case verr == nil:
		fmt.Printf("%s: %s, solved in %d steps (%s)\n", entry.ID, entry.LevelID, res.Steps, res.Rank)
	case errors.As(verr, &integrity):
		fmt.Printf("%s: %s, does not verify: %v\n", entry.ID, entry.LevelID, verr)
	default:
		return verr
	}

	if flagImport {
		switch {
		case !fromFile:
			a.logger.Warn("recording is already stored", "id", entry.ID)
		case verr != nil:
			return fmt.Errorf("refusing to import a recording that does not verify")
		case a.store == nil:
			return fmt.Errorf("no database to import into")
		default:
			if err := a.store.SaveRecording(entry); err != nil {
				return err
			}
			a.logger.Info("recording imported", "id", entry.ID, "level", entry.LevelID)
		}
	}

	if flagWatch {
		return watch(a, entry)
	}
	return nil
}

// loadEntry resolves ref as a file path first, then as a stored recording id.
func loadEntry(a *app, ref string) (recording.Entry, bool, error) {
	if data, err := os.ReadFile(ref); err == nil {
		entry, err := recording.Decode(data, time.Now())
		return entry, true, err
	}

	if a.store == nil {
		return recording.Entry{}, false, fmt.Errorf("%s is not a file and no database is available", ref)
	}
	entry, err := a.store.RecordingByID(ref)
	if err != nil {
		return recording.Entry{}, false, fmt.Errorf("%s: %w", ref, err)
	}
	return entry, false, nil
}

// watch plays entry back on its own level snapshot.
func watch(a *app, entry recording.Entry) error {
	if entry.LevelSnapshot == nil {
		return fmt.Errorf("recording %s has no level snapshot", entry.ID)
	}
	snapshot := levels.Level{LevelDefinition: entry.LevelSnapshot.Clone()}

	opts := append([]neutronic.Option{}, a.gameOpts...)
	opts = append(opts, neutronic.WithLevels([]levels.Level{snapshot}))
	game := neutronic.New(opts...)

	return tui.RunReplay(game, a.runtime(), entry)
}
