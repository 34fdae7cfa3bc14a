package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/neutronic/internal/games/neutronic/core"
	"github.com/vovakirdan/neutronic/internal/games/neutronic/recording"
)

var (
	flagDelete string
	flagExport string
)

var recordingsCmd = &cobra.Command{
	Use:   "recordings [level]",
	Short: "List stored recordings",
	Long: `Lists recordings, newest first, optionally for one level only.

Examples:
  neutronic recordings
  neutronic recordings 03-chain
  neutronic recordings --export rec-1f0c... > best.json
  neutronic recordings --delete rec-1f0c...`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRecordings,
}

func init() {
	recordingsCmd.Flags().StringVar(&flagDelete, "delete", "", "Delete the recording with this id")
	recordingsCmd.Flags().StringVar(&flagExport, "export", "", "Write the recording with this id as JSON to stdout")
}

func runRecordings(_ *cobra.Command, args []string) {
	a, err := newApp(true)
	exitOnError("loading", err)
	if a.store == nil {
		exitOnError("opening database", fmt.Errorf("no database at %s", a.cfg.Storage.DBPath))
	}

	switch {
	case flagDelete != "":
		err = deleteRecording(a, flagDelete)
	case flagExport != "":
		err = exportRecording(a, flagExport)
	default:
		levelID := ""
		if len(args) == 1 {
			levelID = args[0]
		}
		err = listRecordings(a, levelID)
	}

	a.Close()
	exitOnError("reading recordings", err)
}

func listRecordings(a *app, levelID string) error {
	var (
		entries []recording.Entry
		err     error
	)
	if levelID == "" {
		entries, err = a.store.AllRecordings()
	} else {
		entries, err = a.store.Recordings(levelID)
	}
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No recordings yet. Press C in a level to record a solve.")
		return nil
	}

	goals := make(map[string]int, len(a.levels))
	for _, l := range a.levels {
		goals[l.ID] = l.GoalSteps
	}

	fmt.Printf("  %-42s  %-20s  %-16s  %5s  %s\n", "ID", "Level", "Recorded", "Steps", "Rank")
	for _, e := range entries {
		rank := "-"
		if goal, ok := goals[e.LevelID]; ok {
			rank = core.RankFor(e.Steps, goal).String()
		}
		fmt.Printf("  %-42s  %-20s  %-16s  %5d  %s\n",
			e.ID, e.LevelID, e.RecordedAt.Local().Format("2006-01-02 15:04"), e.Steps, rank)
	}
	return nil
}

func deleteRecording(a *app, id string) error {
	entry, err := a.store.RecordingByID(id)
	if err != nil {
		return fmt.Errorf("%s: %w", id, err)
	}
	if err := a.store.DeleteRecording(entry.LevelID, entry.ID); err != nil {
		return err
	}
	a.logger.Info("recording deleted", "id", entry.ID, "level", entry.LevelID)
	return nil
}

func exportRecording(a *app, id string) error {
	entry, err := a.store.RecordingByID(id)
	if err != nil {
		return fmt.Errorf("%s: %w", id, err)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(entry)
}
