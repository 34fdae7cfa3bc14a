package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/neutronic/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all levels",
	Long:  `Shows every level with its goal and your best clear.`,
	Args:  cobra.NoArgs,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	a, err := newApp(true)
	exitOnError("loading", err)
	defer a.Close()

	if len(a.levels) == 0 {
		fmt.Println("No levels available.")
		return
	}

	var results map[string]storage.Result
	if a.store != nil {
		results, err = a.store.Results()
		if err != nil {
			a.logger.Warn("could not read results", "error", err)
		}
	}

	maxIDLen := 2 // "ID" header
	maxNameLen := 4
	for _, l := range a.levels {
		maxIDLen = max(maxIDLen, len(l.ID))
		maxNameLen = max(maxNameLen, len(l.Meta.Name))
	}

	fmt.Println("Levels:")
	fmt.Println()
	fmt.Printf("  %-*s  %-*s  %4s  %s\n", maxIDLen, "ID", maxNameLen, "Name", "Goal", "Best")
	fmt.Printf("  %-*s  %-*s  %4s  %s\n", maxIDLen, "--", maxNameLen, "----", "----", "----")

	for _, l := range a.levels {
		best := "-"
		if r, ok := results[l.ID]; ok {
			best = fmt.Sprintf("%d (%s)", r.BestSteps, r.Rank)
		}
		fmt.Printf("  %-*s  %-*s  %4d  %s\n", maxIDLen, l.ID, maxNameLen, l.Meta.Name, l.GoalSteps, best)
	}

	fmt.Println()
	fmt.Println("Run 'neutronic play <id>' to play a level.")
}
