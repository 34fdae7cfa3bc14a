package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var flagClear bool

var resultsCmd = &cobra.Command{
	Use:   "results [level]",
	Short: "Show best results",
	Long: `Shows the best clear of every level, or clears the stored result of a level.

Examples:
  neutronic results
  neutronic results 02-two-pairs --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runResults,
}

func init() {
	resultsCmd.Flags().BoolVar(&flagClear, "clear", false, "Forget the result of the given level")
}

func runResults(_ *cobra.Command, args []string) {
	a, err := newApp(true)
	exitOnError("loading", err)
	if a.store == nil {
		exitOnError("opening database", fmt.Errorf("no database at %s", a.cfg.Storage.DBPath))
	}

	if flagClear {
		if len(args) == 0 {
			a.Close()
			exitOnError("clearing results", fmt.Errorf("--clear needs a level id"))
		}
		err = a.store.ClearResults(args[0])
		if err == nil {
			a.logger.Info("result cleared", "level", args[0])
		}
		a.Close()
		exitOnError("clearing results", err)
		return
	}

	results, err := a.store.Results()
	a.Close()
	exitOnError("reading results", err)

	if len(results) == 0 {
		fmt.Println("No levels cleared yet.")
		return
	}

	ids := make([]string, 0, len(results))
	for id := range results {
		if len(args) == 1 && id != args[0] {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Printf("  %-24s  %5s  %-8s  %6s  %s\n", "Level", "Best", "Rank", "Clears", "Updated")
	for _, id := range ids {
		r := results[id]
		fmt.Printf("  %-24s  %5d  %-8s  %6d  %s\n",
			r.LevelID, r.BestSteps, r.Rank, r.Clears, r.UpdatedAt.Local().Format("Jan 02 15:04"))
	}
}
