// neutronic is a particle annihilation puzzle for the terminal.
//
// Usage:
//
//	neutronic list                  - List levels with best results
//	neutronic play [level]          - Play a level, or pick one from the menu
//	neutronic replay <id|file>      - Verify or watch a recording
//	neutronic recordings [level]    - List or delete stored recordings
//	neutronic results               - Show or clear best results
//	neutronic solve <level>         - Find a shortest solution
//	neutronic serve                 - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>      - Set tick rate (default: 60)
//	--db <path>       - Set database path (default from config: ~/.neutronic/neutronic.db)
//	--config <path>   - Use a custom config file
//	--levels <dir>    - Load levels from a directory instead of the built-in set
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import the game to register it
	_ "github.com/vovakirdan/neutronic/internal/games/neutronic"
)

var (
	// Global flags
	flagFPS       int
	flagDBPath    string
	flagConfig    string
	flagLevelsDir string
	flagVerbose   bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "neutronic",
	Short: "Neutronic - annihilate particles on a grid in your terminal",
	Long: `Neutronic is a puzzle about oppositely charged particles. Move a
particle one cell at a time; when it meets an opposite charge both vanish.
Clear the board within the goal step count for a Perfect rank.

Available commands:
  list        - Show all levels and your best results
  play        - Play a level (menu when no level is given)
  replay      - Verify or watch a recording
  recordings  - List or delete recordings
  results     - Show or clear best results
  solve       - Compute a shortest solution
  serve       - Start SSH server for remote play

Examples:
  neutronic list
  neutronic play 04-portal-hop
  neutronic solve 07-ring --save
  neutronic replay rec-1f0c...
  neutronic serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLevelsDir, "levels", "", "Directory of level files (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(recordingsCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(serveCmd)
}
