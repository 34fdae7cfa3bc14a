package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/neutronic/internal/games/neutronic"
	"github.com/vovakirdan/neutronic/internal/platform/tui"
	"github.com/vovakirdan/neutronic/internal/registry"
)

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Play a level",
	Long: `Start playing. Without a level the level picker menu opens.

Controls:
  Arrows/WASD  - Move the selected particle
  Tab/1-9      - Select a particle
  H            - Hint (first move of a shortest solution)
  C            - Start/cancel recording (restarts the level)
  V            - Play back the latest recording
  R            - Restart the level
  Enter        - Next level (after solving)
  P            - Pause
  Esc          - Back to the menu
  Q/Ctrl+C     - Quit

Examples:
  neutronic play
  neutronic play 04-portal-hop
  neutronic play my-level --levels ./levels`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, args []string) {
	a, err := newApp(true)
	exitOnError("loading", err)

	var runErr error
	if len(args) == 0 {
		runErr = tui.RunSession(tui.SessionConfig{
			GameID:  neutronic.GameID,
			Levels:  a.levels,
			Store:   a.store,
			Runtime: a.runtime(),
		})
	} else {
		runErr = playLevel(a, args[0])
	}

	a.Close()
	exitOnError("running game", runErr)
}

func playLevel(a *app, levelID string) error {
	if _, err := a.level(levelID); err != nil {
		return err
	}

	game, err := registry.Create(neutronic.GameID)
	if err != nil {
		return err
	}
	if ls, ok := game.(registry.LevelSelector); ok {
		ls.SelectLevel(levelID)
	}

	a.logger.Debug("starting level", "level", levelID)
	return tui.Run(game, a.runtime())
}
