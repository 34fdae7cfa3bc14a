package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/neutronic/internal/config"
	"github.com/vovakirdan/neutronic/internal/core"
	"github.com/vovakirdan/neutronic/internal/games/neutronic"
	"github.com/vovakirdan/neutronic/internal/games/neutronic/levels"
	"github.com/vovakirdan/neutronic/internal/storage"
)

// app bundles what every command needs: configuration, levels, storage and a logger.
type app struct {
	cfg    config.Config
	levels []levels.Level
	store  *storage.Store
	logger *log.Logger

	gameOpts []neutronic.Option
}

// newLogger creates the CLI logger writing to stderr.
func newLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: prefix == "neutronic-ssh",
		Prefix:          prefix,
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// newApp loads configuration and levels. The database is opened when withStore
// is set; a store that cannot be opened is logged and left nil.
func newApp(withStore bool) (*app, error) {
	a := &app{logger: newLogger("neutronic")}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	if flagLevelsDir != "" {
		cfg.Levels.Dir = flagLevelsDir
	}
	a.cfg = cfg

	if err := a.loadLevels(); err != nil {
		return nil, err
	}

	if withStore {
		store, err := storage.Open(cfg.Storage.DBPath)
		if err != nil {
			a.logger.Warn("could not open database, progress will not be saved", "path", cfg.Storage.DBPath, "error", err)
		} else {
			a.store = store
			a.logger.Debug("database opened", "path", cfg.Storage.DBPath)
		}
	}

	a.configureGame()
	return a, nil
}

// loadLevels reads the configured level directory or the built-in set.
func (a *app) loadLevels() error {
	loader := levels.NewBuiltinLoader()
	if a.cfg.Levels.Dir != "" {
		loader = levels.NewLoader(a.cfg.Levels.Dir)
	}

	list, err := loader.LoadAll()
	if err != nil {
		return fmt.Errorf("loading levels: %w", err)
	}
	for _, l := range list {
		if !l.Report.Empty() {
			a.logger.Warn("level sanitized",
				"level", l.ID,
				"droppedPortals", len(l.Report.DroppedPortals),
				"droppedParticles", len(l.Report.DroppedParticles),
			)
		}
	}
	a.logger.Debug("levels loaded", "source", loader.Root, "count", len(list))
	a.levels = list
	return nil
}

// configureGame sets the options for games created through the registry.
func (a *app) configureGame() {
	opts := []neutronic.Option{
		neutronic.WithLevels(a.levels),
		neutronic.WithTimings(a.cfg.Timings()),
		neutronic.WithPlaybackTimings(a.cfg.PlaybackTimings()),
		neutronic.WithSolverOptions(a.cfg.SolverOptions()),
		neutronic.WithHintTimeout(a.cfg.HintTimeout()),
	}
	if a.store != nil {
		opts = append(opts,
			neutronic.WithRecordings(a.store),
			neutronic.WithResults(a.store),
		)
	}
	a.gameOpts = opts
	neutronic.SetDefaults(opts...)
}

// level returns the level with the given id.
func (a *app) level(id string) (levels.Level, error) {
	for _, l := range a.levels {
		if l.ID == id {
			return l, nil
		}
	}
	return levels.Level{}, fmt.Errorf("unknown level %q (run 'neutronic list' to see levels)", id)
}

// runtime returns the runtime config sized to the current terminal.
func (a *app) runtime() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	if flagFPS > 0 {
		cfg.TickRate = flagFPS
	}
	return cfg
}

// Close releases the database.
func (a *app) Close() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		a.logger.Error("closing database", "error", err)
	}
}

// exitOnError prints err and exits like a failed command.
func exitOnError(prefix string, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", prefix, err)
	os.Exit(1)
}
