// Package neutronic provides the particle annihilation puzzle for the terminal platform.
package neutronic

import (
	"context"
	"fmt"
	"time"

	platformcore "github.com/vovakirdan/neutronic/internal/core"
	"github.com/vovakirdan/neutronic/internal/games/neutronic/core"
	"github.com/vovakirdan/neutronic/internal/games/neutronic/levels"
	"github.com/vovakirdan/neutronic/internal/games/neutronic/recording"
	"github.com/vovakirdan/neutronic/internal/games/neutronic/solver"
	"github.com/vovakirdan/neutronic/internal/registry"
)

// GameID is the registry identifier of the puzzle.
const GameID = "neutronic"

// ResultStore persists the best clear of each level.
type ResultStore interface {
	SaveResult(levelID string, steps int, rank core.Rank) error
}

// Option configures a Game.
type Option func(*Game)

// WithLevels sets the level set to play instead of the built-in one.
func WithLevels(list []levels.Level) Option {
	return func(g *Game) {
		g.levels = list
	}
}

// WithStartLevel selects the level to open first by id.
func WithStartLevel(id string) Option {
	return func(g *Game) {
		g.startLevel = id
	}
}

// WithRecordings stores finished recordings and serves them to playback.
func WithRecordings(s recording.Store) Option {
	return func(g *Game) {
		g.recordings = s
	}
}

// WithResults stores best results of cleared levels.
func WithResults(s ResultStore) Option {
	return func(g *Game) {
		g.results = s
	}
}

// WithTimings overrides the animation delays.
func WithTimings(t core.Timings) Option {
	return func(g *Game) {
		g.timings = t
	}
}

// WithPlaybackTimings overrides the pace of recording playback.
func WithPlaybackTimings(t recording.PlaybackTimings) Option {
	return func(g *Game) {
		g.playbackTimings = t
	}
}

// WithSolverOptions bounds the hint search.
func WithSolverOptions(o solver.Options) Option {
	return func(g *Game) {
		g.solverOpts = o
	}
}

// WithHintTimeout caps how long a hint search may block a tick.
func WithHintTimeout(d time.Duration) Option {
	return func(g *Game) {
		if d > 0 {
			g.hintTimeout = d
		}
	}
}

// WithClock overrides the time source used for recording timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Game) {
		if now != nil {
			g.now = now
		}
	}
}

// Game is one play session: the level set, the engine of the current
// level and everything attached to it.
type Game struct {
	levels     []levels.Level
	levelIndex int
	startLevel string

	sched    *core.Scheduler
	engine   *core.Engine
	recorder *recording.Recorder
	playback *recording.Playback
	selected core.ParticleID

	recordings      recording.Store
	results         ResultStore
	timings         core.Timings
	playbackTimings recording.PlaybackTimings
	solverOpts      solver.Options
	hintTimeout     time.Duration
	now             func() time.Time

	// Screen dimensions
	screenW  int
	screenH  int
	tickRate int

	paused    bool
	message   string
	collision map[core.Coord]bool
}

var defaults []Option

// SetDefaults sets the options applied to games created through the registry.
func SetDefaults(opts ...Option) {
	defaults = opts
}

func init() {
	registry.Register(GameID, func() registry.Game {
		return New(defaults...)
	})
}

// New creates a game over the built-in levels unless configured otherwise.
func New(opts ...Option) *Game {
	g := &Game{
		timings:         core.DefaultTimings(),
		playbackTimings: recording.DefaultPlaybackTimings(),
		solverOpts:      solver.DefaultOptions(),
		hintTimeout:     2 * time.Second,
		now:             time.Now,
		collision:       make(map[core.Coord]bool),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return GameID
}

// Title returns the display name.
func (g *Game) Title() string {
	return "Neutronic"
}

// Reset loads the level set and opens the start level.
func (g *Game) Reset(cfg platformcore.RuntimeConfig) {
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.tickRate = cfg.TickRate
	if g.tickRate <= 0 {
		g.tickRate = platformcore.DefaultConfig().TickRate
	}
	g.paused = false
	g.message = ""

	if g.levels == nil {
		all, err := levels.NewBuiltinLoader().LoadAll()
		if err != nil {
			g.message = "cannot load levels: " + err.Error()
		}
		g.levels = all
	}
	if len(g.levels) == 0 {
		g.engine = nil
		return
	}

	g.levelIndex = 0
	if g.startLevel != "" {
		for i, l := range g.levels {
			if l.ID == g.startLevel {
				g.levelIndex = i
				break
			}
		}
		g.startLevel = ""
	}
	g.loadLevel(g.levelIndex)
}

// SelectLevel sets the level the next Reset opens.
func (g *Game) SelectLevel(id string) {
	g.startLevel = id
}

// Resize updates the screen dimensions without touching the session.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
}

// loadLevel builds a fresh engine and its attachments for level i.
func (g *Game) loadLevel(i int) {
	g.levelIndex = i
	def := g.levels[i].LevelDefinition

	g.sched = core.NewScheduler()
	g.recorder = recording.NewRecorder(def,
		recording.WithSink(g.saveRecording),
		recording.WithClock(g.now),
	)
	g.engine = core.NewEngine(def,
		core.WithScheduler(g.sched),
		core.WithTimings(g.timings),
		core.WithListener(g.recorder),
		core.WithListener(core.ListenerFunc(g.handleEvent)),
	)
	g.playback = recording.NewPlayback(g.engine, g.playbackTimings)
	g.playback.OnFinish(g.playbackFinished)
	clear(g.collision)
	g.selectFirst()
}

// Level returns the level being played.
func (g *Game) Level() (levels.Level, bool) {
	if g.engine == nil {
		return levels.Level{}, false
	}
	return g.levels[g.levelIndex], true
}

// Engine returns the engine of the current level, or nil when no level is loaded.
func (g *Game) Engine() *core.Engine {
	return g.engine
}

// Selected returns the particle that direction input moves.
func (g *Game) Selected() core.ParticleID {
	return g.selected
}

// Message returns the current status line.
func (g *Game) Message() string {
	return g.message
}

// Recording reports whether a recording session is active.
func (g *Game) Recording() bool {
	return g.recorder != nil && g.recorder.Active()
}

// PlayingBack reports whether a recording is being played back.
func (g *Game) PlayingBack() bool {
	return g.playback != nil && g.playback.Active()
}

// Step handles one tick of input and advances deferred work by one tick of time.
func (g *Game) Step(input platformcore.InputFrame) platformcore.StepResult {
	if g.engine == nil {
		return platformcore.StepResult{State: g.State()}
	}

	if input.Has(platformcore.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return platformcore.StepResult{State: g.State()}
	}

	switch {
	case input.Has(platformcore.ActionRestart):
		g.restart()
	case input.Has(platformcore.ActionPlayback):
		g.togglePlayback()
	case g.playback.Active():
		// Input other than restart and playback is ignored while replaying.
	case input.Has(platformcore.ActionRecord):
		g.toggleRecording()
	case input.Has(platformcore.ActionConfirm) && g.engine.Won():
		g.nextLevel()
	case input.Has(platformcore.ActionHint):
		g.hint()
	case input.Has(platformcore.ActionNext):
		g.cycle(1)
	case input.Has(platformcore.ActionPrev):
		g.cycle(-1)
	case input.Has(platformcore.ActionSelect):
		g.SelectIndex(input.Index)
	default:
		g.handleMove(input)
	}

	g.sched.Advance(time.Second / time.Duration(g.tickRate))
	g.ensureSelection()
	return platformcore.StepResult{State: g.State()}
}

func (g *Game) handleMove(input platformcore.InputFrame) {
	dirs := []struct {
		action platformcore.Action
		dir    core.Dir
	}{
		{platformcore.ActionUp, core.DirUp},
		{platformcore.ActionDown, core.DirDown},
		{platformcore.ActionLeft, core.DirLeft},
		{platformcore.ActionRight, core.DirRight},
	}
	for _, d := range dirs {
		if input.Has(d.action) {
			g.Move(d.dir)
			return
		}
	}
}

// Move moves the selected particle one cell in dir.
func (g *Game) Move(dir core.Dir) core.Outcome {
	if g.engine == nil || g.engine.Won() || g.playback.Active() {
		return core.OutcomeRejected
	}
	out, err := g.engine.Move(g.selected, dir, core.ModeDeferred)
	if err != nil {
		g.message = err.Error()
	}
	return out
}

// SelectIndex focuses the particle at position i of the live particle list.
// It is refused while a finalization is pending or when no such particle exists.
func (g *Game) SelectIndex(i int) bool {
	if g.engine == nil || g.engine.Locked() {
		return false
	}
	particles := g.engine.State().Particles
	if i < 0 || i >= len(particles) {
		return false
	}
	g.selected = particles[i].ID
	return true
}

func (g *Game) cycle(delta int) {
	particles := g.engine.State().Particles
	if len(particles) == 0 {
		return
	}
	i := 0
	for k, p := range particles {
		if p.ID == g.selected {
			i = k
			break
		}
	}
	i = (i + delta + len(particles)) % len(particles)
	g.SelectIndex(i)
}

func (g *Game) selectFirst() {
	if particles := g.engine.State().Particles; len(particles) > 0 {
		g.selected = particles[0].ID
	}
}

// ensureSelection moves focus off a particle that was annihilated.
func (g *Game) ensureSelection() {
	if g.engine.Locked() {
		return
	}
	if _, ok := g.engine.Query().ParticleByID(g.selected); !ok {
		g.selectFirst()
	}
}

func (g *Game) restart() {
	g.playback.Stop()
	g.recorder.Cancel()
	g.engine.Reset()
	clear(g.collision)
	g.selectFirst()
	g.message = ""
}

func (g *Game) nextLevel() {
	if g.levelIndex+1 >= len(g.levels) {
		g.message = "all levels cleared"
		return
	}
	g.loadLevel(g.levelIndex + 1)
	g.message = ""
}

func (g *Game) toggleRecording() {
	if g.recorder.Active() {
		g.recorder.Cancel()
		g.message = "recording cancelled"
		return
	}
	if g.engine.Locked() {
		return
	}
	g.engine.Reset()
	clear(g.collision)
	g.selectFirst()
	g.recorder.Start()
	g.message = "recording"
}

func (g *Game) togglePlayback() {
	if g.playback.Active() {
		g.playback.Stop()
		return
	}
	if g.recordings == nil {
		g.message = "no recordings store"
		return
	}
	entries, err := g.recordings.Recordings(g.levels[g.levelIndex].ID)
	if err != nil {
		g.message = err.Error()
		return
	}
	if len(entries) == 0 {
		g.message = "no recordings for this level"
		return
	}
	g.Play(entries[0])
}

// Play replays entry visibly on the current level.
func (g *Game) Play(entry recording.Entry) bool {
	if g.engine == nil {
		return false
	}
	g.recorder.Cancel()
	clear(g.collision)
	if !g.playback.Start(entry) {
		g.message = "recording is empty"
		return false
	}
	g.message = fmt.Sprintf("playing back %d steps", entry.Steps)
	return true
}

func (g *Game) playbackFinished(reason recording.StopReason) {
	g.message = "playback " + reason.String()
}

// hint searches for a shortest solution from the live state and focuses
// the particle of its first move.
func (g *Game) hint() {
	if g.engine.Locked() || g.engine.Won() {
		return
	}
	def := g.engine.Definition().Clone()
	state := g.engine.State()
	def.Containers = append([]core.Container(nil), state.Containers...)
	def.Particles = append([]core.Particle(nil), state.Particles...)

	ctx, cancel := context.WithTimeout(context.Background(), g.hintTimeout)
	defer cancel()

	sol, err := solver.Solve(ctx, def, g.solverOpts)
	steps := recording.Flatten(sol.Segments)
	if len(steps) == 0 {
		if err != nil {
			g.message = "no hint: " + err.Error()
		} else {
			g.message = "no hint available"
		}
		return
	}
	g.selected = steps[0].ParticleIndex
	g.message = fmt.Sprintf("hint: move %s (%d to go)", steps[0].Dir, len(steps))
}

func (g *Game) handleEvent(ev core.Event) {
	switch ev := ev.(type) {
	case core.Collided:
		g.collision[ev.At] = true
	case core.MoveCommitted:
		clear(g.collision)
	case core.Rejected:
		if ev.Reason != core.ReasonLocked {
			g.message = "blocked: " + ev.Reason.String()
		}
	case core.Won:
		g.message = fmt.Sprintf("solved in %d steps: %s", ev.Steps, ev.Rank)
		if g.playback.Active() || g.results == nil {
			return
		}
		if err := g.results.SaveResult(g.levels[g.levelIndex].ID, ev.Steps, ev.Rank); err != nil {
			g.message = err.Error()
		}
	}
}

func (g *Game) saveRecording(entry recording.Entry) {
	if g.recordings == nil {
		return
	}
	if err := g.recordings.SaveRecording(entry); err != nil {
		g.message = err.Error()
		return
	}
	g.message = fmt.Sprintf("recording saved (%d steps)", entry.Steps)
}

// State returns the platform-facing status.
func (g *Game) State() platformcore.GameState {
	if g.engine == nil {
		return platformcore.GameState{Paused: g.paused}
	}
	s := platformcore.GameState{
		Level:  g.levels[g.levelIndex].ID,
		Steps:  g.engine.Steps(),
		Goal:   g.engine.Goal(),
		Solved: g.engine.Won(),
		Paused: g.paused,
	}
	if s.Solved {
		s.Rank = g.engine.Rank().String()
	}
	return s
}
