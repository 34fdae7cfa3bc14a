package core

import (
	"fmt"
	"time"
)

// Mode selects how a valid move is finalized.
type Mode uint8

const (
	// ModeDeferred commits the position immediately and finalizes removals
	// and portal jumps on the scheduler, holding the interaction lock meanwhile.
	ModeDeferred Mode = iota
	// ModeInstant resolves the whole move synchronously. Used by replay and the solver.
	ModeInstant
)

// Outcome summarizes what Move did.
type Outcome uint8

const (
	OutcomeRejected Outcome = iota
	OutcomeMoved
	OutcomeCollided
	OutcomeTransported
	OutcomePending // deferred portal jump; the result arrives as an event
)

// String returns the name of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeRejected:
		return "rejected"
	case OutcomeMoved:
		return "moved"
	case OutcomeCollided:
		return "collided"
	case OutcomeTransported:
		return "transported"
	case OutcomePending:
		return "pending"
	default:
		return "unknown"
	}
}

// Timings are the deferred-mode delays, matched to the presentation's animations.
type Timings struct {
	Move      time.Duration // slide onto a portal before the jump
	Dropout   time.Duration // annihilation before removal
	Transport time.Duration // portal exit before input unlocks
}

// DefaultTimings returns the stock animation durations.
func DefaultTimings() Timings {
	return Timings{
		Move:      200 * time.Millisecond,
		Dropout:   1000 * time.Millisecond,
		Transport: 200 * time.Millisecond,
	}
}

// Option configures an Engine.
type Option func(*Engine)

// WithScheduler makes the engine schedule deferred work on s.
func WithScheduler(s *Scheduler) Option {
	return func(e *Engine) {
		if s != nil {
			e.sched = s
		}
	}
}

// WithTimings overrides the deferred-mode delays.
func WithTimings(t Timings) Option {
	return func(e *Engine) {
		e.timings = t
	}
}

// WithListener registers a listener at construction time.
func WithListener(l Listener) Option {
	return func(e *Engine) {
		e.AddListener(l)
	}
}

// EngineSnapshot captures everything needed to rewind an engine.
type EngineSnapshot struct {
	State *GameState
	Steps int
	Won   bool
}

// Engine validates and applies moves against a GameState it owns.
// It is single-writer: callers must not use it from multiple goroutines.
type Engine struct {
	def       *LevelDefinition
	state     *GameState
	sched     *Scheduler
	timings   Timings
	listeners []Listener

	steps  int
	won    bool
	locked bool
	tasks  []TaskID
}

// NewEngine creates an engine playing a copy of def. Duplicate particle ids
// in the copy are renumbered in definition order. A level with no particles
// starts solved.
func NewEngine(def *LevelDefinition, opts ...Option) *Engine {
	e := &Engine{
		def:     def.Clone(),
		timings: DefaultTimings(),
	}
	e.def.EnsureParticleIDs()
	for _, opt := range opts {
		opt(e)
	}
	if e.sched == nil {
		e.sched = NewScheduler()
	}
	e.state = NewGameState(e.def)
	e.won = len(e.state.Particles) == 0
	return e
}

// AddListener registers l for all subsequent events.
func (e *Engine) AddListener(l Listener) {
	if l != nil {
		e.listeners = append(e.listeners, l)
	}
}

// Definition returns the level the engine resets to. Callers must not modify it.
func (e *Engine) Definition() *LevelDefinition {
	return e.def
}

// State returns the live game state. Callers must treat it as read-only.
func (e *Engine) State() *GameState {
	return e.state
}

// Query returns a spatial query view over the live state.
func (e *Engine) Query() Query {
	return NewQuery(e.state)
}

// Scheduler returns the scheduler deferred work runs on.
func (e *Engine) Scheduler() *Scheduler {
	return e.sched
}

// Steps returns the number of committed moves.
func (e *Engine) Steps() int {
	return e.steps
}

// Goal returns the goal step count of the level.
func (e *Engine) Goal() int {
	return e.def.GoalSteps
}

// Locked reports whether a deferred finalization is pending.
func (e *Engine) Locked() bool {
	return e.locked
}

// Won reports whether the level has been solved.
func (e *Engine) Won() bool {
	return e.won
}

// Rank returns the rank for the current step count.
func (e *Engine) Rank() Rank {
	return RankFor(e.steps, e.def.GoalSteps)
}

// Reset cancels pending finalizations and restores the level definition.
func (e *Engine) Reset() {
	e.cancelPending()
	e.state = NewGameState(e.def)
	e.steps = 0
	e.won = len(e.state.Particles) == 0
}

// Load replaces the level and resets.
func (e *Engine) Load(def *LevelDefinition) {
	e.def = def.Clone()
	e.def.EnsureParticleIDs()
	e.Reset()
}

// Snapshot captures the current state for a later Restore.
func (e *Engine) Snapshot() EngineSnapshot {
	return EngineSnapshot{State: e.state.Clone(), Steps: e.steps, Won: e.won}
}

// Restore rewinds the engine to a snapshot, dropping any pending work.
func (e *Engine) Restore(s EngineSnapshot) {
	e.cancelPending()
	e.state = s.State.Clone()
	e.steps = s.Steps
	e.won = s.Won
}

// Move attempts to move particle id one cell in direction dir.
// Invalid moves leave state untouched and return OutcomeRejected; the error
// is non-nil only for integrity faults and unknown particles.
func (e *Engine) Move(id ParticleID, dir Dir, mode Mode) (Outcome, error) {
	if e.locked {
		e.emit(Rejected{Particle: id, Dir: dir, Reason: ReasonLocked})
		return OutcomeRejected, nil
	}

	idx := e.indexOf(id)
	if idx < 0 {
		e.emit(Rejected{Particle: id, Dir: dir, Reason: ReasonUnknownParticle})
		return OutcomeRejected, fmt.Errorf("%w: %d", ErrUnknownParticle, id)
	}

	p := e.state.Particles[idx]
	from := p.Coord
	target := from.Step(dir)

	if reason := e.validate(p, target); reason != ReasonNone {
		e.emit(Rejected{Particle: id, Dir: dir, Reason: reason})
		if reason == ReasonPairingIntegrity {
			return OutcomeRejected, fmt.Errorf("%w at %s", ErrPairingIntegrity, target)
		}
		return OutcomeRejected, nil
	}

	e.state.Particles[idx].Coord = target
	e.steps++
	e.emit(MoveCommitted{Particle: id, Dir: dir, Steps: e.steps})

	q := e.Query()
	switch {
	case len(q.ParticlesAt(target)) >= 2:
		e.resolveCollision(target, mode)
		return OutcomeCollided, nil
	case q.HasPortalAt(target):
		return e.resolvePortal(id, target, mode), nil
	default:
		e.emit(Moved{Particle: id, From: from, To: target})
		return OutcomeMoved, nil
	}
}

// CanMove reports whether Move would accept the intent, without side effects.
func (e *Engine) CanMove(id ParticleID, dir Dir) bool {
	if e.locked {
		return false
	}
	idx := e.indexOf(id)
	if idx < 0 {
		return false
	}
	p := e.state.Particles[idx]
	return e.validate(p, p.Coord.Step(dir)) == ReasonNone
}

// validate applies the move rules for p entering target.
func (e *Engine) validate(p Particle, target Coord) RejectReason {
	q := e.Query()
	container, ok := q.ContainerAt(target)
	if !ok {
		return ReasonNoContainer
	}
	if q.HasParticleWithChargeAt(target, p.Charge) {
		return ReasonSameCharge
	}

	switch container.Kind {
	case KindPortal:
		other, ok := q.OtherPortal(target)
		if !ok {
			return ReasonPairingIntegrity
		}
		if waiting, ok := q.ParticleWithChargeAt(other.Coord, p.Charge); ok && waiting.ID != p.ID {
			return ReasonFoldThrough
		}
	case KindBoard:
	}
	return ReasonNone
}

// resolveCollision annihilates everything at target, now or after the dropout delay.
func (e *Engine) resolveCollision(target Coord, mode Mode) {
	ids := e.idsAt(target)
	if mode == ModeInstant {
		e.annihilate(target)
		e.emit(Collided{At: target, Particles: ids})
		e.checkWin()
		return
	}

	e.locked = true
	e.emit(Collided{At: target, Particles: ids})
	e.later(e.timings.Dropout, func() {
		e.annihilate(target)
		e.unlock()
		e.checkWin()
	})
}

// resolvePortal jumps the particle to the paired portal and settles the landing.
func (e *Engine) resolvePortal(id ParticleID, origin Coord, mode Mode) Outcome {
	if mode == ModeInstant {
		return e.jump(id, origin, mode)
	}

	e.locked = true
	e.later(e.timings.Move, func() {
		e.jump(id, origin, mode)
	})
	return OutcomePending
}

// jump relocates the particle from origin to its paired portal. An opposite
// charge waiting there annihilates with it; the origin portal loses its
// partner and becomes a board.
func (e *Engine) jump(id ParticleID, origin Coord, mode Mode) Outcome {
	idx := e.indexOf(id)
	other, ok := e.Query().OtherPortal(origin)
	if idx < 0 || !ok {
		// Validated before commit; only reachable if state was swapped underneath.
		e.unlock()
		return OutcomeMoved
	}

	dest := other.Coord
	charge := e.state.Particles[idx].Charge
	e.state.Particles[idx].Coord = dest

	if e.Query().HasParticleWithChargeAt(dest, charge.Negate()) {
		ids := e.idsAt(dest)
		if mode == ModeInstant {
			e.annihilate(dest)
			e.emit(Collided{At: dest, Particles: ids})
			e.checkWin()
			return OutcomeCollided
		}
		e.emit(Collided{At: dest, Particles: ids})
		e.later(e.timings.Dropout, func() {
			e.annihilate(dest)
			e.unlock()
			e.checkWin()
		})
		return OutcomeCollided
	}

	e.emit(Transported{Particle: id, From: origin, To: dest})
	if mode == ModeDeferred {
		e.later(e.timings.Transport, e.unlock)
	}
	return OutcomeTransported
}

// annihilate removes every particle and the container at c. If the container
// is a portal, its partner is converted to a board in the same step.
func (e *Engine) annihilate(c Coord) {
	q := e.Query()
	if container, ok := q.ContainerAt(c); ok && container.Kind == KindPortal {
		if partner, ok := q.OtherPortal(c); ok {
			e.convertToBoard(partner.Coord)
		}
	}

	containers := e.state.Containers[:0]
	for _, container := range e.state.Containers {
		if container.Coord != c {
			containers = append(containers, container)
		}
	}
	e.state.Containers = containers

	particles := e.state.Particles[:0]
	for _, p := range e.state.Particles {
		if p.Coord != c {
			particles = append(particles, p)
		}
	}
	e.state.Particles = particles
}

func (e *Engine) convertToBoard(c Coord) {
	for i := range e.state.Containers {
		if e.state.Containers[i].Coord == c {
			e.state.Containers[i] = NewBoard(c)
		}
	}
}

func (e *Engine) checkWin() {
	if e.won || len(e.state.Particles) > 0 {
		return
	}
	e.won = true
	e.emit(Won{Rank: e.Rank(), Steps: e.steps})
}

func (e *Engine) later(delay time.Duration, fn func()) {
	var id TaskID
	id = e.sched.Schedule(delay, func() {
		e.forget(id)
		fn()
	})
	e.tasks = append(e.tasks, id)
}

func (e *Engine) forget(id TaskID) {
	for i, t := range e.tasks {
		if t == id {
			e.tasks = append(e.tasks[:i], e.tasks[i+1:]...)
			return
		}
	}
}

func (e *Engine) unlock() {
	e.locked = false
}

func (e *Engine) cancelPending() {
	for _, id := range e.tasks {
		e.sched.Cancel(id)
	}
	e.tasks = nil
	e.locked = false
}

func (e *Engine) indexOf(id ParticleID) int {
	for i, p := range e.state.Particles {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (e *Engine) idsAt(c Coord) []ParticleID {
	var ids []ParticleID
	for _, p := range e.state.Particles {
		if p.Coord == c {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

func (e *Engine) emit(ev Event) {
	for _, l := range e.listeners {
		l.HandleEvent(ev)
	}
}
