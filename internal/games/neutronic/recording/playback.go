package recording

import (
	"time"

	"github.com/vovakirdan/neutronic/internal/games/neutronic/core"
)

// StopReason explains why a playback ended.
type StopReason uint8

const (
	StopNone StopReason = iota
	StopFinished
	StopMissingParticle
	StopCancelled
)

// String returns a short description of the reason.
func (r StopReason) String() string {
	switch r {
	case StopNone:
		return "none"
	case StopFinished:
		return "finished"
	case StopMissingParticle:
		return "missing particle"
	case StopCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// PlaybackTimings control the pace of a visible playback.
type PlaybackTimings struct {
	Interval time.Duration // between steps once the engine is idle
	Retry    time.Duration // poll interval while the engine is locked
}

// DefaultPlaybackTimings matches the default move animation plus a short pause.
func DefaultPlaybackTimings() PlaybackTimings {
	return PlaybackTimings{
		Interval: core.DefaultTimings().Move + 50*time.Millisecond,
		Retry:    100 * time.Millisecond,
	}
}

// Playback replays a recording visibly: it drives the engine in deferred
// mode on the engine's scheduler, waiting for each finalization to finish
// before issuing the next move.
type Playback struct {
	engine  *core.Engine
	timings PlaybackTimings

	active   bool
	queue    []Step
	task     core.TaskID
	hasTask  bool
	current  core.ParticleID
	reason   StopReason
	onFinish func(StopReason)
}

// NewPlayback creates an idle playback bound to engine.
func NewPlayback(engine *core.Engine, timings PlaybackTimings) *Playback {
	if timings.Interval <= 0 {
		timings.Interval = DefaultPlaybackTimings().Interval
	}
	if timings.Retry <= 0 {
		timings.Retry = DefaultPlaybackTimings().Retry
	}
	return &Playback{engine: engine, timings: timings}
}

// OnFinish registers a callback invoked once whenever a playback stops.
func (p *Playback) OnFinish(fn func(StopReason)) {
	p.onFinish = fn
}

// Start resets the engine and begins replaying entry. The first move is
// issued immediately. Returns false if the entry holds no moves.
func (p *Playback) Start(entry Entry) bool {
	p.halt(StopNone)
	p.engine.Reset()

	steps := Flatten(entry.Segments)
	if len(steps) == 0 {
		return false
	}
	p.active = true
	p.queue = steps
	p.reason = StopNone
	p.step()
	return true
}

// Stop cancels a running playback.
func (p *Playback) Stop() {
	if p.active {
		p.halt(StopCancelled)
	}
}

// Active reports whether a playback is running.
func (p *Playback) Active() bool {
	return p.active
}

// Remaining returns the number of moves not yet issued.
func (p *Playback) Remaining() int {
	return len(p.queue)
}

// Current returns the particle moved most recently.
func (p *Playback) Current() core.ParticleID {
	return p.current
}

// Reason returns why the last playback stopped.
func (p *Playback) Reason() StopReason {
	return p.reason
}

func (p *Playback) step() {
	p.hasTask = false
	if !p.active {
		return
	}
	if len(p.queue) == 0 {
		p.halt(StopFinished)
		return
	}

	next := p.queue[0]
	p.queue = p.queue[1:]
	if _, ok := p.engine.Query().ParticleByID(next.ParticleIndex); !ok {
		p.halt(StopMissingParticle)
		return
	}
	p.current = next.ParticleIndex
	p.engine.Move(next.ParticleIndex, next.Dir, core.ModeDeferred)
	p.wait()
}

// wait polls until the engine unlocks, then schedules the next step.
func (p *Playback) wait() {
	p.hasTask = false
	if !p.active {
		return
	}
	sched := p.engine.Scheduler()
	if p.engine.Locked() {
		p.task = sched.Schedule(p.timings.Retry, p.wait)
	} else {
		p.task = sched.Schedule(p.timings.Interval, p.step)
	}
	p.hasTask = true
}

func (p *Playback) halt(reason StopReason) {
	if p.hasTask {
		p.engine.Scheduler().Cancel(p.task)
		p.hasTask = false
	}
	wasActive := p.active
	p.active = false
	p.queue = nil
	if reason == StopNone {
		return
	}
	p.reason = reason
	if wasActive && p.onFinish != nil {
		p.onFinish(reason)
	}
}
