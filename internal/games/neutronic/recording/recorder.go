package recording

import (
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/neutronic/internal/games/neutronic/core"
)

// Recorder captures committed moves while a session is active.
// Register it as an engine listener; a Won event completes the session.
type Recorder struct {
	level     *core.LevelDefinition
	active    bool
	startedAt time.Time
	segments  []Segment
	sink      func(Entry)
	now       func() time.Time
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithSink delivers entries completed by a Won event to fn.
func WithSink(fn func(Entry)) RecorderOption {
	return func(r *Recorder) {
		r.sink = fn
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) RecorderOption {
	return func(r *Recorder) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRecorder creates an idle recorder for the given level.
func NewRecorder(level *core.LevelDefinition, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		level: level.Clone(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetLevel switches the level that finished entries snapshot. Any active session is dropped.
func (r *Recorder) SetLevel(level *core.LevelDefinition) {
	r.Cancel()
	r.level = level.Clone()
}

// Start begins a fresh session. The caller is responsible for resetting the
// engine to the level's base state first.
func (r *Recorder) Start() {
	r.active = true
	r.startedAt = r.now()
	r.segments = nil
}

// Active reports whether a session is being captured.
func (r *Recorder) Active() bool {
	return r.active
}

// StartedAt returns when the current session began.
func (r *Recorder) StartedAt() time.Time {
	return r.startedAt
}

// Segments returns a copy of the moves captured so far.
func (r *Recorder) Segments() []Segment {
	return cloneSegments(r.segments)
}

// Cancel drops the current session without producing an entry.
func (r *Recorder) Cancel() {
	r.active = false
	r.startedAt = time.Time{}
	r.segments = nil
}

// Finish ends the session and packages it. It returns false when no session
// was active or nothing was captured.
func (r *Recorder) Finish() (Entry, bool) {
	if !r.active || len(r.segments) == 0 {
		r.Cancel()
		return Entry{}, false
	}

	entry := Entry{
		ID:            NewID(),
		RecordedAt:    r.now(),
		Steps:         CountSteps(r.segments),
		Segments:      cloneSegments(r.segments),
		LevelSnapshot: r.level.Clone(),
	}
	if r.level != nil {
		entry.LevelID = r.level.ID
		entry.LevelName = r.level.Meta.Name
		entry.Author = r.level.Meta.Author
	}
	r.Cancel()
	return entry, true
}

// HandleEvent implements core.Listener.
func (r *Recorder) HandleEvent(ev core.Event) {
	switch ev := ev.(type) {
	case core.MoveCommitted:
		if r.active {
			r.segments = appendStep(r.segments, ev.Particle, ev.Dir)
		}
	case core.Won:
		if !r.active {
			return
		}
		if entry, ok := r.Finish(); ok && r.sink != nil {
			r.sink(entry)
		}
	}
}

// NewID returns a fresh recording identifier.
func NewID() string {
	return "rec-" + uuid.NewString()
}
