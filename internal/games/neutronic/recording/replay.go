package recording

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/neutronic/internal/games/neutronic/core"
)

// ErrReplayIntegrity is wrapped by every IntegrityError.
var ErrReplayIntegrity = errors.New("recording: replay integrity fault")

// IntegrityError describes why a recording could not be reproduced.
type IntegrityError struct {
	Step     int // zero-based index into the flattened moves; -1 when not step-specific
	Particle core.ParticleID
	Reason   string
	Err      error // engine fault behind the failure, if any
}

func (e *IntegrityError) Error() string {
	if e.Step < 0 {
		return fmt.Sprintf("recording: replay integrity fault: %s", e.Reason)
	}
	return fmt.Sprintf("recording: replay integrity fault at step %d (particle %d): %s", e.Step, e.Particle, e.Reason)
}

func (e *IntegrityError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrReplayIntegrity}
	}
	return []error{ErrReplayIntegrity, e.Err}
}

// Result is the final position of a replay.
type Result struct {
	Steps int
	Won   bool
	Rank  core.Rank
	State *core.GameState
}

// Replay reconstructs the entry's level snapshot and applies every recorded
// move in instant mode. It aborts when a referenced particle is missing or a
// move hits a portal with no partner.
func Replay(entry Entry) (Result, error) {
	if entry.LevelSnapshot == nil {
		return Result{}, &IntegrityError{Step: -1, Reason: "missing level snapshot"}
	}

	e := core.NewEngine(entry.LevelSnapshot)
	for i, step := range Flatten(entry.Segments) {
		if _, ok := e.Query().ParticleByID(step.ParticleIndex); !ok {
			return Result{}, &IntegrityError{Step: i, Particle: step.ParticleIndex, Reason: "particle not found"}
		}
		if _, err := e.Move(step.ParticleIndex, step.Dir, core.ModeInstant); err != nil {
			return Result{}, &IntegrityError{Step: i, Particle: step.ParticleIndex, Reason: err.Error(), Err: err}
		}
	}

	return Result{
		Steps: e.Steps(),
		Won:   e.Won(),
		Rank:  e.Rank(),
		State: e.State().Clone(),
	}, nil
}

// Verify replays the entry and checks it reproduces the recorded outcome:
// the same step count and a solved level.
func Verify(entry Entry) (Result, error) {
	res, err := Replay(entry)
	if err != nil {
		return res, err
	}
	if res.Steps != entry.Steps {
		return res, &IntegrityError{
			Step:   -1,
			Reason: fmt.Sprintf("replayed %d steps, recorded %d", res.Steps, entry.Steps),
		}
	}
	if !res.Won {
		return res, &IntegrityError{Step: -1, Reason: "replay does not solve the level"}
	}
	return res, nil
}
