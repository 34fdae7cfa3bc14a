// Package recording captures played sessions as run-length segments and
// reproduces them against the level snapshot they were recorded on.
// It depends on core but core does not depend on recording.
package recording

import (
	"fmt"
	"time"

	"github.com/vovakirdan/neutronic/internal/games/neutronic/core"
)

// Segment is a contiguous run of moves issued by the same particle.
// Runs are grouped by particle, not by direction.
type Segment struct {
	ParticleIndex core.ParticleID `json:"id"`
	Directions    []core.Dir      `json:"direction"`
}

// Step is a single flattened move.
type Step struct {
	ParticleIndex core.ParticleID
	Dir           core.Dir
}

// Entry is a finished recording. Entries are immutable once created.
type Entry struct {
	ID            string                `json:"id"`
	RecordedAt    time.Time             `json:"recordedAt"`
	Steps         int                   `json:"steps"`
	LevelID       string                `json:"levelId"`
	LevelName     string                `json:"levelName"`
	Author        string                `json:"author"`
	Segments      []Segment             `json:"recording"`
	LevelSnapshot *core.LevelDefinition `json:"map"`
}

// Label returns the short description shown in recording pickers.
func (e Entry) Label() string {
	date := "Unknown date"
	if !e.RecordedAt.IsZero() {
		date = e.RecordedAt.Local().Format("2006-01-02 15:04")
	}
	return fmt.Sprintf("%s • %d steps", date, e.Steps)
}

// Flatten expands segments into the ordered list of moves they encode.
// Segments without directions contribute nothing.
func Flatten(segments []Segment) []Step {
	steps := make([]Step, 0, CountSteps(segments))
	for _, seg := range segments {
		for _, dir := range seg.Directions {
			steps = append(steps, Step{ParticleIndex: seg.ParticleIndex, Dir: dir})
		}
	}
	return steps
}

// CountSteps returns the total number of moves across all segments.
func CountSteps(segments []Segment) int {
	total := 0
	for _, seg := range segments {
		total += len(seg.Directions)
	}
	return total
}

// Compress groups a flat move list back into segments.
func Compress(steps []Step) []Segment {
	var segments []Segment
	for _, s := range steps {
		segments = appendStep(segments, s.ParticleIndex, s.Dir)
	}
	return segments
}

// appendStep extends the last segment if it belongs to id, or starts a new one.
func appendStep(segments []Segment, id core.ParticleID, dir core.Dir) []Segment {
	if n := len(segments); n > 0 && segments[n-1].ParticleIndex == id {
		segments[n-1].Directions = append(segments[n-1].Directions, dir)
		return segments
	}
	return append(segments, Segment{ParticleIndex: id, Directions: []core.Dir{dir}})
}

func cloneSegments(segments []Segment) []Segment {
	if segments == nil {
		return nil
	}
	out := make([]Segment, len(segments))
	for i, seg := range segments {
		out[i] = Segment{
			ParticleIndex: seg.ParticleIndex,
			Directions:    append([]core.Dir(nil), seg.Directions...),
		}
	}
	return out
}
