package recording_test

import (
	"testing"
	"time"

	"github.com/vovakirdan/neutronic/internal/games/neutronic/core"
	"github.com/vovakirdan/neutronic/internal/games/neutronic/recording"
)

func TestPlaybackWaitsForFinalization(t *testing.T) {
	sched := core.NewScheduler()
	engine := core.NewEngine(lineLevel(), core.WithScheduler(sched))
	pb := recording.NewPlayback(engine, recording.DefaultPlaybackTimings())

	var stopped []recording.StopReason
	pb.OnFinish(func(r recording.StopReason) { stopped = append(stopped, r) })

	entry := recording.Entry{
		Steps:         2,
		LevelSnapshot: lineLevel(),
		Segments:      []recording.Segment{{ParticleIndex: 0, Directions: []core.Dir{core.DirRight, core.DirRight}}},
	}
	if !pb.Start(entry) {
		t.Fatal("playback did not start")
	}
	if engine.Steps() != 1 {
		t.Errorf("first move should be issued immediately, steps=%d", engine.Steps())
	}

	sched.Advance(250 * time.Millisecond)
	if engine.Steps() != 2 || !engine.Locked() {
		t.Fatalf("second move should be pending finalization, steps=%d locked=%v", engine.Steps(), engine.Locked())
	}
	if !pb.Active() {
		t.Error("playback should still be active while the engine is locked")
	}

	sched.Advance(5 * time.Second)
	if pb.Active() {
		t.Error("playback should have finished")
	}
	if !engine.Won() {
		t.Error("playback should solve the level")
	}
	if len(stopped) != 1 || stopped[0] != recording.StopFinished {
		t.Errorf("stop reasons = %v, want [finished]", stopped)
	}
}

func TestPlaybackStopsOnMissingParticle(t *testing.T) {
	engine := core.NewEngine(lineLevel())
	pb := recording.NewPlayback(engine, recording.PlaybackTimings{})

	entry := recording.Entry{
		Segments: []recording.Segment{{ParticleIndex: 7, Directions: []core.Dir{core.DirUp}}},
	}
	pb.Start(entry)
	if pb.Active() {
		t.Error("playback should stop immediately")
	}
	if pb.Reason() != recording.StopMissingParticle {
		t.Errorf("reason = %v", pb.Reason())
	}
}

func TestPlaybackStopCancelsTimer(t *testing.T) {
	sched := core.NewScheduler()
	engine := core.NewEngine(lineLevel(), core.WithScheduler(sched))
	pb := recording.NewPlayback(engine, recording.DefaultPlaybackTimings())

	pb.Start(recording.Entry{
		Segments: []recording.Segment{{ParticleIndex: 0, Directions: []core.Dir{core.DirRight, core.DirRight}}},
	})
	pb.Stop()
	sched.Advance(time.Second)

	if engine.Steps() != 1 {
		t.Errorf("stopped playback kept moving, steps=%d", engine.Steps())
	}
	if pb.Reason() != recording.StopCancelled {
		t.Errorf("reason = %v", pb.Reason())
	}
}

func TestPlaybackEmptyEntry(t *testing.T) {
	pb := recording.NewPlayback(core.NewEngine(lineLevel()), recording.PlaybackTimings{})
	if pb.Start(recording.Entry{}) {
		t.Error("empty entry should not start")
	}
}
