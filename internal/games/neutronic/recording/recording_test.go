package recording_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/neutronic/internal/games/neutronic/core"
	"github.com/vovakirdan/neutronic/internal/games/neutronic/recording"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

// lineLevel: boards (0,0)..(0,2), positive at the left end, negative at the right.
func lineLevel() *core.LevelDefinition {
	def := &core.LevelDefinition{
		ID:   "line",
		Meta: core.LevelMeta{Rows: 1, Columns: 3, Name: "Line", Author: "tests"},
		Containers: []core.Container{
			core.NewBoard(core.C(0, 0)),
			core.NewBoard(core.C(0, 1)),
			core.NewBoard(core.C(0, 2)),
		},
		Particles: []core.Particle{
			{Coord: core.C(0, 0), Charge: core.Positive},
			{Coord: core.C(0, 2), Charge: core.Negative},
		},
		GoalSteps: 2,
	}
	def.AssignParticleIDs()
	return def
}

func TestRecorderCapturesScenarioE(t *testing.T) {
	def := lineLevel()
	var saved []recording.Entry
	rec := recording.NewRecorder(def,
		recording.WithClock(clock),
		recording.WithSink(func(e recording.Entry) { saved = append(saved, e) }),
	)
	engine := core.NewEngine(def, core.WithListener(rec))

	rec.Start()
	engine.Move(0, core.DirRight, core.ModeInstant)
	engine.Move(0, core.DirRight, core.ModeInstant)

	if rec.Active() {
		t.Error("recorder should finish on win")
	}
	if len(saved) != 1 {
		t.Fatalf("expected one entry, got %d", len(saved))
	}
	entry := saved[0]
	if len(entry.Segments) != 1 {
		t.Fatalf("expected one segment, got %+v", entry.Segments)
	}
	seg := entry.Segments[0]
	if seg.ParticleIndex != 0 || len(seg.Directions) != 2 ||
		seg.Directions[0] != core.DirRight || seg.Directions[1] != core.DirRight {
		t.Errorf("unexpected segment %+v", seg)
	}
	if entry.Steps != 2 {
		t.Errorf("steps = %d, want 2", entry.Steps)
	}
	if entry.LevelID != "line" || entry.LevelName != "Line" || entry.Author != "tests" {
		t.Errorf("unexpected level fields %q %q %q", entry.LevelID, entry.LevelName, entry.Author)
	}
	if !strings.HasPrefix(entry.ID, "rec-") {
		t.Errorf("unexpected id %q", entry.ID)
	}
	if !entry.RecordedAt.Equal(fixedNow) {
		t.Errorf("recordedAt = %v", entry.RecordedAt)
	}

	flat := recording.Flatten(entry.Segments)
	want := []recording.Step{{ParticleIndex: 0, Dir: core.DirRight}, {ParticleIndex: 0, Dir: core.DirRight}}
	if len(flat) != len(want) || flat[0] != want[0] || flat[1] != want[1] {
		t.Errorf("Flatten = %+v, want %+v", flat, want)
	}

	res, err := recording.Verify(entry)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !res.Won || res.Rank != core.RankPerfect || res.Steps != 2 {
		t.Errorf("replay result = %+v, want Won(Perfect, 2)", res)
	}
}

func TestRecorderGroupsByParticle(t *testing.T) {
	def := &core.LevelDefinition{
		ID: "two",
		Containers: []core.Container{
			core.NewBoard(core.C(0, 0)), core.NewBoard(core.C(0, 1)), core.NewBoard(core.C(0, 2)),
			core.NewBoard(core.C(1, 0)), core.NewBoard(core.C(1, 1)), core.NewBoard(core.C(1, 2)),
		},
		Particles: []core.Particle{
			{Coord: core.C(0, 0), Charge: core.Positive},
			{Coord: core.C(1, 2), Charge: core.Negative},
		},
	}
	def.AssignParticleIDs()
	rec := recording.NewRecorder(def, recording.WithClock(clock))
	engine := core.NewEngine(def, core.WithListener(rec))

	rec.Start()
	engine.Move(0, core.DirRight, core.ModeInstant)
	engine.Move(0, core.DirRight, core.ModeInstant)
	engine.Move(1, core.DirLeft, core.ModeInstant)
	engine.Move(0, core.DirDown, core.ModeInstant)
	engine.Move(0, core.DirDown, core.ModeInstant) // rejected, not recorded

	segs := rec.Segments()
	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %+v", segs)
	}
	if segs[0].ParticleIndex != 0 || len(segs[0].Directions) != 2 {
		t.Errorf("segment 0 = %+v", segs[0])
	}
	if segs[1].ParticleIndex != 1 || len(segs[1].Directions) != 1 {
		t.Errorf("segment 1 = %+v", segs[1])
	}
	if segs[2].ParticleIndex != 0 || len(segs[2].Directions) != 1 {
		t.Errorf("segment 2 = %+v", segs[2])
	}

	entry, ok := rec.Finish()
	if !ok {
		t.Fatal("expected an entry")
	}
	if entry.Steps != engine.Steps() {
		t.Errorf("entry steps %d, engine steps %d", entry.Steps, engine.Steps())
	}
}

func TestRecorderIgnoresMovesWhenIdle(t *testing.T) {
	def := lineLevel()
	rec := recording.NewRecorder(def)
	engine := core.NewEngine(def, core.WithListener(rec))

	engine.Move(0, core.DirRight, core.ModeInstant)
	if _, ok := rec.Finish(); ok {
		t.Error("idle recorder should not produce an entry")
	}

	rec.Start()
	if _, ok := rec.Finish(); ok {
		t.Error("empty session should not produce an entry")
	}
}

func TestFlattenSkipsEmptySegments(t *testing.T) {
	segs := []recording.Segment{
		{ParticleIndex: 1, Directions: nil},
		{ParticleIndex: 2, Directions: []core.Dir{core.DirUp, core.DirLeft}},
	}
	flat := recording.Flatten(segs)
	if len(flat) != 2 || flat[0].ParticleIndex != 2 {
		t.Errorf("Flatten = %+v", flat)
	}
	if recording.CountSteps(segs) != 2 {
		t.Errorf("CountSteps = %d", recording.CountSteps(segs))
	}
	back := recording.Compress(flat)
	if len(back) != 1 || back[0].ParticleIndex != 2 || len(back[0].Directions) != 2 {
		t.Errorf("Compress = %+v", back)
	}
}

func TestReplayMissingParticle(t *testing.T) {
	entry := recording.Entry{
		Steps:         1,
		LevelSnapshot: lineLevel(),
		Segments: []recording.Segment{
			{ParticleIndex: 0, Directions: []core.Dir{core.DirRight}},
			{ParticleIndex: 9, Directions: []core.Dir{core.DirLeft}},
		},
	}
	_, err := recording.Replay(entry)
	if !errors.Is(err, recording.ErrReplayIntegrity) {
		t.Fatalf("expected integrity error, got %v", err)
	}
	var ie *recording.IntegrityError
	if !errors.As(err, &ie) || ie.Step != 1 || ie.Particle != 9 {
		t.Errorf("unexpected error detail %+v", ie)
	}
}

func TestReplayUnpairedPortalIsIntegrityError(t *testing.T) {
	snapshot := &core.LevelDefinition{
		ID: "lone-portal",
		Containers: []core.Container{
			core.NewPortal(core.C(0, 0), 7),
			core.NewBoard(core.C(1, 0)),
			core.NewBoard(core.C(1, 1)),
		},
		Particles: []core.Particle{
			{Coord: core.C(1, 0), Charge: core.Positive},
			{Coord: core.C(1, 1), Charge: core.Negative},
		},
		GoalSteps: 1,
	}
	snapshot.AssignParticleIDs()
	entry := recording.Entry{
		Steps:         1,
		LevelSnapshot: snapshot,
		Segments:      []recording.Segment{{ParticleIndex: 0, Directions: []core.Dir{core.DirUp}}},
	}

	_, err := recording.Verify(entry)
	var ie *recording.IntegrityError
	if !errors.As(err, &ie) {
		t.Fatalf("expected IntegrityError, got %v", err)
	}
	if ie.Step != 0 || ie.Particle != 0 {
		t.Errorf("unexpected error detail %+v", ie)
	}
	if !errors.Is(err, core.ErrPairingIntegrity) || !errors.Is(err, recording.ErrReplayIntegrity) {
		t.Errorf("error should wrap both faults: %v", err)
	}
}

func TestDecodeSnapshotWithoutParticleIDs(t *testing.T) {
	def := lineLevel()
	for i := range def.Particles {
		def.Particles[i].ID = 0
	}
	snapshot, err := json.Marshal(def)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	raw := `{"steps":2,"recording":[{"id":0,"direction":["right"]},{"id":1,"direction":["left"]}],"map":` +
		string(snapshot) + `}`

	entry, err := recording.Decode([]byte(raw), fixedNow)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if entry.LevelSnapshot == nil {
		t.Fatal("expected snapshot")
	}
	if got := entry.LevelSnapshot.Particles[1].ID; got != 1 {
		t.Errorf("second particle id = %d, want 1", got)
	}
	if _, err := recording.Verify(entry); err != nil {
		t.Errorf("Verify failed: %v", err)
	}
}

func TestReplayMissingSnapshot(t *testing.T) {
	_, err := recording.Replay(recording.Entry{})
	if !errors.Is(err, recording.ErrReplayIntegrity) {
		t.Errorf("expected integrity error, got %v", err)
	}
}

func TestVerifyDetectsStepMismatch(t *testing.T) {
	entry := recording.Entry{
		Steps:         5,
		LevelSnapshot: lineLevel(),
		Segments:      []recording.Segment{{ParticleIndex: 0, Directions: []core.Dir{core.DirRight, core.DirRight}}},
	}
	if _, err := recording.Verify(entry); !errors.Is(err, recording.ErrReplayIntegrity) {
		t.Errorf("expected integrity error, got %v", err)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		check func(t *testing.T, e recording.Entry)
	}{
		{
			name: "empty payload",
			raw:  `{}`,
			check: func(t *testing.T, e recording.Entry) {
				if !strings.HasPrefix(e.ID, "rec-") {
					t.Errorf("id = %q", e.ID)
				}
				if !e.RecordedAt.Equal(fixedNow) || e.Steps != 0 {
					t.Errorf("recordedAt=%v steps=%d", e.RecordedAt, e.Steps)
				}
				if e.Segments == nil || len(e.Segments) != 0 {
					t.Errorf("segments = %#v", e.Segments)
				}
				if e.LevelSnapshot != nil {
					t.Error("snapshot should be nil")
				}
			},
		},
		{
			name: "non-array recording",
			raw:  `{"id":"rec-1","steps":"three","recording":"oops"}`,
			check: func(t *testing.T, e recording.Entry) {
				if e.ID != "rec-1" || e.Steps != 0 || len(e.Segments) != 0 {
					t.Errorf("unexpected entry %+v", e)
				}
			},
		},
		{
			name: "mixed segments",
			raw:  `{"steps":3,"recording":[{"id":0,"direction":["right","bogus"]},null,{"id":"x","direction":["up"]},{"id":1}]}`,
			check: func(t *testing.T, e recording.Entry) {
				if e.Steps != 3 {
					t.Errorf("steps = %d", e.Steps)
				}
				if len(e.Segments) != 1 || len(e.Segments[0].Directions) != 1 {
					t.Errorf("segments = %+v", e.Segments)
				}
			},
		},
		{
			name: "web export snapshot",
			raw: `{"recordedAt":"2023-01-02T03:04:05Z","map":{"meta":{"rows":1,"columns":2,"name":"W","author":"a"},
				"content":{"containers":[{"type":"board","row":0,"column":0},{"type":"board","row":0,"column":1}],
				"particles":[{"row":0,"column":0,"color":"red"},{"row":0,"column":1,"color":"blue"}],"goal":1}}}`,
			check: func(t *testing.T, e recording.Entry) {
				if e.RecordedAt.Year() != 2023 {
					t.Errorf("recordedAt = %v", e.RecordedAt)
				}
				if e.LevelSnapshot == nil {
					t.Fatal("expected snapshot")
				}
				if len(e.LevelSnapshot.Particles) != 2 || e.LevelSnapshot.Particles[1].Charge != core.Negative {
					t.Errorf("snapshot particles = %+v", e.LevelSnapshot.Particles)
				}
				if e.LevelSnapshot.GoalSteps != 1 {
					t.Errorf("goal = %d", e.LevelSnapshot.GoalSteps)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := recording.Decode([]byte(tt.raw), fixedNow)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			tt.check(t, e)
		})
	}
}

func TestEntryJSONReplays(t *testing.T) {
	entry := recording.Entry{
		ID:            "rec-json",
		RecordedAt:    fixedNow,
		Steps:         2,
		LevelID:       "line",
		LevelSnapshot: lineLevel(),
		Segments:      []recording.Segment{{ParticleIndex: 0, Directions: []core.Dir{core.DirRight, core.DirRight}}},
	}
	data, err := json.Marshal(entry)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"direction":["right","right"]`) {
		t.Errorf("directions not encoded by name: %s", data)
	}

	decoded, err := recording.Decode(data, time.Now())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, err := recording.Verify(decoded); err != nil {
		t.Errorf("decoded entry does not verify: %v", err)
	}
}

func TestMemoryStoreNewestFirst(t *testing.T) {
	s := recording.NewMemoryStore()
	for _, id := range []string{"a", "b", "c"} {
		if err := s.SaveRecording(recording.Entry{ID: id, LevelID: "lvl"}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	entries, _ := s.Recordings("lvl")
	if len(entries) != 3 || entries[0].ID != "c" || entries[2].ID != "a" {
		t.Fatalf("unexpected order %+v", entries)
	}

	if err := s.DeleteRecording("lvl", "b"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteRecording("lvl", "b"); !errors.Is(err, recording.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	entries, _ = s.Recordings("lvl")
	if len(entries) != 2 {
		t.Errorf("expected 2 entries, got %d", len(entries))
	}
	if err := s.SaveRecording(recording.Entry{ID: "x"}); err == nil {
		t.Error("expected error for entry without level")
	}
}
