package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/neutronic/internal/games/neutronic/core"
	"github.com/vovakirdan/neutronic/internal/games/neutronic/recording"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func lineLevel() *core.LevelDefinition {
	def := &core.LevelDefinition{
		ID:   "line",
		Meta: core.LevelMeta{Rows: 2, Columns: 3, Name: "Line", Author: "tests"},
		Containers: []core.Container{
			core.NewBoard(core.C(0, 0)),
			core.NewBoard(core.C(0, 1)),
			core.NewBoard(core.C(0, 2)),
			core.NewPortal(core.C(1, 0), 4),
			core.NewPortal(core.C(1, 2), 4),
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

func entryAt(id string, at time.Time) recording.Entry {
	return recording.Entry{
		ID:         id,
		RecordedAt: at,
		Steps:      2,
		LevelID:    "line",
		LevelName:  "Line",
		Author:     "tests",
		Segments: []recording.Segment{
			{ParticleIndex: 0, Directions: []core.Dir{core.DirRight, core.DirRight}},
		},
		LevelSnapshot: lineLevel(),
	}
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestRecordingsRoundTrip(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	if err := store.SaveRecording(entryAt("rec-old", base)); err != nil {
		t.Fatalf("SaveRecording() failed: %v", err)
	}
	if err := store.SaveRecording(entryAt("rec-new", base.Add(time.Minute))); err != nil {
		t.Fatalf("SaveRecording() failed: %v", err)
	}

	entries, err := store.Recordings("line")
	if err != nil {
		t.Fatalf("Recordings() failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 recordings, got %d", len(entries))
	}
	if entries[0].ID != "rec-new" || entries[1].ID != "rec-old" {
		t.Errorf("Recordings should be newest first, got %s, %s", entries[0].ID, entries[1].ID)
	}

	got := entries[0]
	if !got.RecordedAt.Equal(base.Add(time.Minute)) {
		t.Errorf("RecordedAt = %v", got.RecordedAt)
	}
	if got.LevelSnapshot == nil || len(got.LevelSnapshot.Containers) != 5 {
		t.Fatalf("snapshot not restored: %+v", got.LevelSnapshot)
	}
	if portal := got.LevelSnapshot.Containers[3]; !portal.IsPortal() || portal.PairID != 4 {
		t.Errorf("portal not restored: %+v", portal)
	}
	if len(got.Segments) != 1 || len(got.Segments[0].Directions) != 2 {
		t.Fatalf("segments not restored: %+v", got.Segments)
	}

	// A stored recording replays like the original.
	if _, err := recording.Replay(got); err != nil {
		t.Errorf("Replay() of stored entry failed: %v", err)
	}

	if other, err := store.Recordings("other"); err != nil || len(other) != 0 {
		t.Errorf("Recordings(other) = %v, %v", other, err)
	}
}

func TestRecordingByIDAndDelete(t *testing.T) {
	store := openTestStore(t)
	entry := entryAt("rec-1", time.Now())
	entry.LevelSnapshot = nil

	if err := store.SaveRecording(entry); err != nil {
		t.Fatalf("SaveRecording() failed: %v", err)
	}

	got, err := store.RecordingByID("rec-1")
	if err != nil {
		t.Fatalf("RecordingByID() failed: %v", err)
	}
	if got.LevelSnapshot != nil {
		t.Errorf("missing snapshot should stay nil, got %+v", got.LevelSnapshot)
	}

	if err := store.DeleteRecording("line", "rec-1"); err != nil {
		t.Fatalf("DeleteRecording() failed: %v", err)
	}
	if err := store.DeleteRecording("line", "rec-1"); !errors.Is(err, recording.ErrNotFound) {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}
	if _, err := store.RecordingByID("rec-1"); !errors.Is(err, recording.ErrNotFound) {
		t.Errorf("RecordingByID after delete = %v, want ErrNotFound", err)
	}
}

func TestSaveRecordingRequiresLevel(t *testing.T) {
	store := openTestStore(t)
	entry := entryAt("rec-1", time.Now())
	entry.LevelID = ""

	if err := store.SaveRecording(entry); err == nil {
		t.Error("SaveRecording() without level id should fail")
	}
}

func TestAllRecordings(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	first := entryAt("rec-a", base)
	second := entryAt("rec-b", base.Add(time.Hour))
	second.LevelID = "other"
	for _, e := range []recording.Entry{first, second} {
		if err := store.SaveRecording(e); err != nil {
			t.Fatalf("SaveRecording() failed: %v", err)
		}
	}

	all, err := store.AllRecordings()
	if err != nil {
		t.Fatalf("AllRecordings() failed: %v", err)
	}
	if len(all) != 2 || all[0].ID != "rec-b" {
		t.Errorf("AllRecordings() = %+v", all)
	}
}

func TestResultsKeepBest(t *testing.T) {
	store := openTestStore(t)

	if _, ok, err := store.BestResult("line"); err != nil || ok {
		t.Fatalf("BestResult() before any clear = %v, %v", ok, err)
	}

	clears := []struct {
		steps int
		rank  core.Rank
	}{
		{5, core.RankPass},
		{2, core.RankPerfect},
		{4, core.RankPass},
	}
	for _, c := range clears {
		if err := store.SaveResult("line", c.steps, c.rank); err != nil {
			t.Fatalf("SaveResult() failed: %v", err)
		}
	}

	r, ok, err := store.BestResult("line")
	if err != nil || !ok {
		t.Fatalf("BestResult() = %v, %v", ok, err)
	}
	if r.BestSteps != 2 || r.Rank != "Perfect" || r.Clears != 3 {
		t.Errorf("BestResult() = %+v, want 2 steps Perfect over 3 clears", r)
	}

	all, err := store.Results()
	if err != nil {
		t.Fatalf("Results() failed: %v", err)
	}
	if len(all) != 1 || all["line"].BestSteps != 2 {
		t.Errorf("Results() = %+v", all)
	}

	if err := store.ClearResults("line"); err != nil {
		t.Fatalf("ClearResults() failed: %v", err)
	}
	if _, ok, _ := store.BestResult("line"); ok {
		t.Error("result should be gone after ClearResults")
	}
}
