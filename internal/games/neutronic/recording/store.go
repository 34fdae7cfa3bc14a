package recording

import (
	"errors"
	"slices"
	"sync"
)

// ErrNotFound is returned when a recording does not exist.
var ErrNotFound = errors.New("recording: not found")

// Store persists recordings keyed by level. Recordings returns newest first.
type Store interface {
	SaveRecording(entry Entry) error
	Recordings(levelID string) ([]Entry, error)
	DeleteRecording(levelID, id string) error
}

// MemoryStore is an in-process Store, used when no database is configured.
type MemoryStore struct {
	mu      sync.Mutex
	byLevel map[string][]Entry
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byLevel: make(map[string][]Entry)}
}

// SaveRecording prepends entry to its level's list.
func (s *MemoryStore) SaveRecording(entry Entry) error {
	if entry.LevelID == "" {
		return errors.New("recording: entry has no level id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byLevel[entry.LevelID] = slices.Insert(s.byLevel[entry.LevelID], 0, entry)
	return nil
}

// Recordings returns the level's entries, newest first.
func (s *MemoryStore) Recordings(levelID string) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.byLevel[levelID]), nil
}

// DeleteRecording removes one entry.
func (s *MemoryStore) DeleteRecording(levelID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.byLevel[levelID]
	idx := slices.IndexFunc(entries, func(e Entry) bool { return e.ID == id })
	if idx < 0 {
		return ErrNotFound
	}
	s.byLevel[levelID] = slices.Delete(entries, idx, idx+1)
	return nil
}
