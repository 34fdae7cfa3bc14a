package recording

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/vovakirdan/neutronic/internal/games/neutronic/core"
	"github.com/vovakirdan/neutronic/internal/games/neutronic/levels/formats"
)

// Decode parses a stored recording. Unknown or malformed fields fall back
// to safe defaults; only syntactically invalid JSON is an error.
func Decode(data []byte, now time.Time) (Entry, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Entry{}, fmt.Errorf("recording: decode: %w", err)
	}
	return Normalize(raw, now), nil
}

// Normalize builds an Entry from a loosely typed payload. Missing fields get
// defaults: a fresh id, recordedAt = now, zero steps, no segments and no
// snapshot. Segments that are not objects with a numeric id and a direction
// list are dropped, as are direction names that do not parse.
func Normalize(raw map[string]any, now time.Time) Entry {
	entry := Entry{
		ID:         stringField(raw, "id"),
		RecordedAt: now,
		LevelID:    stringField(raw, "levelId"),
		LevelName:  stringField(raw, "levelName"),
		Author:     stringField(raw, "author"),
	}
	if entry.ID == "" {
		entry.ID = NewID()
	}
	if s := stringField(raw, "recordedAt"); s != "" {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			entry.RecordedAt = t
		}
	}
	if n, ok := raw["steps"].(float64); ok && n >= 0 && n == math.Trunc(n) {
		entry.Steps = int(n)
	}

	if list, ok := raw["recording"].([]any); ok {
		entry.Segments = normalizeSegments(list)
	}
	if entry.Segments == nil {
		entry.Segments = []Segment{}
	}

	if m, ok := raw["map"].(map[string]any); ok {
		entry.LevelSnapshot = normalizeSnapshot(m)
	}
	return entry
}

func normalizeSegments(list []any) []Segment {
	var segments []Segment
	for _, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		id, ok := obj["id"].(float64)
		if !ok || id < 0 || id != math.Trunc(id) {
			continue
		}
		dirs, ok := obj["direction"].([]any)
		if !ok {
			continue
		}
		seg := Segment{ParticleIndex: core.ParticleID(id), Directions: []core.Dir{}}
		for _, d := range dirs {
			name, ok := d.(string)
			if !ok {
				continue
			}
			if dir, ok := core.ParseDir(name); ok {
				seg.Directions = append(seg.Directions, dir)
			}
		}
		segments = append(segments, seg)
	}
	return segments
}

// normalizeSnapshot accepts either a web editor export or a serialized
// LevelDefinition. Anything else yields nil.
func normalizeSnapshot(m map[string]any) *core.LevelDefinition {
	data, err := json.Marshal(m)
	if err != nil {
		return nil
	}

	if formats.IsJSONExport(data) {
		def, err := formats.ParseJSON(data)
		if err != nil {
			return nil
		}
		return &def
	}

	var def core.LevelDefinition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil
	}
	if len(def.Containers) == 0 && len(def.Particles) == 0 {
		return nil
	}
	def.EnsureParticleIDs()
	return &def
}

func stringField(raw map[string]any, key string) string {
	s, _ := raw[key].(string)
	return s
}
