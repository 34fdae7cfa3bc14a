package core

import (
	"cmp"
	"encoding/binary"
	"hash/fnv"
	"slices"
)

// GameState is the mutable working copy of a level. It is the only
// entity mutated during play.
type GameState struct {
	Containers []Container `json:"containers"`
	Particles  []Particle  `json:"particles"`
}

// NewGameState materializes a working copy from a definition.
func NewGameState(def *LevelDefinition) *GameState {
	return &GameState{
		Containers: append([]Container(nil), def.Containers...),
		Particles:  append([]Particle(nil), def.Particles...),
	}
}

// Clone creates a deep copy of the state.
func (s *GameState) Clone() *GameState {
	return &GameState{
		Containers: append([]Container(nil), s.Containers...),
		Particles:  append([]Particle(nil), s.Particles...),
	}
}

// Solved reports whether every particle has been eliminated.
func (s *GameState) Solved() bool {
	return len(s.Particles) == 0
}

// Hash returns a canonical hash of the state. Particle identities are
// ignored: two states that differ only in which particle sits where hash
// equal, since they play identically.
func (s *GameState) Hash() uint64 {
	containers := slices.Clone(s.Containers)
	slices.SortFunc(containers, func(a, b Container) int {
		return cmpCoord(a.Coord, b.Coord)
	})
	particles := slices.Clone(s.Particles)
	slices.SortFunc(particles, func(a, b Particle) int {
		if c := cmpCoord(a.Coord, b.Coord); c != 0 {
			return c
		}
		return cmp.Compare(a.Charge, b.Charge)
	})

	h := fnv.New64a()
	var buf [8]byte
	write := func(v int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(v)))
		h.Write(buf[:])
	}

	write(len(containers))
	for _, c := range containers {
		write(c.Row)
		write(c.Column)
		write(int(c.Kind))
		if c.Kind == KindPortal {
			write(c.PairID)
		}
	}
	write(len(particles))
	for _, p := range particles {
		write(p.Row)
		write(p.Column)
		write(int(p.Charge))
	}
	return h.Sum64()
}

func cmpCoord(a, b Coord) int {
	if c := cmp.Compare(a.Row, b.Row); c != 0 {
		return c
	}
	return cmp.Compare(a.Column, b.Column)
}
