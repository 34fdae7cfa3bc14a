// Package core provides the simulation engine for the Neutronic particle puzzle.
// This package is UI-agnostic and deterministic: all timing goes through Scheduler.
package core

import (
	"fmt"
	"strings"
)

// Dir represents a direction a particle can be moved in.
type Dir uint8

const (
	DirUp Dir = iota
	DirRight
	DirDown
	DirLeft
)

// Dirs lists all directions in the order the solver explores them.
var Dirs = [4]Dir{DirUp, DirRight, DirDown, DirLeft}

// String returns the wire name of a direction, as stored in recordings.
func (d Dir) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirRight:
		return "right"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	default:
		return "unknown"
	}
}

// Delta returns the (row, column) offset for one step in this direction.
// Up decreases the row, Down increases it.
func (d Dir) Delta() (dRow, dCol int) {
	switch d {
	case DirUp:
		return -1, 0
	case DirRight:
		return 0, 1
	case DirDown:
		return 1, 0
	case DirLeft:
		return 0, -1
	default:
		return 0, 0
	}
}

// ParseDir parses a direction name. Matching is case-insensitive.
func ParseDir(s string) (Dir, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u":
		return DirUp, true
	case "right", "r":
		return DirRight, true
	case "down", "d":
		return DirDown, true
	case "left", "l":
		return DirLeft, true
	}
	return DirUp, false
}

// MarshalText implements encoding.TextMarshaler.
func (d Dir) MarshalText() ([]byte, error) {
	if d > DirLeft {
		return nil, fmt.Errorf("invalid direction %d", d)
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Dir) UnmarshalText(text []byte) error {
	parsed, ok := ParseDir(string(text))
	if !ok {
		return fmt.Errorf("invalid direction %q", text)
	}
	*d = parsed
	return nil
}

// Charge is the polarity of a particle. Only opposite charges annihilate.
type Charge uint8

const (
	Positive Charge = iota
	Negative
)

// String returns the wire name of a charge.
func (c Charge) String() string {
	if c == Negative {
		return "negative"
	}
	return "positive"
}

// Negate returns the opposite charge.
func (c Charge) Negate() Charge {
	if c == Positive {
		return Negative
	}
	return Positive
}

// ParseCharge parses a charge name. The colors used by exported web levels
// are accepted too: red is positive, blue is negative.
func ParseCharge(s string) (Charge, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive", "+", "red", "positron":
		return Positive, true
	case "negative", "-", "blue", "electron":
		return Negative, true
	}
	return Positive, false
}

// MarshalText implements encoding.TextMarshaler.
func (c Charge) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Charge) UnmarshalText(text []byte) error {
	parsed, ok := ParseCharge(string(text))
	if !ok {
		return fmt.Errorf("invalid charge %q", text)
	}
	*c = parsed
	return nil
}

// Coord is a cell on the integer lattice. There are no implicit bounds:
// a coordinate is legal only if a container sits on it.
type Coord struct {
	Row    int `json:"row" yaml:"row"`
	Column int `json:"column" yaml:"column"`
}

// C is a convenience constructor for Coord.
func C(row, column int) Coord {
	return Coord{Row: row, Column: column}
}

// Step returns the neighbouring coordinate in the given direction.
func (c Coord) Step(d Dir) Coord {
	dr, dc := d.Delta()
	return Coord{Row: c.Row + dr, Column: c.Column + dc}
}

// String returns a string representation of the coordinate.
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Column)
}

// ContainerKind distinguishes the two container variants.
type ContainerKind uint8

const (
	KindBoard ContainerKind = iota
	KindPortal
)

// String returns the wire name of a container kind.
func (k ContainerKind) String() string {
	switch k {
	case KindBoard:
		return "board"
	case KindPortal:
		return "portal"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k ContainerKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ContainerKind) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "board":
		*k = KindBoard
	case "portal":
		*k = KindPortal
	default:
		return fmt.Errorf("invalid container kind %q", text)
	}
	return nil
}

// Container is a cell a particle can stand on: either a Board or a Portal.
// PairID is meaningful only for portals and names the pairing group.
type Container struct {
	Coord  `yaml:",inline"`
	Kind   ContainerKind `json:"kind" yaml:"kind"`
	PairID int           `json:"pairId" yaml:"pair"`
}

// NewBoard returns a board container at c.
func NewBoard(c Coord) Container {
	return Container{Coord: c, Kind: KindBoard}
}

// NewPortal returns a portal container at c belonging to pairing group pair.
func NewPortal(c Coord, pair int) Container {
	return Container{Coord: c, Kind: KindPortal, PairID: pair}
}

// IsPortal reports whether the container is a portal.
func (c Container) IsPortal() bool {
	return c.Kind == KindPortal
}

// ParticleID is the stable handle of a particle within a session.
// Recordings reference particles by this value.
type ParticleID int

// Particle is a charged particle sitting on a container.
type Particle struct {
	ID     ParticleID `json:"id" yaml:"id"`
	Coord  `yaml:",inline"`
	Charge Charge `json:"charge" yaml:"charge"`
}

// LevelMeta describes a level for display purposes.
type LevelMeta struct {
	Rows    int    `json:"rows" yaml:"rows"`
	Columns int    `json:"columns" yaml:"columns"`
	Name    string `json:"name" yaml:"name"`
	Author  string `json:"author" yaml:"author"`
}

// LevelDefinition is the immutable template of a level and the canonical reset point.
type LevelDefinition struct {
	ID         string      `json:"id" yaml:"id"`
	Meta       LevelMeta   `json:"meta" yaml:"meta"`
	Containers []Container `json:"containers" yaml:"containers"`
	Particles  []Particle  `json:"particles" yaml:"particles"`
	GoalSteps  int         `json:"goalSteps" yaml:"goal"`
}

// Clone returns a deep copy of the definition.
func (d *LevelDefinition) Clone() *LevelDefinition {
	if d == nil {
		return nil
	}
	clone := *d
	clone.Containers = append([]Container(nil), d.Containers...)
	clone.Particles = append([]Particle(nil), d.Particles...)
	return &clone
}

// AssignParticleIDs numbers particles in definition order, starting at 0.
func (d *LevelDefinition) AssignParticleIDs() {
	for i := range d.Particles {
		d.Particles[i].ID = ParticleID(i)
	}
}

// EnsureParticleIDs renumbers particles when two of them share an id, which
// is what a definition built without ids looks like. It reports whether ids
// were reassigned.
func (d *LevelDefinition) EnsureParticleIDs() bool {
	seen := make(map[ParticleID]bool, len(d.Particles))
	for _, p := range d.Particles {
		if seen[p.ID] {
			d.AssignParticleIDs()
			return true
		}
		seen[p.ID] = true
	}
	return false
}
