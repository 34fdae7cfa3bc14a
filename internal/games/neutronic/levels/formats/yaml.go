// Package formats provides pluggable level file format parsers.
package formats

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/neutronic/internal/games/neutronic/core"
)

// YAMLLevel represents the YAML structure for a level file.
//
// The layout can be drawn in Grid, one text line per row:
//
//	.  board
//	+  positive particle on a board
//	-  negative particle on a board
//	0-9  portal of that pairing group
//	space or #  no container
//
// Containers and Particles are added on top of the drawn grid, which is how
// particles that start on a portal are expressed.
type YAMLLevel struct {
	ID         string          `yaml:"id"`
	Name       string          `yaml:"name"`
	Author     string          `yaml:"author,omitempty"`
	Size       YAMLSize        `yaml:"size,omitempty"`
	Goal       int             `yaml:"goal"`
	Grid       string          `yaml:"grid,omitempty"`
	Containers []YAMLContainer `yaml:"containers,omitempty"`
	Particles  []YAMLParticle  `yaml:"particles,omitempty"`
}

// YAMLSize represents the nominal map dimensions.
type YAMLSize struct {
	Rows    int `yaml:"rows"`
	Columns int `yaml:"columns"`
}

// YAMLContainer represents one explicit container.
type YAMLContainer struct {
	Row    int    `yaml:"row"`
	Column int    `yaml:"column"`
	Kind   string `yaml:"kind,omitempty"` // board (default) or portal
	Pair   int    `yaml:"pair,omitempty"`
}

// YAMLParticle represents one explicit particle.
type YAMLParticle struct {
	Row    int    `yaml:"row"`
	Column int    `yaml:"column"`
	Charge string `yaml:"charge"`
}

// ParseYAML parses a YAML level file.
func ParseYAML(data []byte) (core.LevelDefinition, error) {
	var yl YAMLLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return core.LevelDefinition{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	def := core.LevelDefinition{
		ID: yl.ID,
		Meta: core.LevelMeta{
			Rows:    yl.Size.Rows,
			Columns: yl.Size.Columns,
			Name:    yl.Name,
			Author:  yl.Author,
		},
		GoalSteps: yl.Goal,
	}

	if yl.Grid != "" {
		if err := parseGrid(yl.Grid, &def); err != nil {
			return core.LevelDefinition{}, err
		}
	}

	for _, c := range yl.Containers {
		coord := core.C(c.Row, c.Column)
		switch strings.ToLower(c.Kind) {
		case "", "board":
			def.Containers = append(def.Containers, core.NewBoard(coord))
		case "portal":
			def.Containers = append(def.Containers, core.NewPortal(coord, c.Pair))
		default:
			return core.LevelDefinition{}, fmt.Errorf("container at %s: unknown kind %q", coord, c.Kind)
		}
	}

	for _, p := range yl.Particles {
		charge, ok := core.ParseCharge(p.Charge)
		if !ok {
			return core.LevelDefinition{}, fmt.Errorf("particle at %s: unknown charge %q", core.C(p.Row, p.Column), p.Charge)
		}
		def.Particles = append(def.Particles, core.Particle{Coord: core.C(p.Row, p.Column), Charge: charge})
	}

	fitSize(&def)
	def.AssignParticleIDs()
	return def, nil
}

// EncodeYAML renders a definition as an explicit YAML level (no drawn grid).
func EncodeYAML(def *core.LevelDefinition) ([]byte, error) {
	yl := YAMLLevel{
		ID:     def.ID,
		Name:   def.Meta.Name,
		Author: def.Meta.Author,
		Size:   YAMLSize{Rows: def.Meta.Rows, Columns: def.Meta.Columns},
		Goal:   def.GoalSteps,
	}
	for _, c := range def.Containers {
		yc := YAMLContainer{Row: c.Row, Column: c.Column, Kind: c.Kind.String()}
		if c.IsPortal() {
			yc.Pair = c.PairID
		}
		yl.Containers = append(yl.Containers, yc)
	}
	for _, p := range def.Particles {
		yl.Particles = append(yl.Particles, YAMLParticle{Row: p.Row, Column: p.Column, Charge: p.Charge.String()})
	}
	return yaml.Marshal(yl)
}

// parseGrid adds the containers and particles drawn in grid to def.
func parseGrid(grid string, def *core.LevelDefinition) error {
	lines := strings.Split(strings.Trim(grid, "\n"), "\n")
	for row, line := range lines {
		for col, ch := range []rune(line) {
			coord := core.C(row, col)
			switch {
			case ch == ' ' || ch == '#':
			case ch == '.':
				def.Containers = append(def.Containers, core.NewBoard(coord))
			case ch == '+':
				def.Containers = append(def.Containers, core.NewBoard(coord))
				def.Particles = append(def.Particles, core.Particle{Coord: coord, Charge: core.Positive})
			case ch == '-':
				def.Containers = append(def.Containers, core.NewBoard(coord))
				def.Particles = append(def.Particles, core.Particle{Coord: coord, Charge: core.Negative})
			case ch >= '0' && ch <= '9':
				def.Containers = append(def.Containers, core.NewPortal(coord, int(ch-'0')))
			default:
				return fmt.Errorf("grid row %d column %d: unexpected %q", row, col, ch)
			}
		}
	}
	return nil
}

// fitSize grows the nominal size to cover every container.
func fitSize(def *core.LevelDefinition) {
	for _, c := range def.Containers {
		if c.Row+1 > def.Meta.Rows {
			def.Meta.Rows = c.Row + 1
		}
		if c.Column+1 > def.Meta.Columns {
			def.Meta.Columns = c.Column + 1
		}
	}
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml", ".json"}
}
