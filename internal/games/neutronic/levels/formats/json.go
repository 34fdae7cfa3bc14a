package formats

import (
	"encoding/json"
	"fmt"

	"github.com/vovakirdan/neutronic/internal/games/neutronic/core"
)

// JSONLevel is the level export format of the web editor.
type JSONLevel struct {
	Meta    JSONMeta    `json:"meta"`
	Content JSONContent `json:"content"`
}

// JSONMeta holds the export's descriptive fields.
type JSONMeta struct {
	LevelID string `json:"levelId,omitempty"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
	Name    string `json:"name"`
	Author  string `json:"author"`
}

// JSONContent holds the playable part of an export.
type JSONContent struct {
	Containers []JSONContainer `json:"containers"`
	Particles  []JSONParticle  `json:"particles"`
	Goal       int             `json:"goal"`
}

// JSONContainer is a board or portal; Index is the pairing group of a portal.
type JSONContainer struct {
	Type   string `json:"type"`
	Row    int    `json:"row"`
	Column int    `json:"column"`
	Index  int    `json:"index,omitempty"`
}

// JSONParticle is a particle; Color is red (positive) or blue (negative).
type JSONParticle struct {
	Row    int    `json:"row"`
	Column int    `json:"column"`
	Color  string `json:"color"`
}

// ParseJSON parses a web editor export.
func ParseJSON(data []byte) (core.LevelDefinition, error) {
	var jl JSONLevel
	if err := json.Unmarshal(data, &jl); err != nil {
		return core.LevelDefinition{}, fmt.Errorf("json unmarshal: %w", err)
	}
	return jl.Definition()
}

// IsJSONExport reports whether data looks like a web editor export.
func IsJSONExport(data []byte) bool {
	var probe struct {
		Content *json.RawMessage `json:"content"`
	}
	return json.Unmarshal(data, &probe) == nil && probe.Content != nil
}

// Definition converts the export into a level definition.
func (jl JSONLevel) Definition() (core.LevelDefinition, error) {
	def := core.LevelDefinition{
		ID: jl.Meta.LevelID,
		Meta: core.LevelMeta{
			Rows:    jl.Meta.Rows,
			Columns: jl.Meta.Columns,
			Name:    jl.Meta.Name,
			Author:  jl.Meta.Author,
		},
		GoalSteps: jl.Content.Goal,
	}

	for _, c := range jl.Content.Containers {
		coord := core.C(c.Row, c.Column)
		switch c.Type {
		case "board":
			def.Containers = append(def.Containers, core.NewBoard(coord))
		case "portal":
			def.Containers = append(def.Containers, core.NewPortal(coord, c.Index))
		default:
			return core.LevelDefinition{}, fmt.Errorf("container at %s: unknown type %q", coord, c.Type)
		}
	}

	for _, p := range jl.Content.Particles {
		charge, ok := core.ParseCharge(p.Color)
		if !ok {
			return core.LevelDefinition{}, fmt.Errorf("particle at %s: unknown color %q", core.C(p.Row, p.Column), p.Color)
		}
		def.Particles = append(def.Particles, core.Particle{Coord: core.C(p.Row, p.Column), Charge: charge})
	}

	def.AssignParticleIDs()
	return def, nil
}

// EncodeJSON renders a definition in the web editor export format.
func EncodeJSON(def *core.LevelDefinition) ([]byte, error) {
	jl := JSONLevel{
		Meta: JSONMeta{
			LevelID: def.ID,
			Rows:    def.Meta.Rows,
			Columns: def.Meta.Columns,
			Name:    def.Meta.Name,
			Author:  def.Meta.Author,
		},
		Content: JSONContent{
			Containers: []JSONContainer{},
			Particles:  []JSONParticle{},
			Goal:       def.GoalSteps,
		},
	}
	for _, c := range def.Containers {
		jc := JSONContainer{Type: c.Kind.String(), Row: c.Row, Column: c.Column}
		if c.IsPortal() {
			jc.Index = c.PairID
		}
		jl.Content.Containers = append(jl.Content.Containers, jc)
	}
	for _, p := range def.Particles {
		color := "red"
		if p.Charge == core.Negative {
			color = "blue"
		}
		jl.Content.Particles = append(jl.Content.Particles, JSONParticle{Row: p.Row, Column: p.Column, Color: color})
	}
	return json.MarshalIndent(jl, "", "  ")
}
