package levels_test

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/vovakirdan/neutronic/internal/games/neutronic/core"
	"github.com/vovakirdan/neutronic/internal/games/neutronic/levels"
	"github.com/vovakirdan/neutronic/internal/games/neutronic/levels/formats"
	"github.com/vovakirdan/neutronic/internal/games/neutronic/solver"
)

// getTestdataPath returns path to testdata/levels.
func getTestdataPath() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "testdata", "levels")
}

func TestLoaderLoadAll(t *testing.T) {
	loader := levels.NewLoader(getTestdataPath())

	lvls, err := loader.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}

	ids := make([]string, len(lvls))
	for i, l := range lvls {
		ids[i] = l.ID
	}
	want := []string{"alpha", "beta", "gamma"}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids = %v, want %v", ids, want)
			break
		}
	}
}

func TestLoaderYAMLGrid(t *testing.T) {
	loader := levels.NewLoader(getTestdataPath())
	lvl, err := loader.LoadByID("alpha")
	if err != nil {
		t.Fatalf("LoadByID failed: %v", err)
	}

	if lvl.Meta.Name != "Alpha" || lvl.Meta.Author != "tests" {
		t.Errorf("meta = %+v", lvl.Meta)
	}
	if lvl.Meta.Rows != 3 || lvl.Meta.Columns != 4 {
		t.Errorf("size = %dx%d, want 3x4", lvl.Meta.Rows, lvl.Meta.Columns)
	}
	if len(lvl.Containers) != 4 || len(lvl.Particles) != 2 {
		t.Errorf("containers=%d particles=%d", len(lvl.Containers), len(lvl.Particles))
	}
	if lvl.Particles[1].Charge != core.Negative || lvl.Particles[1].Coord != core.C(0, 3) {
		t.Errorf("particle 1 = %+v", lvl.Particles[1])
	}
	if lvl.Particles[0].ID != 0 || lvl.Particles[1].ID != 1 {
		t.Error("particle ids should follow definition order")
	}
	if lvl.GoalSteps != 3 {
		t.Errorf("goal = %d", lvl.GoalSteps)
	}
}

func TestLoaderJSONExport(t *testing.T) {
	loader := levels.NewLoader(getTestdataPath())
	lvl, err := loader.LoadByID("beta")
	if err != nil {
		t.Fatalf("LoadByID failed: %v", err)
	}
	portals := 0
	for _, c := range lvl.Containers {
		if c.IsPortal() {
			portals++
		}
	}
	if portals != 2 {
		t.Errorf("expected 2 portals, got %d", portals)
	}
	if lvl.Particles[0].Charge != core.Positive || lvl.Particles[1].Charge != core.Negative {
		t.Error("red should map to positive and blue to negative")
	}
}

func TestLoaderSanitizes(t *testing.T) {
	loader := levels.NewLoader(getTestdataPath())
	lvl, err := loader.LoadByID("gamma")
	if err != nil {
		t.Fatalf("LoadByID failed: %v", err)
	}
	if len(lvl.Report.DroppedPortals) != 1 || lvl.Report.DroppedPortals[0] != core.C(0, 3) {
		t.Errorf("dropped portals = %v", lvl.Report.DroppedPortals)
	}
	if len(lvl.Report.DroppedParticles) != 1 || lvl.Report.DroppedParticles[0] != core.C(4, 4) {
		t.Errorf("dropped particles = %v", lvl.Report.DroppedParticles)
	}
	if len(lvl.Particles) != 2 {
		t.Errorf("particles = %d, want 2", len(lvl.Particles))
	}
}

func TestLoaderMissingLevel(t *testing.T) {
	loader := levels.NewLoader(getTestdataPath())
	if _, err := loader.LoadByID("nope"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestValidate(t *testing.T) {
	base := func() *core.LevelDefinition {
		def := &core.LevelDefinition{
			Containers: []core.Container{
				core.NewBoard(core.C(0, 0)),
				core.NewPortal(core.C(0, 1), 1),
				core.NewPortal(core.C(0, 2), 1),
			},
			Particles: []core.Particle{
				{Coord: core.C(0, 0), Charge: core.Positive},
				{Coord: core.C(0, 2), Charge: core.Negative},
			},
			GoalSteps: 1,
		}
		def.AssignParticleIDs()
		return def
	}

	tests := []struct {
		name   string
		mutate func(*core.LevelDefinition)
		code   string
	}{
		{"valid", func(*core.LevelDefinition) {}, ""},
		{"duplicate container", func(d *core.LevelDefinition) {
			d.Containers = append(d.Containers, core.NewBoard(core.C(0, 0)))
		}, "DUPLICATE_CONTAINER"},
		{"unpaired portal", func(d *core.LevelDefinition) {
			d.Containers = append(d.Containers, core.NewPortal(core.C(5, 5), 1))
		}, "UNPAIRED_PORTAL"},
		{"orphan particle", func(d *core.LevelDefinition) {
			d.Particles = append(d.Particles, core.Particle{ID: 9, Coord: core.C(7, 7)})
		}, "ORPHAN_PARTICLE"},
		{"stacked charge", func(d *core.LevelDefinition) {
			d.Particles = append(d.Particles, core.Particle{ID: 9, Coord: core.C(0, 0), Charge: core.Positive})
		}, "STACKED_CHARGE"},
		{"opposite charges may share", func(d *core.LevelDefinition) {
			d.Particles = append(d.Particles, core.Particle{ID: 9, Coord: core.C(0, 0), Charge: core.Negative})
		}, ""},
		{"negative goal", func(d *core.LevelDefinition) {
			d.GoalSteps = -1
		}, "INVALID_GOAL"},
		{"no particles", func(d *core.LevelDefinition) {
			d.Particles = nil
		}, "EMPTY_LEVEL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := base()
			tt.mutate(def)
			err := levels.Validate(def)
			if tt.code == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			var ve levels.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Code != tt.code {
				t.Errorf("code = %s, want %s", ve.Code, tt.code)
			}
		})
	}
}

func TestJSONRoundTrip(t *testing.T) {
	loader := levels.NewLoader(getTestdataPath())
	lvl, err := loader.LoadByID("alpha")
	if err != nil {
		t.Fatalf("LoadByID failed: %v", err)
	}
	data, err := formats.EncodeJSON(lvl.LevelDefinition)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := formats.ParseJSON(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(back.Containers) != len(lvl.Containers) || len(back.Particles) != len(lvl.Particles) {
		t.Fatalf("round trip lost entities: %+v", back)
	}
	for i, p := range back.Particles {
		if p != lvl.Particles[i] {
			t.Errorf("particle %d = %+v, want %+v", i, p, lvl.Particles[i])
		}
	}
	if back.GoalSteps != lvl.GoalSteps || back.Meta != lvl.Meta || back.ID != lvl.ID {
		t.Errorf("round trip changed level fields: %+v", back)
	}
}

func TestBuiltinLevelsSolvableWithinGoal(t *testing.T) {
	lvls, err := levels.NewBuiltinLoader().LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(lvls) < 8 {
		t.Fatalf("expected 8 builtin levels, got %d", len(lvls))
	}

	for _, lvl := range lvls {
		t.Run(lvl.ID, func(t *testing.T) {
			if !lvl.Report.Empty() {
				t.Errorf("builtin level needed sanitizing: %+v", lvl.Report)
			}
			sol, err := solver.Solve(context.Background(), lvl.LevelDefinition, solver.DefaultOptions())
			if err != nil {
				t.Fatalf("solve: %v", err)
			}
			if sol.Steps > lvl.GoalSteps {
				t.Errorf("shortest solution %d exceeds goal %d", sol.Steps, lvl.GoalSteps)
			}
		})
	}
}

func TestSanitizeDroppingEveryParticleFailsValidation(t *testing.T) {
	def := &core.LevelDefinition{
		Containers: []core.Container{core.NewBoard(core.C(0, 0))},
		Particles: []core.Particle{
			{Coord: core.C(3, 3), Charge: core.Positive},
			{Coord: core.C(4, 4), Charge: core.Negative},
		},
	}
	def.AssignParticleIDs()

	report := levels.Sanitize(def)
	if len(report.DroppedParticles) != 2 {
		t.Fatalf("dropped particles = %v", report.DroppedParticles)
	}
	var ve levels.ValidationError
	if err := levels.Validate(def); !errors.As(err, &ve) || ve.Code != "EMPTY_LEVEL" {
		t.Errorf("Validate() = %v, want EMPTY_LEVEL", err)
	}
}
