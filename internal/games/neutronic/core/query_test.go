package core_test

import (
	"testing"

	"github.com/vovakirdan/neutronic/internal/games/neutronic/core"
)

func TestQueryLookups(t *testing.T) {
	state := &core.GameState{
		Containers: []core.Container{
			core.NewBoard(core.C(0, 0)),
			core.NewPortal(core.C(0, 1), 1),
			core.NewPortal(core.C(3, 3), 1),
			core.NewPortal(core.C(2, 0), 2),
		},
		Particles: []core.Particle{
			{ID: 0, Coord: core.C(0, 0), Charge: core.Positive},
			{ID: 1, Coord: core.C(0, 1), Charge: core.Negative},
		},
	}
	q := core.NewQuery(state)

	if !q.HasBoardAt(core.C(0, 0)) || q.HasBoardAt(core.C(0, 1)) {
		t.Error("HasBoardAt mismatch")
	}
	if !q.HasPortalAt(core.C(0, 1)) || q.HasPortalAt(core.C(0, 0)) {
		t.Error("HasPortalAt mismatch")
	}
	if q.HasContainerAt(core.C(9, 9)) {
		t.Error("no container expected at (9,9)")
	}
	if !q.HasParticleWithChargeAt(core.C(0, 0), core.Positive) {
		t.Error("expected positive at (0,0)")
	}
	if q.HasParticleWithChargeAt(core.C(0, 0), core.Negative) {
		t.Error("no negative expected at (0,0)")
	}
	if p, ok := q.ParticleByID(1); !ok || p.Coord != core.C(0, 1) {
		t.Errorf("ParticleByID(1) = %v, %v", p, ok)
	}
	if got := len(q.ParticlesAt(core.C(0, 1))); got != 1 {
		t.Errorf("ParticlesAt = %d, want 1", got)
	}

	tests := []struct {
		name string
		at   core.Coord
		want core.Coord
		ok   bool
	}{
		{"paired forward", core.C(0, 1), core.C(3, 3), true},
		{"paired backward", core.C(3, 3), core.C(0, 1), true},
		{"lonely portal", core.C(2, 0), core.Coord{}, false},
		{"board", core.C(0, 0), core.Coord{}, false},
		{"empty cell", core.C(7, 7), core.Coord{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := q.OtherPortal(tt.at)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got.Coord != tt.want {
				t.Errorf("partner = %v, want %v", got.Coord, tt.want)
			}
		})
	}
}

func TestChargeAndDirParsing(t *testing.T) {
	for _, s := range []string{"red", "positive", "+"} {
		if c, ok := core.ParseCharge(s); !ok || c != core.Positive {
			t.Errorf("ParseCharge(%q) = %v, %v", s, c, ok)
		}
	}
	for _, s := range []string{"blue", "Negative", "-"} {
		if c, ok := core.ParseCharge(s); !ok || c != core.Negative {
			t.Errorf("ParseCharge(%q) = %v, %v", s, c, ok)
		}
	}
	if core.Positive.Negate() != core.Negative {
		t.Error("negate positive")
	}
	for _, d := range core.Dirs {
		parsed, ok := core.ParseDir(d.String())
		if !ok || parsed != d {
			t.Errorf("ParseDir(%q) = %v", d.String(), parsed)
		}
	}
	if _, ok := core.ParseDir("sideways"); ok {
		t.Error("ParseDir accepted garbage")
	}
}

func TestStateHashIgnoresIdentity(t *testing.T) {
	a := &core.GameState{
		Containers: []core.Container{core.NewBoard(core.C(0, 0)), core.NewBoard(core.C(0, 1))},
		Particles: []core.Particle{
			{ID: 0, Coord: core.C(0, 0), Charge: core.Positive},
			{ID: 1, Coord: core.C(0, 1), Charge: core.Positive},
		},
	}
	b := a.Clone()
	b.Particles[0].ID, b.Particles[1].ID = 1, 0
	b.Containers[0], b.Containers[1] = b.Containers[1], b.Containers[0]

	if a.Hash() != b.Hash() {
		t.Error("hash should ignore ordering and identity")
	}

	b.Particles[1].Charge = core.Negative
	if a.Hash() == b.Hash() {
		t.Error("hash should change with charge")
	}
}
