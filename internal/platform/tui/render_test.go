package tui

import (
	"strings"
	"testing"

	"github.com/vovakirdan/neutronic/internal/core"
)

func TestRenderScreenKeepsText(t *testing.T) {
	s := core.NewScreen(6, 2)
	s.DrawTextWithColor(0, 0, "ab", core.ColorRed)
	s.SetCell(2, 0, core.Cell{Rune: '[', Color: core.ColorYellow, Bold: true})
	s.SetCell(3, 0, core.Cell{Rune: '+', Color: core.ColorRed, Bg: core.ColorDarkGray})
	s.DrawText(0, 1, "cd")

	out := RenderScreen(s)
	rows := strings.Split(out, "\n")
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	for _, want := range []string{"ab", "[", "+", "cd"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q: %q", want, out)
		}
	}
}

func TestStyleOfSeparatesRuns(t *testing.T) {
	plain := styleOf(core.Cell{Rune: 'a', Color: core.ColorRed})
	tests := []struct {
		name string
		cell core.Cell
		same bool
	}{
		{"same color other rune", core.Cell{Rune: 'b', Color: core.ColorRed}, true},
		{"bold", core.Cell{Rune: 'a', Color: core.ColorRed, Bold: true}, false},
		{"background", core.Cell{Rune: 'a', Color: core.ColorRed, Bg: core.ColorGray}, false},
		{"other color", core.Cell{Rune: 'a', Color: core.ColorGreen}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := styleOf(tt.cell) == plain; got != tt.same {
				t.Errorf("same style = %v, want %v", got, tt.same)
			}
		})
	}
}
