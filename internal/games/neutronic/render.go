package neutronic

import (
	"fmt"

	platformcore "github.com/vovakirdan/neutronic/internal/core"
	"github.com/vovakirdan/neutronic/internal/games/neutronic/core"
)

const (
	hudHeight = 4
	cellW     = 3
)

// bounds is the lattice area covered by containers.
type bounds struct {
	minRow, maxRow int
	minCol, maxCol int
}

func (b bounds) rows() int { return b.maxRow - b.minRow + 1 }
func (b bounds) cols() int { return b.maxCol - b.minCol + 1 }

// latticeBounds spans the level's declared size and every container.
func latticeBounds(def *core.LevelDefinition, state *core.GameState) bounds {
	b := bounds{maxRow: def.Meta.Rows - 1, maxCol: def.Meta.Columns - 1}
	for _, c := range state.Containers {
		b.minRow = min(b.minRow, c.Row)
		b.maxRow = max(b.maxRow, c.Row)
		b.minCol = min(b.minCol, c.Column)
		b.maxCol = max(b.maxCol, c.Column)
	}
	for _, p := range state.Particles {
		b.minRow = min(b.minRow, p.Row)
		b.maxRow = max(b.maxRow, p.Row)
		b.minCol = min(b.minCol, p.Column)
		b.maxCol = max(b.maxCol, p.Column)
	}
	return b
}

// Render draws the game to the screen.
func (g *Game) Render(dst *platformcore.Screen) {
	dst.Clear()
	g.renderHUD(dst)

	if g.engine == nil {
		g.renderOverlay(dst, "No levels found", g.message)
		return
	}

	b := latticeBounds(g.engine.Definition(), g.engine.State())
	boxW := b.cols()*cellW + 2
	boxH := b.rows() + 2
	if boxW > dst.Width() || boxH+hudHeight+1 > dst.Height() {
		g.renderOverlay(dst, "Window too small", "Resize to continue")
		return
	}

	area := platformcore.NewRect(0, hudHeight, dst.Width(), dst.Height()-hudHeight-1)
	box := area.CenterIn(boxW, boxH)
	dst.DrawBox(box, platformcore.ColorDarkGray)
	g.renderLattice(dst, box.Inset(1), b)

	if g.message != "" {
		dst.DrawTextWithColor(1, dst.Height()-1, g.message, platformcore.ColorGray)
	}

	switch {
	case g.paused:
		g.renderOverlay(dst, "Paused", "Press P to continue")
	case g.engine.Won() && !g.playback.Active():
		rank := g.engine.Rank()
		line1 := fmt.Sprintf("Solved in %d steps: %s", g.engine.Steps(), rank)
		g.renderOverlay(dst, line1, "Enter: next level | R: retry")
	}
}

// renderHUD draws the top status bar.
func (g *Game) renderHUD(dst *platformcore.Screen) {
	hud := " Neutronic"
	if l, ok := g.Level(); ok {
		name := l.Meta.Name
		if name == "" {
			name = l.ID
		}
		hud = fmt.Sprintf(" Neutronic | %s (%d/%d) | Steps: %d | Goal: %d",
			name, g.levelIndex+1, len(g.levels), g.engine.Steps(), g.engine.Goal())
		if g.engine.Steps() > g.engine.Goal() {
			hud += " | Pass"
		}
	}
	dst.DrawTextWithColor(0, 0, hud, platformcore.ColorHUD)

	switch {
	case g.Recording():
		dst.DrawTextWithColor(max(dst.Width()-6, 0), 0, "● REC", platformcore.ColorRed)
	case g.PlayingBack():
		dst.DrawTextWithColor(max(dst.Width()-7, 0), 0, "▶ PLAY", platformcore.ColorGreen)
	}

	dst.DrawHLine(0, 1, dst.Width(), '─', platformcore.ColorGray)
	controls := " Arrows: Move | Tab/1-9: Select | H: Hint | C: Record | V: Play | R: Restart | Esc: Menu"
	dst.DrawTextWithColor(0, 2, controls, platformcore.ColorGray)
	dst.DrawHLine(0, 3, dst.Width(), '─', platformcore.ColorGray)
}

// renderLattice draws containers and particles inside r.
func (g *Game) renderLattice(dst *platformcore.Screen, r platformcore.Rect, b bounds) {
	origin := func(c core.Coord) (int, int) {
		return r.X + (c.Column-b.minCol)*cellW, r.Y + (c.Row - b.minRow)
	}

	for _, c := range g.engine.State().Containers {
		x, y := origin(c.Coord)
		if c.IsPortal() {
			dst.SetWithColor(x+1, y, pairRune(c.PairID), platformcore.ColorPortal)
			continue
		}
		dst.SetWithColor(x+1, y, '·', platformcore.ColorBoard)
	}

	q := g.engine.Query()
	for _, p := range g.engine.State().Particles {
		x, y := origin(p.Coord)
		color := platformcore.ColorPositive
		glyph := '+'
		if p.Charge == core.Negative {
			color = platformcore.ColorNegative
			glyph = '−'
		}
		if g.collision[p.Coord] {
			glyph = '*'
			color = platformcore.ColorOrange
		}
		dst.SetWithColor(x+1, y, glyph, color)

		switch {
		case p.ID == g.selected && !g.engine.Won():
			dst.SetCell(x, y, platformcore.Cell{Rune: '[', Color: platformcore.ColorSelection, Bold: true})
			dst.SetCell(x+2, y, platformcore.Cell{Rune: ']', Color: platformcore.ColorSelection, Bold: true})
			if g.Recording() {
				dst.SetCell(x+1, y, platformcore.Cell{Rune: glyph, Color: color, Bg: platformcore.ColorDarkGray})
			}
		case q.HasPortalAt(p.Coord):
			dst.SetWithColor(x, y, '(', platformcore.ColorPortal)
			dst.SetWithColor(x+2, y, ')', platformcore.ColorPortal)
		}
	}
}

// pairRune returns the digit shown for a portal pairing group.
func pairRune(pair int) rune {
	if pair >= 0 && pair <= 9 {
		return rune('0' + pair)
	}
	return '@'
}

// renderOverlay draws a centered overlay message.
func (g *Game) renderOverlay(dst *platformcore.Screen, line1, line2 string) {
	boxW := max(len([]rune(line1)), len([]rune(line2))) + 4
	box := platformcore.NewRect(0, 0, dst.Width(), dst.Height()).CenterIn(boxW, 5)

	dst.DrawRect(box, ' ', platformcore.ColorDefault)
	dst.DrawBox(box, platformcore.ColorWhite)
	dst.DrawTextCentered(box.Y+1, line1, platformcore.ColorBrightWhite)
	dst.DrawTextCentered(box.Y+3, line2, platformcore.ColorGray)
}
