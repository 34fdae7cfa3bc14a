// Package solver searches for the shortest move sequence that clears a level.
//
// The search is a depth-first walk bounded by the best solution found so
// far, with a transposition table keyed by the state hash and a
// connectivity cut after every collision. Moves are applied through the
// engine's instant mode, so a solution replays exactly as it was found.
package solver

import (
	"context"
	"errors"
	"fmt"

	"github.com/vovakirdan/neutronic/internal/games/neutronic/core"
	"github.com/vovakirdan/neutronic/internal/games/neutronic/recording"
)

var (
	// ErrNoSolution is returned when no solution exists within the depth bound.
	ErrNoSolution = errors.New("solver: no solution within bound")

	// ErrSearchExhausted is returned when the node budget runs out first.
	ErrSearchExhausted = errors.New("solver: node budget exhausted")
)

// Options bound the search.
type Options struct {
	MaxDepth   int // longest solution considered
	NodeBudget int // positions expanded before giving up; 0 means unlimited
}

// DefaultOptions returns the standard search bounds.
func DefaultOptions() Options {
	return Options{MaxDepth: 30, NodeBudget: 5_000_000}
}

// Solution is the shortest move sequence found.
type Solution struct {
	Steps    int
	Segments []recording.Segment
	Nodes    int
}

// Entry packages the solution as a recording of def.
func (s Solution) Entry(def *core.LevelDefinition) recording.Entry {
	return recording.Entry{
		ID:            recording.NewID(),
		Steps:         s.Steps,
		LevelID:       def.ID,
		LevelName:     def.Meta.Name,
		Author:        def.Meta.Author,
		Segments:      s.Segments,
		LevelSnapshot: def.Clone(),
	}
}

type search struct {
	ctx    context.Context
	engine *core.Engine
	opts   Options

	memo  map[uint64]int
	path  []recording.Step
	best  []recording.Step
	bound int
	nodes int
	err   error
}

// Solve returns the shortest solution of def no longer than opts.MaxDepth.
// A level that starts solved yields an empty solution.
func Solve(ctx context.Context, def *core.LevelDefinition, opts Options) (Solution, error) {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultOptions().MaxDepth
	}

	s := &search{
		ctx:    ctx,
		engine: core.NewEngine(def),
		opts:   opts,
		memo:   make(map[uint64]int),
		bound:  opts.MaxDepth + 1,
	}
	if s.engine.State().Solved() {
		return Solution{}, nil
	}

	s.memo[s.engine.State().Hash()] = 0
	s.dfs(0)

	if s.best == nil {
		if s.err != nil {
			return Solution{Nodes: s.nodes}, s.err
		}
		return Solution{Nodes: s.nodes}, ErrNoSolution
	}
	sol := Solution{
		Steps:    len(s.best),
		Segments: recording.Compress(s.best),
		Nodes:    s.nodes,
	}
	// A budget or cancellation stop still returns the best found so far.
	return sol, s.err
}

func (s *search) dfs(depth int) {
	if s.err != nil || depth+1 >= s.bound {
		return
	}

	ids := make([]core.ParticleID, 0, len(s.engine.State().Particles))
	for _, p := range s.engine.State().Particles {
		ids = append(ids, p.ID)
	}

	for _, id := range ids {
		for _, dir := range core.Dirs {
			if !s.tick() {
				return
			}
			snap := s.engine.Snapshot()
			out, err := s.engine.Move(id, dir, core.ModeInstant)
			if err != nil || out == core.OutcomeRejected {
				continue
			}
			s.path = append(s.path, recording.Step{ParticleIndex: id, Dir: dir})

			switch {
			case s.engine.Won():
				if depth+1 < s.bound {
					s.bound = depth + 1
					s.best = append([]recording.Step(nil), s.path...)
				}
			case out == core.OutcomeCollided && !Connected(s.engine.State()):
			default:
				h := s.engine.State().Hash()
				if seen, ok := s.memo[h]; !ok || seen > depth+1 {
					s.memo[h] = depth + 1
					s.dfs(depth + 1)
				}
			}

			s.path = s.path[:len(s.path)-1]
			s.engine.Restore(snap)
		}
	}
}

// tick counts an expanded node and reports whether the search may continue.
func (s *search) tick() bool {
	if s.err != nil {
		return false
	}
	s.nodes++
	if s.opts.NodeBudget > 0 && s.nodes > s.opts.NodeBudget {
		s.err = fmt.Errorf("%w after %d nodes", ErrSearchExhausted, s.nodes-1)
		return false
	}
	if s.nodes%1024 == 0 {
		if err := s.ctx.Err(); err != nil {
			s.err = err
			return false
		}
	}
	return true
}

// Connected reports whether every particle can still reach the first one,
// walking across adjacent containers and through portal pairs. A level
// that fails this check can no longer be cleared.
func Connected(state *core.GameState) bool {
	if len(state.Particles) == 0 {
		return true
	}
	q := core.NewQuery(state)

	start := state.Particles[0].Coord
	visited := map[core.Coord]bool{start: true}
	queue := []core.Coord{start}
	visit := func(c core.Coord) {
		if !visited[c] && q.HasContainerAt(c) {
			visited[c] = true
			queue = append(queue, c)
		}
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, dir := range core.Dirs {
			visit(cur.Step(dir))
		}
		if other, ok := q.OtherPortal(cur); ok {
			visit(other.Coord)
		}
	}

	for _, p := range state.Particles {
		if !visited[p.Coord] {
			return false
		}
	}
	return true
}
