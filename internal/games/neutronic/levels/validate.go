package levels

import (
	"fmt"
	"slices"

	"github.com/vovakirdan/neutronic/internal/games/neutronic/core"
)

// ValidationError contains details about validation failure.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Validate checks the shape of a level definition.
// Checks:
//   - At most one container per cell
//   - Every pairing group holds exactly two portals
//   - Every particle stands on a container
//   - No two particles of the same charge share a cell
//   - Particle ids are unique
//   - The goal is not negative
//   - There is at least one particle
func Validate(def *core.LevelDefinition) error {
	containers := make(map[core.Coord]bool, len(def.Containers))
	pairs := make(map[int]int)
	for _, c := range def.Containers {
		if containers[c.Coord] {
			return ValidationError{
				Code:    "DUPLICATE_CONTAINER",
				Message: fmt.Sprintf("more than one container at %s", c.Coord),
			}
		}
		containers[c.Coord] = true
		if c.IsPortal() {
			pairs[c.PairID]++
		}
	}

	groups := make([]int, 0, len(pairs))
	for id := range pairs {
		groups = append(groups, id)
	}
	slices.Sort(groups)
	for _, id := range groups {
		if pairs[id] != 2 {
			return ValidationError{
				Code:    "UNPAIRED_PORTAL",
				Message: fmt.Sprintf("pairing group %d has %d portals, want 2", id, pairs[id]),
			}
		}
	}

	type slot struct {
		at     core.Coord
		charge core.Charge
	}
	occupied := make(map[slot]bool, len(def.Particles))
	ids := make(map[core.ParticleID]bool, len(def.Particles))
	for _, p := range def.Particles {
		if !containers[p.Coord] {
			return ValidationError{
				Code:    "ORPHAN_PARTICLE",
				Message: fmt.Sprintf("particle %d at %s has no container", p.ID, p.Coord),
			}
		}
		key := slot{at: p.Coord, charge: p.Charge}
		if occupied[key] {
			return ValidationError{
				Code:    "STACKED_CHARGE",
				Message: fmt.Sprintf("two %s particles at %s", p.Charge, p.Coord),
			}
		}
		occupied[key] = true
		if ids[p.ID] {
			return ValidationError{
				Code:    "DUPLICATE_PARTICLE_ID",
				Message: fmt.Sprintf("particle id %d used twice", p.ID),
			}
		}
		ids[p.ID] = true
	}

	if def.GoalSteps < 0 {
		return ValidationError{
			Code:    "INVALID_GOAL",
			Message: fmt.Sprintf("goal %d is negative", def.GoalSteps),
		}
	}

	if len(def.Particles) == 0 {
		return ValidationError{
			Code:    "EMPTY_LEVEL",
			Message: "level has no particles",
		}
	}

	return nil
}

// SanitizeReport lists what Sanitize removed.
type SanitizeReport struct {
	DroppedPortals   []core.Coord
	DroppedParticles []core.Coord
}

// Empty reports whether nothing was removed.
func (r SanitizeReport) Empty() bool {
	return len(r.DroppedPortals) == 0 && len(r.DroppedParticles) == 0
}

// Sanitize applies the editor's cleanup before play: portals whose pairing
// group does not hold exactly two portals are removed, then particles left
// without a container are removed. Particle ids are renumbered.
func Sanitize(def *core.LevelDefinition) SanitizeReport {
	var report SanitizeReport

	pairs := make(map[int]int)
	for _, c := range def.Containers {
		if c.IsPortal() {
			pairs[c.PairID]++
		}
	}
	containers := def.Containers[:0]
	for _, c := range def.Containers {
		if c.IsPortal() && pairs[c.PairID] != 2 {
			report.DroppedPortals = append(report.DroppedPortals, c.Coord)
			continue
		}
		containers = append(containers, c)
	}
	def.Containers = containers

	q := core.NewQuery(&core.GameState{Containers: def.Containers})
	particles := def.Particles[:0]
	for _, p := range def.Particles {
		if !q.HasContainerAt(p.Coord) {
			report.DroppedParticles = append(report.DroppedParticles, p.Coord)
			continue
		}
		particles = append(particles, p)
	}
	def.Particles = particles

	if !report.Empty() {
		def.AssignParticleIDs()
	}
	return report
}
