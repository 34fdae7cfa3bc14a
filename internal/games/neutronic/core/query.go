package core

// Query answers read-only spatial questions about a GameState.
// Levels are small, so every lookup is a linear scan.
type Query struct {
	state *GameState
}

// NewQuery returns a query view over state.
func NewQuery(state *GameState) Query {
	return Query{state: state}
}

// HasBoardAt reports whether a board container sits at c.
func (q Query) HasBoardAt(c Coord) bool {
	container, ok := q.ContainerAt(c)
	return ok && container.Kind == KindBoard
}

// HasPortalAt reports whether a portal container sits at c.
func (q Query) HasPortalAt(c Coord) bool {
	container, ok := q.ContainerAt(c)
	return ok && container.Kind == KindPortal
}

// HasContainerAt reports whether any container sits at c.
func (q Query) HasContainerAt(c Coord) bool {
	_, ok := q.ContainerAt(c)
	return ok
}

// HasParticleWithChargeAt reports whether a particle of the given charge occupies c.
func (q Query) HasParticleWithChargeAt(c Coord, charge Charge) bool {
	_, ok := q.ParticleWithChargeAt(c, charge)
	return ok
}

// ContainerAt returns the container at c.
func (q Query) ContainerAt(c Coord) (Container, bool) {
	for _, container := range q.state.Containers {
		if container.Coord == c {
			return container, true
		}
	}
	return Container{}, false
}

// ParticleAt returns the first particle found at c.
func (q Query) ParticleAt(c Coord) (Particle, bool) {
	for _, p := range q.state.Particles {
		if p.Coord == c {
			return p, true
		}
	}
	return Particle{}, false
}

// ParticleWithChargeAt returns the particle of the given charge at c.
func (q Query) ParticleWithChargeAt(c Coord, charge Charge) (Particle, bool) {
	for _, p := range q.state.Particles {
		if p.Coord == c && p.Charge == charge {
			return p, true
		}
	}
	return Particle{}, false
}

// ParticlesAt returns every particle at c.
func (q Query) ParticlesAt(c Coord) []Particle {
	var out []Particle
	for _, p := range q.state.Particles {
		if p.Coord == c {
			out = append(out, p)
		}
	}
	return out
}

// ParticleByID returns the particle with the given handle.
func (q Query) ParticleByID(id ParticleID) (Particle, bool) {
	for _, p := range q.state.Particles {
		if p.ID == id {
			return p, true
		}
	}
	return Particle{}, false
}

// OtherPortal returns the partner of the portal at c. It fails when c is
// not a portal or when the pairing group does not hold exactly one other portal.
func (q Query) OtherPortal(c Coord) (Container, bool) {
	portal, ok := q.ContainerAt(c)
	if !ok || portal.Kind != KindPortal {
		return Container{}, false
	}

	var partner Container
	found := 0
	for _, container := range q.state.Containers {
		if container.Kind != KindPortal || container.PairID != portal.PairID || container.Coord == c {
			continue
		}
		partner = container
		found++
	}
	if found != 1 {
		return Container{}, false
	}
	return partner, true
}
