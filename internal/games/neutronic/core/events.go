package core

// RejectReason explains why a move intent was refused.
type RejectReason uint8

const (
	ReasonNone RejectReason = iota
	ReasonNoContainer
	ReasonSameCharge
	ReasonFoldThrough      // same-charge particle waits on the paired portal
	ReasonPairingIntegrity // portal without exactly one partner
	ReasonLocked           // deferred finalization pending
	ReasonUnknownParticle
)

// String returns a human-readable reason.
func (r RejectReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonNoContainer:
		return "no container"
	case ReasonSameCharge:
		return "same charge"
	case ReasonFoldThrough:
		return "same charge behind portal"
	case ReasonPairingIntegrity:
		return "unpaired portal"
	case ReasonLocked:
		return "locked"
	case ReasonUnknownParticle:
		return "unknown particle"
	default:
		return "unknown"
	}
}

// Event is emitted by the engine as a move is validated, committed and resolved.
type Event interface {
	isEvent()
}

// Rejected reports an invalid move. State and step counter are untouched.
type Rejected struct {
	Particle ParticleID
	Dir      Dir
	Reason   RejectReason
}

// MoveCommitted reports that a particle's position was committed and the
// step counter incremented. Recorders capture these.
type MoveCommitted struct {
	Particle ParticleID
	Dir      Dir
	Steps    int
}

// Moved reports a plain move onto a free container.
type Moved struct {
	Particle ParticleID
	From     Coord
	To       Coord
}

// Collided reports an annihilation at At. In deferred mode it is emitted
// when the collision is decided; the removal follows after the dropout delay.
type Collided struct {
	At        Coord
	Particles []ParticleID
}

// Transported reports a portal jump that did not end in a collision.
type Transported struct {
	Particle ParticleID
	From     Coord
	To       Coord
}

// Won reports that the last particle was eliminated.
type Won struct {
	Rank  Rank
	Steps int
}

func (Rejected) isEvent()      {}
func (MoveCommitted) isEvent() {}
func (Moved) isEvent()         {}
func (Collided) isEvent()      {}
func (Transported) isEvent()   {}
func (Won) isEvent()           {}

// Listener receives engine events synchronously, in emission order.
type Listener interface {
	HandleEvent(Event)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(Event)

// HandleEvent calls f(ev).
func (f ListenerFunc) HandleEvent(ev Event) {
	f(ev)
}
