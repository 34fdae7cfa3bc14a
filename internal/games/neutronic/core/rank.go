package core

import "errors"

// Rank grades a solved level against its goal.
type Rank uint8

const (
	RankPass Rank = iota
	RankPerfect
)

// String returns the display name of the rank.
func (r Rank) String() string {
	if r == RankPerfect {
		return "Perfect"
	}
	return "Pass"
}

// RankFor returns Perfect when steps does not exceed goal, Pass otherwise.
func RankFor(steps, goal int) Rank {
	if steps <= goal {
		return RankPerfect
	}
	return RankPass
}

var (
	// ErrPairingIntegrity is returned when a move would pass through a portal
	// whose pairing group does not contain exactly one partner.
	ErrPairingIntegrity = errors.New("core: portal pairing integrity fault")

	// ErrUnknownParticle is returned when a move names a particle that is not on the board.
	ErrUnknownParticle = errors.New("core: unknown particle")
)
