package game

import "github.com/lox/chipswap/internal/deck"

// ConnectionID is the opaque identity of a live client connection. The game
// layer never inspects it; the transport decides how one is minted.
type ConnectionID string

// Player is one seat in a room. Hand holds zero or exactly two cards; Chip
// is the ordinal token assigned at deal time, 0 before dealing.
type Player struct {
	ID       ConnectionID `json:"id"`
	Username string       `json:"username"`
	Hand     []deck.Card  `json:"hand"`
	Chip     int          `json:"chip,omitempty"`
	IsHost   bool         `json:"isHost"`
}

// clone returns a copy of the player with its own hand slice.
func (p *Player) clone() *Player {
	out := *p
	out.Hand = make([]deck.Card, len(p.Hand))
	copy(out.Hand, p.Hand)
	return &out
}

// redacted returns a copy of the player with the hand emptied.
func (p *Player) redacted() *Player {
	out := *p
	out.Hand = []deck.Card{}
	return &out
}
