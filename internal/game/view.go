package game

import "github.com/lox/chipswap/internal/deck"

// RoomState is a per-recipient projection of a room, safe to serialise and
// send: every player other than the recipient has their hand emptied unless
// a reveal has occurred.
type RoomState struct {
	Started        bool                     `json:"started"`
	BettingRound   BettingRound             `json:"bettingRound"`
	CommunityCards []deck.Card              `json:"communityCards"`
	ChipHistory    []ChipSnapshot           `json:"chipHistory"`
	Revealed       bool                     `json:"revealed"`
	Result         Result                   `json:"result,omitempty"`
	Players        map[ConnectionID]*Player `json:"players"`
}

// ViewFor projects the room for one recipient. The returned state shares no
// mutable data with the room.
func (r *Room) ViewFor(recipient ConnectionID) *RoomState {
	players := make(map[ConnectionID]*Player, len(r.players))
	for id, p := range r.players {
		if id == recipient || r.revealed {
			players[id] = p.clone()
		} else {
			players[id] = p.redacted()
		}
	}

	community := make([]deck.Card, len(r.community))
	copy(community, r.community)

	return &RoomState{
		Started:        r.started,
		BettingRound:   r.round,
		CommunityCards: community,
		ChipHistory:    r.chipHistory,
		Revealed:       r.revealed,
		Result:         r.result,
		Players:        players,
	}
}

// LobbyView returns the full player mapping with every hand emptied. Lobby
// updates are identical for all recipients and must carry no hidden cards.
func (r *Room) LobbyView() map[ConnectionID]*Player {
	players := make(map[ConnectionID]*Player, len(r.players))
	for id, p := range r.players {
		players[id] = p.redacted()
	}
	return players
}

// RevealedView returns the full player mapping with all hands visible, used
// once hands are revealed.
func (r *Room) RevealedView() map[ConnectionID]*Player {
	players := make(map[ConnectionID]*Player, len(r.players))
	for id, p := range r.players {
		players[id] = p.clone()
	}
	return players
}
